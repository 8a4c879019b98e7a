package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/panbanda/reaper/internal/output"
	"github.com/panbanda/reaper/internal/service/analysis"
	scannerSvc "github.com/panbanda/reaper/internal/service/scanner"
	"github.com/panbanda/reaper/pkg/models"
	"github.com/urfave/cli/v2"
)

func pluginsCmd() *cli.Command {
	return &cli.Command{
		Name:      "plugins",
		Usage:     "List framework plugins and the ones a project selects",
		ArgsUsage: "[path]",
		Action:    runPluginsCmd,
	}
}

func runPluginsCmd(c *cli.Context) error {
	cfg := appConfig(c)

	root, err := filepath.Abs(getPaths(c)[0])
	if err != nil {
		return &scannerSvc.PathError{Path: getPaths(c)[0], Err: err}
	}
	// Only the root matters; the lockfile is read from it.
	scan := &scannerSvc.ScanResult{Root: root}
	report, err := analysis.New(analysis.WithConfig(cfg), analysis.WithLogger(appLogger(c))).Plugins(scan)
	if err != nil {
		return err
	}

	out, err := newOutput(c, cfg)
	if err != nil {
		return err
	}
	defer out.Close()

	return out.Output(pluginsTable(report))
}

func pluginsTable(r *models.PluginReport) *output.Table {
	rows := make([][]string, 0, len(r.Plugins))
	for _, p := range r.Plugins {
		mark := ""
		if p.Selected {
			mark = "yes"
		}
		rows = append(rows, []string{p.Name, strings.Join(p.Gems, ", "), mark})
	}
	return output.NewTable(
		"Plugins",
		[]string{"Plugin", "Gems", "Selected"},
		rows,
		[]string{fmt.Sprintf("Lockfile: %s", r.Lockfile), "", strings.Join(r.Selected, ", ")},
		r,
	)
}
