package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/panbanda/reaper/internal/output"
	"github.com/panbanda/reaper/internal/progress"
	"github.com/panbanda/reaper/internal/service/analysis"
	scannerSvc "github.com/panbanda/reaper/internal/service/scanner"
	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
	"github.com/panbanda/reaper/pkg/config"
	"github.com/panbanda/reaper/pkg/models"
	"github.com/urfave/cli/v2"
)

func deadcodeCmd() *cli.Command {
	return &cli.Command{
		Name:      "deadcode",
		Aliases:   []string{"dc"},
		Usage:     "Report classes, modules, constants and methods nothing references",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "show-ignored",
				Usage: "Also list ignored definitions with the rule that ignored them",
			},
			&cli.StringFlag{
				Name:  "ref",
				Usage: "Analyze a git revision instead of the working tree (first path only)",
			},
			&cli.BoolFlag{
				Name:  "fail-on-dead",
				Usage: "Exit with status 2 when dead code is found",
			},
		},
		Action: runDeadCodeCmd,
	}
}

func scanPaths(c *cli.Context, cfg *config.Config) (*scannerSvc.ScanResult, error) {
	scanner := scannerSvc.New(scannerSvc.WithConfig(cfg))
	if ref := c.String("ref"); ref != "" {
		return scanner.ScanRef(getPaths(c)[0], ref)
	}
	return scanner.ScanPaths(getPaths(c))
}

func runDeadCodeCmd(c *cli.Context) error {
	cfg := appConfig(c)
	logger := appLogger(c)

	scanResult, err := scanPaths(c, cfg)
	if err != nil {
		return err
	}

	if len(scanResult.Files) == 0 {
		color.Yellow("No Ruby files found")
		return nil
	}
	logger.Debug("scanned", "files", len(scanResult.Files), "root", scanResult.Root, "ref", scanResult.Ref)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := progress.NewTracker("Detecting dead code...", len(scanResult.Files))
	svc := analysis.New(analysis.WithConfig(cfg), analysis.WithLogger(logger))
	result, err := svc.AnalyzeDeadCode(ctx, scanResult, analysis.DeadCodeOptions{
		ShowIgnored: c.Bool("show-ignored"),
		NoCache:     c.Bool("no-cache"),
		OnProgress:  tracker.Update,
	})
	if err != nil {
		tracker.FinishError(err)
		return fmt.Errorf("analysis failed: %w", err)
	}
	tracker.FinishSuccess()

	out, err := newOutput(c, cfg)
	if err != nil {
		return err
	}
	defer out.Close()

	colored := out.Colored() && out.Format() == output.FormatText
	if err := out.Output(buildDeadCodeReport(result.Report, colored)); err != nil {
		return err
	}

	for _, e := range result.Report.Errors {
		logger.Warn("file skipped", "file", e.File, "error", e.Error)
	}

	if c.Bool("fail-on-dead") && len(result.Report.Dead) > 0 {
		return fmt.Errorf("%w: %d definitions", errDeadCodeFound, len(result.Report.Dead))
	}
	return nil
}

// buildDeadCodeReport lays out the report as a summary followed by one table
// per file. JSON and TOON output serialize the report itself.
func buildDeadCodeReport(r *models.DeadCodeReport, colored bool) *output.Report {
	s := r.Summary
	summary := &output.Section{
		Title: "Summary",
		Content: fmt.Sprintf("%d dead of %d definitions (%.1f%%) across %d files",
			s.TotalDead, s.TotalDefinitions, s.DeadPercentage, s.TotalFilesAnalyzed),
	}
	if r.Ref != "" {
		summary.Content += fmt.Sprintf(" at %s", r.Ref)
	}
	summary.Sections = append(summary.Sections, output.Section{
		Title:   "Listeners",
		Content: strings.Join(r.Listeners, ", "),
	})
	if counts := s.KindCounts(deadcode.ReportKinds()); len(counts) > 0 {
		lines := make([]string, len(counts))
		for i, kc := range counts {
			lines[i] = fmt.Sprintf("%s: %d", kc.Kind, kc.Count)
		}
		summary.Sections = append(summary.Sections, output.Section{
			Title:   "By Kind",
			Content: strings.Join(lines, "\n"),
		})
	}

	sections := []output.Renderable{summary}
	for _, fd := range r.ByFile() {
		rows := make([][]string, len(fd.Definitions))
		for i, d := range fd.Definitions {
			name := d.QualifiedName
			if colored {
				name = color.RedString(name)
			}
			rows[i] = []string{fmt.Sprintf("%d", d.Location.StartLine), d.Kind.String(), name}
		}
		sections = append(sections, output.NewTable(fd.File, []string{"Line", "Kind", "Name"}, rows, nil, fd))
	}

	if len(r.Ignored) > 0 {
		rows := make([][]string, len(r.Ignored))
		for i, d := range r.Ignored {
			rows[i] = []string{
				fmt.Sprintf("%s:%d", d.Location.File, d.Location.StartLine),
				d.Kind.String(),
				d.QualifiedName,
				d.Reason,
			}
		}
		sections = append(sections, output.NewTable("Ignored Definitions",
			[]string{"Location", "Kind", "Name", "Reason"}, rows, nil, r.Ignored))
	}

	if len(r.Errors) > 0 {
		rows := make([][]string, len(r.Errors))
		for i, e := range r.Errors {
			rows[i] = []string{e.File, e.Error}
		}
		sections = append(sections, output.NewTable("Collection Errors",
			[]string{"File", "Error"}, rows, nil, r.Errors))
	}

	return &output.Report{
		Title:    "Dead Code",
		Sections: sections,
		Data:     r,
		SARIF:    deadCodeSARIF(r),
	}
}

// deadCodeSARIF reports each dead definition as a warning under a rule per
// kind, e.g. dead-singleton-method.
func deadCodeSARIF(r *models.DeadCodeReport) *output.SARIFLog {
	log := output.NewSARIFLog("reaper", version, "https://github.com/panbanda/reaper")
	for _, d := range r.Dead {
		kind := strings.ReplaceAll(d.Kind.String(), "_", " ")
		id := "dead-" + strings.ReplaceAll(kind, " ", "-")
		log.AddRule(id, ruleName(kind), fmt.Sprintf("Unreferenced %s", kind), "warning")

		loc := d.Location
		log.AddResult(id, "warning",
			fmt.Sprintf("%s %s is never referenced", kind, d.QualifiedName),
			loc.File,
			&output.SARIFRegion{
				StartLine:   loc.StartLine,
				StartColumn: loc.StartColumn + 1,
				EndLine:     loc.EndLine,
				EndColumn:   loc.EndColumn + 1,
			})
	}
	return log
}

// ruleName turns "singleton method" into "DeadSingletonMethod".
func ruleName(kind string) string {
	var b strings.Builder
	b.WriteString("Dead")
	for _, w := range strings.Fields(kind) {
		b.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return b.String()
}
