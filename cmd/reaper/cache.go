package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/panbanda/reaper/internal/output"
	"github.com/panbanda/reaper/internal/service/analysis"
	"github.com/urfave/cli/v2"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the per-file result cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache location, entry count and size",
				Action: runCacheStatsCmd,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached entry",
				Action: runCacheClearCmd,
			},
		},
	}
}

func runCacheStatsCmd(c *cli.Context) error {
	cfg := appConfig(c)
	store, err := analysis.New(analysis.WithConfig(cfg)).Cache()
	if err != nil {
		return err
	}
	if !store.Enabled() {
		color.Yellow("Cache is disabled")
		return nil
	}

	stats, err := store.GetStats()
	if err != nil {
		return err
	}

	out, err := newOutput(c, cfg)
	if err != nil {
		return err
	}
	defer out.Close()

	return out.Output(output.NewTable(
		"Cache",
		[]string{"Directory", "Entries", "Size", "Oldest", "Newest"},
		[][]string{{
			stats.Dir,
			fmt.Sprintf("%d", stats.Entries),
			humanize.IBytes(uint64(stats.TotalSize)),
			age(stats.OldestAge, stats.Entries),
			age(stats.NewestAge, stats.Entries),
		}},
		nil,
		stats,
	))
}

func runCacheClearCmd(c *cli.Context) error {
	store, err := analysis.New(analysis.WithConfig(appConfig(c))).Cache()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	color.Green("Cache cleared")
	return nil
}

// age renders how long ago an entry was written, or "-" for an empty cache.
func age(d time.Duration, entries int) string {
	if entries == 0 {
		return "-"
	}
	return humanize.Time(time.Now().Add(-d))
}
