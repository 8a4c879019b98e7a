package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/fatih/color"
	"github.com/panbanda/reaper/internal/output"
	outputSvc "github.com/panbanda/reaper/internal/service/output"
	"github.com/panbanda/reaper/pkg/config"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

const (
	metaConfig  = "config"
	metaSource  = "configSource"
	metaLogger  = "logger"
	metaPprofFD = "pprofCPU"
)

// getPaths returns paths from positional args, defaulting to ["."]
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "reaper",
		Usage:    "Find dead code in Ruby projects",
		Version:  version,
		Metadata: make(map[string]interface{}),
		Description: `Reaper indexes every class, module, constant, method and attribute in a
Ruby project, collects every reference to a name, and reports the
definitions nothing refers to.

Framework plugins (Rails, RSpec, GraphQL, Sorbet and more) are selected from
Gemfile.lock and turn DSL calls like before_action :authenticate into
references.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"REAPER_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon, sarif (default from --output extension, config, else text)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file; .json, .md, .toon and .sarif pick the format",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable the per-file result cache",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log debug output to stderr",
			},
			&cli.StringFlag{
				Name:  "pprof",
				Usage: "Enable pprof profiling and write to specified prefix (creates <prefix>.cpu.pprof and <prefix>.mem.pprof)",
			},
		},
		Before: func(c *cli.Context) error {
			level := slog.LevelWarn
			if c.Bool("verbose") {
				level = slog.LevelDebug
			}
			c.App.Metadata[metaLogger] = slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

			cfg, source, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			c.App.Metadata[metaConfig] = cfg
			c.App.Metadata[metaSource] = source

			if pprofPrefix := c.String("pprof"); pprofPrefix != "" {
				cpuFile, err := os.Create(pprofPrefix + ".cpu.pprof")
				if err != nil {
					return fmt.Errorf("failed to create CPU profile: %w", err)
				}
				if err := pprof.StartCPUProfile(cpuFile); err != nil {
					cpuFile.Close()
					return fmt.Errorf("failed to start CPU profile: %w", err)
				}
				c.App.Metadata[metaPprofFD] = cpuFile
			}
			return nil
		},
		After: func(c *cli.Context) error {
			pprofPrefix := c.String("pprof")
			cpuFile, ok := c.App.Metadata[metaPprofFD].(*os.File)
			if pprofPrefix == "" || !ok {
				return nil
			}
			pprof.StopCPUProfile()
			cpuFile.Close()

			memFile, err := os.Create(pprofPrefix + ".mem.pprof")
			if err != nil {
				return fmt.Errorf("failed to create memory profile: %w", err)
			}
			defer memFile.Close()

			runtime.GC()
			if err := pprof.WriteHeapProfile(memFile); err != nil {
				return fmt.Errorf("failed to write memory profile: %w", err)
			}
			return nil
		},
		Commands: []*cli.Command{
			deadcodeCmd(),
			pluginsCmd(),
			initCmd(),
			configCmd(),
			cacheCmd(),
			mcpCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(exitCode(err))
	}
}

// errDeadCodeFound is returned by deadcode --fail-on-dead when the report is
// not empty.
var errDeadCodeFound = errors.New("dead code found")

// exitCode is 2 when --fail-on-dead tripped and 1 for every other failure.
func exitCode(err error) int {
	if errors.Is(err, errDeadCodeFound) {
		return 2
	}
	return 1
}

// loadConfig loads the named config file, or discovers one in the working
// directory.
func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, path, err
		}
		return cfg, path, nil
	}
	return config.Discover(".")
}

func appConfig(c *cli.Context) *config.Config {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.Config); ok {
		return cfg
	}
	return config.DefaultConfig()
}

func appLogger(c *cli.Context) *slog.Logger {
	if logger, ok := c.App.Metadata[metaLogger].(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// outputFormat is the --format flag, falling back to the configured format.
func outputFormat(c *cli.Context) string {
	if c.IsSet("format") {
		return c.String("format")
	}
	return appConfig(c).Output.Format
}

// newOutput opens the destination for a command's results. An explicit
// --format wins; otherwise a recognized --output extension picks the format,
// and the configured format covers the rest.
func newOutput(c *cli.Context, cfg *config.Config) (*outputSvc.Service, error) {
	file := c.String("output")
	opts := []outputSvc.Option{
		outputSvc.WithWriter(c.App.Writer),
		outputSvc.WithColor(cfg.Output.Color),
		outputSvc.WithFile(file),
	}
	if _, inferred := output.FormatForPath(file); c.IsSet("format") || !inferred {
		f, err := outputSvc.ParseFormat(outputFormat(c))
		if err != nil {
			return nil, err
		}
		opts = append(opts, outputSvc.WithFormat(f))
	}
	return outputSvc.New(opts...)
}
