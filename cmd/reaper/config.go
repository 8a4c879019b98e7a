package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pelletier/go-toml"
	"github.com/urfave/cli/v2"
)

func configCmd() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Subcommands: []*cli.Command{
			{
				Name:      "validate",
				Usage:     "Validate a configuration file",
				ArgsUsage: "[file]",
				Description: `Validates a reaper configuration file against its schema and checks
that every glob pattern compiles. Without an argument the file given by
--config, or the one found in the current directory, is checked.`,
				Action: runConfigValidateCmd,
			},
			{
				Name:   "show",
				Usage:  "Show the effective configuration as TOML",
				Action: runConfigShowCmd,
			},
		},
	}
}

func runConfigValidateCmd(c *cli.Context) error {
	source, _ := c.App.Metadata[metaSource].(string)
	if c.Args().Len() > 0 {
		var err error
		if _, source, err = loadConfig(c.Args().First()); err != nil {
			return err
		}
	}

	if source != "" {
		color.Green("Configuration valid: %s", source)
	} else {
		color.Yellow("No config file found. Default configuration is valid.")
	}
	return nil
}

func runConfigShowCmd(c *cli.Context) error {
	content, err := toml.Marshal(appConfig(c))
	if err != nil {
		return fmt.Errorf("failed to marshal config to TOML: %w", err)
	}
	if source, _ := c.App.Metadata[metaSource].(string); source != "" {
		fmt.Fprintf(c.App.Writer, "# Source: %s\n\n", source)
	}
	_, err = c.App.Writer.Write(content)
	return err
}
