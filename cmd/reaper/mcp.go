package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/panbanda/reaper/internal/mcpserver"
	"github.com/urfave/cli/v2"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes reaper's dead code
analysis as tools that LLMs can invoke.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "reaper": {
        "command": "reaper",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_deadcode       Dead classes, modules, constants and methods
  - definitions_for_name   Definitions and references for one name
  - list_plugins           Framework plugins selected from Gemfile.lock`,
		Action: runMCPCmd,
		Subcommands: []*cli.Command{
			{
				Name:  "manifest",
				Usage: "Print the MCP registry manifest (server.json)",
				Action: func(c *cli.Context) error {
					data, err := mcpserver.GenerateManifest(version)
					if err != nil {
						return err
					}
					_, err = c.App.Writer.Write(append(data, '\n'))
					return err
				},
			},
		},
	}
}

func runMCPCmd(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := mcpserver.NewServer(version, appConfig(c))
	return server.Run(ctx)
}
