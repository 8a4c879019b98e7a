package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/reaper/pkg/config"
)

// Server wraps the MCP server and registers the dead code tools.
type Server struct {
	server *mcp.Server
	config *config.Config
}

// NewServer creates a new MCP server with all reaper tools registered. A nil
// config means the defaults.
func NewServer(version string, cfg *config.Config) *Server {
	if version == "" {
		version = "dev"
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "reaper",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, config: cfg}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_deadcode",
		Description: describeDeadcode(),
	}, s.handleAnalyzeDeadcode)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "definitions_for_name",
		Description: describeDefinitionsForName(),
	}, s.handleDefinitionsForName)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_plugins",
		Description: describePlugins(),
	}, s.handleListPlugins)
}
