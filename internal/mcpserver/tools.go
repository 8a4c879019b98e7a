package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/reaper/internal/service/analysis"
	outputSvc "github.com/panbanda/reaper/internal/service/output"
	scannerSvc "github.com/panbanda/reaper/internal/service/scanner"
	"github.com/panbanda/reaper/pkg/analyzer/deadcode"
)

// AnalyzeInput is the base input for all tools that scan a project.
type AnalyzeInput struct {
	Paths  []string `json:"paths,omitempty" jsonschema:"Paths to analyze. Defaults to current directory if empty. The first path's Gemfile.lock selects framework plugins."`
	Ref    string   `json:"ref,omitempty" jsonschema:"Git revision to analyze instead of the working tree, e.g. main or HEAD~1. Only the first path is used."`
	Format string   `json:"format,omitempty" jsonschema:"Output format: toon (default), json, or markdown."`
}

// DeadcodeInput adds deadcode-specific options.
type DeadcodeInput struct {
	AnalyzeInput
	ShowIgnored bool `json:"show_ignored,omitempty" jsonschema:"Also list ignored definitions with the rule that ignored them."`
}

// DefinitionsInput looks up a single name.
type DefinitionsInput struct {
	AnalyzeInput
	Name string `json:"name" jsonschema:"Method or constant name to look up, e.g. perform, name= or UserSerializer."`
}

func getPaths(input AnalyzeInput) []string {
	if len(input.Paths) == 0 {
		return []string{"."}
	}
	return input.Paths
}

func getFormat(input AnalyzeInput) outputSvc.Format {
	switch strings.ToLower(input.Format) {
	case "json":
		return outputSvc.FormatJSON
	case "markdown", "md":
		return outputSvc.FormatMarkdown
	default:
		return outputSvc.FormatTOON
	}
}

func formatOutput(data any, format outputSvc.Format) (string, error) {
	svc, err := outputSvc.New(outputSvc.WithFormat(format), outputSvc.WithColor(false))
	if err != nil {
		return "", err
	}
	return svc.Sprint(data)
}

func toolResult(data any, format outputSvc.Format) (*mcp.CallToolResult, any, error) {
	text, err := formatOutput(data, format)
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

// scan lists the Ruby files named by the input, from the working tree or
// from a git revision.
func (s *Server) scan(input AnalyzeInput) (*scannerSvc.ScanResult, error) {
	scanner := scannerSvc.New(scannerSvc.WithConfig(s.config))
	if input.Ref != "" {
		return scanner.ScanRef(getPaths(input)[0], input.Ref)
	}
	return scanner.ScanPaths(getPaths(input))
}

func (s *Server) analyze(ctx context.Context, input AnalyzeInput, showIgnored bool) (*analysis.DeadCodeResult, *mcp.CallToolResult, error) {
	scanResult, err := s.scan(input)
	if err != nil {
		res, _, _ := toolError(err.Error())
		return nil, res, nil
	}
	if len(scanResult.Files) == 0 {
		res, _, _ := toolError("no Ruby files found")
		return nil, res, nil
	}

	svc := analysis.New(analysis.WithConfig(s.config))
	result, err := svc.AnalyzeDeadCode(ctx, scanResult, analysis.DeadCodeOptions{ShowIgnored: showIgnored})
	if err != nil {
		res, _, _ := toolError(err.Error())
		return nil, res, nil
	}
	return result, nil, nil
}

func (s *Server) handleAnalyzeDeadcode(ctx context.Context, req *mcp.CallToolRequest, input DeadcodeInput) (*mcp.CallToolResult, any, error) {
	result, errResult, err := s.analyze(ctx, input.AnalyzeInput, input.ShowIgnored)
	if errResult != nil || err != nil {
		return errResult, nil, err
	}
	return toolResult(result.Report, getFormat(input.AnalyzeInput))
}

func (s *Server) handleDefinitionsForName(ctx context.Context, req *mcp.CallToolRequest, input DefinitionsInput) (*mcp.CallToolResult, any, error) {
	if input.Name == "" {
		return toolError("name is required")
	}
	result, errResult, err := s.analyze(ctx, input.AnalyzeInput, false)
	if errResult != nil || err != nil {
		return errResult, nil, err
	}
	return toolResult(deadcode.LookupName(result.Analysis, input.Name, result.Report.Root), getFormat(input.AnalyzeInput))
}

func (s *Server) handleListPlugins(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeInput) (*mcp.CallToolResult, any, error) {
	scanResult, err := s.scan(input)
	if err != nil {
		return toolError(err.Error())
	}
	report, err := analysis.New(analysis.WithConfig(s.config)).Plugins(scanResult)
	if err != nil {
		return toolError(err.Error())
	}
	return toolResult(report, getFormat(input))
}
