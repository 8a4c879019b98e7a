package mcpserver

import (
	"encoding/json"
)

// Manifest is the MCP registry server.json, schema version 2025-10-17.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

// Repository contains source repository information.
type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
	ID     string `json:"id,omitempty"`
}

// Package describes how to install/run the MCP server.
type Package struct {
	RegistryType         string           `json:"registryType"`
	Identifier           string           `json:"identifier"`
	PackageArguments     []Argument       `json:"packageArguments,omitempty"`
	EnvironmentVariables []EnvironmentVar `json:"environmentVariables,omitempty"`
	Transport            Transport        `json:"transport"`
}

// Argument represents a command-line argument.
type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// EnvironmentVar is an optional setting read from the server's environment.
type EnvironmentVar struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsRequired  bool   `json:"isRequired"`
}

// Transport describes the communication method.
type Transport struct {
	Type string `json:"type"`
}

// GenerateManifest renders the registry manifest for version, "0.0.0" when
// unknown.
func GenerateManifest(version string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}

	manifest := Manifest{
		Schema:      "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json",
		Name:        "io.github.panbanda/reaper",
		Title:       "Reaper",
		Description: "Dead code detection for Ruby projects with Rails, RSpec and other framework plugins",
		Version:     version,
		Repository: &Repository{
			URL:    "https://github.com/panbanda/reaper",
			Source: "github",
		},
		Packages: []Package{
			{
				RegistryType: "oci",
				Identifier:   "ghcr.io/panbanda/reaper:" + version,
				PackageArguments: []Argument{
					{Type: "positional", Value: "mcp"},
				},
				EnvironmentVariables: []EnvironmentVar{
					{Name: "REAPER_CONFIG", Description: "Path to a reaper.toml, reaper.yaml or reaper.json"},
				},
				Transport: Transport{
					Type: "stdio",
				},
			},
		},
	}

	return json.MarshalIndent(manifest, "", "  ")
}
