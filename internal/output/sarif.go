package output

import (
	"path/filepath"
	"sort"
)

// SARIF 2.1.0, the static analysis interchange format read by code scanning
// dashboards.
const (
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
	sarifVersion = "2.1.0"
	srcRoot      = "%SRCROOT%"
)

// SARIFLog is the top-level SARIF document.
type SARIFLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []SARIFRule `json:"rules"`
}

type SARIFRule struct {
	ID               string       `json:"id"`
	Name             string       `json:"name,omitempty"`
	ShortDescription SARIFMessage `json:"shortDescription"`
	DefaultConfig    SARIFConfig  `json:"defaultConfiguration"`
}

type SARIFConfig struct {
	Level string `json:"level"`
}

type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations,omitempty"`
}

type SARIFMessage struct {
	Text string `json:"text"`
}

type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

type SARIFArtifactLocation struct {
	URI       string `json:"uri"`
	URIBaseID string `json:"uriBaseId,omitempty"`
}

// SARIFRegion lines and columns are 1-based.
type SARIFRegion struct {
	StartLine   int `json:"startLine,omitempty"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// NewSARIFLog starts a single-run log for tool. Rules are added as results
// reference them.
func NewSARIFLog(tool, version, uri string) *SARIFLog {
	return &SARIFLog{
		Schema:  sarifSchema,
		Version: sarifVersion,
		Runs: []SARIFRun{{
			Tool:    SARIFTool{Driver: SARIFDriver{Name: tool, Version: version, InformationURI: uri, Rules: []SARIFRule{}}},
			Results: []SARIFResult{},
		}},
	}
}

// AddRule registers a rule once; later registrations of the same ID are
// ignored.
func (l *SARIFLog) AddRule(id, name, description, level string) {
	run := &l.Runs[0]
	for _, r := range run.Tool.Driver.Rules {
		if r.ID == id {
			return
		}
	}
	run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, SARIFRule{
		ID:               id,
		Name:             name,
		ShortDescription: SARIFMessage{Text: description},
		DefaultConfig:    SARIFConfig{Level: level},
	})
	sort.Slice(run.Tool.Driver.Rules, func(i, j int) bool {
		return run.Tool.Driver.Rules[i].ID < run.Tool.Driver.Rules[j].ID
	})
}

// AddResult records a finding at file, which should be relative to the
// project root. region may be nil.
func (l *SARIFLog) AddResult(ruleID, level, message, file string, region *SARIFRegion) {
	result := SARIFResult{
		RuleID:  ruleID,
		Level:   level,
		Message: SARIFMessage{Text: message},
	}
	if file != "" {
		result.Locations = []SARIFLocation{{
			PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: SARIFArtifactLocation{URI: filepath.ToSlash(file), URIBaseID: srcRoot},
				Region:           region,
			},
		}}
	}
	l.Runs[0].Results = append(l.Runs[0].Results, result)
}
