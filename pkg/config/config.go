package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"
	jsonparser "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalid is returned when a config file does not match the schema or
// carries a pattern that does not compile.
var ErrInvalid = errors.New("invalid config")

//go:embed schema.json
var schemaJSON []byte

// Config holds all configuration options for reaper.
type Config struct {
	// Which files are read
	Files FilesConfig `koanf:"files" toml:"files"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude"`

	// Dead code analysis settings
	DeadCode DeadCodeConfig `koanf:"deadcode" toml:"deadcode"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output"`

	excludes []glob.Glob
}

// FilesConfig selects the files that are analyzed.
type FilesConfig struct {
	Extensions  []string `koanf:"extensions" toml:"extensions"`
	MaxFileSize int64    `koanf:"max_file_size" toml:"max_file_size"` // bytes, 0 = no limit
}

// ExcludeConfig defines file exclusion patterns. Patterns are globs over
// slash-separated paths relative to the scanned root; `**` crosses
// directories, `*` does not.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore"`
}

// DeadCodeConfig holds the ignore patterns and plugin settings.
type DeadCodeConfig struct {
	IgnoreMethods   []string `koanf:"ignore_methods" toml:"ignore_methods"`
	IgnoreClasses   []string `koanf:"ignore_classes" toml:"ignore_classes"`
	IgnoreModules   []string `koanf:"ignore_modules" toml:"ignore_modules"`
	IgnoreConstants []string `koanf:"ignore_constants" toml:"ignore_constants"`
	Lockfile        string   `koanf:"lockfile" toml:"lockfile"`
	Plugins         []string `koanf:"plugins" toml:"plugins"` // enabled whatever the lockfile says
	Workers         int      `koanf:"workers" toml:"workers"` // 0 = 2x NumCPU
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Dir     string `koanf:"dir" toml:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format"` // text, json, markdown, toon, sarif
	Color  bool   `koanf:"color" toml:"color"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Files: FilesConfig{
			Extensions: []string{".rb", ".rake", ".erb", ".gemspec", ".ru"},
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				".git/**",
				".reaper/**",
				"vendor/**",
				"node_modules/**",
				"tmp/**",
				"log/**",
				"sorbet/**",
			},
			Gitignore: true,
		},
		DeadCode: DeadCodeConfig{
			IgnoreMethods: []string{"test_*"},
			Lockfile:      "Gemfile.lock",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".reaper/cache",
			TTL:     24 * 7,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// FileNames are the config files looked up, in order, by Discover.
var FileNames = []string{
	"reaper.toml",
	".reaper.toml",
	filepath.Join(".reaper", "reaper.toml"),
	"reaper.yaml",
	"reaper.yml",
	"reaper.json",
}

// Load loads configuration from a file, validates it, and merges it over
// the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = jsonparser.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if err := validateSchema(k.Raw()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Discover looks for a config file in dir and loads it. It returns the
// defaults and an empty source when there is none. A config file that exists
// but cannot be loaded is an error.
func Discover(dir string) (*Config, string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := Load(path)
		if err != nil {
			return nil, path, err
		}
		return cfg, path, nil
	}
	return DefaultConfig(), "", nil
}

// Validate compiles the exclude patterns and checks the ignore patterns
// are well-formed globs.
func (c *Config) Validate() error {
	excludes := make([]glob.Glob, 0, len(c.Exclude.Patterns))
	for _, p := range c.Exclude.Patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return fmt.Errorf("%w: exclude pattern %q: %v", ErrInvalid, p, err)
		}
		excludes = append(excludes, g)
	}

	for _, group := range [][]string{
		c.DeadCode.IgnoreMethods,
		c.DeadCode.IgnoreClasses,
		c.DeadCode.IgnoreModules,
		c.DeadCode.IgnoreConstants,
	} {
		for _, p := range group {
			if _, err := glob.Compile(p); err != nil {
				return fmt.Errorf("%w: ignore pattern %q: %v", ErrInvalid, p, err)
			}
		}
	}

	c.excludes = excludes
	return nil
}

// ShouldExclude reports whether a slash-separated path relative to the
// scanned root matches an exclude pattern. Directories should be passed with
// a trailing slash so that "vendor/**" prunes "vendor/" itself.
func (c *Config) ShouldExclude(rel string) bool {
	if c.excludes == nil {
		// invalid patterns were already rejected by Load
		_ = c.Validate()
	}
	for _, g := range c.excludes {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// HasExtension reports whether path carries one of the configured
// extensions. Compound template names such as show.html.erb match ".erb".
func (c *Config) HasExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range c.Files.Extensions {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("reaper.schema.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("reaper.schema.json")
})

// validateSchema checks raw parsed config values against the embedded
// schema. Values are round-tripped through JSON so that every parser's
// number types reach the validator in one form.
func validateSchema(raw map[string]any) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return err
	}
	return schema.Validate(inst)
}
