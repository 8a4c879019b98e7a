package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{".rb", ".rake", ".erb", ".gemspec", ".ru"}, cfg.Files.Extensions)
	assert.Zero(t, cfg.Files.MaxFileSize)
	assert.True(t, cfg.Exclude.Gitignore)
	assert.Contains(t, cfg.Exclude.Patterns, "vendor/**")
	assert.Equal(t, []string{"test_*"}, cfg.DeadCode.IgnoreMethods)
	assert.Equal(t, "Gemfile.lock", cfg.DeadCode.Lockfile)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, ".reaper/cache", cfg.Cache.Dir)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "reaper.toml",
			content: `
[files]
max_file_size = 1048576

[exclude]
patterns = ["db/schema.rb"]

[deadcode]
ignore_methods = ["test_*", "legacy_*"]
ignore_classes = ["*Serializer"]
plugins = ["rspec"]
workers = 4

[cache]
enabled = false

[output]
format = "json"
`,
		},
		{
			name: "yaml",
			file: "reaper.yaml",
			content: `
files:
  max_file_size: 1048576
exclude:
  patterns: ["db/schema.rb"]
deadcode:
  ignore_methods: ["test_*", "legacy_*"]
  ignore_classes: ["*Serializer"]
  plugins: ["rspec"]
  workers: 4
cache:
  enabled: false
output:
  format: json
`,
		},
		{
			name: "json",
			file: "reaper.json",
			content: `{
  "files": {"max_file_size": 1048576},
  "exclude": {"patterns": ["db/schema.rb"]},
  "deadcode": {
    "ignore_methods": ["test_*", "legacy_*"],
    "ignore_classes": ["*Serializer"],
    "plugins": ["rspec"],
    "workers": 4
  },
  "cache": {"enabled": false},
  "output": {"format": "json"}
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, int64(1048576), cfg.Files.MaxFileSize)
			assert.Equal(t, []string{"db/schema.rb"}, cfg.Exclude.Patterns)
			assert.Equal(t, []string{"test_*", "legacy_*"}, cfg.DeadCode.IgnoreMethods)
			assert.Equal(t, []string{"*Serializer"}, cfg.DeadCode.IgnoreClasses)
			assert.Equal(t, []string{"rspec"}, cfg.DeadCode.Plugins)
			assert.Equal(t, 4, cfg.DeadCode.Workers)
			assert.False(t, cfg.Cache.Enabled)
			assert.Equal(t, "json", cfg.Output.Format)

			// untouched keys keep their defaults
			assert.Equal(t, "Gemfile.lock", cfg.DeadCode.Lockfile)
			assert.True(t, cfg.Exclude.Gitignore)
			assert.Equal(t, ".reaper/cache", cfg.Cache.Dir)
		})
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown section", "[analysis]\ncomplexity = true\n"},
		{"unknown key", "[deadcode]\nignore = [\"x\"]\n"},
		{"wrong type", "[deadcode]\nworkers = \"many\"\n"},
		{"negative", "[files]\nmax_file_size = -1\n"},
		{"bad format", "[output]\nformat = \"html\"\n"},
		{"bad extension", "[files]\nextensions = [\"rb\"]\n"},
		{"bad exclude glob", "[exclude]\npatterns = [\"vendor/{a\"]\n"},
		{"bad ignore glob", "[deadcode]\nignore_methods = [\"{a\"]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, "reaper.toml", tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)

	_, err = Load(writeConfig(t, "reaper.toml", "[files\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)
}

func TestDiscover(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, source, err := Discover(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, source)
		assert.Equal(t, DefaultConfig().DeadCode, cfg.DeadCode)
	})

	t.Run("dot directory", func(t *testing.T) {
		path := writeConfig(t, filepath.Join(".reaper", "reaper.toml"), "[deadcode]\nlockfile = \"gems.locked\"\n")
		dir := filepath.Dir(filepath.Dir(path))

		cfg, source, err := Discover(dir)
		require.NoError(t, err)
		assert.Equal(t, path, source)
		assert.Equal(t, "gems.locked", cfg.DeadCode.Lockfile)
	})

	t.Run("first name wins", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "reaper.toml"), []byte("[output]\nformat = \"toon\"\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "reaper.json"), []byte(`{"output": {"format": "json"}}`), 0o644))

		cfg, source, err := Discover(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "reaper.toml"), source)
		assert.Equal(t, "toon", cfg.Output.Format)
	})

	t.Run("broken file is an error", func(t *testing.T) {
		path := writeConfig(t, "reaper.toml", "[output]\nformat = 3\n")

		_, source, err := Discover(filepath.Dir(path))
		require.Error(t, err)
		assert.Equal(t, path, source)
	})
}

func TestShouldExclude(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude.Patterns = append(cfg.Exclude.Patterns, "db/*.rb", "**/generated/**")
	require.NoError(t, cfg.Validate())

	tests := []struct {
		path string
		want bool
	}{
		{"vendor/", true},
		{"vendor/bundle/gems/x.rb", true},
		{"app/vendor/x.rb", false},
		{"db/schema.rb", true},
		{"db/migrate/001_init.rb", false},
		{"app/generated/api.rb", true},
		{"app/models/user.rb", false},
		{".git/", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.ShouldExclude(tt.path))
		})
	}
}

func TestHasExtension(t *testing.T) {
	cfg := DefaultConfig()

	assert.True(t, cfg.HasExtension("app/models/user.rb"))
	assert.True(t, cfg.HasExtension("app/views/users/show.html.erb"))
	assert.True(t, cfg.HasExtension("lib/tasks/db.RAKE"))
	assert.True(t, cfg.HasExtension("reaper.gemspec"))
	assert.False(t, cfg.HasExtension("Gemfile"))
	assert.False(t, cfg.HasExtension("app/assets/app.js"))
}

func TestDefaultConfig_MarshalsAndLoads(t *testing.T) {
	data, err := toml.Marshal(DefaultConfig())
	require.NoError(t, err)
	assert.Contains(t, string(data), "ignore_methods")

	cfg, err := Load(writeConfig(t, "reaper.toml", string(data)))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().DeadCode.IgnoreMethods, cfg.DeadCode.IgnoreMethods)
	assert.Equal(t, DefaultConfig().Exclude, cfg.Exclude)
	assert.Equal(t, DefaultConfig().Files.Extensions, cfg.Files.Extensions)
}
