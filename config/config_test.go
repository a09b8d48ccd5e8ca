package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, "spec/v1", cfg.Source.Dir)
	assert.Equal(t, "version.txt", cfg.Source.VersionFile)
	assert.Equal(t, []string{".md"}, cfg.Source.Extensions)
	assert.Equal(t, "sdk/v1/json", cfg.Package.Dir)
	assert.Equal(t, "bspec", cfg.Package.Name)
	assert.True(t, cfg.Package.IncludeDocs)
	assert.Equal(t, []string{"typescript", "python", "go", "rust"}, cfg.Emit.Targets)
	assert.False(t, cfg.Emit.Parallel)
	assert.Equal(t, 500, cfg.Watch.DebounceMS)
}

func TestLoadFrom_ProjectFileWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "spec", "v1", "strategic-foundation")
	require.NoError(t, os.MkdirAll(nested, DefaultDirPermissions))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte(`
[source]
dir = "docs"

[emit]
targets = ["go"]
parallel = true
`), DefaultFilePermissions))

	cfg, err := LoadFrom(New(), nested, "")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, FileName), cfg.File)
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, filepath.Join(root, "docs"), cfg.SourceDir())
	assert.Equal(t, []string{"go"}, cfg.Emit.Targets)
	assert.True(t, cfg.Emit.Parallel)
	// Untouched keys keep defaults
	assert.Equal(t, "bspec", cfg.Package.Name)
	assert.Equal(t, filepath.Join(root, "sdk", "v1", "go"), cfg.TargetDir("go"))
}

func TestLoadFrom_NoFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadFrom(New(), dir, "")
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
	assert.Equal(t, dir, cfg.Root)
}

func TestLoadFrom_EnvOverride(t *testing.T) {
	t.Setenv("BSPECGEN_PACKAGE_NAME", "acme")
	cfg, err := LoadFrom(New(), t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.Package.Name)
}

func TestLoadFrom_ExplicitMissingFile(t *testing.T) {
	_, err := LoadFrom(New(), t.TempDir(), filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config { return Defaults() }

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty source dir", func(c *Config) { c.Source.Dir = " " }, true},
		{"no extensions", func(c *Config) { c.Source.Extensions = nil }, true},
		{"extension without dot", func(c *Config) { c.Source.Extensions = []string{"md"} }, true},
		{"package name with slash", func(c *Config) { c.Package.Name = "a/b" }, true},
		{"duplicate target", func(c *Config) { c.Emit.Targets = []string{"go", "go"} }, true},
		{"no targets is valid", func(c *Config) { c.Emit.Targets = nil }, false},
		{"zero debounce is valid", func(c *Config) { c.Watch.DebounceMS = 0 }, false},
		{"negative debounce", func(c *Config) { c.Watch.DebounceMS = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, WriteDefault(path, false))

	cfg, err := LoadFrom(New(), filepath.Dir(path), "")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.File)
	assert.Equal(t, Defaults().Emit.Targets, cfg.Emit.Targets)

	assert.Error(t, WriteDefault(path, false), "existing file must not be overwritten")
	assert.NoError(t, WriteDefault(path, true))
}

func TestResolve(t *testing.T) {
	c := &Config{Root: "/work"}
	assert.Equal(t, "/work/spec", c.Resolve("spec"))
	assert.Equal(t, "/abs", c.Resolve("/abs/"))
}
