// Package config resolves bspecgen settings from defaults, bspecgen.toml and
// BSPECGEN_* environment variables.
package config

import "path/filepath"

// FileName is the project config file searched for by walking up from the
// working directory.
const FileName = "bspecgen.toml"

// EnvPrefix prefixes every environment override (source.dir -> BSPECGEN_SOURCE_DIR).
const EnvPrefix = "BSPECGEN"

// Permission constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// Config is the full bspecgen configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source" toml:"source"`
	Package PackageConfig `mapstructure:"package" toml:"package"`
	Emit    EmitConfig    `mapstructure:"emit" toml:"emit"`
	Watch   WatchConfig   `mapstructure:"watch" toml:"watch"`

	// Root is the directory relative paths resolve against: the directory
	// holding bspecgen.toml, or the working directory when none was found.
	Root string `mapstructure:"-" toml:"-"`
	// File is the config file that was merged, empty if none.
	File string `mapstructure:"-" toml:"-"`
}

// SourceConfig describes the input document tree
type SourceConfig struct {
	Dir             string   `mapstructure:"dir" toml:"dir"`
	VersionFile     string   `mapstructure:"version_file" toml:"version_file"`         // Relative to Dir
	Extensions      []string `mapstructure:"extensions" toml:"extensions"`             // Files run through the extractor
	IndexExtensions []string `mapstructure:"index_extensions" toml:"index_extensions"` // Files recorded in the file index
}

// PackageConfig controls the packaged artifact
type PackageConfig struct {
	Dir         string `mapstructure:"dir" toml:"dir"`
	Name        string `mapstructure:"name" toml:"name"`                 // Archive prefix: <name>-v1-2-0.tgz
	IncludeDocs bool   `mapstructure:"include_docs" toml:"include_docs"` // Adds version.txt and README.md members
	KeepTree    bool   `mapstructure:"keep_tree" toml:"keep_tree"`       // Leave the unpacked member tree next to the archive
}

// EmitConfig controls target emission
type EmitConfig struct {
	Dir           string   `mapstructure:"dir" toml:"dir"` // One subdirectory per target
	Targets       []string `mapstructure:"targets" toml:"targets"`
	Parallel      bool     `mapstructure:"parallel" toml:"parallel"`
	GoModule      string   `mapstructure:"go_module" toml:"go_module"`
	NpmPackage    string   `mapstructure:"npm_package" toml:"npm_package"`
	Crate         string   `mapstructure:"crate" toml:"crate"`
	PythonPackage string   `mapstructure:"python_package" toml:"python_package"`
}

// WatchConfig controls `bspecgen watch`
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"`
}

// Resolve makes p absolute against Root. Absolute paths are returned cleaned.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(c.Root, p)
}

// SourceDir returns the resolved input tree directory
func (c *Config) SourceDir() string { return c.Resolve(c.Source.Dir) }

// PackageDir returns the resolved artifact output directory
func (c *Config) PackageDir() string { return c.Resolve(c.Package.Dir) }

// EmitDir returns the resolved root of the per-target output trees
func (c *Config) EmitDir() string { return c.Resolve(c.Emit.Dir) }

// TargetDir returns the output tree for one target
func (c *Config) TargetDir(target string) string {
	return filepath.Join(c.EmitDir(), target)
}
