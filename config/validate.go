package config

import (
	"strings"

	"github.com/teranos/bspecgen/errors"
)

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.Dir) == "" {
		return errors.New("source.dir cannot be empty")
	}
	if strings.TrimSpace(c.Source.VersionFile) == "" {
		return errors.New("source.version_file cannot be empty")
	}
	if len(c.Source.Extensions) == 0 {
		return errors.New("source.extensions must list at least one extension")
	}
	for _, ext := range append(append([]string{}, c.Source.Extensions...), c.Source.IndexExtensions...) {
		if !strings.HasPrefix(ext, ".") {
			return errors.WithHintf(
				errors.Newf("extension %q must start with a dot", ext),
				"use %q", "."+ext,
			)
		}
	}

	if strings.TrimSpace(c.Package.Dir) == "" {
		return errors.New("package.dir cannot be empty")
	}
	if c.Package.Name == "" || strings.ContainsAny(c.Package.Name, `/\ `) {
		return errors.Newf("package.name must be a bare file prefix, got %q", c.Package.Name)
	}

	if strings.TrimSpace(c.Emit.Dir) == "" {
		return errors.New("emit.dir cannot be empty")
	}
	seen := make(map[string]bool, len(c.Emit.Targets))
	for _, target := range c.Emit.Targets {
		if seen[target] {
			return errors.Newf("emit.targets lists %q twice", target)
		}
		seen[target] = true
	}

	// Debounce: 0 = react to every event, negative = invalid
	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}
	return nil
}
