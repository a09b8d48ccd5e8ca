package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Input tree
	v.SetDefault("source.dir", "spec/v1")
	v.SetDefault("source.version_file", "version.txt")
	v.SetDefault("source.extensions", []string{".md"})
	v.SetDefault("source.index_extensions", []string{".md", ".txt", ".yaml", ".yml"})

	// Packaged artifact
	v.SetDefault("package.dir", "sdk/v1/json")
	v.SetDefault("package.name", "bspec")
	v.SetDefault("package.include_docs", true)
	v.SetDefault("package.keep_tree", false)

	// Target emitters
	v.SetDefault("emit.dir", "sdk/v1")
	v.SetDefault("emit.targets", []string{"typescript", "python", "go", "rust"})
	v.SetDefault("emit.parallel", false)
	v.SetDefault("emit.go_module", "github.com/bspec-foundation/bspec-go")
	v.SetDefault("emit.npm_package", "@bspec/typescript-sdk")
	v.SetDefault("emit.crate", "bspec")
	v.SetDefault("emit.python_package", "bspec")

	v.SetDefault("watch.debounce_ms", 500) // Editors often write a file several times per save
}
