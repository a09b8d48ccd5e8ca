package config

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/bspecgen/errors"
)

// Defaults returns the configuration produced by SetDefaults alone.
func Defaults() *Config {
	v := viper.New()
	SetDefaults(v)
	// Defaults always validate; a failure here is a programming error
	cfg, err := LoadWithViper(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

// WriteDefault writes a bspecgen.toml holding every default to path.
// It refuses to overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.WithHint(
				errors.Newf("%s already exists", path),
				"pass --force to overwrite it",
			)
		}
	}

	data, err := toml.Marshal(Defaults())
	if err != nil {
		return errors.Wrap(err, "failed to marshal default config")
	}
	header := []byte("# bspecgen configuration. Environment variables BSPECGEN_<SECTION>_<KEY> override these values.\n\n")
	if err := os.WriteFile(path, append(header, data...), DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
