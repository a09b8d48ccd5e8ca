package commands

import (
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bspecgen/config"
	"github.com/teranos/bspecgen/errors"
)

var initForce bool

// InitCmd writes a bspecgen.toml holding every default
var InitCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default bspecgen.toml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}
		if err := os.MkdirAll(dir, config.DefaultDirPermissions); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
		path := filepath.Join(dir, config.FileName)
		if err := config.WriteDefault(path, initForce); err != nil {
			return err
		}
		pterm.Success.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	InitCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing config file")
}
