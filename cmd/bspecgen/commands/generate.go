package commands

import (
	"github.com/spf13/cobra"
)

// GenerateCmd runs the full pipeline
var GenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Verify, package and emit every target SDK",
	Long: `Run the full pipeline over the input document tree:

  1. Verify   - extract facts from every document and build the canonical model
  2. Package  - write the versioned .tgz artifact
  3. Emit     - unpack the artifact once per target and write each SDK

A verification or packaging failure stops the run (exit 1). A failing
emitter does not stop the others; the run then exits 2.

Examples:
  bspecgen generate
  bspecgen generate --targets go,rust --parallel
  bspecgen generate --source docs/spec --out build/sdk`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return reportError(newPipeline(cmd, cfg).Run(cmd.Context()))
	},
}

// VerifyCmd runs the verification stage only
var VerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Build the canonical model and report warnings without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return reportError(newPipeline(cmd, cfg).Verify(cmd.Context()))
	},
}

// PackCmd verifies and packages without emitting
var PackCmd = &cobra.Command{
	Use:   "pack",
	Short: "Verify and write the packaged artifact",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return reportError(newPipeline(cmd, cfg).Pack(cmd.Context()))
	},
}

var emitArchive string

// EmitCmd emits targets from an existing artifact
var EmitCmd = &cobra.Command{
	Use:   "emit",
	Short: "Emit target SDKs from an existing packaged artifact",
	Example: `  bspecgen emit --archive sdk/v1/json/bspec-v1-2-0.tgz
  bspecgen emit --archive bspec-v1-2-0.tgz --targets typescript`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return reportError(newPipeline(cmd, cfg).Emit(cmd.Context(), emitArchive))
	},
}

func init() {
	for _, cmd := range []*cobra.Command{GenerateCmd, VerifyCmd, PackCmd} {
		addSourceFlags(cmd)
	}
	for _, cmd := range []*cobra.Command{GenerateCmd, PackCmd} {
		addPackageFlags(cmd)
	}
	for _, cmd := range []*cobra.Command{GenerateCmd, EmitCmd} {
		addEmitFlags(cmd)
	}

	EmitCmd.Flags().StringVarP(&emitArchive, "archive", "a", "", "Packaged artifact to emit from")
	_ = EmitCmd.MarkFlagRequired("archive")
}
