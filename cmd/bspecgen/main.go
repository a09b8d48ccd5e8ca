package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/teranos/bspecgen/cmd/bspecgen/commands"
	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/logger"
)

var rootCmd = &cobra.Command{
	Use:   "bspecgen",
	Short: "bspecgen - typed SDKs from business specification documents",
	Long: `bspecgen turns a tree of business specification markdown documents into
a versioned canonical model, packages it as a .tgz artifact, and emits typed
SDKs for TypeScript, Python, Go and Rust from that artifact.

Available commands:
  generate     - Verify, package and emit every target
  verify       - Build the canonical model and report warnings
  pack         - Verify and write the packaged artifact
  emit         - Emit targets from an existing artifact
  check        - Fail if committed SDKs differ from a fresh generation
  watch        - Regenerate on every change to the input tree
  sync-version - Align emitted manifests with the version marker
  init         - Write a default bspecgen.toml

Examples:
  bspecgen generate              # Full pipeline using bspecgen.toml
  bspecgen verify -v             # Show every stage and warning
  bspecgen check                 # CI freshness gate
  bspecgen sync-version --check  # Are all manifests on the marker version?`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		logJSON, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(logJSON, verbosity); err != nil {
			return errors.Wrap(err, "failed to initialize logger")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")
	rootCmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file (default: nearest bspecgen.toml)")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.VerifyCmd)
	rootCmd.AddCommand(commands.PackCmd)
	rootCmd.AddCommand(commands.EmitCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.WatchCmd)
	rootCmd.AddCommand(commands.SyncVersionCmd)
	rootCmd.AddCommand(commands.InitCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	// A missing .env is normal
	_ = godotenv.Load()

	err := rootCmd.ExecuteContext(context.Background())
	logger.Cleanup()
	if err != nil {
		printError(err)
	}
	os.Exit(commands.ExitCode(err))
}

func printError(err error) {
	var ee *commands.ExitError
	if !errors.As(err, &ee) || !ee.Reported {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
	}
}
