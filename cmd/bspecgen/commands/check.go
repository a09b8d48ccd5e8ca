package commands

import (
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bspecgen/display"
	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/logger"
	"github.com/teranos/bspecgen/pipeline"
	"github.com/teranos/bspecgen/typegen/targets"
)

// CheckCmd fails when the committed SDK trees differ from a fresh generation
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the committed SDKs match the input tree",
	Long: `Regenerate every target into a temporary directory and compare the
result with the committed trees under emit.dir. Generation timestamps are
ignored. Exits 1 when any target is stale.

Intended for CI:
  bspecgen check || (echo "run bspecgen generate" && exit 1)`,
	RunE: runCheck,
}

func init() {
	addSourceFlags(CheckCmd)
	CheckCmd.Flags().StringP("out", "o", "", "Root of the committed per-target trees (default from emit.dir)")
	CheckCmd.Flags().StringSliceP("targets", "t", nil, "Targets to check (default from emit.targets)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Regeneration progress only shows with -v
	var reporter pipeline.Reporter = pipeline.NopReporter{}
	if verbosity(cmd) >= 1 {
		reporter = newReporter(cmd)
	}
	p := pipeline.New(pipeline.OptionsFromConfig(cfg), targets.Default(), reporter, logger.Logger.Named("check"))

	result, _, err := p.Check(cmd.Context())
	if err != nil {
		return err
	}

	stale := make([]string, 0, len(result.Differences))
	for target := range result.Differences {
		stale = append(stale, target)
	}
	sort.Strings(stale)

	if display.ShouldOutputJSON(cmd) {
		if err := display.WriteJSON(cmd.OutOrStdout(), map[string]interface{}{
			"up_to_date":  result.UpToDate,
			"differences": result.Differences,
		}); err != nil {
			return err
		}
	} else if result.UpToDate {
		pterm.Success.Println("Generated SDKs are up to date")
	} else {
		pterm.Error.Println("Generated SDKs are out of date")
		for _, target := range stale {
			pterm.Printf("  %s\n", pterm.Bold.Sprint(target))
			for _, file := range result.Differences[target] {
				pterm.Printf("    %s %s\n", pterm.Red("✗"), file)
			}
		}
	}

	if !result.UpToDate {
		return &ExitError{
			Code: pipeline.ExitFatal,
			Err: errors.WithHint(
				errors.Newf("%d target(s) out of date", len(stale)),
				"run `bspecgen generate` and commit the result",
			),
			Reported: true,
		}
	}
	return nil
}
