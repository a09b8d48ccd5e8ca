package commands

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bspecgen/config"
	"github.com/teranos/bspecgen/display"
	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/logger"
	"github.com/teranos/bspecgen/pipeline"
	"github.com/teranos/bspecgen/typegen/targets"
	"github.com/teranos/bspecgen/versionsync"
)

var (
	syncCheck bool
	syncSet   string
	syncBump  string
)

// SyncVersionCmd keeps emitted manifests on the input tree's version
var SyncVersionCmd = &cobra.Command{
	Use:   "sync-version",
	Short: "Align emitted package manifests with the version marker",
	Long: `Read the version marker of the input tree and compare it with the
version in every emitted manifest (package.json, pyproject.toml, Cargo.toml,
version.go and each target's version.txt).

Without flags, mismatching manifests are rewritten in place. Manifests that
do not exist yet are reported, not created.

Examples:
  bspecgen sync-version --check        # exit 1 if anything is out of sync
  bspecgen sync-version --bump minor   # 1.2.0 -> 1.3.0, then sync
  bspecgen sync-version --set 2.0.0    # write the marker, then sync`,
	RunE: runSyncVersion,
}

func init() {
	SyncVersionCmd.Flags().BoolVar(&syncCheck, "check", false, "Report mismatches without rewriting")
	SyncVersionCmd.Flags().StringVar(&syncSet, "set", "", "Write this version to the marker before syncing")
	SyncVersionCmd.Flags().StringVar(&syncBump, "bump", "", "Bump the marker (major, minor or patch) before syncing")
	SyncVersionCmd.Flags().StringP("out", "o", "", "Root of the per-target trees (default from emit.dir)")
	SyncVersionCmd.Flags().StringSliceP("targets", "t", nil, "Targets to sync (default from emit.targets)")
	addSourceFlags(SyncVersionCmd)
	SyncVersionCmd.MarkFlagsMutuallyExclusive("check", "set", "bump")
}

// newSyncer builds a Syncer over every configured target's manifest
func newSyncer(cfg *config.Config) (*versionsync.Syncer, error) {
	registry := targets.Default()
	syncTargets := make([]versionsync.Target, 0, len(cfg.Emit.Targets))
	for _, name := range cfg.Emit.Targets {
		gen, err := registry.Get(name)
		if err != nil {
			return nil, err
		}
		syncTargets = append(syncTargets, versionsync.Target{
			Name:     name,
			Dir:      cfg.TargetDir(name),
			Manifest: gen.ManifestPath(),
		})
	}
	versionFile := filepath.Join(cfg.SourceDir(), cfg.Source.VersionFile)
	return versionsync.New(versionFile, syncTargets, logger.Logger.Named("versionsync")), nil
}

func runSyncVersion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	syncer, err := newSyncer(cfg)
	if err != nil {
		return err
	}

	switch {
	case syncSet != "":
		if err := syncer.Set(syncSet); err != nil {
			return err
		}
	case syncBump != "":
		next, err := syncer.Bump(syncBump)
		if err != nil {
			return err
		}
		if !display.ShouldOutputJSON(cmd) {
			pterm.Info.Printf("Version marker bumped to %s\n", next)
		}
	}

	var report *versionsync.Report
	if syncCheck {
		report, err = syncer.Check()
	} else {
		report, err = syncer.Sync()
	}
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		if err := display.WriteJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
	} else {
		renderSyncReport(report)
	}

	if !report.InSync() {
		stale := report.Stale()
		err := errors.Newf("%d manifest(s) not at version %s", len(stale), report.Want)
		if syncCheck {
			err = errors.WithHint(err, "run `bspecgen sync-version` to rewrite them")
		}
		return &ExitError{Code: pipeline.ExitFatal, Err: err, Reported: true}
	}
	return nil
}

func renderSyncReport(report *versionsync.Report) {
	pterm.Printf("Version marker: %s\n", pterm.Bold.Sprint(report.Want))
	for _, e := range report.Entries {
		switch e.Status {
		case versionsync.StatusInSync:
			pterm.Printf("  %s %s\n", pterm.Green("✓"), e.Path)
		case versionsync.StatusUpdated:
			pterm.Printf("  %s %s (%s → %s)\n", pterm.Green("↑"), e.Path, e.Found, report.Want)
		case versionsync.StatusMismatch:
			pterm.Printf("  %s %s has %s (%s)\n", pterm.Red("✗"), e.Path, e.Found, e.Relation)
		case versionsync.StatusMissing:
			pterm.Printf("  %s %s missing\n", pterm.Yellow("•"), e.Path)
		case versionsync.StatusUnreadable:
			pterm.Printf("  %s %s unreadable: %v\n", pterm.Red("✗"), e.Path, e.Err)
		}
	}
}
