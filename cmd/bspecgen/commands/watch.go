package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bspecgen/logger"
	"github.com/teranos/bspecgen/watch"
)

// WatchCmd re-runs the pipeline whenever the input tree changes
var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the SDKs whenever the input tree changes",
	Long: `Run the full pipeline once, then again after every burst of changes
under source.dir. Changes closer together than watch.debounce_ms are
coalesced into one run. Stop with Ctrl+C.`,
	RunE: runWatch,
}

func init() {
	addSourceFlags(WatchCmd)
	addPackageFlags(WatchCmd)
	addEmitFlags(WatchCmd)
	WatchCmd.Flags().Int("debounce", 0, "Milliseconds to wait for changes to settle (default from watch.debounce_ms)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := newPipeline(cmd, cfg)
	p.Run(ctx)

	w, err := watch.New(cfg.SourceDir(), time.Duration(cfg.Watch.DebounceMS)*time.Millisecond, logger.Logger.Named("watch"))
	if err != nil {
		return err
	}
	defer w.Close()

	pterm.Info.Printf("Watching %s (Ctrl+C to stop)\n", cfg.SourceDir())
	return w.Run(ctx, func(ctx context.Context) {
		// Failures are rendered by the reporter; keep watching
		p.Run(ctx)
	})
}
