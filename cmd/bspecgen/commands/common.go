package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/bspecgen/config"
	"github.com/teranos/bspecgen/display"
	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/logger"
	"github.com/teranos/bspecgen/pipeline"
	"github.com/teranos/bspecgen/typegen/targets"
)

// ExitError carries a process exit status out of a command
type ExitError struct {
	Code int
	Err  error
	// Reported is set when a reporter already rendered Err
	Reported bool
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode maps a command error onto the process exit status
func ExitCode(err error) int {
	if err == nil {
		return pipeline.ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return pipeline.ExitFatal
}

// flagKeys maps command flags onto the config keys they override
var flagKeys = map[string]string{
	"source":      "source.dir",
	"package-dir": "package.dir",
	"keep-tree":   "package.keep_tree",
	"out":         "emit.dir",
	"targets":     "emit.targets",
	"parallel":    "emit.parallel",
	"debounce":    "watch.debounce_ms",
}

// loadConfig resolves configuration with the command's flags bound over it
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New()
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errors.Wrapf(err, "failed to bind --%s", name)
			}
		}
	}

	path, _ := cmd.Flags().GetString("config")
	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to determine working directory")
	}
	cfg, err := config.LoadFrom(v, wd, path)
	if err != nil {
		return nil, err
	}
	if cfg.File != "" {
		logger.Logger.Debugw("Loaded config", logger.FieldPath, cfg.File)
	}
	return cfg, nil
}

func verbosity(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

func newReporter(cmd *cobra.Command) pipeline.Reporter {
	if display.ShouldOutputJSON(cmd) {
		return pipeline.NewJSONReporter(cmd.OutOrStdout())
	}
	return pipeline.NewCLIReporter(verbosity(cmd))
}

func newPipeline(cmd *cobra.Command, cfg *config.Config) *pipeline.Pipeline {
	return pipeline.New(
		pipeline.OptionsFromConfig(cfg),
		targets.Default(),
		newReporter(cmd),
		logger.Logger.Named("pipeline"),
	)
}

// reportError turns a finished report into the command's error
func reportError(report *pipeline.Report) error {
	code := report.ExitCode()
	if code == pipeline.ExitOK {
		return nil
	}
	err := report.Err
	if err == nil {
		err = errors.Newf("%d of %d targets failed", report.Failed(), len(report.Targets))
	}
	return &ExitError{Code: code, Err: err, Reported: true}
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "Input document tree (default from source.dir)")
}

func addPackageFlags(cmd *cobra.Command) {
	cmd.Flags().String("package-dir", "", "Directory receiving the packaged artifact (default from package.dir)")
	cmd.Flags().Bool("keep-tree", false, "Keep the unpacked member tree next to the archive")
}

func addEmitFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("out", "o", "", "Root of the per-target output trees (default from emit.dir)")
	cmd.Flags().StringSliceP("targets", "t", nil, "Targets to emit (default from emit.targets)")
	cmd.Flags().Bool("parallel", false, "Run emitters concurrently")
}
