// Package pipeline runs the stages that turn a specification tree into
// SDKs: Verifying (extract and build), Packaging and Emitting.
//
// Verifying and Packaging failures end the run. Emitting always reaches
// Done; each target's outcome lands in its own result slot.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/bspecgen/config"
	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/extract"
	"github.com/teranos/bspecgen/logger"
	"github.com/teranos/bspecgen/model"
	"github.com/teranos/bspecgen/pack"
	"github.com/teranos/bspecgen/source"
	"github.com/teranos/bspecgen/typegen"
	"github.com/teranos/bspecgen/version"
)

// Options configures one Pipeline
type Options struct {
	SourceDir string
	Source    source.Options

	PackageDir string
	Package    pack.Options

	// EmitDir holds one output tree per target: EmitDir/<target>
	EmitDir  string
	Targets  []string
	Packages map[string]typegen.Options // Per-target package identity
	Parallel bool
	// ScratchDir is the parent of per-emitter unpack directories; empty
	// means the system temp directory.
	ScratchDir string

	Vocabulary extract.Vocabulary
	Tables     model.Tables
	Generator  string
	Clock      func() time.Time
}

// OptionsFromConfig maps resolved configuration onto pipeline options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SourceDir: cfg.SourceDir(),
		Source: source.Options{
			VersionFile:     cfg.Source.VersionFile,
			Extensions:      cfg.Source.Extensions,
			IndexExtensions: cfg.Source.IndexExtensions,
		},
		PackageDir: cfg.PackageDir(),
		Package: pack.Options{
			Name:        cfg.Package.Name,
			IncludeDocs: cfg.Package.IncludeDocs,
			KeepTree:    cfg.Package.KeepTree,
		},
		EmitDir: cfg.EmitDir(),
		Targets: cfg.Emit.Targets,
		Packages: map[string]typegen.Options{
			"typescript": {Package: cfg.Emit.NpmPackage},
			"python":     {Package: cfg.Emit.PythonPackage},
			"go":         {Package: cfg.Emit.GoModule},
			"rust":       {Package: cfg.Emit.Crate},
		},
		Parallel: cfg.Emit.Parallel,
	}
}

// Pipeline orchestrates one or more runs over the same options
type Pipeline struct {
	opts     Options
	registry *typegen.Registry
	reporter Reporter
	logger   *zap.SugaredLogger
}

// New creates a Pipeline. A nil reporter discards progress.
func New(opts Options, registry *typegen.Registry, reporter Reporter, log *zap.SugaredLogger) *Pipeline {
	if opts.Vocabulary.CodeLabel == "" {
		opts.Vocabulary = extract.DefaultVocabulary
	}
	if opts.Tables.Schema == nil && opts.Tables.ConformanceLevels == nil && opts.Tables.IndustryProfiles == nil {
		opts.Tables = model.DefaultTables()
	}
	if opts.Generator == "" {
		opts.Generator = version.Get().Generator()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if reporter == nil {
		reporter = NopReporter{}
	}
	return &Pipeline{
		opts:     opts,
		registry: registry,
		reporter: reporter,
		logger:   logger.OrNop(log),
	}
}

// run carries the state of one invocation
type run struct {
	p      *Pipeline
	report *Report
	logger *zap.SugaredLogger
}

func (p *Pipeline) start(ctx context.Context) (context.Context, *run) {
	id := uuid.NewString()
	r := &run{
		p: p,
		report: &Report{
			RunID:   id,
			Started: time.Now(),
		},
		logger: p.logger.With(logger.FieldRunID, id),
	}
	return logger.WithRunID(ctx, id), r
}

func (r *run) enter(state State, message string) {
	r.report.State = state
	r.logger.Infow("Entering stage", logger.FieldStage, string(state))
	r.p.reporter.Stage(state, message)
}

func (r *run) fail(err error) *Report {
	r.report.FailedStage = r.report.State
	r.report.State = StateFailed
	r.report.Err = err
	r.report.Duration = time.Since(r.report.Started)
	r.logger.Errorw("Stage failed", logger.FieldStage, string(r.report.FailedStage), logger.FieldError, err)
	r.p.reporter.Failed(r.report.FailedStage, err)
	r.p.reporter.Complete(r.report)
	return r.report
}

func (r *run) done() *Report {
	r.report.State = StateDone
	r.report.Duration = time.Since(r.report.Started)
	r.logger.Infow("Run complete",
		"succeeded", r.report.Succeeded(),
		"targets", len(r.report.Targets),
		logger.FieldDurationMS, r.report.Duration.Milliseconds())
	r.p.reporter.Complete(r.report)
	return r.report
}

// Verify runs Verifying only: read the tree, extract facts, build the model
func (p *Pipeline) Verify(ctx context.Context) *Report {
	ctx, r := p.start(ctx)
	if err := r.verify(ctx); err != nil {
		return r.fail(err)
	}
	return r.done()
}

// Pack runs Verifying and Packaging
func (p *Pipeline) Pack(ctx context.Context) *Report {
	ctx, r := p.start(ctx)
	if err := r.verify(ctx); err != nil {
		return r.fail(err)
	}
	if err := r.pack(ctx); err != nil {
		return r.fail(err)
	}
	return r.done()
}

// Run executes the whole pipeline
func (p *Pipeline) Run(ctx context.Context) *Report {
	ctx, r := p.start(ctx)
	if err := r.verify(ctx); err != nil {
		return r.fail(err)
	}
	if err := r.pack(ctx); err != nil {
		return r.fail(err)
	}
	r.emit(ctx, r.report.Archive)
	return r.done()
}

// Emit runs Emitting only, against an existing artifact
func (p *Pipeline) Emit(ctx context.Context, archivePath string) *Report {
	ctx, r := p.start(ctx)
	if _, err := os.Stat(archivePath); err != nil {
		r.report.State = StateEmitting
		return r.fail(errors.WithHint(
			errors.Mark(errors.Wrapf(err, "artifact %s", archivePath), errors.ErrNotFound),
			"run `bspecgen pack` first or pass --archive"))
	}
	r.report.Archive = archivePath
	r.emit(ctx, archivePath)
	return r.done()
}

func (r *run) verify(ctx context.Context) error {
	r.enter(StateVerifying, "reading "+r.p.opts.SourceDir)
	start := time.Now()

	reader, err := source.Open(r.p.opts.SourceDir, r.p.opts.Source, r.logger.Named("source"))
	if err != nil {
		return err
	}
	tree, err := reader.Read(ctx)
	if err != nil {
		return err
	}

	in := tree.Input(extract.New(r.p.opts.Vocabulary))
	builder := model.NewBuilder(
		model.WithTables(r.p.opts.Tables),
		model.WithClock(r.p.opts.Clock),
		model.WithGenerator(r.p.opts.Generator),
		model.WithLogger(r.logger.Named("model")),
	)
	m, warnings, err := builder.Build(in)
	r.report.Warnings = warnings
	if len(warnings) > 0 {
		r.p.reporter.Warnings(warnings)
	}
	if err != nil {
		return err
	}
	r.report.Model = m

	r.logger.Infow("Verified specification tree",
		logger.FieldVersion, m.Version,
		logger.FieldCount, len(m.Documents),
		"warnings", len(warnings),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return nil
}

func (r *run) pack(ctx context.Context) error {
	r.enter(StatePackaging, "writing artifact to "+r.p.opts.PackageDir)
	res, err := pack.New(r.p.opts.Package, r.logger.Named("pack")).Pack(ctx, r.report.Model, r.p.opts.PackageDir)
	if err != nil {
		return err
	}
	r.report.Pack = res
	r.report.Archive = res.Path
	r.p.reporter.Packaged(res)
	return nil
}

// emit runs every requested target. Each emitter unpacks into its own
// scratch directory and writes only its own result slot.
func (r *run) emit(ctx context.Context, archivePath string) {
	targets := r.p.opts.Targets
	r.enter(StateEmitting, "emitting "+joinTargets(targets))

	results := make([]TargetResult, len(targets))
	if r.p.opts.Parallel {
		// Failures go to the result slot; the group never sees an error
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, target := range targets {
			g.Go(func() error {
				results[i] = r.emitTarget(ctx, target, archivePath)
				return nil
			})
		}
		_ = g.Wait()
	} else {
		for i, target := range targets {
			results[i] = r.emitTarget(ctx, target, archivePath)
		}
	}
	r.report.Targets = results
}

func (r *run) emitTarget(ctx context.Context, target, archivePath string) TargetResult {
	outDir := filepath.Join(r.p.opts.EmitDir, target)
	res := TargetResult{Target: target, OutDir: outDir}
	log := r.logger.With(logger.FieldTarget, target)

	res.Result, res.Err = r.runEmitter(ctx, target, archivePath, outDir, log)
	if res.Err != nil {
		log.Warnw("Target failed", logger.FieldError, res.Err)
	}
	r.p.reporter.TargetDone(res)
	return res
}

func (r *run) runEmitter(ctx context.Context, target, archivePath, outDir string, log *zap.SugaredLogger) (*typegen.Result, error) {
	gen, err := r.p.registry.Get(target)
	if err != nil {
		return nil, err
	}
	scratch, err := pack.ScratchDir(r.p.opts.ScratchDir, target)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(scratch)

	emitter := typegen.NewEmitter(gen, r.p.opts.Packages[target], log.Named("emit"))
	return emitter.Emit(ctx, archivePath, scratch, outDir)
}

func joinTargets(targets []string) string {
	if len(targets) == 0 {
		return "no targets"
	}
	return strings.Join(targets, ", ")
}
