package typegen

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/internal/fsutil"
	"github.com/teranos/bspecgen/logger"
	"github.com/teranos/bspecgen/model"
	"github.com/teranos/bspecgen/pack"
)

// Result describes one written output tree
type Result struct {
	Target    string
	OutDir    string
	Files     []string // Relative paths, sorted
	Documents int
	Duration  time.Duration
}

// Emitter runs one Generator against packaged artifacts
type Emitter struct {
	gen    Generator
	opts   Options
	logger *zap.SugaredLogger
}

// NewEmitter creates an Emitter for gen
func NewEmitter(gen Generator, opts Options, log *zap.SugaredLogger) *Emitter {
	return &Emitter{gen: gen, opts: opts, logger: logger.OrNop(log)}
}

// Target returns the generator's language
func (e *Emitter) Target() string { return e.gen.Language() }

// Emit unpacks the artifact into scratchDir, re-aggregates the model from
// the unpacked members and writes the target tree to outDir. outDir is
// replaced only when every file was written.
func (e *Emitter) Emit(ctx context.Context, archivePath, scratchDir, outDir string) (*Result, error) {
	art, err := pack.Open(ctx, archivePath, scratchDir)
	if err != nil {
		return nil, err
	}
	e.logger.Debugw("Unpacked artifact",
		logger.FieldArchive, archivePath,
		logger.FieldScratch, scratchDir,
		logger.FieldMembers, len(art.Members))
	return e.EmitModel(ctx, art.Model, outDir)
}

// EmitModel renders m directly and writes the target tree to outDir
func (e *Emitter) EmitModel(ctx context.Context, m *model.CanonicalModel, outDir string) (*Result, error) {
	start := time.Now()
	ir, err := Project(m)
	if err != nil {
		return nil, err
	}
	files, err := e.gen.Generate(ir, e.opts)
	if err != nil {
		return nil, errors.Wrapf(err, "%s generator failed", e.gen.Language())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := WriteTree(outDir, files); err != nil {
		return nil, err
	}

	res := &Result{
		Target:    e.gen.Language(),
		OutDir:    outDir,
		Documents: len(m.Documents),
		Duration:  time.Since(start),
	}
	for _, f := range files {
		res.Files = append(res.Files, f.Path)
	}
	sort.Strings(res.Files)

	e.logger.Infow("Emitted target",
		logger.FieldTarget, res.Target,
		logger.FieldOutput, outDir,
		logger.FieldCount, len(res.Files),
		logger.FieldDurationMS, res.Duration.Milliseconds())
	return res, nil
}

// WriteTree writes files into a staging sibling of outDir and swaps it into
// place, so outDir is always either the previous tree or the complete new one.
func WriteTree(outDir string, files []File) error {
	staged, err := fsutil.StageDir(outDir)
	if err != nil {
		return err
	}
	defer os.RemoveAll(staged) // no-op once renamed into place

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		clean := path.Clean(f.Path)
		if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return errors.Newf("generated path %q escapes the output tree", f.Path)
		}
		if seen[clean] {
			return errors.Newf("generated path %q written twice", f.Path)
		}
		seen[clean] = true

		dest := filepath.Join(staged, filepath.FromSlash(clean))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return errors.Wrapf(err, "create directory for %s", clean)
		}
		if err := os.WriteFile(dest, f.Data, 0644); err != nil {
			return errors.Wrapf(err, "write %s", clean)
		}
	}
	return fsutil.ReplaceDir(staged, outDir)
}
