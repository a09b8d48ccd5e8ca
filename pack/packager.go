package pack

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/internal/fsutil"
	"github.com/teranos/bspecgen/logger"
	"github.com/teranos/bspecgen/model"
)

// Options controls packaging
type Options struct {
	// Name prefixes the archive file name
	Name string
	// IncludeDocs adds version.txt and README.md members
	IncludeDocs bool
	// KeepTree leaves the unpacked member tree next to the archive
	KeepTree bool
}

// Result describes a written artifact
type Result struct {
	Path     string   // Archive path
	TreeDir  string   // Member tree, set only with KeepTree
	Members  []string // Member paths, sorted
	Size     int64    // Archive size in bytes
	Manifest Manifest
}

// Packager writes canonical models as artifacts
type Packager struct {
	opts   Options
	logger *zap.SugaredLogger
}

// New creates a Packager
func New(opts Options, log *zap.SugaredLogger) *Packager {
	if opts.Name == "" {
		opts.Name = "bspec"
	}
	return &Packager{opts: opts, logger: logger.OrNop(log)}
}

// Pack re-checks the model's invariants, stages every member as a directory
// tree next to outDir, and writes the compressed archive atomically. Any
// failure leaves no archive behind; an existing archive is replaced only
// on success.
func (p *Packager) Pack(ctx context.Context, m *model.CanonicalModel, outDir string) (*Result, error) {
	start := time.Now()
	if _, err := m.Check(); err != nil {
		return nil, err
	}

	name := ArchiveName(p.opts.Name, m.Version)
	archivePath := filepath.Join(outDir, name)
	treeDir := filepath.Join(outDir, strings.TrimSuffix(name, ".tgz"))

	members, err := BuildMembers(m, name, p.opts.IncludeDocs)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	staged, err := fsutil.StageDir(treeDir)
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(staged) // no-op once renamed into place

	if err := WriteTree(staged, members); err != nil {
		return nil, err
	}
	p.logger.Debugw("Staged member tree", logger.FieldScratch, staged, logger.FieldMembers, len(members))

	// The archive is serialized from the staged tree, not the in-memory list
	onDisk, err := ReadTree(staged)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var written int64
	err = fsutil.WriteFunc(archivePath, 0644, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		if err := WriteTarGz(cw, onDisk, m.GeneratedAt); err != nil {
			return err
		}
		written = cw.n
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to write archive %s", archivePath)
	}

	res := &Result{
		Path:    archivePath,
		Members: MemberPaths(onDisk),
		Size:    written,
	}
	res.Manifest, err = manifestOf(onDisk)
	if err != nil {
		return nil, err
	}

	if p.opts.KeepTree {
		if err := fsutil.ReplaceDir(staged, treeDir); err != nil {
			return nil, err
		}
		res.TreeDir = treeDir
	}

	p.logger.Infow("Wrote artifact",
		logger.FieldArchive, archivePath,
		logger.FieldMembers, len(res.Members),
		logger.FieldBytes, written,
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return res, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
