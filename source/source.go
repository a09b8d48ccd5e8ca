// Package source reads the input document tree: the version marker, every
// indexed file with its optional YAML front-matter, and the git revision the
// tree was read at.
package source

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"go.uber.org/zap"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/logger"
)

// FileType classifies an indexed file by extension
type FileType string

const (
	TypeMarkdown FileType = "markdown"
	TypeYAML     FileType = "yaml"
	TypeText     FileType = "text"
	TypeUnknown  FileType = "unknown"
)

// TypeOf maps a file extension to its FileType
func TypeOf(ext string) FileType {
	switch strings.ToLower(ext) {
	case ".md":
		return TypeMarkdown
	case ".yml", ".yaml":
		return TypeYAML
	case ".txt":
		return TypeText
	default:
		return TypeUnknown
	}
}

// File is one indexed file from the input tree
type File struct {
	Path      string // Slash-separated, relative to the tree root
	Name      string
	Type      FileType
	Extension string
	Size      int64
	Content   string

	HasFrontmatter bool
	Frontmatter    map[string]interface{}
	ParsedContent  string // Content without the front-matter block; empty without one

	// Document marks files handed to the fact extractor
	Document bool
}

// Problem is a non-fatal issue found while reading the tree
type Problem struct {
	Path    string
	Message string
}

// Tree is everything read from one input directory
type Tree struct {
	Version  string
	Revision string // Empty outside a git repository
	Files    []File // Sorted by Path
	Problems []Problem
}

// Documents returns the files marked for extraction, in path order
func (t *Tree) Documents() []File {
	var docs []File
	for _, f := range t.Files {
		if f.Document {
			docs = append(docs, f)
		}
	}
	return docs
}

// Options controls which files are read
type Options struct {
	VersionFile     string
	Extensions      []string
	IndexExtensions []string
}

// Reader reads an input tree through a billy.Filesystem rooted at the tree
type Reader struct {
	fs      billy.Filesystem
	opts    Options
	logger  *zap.SugaredLogger
	gitRoot string
}

// NewReader creates a reader over fs. gitRoot, when set, is the on-disk
// directory used to look up the repository revision.
func NewReader(fs billy.Filesystem, opts Options, gitRoot string, log *zap.SugaredLogger) *Reader {
	return &Reader{
		fs:      fs,
		opts:    opts,
		logger:  logger.OrNop(log),
		gitRoot: gitRoot,
	}
}

// Open creates a reader over an on-disk directory
func Open(dir string, opts Options, log *zap.SugaredLogger) (*Reader, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "cannot read source directory %s", dir),
			"set source.dir in bspecgen.toml or pass --source",
		)
	}
	if !info.IsDir() {
		return nil, errors.Newf("source %s is not a directory", dir)
	}
	return NewReader(osfs.New(dir), opts, dir, log), nil
}

// Read loads the version marker and walks the tree. Unreadable files and
// malformed front-matter become Problems; a missing or invalid version
// marker is an error.
func (r *Reader) Read(ctx context.Context) (*Tree, error) {
	version, err := ReadVersion(r.fs, r.opts.VersionFile)
	if err != nil {
		return nil, err
	}

	tree := &Tree{Version: version}
	docExt := extSet(r.opts.Extensions)
	indexExt := extSet(r.opts.IndexExtensions)

	err = util.Walk(r.fs, "/", func(p string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel := strings.TrimPrefix(filepath.ToSlash(p), "/")
		if walkErr != nil {
			if rel == "" {
				return walkErr
			}
			tree.Problems = append(tree.Problems, Problem{Path: rel, Message: walkErr.Error()})
			return nil
		}
		if info.IsDir() {
			if rel != "" && strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := path.Ext(rel)
		isDoc := docExt[ext]
		if !isDoc && !indexExt[ext] {
			r.logger.Debugw("Skipping file outside indexed extensions", logger.FieldPath, rel)
			return nil
		}

		data, err := util.ReadFile(r.fs, p)
		if err != nil {
			tree.Problems = append(tree.Problems, Problem{Path: rel, Message: err.Error()})
			return nil
		}

		file := File{
			Path:      rel,
			Name:      path.Base(rel),
			Type:      TypeOf(ext),
			Extension: ext,
			Size:      int64(len(data)),
			Content:   string(data),
			Document:  isDoc,
		}
		if fm, body, ok, err := ParseFrontmatter(file.Content); err != nil {
			tree.Problems = append(tree.Problems, Problem{
				Path:    rel,
				Message: "front-matter is not valid YAML, keeping raw content: " + err.Error(),
			})
		} else if ok {
			file.HasFrontmatter = true
			file.Frontmatter = fm
			file.ParsedContent = body
		}

		tree.Files = append(tree.Files, file)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk source tree")
	}

	sort.Slice(tree.Files, func(i, j int) bool { return tree.Files[i].Path < tree.Files[j].Path })

	if r.gitRoot != "" {
		rev, err := Revision(r.gitRoot)
		if err != nil {
			r.logger.Debugw("No git revision for source tree", logger.FieldPath, r.gitRoot, logger.FieldError, err)
		}
		tree.Revision = rev
	}

	r.logger.Infow("Read source tree",
		logger.FieldVersion, tree.Version,
		logger.FieldCount, len(tree.Files),
		logger.FieldRevision, tree.Revision)
	return tree, nil
}

func extSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[e] = true
	}
	return set
}
