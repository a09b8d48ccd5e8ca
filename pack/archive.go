package pack

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/teranos/bspecgen/errors"
)

// WriteTree writes members as files under dir. Absolute member paths and
// paths leaving dir are rejected before anything is written.
func WriteTree(dir string, members []Member) error {
	clean := make([]string, len(members))
	for i, m := range members {
		p, err := cleanMemberPath(m.Path)
		if err != nil {
			return err
		}
		clean[i] = p
	}
	for i, m := range members {
		dest := filepath.Join(dir, filepath.FromSlash(clean[i]))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return errors.Wrapf(err, "create directory for %s", m.Path)
		}
		if err := os.WriteFile(dest, m.Data, 0644); err != nil {
			return errors.Wrapf(err, "write %s", m.Path)
		}
	}
	return nil
}

// ReadTree loads every regular file under dir as a member, sorted by path
func ReadTree(dir string) ([]Member, error) {
	var members []Member
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		members = append(members, Member{Path: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "read tree %s", dir)
	}
	sortMembers(members)
	return members, nil
}

// WriteTarGz serializes members into a gzip-compressed tar stream. Members
// are written in path order with fixed ownership, mode and modTime, and the
// gzip header carries no name or time, so equal input gives equal bytes.
func WriteTarGz(w io.Writer, members []Member, modTime time.Time) error {
	sorted := append([]Member(nil), members...)
	sortMembers(sorted)

	gz, err := gzip.NewWriterLevel(w, gzip.BestCompression)
	if err != nil {
		return errors.Wrap(err, "create gzip writer")
	}
	tw := tar.NewWriter(gz)

	modTime = modTime.UTC().Truncate(time.Second)
	for _, m := range sorted {
		hdr := &tar.Header{
			Typeflag: tar.TypeReg,
			Name:     m.Path,
			Mode:     0644,
			Size:     int64(len(m.Data)),
			ModTime:  modTime,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return errors.Wrapf(err, "write header for %s", m.Path)
		}
		if _, err := tw.Write(m.Data); err != nil {
			return errors.Wrapf(err, "write %s", m.Path)
		}
	}

	if err := tw.Close(); err != nil {
		return errors.Wrap(err, "close tar stream")
	}
	if err := gz.Close(); err != nil {
		return errors.Wrap(err, "close gzip stream")
	}
	return nil
}

// maxMemberSize bounds a single member when reading untrusted archives
const maxMemberSize = 64 << 20

// ReadTarGz reads every regular-file member of a tar.gz stream. Errors are
// marked ErrArtifact.
func ReadTarGz(r io.Reader) ([]Member, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "artifact is not gzip compressed"), errors.ErrArtifact)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	var members []Member
	seen := make(map[string]bool)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "corrupt tar stream"), errors.ErrArtifact)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name, err := cleanMemberPath(hdr.Name)
		if err != nil {
			return nil, err
		}
		if seen[name] {
			return nil, errors.NewArtifactError("duplicate member %s", name)
		}
		seen[name] = true
		if hdr.Size > maxMemberSize {
			return nil, errors.NewArtifactError("member %s is %d bytes, limit is %d", name, hdr.Size, maxMemberSize)
		}
		data, err := io.ReadAll(io.LimitReader(tr, maxMemberSize+1))
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "read member %s", name), errors.ErrArtifact)
		}
		members = append(members, Member{Path: name, Data: data})
	}
	sortMembers(members)
	return members, nil
}

// cleanMemberPath rejects absolute paths and paths escaping the archive root
func cleanMemberPath(name string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "./"))
	if clean == "." || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", errors.NewArtifactError("unsafe member path %q", name)
	}
	return clean, nil
}

// MemberPaths returns the paths of members in order
func MemberPaths(members []Member) []string {
	out := make([]string, len(members))
	for i, m := range members {
		out[i] = m.Path
	}
	sort.Strings(out)
	return out
}
