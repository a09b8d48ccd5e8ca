// Package fsutil holds the write-then-rename helpers every stage uses so an
// interrupted run never leaves a half-written archive or output tree behind.
package fsutil

import (
	"io"
	"os"
	"path/filepath"

	"github.com/teranos/bspecgen/errors"
)

// WriteFile writes data to path atomically: temp file in the same
// directory, then rename.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	return WriteFunc(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteFunc streams content produced by fn into path atomically. If fn
// returns an error the destination is left untouched.
func WriteFunc(path string, perm os.FileMode, fn func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()

	if err := fn(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName) // best-effort cleanup
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return errors.Wrap(err, "close temp")
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return errors.Wrap(err, "chmod temp")
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName) // best-effort cleanup
		return errors.Wrapf(err, "rename temp to %s", path)
	}
	return nil
}

// StageDir creates an empty sibling directory of dest to build a tree in
// before handing it to ReplaceDir. Same parent keeps the final rename on one
// filesystem.
func StageDir(dest string) (string, error) {
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return "", errors.Wrapf(err, "create directory %s", parent)
	}
	staged, err := os.MkdirTemp(parent, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return "", errors.Wrap(err, "create staging directory")
	}
	return staged, nil
}

// ReplaceDir swaps staged into dest. An existing dest is moved aside first
// and restored if the swap fails, so dest is always either the old tree or
// the new one.
func ReplaceDir(staged, dest string) error {
	var old string
	if _, err := os.Lstat(dest); err == nil {
		aside, err := os.MkdirTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".old-*")
		if err != nil {
			return errors.Wrap(err, "reserve backup name")
		}
		// MkdirTemp only reserves the name; rename needs it gone
		if err := os.Remove(aside); err != nil {
			return errors.Wrap(err, "reserve backup name")
		}
		if err := os.Rename(dest, aside); err != nil {
			return errors.Wrapf(err, "move %s aside", dest)
		}
		old = aside
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "stat %s", dest)
	}

	if err := os.Rename(staged, dest); err != nil {
		if old != "" {
			_ = os.Rename(old, dest) // best-effort restore
		}
		return errors.Wrapf(err, "rename %s to %s", staged, dest)
	}

	if old != "" {
		if err := os.RemoveAll(old); err != nil {
			return errors.Wrapf(err, "remove previous %s", dest)
		}
	}
	return nil
}
