package typegen

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/bspecgen/errors"
)

// CheckResult holds the result of comparing generated trees
type CheckResult struct {
	UpToDate    bool
	Differences map[string][]string // target -> files that differ, are missing or are extra
}

// CompareTrees compares freshTree with committedTree for one target and
// returns the relative paths that differ. Generation timestamps are ignored.
// Missing files are suffixed " (missing)", files only in the committed tree
// " (extra)".
func CompareTrees(freshTree, committedTree string) ([]string, error) {
	fresh, err := listFiles(freshTree)
	if err != nil {
		return nil, err
	}
	committed, err := listFiles(committedTree)
	if err != nil && !os.IsNotExist(errors.UnwrapAll(err)) {
		return nil, err
	}

	var diffs []string
	for rel := range fresh {
		if !committed[rel] {
			diffs = append(diffs, rel+" (missing)")
			continue
		}
		different, err := filesAreDifferent(filepath.Join(freshTree, rel), filepath.Join(committedTree, rel))
		if err != nil {
			return nil, err
		}
		if different {
			diffs = append(diffs, rel)
		}
	}
	for rel := range committed {
		if !fresh[rel] {
			diffs = append(diffs, rel+" (extra)")
		}
	}
	sort.Strings(diffs)
	return diffs, nil
}

// Compare runs CompareTrees per target: freshRoot/<target> against
// committedRoot/<target>.
func Compare(freshRoot, committedRoot string, targets []string) (*CheckResult, error) {
	differences := make(map[string][]string)
	for _, target := range targets {
		diffs, err := CompareTrees(filepath.Join(freshRoot, target), filepath.Join(committedRoot, target))
		if err != nil {
			return nil, errors.Wrapf(err, "compare %s", target)
		}
		if len(diffs) > 0 {
			differences[target] = diffs
		}
	}
	return &CheckResult{
		UpToDate:    len(differences) == 0,
		Differences: differences,
	}, nil
}

func listFiles(root string) (map[string]bool, error) {
	files := make(map[string]bool)
	if _, err := os.Stat(root); err != nil {
		return files, errors.WithStack(err)
	}
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = true
		return nil
	})
	return files, errors.Wrapf(err, "walk %s", root)
}

// filesAreDifferent compares two files, ignoring generation timestamps
func filesAreDifferent(file1, file2 string) (bool, error) {
	content1, err := os.ReadFile(file1)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file1)
	}
	content2, err := os.ReadFile(file2)
	if err != nil {
		return false, errors.Wrapf(err, "failed to read %s", file2)
	}
	if bytes.Equal(content1, content2) {
		return false, nil
	}
	return filterMetadataLines(content1) != filterMetadataLines(content2), nil
}

// filterMetadataLines drops lines that change on every generation: the
// "Generated at:" header comment and "generated_at" JSON keys.
// Returns empty string if the scanner fails.
func filterMetadataLines(content []byte) string {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16<<20)

	for scanner.Scan() {
		line := scanner.Text()
		if isMetadataLine(line) {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return ""
	}
	return result.String()
}

func isMetadataLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	trimmed = strings.TrimLeft(trimmed, "/#* ")
	return strings.HasPrefix(trimmed, "Generated at:") ||
		strings.HasPrefix(trimmed, `"generated_at":`) ||
		strings.HasPrefix(trimmed, `"generatedAt":`)
}
