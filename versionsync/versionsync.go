// Package versionsync keeps the version stamped into emitted package
// manifests equal to the specification's version marker.
package versionsync

import (
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/teranos/bspecgen/errors"
	"github.com/teranos/bspecgen/internal/fsutil"
	"github.com/teranos/bspecgen/logger"
	"github.com/teranos/bspecgen/source"
)

// Target is one emitted tree and the manifest holding its version
type Target struct {
	Name     string
	Dir      string
	Manifest string // Relative to Dir, e.g. "package.json"
}

// Status classifies one manifest
type Status string

const (
	StatusInSync     Status = "in-sync"
	StatusMismatch   Status = "mismatch"
	StatusMissing    Status = "missing"
	StatusUnreadable Status = "unreadable"
	StatusUpdated    Status = "updated"
)

// Entry is the state of one manifest file
type Entry struct {
	Target string `json:"target"`
	Path   string `json:"path"`
	Found  string `json:"found,omitempty"`
	Status Status `json:"status"`
	// Relation is "older", "newer", "different" or "invalid" for mismatches
	Relation string `json:"relation,omitempty"`
	Err      error  `json:"-"`
}

// Report lists every manifest checked against Want
type Report struct {
	Want    string  `json:"want"`
	Entries []Entry `json:"entries"`
}

// InSync reports whether every manifest holds Want
func (r *Report) InSync() bool {
	for _, e := range r.Entries {
		if e.Status != StatusInSync && e.Status != StatusUpdated {
			return false
		}
	}
	return true
}

// Stale returns the entries that are not in sync
func (r *Report) Stale() []Entry {
	var out []Entry
	for _, e := range r.Entries {
		if e.Status != StatusInSync && e.Status != StatusUpdated {
			out = append(out, e)
		}
	}
	return out
}

// Syncer checks and rewrites manifest versions
type Syncer struct {
	versionFile string
	targets     []Target
	logger      *zap.SugaredLogger
}

// New creates a Syncer reading the marker at versionFile
func New(versionFile string, targets []Target, log *zap.SugaredLogger) *Syncer {
	return &Syncer{versionFile: versionFile, targets: targets, logger: logger.OrNop(log)}
}

// Want reads and validates the version marker
func (s *Syncer) Want() (string, error) {
	data, err := os.ReadFile(s.versionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Mark(errors.Newf("version marker %s not found", s.versionFile), errors.ErrNotFound)
		}
		return "", errors.Wrapf(err, "failed to read %s", s.versionFile)
	}
	return source.ParseVersion(string(data))
}

// Check compares every target's manifest and version.txt with the marker
func (s *Syncer) Check() (*Report, error) {
	want, err := s.Want()
	if err != nil {
		return nil, err
	}
	report := &Report{Want: want}
	for _, t := range s.targets {
		for _, name := range manifestsOf(t) {
			report.Entries = append(report.Entries, check(t, name, want))
		}
	}
	return report, nil
}

// Sync rewrites every mismatched manifest with the marker's version.
// Missing manifests are reported, not created.
func (s *Syncer) Sync() (*Report, error) {
	report, err := s.Check()
	if err != nil {
		return nil, err
	}
	for i, e := range report.Entries {
		if e.Status != StatusMismatch {
			continue
		}
		if err := rewrite(e.Path, report.Want); err != nil {
			report.Entries[i].Status = StatusUnreadable
			report.Entries[i].Err = err
			continue
		}
		s.logger.Infow("Updated manifest version",
			logger.FieldTarget, e.Target,
			logger.FieldPath, e.Path,
			"from", e.Found,
			logger.FieldVersion, report.Want)
		report.Entries[i].Status = StatusUpdated
	}
	return report, nil
}

// Set validates version and writes it to the marker
func (s *Syncer) Set(version string) error {
	v, err := source.ParseVersion(version)
	if err != nil {
		return err
	}
	return fsutil.WriteFile(s.versionFile, []byte(v+"\n"), 0644)
}

// Bump increments the marker's major, minor or patch component and returns
// the new version
func (s *Syncer) Bump(part string) (string, error) {
	want, err := s.Want()
	if err != nil {
		return "", err
	}
	current := semver.MustParse(want)
	var next semver.Version
	switch part {
	case "major":
		next = current.IncMajor()
	case "minor":
		next = current.IncMinor()
	case "patch":
		next = current.IncPatch()
	default:
		return "", errors.WithHint(errors.Newf("unknown version part %q", part), "use major, minor or patch")
	}
	v := next.String()
	if err := s.Set(v); err != nil {
		return "", err
	}
	return v, nil
}

func manifestsOf(t Target) []string {
	if t.Manifest == "" || t.Manifest == "version.txt" {
		return []string{"version.txt"}
	}
	return []string{t.Manifest, "version.txt"}
}

func check(t Target, name, want string) Entry {
	p := filepath.Join(t.Dir, filepath.FromSlash(name))
	e := Entry{Target: t.Name, Path: p}

	f, ok := formats[filepath.Base(name)]
	if !ok {
		e.Status = StatusUnreadable
		e.Err = errors.Newf("unsupported manifest %s", name)
		return e
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			e.Status = StatusMissing
			return e
		}
		e.Status = StatusUnreadable
		e.Err = err
		return e
	}
	found, err := f.read(data)
	if err != nil {
		e.Status = StatusUnreadable
		e.Err = errors.Wrapf(err, "read version from %s", p)
		return e
	}
	e.Found = found
	if found == want {
		e.Status = StatusInSync
		return e
	}
	e.Status = StatusMismatch
	e.Relation = relation(found, want)
	return e
}

// relation orders found against want
func relation(found, want string) string {
	fv, err := semver.NewVersion(found)
	if err != nil {
		return "invalid"
	}
	wv := semver.MustParse(want)
	switch fv.Compare(wv) {
	case -1:
		return "older"
	case 1:
		return "newer"
	}
	// Equal precedence but different text, e.g. build metadata
	return "different"
}

func rewrite(path, version string) error {
	f := formats[filepath.Base(path)]
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out, err := f.write(data, version)
	if err != nil {
		return errors.Wrapf(err, "rewrite %s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return fsutil.WriteFile(path, out, info.Mode().Perm())
}
