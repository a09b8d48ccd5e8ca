package source

import (
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/teranos/bspecgen/errors"
)

// ReadVersion reads the version marker at name and checks it holds a bare
// semantic version ("1.2.0", no "v" prefix, no extra text).
func ReadVersion(fs billy.Basic, name string) (string, error) {
	data, err := util.ReadFile(fs, name)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.WithHintf(
				errors.Mark(errors.Newf("version marker %s not found", name), errors.ErrNotFound),
				"create %s at the source root containing a version such as 1.0.0", name,
			)
		}
		return "", errors.Wrapf(err, "failed to read version marker %s", name)
	}
	return ParseVersion(string(data))
}

// ParseVersion validates a version marker's content and returns it trimmed.
func ParseVersion(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if _, err := semver.StrictNewVersion(v); err != nil {
		return "", errors.WithHint(
			errors.Mark(errors.Wrapf(err, "invalid version %q", v), errors.ErrInvalidVersion),
			"the marker must hold a bare semantic version such as 1.2.0",
		)
	}
	return v, nil
}
