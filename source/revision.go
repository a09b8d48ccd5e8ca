package source

import (
	"github.com/go-git/go-git/v5"

	"github.com/teranos/bspecgen/errors"
)

// Revision returns the HEAD commit hash of the git repository containing dir,
// searching parent directories for .git. Outside a repository it returns an
// empty string and a nil error.
func Revision(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", nil
		}
		return "", errors.Wrapf(err, "failed to open repository at %s", dir)
	}

	ref, err := repo.Head()
	if err != nil {
		// Fresh repository without commits
		return "", errors.Wrap(err, "failed to resolve HEAD")
	}
	return ref.Hash().String(), nil
}
