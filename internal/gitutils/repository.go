package gitutils

import (
	"fmt"
	"path"

	"github.com/go-git/go-git/v5"
	"golang.org/x/exp/slices"
)

type goGitRepository interface {
	Remotes() ([]*git.Remote, error)
}

type repository struct {
	r goGitRepository
}

var openRepo = func(path string) (goGitRepository, error) {
	return OpenRepoRecursively(path)
}

// OpenRepoRecursively opens the repository containing input, walking up
// towards the filesystem root.
func OpenRepoRecursively(input string) (*git.Repository, error) {
	dir := input
	for dir != "/" && dir != "." {
		repo, err := git.PlainOpen(dir)
		if err == nil {
			return repo, nil
		}

		dir = path.Dir(dir)
	}

	return nil, fmt.Errorf("could not recursively open a repo at %s", input)
}

// GetRemoteURLs lists the URLs of every remote, origin first.
func (r *repository) GetRemoteURLs() ([]string, error) {
	remotes, err := r.r.Remotes()
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(remotes, func(a, b *git.Remote) bool {
		return a.Config().Name == git.DefaultRemoteName && b.Config().Name != git.DefaultRemoteName
	})

	var repoURLs []string
	for _, re := range remotes {
		repoURLs = append(repoURLs, re.Config().URLs...)
	}

	return repoURLs, nil
}
