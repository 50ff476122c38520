package gitutils

import "github.com/go-git/go-git/v5"

type MockGoGitRepository struct {
	Err          error
	RemotesValue []*git.Remote
}

func (r MockGoGitRepository) Remotes() ([]*git.Remote, error) {
	return r.RemotesValue, r.Err
}
