package gitutils

import (
	"net/url"
	"regexp"
	"strings"

	"mrboard/internal/pkg/fs"

	"github.com/pkg/errors"
)

var (
	ErrCannotGetLocalRepository         = errors.New("cannot get local repository")
	ErrUnableToParseRemoteRepositoryURI = errors.New("unable to parse remote repository URI")
	ErrNoMatchingRemote                 = errors.New("no remote points at the configured gitlab instance")
)

// RemoteProject is a project path on a git host, e.g. group/sub/project.
type RemoteProject struct {
	Host string
	Path string
}

var scpLike = regexp.MustCompile(`^(?:[^@/]+@)?([^:/]+):(.+)$`)

var getWorkingDir = func(fs fs.Filesystem) (string, error) {
	return fs.Getwd()
}

var openLocalRepo = func() (*repository, error) {
	wd, err := getWorkingDir(fs.OS{})
	if err != nil {
		return nil, errors.Wrap(err, ErrCannotGetLocalRepository.Error())
	}

	r, err := openRepo(wd)
	if err != nil {
		return nil, errors.Wrap(err, ErrCannotGetLocalRepository.Error())
	}

	return &repository{r: r}, nil
}

// ParseRemoteURL parses ssh, scp-like and http(s) remotes.
func ParseRemoteURL(raw string) (*RemoteProject, error) {
	raw = strings.TrimSpace(raw)

	var host, p string
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return nil, ErrUnableToParseRemoteRepositoryURI
		}
		host, p = u.Hostname(), u.Path
	} else {
		m := scpLike.FindStringSubmatch(raw)
		if m == nil {
			return nil, ErrUnableToParseRemoteRepositoryURI
		}
		host, p = m[1], m[2]
	}

	p = strings.TrimSuffix(strings.Trim(p, "/"), ".git")
	if host == "" || !strings.Contains(p, "/") {
		return nil, ErrUnableToParseRemoteRepositoryURI
	}

	return &RemoteProject{Host: strings.ToLower(host), Path: p}, nil
}

// ProjectPathForHost returns the project path of the first remote hosted on
// host.
func ProjectPathForHost(remoteURLs []string, host string) (string, error) {
	for _, raw := range remoteURLs {
		rp, err := ParseRemoteURL(raw)
		if err != nil {
			continue
		}

		if strings.EqualFold(rp.Host, host) {
			return rp.Path, nil
		}
	}

	return "", ErrNoMatchingRemote
}

// DetectProject finds the GitLab project path of the working directory
// repository on the instance at instanceURL.
func DetectProject(instanceURL string) (string, error) {
	u, err := url.Parse(instanceURL)
	if err != nil || u.Hostname() == "" {
		return "", errors.Wrap(ErrUnableToParseRemoteRepositoryURI, instanceURL)
	}

	r, err := openLocalRepo()
	if err != nil {
		return "", err
	}

	urls, err := r.GetRemoteURLs()
	if err != nil {
		return "", err
	}

	return ProjectPathForHost(urls, u.Hostname())
}
