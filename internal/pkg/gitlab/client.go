package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"mrboard/internal/domain/mergerequest"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/tidwall/gjson"
	"golang.org/x/exp/slices"
)

var (
	ErrMissingGitlabURL   = errors.New("gitlab url is missing")
	ErrMissingGitlabToken = errors.New("gitlab token is missing")
)

const (
	defaultTimeout  = 30 * time.Second
	groupsTimeout   = 5 * time.Second
	membersTimeout  = 6 * time.Second
	projectsPerPage = 100
	maxAuthors      = 50
)

type Client struct {
	t   *Transport
	URL string
}

type ClientOptions struct {
	URL               string
	Token             string
	RequestsPerSecond float64
}

func New(o *ClientOptions) *Client {
	return &Client{
		t: NewTransport(&TransportOptions{
			URL:               o.URL,
			Token:             o.Token,
			RequestsPerSecond: o.RequestsPerSecond,
		}),
		URL: strings.TrimSuffix(o.URL, "/"),
	}
}

func ClientOptionsFromConfig(v *viper.Viper) (*ClientOptions, error) {
	u := v.GetString("gitlab.url")
	if u == "" {
		return nil, ErrMissingGitlabURL
	}
	token := v.GetString("gitlab.token")
	if token == "" {
		return nil, ErrMissingGitlabToken
	}

	return &ClientOptions{
		URL:               u,
		Token:             token,
		RequestsPerSecond: v.GetFloat64("gitlab.requests_per_second"),
	}, nil
}

func DefaultClient(v *viper.Viper) (*Client, error) {
	o, err := ClientOptionsFromConfig(v)
	if err != nil {
		return nil, err
	}

	return New(o), nil
}

func (c *Client) Fetch(ctx context.Context, q *mergerequest.Query) ([]*mergerequest.Entity, error) {
	res, err := c.t.Request(ctx, q.Path, q.Params, q.Timeout)
	if err != nil {
		return nil, err
	}

	return parseMergeRequests(res), nil
}

func (c *Client) GetProject(ctx context.Context, id int64) (*mergerequest.ProjectSummary, error) {
	res, err := c.t.Request(ctx, fmt.Sprintf("/projects/%d", id), nil, defaultTimeout)
	if err != nil {
		return nil, err
	}

	return parseProject(res), nil
}

// Projects lists the projects the token is a member of.
func (c *Client) Projects(ctx context.Context, search string) ([]*mergerequest.ProjectSummary, error) {
	params := url.Values{}
	params.Set("membership", "true")
	params.Set("simple", "true")
	params.Set("per_page", fmt.Sprint(projectsPerPage))
	if search != "" {
		params.Set("search", search)
	}

	res, err := c.t.Request(ctx, "/projects", params, defaultTimeout)
	if err != nil {
		return nil, err
	}

	var projects []*mergerequest.ProjectSummary
	res.ForEach(func(key, value gjson.Result) bool {
		projects = append(projects, parseProject(value))
		return true
	})

	return projects, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*mergerequest.User, error) {
	res, err := c.t.Request(ctx, "/user", nil, defaultTimeout)
	if err != nil {
		return nil, err
	}

	u := parseUser(res)
	return &u, nil
}

type ConnectionResult struct {
	Success bool
	User    *mergerequest.User
	Error   string
}

func (c *Client) TestConnection(ctx context.Context) *ConnectionResult {
	u, err := c.CurrentUser(ctx)
	if err != nil {
		return &ConnectionResult{Error: err.Error()}
	}

	return &ConnectionResult{Success: true, User: u}
}

type group struct {
	ID   int64
	Name string
}

func (c *Client) primaryGroup(ctx context.Context) (*group, error) {
	for _, topLevel := range []bool{true, false} {
		params := url.Values{}
		params.Set("membership", "true")
		params.Set("per_page", "10")
		if topLevel {
			params.Set("top_level_only", "true")
		}

		res, err := c.t.Request(ctx, "/groups", params, groupsTimeout)
		if err != nil {
			return nil, err
		}

		if first := res.Get("0"); first.Exists() {
			return &group{
				ID:   first.Get("id").Int(),
				Name: first.Get("name").String(),
			}, nil
		}
	}

	return nil, nil
}

// SearchAuthors looks up candidate authors among the members of the first
// group the token belongs to. Failures yield an empty list.
func (c *Client) SearchAuthors(ctx context.Context, query string) []mergerequest.User {
	g, err := c.primaryGroup(ctx)
	if err != nil {
		log.WithError(err).Warn("cannot list groups")
		return nil
	}
	if g == nil {
		log.Warn("no groups found for the current user")
		return nil
	}

	params := url.Values{}
	params.Set("per_page", "200")
	if q := strings.TrimSpace(query); q != "" {
		params.Set("query", q)
	}

	res, err := c.t.Request(ctx, fmt.Sprintf("/groups/%d/members/all", g.ID), params, membersTimeout)
	if err != nil {
		log.WithError(err).WithField("group", g.Name).Warn("cannot list group members")
		return nil
	}

	seen := make(map[int64]bool)
	var users []mergerequest.User
	res.ForEach(func(key, value gjson.Result) bool {
		u := parseUser(value)
		if u.ID == 0 || u.Username == "" || u.Name == "" || seen[u.ID] {
			return true
		}
		seen[u.ID] = true
		users = append(users, u)
		return true
	})

	slices.SortStableFunc(users, func(a, b mergerequest.User) bool {
		return a.Name < b.Name
	})

	if len(users) > maxAuthors {
		users = users[:maxAuthors]
	}

	return users
}
