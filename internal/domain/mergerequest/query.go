package mergerequest

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const (
	singleProjectPageSize = 100
	singleProjectTimeout  = 30 * time.Second

	allProjectsPageSize   = 50
	authorQueryTimeout    = 8 * time.Second
	unfilteredTimeout     = 10 * time.Second
	homeViewPageSize      = 5
	homeViewQueryTimeout  = 12 * time.Second
	upstreamDateLayout    = time.RFC3339
	upstreamStateOpen     = "opened"
	upstreamScopeAll      = "all"
	upstreamOrderByUpdate = "updated_at"
)

// Scope selects between a single project listing and the listing across
// every accessible project.
type Scope struct {
	// ProjectID is a numeric id or a full path. Empty means all projects.
	ProjectID string
}

func SingleProject(id string) Scope {
	return Scope{ProjectID: id}
}

var AllProjects = Scope{}

func (s Scope) IsSingleProject() bool {
	return s.ProjectID != ""
}

// Query is one upstream call planned by the query builder.
type Query struct {
	Path     string
	Params   url.Values
	Author   string
	PerPage  int
	Timeout  time.Duration
	Specific bool
	Scope    Scope
}

// BuildQueries plans the upstream calls for a filter: one per author, or a
// single call when no author is selected. specific is the value of
// Filter.IsSpecific, computed once by the caller.
func BuildQueries(f *Filter, scope Scope, specific bool) []*Query {
	if f == nil {
		f = &Filter{}
	}

	path := "/merge_requests"
	if scope.IsSingleProject() {
		path = fmt.Sprintf("/projects/%s/merge_requests", url.PathEscape(scope.ProjectID))
	}

	if len(f.Authors) == 0 {
		return []*Query{newQuery(f, scope, specific, path, "")}
	}

	queries := make([]*Query, 0, len(f.Authors))
	for _, a := range f.Authors {
		queries = append(queries, newQuery(f, scope, specific, path, a))
	}

	return queries
}

func newQuery(f *Filter, scope Scope, specific bool, path, author string) *Query {
	q := &Query{
		Path:     path,
		Params:   url.Values{},
		Author:   author,
		Specific: specific,
		Scope:    scope,
	}

	switch {
	case scope.IsSingleProject():
		q.PerPage = singleProjectPageSize
		q.Timeout = singleProjectTimeout
	case specific:
		q.PerPage = allProjectsPageSize
		q.Timeout = unfilteredTimeout
		if author != "" {
			q.Timeout = authorQueryTimeout
		}
		q.Params.Set("scope", upstreamScopeAll)
	default:
		q.PerPage = homeViewPageSize
		q.Timeout = homeViewQueryTimeout
	}

	switch s := f.state(); s {
	case StateAll:
	case StateOpen:
		q.Params.Set("state", upstreamStateOpen)
	default:
		q.Params.Set("state", string(s))
	}

	if author != "" {
		q.Params.Set("author_username", author)
	}
	if !f.CreatedAfter.IsZero() {
		q.Params.Set("created_after", f.CreatedAfter.UTC().Format(upstreamDateLayout))
	}
	if !f.CreatedBefore.IsZero() {
		q.Params.Set("created_before", f.CreatedBefore.UTC().Format(upstreamDateLayout))
	}

	q.Params.Set("per_page", strconv.Itoa(q.PerPage))
	q.Params.Set("order_by", upstreamOrderByUpdate)
	q.Params.Set("sort", "desc")

	return q
}
