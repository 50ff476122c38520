package mergerequest

import (
	"strings"
	"time"
)

// Filter narrows which merge requests are fetched and shown. The zero value
// asks for open merge requests with no other constraint.
type Filter struct {
	State         State
	Authors       []string
	Title         string
	ExcludeTitle  string
	Draft         *bool
	CreatedAfter  time.Time
	CreatedBefore time.Time
	// Projects is only honoured when listing across all projects.
	Projects []string
}

func (f *Filter) state() State {
	if f == nil || f.State == "" {
		return StateOpen
	}

	return f.State
}

// IsSpecific reports whether the caller asked for anything beyond the
// default state: authors, a title or a creation date bound.
func (f *Filter) IsSpecific() bool {
	if f == nil {
		return false
	}

	return len(f.Authors) > 0 ||
		f.Title != "" ||
		!f.CreatedAfter.IsZero() ||
		!f.CreatedBefore.IsZero()
}

func (f *Filter) match(e *Entity, byProject bool) bool {
	if f.Title != "" && !containsFold(e.Title, f.Title) {
		return false
	}

	if f.ExcludeTitle != "" && containsFold(e.Title, f.ExcludeTitle) {
		return false
	}

	if f.Draft != nil && e.Draft != *f.Draft {
		return false
	}

	if byProject && len(f.Projects) > 0 && !matchProject(e.Project, f.Projects) {
		return false
	}

	return true
}

// Apply keeps the entities matching the client-side predicates, in their
// original order.
func Apply(entities []*Entity, f *Filter) []*Entity {
	return apply(entities, f, false)
}

func apply(entities []*Entity, f *Filter, byProject bool) []*Entity {
	if f == nil {
		return entities
	}

	filtered := make([]*Entity, 0, len(entities))
	for _, e := range entities {
		if f.match(e, byProject) {
			filtered = append(filtered, e)
		}
	}

	return filtered
}

func matchProject(p *ProjectSummary, names []string) bool {
	if p == nil {
		return false
	}

	path := strings.ToLower(p.PathWithNamespace)
	name := strings.ToLower(p.Name)
	for _, n := range names {
		n = strings.ToLower(strings.Trim(strings.TrimSpace(n), "/"))
		if n == "" {
			continue
		}

		if n == name || n == path || strings.HasPrefix(path, n+"/") {
			return true
		}
	}

	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
