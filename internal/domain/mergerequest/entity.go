package mergerequest

import "time"

type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateMerged State = "merged"
	StateAll    State = "all"
)

func (s State) IsValid() bool {
	switch s {
	case StateOpen, StateClosed, StateMerged, StateAll:
		return true
	}

	return false
}

// ParseState accepts the upstream spelling "opened" as well.
func ParseState(s string) (State, error) {
	switch s {
	case "", "open", "opened":
		return StateOpen, nil
	case "closed":
		return StateClosed, nil
	case "merged":
		return StateMerged, nil
	case "all":
		return StateAll, nil
	}

	return "", ErrUnknownState
}

type EntityID int64

type User struct {
	ID        int64
	Username  string
	Name      string
	AvatarURL string
}

type ProjectSummary struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	PathWithNamespace string `json:"path_with_namespace"`
	WebURL            string `json:"web_url"`
}

// Entity is a single merge request. ID is unique across projects, IID only
// within ProjectID.
type Entity struct {
	ID          EntityID
	IID         int64
	Title       string
	State       State
	Created     time.Time
	Updated     time.Time
	Merged      *time.Time
	Closed      *time.Time
	Author      User
	Assignees   []User
	Reviewers   []User
	Source      string
	Destination string
	URL         string
	ProjectID   int64
	Labels      []string
	Draft       bool
	Comments    int64
	Upvotes     int64
	Downvotes   int64
	Project     *ProjectSummary
}

// WithProject returns a copy carrying the project summary.
func (e *Entity) WithProject(p *ProjectSummary) *Entity {
	c := *e
	c.Project = p
	return &c
}
