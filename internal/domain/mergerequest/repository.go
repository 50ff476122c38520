package mergerequest

import (
	"context"
	"time"
)

// Fetcher runs a single planned query against the upstream API.
type Fetcher interface {
	Fetch(ctx context.Context, q *Query) ([]*Entity, error)
}

type ProjectFetcher interface {
	GetProject(ctx context.Context, id int64) (*ProjectSummary, error)
}

type ProjectCache interface {
	Get(id int64) (*ProjectSummary, bool)
	Put(id int64, p *ProjectSummary)
	Clear() error
	Status() CacheStatus
}

type CacheStatus struct {
	Location    string
	Total       int
	Fresh       int
	Stale       int
	OldestFresh time.Time
}
