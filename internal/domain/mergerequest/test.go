package mergerequest

import (
	"context"
	"sync"
)

type MockFetcher struct {
	mu      sync.Mutex
	Results map[string][]*Entity
	Errors  map[string]error
	// Block makes Fetch wait for ctx to be done and return ErrCancelled.
	Block   bool
	Queries []*Query
}

func (m *MockFetcher) Fetch(ctx context.Context, q *Query) ([]*Entity, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, q)
	m.mu.Unlock()

	if m.Block {
		<-ctx.Done()
		return nil, ErrCancelled
	}

	if err := m.Errors[q.Author]; err != nil {
		return nil, err
	}

	return m.Results[q.Author], nil
}

type MockProjectFetcher struct {
	mu       sync.Mutex
	Projects map[int64]*ProjectSummary
	Err      error
	Calls    int
}

func (m *MockProjectFetcher) GetProject(ctx context.Context, id int64) (*ProjectSummary, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	p, ok := m.Projects[id]
	if !ok {
		return nil, &UpstreamError{Path: "/projects", StatusCode: 404}
	}

	return p, nil
}

type MockProjectCache struct {
	mu       sync.Mutex
	Projects map[int64]*ProjectSummary
	Puts     int
}

func NewMockProjectCache() *MockProjectCache {
	return &MockProjectCache{Projects: make(map[int64]*ProjectSummary)}
}

func (m *MockProjectCache) Get(id int64) (*ProjectSummary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Projects[id]
	return p, ok
}

func (m *MockProjectCache) Put(id int64, p *ProjectSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Puts++
	m.Projects[id] = p
}

func (m *MockProjectCache) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Projects = make(map[int64]*ProjectSummary)
	return nil
}

func (m *MockProjectCache) Status() CacheStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	return CacheStatus{Location: "memory", Total: len(m.Projects), Fresh: len(m.Projects)}
}
