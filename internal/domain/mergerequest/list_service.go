package mergerequest

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

type ListService struct {
	executor *Executor
	enricher *Enricher
	cache    ProjectCache
}

func NewListService(f Fetcher, pf ProjectFetcher, c ProjectCache) *ListService {
	return &ListService{
		executor: NewExecutor(f),
		enricher: NewEnricher(c, pf),
		cache:    c,
	}
}

// ListForProject lists the merge requests of one project.
func (s *ListService) ListForProject(ctx context.Context, projectID string, f *Filter) ([]*Entity, error) {
	return s.list(ctx, SingleProject(projectID), f)
}

// ListAllAccessible lists merge requests across every project the token
// can see. This is the only listing that honours Filter.Projects.
func (s *ListService) ListAllAccessible(ctx context.Context, f *Filter) ([]*Entity, error) {
	return s.list(ctx, AllProjects, f)
}

func (s *ListService) list(ctx context.Context, scope Scope, f *Filter) ([]*Entity, error) {
	if f == nil {
		f = &Filter{}
	}

	start := time.Now()
	queries := BuildQueries(f, scope, f.IsSpecific())

	entities, err := s.executor.Execute(ctx, queries)
	if err != nil {
		return nil, err
	}

	entities = s.enricher.Enrich(ctx, entities)
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}

	entities = apply(entities, f, !scope.IsSingleProject())

	log.Debug().
		Str("project", scope.ProjectID).
		Int("queries", len(queries)).
		Int("results", len(entities)).
		Dur("took", time.Since(start)).
		Msg("merge requests loaded")

	return entities, nil
}

func (s *ListService) ClearProjectCache() error {
	return s.cache.Clear()
}

func (s *ListService) ProjectCacheStatus() CacheStatus {
	return s.cache.Status()
}
