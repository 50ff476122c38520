package mergerequest

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// MaxProjectFetches bounds the cache back-fill of a single enrichment pass.
const MaxProjectFetches = 20

type Enricher struct {
	cache    ProjectCache
	fetcher  ProjectFetcher
	maxFetch int
}

func NewEnricher(c ProjectCache, f ProjectFetcher) *Enricher {
	return &Enricher{
		cache:    c,
		fetcher:  f,
		maxFetch: MaxProjectFetches,
	}
}

// Enrich attaches project summaries to the entities. Summaries come from the
// cache first; misses are fetched concurrently, at most maxFetch of them,
// and written back to the cache. Entities whose project could not be
// resolved are returned unchanged.
func (en *Enricher) Enrich(ctx context.Context, entities []*Entity) []*Entity {
	if len(entities) == 0 {
		return entities
	}

	projects := make(map[int64]*ProjectSummary)
	var missing []int64
	for _, e := range entities {
		if _, seen := projects[e.ProjectID]; seen {
			continue
		}

		p, ok := en.cache.Get(e.ProjectID)
		if !ok {
			projects[e.ProjectID] = nil
			missing = append(missing, e.ProjectID)
			continue
		}
		projects[e.ProjectID] = p
	}

	if len(missing) > en.maxFetch {
		log.Debug().
			Int("missing", len(missing)).
			Int("limit", en.maxFetch).
			Msg("too many unknown projects, leaving the rest unenriched")
		missing = missing[:en.maxFetch]
	}

	fetched := make([]*ProjectSummary, len(missing))
	var wg sync.WaitGroup
	for i, id := range missing {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()

			p, err := en.fetcher.GetProject(ctx, id)
			if err != nil {
				log.Debug().Err(err).Int64("project", id).Msg("cannot fetch project")
				return
			}
			fetched[i] = p
		}(i, id)
	}
	wg.Wait()

	for i, p := range fetched {
		if p == nil {
			continue
		}

		en.cache.Put(missing[i], p)
		projects[missing[i]] = p
	}

	enriched := make([]*Entity, 0, len(entities))
	for _, e := range entities {
		if p := projects[e.ProjectID]; p != nil {
			enriched = append(enriched, e.WithProject(p))
			continue
		}
		enriched = append(enriched, e)
	}

	return enriched
}
