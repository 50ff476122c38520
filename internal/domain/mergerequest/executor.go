package mergerequest

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
)

// Executor runs planned queries concurrently and merges their results.
type Executor struct {
	fetcher Fetcher
}

func NewExecutor(f Fetcher) *Executor {
	return &Executor{fetcher: f}
}

// Execute runs every query at once. With several queries a failing one is
// logged and contributes nothing; only cancellation of ctx fails the call.
// A lone query has nothing to fall back on, so its error is returned, with
// a hint attached to timeouts.
func (ex *Executor) Execute(ctx context.Context, queries []*Query) ([]*Entity, error) {
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}

	switch len(queries) {
	case 0:
		return nil, nil
	case 1:
		return ex.executeOne(ctx, queries[0])
	}

	results := make([][]*Entity, len(queries))
	g, gctx := errgroup.WithContext(ctx)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			entities, err := ex.fetcher.Fetch(gctx, q)
			if err != nil {
				if ctx.Err() != nil {
					return ErrCancelled
				}

				log.Warn().
					Err(err).
					Str("author", q.Author).
					Msg("author query failed, continuing without it")
				return nil
			}

			results[i] = entities
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ErrCancelled
	}

	return Merge(results...), nil
}

func (ex *Executor) executeOne(ctx context.Context, q *Query) ([]*Entity, error) {
	entities, err := ex.fetcher.Fetch(ctx, q)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}

		if errors.Is(err, ErrTimedOut) {
			return nil, withHint(err, timeoutHint(q))
		}

		return nil, err
	}

	return Merge(entities), nil
}

// timeoutHint picks the guidance for a timed out query. Only the unfiltered
// listing across all projects gets the home view copy.
func timeoutHint(q *Query) string {
	switch {
	case q.Scope.IsSingleProject():
		return HintProject
	case q.Specific:
		return HintFiltered
	}

	return HintHomeView
}

// Merge joins result lists, keeping one entity per ID. The copy with the
// later Updated time wins. The result is ordered by Updated, newest first;
// ties keep their first-seen order.
func Merge(lists ...[]*Entity) []*Entity {
	index := make(map[EntityID]int)
	merged := make([]*Entity, 0)

	for _, list := range lists {
		for _, e := range list {
			if e == nil {
				continue
			}

			i, ok := index[e.ID]
			if !ok {
				index[e.ID] = len(merged)
				merged = append(merged, e)
				continue
			}

			if e.Updated.After(merged[i].Updated) {
				merged[i] = e
			}
		}
	}

	slices.SortStableFunc(merged, func(a, b *Entity) bool {
		return a.Updated.After(b.Updated)
	})

	return merged
}
