package mergerequest

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return base.Add(time.Duration(minutes) * time.Minute)
}

func ids(entities []*Entity) []EntityID {
	out := make([]EntityID, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.ID)
	}
	return out
}

func authorQueries(authors ...string) []*Query {
	return BuildQueries(&Filter{Authors: authors}, AllProjects, true)
}

func Test_Merge(t *testing.T) {
	t.Run("keeps each id once with the latest copy", func(t *testing.T) {
		old := &Entity{ID: 1, Title: "old", Updated: at(1)}
		fresh := &Entity{ID: 1, Title: "fresh", Updated: at(5)}
		other := &Entity{ID: 2, Updated: at(3)}

		got := Merge([]*Entity{old, other}, []*Entity{fresh})
		want := []*Entity{fresh, other}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
		}

		got = Merge([]*Entity{fresh}, []*Entity{old, other})
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("sorts by update time, newest first", func(t *testing.T) {
		got := Merge(
			[]*Entity{{ID: 1, Updated: at(1)}, {ID: 4, Updated: at(9)}},
			[]*Entity{{ID: 2, Updated: at(7)}, {ID: 3, Updated: at(3)}},
		)
		assert.Equal(t, []EntityID{4, 2, 3, 1}, ids(got))
		for i := 1; i < len(got); i++ {
			assert.False(t, got[i].Updated.After(got[i-1].Updated))
		}
	})

	t.Run("breaks ties by first appearance", func(t *testing.T) {
		got := Merge(
			[]*Entity{{ID: 5, Updated: at(1)}, {ID: 3, Updated: at(1)}},
			[]*Entity{{ID: 9, Updated: at(1)}},
		)
		assert.Equal(t, []EntityID{5, 3, 9}, ids(got))
	})

	t.Run("handles empty input", func(t *testing.T) {
		assert.Empty(t, Merge())
		assert.Empty(t, Merge(nil, []*Entity{}))
	})
}

func Test_Executor_Execute(t *testing.T) {
	t.Run("unions partial successes", func(t *testing.T) {
		f := &MockFetcher{
			Results: map[string][]*Entity{
				"alice": {{ID: 1, Updated: at(1)}, {ID: 2, Updated: at(4)}},
				"carol": {{ID: 2, Updated: at(6)}, {ID: 3, Updated: at(2)}},
			},
			Errors: map[string]error{
				"bob": &UpstreamError{Path: "/merge_requests", StatusCode: 500},
			},
		}

		got, err := NewExecutor(f).Execute(context.Background(), authorQueries("alice", "bob", "carol"))
		assert.NoError(t, err)
		assert.Equal(t, []EntityID{2, 3, 1}, ids(got))
		assert.Equal(t, at(6), got[0].Updated)
		assert.Len(t, f.Queries, 3)
	})

	t.Run("swallows timeouts of author queries", func(t *testing.T) {
		f := &MockFetcher{
			Results: map[string][]*Entity{"alice": {{ID: 1}}},
			Errors:  map[string]error{"bob": &TimeoutError{Timeout: time.Second}},
		}

		got, err := NewExecutor(f).Execute(context.Background(), authorQueries("alice", "bob"))
		assert.NoError(t, err)
		assert.Equal(t, []EntityID{1}, ids(got))
	})

	t.Run("returns empty when every author query fails", func(t *testing.T) {
		f := &MockFetcher{
			Errors: map[string]error{
				"alice": errors.New("boom"),
				"bob":   errors.New("boom"),
			},
		}

		got, err := NewExecutor(f).Execute(context.Background(), authorQueries("alice", "bob"))
		assert.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("propagates cancellation of author queries", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		f := &MockFetcher{Block: true}

		done := make(chan error)
		go func() {
			_, err := NewExecutor(f).Execute(ctx, authorQueries("alice", "bob"))
			done <- err
		}()
		cancel()

		assert.Equal(t, ErrCancelled, <-done)
	})

	t.Run("fails fast on an already cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		f := &MockFetcher{}

		_, err := NewExecutor(f).Execute(ctx, authorQueries("alice"))
		assert.Equal(t, ErrCancelled, err)
		assert.Empty(t, f.Queries)
	})

	t.Run("propagates the failure of a lone query", func(t *testing.T) {
		upstream := &UpstreamError{Path: "/merge_requests", StatusCode: 502}
		f := &MockFetcher{Errors: map[string]error{"": upstream}}

		got, err := NewExecutor(f).Execute(context.Background(), BuildQueries(&Filter{}, AllProjects, false))
		assert.Nil(t, got)
		assert.Equal(t, upstream, err)
	})

	t.Run("adds guidance to a lone query timeout", func(t *testing.T) {
		f := &MockFetcher{Errors: map[string]error{"": &TimeoutError{Path: "/merge_requests", Timeout: 12 * time.Second}}}

		_, err := NewExecutor(f).Execute(context.Background(), BuildQueries(&Filter{}, AllProjects, false))
		assert.True(t, errors.Is(err, ErrTimedOut))
		var te *TimeoutError
		assert.True(t, errors.As(err, &te))
		assert.Equal(t, HintHomeView, te.Hint)

		_, err = NewExecutor(f).Execute(context.Background(), BuildQueries(&Filter{Title: "x"}, AllProjects, true))
		assert.True(t, errors.As(err, &te))
		assert.Equal(t, HintFiltered, te.Hint)
		assert.Contains(t, err.Error(), "timed out after 12s")
	})

	t.Run("gives project guidance to a single project timeout", func(t *testing.T) {
		f := &MockFetcher{Errors: map[string]error{"": &TimeoutError{Path: "/projects/7/merge_requests", Timeout: 30 * time.Second}}}

		for _, specific := range []bool{false, true} {
			_, err := NewExecutor(f).Execute(context.Background(), BuildQueries(&Filter{}, SingleProject("7"), specific))
			var te *TimeoutError
			assert.True(t, errors.As(err, &te))
			assert.Equal(t, HintProject, te.Hint)
		}
	})

	t.Run("returns nothing for no queries", func(t *testing.T) {
		got, err := NewExecutor(&MockFetcher{}).Execute(context.Background(), nil)
		assert.NoError(t, err)
		assert.Empty(t, got)
	})
}
