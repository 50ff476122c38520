package watch

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"mrboard/internal/domain/mergerequest"
	"mrboard/internal/errcodes"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type countingLister struct {
	mu    sync.Mutex
	calls int
	// blockFirst makes the first call wait until it is cancelled.
	blockFirst bool
}

func (l *countingLister) next(ctx context.Context) ([]*mergerequest.Entity, error) {
	l.mu.Lock()
	l.calls++
	n := l.calls
	l.mu.Unlock()

	if l.blockFirst && n == 1 {
		<-ctx.Done()
		return nil, mergerequest.ErrCancelled
	}

	return []*mergerequest.Entity{{ID: mergerequest.EntityID(n), Title: "Fix login"}}, nil
}

func (l *countingLister) ListForProject(ctx context.Context, projectID string, f *mergerequest.Filter) ([]*mergerequest.Entity, error) {
	return l.next(ctx)
}

func (l *countingLister) ListAllAccessible(ctx context.Context, f *mergerequest.Filter) ([]*mergerequest.Entity, error) {
	return l.next(ctx)
}

func Test_watcher_run(t *testing.T) {
	t.Run("renders until cancelled", func(t *testing.T) {
		var out bytes.Buffer
		w := newWatcher(&countingLister{}, mergerequest.Filter{}, "acme/web", &out)

		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
		defer cancel()

		err := w.run(ctx, 20*time.Millisecond)
		assert.Equal(t, mergerequest.ErrCancelled, err)
		assert.GreaterOrEqual(t, w.renders, 1)
		assert.Contains(t, out.String(), "Fix login")
		assert.NotContains(t, out.String(), "PROJECT")
	})

	t.Run("a superseded refresh is never rendered", func(t *testing.T) {
		var out bytes.Buffer
		l := &countingLister{blockFirst: true}
		w := newWatcher(l, mergerequest.Filter{}, "", &out)

		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
		defer cancel()

		err := w.run(ctx, 20*time.Millisecond)
		assert.Equal(t, mergerequest.ErrCancelled, err)
		assert.NotContains(t, out.String(), "refresh failed")
		assert.Contains(t, out.String(), "PROJECT")
		assert.GreaterOrEqual(t, w.superseded, 1)
	})

	t.Run("counts no supersession when refreshes finish in time", func(t *testing.T) {
		w := newWatcher(&countingLister{}, mergerequest.Filter{}, "acme/web", &bytes.Buffer{})

		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
		defer cancel()

		_ = w.run(ctx, 40*time.Millisecond)
		assert.Equal(t, 0, w.superseded)
	})
}

func Test_watcher_apply(t *testing.T) {
	old := now
	defer func() { now = old }()
	now = func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local) }

	var out bytes.Buffer
	w := &watcher{out: &out}
	w.apply(nil, &mergerequest.UpstreamError{Path: "/merge_requests", StatusCode: 502, Status: "502 Bad Gateway"})

	assert.Equal(t, "09:30:00  refresh failed: gitlab API error on /merge_requests: 502 Bad Gateway\n", out.String())
}

func Test_validateInterval(t *testing.T) {
	t.Run("single project needs the project query budget", func(t *testing.T) {
		assert.Equal(t, 30*time.Second, minInterval(mergerequest.Filter{}, "acme/web"))
		assert.NoError(t, validateInterval(30*time.Second, mergerequest.Filter{}, "acme/web"))

		err := validateInterval(10*time.Second, mergerequest.Filter{}, "acme/web")
		assert.True(t, errors.Is(err, errcodes.ErrInvalidInterval))
		assert.Contains(t, err.Error(), "10s is below 30s")
	})

	t.Run("home view needs its query budget", func(t *testing.T) {
		assert.Equal(t, 12*time.Second, minInterval(mergerequest.Filter{}, ""))
		assert.Error(t, validateInterval(5*time.Second, mergerequest.Filter{}, ""))
	})

	t.Run("filtered listing needs the longest sub-query budget", func(t *testing.T) {
		f := mergerequest.Filter{Title: "fix"}
		assert.Equal(t, 10*time.Second, minInterval(f, ""))

		f = mergerequest.Filter{Authors: []string{"alice", "bob"}}
		assert.Equal(t, 8*time.Second, minInterval(f, ""))
	})
}
