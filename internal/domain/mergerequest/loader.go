package mergerequest

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

type LoadFunc func(ctx context.Context) ([]*Entity, error)

type ApplyFunc func(entities []*Entity, err error)

// Loader keeps at most one load operation current. Starting a load cancels
// the previous one, and only the current load may apply its result.
type Loader struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// Run cancels any in-flight load, runs load and hands its outcome to apply
// unless a newer load has started in the meantime. Cancelled loads never
// reach apply. It reports whether apply was called.
func (l *Loader) Run(ctx context.Context, load LoadFunc, apply ApplyFunc) bool {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.mu.Unlock()

	defer cancel()

	entities, err := load(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen || ctx.Err() != nil || errors.Is(err, ErrCancelled) {
		return false
	}

	l.cancel = nil
	apply(entities, err)

	return true
}

// Stop cancels the current load, if any.
func (l *Loader) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}
