package mergerequest

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func Test_Loader_Run(t *testing.T) {
	t.Run("applies a completed load", func(t *testing.T) {
		l := &Loader{}
		var got []*Entity

		ok := l.Run(context.Background(),
			func(ctx context.Context) ([]*Entity, error) { return []*Entity{{ID: 1}}, nil },
			func(e []*Entity, err error) { got = e },
		)
		assert.True(t, ok)
		assert.Equal(t, []EntityID{1}, ids(got))
	})

	t.Run("applies errors other than cancellation", func(t *testing.T) {
		l := &Loader{}
		var gotErr error

		l.Run(context.Background(),
			func(ctx context.Context) ([]*Entity, error) { return nil, errors.New("boom") },
			func(e []*Entity, err error) { gotErr = err },
		)
		assert.EqualError(t, gotErr, "boom")
	})

	t.Run("never applies a superseded load", func(t *testing.T) {
		l := &Loader{}
		var mu sync.Mutex
		var applied []EntityID

		apply := func(e []*Entity, err error) {
			mu.Lock()
			defer mu.Unlock()
			applied = append(applied, ids(e)...)
		}

		started := make(chan struct{})
		release := make(chan struct{})
		resultA := make(chan bool)
		go func() {
			resultA <- l.Run(context.Background(), func(ctx context.Context) ([]*Entity, error) {
				close(started)
				<-release
				// A ignores its cancellation and answers late.
				return []*Entity{{ID: 1}}, nil
			}, apply)
		}()
		<-started

		okB := l.Run(context.Background(), func(ctx context.Context) ([]*Entity, error) {
			return []*Entity{{ID: 2}}, nil
		}, apply)
		close(release)

		assert.True(t, okB)
		assert.False(t, <-resultA)
		assert.Equal(t, []EntityID{2}, applied)
	})

	t.Run("cancels the previous load", func(t *testing.T) {
		l := &Loader{}
		started := make(chan struct{})
		errA := make(chan error, 1)

		go l.Run(context.Background(), func(ctx context.Context) ([]*Entity, error) {
			close(started)
			<-ctx.Done()
			errA <- ctx.Err()
			return nil, ErrCancelled
		}, func([]*Entity, error) { t.Error("cancelled load applied") })
		<-started

		l.Run(context.Background(), func(ctx context.Context) ([]*Entity, error) {
			return nil, nil
		}, func([]*Entity, error) {})

		assert.Equal(t, context.Canceled, <-errA)
	})

	t.Run("stop discards the in-flight load", func(t *testing.T) {
		l := &Loader{}
		started := make(chan struct{})
		done := make(chan bool)

		go func() {
			done <- l.Run(context.Background(), func(ctx context.Context) ([]*Entity, error) {
				close(started)
				<-ctx.Done()
				return nil, ErrCancelled
			}, func([]*Entity, error) {})
		}()
		<-started
		l.Stop()

		assert.False(t, <-done)
	})
}
