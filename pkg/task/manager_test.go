package task

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestRunExclusive(t *testing.T) {
	is := is.New(t)
	m := NewManager(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- m.Run("import", func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	is.Equal(m.Run("import", func(context.Context) error { return nil }), ErrAlreadyRunning)
	is.NoErr(m.Run("other", func(context.Context) error { return nil }))

	close(release)
	is.NoErr(<-done)

	// The id is free again once the first run returned.
	is.NoErr(m.Run("import", func(context.Context) error { return nil }))
}

func TestRunReturnsError(t *testing.T) {
	is := is.New(t)
	m := NewManager(context.Background())
	boom := errors.New("boom")
	is.Equal(m.Run("sweep", func(context.Context) error { return boom }), boom)
	is.NoErr(m.Run("sweep", func(context.Context) error { return nil }))
}

func TestRunCanceledWithManager(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager(ctx)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- m.Run("sweep", func(ctx context.Context) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	<-started
	cancel()
	is.True(errors.Is(<-done, context.Canceled))
}
