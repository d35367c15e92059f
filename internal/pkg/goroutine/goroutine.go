package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/shandysiswandi/goship/internal/pkg/stacktrace"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 100

// ErrClosed is reported by Go after Wait has been called.
var ErrClosed = errors.New("goroutine: manager is closed")

// ErrSaturated is reported by Go when every slot is busy.
var ErrSaturated = errors.New("goroutine: maximum goroutine limit reached")

// Manager runs background tasks with a bounded concurrency. Tasks never
// block the caller: when no slot is free the task is dropped and reported.
// Task errors and panics are logged with the task name.
type Manager struct {
	wg      sync.WaitGroup
	sema    chan struct{}
	stateMu sync.RWMutex
	closed  bool
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules f under name. The task receives ctx as given, so callers that
// outlive a request should pass context.WithoutCancel.
func (g *Manager) Go(ctx context.Context, name string, f func(ctx context.Context) error) error {
	g.stateMu.RLock()
	defer g.stateMu.RUnlock()

	if g.closed {
		slog.WarnContext(ctx, "goroutine manager is closed, task skipped", "task", name)
		return ErrClosed
	}

	select {
	case g.sema <- struct{}{}:
	default:
		slog.WarnContext(ctx, "maximum goroutine limit reached, task skipped", "task", name)
		return ErrSaturated
	}

	g.wg.Go(func() {
		defer func() {
			<-g.sema

			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic occurred in goroutine",
					"task", name,
					"panic", rvr,
					"stack", stacktrace.InternalPaths(debug.Stack()),
				)
			}
		}()

		if err := f(ctx); err != nil {
			slog.ErrorContext(ctx, "goroutine task failed", "task", name, "error", err)
		}
	})

	return nil
}

// Wait stops accepting tasks and blocks until running tasks finish or ctx
// is done.
func (g *Manager) Wait(ctx context.Context) error {
	g.stateMu.Lock()
	g.closed = true
	g.stateMu.Unlock()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
