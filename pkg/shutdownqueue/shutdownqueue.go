// Package shutdownqueue holds a process-wide LIFO queue of cleanup
// tasks, drained once at the end of main:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
//	defer cancel()
//	defer shutdownqueue.Shutdown(ctx)
//
// Tasks run in reverse order of registration. Shutdown is idempotent
// and returns the task errors aggregated with errors.Join.
package shutdownqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Task is a shutdown function. It should honor ctx and return an error
// if it can't finish.
type Task func(ctx context.Context) error

var (
	mu     sync.Mutex
	tasks  []Task
	closed bool
)

// Add registers a task to run on Shutdown, in LIFO order. Safe to call
// from any goroutine. Nil tasks and tasks added after shutdown started
// are dropped.
func Add(t Task) {
	if t == nil {
		return
	}

	mu.Lock()
	defer mu.Unlock()

	if closed {
		return
	}

	tasks = append(tasks, t)
}

// Shutdown drains all registered tasks in LIFO order. Subsequent calls
// are no-ops. If ctx expires mid-drain, the remaining tasks are
// skipped and the context error joins the result.
func Shutdown(ctx context.Context) error {
	mu.Lock()
	pending := tasks
	tasks = nil
	closed = true
	mu.Unlock()

	var errs []error

	for i := len(pending) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))

			return errors.Join(errs...)
		default:
		}

		err := pending[i](ctx)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
