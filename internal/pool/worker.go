package pool

import (
	"context"
	"fmt"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/JakeFAU/brandscan/internal/brand"
	"github.com/JakeFAU/brandscan/internal/metrics"
	"github.com/JakeFAU/brandscan/internal/queue/memory"
	"github.com/JakeFAU/brandscan/internal/resolver"
)

// WorkerError describes a worker that terminated abnormally and therefore
// could not be joined cleanly.
type WorkerError struct {
	WorkerID int
	Host     string
	Panic    any
	Stack    []byte
}

// Error implements error.
func (e *WorkerError) Error() string {
	return fmt.Sprintf("worker %d panicked while resolving %q: %v", e.WorkerID, e.Host, e.Panic)
}

type worker struct {
	id   int
	done chan struct{}
	err  *WorkerError
}

func newWorker(id int) *worker {
	return &worker{id: id, done: make(chan struct{})}
}

// run consumes tasks until the queue is closed and drained. A panic ends the
// worker and is kept in w.err for the joiner.
func (w *worker) run(
	ctx context.Context,
	tasks *memory.Queue[string],
	results Results,
	factory resolver.Factory,
	logger *zap.Logger,
) {
	defer close(w.done)

	var current string
	defer func() {
		if r := recover(); r != nil {
			w.err = &WorkerError{WorkerID: w.id, Host: current, Panic: r, Stack: debug.Stack()}
		}
	}()

	for {
		host, err := tasks.Dequeue()
		if err != nil {
			logger.Debug("task queue closed; worker exiting", zap.Int("worker_id", w.id))
			return
		}
		metrics.AddQueueDepth(-1)
		current = host

		site := w.resolve(ctx, factory, host)

		if err := results.Enqueue(site); err != nil {
			logger.Warn("results channel hung up", zap.Int("worker_id", w.id), zap.String("host", host), zap.Error(err))
			return
		}
	}
}

func (w *worker) resolve(ctx context.Context, factory resolver.Factory, host string) brand.Site {
	metrics.IncActiveWorkers()
	defer metrics.DecActiveWorkers()
	return factory().Resolve(ctx, host)
}
