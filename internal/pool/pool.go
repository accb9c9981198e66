package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/JakeFAU/brandscan/internal/brand"
	"github.com/JakeFAU/brandscan/internal/metrics"
	"github.com/JakeFAU/brandscan/internal/queue/memory"
	"github.com/JakeFAU/brandscan/internal/resolver"
)

var (
	// ErrClosed is returned by Submit once Close has been called.
	ErrClosed = errors.New("pool closed")
	// ErrInvalidSize is returned by New for a size below one.
	ErrInvalidSize = errors.New("pool size must be >= 1")
)

// State is the lifecycle position of a Pool.
type State int32

// Pool states.
const (
	StateRunning State = iota
	StateClosing
	StateClosed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Results receives records from many workers concurrently.
type Results interface {
	Enqueue(site brand.Site) error
}

// Pool is a fixed set of workers sharing one task queue and one results sink.
type Pool struct {
	tasks   *memory.Queue[string]
	workers []*worker
	logger  *zap.Logger

	state     atomic.Int32
	closeOnce sync.Once
	closeErr  error
}

// New starts size workers and returns without waiting for them to be scheduled.
// Every worker creates a fresh Resolver from factory for each host and
// resolves it with ctx.
func New(ctx context.Context, size int, results Results, factory resolver.Factory, logger *zap.Logger) (*Pool, error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Pool{
		tasks:   memory.NewQueue[string](),
		workers: make([]*worker, 0, size),
		logger:  logger,
	}
	for i := 0; i < size; i++ {
		w := newWorker(i)
		p.workers = append(p.workers, w)
		go w.run(ctx, p.tasks, results, factory, logger)
	}
	logger.Debug("worker pool started", zap.Int("size", size))
	return p, nil
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// State returns the current lifecycle state.
func (p *Pool) State() State {
	return State(p.state.Load())
}

// Submit enqueues host without blocking. After Close it logs a warning and
// returns ErrClosed; nothing is enqueued.
func (p *Pool) Submit(host string) error {
	if p.State() != StateRunning {
		p.logger.Warn("submit after close ignored", zap.String("host", host), zap.Stringer("state", p.State()))
		return ErrClosed
	}
	metrics.AddQueueDepth(1)
	if err := p.tasks.Enqueue(host); err != nil {
		metrics.AddQueueDepth(-1)
		p.logger.Warn("submit after close ignored", zap.String("host", host), zap.Error(err))
		return ErrClosed
	}
	return nil
}

// Close stops accepting hosts, lets the workers drain the queue and joins
// all of them. It returns one *WorkerError per worker that panicked. Once
// Close returns the pool emits no further records. Repeated calls return the
// first result.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.state.Store(int32(StateClosing))
		p.tasks.Close()

		for _, w := range p.workers {
			<-w.done
			if w.err == nil {
				continue
			}
			p.logger.Error("worker could not be joined",
				zap.Int("worker_id", w.err.WorkerID),
				zap.String("host", w.err.Host),
				zap.Any("panic", w.err.Panic),
				zap.ByteString("stack", w.err.Stack),
			)
			p.closeErr = multierr.Append(p.closeErr, w.err)
		}

		// Hosts left behind by panicked workers were never resolved.
		if left := p.tasks.Len(); left > 0 {
			metrics.AddQueueDepth(-left)
			p.logger.Error("hosts left unresolved after join", zap.Int("count", left))
		}

		p.state.Store(int32(StateClosed))
		p.logger.Debug("worker pool closed", zap.Int("size", len(p.workers)))
	})
	return p.closeErr
}
