package strategy

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/JakeFAU/brandscan/internal/brand"
	"github.com/JakeFAU/brandscan/internal/clock/system"
	"github.com/JakeFAU/brandscan/internal/id/uuid"
	"github.com/JakeFAU/brandscan/internal/metrics"
	"github.com/JakeFAU/brandscan/internal/resolver"
	"github.com/JakeFAU/brandscan/internal/sink"
)

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() (string, error)
}

// Runner executes strategies against one Resolver factory and one Sink.
type Runner struct {
	factory resolver.Factory
	sink    sink.Sink
	logger  *zap.Logger
	clock   Clock
	ids     IDGenerator
}

// Option customises a Runner.
type Option func(*Runner)

// WithClock overrides the clock used to time runs.
func WithClock(c Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithIDGenerator overrides how run IDs are produced.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Runner) { r.ids = g }
}

// NewRunner builds a Runner. Every host gets a fresh Resolver from factory.
func NewRunner(factory resolver.Factory, out sink.Sink, logger *zap.Logger, opts ...Option) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		factory: factory,
		sink:    out,
		logger:  logger,
		clock:   system.New(),
		ids:     uuid.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run dispatches to the strategy named by kind. workers is only used by KindPool.
func (r *Runner) Run(ctx context.Context, kind Kind, workers int, in io.Reader) error {
	switch kind {
	case KindSequential:
		return r.Sequential(ctx, in)
	case KindFanOut:
		return r.FanOut(ctx, in)
	case KindPool:
		return r.Pool(ctx, workers, in)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
	}
}

// emitFunc appends one record to the sink.
type emitFunc func(site brand.Site) error

// execute is the harness shared by every strategy: it tags the run, times
// it, counts emitted records and always flushes the sink.
func (r *Runner) execute(
	kind Kind,
	body func(logger *zap.Logger, emit emitFunc) error,
) error {
	runID, err := r.ids.NewID()
	if err != nil {
		r.logger.Warn("run id generation failed", zap.Error(err))
	}
	logger := r.logger.With(zap.String("strategy", string(kind)), zap.String("run_id", runID))

	start := r.clock.Now()
	logger.Info("run started")

	records := 0
	emit := func(site brand.Site) error {
		if err := r.sink.Append(site); err != nil {
			return err
		}
		records++
		metrics.ObserveRecord(string(kind))
		return nil
	}

	runErr := body(logger, emit)
	runErr = multierr.Append(runErr, r.sink.Flush())

	elapsed := r.clock.Now().Sub(start)
	if runErr != nil {
		metrics.ObserveRun(string(kind), "failed", elapsed)
		logger.Error("run failed", zap.Int("records", records), zap.Duration("elapsed", elapsed), zap.Error(runErr))
		return fmt.Errorf("%s run: %w", kind, runErr)
	}
	metrics.ObserveRun(string(kind), "success", elapsed)
	logger.Info("run finished", zap.Int("records", records), zap.Duration("elapsed", elapsed))
	return nil
}
