package strategy

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/brandscan/internal/resolver"
	"github.com/JakeFAU/brandscan/internal/sink"
)

// Stats describes one measured strategy run.
type Stats struct {
	Kind           Kind
	Workers        int
	Records        int
	Elapsed        time.Duration
	PeakGoroutines int
}

// Label returns a short name such as "pool/16".
func (s Stats) Label() string {
	if s.Kind == KindPool {
		return fmt.Sprintf("%s/%d", s.Kind, s.Workers)
	}
	return string(s.Kind)
}

// Compare runs every strategy over hosts, once per pool size for KindPool,
// discarding the records. It reports wall time and the peak goroutine count
// sampled during each run, which makes the resource cost of FanOut against
// a bounded Pool visible.
func Compare(
	ctx context.Context,
	factory resolver.Factory,
	hosts []string,
	poolSizes []int,
	logger *zap.Logger,
) ([]Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	type plan struct {
		kind    Kind
		workers int
	}
	plans := []plan{{kind: KindSequential}, {kind: KindFanOut}}
	for _, n := range poolSizes {
		plans = append(plans, plan{kind: KindPool, workers: n})
	}

	stats := make([]Stats, 0, len(plans))
	for _, p := range plans {
		out := &sink.Discard{}
		runner := NewRunner(factory, out, logger)

		sampler := startGoroutineSampler(time.Millisecond)
		start := time.Now()
		err := runner.Run(ctx, p.kind, p.workers, Lines(hosts...))
		elapsed := time.Since(start)
		peak := sampler.stop()
		if err != nil {
			return stats, err
		}

		s := Stats{
			Kind:           p.kind,
			Workers:        p.workers,
			Records:        out.Count(),
			Elapsed:        elapsed,
			PeakGoroutines: peak,
		}
		logger.Info("strategy measured",
			zap.String("strategy", s.Label()),
			zap.Int("records", s.Records),
			zap.Duration("elapsed", s.Elapsed),
			zap.Int("peak_goroutines", s.PeakGoroutines),
		)
		stats = append(stats, s)
	}
	return stats, nil
}

type goroutineSampler struct {
	quit chan struct{}
	peak chan int
}

func startGoroutineSampler(every time.Duration) *goroutineSampler {
	s := &goroutineSampler{quit: make(chan struct{}), peak: make(chan int, 1)}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		peak := runtime.NumGoroutine()
		for {
			select {
			case <-s.quit:
				if n := runtime.NumGoroutine(); n > peak {
					peak = n
				}
				s.peak <- peak
				return
			case <-ticker.C:
				if n := runtime.NumGoroutine(); n > peak {
					peak = n
				}
			}
		}
	}()
	return s
}

func (s *goroutineSampler) stop() int {
	close(s.quit)
	return <-s.peak
}
