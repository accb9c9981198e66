package strategy

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/JakeFAU/brandscan/internal/brand"
	"github.com/JakeFAU/brandscan/internal/pool"
	"github.com/JakeFAU/brandscan/internal/queue/memory"
)

// Pool pushes every host through a pool of workers, closes the pool, and
// then writes the records in completion order. If any worker cannot be
// joined the run fails and nothing is written.
func (r *Runner) Pool(ctx context.Context, workers int, in io.Reader) error {
	return r.execute(KindPool, func(logger *zap.Logger, emit emitFunc) error {
		results := memory.NewQueue[brand.Site]()
		p, err := pool.New(ctx, workers, results, r.factory, logger)
		if err != nil {
			return fmt.Errorf("start pool: %w", err)
		}

		submitted := 0
		scanErr := scanHosts(in, func(host string) error {
			if err := p.Submit(host); err != nil {
				return fmt.Errorf("submit %q: %w", host, err)
			}
			submitted++
			return nil
		})
		logger.Debug("hosts submitted", zap.Int("hosts", submitted), zap.Int("workers", p.Size()))

		if err := p.Close(); err != nil {
			results.Close()
			return fmt.Errorf("join pool workers: %w", err)
		}
		if scanErr != nil {
			results.Close()
			return scanErr
		}

		for _, site := range results.Drain() {
			if err := emit(site); err != nil {
				return err
			}
		}
		return nil
	})
}
