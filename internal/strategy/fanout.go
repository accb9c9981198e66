package strategy

import (
	"context"
	"fmt"
	"io"
	"runtime/debug"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/JakeFAU/brandscan/internal/brand"
	"github.com/JakeFAU/brandscan/internal/resolver"
)

// JoinError reports a fan-out unit that panicked and could not be joined.
type JoinError struct {
	Index int
	Host  string
	Panic any
	Stack []byte
}

// Error implements error.
func (e *JoinError) Error() string {
	return fmt.Sprintf("unit %d (%q) could not be joined: %v", e.Index, e.Host, e.Panic)
}

type unit struct {
	index int
	host  string
	done  chan struct{}
	site  brand.Site
	err   *JoinError
}

func (u *unit) run(ctx context.Context, factory resolver.Factory) {
	defer close(u.done)
	defer func() {
		if r := recover(); r != nil {
			u.err = &JoinError{Index: u.index, Host: u.host, Panic: r, Stack: debug.Stack()}
		}
	}()
	u.site = factory().Resolve(ctx, u.host)
}

// FanOut starts one goroutine per host while reading the input, then joins
// them in launch order and writes their records in that order.
//
// There is no limit on concurrency: N hosts means N goroutines
// and N simultaneous fetches. Use Pool for large inputs.
//
// A unit that panics fails the run. Records of units launched after it are
// not written, but every unit is still waited for before returning.
func (r *Runner) FanOut(ctx context.Context, in io.Reader) error {
	return r.execute(KindFanOut, func(logger *zap.Logger, emit emitFunc) error {
		var units []*unit
		scanErr := scanHosts(in, func(host string) error {
			u := &unit{index: len(units), host: host, done: make(chan struct{})}
			units = append(units, u)
			go u.run(ctx, r.factory)
			return nil
		})
		logger.Debug("fan-out launched", zap.Int("units", len(units)))

		var joinErr error
		for _, u := range units {
			<-u.done
			if joinErr != nil {
				continue
			}
			if u.err != nil {
				logger.Error("unit could not be joined",
					zap.Int("unit", u.index),
					zap.String("host", u.host),
					zap.Any("panic", u.err.Panic),
					zap.ByteString("stack", u.err.Stack),
				)
				joinErr = u.err
				continue
			}
			if err := emit(u.site); err != nil {
				joinErr = err
			}
		}
		return multierr.Append(scanErr, joinErr)
	})
}
