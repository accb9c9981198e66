package strategy

import (
	"context"
	"io"

	"go.uber.org/zap"
)

// Sequential resolves each host on the calling goroutine, in input order,
// appending each record as soon as it is produced.
func (r *Runner) Sequential(ctx context.Context, in io.Reader) error {
	return r.execute(KindSequential, func(_ *zap.Logger, emit emitFunc) error {
		return scanHosts(in, func(host string) error {
			return emit(r.factory().Resolve(ctx, host))
		})
	})
}
