package pool

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/JakeFAU/brandscan/internal/brand"
	"github.com/JakeFAU/brandscan/internal/queue/memory"
	"github.com/JakeFAU/brandscan/internal/resolver"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func echoFactory() resolver.Factory {
	return func() resolver.Resolver {
		return resolver.Func(func(_ context.Context, host string) brand.Site {
			return brand.Empty(host)
		})
	}
}

func domains(sites []brand.Site) []string {
	out := make([]string, 0, len(sites))
	for _, s := range sites {
		out = append(out, s.Domain)
	}
	sort.Strings(out)
	return out
}

func TestPoolRejectsInvalidSize(t *testing.T) {
	_, err := New(context.Background(), 0, memory.NewQueue[brand.Site](), echoFactory(), nil)
	require.ErrorIs(t, err, ErrInvalidSize)
}

func TestPoolProducesOneRecordPerHost(t *testing.T) {
	for _, size := range []int{1, 4, 16, 64} {
		t.Run(fmt.Sprintf("workers=%d", size), func(t *testing.T) {
			results := memory.NewQueue[brand.Site]()
			p, err := New(context.Background(), size, results, echoFactory(), zap.NewNop())
			require.NoError(t, err)
			require.Equal(t, size, p.Size())

			var want []string
			for i := 0; i < 200; i++ {
				host := fmt.Sprintf("host-%03d.com", i)
				want = append(want, host)
				require.NoError(t, p.Submit(host))
			}
			require.NoError(t, p.Close())

			require.Equal(t, want, domains(results.Drain()))
		})
	}
}

func TestPoolDuplicatesAreProcessedIndependently(t *testing.T) {
	results := memory.NewQueue[brand.Site]()
	p, err := New(context.Background(), 3, results, echoFactory(), nil)
	require.NoError(t, err)

	for _, h := range []string{"a.com", "a.com", "b.com", "a.com"} {
		require.NoError(t, p.Submit(h))
	}
	require.NoError(t, p.Close())
	require.Equal(t, []string{"a.com", "a.com", "a.com", "b.com"}, domains(results.Drain()))
}

func TestPoolStateTransitions(t *testing.T) {
	release := make(chan struct{})
	factory := func() resolver.Resolver {
		return resolver.Func(func(_ context.Context, host string) brand.Site {
			<-release
			return brand.Empty(host)
		})
	}

	results := memory.NewQueue[brand.Site]()
	p, err := New(context.Background(), 2, results, factory, nil)
	require.NoError(t, err)
	require.Equal(t, StateRunning, p.State())
	require.NoError(t, p.Submit("slow.com"))

	closed := make(chan error, 1)
	go func() { closed <- p.Close() }()

	require.Eventually(t, func() bool { return p.State() == StateClosing }, time.Second, 5*time.Millisecond)
	require.ErrorIs(t, p.Submit("late.com"), ErrClosed)

	close(release)
	select {
	case err := <-closed:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Close did not return after workers drained")
	}
	require.Equal(t, StateClosed, p.State())
	require.Equal(t, []string{"slow.com"}, domains(results.Drain()))
}

func TestPoolSubmitAfterCloseIsLoggedNoop(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	results := memory.NewQueue[brand.Site]()
	p, err := New(context.Background(), 2, results, echoFactory(), zap.New(core))
	require.NoError(t, err)

	require.NoError(t, p.Submit("a.com"))
	require.NoError(t, p.Close())

	done := make(chan error, 1)
	go func() { done <- p.Submit("b.com") }()
	select {
	case err := <-done:
		require.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("Submit after Close blocked")
	}

	require.NoError(t, p.Close(), "Close is idempotent")
	require.Len(t, results.Drain(), 1)
	require.Equal(t, 1, logs.FilterMessage("submit after close ignored").Len())
}

func TestPoolResolvesConcurrently(t *testing.T) {
	const size = 8
	var inFlight, peak atomic.Int32
	factory := func() resolver.Resolver {
		return resolver.Func(func(_ context.Context, host string) brand.Site {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			inFlight.Add(-1)
			return brand.Empty(host)
		})
	}

	results := memory.NewQueue[brand.Site]()
	p, err := New(context.Background(), size, results, factory, nil)
	require.NoError(t, err)
	for i := 0; i < size*4; i++ {
		require.NoError(t, p.Submit(fmt.Sprintf("h%d", i)))
	}
	require.NoError(t, p.Close())

	require.Len(t, results.Drain(), size*4)
	require.LessOrEqual(t, peak.Load(), int32(size), "never more resolves in flight than workers")
	require.Greater(t, peak.Load(), int32(1), "resolves overlap across workers")
}

func TestPoolSurfacesPanickedWorker(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	factory := func() resolver.Resolver {
		return resolver.Func(func(_ context.Context, host string) brand.Site {
			if host == "boom.com" {
				panic("resolver exploded")
			}
			return brand.Empty(host)
		})
	}

	results := memory.NewQueue[brand.Site]()
	p, err := New(context.Background(), 2, results, factory, zap.New(core))
	require.NoError(t, err)
	for _, h := range []string{"a.com", "boom.com", "b.com", "c.com"} {
		require.NoError(t, p.Submit(h))
	}

	err = p.Close()
	require.Error(t, err)
	require.Equal(t, StateClosed, p.State())

	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	var werr *WorkerError
	require.True(t, errors.As(errs[0], &werr))
	require.Equal(t, "boom.com", werr.Host)
	require.Equal(t, "resolver exploded", werr.Panic)
	require.Contains(t, werr.Error(), fmt.Sprintf("worker %d", werr.WorkerID))

	entries := logs.FilterMessage("worker could not be joined").All()
	require.Len(t, entries, 1)
	require.EqualValues(t, werr.WorkerID, entries[0].ContextMap()["worker_id"])

	// The surviving worker still drains every other host.
	require.Equal(t, []string{"a.com", "b.com", "c.com"}, domains(results.Drain()))
}

func TestPoolWorkerStopsWhenResultsHangUp(t *testing.T) {
	results := memory.NewQueue[brand.Site]()
	results.Close()

	p, err := New(context.Background(), 1, results, echoFactory(), nil)
	require.NoError(t, err)
	require.NoError(t, p.Submit("a.com"))
	require.NoError(t, p.Close())
	require.Empty(t, results.Drain())
}
