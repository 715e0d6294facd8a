package paratask

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"
)

// taskHandle is the defaultRuntime's Handle implementation: a goroutine result
// delivered over a channel, with panics converted to errors so Join/TryJoin never
// need a recover of their own.
type taskHandle struct {
	done chan struct{}
	err  error
}

func (h *taskHandle) join() error {
	<-h.done
	return h.err
}

// defaultRuntime is the goroutine-backed Runtime used unless a caller supplies its
// own. Two fixed-size pools are tracked purely for WorkerCount/pinning purposes;
// goroutines themselves are not pre-allocated workers (Go's own scheduler already
// multiplexes goroutines onto OS threads), so Spawn/SpawnOn simply launch a new
// goroutine per task, consistent with how every worker-pool example in this
// ecosystem treats "pinning" as an assignment label rather than a literal
// dedicated OS thread.
type defaultRuntime struct {
	workers    [2]int // indexed by Pool
	nextTaskID atomic.Int64
	log        *zerolog.Logger
}

// RuntimeOption configures NewRuntime.
type RuntimeOption func(*defaultRuntime)

// WithAutoMaxProcs invokes go.uber.org/automaxprocs/maxprocs.Set once, so
// WorkerCount(PoolDefault) reflects a container's CPU quota rather than the host's
// full core count. Safe to call multiple times across a process; maxprocs.Set is
// itself idempotent-safe for this purpose.
func WithAutoMaxProcs() RuntimeOption {
	return func(rt *defaultRuntime) {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
			if rt.log != nil {
				rt.log.Debug().Msgf(format, args...)
			}
		}))
		rt.workers[PoolDefault] = runtime.GOMAXPROCS(0)
	}
}

// WithLogger attaches a zerolog.Logger used for construction-time warnings and
// opt-in debug tracing of scheduling decisions. Never consulted on the per-element
// hot path.
func WithLogger(logger zerolog.Logger) RuntimeOption {
	return func(rt *defaultRuntime) { rt.log = &logger }
}

// WithPoolSize overrides the worker count reported for pool, independent of
// GOMAXPROCS. Mainly useful in tests.
func WithPoolSize(pool Pool, n int) RuntimeOption {
	return func(rt *defaultRuntime) { rt.workers[pool] = n }
}

// NewRuntime returns the default goroutine-backed Runtime. PoolDefault's worker
// count defaults to runtime.GOMAXPROCS(0); PoolInteractive defaults to the same
// value, since nothing in this package treats the two pools differently beyond
// bookkeeping and caller intent.
func NewRuntime(opts ...RuntimeOption) Runtime {
	rt := &defaultRuntime{}
	gomaxprocs := runtime.GOMAXPROCS(0)
	rt.workers[PoolDefault] = gomaxprocs
	rt.workers[PoolInteractive] = gomaxprocs
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *defaultRuntime) WorkerCount(pool Pool) int {
	if int(pool) < 0 || int(pool) >= len(rt.workers) {
		return rt.workers[PoolDefault]
	}
	n := rt.workers[pool]
	if n < 1 {
		return 1
	}
	return n
}

func (rt *defaultRuntime) spawn(ctx context.Context, id TaskID, f func(context.Context) error) Handle {
	taskCtx := withTaskID(ctx, id)
	h := &taskHandle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				h.err = kernelErrorf(fmt.Errorf("panic: %v", r))
			}
		}()
		h.err = f(taskCtx)
	}()
	return h
}

func (rt *defaultRuntime) Spawn(ctx context.Context, pool Pool, f func(context.Context) error) Handle {
	id := TaskID(rt.nextTaskID.Add(1))
	if rt.log != nil {
		rt.log.Debug().Str("pool", pool.String()).Int64("task_id", int64(id)).Msg("paratask: spawn")
	}
	return rt.spawn(ctx, id, f)
}

func (rt *defaultRuntime) SpawnOn(ctx context.Context, threadIndex int, f func(context.Context) error) Handle {
	id := TaskID(rt.nextTaskID.Add(1))
	if rt.log != nil {
		workers := rt.WorkerCount(PoolDefault)
		rt.log.Debug().Int("thread", threadIndex%workers).Int64("task_id", int64(id)).Msg("paratask: spawn_on")
	}
	// Pinning to a specific OS thread is not exposed by the Go runtime for plain
	// goroutines; SpawnOn only requires that chunk k always maps to the same
	// logical worker slot across a call, which the thread-index-mod-worker-count
	// label already guarantees for the Static scheduler's bookkeeping and for any
	// Runtime that does back pinning with e.g. runtime.LockOSThread in a custom
	// implementation.
	return rt.spawn(ctx, id, f)
}

func (rt *defaultRuntime) Join(h Handle) error {
	return h.join()
}

func (rt *defaultRuntime) TryJoin(h Handle) (err error, wasEmptyReduction bool) {
	err = h.join()
	if err == nil {
		return nil, false
	}
	var pErr *Error
	if errors.As(err, &pErr) && pErr.Kind == KindEmptyReduction {
		return nil, true
	}
	return err, false
}

func (rt *defaultRuntime) CurrentTaskID(ctx context.Context) TaskID {
	return CurrentTaskID(ctx)
}

// withTaskID returns a child context carrying id, for handing to a spawned
// kernel invocation.
func withTaskID(ctx context.Context, id TaskID) context.Context {
	return context.WithValue(ctx, taskIDKey{}, id)
}
