package paratask

import "context"

// Pool names the goroutine pool a task is placed on. PoolDefault is used by every
// operation unless the caller's Scheduler explicitly selects PoolInteractive.
// PoolInteractive is reserved for short, high-priority work; no Scheduler
// selects it implicitly, since nothing in this package guarantees a spawned
// kernel yields promptly.
type Pool int

const (
	PoolDefault Pool = iota
	PoolInteractive
)

func (p Pool) String() string {
	if p == PoolInteractive {
		return "interactive"
	}
	return "default"
}

// TaskID identifies the task a goroutine is running as, for TaskLocal lookups.
// TaskID(0) is reserved for code running outside any task spawned by a Runtime
// (the caller's own goroutine); TaskLocal.Get still works there, since access
// from a task that was not spawned by the framework is allowed.
type TaskID int64

// Handle is a joinable reference to a spawned task.
type Handle interface {
	// join blocks until the task completes, returning its error.
	join() error
}

// Runtime is the abstraction paratask requires of the underlying task runtime: it
// can spawn a function onto a named pool (or a specific worker thread) and join the
// resulting handle. See NewRuntime for the default goroutine-backed implementation.
type Runtime interface {
	// WorkerCount reports the number of workers assigned to pool.
	WorkerCount(pool Pool) int
	// Spawn starts f on pool, returning a joinable Handle. f may migrate between
	// workers at the runtime's discretion (Dynamic scheduling). f receives a
	// context derived from ctx that carries the spawned task's TaskID.
	Spawn(ctx context.Context, pool Pool, f func(ctx context.Context) error) Handle
	// SpawnOn starts f pinned to the given worker thread index within
	// PoolDefault (threadIndex is taken mod WorkerCount(PoolDefault)). Used by
	// the Static scheduler.
	SpawnOn(ctx context.Context, threadIndex int, f func(ctx context.Context) error) Handle
	// Join blocks for h to complete and returns its error.
	Join(h Handle) error
	// TryJoin blocks for h to complete. If h's error is a KindEmptyReduction
	// error, it returns a nil error and wasEmptyReduction true; otherwise it
	// returns h's error (nil on success) and false. Used by the Greedy
	// scheduler's empty-dispenser filter.
	TryJoin(h Handle) (err error, wasEmptyReduction bool)
	// CurrentTaskID returns the identity of the calling task, or TaskID(0) if not
	// running inside a task spawned by this Runtime.
	CurrentTaskID(ctx context.Context) TaskID
}

// taskIDKey is the context.Context key under which the current task's TaskID is
// stored by defaultRuntime.
type taskIDKey struct{}
