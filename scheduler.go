package paratask

// schedulerKind tags the Scheduler variant.
type schedulerKind int

const (
	schedulerSerial schedulerKind = iota
	schedulerDynamic
	schedulerStatic
	schedulerGreedy
)

// Scheduler is an immutable, cheap-to-copy configuration value selecting how a
// parallel operation partitions its input and places tasks. Construct one with
// Serial, Dynamic, Static, or Greedy.
type Scheduler struct {
	kind     schedulerKind
	pool     Pool
	chunking ChunkConfig
	nTasks   int // Greedy only; 0 means "worker count"
	hooks    Hooks
	plan     *ChunkPlan
}

// WithPlan returns a copy of s that uses plan directly instead of deriving one
// from s's chunking options. Combining WithPlan with a non-default chunking
// option (anything but ChunkDisabled) is a KindConflictingChunking error,
// raised when the Scheduler is next used, not here - WithPlan itself cannot
// see a chunking option applied afterward.
func (s Scheduler) WithPlan(plan ChunkPlan) Scheduler {
	s.plan = &plan
	return s
}

// Serial runs the operation on the caller's own goroutine, with no concurrency at
// all. It is the degenerate fast path every other Scheduler also falls back to for
// empty input or a single-chunk plan.
func Serial() Scheduler {
	return Scheduler{kind: schedulerSerial}
}

// Dynamic spawns one task per chunk on pool, each task free to run on any worker;
// it is the default choice for irregular workloads. chunking selects how the input
// is split; pass ChunkDisabled() to disable chunking (a single chunk, i.e. no
// parallelism).
func Dynamic(pool Pool, chunking ChunkConfig) Scheduler {
	return Scheduler{kind: schedulerDynamic, pool: pool, chunking: chunking}
}

// Static spawns one task per chunk, each pinned to worker thread (chunk index mod
// WorkerCount(PoolDefault)); tasks do not migrate. Use when the workload is uniform
// enough that scheduling overhead dominates over load imbalance.
func Static(chunking ChunkConfig) Scheduler {
	return Scheduler{kind: schedulerStatic, chunking: chunking}
}

// Greedy spawns nTasks workers (0 means WorkerCount(PoolDefault)) pulling work
// on-demand from a ChunkDispenser. Because completion order is nondeterministic,
// any reducer used with Greedy must be commutative, and Map is rejected
// outright under Greedy, since a per-element output position can't be
// recovered from a worker pool draining chunks in an unpredictable order.
func Greedy(nTasks int, chunking ChunkConfig) Scheduler {
	return Scheduler{kind: schedulerGreedy, chunking: chunking, nTasks: nTasks}
}

func (k schedulerKind) String() string {
	switch k {
	case schedulerSerial:
		return "serial"
	case schedulerDynamic:
		return "dynamic"
	case schedulerStatic:
		return "static"
	case schedulerGreedy:
		return "greedy"
	default:
		return "unknown"
	}
}

// isOrderPreserving reports whether output order under s is guaranteed to match
// input order - true only for Serial and for Dynamic/Static using a Consecutive
// split.
func (s Scheduler) isOrderPreserving() bool {
	switch s.kind {
	case schedulerSerial:
		return true
	case schedulerGreedy:
		return false
	default:
		return s.chunking.split == Consecutive
	}
}
