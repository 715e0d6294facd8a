package paratask

// Hooks lets a caller observe scheduling decisions without affecting them: chunk
// planning, task spawns, and task joins. Every method must return promptly; hooks
// run inline on the scheduling path. A nil Hooks (the default) costs nothing.
//
// This is the mechanism behind the testable "single-chunk optimization" property:
// attach a counting Hooks and assert OnSpawn is never called when the chunk
// plan collapses to one chunk.
type Hooks interface {
	// OnChunkPlan is called once per operation, after the ChunkPlan is computed
	// and before any task is spawned.
	OnChunkPlan(length, chunkCount int)
	// OnSpawn is called immediately before a task is spawned onto pool.
	OnSpawn(pool Pool)
	// OnJoin is called immediately after a spawned task's Handle is joined, with
	// its resulting error (nil on success).
	OnJoin(err error)
}

// WithHooks returns a copy of s that reports scheduling decisions to h. Passing a
// nil h clears any previously attached Hooks.
func (s Scheduler) WithHooks(h Hooks) Scheduler {
	s.hooks = h
	return s
}

// noopHooks is used whenever a Scheduler carries no Hooks, so call sites never have
// to nil-check.
type noopHooks struct{}

func (noopHooks) OnChunkPlan(int, int) {}
func (noopHooks) OnSpawn(Pool)         {}
func (noopHooks) OnJoin(error)         {}

func (s Scheduler) hooksOrNoop() Hooks {
	if s.hooks == nil {
		return noopHooks{}
	}
	return s.hooks
}

// CountingHooks is a Hooks implementation that tallies calls, for use in tests
// asserting scheduling fast-path and instrumentation invariants.
type CountingHooks struct {
	ChunkPlans int
	Spawns     int
	Joins      int
}

func (h *CountingHooks) OnChunkPlan(int, int) { h.ChunkPlans++ }
func (h *CountingHooks) OnSpawn(Pool)         { h.Spawns++ }
func (h *CountingHooks) OnJoin(error)         { h.Joins++ }
