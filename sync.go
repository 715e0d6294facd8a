package paratask

import "sync"

// OnceRegion ensures f runs exactly once across any number of concurrent
// TryEnter calls sharing the region, until Reset is called. The zero value is
// ready to use.
type OnceRegion struct {
	mu      sync.Mutex
	latched bool
}

// TryEnter runs f if the region is not yet latched, latching it first; concurrent
// or subsequent callers (until Reset) are no-ops. Order of the single winner among
// racing callers is unspecified.
func (r *OnceRegion) TryEnter(f func()) {
	r.mu.Lock()
	if r.latched {
		r.mu.Unlock()
		return
	}
	r.latched = true
	r.mu.Unlock()
	f()
}

// Reset returns the region to unlatched, so a subsequent TryEnter runs f again.
func (r *OnceRegion) Reset() {
	r.mu.Lock()
	r.latched = false
	r.mu.Unlock()
}

// SerialRegion provides mutually-exclusive access across peers sharing it. The
// zero value is ready to use. Order of admission among waiting callers is
// unspecified.
type SerialRegion struct {
	mu sync.Mutex
}

// With runs f while holding exclusive access to the region, releasing it on every
// exit path (including a panic from f).
func (r *SerialRegion) With(f func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f()
}

// Barrier is a reusable rendezvous for a fixed number of peers: the cycle's final
// Arrive call releases every peer that called Arrive during that cycle and resets
// the counter for the next cycle. Calling Arrive fewer than n times per cycle
// deadlocks the remaining peers; this is the caller's responsibility.
type Barrier struct {
	n int

	mu      sync.Mutex
	cond    *sync.Cond
	arrived int
	cycle   uint64
}

// NewBarrier returns a Barrier for exactly n peers per cycle. Panics if n <= 0.
func NewBarrier(n int) *Barrier {
	if n <= 0 {
		panic("paratask: NewBarrier: n must be > 0")
	}
	b := &Barrier{n: n}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Arrive blocks until n peers (across the whole cycle) have called Arrive, then
// releases all of them simultaneously and resets the barrier for reuse.
func (b *Barrier) Arrive() {
	b.mu.Lock()
	defer b.mu.Unlock()

	cycle := b.cycle
	b.arrived++
	if b.arrived == b.n {
		b.arrived = 0
		b.cycle++
		b.cond.Broadcast()
		return
	}
	for b.cycle == cycle {
		b.cond.Wait()
	}
}
