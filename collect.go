package paratask

import (
	"context"
	"sync"
)

// Iterator produces a length-unknown sequence of elements: Next returns the
// next element and true, or a zero value and false once exhausted. Unlike
// Indexable, an Iterator need not support random access or report a length up
// front; Collect is the only entry point that accepts one. Implementations
// are not required to be safe for concurrent use - Collect serializes calls
// to Next itself.
type Iterator[E any] interface {
	Next() (E, bool)
}

// Collect drains it into a slice, per s. Only Serial and Greedy (without
// chunking) are supported: Dynamic and Static require a known length to build
// a ChunkPlan up front, which a length-unknown iterator cannot provide, and
// Greedy with chunking enabled is rejected for the same reason: chunking
// requires an up-front ChunkPlan. Under Serial, output
// order matches its production order; under Greedy, order is unspecified,
// matching an iterator's own lack of an index domain.
func Collect[E any](ctx context.Context, rt Runtime, it Iterator[E], s Scheduler) ([]E, error) {
	hooks := s.hooksOrNoop()

	switch s.kind {
	case schedulerSerial:
		hooks.OnChunkPlan(-1, 1)
		var out []E
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			out = append(out, v)
		}
		return out, nil

	case schedulerGreedy:
		if s.chunking.kind != chunkingDisabled {
			return nil, unsupportedInputErrorf("collect: greedy scheduler with chunking enabled does not support a length-unknown iterator")
		}
		return collectGreedy[E](ctx, rt, s, hooks, it)

	default:
		return nil, unsupportedInputErrorf("collect: %v scheduler requires a known input length to build a chunk plan; use Serial or Greedy", s.kind)
	}
}

func collectGreedy[E any](ctx context.Context, rt Runtime, s Scheduler, hooks Hooks, it Iterator[E]) ([]E, error) {
	var mu sync.Mutex
	feed := func() (E, bool) {
		mu.Lock()
		defer mu.Unlock()
		return it.Next()
	}
	dispenser := &elementDispenser[E]{feed: feed}

	nWorkers := s.nTasks
	if nWorkers <= 0 {
		nWorkers = rt.WorkerCount(PoolDefault)
	}
	if nWorkers < 1 {
		nWorkers = 1
	}
	hooks.OnChunkPlan(-1, nWorkers)

	locals := make([][]E, nWorkers)
	handles := make([]Handle, nWorkers)
	for w := 0; w < nWorkers; w++ {
		w := w
		hooks.OnSpawn(s.pool)
		handles[w] = rt.Spawn(ctx, s.pool, func(ctx context.Context) error {
			var local []E
			for {
				v, ok := dispenser.Next()
				if !ok {
					break
				}
				local = append(local, v)
			}
			locals[w] = local
			return nil
		})
	}

	var firstErr error
	for _, h := range handles {
		err := rt.Join(h)
		hooks.OnJoin(err)
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	var out []E
	for _, local := range locals {
		out = append(out, local...)
	}
	return out, nil
}
