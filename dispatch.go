package paratask

import "context"

// runChunksOrdered runs worker once per range in plan and returns the partial
// results in chunk-index order. A single-chunk (or empty) plan runs worker
// directly on the caller's goroutine (the single-chunk optimization): no task
// is spawned and OnSpawn is never called. Otherwise Dynamic spawns one
// task per chunk onto s.pool; Static spawns one task per chunk pinned to
// worker slot (chunk index); Greedy spawns a bounded worker pool pulling
// chunks from a ChunkDispenser, so its returned partials are in completion
// order rather than chunk-index order (callers combining them must use a
// commutative op, per Scheduler's own contract).
func runChunksOrdered[P any](ctx context.Context, rt Runtime, s Scheduler, plan ChunkPlan, hooks Hooks, worker func(ctx context.Context, r Range) (P, error)) ([]P, error) {
	ranges := plan.Ranges()
	if len(ranges) < 2 {
		if len(ranges) == 0 {
			return nil, nil
		}
		p, err := worker(ctx, ranges[0])
		if err != nil {
			return nil, err
		}
		return []P{p}, nil
	}

	if s.kind == schedulerGreedy {
		return runGreedyChunks(ctx, rt, s, plan, hooks, worker)
	}

	results := make([]P, len(ranges))
	handles := make([]Handle, len(ranges))
	for i, r := range ranges {
		i, r := i, r
		hooks.OnSpawn(s.pool)
		spawnFn := func(ctx context.Context) error {
			p, err := worker(ctx, r)
			results[i] = p
			return err
		}
		if s.kind == schedulerStatic {
			handles[i] = rt.SpawnOn(ctx, i, spawnFn)
		} else {
			handles[i] = rt.Spawn(ctx, s.pool, spawnFn)
		}
	}

	// Every sibling is joined to completion regardless of earlier errors;
	// sibling tasks are never automatically cancelled.
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
	return results, nil
}

// greedyWorkerCount clamps a Scheduler's requested worker count to at least
// one and at most the plan's chunk count (spawning more workers than there is
// work to dispense would only ever sit idle on an exhausted ChunkDispenser).
func greedyWorkerCount(s Scheduler, rt Runtime, chunkCount int) int {
	n := s.nTasks
	if n <= 0 {
		n = rt.WorkerCount(PoolDefault)
	}
	return clamp(n, 1, chunkCount)
}

// runGreedyForEachElements implements ForEach's Greedy-without-chunking path:
// each worker claims individual input indices one at a time from an
// indexedElementDispenser instead of draining whole chunk ranges, since a
// disabled ChunkConfig always plans a single whole-input chunk and so cannot
// express per-element dispensing through runGreedyChunks.
func runGreedyForEachElements[E any](ctx context.Context, rt Runtime, s Scheduler, input Indexable[E], hooks Hooks, f func(ctx context.Context, index int, elem E) error) error {
	length := input.Len()
	if length == 0 {
		hooks.OnChunkPlan(0, 0)
		return nil
	}

	nWorkers := greedyWorkerCount(s, rt, length)
	hooks.OnChunkPlan(length, nWorkers)

	dispenser := &indexedElementDispenser[E]{feed: sliceElementFeed(input)}
	handles := make([]Handle, nWorkers)
	for w := 0; w < nWorkers; w++ {
		hooks.OnSpawn(s.pool)
		handles[w] = rt.Spawn(ctx, s.pool, func(ctx context.Context) error {
			for {
				i, e, ok := dispenser.Next()
				if !ok {
					return nil
				}
				if err := f(ctx, i, e); err != nil {
					return kernelErrorf(err)
				}
			}
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
	return firstErr
}

// runGreedyChunks implements the Greedy scheduler for operations (ForEach)
// that don't need to fold partials with a combining op: each worker drains the
// dispenser into its own local slice, and the slices are concatenated in
// worker-spawn order once every worker has joined.
func runGreedyChunks[P any](ctx context.Context, rt Runtime, s Scheduler, plan ChunkPlan, hooks Hooks, worker func(ctx context.Context, r Range) (P, error)) ([]P, error) {
	dispenser := NewChunkDispenser(plan)
	nWorkers := greedyWorkerCount(s, rt, plan.ChunkCount())

	locals := make([][]P, nWorkers)
	handles := make([]Handle, nWorkers)
	for w := 0; w < nWorkers; w++ {
		w := w
		hooks.OnSpawn(s.pool)
		handles[w] = rt.Spawn(ctx, s.pool, func(ctx context.Context) error {
			var local []P
			for {
				r, ok := dispenser.Next()
				if !ok {
					break
				}
				p, err := worker(ctx, r)
				if err != nil {
					return err
				}
				local = append(local, p)
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

	var out []P
	for _, local := range locals {
		out = append(out, local...)
	}
	return out, nil
}

// runGreedyReduce implements the Greedy scheduler for MapReduce/Reduce: each of
// a bounded pool of workers pulls chunks from a ChunkDispenser until it is
// exhausted, folding every chunk's localReduce result into its own
// accumulator with op. A worker that never claims a chunk (the other workers
// drained the dispenser first) reports errEmptyReduction, which TryJoin
// recognizes and filters out
// structurally rather than threading a "did this worker do anything" flag
// through the result values. The surviving per-worker accumulators are then
// folded together with op, which the Greedy scheduler's contract requires to
// be commutative, since worker completion order is nondeterministic.
func runGreedyReduce[R any](ctx context.Context, rt Runtime, s Scheduler, plan ChunkPlan, hooks Hooks, localReduce func(ctx context.Context, r Range) (R, error), op func(a, b R) (R, error), init *R) (R, error) {
	var zero R
	if plan.ChunkCount() == 0 {
		if init != nil {
			return *init, nil
		}
		return zero, errEmptyReduction
	}

	dispenser := NewChunkDispenser(plan)
	nWorkers := greedyWorkerCount(s, rt, plan.ChunkCount())

	partials := make([]R, nWorkers)
	handles := make([]Handle, nWorkers)
	for w := 0; w < nWorkers; w++ {
		w := w
		hooks.OnSpawn(s.pool)
		handles[w] = rt.Spawn(ctx, s.pool, func(ctx context.Context) error {
			var acc R
			has := false
			for {
				r, ok := dispenser.Next()
				if !ok {
					break
				}
				v, err := localReduce(ctx, r)
				if err != nil {
					return err
				}
				if !has {
					acc = v
					has = true
				} else {
					acc, err = op(acc, v)
					if err != nil {
						return kernelErrorf(err)
					}
				}
			}
			if !has {
				return errEmptyReduction
			}
			partials[w] = acc
			return nil
		})
	}

	var firstErr error
	contributed := make([]bool, nWorkers)
	for w, h := range handles {
		err, wasEmpty := rt.TryJoin(h)
		hooks.OnJoin(err)
		if wasEmpty {
			continue
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		contributed[w] = true
	}
	if firstErr != nil {
		return zero, firstErr
	}

	var acc R
	has := false
	for w, ok := range contributed {
		if !ok {
			continue
		}
		if !has {
			acc = partials[w]
			has = true
			continue
		}
		var err error
		acc, err = op(acc, partials[w])
		if err != nil {
			return zero, kernelErrorf(err)
		}
	}
	if !has {
		if init != nil {
			return *init, nil
		}
		return zero, errEmptyReduction
	}
	return acc, nil
}

// runGreedyReduceElements implements MapReduce/Reduce's Greedy-without-chunking
// path: each worker claims individual input indices from an
// indexedElementDispenser instead of draining whole chunk ranges, applying f and
// folding with op into its own accumulator, which starts from init when init is
// non-nil. A worker that has no init and never claims an index reports
// errEmptyReduction, filtered the same structural way
// runGreedyReduce's chunked path does. The surviving per-worker accumulators are
// then folded together with op, which must be commutative here too, since
// worker completion order is nondeterministic.
func runGreedyReduceElements[E, R any](ctx context.Context, rt Runtime, s Scheduler, input Indexable[E], hooks Hooks, f func(ctx context.Context, index int, elem E) (R, error), op func(a, b R) (R, error), init *R) (R, error) {
	var zero R
	length := input.Len()
	if length == 0 {
		hooks.OnChunkPlan(0, 0)
		if init != nil {
			return *init, nil
		}
		return zero, errEmptyReduction
	}

	nWorkers := greedyWorkerCount(s, rt, length)
	hooks.OnChunkPlan(length, nWorkers)

	dispenser := &indexedElementDispenser[E]{feed: sliceElementFeed(input)}
	partials := make([]R, nWorkers)
	handles := make([]Handle, nWorkers)
	for w := 0; w < nWorkers; w++ {
		w := w
		hooks.OnSpawn(s.pool)
		handles[w] = rt.Spawn(ctx, s.pool, func(ctx context.Context) error {
			var acc R
			has := false
			if init != nil {
				acc = *init
				has = true
			}
			for {
				i, e, ok := dispenser.Next()
				if !ok {
					break
				}
				v, err := f(ctx, i, e)
				if err != nil {
					return kernelErrorf(err)
				}
				if !has {
					acc = v
					has = true
				} else {
					acc, err = op(acc, v)
					if err != nil {
						return kernelErrorf(err)
					}
				}
			}
			if !has {
				return errEmptyReduction
			}
			partials[w] = acc
			return nil
		})
	}

	var firstErr error
	contributed := make([]bool, nWorkers)
	for w, h := range handles {
		err, wasEmpty := rt.TryJoin(h)
		hooks.OnJoin(err)
		if wasEmpty {
			continue
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		contributed[w] = true
	}
	if firstErr != nil {
		return zero, firstErr
	}

	var acc R
	has := false
	for w, ok := range contributed {
		if !ok {
			continue
		}
		if !has {
			acc = partials[w]
			has = true
			continue
		}
		var err error
		acc, err = op(acc, partials[w])
		if err != nil {
			return zero, kernelErrorf(err)
		}
	}
	if !has {
		if init != nil {
			return *init, nil
		}
		return zero, errEmptyReduction
	}
	return acc, nil
}
