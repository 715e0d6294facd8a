package paratask

import "context"

// planFor computes the ChunkPlan an operation should use for s over the given
// length. Serial ignores any configured chunking (it has none) or WithPlan plan
// and always yields a single whole-input chunk.
func planFor(s Scheduler, length int) (ChunkPlan, error) {
	if s.kind == schedulerSerial {
		return Plan(length, ChunkDisabled())
	}
	if s.plan != nil {
		if s.chunking.kind != chunkingDisabled {
			return ChunkPlan{}, conflictingChunkingErrorf("scheduler carries both a pre-built ChunkPlan (WithPlan) and chunking options")
		}
		if s.plan.Len() != length {
			return ChunkPlan{}, domainMismatchErrorf("pre-built ChunkPlan covers length %d, input has length %d", s.plan.Len(), length)
		}
		return *s.plan, nil
	}
	return Plan(length, s.chunking)
}

// ForEach runs f once per element of input, in parallel per s, discarding results.
// Panics if f is nil.
func ForEach[E any](ctx context.Context, rt Runtime, input Indexable[E], s Scheduler, f func(ctx context.Context, index int, elem E) error) error {
	if f == nil {
		panic("paratask: ForEach: nil f")
	}
	hooks := s.hooksOrNoop()

	if s.kind == schedulerGreedy && s.plan == nil && s.chunking.kind == chunkingDisabled {
		return runGreedyForEachElements(ctx, rt, s, input, hooks, f)
	}

	length := input.Len()
	plan, err := planFor(s, length)
	if err != nil {
		return err
	}
	hooks.OnChunkPlan(length, plan.ChunkCount())

	chunkWorker := func(ctx context.Context, r Range) (struct{}, error) {
		var kerr error
		r.Indices(func(i int) {
			if kerr != nil {
				return
			}
			if e := f(ctx, i, input.Index(i)); e != nil {
				kerr = e
			}
		})
		if kerr != nil {
			return struct{}{}, kernelErrorf(kerr)
		}
		return struct{}{}, nil
	}

	_, err = runChunksOrdered(ctx, rt, s, plan, hooks, chunkWorker)
	return err
}

// Map applies f to every element of input and returns the results in input order.
// Only schedulers whose output order preserves input order are accepted
// (Serial, Dynamic/Static with Consecutive split); any other Scheduler returns a
// KindOrderRequired error. Panics if f is nil.
func Map[E, R any](ctx context.Context, rt Runtime, input Indexable[E], s Scheduler, f func(ctx context.Context, index int, elem E) (R, error)) ([]R, error) {
	if f == nil {
		panic("paratask: Map: nil f")
	}
	if !s.isOrderPreserving() {
		return nil, orderRequiredErrorf("map requires an order-preserving scheduler (Serial, or Dynamic/Static with Consecutive split)")
	}

	length := input.Len()
	plan, err := planFor(s, length)
	if err != nil {
		return nil, err
	}
	if plan.Split() != Consecutive {
		return nil, orderRequiredErrorf("map requires an order-preserving scheduler (Serial, or Dynamic/Static with Consecutive split); got a pre-built plan with %v split", plan.Split())
	}
	hooks := s.hooksOrNoop()
	hooks.OnChunkPlan(length, plan.ChunkCount())

	chunkWorker := func(ctx context.Context, r Range) ([]R, error) {
		out := make([]R, 0, r.Len())
		var kerr error
		r.Indices(func(i int) {
			if kerr != nil {
				return
			}
			v, e := f(ctx, i, input.Index(i))
			if e != nil {
				kerr = e
				return
			}
			out = append(out, v)
		})
		if kerr != nil {
			return nil, kernelErrorf(kerr)
		}
		return out, nil
	}

	parts, err := runChunksOrdered(ctx, rt, s, plan, hooks, chunkWorker)
	if err != nil {
		return nil, err
	}
	result := make([]R, 0, length)
	for _, p := range parts {
		result = append(result, p...)
	}
	return result, nil
}

// Map2 is the two-input form of Map: in1 and in2 must share an index domain
// (equal length), else a KindDomainMismatch error is returned.
func Map2[E1, E2, R any](ctx context.Context, rt Runtime, in1 Indexable[E1], in2 Indexable[E2], s Scheduler, f func(ctx context.Context, index int, e1 E1, e2 E2) (R, error)) ([]R, error) {
	if f == nil {
		panic("paratask: Map2: nil f")
	}
	if !sameDomain(in1.Len(), in2.Len()) {
		return nil, domainMismatchErrorf("inputs have differing lengths: %d != %d", in1.Len(), in2.Len())
	}
	return Map[E1, R](ctx, rt, in1, s, func(ctx context.Context, index int, e1 E1) (R, error) {
		return f(ctx, index, e1, in2.Index(index))
	})
}

// MapInPlace writes f(input[i]) into out[i] for every index, as a ForEach over the
// shared index range. out and input must share an index domain. The framework does
// not synchronize between different indices; out must not otherwise be concurrently
// accessed. Panics if f is nil.
func MapInPlace[E, R any](ctx context.Context, rt Runtime, out []R, input Indexable[E], s Scheduler, f func(ctx context.Context, index int, elem E) (R, error)) error {
	if f == nil {
		panic("paratask: MapInPlace: nil f")
	}
	if !sameDomain(len(out), input.Len()) {
		return domainMismatchErrorf("out and input have differing lengths: %d != %d", len(out), input.Len())
	}
	return ForEach(ctx, rt, input, s, func(ctx context.Context, index int, elem E) error {
		v, err := f(ctx, index, elem)
		if err != nil {
			return err
		}
		out[index] = v
		return nil
	})
}

// Reduce folds input's elements with op, in parallel per s. If input is empty and
// init is nil, returns a KindEmptyReduction error; if init is non-nil, it seeds the
// accumulator (and is returned unchanged for empty input). op must be associative,
// and additionally commutative if s uses a RoundRobin split or is Greedy. Panics if
// op is nil.
func Reduce[E any](ctx context.Context, rt Runtime, input Indexable[E], s Scheduler, op func(a, b E) (E, error), init *E) (E, error) {
	if op == nil {
		panic("paratask: Reduce: nil op")
	}
	identity := func(ctx context.Context, index int, elem E) (E, error) { return elem, nil }
	return MapReduce[E, E](ctx, rt, input, s, identity, op, init)
}

// MapReduce computes reduce(op, map(f, input)), in parallel per s: for each chunk
// a local reduce(op, map(f, chunk)) runs, and the per-chunk partials are folded with
// op. If input is empty and init is nil, returns a KindEmptyReduction error. op must
// be associative, and additionally commutative if s uses a RoundRobin split or is
// Greedy. Panics if f or op is nil.
func MapReduce[E, R any](ctx context.Context, rt Runtime, input Indexable[E], s Scheduler, f func(ctx context.Context, index int, elem E) (R, error), op func(a, b R) (R, error), init *R) (R, error) {
	var zero R
	if f == nil {
		panic("paratask: MapReduce: nil f")
	}
	if op == nil {
		panic("paratask: MapReduce: nil op")
	}

	hooks := s.hooksOrNoop()

	if s.kind == schedulerGreedy && s.plan == nil && s.chunking.kind == chunkingDisabled {
		return runGreedyReduceElements(ctx, rt, s, input, hooks, f, op, init)
	}

	length := input.Len()
	plan, err := planFor(s, length)
	if err != nil {
		return zero, err
	}
	hooks.OnChunkPlan(length, plan.ChunkCount())

	localReduce := func(ctx context.Context, r Range) (R, error) {
		return reduceRange(ctx, input, r, f, op, init)
	}

	if plan.ChunkCount() < 2 {
		if plan.ChunkCount() == 0 {
			if init != nil {
				return *init, nil
			}
			return zero, errEmptyReduction
		}
		return localReduce(ctx, plan.Ranges()[0])
	}

	if s.kind == schedulerGreedy {
		return runGreedyReduce(ctx, rt, s, plan, hooks, localReduce, op, init)
	}

	parts, err := runChunksOrdered(ctx, rt, s, plan, hooks, localReduce)
	if err != nil {
		return zero, err
	}
	// Fold the K partials with op; this is itself a small sequential reduce and
	// does not spawn further.
	acc := parts[0]
	for _, p := range parts[1:] {
		acc, err = op(acc, p)
		if err != nil {
			return zero, kernelErrorf(err)
		}
	}
	return acc, nil
}

// reduceRange runs a local reduce(op, map(f, view(input, r))), seeding the
// accumulator from init if given, else from the first element in r. Returns
// errEmptyReduction if r is empty and init is nil.
func reduceRange[E, R any](ctx context.Context, input Indexable[E], r Range, f func(ctx context.Context, index int, elem E) (R, error), op func(a, b R) (R, error), init *R) (R, error) {
	var zero R
	n := r.Len()
	if n == 0 {
		if init != nil {
			return *init, nil
		}
		return zero, errEmptyReduction
	}

	var acc R
	start := 0
	if init != nil {
		acc = *init
	} else {
		v, err := f(ctx, r.Lo, input.Index(r.At(0)))
		if err != nil {
			return zero, kernelErrorf(err)
		}
		acc = v
		start = 1
	}
	for i := start; i < n; i++ {
		idx := r.At(i)
		v, err := f(ctx, idx, input.Index(idx))
		if err != nil {
			return zero, kernelErrorf(err)
		}
		acc, err = op(acc, v)
		if err != nil {
			return zero, kernelErrorf(err)
		}
	}
	return acc, nil
}
