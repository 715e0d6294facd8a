// Package paratask implements data-parallel operations (for-each, map, map!,
// collect, reduce, map-reduce) over indexable collections, dispatched across a pool
// of goroutines by a configurable Scheduler.
//
// Callers describe what to compute per element (or per chunk), how partial results
// combine, and which Scheduler governs partitioning and placement; paratask decides
// how the input is chunked, how many goroutines are spawned, and how partial results
// are folded into the final value.
//
// The four Scheduler variants are Serial (no concurrency), Dynamic (goroutines
// placed on a pool, free to be scheduled onto any worker), Static (each chunk pinned
// to a fixed worker), and Greedy (a fixed worker count pulls chunks from a
// ChunkDispenser until exhausted). See Scheduler for details.
//
// paratask does not implement a distributed scheduler, a stream/pipeline engine, or
// load prediction; chunking policy is always explicit. Reductions are not guaranteed
// to run in input order unless the chunking Split is Consecutive; reducers must
// always be associative, and additionally commutative whenever Split is RoundRobin
// or the Scheduler is Greedy.
package paratask
