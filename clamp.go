package paratask

import "golang.org/x/exp/constraints"

// clamp restricts v to [lo, hi]. Used wherever a computed count (chunk count,
// Greedy worker count) must be bounded to a sane range before use.
func clamp[T constraints.Integer](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
