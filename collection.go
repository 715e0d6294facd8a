package paratask

// Indexable is a length-known, randomly-accessible sequence of elements of type E.
// A plain Go slice []E satisfies Indexable via Slice (see SliceOf).
type Indexable[E any] interface {
	// Len reports the number of elements.
	Len() int
	// Index returns the element at i, where 0 <= i < Len().
	Index(i int) E
}

// Sliceable additionally supports producing a view over a contiguous sub-range,
// without copying, for handing a chunk to a worker.
type Sliceable[E any] interface {
	Indexable[E]
	// View returns a view over the half-open range [lo, hi).
	View(lo, hi int) Sliceable[E]
}

// Slice is a Sliceable backed directly by a Go slice.
type Slice[E any] []E

// Len implements Indexable.
func (s Slice[E]) Len() int { return len(s) }

// Index implements Indexable.
func (s Slice[E]) Index(i int) E { return s[i] }

// View implements Sliceable.
func (s Slice[E]) View(lo, hi int) Sliceable[E] { return s[lo:hi] }

// SliceOf adapts a Go slice to Sliceable[E]. It is the common-case Collection.
func SliceOf[E any](s []E) Slice[E] { return Slice[E](s) }

// sameDomain reports whether all provided collections share the same length,
// the identical-index-domain requirement for multi-input operations.
func sameDomain(lengths ...int) bool {
	for i := 1; i < len(lengths); i++ {
		if lengths[i] != lengths[0] {
			return false
		}
	}
	return true
}
