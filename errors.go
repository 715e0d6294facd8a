package paratask

import (
	"errors"
	"fmt"
)

// Kind classifies the errors paratask can surface, per the taxonomy below. Use
// [errors.Is] against the Err* sentinels to discriminate, e.g. errors.Is(err,
// ErrEmptyReduction).
type Kind int

const (
	// KindConfig covers an invalid ChunkConfig (non-positive chunk count or size,
	// minimum chunk size below 1) and a negative input length, both reported by
	// Plan before any goroutine is spawned. The WithChunkCount/WithChunkSize
	// constructors panic on such values instead of returning this kind. Pool
	// values are not validated.
	KindConfig Kind = iota
	// KindDomainMismatch covers multi-input operations whose inputs do not share
	// an index domain (differing length).
	KindDomainMismatch
	// KindConflictingChunking covers a pre-built ChunkPlan passed alongside
	// chunking options that would otherwise construct one.
	KindConflictingChunking
	// KindOrderRequired covers Map under a non-order-preserving policy
	// (RoundRobin split or Greedy scheduler).
	KindOrderRequired
	// KindUnsupportedInput covers a Greedy scheduler with chunking enabled over a
	// length-unknown iterator.
	KindUnsupportedInput
	// KindEmptyReduction covers Reduce/MapReduce over an empty input without an
	// Init value.
	KindEmptyReduction
	// KindKernel wraps an error returned by a caller-supplied kernel or combining
	// function, or a panic recovered inside a task spawned by the default
	// Runtime. A panic in a kernel running on the caller's own goroutine (Serial,
	// or a single-chunk plan) is not recovered.
	KindKernel
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindDomainMismatch:
		return "domain mismatch"
	case KindConflictingChunking:
		return "conflicting chunking"
	case KindOrderRequired:
		return "order required"
	case KindUnsupportedInput:
		return "unsupported input"
	case KindEmptyReduction:
		return "empty reduction"
	case KindKernel:
		return "kernel"
	default:
		return "unknown"
	}
}

// Error is the concrete error type returned/wrapped by paratask. Match it with
// [errors.As], or match a Kind with one of the Err* sentinels and [errors.Is].
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("paratask: %s", e.Kind)
	}
	return fmt.Sprintf("paratask: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is one of the Err* sentinels matching e.Kind, enabling
// errors.Is(err, ErrEmptyReduction) without callers needing to know about Error.
func (e *Error) Is(target error) bool {
	var sentinel *sentinelError
	if errors.As(target, &sentinel) {
		return sentinel.kind == e.Kind
	}
	return false
}

// sentinelError is the concrete type behind the Err* package variables; it only
// ever carries a Kind, and is never itself returned from an operation.
type sentinelError struct{ kind Kind }

func (s *sentinelError) Error() string { return fmt.Sprintf("paratask: %s", s.kind) }

var (
	// ErrConfig matches errors.Is for any KindConfig error.
	ErrConfig = &sentinelError{KindConfig}
	// ErrDomainMismatch matches errors.Is for any KindDomainMismatch error.
	ErrDomainMismatch = &sentinelError{KindDomainMismatch}
	// ErrConflictingChunking matches errors.Is for any KindConflictingChunking error.
	ErrConflictingChunking = &sentinelError{KindConflictingChunking}
	// ErrOrderRequired matches errors.Is for any KindOrderRequired error.
	ErrOrderRequired = &sentinelError{KindOrderRequired}
	// ErrUnsupportedInput matches errors.Is for any KindUnsupportedInput error.
	ErrUnsupportedInput = &sentinelError{KindUnsupportedInput}
	// ErrEmptyReduction matches errors.Is for any KindEmptyReduction error.
	ErrEmptyReduction = &sentinelError{KindEmptyReduction}
	// ErrKernel matches errors.Is for any KindKernel error.
	ErrKernel = &sentinelError{KindKernel}
)

func configErrorf(format string, args ...any) error {
	return &Error{Kind: KindConfig, Err: fmt.Errorf(format, args...)}
}

func domainMismatchErrorf(format string, args ...any) error {
	return &Error{Kind: KindDomainMismatch, Err: fmt.Errorf(format, args...)}
}

func conflictingChunkingErrorf(format string, args ...any) error {
	return &Error{Kind: KindConflictingChunking, Err: fmt.Errorf(format, args...)}
}

func orderRequiredErrorf(format string, args ...any) error {
	return &Error{Kind: KindOrderRequired, Err: fmt.Errorf(format, args...)}
}

func unsupportedInputErrorf(format string, args ...any) error {
	return &Error{Kind: KindUnsupportedInput, Err: fmt.Errorf(format, args...)}
}

// errEmptyReduction is returned verbatim (no message formatting needed per call
// site) by the sequential reduce fast path.
var errEmptyReduction = &Error{Kind: KindEmptyReduction, Err: errors.New("reduce over empty input without Init")}

func kernelErrorf(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindKernel, Err: err}
}
