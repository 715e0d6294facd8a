package paratask

import (
	"context"
	"sync"
)

// CurrentTaskID reports the TaskID of the task running ctx, or TaskID(0) if ctx was
// never passed through a Runtime.Spawn/SpawnOn boundary (the caller's own
// goroutine). Kernels that want distinct per-task scratch state should read this
// (indirectly, via TaskLocal.Get) rather than trying to infer identity from the
// goroutine itself, for which Go has no public API.
func CurrentTaskID(ctx context.Context) TaskID {
	if v, ok := ctx.Value(taskIDKey{}).(TaskID); ok {
		return v
	}
	return 0
}

type taskLocalCell[T any] struct {
	mu    sync.Mutex
	ready bool
	value T
}

// TaskLocal is a lazily-initialized, per-task scratch cell. The zero value is not
// usable; construct one with NewTaskLocal. A single TaskLocal is shared by
// reference across every task in a parallel region; each task's first call to Get
// runs the initializer exactly once for that task, and every subsequent Get within
// the same task (same ctx's TaskID) returns the stored value. Distinct tasks
// receive independently initialized values.
//
// If the initializer returns an error, the slot is left unset, so a later Get from
// the same task may re-attempt initialization.
type TaskLocal[T any] struct {
	init func() (T, error)
	mu   sync.Mutex // guards cells (lookup, insertion of a new cell, Release)
	cells map[TaskID]*taskLocalCell[T]
}

// NewTaskLocal returns a TaskLocal whose value, for each task, is produced by
// calling init on that task's first access. Panics if init is nil.
func NewTaskLocal[T any](init func() (T, error)) *TaskLocal[T] {
	if init == nil {
		panic("paratask: NewTaskLocal: nil init")
	}
	return &TaskLocal[T]{init: init, cells: make(map[TaskID]*taskLocalCell[T])}
}

// Get returns ctx's task-local value, running the initializer on first access from
// that task.
func (tl *TaskLocal[T]) Get(ctx context.Context) (T, error) {
	id := CurrentTaskID(ctx)

	tl.mu.Lock()
	cell, ok := tl.cells[id]
	if !ok {
		cell = &taskLocalCell[T]{}
		tl.cells[id] = cell
	}
	tl.mu.Unlock()

	cell.mu.Lock()
	defer cell.mu.Unlock()
	if cell.ready {
		return cell.value, nil
	}
	v, err := tl.init()
	if err != nil {
		var zero T
		return zero, err
	}
	cell.value = v
	cell.ready = true
	return cell.value, nil
}

// Release drops id's cell, if any. Not called automatically by any scheduler
// (a TaskLocal is caller-held, outside the Runtime/Scheduler contract);
// callers that want to bound a long-lived TaskLocal's memory explicitly,
// rather than rely on TaskIDs never being reused, can call this once they
// know a task has finished.
func (tl *TaskLocal[T]) Release(id TaskID) {
	tl.mu.Lock()
	delete(tl.cells, id)
	tl.mu.Unlock()
}
