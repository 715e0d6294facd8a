package paratask

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentTaskID_OutsideTask(t *testing.T) {
	assert.Equal(t, TaskID(0), CurrentTaskID(context.Background()))
}

func TestTaskLocal_InitializesOncePerTask(t *testing.T) {
	var calls int32
	tl := NewTaskLocal(func() (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	ctxA := withTaskID(context.Background(), TaskID(1))
	v1, err := tl.Get(ctxA)
	require.NoError(t, err)
	v2, err := tl.Get(ctxA)
	require.NoError(t, err)
	assert.Equal(t, v1, v2, "second Get within the same task reuses the stored value")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	ctxB := withTaskID(context.Background(), TaskID(2))
	v3, err := tl.Get(ctxB)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v3, "distinct tasks get independently initialized values")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestTaskLocal_FailedInitLeavesSlotUnset(t *testing.T) {
	var calls int32
	boom := errors.New("boom")
	tl := NewTaskLocal(func() (int, error) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			return 0, boom
		}
		return 42, nil
	})

	ctx := withTaskID(context.Background(), TaskID(1))
	_, err := tl.Get(ctx)
	assert.ErrorIs(t, err, boom)

	v, err := tl.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 42, v, "a later Get re-attempts initialization")
}

func TestTaskLocal_Release(t *testing.T) {
	var calls int32
	tl := NewTaskLocal(func() (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	})

	ctx := withTaskID(context.Background(), TaskID(1))
	v1, err := tl.Get(ctx)
	require.NoError(t, err)

	tl.Release(TaskID(1))

	v2, err := tl.Get(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2, "released task-local re-initializes on next access")
}

func TestNewTaskLocal_NilInitPanics(t *testing.T) {
	assert.Panics(t, func() { NewTaskLocal[int](nil) })
}
