package parataskotel_test

import (
	"context"
	"errors"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paratask "github.com/joeycumines/go-paratask"
	"github.com/joeycumines/go-paratask/parataskotel"
)

func TestHooks_TracksSpawnJoinAgainstReduce(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	hooks := parataskotel.NewHooks(tp.Tracer("paratask-test"))
	s := paratask.Dynamic(paratask.PoolDefault, paratask.WithChunkCount(4, paratask.Consecutive, 1)).WithHooks(hooks)

	rt := paratask.NewRuntime()
	got, err := paratask.Reduce[int](context.Background(), rt, paratask.SliceOf([]int{1, 2, 3, 4, 5, 6, 7, 8}), s,
		func(a, b int) (int, error) { return a + b, nil }, nil)
	require.NoError(t, err)
	assert.Equal(t, 36, got)
}

func TestHooks_KernelErrorReturnedWithHooksAttached(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	hooks := parataskotel.NewHooks(tp.Tracer("paratask-test"))
	s := paratask.Dynamic(paratask.PoolDefault, paratask.WithChunkCount(2, paratask.Consecutive, 1)).WithHooks(hooks)

	rt := paratask.NewRuntime()
	boom := errors.New("boom")
	err := paratask.ForEach(context.Background(), rt, paratask.SliceOf([]int{1, 2, 3, 4}), s, func(ctx context.Context, index int, elem int) error {
		if elem == 2 {
			return boom
		}
		return nil
	})
	assert.Error(t, err)
}

func TestNewHooks_NilTracerPanics(t *testing.T) {
	assert.Panics(t, func() { parataskotel.NewHooks(nil) })
}
