package paratask

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_Disabled(t *testing.T) {
	p, err := Plan(10, ChunkDisabled())
	require.NoError(t, err)
	assert.Equal(t, 1, p.ChunkCount())
	assert.Equal(t, []Range{{Lo: 0, Hi: 10}}, p.Ranges())
}

func TestPlan_Empty(t *testing.T) {
	p, err := Plan(0, WithChunkCount(4, Consecutive, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, p.ChunkCount())
	assert.Empty(t, p.Ranges())
}

func TestPlan_FixedCount_Consecutive_EvenSplit(t *testing.T) {
	p, err := Plan(10, WithChunkCount(3, Consecutive, 1))
	require.NoError(t, err)
	require.Equal(t, 3, p.ChunkCount())
	// 10 across 3: remainder 1, so first chunk gets the extra element.
	assert.Equal(t, []Range{{Lo: 0, Hi: 4}, {Lo: 4, Hi: 7}, {Lo: 7, Hi: 10}}, p.Ranges())
}

func TestPlan_FixedCount_MoreChunksThanLength(t *testing.T) {
	p, err := Plan(3, WithChunkCount(10, Consecutive, 1))
	require.NoError(t, err)
	assert.Equal(t, 3, p.ChunkCount(), "must yield exactly length chunks")
	for _, r := range p.Ranges() {
		assert.Equal(t, 1, r.Len())
	}
}

func TestPlan_FixedCount_MinChunkSizeFloor(t *testing.T) {
	// length=10, n=8, minChunkSize=3 -> floor(10/3)=3, so K = min(8,3) = 3.
	p, err := Plan(10, WithChunkCount(8, Consecutive, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, p.ChunkCount())
}

func TestPlan_FixedSize(t *testing.T) {
	p, err := Plan(10, WithChunkSize(3, Consecutive))
	require.NoError(t, err)
	require.Equal(t, 4, p.ChunkCount()) // ceil(10/3)
	// 10 across 4: remainder 2, so the first two chunks get the extra element.
	assert.Equal(t, []Range{{Lo: 0, Hi: 3}, {Lo: 3, Hi: 6}, {Lo: 6, Hi: 8}, {Lo: 8, Hi: 10}}, p.Ranges())
}

func TestPlan_RoundRobin(t *testing.T) {
	p, err := Plan(10, WithChunkCount(3, RoundRobin, 1))
	require.NoError(t, err)
	require.Equal(t, 3, p.ChunkCount())
	var got [][]int
	for _, r := range p.Ranges() {
		var indices []int
		r.Indices(func(i int) { indices = append(indices, i) })
		got = append(got, indices)
	}
	assert.Equal(t, [][]int{{0, 3, 6, 9}, {1, 4, 7}, {2, 5, 8}}, got)
}

func TestPlan_Partition(t *testing.T) {
	// universal invariant: chunks are disjoint and jointly cover [0, N).
	for _, length := range []int{0, 1, 2, 7, 16, 100, 101} {
		for _, n := range []int{1, 2, 3, 5, 16, 1000} {
			for _, split := range []Split{Consecutive, RoundRobin} {
				p, err := Plan(length, WithChunkCount(n, split, 1))
				require.NoError(t, err)

				seen := make([]bool, length)
				count := 0
				for _, r := range p.Ranges() {
					r.Indices(func(i int) {
						require.False(t, seen[i], "index %d covered twice", i)
						seen[i] = true
						count++
					})
				}
				assert.Equal(t, length, count)
			}
		}
	}
}

func TestPlan_Deterministic(t *testing.T) {
	p1, err := Plan(37, WithChunkSize(4, RoundRobin))
	require.NoError(t, err)
	p2, err := Plan(37, WithChunkSize(4, RoundRobin))
	require.NoError(t, err)
	assert.Equal(t, p1.Ranges(), p2.Ranges())

	// idempotence of iterating the same plan twice
	assert.Equal(t, p1.Ranges(), p1.Ranges())
}

func TestPlan_InvalidConfig(t *testing.T) {
	_, err := Plan(10, ChunkConfig{kind: chunkingFixedCount, nChunks: -1, split: Consecutive, minChunkSize: 1})
	assert.ErrorIs(t, err, ErrConfig)

	assert.Panics(t, func() { WithChunkCount(0, Consecutive, 1) })
	assert.Panics(t, func() { WithChunkSize(0, Consecutive) })
	assert.Panics(t, func() { WithChunkCount(1, Consecutive, -1) })
}

func TestPlan_NegativeLength(t *testing.T) {
	_, err := Plan(-1, ChunkDisabled())
	assert.ErrorIs(t, err, ErrConfig)
}
