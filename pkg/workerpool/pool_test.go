package workerpool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrder(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}

	out := Map(context.Background(), 8, items, func(_ context.Context, v int) int {
		return v * v
	})

	require.Len(t, out, 100)
	for i, v := range out {
		require.Equal(t, i*i, v)
	}
}

func TestMapSequentialWhenSingleWorker(t *testing.T) {
	out := Map(context.Background(), 1, []int{1, 2, 3}, func(_ context.Context, v int) int {
		return v + 1
	})
	require.Equal(t, []int{2, 3, 4}, out)
}

func TestMapMoreWorkersThanItems(t *testing.T) {
	out := Map(context.Background(), 32, []int{5, 6}, func(_ context.Context, v int) int {
		return v
	})
	require.Equal(t, []int{5, 6}, out)
}

func TestMapEmptyInput(t *testing.T) {
	out := Map(context.Background(), 4, nil, func(_ context.Context, v int) int { return v })
	require.Empty(t, out)
}

func TestMapCancelledContextStopsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := Map(ctx, 2, []int{1, 2, 3}, func(_ context.Context, v int) int {
		return v * 10
	})
	// Slots are allocated regardless; undispatched ones keep the zero value.
	require.Len(t, out, 3)
}
