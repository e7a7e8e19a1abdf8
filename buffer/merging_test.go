package buffer_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/quiesce/cooldown/buffer"
	"github.com/quiesce/cooldown/internal/testing/require"
)

func TestMergingBuffer(t *testing.T) {
	cmp := func(i1, i2 item) int { return strings.Compare(i1.ID, i2.ID) }

	buf := buffer.Merging(
		func(i item) string { return i.ID },
		func(i1, i2 item) item { return item{ID: i1.ID, N: i1.N + i2.N} },
	)
	require.Equal(t, buf.Size(), 0)

	buf.Push(item{ID: "a", N: 1})
	buf.Push(item{ID: "b", N: 2})
	require.Equal(t, buf.Size(), 2)

	// A colliding key merges instead of growing the buffer.
	buf.Push(item{ID: "a", N: 3})
	require.Equal(t, buf.Size(), 2)

	items := slices.SortedFunc(buf.Iter(), cmp)
	require.Equal(t, items, []item{
		{ID: "a", N: 4},
		{ID: "b", N: 2},
	})

	buf.Reset()
	require.Equal(t, buf.Size(), 0)
	require.Equal(t, len(slices.Collect(buf.Iter())), 0)
}
