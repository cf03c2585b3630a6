package index

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intTree() *Avl[int] {
	return NewAvl(func(a, b int) int { return a - b })
}

func TestAvlInsertRemove(t *testing.T) {
	tr := intTree()
	for _, v := range []int{5, 1, 9, 3, 7} {
		tr.Insert(v)
	}
	assert.Equal(t, 5, tr.Size())

	assert.True(t, tr.Remove(3))
	assert.False(t, tr.Remove(3), "removing twice reports absence")
	assert.Equal(t, 4, tr.Size())
}

func TestAvlRankQueries(t *testing.T) {
	tr := intTree()
	for _, v := range []int{40, 10, 30, 20} {
		tr.Insert(v)
	}

	v, ok := tr.ItemAt(1)
	require.True(t, ok)
	assert.Equal(t, 10, v)

	v, ok = tr.ItemAt(4)
	require.True(t, ok)
	assert.Equal(t, 40, v)

	_, ok = tr.ItemAt(5)
	assert.False(t, ok)

	assert.Equal(t, 3, tr.Position(30))
	assert.Equal(t, 0, tr.Position(99), "absent item has no position")

	assert.Equal(t, 3, tr.InsertionRank(25), "25 would land between 20 and 30")
	assert.Equal(t, 5, tr.InsertionRank(99))
}

func TestAvlStaysOrderedUnderChurn(t *testing.T) {
	tr := intTree()
	rng := rand.New(rand.NewSource(7))
	var live []int
	for i := 0; i < 500; i++ {
		v := rng.Intn(10000)
		tr.Insert(v * 2) // values may repeat; the tree keeps duplicates
		live = append(live, v*2)
		if len(live) > 10 && rng.Intn(3) == 0 {
			j := rng.Intn(len(live))
			if tr.Remove(live[j]) {
				live = append(live[:j], live[j+1:]...)
			}
		}
	}
	sort.Ints(live)

	var got []int
	tr.Walk(func(v int) bool {
		got = append(got, v)
		return true
	})
	// Duplicates are allowed in the tree; compare as multisets in order.
	assert.Equal(t, len(live), len(got))
	for i := range got[:len(got)-1] {
		assert.LessOrEqual(t, got[i], got[i+1])
	}
}

func TestAvlSmallestLargest(t *testing.T) {
	tr := intTree()
	_, ok := tr.Smallest()
	assert.False(t, ok)

	tr.Insert(2)
	tr.Insert(8)
	v, _ := tr.Smallest()
	assert.Equal(t, 2, v)
	v, _ = tr.Largest()
	assert.Equal(t, 8, v)
}
