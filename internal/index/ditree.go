package index

import (
	"osprey/internal/fatal"
)

// DiTree is the feature-vector index for non-unit subsumption: a trie over
// integer vectors of a fixed length. Forward subsumption asks for stored
// vectors pointwise <= the query (possible subsumers); back subsumption asks
// for stored vectors >= the query (possible subsumees).
type DiTree struct {
	length int
	root   *dinode
	n      int
}

type dinode struct {
	children map[int]*dinode
	leaves   []any
}

func newDinode() *dinode { return &dinode{children: make(map[int]*dinode)} }

// NewDiTree returns an empty tree for vectors of the given length.
func NewDiTree(length int) *DiTree {
	return &DiTree{length: length, root: newDinode()}
}

// Size returns the number of stored values.
func (d *DiTree) Size() int { return d.n }

func (d *DiTree) check(vec []int) {
	if len(vec) != d.length {
		fatal.Fatal(fatal.ErrIndexCorrupt.New("feature vector length mismatch"))
	}
}

// Insert files data under the vector.
func (d *DiTree) Insert(vec []int, data any) {
	d.check(vec)
	n := d.root
	for _, v := range vec {
		child := n.children[v]
		if child == nil {
			child = newDinode()
			n.children[v] = child
		}
		n = child
	}
	n.leaves = append(n.leaves, data)
	d.n++
}

// Delete removes data filed under the vector.
func (d *DiTree) Delete(vec []int, data any) {
	d.check(vec)
	n := d.root
	for _, v := range vec {
		n = n.children[v]
		if n == nil {
			fatal.Fatal(fatal.ErrIndexCorrupt.New("feature-vector delete of unindexed entry"))
		}
	}
	for i, x := range n.leaves {
		if x == data {
			n.leaves = append(n.leaves[:i], n.leaves[i+1:]...)
			d.n--
			return
		}
	}
	fatal.Fatal(fatal.ErrIndexCorrupt.New("feature-vector delete of unindexed entry"))
}

// Subset calls f for every stored value whose vector is pointwise <= vec.
// Returning false stops retrieval.
func (d *DiTree) Subset(vec []int, f func(any) bool) {
	d.check(vec)
	d.walkCmp(d.root, vec, true, f)
}

// Superset calls f for every stored value whose vector is pointwise >= vec.
func (d *DiTree) Superset(vec []int, f func(any) bool) {
	d.check(vec)
	d.walkCmp(d.root, vec, false, f)
}

func (d *DiTree) walkCmp(n *dinode, vec []int, below bool, f func(any) bool) bool {
	if len(vec) == 0 {
		for _, x := range n.leaves {
			if !f(x) {
				return false
			}
		}
		return true
	}
	for v, child := range n.children {
		if below && v > vec[0] {
			continue
		}
		if !below && v < vec[0] {
			continue
		}
		if !d.walkCmp(child, vec[1:], below, f) {
			return false
		}
	}
	return true
}
