// Package index provides the retrieval structures the search leans on: the
// FPA path index (unify/instance/generalization retrieval), discrimination
// trees (match retrieval), the feature-vector tree (subsumption prefilter),
// and a size-augmented AVL tree with rank queries (given-clause selectors).
// All of them hold non-owning references; the owner unindexes before freeing.
package index

// Avl is a balanced search tree augmented with subtree sizes, so the
// selectors can ask for the n-th item and for an item's rank in O(log n).
// The comparison must be a total order; ties are broken by the caller
// (weight, id) keys, so equal comparisons only happen for the same item.
type Avl[T any] struct {
	root *avlNode[T]
	cmp  func(a, b T) int
}

type avlNode[T any] struct {
	item        T
	left, right *avlNode[T]
	height      int
	size        int
}

// NewAvl returns an empty tree with the given comparison.
func NewAvl[T any](cmp func(a, b T) int) *Avl[T] {
	return &Avl[T]{cmp: cmp}
}

// Size returns the number of items.
func (t *Avl[T]) Size() int { return t.root.sz() }

// Empty reports an empty tree.
func (t *Avl[T]) Empty() bool { return t.root == nil }

func (n *avlNode[T]) sz() int {
	if n == nil {
		return 0
	}
	return n.size
}

func (n *avlNode[T]) ht() int {
	if n == nil {
		return 0
	}
	return n.height
}

func (n *avlNode[T]) update() {
	n.size = 1 + n.left.sz() + n.right.sz()
	n.height = 1 + max(n.left.ht(), n.right.ht())
}

func rotateLeft[T any](n *avlNode[T]) *avlNode[T] {
	r := n.right
	n.right = r.left
	r.left = n
	n.update()
	r.update()
	return r
}

func rotateRight[T any](n *avlNode[T]) *avlNode[T] {
	l := n.left
	n.left = l.right
	l.right = n
	n.update()
	l.update()
	return l
}

func rebalance[T any](n *avlNode[T]) *avlNode[T] {
	n.update()
	switch bf := n.left.ht() - n.right.ht(); {
	case bf > 1:
		if n.left.right.ht() > n.left.left.ht() {
			n.left = rotateLeft(n.left)
		}
		return rotateRight(n)
	case bf < -1:
		if n.right.left.ht() > n.right.right.ht() {
			n.right = rotateRight(n.right)
		}
		return rotateLeft(n)
	}
	return n
}

// Insert adds an item. Inserting an item already present (cmp == 0) is an
// index-invariant violation the caller guards against.
func (t *Avl[T]) Insert(item T) {
	t.root = t.insert(t.root, item)
}

func (t *Avl[T]) insert(n *avlNode[T], item T) *avlNode[T] {
	if n == nil {
		return &avlNode[T]{item: item, height: 1, size: 1}
	}
	if t.cmp(item, n.item) < 0 {
		n.left = t.insert(n.left, item)
	} else {
		n.right = t.insert(n.right, item)
	}
	return rebalance(n)
}

// Remove deletes the item, reporting whether it was present.
func (t *Avl[T]) Remove(item T) bool {
	var removed bool
	t.root, removed = t.remove(t.root, item)
	return removed
}

func (t *Avl[T]) remove(n *avlNode[T], item T) (*avlNode[T], bool) {
	if n == nil {
		return nil, false
	}
	c := t.cmp(item, n.item)
	var removed bool
	switch {
	case c < 0:
		n.left, removed = t.remove(n.left, item)
	case c > 0:
		n.right, removed = t.remove(n.right, item)
	default:
		removed = true
		if n.left == nil {
			return n.right, true
		}
		if n.right == nil {
			return n.left, true
		}
		succ := n.right
		for succ.left != nil {
			succ = succ.left
		}
		n.item = succ.item
		n.right, _ = t.remove(n.right, succ.item)
	}
	if !removed {
		return n, false
	}
	return rebalance(n), true
}

// ItemAt returns the i-th smallest item, 1-based. ok is false when i is out
// of range.
func (t *Avl[T]) ItemAt(i int) (item T, ok bool) {
	n := t.root
	for n != nil {
		switch ls := n.left.sz(); {
		case i <= ls:
			n = n.left
		case i == ls+1:
			return n.item, true
		default:
			i -= ls + 1
			n = n.right
		}
	}
	return item, false
}

// Smallest returns the least item.
func (t *Avl[T]) Smallest() (item T, ok bool) { return t.ItemAt(1) }

// Largest returns the greatest item.
func (t *Avl[T]) Largest() (item T, ok bool) { return t.ItemAt(t.Size()) }

// InsertionRank returns the 1-based rank the item has, or would have if
// inserted now: one plus the number of stored items comparing less.
func (t *Avl[T]) InsertionRank(item T) int {
	n := t.root
	rank := 1
	for n != nil {
		if t.cmp(item, n.item) <= 0 {
			n = n.left
		} else {
			rank += n.left.sz() + 1
			n = n.right
		}
	}
	return rank
}

// Position returns the 1-based rank of the item, or 0 if absent.
func (t *Avl[T]) Position(item T) int {
	n := t.root
	rank := 0
	for n != nil {
		c := t.cmp(item, n.item)
		switch {
		case c < 0:
			n = n.left
		case c > 0:
			rank += n.left.sz() + 1
			n = n.right
		default:
			return rank + n.left.sz() + 1
		}
	}
	return 0
}

// Walk visits items in order until f returns false.
func (t *Avl[T]) Walk(f func(T) bool) {
	walk(t.root, f)
}

func walk[T any](n *avlNode[T], f func(T) bool) bool {
	if n == nil {
		return true
	}
	return walk(n.left, f) && f(n.item) && walk(n.right, f)
}
