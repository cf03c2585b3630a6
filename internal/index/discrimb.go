package index

import (
	"osprey/internal/fatal"
	"osprey/internal/term"
)

// DiscrimB is the discrimination tree with bindings: stored patterns keep
// their distinct variable numbers, and retrieval binds them against subject
// subterms during traversal, so every candidate it yields is a true
// generalization of the subject. Callers still re-run Match to obtain a
// substitution in their own context.
type DiscrimB struct {
	d Discrim
}

// NewDiscrimB returns an empty tree.
func NewDiscrimB() *DiscrimB { return &DiscrimB{d: Discrim{root: newDnode()}} }

// Size returns the number of stored terms.
func (d *DiscrimB) Size() int { return d.d.n }

func flattenBound(t *term.Term, out []int) []int {
	if t.IsVar() {
		return append(out, t.VarNum())
	}
	out = append(out, t.SymNum()+symOffset)
	for _, a := range t.Args {
		out = flattenBound(a, out)
	}
	return out
}

// Insert files the pattern, keeping variable identities.
func (d *DiscrimB) Insert(t *term.Term, data any) {
	keys := flattenBound(t, nil)
	n := d.d.root
	for _, k := range keys {
		child := n.children[k]
		if child == nil {
			child = newDnode()
			n.children[k] = child
		}
		n = child
	}
	n.leaves = append(n.leaves, &Entry{T: t, Data: data})
	d.d.n++
}

// Delete removes a stored pattern by pointer identity.
func (d *DiscrimB) Delete(t *term.Term) {
	keys := flattenBound(t, nil)
	n := d.d.root
	for _, k := range keys {
		n = n.children[k]
		if n == nil {
			fatal.Fatal(fatal.ErrIndexCorrupt.New("discrim delete of unindexed term " + t.String()))
		}
	}
	for i, e := range n.leaves {
		if e.T == t {
			n.leaves = append(n.leaves[:i], n.leaves[i+1:]...)
			d.d.n--
			return
		}
	}
	fatal.Fatal(fatal.ErrIndexCorrupt.New("discrim delete of unindexed term " + t.String()))
}

// RetrieveGeneralizations calls f for every stored pattern that generalizes
// the subject. Returning false stops early.
func (d *DiscrimB) RetrieveGeneralizations(subject *term.Term, f func(*Entry) bool) {
	bind := make(map[int]*term.Term)
	retrieveBound(d.d.root, []*term.Term{subject}, bind, f)
}

func retrieveBound(n *dnode, pending []*term.Term, bind map[int]*term.Term, f func(*Entry) bool) bool {
	if len(pending) == 0 {
		for _, e := range n.leaves {
			if !f(e) {
				return false
			}
		}
		return true
	}
	t := pending[0]
	rest := pending[1:]

	for k, child := range n.children {
		if k >= symOffset {
			continue
		}
		// Pattern variable k: bind or check consistency.
		if prev, ok := bind[k]; ok {
			if !prev.Equal(t) {
				continue
			}
			if !retrieveBound(child, rest, bind, f) {
				return false
			}
		} else {
			bind[k] = t
			ok := retrieveBound(child, rest, bind, f)
			delete(bind, k)
			if !ok {
				return false
			}
		}
	}
	if !t.IsVar() {
		if c := n.children[t.SymNum()+symOffset]; c != nil {
			next := make([]*term.Term, 0, len(t.Args)+len(rest))
			next = append(next, t.Args...)
			next = append(next, rest...)
			if !retrieveBound(c, next, bind, f) {
				return false
			}
		}
	}
	return true
}
