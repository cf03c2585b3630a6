package index

import (
	"osprey/internal/fatal"
	"osprey/internal/term"
)

// Discrim is a discrimination tree for generalization retrieval: given a
// subject term, it finds stored patterns that match (generalize) it. The
// plain tree collapses all variables to one wildcard and leaves the final
// consistency check to the caller's Match; the with-bindings variant
// (DiscrimB) checks variable consistency during traversal.
type Discrim struct {
	root *dnode
	n    int
}

const wildcard = -1

type dnode struct {
	children map[int]*dnode // symbol number, or wildcard / variable number keys
	leaves   []*Entry
}

func newDnode() *dnode { return &dnode{children: make(map[int]*dnode)} }

// NewDiscrim returns an empty tree.
func NewDiscrim() *Discrim { return &Discrim{root: newDnode()} }

// Size returns the number of stored terms.
func (d *Discrim) Size() int { return d.n }

// flatten writes the preorder symbol string of t, variables as wildcard.
func flattenPlain(t *term.Term, out []int) []int {
	if t.IsVar() {
		return append(out, wildcard)
	}
	out = append(out, t.SymNum()+symOffset)
	for _, a := range t.Args {
		out = flattenPlain(a, out)
	}
	return out
}

// symOffset keeps symbol keys clear of the wildcard and of variable-number
// keys used by DiscrimB.
const symOffset = term.MaxVars

func (d *Discrim) Insert(t *term.Term, data any) {
	keys := flattenPlain(t, nil)
	n := d.root
	for _, k := range keys {
		child := n.children[k]
		if child == nil {
			child = newDnode()
			n.children[k] = child
		}
		n = child
	}
	n.leaves = append(n.leaves, &Entry{T: t, Data: data})
	d.n++
}

// Delete removes a stored term by pointer identity.
func (d *Discrim) Delete(t *term.Term) {
	keys := flattenPlain(t, nil)
	n := d.root
	for _, k := range keys {
		n = n.children[k]
		if n == nil {
			fatal.Fatal(fatal.ErrIndexCorrupt.New("discrim delete of unindexed term " + t.String()))
		}
	}
	for i, e := range n.leaves {
		if e.T == t {
			n.leaves = append(n.leaves[:i], n.leaves[i+1:]...)
			d.n--
			return
		}
	}
	fatal.Fatal(fatal.ErrIndexCorrupt.New("discrim delete of unindexed term " + t.String()))
}

// RetrieveGeneralizations calls f for every stored pattern that may match
// the subject; traversal skips whole subtrees the subject rules out. The
// caller verifies each candidate with Match. Returning false stops early.
func (d *Discrim) RetrieveGeneralizations(subject *term.Term, f func(*Entry) bool) {
	retrievePlain(d.root, []*term.Term{subject}, f)
}

// retrievePlain walks the tree against a stack of pending subject subterms.
func retrievePlain(n *dnode, pending []*term.Term, f func(*Entry) bool) bool {
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

	// A stored wildcard absorbs the whole subterm.
	if w := n.children[wildcard]; w != nil {
		if !retrievePlain(w, rest, f) {
			return false
		}
	}
	if !t.IsVar() {
		if c := n.children[t.SymNum()+symOffset]; c != nil {
			next := make([]*term.Term, 0, len(t.Args)+len(rest))
			next = append(next, t.Args...)
			next = append(next, rest...)
			if !retrievePlain(c, next, f) {
				return false
			}
		}
	}
	return true
}
