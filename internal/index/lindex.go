package index

import (
	"osprey/internal/term"
)

// Lindex pairs a positive and a negative index so a literal's sign selects
// the right tree. The FPA flavour serves unification retrieval (resolution
// partners, unit conflict); the discrimination flavour serves match
// retrieval (unit subsumption, unit deletion).
type Lindex struct {
	Pos *FPA
	Neg *FPA
}

// NewLindex returns a pair of FPA indexes of the given depth.
func NewLindex(depth int) *Lindex {
	return &Lindex{Pos: NewFPA(depth), Neg: NewFPA(depth)}
}

// Tree returns the index for a sign.
func (x *Lindex) Tree(sign bool) *FPA {
	if sign {
		return x.Pos
	}
	return x.Neg
}

// Insert files an atom under its sign.
func (x *Lindex) Insert(sign bool, atom *term.Term, data any) {
	x.Tree(sign).Insert(atom, data)
}

// Delete unfiles an atom.
func (x *Lindex) Delete(sign bool, atom *term.Term) {
	x.Tree(sign).Delete(atom)
}

// DiscrimLindex is the discrimination-tree pair for match retrieval.
type DiscrimLindex struct {
	Pos *DiscrimB
	Neg *DiscrimB
}

// NewDiscrimLindex returns a pair of with-bindings discrimination trees.
func NewDiscrimLindex() *DiscrimLindex {
	return &DiscrimLindex{Pos: NewDiscrimB(), Neg: NewDiscrimB()}
}

// Tree returns the index for a sign.
func (x *DiscrimLindex) Tree(sign bool) *DiscrimB {
	if sign {
		return x.Pos
	}
	return x.Neg
}

// Insert files an atom under its sign.
func (x *DiscrimLindex) Insert(sign bool, atom *term.Term, data any) {
	x.Tree(sign).Insert(atom, data)
}

// Delete unfiles an atom.
func (x *DiscrimLindex) Delete(sign bool, atom *term.Term) {
	x.Tree(sign).Delete(atom)
}
