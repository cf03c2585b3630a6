// Package subsume implements clause subsumption: the literal-permutation
// matching core, the feature-vector index for non-unit forward and back
// subsumption, and the unit operations (unit subsumption, unit deletion,
// unit conflict).
package subsume

import (
	"osprey/internal/clause"
	"osprey/internal/index"
	"osprey/internal/unify"
)

// Subsumes reports whether a subsumes b: some substitution carries every
// literal of a onto a literal of b. A longer clause never subsumes a
// strictly shorter one, which keeps the subsumption index law
// size(subsumer) <= size(subsumee).
func Subsumes(a, b *clause.Clause) bool {
	if len(a.Literals) > len(b.Literals) {
		return false
	}
	return subsumeLits(a.Literals, b, unify.NewContext())
}

// subsumeLits matches the remaining subsumer literals against b's literals,
// backtracking over the choice of target literal and, through ForEachMatch,
// over the matchers a commutative or AC atom offers.
func subsumeLits(rem []*clause.Literal, b *clause.Clause, ctx *unify.Context) bool {
	if len(rem) == 0 {
		return true
	}
	la := rem[0]
	for _, lb := range b.Literals {
		if la.Sign != lb.Sign {
			continue
		}
		found := false
		unify.ForEachMatch(la.Atom, ctx, lb.Atom, func() bool {
			if subsumeLits(rem[1:], b, ctx) {
				found = true
				return false
			}
			return true
		})
		if found {
			return true
		}
	}
	return false
}

// NonUnitIndex is the feature-vector subsumption index. Forward queries ask
// for stored clauses whose vector is pointwise <= the subject's (candidate
// subsumers); back queries ask for >= (candidate subsumees).
type NonUnitIndex struct {
	fs   *clause.FeatureSet
	tree *index.DiTree
	vecs map[*clause.Clause]clause.Features
}

// NewNonUnitIndex builds an index over the current symbol snapshot.
func NewNonUnitIndex() *NonUnitIndex {
	fs := clause.NewFeatureSet()
	return &NonUnitIndex{
		fs:   fs,
		tree: index.NewDiTree(fs.Length()),
		vecs: make(map[*clause.Clause]clause.Features),
	}
}

// Features exposes the stored vector for the invariant checks.
func (ix *NonUnitIndex) Features(c *clause.Clause) clause.Features { return ix.vecs[c] }

// Compute builds a vector for a clause under this index's snapshot.
func (ix *NonUnitIndex) Compute(c *clause.Clause) clause.Features {
	return ix.fs.Compute(c.Literals)
}

// Insert files the clause.
func (ix *NonUnitIndex) Insert(c *clause.Clause) {
	vec := ix.fs.Compute(c.Literals)
	ix.vecs[c] = vec
	ix.tree.Insert(vec, c)
}

// Delete unfiles the clause.
func (ix *NonUnitIndex) Delete(c *clause.Clause) {
	vec := ix.vecs[c]
	delete(ix.vecs, c)
	ix.tree.Delete(vec, c)
}

// Member reports whether the clause is indexed.
func (ix *NonUnitIndex) Member(c *clause.Clause) bool {
	_, ok := ix.vecs[c]
	return ok
}

// FirstSubsumer returns a stored clause subsuming c, or nil.
func (ix *NonUnitIndex) FirstSubsumer(c *clause.Clause) *clause.Clause {
	vec := ix.fs.Compute(c.Literals)
	var found *clause.Clause
	ix.tree.Subset(vec, func(x any) bool {
		d := x.(*clause.Clause)
		if Subsumes(d, c) {
			found = d
			return false
		}
		return true
	})
	return found
}

// Subsumees calls f with every stored clause that c subsumes.
func (ix *NonUnitIndex) Subsumees(c *clause.Clause, f func(*clause.Clause)) {
	vec := ix.fs.Compute(c.Literals)
	ix.tree.Superset(vec, func(x any) bool {
		d := x.(*clause.Clause)
		if d != c && Subsumes(c, d) {
			f(d)
		}
		return true
	})
}
