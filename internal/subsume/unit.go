package subsume

import (
	"osprey/internal/clause"
	"osprey/internal/index"
	"osprey/internal/term"
	"osprey/internal/unify"
)

// UnitSubsumer returns an indexed unit clause whose literal generalizes some
// literal of c (same sign), or nil. A unit can subsume a clause of any
// length.
func UnitSubsumer(units *index.DiscrimLindex, c *clause.Clause) *clause.Clause {
	for _, l := range c.Literals {
		if u := generalizingUnit(units, l.Atom, l.Sign); u != nil {
			return u
		}
	}
	return nil
}

// UnitDelete removes every literal of c that is generalized by an
// opposite-sign indexed unit; equality literals are also tried flipped. Each
// deletion appends a unit_del justification step. Reports whether anything
// was deleted.
func UnitDelete(units *index.DiscrimLindex, c *clause.Clause) bool {
	changed := false
	kept := c.Literals[:0:0]
	for i, l := range c.Literals {
		unit := generalizingUnit(units, l.Atom, !l.Sign)
		if unit == nil && l.IsEq() {
			unit = generalizingUnit(units, l.Flip().Atom, !l.Sign)
		}
		if unit != nil {
			c.Just = append(c.Just, clause.Step{Kind: clause.UnitDelStep, Data: []int{unit.ID, i}})
			changed = true
			continue
		}
		kept = append(kept, l)
	}
	if changed {
		c.Literals = kept
	}
	return changed
}

// generalizingUnit finds an indexed unit of the given sign whose atom
// generalizes the subject atom.
func generalizingUnit(units *index.DiscrimLindex, atom *term.Term, sign bool) *clause.Clause {
	var found *clause.Clause
	units.Tree(sign).RetrieveGeneralizations(atom, func(e *index.Entry) bool {
		ctx := unify.NewContext()
		unify.ForEachMatch(e.T, ctx, atom, func() bool {
			found = e.Data.(*clause.Clause)
			return false
		})
		return found == nil
	})
	return found
}

// UnitConflictPartner looks for an indexed unit of opposite sign whose atom
// unifies with c's single literal (equalities also tried flipped). The
// caller builds the empty clause once c has its id.
func UnitConflictPartner(units *index.Lindex, c *clause.Clause) *clause.Clause {
	if !c.IsUnit() {
		return nil
	}
	l := c.Literals[0]
	atoms := []*term.Term{l.Atom}
	if l.IsEq() {
		atoms = append(atoms, l.Flip().Atom)
	}
	for _, atom := range atoms {
		for _, e := range units.Tree(!l.Sign).Retrieve(atom, index.UnifyMode) {
			cc, ce := unify.NewContext(), unify.NewContext()
			ok := false
			unify.ForEachUnifier(atom, cc, e.T, ce, func() bool {
				ok = true
				return false
			})
			if ok {
				return e.Data.(*clause.Clause)
			}
		}
	}
	return nil
}
