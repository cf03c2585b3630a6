package subsume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osprey/internal/clause"
	"osprey/internal/index"
	"osprey/internal/term"
)

func setup() (p, q, f, a, b int) {
	term.Reset()
	p = term.Intern("p", 1)
	term.SetKind(p, term.Predicate)
	q = term.Intern("q", 1)
	term.SetKind(q, term.Predicate)
	f = term.Intern("f", 2)
	term.SetKind(f, term.Function)
	a = term.Intern("a", 0)
	term.SetKind(a, term.Function)
	b = term.Intern("b", 0)
	term.SetKind(b, term.Function)
	return
}

func TestSubsumesBasics(t *testing.T) {
	p, q, _, a, _ := setup()

	px := clause.New(clause.Pos(term.App(p, term.Var(0))))
	pa := clause.New(clause.Pos(term.App(p, term.Const(a))))
	paqa := clause.New(
		clause.Pos(term.App(p, term.Const(a))),
		clause.Pos(term.App(q, term.Const(a))),
	)

	assert.True(t, Subsumes(px, pa), "p(x) subsumes p(a)")
	assert.False(t, Subsumes(pa, px), "p(a) does not subsume p(x)")
	assert.True(t, Subsumes(px, paqa), "a unit subsumes a longer clause")
	assert.False(t, Subsumes(paqa, pa), "a non-unit cannot subsume a strictly shorter clause")
}

func TestSubsumesNeedsConsistentBindings(t *testing.T) {
	p, q, _, a, b := setup()

	// p(x) | q(x) vs p(a) | q(b): no single binding works.
	gen := clause.New(
		clause.Pos(term.App(p, term.Var(0))),
		clause.Pos(term.App(q, term.Var(0))),
	)
	inst1 := clause.New(
		clause.Pos(term.App(p, term.Const(a))),
		clause.Pos(term.App(q, term.Const(b))),
	)
	inst2 := clause.New(
		clause.Pos(term.App(p, term.Const(a))),
		clause.Pos(term.App(q, term.Const(a))),
	)
	assert.False(t, Subsumes(gen, inst1))
	assert.True(t, Subsumes(gen, inst2))
}

func TestSubsumesModuloCommutativity(t *testing.T) {
	p, _, f, a, b := setup()
	term.SetTheory(f, term.Commutative)

	gen := clause.New(clause.Pos(term.App(p, term.App(f, term.Var(0), term.Const(a)))))
	inst := clause.New(clause.Pos(term.App(p, term.App(f, term.Const(a), term.Const(b)))))
	assert.True(t, Subsumes(gen, inst), "f(x,a) matches f(a,b) with the arguments swapped")
}

func TestSubsumesSignMatters(t *testing.T) {
	p, _, _, a, _ := setup()
	pos := clause.New(clause.Pos(term.App(p, term.Var(0))))
	neg := clause.New(clause.Neg(term.App(p, term.Const(a))))
	assert.False(t, Subsumes(pos, neg))
}

func TestNonUnitIndexForwardAndBack(t *testing.T) {
	p, q, _, a, _ := setup()
	ix := NewNonUnitIndex()

	gen := clause.New(
		clause.Pos(term.App(p, term.Var(0))),
		clause.Pos(term.App(q, term.Var(0))),
	)
	ix.Insert(gen)

	inst := clause.New(
		clause.Pos(term.App(p, term.Const(a))),
		clause.Pos(term.App(q, term.Const(a))),
	)
	assert.Same(t, gen, ix.FirstSubsumer(inst))

	// Back subsumption: inserting the instance, the general clause finds it.
	ix.Insert(inst)
	var hit []*clause.Clause
	ix.Subsumees(gen, func(c *clause.Clause) { hit = append(hit, c) })
	require.Len(t, hit, 1)
	assert.Same(t, inst, hit[0])

	ix.Delete(inst)
	hit = nil
	ix.Subsumees(gen, func(c *clause.Clause) { hit = append(hit, c) })
	assert.Empty(t, hit)
}

func TestUnitSubsumerAndDeletion(t *testing.T) {
	p, q, _, a, _ := setup()

	units := index.NewDiscrimLindex()
	unit := clause.New(clause.Pos(term.App(p, term.Var(0))))
	unit.ID = 1
	units.Insert(true, unit.Literals[0].Atom, unit)

	// Forward: the unit subsumes any clause containing p(t).
	c := clause.New(
		clause.Pos(term.App(p, term.Const(a))),
		clause.Pos(term.App(q, term.Const(a))),
	)
	assert.Same(t, unit, UnitSubsumer(units, c))

	// Unit deletion removes opposite-sign literals.
	d := clause.New(
		clause.Neg(term.App(p, term.Const(a))),
		clause.Pos(term.App(q, term.Const(a))),
	)
	require.True(t, UnitDelete(units, d))
	require.Len(t, d.Literals, 1)
	assert.Equal(t, q, d.Literals[0].Atom.SymNum())

	// The deletion is recorded against the unit's id.
	var steps []clause.Step
	for _, st := range d.Just {
		if st.Kind == clause.UnitDelStep {
			steps = append(steps, st)
		}
	}
	require.Len(t, steps, 1)
	assert.Equal(t, 1, steps[0].Data[0])
}

func TestUnitDeleteTriesFlippedEquality(t *testing.T) {
	_, q, _, a, b := setup()
	eq := clause.EqSym()

	units := index.NewDiscrimLindex()
	// Unit -(a = b); a clause literal b = a should also be deleted.
	unit := clause.New(clause.Neg(term.App(eq, term.Const(a), term.Const(b))))
	unit.ID = 7
	units.Insert(false, unit.Literals[0].Atom, unit)

	c := clause.New(
		clause.Pos(term.App(eq, term.Const(b), term.Const(a))),
		clause.Pos(term.App(q, term.Const(a))),
	)
	require.True(t, UnitDelete(units, c))
	require.Len(t, c.Literals, 1)
	assert.Equal(t, q, c.Literals[0].Atom.SymNum())
}

func TestUnitConflictPartner(t *testing.T) {
	p, _, _, a, _ := setup()

	units := index.NewLindex(4)
	pos := clause.New(clause.Pos(term.App(p, term.Var(0))))
	pos.ID = 1
	units.Insert(true, pos.Literals[0].Atom, pos)

	neg := clause.New(clause.Neg(term.App(p, term.Const(a))))
	neg.ID = 2
	assert.Same(t, pos, UnitConflictPartner(units, neg))

	// No conflict between same-sign units.
	pos2 := clause.New(clause.Pos(term.App(p, term.Const(a))))
	assert.Nil(t, UnitConflictPartner(units, pos2))
}
