package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osprey/internal/clause"
	"osprey/internal/index"
	"osprey/internal/order"
	"osprey/internal/term"
)

func setup() (p, q, r, f, a, b int) {
	term.Reset()
	order.Select(order.LPO)
	p = term.Intern("p", 1)
	q = term.Intern("q", 1)
	r = term.Intern("r", 1)
	f = term.Intern("f", 2)
	a = term.Intern("a", 0)
	b = term.Intern("b", 0)
	return
}

// clashIndex files every literal of the clauses the way the search does.
func clashIndex(cs ...*clause.Clause) *index.Lindex {
	ix := index.NewLindex(4)
	for _, c := range cs {
		for i, l := range c.Literals {
			ix.Insert(l.Sign, l.Atom, LitRef{C: c, Idx: i})
		}
	}
	return ix
}

func collect(out *[]*clause.Clause) Emit {
	return func(c *clause.Clause) { *out = append(*out, c) }
}

func TestBinaryResolution(t *testing.T) {
	p, q, _, _, a, _ := setup()

	// Usable: -p(x) | q(x). Given: p(a). Resolvent: q(a).
	usable := clause.New(
		clause.Neg(term.App(p, term.Var(0))),
		clause.Pos(term.App(q, term.Var(0))),
	)
	usable.ID = 1
	usable.MarkMaximalLiterals()
	ix := clashIndex(usable)

	given := clause.New(clause.Pos(term.App(p, term.Const(a))))
	given.ID = 2
	given.MarkMaximalLiterals()

	var got []*clause.Clause
	BinaryResolution(given, ix, Config{}, collect(&got))
	require.Len(t, got, 1)
	res := got[0]
	res.NormalizeVars()
	require.Len(t, res.Literals, 1)
	assert.Equal(t, q, res.Literals[0].Atom.SymNum())
	assert.True(t, res.Literals[0].Sign)

	require.Len(t, res.Just, 1)
	assert.Equal(t, clause.BinaryResStep, res.Just[0].Kind)
	assert.Equal(t, []int{2, 0, 1, 0}, res.Just[0].Data)
}

func TestOrderedResolutionSkipsNonMaximal(t *testing.T) {
	p, _, _, f, a, _ := setup()

	// Clause -p(a) | -p(f(a,a)): only the bigger literal is maximal.
	usable := clause.New(
		clause.Neg(term.App(p, term.Const(a))),
		clause.Neg(term.App(p, term.App(f, term.Const(a), term.Const(a)))),
	)
	usable.ID = 1
	usable.MarkMaximalLiterals()
	ix := clashIndex(usable)

	given := clause.New(clause.Pos(term.App(p, term.Const(a))))
	given.ID = 2
	given.MarkMaximalLiterals()

	var got []*clause.Clause
	BinaryResolution(given, ix, Config{OrderedRes: true}, collect(&got))
	assert.Empty(t, got, "the small literal is not maximal, so no clash")

	got = nil
	BinaryResolution(given, ix, Config{}, collect(&got))
	assert.Len(t, got, 1, "unordered resolution clashes it")
}

func TestFactor(t *testing.T) {
	p, _, _, _, a, _ := setup()

	c := clause.New(
		clause.Pos(term.App(p, term.Var(0))),
		clause.Pos(term.App(p, term.Const(a))),
	)
	c.ID = 3

	var got []*clause.Clause
	Factor(c, collect(&got))
	require.Len(t, got, 1)
	require.Len(t, got[0].Literals, 1)
	assert.Equal(t, "p(a)", got[0].Literals[0].String())
	assert.Equal(t, clause.FactorStep, got[0].Just[0].Kind)
}

func TestHyperresolution(t *testing.T) {
	p, q, r, _, a, _ := setup()

	// Nucleus: -p(x) | -q(x) | r(x); satellites p(a), q(a).
	nucleus := clause.New(
		clause.Neg(term.App(p, term.Var(0))),
		clause.Neg(term.App(q, term.Var(0))),
		clause.Pos(term.App(r, term.Var(0))),
	)
	nucleus.ID = 1
	pa := clause.New(clause.Pos(term.App(p, term.Const(a))))
	pa.ID = 2
	qa := clause.New(clause.Pos(term.App(q, term.Const(a))))
	qa.ID = 3
	ix := clashIndex(nucleus, pa, qa)

	var got []*clause.Clause
	Hyperresolution(nucleus, ix, true, collect(&got))
	require.Len(t, got, 1)
	res := got[0]
	require.Len(t, res.Literals, 1)
	assert.Equal(t, "r(a)", res.Literals[0].String())
	assert.Equal(t, clause.HyperResStep, res.Just[0].Kind)
}

func TestHyperresolutionGivenAsSatellite(t *testing.T) {
	p, q, _, _, a, _ := setup()

	nucleus := clause.New(
		clause.Neg(term.App(p, term.Var(0))),
		clause.Pos(term.App(q, term.Var(0))),
	)
	nucleus.ID = 1
	ix := clashIndex(nucleus)

	given := clause.New(clause.Pos(term.App(p, term.Const(a))))
	given.ID = 2
	// Satellite retrievals must see the given too.
	ix.Insert(true, given.Literals[0].Atom, LitRef{C: given, Idx: 0})

	var got []*clause.Clause
	Hyperresolution(given, ix, true, collect(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "q(a)", got[0].Literals[0].String())
}

func TestURResolution(t *testing.T) {
	p, q, r, _, a, _ := setup()

	nucleus := clause.New(
		clause.Neg(term.App(p, term.Var(0))),
		clause.Neg(term.App(q, term.Var(0))),
		clause.Pos(term.App(r, term.Var(0))),
	)
	nucleus.ID = 1
	pa := clause.New(clause.Pos(term.App(p, term.Const(a))))
	pa.ID = 2
	qa := clause.New(clause.Pos(term.App(q, term.Const(a))))
	qa.ID = 3
	ix := clashIndex(nucleus, pa, qa)

	var got []*clause.Clause
	URResolution(nucleus, ix, collect(&got))

	units := map[string]bool{}
	for _, c := range got {
		require.True(t, c.IsUnit())
		c.NormalizeVars()
		units[c.Literals[0].String()] = true
	}
	assert.True(t, units["r(a)"], "clashing both negatives leaves r(a)")
}

func TestBinaryResolutionModuloCommutativity(t *testing.T) {
	p, _, _, f, a, b := setup()
	term.SetTheory(f, term.Commutative)

	usable := clause.New(clause.Neg(term.App(p, term.App(f, term.Const(b), term.Const(a)))))
	usable.ID = 1
	ix := clashIndex(usable)

	given := clause.New(clause.Pos(term.App(p, term.App(f, term.Const(a), term.Const(b)))))
	given.ID = 2

	var got []*clause.Clause
	BinaryResolution(given, ix, Config{}, collect(&got))
	require.Len(t, got, 1, "p(f(a,b)) clashes with -p(f(b,a)) under commutativity")
	assert.True(t, got[0].IsEmpty())
}

func TestParamodulationFromEquality(t *testing.T) {
	p, _, _, f, a, b := setup()
	eq := clause.EqSym()

	// Given: f(a,b) = b (oriented). Usable: p(f(a,b)). Paramodulant: p(b).
	given := clause.New(clause.Pos(term.App(eq,
		term.App(f, term.Const(a), term.Const(b)), term.Const(b))))
	given.ID = 1
	given.OrientEqualities()

	target := clause.New(clause.Pos(term.App(p, term.App(f, term.Const(a), term.Const(b)))))
	target.ID = 2

	from := index.NewFPA(4)
	into := index.NewFPA(4)
	// Index the target's subterm position the way the search does.
	target.Literals[0].Atom.Walk(func(sub *term.Term, pos []int) bool {
		if len(pos) > 0 && !sub.IsVar() {
			into.Insert(sub, IntoRef{C: target, Idx: 0, Pos: append([]int(nil), pos...)})
		}
		return true
	})

	var got []*clause.Clause
	Paramodulation(given, from, into, Config{OrderedPara: true}, collect(&got))
	require.NotEmpty(t, got)

	found := false
	for _, c := range got {
		c.NormalizeVars()
		if c.IsUnit() && c.Literals[0].String() == "p(b)" {
			found = true
			require.Equal(t, clause.ParaStep, c.Just[0].Kind)
			assert.Equal(t, 1, c.Just[0].Data[0], "from clause id")
			assert.Equal(t, 2, c.Just[0].Data[2], "into clause id")
		}
	}
	assert.True(t, found, "expected paramodulant p(b), got %v", got)
}

func TestParamodulationIntoGiven(t *testing.T) {
	p, _, _, f, a, b := setup()
	eq := clause.EqSym()

	// Usable: f(x,y) = f(y,x) (unoriented). Given: -p(f(b,a)).
	comm := clause.New(clause.Pos(term.App(eq,
		term.App(f, term.Var(0), term.Var(1)),
		term.App(f, term.Var(1), term.Var(0)))))
	comm.ID = 1
	comm.OrientEqualities()

	from := index.NewFPA(4)
	alpha, beta := comm.Literals[0].EqSides()
	from.Insert(alpha, FromRef{C: comm, Idx: 0})
	from.Insert(beta, FromRef{C: comm, Idx: 0, RL: true})

	given := clause.New(clause.Neg(term.App(p, term.App(f, term.Const(b), term.Const(a)))))
	given.ID = 2

	var got []*clause.Clause
	Paramodulation(given, from, index.NewFPA(4), Config{OrderedPara: true}, collect(&got))

	found := false
	for _, c := range got {
		c.NormalizeVars()
		if c.IsUnit() && c.Literals[0].String() == "-p(f(a,b))" {
			found = true
		}
	}
	assert.True(t, found, "commutativity applies into the given: %v", got)
}
