package unify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osprey/internal/term"
)

func setup() (f, g, a, b int) {
	term.Reset()
	return term.Intern("f", 2), term.Intern("g", 1), term.Intern("a", 0), term.Intern("b", 0)
}

func TestUnifyBindsAcrossContexts(t *testing.T) {
	f, _, a, b := setup()
	cs, ct := NewContext(), NewContext()

	// f(x, b) =?= f(a, y)
	s := term.App(f, term.Var(0), term.Const(b))
	u := term.App(f, term.Const(a), term.Var(1))

	var tr *Trail
	require.True(t, Unify(s, cs, u, ct, &tr))

	bt, _ := cs.Binding(0)
	assert.True(t, bt.Equal(term.Const(a)))
	bt, _ = ct.Binding(1)
	assert.True(t, bt.Equal(term.Const(b)))

	assert.True(t, Identical(s, cs, u, ct))
	Undo(tr)
}

func TestUnifyOccursCheck(t *testing.T) {
	_, g, _, _ := setup()
	cs := NewContext()

	// x =?= g(x) must fail.
	var tr *Trail
	ok := Unify(term.Var(0), cs, term.App(g, term.Var(0)), cs, &tr)
	tr = Undo(tr)
	assert.False(t, ok)
}

func TestUndoRestoresExactBindings(t *testing.T) {
	f, _, a, _ := setup()
	cs, ct := NewContext(), NewContext()

	s := term.App(f, term.Var(0), term.Var(1))
	u := term.App(f, term.Const(a), term.Var(2))

	var tr *Trail
	require.True(t, Unify(s, cs, u, ct, &tr))
	require.True(t, cs.Bound(0))

	tr = Undo(tr)
	assert.Nil(t, tr)
	assert.False(t, cs.Bound(0))
	assert.False(t, cs.Bound(1))
	assert.False(t, ct.Bound(2))
}

func TestUndoToPartialRollback(t *testing.T) {
	_, _, a, b := setup()
	c := NewContext()

	var tr *Trail
	require.True(t, Unify(term.Var(0), c, term.Const(a), c, &tr))
	mark := tr
	require.True(t, Unify(term.Var(1), c, term.Const(b), c, &tr))

	tr = UndoTo(tr, mark)
	assert.True(t, c.Bound(0), "binding before the mark survives")
	assert.False(t, c.Bound(1), "binding after the mark is undone")
	Undo(tr)
}

func TestMatchIsOneSided(t *testing.T) {
	f, _, a, _ := setup()
	cp := NewContext()

	pat := term.App(f, term.Var(0), term.Var(0))
	subj := term.App(f, term.Const(a), term.Const(a))

	var tr *Trail
	require.True(t, Match(pat, cp, subj, &tr))
	tr = Undo(tr)

	// Subject variables are never bound: f(x,x) does not match f(y,a).
	subj2 := term.App(f, term.Var(5), term.Const(a))
	require.False(t, Match(pat, cp, subj2, &tr))
	Undo(tr)
}

func TestApplyBuildsInstance(t *testing.T) {
	f, g, a, _ := setup()
	cs, ct := NewContext(), NewContext()

	s := term.App(f, term.Var(0), term.Var(0))
	u := term.App(f, term.App(g, term.Const(a)), term.Var(3))

	var tr *Trail
	require.True(t, Unify(s, cs, u, ct, &tr))
	inst := Apply(s, cs)
	assert.Equal(t, "f(g(a),g(a))", inst.String())
	Undo(tr)
}

func TestBacktrackCommutative(t *testing.T) {
	f, _, a, b := setup()
	term.SetTheory(f, term.Commutative)

	cs, ct := NewContext(), NewContext()
	s := term.App(f, term.Var(0), term.Var(1))
	u := term.App(f, term.Const(a), term.Const(b))

	st := BtFirst(s, cs, u, ct)
	require.NotNil(t, st)

	// Two pairings: {x=a,y=b} and {x=b,y=a}.
	first := Apply(s, cs)
	require.True(t, st.BtNext())
	second := Apply(s, cs)
	assert.False(t, first.Equal(second))
	assert.False(t, st.BtNext(), "exactly two unifiers")
	st.Cancel()
	assert.False(t, cs.Bound(0))
}

func TestForEachUnifierPlainFallback(t *testing.T) {
	f, _, a, _ := setup()
	cs, ct := NewContext(), NewContext()

	s := term.App(f, term.Var(0), term.Const(a))
	u := term.App(f, term.Const(a), term.Const(a))

	n := 0
	ForEachUnifier(s, cs, u, ct, func() bool {
		n++
		assert.True(t, Identical(s, cs, u, ct))
		return true
	})
	assert.Equal(t, 1, n, "syntactic pair has exactly one unifier")
	assert.False(t, cs.Bound(0), "bindings are undone afterwards")
}

func TestForEachUnifierCommutative(t *testing.T) {
	f, _, a, b := setup()
	term.SetTheory(f, term.Commutative)

	cs, ct := NewContext(), NewContext()
	s := term.App(f, term.Const(a), term.Const(b))
	u := term.App(f, term.Const(b), term.Const(a))

	n := 0
	ForEachUnifier(s, cs, u, ct, func() bool {
		n++
		return true
	})
	assert.Equal(t, 1, n, "the swapped pairing unifies")

	// Early stop is honored and still undoes everything.
	s2 := term.App(f, term.Var(0), term.Var(1))
	completed := ForEachUnifier(s2, cs, u, ct, func() bool { return false })
	assert.False(t, completed)
	assert.False(t, cs.Bound(0))
}

func TestForEachMatchCommutative(t *testing.T) {
	f, _, a, b := setup()
	term.SetTheory(f, term.Commutative)

	cpat := NewContext()
	pat := term.App(f, term.Var(0), term.Const(a))
	subject := term.App(f, term.Const(a), term.Const(b))

	// Only the swapped argument order matches: x -> b.
	n := 0
	ForEachMatch(pat, cpat, subject, func() bool {
		n++
		bt, _ := cpat.Binding(0)
		assert.True(t, bt.Equal(term.Const(b)))
		return true
	})
	assert.Equal(t, 1, n)
	assert.False(t, cpat.Bound(0))
}

func TestBacktrackGroundCommutativeEquality(t *testing.T) {
	f, _, a, b := setup()
	term.SetTheory(f, term.Commutative)

	cs, ct := NewContext(), NewContext()
	s := term.App(f, term.Const(a), term.Const(b))
	u := term.App(f, term.Const(b), term.Const(a))

	st := BtFirst(s, cs, u, ct)
	require.NotNil(t, st, "f(a,b) unifies with f(b,a) modulo commutativity")
	st.Cancel()
}
