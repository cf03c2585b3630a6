package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osprey/internal/clause"
	"osprey/internal/term"
)

// z2 builds the two-element interpretation with xor as f and p true of 1.
func z2(t *testing.T) (*Interp, int, int, int) {
	t.Helper()
	term.Reset()
	f := term.Intern("f", 2)
	p := term.Intern("p", 1)
	zero := term.Intern("0", 0)

	ip := New(2)
	require.True(t, ip.AddFunction(f, []int{0, 1, 1, 0}))
	require.True(t, ip.AddFunction(zero, []int{0}))
	require.True(t, ip.AddRelation(p, []bool{false, true}))
	return ip, f, p, zero
}

func TestTableSizesAreChecked(t *testing.T) {
	term.Reset()
	f := term.Intern("f", 2)
	ip := New(2)
	assert.False(t, ip.AddFunction(f, []int{0, 1}), "needs 4 entries")
	assert.False(t, ip.AddFunction(f, []int{0, 1, 2, 0}), "value out of domain")
}

func TestEvalGroundClause(t *testing.T) {
	ip, f, p, zero := z2(t)

	// p(f(0,0)) is false: f(0,0)=0 and p(0) is false.
	c := clause.New(clause.Pos(term.App(p, term.App(f, term.Const(zero), term.Const(zero)))))
	assert.Equal(t, clause.SemFalse, ip.EvalClause(c, 1024))

	// -p(f(0,0)) is true.
	c2 := clause.New(clause.Neg(term.App(p, term.App(f, term.Const(zero), term.Const(zero)))))
	assert.Equal(t, clause.SemTrue, ip.EvalClause(c2, 1024))
}

func TestEvalQuantifiedClause(t *testing.T) {
	ip, f, _, _ := z2(t)
	eq := clause.EqSym()

	// f(x,x) = 0 holds for both domain elements... but written with the
	// interpreted constant: f(x,x) = 0 evaluates true in Z2.
	zero, _ := term.Lookup("0", 0)
	c := clause.New(clause.Pos(term.App(eq, term.App(f, term.Var(0), term.Var(0)), term.Const(zero))))
	assert.Equal(t, clause.SemTrue, ip.EvalClause(c, 1024))

	// f(x,y) = 0 fails for x=0,y=1.
	c2 := clause.New(clause.Pos(term.App(eq, term.App(f, term.Var(0), term.Var(1)), term.Const(zero))))
	assert.Equal(t, clause.SemFalse, ip.EvalClause(c2, 1024))
}

func TestEvalNotEvaluable(t *testing.T) {
	ip, _, p, _ := z2(t)

	// A symbol without a table is not evaluable.
	q := term.Intern("q", 1)
	c := clause.New(clause.Pos(term.App(q, term.Var(0))))
	assert.Equal(t, clause.SemNotEvaluable, ip.EvalClause(c, 1024))

	// Too many assignments for the limit.
	big := clause.New(
		clause.Pos(term.App(p, term.Var(0))),
		clause.Pos(term.App(p, term.Var(1))),
		clause.Pos(term.App(p, term.Var(2))),
	)
	assert.Equal(t, clause.SemNotEvaluable, ip.EvalClause(big, 4))
}

func TestEmptyClauseIsFalse(t *testing.T) {
	ip, _, _, _ := z2(t)
	assert.Equal(t, clause.SemFalse, ip.EvalClause(clause.New(), 1024))
}
