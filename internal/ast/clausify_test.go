package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osprey/internal/term"
)

func expr(name string, args ...*Expr) *Expr { return &Expr{Name: name, Args: args} }
func leaf(name string) *Expr                { return &Expr{Name: name} }

func TestVariableNaming(t *testing.T) {
	assert.True(t, IsVariableName("x", false))
	assert.True(t, IsVariableName("z2", false))
	assert.False(t, IsVariableName("a", false))
	assert.False(t, IsVariableName("X", false))

	// Prolog-style: uppercase and underscore start.
	assert.True(t, IsVariableName("X", true))
	assert.True(t, IsVariableName("_y", true))
	assert.False(t, IsVariableName("x", true))
}

func TestToClausesSimpleDisjunction(t *testing.T) {
	term.Reset()
	e := expr("|", expr("p", leaf("x")), expr("-", expr("q", leaf("x"))))
	cs, err := ToClauses(e, false)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	c := cs[0]
	require.Len(t, c.Literals, 2)
	assert.True(t, c.Literals[0].Sign)
	assert.False(t, c.Literals[1].Sign)
	// The same variable name maps to the same variable number.
	assert.Equal(t, c.Literals[0].Atom.Args[0].VarNum(), c.Literals[1].Atom.Args[0].VarNum())
}

func TestToClausesImplication(t *testing.T) {
	term.Reset()
	e := expr("->", expr("p", leaf("x")), expr("q", leaf("x")))
	cs, err := ToClauses(e, false)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	require.Len(t, cs[0].Literals, 2)
	assert.False(t, cs[0].Literals[0].Sign, "antecedent is negated")
	assert.True(t, cs[0].Literals[1].Sign)
}

func TestToClausesUniversalPrefix(t *testing.T) {
	term.Reset()
	e := expr("all", leaf("x"), expr("all", leaf("y"),
		expr("|", expr("p", leaf("x")), expr("p", leaf("y")))))
	cs, err := ToClauses(e, false)
	require.NoError(t, err)
	require.Len(t, cs, 1)
	assert.Len(t, cs[0].Literals, 2)
}

func TestToClausesConjunctionSplits(t *testing.T) {
	term.Reset()
	e := expr("&", expr("p", leaf("a")), expr("q", leaf("a")))
	cs, err := ToClauses(e, false)
	require.NoError(t, err)
	assert.Len(t, cs, 2)
}

func TestToClausesNotEqual(t *testing.T) {
	term.Reset()
	e := expr("!=", leaf("a"), leaf("b"))
	cs, err := ToClauses(e, false)
	require.NoError(t, err)
	lit := cs[0].Literals[0]
	assert.False(t, lit.Sign)
	assert.True(t, lit.IsEq())
}

func TestToClausesRejectsExists(t *testing.T) {
	term.Reset()
	e := expr("exists", leaf("x"), expr("p", leaf("x")))
	_, err := ToClauses(e, false)
	assert.Error(t, err)
}

func TestToClausesSetsSymbolKinds(t *testing.T) {
	term.Reset()
	e := expr("p", expr("f", leaf("a")))
	cs, err := ToClauses(e, false)
	require.NoError(t, err)
	require.Len(t, cs, 1)

	p, _ := term.Lookup("p", 1)
	f, _ := term.Lookup("f", 1)
	a, _ := term.Lookup("a", 0)
	assert.Equal(t, term.Predicate, term.Sym(p).Kind)
	assert.Equal(t, term.Function, term.Sym(f).Kind)
	assert.Equal(t, term.Function, term.Sym(a).Kind)
}
