package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osprey/internal/ast"
	"osprey/internal/term"
)

func parse(t *testing.T, src string) *ast.Input {
	t.Helper()
	term.Reset()
	p, err := NewParser(src)
	require.NoError(t, err)
	in, err := p.ParseInput()
	require.NoError(t, err)
	return in
}

func TestDirectives(t *testing.T) {
	in := parse(t, `
		set(binary_resolution).
		clear(back_demod).
		assign(max_weight, 60).
		assign(max_seconds, -1).
		assign(order, kbo).
	`)
	require.Len(t, in.Directives, 5)
	assert.Equal(t, &ast.Set{Flag: "binary_resolution"}, in.Directives[0])
	assert.Equal(t, &ast.Clear{Flag: "back_demod"}, in.Directives[1])
	assert.Equal(t, &ast.Assign{Name: "max_weight", Value: "60"}, in.Directives[2])
	assert.Equal(t, &ast.Assign{Name: "max_seconds", Value: "-1"}, in.Directives[3])
	assert.Equal(t, &ast.Assign{Name: "order", Value: "kbo"}, in.Directives[4])
}

func TestClauseList(t *testing.T) {
	in := parse(t, `
		clauses(sos).
		  p(a) | -q(b).
		  x = x.
		end_of_list.
	`)
	require.Len(t, in.Directives, 1)
	list, ok := in.Directives[0].(*ast.List)
	require.True(t, ok)
	assert.Equal(t, "sos", list.Label)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "|(p(a),-(q(b)))", list.Items[0].Expr.String())
	assert.Equal(t, "=(x,x)", list.Items[1].Expr.String())
}

func TestOperatorPrecedence(t *testing.T) {
	in := parse(t, `
		formulas(usable).
		  p(a) | q(a) & r(a).
		  -p(a) | q(a).
		  f(x,y) = f(y,x).
		end_of_list.
	`)
	items := in.Directives[0].(*ast.List).Items
	// & binds tighter than |.
	assert.Equal(t, "|(p(a),&(q(a),r(a)))", items[0].Expr.String())
	assert.Equal(t, "|(-(p(a)),q(a))", items[1].Expr.String())
	assert.Equal(t, "=(f(x,y),f(y,x))", items[2].Expr.String())
}

func TestQuantifierAndImplication(t *testing.T) {
	in := parse(t, `
		formulas(usable).
		  all x (p(x) -> q(x)).
		end_of_list.
	`)
	e := in.Directives[0].(*ast.List).Items[0].Expr
	assert.Equal(t, "all(x,->(p(x),q(x)))", e.String())
}

func TestNotEqualScansAsOneOperator(t *testing.T) {
	in := parse(t, `
		clauses(sos).
		  a != b.
		  a|-b.
		end_of_list.
	`)
	items := in.Directives[0].(*ast.List).Items
	assert.Equal(t, "!=(a,b)", items[0].Expr.String())
	// The operator run "|-" splits into | and prefix -.
	assert.Equal(t, "|(a,-(b))", items[1].Expr.String())
}

func TestAttributes(t *testing.T) {
	in := parse(t, `
		clauses(sos).
		  p(a) # label(base_case) # answer(a).
		end_of_list.
	`)
	item := in.Directives[0].(*ast.List).Items[0]
	require.Len(t, item.Attrs, 2)
	assert.Equal(t, ast.Attr{Name: "label", Value: "base_case"}, item.Attrs[0])
	assert.Equal(t, ast.Attr{Name: "answer", Value: "a"}, item.Attrs[1])
}

func TestRawLists(t *testing.T) {
	in := parse(t, `
		clauses(given_selection).
		  part(age, low, age, all) = 1.
		  part(hints, high, weight, hint) = all.
		end_of_list.
		clauses(actions).
		  given = 50 -> assign(max_weight, 20).
		end_of_list.
	`)
	sel := in.Directives[0].(*ast.RawList)
	assert.Equal(t, "given_selection", sel.Label)
	require.Len(t, sel.Items, 2)
	assert.Contains(t, sel.Items[0], "part ( age , low , age , all ) = 1")

	acts := in.Directives[1].(*ast.RawList)
	require.Len(t, acts.Items, 1)
	assert.Contains(t, acts.Items[0], "-> assign ( max_weight , 20 )")
}

func TestWeightsList(t *testing.T) {
	in := parse(t, `
		clauses(kbo_weights).
		  weight(f/2, 3).
		  weight(a, 0).
		end_of_list.
	`)
	w := in.Directives[0].(*ast.Weights)
	require.Len(t, w.Rules, 2)
	assert.Equal(t, ast.WeightRule{Symbol: "f", Arity: 2, Value: 3}, w.Rules[0])
	assert.Equal(t, ast.WeightRule{Symbol: "a", Arity: 0, Value: 0}, w.Rules[1])
}

func TestInterpretationBlock(t *testing.T) {
	in := parse(t, `
		clauses(interpretations).
		  interpretation(2, [number = 1], [
		    function(e, [0]),
		    function(f(_,_), [0,1,1,0]),
		    relation(p(_), [1,0])
		  ]).
		end_of_list.
	`)
	ips := in.Directives[0].(*ast.Interps)
	require.Len(t, ips.Items, 1)
	ip := ips.Items[0]
	assert.Equal(t, 2, ip.Size)
	require.Len(t, ip.Entries, 3)
	assert.Equal(t, ast.InterpEntry{Kind: "function", Name: "e", Arity: 0, Values: []int{0}}, ip.Entries[0])
	assert.Equal(t, ast.InterpEntry{Kind: "function", Name: "f", Arity: 2, Values: []int{0, 1, 1, 0}}, ip.Entries[1])
	assert.Equal(t, ast.InterpEntry{Kind: "relation", Name: "p", Arity: 1, Values: []int{1, 0}}, ip.Entries[2])
}

func TestOpDeclaration(t *testing.T) {
	in := parse(t, `
		op(450, infix, *).
		clauses(sos).
		  a * b = c.
		end_of_list.
	`)
	require.Len(t, in.Directives, 2)
	item := in.Directives[1].(*ast.List).Items[0]
	assert.Equal(t, "=(*(a,b),c)", item.Expr.String())
}

func TestSymbolOrderDirective(t *testing.T) {
	in := parse(t, `function_order([0, s, f]).`)
	d := in.Directives[0].(*ast.SymbolOrder)
	assert.Equal(t, "function", d.Kind)
	assert.Equal(t, []string{"0", "s", "f"}, d.Symbols)
}

func TestMissingEndOfListFails(t *testing.T) {
	term.Reset()
	p, err := NewParser("clauses(sos). p(a).")
	require.NoError(t, err)
	_, err = p.ParseInput()
	assert.Error(t, err)
}

func TestScannerErrorPosition(t *testing.T) {
	term.Reset()
	_, err := NewParser("set(x). \x01")
	assert.Error(t, err)
}
