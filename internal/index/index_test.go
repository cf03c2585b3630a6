package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osprey/internal/term"
)

func symbols() (f, g, a, b int) {
	term.Reset()
	return term.Intern("f", 2), term.Intern("g", 1), term.Intern("a", 0), term.Intern("b", 0)
}

func entryTerms(es []*Entry) []*term.Term {
	out := make([]*term.Term, len(es))
	for i, e := range es {
		out[i] = e.T
	}
	return out
}

func contains(ts []*term.Term, want *term.Term) bool {
	for _, x := range ts {
		if x.Equal(want) {
			return true
		}
	}
	return false
}

func TestFPAUnifyRetrieval(t *testing.T) {
	f, g, a, b := symbols()
	fpa := NewFPA(3)

	fa := term.App(f, term.Const(a), term.Var(0))   // f(a,x)
	fb := term.App(f, term.Const(b), term.Const(b)) // f(b,b)
	ga := term.App(g, term.Const(a))                // g(a)
	fpa.Insert(fa, 1)
	fpa.Insert(fb, 2)
	fpa.Insert(ga, 3)

	// Query f(a,b): candidates must include f(a,x), must exclude g(a).
	q := term.App(f, term.Const(a), term.Const(b))
	got := entryTerms(fpa.Retrieve(q, UnifyMode))
	assert.True(t, contains(got, fa))
	assert.False(t, contains(got, ga))
	assert.False(t, contains(got, fb))

	// A variable query is constrained by nothing.
	got = entryTerms(fpa.Retrieve(term.Var(3), UnifyMode))
	assert.Len(t, got, 3)
}

func TestFPAStoredVariableMatchesAnySubterm(t *testing.T) {
	f, _, a, b := symbols()
	fpa := NewFPA(3)

	fxy := term.App(f, term.Var(0), term.Var(1))
	fpa.Insert(fxy, 1)

	q := term.App(f, term.Const(a), term.Const(b))
	got := entryTerms(fpa.Retrieve(q, UnifyMode))
	assert.True(t, contains(got, fxy), "f(x,y) is a unify candidate for f(a,b)")

	// Instance mode: f(x,y) is not an instance of f(a,b).
	got = entryTerms(fpa.Retrieve(q, InstanceMode))
	assert.False(t, contains(got, fxy))
}

func TestFPAInstanceRetrieval(t *testing.T) {
	f, _, a, b := symbols()
	fpa := NewFPA(3)

	fab := term.App(f, term.Const(a), term.Const(b))
	fpa.Insert(fab, 1)

	q := term.App(f, term.Const(a), term.Var(0))
	got := entryTerms(fpa.Retrieve(q, InstanceMode))
	assert.True(t, contains(got, fab), "f(a,b) is an instance of f(a,y)")
}

func TestFPADelete(t *testing.T) {
	f, _, a, _ := symbols()
	fpa := NewFPA(3)
	fa := term.App(f, term.Const(a), term.Var(0))
	fpa.Insert(fa, 1)
	require.Equal(t, 1, fpa.Size())
	fpa.Delete(fa)
	assert.Equal(t, 0, fpa.Size())
	assert.Empty(t, fpa.Retrieve(term.App(f, term.Const(a), term.Const(a)), UnifyMode))
}

func TestFPACommutativeQueryCut(t *testing.T) {
	f, _, a, b := symbols()
	term.SetTheory(f, term.Commutative)
	fpa := NewFPA(3)

	// Stored f(b,a) must stay a candidate for the query f(a,b): argument
	// positions under a commutative symbol cannot constrain retrieval.
	fba := term.App(f, term.Const(b), term.Const(a))
	fpa.Insert(fba, 1)

	q := term.App(f, term.Const(a), term.Const(b))
	got := entryTerms(fpa.Retrieve(q, UnifyMode))
	assert.True(t, contains(got, fba), "commutative candidates survive the path filter")
}

func TestDiscrimGeneralizationRetrieval(t *testing.T) {
	f, g, a, b := symbols()
	d := NewDiscrim()

	fxx := term.App(f, term.Var(0), term.Var(0))
	fax := term.App(f, term.Const(a), term.Var(1))
	gb := term.App(g, term.Const(b))
	d.Insert(fxx, "fxx")
	d.Insert(fax, "fax")
	d.Insert(gb, "gb")

	var hits []string
	d.RetrieveGeneralizations(term.App(f, term.Const(a), term.Const(a)), func(e *Entry) bool {
		hits = append(hits, e.Data.(string))
		return true
	})
	// The plain tree collapses variables, so both f-patterns surface; the
	// caller's Match filters f(x,x) against unequal arguments.
	assert.Contains(t, hits, "fxx")
	assert.Contains(t, hits, "fax")
	assert.NotContains(t, hits, "gb")
}

func TestDiscrimBChecksVariableConsistency(t *testing.T) {
	f, _, a, b := symbols()
	d := NewDiscrimB()

	fxx := term.App(f, term.Var(0), term.Var(0))
	d.Insert(fxx, "fxx")

	var hits []string
	collect := func(e *Entry) bool {
		hits = append(hits, e.Data.(string))
		return true
	}

	d.RetrieveGeneralizations(term.App(f, term.Const(a), term.Const(b)), collect)
	assert.Empty(t, hits, "f(x,x) does not generalize f(a,b)")

	d.RetrieveGeneralizations(term.App(f, term.Const(a), term.Const(a)), collect)
	assert.Equal(t, []string{"fxx"}, hits)
}

func TestDiTreeSubsetSuperset(t *testing.T) {
	d := NewDiTree(3)
	d.Insert([]int{1, 0, 2}, "low")
	d.Insert([]int{2, 1, 2}, "mid")
	d.Insert([]int{3, 3, 3}, "high")

	var got []string
	d.Subset([]int{2, 1, 2}, func(x any) bool {
		got = append(got, x.(string))
		return true
	})
	assert.ElementsMatch(t, []string{"low", "mid"}, got)

	got = nil
	d.Superset([]int{2, 1, 2}, func(x any) bool {
		got = append(got, x.(string))
		return true
	})
	assert.ElementsMatch(t, []string{"mid", "high"}, got)

	d.Delete([]int{2, 1, 2}, "mid")
	assert.Equal(t, 2, d.Size())
}
