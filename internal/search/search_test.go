package search

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osprey/internal/options"
	"osprey/internal/parser"
	"osprey/internal/term"
)

// runSource assembles and searches an inline input, the way the batch front
// end does.
func runSource(t *testing.T, src string) (*State, *Results) {
	t.Helper()
	term.Reset()
	opts := options.NewStore()
	p, err := parser.NewParser(src)
	require.NoError(t, err)
	astIn, err := p.ParseInput()
	require.NoError(t, err)
	in, _ := Assemble(astIn, opts)
	st := NewState(in)
	st.Out = io.Discard
	res := st.Search()
	return st, res
}

func TestUnitConflictProof(t *testing.T) {
	st, res := runSource(t, `
		clauses(usable).
		  p(a).
		end_of_list.
		clauses(sos).
		  -p(a).
		end_of_list.
	`)
	assert.Equal(t, ExitMaxProofs, res.ExitCode)
	require.Len(t, res.Proofs, 1)
	assert.Equal(t, 3, res.Proofs[0].Length, "p, -p, and the empty clause")
	assert.Equal(t, 1, res.Stats.Proofs)
	_ = st
}

func TestSaturationWithoutProof(t *testing.T) {
	_, res := runSource(t, `
		clauses(usable).
		  p(a).
		end_of_list.
		clauses(sos).
		  q(a).
		end_of_list.
	`)
	assert.Equal(t, ExitSosEmpty, res.ExitCode)
	assert.Empty(t, res.Proofs)
	assert.Equal(t, 1, res.Stats.Given, "q(a) is given once, generates nothing")
}

func TestEmptySosAtStart(t *testing.T) {
	_, res := runSource(t, `
		clauses(usable).
		  p(a).
		end_of_list.
	`)
	assert.Equal(t, ExitSosEmpty, res.ExitCode)
	assert.Zero(t, res.Stats.Given)
}

func TestDemodulationRewriteChain(t *testing.T) {
	_, res := runSource(t, `
		function_order([0, s, f]).
		clauses(demodulators).
		  f(x, 0) = x.
		  f(x, s(y)) = s(f(x, y)).
		end_of_list.
		clauses(sos).
		  f(s(s(0)), s(s(0))) != s(s(s(s(0)))).
		end_of_list.
	`)
	assert.Equal(t, ExitMaxProofs, res.ExitCode, "2+2=4 by rewriting alone")
	require.Len(t, res.Proofs, 1)
	assert.Greater(t, res.Stats.Rewrites, 0)
}

func TestEqualityChainByBackDemod(t *testing.T) {
	// a=b and b=c become demodulators; the denial a!=c rewrites to the
	// empty clause.
	_, res := runSource(t, `
		clauses(sos).
		  b = a.
		  c = b.
		  c != a.
		end_of_list.
	`)
	assert.Equal(t, ExitMaxProofs, res.ExitCode)
	require.Len(t, res.Proofs, 1)
}

func TestBinaryResolutionSearch(t *testing.T) {
	st, res := runSource(t, `
		set(binary_resolution).
		clauses(usable).
		  -p(x) | q(x).
		end_of_list.
		clauses(sos).
		  p(a).
		  -q(a).
		end_of_list.
	`)
	assert.Equal(t, ExitMaxProofs, res.ExitCode)
	require.Len(t, res.Proofs, 1)
	assert.GreaterOrEqual(t, res.Stats.Kept, 3)
	_ = st
}

func TestHyperresolutionSearch(t *testing.T) {
	_, res := runSource(t, `
		set(hyper_resolution).
		clauses(usable).
		  -p(x) | q(x).
		end_of_list.
		clauses(sos).
		  p(a).
		end_of_list.
	`)
	assert.Equal(t, ExitSosEmpty, res.ExitCode)
	// p(a) and the derived q(a) were kept.
	assert.Equal(t, 2, res.Stats.Kept)
}

func TestURResolutionSearch(t *testing.T) {
	_, res := runSource(t, `
		set(ur_resolution).
		clauses(usable).
		  -p(x) | -q(x) | r(x).
		end_of_list.
		clauses(sos).
		  p(a).
		  q(a).
		end_of_list.
	`)
	assert.Equal(t, ExitSosEmpty, res.ExitCode)
	assert.Equal(t, 3, res.Stats.Kept, "p(a), q(a), and the UR resolvent r(a)")
}

func TestParamodulationSearch(t *testing.T) {
	_, res := runSource(t, `
		set(paramodulation).
		clauses(usable).
		  f(x, y) = f(y, x).
		  p(f(a, b)).
		end_of_list.
		clauses(sos).
		  -p(f(b, a)).
		end_of_list.
	`)
	assert.Equal(t, ExitMaxProofs, res.ExitCode,
		"commutativity paramodulates the denial into a conflict")
	require.Len(t, res.Proofs, 1)
}

func TestCommutativeConflictAfterCacUpgrade(t *testing.T) {
	// Keeping f(x,y) = f(y,x) upgrades f's unification theory. With
	// lex-dep demodulation off the equation is not a rewrite rule, so the
	// denial of p(f(b,a)) can only conflict with p(f(a,b)) through the
	// backtracking unifier.
	_, res := runSource(t, `
		clear(lex_dep_demod).
		clauses(usable).
		  p(f(a, b)).
		end_of_list.
		clauses(sos).
		  f(x, y) = f(y, x).
		end_of_list.
		clauses(goals).
		  p(f(b, a)).
		end_of_list.
	`)
	assert.Equal(t, ExitMaxProofs, res.ExitCode)
	require.Len(t, res.Proofs, 1)
	assert.Greater(t, res.Stats.CacEquations, 0)
	assert.Greater(t, res.Stats.UnitConflicts, 0)
}

func TestNestPenaltyRaisesWeight(t *testing.T) {
	// With a heavy nest penalty, the self-nested resolvent p(f(f(a,a),a))
	// exceeds max_weight while the flat one would not.
	_, res := runSource(t, `
		set(binary_resolution).
		assign(nest_penalty, 100.0).
		assign(max_weight, 50).
		clauses(usable).
		  -p(x) | p(f(f(x, x), x)).
		end_of_list.
		clauses(sos).
		  p(a).
		end_of_list.
	`)
	assert.Greater(t, res.Stats.DeletedByRule, 0, "nest penalty pushed the resolvent over max_weight")
}

func TestMaxWeightDeletes(t *testing.T) {
	_, res := runSource(t, `
		set(binary_resolution).
		assign(max_weight, 1).
		clauses(usable).
		  -p(x) | q(f(x, x)).
		end_of_list.
		clauses(sos).
		  p(a).
		end_of_list.
	`)
	assert.Equal(t, ExitSosEmpty, res.ExitCode)
	assert.Greater(t, res.Stats.DeletedByRule, 0, "the heavy resolvent is deleted by weight")
	assert.Equal(t, 1, res.Stats.Kept)
}

func TestMaxGivenLimit(t *testing.T) {
	_, res := runSource(t, `
		set(binary_resolution).
		assign(max_given, 1).
		clauses(usable).
		  -p(x) | p(f(x, x)).
		end_of_list.
		clauses(sos).
		  p(a).
		end_of_list.
	`)
	assert.Equal(t, ExitMaxGiven, res.ExitCode)
}

func TestMaxKeptLimit(t *testing.T) {
	_, res := runSource(t, `
		set(binary_resolution).
		assign(max_kept, 2).
		clauses(usable).
		  -p(x) | p(f(x, x)).
		end_of_list.
		clauses(sos).
		  p(a).
		end_of_list.
	`)
	assert.Equal(t, ExitMaxKept, res.ExitCode)
}

func TestGoalsAreDenied(t *testing.T) {
	_, res := runSource(t, `
		clauses(usable).
		  p(a).
		end_of_list.
		clauses(goals).
		  p(a).
		end_of_list.
	`)
	assert.Equal(t, ExitMaxProofs, res.ExitCode, "denying the goal conflicts with p(a)")
	require.Len(t, res.Proofs, 1)
}

func TestActionRuleExit(t *testing.T) {
	_, res := runSource(t, `
		set(binary_resolution).
		clauses(actions).
		  given = 1 -> exit.
		end_of_list.
		clauses(usable).
		  -p(x) | p(f(x, x)).
		end_of_list.
		clauses(sos).
		  p(a).
		end_of_list.
	`)
	assert.Equal(t, ExitAction, res.ExitCode)
}

func TestForwardSubsumptionDiscards(t *testing.T) {
	// Back subsumption is off: otherwise the kept q(x) disables the usable
	// -p(x) | q(x) before p(a) can resolve with it.
	_, res := runSource(t, `
		set(binary_resolution).
		clear(back_subsume).
		clauses(usable).
		  -p(x) | q(x).
		end_of_list.
		clauses(sos).
		  q(x).
		  p(a).
		end_of_list.
	`)
	// The resolvent q(a) is subsumed by the kept q(x).
	assert.Equal(t, ExitSosEmpty, res.ExitCode)
	assert.Greater(t, res.Stats.ForwardSubsumed, 0)
}

func TestBackSubsumptionDisables(t *testing.T) {
	st, _ := runSource(t, `
		set(binary_resolution).
		clauses(usable).
		  -p(x) | q(y).
		end_of_list.
		clauses(sos).
		  q(a).
		  p(a).
		end_of_list.
	`)
	// Resolving p(a) yields the general unit q(y), which back subsumes the
	// previously kept q(a).
	assert.Greater(t, st.Statistics().BackSubsumed, 0)
	assert.Greater(t, st.Disabled.Len(), 0)
}

func TestLoopInvariants(t *testing.T) {
	st, _ := runSource(t, `
		set(binary_resolution).
		assign(max_given, 5).
		clauses(usable).
		  -p(x) | p(f(x, x)).
		  -p(x) | q(x).
		end_of_list.
		clauses(sos).
		  p(a).
		end_of_list.
	`)

	// Ids are unique and below the next-id counter.
	seen := map[int]bool{}
	for _, c := range append(append(st.Usable.Clauses(), st.Sos.Clauses()...), st.Disabled.Clauses()...) {
		if c.ID == 0 {
			continue
		}
		assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
		seen[c.ID] = true
		assert.Less(t, c.ID, st.NextID())
	}

	// Limbo is drained between iterations.
	assert.Zero(t, st.Limbo.Len())

	// Maximal-literal marks really are maximal.
	for _, c := range st.Usable.Clauses() {
		assert.True(t, maximalLiteralsOK(c), "clause %d: %s", c.ID, c)
	}
}
