package search

import (
	"fmt"

	"osprey/internal/clause"
	"osprey/internal/demod"
	"osprey/internal/subsume"
	"osprey/internal/term"
)

// searchDone unwinds from anywhere in the loop to Search's recover, the
// labelled-exit idiom: statistics are flushed on the way out.
type searchDone struct{ code int }

func (s *State) done(code int) {
	panic(searchDone{code})
}

// Simplify runs the rewriting phase of the pipeline: demodulation to normal
// form, equality orientation, trivial-literal removal, duplicate merging,
// and optional unit deletion.
func (s *State) Simplify(c *clause.Clause) {
	if s.demodIx.Size() > 0 {
		lim := demod.Limits{
			StepLimit: s.Opts.Parm("demod_step_limit"),
			SizeLimit: s.Opts.Parm("demod_increase_limit"),
		}
		if s.demodIx.RewriteClause(c, lim) {
			s.stats.Rewrites++
		}
	}
	c.OrientEqualities()
	s.simplifyLiterals(c)
	if s.Opts.Flag("unit_deletion") {
		if subsume.UnitDelete(s.unitsMatch, c) {
			s.stats.UnitDeletions++
		}
	}
	c.NormalizeVars()
}

// simplifyLiterals drops the trivially false literals, t != t (an xx step)
// and $F, and merges duplicate literals.
func (s *State) simplifyLiterals(c *clause.Clause) {
	kept := c.Literals[:0:0]
	for i, l := range c.Literals {
		if l.IsFalse() {
			continue
		}
		if !l.Sign && l.IsEq() {
			alpha, beta := l.EqSides()
			if alpha.Equal(beta) {
				c.Just = append(c.Just, clause.Step{Kind: clause.XXStep, Data: []int{i}})
				continue
			}
		}
		dup := false
		for _, k := range kept {
			if k.Equal(l) {
				dup = true
				break
			}
		}
		if dup {
			c.Just = append(c.Just, clause.Step{Kind: clause.MergeStep, Data: []int{i}})
			continue
		}
		kept = append(kept, l)
	}
	c.Literals = kept
}

// tautology reports a clause containing t = t or a complementary literal
// pair.
func tautology(c *clause.Clause) bool {
	for i, l := range c.Literals {
		if l.Sign && l.IsEq() {
			alpha, beta := l.EqSides()
			if alpha.Equal(beta) {
				return true
			}
		}
		if l.IsTrue() {
			return true
		}
		for _, m := range c.Literals[i+1:] {
			if l.Sign != m.Sign && l.Atom.Equal(m.Atom) {
				return true
			}
		}
	}
	return false
}

// deleteCheck applies the black rules: resource-style per-clause limits and
// user delete_rules, unless a keep rule protects the clause.
func (s *State) deleteCheck(c *clause.Clause) bool {
	for _, k := range s.keepRules {
		if subsume.Subsumes(k, c) {
			return false
		}
	}
	if c.Weight > s.Opts.Float("max_weight") {
		return true
	}
	if max := s.Opts.Parm("max_literals"); max >= 0 && len(c.Literals) > max {
		return true
	}
	if max := s.Opts.Parm("max_depth"); max >= 0 && c.Depth() > max {
		return true
	}
	if max := s.Opts.Parm("max_vars"); max >= 0 && len(c.Vars()) > max {
		return true
	}
	for _, d := range s.deleteRules {
		if subsume.Subsumes(d, c) {
			return true
		}
	}
	return false
}

// forwardSubsumed returns a retained clause subsuming c, or nil.
func (s *State) forwardSubsumed(c *clause.Clause) *clause.Clause {
	if u := subsume.UnitSubsumer(s.unitsMatch, c); u != nil {
		return u
	}
	if s.nonunit != nil {
		if d := s.nonunit.FirstSubsumer(c); d != nil {
			return d
		}
	}
	return nil
}

// ClProcess is the per-clause pipeline every inferred or input clause runs
// through: simplify, delete checks, weigh, keep. Kept clauses queue in
// Limbo for back-simplification.
func (s *State) ClProcess(c *clause.Clause, input bool) {
	s.stats.Generated++
	s.pollResources()

	c.NormalizeVars()
	s.Simplify(c)

	if c.IsEmpty() {
		s.assignID(c)
		s.handleEmpty(c)
		return
	}

	safeConflict := s.Opts.Flag("safe_unit_conflict")
	if safeConflict && c.IsUnit() {
		if other := subsume.UnitConflictPartner(s.units, c); other != nil {
			s.Weigh(c)
			s.keep(c)
			s.emitUnitConflict(c, other)
			return
		}
	}

	if tautology(c) {
		s.stats.Tautologies++
		return
	}

	s.Weigh(c)

	if !input {
		if s.deleteCheck(c) {
			s.stats.DeletedByRule++
			return
		}
		if !s.sosKeep(c) {
			s.stats.SosLimitDeleted++
			return
		}
	}

	if sub := s.forwardSubsumed(c); sub != nil {
		sub.Subsumer = true
		s.stats.ForwardSubsumed++
		return
	}

	s.keep(c)

	if !safeConflict && c.IsUnit() {
		if other := subsume.UnitConflictPartner(s.units, c); other != nil {
			s.emitUnitConflict(c, other)
		}
	}
}

// keep admits the clause: id, literal marks, semantics, limbo.
func (s *State) keep(c *clause.Clause) {
	c.OrientEqualities()
	c.MarkMaximalLiterals()
	s.assignID(c)

	if s.interp != nil {
		c.Semantics = s.interp.EvalClause(c, s.Opts.Parm("eval_limit"))
	} else {
		c.Semantics = clause.SemTrue
	}

	s.stats.Kept++
	s.noteHintMatched(c)
	s.Limbo.Append(c)
	s.limboQueue = append(s.limboQueue, c)

	if s.Opts.Flag("print_kept") && !s.Opts.Flag("quiet") {
		fmt.Fprintf(s.Out, "kept: %d %s %s [%0.2f]\n", c.ID, c, c.Just, c.Weight)
	}

	if c.Attrs.Action != "" {
		s.runAttrAction(c.Attrs.Action)
	}
	s.fireCountActions(triggerKept, s.stats.Kept)
}

// emitUnitConflict builds the empty clause for a unit conflict and routes it
// through empty-clause handling.
func (s *State) emitUnitConflict(c, other *clause.Clause) {
	s.stats.UnitConflicts++
	empty := clause.New()
	empty.Just = clause.Just{{
		Kind: clause.BinaryResStep,
		Data: []int{c.ID, 0, other.ID, 0},
	}}
	s.assignID(empty)
	s.handleEmpty(empty)
}

// maximalLiteralsOK is the loop invariant check that every maximal-marked
// literal really dominates its clause.
func maximalLiteralsOK(c *clause.Clause) bool {
	check := c.Copy()
	check.Literals = nil
	for _, l := range c.Literals {
		check.Literals = append(check.Literals, &clause.Literal{Sign: l.Sign, Atom: l.Atom.Copy()})
	}
	check.MarkMaximalLiterals()
	for i, l := range c.Literals {
		if l.Atom.HasFlag(term.FlagMaximal) != check.Literals[i].Atom.HasFlag(term.FlagMaximal) {
			return false
		}
	}
	return true
}
