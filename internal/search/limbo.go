package search

import (
	"osprey/internal/clause"
	"osprey/internal/demod"
	"osprey/internal/index"
	"osprey/internal/infer"
	"osprey/internal/subsume"
	"osprey/internal/term"
	"osprey/internal/unify"
)

// instanceMode shortens the retrievals below.
const instanceMode = index.InstanceMode

// DrainLimbo back-simplifies every freshly kept clause and settles it into
// SOS (or Usable for a restricted denial). Back-demodulation and
// back-unit-deletion may requeue rewritten copies, so the queue is drained
// to exhaustion before the loop continues.
func (s *State) DrainLimbo() {
	for len(s.limboQueue) > 0 {
		c := s.limboQueue[0]
		s.limboQueue = s.limboQueue[1:]

		if s.Opts.Flag("back_subsume") {
			s.backSubsume(c)
		}

		s.considerDemodulator(c)

		if c.IsUnit() && s.Opts.Flag("unit_deletion") {
			s.backUnitDelete(c)
		}

		if s.Opts.Flag("cac_redundancy") {
			s.noteCacEquation(c)
		}

		// Settle. A restricted denial stays out of SOS so it only ever
		// participates passively.
		s.Limbo.Remove(c)
		if s.Opts.Flag("restrict_denials") && c.IsNegative() && !c.IsEmpty() {
			s.Usable.Append(c)
			s.indexForInference(c)
			s.indexForSimplification(c)
		} else {
			s.Sos.Append(c)
			s.indexForSimplification(c)
			s.selectors.Insert(s, c)
			if lim := s.Opts.Parm("sos_limit"); lim >= 0 && s.Sos.Len() > lim {
				s.sosDisplace()
			}
		}
	}
}

// backSubsume disables every retained clause the new one subsumes.
func (s *State) backSubsume(c *clause.Clause) {
	var victims []*clause.Clause

	// Unit subsumer: retained instances of the unit's literal.
	if c.IsUnit() {
		l := c.Literals[0]
		seen := make(map[*clause.Clause]bool)
		for _, e := range s.units.Tree(l.Sign).Retrieve(l.Atom, instanceMode) {
			d := e.Data.(*clause.Clause)
			if d != c && !seen[d] && subsume.Subsumes(c, d) {
				seen[d] = true
				victims = append(victims, d)
			}
		}
		for _, e := range s.clash.Tree(l.Sign).Retrieve(l.Atom, instanceMode) {
			d := e.Data.(infer.LitRef).C
			if d != c && !seen[d] && subsume.Subsumes(c, d) {
				seen[d] = true
				victims = append(victims, d)
			}
		}
		if s.nonunit != nil {
			s.nonunit.Subsumees(c, func(d *clause.Clause) {
				if !seen[d] {
					seen[d] = true
					victims = append(victims, d)
				}
			})
		}
	} else if s.nonunit != nil {
		s.nonunit.Subsumees(c, func(d *clause.Clause) {
			victims = append(victims, d)
		})
	}

	// Limbo clauses are unstable and are never indexed, so a victim in
	// Limbo is a programming error; Disable enforces that fatally.
	for _, d := range victims {
		c.Subsumer = true
		s.stats.BackSubsumed++
		s.Disable(d)
	}
}

// considerDemodulator classifies a new unit equality and, if it qualifies,
// adds it to the rewrite index and back-demodulates the retained set.
func (s *State) considerDemodulator(c *clause.Clause) {
	class := demod.Classify(c, s.Opts.Flag("lex_dep_demod"))
	if class == demod.NotDemodulator {
		return
	}
	if class != demod.Oriented {
		if lim := s.Opts.Parm("lex_dep_demod_lim"); lim >= 0 && c.SymbolCount() > lim {
			return
		}
	}
	d := &demod.Demodulator{C: c, Class: class}
	s.Demods.Append(c)
	s.demodIx.Insert(d)
	s.stats.NewDemodulators++

	if s.Opts.Flag("back_demod") {
		s.backDemodulate(d)
	}
}

// backDemodulate rewrites every retained clause the new demodulator
// touches: the original is disabled and a copy re-enters the pipeline.
func (s *State) backDemodulate(d *demod.Demodulator) {
	for _, data := range demod.BackDemodCandidates(s.backIx, d) {
		ref := data.(infer.IntoRef)
		victim := ref.C
		if victim == d.C || s.Disabled.Member(victim) || s.Limbo.Member(victim) {
			continue
		}
		copyC := victim.Copy()
		copyC.Just = clause.Just{{Kind: clause.BackDemodStep, Data: []int{victim.ID}}}
		s.stats.BackDemodulated++
		s.Disable(victim)
		s.ClProcess(copyC, false)
	}
}

// backUnitDelete rewrites retained clauses that contain an instance of the
// new unit's negation.
func (s *State) backUnitDelete(c *clause.Clause) {
	l := c.Literals[0]
	atoms := []*term.Term{l.Atom}
	if l.IsEq() {
		atoms = append(atoms, l.Flip().Atom)
	}
	seen := make(map[*clause.Clause]bool)
	for _, atom := range atoms {
		for _, e := range s.clash.Tree(!l.Sign).Retrieve(atom, instanceMode) {
			victim := e.Data.(infer.LitRef).C
			if victim == c || seen[victim] || s.Limbo.Member(victim) || s.Disabled.Member(victim) {
				continue
			}
			if !matchesSomewhere(atom, e.T) {
				continue
			}
			seen[victim] = true
			copyC := victim.Copy()
			copyC.Just = clause.Just{{Kind: clause.BackUnitDelStep, Data: []int{victim.ID}}}
			s.stats.BackUnitDeletions++
			s.Disable(victim)
			s.ClProcess(copyC, false)
		}
	}
}

// matchesSomewhere verifies the candidate: the unit atom must generalize the
// retained literal's atom.
func matchesSomewhere(pat, subject *term.Term) bool {
	ctx := unify.NewContext()
	ok := false
	unify.ForEachMatch(pat, ctx, subject, func() bool {
		ok = true
		return false
	})
	return ok
}

// noteCacEquation watches for commutativity and associativity units and
// upgrades the symbol's unification theory, which both enables the
// backtracking unifier and lets the C/AC merge drop redundant clauses.
func (s *State) noteCacEquation(c *clause.Clause) {
	if !c.IsUnit() || !c.Literals[0].IsPosEq() {
		return
	}
	alpha, beta := c.Literals[0].EqSides()
	if sym, ok := commutativityShape(alpha, beta); ok {
		if term.Sym(sym).Theory == term.EmptyTheory {
			term.SetTheory(sym, term.Commutative)
		}
		s.stats.CacEquations++
	}
	if sym, ok := associativityShape(alpha, beta); ok && term.IsCommutative(sym) {
		term.SetTheory(sym, term.AssocCommutative)
		s.stats.CacEquations++
	}
}

// commutativityShape recognizes f(x,y) = f(y,x).
func commutativityShape(alpha, beta *term.Term) (int, bool) {
	if alpha.IsVar() || beta.IsVar() || alpha.SymNum() != beta.SymNum() || len(alpha.Args) != 2 {
		return 0, false
	}
	a0, a1 := alpha.Args[0], alpha.Args[1]
	b0, b1 := beta.Args[0], beta.Args[1]
	if a0.IsVar() && a1.IsVar() && b0.IsVar() && b1.IsVar() &&
		a0.VarNum() != a1.VarNum() &&
		a0.VarNum() == b1.VarNum() && a1.VarNum() == b0.VarNum() {
		return alpha.SymNum(), true
	}
	return 0, false
}

// associativityShape recognizes f(f(x,y),z) = f(x,f(y,z)) in either order.
func associativityShape(alpha, beta *term.Term) (int, bool) {
	if assocLR(alpha, beta) {
		return alpha.SymNum(), true
	}
	if assocLR(beta, alpha) {
		return beta.SymNum(), true
	}
	return 0, false
}

func assocLR(l, r *term.Term) bool {
	if l.IsVar() || r.IsVar() || l.SymNum() != r.SymNum() || len(l.Args) != 2 {
		return false
	}
	f := l.SymNum()
	ll := l.Args[0]
	if ll.IsVar() || ll.SymNum() != f || r.Args[1].IsVar() || r.Args[1].SymNum() != f {
		return false
	}
	x, y, z := ll.Args[0], ll.Args[1], l.Args[1]
	x2, yz := r.Args[0], r.Args[1]
	return x.IsVar() && y.IsVar() && z.IsVar() && x2.IsVar() &&
		yz.Args[0].IsVar() && yz.Args[1].IsVar() &&
		x.VarNum() == x2.VarNum() &&
		y.VarNum() == yz.Args[0].VarNum() &&
		z.VarNum() == yz.Args[1].VarNum()
}
