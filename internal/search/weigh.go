package search

import (
	"osprey/internal/clause"
	"osprey/internal/term"
)

// Weighing: the default weight of a clause is its symbol count, shaped by
// the weighing parms and per-symbol overrides, plus the hint bonus.

func (s *State) weighTerm(t *term.Term) float64 {
	if t.IsVar() {
		return s.Opts.Float("variable_weight")
	}
	var w float64
	sym := term.Sym(t.SymNum())
	if ov, ok := s.In.WeightOverrides[t.SymNum()]; ok {
		w = ov
	} else if t.IsConst() {
		switch {
		case sym.Skolem:
			w = s.Opts.Float("sk_constant_weight")
		case sym.Kind == term.Predicate:
			w = s.Opts.Float("prop_atom_weight")
		default:
			w = s.Opts.Float("constant_weight")
		}
	} else {
		w = 1
	}
	for _, a := range t.Args {
		w += s.weighTerm(a)
	}
	return w
}

// nestCount counts immediate self-nestings: an argument headed by the same
// symbol as its parent. Deeply right- or left-nested terms accumulate one
// count per nested level.
func nestCount(t *term.Term) int {
	if t.IsVar() {
		return 0
	}
	n := 0
	for _, a := range t.Args {
		if !a.IsVar() && a.SymNum() == t.SymNum() {
			n++
		}
		n += nestCount(a)
	}
	return n
}

// Weigh computes and stores the clause weight, applying the hint adjustment
// when the clause matches a hint.
func (s *State) Weigh(c *clause.Clause) {
	w := 0.0
	nests := 0
	for _, l := range c.Literals {
		if !l.Sign {
			w += s.Opts.Float("not_weight")
		}
		w += s.weighTerm(l.Atom)
		nests += nestCount(l.Atom)
	}
	if n := len(c.Literals); n > 1 {
		w += s.Opts.Float("or_weight") * float64(n-1)
	}
	w += s.Opts.Float("nest_penalty") * float64(nests)
	w += s.Opts.Float("depth_penalty") * float64(c.Depth())
	w += s.Opts.Float("var_penalty") * float64(len(c.Vars()))
	c.Weight = w

	if hint := s.matchHint(c); hint != nil {
		c.MatchesHint = true
		c.HintMatch = hint
		hw := c.Weight
		if hint.Attrs.BsubHintWt != clause.NoHintWt {
			hw = float64(hint.Attrs.BsubHintWt)
		}
		if s.Opts.Flag("degrade_hints") {
			// Repeated matchers of the same hint degrade so one hint does
			// not flood the search.
			hw += float64(s.hintDegrade[hint]) * 1000
		}
		c.Weight = hw
	}
}
