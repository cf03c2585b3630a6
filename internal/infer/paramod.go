package infer

import (
	"osprey/internal/clause"
	"osprey/internal/index"
	"osprey/internal/order"
	"osprey/internal/term"
	"osprey/internal/unify"
)

// FromRef locates a usable equality side for paramodulating from: the
// clause, the literal index, and whether the indexed side is the right one.
type FromRef struct {
	C   *clause.Clause
	Idx int
	RL  bool
}

// IntoRef locates a non-variable subterm position paramodulation may
// rewrite into.
type IntoRef struct {
	C   *clause.Clause
	Idx int
	Pos []int
}

// Paramodulation runs both directions for the given clause: from its
// positive equalities into indexed subterm positions, and from indexed
// equality sides into its own subterms.
func Paramodulation(given *clause.Clause, from *index.FPA, into *index.FPA, cfg Config, emit Emit) {
	if cfg.ParaLitLimit > 0 && len(given.Literals) > cfg.ParaLitLimit {
		return
	}
	paramodFromGiven(given, into, cfg, emit)
	paramodIntoGiven(given, from, cfg, emit)
}

// fromSides yields the usable (lhs, rhs) orientations of an equality
// literal under the ordering restrictions.
func fromSides(l *clause.Literal, cfg Config) [][2]*term.Term {
	alpha, beta := l.EqSides()
	var out [][2]*term.Term
	oriented := l.Atom.HasFlag(term.FlagOriented)
	add := func(lhs, rhs *term.Term) {
		if lhs.IsVar() && !cfg.ParaFromVars {
			return
		}
		out = append(out, [2]*term.Term{lhs, rhs})
	}
	switch {
	case !cfg.OrderedPara:
		add(alpha, beta)
		add(beta, alpha)
	case oriented:
		add(alpha, beta)
		if cfg.ParaFromSmall {
			add(beta, alpha)
		}
	default:
		// Unoriented: both sides, with a per-unifier ordering check later.
		add(alpha, beta)
		add(beta, alpha)
	}
	return out
}

// orderedOK rejects a unifier under which the replaced side is smaller than
// the replacement, which ordered paramodulation forbids.
func orderedOK(lhs, rhs *term.Term, c *unify.Context, cfg Config, oriented bool) bool {
	if !cfg.OrderedPara || oriented {
		return true
	}
	return order.Compare(unify.Apply(rhs, c), unify.Apply(lhs, c)) != order.Greater
}

func paramodFromGiven(given *clause.Clause, into *index.FPA, cfg Config, emit Emit) {
	for li, l := range given.Literals {
		if !l.IsPosEq() {
			continue
		}
		oriented := l.Atom.HasFlag(term.FlagOriented)
		for _, sides := range fromSides(l, cfg) {
			lhs, rhs := sides[0], sides[1]
			for _, e := range into.Retrieve(lhs, index.UnifyMode) {
				ref := e.Data.(IntoRef)
				if ref.C == given {
					continue
				}
				if cfg.ParaLitLimit > 0 && len(ref.C.Literals) > cfg.ParaLitLimit {
					continue
				}
				cg, ci := unify.NewContext(), unify.NewContext()
				unify.ForEachUnifier(lhs, cg, e.T, ci, func() bool {
					if orderedOK(lhs, rhs, cg, cfg, oriented) {
						emit(buildParamodulant(given, li, lhs, rhs, cg, ref, ci))
					}
					return true
				})
			}
		}
	}
}

func paramodIntoGiven(given *clause.Clause, from *index.FPA, cfg Config, emit Emit) {
	for li, l := range given.Literals {
		l.Atom.Walk(func(sub *term.Term, pos []int) bool {
			if len(pos) == 0 && l.IsEq() {
				return true // the equality atom itself is not an into position
			}
			if sub.IsVar() && !cfg.ParaIntoVars {
				return true
			}
			if len(pos) > 0 && cfg.ParaBasic && sub.HasFlag(term.FlagNonbasic) {
				return true
			}
			if len(pos) == 0 {
				return true // whole-atom replacement is resolution's job
			}
			intoPos := append([]int(nil), pos...)
			for _, e := range from.Retrieve(sub, index.UnifyMode) {
				ref := e.Data.(FromRef)
				if ref.C == given {
					continue
				}
				if cfg.ParaLitLimit > 0 && len(ref.C.Literals) > cfg.ParaLitLimit {
					continue
				}
				fl := ref.C.Literals[ref.Idx]
				alpha, beta := fl.EqSides()
				lhs, rhs := alpha, beta
				if ref.RL {
					lhs, rhs = beta, alpha
				}
				if lhs.IsVar() && !cfg.ParaFromVars {
					continue
				}
				oriented := fl.Atom.HasFlag(term.FlagOriented)
				cf, cg := unify.NewContext(), unify.NewContext()
				unify.ForEachUnifier(lhs, cf, sub, cg, func() bool {
					if orderedOK(lhs, rhs, cf, cfg, oriented) {
						emit(buildParamodulant(ref.C, ref.Idx, lhs, rhs, cf, IntoRef{C: given, Idx: li, Pos: intoPos}, cg))
					}
					return true
				})
			}
			return true
		})
	}
}

// buildParamodulant assembles the conclusion: the into clause with the
// subterm replaced by the instantiated right side, plus the from clause's
// remaining literals. The inserted replacement is marked nonbasic for the
// basic restriction.
func buildParamodulant(fromC *clause.Clause, fromLit int, lhs, rhs *term.Term, cf *unify.Context, into IntoRef, ci *unify.Context) *clause.Clause {
	res := clause.New()
	for i, l := range into.C.Literals {
		var atom *term.Term
		if i == into.Idx {
			atom = unify.ApplySubstitute(l.Atom, ci, into.Pos, rhs, cf)
			atom.At(into.Pos).SetFlag(term.FlagNonbasic)
		} else {
			atom = unify.Apply(l.Atom, ci)
		}
		res.Literals = append(res.Literals, &clause.Literal{Sign: l.Sign, Atom: atom})
	}
	res.Literals = append(res.Literals, applyLiterals(fromC, cf, fromLit)...)

	data := []int{fromC.ID, fromLit, into.C.ID, into.Idx, len(into.Pos)}
	data = append(data, into.Pos...)
	res.Just = clause.Just{{Kind: clause.ParaStep, Data: data}}
	return res
}
