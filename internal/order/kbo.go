package order

import (
	"osprey/internal/term"
)

// Variables weigh 1 under KBO. Symbol weights come from the symbol table and
// must be non-negative, with at most one zero-weight unary symbol, which must
// be maximal in the precedence; CheckKBWeights enforces this at setup.
const kboVarWeight = 1

// kboWeight is the weighted symbol count of a term.
func kboWeight(t *term.Term) int {
	if t.IsVar() {
		return kboVarWeight
	}
	w := term.Sym(t.SymNum()).KBWeight
	for _, a := range t.Args {
		w += kboWeight(a)
	}
	return w
}

// varCountsDominate reports that every variable occurs in s at least as often
// as in t, the KBO variable condition for s > t.
func varCountsDominate(s, t *term.Term) bool {
	sc := s.VarCounts()
	for v, n := range t.VarCounts() {
		if sc[v] < n {
			return false
		}
	}
	return true
}

func kboCompare(s, t *term.Term) Relation {
	if s.Equal(t) {
		return Equal
	}
	if kboGreater(s, t) {
		return Greater
	}
	if kboGreater(t, s) {
		return Less
	}
	return NotComparable
}

func kboGreater(s, t *term.Term) bool {
	if s.IsVar() {
		return false
	}
	if t.IsVar() {
		return s.Occurs(t.VarNum())
	}
	if !varCountsDominate(s, t) {
		return false
	}
	ws, wt := kboWeight(s), kboWeight(t)
	switch {
	case ws > wt:
		return true
	case ws < wt:
		return false
	}

	f, g := s.SymNum(), t.SymNum()
	switch {
	case precGreater(f, g):
		return true
	case f != g:
		return false
	default:
		// Equal weights, same head: first lexicographic difference decides.
		for i := range s.Args {
			if s.Args[i].Equal(t.Args[i]) {
				continue
			}
			return kboGreater(s.Args[i], t.Args[i])
		}
		return false
	}
}

// CheckKBWeights validates the weight assignment: non-negative everywhere and
// at most one zero-weight unary function symbol, which must be greatest in
// the precedence. Returns the offending symbol name, or "".
func CheckKBWeights() string {
	zeroUnary := -1
	bad := ""
	term.Symbols(func(s *term.Symbol) {
		if bad != "" {
			return
		}
		if s.KBWeight < 0 {
			bad = s.Name
			return
		}
		if s.KBWeight == 0 && s.Arity == 1 {
			if zeroUnary >= 0 {
				bad = s.Name
				return
			}
			zeroUnary = s.Num
		}
	})
	if bad != "" {
		return bad
	}
	if zeroUnary >= 0 {
		z := term.Sym(zeroUnary)
		term.Symbols(func(s *term.Symbol) {
			if bad == "" && s.Kind == term.Function && s.Num != z.Num && s.Precedence > z.Precedence {
				bad = z.Name
			}
		})
	}
	return bad
}

// LexGreaterVarsAsConsts is the lex-dep heuristic comparison: variables are
// treated as constants below every real symbol, so some equations that the
// strict ordering leaves unoriented (for example f(x,y) = f(y,x) does not
// qualify, but f(x,g(y)) vs f(x,y) does) can still drive rewriting. The
// right side's variables must all occur on the left.
func LexGreaterVarsAsConsts(l, r *term.Term) bool {
	if !term.VarsSubset(r, l) {
		return false
	}
	return lexVarsAsConsts(l, r) == Greater
}

func lexVarsAsConsts(l, r *term.Term) Relation {
	switch {
	case l.IsVar() && r.IsVar():
		switch {
		case l.VarNum() == r.VarNum():
			return Equal
		case l.VarNum() > r.VarNum():
			return Greater
		default:
			return Less
		}
	case l.IsVar():
		return Less
	case r.IsVar():
		return Greater
	}
	lp, rp := term.Sym(l.SymNum()).Precedence, term.Sym(r.SymNum()).Precedence
	switch {
	case lp > rp:
		return Greater
	case lp < rp:
		return Less
	}
	for i := range l.Args {
		if rel := lexVarsAsConsts(l.Args[i], r.Args[i]); rel != Equal {
			return rel
		}
	}
	return Equal
}
