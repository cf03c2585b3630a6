package unify

import (
	"osprey/internal/term"
)

// Unify attempts to unify s under cs with t under ct, extending *tr with
// every binding it makes. On failure the contexts are left as they were
// found only if the caller undoes *tr; Unify itself does not undo, matching
// the trail contract: callers must Undo on any failure path.
func Unify(s *term.Term, cs *Context, t *term.Term, ct *Context, tr **Trail) bool {
	s, cs = Deref(s, cs)
	t, ct = Deref(t, ct)

	switch {
	case s.IsVar() && t.IsVar():
		if s.VarNum() == t.VarNum() && cs == ct {
			return true
		}
		*tr = push(*tr, cs, s.VarNum(), t, ct)
		return true
	case s.IsVar():
		if occursIn(s.VarNum(), cs, t, ct) {
			return false
		}
		*tr = push(*tr, cs, s.VarNum(), t, ct)
		return true
	case t.IsVar():
		if occursIn(t.VarNum(), ct, s, cs) {
			return false
		}
		*tr = push(*tr, ct, t.VarNum(), s, cs)
		return true
	case s.SymNum() != t.SymNum():
		return false
	default:
		for i := range s.Args {
			if !Unify(s.Args[i], cs, t.Args[i], ct, tr) {
				return false
			}
		}
		return true
	}
}

// occursIn reports whether variable v of context vc occurs in t under ct,
// chasing bindings.
func occursIn(v int, vc *Context, t *term.Term, ct *Context) bool {
	t, ct = Deref(t, ct)
	if t.IsVar() {
		return t.VarNum() == v && ct == vc
	}
	for _, a := range t.Args {
		if occursIn(v, vc, a, ct) {
			return true
		}
	}
	return false
}

// Match attempts a one-sided match: variables are bound only in the pattern's
// context, and the subject is treated as ground with respect to the matcher.
// The trail contract is the same as Unify's.
func Match(pat *term.Term, cpat *Context, subject *term.Term, tr **Trail) bool {
	if pat.IsVar() {
		if bt, _ := cpat.Binding(pat.VarNum()); bt != nil {
			return bt.Equal(subject)
		}
		*tr = push(*tr, cpat, pat.VarNum(), subject, nil)
		return true
	}
	if subject.IsVar() || pat.SymNum() != subject.SymNum() {
		return false
	}
	for i := range pat.Args {
		if !Match(pat.Args[i], cpat, subject.Args[i], tr) {
			return false
		}
	}
	return true
}

// MatchApply instantiates a pattern whose variables were bound by Match.
// Unbound pattern variables are kept as-is, which preserves the matched
// subject's groundness assumptions.
func MatchApply(pat *term.Term, cpat *Context) *term.Term {
	if pat.IsVar() {
		if bt, _ := cpat.Binding(pat.VarNum()); bt != nil {
			return bt
		}
		return term.Var(pat.VarNum())
	}
	args := make([]*term.Term, len(pat.Args))
	for i, a := range pat.Args {
		args[i] = MatchApply(a, cpat)
	}
	return term.App(pat.SymNum(), args...)
}

// Identical reports whether s under cs and t under ct are the same term once
// bindings are chased. It makes no new bindings.
func Identical(s *term.Term, cs *Context, t *term.Term, ct *Context) bool {
	s, cs = Deref(s, cs)
	t, ct = Deref(t, ct)
	if s.IsVar() || t.IsVar() {
		return s.IsVar() && t.IsVar() && s.VarNum() == t.VarNum() && cs == ct
	}
	if s.SymNum() != t.SymNum() {
		return false
	}
	for i := range s.Args {
		if !Identical(s.Args[i], cs, t.Args[i], ct) {
			return false
		}
	}
	return true
}
