package unify

import (
	"osprey/internal/term"
)

// Backtracking unification. When any symbol carries a commutative or AC
// theory there can be several incomparable unifiers; callers iterate over
// them with BtFirst/BtNext and release the state with Cancel. Each successful
// step leaves the solution's bindings applied in the two contexts; BtNext and
// Cancel undo them before moving on.
//
// Commutative symbols are handled completely (both argument pairings). For
// AC symbols both sides are flattened and the argument multisets are paired
// by backtracking; pairings that would need variable splitting are not
// generated. See DESIGN.md for the recorded decision.

// hasTheoryTerm reports whether the term mentions a symbol that carries a
// unification theory.
func hasTheoryTerm(t *term.Term) bool {
	if t.IsVar() {
		return false
	}
	if term.Sym(t.SymNum()).Theory != term.EmptyTheory {
		return true
	}
	for _, a := range t.Args {
		if hasTheoryTerm(a) {
			return true
		}
	}
	return false
}

// needsBt gates the backtracking path: it is only worth entering when some
// interned symbol has a theory at all, and then only when one of the two
// terms actually mentions such a symbol.
func needsBt(s, t *term.Term) bool {
	if !term.HasTheorySymbols() {
		return false
	}
	return hasTheoryTerm(s) || hasTheoryTerm(t)
}

// ForEachUnifier calls f once per unifier of the pair, with that solution's
// bindings applied; f returns false to stop early. Plain syntactic pairs
// take the single-unifier fast path. All bindings are undone before
// returning. The return value is false when f stopped the enumeration.
func ForEachUnifier(s *term.Term, cs *Context, t *term.Term, ct *Context, f func() bool) bool {
	if !needsBt(s, t) {
		var tr *Trail
		cont := true
		if Unify(s, cs, t, ct, &tr) {
			cont = f()
		}
		Undo(tr)
		return cont
	}
	st := BtFirst(s, cs, t, ct)
	if st == nil {
		return true
	}
	for {
		if !f() {
			st.Cancel()
			return false
		}
		if !st.BtNext() {
			return true
		}
	}
}

// ForEachMatch is the one-sided counterpart: it enumerates the ways the
// pattern matches the subject, honoring commutative and AC argument
// reorderings. Pattern variables bind in cpat; the subject is ground with
// respect to the matcher.
func ForEachMatch(pat *term.Term, cpat *Context, subject *term.Term, f func() bool) bool {
	if !needsBt(pat, subject) {
		var tr *Trail
		cont := true
		if Match(pat, cpat, subject, &tr) {
			cont = f()
		}
		Undo(tr)
		return cont
	}
	cont := true
	enumerateMatchList([]mpair{{pat, subject}}, cpat, nil, func(*Trail) {
		if cont {
			cont = f()
		}
	})
	return cont
}

// BtState iterates over the unifiers of one term pair.
type BtState struct {
	solutions []solution
	pos       int
	tr        *Trail
}

// A solution is a consistent set of bindings discovered by the enumeration.
type solution []solBinding

type solBinding struct {
	c  *Context
	v  int
	t  *term.Term
	tc *Context
}

// BtFirst starts a backtracking unification. It returns nil if the terms have
// no unifier; otherwise the first solution's bindings are in place.
func BtFirst(s *term.Term, cs *Context, t *term.Term, ct *Context) *BtState {
	st := &BtState{}
	enumerateList([]pair{{s, cs, t, ct}}, nil, func(tr *Trail) {
		st.solutions = append(st.solutions, snapshot(tr))
	})
	if len(st.solutions) == 0 {
		return nil
	}
	st.apply(0)
	return st
}

// BtNext undoes the current solution and applies the next one. It reports
// whether another solution existed.
func (st *BtState) BtNext() bool {
	st.tr = Undo(st.tr)
	st.pos++
	if st.pos >= len(st.solutions) {
		return false
	}
	st.apply(st.pos)
	return true
}

// Cancel undoes any applied bindings and releases the state.
func (st *BtState) Cancel() {
	st.tr = Undo(st.tr)
	st.solutions = nil
}

func (st *BtState) apply(i int) {
	for _, b := range st.solutions[i] {
		st.tr = push(st.tr, b.c, b.v, b.t, b.tc)
	}
}

// snapshot records the bindings currently on the trail, oldest first, so they
// can be replayed later.
func snapshot(tr *Trail) solution {
	var sol solution
	for ; tr != nil; tr = tr.prev {
		bt, bc := tr.c.Binding(tr.v)
		sol = append(solution{solBinding{c: tr.c, v: tr.v, t: bt, tc: bc}}, sol...)
	}
	return sol
}

type pair struct {
	s  *term.Term
	cs *Context
	t  *term.Term
	ct *Context
}

// enumerateList solves a conjunction of pairs left to right, backtracking
// through the alternatives each pair offers. It calls found once per complete
// solution with the trail at that point, and undoes its own bindings before
// returning.
func enumerateList(pairs []pair, tr *Trail, found func(*Trail)) {
	if len(pairs) == 0 {
		found(tr)
		return
	}
	p, rest := pairs[0], pairs[1:]
	s, cs := Deref(p.s, p.cs)
	t, ct := Deref(p.t, p.ct)

	switch {
	case s.IsVar() && t.IsVar() && s.VarNum() == t.VarNum() && cs == ct:
		enumerateList(rest, tr, found)
	case s.IsVar():
		if !occursIn(s.VarNum(), cs, t, ct) {
			tr2 := push(tr, cs, s.VarNum(), t, ct)
			enumerateList(rest, tr2, found)
			UndoTo(tr2, tr)
		}
	case t.IsVar():
		if !occursIn(t.VarNum(), ct, s, cs) {
			tr2 := push(tr, ct, t.VarNum(), s, cs)
			enumerateList(rest, tr2, found)
			UndoTo(tr2, tr)
		}
	case s.SymNum() != t.SymNum():
		return
	case term.IsAC(s.SymNum()):
		sArgs := flatten(s, s.SymNum())
		tArgs := flatten(t, t.SymNum())
		if len(sArgs) != len(tArgs) {
			return
		}
		permutePairings(sArgs, cs, tArgs, ct, rest, tr, found)
	case term.IsCommutative(s.SymNum()):
		// Both argument pairings are alternatives.
		enumerateList(append([]pair{
			{s.Args[0], cs, t.Args[0], ct},
			{s.Args[1], cs, t.Args[1], ct},
		}, rest...), tr, found)
		enumerateList(append([]pair{
			{s.Args[0], cs, t.Args[1], ct},
			{s.Args[1], cs, t.Args[0], ct},
		}, rest...), tr, found)
	default:
		expanded := make([]pair, 0, len(s.Args)+len(rest))
		for i := range s.Args {
			expanded = append(expanded, pair{s.Args[i], cs, t.Args[i], ct})
		}
		enumerateList(append(expanded, rest...), tr, found)
	}
}

// flatten collects the arguments of nested applications of an AC symbol.
func flatten(t *term.Term, sym int) []*term.Term {
	if t.IsVar() || t.SymNum() != sym {
		return []*term.Term{t}
	}
	var out []*term.Term
	for _, a := range t.Args {
		out = append(out, flatten(a, sym)...)
	}
	return out
}

// mpair is one pattern/subject obligation of a backtracking match.
type mpair struct {
	pat     *term.Term
	subject *term.Term
}

// enumerateMatchList is the one-sided analogue of enumerateList: pattern
// variables bind to subject subterms, and commutative/AC pattern symbols
// offer their argument reorderings as alternatives.
func enumerateMatchList(pairs []mpair, cpat *Context, tr *Trail, found func(*Trail)) {
	if len(pairs) == 0 {
		found(tr)
		return
	}
	p, rest := pairs[0], pairs[1:]
	pat, subject := p.pat, p.subject

	if pat.IsVar() {
		if bt, _ := cpat.Binding(pat.VarNum()); bt != nil {
			if bt.Equal(subject) {
				enumerateMatchList(rest, cpat, tr, found)
			}
			return
		}
		tr2 := push(tr, cpat, pat.VarNum(), subject, nil)
		enumerateMatchList(rest, cpat, tr2, found)
		UndoTo(tr2, tr)
		return
	}
	if subject.IsVar() || pat.SymNum() != subject.SymNum() {
		return
	}
	switch {
	case term.IsAC(pat.SymNum()):
		ps := flatten(pat, pat.SymNum())
		ss := flatten(subject, subject.SymNum())
		if len(ps) != len(ss) {
			return
		}
		permuteMatchPairings(ps, ss, cpat, rest, tr, found)
	case term.IsCommutative(pat.SymNum()):
		enumerateMatchList(append([]mpair{
			{pat.Args[0], subject.Args[0]},
			{pat.Args[1], subject.Args[1]},
		}, rest...), cpat, tr, found)
		enumerateMatchList(append([]mpair{
			{pat.Args[0], subject.Args[1]},
			{pat.Args[1], subject.Args[0]},
		}, rest...), cpat, tr, found)
	default:
		expanded := make([]mpair, 0, len(pat.Args)+len(rest))
		for i := range pat.Args {
			expanded = append(expanded, mpair{pat.Args[i], subject.Args[i]})
		}
		enumerateMatchList(append(expanded, rest...), cpat, tr, found)
	}
}

func permuteMatchPairings(ps, ss []*term.Term, cpat *Context, rest []mpair, tr *Trail, found func(*Trail)) {
	used := make([]bool, len(ss))
	var assign func(i int, acc []mpair)
	assign = func(i int, acc []mpair) {
		if i == len(ps) {
			enumerateMatchList(append(acc[:len(acc):len(acc)], rest...), cpat, tr, found)
			return
		}
		for j := range ss {
			if used[j] {
				continue
			}
			used[j] = true
			assign(i+1, append(acc, mpair{ps[i], ss[j]}))
			used[j] = false
		}
	}
	assign(0, nil)
}

// permutePairings tries every bijection between the two flattened argument
// lists. Redundant unifiers are harmless; missing ones are not.
func permutePairings(ss []*term.Term, cs *Context, ts []*term.Term, ct *Context, rest []pair, tr *Trail, found func(*Trail)) {
	used := make([]bool, len(ts))
	var assign func(i int, acc []pair)
	assign = func(i int, acc []pair) {
		if i == len(ss) {
			enumerateList(append(acc[:len(acc):len(acc)], rest...), tr, found)
			return
		}
		for j := range ts {
			if used[j] {
				continue
			}
			used[j] = true
			assign(i+1, append(acc, pair{ss[i], cs, ts[j], ct}))
			used[j] = false
		}
	}
	assign(0, nil)
}
