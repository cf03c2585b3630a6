package order

import (
	"osprey/internal/term"
)

// lpoCompare relates s and t under LPO, or RPO when rpo is set and symbols
// carry multiset status.
func lpoCompare(s, t *term.Term, rpo bool) Relation {
	switch {
	case s.Equal(t):
		return Equal
	case lpoGreater(s, t, rpo):
		return Greater
	case lpoGreater(t, s, rpo):
		return Less
	default:
		return NotComparable
	}
}

// lpoGreater reports s > t under LPO/RPO.
func lpoGreater(s, t *term.Term, rpo bool) bool {
	if s.IsVar() {
		return false
	}
	if t.IsVar() {
		return s.Occurs(t.VarNum())
	}

	// (a) some argument of s dominates t.
	for _, a := range s.Args {
		if a.Equal(t) || lpoGreater(a, t, rpo) {
			return true
		}
	}

	f, g := s.SymNum(), t.SymNum()
	switch {
	case precGreater(f, g):
		// (b) s must dominate every argument of t.
		return lpoGreaterAll(s, t.Args, rpo)
	case f == g:
		if multisetStatus(f, rpo) {
			return multisetGreater(s.Args, t.Args, rpo)
		}
		// (c) lexicographic: first strict difference decides, and s must
		// dominate the remaining arguments of t.
		for i := range s.Args {
			if s.Args[i].Equal(t.Args[i]) {
				continue
			}
			if !lpoGreater(s.Args[i], t.Args[i], rpo) {
				return false
			}
			return lpoGreaterAll(s, t.Args[i+1:], rpo)
		}
		return false
	default:
		return false
	}
}

func lpoGreaterAll(s *term.Term, args []*term.Term, rpo bool) bool {
	for _, a := range args {
		if !lpoGreater(s, a, rpo) {
			return false
		}
	}
	return true
}

// multisetGreater implements the multiset extension: after removing common
// elements, every remaining right element must be dominated by some remaining
// left element.
func multisetGreater(ls, rs []*term.Term, rpo bool) bool {
	left := append([]*term.Term(nil), ls...)
	right := append([]*term.Term(nil), rs...)

	for i := 0; i < len(left); i++ {
		for j := 0; j < len(right); j++ {
			if left[i].Equal(right[j]) {
				left = append(left[:i], left[i+1:]...)
				right = append(right[:j], right[j+1:]...)
				i--
				break
			}
		}
	}
	if len(left) == 0 {
		return false
	}
	for _, r := range right {
		dominated := false
		for _, l := range left {
			if lpoGreater(l, r, rpo) {
				dominated = true
				break
			}
		}
		if !dominated {
			return false
		}
	}
	return true
}
