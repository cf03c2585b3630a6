package infer

import (
	"osprey/internal/clause"
	"osprey/internal/index"
	"osprey/internal/unify"
)

// Hyperresolution clashes every literal of one sign in a nucleus against
// satellites of uniform opposite sign, in one step. For positive
// hyperresolution the nucleus's negative literals clash against positive
// satellites and the result is positive; negative hyperresolution is the
// dual. The given clause participates as nucleus or as satellite; to avoid
// duplicate derivations when both roles are possible, the satellite role
// only fires when the given is of uniform sign.
func Hyperresolution(given *clause.Clause, clash *index.Lindex, positive bool, emit Emit) {
	satSign := positive // satellites are positive in positive hyperres

	if hasLiteralOfSign(given, !satSign) {
		hyperFromNucleus(given, clash, satSign, emit, -1)
	}
	if uniformSign(given, satSign) {
		// The given as satellite: find nuclei through any of its literals.
		seen := make(map[*clause.Clause]bool)
		for _, l := range given.Literals {
			for _, e := range clash.Tree(!satSign).Retrieve(l.Atom, index.UnifyMode) {
				ref := e.Data.(LitRef)
				if seen[ref.C] || ref.C == given {
					continue
				}
				seen[ref.C] = true
				hyperFromNucleus(ref.C, clash, satSign, emit, requireClause{given})
			}
		}
	}
}

// requireClause marks a satellite that must appear in the clash; the given
// clause drives every inference it participates in exactly once.
type requireClause struct {
	c *clause.Clause
}

// hyperFromNucleus clashes away every non-satellite-sign literal of the
// nucleus. req is -1 (no constraint) or a requireClause.
func hyperFromNucleus(nucleus *clause.Clause, clash *index.Lindex, satSign bool, emit Emit, req any) {
	var clashIdx []int
	for i, l := range nucleus.Literals {
		if l.Sign != satSign {
			clashIdx = append(clashIdx, i)
		}
	}
	if len(clashIdx) == 0 {
		return
	}
	cn := unify.NewContext()
	type sat struct {
		ref LitRef
		ctx *unify.Context
	}
	sats := make([]sat, 0, len(clashIdx))

	required, _ := req.(requireClause)

	var clashAll func(k int)
	clashAll = func(k int) {
		if k == len(clashIdx) {
			if required.c != nil {
				used := false
				for _, s := range sats {
					if s.ref.C == required.c {
						used = true
						break
					}
				}
				if !used {
					return
				}
			}
			res := clause.New(applyLiterals(nucleus, cn, -1)...)
			// Drop the clashed instances, keep satellite residues.
			kept := res.Literals[:0]
			ci := 0
			for i, l := range res.Literals {
				if ci < len(clashIdx) && clashIdx[ci] == i {
					ci++
					continue
				}
				kept = append(kept, l)
			}
			res.Literals = kept
			data := []int{nucleus.ID, len(sats)}
			for si, s := range sats {
				res.Literals = append(res.Literals, applyLiterals(s.ref.C, s.ctx, s.ref.Idx)...)
				data = append(data, s.ref.C.ID, clashIdx[si])
			}
			kind := clause.HyperResStep
			res.Just = clause.Just{{Kind: kind, Data: data}}
			emit(res)
			return
		}
		li := nucleus.Literals[clashIdx[k]]
		for _, e := range clash.Tree(satSign).Retrieve(li.Atom, index.UnifyMode) {
			ref := e.Data.(LitRef)
			if !uniformSign(ref.C, satSign) {
				continue
			}
			cs := unify.NewContext()
			unify.ForEachUnifier(li.Atom, cn, e.T, cs, func() bool {
				sats = append(sats, sat{ref: ref, ctx: cs})
				clashAll(k + 1)
				sats = sats[:len(sats)-1]
				return true
			})
		}
	}
	clashAll(0)
}

func hasLiteralOfSign(c *clause.Clause, sign bool) bool {
	for _, l := range c.Literals {
		if l.Sign == sign {
			return true
		}
	}
	return false
}

func uniformSign(c *clause.Clause, sign bool) bool {
	for _, l := range c.Literals {
		if l.Sign != sign {
			return false
		}
	}
	return len(c.Literals) > 0
}
