package infer

import (
	"osprey/internal/clause"
	"osprey/internal/index"
	"osprey/internal/unify"
)

// URResolution (unit-resulting resolution) clashes all but one literal of a
// non-unit nucleus against opposite-sign unit clauses, yielding a unit. The
// given participates as nucleus (if non-unit) or as one of the units.
func URResolution(given *clause.Clause, clash *index.Lindex, emit Emit) {
	if !given.IsUnit() {
		for target := range given.Literals {
			urFromNucleus(given, clash, target, nil, emit)
		}
		return
	}
	// Given is a unit: find nuclei whose literals clash with it, and require
	// the given among the satellites.
	l := given.Literals[0]
	seen := make(map[*clause.Clause]bool)
	for _, e := range clash.Tree(!l.Sign).Retrieve(l.Atom, index.UnifyMode) {
		ref := e.Data.(LitRef)
		if ref.C == given || ref.C.IsUnit() || seen[ref.C] {
			continue
		}
		seen[ref.C] = true
		for target := range ref.C.Literals {
			urFromNucleus(ref.C, clash, target, given, emit)
		}
	}
}

// urFromNucleus clashes every literal except target against units. require,
// when non-nil, must appear among the satellites.
func urFromNucleus(nucleus *clause.Clause, clash *index.Lindex, target int, require *clause.Clause, emit Emit) {
	cn := unify.NewContext()
	type sat struct {
		c      *clause.Clause
		nucLit int
	}
	var sats []sat

	var clashAll func(i int)
	clashAll = func(i int) {
		if i == len(nucleus.Literals) {
			if require != nil {
				found := false
				for _, s := range sats {
					if s.c == require {
						found = true
						break
					}
				}
				if !found {
					return
				}
			}
			lt := nucleus.Literals[target]
			res := clause.New(&clause.Literal{Sign: lt.Sign, Atom: unify.Apply(lt.Atom, cn)})
			data := []int{nucleus.ID, len(sats)}
			for _, s := range sats {
				data = append(data, s.c.ID, s.nucLit)
			}
			res.Just = clause.Just{{Kind: clause.URResStep, Data: data}}
			emit(res)
			return
		}
		if i == target {
			clashAll(i + 1)
			return
		}
		li := nucleus.Literals[i]
		for _, e := range clash.Tree(!li.Sign).Retrieve(li.Atom, index.UnifyMode) {
			ref := e.Data.(LitRef)
			if !ref.C.IsUnit() {
				continue
			}
			cs := unify.NewContext()
			unify.ForEachUnifier(li.Atom, cn, e.T, cs, func() bool {
				sats = append(sats, sat{c: ref.C, nucLit: i})
				clashAll(i + 1)
				sats = sats[:len(sats)-1]
				return true
			})
		}
	}
	clashAll(0)
}
