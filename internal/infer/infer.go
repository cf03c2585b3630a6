// Package infer implements the generating inference rules: binary
// resolution and its negative variant, positive and negative
// hyperresolution, UR resolution, paramodulation, and factoring. Rules never
// mutate their inputs; every derived clause is handed to the caller's emit
// callback, which runs the processing pipeline.
package infer

import (
	"osprey/internal/clause"
	"osprey/internal/index"
	"osprey/internal/term"
	"osprey/internal/unify"
)

// LitRef locates a literal: the clause and the literal's index in it. The
// clashable literal index stores these as payloads.
type LitRef struct {
	C   *clause.Clause
	Idx int
}

// Lit returns the referenced literal.
func (r LitRef) Lit() *clause.Literal { return r.C.Literals[r.Idx] }

// Config carries the option snapshot the rules consult.
type Config struct {
	OrderedRes        bool   // clash only eligible (selected/maximal) literals
	Selection         string // literal_selection: max_negative, all_negative, none
	CheckResInstances bool   // discard resolvents whose instance is not maximal
	NegResOnly        bool   // the given's resolved literal must be negative

	OrderedPara   bool // paramodulate from the larger side only
	ParaFromSmall bool // additionally allow the smaller side
	ParaIntoVars  bool
	ParaFromVars  bool
	ParaBasic     bool // skip nonbasic into positions
	ParaLitLimit  int  // max literals in either parent, 0 = off
}

// Emit receives each derived clause.
type Emit func(*clause.Clause)

// eligibleRes reports whether a literal of c may be clashed under ordered
// resolution with the configured literal selection: a clause with negative
// literals resolves on its selected negatives, a positive clause on its
// maximal literals.
func eligibleRes(c *clause.Clause, l *clause.Literal, cfg Config) bool {
	if !cfg.OrderedRes {
		return true
	}
	if cfg.Selection != "none" && c.NegCount() > 0 {
		if l.Sign {
			return false
		}
		if cfg.Selection == "all_negative" {
			return true
		}
		return l.Atom.HasFlag(term.FlagMaximalSigned)
	}
	return l.Atom.HasFlag(term.FlagMaximal)
}

// applyLiterals instantiates a clause's literals under a context, skipping
// the literal at skip (-1 to keep all).
func applyLiterals(c *clause.Clause, ctx *unify.Context, skip int) []*clause.Literal {
	out := make([]*clause.Literal, 0, len(c.Literals))
	for i, l := range c.Literals {
		if i == skip {
			continue
		}
		out = append(out, &clause.Literal{Sign: l.Sign, Atom: unify.Apply(l.Atom, ctx)})
	}
	return out
}

// BinaryResolution clashes every eligible literal of the given clause
// against opposite-sign literals retrieved from the clashable index.
func BinaryResolution(given *clause.Clause, clash *index.Lindex, cfg Config, emit Emit) {
	for i, l := range given.Literals {
		if !eligibleRes(given, l, cfg) {
			continue
		}
		if cfg.NegResOnly && l.Sign {
			continue
		}
		for _, e := range clash.Tree(!l.Sign).Retrieve(l.Atom, index.UnifyMode) {
			ref := e.Data.(LitRef)
			if !eligibleRes(ref.C, ref.Lit(), cfg) {
				continue
			}
			cg, cd := unify.NewContext(), unify.NewContext()
			unify.ForEachUnifier(l.Atom, cg, e.T, cd, func() bool {
				res := clause.New()
				res.Literals = append(applyLiterals(given, cg, i), applyLiterals(ref.C, cd, ref.Idx)...)
				res.Just = clause.Just{{
					Kind: clause.BinaryResStep,
					Data: []int{given.ID, i, ref.C.ID, ref.Idx},
				}}
				if !cfg.CheckResInstances || instanceMaximal(given, i, cg) {
					emit(res)
				}
				return true
			})
		}
	}
}

// instanceMaximal rebuilds the given clause's instance under the unifier and
// checks that the clashed literal is still maximal in it.
func instanceMaximal(c *clause.Clause, idx int, ctx *unify.Context) bool {
	inst := clause.New(applyLiterals(c, ctx, -1)...)
	inst.MarkMaximalLiterals()
	return inst.Literals[idx].Atom.HasFlag(term.FlagMaximal)
}

// Factor emits every binary factor of the clause: two same-sign unifiable
// literals collapsed under their most general unifier.
func Factor(c *clause.Clause, emit Emit) {
	for i := 0; i < len(c.Literals); i++ {
		for j := i + 1; j < len(c.Literals); j++ {
			li, lj := c.Literals[i], c.Literals[j]
			if li.Sign != lj.Sign {
				continue
			}
			ctx := unify.NewContext()
			unify.ForEachUnifier(li.Atom, ctx, lj.Atom, ctx, func() bool {
				f := clause.New(applyLiterals(c, ctx, j)...)
				f.Just = clause.Just{{
					Kind: clause.FactorStep,
					Data: []int{c.ID, i, j},
				}}
				emit(f)
				return true
			})
		}
	}
}
