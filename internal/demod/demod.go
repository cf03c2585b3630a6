// Package demod implements oriented rewriting: classifying unit equalities
// as demodulators, rewriting clauses to normal form under the demodulator
// index, and finding back-demodulation candidates when a new demodulator
// arrives.
package demod

import (
	"osprey/internal/clause"
	"osprey/internal/fatal"
	"osprey/internal/index"
	"osprey/internal/order"
	"osprey/internal/term"
	"osprey/internal/unify"
)

// Classification of a unit equality as a rewrite rule.
type Classification int

const (
	NotDemodulator Classification = iota
	Oriented
	LexDepLR
	LexDepRL
	LexDepBoth
)

// Demodulator is an equation admitted to the rewrite index.
type Demodulator struct {
	C     *clause.Clause
	Class Classification
}

// Classify decides whether a clause can serve as a demodulator. Only unit
// positive equalities qualify; orientable ones (left greater after
// orientation) are Oriented. With lexDep enabled, equations whose sides are
// comparable with variables treated as constants, and variant equations,
// are admitted lex-dependently.
func Classify(c *clause.Clause, lexDep bool) Classification {
	if !c.IsUnit() || !c.Literals[0].IsPosEq() {
		return NotDemodulator
	}
	alpha, beta := c.Literals[0].EqSides()
	switch order.Compare(alpha, beta) {
	case order.Greater:
		return Oriented
	case order.Less:
		// Callers orient equalities before classifying; seeing the greater
		// side on the right means that did not happen.
		return NotDemodulator
	case order.Equal:
		return NotDemodulator
	}
	if !lexDep {
		return NotDemodulator
	}
	lrOK := term.VarsSubset(beta, alpha)
	rlOK := term.VarsSubset(alpha, beta)
	switch {
	case lrOK && rlOK && variants(alpha, beta):
		return LexDepBoth
	case lrOK && order.LexGreaterVarsAsConsts(alpha, beta):
		return LexDepLR
	case rlOK && order.LexGreaterVarsAsConsts(beta, alpha):
		return LexDepRL
	default:
		return NotDemodulator
	}
}

// variants reports that the two terms are equal up to variable renaming.
func variants(s, t *term.Term) bool {
	c1, c2 := unify.NewContext(), unify.NewContext()
	var tr *unify.Trail
	ok := unify.Match(s, c1, t, &tr) // s generalizes t
	tr = unify.Undo(tr)
	if !ok {
		return false
	}
	ok = unify.Match(t, c2, s, &tr)
	unify.Undo(tr)
	return ok
}

// CheckVariableSubset enforces the input-demodulator safety rule: every
// variable of the reduced side must occur on the other side, otherwise
// rewriting would not terminate.
func CheckVariableSubset(c *clause.Clause) bool {
	if !c.IsUnit() || !c.Literals[0].IsPosEq() {
		return false
	}
	alpha, beta := c.Literals[0].EqSides()
	return term.VarsSubset(beta, alpha)
}

// Index holds the active demodulators, keyed by their left (and for
// two-sided lex-dep rules also right) sides in a with-bindings
// discrimination tree.
type Index struct {
	tree    *index.DiscrimB
	members map[*clause.Clause]*Demodulator
}

// entry ties an indexed side to its rule.
type entry struct {
	d  *Demodulator
	rl bool // indexed side is the right side
}

// NewIndex returns an empty demodulator index.
func NewIndex() *Index {
	return &Index{tree: index.NewDiscrimB(), members: make(map[*clause.Clause]*Demodulator)}
}

// Size returns the number of indexed demodulators.
func (ix *Index) Size() int { return len(ix.members) }

// Member returns the rule for a clause, or nil.
func (ix *Index) Member(c *clause.Clause) *Demodulator {
	return ix.members[c]
}

// Insert indexes the demodulator.
func (ix *Index) Insert(d *Demodulator) {
	if ix.members[d.C] != nil {
		fatal.Fatal(fatal.ErrIndexCorrupt.New("demodulator indexed twice"))
	}
	ix.members[d.C] = d
	alpha, beta := d.C.Literals[0].EqSides()
	if d.Class != LexDepRL {
		ix.tree.Insert(alpha, &entry{d: d})
	}
	if d.Class == LexDepRL || d.Class == LexDepBoth {
		ix.tree.Insert(beta, &entry{d: d, rl: true})
	}
}

// Delete unindexes the clause's rule.
func (ix *Index) Delete(c *clause.Clause) {
	d := ix.members[c]
	if d == nil {
		fatal.Fatal(fatal.ErrIndexCorrupt.New("deleting clause that is not a demodulator"))
	}
	delete(ix.members, c)
	alpha, beta := c.Literals[0].EqSides()
	if d.Class != LexDepRL {
		ix.tree.Delete(alpha)
	}
	if d.Class == LexDepRL || d.Class == LexDepBoth {
		ix.tree.Delete(beta)
	}
}

// Limits bound a single clause's rewriting.
type Limits struct {
	StepLimit int // max rewrite steps per clause, 0 = unlimited
	SizeLimit int // max symbol count a rewritten literal may reach, 0 = unlimited
}

// RewriteClause rewrites every atom of c to normal form under the index,
// appending one justification step per rewrite. It reports whether anything
// changed. The clause must not itself be in the index.
func (ix *Index) RewriteClause(c *clause.Clause, lim Limits) bool {
	steps := 0
	changed := false
	for _, l := range c.Literals {
		for {
			t, step, ok := ix.rewriteOnce(l.Atom, nil, &steps, lim)
			if !ok {
				break
			}
			l.Atom = t
			c.Just = append(c.Just, step)
			changed = true
			if lim.SizeLimit > 0 && l.Atom.SymbolCount() > lim.SizeLimit {
				break
			}
			if lim.StepLimit > 0 && steps >= lim.StepLimit {
				return changed
			}
		}
	}
	return changed
}

// rewriteOnce finds the leftmost-innermost redex under t and rewrites it.
func (ix *Index) rewriteOnce(t *term.Term, pos []int, steps *int, lim Limits) (*term.Term, clause.Step, bool) {
	if t.IsVar() {
		return nil, clause.Step{}, false
	}
	for i, a := range t.Args {
		if nt, step, ok := ix.rewriteOnce(a, append(pos[:len(pos):len(pos)], i), steps, lim); ok {
			return t.ReplaceAt([]int{i}, nt), step, true
		}
	}
	var result *term.Term
	var step clause.Step
	found := false
	ix.tree.RetrieveGeneralizations(t, func(e *index.Entry) bool {
		en := e.Data.(*entry)
		lhs, rhs := en.d.C.Literals[0].EqSides()
		if en.rl {
			lhs, rhs = rhs, lhs
		}
		ctx := unify.NewContext()
		unify.ForEachMatch(lhs, ctx, t, func() bool {
			repl := unify.MatchApply(rhs, ctx)

			// Oriented rules always shrink; lex-dependent rules only apply
			// when the instance actually gets smaller.
			if en.d.Class != Oriented && !order.LexGreaterVarsAsConsts(t, repl) {
				return true
			}
			result = repl
			found = true
			side := 0
			if en.rl {
				side = 1
			}
			data := []int{en.d.C.ID, len(pos)}
			data = append(data, pos...)
			data = append(data, side)
			step = clause.Step{Kind: clause.DemodStep, Data: data}
			return false
		})
		return !found
	})
	if !found {
		return nil, clause.Step{}, false
	}
	*steps++
	return result, step, true
}

// BackDemodCandidates returns the data payloads of subterm entries in the
// back-demodulation FPA index that unify with the new demodulator's left
// side (and for two-sided rules, its right side).
func BackDemodCandidates(fpa *index.FPA, d *Demodulator) []any {
	alpha, beta := d.C.Literals[0].EqSides()
	var sides []*term.Term
	if d.Class != LexDepRL {
		sides = append(sides, alpha)
	}
	if d.Class == LexDepRL || d.Class == LexDepBoth {
		sides = append(sides, beta)
	}
	seen := make(map[any]bool)
	var out []any
	for _, side := range sides {
		for _, e := range fpa.Retrieve(side, index.UnifyMode) {
			cl, cc := unify.NewContext(), unify.NewContext()
			ok := false
			unify.ForEachUnifier(side, cl, e.T, cc, func() bool {
				ok = true
				return false
			})
			if ok && !seen[e.Data] {
				seen[e.Data] = true
				out = append(out, e.Data)
			}
		}
	}
	return out
}
