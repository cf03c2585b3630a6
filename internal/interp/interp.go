// Package interp evaluates clauses in finite interpretations, driving the
// semantic selector properties: a clause false in the interpretation is a
// more promising given candidate than a true one.
package interp

import (
	"osprey/internal/clause"
	"osprey/internal/term"
)

// Interp is a finite interpretation: a domain {0..Size-1} with a total
// function table per function symbol and a relation table per predicate.
// Tables are row-major over the argument tuple.
type Interp struct {
	Size  int
	funcs map[int][]int
	rels  map[int][]bool
}

// New returns an empty interpretation over a domain of the given size.
func New(size int) *Interp {
	return &Interp{Size: size, funcs: make(map[int][]int), rels: make(map[int][]bool)}
}

// tableLen is Size^arity.
func (ip *Interp) tableLen(arity int) int {
	n := 1
	for i := 0; i < arity; i++ {
		n *= ip.Size
	}
	return n
}

// AddFunction installs a function table; the table length must be
// Size^arity and every value in range.
func (ip *Interp) AddFunction(sym int, table []int) bool {
	if len(table) != ip.tableLen(term.Arity(sym)) {
		return false
	}
	for _, v := range table {
		if v < 0 || v >= ip.Size {
			return false
		}
	}
	ip.funcs[sym] = table
	return true
}

// AddRelation installs a relation table.
func (ip *Interp) AddRelation(sym int, table []bool) bool {
	if len(table) != ip.tableLen(term.Arity(sym)) {
		return false
	}
	ip.rels[sym] = table
	return true
}

// evalTerm computes a term value under a variable assignment; ok is false
// when a symbol has no table.
func (ip *Interp) evalTerm(t *term.Term, asg []int) (int, bool) {
	if t.IsVar() {
		return asg[t.VarNum()], true
	}
	table, ok := ip.funcs[t.SymNum()]
	if !ok {
		return 0, false
	}
	idx := 0
	for _, a := range t.Args {
		v, ok := ip.evalTerm(a, asg)
		if !ok {
			return 0, false
		}
		idx = idx*ip.Size + v
	}
	return table[idx], true
}

// evalLiteral computes a literal's truth value under an assignment.
func (ip *Interp) evalLiteral(l *clause.Literal, asg []int) (bool, bool) {
	if l.IsEq() {
		alpha, beta := l.EqSides()
		va, ok := ip.evalTerm(alpha, asg)
		if !ok {
			return false, false
		}
		vb, ok := ip.evalTerm(beta, asg)
		if !ok {
			return false, false
		}
		return (va == vb) == l.Sign, true
	}
	table, ok := ip.rels[l.Atom.SymNum()]
	if !ok {
		return false, false
	}
	idx := 0
	for _, a := range l.Atom.Args {
		v, ok := ip.evalTerm(a, asg)
		if !ok {
			return false, false
		}
		idx = idx*ip.Size + v
	}
	return table[idx] == l.Sign, true
}

// EvalClause decides the clause's value: true iff every assignment of its
// variables satisfies some literal. evalLimit bounds the number of
// assignments tried; exceeding it (or meeting a symbol without a table)
// yields SemNotEvaluable.
func (ip *Interp) EvalClause(c *clause.Clause, evalLimit int) clause.SemValue {
	vars := c.Vars()
	nAsg := 1
	for range vars {
		nAsg *= ip.Size
		if evalLimit > 0 && nAsg > evalLimit {
			return clause.SemNotEvaluable
		}
	}

	// Renumber so assignments index densely.
	renumC := c.Copy()
	renumC.NormalizeVars()

	asg := make([]int, len(vars))
	for i := 0; i < nAsg; i++ {
		k := i
		for j := range asg {
			asg[j] = k % ip.Size
			k /= ip.Size
		}
		sat := false
		for _, l := range renumC.Literals {
			v, ok := ip.evalLiteral(l, asg)
			if !ok {
				return clause.SemNotEvaluable
			}
			if v {
				sat = true
				break
			}
		}
		if !sat {
			return clause.SemFalse
		}
	}
	return clause.SemTrue
}
