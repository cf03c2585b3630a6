package clause

import (
	"strings"

	"osprey/internal/fatal"
	"osprey/internal/order"
	"osprey/internal/term"
)

// SemValue is the clause's value under the current interpretation.
type SemValue int

const (
	SemNotEvaluated SemValue = iota
	SemNotEvaluable
	SemTrue
	SemFalse
)

// Clause is the topform of the search: a literal list plus all bookkeeping
// the loop and the proof reconstruction need. ID 0 means unassigned; kept
// clauses receive strictly increasing ids.
type Clause struct {
	ID       int
	Literals []*Literal
	Just     Just
	Attrs    Attrs

	Weight float64

	Used        bool
	Initial     bool
	Subsumer    bool
	NormalVars  bool
	MatchesHint bool

	Semantics SemValue

	// HintMatch points at the hint this clause matched, if any.
	HintMatch *Clause

	// containers are the clause lists this clause currently sits in.
	containers []*ClistPos

	// Compressed means the heavyweight structure was dropped after the
	// clause was disabled; only id and justification remain trustworthy.
	Compressed bool

	// IsFormula survives for the wire format; the core only ships clauses.
	IsFormula bool
}

// New builds an unkept clause from literals.
func New(lits ...*Literal) *Clause {
	return &Clause{Literals: lits, Attrs: DefaultAttrs()}
}

// IsEmpty reports the empty clause, i.e. a proof.
func (c *Clause) IsEmpty() bool { return len(c.Literals) == 0 }

// IsUnit reports a one-literal clause.
func (c *Clause) IsUnit() bool { return len(c.Literals) == 1 }

// PosCount and NegCount count literals by sign.
func (c *Clause) PosCount() int {
	n := 0
	for _, l := range c.Literals {
		if l.Sign {
			n++
		}
	}
	return n
}

func (c *Clause) NegCount() int { return len(c.Literals) - c.PosCount() }

// IsPositive and IsNegative report uniform sign.
func (c *Clause) IsPositive() bool { return c.NegCount() == 0 }
func (c *Clause) IsNegative() bool { return c.PosCount() == 0 }

// Copy returns a fresh clause with copied literals and no id, justification,
// flags, or memberships.
func (c *Clause) Copy() *Clause {
	lits := make([]*Literal, len(c.Literals))
	for i, l := range c.Literals {
		lits[i] = l.Copy()
	}
	return &Clause{Literals: lits, Attrs: c.Attrs.Copy()}
}

// Vars returns the variable numbers occurring in the clause, in order of
// first occurrence.
func (c *Clause) Vars() []int {
	var out []int
	seen := make(map[int]bool)
	for _, l := range c.Literals {
		l.Atom.Walk(func(t *term.Term, _ []int) bool {
			if t.IsVar() && !seen[t.VarNum()] {
				seen[t.VarNum()] = true
				out = append(out, t.VarNum())
			}
			return true
		})
	}
	return out
}

// NormalizeVars renumbers variables 0,1,2,... in order of first occurrence.
// Kept clauses are always normalised so ids in justifications line up with
// printable variables.
func (c *Clause) NormalizeVars() {
	vars := c.Vars()
	if len(vars) > term.MaxVars {
		fatal.Fatal(fatal.ErrTooManyVars.New(term.MaxVars))
	}
	renum := make(map[int]int, len(vars))
	for i, v := range vars {
		renum[v] = i
	}
	for _, l := range c.Literals {
		l.Atom = renumber(l.Atom, renum)
	}
	c.NormalVars = true
}

func renumber(t *term.Term, renum map[int]int) *term.Term {
	if t.IsVar() {
		return term.Var(renum[t.VarNum()])
	}
	args := make([]*term.Term, len(t.Args))
	for i, a := range t.Args {
		args[i] = renumber(a, renum)
	}
	out := term.App(t.SymNum(), args...)
	out.TransferFlags(t)
	return out
}

// SymbolCount is the total symbol count over all literals.
func (c *Clause) SymbolCount() int {
	n := 0
	for _, l := range c.Literals {
		n += l.Atom.SymbolCount()
	}
	return n
}

// Depth is the maximum literal depth.
func (c *Clause) Depth() int {
	d := 0
	for _, l := range c.Literals {
		if ld := l.Atom.Depth(); ld > d {
			d = ld
		}
	}
	return d
}

// MarkMaximalLiterals computes and flags the maximal (and maximal-per-sign)
// literals under the selected ordering. A literal is maximal if no other
// literal of the clause is strictly greater.
func (c *Clause) MarkMaximalLiterals() {
	for i, li := range c.Literals {
		maximal, maximalSigned := true, true
		for j, lj := range c.Literals {
			if i == j {
				continue
			}
			if literalGreater(lj, li) {
				maximal = false
				if lj.Sign == li.Sign {
					maximalSigned = false
				}
			}
		}
		li.Atom.ClearFlag(term.FlagMaximal | term.FlagMaximalSigned)
		if maximal {
			li.Atom.SetFlag(term.FlagMaximal)
		}
		if maximalSigned {
			li.Atom.SetFlag(term.FlagMaximalSigned)
		}
	}
}

// literalGreater compares atoms under the term ordering; a negative literal
// beats a positive one with the same atom.
func literalGreater(a, b *Literal) bool {
	switch order.Compare(a.Atom, b.Atom) {
	case order.Greater:
		return true
	case order.Equal:
		return !a.Sign && b.Sign
	default:
		return false
	}
}

// OrientEqualities flags equality atoms whose left side is ordering-greater,
// and swaps sides when only the right side is greater, so every orientable
// equality reads left-to-right.
func (c *Clause) OrientEqualities() {
	for _, l := range c.Literals {
		if !l.IsEq() {
			continue
		}
		alpha, beta := l.EqSides()
		switch order.Compare(alpha, beta) {
		case order.Greater:
			l.Atom.SetFlag(term.FlagOriented)
		case order.Less:
			l.Atom = term.App(l.Atom.SymNum(), beta, alpha)
			l.Atom.SetFlag(term.FlagOriented)
		}
	}
}

// Compress drops literal structure after a clause is disabled. The id and
// justification stay so proof reconstruction works.
func (c *Clause) Compress() {
	c.Literals = nil
	c.Compressed = true
}

func (c *Clause) String() string {
	if c.IsEmpty() {
		return falseName
	}
	var b strings.Builder
	for i, l := range c.Literals {
		if i > 0 {
			b.WriteString(" | ")
		}
		l.write(&b)
	}
	return b.String()
}
