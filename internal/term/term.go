// Package term provides the process-wide symbol table and the term
// representation shared by every other part of the prover. A term is either a
// variable (a small integer, normalised per clause) or an application of a
// symbol to an ordered argument list. Terms inside a clause are owned by that
// clause; index structures hold non-owning references tagged with a container
// backpointer.
package term

import (
	"strings"

	"github.com/hashicorp/go-set/v3"
)

// MaxVars bounds the variable numbers a single clause may use. Unification
// contexts size their binding frames with it, and variable renumbering keeps
// different variable spaces MaxVars apart.
const MaxVars = 100

// Term is a variable or an application. The zero value is not a valid term;
// use Var, App, or Const.
type Term struct {
	sym   int // symbol number, or variable number for variables
	isVar bool
	Args  []*Term

	flags uint8

	// Container points back at the index entry or list record that holds a
	// weak reference to this term, so unindexing can find it in O(1).
	Container any
}

// Var returns a variable term with the given variable number.
func Var(n int) *Term {
	return &Term{sym: n, isVar: true}
}

// App returns an application of the symbol to the arguments. The argument
// count must match the symbol's arity.
func App(sym int, args ...*Term) *Term {
	if len(args) != Arity(sym) {
		panic("term: application arity mismatch for " + Name(sym))
	}
	return &Term{sym: sym, Args: args}
}

// Const returns a constant (arity-0 application).
func Const(sym int) *Term { return App(sym) }

// IsVar reports whether the term is a variable.
func (t *Term) IsVar() bool { return t.isVar }

// VarNum returns the variable number; the term must be a variable.
func (t *Term) VarNum() int {
	if !t.isVar {
		panic("term: VarNum on non-variable")
	}
	return t.sym
}

// SymNum returns the symbol number; the term must be an application.
func (t *Term) SymNum() int {
	if t.isVar {
		panic("term: SymNum on variable")
	}
	return t.sym
}

// IsConst reports whether the term is an arity-0 application.
func (t *Term) IsConst() bool { return !t.isVar && len(t.Args) == 0 }

// Equal is strict syntactic identity, ignoring flags and containers.
func (t *Term) Equal(u *Term) bool {
	if t == u {
		return true
	}
	if t == nil || u == nil || t.isVar != u.isVar || t.sym != u.sym || len(t.Args) != len(u.Args) {
		return false
	}
	for i, a := range t.Args {
		if !a.Equal(u.Args[i]) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy with cleared flags and containers.
func (t *Term) Copy() *Term {
	if t.isVar {
		return Var(t.sym)
	}
	args := make([]*Term, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.Copy()
	}
	return &Term{sym: t.sym, Args: args}
}

// Occurs reports whether variable v occurs in t.
func (t *Term) Occurs(v int) bool {
	if t.isVar {
		return t.sym == v
	}
	for _, a := range t.Args {
		if a.Occurs(v) {
			return true
		}
	}
	return false
}

// Vars returns the set of variable numbers occurring in t.
func (t *Term) Vars() *set.Set[int] {
	s := set.New[int](4)
	t.addVars(s)
	return s
}

func (t *Term) addVars(s *set.Set[int]) {
	if t.isVar {
		s.Insert(t.sym)
		return
	}
	for _, a := range t.Args {
		a.addVars(s)
	}
}

// VarsSubset reports whether every variable of s also occurs in t. (The
// set library's Subset reads the other way around, so the helper keeps call
// sites honest.)
func VarsSubset(s, t *Term) bool {
	return t.Vars().Subset(s.Vars())
}

// VarCounts returns occurrence counts per variable, used by the KBO variable
// condition.
func (t *Term) VarCounts() map[int]int {
	m := make(map[int]int)
	t.addVarCounts(m)
	return m
}

func (t *Term) addVarCounts(m map[int]int) {
	if t.isVar {
		m[t.sym]++
		return
	}
	for _, a := range t.Args {
		a.addVarCounts(m)
	}
}

// Depth returns the term depth; variables and constants have depth 0.
func (t *Term) Depth() int {
	d := 0
	for _, a := range t.Args {
		if ad := a.Depth() + 1; ad > d {
			d = ad
		}
	}
	return d
}

// SymbolCount counts symbol and variable occurrences, the default weight.
func (t *Term) SymbolCount() int {
	n := 1
	for _, a := range t.Args {
		n += a.SymbolCount()
	}
	return n
}

// At returns the subterm at a position, a path of 0-based argument indexes.
// The empty position is the term itself.
func (t *Term) At(pos []int) *Term {
	cur := t
	for _, i := range pos {
		cur = cur.Args[i]
	}
	return cur
}

// ReplaceAt returns a copy of t with the subterm at pos replaced. Nodes off
// the path are shared, which is safe because terms are treated as immutable
// once built into a clause.
func (t *Term) ReplaceAt(pos []int, repl *Term) *Term {
	if len(pos) == 0 {
		return repl
	}
	args := make([]*Term, len(t.Args))
	copy(args, t.Args)
	args[pos[0]] = t.Args[pos[0]].ReplaceAt(pos[1:], repl)
	return &Term{sym: t.sym, Args: args}
}

// Walk calls f on every subterm with its position, outermost-leftmost first.
// Returning false from f stops the walk.
func (t *Term) Walk(f func(sub *Term, pos []int) bool) bool {
	return t.walk(nil, f)
}

func (t *Term) walk(pos []int, f func(*Term, []int) bool) bool {
	if !f(t, pos) {
		return false
	}
	for i, a := range t.Args {
		if !a.walk(append(pos[:len(pos):len(pos)], i), f) {
			return false
		}
	}
	return true
}

// varNames are the traditional names for the first six variable numbers;
// higher numbers render as x7, x8, ...
var varNames = []string{"x", "y", "z", "u", "v", "w"}

// VarName renders a variable number in the input language's convention.
func VarName(n int) string {
	if n >= 0 && n < len(varNames) {
		return varNames[n]
	}
	return "x" + itoa(n+1)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b [20]byte
	i := len(b)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		b[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		b[i] = '-'
	}
	return string(b[i:])
}

// String renders the term, using infix notation for symbols declared as
// operators and the variable naming convention above.
func (t *Term) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *Term) write(b *strings.Builder) {
	if t.isVar {
		b.WriteString(VarName(t.sym))
		return
	}
	s := Sym(t.sym)
	switch {
	case len(t.Args) == 2 && (s.Fixity == Infix || s.Fixity == InfixLeft || s.Fixity == InfixRight):
		b.WriteByte('(')
		t.Args[0].write(b)
		b.WriteString(" " + s.Name + " ")
		t.Args[1].write(b)
		b.WriteByte(')')
	case len(t.Args) == 0:
		b.WriteString(s.Name)
	default:
		b.WriteString(s.Name)
		b.WriteByte('(')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			a.write(b)
		}
		b.WriteByte(')')
	}
}
