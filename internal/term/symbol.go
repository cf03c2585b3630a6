package term

import (
	"fmt"
)

// Kind distinguishes how a symbol is used. A symbol starts out Unspecified
// and is committed to Function or Predicate the first time it appears in a
// committing position (argument of a term vs. atom of a literal).
type Kind int

const (
	Unspecified Kind = iota
	Function
	Predicate
)

// Theory is the unification theory attached to a symbol. Symbols with a
// nonempty theory force the backtracking unification path.
type Theory int

const (
	EmptyTheory Theory = iota
	Commutative
	AssocCommutative
)

// Status selects how LPO/RPO compares argument lists under this symbol.
type Status int

const (
	LRStatus Status = iota // lexicographic, left to right
	MultisetStatus
)

// Fixity records how a symbol is written in the input language.
type Fixity int

const (
	Ordinary Fixity = iota
	Infix
	InfixLeft
	InfixRight
	Prefix
	Postfix
)

// Symbol carries all per-symbol metadata. Symbols are identified by number;
// the (name, arity) pair is unique within the table.
type Symbol struct {
	Num        int
	Name       string
	Arity      int
	Kind       Kind
	Precedence int // lex value: position in the symbol ordering
	KBWeight   int
	Status     Status
	Theory     Theory
	Skolem     bool
	Auxiliary  bool
	Fixity     Fixity
	ParsePrec  int // precedence for the Pratt parser, 0 if not an operator
}

type symKey struct {
	name  string
	arity int
}

// table is the process-wide symbol table. It is initialised once at program
// start and only ever appended to; symbol numbers are stable for the run.
// The search loop is the single writer, so no locking is needed.
type table struct {
	syms  []*Symbol
	byKey map[symKey]int
	mark  int
}

var tab = newTable()

func newTable() *table {
	return &table{byKey: make(map[symKey]int)}
}

// Reset discards the whole table. Only tests use it; the engine assumes
// symbol numbers never change underneath it.
func Reset() {
	tab = newTable()
}

// Intern returns the symbol number for (name, arity), creating the symbol on
// first sight. New symbols get the next lex value so that input order is the
// default precedence.
func Intern(name string, arity int) int {
	if n, ok := tab.byKey[symKey{name, arity}]; ok {
		return n
	}
	s := &Symbol{
		Num:        len(tab.syms),
		Name:       name,
		Arity:      arity,
		Precedence: len(tab.syms),
		KBWeight:   1,
	}
	tab.syms = append(tab.syms, s)
	tab.byKey[symKey{name, arity}] = s.Num
	return s.Num
}

// Lookup finds a symbol without interning it.
func Lookup(name string, arity int) (int, bool) {
	n, ok := tab.byKey[symKey{name, arity}]
	return n, ok
}

// Sym returns the symbol record for a number. Numbers come only from Intern,
// so an out-of-range number means the table was corrupted.
func Sym(num int) *Symbol {
	if num < 0 || num >= len(tab.syms) {
		panic(fmt.Sprintf("symbol table: no symbol with number %d", num))
	}
	return tab.syms[num]
}

// Count returns the number of interned symbols.
func Count() int { return len(tab.syms) }

// Symbols calls f on every interned symbol in numeric order.
func Symbols(f func(*Symbol)) {
	for _, s := range tab.syms {
		f(s)
	}
}

// Fresh interns a new symbol prefix1, prefix2, ... skipping names already
// taken at that arity. Used for Skolem symbols and auto-introduced constants.
func Fresh(prefix string, arity int) int {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s%d", prefix, i)
		if _, ok := tab.byKey[symKey{name, arity}]; !ok {
			return Intern(name, arity)
		}
	}
}

// Mark records the current table size. SinceMark returns the symbols interned
// after the last Mark, so a parent process can replay a child's additions.
func Mark() {
	tab.mark = len(tab.syms)
}

// SinceMark returns the symbols appended since Mark.
func SinceMark() []*Symbol {
	return tab.syms[tab.mark:]
}

// Arity is a convenience accessor.
func Arity(num int) int { return Sym(num).Arity }

// Name is a convenience accessor.
func Name(num int) string { return Sym(num).Name }

// IsCommutative reports whether the symbol's theory is commutative or AC.
func IsCommutative(num int) bool {
	th := Sym(num).Theory
	return th == Commutative || th == AssocCommutative
}

// IsAC reports whether the symbol is associative-commutative.
func IsAC(num int) bool { return Sym(num).Theory == AssocCommutative }

// HasTheorySymbols reports whether any interned symbol carries a nonempty
// unification theory, which forces callers onto the backtracking unifier.
func HasTheorySymbols() bool {
	for _, s := range tab.syms {
		if s.Theory != EmptyTheory {
			return true
		}
	}
	return false
}

// SetPrecedence assigns the lex value used by the term orderings.
func SetPrecedence(num, prec int) { Sym(num).Precedence = prec }

// SetKBWeight assigns the Knuth-Bendix weight.
func SetKBWeight(num, w int) { Sym(num).KBWeight = w }

// SetStatus assigns the LRPO status.
func SetStatus(num int, st Status) { Sym(num).Status = st }

// SetTheory assigns the unification theory.
func SetTheory(num int, th Theory) { Sym(num).Theory = th }

// SetSkolem marks the symbol as Skolem.
func SetSkolem(num int) { Sym(num).Skolem = true }

// SetKind commits the symbol to function or predicate use.
func SetKind(num int, k Kind) { Sym(num).Kind = k }
