// Package ast holds the parsed form of an input file: option directives,
// symbol declarations, and the named formula/clause lists, with formulas as
// generic operator trees that clausify.go lowers to clauses.
package ast

// Input is a whole parsed input stream.
type Input struct {
	Directives []Directive
}

// Directive is one top-level input item.
type Directive interface{ isDirective() }

// Set is set(flag).
type Set struct{ Flag string }

// Clear is clear(flag).
type Clear struct{ Flag string }

// Assign is assign(parm, value); Value keeps its lexical form and the option
// store coerces it.
type Assign struct {
	Name  string
	Value string
}

// Op is op(precedence, fixity, symbol-or-list).
type Op struct {
	Prec    int
	Fixity  string
	Symbols []string
}

// SymbolOrder is function_order([...]) or predicate_order([...]).
type SymbolOrder struct {
	Kind    string // "function" or "predicate"
	Symbols []string
}

// List is a named block: formulas(label). ... end_of_list.
type List struct {
	Kind  string // "formulas" or "clauses"
	Label string // usable, sos, demodulators, goals, hints, ...
	Items []*Item
}

// Item is one formula in a list with its attached attributes.
type Item struct {
	Expr  *Expr
	Attrs []Attr
	Text  string // source text, echoed in output
}

// Attr is a `# name(value)` attachment.
type Attr struct {
	Name  string
	Value string
}

// WeightRule is one entry of a weights(...) list: weight(symbol, value) or a
// kbo_weights entry.
type WeightRule struct {
	Symbol string
	Arity  int
	Value  float64
}

// Weights is a weights(label) or kbo_weights block.
type Weights struct {
	Kind  string // "weights" or "kbo_weights"
	Rules []WeightRule
}

// RawList is a block whose items stay as raw text lines for a downstream
// parser (given_selection, actions).
type RawList struct {
	Label string
	Items []string
}

// Interp is one parsed interpretation(...) block item.
type Interp struct {
	Size    int
	Entries []InterpEntry
}

// InterpEntry is one function(...) or relation(...) table.
type InterpEntry struct {
	Kind   string // "function" or "relation"
	Name   string
	Arity  int
	Values []int
}

// Interps is an interpretations list.
type Interps struct {
	Items []*Interp
}

func (*Set) isDirective()         {}
func (*Clear) isDirective()       {}
func (*Assign) isDirective()      {}
func (*Op) isDirective()          {}
func (*SymbolOrder) isDirective() {}
func (*List) isDirective()        {}
func (*Weights) isDirective()     {}
func (*RawList) isDirective()     {}
func (*Interps) isDirective()     {}

// Expr is a generic operator tree: an identifier, a number used as a
// constant, or an application. Connective recognition happens during
// lowering, not parsing, the way Prolog-family readers work.
type Expr struct {
	Name string
	Args []*Expr
}

// Leaf reports an argument-less expression.
func (e *Expr) Leaf() bool { return len(e.Args) == 0 }

// Is reports an application of the named operator with the given arity.
func (e *Expr) Is(name string, arity int) bool {
	return e.Name == name && len(e.Args) == arity
}

func (e *Expr) String() string {
	if e.Leaf() {
		return e.Name
	}
	s := e.Name + "("
	for i, a := range e.Args {
		if i > 0 {
			s += ","
		}
		s += a.String()
	}
	return s + ")"
}
