package ast

import (
	"fmt"
	"strings"
	"unicode"

	"osprey/internal/clause"
	"osprey/internal/term"
)

// Lowering from operator trees to clauses. The full clausifier is an
// external collaborator; this accepts the clause-shaped fragment: an
// optional universal quantifier prefix over a disjunction of literals, with
// top-level -> expanded. Top-level <-> and anything needing Skolemization
// are rejected.

// connective names as they appear in operator trees.
const (
	opOr      = "|"
	opAnd     = "&"
	opImp     = "->"
	opIff     = "<->"
	opNot     = "-"
	opEq      = "="
	opNeq     = "!="
	opAll     = "all"
	opExists  = "exists"
	trueAtom  = "$T"
	falseAtom = "$F"
)

// IsVariableName applies the input convention: names starting u..z are
// variables (or any uppercase start in Prolog-style mode).
func IsVariableName(name string, prologStyle bool) bool {
	if name == "" {
		return false
	}
	r := rune(name[0])
	if prologStyle {
		return unicode.IsUpper(r) || r == '_'
	}
	return r >= 'u' && r <= 'z'
}

// ToClauses lowers one expression to clauses. A top-level conjunction
// yields several clauses (so `p & q.` in a clause list reads as two).
func ToClauses(e *Expr, prologStyle bool) ([]*clause.Clause, error) {
	e, err := stripQuantifiers(e)
	if err != nil {
		return nil, err
	}
	var out []*clause.Clause
	for _, conj := range splitOn(e, opAnd) {
		c, err := exprToClause(conj, prologStyle)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func stripQuantifiers(e *Expr) (*Expr, error) {
	for {
		switch {
		case e.Is(opAll, 2):
			e = e.Args[1]
		case e.Is(opExists, 2):
			return nil, fmt.Errorf("formula needs Skolemization (exists); run it through the clausifier first")
		default:
			return e, nil
		}
	}
}

// splitOn flattens nested applications of a binary operator.
func splitOn(e *Expr, op string) []*Expr {
	if e.Is(op, 2) {
		return append(splitOn(e.Args[0], op), splitOn(e.Args[1], op)...)
	}
	return []*Expr{e}
}

// expandProp rewrites top-level implications into disjunctions, keeping the
// clause-shaped fragment closed. Equivalences are rejected with an error.
func expandProp(e *Expr) (*Expr, error) {
	switch {
	case e.Is(opImp, 2):
		l, err := expandProp(e.Args[0])
		if err != nil {
			return nil, err
		}
		r, err := expandProp(e.Args[1])
		if err != nil {
			return nil, err
		}
		return &Expr{Name: opOr, Args: []*Expr{negate(l), r}}, nil
	case e.Is(opIff, 2):
		return nil, fmt.Errorf("equivalence produces two clauses; run it through the clausifier first")
	default:
		return e, nil
	}
}

func negate(e *Expr) *Expr {
	if e.Is(opNot, 1) {
		return e.Args[0]
	}
	return &Expr{Name: opNot, Args: []*Expr{e}}
}

func exprToClause(e *Expr, prologStyle bool) (*clause.Clause, error) {
	e, err := expandProp(e)
	if err != nil {
		return nil, err
	}
	c := clause.New()
	vars := make(map[string]int)
	for _, d := range splitOn(e, opOr) {
		lit, err := exprToLiteral(d, vars, prologStyle)
		if err != nil {
			return nil, err
		}
		if lit != nil {
			c.Literals = append(c.Literals, lit)
		}
	}
	return c, nil
}

// exprToLiteral lowers one disjunct. The constant $F lowers to no literal at
// all, so a pure denial can be written explicitly.
func exprToLiteral(e *Expr, vars map[string]int, prologStyle bool) (*clause.Literal, error) {
	sign := true
	for e.Is(opNot, 1) {
		sign = !sign
		e = e.Args[0]
	}
	if e.Leaf() && e.Name == falseAtom && sign {
		return nil, nil
	}
	if e.Is(opNeq, 2) {
		eq := &Expr{Name: opEq, Args: e.Args}
		atom, err := exprToTerm(eq, vars, prologStyle)
		if err != nil {
			return nil, err
		}
		return &clause.Literal{Sign: !sign, Atom: atom}, nil
	}
	atom, err := exprToTerm(e, vars, prologStyle)
	if err != nil {
		return nil, err
	}
	if !atom.IsVar() {
		term.SetKind(atom.SymNum(), term.Predicate)
	}
	return &clause.Literal{Sign: sign, Atom: atom}, nil
}

func exprToTerm(e *Expr, vars map[string]int, prologStyle bool) (*term.Term, error) {
	if e.Leaf() {
		if IsVariableName(e.Name, prologStyle) {
			n, ok := vars[e.Name]
			if !ok {
				n = len(vars)
				vars[e.Name] = n
			}
			return term.Var(n), nil
		}
		return term.Const(term.Intern(e.Name, 0)), nil
	}
	if strings.ContainsAny(e.Name, "|&") || e.Name == opImp || e.Name == opIff {
		return nil, fmt.Errorf("connective %s nested under an atom", e.Name)
	}
	sym := term.Intern(e.Name, len(e.Args))
	args := make([]*term.Term, len(e.Args))
	for i, a := range e.Args {
		at, err := exprToTerm(a, vars, prologStyle)
		if err != nil {
			return nil, err
		}
		if !at.IsVar() {
			term.SetKind(at.SymNum(), term.Function)
		}
		args[i] = at
	}
	return term.App(sym, args...), nil
}
