// Package unify implements syntactic unification and matching over contexts,
// with trail-based undo, plus backtracking variants for symbols that carry a
// commutative or associative-commutative theory.
//
// A Context is a substitution frame: it maps variable numbers of one variable
// space to (term, context) pairs. Keeping the originating context with every
// binding lets two clauses with overlapping variable numbers unify without
// renaming, the way the original LADR contexts work. A Trail records bindings
// so any failure path can restore the exact previous state.
package unify

import (
	"osprey/internal/term"
)

// maxVars bounds the variable numbers a single clause may use. Apply relies
// on it to keep different contexts' unbound variables apart.
const maxVars = term.MaxVars

type binding struct {
	t *term.Term
	c *Context
}

// Context is a substitution frame for one variable space. Contexts are cheap;
// retrievals allocate one, use it, and drop it.
type Context struct {
	bind [maxVars]binding

	// multiplier distinguishes this context's variable space when unbound
	// variables survive into an applied term.
	multiplier int
}

var nextMultiplier int

// NewContext returns a fresh context with a distinct multiplier.
func NewContext() *Context {
	nextMultiplier++
	return &Context{multiplier: nextMultiplier}
}

// Binding returns the binding of variable v, or nil if unbound.
func (c *Context) Binding(v int) (*term.Term, *Context) {
	b := c.bind[v]
	return b.t, b.c
}

// Bound reports whether v is bound in c.
func (c *Context) Bound(v int) bool { return c.bind[v].t != nil }

// Trail is a stack of bindings to undo, newest first.
type Trail struct {
	v    int
	c    *Context
	prev *Trail
}

// push binds v in c and records the binding on the trail.
func push(tr *Trail, c *Context, v int, t *term.Term, tc *Context) *Trail {
	c.bind[v] = binding{t, tc}
	return &Trail{v: v, c: c, prev: tr}
}

// Undo unbinds everything on the trail, newest first, and returns nil so
// callers can write tr = unify.Undo(tr).
func Undo(tr *Trail) *Trail {
	for tr != nil {
		tr.c.bind[tr.v] = binding{}
		tr = tr.prev
	}
	return nil
}

// UndoTo unbinds back to (but not including) the stop mark, which must be a
// tail of tr. Passing nil undoes everything.
func UndoTo(tr, stop *Trail) *Trail {
	for tr != stop {
		tr.c.bind[tr.v] = binding{}
		tr = tr.prev
	}
	return stop
}

// Deref chases variable bindings until it reaches an application or an
// unbound variable, returning the term with its context.
func Deref(t *term.Term, c *Context) (*term.Term, *Context) {
	for c != nil && t.IsVar() {
		bt, bc := c.Binding(t.VarNum())
		if bt == nil {
			return t, c
		}
		t, c = bt, bc
	}
	return t, c
}

// Apply instantiates t under c, building a fresh term. Unbound variables are
// renumbered into the context's own space so that instances from different
// contexts never collide; clause normalisation brings them back down.
func Apply(t *term.Term, c *Context) *term.Term {
	t, c = Deref(t, c)
	if t.IsVar() {
		if c == nil {
			return term.Var(t.VarNum())
		}
		return term.Var(t.VarNum() + c.multiplier*maxVars)
	}
	args := make([]*term.Term, len(t.Args))
	for i, a := range t.Args {
		args[i] = Apply(a, c)
	}
	return term.App(t.SymNum(), args...)
}

// ApplySubstitute is Apply, except that the subterm at position pos in t is
// replaced by the application of repl under replC. Paramodulation uses it to
// build the paramodulant's into-literal in one pass.
func ApplySubstitute(t *term.Term, c *Context, pos []int, repl *term.Term, replC *Context) *term.Term {
	if len(pos) == 0 {
		return Apply(repl, replC)
	}
	// The position addresses the unreduced term, so descend before
	// dereferencing.
	args := make([]*term.Term, len(t.Args))
	for i, a := range t.Args {
		if i == pos[0] {
			args[i] = ApplySubstitute(a, c, pos[1:], repl, replC)
		} else {
			args[i] = Apply(a, c)
		}
	}
	return term.App(t.SymNum(), args...)
}
