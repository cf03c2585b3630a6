// Package clause defines literals, clauses, justifications, clause lists,
// and the feature vectors used by subsumption indexing.
package clause

import (
	"strings"

	"osprey/internal/term"
)

// Reserved symbol names. eqName is the equality predicate; the parser maps
// `a != b` to a negated equality.
const (
	eqName    = "="
	falseName = "$F"
	trueName  = "$T"
)

// EqSym interns and returns the equality symbol.
func EqSym() int {
	n := term.Intern(eqName, 2)
	term.SetKind(n, term.Predicate)
	return n
}

// FalseSym interns and returns the propositional-false symbol.
func FalseSym() int {
	n := term.Intern(falseName, 0)
	term.SetKind(n, term.Predicate)
	return n
}

// Literal is a signed atom.
type Literal struct {
	Sign bool
	Atom *term.Term
}

// Pos and Neg build literals.
func Pos(atom *term.Term) *Literal { return &Literal{Sign: true, Atom: atom} }
func Neg(atom *term.Term) *Literal { return &Literal{Sign: false, Atom: atom} }

// IsEq reports whether the literal's atom is an equality.
func (l *Literal) IsEq() bool {
	return !l.Atom.IsVar() && l.Atom.SymNum() == EqSym()
}

// IsPosEq reports a positive equality, the shape paramodulation reads from.
func (l *Literal) IsPosEq() bool { return l.Sign && l.IsEq() }

// EqSides returns the two sides of an equality atom.
func (l *Literal) EqSides() (alpha, beta *term.Term) {
	return l.Atom.Args[0], l.Atom.Args[1]
}

// Flip returns the literal with its equality arguments swapped.
func (l *Literal) Flip() *Literal {
	a, b := l.EqSides()
	return &Literal{Sign: l.Sign, Atom: term.App(l.Atom.SymNum(), b, a)}
}

// IsFalse reports the trivially false atom $F (with positive sign) or a
// negated $T.
func (l *Literal) IsFalse() bool {
	if l.Atom.IsVar() {
		return false
	}
	name := term.Name(l.Atom.SymNum())
	return (l.Sign && name == falseName) || (!l.Sign && name == trueName)
}

// IsTrue reports $T or negated $F.
func (l *Literal) IsTrue() bool {
	if l.Atom.IsVar() {
		return false
	}
	name := term.Name(l.Atom.SymNum())
	return (l.Sign && name == trueName) || (!l.Sign && name == falseName)
}

// Equal is syntactic identity including sign.
func (l *Literal) Equal(m *Literal) bool {
	return l.Sign == m.Sign && l.Atom.Equal(m.Atom)
}

// Copy deep-copies the literal, dropping flags.
func (l *Literal) Copy() *Literal {
	return &Literal{Sign: l.Sign, Atom: l.Atom.Copy()}
}

// Maximal reports the maximal-literal mark on the atom.
func (l *Literal) Maximal() bool { return l.Atom.HasFlag(term.FlagMaximal) }

func (l *Literal) String() string {
	var b strings.Builder
	l.write(&b)
	return b.String()
}

func (l *Literal) write(b *strings.Builder) {
	if l.IsEq() {
		alpha, beta := l.EqSides()
		op := "="
		if !l.Sign {
			op = "!="
		}
		b.WriteString(alpha.String())
		b.WriteString(" " + op + " ")
		b.WriteString(beta.String())
		return
	}
	if !l.Sign {
		b.WriteByte('-')
	}
	b.WriteString(l.Atom.String())
}
