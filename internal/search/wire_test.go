package search

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osprey/internal/clause"
	"osprey/internal/term"
)

func TestWireRoundTrip(t *testing.T) {
	term.Reset()
	p := term.Intern("p", 1)
	f := term.Intern("f", 2)
	a := term.Intern("a", 0)

	// Symbols appended after the mark travel with the stream.
	term.Mark()
	sk := term.Fresh("c", 0)
	term.SetSkolem(sk)

	c1 := clause.New(clause.Pos(term.App(p, term.App(f, term.Const(a), term.Var(0)))))
	c1.ID = 1
	c1.Weight = 4.25
	c1.Just = clause.Just{{Kind: clause.InputStep}}

	c2 := clause.New(clause.Neg(term.App(p, term.Const(sk))))
	c2.ID = 2
	c2.Just = clause.Just{{Kind: clause.DenyStep, Data: []int{1}}}

	empty := clause.New()
	empty.ID = 3
	empty.Just = clause.Just{{Kind: clause.BinaryResStep, Data: []int{2, 0, 1, 0}}}

	res := &Results{
		Proofs:   []Proof{{Clauses: []*clause.Clause{c1, c2, empty}, Length: 3, MaxWeight: 4.25}},
		Stats:    Stats{Given: 7, Generated: 19, Kept: 5, Proofs: 1},
		ExitCode: ExitMaxProofs,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, term.SinceMark(), res, 120, 30))

	got, userMs, sysMs := ReadResults(&buf)
	assert.Equal(t, int32(120), userMs)
	assert.Equal(t, int32(30), sysMs)
	assert.Equal(t, ExitMaxProofs, got.ExitCode)
	assert.Equal(t, 7, got.Stats.Given)
	assert.Equal(t, 19, got.Stats.Generated)
	assert.Equal(t, 5, got.Stats.Kept)

	require.Len(t, got.Proofs, 1)
	proof := got.Proofs[0]
	require.Len(t, proof.Clauses, 3)

	r1 := proof.Clauses[0]
	assert.Equal(t, 1, r1.ID)
	assert.Equal(t, 4.25, r1.Weight)
	assert.True(t, r1.Literals[0].Atom.Equal(c1.Literals[0].Atom), "terms survive the round trip")
	assert.Equal(t, c1.Just, r1.Just)

	r3 := proof.Clauses[2]
	assert.True(t, r3.IsEmpty())
	assert.Equal(t, []int{2, 0, 1, 0}, r3.Just[0].Data)
}

func TestWireReinternsNewSymbols(t *testing.T) {
	term.Reset()
	p := term.Intern("p", 1)
	term.Mark()
	nu := term.Intern("zz_child_only", 0)

	c := clause.New(clause.Pos(term.App(p, term.Const(nu))))
	c.ID = 1
	res := &Results{
		Proofs:   []Proof{{Clauses: []*clause.Clause{c}, Length: 1}},
		ExitCode: ExitSosEmpty,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, term.SinceMark(), res, 0, 0))

	// A fresh table stands in for the parent process: it has p plus an
	// extra symbol, so the child's constant lands on a different number
	// and must be remapped.
	term.Reset()
	term.Intern("p", 1)
	term.Intern("q", 1)

	got, _, _ := ReadResults(&buf)
	atom := got.Proofs[0].Clauses[0].Literals[0].Atom
	assert.Equal(t, "zz_child_only", term.Name(atom.Args[0].SymNum()))
}
