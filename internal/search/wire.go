package search

import (
	"encoding/binary"
	"io"
	"math"

	"osprey/internal/clause"
	"osprey/internal/fatal"
	"osprey/internal/term"
)

// The child-to-parent wire format: a length-prefixed sequence of 32-bit
// little-endian signed ints. Layout:
//
//	n_new_symbols
//	  (symnum, arity, name_len, name_byte*)*
//	n_proofs
//	  (n_clauses, serialised_clause*)*
//	n_stats, stats_int*
//	user_ms, system_ms, exit_code
//
// A serialised clause is id, is_formula, weight_hi, weight_lo (the IEEE-754
// bits split in two), n_just, (kind, n_data, data*)*, n_literals,
// (sign, term)*. A serialised term uses negative ints for variables
// (-(varnum+1)) and otherwise a symbol number followed by its arity's worth
// of child terms. The parent re-interns new symbols before deserialising.

type wireWriter struct {
	w   io.Writer
	err error
}

func (ww *wireWriter) putInt(v int32) {
	if ww.err != nil {
		return
	}
	ww.err = binary.Write(ww.w, binary.LittleEndian, v)
}

func (ww *wireWriter) putInts(vs ...int32) {
	for _, v := range vs {
		ww.putInt(v)
	}
}

func (ww *wireWriter) putString(s string) {
	ww.putInt(int32(len(s)))
	for i := 0; i < len(s); i++ {
		ww.putInt(int32(s[i]))
	}
}

func (ww *wireWriter) putTerm(t *term.Term) {
	if t.IsVar() {
		ww.putInt(int32(-(t.VarNum() + 1)))
		return
	}
	ww.putInt(int32(t.SymNum()))
	for _, a := range t.Args {
		ww.putTerm(a)
	}
}

func (ww *wireWriter) putClause(c *clause.Clause) {
	isFormula := int32(0)
	if c.IsFormula {
		isFormula = 1
	}
	bits := math.Float64bits(c.Weight)
	ww.putInts(int32(c.ID), isFormula, int32(bits>>32), int32(bits))

	ww.putInt(int32(len(c.Just)))
	for _, step := range c.Just {
		ww.putInt(int32(step.Kind))
		ww.putInt(int32(len(step.Data)))
		for _, d := range step.Data {
			ww.putInt(int32(d))
		}
	}

	ww.putInt(int32(len(c.Literals)))
	for _, l := range c.Literals {
		sign := int32(0)
		if l.Sign {
			sign = 1
		}
		ww.putInt(sign)
		ww.putTerm(l.Atom)
	}
}

// WriteResults streams a finished child search to the parent.
func WriteResults(w io.Writer, newSymbols []*term.Symbol, res *Results, userMs, systemMs int32) error {
	ww := &wireWriter{w: w}

	ww.putInt(int32(len(newSymbols)))
	for _, sym := range newSymbols {
		ww.putInts(int32(sym.Num), int32(sym.Arity))
		ww.putString(sym.Name)
	}

	ww.putInt(int32(len(res.Proofs)))
	for _, p := range res.Proofs {
		ww.putInt(int32(len(p.Clauses)))
		for _, c := range p.Clauses {
			ww.putClause(c)
		}
	}

	stats := res.Stats.Ints()
	ww.putInt(int32(len(stats)))
	ww.putInts(stats...)

	ww.putInts(userMs, systemMs, int32(res.ExitCode))
	return ww.err
}

type wireReader struct {
	r      io.Reader
	symMap map[int32]int
}

func (wr *wireReader) getInt() int32 {
	var v int32
	if err := binary.Read(wr.r, binary.LittleEndian, &v); err != nil {
		fatal.Fatal(fatal.ErrWireShort.New("read"))
	}
	return v
}

func (wr *wireReader) getString() string {
	n := wr.getInt()
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(wr.getInt())
	}
	return string(b)
}

func (wr *wireReader) getTerm() *term.Term {
	v := wr.getInt()
	if v < 0 {
		return term.Var(int(-v) - 1)
	}
	sym, ok := wr.symMap[v]
	if !ok {
		sym = int(v)
	}
	args := make([]*term.Term, term.Arity(sym))
	for i := range args {
		args[i] = wr.getTerm()
	}
	return term.App(sym, args...)
}

func (wr *wireReader) getClause() *clause.Clause {
	c := clause.New()
	c.ID = int(wr.getInt())
	c.IsFormula = wr.getInt() != 0
	hi, lo := uint64(uint32(wr.getInt())), uint64(uint32(wr.getInt()))
	c.Weight = math.Float64frombits(hi<<32 | lo)

	nJust := wr.getInt()
	for i := int32(0); i < nJust; i++ {
		kind := clause.StepKind(wr.getInt())
		nData := wr.getInt()
		var data []int
		if nData > 0 {
			data = make([]int, nData)
		}
		for j := range data {
			data[j] = int(wr.getInt())
		}
		c.Just = append(c.Just, clause.Step{Kind: kind, Data: data})
	}

	nLits := wr.getInt()
	for i := int32(0); i < nLits; i++ {
		sign := wr.getInt() != 0
		c.Literals = append(c.Literals, &clause.Literal{Sign: sign, Atom: wr.getTerm()})
	}
	return c
}

// ReadResults decodes a child's stream, re-interning its new symbols first
// so symbol numbers line up in the parent.
func ReadResults(r io.Reader) (*Results, int32, int32) {
	wr := &wireReader{r: r, symMap: make(map[int32]int)}

	nSyms := wr.getInt()
	for i := int32(0); i < nSyms; i++ {
		childNum := wr.getInt()
		arity := wr.getInt()
		name := wr.getString()
		wr.symMap[childNum] = term.Intern(name, int(arity))
	}

	res := &Results{}
	nProofs := wr.getInt()
	for i := int32(0); i < nProofs; i++ {
		nClauses := wr.getInt()
		p := Proof{Length: int(nClauses)}
		for j := int32(0); j < nClauses; j++ {
			c := wr.getClause()
			if c.Weight > p.MaxWeight {
				p.MaxWeight = c.Weight
			}
			p.Clauses = append(p.Clauses, c)
		}
		res.Proofs = append(res.Proofs, p)
	}

	nStats := wr.getInt()
	stats := make([]int32, nStats)
	for i := range stats {
		stats[i] = wr.getInt()
	}
	res.Stats = FromStatsInts(stats)

	userMs := wr.getInt()
	systemMs := wr.getInt()
	res.ExitCode = int(wr.getInt())
	return res, userMs, systemMs
}
