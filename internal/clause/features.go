package clause

import (
	"sort"

	"osprey/internal/term"
)

// Features is the integer fingerprint used by the feature-vector subsumption
// index. If clause A subsumes clause B then Features(A) <= Features(B)
// pointwise, so subset retrieval over the vectors is a sound prefilter.
type Features []int

// FeatureSet fixes the symbols a vector is computed over. It is snapshotted
// when the index is built; symbols interned later contribute nothing, which
// is sound because absent symbols count zero on both sides.
type FeatureSet struct {
	preds []int
	funcs []int
}

// NewFeatureSet snapshots the current predicate and function symbols.
func NewFeatureSet() *FeatureSet {
	fs := &FeatureSet{}
	term.Symbols(func(s *term.Symbol) {
		switch s.Kind {
		case term.Predicate:
			fs.preds = append(fs.preds, s.Num)
		case term.Function:
			fs.funcs = append(fs.funcs, s.Num)
		}
	})
	sort.Ints(fs.preds)
	sort.Ints(fs.funcs)
	return fs
}

// Length is the vector length this set produces.
func (fs *FeatureSet) Length() int {
	return 2 + 2*len(fs.preds) + 2*len(fs.funcs)
}

// Compute builds the vector for a literal list: positive and negative literal
// counts, per-predicate positive/negative occurrences, and per-function
// maximum depths in positive/negative literals.
func (fs *FeatureSet) Compute(lits []*Literal) Features {
	v := make(Features, fs.Length())
	predIdx := make(map[int]int, len(fs.preds))
	for i, p := range fs.preds {
		predIdx[p] = 2 + 2*i
	}
	funcIdx := make(map[int]int, len(fs.funcs))
	for i, f := range fs.funcs {
		funcIdx[f] = 2 + 2*len(fs.preds) + 2*i
	}

	for _, l := range lits {
		signOff := 0
		if !l.Sign {
			signOff = 1
		}
		v[signOff]++
		if !l.Atom.IsVar() {
			if idx, ok := predIdx[l.Atom.SymNum()]; ok {
				v[idx+signOff]++
			}
		}
		l.Atom.Walk(func(t *term.Term, pos []int) bool {
			if t.IsVar() {
				return true
			}
			if idx, ok := funcIdx[t.SymNum()]; ok {
				if d := len(pos); d > v[idx+signOff] {
					v[idx+signOff] = d
				}
			}
			return true
		})
	}
	return v
}

// LessEq is the pointwise comparison subset retrieval relies on.
func (f Features) LessEq(g Features) bool {
	if len(f) != len(g) {
		return false
	}
	for i := range f {
		if f[i] > g[i] {
			return false
		}
	}
	return true
}
