package index

import (
	"strconv"
	"strings"

	"osprey/internal/fatal"
	"osprey/internal/term"
)

// Mode selects what relation the retrieved terms should stand in to the
// query. Retrieval is a prefilter: callers verify each candidate with the
// real unify or match and must tolerate false positives.
type Mode int

const (
	UnifyMode Mode = iota
	InstanceMode
	GeneralizationMode
)

// Entry is one indexed term with its owner's payload (typically the clause
// and literal the term sits in).
type Entry struct {
	T    *term.Term
	Data any
}

// FPA is a path index: every indexed term is filed under the path strings of
// its symbol occurrences down to a fixed depth, and retrieval intersects the
// buckets the query constrains.
type FPA struct {
	depth   int
	buckets map[string][]*Entry
	entries map[*term.Term]*Entry
}

// NewFPA returns an empty index with the given path depth. Depth 3 or 4 is
// plenty; deeper paths trade insertion cost for sharper filtering.
func NewFPA(depth int) *FPA {
	return &FPA{
		depth:   depth,
		buckets: make(map[string][]*Entry),
		entries: make(map[*term.Term]*Entry),
	}
}

// Insert files the term.
func (f *FPA) Insert(t *term.Term, data any) {
	e := &Entry{T: t, Data: data}
	f.entries[t] = e
	for _, p := range f.paths(t) {
		f.buckets[p] = append(f.buckets[p], e)
	}
}

// Delete unfiles the term. Deleting a term that is not indexed is an
// index-invariant violation.
func (f *FPA) Delete(t *term.Term) {
	e := f.entries[t]
	if e == nil {
		fatal.Fatal(fatal.ErrIndexCorrupt.New("fpa delete of unindexed term " + t.String()))
	}
	delete(f.entries, t)
	for _, p := range f.paths(t) {
		b := f.buckets[p]
		for i, x := range b {
			if x == e {
				f.buckets[p] = append(b[:i], b[i+1:]...)
				break
			}
		}
		if len(f.buckets[p]) == 0 {
			delete(f.buckets, p)
		}
	}
}

// Size returns the number of indexed terms.
func (f *FPA) Size() int { return len(f.entries) }

// paths enumerates the root-to-node path strings of t, cut at the index
// depth. A path ends early at a variable, marked "*".
func (f *FPA) paths(t *term.Term) []string {
	return f.buildPaths(t, false)
}

// queryPaths builds the constraint paths for a retrieval. Argument
// positions under a commutative or AC symbol are ambiguous, so the query
// stops constraining below such a symbol; the unifier sorts out the
// argument order on the retrieved candidates.
func (f *FPA) queryPaths(t *term.Term) []string {
	return f.buildPaths(t, term.HasTheorySymbols())
}

func (f *FPA) buildPaths(t *term.Term, cutAtTheory bool) []string {
	var out []string
	var rec func(t *term.Term, prefix string, depth int)
	rec = func(t *term.Term, prefix string, depth int) {
		if t.IsVar() {
			out = append(out, prefix+"*")
			return
		}
		p := prefix + term.Name(t.SymNum()) + "/" + strconv.Itoa(term.Arity(t.SymNum()))
		out = append(out, p)
		if depth == f.depth {
			return
		}
		if cutAtTheory && term.Sym(t.SymNum()).Theory != term.EmptyTheory {
			return
		}
		for i, a := range t.Args {
			rec(a, p+"."+strconv.Itoa(i)+":", depth+1)
		}
	}
	rec(t, "", 0)
	return out
}

// Retrieve returns candidate entries for the query under the mode.
func (f *FPA) Retrieve(q *term.Term, mode Mode) []*Entry {
	qpaths := f.queryPaths(q)

	// Variable-terminated query paths impose no constraint on the stored
	// term (any subterm there is acceptable in every mode).
	var constraints [][]*Entry
	for _, p := range qpaths {
		if strings.HasSuffix(p, "*") {
			continue
		}
		var bucket []*Entry
		bucket = append(bucket, f.buckets[p]...)
		if mode != InstanceMode {
			// A stored variable anywhere along the path also matches,
			// including a bare variable at the root.
			bucket = append(bucket, f.buckets["*"]...)
			for _, vp := range varPrefixes(p) {
				bucket = append(bucket, f.buckets[vp]...)
			}
		}
		constraints = append(constraints, bucket)
	}
	if len(constraints) == 0 {
		// Query is a variable (or all-variable): everything matches.
		out := make([]*Entry, 0, len(f.entries))
		for _, e := range f.entries {
			out = append(out, e)
		}
		return out
	}
	return intersect(constraints)
}

// varPrefixes returns the path keys a stored term with a variable somewhere
// along this path would have been filed under.
func varPrefixes(p string) []string {
	var out []string
	for i := 0; i < len(p); i++ {
		if p[i] == ':' {
			out = append(out, p[:i+1]+"*")
		}
	}
	return out
}

func intersect(lists [][]*Entry) []*Entry {
	counts := make(map[*Entry]int)
	for _, l := range lists {
		seen := make(map[*Entry]bool, len(l))
		for _, e := range l {
			if !seen[e] {
				seen[e] = true
				counts[e]++
			}
		}
	}
	var out []*Entry
	for e, n := range counts {
		if n == len(lists) {
			out = append(out, e)
		}
	}
	return out
}
