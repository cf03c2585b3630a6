// Package search implements the given-clause saturation loop: clause
// processing, limbo back-simplification, given selection, proof emission,
// statistics, resource limits, and the optional forking front end.
package search

import (
	"io"
	"os"
	"time"

	"github.com/tliron/commonlog"

	"osprey/internal/clause"
	"osprey/internal/demod"
	"osprey/internal/fatal"
	"osprey/internal/index"
	"osprey/internal/infer"
	"osprey/internal/interp"
	"osprey/internal/options"
	"osprey/internal/subsume"
	"osprey/internal/term"
)

// Exit codes, one per termination cause.
const (
	ExitMaxProofs  = 0
	ExitFatal      = 1
	ExitSosEmpty   = 2
	ExitMaxMegs    = 3
	ExitMaxSeconds = 4
	ExitMaxGiven   = 5
	ExitMaxKept    = 6
	ExitAction     = 7
	ExitSigint     = 101
	ExitSigsegv    = 102
)

// ExitString names an exit code in the termination banner.
func ExitString(code int) string {
	switch code {
	case ExitMaxProofs:
		return "max_proofs"
	case ExitFatal:
		return "fatal_error"
	case ExitSosEmpty:
		return "sos_empty"
	case ExitMaxMegs:
		return "max_megs"
	case ExitMaxSeconds:
		return "max_seconds"
	case ExitMaxGiven:
		return "max_given"
	case ExitMaxKept:
		return "max_kept"
	case ExitAction:
		return "action"
	case ExitSigint:
		return "SIGINT"
	case ExitSigsegv:
		return "SIGSEGV"
	default:
		return "unknown"
	}
}

// Input is the prover input the collaborators hand the core: the clause
// lists plus the option store and auxiliary rule text.
type Input struct {
	Opts *options.Store

	Usable       []*clause.Clause
	Sos          []*clause.Clause
	Demodulators []*clause.Clause
	Goals        []*clause.Clause
	Hints        []*clause.Clause

	Interp *interp.Interp

	SelectorRules []string // given_selection items, raw
	ActionRules   []string // actions items, raw
	KeepRules     []*clause.Clause
	DeleteRules   []*clause.Clause

	// WeightOverrides maps interned symbol numbers to weights.
	WeightOverrides map[int]float64
}

// Results is what a finished search returns.
type Results struct {
	Proofs   []Proof
	Stats    Stats
	ExitCode int
}

// Proof is one derivation of the empty clause: the ancestry in id order.
type Proof struct {
	Clauses   []*clause.Clause
	Length    int
	MaxWeight float64
}

// State is the complete search state. It is exclusively owned by one search;
// only the symbol table and the option store are process-wide.
type State struct {
	Opts *options.Store
	In   *Input

	Usable   *clause.Clist
	Sos      *clause.Clist
	Demods   *clause.Clist
	Hints    *clause.Clist
	Limbo    *clause.Clist
	Disabled *clause.Clist
	Goals    *clause.Clist

	nextID int
	byID   map[int]*clause.Clause

	// Inference indexes (usable clauses).
	clash  *index.Lindex // all literals, for resolution
	fromIx *index.FPA    // equality sides, paramod from
	intoIx *index.FPA    // non-variable subterms, paramod into

	// Simplification indexes (usable + sos).
	units      *index.Lindex         // unit atoms, unify retrieval
	unitsMatch *index.DiscrimLindex  // unit atoms, match retrieval
	nonunit    *subsume.NonUnitIndex // non-unit clauses
	backIx     *index.FPA            // all non-variable subterms, back demod
	demodIx    *demod.Index

	hintIx      *subsume.NonUnitIndex // hints
	hintDegrade map[*clause.Clause]int

	selectors   *Selectors
	interp      *interp.Interp
	actions     []*actionRule
	keepRules   []*clause.Clause
	deleteRules []*clause.Clause

	limboQueue []*clause.Clause

	stats     Stats
	startTime time.Time

	empties []*clause.Clause
	proofs  []Proof

	initialSos bool // processing the input sos, before the first given

	Out io.Writer
	log commonlog.Logger
}

// fpaDepth is the path-index depth used throughout.
const fpaDepth = 4

// errOut is swapped out by tests that assert on warnings.
var errOut io.Writer = os.Stderr

// NewState builds a fresh search state over an input.
func NewState(in *Input) *State {
	s := &State{
		Opts:     in.Opts,
		In:       in,
		Usable:   clause.NewClist("usable"),
		Sos:      clause.NewClist("sos"),
		Demods:   clause.NewClist("demodulators"),
		Hints:    clause.NewClist("hints"),
		Limbo:    clause.NewClist("limbo"),
		Disabled: clause.NewClist("disabled"),
		Goals:    clause.NewClist("goals"),

		byID: make(map[int]*clause.Clause),

		clash:  index.NewLindex(fpaDepth),
		fromIx: index.NewFPA(fpaDepth),
		intoIx: index.NewFPA(fpaDepth),

		units:      index.NewLindex(fpaDepth),
		unitsMatch: index.NewDiscrimLindex(),
		backIx:     index.NewFPA(fpaDepth),
		demodIx:    demod.NewIndex(),

		hintDegrade: make(map[*clause.Clause]int),

		interp:      in.Interp,
		keepRules:   in.KeepRules,
		deleteRules: in.DeleteRules,

		startTime: time.Now(),
		Out:       os.Stdout,
		log:       commonlog.GetLogger("osprey.search"),
	}
	return s
}

// ByID resolves a kept clause id; disabled clauses still resolve.
func (s *State) ByID(id int) *clause.Clause { return s.byID[id] }

// assignID gives a clause the next id and registers it. Ids are strictly
// monotone in keep order.
func (s *State) assignID(c *clause.Clause) {
	if c.ID != 0 {
		return
	}
	s.nextID++
	c.ID = s.nextID
	s.byID[c.ID] = c
}

// NextID exposes the id counter for the loop invariants.
func (s *State) NextID() int { return s.nextID + 1 }

// indexForInference files a clause in the usable-side indexes.
func (s *State) indexForInference(c *clause.Clause) {
	for i, l := range c.Literals {
		s.clash.Insert(l.Sign, l.Atom, infer.LitRef{C: c, Idx: i})
		if l.IsPosEq() {
			alpha, beta := l.EqSides()
			oriented := l.Atom.HasFlag(term.FlagOriented)
			s.fromIx.Insert(alpha, infer.FromRef{C: c, Idx: i})
			if !oriented {
				s.fromIx.Insert(beta, infer.FromRef{C: c, Idx: i, RL: true})
			}
		}
		s.indexSubterms(s.intoIx, c, i)
	}
}

func (s *State) unindexForInference(c *clause.Clause) {
	for i, l := range c.Literals {
		s.clash.Delete(l.Sign, l.Atom)
		if l.IsPosEq() {
			alpha, beta := l.EqSides()
			oriented := l.Atom.HasFlag(term.FlagOriented)
			s.fromIx.Delete(alpha)
			if !oriented {
				s.fromIx.Delete(beta)
			}
		}
		s.unindexSubterms(s.intoIx, c, i)
	}
}

// indexSubterms files every non-variable proper subterm position of literal
// i in the given FPA index.
func (s *State) indexSubterms(fpa *index.FPA, c *clause.Clause, i int) {
	l := c.Literals[i]
	l.Atom.Walk(func(sub *term.Term, pos []int) bool {
		if len(pos) == 0 || sub.IsVar() {
			return true
		}
		fpa.Insert(sub, infer.IntoRef{C: c, Idx: i, Pos: append([]int(nil), pos...)})
		return true
	})
}

func (s *State) unindexSubterms(fpa *index.FPA, c *clause.Clause, i int) {
	l := c.Literals[i]
	l.Atom.Walk(func(sub *term.Term, pos []int) bool {
		if len(pos) == 0 || sub.IsVar() {
			return true
		}
		fpa.Delete(sub)
		return true
	})
}

// indexForSimplification files a kept clause in the retained-set indexes.
func (s *State) indexForSimplification(c *clause.Clause) {
	if c.IsUnit() {
		l := c.Literals[0]
		s.units.Insert(l.Sign, l.Atom, c)
		s.unitsMatch.Insert(l.Sign, l.Atom, c)
	} else {
		s.ensureNonUnitIndex()
		s.nonunit.Insert(c)
	}
	for i := range c.Literals {
		s.indexSubterms(s.backIx, c, i)
	}
}

func (s *State) unindexForSimplification(c *clause.Clause) {
	if c.IsUnit() {
		l := c.Literals[0]
		s.units.Delete(l.Sign, l.Atom)
		s.unitsMatch.Delete(l.Sign, l.Atom)
	} else if s.nonunit != nil && s.nonunit.Member(c) {
		s.nonunit.Delete(c)
	}
	for i := range c.Literals {
		s.unindexSubterms(s.backIx, c, i)
	}
}

// ensureNonUnitIndex builds the feature-vector index lazily, after the input
// has interned its symbols, so the feature snapshot covers them.
func (s *State) ensureNonUnitIndex() {
	if s.nonunit == nil {
		s.nonunit = subsume.NewNonUnitIndex()
	}
}

// Disable removes a clause from every index and list and moves it to
// Disabled. The id and justification survive for proof reconstruction.
func (s *State) Disable(c *clause.Clause) {
	if s.Limbo.Member(c) {
		fatal.Fatal(fatal.ErrBackSubsumeLimbo.New(c.ID))
	}
	if s.Usable.Member(c) {
		s.unindexForInference(c)
		s.unindexForSimplification(c)
		s.Usable.Remove(c)
	}
	if s.Sos.Member(c) {
		s.unindexForSimplification(c)
		s.selectors.Remove(c)
		s.Sos.Remove(c)
	}
	if s.Demods.Member(c) {
		s.demodIx.Delete(c)
		s.Demods.Remove(c)
	}
	s.Disabled.Append(c)
}

// NonUnitIndex exposes the subsumption index for the invariant checks.
func (s *State) NonUnitIndex() *subsume.NonUnitIndex {
	s.ensureNonUnitIndex()
	return s.nonunit
}
