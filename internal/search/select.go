package search

import (
	"math"

	"osprey/grammar"
	"osprey/internal/clause"
	"osprey/internal/fatal"
	"osprey/internal/index"
)

// Selector orders. Weight order breaks ties by id; random order is a
// deterministic shuffle keyed by id so runs are reproducible.
const (
	orderWeight = iota
	orderAge
	orderRandom
)

type selector struct {
	name     string
	high     bool
	order    int
	property string
	prop     func(*State, *clause.Clause) bool
	part     int // -1 = all
	tree     *index.Avl[*clause.Clause]

	selected int // taken in the current rotation slot
}

// Selectors is the SOS scheduling state: high-priority selectors drain
// before low-priority ones, in rule order and without rotation (their
// parts are not consulted); the low-priority selectors rotate, each taking
// `part` picks per cycle.
type Selectors struct {
	high []*selector
	low  []*selector

	lowCursor int // rotation position in low
	lowTaken  int
}

func cmpFor(ord int) func(a, b *clause.Clause) int {
	switch ord {
	case orderAge:
		return func(a, b *clause.Clause) int { return a.ID - b.ID }
	case orderRandom:
		return func(a, b *clause.Clause) int {
			ha, hb := scramble(a.ID), scramble(b.ID)
			if ha != hb {
				if ha < hb {
					return -1
				}
				return 1
			}
			return a.ID - b.ID
		}
	default:
		return func(a, b *clause.Clause) int {
			switch {
			case a.Weight < b.Weight:
				return -1
			case a.Weight > b.Weight:
				return 1
			default:
				return a.ID - b.ID
			}
		}
	}
}

// scramble is a fixed integer hash; it stands in for a seeded RNG so the
// "random" order is stable across runs and processes.
func scramble(id int) uint64 {
	x := uint64(id) * 0x9E3779B97F4A7C15
	x ^= x >> 32
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 29
	return x
}

func propFor(name string) func(*State, *clause.Clause) bool {
	switch name {
	case "initial":
		return func(_ *State, c *clause.Clause) bool { return c.Initial }
	case "false":
		return func(_ *State, c *clause.Clause) bool { return c.Semantics == clause.SemFalse }
	case "true":
		return func(_ *State, c *clause.Clause) bool {
			return c.Semantics == clause.SemTrue || c.Semantics == clause.SemNotEvaluable
		}
	case "hint":
		return func(_ *State, c *clause.Clause) bool { return c.MatchesHint }
	default: // "all"
		return func(*State, *clause.Clause) bool { return true }
	}
}

func newSelector(name string, high bool, ord int, property string, part int) *selector {
	return &selector{
		name:     name,
		high:     high,
		order:    ord,
		property: property,
		prop:     propFor(property),
		part:     part,
		tree:     index.NewAvl(cmpFor(ord)),
	}
}

// buildSelectors compiles the selection schedule: user given_selection rules
// if present, otherwise the defaults driven by the part parms.
func (s *State) buildSelectors() {
	sel := &Selectors{}

	add := func(x *selector) {
		if x.high {
			sel.high = append(sel.high, x)
		} else {
			sel.low = append(sel.low, x)
		}
	}

	if len(s.In.SelectorRules) > 0 {
		for _, src := range s.In.SelectorRules {
			r, err := grammar.ParseSelectorRule(src)
			if err != nil {
				fatal.Fatalf("given_selection: %v", err)
			}
			part := -1
			if !r.Part.All {
				part = r.Part.Count
			}
			ord := orderWeight
			switch r.Order {
			case "age":
				ord = orderAge
			case "random":
				ord = orderRandom
			}
			add(newSelector(r.Name, r.Priority == "high", ord, r.Property, part))
		}
	} else {
		if s.Opts.Flag("input_sos_first") {
			add(newSelector("I", true, orderAge, "initial", -1))
		}
		if p := s.Opts.Parm("hints_part"); p > 0 {
			part := p
			if p == math.MaxInt32 {
				part = -1
			}
			add(newSelector("H", true, orderWeight, "hint", part))
		}
		if p := s.Opts.Parm("age_part"); p > 0 {
			add(newSelector("A", false, orderAge, "all", p))
		}
		if p := s.Opts.Parm("weight_part"); p > 0 {
			add(newSelector("W", false, orderWeight, "all", p))
		}
		if p := s.Opts.Parm("false_part"); p > 0 {
			add(newSelector("F", false, orderWeight, "false", p))
		}
		if p := s.Opts.Parm("true_part"); p > 0 {
			add(newSelector("T", false, orderWeight, "true", p))
		}
		if p := s.Opts.Parm("random_part"); p > 0 {
			add(newSelector("R", false, orderRandom, "all", p))
		}
	}
	s.selectors = sel
}

// Insert files a clause in every selector whose property it satisfies.
func (sel *Selectors) Insert(s *State, c *clause.Clause) {
	for _, x := range append(append([]*selector(nil), sel.high...), sel.low...) {
		if x.prop(s, c) {
			x.tree.Insert(c)
		}
	}
}

// Remove unfiles a clause from every selector holding it.
func (sel *Selectors) Remove(c *clause.Clause) {
	for _, x := range append(append([]*selector(nil), sel.high...), sel.low...) {
		x.tree.Remove(c)
	}
}

// SelectGiven picks the next given clause, or nil when SOS is exhausted.
// High selectors are drained first in order; low selectors rotate by ratio.
func (sel *Selectors) SelectGiven() (*clause.Clause, string) {
	for _, x := range sel.high {
		if c, ok := x.tree.Smallest(); ok {
			return c, x.name
		}
	}
	n := len(sel.low)
	if n == 0 {
		return nil, ""
	}
	for tried := 0; tried < n; tried++ {
		x := sel.low[sel.lowCursor]
		if !x.tree.Empty() && (x.part < 0 || sel.lowTaken < x.part) {
			c, _ := x.tree.Smallest()
			sel.lowTaken++
			if x.part >= 0 && sel.lowTaken >= x.part {
				sel.advanceLow()
			}
			return c, x.name
		}
		sel.advanceLow()
	}
	return nil, ""
}

func (sel *Selectors) advanceLow() {
	sel.lowCursor = (sel.lowCursor + 1) % len(sel.low)
	sel.lowTaken = 0
}

// cycleSize is the total of parts over nonempty low selectors; it scales
// the iterations-to-selection estimate.
func (sel *Selectors) cycleSize() int {
	sum := 0
	for _, x := range sel.low {
		if !x.tree.Empty() && x.part > 0 {
			sum += x.part
		}
	}
	if sum == 0 {
		return 1
	}
	return sum
}

// iterationsToSelection estimates how many given-selection rounds pass
// before c would surface: its best rank across selectors, scaled by the
// rotation ratio.
func (sel *Selectors) iterationsToSelection(s *State, c *clause.Clause) int {
	best := math.MaxInt32
	cycle := sel.cycleSize()
	for _, x := range sel.low {
		if x.part <= 0 || !x.prop(s, c) {
			continue
		}
		rank := x.tree.InsertionRank(c)
		est := rank * cycle / x.part
		if est < best {
			best = est
		}
	}
	for _, x := range sel.high {
		if x.prop(s, c) {
			return 0 // high-priority clauses surface immediately
		}
	}
	return best
}

// sosKeep decides whether a new clause is worth keeping under the soft SOS
// limit: clauses that would not be selected within the limit's horizon are
// discarded up front.
func (s *State) sosKeep(c *clause.Clause) bool {
	limit := s.Opts.Parm("sos_limit")
	if limit < 0 {
		return true
	}
	if c.MatchesHint {
		return true
	}
	keepFactor := s.Opts.Parm("sos_keep_factor")
	return s.selectors.iterationsToSelection(s, c) <= limit/keepFactor
}

// sosDisplace makes room when SOS overflows: the clause furthest from
// selection in the largest low selector is disabled. Hint matchers are never
// displaced.
func (s *State) sosDisplace() {
	var worst *clause.Clause
	var worstEst int
	var largest *selector
	for _, x := range s.selectors.low {
		if x.property == "hint" {
			continue
		}
		if largest == nil || x.tree.Size() > largest.tree.Size() {
			largest = x
		}
	}
	if largest == nil {
		return
	}
	for i := largest.tree.Size(); i >= 1; i-- {
		c, ok := largest.tree.ItemAt(i)
		if !ok {
			break
		}
		if c.MatchesHint {
			continue
		}
		est := s.selectors.iterationsToSelection(s, c)
		if worst == nil || est > worstEst {
			worst, worstEst = c, est
		}
		// The deepest-ranked non-hint clause is almost always the answer;
		// scanning a short suffix is enough.
		if i <= largest.tree.Size()-8 {
			break
		}
	}
	if worst != nil {
		s.stats.SosDisplaced++
		s.Disable(worst)
	}
}
