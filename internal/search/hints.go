package search

import (
	"osprey/internal/clause"
	"osprey/internal/subsume"
)

// Hints are user-supplied clauses whose presence adjusts priority: a new
// clause that subsumes a hint is weighed with the hint's weight (and is
// immune to SOS displacement). Hints sit in their own feature-vector index;
// they never participate in inference.

// AddHint indexes a hint clause.
func (s *State) AddHint(h *clause.Clause) {
	s.assignID(h)
	h.NormalizeVars()
	s.Hints.Append(h)
	if s.hintIx == nil {
		s.hintIx = subsume.NewNonUnitIndex()
	}
	s.hintIx.Insert(h)
}

// matchHint returns a hint the clause matches (the clause subsumes the
// hint), or nil.
func (s *State) matchHint(c *clause.Clause) *clause.Clause {
	if s.hintIx == nil {
		return nil
	}
	var found *clause.Clause
	s.hintIx.Subsumees(c, func(h *clause.Clause) {
		if found == nil {
			found = h
		}
	})
	return found
}

// noteHintMatched records a kept matcher for hint degradation.
func (s *State) noteHintMatched(c *clause.Clause) {
	if c.HintMatch != nil {
		s.hintDegrade[c.HintMatch]++
	}
}
