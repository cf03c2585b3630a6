package search

import (
	"fmt"

	"github.com/fatih/color"

	"osprey/internal/clause"
)

// handleEmpty is proof emission: mark the ancestry used, collect it in id
// order, run any proof actions, and stop the search when max_proofs is
// reached.
func (s *State) handleEmpty(empty *clause.Clause) {
	s.empties = append(s.empties, empty)
	s.stats.Proofs++

	ancestry := clause.Ancestors(empty, s.ByID)
	proof := Proof{Clauses: ancestry, Length: len(ancestry)}
	for _, c := range ancestry {
		if c.Weight > proof.MaxWeight {
			proof.MaxWeight = c.Weight
		}
	}
	s.proofs = append(s.proofs, proof)

	if !s.Opts.Flag("quiet") && s.Opts.Flag("print_proofs") {
		s.printProof(proof)
	}

	// Proof actions may adjust options, or end the run outright.
	for _, c := range ancestry {
		if c.Attrs.Action2 != "" {
			s.runAttrAction(c.Attrs.Action2)
		}
	}

	if max := s.Opts.Parm("max_proofs"); max >= 0 && len(s.proofs) >= max {
		s.done(ExitMaxProofs)
	}
}

// printProof writes one separator-delimited proof block. Clause ids are
// preserved so a parent process can re-link justifications after forking.
func (s *State) printProof(p Proof) {
	head := color.New(color.FgGreen)
	head.Fprintf(s.Out, "============================== PROOF =================================\n")
	fmt.Fprintf(s.Out, "%% Proof %d at %d given clauses.\n", len(s.proofs), s.stats.Given)
	fmt.Fprintf(s.Out, "%% Length of proof is %d.\n", p.Length)
	fmt.Fprintf(s.Out, "%% Maximum clause weight is %0.3f.\n", p.MaxWeight)
	for _, c := range p.Clauses {
		label := ""
		if c.Attrs.HasLabel() {
			label = " # label(" + c.Attrs.Label + ")"
		}
		fmt.Fprintf(s.Out, "%d %s%s.  %s\n", c.ID, c, label, c.Just)
	}
	head.Fprintf(s.Out, "============================== end of proof ==========================\n")
}

// Proofs returns the proofs found so far.
func (s *State) Proofs() []Proof { return s.proofs }
