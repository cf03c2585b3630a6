package search

import (
	"osprey/grammar"
	"osprey/internal/fatal"
)

// Runtime actions: rules of the form `given = N -> assign(max_weight, 25)`
// fire once when the named counter reaches N. Clause attributes carry bare
// actions that fire when the clause is kept (action) or lands in a proof
// (action2).

type triggerKind int

const (
	triggerGiven triggerKind = iota
	triggerGenerated
	triggerKept
	triggerLevel
)

type actionRule struct {
	trigger triggerKind
	count   int
	act     *grammar.Action
	fired   bool
}

// compileActions parses the actions list once, up front, so malformed rules
// fail before the search starts.
func (s *State) compileActions() {
	for _, src := range s.In.ActionRules {
		r, err := grammar.ParseActionRule(src)
		if err != nil {
			fatal.Fatalf("actions: %v", err)
		}
		var tk triggerKind
		switch r.Trigger {
		case "given":
			tk = triggerGiven
		case "generated":
			tk = triggerGenerated
		case "kept":
			tk = triggerKept
		case "level":
			tk = triggerLevel
		}
		s.actions = append(s.actions, &actionRule{trigger: tk, count: r.Count, act: r.Action})
	}
}

// fireCountActions runs every unfired rule whose counter just reached its
// threshold.
func (s *State) fireCountActions(kind triggerKind, n int) {
	for _, r := range s.actions {
		if !r.fired && r.trigger == kind && n >= r.count {
			r.fired = true
			s.applyAction(r.act)
		}
	}
}

func (s *State) applyAction(a *grammar.Action) {
	switch {
	case a.Set != nil:
		s.Opts.Set(*a.Set)
	case a.Clear != nil:
		s.Opts.Clear(*a.Clear)
	case a.Assign != nil:
		s.Opts.Assign(a.Assign.Name, a.Assign.Value)
	case a.Exit:
		s.done(ExitAction)
	}
}

// runAttrAction parses and applies a clause-attribute action.
func (s *State) runAttrAction(text string) {
	a, err := grammar.ParseAttrAction(text)
	if err != nil {
		s.log.Warningf("ignoring malformed clause action %q: %v", text, err)
		return
	}
	s.applyAction(a)
}
