package options

// Option dependencies: setting one option rewrites others, immediately, and
// later input can undo the effect. Dependencies are not applied to default
// settings, and the master switch ignore_option_dependencies disables them
// entirely.

type depKind int

const (
	flagFlagDep depKind = iota
	flagParmDep
	flagParmDefaultDep
	parmParmDep // target = trigger value * factor
	parmParmSetDep
)

type dependency struct {
	kind    depKind
	trigger string
	tval    bool // for flag triggers
	target  string
	flagVal bool
	parmVal int
	factor  int
}

// maxDepDepth guards against dependency cycles; the rule table is acyclic
// but user-extended tables might not stay that way.
const maxDepDepth = 10

func (s *Store) registerDeps() {
	ff := func(trigger string, tval bool, target string, val bool) {
		s.deps = append(s.deps, dependency{kind: flagFlagDep, trigger: trigger, tval: tval, target: target, flagVal: val})
	}
	fp := func(trigger string, tval bool, target string, val int) {
		s.deps = append(s.deps, dependency{kind: flagParmDep, trigger: trigger, tval: tval, target: target, parmVal: val})
	}
	fpDefault := func(trigger string, tval bool, target string) {
		s.deps = append(s.deps, dependency{kind: flagParmDefaultDep, trigger: trigger, tval: tval, target: target})
	}
	ppMul := func(trigger, target string, factor int) {
		s.deps = append(s.deps, dependency{kind: parmParmDep, trigger: trigger, target: target, factor: factor})
	}
	ppSet := func(trigger, target string, val int) {
		s.deps = append(s.deps, dependency{kind: parmParmSetDep, trigger: trigger, target: target, parmVal: val})
	}

	ppMul("max_minutes", "max_seconds", 60)
	ppMul("max_hours", "max_seconds", 3600)
	ppMul("max_days", "max_seconds", 86400)

	fp("para_units_only", true, "para_lit_limit", 1)
	fpDefault("para_units_only", false, "para_lit_limit")

	ff("hyper_resolution", true, "pos_hyper_resolution", true)
	ff("hyper_resolution", false, "pos_hyper_resolution", false)

	ff("ur_resolution", true, "pos_ur_resolution", true)
	ff("ur_resolution", true, "neg_ur_resolution", true)
	ff("ur_resolution", false, "pos_ur_resolution", false)
	ff("ur_resolution", false, "neg_ur_resolution", false)

	fp("lex_dep_demod", false, "lex_dep_demod_lim", 0)
	fp("lex_dep_demod", true, "lex_dep_demod_lim", 11)

	ppSet("pick_given_ratio", "age_part", 1)
	ppMul("pick_given_ratio", "weight_part", 1)
	ppSet("pick_given_ratio", "false_part", 0)
	ppSet("pick_given_ratio", "true_part", 0)
	ppSet("pick_given_ratio", "random_part", 0)

	fp("lightest_first", true, "weight_part", 1)
	fp("lightest_first", true, "age_part", 0)
	fp("lightest_first", true, "false_part", 0)
	fp("lightest_first", true, "true_part", 0)
	fp("lightest_first", true, "random_part", 0)
	ff("lightest_first", false, "default_parts", true)

	fp("random_given", true, "random_part", 1)
	fp("random_given", true, "weight_part", 0)
	fp("random_given", true, "age_part", 0)
	fp("random_given", true, "false_part", 0)
	fp("random_given", true, "true_part", 0)
	ff("random_given", false, "default_parts", true)

	fp("breadth_first", true, "age_part", 1)
	fp("breadth_first", true, "weight_part", 0)
	fp("breadth_first", true, "false_part", 0)
	fp("breadth_first", true, "true_part", 0)
	fp("breadth_first", true, "random_part", 0)
	ff("breadth_first", false, "default_parts", true)

	fp("default_parts", true, "age_part", 1)
	fp("default_parts", true, "weight_part", 0)
	fp("default_parts", true, "false_part", 4)
	fp("default_parts", true, "true_part", 4)
	fp("default_parts", true, "random_part", 0)
}

func (s *Store) fireFlag(name string, val bool, depth int) {
	if s.Flag("ignore_option_dependencies") || depth > maxDepDepth {
		return
	}
	for _, d := range s.deps {
		if d.trigger != name {
			continue
		}
		switch d.kind {
		case flagFlagDep:
			if d.tval == val {
				s.flags[d.target].value = d.flagVal
				s.fireFlag(d.target, d.flagVal, depth+1)
			}
		case flagParmDep:
			if d.tval == val {
				s.parms[d.target].value = d.parmVal
				s.fireParm(d.target, d.parmVal, depth+1)
			}
		case flagParmDefaultDep:
			if d.tval == val {
				p := s.parms[d.target]
				p.value = p.def
				s.fireParm(d.target, p.def, depth+1)
			}
		}
	}
}

func (s *Store) fireParm(name string, val int, depth int) {
	if s.Flag("ignore_option_dependencies") || depth > maxDepDepth {
		return
	}
	for _, d := range s.deps {
		if d.trigger != name {
			continue
		}
		switch d.kind {
		case parmParmDep:
			s.parms[d.target].value = val * d.factor
			s.fireParm(d.target, val*d.factor, depth+1)
		case parmParmSetDep:
			s.parms[d.target].value = d.parmVal
			s.fireParm(d.target, d.parmVal, depth+1)
		}
	}
}
