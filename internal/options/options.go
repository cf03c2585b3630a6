// Package options implements the runtime option store: boolean flags,
// integer parms, float parms, and enumerated string parms, each with a
// default and a legal range, plus the dependency rules that let one option
// rewrite others when it changes. Changing an option mid-run is legal; the
// search reads the store at every loop iteration.
package options

import (
	"math"
	"sort"

	"github.com/spf13/cast"

	"osprey/internal/fatal"
)

type flag struct {
	name  string
	def   bool
	value bool
}

type parm struct {
	name     string
	def      int
	min, max int
	value    int
}

type floatParm struct {
	name     string
	def      float64
	min, max float64
	value    float64
}

type stringParm struct {
	name   string
	values []string
	value  string
}

// Store holds every registered option.
type Store struct {
	flags   map[string]*flag
	parms   map[string]*parm
	floats  map[string]*floatParm
	strings map[string]*stringParm
	deps    []dependency
}

const unlimited = math.MaxInt32

// NewStore registers the full option set with its defaults and dependency
// rules.
func NewStore() *Store {
	s := &Store{
		flags:   make(map[string]*flag),
		parms:   make(map[string]*parm),
		floats:  make(map[string]*floatParm),
		strings: make(map[string]*stringParm),
	}

	// Inference rule switches.
	for _, f := range []string{
		"binary_resolution", "neg_binary_resolution",
		"hyper_resolution", "pos_hyper_resolution", "neg_hyper_resolution",
		"ur_resolution", "pos_ur_resolution", "neg_ur_resolution",
		"paramodulation",
	} {
		s.flag(f, false)
	}

	// Inference restrictions.
	s.flag("ordered_res", true)
	s.flag("check_res_instances", false)
	s.flag("ordered_para", true)
	s.flag("para_units_only", false)
	s.flag("para_from_vars", true)
	s.flag("para_into_vars", false)
	s.flag("para_from_small", false)
	s.flag("basic_paramodulation", false)

	// Processing toggles.
	s.flag("process_initial_sos", true)
	s.flag("back_demod", true)
	s.flag("lex_dep_demod", true)
	s.flag("safe_unit_conflict", false)
	s.flag("back_subsume", true)
	s.flag("unit_deletion", false)
	s.flag("factor", false)
	s.flag("cac_redundancy", true)
	s.flag("degrade_hints", true)
	s.flag("back_demod_hints", true)
	s.flag("dont_flip_input", false)
	s.flag("restrict_denials", false)

	// Output control.
	s.flag("echo_input", true)
	s.flag("bell", true)
	s.flag("quiet", false)
	s.flag("print_initial_clauses", true)
	s.flag("print_given", true)
	s.flag("print_gen", false)
	s.flag("print_kept", false)
	s.flag("print_proofs", true)

	// Selection.
	s.flag("input_sos_first", true)
	s.flag("breadth_first", false)
	s.flag("lightest_first", false)
	s.flag("random_given", false)
	s.flag("default_parts", true)

	s.flag("lex_order_vars", false)
	s.flag("prolog_style_variables", false)
	s.flag("ignore_option_dependencies", false)

	// Limits.
	s.parm("max_given", -1, -1, unlimited)
	s.parm("max_kept", -1, -1, unlimited)
	s.parm("max_proofs", 1, -1, unlimited)
	s.parm("max_megs", 500, -1, unlimited)
	s.parm("max_seconds", -1, -1, unlimited)
	s.parm("max_minutes", -1, -1, unlimited)
	s.parm("max_hours", -1, -1, unlimited)
	s.parm("max_days", -1, -1, unlimited)
	s.parm("max_depth", -1, -1, unlimited)
	s.parm("max_literals", -1, -1, unlimited)
	s.parm("max_vars", -1, -1, unlimited)
	s.parm("para_lit_limit", -1, -1, unlimited)
	s.parm("demod_step_limit", 1000, -1, unlimited)
	s.parm("demod_increase_limit", 1000, -1, unlimited)
	s.parm("lex_dep_demod_lim", 11, -1, unlimited)
	s.parm("backsub_check", 500, -1, unlimited)
	s.parm("new_constants", 0, -1, unlimited)

	// Selection ratios.
	s.parm("pick_given_ratio", -1, -1, unlimited)
	s.parm("hints_part", unlimited, 0, unlimited)
	s.parm("age_part", 1, 0, unlimited)
	s.parm("weight_part", 0, 0, unlimited)
	s.parm("false_part", 4, 0, unlimited)
	s.parm("true_part", 4, 0, unlimited)
	s.parm("random_part", 0, 0, unlimited)
	s.parm("random_seed", 0, -1, unlimited)
	s.parm("eval_limit", 1024, -1, unlimited)

	// SOS control.
	s.parm("sos_limit", 20000, -1, unlimited)
	s.parm("sos_keep_factor", 3, 2, 10)
	s.parm("min_sos_limit", 0, 0, unlimited)

	// Weighing.
	s.float("max_weight", 100.0)
	s.float("variable_weight", 1.0)
	s.float("constant_weight", 1.0)
	s.float("not_weight", 0.0)
	s.float("or_weight", 0.0)
	s.float("sk_constant_weight", 1.0)
	s.float("prop_atom_weight", 1.0)
	s.float("nest_penalty", 0.0)
	s.float("depth_penalty", 0.0)
	s.float("var_penalty", 0.0)
	s.float("default_weight", floatLarge)

	s.stringParm("order", "lpo", "rpo", "kbo")
	s.stringParm("eq_defs", "unfold", "fold", "pass")
	s.stringParm("literal_selection", "max_negative", "all_negative", "none")
	s.stringParm("stats", "lots", "some", "all", "none")

	s.registerDeps()
	return s
}

const floatLarge = 1e30

func (s *Store) flag(name string, def bool) {
	s.flags[name] = &flag{name: name, def: def, value: def}
}

func (s *Store) parm(name string, def, min, max int) {
	s.parms[name] = &parm{name: name, def: def, min: min, max: max, value: def}
}

func (s *Store) float(name string, def float64) {
	s.floats[name] = &floatParm{name: name, def: def, min: -floatLarge, max: floatLarge, value: def}
}

func (s *Store) stringParm(name string, values ...string) {
	s.strings[name] = &stringParm{name: name, values: values, value: values[0]}
}

// Flag reads a boolean option; unknown names are programming errors.
func (s *Store) Flag(name string) bool {
	f := s.flags[name]
	if f == nil {
		fatal.Fatal(fatal.ErrOptionUnknown.New(name))
	}
	return f.value
}

// Parm reads an integer option.
func (s *Store) Parm(name string) int {
	p := s.parms[name]
	if p == nil {
		fatal.Fatal(fatal.ErrOptionUnknown.New(name))
	}
	return p.value
}

// Float reads a float option.
func (s *Store) Float(name string) float64 {
	p := s.floats[name]
	if p == nil {
		fatal.Fatal(fatal.ErrOptionUnknown.New(name))
	}
	return p.value
}

// String reads an enumerated option.
func (s *Store) String(name string) string {
	p := s.strings[name]
	if p == nil {
		fatal.Fatal(fatal.ErrOptionUnknown.New(name))
	}
	return p.value
}

// Has reports whether any option of the name exists.
func (s *Store) Has(name string) bool {
	return s.flags[name] != nil || s.parms[name] != nil ||
		s.floats[name] != nil || s.strings[name] != nil
}

// Set turns a flag on, firing dependencies.
func (s *Store) Set(name string) {
	f := s.flags[name]
	if f == nil {
		fatal.Fatal(fatal.ErrOptionUnknown.New(name))
	}
	f.value = true
	s.fireFlag(name, true, 0)
}

// Clear turns a flag off, firing dependencies.
func (s *Store) Clear(name string) {
	f := s.flags[name]
	if f == nil {
		fatal.Fatal(fatal.ErrOptionUnknown.New(name))
	}
	f.value = false
	s.fireFlag(name, false, 0)
}

// Assign sets a parm, floatparm, or stringparm from a value of any lexical
// type, firing dependencies. Out-of-range values are fatal.
func (s *Store) Assign(name string, value any) {
	if p := s.parms[name]; p != nil {
		v, err := cast.ToIntE(value)
		if err != nil {
			fatal.Fatalf("option %s: %v", name, err)
		}
		if v < p.min || v > p.max {
			fatal.Fatal(fatal.ErrOptionRange.New(name, v, p.min, p.max))
		}
		p.value = v
		s.fireParm(name, v, 0)
		return
	}
	if p := s.floats[name]; p != nil {
		v, err := cast.ToFloat64E(value)
		if err != nil {
			fatal.Fatalf("option %s: %v", name, err)
		}
		if v < p.min || v > p.max {
			fatal.Fatal(fatal.ErrOptionRange.New(name, v, p.min, p.max))
		}
		p.value = v
		return
	}
	if p := s.strings[name]; p != nil {
		v, err := cast.ToStringE(value)
		if err != nil {
			fatal.Fatalf("option %s: %v", name, err)
		}
		for _, ok := range p.values {
			if v == ok {
				p.value = v
				return
			}
		}
		fatal.Fatal(fatal.ErrOptionRange.New(name, v, p.values[0], p.values[len(p.values)-1]))
		return
	}
	fatal.Fatal(fatal.ErrOptionUnknown.New(name))
}

// Names returns every option name, sorted, for the echo block.
func (s *Store) Names() []string {
	var out []string
	for n := range s.flags {
		out = append(out, n)
	}
	for n := range s.parms {
		out = append(out, n)
	}
	for n := range s.floats {
		out = append(out, n)
	}
	for n := range s.strings {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
