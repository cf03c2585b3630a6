package search

import (
	"fmt"
	"runtime"
	"time"

	"osprey/internal/clause"
	"osprey/internal/demod"
	"osprey/internal/fatal"
	"osprey/internal/infer"
	"osprey/internal/order"
)

// Search runs the saturation to completion and returns the results. All
// limit-triggered terminations unwind here so statistics can be flushed
// once, at one place.
func (s *State) Search() (res *Results) {
	defer func() {
		if r := recover(); r != nil {
			d, ok := r.(searchDone)
			if !ok {
				panic(r)
			}
			res = &Results{Proofs: s.proofs, Stats: s.stats, ExitCode: d.code}
		}
	}()

	s.initialize()
	s.run()

	return &Results{Proofs: s.proofs, Stats: s.stats, ExitCode: ExitSosEmpty}
}

// initialize installs the ordering, compiles schedules, and admits the
// input clauses.
func (s *State) initialize() {
	switch s.Opts.String("order") {
	case "kbo":
		order.Select(order.KBO)
		if bad := order.CheckKBWeights(); bad != "" {
			fatal.Fatalf("kbo weights: symbol %s violates the weight conditions", bad)
		}
	case "rpo":
		order.Select(order.RPO)
	default:
		order.Select(order.LPO)
	}

	s.buildSelectors()
	s.compileActions()

	for _, h := range s.In.Hints {
		s.AddHint(h)
	}

	// Input demodulators go straight to the rewrite index; an input
	// demodulator that breaks the variable-subset condition would loop
	// forever, so it is fatal.
	for _, c := range s.In.Demodulators {
		c.NormalizeVars()
		c.OrientEqualities()
		if !demod.CheckVariableSubset(c) {
			fatal.Fatal(fatal.ErrNonterminatingDemod.New(c))
		}
		class := demod.Classify(c, s.Opts.Flag("lex_dep_demod"))
		if class == demod.NotDemodulator {
			// Input said it is a demodulator; trust the user but warn, the
			// traditional forced orientation.
			s.warn("demodulator %s is not orientable; using it left to right", c)
			class = demod.Oriented
		}
		s.assignID(c)
		c.MarkMaximalLiterals()
		s.Demods.Append(c)
		s.demodIx.Insert(&demod.Demodulator{C: c, Class: class})
	}

	// Usable clauses become inference partners directly.
	for _, c := range s.In.Usable {
		c.Initial = true
		c.NormalizeVars()
		s.Simplify(c)
		if c.IsEmpty() {
			s.assignID(c)
			s.handleEmpty(c)
			continue
		}
		s.Weigh(c)
		s.assignID(c)
		c.OrientEqualities()
		c.MarkMaximalLiterals()
		s.Usable.Append(c)
		s.indexForInference(c)
		s.indexForSimplification(c)
	}

	// SOS clauses run the full pipeline so they are simplified, weighed,
	// and selectable.
	for _, c := range s.In.Sos {
		c.Initial = true
		s.ClProcess(c, true)
	}
	s.DrainLimbo()

	// Goals are denied into SOS last, so their fresh constants postdate the
	// input symbols in the precedence.
	s.denyGoals()
}

// run is the given-clause loop.
func (s *State) run() {
	for {
		s.pollResources()

		given, selName := s.selectors.SelectGiven()
		if given == nil {
			return // sos empty
		}
		s.stats.Given++
		s.fireCountActions(triggerGiven, s.stats.Given)

		s.Sos.Remove(given)
		s.selectors.Remove(given)
		s.Usable.Append(given)
		s.indexForInference(given)

		if s.Opts.Flag("print_given") && !s.Opts.Flag("quiet") {
			fmt.Fprintf(s.Out, "given #%d (%s, wt=%0.3f): %d %s.\n",
				s.stats.Given, selName, given.Weight, given.ID, given)
		}
		s.log.Debugf("given %d: %s", given.ID, given)

		s.givenInfer(given)
		s.DrainLimbo()
	}
}

// givenInfer applies every enabled inference rule to the given clause
// against the usable set.
func (s *State) givenInfer(given *clause.Clause) {
	cfg := s.inferConfig()
	emit := func(c *clause.Clause) {
		s.ClProcess(c, false)
		s.fireCountActions(triggerGenerated, s.stats.Generated)
	}

	if s.Opts.Flag("binary_resolution") {
		infer.BinaryResolution(given, s.clash, cfg, emit)
	}
	if s.Opts.Flag("neg_binary_resolution") {
		negCfg := cfg
		negCfg.NegResOnly = true
		infer.BinaryResolution(given, s.clash, negCfg, emit)
	}
	if s.Opts.Flag("pos_hyper_resolution") {
		infer.Hyperresolution(given, s.clash, true, emit)
	}
	if s.Opts.Flag("neg_hyper_resolution") {
		infer.Hyperresolution(given, s.clash, false, emit)
	}
	if s.Opts.Flag("pos_ur_resolution") || s.Opts.Flag("neg_ur_resolution") {
		infer.URResolution(given, s.clash, emit)
	}
	if s.Opts.Flag("paramodulation") {
		infer.Paramodulation(given, s.fromIx, s.intoIx, cfg, emit)
	}
	if s.Opts.Flag("factor") {
		infer.Factor(given, emit)
	}
}

func (s *State) inferConfig() infer.Config {
	return infer.Config{
		OrderedRes:        s.Opts.Flag("ordered_res"),
		Selection:         s.Opts.String("literal_selection"),
		CheckResInstances: s.Opts.Flag("check_res_instances"),
		OrderedPara:       s.Opts.Flag("ordered_para"),
		ParaFromSmall:     s.Opts.Flag("para_from_small"),
		ParaIntoVars:      s.Opts.Flag("para_into_vars"),
		ParaFromVars:      s.Opts.Flag("para_from_vars"),
		ParaBasic:         s.Opts.Flag("basic_paramodulation"),
		ParaLitLimit:      s.Opts.Parm("para_lit_limit"),
	}
}

// pollResources enforces the global limits. It runs at the top of every
// loop iteration and at every ClProcess entry.
func (s *State) pollResources() {
	s.pollSignals()

	if max := s.Opts.Parm("max_given"); max >= 0 && s.stats.Given >= max {
		s.done(ExitMaxGiven)
	}
	if max := s.Opts.Parm("max_kept"); max >= 0 && s.stats.Kept >= max {
		s.done(ExitMaxKept)
	}
	if max := s.Opts.Parm("max_seconds"); max >= 0 &&
		time.Since(s.startTime) >= time.Duration(max)*time.Second {
		s.done(ExitMaxSeconds)
	}
	if max := s.Opts.Parm("max_megs"); max >= 0 {
		var mem runtime.MemStats
		if s.stats.Generated%1024 == 0 { // ReadMemStats is not free
			runtime.ReadMemStats(&mem)
			if mem.HeapAlloc > uint64(max)*1024*1024 {
				s.done(ExitMaxMegs)
			}
		}
	}
}

// warn prints a warning to stderr with the traditional bell and keeps
// going.
func (s *State) warn(format string, args ...any) {
	bell := ""
	if s.Opts.Flag("bell") {
		bell = "\a"
	}
	fmt.Fprintf(errOut, "%%%s WARNING: "+format+"\n", append([]any{bell}, args...)...)
}
