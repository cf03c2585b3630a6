package search

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"osprey/internal/ast"
	"osprey/internal/clause"
	"osprey/internal/fatal"
	"osprey/internal/interp"
	"osprey/internal/options"
	"osprey/internal/term"
)

// Assemble turns a parsed input into a prover input: options applied,
// clause lists lowered, symbol orders and weights installed. The returned
// multierror collects warnings (missing symbols, duplicate interpretations);
// they never stop processing.
func Assemble(astIn *ast.Input, opts *options.Store) (*Input, *multierror.Error) {
	in := &Input{Opts: opts, WeightOverrides: make(map[int]float64)}
	var warns *multierror.Error

	prolog := func() bool { return opts.Flag("prolog_style_variables") }

	// Symbol orders are applied after the lists are lowered so they can
	// name symbols that only appear later in the file.
	var orders []*ast.SymbolOrder

	for _, d := range astIn.Directives {
		switch d := d.(type) {
		case *ast.Set:
			opts.Set(d.Flag)
		case *ast.Clear:
			opts.Clear(d.Flag)
		case *ast.Assign:
			opts.Assign(d.Name, d.Value)
		case *ast.Op:
			// Already applied to the parse table and symbol table.
		case *ast.SymbolOrder:
			orders = append(orders, d)
		case *ast.Weights:
			warns = applyWeights(d, in, warns)
		case *ast.Interps:
			if len(d.Items) > 0 {
				if in.Interp != nil {
					warns = multierror.Append(warns, fmt.Errorf("multiple interpretations; only the first is used"))
				} else {
					ip, err := buildInterp(d.Items[0])
					if err != nil {
						fatal.Fatalf("interpretation: %v", err)
					}
					in.Interp = ip
				}
			}
		case *ast.RawList:
			switch d.Label {
			case "given_selection":
				in.SelectorRules = append(in.SelectorRules, d.Items...)
			case "actions":
				in.ActionRules = append(in.ActionRules, d.Items...)
			}
		case *ast.List:
			lowerList(d, in, prolog())
		}
	}
	for _, d := range orders {
		warns = applySymbolOrder(d, warns)
	}
	return in, warns
}

// lowerList converts a formula/clause block into clauses on the right input
// list.
func lowerList(d *ast.List, in *Input, prolog bool) {
	for _, item := range d.Items {
		cs, err := ast.ToClauses(item.Expr, prolog)
		if err != nil {
			fatal.Fatalf("%s(%s): %s: %v", d.Kind, d.Label, item.Text, err)
		}
		for _, c := range cs {
			applyAttrs(c, item.Attrs)
			switch d.Label {
			case "usable":
				c.Just = clause.Just{{Kind: clause.InputStep}}
				in.Usable = append(in.Usable, c)
			case "sos":
				c.Just = clause.Just{{Kind: clause.InputStep}}
				in.Sos = append(in.Sos, c)
			case "demodulators":
				c.Just = clause.Just{{Kind: clause.InputStep}}
				in.Demodulators = append(in.Demodulators, c)
			case "goals":
				c.Just = clause.Just{{Kind: clause.GoalStep}}
				in.Goals = append(in.Goals, c)
			case "hints":
				in.Hints = append(in.Hints, c)
			case "keep_rules":
				in.KeepRules = append(in.KeepRules, c)
			case "delete_rules":
				in.DeleteRules = append(in.DeleteRules, c)
			default:
				fatal.Fatalf("unknown list label %q", d.Label)
			}
		}
	}
}

func applyAttrs(c *clause.Clause, attrs []ast.Attr) {
	for _, a := range attrs {
		switch a.Name {
		case "label":
			c.Attrs.Label = a.Value
		case "answer":
			c.Attrs.Answer = a.Value
		case "bsub_hint_wt":
			if v, err := strconv.Atoi(a.Value); err == nil {
				c.Attrs.BsubHintWt = v
			}
		case "action":
			c.Attrs.Action = a.Value
		case "action2":
			c.Attrs.Action2 = a.Value
		default:
			c.Attrs.Props = append(c.Attrs.Props, a.Name+"("+a.Value+")")
		}
	}
}

// applySymbolOrder installs a user precedence: listed symbols get ascending
// lex values above everything interned so far. Symbols not (yet) interned
// draw a warning, matching the traditional behavior.
func applySymbolOrder(d *ast.SymbolOrder, warns *multierror.Error) *multierror.Error {
	base := 0
	term.Symbols(func(sym *term.Symbol) {
		if sym.Precedence > base {
			base = sym.Precedence
		}
	})
	for i, name := range d.Symbols {
		found := false
		term.Symbols(func(sym *term.Symbol) {
			if sym.Name == name {
				term.SetPrecedence(sym.Num, base+1+i)
				found = true
			}
		})
		if !found {
			warns = multierror.Append(warns,
				fmt.Errorf("%s_order: symbol %s not in input", d.Kind, name))
		}
	}
	return warns
}

func applyWeights(d *ast.Weights, in *Input, warns *multierror.Error) *multierror.Error {
	for _, r := range d.Rules {
		num, ok := term.Lookup(r.Symbol, r.Arity)
		if !ok && r.Arity >= 0 {
			// The symbol may simply not have been read yet; intern it so the
			// weight applies when it shows up.
			num = term.Intern(r.Symbol, r.Arity)
			ok = true
		}
		if !ok {
			warns = multierror.Append(warns, fmt.Errorf("%s: unknown symbol %s", d.Kind, r.Symbol))
			continue
		}
		if d.Kind == "kbo_weights" {
			term.SetKBWeight(num, int(r.Value))
		} else {
			in.WeightOverrides[num] = r.Value
		}
	}
	return warns
}

func buildInterp(a *ast.Interp) (*interp.Interp, error) {
	ip := interp.New(a.Size)
	for _, e := range a.Entries {
		num := term.Intern(e.Name, e.Arity)
		switch e.Kind {
		case "function":
			if !ip.AddFunction(num, e.Values) {
				return nil, fmt.Errorf("bad function table for %s", e.Name)
			}
		case "relation":
			table := make([]bool, len(e.Values))
			for i, v := range e.Values {
				table[i] = v != 0
			}
			if !ip.AddRelation(num, table) {
				return nil, fmt.Errorf("bad relation table for %s", e.Name)
			}
		}
	}
	return ip, nil
}

// denyGoals turns each goal clause into its denial: every literal negated
// into its own unit, with goal variables replaced by fresh constants. The
// goals themselves are retained (with ids) so deny steps resolve.
func (s *State) denyGoals() {
	for _, g := range s.In.Goals {
		g.NormalizeVars()
		s.assignID(g)
		s.Goals.Append(g)

		consts := make(map[int]*term.Term)
		for _, v := range g.Vars() {
			num := term.Fresh("c", 0)
			term.SetSkolem(num)
			term.SetKind(num, term.Function)
			consts[v] = term.Const(num)
		}
		for _, l := range g.Literals {
			atom := substituteVars(l.Atom, consts)
			denial := clause.New(&clause.Literal{Sign: !l.Sign, Atom: atom})
			denial.Just = clause.Just{{Kind: clause.DenyStep, Data: []int{g.ID}}}
			denial.Initial = true
			s.ClProcess(denial, true)
		}
	}
	s.DrainLimbo()
}

func substituteVars(t *term.Term, m map[int]*term.Term) *term.Term {
	if t.IsVar() {
		if c, ok := m[t.VarNum()]; ok {
			return c
		}
		return t
	}
	args := make([]*term.Term, len(t.Args))
	for i, a := range t.Args {
		args[i] = substituteVars(a, m)
	}
	return term.App(t.SymNum(), args...)
}
