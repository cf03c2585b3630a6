package clause

import (
	"fmt"
	"sort"
	"strings"
)

// StepKind enumerates justification steps. Every kept clause carries a
// justification; the transitive closure over the clause ids in the steps is
// the proof DAG.
type StepKind int

const (
	InputStep StepKind = iota
	GoalStep
	DenyStep      // Data: [goal id]
	ClausifyStep  // Data: [formula id]
	CopyStep      // Data: [parent id]
	FlipStep      // Data: [parent id, literal index]
	BackDemodStep // Data: [rewritten original id]
	BackUnitDelStep
	MergeStep     // Data: [literal index merged away]
	XXStep        // Data: [literal index of resolved x != x]
	NewSymbolStep // Data: [parent id]
	BinaryResStep // Data: [id1, lit1, id2, lit2]
	HyperResStep  // Data: [nucleus id, n, (satellite id, nucleus lit)* ]
	URResStep     // Data: like HyperResStep
	FactorStep    // Data: [parent id, lit1, lit2]
	DemodStep     // Data: [demodulator id, len(target pos), target pos..., demod side]
	ParaStep      // Data: [from id, from lit, into id, into lit, len(into pos), into pos...]
	UnitDelStep   // Data: [unit id, literal index]
)

// Step is one justification entry; Data layout depends on Kind.
type Step struct {
	Kind StepKind
	Data []int
}

// Just is an ordered justification chain, primary step first and secondary
// (simplification) steps appended in the order they happened.
type Just []Step

// ParentIDs returns the clause ids this step depends on.
func (s Step) ParentIDs() []int {
	switch s.Kind {
	case InputStep, GoalStep, MergeStep, XXStep:
		return nil
	case DenyStep, ClausifyStep, CopyStep, BackDemodStep, BackUnitDelStep, NewSymbolStep:
		return s.Data[:1]
	case FlipStep:
		return s.Data[:1]
	case BinaryResStep:
		return []int{s.Data[0], s.Data[2]}
	case HyperResStep, URResStep:
		ids := []int{s.Data[0]}
		n := s.Data[1]
		for i := 0; i < n; i++ {
			ids = append(ids, s.Data[2+2*i])
		}
		return ids
	case FactorStep:
		return s.Data[:1]
	case DemodStep:
		return s.Data[:1]
	case ParaStep:
		return []int{s.Data[0], s.Data[2]}
	case UnitDelStep:
		return s.Data[:1]
	default:
		return nil
	}
}

// ParentIDs collects every clause id a justification depends on.
func (j Just) ParentIDs() []int {
	seen := make(map[int]bool)
	var out []int
	for _, s := range j {
		for _, id := range s.ParentIDs() {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	return out
}

func (s Step) String() string {
	switch s.Kind {
	case InputStep:
		return "input"
	case GoalStep:
		return "goal"
	case DenyStep:
		return fmt.Sprintf("deny(%d)", s.Data[0])
	case ClausifyStep:
		return fmt.Sprintf("clausify(%d)", s.Data[0])
	case CopyStep:
		return fmt.Sprintf("copy(%d)", s.Data[0])
	case FlipStep:
		return fmt.Sprintf("flip(%d,%c)", s.Data[0], 'a'+s.Data[1])
	case BackDemodStep:
		return fmt.Sprintf("back_demod(%d)", s.Data[0])
	case BackUnitDelStep:
		return fmt.Sprintf("back_unit_del(%d)", s.Data[0])
	case MergeStep:
		return fmt.Sprintf("merge(%c)", 'a'+s.Data[0])
	case XXStep:
		return fmt.Sprintf("xx(%c)", 'a'+s.Data[0])
	case NewSymbolStep:
		return fmt.Sprintf("new_symbol(%d)", s.Data[0])
	case BinaryResStep:
		return fmt.Sprintf("resolve(%d,%c,%d,%c)", s.Data[0], 'a'+s.Data[1], s.Data[2], 'a'+s.Data[3])
	case HyperResStep:
		return "hyper(" + hyperArgs(s.Data) + ")"
	case URResStep:
		return "ur(" + hyperArgs(s.Data) + ")"
	case FactorStep:
		return fmt.Sprintf("factor(%d,%c,%c)", s.Data[0], 'a'+s.Data[1], 'a'+s.Data[2])
	case DemodStep:
		return fmt.Sprintf("rewrite(%d)", s.Data[0])
	case ParaStep:
		return fmt.Sprintf("para(%d(%c),%d(%c))", s.Data[0], 'a'+s.Data[1], s.Data[2], 'a'+s.Data[3])
	case UnitDelStep:
		return fmt.Sprintf("unit_del(%c,%d)", 'a'+s.Data[1], s.Data[0])
	default:
		return "?"
	}
}

func hyperArgs(data []int) string {
	parts := []string{fmt.Sprint(data[0])}
	n := data[1]
	for i := 0; i < n; i++ {
		parts = append(parts, fmt.Sprintf("%d,%c", data[2+2*i], 'a'+data[3+2*i]))
	}
	return strings.Join(parts, ",")
}

func (j Just) String() string {
	if len(j) == 0 {
		return ""
	}
	parts := make([]string, len(j))
	for i, s := range j {
		parts[i] = s.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// Ancestors walks the proof DAG from the clause, marking used on every
// ancestor, and returns the ancestry (including the clause itself) in id
// order. byID resolves kept-clause ids.
func Ancestors(c *Clause, byID func(int) *Clause) []*Clause {
	seen := make(map[int]*Clause)
	var visit func(x *Clause)
	visit = func(x *Clause) {
		if x == nil || seen[x.ID] != nil {
			return
		}
		seen[x.ID] = x
		x.Used = true
		for _, id := range x.Just.ParentIDs() {
			visit(byID(id))
		}
	}
	visit(c)

	out := make([]*Clause, 0, len(seen))
	for _, x := range seen {
		out = append(out, x)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}
