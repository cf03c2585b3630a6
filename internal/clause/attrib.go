package clause

// NoHintWt means the clause carries no bsub_hint_wt attribute.
const NoHintWt = -(1 << 30)

// Attrs are the user-visible attributes a clause may carry, attached with
// `# label(...)`-style annotations in the input.
type Attrs struct {
	Label      string
	Answer     string
	BsubHintWt int // NoHintWt when unset

	// Action fires when the clause is kept; Action2 fires when the clause
	// lands in a proof. Both hold unparsed rule text; the search compiles
	// them against the actions runtime.
	Action  string
	Action2 string

	Props []string
}

// DefaultAttrs returns the zero attribute set.
func DefaultAttrs() Attrs { return Attrs{BsubHintWt: NoHintWt} }

// Copy returns an independent attribute set.
func (a Attrs) Copy() Attrs {
	out := a
	out.Props = append([]string(nil), a.Props...)
	return out
}

// HasLabel reports a nonempty label.
func (a Attrs) HasLabel() bool { return a.Label != "" }
