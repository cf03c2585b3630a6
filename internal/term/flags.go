package term

// Per-node private flags. They live on the term node rather than the clause
// so that index retrievals can test them without chasing the owner.
const (
	// FlagMaximal marks a literal's atom as maximal in its clause under the
	// selected term ordering.
	FlagMaximal uint8 = 1 << iota

	// FlagMaximalSigned marks an atom maximal among literals of its own sign.
	FlagMaximalSigned

	// FlagOriented marks an equality atom whose left side is greater than its
	// right under the term ordering.
	FlagOriented

	// FlagNonbasic marks a position introduced by substitution; the basic
	// paramodulation restriction refuses to paramodulate into such positions.
	FlagNonbasic
)

// SetFlag sets a private flag bit on the node.
func (t *Term) SetFlag(f uint8) { t.flags |= f }

// ClearFlag clears a private flag bit on the node.
func (t *Term) ClearFlag(f uint8) { t.flags &^= f }

// HasFlag tests a private flag bit.
func (t *Term) HasFlag(f uint8) bool { return t.flags&f != 0 }

// TransferFlags copies the private flag bits of src onto t. Rebuilding
// passes (variable renumbering) use it so marks like nonbasic survive.
func (t *Term) TransferFlags(src *Term) { t.flags = src.flags }

// ClearAllFlags clears every private flag on the node and its subterms.
func (t *Term) ClearAllFlags() {
	t.flags = 0
	for _, a := range t.Args {
		a.ClearAllFlags()
	}
}
