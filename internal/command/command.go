package command

// Command is the top-level draft: a target plus the grammar body under
// construction. The zero value is an empty draft.
type Command struct {
	target Target
	head   body
}

// Input feeds one keystroke to the draft. Unhandled means the character
// meant nothing anywhere in the tree and was dropped; callers may log it.
func (c *Command) Input(ch rune) InputResult {
	if !c.target.Resolved() {
		res := c.target.Input(ch)
		if res == Back {
			// Erasing an already-empty draft.
			return Handled
		}
		return res
	}

	// A slot number keeps growing until the body starts; afterwards
	// digits belong to the grammar.
	if c.head.empty() && c.target.kind == targetSlotKind && isDigit(ch) {
		return c.target.Input(ch)
	}

	switch res := c.head.Input(ch); res {
	case Back:
		// Erased past the first body element: the erase falls through
		// to the target, one rung at a time.
		return c.target.Input(Erase)
	default:
		return res
	}
}

// Reset discards the draft entirely.
func (c *Command) Reset() {
	*c = Command{}
}

// IsEmpty reports whether nothing has been typed yet.
func (c *Command) IsEmpty() bool {
	return c.target.kind == targetUnset
}

// String renders the partial draft for the operator. Always defined,
// independent of finalizability.
func (c *Command) String() string {
	return c.target.String() + c.head.String()
}

// Complete finalizes the draft. The whole command finalizes iff the
// target and every reachable body node finalize; finalizing does not
// disturb the draft, so replaying the same keystrokes always rebuilds an
// identical result.
func (c *Command) Complete() (Complete, bool) {
	target, ok := c.target.Complete()
	if !ok {
		return Complete{}, false
	}
	head, ok := c.head.Complete()
	if !ok {
		return Complete{}, false
	}
	return Complete{Target: target, Head: head}, true
}

// TargetPlane returns the plane letter the draft currently addresses, for
// display emphasis.
func (c *Command) TargetPlane() (rune, bool) {
	if c.target.kind == targetPlaneKind {
		return c.target.plane, true
	}
	return 0, false
}

// FocusBeacon returns the beacon number of the gate condition most
// recently entered in the draft, for display emphasis.
func (c *Command) FocusBeacon() (uint16, bool) {
	if c.head.frag == nil {
		return 0, false
	}
	return focusBeacon(c.head.frag)
}

func focusBeacon(f Fragment) (uint16, bool) {
	switch t := f.(type) {
	case *atFragment:
		if t.poi != nil && t.poi.have {
			return t.poi.n, true
		}
		return focusBeacon(t.tail)
	case *inFragment:
		return focusBeacon(t.tail)
	case *andFragment:
		if t.right.frag != nil {
			if b, ok := focusBeacon(t.right.frag); ok {
				return b, ok
			}
		}
		return focusBeacon(t.left)
	}
	return 0, false
}
