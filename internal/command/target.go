package command

import (
	"fmt"
	"unicode"
)

type targetKind int

const (
	targetUnset targetKind = iota
	targetPlaneKind
	targetSlotKind
)

// Target is the addressee state machine. It consumes every keystroke
// until it resolves to a plane letter or a numbered slot; only then does
// the grammar body see input.
type Target struct {
	kind     targetKind
	plane    rune
	slot     uint16
	haveSlot bool
}

// Resolved reports whether the target is complete enough for body input
// to begin.
func (t *Target) Resolved() bool {
	switch t.kind {
	case targetPlaneKind:
		return true
	case targetSlotKind:
		return t.haveSlot
	}
	return false
}

func (t *Target) Input(ch rune) InputResult {
	switch t.kind {
	case targetUnset:
		switch {
		case unicode.IsLetter(ch) && ch < 0x80:
			t.kind = targetPlaneKind
			t.plane = ch
			return Handled
		case ch == '$':
			t.kind = targetSlotKind
			return Handled
		case ch == Erase:
			return Back
		}
		return Unhandled
	case targetPlaneKind:
		if ch == Erase {
			t.kind = targetUnset
			t.plane = 0
			return Handled
		}
		return Unhandled
	default: // slot
		switch {
		case isDigit(ch):
			t.slot = appendDigit(t.slot, ch)
			t.haveSlot = true
			return Handled
		case ch == Erase && t.haveSlot:
			t.slot = 0
			t.haveSlot = false
			return Handled
		case ch == Erase:
			t.kind = targetUnset
			return Handled
		}
		return Unhandled
	}
}

func (t *Target) String() string {
	switch t.kind {
	case targetPlaneKind:
		return string(t.plane) + ": "
	case targetSlotKind:
		if t.haveSlot {
			return fmt.Sprintf("$%d: ", t.slot)
		}
		return "$: "
	}
	return ""
}

// Complete finalizes the target.
func (t *Target) Complete() (CompleteTarget, bool) {
	switch t.kind {
	case targetPlaneKind:
		return CompleteTarget{Kind: TargetPlane, Plane: t.plane}, true
	case targetSlotKind:
		if t.haveSlot {
			return CompleteTarget{Kind: TargetSlot, Slot: t.slot}, true
		}
	}
	return CompleteTarget{}, false
}
