// Package command implements the keystroke-built command grammar.
//
// A command is typed one character at a time with no lookahead. The draft
// under construction is a tree of fragments; each fragment is a small
// state machine with a strict ladder of sub-states, and backspace walks
// exactly one rung back down that ladder. A fragment that cannot use a
// character reports it unhandled, and the enclosing draft body tries to
// reinterpret the character as a wrapping combinator (at / and / in)
// around the tree built so far. Finalizing converts the draft into an
// immutable Complete tree; finalization succeeds only when every reachable
// sub-node is fully specified.
package command

import (
	"unicode"

	"skytower/internal/geo"
)

// InputResult is a fragment's verdict on a single keystroke.
type InputResult int

const (
	// Handled: the character advanced the fragment's state.
	Handled InputResult = iota
	// Unhandled: the character means nothing to the fragment in its
	// current state; the caller may reinterpret it one level up.
	Unhandled
	// Back: an erase arrived with the fragment already on its bottom
	// rung; the structural parent must unwrap or clear the fragment.
	Back
)

// Erase is the erase control character (DEL). The terminal layer maps the
// backspace key to it.
const Erase = '\x7f'

// Fragment is one node of a draft command tree.
type Fragment interface {
	// Input feeds one keystroke to the fragment.
	Input(ch rune) InputResult
	// String renders the fragment's partial state for live feedback.
	// It is total: an unfinalizable fragment still renders.
	String() string
	// Complete finalizes the fragment. It fails if any reachable
	// sub-state is still unset, and never partially succeeds.
	Complete() (Segment, bool)
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }

func digitVal(ch rune) uint16 { return uint16(ch - '0') }

// appendDigit grows a multi-digit number by one digit. Growth stops at
// four digits; beacon, slot and countdown numbers never need more.
func appendDigit(n uint16, ch rune) uint16 {
	if n >= 1000 {
		return n
	}
	return n*10 + digitVal(ch)
}

// body is a position in the draft tree that can hold any fragment: the
// top level of a command, or the right side of an and. It owns the spawn
// table for fresh fragments and the wrap reinterpretation for combinators.
type body struct {
	frag Fragment
}

func (b *body) empty() bool { return b.frag == nil }

func (b *body) Input(ch rune) InputResult {
	if b.frag == nil {
		if ch == Erase {
			return Back
		}
		if f, ok := startFragment(ch); ok {
			b.frag = f
			return Handled
		}
		return Unhandled
	}

	switch b.frag.Input(ch) {
	case Handled:
		return Handled
	case Back:
		b.unwrap()
		return Handled
	}

	// Reinterpret as a wrapping combinator. Only a finalizable tree may
	// be wrapped; an incomplete leaf anywhere rejects the wrap. The
	// triggers are exact: uppercase letters do not wrap.
	if _, ok := b.frag.Complete(); !ok {
		return Unhandled
	}
	switch ch {
	case 'a', '@':
		b.frag = &atFragment{tail: b.frag}
		return Handled
	case '&', ',':
		b.frag = &andFragment{left: b.frag}
		return Handled
	case '!':
		b.frag = &inFragment{tail: b.frag}
		return Handled
	}
	return Unhandled
}

// unwrap responds to Back from the held fragment: composites collapse to
// their previous shape, leaves clear to nothing.
func (b *body) unwrap() {
	switch f := b.frag.(type) {
	case *atFragment:
		b.frag = f.tail
	case *inFragment:
		b.frag = f.tail
	case *andFragment:
		b.frag = f.left
	default:
		b.frag = nil
	}
}

func (b *body) String() string {
	if b.frag == nil {
		return ""
	}
	return b.frag.String()
}

func (b *body) Complete() (Segment, bool) {
	if b.frag == nil {
		return nil, false
	}
	return b.frag.Complete()
}

// startFragment spawns the fragment a keystroke begins in an empty body.
func startFragment(ch rune) (Fragment, bool) {
	switch unicode.ToLower(ch) {
	case 'a':
		return &altitudeFragment{}, true
	case 't', 'h':
		return &turnFragment{}, true
	case 'm':
		return &visibilityFragment{state: Marked}, true
	case 'u':
		return &visibilityFragment{state: Unmarked}, true
	case 'i':
		return &visibilityFragment{state: Ignored}, true
	case ')':
		return &circleFragment{set: true, dir: geo.Clockwise}, true
	case '(':
		return &circleFragment{set: true, dir: geo.CounterClockwise}, true
	case '$':
		return &refFragment{}, true
	}
	return nil, false
}
