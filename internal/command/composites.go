package command

import "fmt"

// atFragment gates an already-built tree on a beacon condition. The tail
// was finalizable when the wrap happened and receives no further input;
// everything routes to the condition.
type atFragment struct {
	tail Fragment
	poi  *poiFragment // nil while no condition is being entered
}

func (a *atFragment) Input(ch rune) InputResult {
	if a.poi == nil {
		switch {
		case isDigit(ch):
			a.poi = &poiFragment{n: digitVal(ch), have: true}
			return Handled
		case ch == 'b' || ch == 'B' || ch == '*':
			a.poi = &poiFragment{}
			return Handled
		case ch == Erase:
			return Back
		}
		return Unhandled
	}
	res := a.poi.input(ch)
	if res == Back {
		// Clearing the condition, not collapsing the gate itself.
		a.poi = nil
		return Handled
	}
	return res
}

func (a *atFragment) String() string {
	if a.poi == nil {
		return a.tail.String() + " at"
	}
	return fmt.Sprintf("%s at %s", a.tail.String(), a.poi.display())
}

func (a *atFragment) Complete() (Segment, bool) {
	tail, ok := a.tail.Complete()
	if !ok || a.poi == nil || !a.poi.have {
		return nil, false
	}
	return At{Tail: tail, Beacon: a.poi.n}, true
}

// inFragment defers an already-built tree by a tick countdown.
type inFragment struct {
	tail Fragment
	n    uint16
	have bool
}

func (i *inFragment) Input(ch rune) InputResult {
	switch {
	case isDigit(ch):
		i.n = appendDigit(i.n, ch)
		i.have = true
		return Handled
	case ch == Erase && i.have:
		i.n = 0
		i.have = false
		return Handled
	case ch == Erase:
		return Back
	}
	return Unhandled
}

func (i *inFragment) String() string {
	if i.have {
		return fmt.Sprintf("%s in %d", i.tail.String(), i.n)
	}
	return i.tail.String() + " in"
}

func (i *inFragment) Complete() (Segment, bool) {
	tail, ok := i.tail.Complete()
	if !ok || !i.have {
		return nil, false
	}
	return In{Tail: tail, Ticks: i.n}, true
}

// andFragment sequences a frozen left tree with a right side still under
// construction. All input delegates to the right; erasing an empty right
// side is Back, which collapses the and to its left tree alone.
type andFragment struct {
	left  Fragment
	right body
}

func (a *andFragment) Input(ch rune) InputResult {
	return a.right.Input(ch)
}

func (a *andFragment) String() string {
	if a.right.empty() {
		return a.left.String() + " &"
	}
	return fmt.Sprintf("%s & %s", a.left.String(), a.right.String())
}

func (a *andFragment) Complete() (Segment, bool) {
	left, ok := a.left.Complete()
	if !ok {
		return nil, false
	}
	right, ok := a.right.Complete()
	if !ok {
		return nil, false
	}
	return And{Left: left, Right: right}, true
}
