package sim

import "skytower/internal/command"

// Resolve replaces every slot reference in a command tree with the tree
// currently stored in the registry, producing a tree with no references
// remaining. The substitution is a structural copy: later writes to a
// slot never affect an already-dispatched command. An unset slot resolves
// to the empty segment, as does a slot that (transitively) references
// itself.
//
// This pass runs exactly once per plane dispatch, before the tree reaches
// the interpreter. Commands stored into slots are kept verbatim, so a
// stored command picks up the registry state of each later dispatch.
func Resolve(seg command.Segment, slots map[uint16]command.Complete) command.Segment {
	return resolveSeg(seg, slots, make(map[uint16]bool))
}

func resolveSeg(seg command.Segment, slots map[uint16]command.Complete, onPath map[uint16]bool) command.Segment {
	switch s := seg.(type) {
	case command.At:
		return command.At{Tail: resolveSeg(s.Tail, slots, onPath), Beacon: s.Beacon}
	case command.In:
		return command.In{Tail: resolveSeg(s.Tail, slots, onPath), Ticks: s.Ticks}
	case command.And:
		return command.And{
			Left:  resolveSeg(s.Left, slots, onPath),
			Right: resolveSeg(s.Right, slots, onPath),
		}
	case command.Ref:
		stored, ok := slots[s.Slot]
		if !ok || onPath[s.Slot] {
			return command.None{}
		}
		onPath[s.Slot] = true
		resolved := resolveSeg(stored.Head, slots, onPath)
		delete(onPath, s.Slot)
		return resolved
	default:
		return seg
	}
}
