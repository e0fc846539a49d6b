package undo

import "fmt"

// EventKind identifies the history transition that fired a StackChangedEvent.
type EventKind int

const (
	EventPush EventKind = iota
	EventPop
	EventUndo
	EventRedo
	EventClear
)

func (k EventKind) String() string {
	switch k {
	case EventPush:
		return "push"
	case EventPop:
		return "pop"
	case EventUndo:
		return "undo"
	case EventRedo:
		return "redo"
	case EventClear:
		return "clear"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// StackChangedEvent is published after every completed history transition.
type StackChangedEvent struct {
	Kind EventKind

	// Operation is the operation pushed, popped, undone or redone. It is nil
	// for Clear. For a merged push it is the incoming operation.
	Operation Operation

	// Merged is set when a push was folded into the previous operation.
	Merged bool
}
