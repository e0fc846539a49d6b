package undo

import "fmt"

// capacityStack is a stack that drops its oldest entry when pushed past its
// capacity.
type capacityStack[T any] struct {
	items    []T
	capacity int
}

func (s *capacityStack[T]) push(v T) {
	s.items = append(s.items, v)
	if len(s.items) > s.capacity {
		var zero T
		n := copy(s.items, s.items[1:])
		s.items[n] = zero
		s.items = s.items[:n]
	}
}

func (s *capacityStack[T]) peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

func (s *capacityStack[T]) pop() (T, bool) {
	v, ok := s.peek()
	if ok {
		var zero T
		s.items[len(s.items)-1] = zero
		s.items = s.items[:len(s.items)-1]
	}
	return v, ok
}

func (s *capacityStack[T]) clear() {
	clear(s.items)
	s.items = s.items[:0]
}

// newestFirst returns the entries, most recently pushed first.
func (s *capacityStack[T]) newestFirst() []T {
	out := make([]T, len(s.items))
	for i, v := range s.items {
		out[len(out)-1-i] = v
	}
	return out
}

// UndoStack is a bounded linear history: an applied stack and a redo stack
// filled by Undo and drained by Redo. Pushing clears the redo stack.
type UndoStack struct {
	undo capacityStack[Operation]
	redo capacityStack[Operation]
}

// NewUndoStack returns an empty stack holding at most capacity applied
// operations.
func NewUndoStack(capacity int) (*UndoStack, error) {
	if capacity < 0 {
		return nil, fmt.Errorf("capacity %d: %w", capacity, ErrInvalidCapacity)
	}
	return &UndoStack{
		undo: capacityStack[Operation]{capacity: capacity},
		redo: capacityStack[Operation]{capacity: capacity},
	}, nil
}

func mustUndoStack(capacity int) *UndoStack {
	s, err := NewUndoStack(capacity)
	if err != nil {
		panic(err)
	}
	return s
}

// Capacity returns the maximum number of applied operations kept.
func (s *UndoStack) Capacity() int { return s.undo.capacity }

// Len returns the number of applied operations.
func (s *UndoStack) Len() int { return len(s.undo.items) }

func (s *UndoStack) HasUndo() bool { return len(s.undo.items) > 0 }

func (s *UndoStack) HasRedo() bool { return len(s.redo.items) > 0 }

// Push records op as the newest applied operation and discards the redo
// stack. The oldest applied operation is evicted past capacity.
func (s *UndoStack) Push(op Operation) {
	s.redo.clear()
	s.undo.push(op)
}

// Peek returns the newest applied operation, or nil.
func (s *UndoStack) Peek() Operation {
	op, _ := s.undo.peek()
	return op
}

// Pop removes and returns the newest applied operation, or nil. Popped
// operations cannot be redone.
func (s *UndoStack) Pop() Operation {
	op, _ := s.undo.pop()
	return op
}

// Undo moves the newest applied operation to the redo stack and returns it,
// or returns nil when there is nothing to undo. It does not roll the
// operation back.
func (s *UndoStack) Undo() Operation {
	op, ok := s.undo.pop()
	if !ok {
		return nil
	}
	s.redo.push(op)
	return op
}

// Redo moves the newest undone operation back to the applied stack and
// returns it, or returns nil. It does not roll the operation forward.
func (s *UndoStack) Redo() Operation {
	op, ok := s.redo.pop()
	if !ok {
		return nil
	}
	s.undo.push(op)
	return op
}

// Clear drops both stacks.
func (s *UndoStack) Clear() {
	s.undo.clear()
	s.redo.clear()
}

// Undos returns the applied operations, next to be undone first.
func (s *UndoStack) Undos() []Operation { return s.undo.newestFirst() }

// Redos returns the undone operations, next to be redone first.
func (s *UndoStack) Redos() []Operation { return s.redo.newestFirst() }

// operations returns the applied operations in the order they were pushed.
func (s *UndoStack) operations() []Operation {
	return append([]Operation(nil), s.undo.items...)
}
