package undo

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Recording is an open recording scope. Operations pushed while it is the
// innermost scope are collected and, on End, pushed as one composite.
type Recording struct {
	c       *Controller
	id      string
	level   int
	message string
	stack   *UndoStack
	ended   bool
}

// BeginRecord opens a recording scope. Scopes nest and must be ended in
// reverse order of creation:
//
//	r := ctrl.BeginRecord()
//	defer r.End()
func (c *Controller) BeginRecord() *Recording {
	return c.BeginRecordMessage("")
}

// BeginRecordMessage is like BeginRecord and sets the message of the
// resulting composite.
func (c *Controller) BeginRecordMessage(msg string) *Recording {
	r := &Recording{
		c:       c,
		id:      uuid.NewString(),
		message: msg,
		stack:   mustUndoStack(recordCapacity),
	}
	c.records = append(c.records, r)
	r.level = len(c.records)

	c.logger.Debug("record begin", slog.String("scope", r.id), slog.Int("level", r.level))
	return r
}

// ID returns the identifier the scope logs with.
func (r *Recording) ID() string { return r.id }

// Len returns the number of operations collected so far.
func (r *Recording) Len() int { return r.stack.Len() }

// End closes the scope and pushes the collected operations, in recorded
// order, as one CompositeOperation onto the enclosing stack. An empty scope
// pushes an empty composite. Ending a scope twice does nothing; ending it
// while a scope opened after it is still open panics with ErrRecordOrder.
func (r *Recording) End() Operation {
	if r.ended {
		return nil
	}
	c := r.c
	if len(c.records) != r.level {
		panic(fmt.Errorf("scope %s at level %d, %d open: %w", r.id, r.level, len(c.records), ErrRecordOrder))
	}
	r.ended = true
	c.records = c.records[:len(c.records)-1]

	op := NewComposite(r.stack.operations()...)
	if r.message != "" {
		op.SetMessage(r.message)
	}

	c.logger.Debug("record end", slog.String("scope", r.id), slog.Int("operations", op.Len()))
	return c.Push(op)
}
