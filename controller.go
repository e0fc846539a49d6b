package undo

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brunoga/undo/internal/clock"
	"github.com/brunoga/undo/notify"
)

// Controller owns an operation history. It is meant to be used from the
// single goroutine that owns the tracked objects.
type Controller struct {
	id        string
	stack     *UndoStack
	records   []*Recording
	mergeSpan time.Duration
	clock     clock.Clock
	copier    Copier
	logger    *slog.Logger

	lastPushed time.Time
	operating  bool

	changed notify.Event[StackChangedEvent]
}

// NewController returns a controller configured by opts. It panics when the
// configured capacity is negative.
func NewController(opts ...Option) *Controller {
	c, err := NewControllerE(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// NewControllerE is like NewController but returns configuration errors.
func NewControllerE(opts ...Option) (*Controller, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	stack, err := NewUndoStack(o.capacity)
	if err != nil {
		return nil, err
	}
	if o.mergeSpan < 0 {
		return nil, fmt.Errorf("merge span %v must not be negative", o.mergeSpan)
	}

	c := &Controller{
		id:        uuid.NewString(),
		stack:     stack,
		mergeSpan: o.mergeSpan,
		clock:     o.clock,
		copier:    o.copier,
	}
	c.logger = o.logger.With(slog.String("controller", c.id))
	c.lastPushed = c.clock.Now()
	return c, nil
}

// ID returns the identifier the controller logs with.
func (c *Controller) ID() string { return c.id }

// MergeSpan returns the merge window.
func (c *Controller) MergeSpan() time.Duration { return c.mergeSpan }

// SetMergeSpan changes the merge window.
func (c *Controller) SetMergeSpan(d time.Duration) { c.mergeSpan = d }

// Capacity returns the maximum size of the history.
func (c *Controller) Capacity() int { return c.stack.Capacity() }

// IsOperating reports whether a history transition is running. Listeners do
// not record changes while it is set, since those changes are the history
// replaying itself.
func (c *Controller) IsOperating() bool { return c.operating }

func (c *Controller) HasUndo() bool { return c.stack.HasUndo() }

func (c *Controller) HasRedo() bool { return c.stack.HasRedo() }

// Undos returns the operations that can be undone, next first.
func (c *Controller) Undos() []Operation { return c.stack.Undos() }

// Redos returns the operations that can be redone, next first.
func (c *Controller) Redos() []Operation { return c.stack.Redos() }

// UndoCount returns the number of operations that can be undone.
func (c *Controller) UndoCount() int { return len(c.stack.undo.items) }

// RedoCount returns the number of operations that can be redone.
func (c *Controller) RedoCount() int { return len(c.stack.redo.items) }

// OnStackChanged subscribes f to every completed history transition.
func (c *Controller) OnStackChanged(f func(StackChangedEvent)) notify.Subscription {
	return c.changed.Subscribe(f)
}

// active returns the innermost open recording stack, or the history.
func (c *Controller) active() *UndoStack {
	if n := len(c.records); n > 0 {
		return c.records[n-1].stack
	}
	return c.stack
}

// begin marks a transition as running. A transition may not start while
// another one runs.
func (c *Controller) begin() {
	if c.operating {
		panic(ErrReentrant)
	}
	c.operating = true
}

// release clears the running mark. It is deferred by every transition so a
// panicking operation cannot leave the controller operating.
func (c *Controller) release() {
	c.operating = false
}

// finish ends a transition and publishes it.
func (c *Controller) finish(e StackChangedEvent) {
	c.operating = false
	c.changed.Emit(e)
}

// Push records op on the active stack. When the previous push happened within
// the merge span, op is mergeable, the active stack is not empty, its top is
// mergeable and accepts op, op is merged into the top instead.
func (c *Controller) Push(op Operation) Operation {
	return c.push(op, true)
}

// PushWithoutMerge is like Push but never merges.
func (c *Controller) PushWithoutMerge(op Operation) Operation {
	return c.push(op, false)
}

func (c *Controller) push(op Operation, merge bool) Operation {
	if op == nil {
		panic("undo: nil operation")
	}

	c.begin()
	defer c.release()

	stack := c.active()
	now := c.clock.Now()

	merged := false
	if merge && now.Sub(c.lastPushed) < c.mergeSpan {
		if next, ok := op.(Mergeable); ok && stack.Len() > 0 {
			if top, ok := stack.Peek().(Mergeable); ok && top.CanMerge(next) {
				top.Merge(next)
				merged = true
			}
		}
	}
	if !merged {
		stack.Push(op)
		c.lastPushed = now
	}

	c.logger.Debug("push",
		slog.String("operation", op.Message()),
		slog.Bool("merged", merged),
		slog.Int("depth", stack.Len()),
		slog.Int("recording", len(c.records)))

	c.finish(StackChangedEvent{Kind: EventPush, Operation: op, Merged: merged})
	return op
}

// Execute pushes op and rolls it forward. Changes the roll forward causes on
// tracked objects are not recorded a second time.
func (c *Controller) Execute(op Operation) Operation {
	c.Push(op)
	c.rollForward(op)
	return op
}

func (c *Controller) executeWithoutMerge(op Operation) Operation {
	c.PushWithoutMerge(op)
	c.rollForward(op)
	return op
}

func (c *Controller) rollForward(op Operation) {
	c.begin()
	defer c.release()
	op.RollForward()
}

// Undo rolls back the newest operation. It does nothing when there is
// nothing to undo.
func (c *Controller) Undo() {
	if !c.stack.HasUndo() {
		return
	}

	c.begin()
	defer c.release()

	op := c.stack.Undo()
	op.Rollback()

	c.logger.Debug("undo", slog.String("operation", op.Message()))
	c.finish(StackChangedEvent{Kind: EventUndo, Operation: op})
}

// Redo rolls forward the newest undone operation. It does nothing when there
// is nothing to redo.
func (c *Controller) Redo() {
	if !c.stack.HasRedo() {
		return
	}

	c.begin()
	defer c.release()

	op := c.stack.Redo()
	op.RollForward()

	c.logger.Debug("redo", slog.String("operation", op.Message()))
	c.finish(StackChangedEvent{Kind: EventRedo, Operation: op})
}

// Peek returns the newest operation of the active stack, or nil.
func (c *Controller) Peek() Operation {
	return c.active().Peek()
}

// Pop removes and returns the newest operation of the active stack without
// rolling it back. It returns nil when the stack is empty.
func (c *Controller) Pop() Operation {
	c.begin()
	defer c.release()

	op := c.active().Pop()
	if op == nil {
		return nil
	}

	c.logger.Debug("pop", slog.String("operation", op.Message()))
	c.finish(StackChangedEvent{Kind: EventPop, Operation: op})
	return op
}

// Clear empties the active stack: the innermost open recording scope if there
// is one, else the history.
func (c *Controller) Clear() {
	c.begin()
	defer c.release()

	c.active().Clear()

	c.logger.Debug("clear", slog.Int("recording", len(c.records)))
	c.finish(StackChangedEvent{Kind: EventClear})
}

// ExecuteDispose disposes target and records an operation restoring it with
// restore on undo.
func (c *Controller) ExecuteDispose(target Restorable, restore func()) Operation {
	op := NewDelegate(target.Dispose, func() { target.Restore(restore) })
	op.SetMessage(fmt.Sprintf("dispose %T", target))
	return c.Execute(op)
}

// ExecuteSnapshot runs mutate and records the change it made to the value
// target points to as a whole value swap. It panics when target is not a
// non-nil pointer.
func (c *Controller) ExecuteSnapshot(target any, mutate func()) Operation {
	op, err := c.snapshot(target, mutate)
	if err != nil {
		panic(err)
	}
	return c.Push(op)
}

func (c *Controller) snapshot(target any, mutate func()) (*SnapshotOperation, error) {
	op, err := NewSnapshot(target, nil, nil, c.copier)
	if err != nil {
		return nil, err
	}
	op.before = c.copier(op.target.Interface())
	mutate()
	op.after = c.copier(op.target.Interface())
	return op, nil
}
