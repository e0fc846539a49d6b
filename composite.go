package undo

import "fmt"

// CompositeOperation groups operations so they are undone and redone as one.
// Members roll forward in order and roll back in reverse order. Composites
// never merge.
type CompositeOperation struct {
	Base

	ops []Operation
}

// NewComposite returns a composite of ops.
func NewComposite(ops ...Operation) *CompositeOperation {
	c := &CompositeOperation{}
	c.Add(ops...)
	c.SetMessage(fmt.Sprintf("%d operations", len(c.ops)))
	return c
}

// Add appends ops. It panics on a nil operation.
func (c *CompositeOperation) Add(ops ...Operation) *CompositeOperation {
	for _, op := range ops {
		if op == nil {
			panic("undo: nil operation in composite")
		}
		c.ops = append(c.ops, op)
	}
	return c
}

// Operations returns the members in roll forward order.
func (c *CompositeOperation) Operations() []Operation {
	return append([]Operation(nil), c.ops...)
}

func (c *CompositeOperation) Len() int { return len(c.ops) }

func (c *CompositeOperation) RollForward() {
	c.Run(func() {
		for _, op := range c.ops {
			op.RollForward()
		}
	})
}

func (c *CompositeOperation) Rollback() {
	c.Run(func() {
		for i := len(c.ops) - 1; i >= 0; i-- {
			c.ops[i].Rollback()
		}
	})
}
