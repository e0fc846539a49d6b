package undo

// DelegateOperation runs caller supplied functions as its two directions.
type DelegateOperation struct {
	Base

	forward  func()
	backward func()
}

// NewDelegate returns an operation calling forward on RollForward and
// backward on Rollback.
func NewDelegate(forward, backward func()) *DelegateOperation {
	if forward == nil || backward == nil {
		panic("undo: delegate operation needs both directions")
	}
	return &DelegateOperation{forward: forward, backward: backward}
}

// SetValue returns an operation calling set with next on RollForward and
// with prev on Rollback.
func SetValue[V any](set func(V), next, prev V) *DelegateOperation {
	if set == nil {
		panic("undo: nil setter")
	}
	return NewDelegate(func() { set(next) }, func() { set(prev) })
}

func (o *DelegateOperation) RollForward() { o.Run(o.forward) }

func (o *DelegateOperation) Rollback() { o.Run(o.backward) }

// Restorable is an object that can be disposed and later brought back.
// Restore receives the callback that re-initializes the object's state.
type Restorable interface {
	Dispose()
	Restore(restore func())
}
