package undo

import (
	"slices"

	"github.com/brunoga/undo/notify"
)

// listNode records the structural changes of a collection and keeps one
// element listener per index when elements are tracked.
type listNode struct {
	s      *session
	list   notify.Collection
	record bool
	track  func(item any) Cancelable

	sub       notify.Subscription
	elems     []Cancelable
	backup    []any
	cancelled bool
}

func (n *listNode) changed(_ any, e notify.CollectionChange) {
	if n.cancelled {
		return
	}

	if n.track != nil {
		n.syncElements(e)
	}

	c := n.s.c
	if n.record && !c.IsOperating() {
		if op := n.operation(e); op != nil {
			c.Push(op)
		}
	}

	n.backup = Items(n.list)
}

func (n *listNode) syncElements(e notify.CollectionChange) {
	if e.Action == notify.ActionReset {
		group(n.elems).Cancel()
		n.elems = n.elems[:0]
		for i := 0; i < n.list.Len(); i++ {
			n.elems = append(n.elems, n.track(n.list.Item(i)))
		}
		return
	}

	for i := len(e.OldItems) - 1; i >= 0; i-- {
		idx := e.OldIndex + i
		if idx < 0 || idx >= len(n.elems) {
			continue
		}
		if l := n.elems[idx]; l != nil {
			l.Cancel()
		}
		n.elems = slices.Delete(n.elems, idx, idx+1)
	}
	for i, item := range e.NewItems {
		idx := min(max(e.NewIndex+i, 0), len(n.elems))
		n.elems = slices.Insert(n.elems, idx, n.track(item))
	}
}

// operation translates a change into the operation reverting it. Replace and
// Move become the removal of the old region followed by the insertion of the
// new one.
func (n *listNode) operation(e notify.CollectionChange) Operation {
	var ops []Operation
	switch e.Action {
	case notify.ActionAdd:
		ops = n.inserts(e, e.NewIndex+len(e.NewItems) == n.list.Len())
	case notify.ActionRemove:
		ops = n.removes(e)
	case notify.ActionReplace, notify.ActionMove:
		ops = append(n.removes(e), n.inserts(e, false)...)
	case notify.ActionReset:
		ops = append(ops, newListClear(n.list, n.backup))
		// Contents announced by the reset itself.
		for i := 0; i < n.list.Len(); i++ {
			ops = append(ops, NewListInsert(n.list, n.list.Item(i), -1))
		}
	}

	switch len(ops) {
	case 0:
		return nil
	case 1:
		return ops[0]
	}
	return NewComposite(ops...)
}

func (n *listNode) inserts(e notify.CollectionChange, tail bool) []Operation {
	ops := make([]Operation, len(e.NewItems))
	for i, item := range e.NewItems {
		idx := -1
		if !tail {
			idx = e.NewIndex + i
		}
		ops[i] = NewListInsert(n.list, item, idx)
	}
	return ops
}

// removes lists the removals of the old region, highest index first, so
// their rollback restores the lowest index first.
func (n *listNode) removes(e notify.CollectionChange) []Operation {
	ops := make([]Operation, 0, len(e.OldItems))
	for i := len(e.OldItems) - 1; i >= 0; i-- {
		ops = append(ops, NewListRemove(n.list, e.OldItems[i], e.OldIndex+i))
	}
	return ops
}

func (n *listNode) cancel() {
	if n.cancelled {
		return
	}
	n.cancelled = true
	n.sub.Cancel()
	group(n.elems).Cancel()
	n.elems = nil
}
