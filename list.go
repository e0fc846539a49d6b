package undo

import (
	"fmt"

	"github.com/brunoga/undo/notify"
)

// List is the mutable list view list operations act on. notify.Collection
// implementations satisfy it, and SliceList adapts a plain slice.
type List interface {
	Len() int
	Item(i int) any
	// InsertItem inserts v at i. Inserting at Len() appends.
	InsertItem(i int, v any)
	RemoveItem(i int)
	ClearItems()
}

// SliceList adapts a pointer to a slice to the List interface.
func SliceList[T any](s *[]T) List {
	return &sliceList[T]{s: s}
}

type sliceList[T any] struct {
	s *[]T
}

func (l *sliceList[T]) Len() int { return len(*l.s) }

func (l *sliceList[T]) Item(i int) any { return (*l.s)[i] }

func (l *sliceList[T]) InsertItem(i int, v any) {
	var t T
	if v != nil {
		var ok bool
		if t, ok = v.(T); !ok {
			panic(fmt.Sprintf("undo: cannot insert %T into []%T", v, t))
		}
	}
	s := append(*l.s, t)
	copy(s[i+1:], s[i:])
	s[i] = t
	*l.s = s
}

func (l *sliceList[T]) RemoveItem(i int) {
	s := *l.s
	*l.s = append(s[:i], s[i+1:]...)
}

func (l *sliceList[T]) ClearItems() {
	*l.s = (*l.s)[:0]
}

// IndexOf returns the index of the first item of l equal to v, or -1.
func IndexOf(l List, v any) int {
	for i := 0; i < l.Len(); i++ {
		if notify.SameItem(l.Item(i), v) {
			return i
		}
	}
	return -1
}

// Items returns the contents of l in order.
func Items(l List) []any {
	out := make([]any, l.Len())
	for i := range out {
		out[i] = l.Item(i)
	}
	return out
}

// ListInsertOperation inserts an item into a list.
type ListInsertOperation struct {
	Base

	list  List
	item  any
	index int
}

// NewListInsert returns an operation inserting item at index. A negative
// index appends; its rollback then removes the last item, which is only
// correct when nothing else changed the list in between.
func NewListInsert(list List, item any, index int) *ListInsertOperation {
	op := &ListInsertOperation{list: list, item: item, index: index}
	if index < 0 {
		op.SetMessage(fmt.Sprintf("add %v", item))
	} else {
		op.SetMessage(fmt.Sprintf("insert %v at %d", item, index))
	}
	return op
}

func (o *ListInsertOperation) RollForward() {
	o.Run(func() {
		if o.index < 0 {
			o.list.InsertItem(o.list.Len(), o.item)
			return
		}
		o.list.InsertItem(o.index, o.item)
	})
}

func (o *ListInsertOperation) Rollback() {
	o.Run(func() {
		if o.index < 0 {
			o.list.RemoveItem(o.list.Len() - 1)
			return
		}
		o.list.RemoveItem(o.index)
	})
}

// ListRemoveOperation removes an item from a list and restores it at its
// original index.
type ListRemoveOperation struct {
	Base

	list  List
	item  any
	index int

	removedAt int
}

// NewListRemove returns an operation removing item found at index. A
// negative index looks the item up when the operation runs.
func NewListRemove(list List, item any, index int) *ListRemoveOperation {
	op := &ListRemoveOperation{list: list, item: item, index: index, removedAt: index}
	op.SetMessage(fmt.Sprintf("remove %v", item))
	return op
}

// NewListRemoveAt returns an operation removing the item currently at index.
func NewListRemoveAt(list List, index int) *ListRemoveOperation {
	return NewListRemove(list, list.Item(index), index)
}

func (o *ListRemoveOperation) RollForward() {
	o.Run(func() {
		i := o.index
		if i < 0 {
			i = IndexOf(o.list, o.item)
		}
		o.removedAt = i
		if i < 0 {
			return
		}
		o.list.RemoveItem(i)
	})
}

func (o *ListRemoveOperation) Rollback() {
	o.Run(func() {
		if o.removedAt < 0 {
			return
		}
		o.list.InsertItem(o.removedAt, o.item)
	})
}

// ListClearOperation clears a list and restores its previous contents in
// order.
type ListClearOperation struct {
	Base

	list   List
	backup []any
}

// NewListClear returns an operation clearing list, snapshotting its current
// contents.
func NewListClear(list List) *ListClearOperation {
	return newListClear(list, Items(list))
}

func newListClear(list List, backup []any) *ListClearOperation {
	op := &ListClearOperation{list: list, backup: backup}
	op.SetMessage(fmt.Sprintf("clear %d items", len(backup)))
	return op
}

func (o *ListClearOperation) RollForward() {
	o.Run(o.list.ClearItems)
}

func (o *ListClearOperation) Rollback() {
	o.Run(func() {
		for _, v := range o.backup {
			o.list.InsertItem(o.list.Len(), v)
		}
	})
}
