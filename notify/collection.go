package notify

import (
	"fmt"
	"reflect"
)

// CollectionAction identifies the kind of structural change of a collection.
type CollectionAction int

const (
	// ActionAdd reports NewItems inserted starting at NewIndex.
	ActionAdd CollectionAction = iota
	// ActionRemove reports OldItems removed starting at OldIndex.
	ActionRemove
	// ActionReplace reports OldItems at OldIndex replaced by NewItems at
	// NewIndex.
	ActionReplace
	// ActionMove reports OldItems moved from OldIndex to NewIndex.
	ActionMove
	// ActionReset reports that the contents changed wholesale (typically a
	// clear). No item lists are carried.
	ActionReset
)

func (a CollectionAction) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionMove:
		return "move"
	case ActionReset:
		return "reset"
	}
	return fmt.Sprintf("CollectionAction(%d)", int(a))
}

// CollectionChange describes a structural change of a collection.
type CollectionChange struct {
	Action   CollectionAction
	NewItems []any
	NewIndex int
	OldItems []any
	OldIndex int
}

// CollectionHandler receives collection change notifications.
type CollectionHandler func(sender any, e CollectionChange)

// CollectionNotifier is implemented by collections that announce structural
// changes.
type CollectionNotifier interface {
	OnCollectionChanged(h CollectionHandler) Subscription
}

// Collection is the untyped, observable list view the undo engine operates
// on.
type Collection interface {
	CollectionNotifier

	Len() int
	Item(i int) any
	// InsertItem inserts v at i. Inserting at Len() appends.
	InsertItem(i int, v any)
	SetItem(i int, v any)
	RemoveItem(i int)
	ClearItems()

	// ElemType returns the declared element type. It must not dereference
	// the receiver so it can be called on a nil collection pointer.
	ElemType() reflect.Type
}

// List is an observable slice of T. The zero value is an empty list ready to
// use. Like Notifier it is meant to be used from a single goroutine.
type List[T any] struct {
	items []T
	hs    handlers[CollectionHandler]
}

// NewList returns a list holding a copy of items.
func NewList[T any](items ...T) *List[T] {
	l := &List[T]{}
	l.items = append(l.items, items...)
	return l
}

// OnCollectionChanged implements CollectionNotifier.
func (l *List[T]) OnCollectionChanged(h CollectionHandler) Subscription {
	return l.hs.add(h)
}

// Subscribers returns how many handlers are currently attached.
func (l *List[T]) Subscribers() int {
	return l.hs.len()
}

func (l *List[T]) notify(e CollectionChange) {
	for _, entry := range l.hs.snapshot() {
		if entry.dead {
			continue
		}
		entry.h(l, e)
	}
}

// ElemType implements Collection.
func (*List[T]) ElemType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the item at i.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// Items returns a copy of the current contents.
func (l *List[T]) Items() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// Add appends v.
func (l *List[T]) Add(v T) {
	l.Insert(len(l.items), v)
}

// AddRange appends vs and reports them as one change.
func (l *List[T]) AddRange(vs ...T) {
	if len(vs) == 0 {
		return
	}
	start := len(l.items)
	l.items = append(l.items, vs...)
	l.notify(CollectionChange{Action: ActionAdd, NewItems: toAny(vs), NewIndex: start, OldIndex: -1})
}

// Insert inserts v at i.
func (l *List[T]) Insert(i int, v T) {
	if i < 0 || i > len(l.items) {
		panic(fmt.Sprintf("notify: insert index %d out of range [0,%d]", i, len(l.items)))
	}
	l.items = append(l.items, v)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = v
	l.notify(CollectionChange{Action: ActionAdd, NewItems: []any{v}, NewIndex: i, OldIndex: -1})
}

// Set replaces the item at i with v.
func (l *List[T]) Set(i int, v T) {
	old := l.items[i]
	l.items[i] = v
	l.notify(CollectionChange{
		Action:   ActionReplace,
		OldItems: []any{old},
		OldIndex: i,
		NewItems: []any{v},
		NewIndex: i,
	})
}

// RemoveAt removes the item at i.
func (l *List[T]) RemoveAt(i int) {
	old := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.notify(CollectionChange{Action: ActionRemove, OldItems: []any{old}, OldIndex: i, NewIndex: -1})
}

// RemoveRange removes n items starting at i and reports them as one change.
func (l *List[T]) RemoveRange(i, n int) {
	if n <= 0 {
		return
	}
	old := toAny(l.items[i : i+n])
	l.items = append(l.items[:i], l.items[i+n:]...)
	l.notify(CollectionChange{Action: ActionRemove, OldItems: old, OldIndex: i, NewIndex: -1})
}

// Remove removes the first item equal to v and reports whether one was found.
func (l *List[T]) Remove(v T) bool {
	i := l.IndexOf(v)
	if i < 0 {
		return false
	}
	l.RemoveAt(i)
	return true
}

// IndexOf returns the index of the first item equal to v, or -1.
func (l *List[T]) IndexOf(v T) int {
	for i, x := range l.items {
		if SameItem(x, v) {
			return i
		}
	}
	return -1
}

// Move moves the item at from so that it ends up at index to.
func (l *List[T]) Move(from, to int) {
	v := l.items[from]
	l.items = append(l.items[:from], l.items[from+1:]...)
	l.items = append(l.items, v)
	copy(l.items[to+1:], l.items[to:])
	l.items[to] = v
	l.notify(CollectionChange{
		Action:   ActionMove,
		OldItems: []any{v},
		OldIndex: from,
		NewItems: []any{v},
		NewIndex: to,
	})
}

// Clear removes every item.
func (l *List[T]) Clear() {
	l.items = nil
	l.notify(CollectionChange{Action: ActionReset, OldIndex: -1, NewIndex: -1})
}

// Item implements Collection.
func (l *List[T]) Item(i int) any {
	return l.items[i]
}

// InsertItem implements Collection.
func (l *List[T]) InsertItem(i int, v any) {
	l.Insert(i, l.convert(v))
}

// SetItem implements Collection.
func (l *List[T]) SetItem(i int, v any) {
	l.Set(i, l.convert(v))
}

// RemoveItem implements Collection.
func (l *List[T]) RemoveItem(i int) {
	l.RemoveAt(i)
}

// ClearItems implements Collection.
func (l *List[T]) ClearItems() {
	l.Clear()
}

func (l *List[T]) convert(v any) T {
	if v == nil {
		var zero T
		return zero
	}
	t, ok := v.(T)
	if !ok {
		panic(fmt.Sprintf("notify: cannot use %T as %v", v, l.ElemType()))
	}
	return t
}

func toAny[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

// SameItem reports whether a and b are the same item. Comparable values are
// compared with ==, others with reflect.DeepEqual.
func SameItem(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
