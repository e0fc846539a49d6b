// Package notify defines the change-notification capability consumed by the
// undo engine. An object takes part in automatic history tracking by
// implementing PropertyNotifier; a collection does so by implementing
// Collection.
//
// The Notifier and List types are reference implementations hosts can embed or
// use directly.
package notify

import (
	"reflect"
	"sync"
)

// PropertyChange describes a change to a named property, carrying both the
// previous and the new value.
type PropertyChange struct {
	Name string
	Old  any
	New  any

	// Chained is set when the notification is only relaying a change that
	// happened somewhere else (see Notifier.Relay). Listeners must not record
	// chained changes a second time.
	Chained bool
}

// PropertyHandler receives property change notifications. The sender is the
// object whose property changed.
type PropertyHandler func(sender any, e PropertyChange)

// PropertyNotifier is implemented by objects that announce property changes
// with old and new values.
type PropertyNotifier interface {
	OnPropertyChanged(h PropertyHandler) Subscription
}

// Subscription is returned by every subscribe call. Cancel is idempotent.
type Subscription interface {
	Cancel()
}

// SubscriptionFunc adapts a function to the Subscription interface. The
// function runs at most once.
func SubscriptionFunc(f func()) Subscription {
	return &funcSubscription{f: f}
}

type funcSubscription struct {
	once sync.Once
	f    func()
}

func (s *funcSubscription) Cancel() {
	s.once.Do(func() {
		if s.f != nil {
			s.f()
		}
	})
}

type handlerEntry[H any] struct {
	h    H
	dead bool
}

// handlers is a copy-on-dispatch handler list. Handlers added while a
// dispatch is running are not called by that dispatch; handlers cancelled
// while a dispatch is running are skipped.
type handlers[H any] struct {
	entries []*handlerEntry[H]
}

func (hs *handlers[H]) add(h H) Subscription {
	e := &handlerEntry[H]{h: h}
	hs.entries = append(hs.entries, e)
	return SubscriptionFunc(func() {
		e.dead = true
		for i, x := range hs.entries {
			if x == e {
				hs.entries = append(hs.entries[:i:i], hs.entries[i+1:]...)
				break
			}
		}
	})
}

func (hs *handlers[H]) snapshot() []*handlerEntry[H] {
	if len(hs.entries) == 0 {
		return nil
	}
	out := make([]*handlerEntry[H], len(hs.entries))
	copy(out, hs.entries)
	return out
}

func (hs *handlers[H]) len() int {
	return len(hs.entries)
}

// Notifier is an embeddable implementation of PropertyNotifier. The zero
// value is ready to use. It is not safe for concurrent use, matching the
// single owner thread model of data binding.
type Notifier struct {
	hs handlers[PropertyHandler]
}

// OnPropertyChanged implements PropertyNotifier.
func (n *Notifier) OnPropertyChanged(h PropertyHandler) Subscription {
	return n.hs.add(h)
}

// Subscribers returns how many handlers are currently attached.
func (n *Notifier) Subscribers() int {
	return n.hs.len()
}

// Notify delivers e to every attached handler.
func (n *Notifier) Notify(sender any, e PropertyChange) {
	for _, entry := range n.hs.snapshot() {
		if entry.dead {
			continue
		}
		entry.h(sender, e)
	}
}

// Relay re-announces a change observed elsewhere under the given property
// name. The relayed notification is marked as chained.
func (n *Notifier) Relay(sender any, name string, from PropertyChange) {
	n.Notify(sender, PropertyChange{
		Name:    name,
		Old:     from.Old,
		New:     from.New,
		Chained: true,
	})
}

// Set assigns v to *field and notifies a change of the named property if the
// value actually changed. It reports whether a change happened.
func Set[V comparable](n *Notifier, sender any, name string, field *V, v V) bool {
	old := *field
	if old == v {
		return false
	}
	*field = v
	n.Notify(sender, PropertyChange{Name: name, Old: old, New: v})
	return true
}

// SetAny is like Set but for values that are not comparable. It always
// notifies.
func SetAny[V any](n *Notifier, sender any, name string, field *V, v V) {
	old := *field
	*field = v
	n.Notify(sender, PropertyChange{Name: name, Old: old, New: v})
}

var (
	propertyNotifierType   = reflect.TypeOf((*PropertyNotifier)(nil)).Elem()
	collectionNotifierType = reflect.TypeOf((*CollectionNotifier)(nil)).Elem()
	collectionType         = reflect.TypeOf((*Collection)(nil)).Elem()
)

// IsPropertyNotifier reports whether values of type t announce property
// changes.
func IsPropertyNotifier(t reflect.Type) bool {
	return t != nil && t.Implements(propertyNotifierType)
}

// IsCollectionNotifier reports whether values of type t announce collection
// changes.
func IsCollectionNotifier(t reflect.Type) bool {
	return t != nil && t.Implements(collectionNotifierType)
}

// IsCollection reports whether values of type t implement Collection.
func IsCollection(t reflect.Type) bool {
	return t != nil && t.Implements(collectionType)
}

// Event is a minimal typed event source. The zero value is ready to use.
type Event[T any] struct {
	hs handlers[func(T)]
}

// Subscribe attaches f to the event.
func (e *Event[T]) Subscribe(f func(T)) Subscription {
	return e.hs.add(f)
}

// Emit calls every attached handler with v.
func (e *Event[T]) Emit(v T) {
	for _, entry := range e.hs.snapshot() {
		if entry.dead {
			continue
		}
		entry.h(v)
	}
}

// Subscribers returns how many handlers are currently attached.
func (e *Event[T]) Subscribers() int {
	return e.hs.len()
}
