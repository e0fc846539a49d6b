package undo

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/brunoga/undo/internal/core"
	"github.com/brunoga/undo/notify"
)

// BindProperty records the changes of a single property. A dotted path binds
// to the last property of the value found at bind time below owner, which
// must itself announce property changes. The listener keeps track of the
// previous value itself. With autoMerge false consecutive changes are never
// merged.
//
// It panics when path cannot be resolved.
func (c *Controller) BindProperty(owner notify.PropertyNotifier, path string, autoMerge bool) Cancelable {
	target, name := bindTarget(owner, path)

	l := &propertyBinding{
		c:         c,
		target:    target,
		name:      name,
		accessor:  core.MustAccessor(reflect.TypeOf(target), name),
		autoMerge: autoMerge,
	}
	l.prev = l.accessor.MustGet(target)
	l.sub = target.OnPropertyChanged(l.changed)
	return l.sub
}

type propertyBinding struct {
	c         *Controller
	target    notify.PropertyNotifier
	name      string
	accessor  *core.Accessor
	prev      any
	autoMerge bool
	sub       notify.Subscription
}

func (l *propertyBinding) changed(_ any, e notify.PropertyChange) {
	if e.Name != l.name {
		return
	}
	next, _ := l.accessor.TryGet(l.target)

	if l.c.IsOperating() {
		l.prev = next
		return
	}

	op := MustPropertyOperation(l.target, l.name, l.prev, next)
	l.prev = next

	if l.autoMerge {
		l.c.Push(op)
	} else {
		l.c.PushWithoutMerge(op)
	}
}

// BindListProperty records the structural changes of the collection held by
// a property. When the property is assigned a new collection, recording
// moves to it. A dotted path is resolved like in BindProperty.
//
// It panics with ErrNotCollection when the declared property type is not a
// notify.Collection.
func (c *Controller) BindListProperty(owner notify.PropertyNotifier, path string) Cancelable {
	target, name := bindTarget(owner, path)

	a := core.MustAccessor(reflect.TypeOf(target), name)
	if !notify.IsCollection(a.PropertyType()) {
		panic(fmt.Errorf("%s (%v): %w", path, a.PropertyType(), ErrNotCollection))
	}

	l := &listBinding{
		s:        newSession(c, false),
		target:   target,
		name:     name,
		accessor: a,
	}
	l.attach()
	l.sub = target.OnPropertyChanged(l.changed)
	return notify.SubscriptionFunc(l.cancel)
}

type listBinding struct {
	s        *session
	target   notify.PropertyNotifier
	name     string
	accessor *core.Accessor
	sub      notify.Subscription
	current  Cancelable
}

func (l *listBinding) attach() {
	v, ok := l.accessor.TryGet(l.target)
	if !ok || core.IsNil(v) {
		return
	}
	l.current = l.s.attachList(mustCollection(l.name, v), true, nil)
}

func (l *listBinding) changed(_ any, e notify.PropertyChange) {
	if e.Name != l.name {
		return
	}
	if l.current != nil {
		l.current.Cancel()
		l.current = nil
	}
	l.attach()
}

func (l *listBinding) cancel() {
	if l.sub != nil {
		l.sub.Cancel()
	}
	if l.current != nil {
		l.current.Cancel()
		l.current = nil
	}
}

// bindTarget splits a dotted path into the observable value holding the last
// property and that property's name.
func bindTarget(owner notify.PropertyNotifier, path string) (notify.PropertyNotifier, string) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return owner, path
	}

	v := core.MustAccessor(reflect.TypeOf(owner), path[:i]).MustGet(owner)
	target, ok := v.(notify.PropertyNotifier)
	if !ok || core.IsNil(v) {
		panic(fmt.Errorf("%s (%T): %w", path[:i], v, ErrNotObservable))
	}
	return target, path[i+1:]
}
