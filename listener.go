package undo

import (
	"fmt"
	"log/slog"
	"maps"
	"reflect"

	"github.com/brunoga/undo/internal/core"
	"github.com/brunoga/undo/internal/graph"
	"github.com/brunoga/undo/notify"
)

// Cancelable stops a listener. Cancel is idempotent.
type Cancelable = notify.Subscription

// group cancels several listeners as one.
type group []Cancelable

func (g group) Cancel() {
	for _, c := range g {
		if c != nil {
			c.Cancel()
		}
	}
}

// orNil returns nil for an empty group so callers can skip registering it.
func (g group) orNil() Cancelable {
	if len(g) == 0 {
		return nil
	}
	return g
}

// session is one tracking of an object graph. Every instance is attached at
// most once per session; reaching it again through another path shares the
// existing node.
type session struct {
	c       *Controller
	dynamic bool
	nodes   map[any]*objectNode
	logger  *slog.Logger
}

// Track records every change announced by obj and by the observable values
// reachable from it. Reachable paths are computed once per type; assigning a
// property re-attaches the subgraph below it.
func (c *Controller) Track(obj notify.PropertyNotifier) Cancelable {
	return c.track(obj, false)
}

// TrackDynamic is like Track but discovers children from the values found at
// run time, including observable values held by interface typed properties
// and slices.
func (c *Controller) TrackDynamic(obj notify.PropertyNotifier) Cancelable {
	return c.track(obj, true)
}

func (c *Controller) track(obj notify.PropertyNotifier, dynamic bool) Cancelable {
	s := newSession(c, dynamic)
	root := s.attachObject(obj)
	return notify.SubscriptionFunc(func() {
		root.Cancel()
		// Instance cycles keep each other referenced.
		for _, n := range maps.Clone(s.nodes) {
			n.cancel()
		}
	})
}

func newSession(c *Controller, dynamic bool) *session {
	return &session{
		c:       c,
		dynamic: dynamic,
		nodes:   make(map[any]*objectNode),
		logger:  c.logger,
	}
}

// attachObject returns a reference to the node tracking obj, creating it on
// first use.
func (s *session) attachObject(obj notify.PropertyNotifier) Cancelable {
	key, keyed := identity(obj)
	if keyed {
		if n, ok := s.nodes[key]; ok {
			n.refs++
			return n.ref()
		}
	}

	n := &objectNode{
		s:        s,
		target:   obj,
		key:      key,
		keyed:    keyed,
		children: make(map[string][]Cancelable),
		refs:     1,
	}
	if !s.dynamic {
		n.info = graph.Get(reflect.TypeOf(obj))
	}
	if keyed {
		s.nodes[key] = n
	}

	n.sub = obj.OnPropertyChanged(n.changed)
	n.scan("")

	s.logger.Debug("listener attach", slog.String("target", fmt.Sprintf("%T", obj)))
	return n.ref()
}

// attachList returns a listener recording the structural changes of list.
// When track is not nil it is called for every element and its result is
// kept aligned with the element's index.
func (s *session) attachList(list notify.Collection, record bool, track func(item any) Cancelable) Cancelable {
	n := &listNode{
		s:      s,
		list:   list,
		record: record,
		track:  track,
		backup: Items(list),
	}
	n.sub = list.OnCollectionChanged(n.changed)
	if track != nil {
		for _, item := range n.backup {
			n.elems = append(n.elems, track(item))
		}
	}
	return notify.SubscriptionFunc(n.cancel)
}

// attachPaths attaches listeners to the values found at the paths info lists
// below value. When only is not empty, paths outside that property are
// skipped. Each listener is handed to register with the base property name
// of its path.
func (s *session) attachPaths(value any, info *graph.PathInfo, only string, register func(base string, c Cancelable)) {
	for _, p := range info.ObservablePaths {
		base := core.BaseName(p)
		if only != "" && base != only {
			continue
		}
		v, ok := lookup(value, p)
		if !ok {
			continue
		}
		obj, ok := v.(notify.PropertyNotifier)
		if !ok {
			continue
		}
		register(base, s.attachObject(obj))
	}

	for _, lp := range info.ObservableListPaths {
		base := core.BaseName(lp.Path)
		if only != "" && base != only {
			continue
		}
		v, ok := lookup(value, lp.Path)
		if !ok {
			continue
		}
		elem := lp.Elem
		register(base, s.attachList(mustCollection(lp.Path, v), !lp.Ignored, func(item any) Cancelable {
			return s.attachElement(item, elem)
		}))
	}

	for _, p := range info.PlainListPaths {
		base := core.BaseName(p)
		if only != "" && base != only {
			continue
		}
		v, ok := lookup(value, p)
		if !ok {
			continue
		}
		register(base, s.attachList(mustCollection(p, v), true, nil))
	}
}

// attachElement tracks one element of a collection whose element type has
// an observable surface.
func (s *session) attachElement(item any, info *graph.PathInfo) Cancelable {
	if core.IsNil(item) {
		return nil
	}
	if obj, ok := item.(notify.PropertyNotifier); ok {
		return s.attachObject(obj)
	}
	var g group
	s.attachPaths(item, info, "", func(_ string, c Cancelable) { g = append(g, c) })
	return g.orNil()
}

// evaluate discovers listeners for a run time value: observable objects and
// collections directly, plain structs and slices through their contents.
// seen guards plain values against instance cycles.
func (s *session) evaluate(v any, seen map[uintptr]bool) Cancelable {
	if core.IsNil(v) {
		return nil
	}
	if obj, ok := v.(notify.PropertyNotifier); ok {
		return s.attachObject(obj)
	}
	if list, ok := v.(notify.Collection); ok {
		return s.attachList(list, true, s.trackDynamic)
	}

	rv := reflect.ValueOf(v)
	var g group
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if c := s.evaluate(valueOf(rv.Index(i)), seen); c != nil {
				g = append(g, c)
			}
		}
	case reflect.Pointer:
		if seen[rv.Pointer()] || rv.Elem().Kind() != reflect.Struct {
			return nil
		}
		seen[rv.Pointer()] = true
		s.evaluateFields(rv.Elem(), "", seen, func(_ string, c Cancelable) { g = append(g, c) })
	}
	return g.orNil()
}

// evaluateFields evaluates the reference typed properties of the struct sv,
// or only the property named only when it is not empty.
func (s *session) evaluateFields(sv reflect.Value, only string, seen map[uintptr]bool, register func(name string, c Cancelable)) {
	for _, f := range core.GetTypeInfo(sv.Type()).Fields {
		if only != "" && f.Name != only {
			continue
		}
		if f.Tag.Ignore && !f.Tag.AllowChildren {
			continue
		}
		switch f.Type.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Array:
		default:
			continue
		}
		v := valueOf(sv.Field(f.Index))

		var c Cancelable
		if list, ok := v.(notify.Collection); ok && f.Tag.Ignore && !core.IsNil(v) {
			// Elements only; the collection's own changes are excluded.
			c = s.attachList(list, false, s.trackDynamic)
		} else {
			c = s.evaluate(v, seen)
		}
		if c != nil {
			register(f.Name, c)
		}
	}
}

func (s *session) trackDynamic(item any) Cancelable {
	return s.evaluate(item, make(map[uintptr]bool))
}

func identity(obj any) (any, bool) {
	t := reflect.TypeOf(obj)
	if t == nil || !t.Comparable() {
		return nil, false
	}
	return obj, true
}

func lookup(owner any, path string) (any, bool) {
	a, err := core.AccessorFor(owner, path)
	if err != nil {
		return nil, false
	}
	v, ok := a.TryGet(owner)
	if !ok || core.IsNil(v) {
		return nil, false
	}
	return v, true
}

func mustCollection(path string, v any) notify.Collection {
	list, ok := v.(notify.Collection)
	if !ok {
		if _, announces := v.(notify.CollectionNotifier); announces {
			panic(fmt.Errorf("%s (%T) announces collection changes but does not implement notify.Collection "+
				"(Len, Item, InsertItem, SetItem, RemoveItem, ClearItems, ElemType): %w", path, v, ErrNotCollection))
		}
		panic(fmt.Errorf("%s (%T): %w", path, v, ErrNotCollection))
	}
	return list
}

func valueOf(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}
