package undo

import (
	"fmt"
	"reflect"

	"github.com/brunoga/undo/internal/core"
)

// PropertyOperation sets the property at a path below an owner. Consecutive
// operations on the same owner and path merge into one that keeps the
// oldest previous value and the newest next value.
type PropertyOperation struct {
	Base

	owner    any
	accessor *core.Accessor
	key      PropertyKey
	prev     any
	next     any
}

// NewPropertyOperation returns an operation moving the property at path of
// owner from prev to next.
func NewPropertyOperation(owner any, path string, prev, next any) (*PropertyOperation, error) {
	a, err := core.AccessorFor(owner, path)
	if err != nil {
		return nil, err
	}
	op := &PropertyOperation{
		owner:    owner,
		accessor: a,
		key:      PropertyKey{Owner: owner, Path: path},
		prev:     prev,
		next:     next,
	}
	op.SetMessage(fmt.Sprintf("set %s", path))
	return op, nil
}

// NewSetPropertyOperation is like NewPropertyOperation but reads the previous
// value from owner.
func NewSetPropertyOperation(owner any, path string, next any) (*PropertyOperation, error) {
	a, err := core.AccessorFor(owner, path)
	if err != nil {
		return nil, err
	}
	prev, err := a.Get(owner)
	if err != nil {
		return nil, err
	}
	return NewPropertyOperation(owner, path, prev, next)
}

// MustPropertyOperation is like NewPropertyOperation but panics on failure.
func MustPropertyOperation(owner any, path string, prev, next any) *PropertyOperation {
	op, err := NewPropertyOperation(owner, path, prev, next)
	if err != nil {
		panic(err)
	}
	return op
}

func (o *PropertyOperation) Owner() any { return o.owner }

func (o *PropertyOperation) Path() string { return o.key.Path }

func (o *PropertyOperation) PrevValue() any { return o.prev }

func (o *PropertyOperation) NextValue() any { return o.next }

func (o *PropertyOperation) RollForward() {
	o.Run(func() { o.accessor.MustSet(o.owner, o.next) })
}

func (o *PropertyOperation) Rollback() {
	o.Run(func() { o.accessor.MustSet(o.owner, o.prev) })
}

func (o *PropertyOperation) MergeKey() any { return o.key }

func (o *PropertyOperation) CanMerge(next Mergeable) bool {
	n, ok := next.(*PropertyOperation)
	return ok && o.key.Equal(n.key)
}

func (o *PropertyOperation) Merge(next Mergeable) {
	if !o.CanMerge(next) {
		panic(fmt.Errorf("%s into %s: %w", next.Message(), o.Message(), ErrCannotMerge))
	}
	o.mergeHooks(next)
	o.next = next.(*PropertyOperation).next
}

// StaticPropertyOperation sets a property registered with RegisterStatic.
type StaticPropertyOperation struct {
	Base

	accessor *core.StaticAccessor
	key      StaticKey
	prev     any
	next     any
}

// NewStaticPropertyOperation returns an operation moving the static property
// name of owner from its current value to next.
func NewStaticPropertyOperation(owner reflect.Type, name string, next any) (*StaticPropertyOperation, error) {
	a, err := core.LookupStatic(owner, name)
	if err != nil {
		return nil, err
	}
	op := &StaticPropertyOperation{
		accessor: a,
		key:      StaticKey{Owner: owner, Name: name},
		prev:     a.Get(),
		next:     next,
	}
	op.SetMessage(fmt.Sprintf("set %v.%s", owner, name))
	return op, nil
}

func (o *StaticPropertyOperation) RollForward() {
	o.Run(func() { o.accessor.Set(o.next) })
}

func (o *StaticPropertyOperation) Rollback() {
	o.Run(func() { o.accessor.Set(o.prev) })
}

func (o *StaticPropertyOperation) MergeKey() any { return o.key }

func (o *StaticPropertyOperation) CanMerge(next Mergeable) bool {
	n, ok := next.(*StaticPropertyOperation)
	return ok && o.key == n.key
}

func (o *StaticPropertyOperation) Merge(next Mergeable) {
	if !o.CanMerge(next) {
		panic(fmt.Errorf("%s into %s: %w", next.Message(), o.Message(), ErrCannotMerge))
	}
	o.mergeHooks(next)
	o.next = next.(*StaticPropertyOperation).next
}

// RegisterStatic makes a value owned by a type, rather than an instance,
// available to StaticPropertyOperation under (owner, name).
func RegisterStatic[V any](owner reflect.Type, name string, get func() V, set func(V)) {
	typ := reflect.TypeFor[V]()
	core.RegisterStatic(owner, name, typ,
		func() any { return get() },
		func(v any) {
			var out V
			reflect.ValueOf(&out).Elem().Set(core.ConvertValue(core.InterfaceToValue(v), typ))
			set(out)
		})
}
