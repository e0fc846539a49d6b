package undo

import (
	"fmt"
	"reflect"

	"github.com/barkimedes/go-deepcopy"
	"github.com/huandu/go-clone"
	"github.com/mitchellh/copystructure"
)

// Copier returns a deep copy of v with the same dynamic type.
type Copier func(v any) any

// DefaultCopier deep copies with go-clone, following pointer cycles.
func DefaultCopier(v any) any {
	return clone.Slowly(v)
}

// StructureCopier deep copies with copystructure. It does not support
// pointer cycles and panics on them.
func StructureCopier(v any) any {
	return copystructure.Must(copystructure.Copy(v))
}

// ReflectCopier deep copies with go-deepcopy.
func ReflectCopier(v any) any {
	return deepcopy.MustAnything(v)
}

// SnapshotOperation swaps whole copies of a value in and out of a pointer.
// It records changes to state that does not announce them.
type SnapshotOperation struct {
	Base

	target reflect.Value
	before any
	after  any
	copier Copier
}

// NewSnapshot returns an operation moving the value pointed to by target
// between before and after. The snapshots are copied again on every
// transition so later edits of the target never reach them.
func NewSnapshot(target any, before, after any, copier Copier) (*SnapshotOperation, error) {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil, fmt.Errorf("snapshot of %T: %w", target, ErrNotPointer)
	}
	if copier == nil {
		copier = DefaultCopier
	}
	op := &SnapshotOperation{target: v.Elem(), before: before, after: after, copier: copier}
	op.SetMessage(fmt.Sprintf("snapshot %v", v.Elem().Type()))
	return op, nil
}

func (o *SnapshotOperation) RollForward() {
	o.Run(func() { o.restore(o.after) })
}

func (o *SnapshotOperation) Rollback() {
	o.Run(func() { o.restore(o.before) })
}

func (o *SnapshotOperation) restore(snapshot any) {
	if snapshot == nil {
		o.target.Set(reflect.Zero(o.target.Type()))
		return
	}
	o.target.Set(reflect.ValueOf(o.copier(snapshot)))
}
