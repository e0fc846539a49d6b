// Package undo is an operation history engine for mutable object graphs.
//
// Changes are recorded either explicitly, by wrapping a mutation in an
// Operation and handing it to a Controller, or automatically, by tracking an
// object graph whose values announce their changes through the notify
// package. Recorded operations can then be undone and redone.
package undo

import (
	"fmt"
	"reflect"

	"github.com/brunoga/undo/internal/core"
)

// Operation is a reversible unit of change.
type Operation interface {
	Message() string
	SetMessage(msg string)

	// RollForward applies (or re-applies) the change.
	RollForward()
	// Rollback reverts the change.
	Rollback()

	// OnPre registers a hook run before every RollForward and Rollback.
	OnPre(f func())
	// OnPost registers a hook run after every RollForward and Rollback, even
	// when the transition panics.
	OnPost(f func())
}

// Mergeable is an Operation that can absorb a later operation on the same
// target.
type Mergeable interface {
	Operation

	// MergeKey identifies the logical target of the operation. It never
	// changes for the lifetime of the operation.
	MergeKey() any
	// CanMerge reports whether next can be merged into the receiver.
	CanMerge(next Mergeable) bool
	// Merge folds next into the receiver. It panics with ErrCannotMerge when
	// CanMerge(next) is false.
	Merge(next Mergeable)

	// Hooks returns copies of the registered pre and post hooks.
	Hooks() (pre, post []func())
}

// Base carries the message and hooks shared by every operation. Embed it and
// wrap the transition functions with Run.
type Base struct {
	message string
	pre     []func()
	post    []func()
}

func (b *Base) Message() string { return b.message }

func (b *Base) SetMessage(msg string) { b.message = msg }

func (b *Base) OnPre(f func()) {
	if f != nil {
		b.pre = append(b.pre, f)
	}
}

func (b *Base) OnPost(f func()) {
	if f != nil {
		b.post = append(b.post, f)
	}
}

func (b *Base) Hooks() (pre, post []func()) {
	return append([]func(){}, b.pre...), append([]func(){}, b.post...)
}

// Run calls the pre hooks, f and then the post hooks. Post hooks run even if
// a pre hook or f panics.
func (b *Base) Run(f func()) {
	defer func() {
		for _, h := range b.post {
			h()
		}
	}()
	for _, h := range b.pre {
		h()
	}
	f()
}

// mergeHooks appends the pre hooks of next and prepends its post hooks.
func (b *Base) mergeHooks(next Mergeable) {
	pre, post := next.Hooks()
	b.pre = append(b.pre, pre...)
	b.post = append(post, b.post...)
}

// PropertyKey is the merge key of operations targeting one property of one
// object. Owners compare by identity.
type PropertyKey struct {
	Owner any
	Path  string
}

// Equal reports whether k and other address the same property of the same
// instance.
func (k PropertyKey) Equal(other PropertyKey) bool {
	return k.Path == other.Path && core.SameInstance(k.Owner, other.Owner)
}

func (k PropertyKey) String() string {
	return fmt.Sprintf("%T(%p).%s", k.Owner, k.Owner, k.Path)
}

// StaticKey is the merge key of operations targeting a static property.
type StaticKey struct {
	Owner reflect.Type
	Name  string
}

// equaler is implemented by merge keys that define their own equality.
type equaler interface {
	Equal(other any) bool
}

// SameKey reports whether two merge keys are equal. Keys implementing
// Equal(any) bool use it; other keys compare by instance.
func SameKey(a, b any) bool {
	switch ka := a.(type) {
	case PropertyKey:
		kb, ok := b.(PropertyKey)
		return ok && ka.Equal(kb)
	case StaticKey:
		kb, ok := b.(StaticKey)
		return ok && ka == kb
	}
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if e, ok := a.(equaler); ok {
		return e.Equal(b)
	}
	return core.SameInstance(a, b)
}
