package undo

import (
	"errors"

	"github.com/brunoga/undo/internal/core"
)

var (
	// ErrInvalidCapacity is reported for a negative history capacity.
	ErrInvalidCapacity = errors.New("undo: capacity must not be negative")

	// ErrCannotMerge is raised when Merge is called with an operation that
	// CanMerge rejects.
	ErrCannotMerge = errors.New("undo: operations cannot be merged")

	// ErrRecordOrder is raised when nested recording scopes are not ended in
	// reverse order of creation.
	ErrRecordOrder = errors.New("undo: recording scopes ended out of order")

	// ErrReentrant is raised when the history is modified while an undo, redo
	// or other history transition is running.
	ErrReentrant = errors.New("undo: history modified during a history transition")

	// ErrNotCollection is raised when a collection watcher is bound to a
	// property that is not a notify.Collection.
	ErrNotCollection = errors.New("undo: property is not an observable collection")

	// ErrNotObservable is raised when a watcher needs a value that announces
	// property changes and the value found does not.
	ErrNotObservable = errors.New("undo: value does not announce property changes")

	// ErrNotPointer is raised when a snapshot target is not a non-nil pointer.
	ErrNotPointer = errors.New("undo: target must be a non-nil pointer")
)

// Accessor errors, re-exported for errors.Is checks.
var (
	ErrPathNotFound        = core.ErrPathNotFound
	ErrNilIntermediate     = core.ErrNilIntermediate
	ErrIndexOutOfRange     = core.ErrIndexOutOfRange
	ErrNotReadable         = core.ErrNotReadable
	ErrNotWritable         = core.ErrNotWritable
	ErrStaticNotRegistered = core.ErrStaticNotRegistered
)
