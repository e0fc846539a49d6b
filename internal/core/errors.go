package core

import "errors"

var (
	ErrPathNotFound        = errors.New("path not found")
	ErrNilIntermediate     = errors.New("nil value at intermediate step")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrNotReadable         = errors.New("value is not readable")
	ErrNotWritable         = errors.New("value is not writable")
	ErrStaticNotRegistered = errors.New("static property not registered")
)
