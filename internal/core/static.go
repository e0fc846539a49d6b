package core

import (
	"fmt"
	"reflect"
	"sync"
)

// StaticAccessor reads and writes a value that belongs to a type rather than
// to an instance, such as a package level setting.
type StaticAccessor struct {
	Owner reflect.Type
	Name  string
	Type  reflect.Type

	get func() any
	set func(any)
}

func (s *StaticAccessor) Get() any {
	return s.get()
}

func (s *StaticAccessor) Set(v any) {
	s.set(v)
}

type staticKey struct {
	owner reflect.Type
	name  string
}

var (
	staticMu       sync.RWMutex
	staticRegistry = make(map[staticKey]*StaticAccessor)
)

// RegisterStatic registers the static property name of owner. Registering
// the same key twice replaces the previous accessor.
func RegisterStatic(owner reflect.Type, name string, typ reflect.Type, get func() any, set func(any)) *StaticAccessor {
	if get == nil || set == nil {
		panic(fmt.Sprintf("core: static property %v.%s needs a getter and a setter", owner, name))
	}
	s := &StaticAccessor{Owner: owner, Name: name, Type: typ, get: get, set: set}

	staticMu.Lock()
	staticRegistry[staticKey{owner, name}] = s
	staticMu.Unlock()

	return s
}

// LookupStatic returns the accessor registered for (owner, name).
func LookupStatic(owner reflect.Type, name string) (*StaticAccessor, error) {
	staticMu.RLock()
	s, ok := staticRegistry[staticKey{owner, name}]
	staticMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%v.%s: %w", owner, name, ErrStaticNotRegistered)
	}
	return s, nil
}
