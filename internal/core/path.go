package core

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/brunoga/undo/notify"
)

// PathPart is one step of a property path: either a property name or an
// index into the value reached so far.
type PathPart struct {
	Key     string
	Index   int
	IsIndex bool
}

func (p PathPart) Equals(other PathPart) bool {
	if p.IsIndex != other.IsIndex {
		return false
	}
	if p.IsIndex {
		return p.Index == other.Index
	}
	return p.Key == other.Key
}

func (p PathPart) String() string {
	if p.IsIndex {
		return "[" + strconv.Itoa(p.Index) + "]"
	}
	return p.Key
}

// ParsePath parses a dotted, optionally indexed, property path such as
// "Friend.Person.Age" or "Children[2].Name".
func ParsePath(path string) ([]PathPart, error) {
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", ErrPathNotFound)
	}

	var parts []PathPart
	for _, segment := range strings.Split(path, ".") {
		name := segment
		rest := ""
		if i := strings.IndexByte(segment, '['); i >= 0 {
			name, rest = segment[:i], segment[i:]
		}
		if name == "" {
			return nil, fmt.Errorf("invalid path %q: empty segment: %w", path, ErrPathNotFound)
		}
		parts = append(parts, PathPart{Key: name})

		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end < 0 {
				return nil, fmt.Errorf("invalid path %q: malformed index: %w", path, ErrPathNotFound)
			}
			idx, err := strconv.Atoi(rest[1:end])
			if err != nil || idx < 0 {
				return nil, fmt.Errorf("invalid path %q: bad index %q: %w", path, rest[1:end], ErrPathNotFound)
			}
			parts = append(parts, PathPart{Index: idx, IsIndex: true})
			rest = rest[end+1:]
		}
	}
	return parts, nil
}

// FormatPath is the inverse of ParsePath.
func FormatPath(parts []PathPart) string {
	var b strings.Builder
	for i, part := range parts {
		if !part.IsIndex && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part.String())
	}
	return b.String()
}

// BaseName returns the first property name of path ("A" for "A.B[1].C").
func BaseName(path string) string {
	if i := strings.IndexAny(path, ".["); i >= 0 {
		return path[:i]
	}
	return path
}

// JoinPath joins a parent path and a child property name with a dot.
func JoinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

// Accessor reads and writes the value found at a path below an owner of a
// given type. Accessors are immutable and cached per (type, path).
type Accessor struct {
	owner reflect.Type
	path  string
	parts []PathPart
	typ   reflect.Type
}

// Path returns the path the accessor resolves.
func (a *Accessor) Path() string {
	return a.path
}

// PropertyType returns the declared type of the value at the path.
func (a *Accessor) PropertyType() reflect.Type {
	return a.typ
}

type accessorKey struct {
	typ  reflect.Type
	path string
}

var accessorCache sync.Map // map[accessorKey]*Accessor

// GetAccessor returns the accessor for path below values of type owner.
func GetAccessor(owner reflect.Type, path string) (*Accessor, error) {
	key := accessorKey{owner, path}
	if a, ok := accessorCache.Load(key); ok {
		return a.(*Accessor), nil
	}

	parts, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	typ, err := declaredType(owner, parts)
	if err != nil {
		return nil, fmt.Errorf("%v.%s: %w", owner, path, err)
	}

	a := &Accessor{owner: owner, path: path, parts: parts, typ: typ}
	actual, _ := accessorCache.LoadOrStore(key, a)
	return actual.(*Accessor), nil
}

// MustAccessor is like GetAccessor but panics on failure.
func MustAccessor(owner reflect.Type, path string) *Accessor {
	a, err := GetAccessor(owner, path)
	if err != nil {
		panic(err)
	}
	return a
}

// AccessorFor returns the accessor for path below the dynamic type of owner.
func AccessorFor(owner any, path string) (*Accessor, error) {
	if owner == nil {
		return nil, fmt.Errorf("nil owner: %w", ErrNotReadable)
	}
	return GetAccessor(reflect.TypeOf(owner), path)
}

func declaredType(typ reflect.Type, parts []PathPart) (reflect.Type, error) {
	current := typ
	for _, part := range parts {
		if part.IsIndex {
			if notify.IsCollection(current) {
				current = collectionElemType(current)
				continue
			}
			current = derefType(current)
			switch current.Kind() {
			case reflect.Slice, reflect.Array:
				current = current.Elem()
			default:
				return nil, fmt.Errorf("cannot index %v: %w", current, ErrPathNotFound)
			}
			continue
		}

		current = derefType(current)
		if current.Kind() != reflect.Struct {
			return nil, fmt.Errorf("cannot access property %s on %v: %w", part.Key, current, ErrPathNotFound)
		}
		f, ok := GetTypeInfo(current).Field(part.Key)
		if !ok {
			return nil, fmt.Errorf("property %s not found on %v: %w", part.Key, current, ErrPathNotFound)
		}
		current = f.Type
	}
	return current, nil
}

// collectionElemType asks a collection type for its element type without
// needing an instance. Interface typed collections report any.
func collectionElemType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Pointer {
		if c, ok := reflect.Zero(t).Interface().(notify.Collection); ok {
			return c.ElemType()
		}
	}
	return reflect.TypeOf((*any)(nil)).Elem()
}

// CollectionElemType is the exported form of collectionElemType.
func CollectionElemType(t reflect.Type) reflect.Type {
	return collectionElemType(t)
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Get returns the value at the path below owner.
func (a *Accessor) Get(owner any) (any, error) {
	v, err := a.resolve(reflect.ValueOf(owner), a.parts)
	if err != nil {
		return nil, err
	}
	return ValueToInterface(v), nil
}

// TryGet is like Get but reports failures, including nil intermediate
// values, as ok == false.
func (a *Accessor) TryGet(owner any) (any, bool) {
	v, err := a.Get(owner)
	if err != nil {
		return nil, false
	}
	return v, true
}

// MustGet is like Get but panics on failure.
func (a *Accessor) MustGet(owner any) any {
	v, err := a.Get(owner)
	if err != nil {
		panic(fmt.Errorf("get %s: %w", a.path, err))
	}
	return v
}

// Set writes val at the path below owner. A property with a Set<Name>
// method is written through that method.
func (a *Accessor) Set(owner any, val any) error {
	n := len(a.parts)
	parent, err := a.resolve(reflect.ValueOf(owner), a.parts[:n-1])
	if err != nil {
		return err
	}
	last := a.parts[n-1]

	if last.IsIndex {
		return setIndex(parent, last.Index, val)
	}
	return setProperty(parent, last.Key, val)
}

// MustSet is like Set but panics on failure.
func (a *Accessor) MustSet(owner any, val any) {
	if err := a.Set(owner, val); err != nil {
		panic(fmt.Errorf("set %s: %w", a.path, err))
	}
}

func (a *Accessor) resolve(v reflect.Value, parts []PathPart) (reflect.Value, error) {
	current := v
	for i, part := range parts {
		if !current.IsValid() || isNilKind(current) {
			if i == 0 {
				return reflect.Value{}, fmt.Errorf("nil owner: %w", ErrNotReadable)
			}
			return reflect.Value{}, fmt.Errorf("%s: %w", FormatPath(parts[:i]), ErrNilIntermediate)
		}

		if part.IsIndex {
			next, err := index(current, part.Index)
			if err != nil {
				return reflect.Value{}, err
			}
			current = next
			continue
		}

		s := deref(current)
		if !s.IsValid() {
			return reflect.Value{}, fmt.Errorf("%s: %w", FormatPath(parts[:i]), ErrNilIntermediate)
		}
		if s.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("cannot access property %s on %v: %w", part.Key, s.Type(), ErrPathNotFound)
		}
		f, ok := GetTypeInfo(s.Type()).Field(part.Key)
		if !ok {
			return reflect.Value{}, fmt.Errorf("property %s not found on %v: %w", part.Key, s.Type(), ErrPathNotFound)
		}
		current = s.Field(f.Index)
	}
	return current, nil
}

func index(v reflect.Value, i int) (reflect.Value, error) {
	if v.CanInterface() {
		if c, ok := v.Interface().(notify.Collection); ok {
			if i >= c.Len() {
				return reflect.Value{}, fmt.Errorf("index %d: %w", i, ErrIndexOutOfRange)
			}
			return reflect.ValueOf(c.Item(i)), nil
		}
	}
	s := deref(v)
	switch s.Kind() {
	case reflect.Slice, reflect.Array:
		if i >= s.Len() {
			return reflect.Value{}, fmt.Errorf("index %d: %w", i, ErrIndexOutOfRange)
		}
		return s.Index(i), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot index %v: %w", v.Type(), ErrPathNotFound)
}

func setIndex(parent reflect.Value, i int, val any) error {
	if parent.CanInterface() {
		if c, ok := parent.Interface().(notify.Collection); ok {
			if i >= c.Len() {
				return fmt.Errorf("index %d: %w", i, ErrIndexOutOfRange)
			}
			c.SetItem(i, val)
			return nil
		}
	}
	s := deref(parent)
	switch s.Kind() {
	case reflect.Slice, reflect.Array:
		if i >= s.Len() {
			return fmt.Errorf("index %d: %w", i, ErrIndexOutOfRange)
		}
		elem := s.Index(i)
		if !elem.CanSet() {
			return fmt.Errorf("index %d of %v: %w", i, s.Type(), ErrNotWritable)
		}
		elem.Set(ConvertValue(InterfaceToValue(val), elem.Type()))
		return nil
	}
	return fmt.Errorf("cannot index %v: %w", parent.Type(), ErrPathNotFound)
}

func setProperty(parent reflect.Value, name string, val any) error {
	// Find the innermost pointer so setter methods can be called on it.
	holder := parent
	for holder.Kind() == reflect.Interface && !holder.IsNil() {
		holder = holder.Elem()
	}
	for holder.Kind() == reflect.Pointer && !holder.IsNil() && holder.Elem().Kind() == reflect.Pointer {
		holder = holder.Elem()
	}
	if isNilKind(holder) {
		return fmt.Errorf("property %s: %w", name, ErrNilIntermediate)
	}

	s := deref(holder)
	if s.Kind() != reflect.Struct {
		return fmt.Errorf("cannot access property %s on %v: %w", name, s.Type(), ErrPathNotFound)
	}
	f, ok := GetTypeInfo(s.Type()).Field(name)
	if !ok {
		return fmt.Errorf("property %s not found on %v: %w", name, s.Type(), ErrPathNotFound)
	}

	converted := ConvertValue(InterfaceToValue(val), f.Type)
	if f.Setter >= 0 {
		if holder.Kind() == reflect.Struct && holder.CanAddr() {
			holder = holder.Addr()
		}
		if holder.Kind() == reflect.Pointer {
			holder.Method(f.Setter).Call([]reflect.Value{converted})
			return nil
		}
	}

	field := s.Field(f.Index)
	if !field.CanSet() {
		return fmt.Errorf("property %s of %v: %w", name, s.Type(), ErrNotWritable)
	}
	field.Set(converted)
	return nil
}

func deref(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isNilKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}
