package core

import (
	"reflect"
	"sync"
)

// FieldInfo describes one property of a struct type: an exported, non
// embedded field.
type FieldInfo struct {
	Index int
	Name  string
	Type  reflect.Type
	Tag   StructTag

	// Setter is the index of the Set<Name> method in the method set of the
	// pointer type, or -1 when the field is assigned directly.
	Setter int
}

type TypeInfo struct {
	Type   reflect.Type
	Fields []FieldInfo

	byName map[string]int
}

// Field returns the property with the given name.
func (ti *TypeInfo) Field(name string) (FieldInfo, bool) {
	i, ok := ti.byName[name]
	if !ok {
		return FieldInfo{}, false
	}
	return ti.Fields[i], true
}

var (
	typeCache sync.Map // map[reflect.Type]*TypeInfo
)

// GetTypeInfo returns the cached property list of typ. Pointer types are
// resolved to their element type; non struct types have no properties.
func GetTypeInfo(typ reflect.Type) *TypeInfo {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if info, ok := typeCache.Load(typ); ok {
		return info.(*TypeInfo)
	}

	info := &TypeInfo{
		Type:   typ,
		byName: make(map[string]int),
	}
	if typ.Kind() == reflect.Struct {
		ptr := reflect.PointerTo(typ)
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			if !field.IsExported() || field.Anonymous {
				continue
			}
			info.byName[field.Name] = len(info.Fields)
			info.Fields = append(info.Fields, FieldInfo{
				Index:  i,
				Name:   field.Name,
				Type:   field.Type,
				Tag:    ParseTag(field),
				Setter: setterIndex(ptr, field),
			})
		}
	}

	actual, _ := typeCache.LoadOrStore(typ, info)
	return actual.(*TypeInfo)
}

func setterIndex(ptr reflect.Type, field reflect.StructField) int {
	m, ok := ptr.MethodByName("Set" + field.Name)
	if !ok {
		return -1
	}
	// Method types include the receiver.
	mt := m.Type
	if mt.NumIn() != 2 || mt.NumOut() != 0 {
		return -1
	}
	if !field.Type.AssignableTo(mt.In(1)) {
		return -1
	}
	return m.Index
}
