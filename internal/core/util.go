package core

import (
	"reflect"
)

// ConvertValue returns v as a value of targetType. Invalid values (from a nil
// interface) become the zero value of targetType.
func ConvertValue(v reflect.Value, targetType reflect.Type) reflect.Value {
	if !v.IsValid() {
		return reflect.Zero(targetType)
	}

	if v.Type() == targetType {
		return v
	}

	if v.Type().AssignableTo(targetType) {
		if targetType.Kind() == reflect.Interface {
			out := reflect.New(targetType).Elem()
			out.Set(v)
			return out
		}
		return v
	}

	// Numeric conversions only; string(int) style conversions are never
	// what a property write means.
	if isNumeric(v.Kind()) && isNumeric(targetType.Kind()) && v.Type().ConvertibleTo(targetType) {
		return v.Convert(targetType)
	}

	// Handle pointer wrapping
	if targetType.Kind() == reflect.Pointer && v.Type().AssignableTo(targetType.Elem()) {
		ptr := reflect.New(targetType.Elem())
		ptr.Elem().Set(v)
		return ptr
	}

	return v
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func ValueToInterface(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	return v.Interface()
}

func InterfaceToValue(i any) reflect.Value {
	if i == nil {
		return reflect.Value{}
	}
	return reflect.ValueOf(i)
}

// IsNil reports whether v is nil or holds a nil pointer, interface, map,
// slice, func or channel.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	return isNilKind(reflect.ValueOf(v))
}

// SameInstance reports whether a and b refer to the same object. Pointers,
// maps, slices, funcs and channels compare by address; other comparable
// values compare with ==.
func SameInstance(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if va.Type().Comparable() {
		return a == b
	}
	return false
}
