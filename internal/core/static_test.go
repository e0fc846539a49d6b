package core

import (
	"errors"
	"reflect"
	"testing"
)

type staticOwner struct{}

var staticLevel = 1

func TestStaticRegistry(t *testing.T) {
	typ := reflect.TypeOf(staticOwner{})
	if _, err := LookupStatic(typ, "Level"); !errors.Is(err, ErrStaticNotRegistered) {
		t.Fatalf("expected ErrStaticNotRegistered, got %v", err)
	}

	RegisterStatic(typ, "Level", reflect.TypeOf(0),
		func() any { return staticLevel },
		func(v any) { staticLevel = v.(int) })

	s, err := LookupStatic(typ, "Level")
	if err != nil {
		t.Fatalf("LookupStatic failed: %v", err)
	}
	s.Set(5)
	if s.Get() != 5 || staticLevel != 5 {
		t.Errorf("static set failed: %v", staticLevel)
	}
}
