package core

import (
	"reflect"
	"strings"
)

// TagName is the struct tag key read by the history engine.
const TagName = "undo"

// StructTag holds the parsed `undo` struct tag of a field.
//
//	Name string `undo:"-"`           // never recorded, descendants ignored too
//	Next *Node  `undo:"-,children"`  // reassignment not recorded, descendants tracked
type StructTag struct {
	Ignore        bool
	AllowChildren bool
}

func ParseTag(field reflect.StructField) StructTag {
	tag := field.Tag.Get(TagName)
	if tag == "" {
		return StructTag{}
	}

	st := StructTag{}
	parts := strings.Split(tag, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		switch part {
		case "-":
			st.Ignore = true
		case "children":
			st.AllowChildren = true
		}
	}

	// "children" on its own means nothing; children are tracked by default.
	if !st.Ignore {
		st.AllowChildren = false
	}

	return st
}
