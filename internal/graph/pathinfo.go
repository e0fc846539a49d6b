// Package graph discovers, once per type, which property paths of an object
// graph can announce changes.
package graph

import (
	"fmt"
	"reflect"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/brunoga/undo/internal/core"
	"github.com/brunoga/undo/notify"
)

// ListPath is a collection valued path whose elements have an observable
// surface of their own.
type ListPath struct {
	Path string
	Elem *PathInfo

	// Ignored is set when only the elements are tracked; structural changes
	// of the collection itself are not recorded.
	Ignored bool
}

// PathInfo lists the paths below values of one type that a listener must
// subscribe to. Paths are dotted chains of property names relative to the
// value.
type PathInfo struct {
	Type reflect.Type

	// IsObservableRoot reports whether values of Type announce property
	// changes themselves.
	IsObservableRoot bool

	// ObservablePaths lead to values announcing property changes.
	ObservablePaths []string

	// ObservableListPaths lead to collections whose elements are observable.
	ObservableListPaths []ListPath

	// PlainListPaths lead to collections whose elements carry nothing to
	// observe.
	PlainListPaths []string

	// ignored holds the paths whose own changes must not be recorded.
	ignored map[string]bool
}

// HasVariable reports whether values of the type have any observable surface.
func (pi *PathInfo) HasVariable() bool {
	return pi.IsObservableRoot ||
		len(pi.ObservablePaths) > 0 ||
		len(pi.ObservableListPaths) > 0 ||
		len(pi.PlainListPaths) > 0
}

// Ignored reports whether changes of the property at path are excluded from
// history.
func (pi *PathInfo) Ignored(path string) bool {
	return pi.ignored[path]
}

// IgnoredPaths returns the excluded paths in sorted order.
func (pi *PathInfo) IgnoredPaths() []string {
	out := make([]string, 0, len(pi.ignored))
	for p := range pi.ignored {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func (pi *PathInfo) String() string {
	return fmt.Sprintf("PathInfo(%v: root=%t objects=%v lists=%d plain=%v ignored=%v)",
		pi.Type, pi.IsObservableRoot, pi.ObservablePaths, len(pi.ObservableListPaths),
		pi.PlainListPaths, pi.IgnoredPaths())
}

var (
	cache   sync.Map // map[reflect.Type]*PathInfo
	group   singleflight.Group
	buildMu sync.Mutex
)

// Get returns the PathInfo of typ, building it on first use. Concurrent first
// calls for the same type build it once.
func Get(typ reflect.Type) *PathInfo {
	if info, ok := cache.Load(typ); ok {
		return info.(*PathInfo)
	}

	v, _, _ := group.Do(fmt.Sprintf("%p", typ), func() (any, error) {
		buildMu.Lock()
		defer buildMu.Unlock()

		if info, ok := cache.Load(typ); ok {
			return info, nil
		}

		b := &builder{pending: make(map[reflect.Type]*PathInfo)}
		info := b.get(typ)

		// Everything built along the way is complete once the root returns.
		for t, pi := range b.pending {
			cache.LoadOrStore(t, pi)
		}
		return info, nil
	})
	return v.(*PathInfo)
}

// builder holds the infos of one build. Self referential types get the
// pending, partially scanned, info so recursion terminates.
type builder struct {
	pending map[reflect.Type]*PathInfo
}

func (b *builder) get(typ reflect.Type) *PathInfo {
	if info, ok := cache.Load(typ); ok {
		return info.(*PathInfo)
	}
	if info, ok := b.pending[typ]; ok {
		return info
	}

	info := &PathInfo{
		Type:             typ,
		IsObservableRoot: notify.IsPropertyNotifier(typ),
		ignored:          make(map[string]bool),
	}
	b.pending[typ] = info

	b.scan(info, "", typ, []reflect.Type{typ})
	return info
}

func (b *builder) scan(info *PathInfo, base string, typ reflect.Type, chain []reflect.Type) {
	for _, f := range core.GetTypeInfo(typ).Fields {
		path := core.JoinPath(base, f.Name)

		if f.Tag.Ignore {
			info.ignored[path] = true
			if !f.Tag.AllowChildren {
				continue
			}
		}

		ft := f.Type
		if !isReference(ft) {
			continue
		}

		switch {
		case notify.IsPropertyNotifier(ft):
			info.ObservablePaths = append(info.ObservablePaths, path)
			b.get(ft)

		case notify.IsCollectionNotifier(ft):
			if !notify.IsCollection(ft) {
				if !f.Tag.Ignore {
					info.PlainListPaths = append(info.PlainListPaths, path)
				}
				continue
			}
			elem := b.get(core.CollectionElemType(ft))
			if elem.HasVariable() {
				info.ObservableListPaths = append(info.ObservableListPaths, ListPath{
					Path:    path,
					Elem:    elem,
					Ignored: f.Tag.Ignore,
				})
			} else if !f.Tag.Ignore {
				info.PlainListPaths = append(info.PlainListPaths, path)
			}

		case !slices.Contains(chain, ft):
			b.scan(info, path, ft, append(chain, ft))
		}
	}
}

// isReference reports whether values of t can hold a shared, observable
// object. Value kinds and strings carry nothing to observe.
func isReference(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface:
		return true
	}
	return false
}
