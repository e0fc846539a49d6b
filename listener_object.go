package undo

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/brunoga/undo/internal/core"
	"github.com/brunoga/undo/internal/graph"
	"github.com/brunoga/undo/notify"
)

// objectNode listens to one observable instance and owns the listeners of
// the values reachable through its properties, keyed by property name.
type objectNode struct {
	s      *session
	target notify.PropertyNotifier
	info   *graph.PathInfo // nil when discovering children at run time

	key   any
	keyed bool
	refs  int

	sub       notify.Subscription
	children  map[string][]Cancelable
	cancelled bool
}

func (n *objectNode) ref() Cancelable {
	return notify.SubscriptionFunc(func() {
		n.refs--
		if n.refs <= 0 {
			n.cancel()
		}
	})
}

func (n *objectNode) register(name string, c Cancelable) {
	n.children[name] = append(n.children[name], c)
}

// scan attaches the children below property only, or below every property
// when only is empty.
func (n *objectNode) scan(only string) {
	if n.info != nil {
		n.s.attachPaths(n.target, n.info, only, n.register)
		return
	}

	sv := reflect.ValueOf(n.target)
	for sv.Kind() == reflect.Pointer && !sv.IsNil() {
		sv = sv.Elem()
	}
	if sv.Kind() != reflect.Struct {
		return
	}
	seen := map[uintptr]bool{}
	if sv.CanAddr() {
		seen[sv.Addr().Pointer()] = true
	}
	n.s.evaluateFields(sv, only, seen, n.register)
}

func (n *objectNode) ignored(name string) bool {
	if n.info != nil {
		return n.info.Ignored(name)
	}
	f, ok := core.GetTypeInfo(reflect.TypeOf(n.target)).Field(name)
	return ok && f.Tag.Ignore
}

func (n *objectNode) changed(_ any, e notify.PropertyChange) {
	if n.cancelled {
		return
	}

	// The old value is no longer reachable through this property.
	group(n.children[e.Name]).Cancel()
	delete(n.children, e.Name)

	n.scan(e.Name)

	c := n.s.c
	if c.IsOperating() || e.Chained || n.ignored(e.Name) {
		return
	}

	op, err := NewPropertyOperation(n.target, e.Name, e.Old, e.New)
	if err != nil {
		n.s.logger.Debug("change not recorded",
			slog.String("target", fmt.Sprintf("%T", n.target)),
			slog.String("property", e.Name),
			slog.Any("error", err))
		return
	}
	c.Push(op)
}

func (n *objectNode) cancel() {
	if n.cancelled {
		return
	}
	n.cancelled = true

	if n.keyed {
		delete(n.s.nodes, n.key)
	}
	n.sub.Cancel()
	for _, cs := range n.children {
		group(cs).Cancel()
	}
	clear(n.children)

	n.s.logger.Debug("listener detach", slog.String("target", fmt.Sprintf("%T", n.target)))
}
