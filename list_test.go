package undo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunoga/undo/notify"
)

func TestListOperations(t *testing.T) {
	tests := []struct {
		name   string
		before []string
		exec   func(c *Controller, l List)
		after  []string
	}{
		{"add", []string{"a"}, func(c *Controller, l List) { c.ExecuteAdd(l, "b") }, []string{"a", "b"}},
		{"insert", []string{"a", "b"}, func(c *Controller, l List) { c.ExecuteInsert(l, "x", 1) }, []string{"a", "x", "b"}},
		{"add range", []string{"a"}, func(c *Controller, l List) { c.ExecuteAddRange(l, "b", "c") }, []string{"a", "b", "c"}},
		{"remove", []string{"a", "b", "c"}, func(c *Controller, l List) { c.ExecuteRemove(l, "b") }, []string{"a", "c"}},
		{"remove at", []string{"a", "b", "c"}, func(c *Controller, l List) { c.ExecuteRemoveAt(l, 0) }, []string{"b", "c"}},
		{"clear", []string{"a", "b", "c"}, func(c *Controller, l List) { c.ExecuteClearList(l) }, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, kind := range []string{"slice", "collection"} {
				ctrl, _ := newTestController(t, 0)

				var items []string
				var l List
				var contents func() []string
				if kind == "slice" {
					items = append([]string{}, tt.before...)
					l = SliceList(&items)
					contents = func() []string { return append([]string{}, items...) }
				} else {
					nl := notify.NewList(tt.before...)
					l = nl
					contents = nl.Items
				}

				tt.exec(ctrl, l)
				require.Equal(t, tt.after, contents(), kind)
				require.Equal(t, 1, ctrl.UndoCount(), kind)

				ctrl.Undo()
				assert.Equal(t, tt.before, contents(), kind)
				ctrl.Redo()
				assert.Equal(t, tt.after, contents(), kind)
			}
		})
	}
}

func TestListRemove_Missing(t *testing.T) {
	ctrl, _ := newTestController(t, 0)
	items := []int{1, 2}

	assert.Nil(t, ctrl.ExecuteRemove(SliceList(&items), 3))
	assert.False(t, ctrl.HasUndo())
}

func TestListRemove_LookupOnRun(t *testing.T) {
	items := []int{1, 2, 3}
	op := NewListRemove(SliceList(&items), 2, -1)

	op.RollForward()
	require.Equal(t, []int{1, 3}, items)
	op.Rollback()
	assert.Equal(t, []int{1, 2, 3}, items)
}

func TestListInsert_Append(t *testing.T) {
	items := []int{1}
	op := NewListInsert(SliceList(&items), 2, -1)

	op.RollForward()
	require.Equal(t, []int{1, 2}, items)
	op.Rollback()
	assert.Equal(t, []int{1}, items)
}

func TestSliceList_WrongType(t *testing.T) {
	var items []int
	assert.Panics(t, func() { SliceList(&items).InsertItem(0, "x") })
}
