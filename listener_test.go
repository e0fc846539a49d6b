package undo

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brunoga/undo/internal/testmodels"
	"github.com/brunoga/undo/notify"
)

// trackModes runs f once with the cached path tracker and once with the run
// time one.
func trackModes(t *testing.T, f func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable)) {
	t.Run("paths", func(t *testing.T) {
		f(t, (*Controller).Track)
	})
	t.Run("dynamic", func(t *testing.T) {
		f(t, (*Controller).TrackDynamic)
	})
}

func TestTrack_Property(t *testing.T) {
	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		ctrl, _ := newTestController(t, 0)
		p := testmodels.NewPerson("a", 1)
		track(ctrl, p)

		p.SetName("b")
		p.SetAge(2)
		require.Equal(t, 2, ctrl.UndoCount())

		ctrl.Undo()
		assert.Equal(t, 1, p.Age)
		ctrl.Undo()
		assert.Equal(t, "a", p.Name)

		// Replaying the history is not recorded again.
		assert.Equal(t, 0, ctrl.UndoCount())
		assert.Equal(t, 2, ctrl.RedoCount())

		ctrl.Redo()
		ctrl.Redo()
		assert.Equal(t, "b", p.Name)
		assert.Equal(t, 2, p.Age)
	})
}

func TestTrack_MergeWindow(t *testing.T) {
	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		ctrl, clk := newTestController(t, time.Second)
		p := testmodels.NewPerson("a", 0)
		track(ctrl, p)

		for i := 1; i <= 10; i++ {
			p.SetAge(i)
			clk.Advance(50 * time.Millisecond)
		}
		require.Equal(t, 1, ctrl.UndoCount())

		ctrl.Undo()
		assert.Equal(t, 0, p.Age)
	})
}

func TestTrack_Nested(t *testing.T) {
	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		ctrl, _ := newTestController(t, 0)
		p := testmodels.NewPerson("a", 0)
		p.Partner = testmodels.NewPerson("partner", 0)
		p.Friend = &testmodels.Friend{Person: testmodels.NewPerson("friend", 0)}
		track(ctrl, p)

		p.Partner.SetAge(30)
		p.Friend.Person.SetAge(40)
		require.Equal(t, 2, ctrl.UndoCount())

		ctrl.Undo()
		ctrl.Undo()
		assert.Equal(t, 0, p.Partner.Age)
		assert.Equal(t, 0, p.Friend.Person.Age)
	})
}

func TestTrack_Reassignment(t *testing.T) {
	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		ctrl, _ := newTestController(t, 0)
		a := testmodels.NewPerson("a", 0)
		b := testmodels.NewPerson("b", 0)
		a.Partner = b
		track(ctrl, a)

		c := testmodels.NewPerson("c", 0)
		a.SetPartner(c)
		c.SetAge(5)
		require.Equal(t, 2, ctrl.UndoCount())

		// b is detached.
		b.SetAge(9)
		assert.Equal(t, 2, ctrl.UndoCount())
		assert.Zero(t, b.Subscribers())

		ctrl.Undo()
		assert.Equal(t, 0, c.Age)
		ctrl.Undo()
		assert.Same(t, b, a.Partner)

		// Undoing the assignment attaches b again and detaches c.
		b.SetAge(10)
		assert.Equal(t, 1, ctrl.UndoCount())
		c.SetAge(6)
		assert.Equal(t, 1, ctrl.UndoCount())
	})
}

func TestTrack_Ignore(t *testing.T) {
	tests := []struct {
		name string
		edit func(p *testmodels.IgnoringPerson)
		want int
	}{
		{"Name", func(p *testmodels.IgnoringPerson) { p.SetName("x") }, 0},
		{"Age", func(p *testmodels.IgnoringPerson) { p.SetAge(1) }, 1},
		{"Partner1", func(p *testmodels.IgnoringPerson) { p.SetPartner1(testmodels.NewPerson("n", 0)) }, 0},
		{"Partner1.Age", func(p *testmodels.IgnoringPerson) { p.Partner1.SetAge(9) }, 0},
		{"Partner2", func(p *testmodels.IgnoringPerson) { p.SetPartner2(testmodels.NewPerson("n", 0)) }, 0},
		{"Partner2.Age", func(p *testmodels.IgnoringPerson) { p.Partner2.SetAge(9) }, 1},
		{"Friend1", func(p *testmodels.IgnoringPerson) { p.SetFriend1(&testmodels.Friend{}) }, 0},
		{"Friend1.Person.Age", func(p *testmodels.IgnoringPerson) { p.Friend1.Person.SetAge(9) }, 0},
		{"Friend2", func(p *testmodels.IgnoringPerson) { p.SetFriend2(&testmodels.Friend{}) }, 0},
		{"Friend2.Person.Age", func(p *testmodels.IgnoringPerson) { p.Friend2.Person.SetAge(9) }, 1},
		{"Friends1", func(p *testmodels.IgnoringPerson) { p.Friends1.Add(testmodels.NewPerson("n", 0)) }, 0},
		{"Friends1[0].Age", func(p *testmodels.IgnoringPerson) { p.Friends1.At(0).SetAge(9) }, 0},
		{"Friends2", func(p *testmodels.IgnoringPerson) { p.Friends2.Add(testmodels.NewPerson("n", 0)) }, 0},
		{"Friends2[0].Age", func(p *testmodels.IgnoringPerson) { p.Friends2.At(0).SetAge(9) }, 1},
	}

	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctrl, _ := newTestController(t, 0)
				p := testmodels.NewIgnoringPerson()
				track(ctrl, p)

				tt.edit(p)
				assert.Equal(t, tt.want, ctrl.UndoCount())
			})
		}
	})
}

func TestTrack_Lists(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(l *notify.List[string])
		after []string
	}{
		{"Add", func(l *notify.List[string]) { l.Add("d") }, []string{"a", "b", "c", "d"}},
		{"AddRange", func(l *notify.List[string]) { l.AddRange("d", "e") }, []string{"a", "b", "c", "d", "e"}},
		{"Insert", func(l *notify.List[string]) { l.Insert(1, "x") }, []string{"a", "x", "b", "c"}},
		{"Replace", func(l *notify.List[string]) { l.Set(1, "z") }, []string{"a", "z", "c"}},
		{"RemoveAt", func(l *notify.List[string]) { l.RemoveAt(0) }, []string{"b", "c"}},
		{"RemoveRange", func(l *notify.List[string]) { l.RemoveRange(0, 2) }, []string{"c"}},
		{"Move", func(l *notify.List[string]) { l.Move(0, 2) }, []string{"b", "c", "a"}},
		{"Clear", func(l *notify.List[string]) { l.Clear() }, []string{}},
	}

	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctrl, _ := newTestController(t, 0)
				p := testmodels.NewPerson("a", 0)
				p.Tags.AddRange("a", "b", "c")
				track(ctrl, p)

				tt.edit(p.Tags)
				require.Equal(t, tt.after, p.Tags.Items())
				require.Equal(t, 1, ctrl.UndoCount())

				ctrl.Undo()
				assert.Equal(t, []string{"a", "b", "c"}, p.Tags.Items())
				ctrl.Redo()
				assert.Equal(t, tt.after, p.Tags.Items())
				ctrl.Undo()
				assert.Equal(t, []string{"a", "b", "c"}, p.Tags.Items())
			})
		}
	})
}

func TestTrack_ListOfObservables(t *testing.T) {
	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		ctrl, _ := newTestController(t, 0)
		p := testmodels.NewPerson("a", 0)
		f1, f2, f3 := testmodels.NewPerson("f1", 0), testmodels.NewPerson("f2", 0), testmodels.NewPerson("f3", 0)
		p.Friends.AddRange(f1, f2)
		track(ctrl, p)

		p.Friends.Insert(0, f3)
		require.Equal(t, 1, ctrl.UndoCount())

		// Element listeners follow their elements.
		f1.SetAge(1)
		f3.SetAge(3)
		assert.Equal(t, 3, ctrl.UndoCount())

		p.Friends.RemoveAt(1) // f1
		f1.SetAge(11)
		assert.Equal(t, 4, ctrl.UndoCount())
		assert.Zero(t, f1.Subscribers())

		f2.SetAge(2)
		assert.Equal(t, 5, ctrl.UndoCount())

		// Undo the edit of f2 and the removal of f1: f1 is tracked again.
		ctrl.Undo()
		ctrl.Undo()
		assert.Equal(t, []*testmodels.Person{f3, f1, f2}, p.Friends.Items())
		f1.SetAge(12)
		assert.Equal(t, 4, ctrl.UndoCount())

		p.Friends.Clear()
		f2.SetAge(20)
		assert.Equal(t, 5, ctrl.UndoCount())
		ctrl.Undo()
		assert.Equal(t, []*testmodels.Person{f3, f1, f2}, p.Friends.Items())
		f2.SetAge(21)
		assert.Equal(t, 5, ctrl.UndoCount())
	})
}

func TestTrack_ListMoveAndReplace(t *testing.T) {
	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		ctrl, _ := newTestController(t, 0)
		p := testmodels.NewPerson("p", 0)
		a, b, c := testmodels.NewPerson("a", 0), testmodels.NewPerson("b", 0), testmodels.NewPerson("c", 0)
		p.Friends.AddRange(a, b, c)
		track(ctrl, p)

		p.Friends.Move(0, 2)
		require.Equal(t, []*testmodels.Person{b, c, a}, p.Friends.Items())
		require.Equal(t, 1, ctrl.UndoCount())

		ctrl.Undo()
		assert.Equal(t, []*testmodels.Person{a, b, c}, p.Friends.Items())
		ctrl.Redo()
		assert.Equal(t, []*testmodels.Person{b, c, a}, p.Friends.Items())

		d := testmodels.NewPerson("d", 0)
		p.Friends.Set(1, d)
		require.Equal(t, []*testmodels.Person{b, d, a}, p.Friends.Items())
		require.Equal(t, 2, ctrl.UndoCount())

		// c left the list, d joined it.
		c.SetAge(1)
		assert.Equal(t, 2, ctrl.UndoCount())
		assert.Zero(t, c.Subscribers())
		d.SetAge(1)
		assert.Equal(t, 3, ctrl.UndoCount())

		ctrl.Undo()
		ctrl.Undo()
		require.Equal(t, []*testmodels.Person{b, c, a}, p.Friends.Items())
		require.Equal(t, 1, ctrl.UndoCount())

		c.SetAge(2)
		assert.Equal(t, 2, ctrl.UndoCount())
		d.SetAge(2)
		assert.Equal(t, 2, ctrl.UndoCount())
		assert.Zero(t, d.Subscribers())

		a.SetAge(1)
		assert.Equal(t, 3, ctrl.UndoCount())
		b.SetAge(1)
		assert.Equal(t, 4, ctrl.UndoCount())
	})
}

func TestTrack_ListReassignment(t *testing.T) {
	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		ctrl, _ := newTestController(t, 0)
		p := testmodels.NewPerson("a", 0)
		old := p.Tags
		track(ctrl, p)

		p.SetTags(notify.NewList("x"))
		require.Equal(t, 1, ctrl.UndoCount())

		old.Add("ignored")
		assert.Equal(t, 1, ctrl.UndoCount())

		p.Tags.Add("y")
		assert.Equal(t, 2, ctrl.UndoCount())

		ctrl.Undo()
		ctrl.Undo()
		assert.Same(t, old, p.Tags)
	})
}

func TestTrack_Cycles(t *testing.T) {
	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		ctrl, _ := newTestController(t, 0)
		a := testmodels.NewPerson("a", 0)
		b := testmodels.NewPerson("b", 0)
		a.Partner = b
		b.Partner = a
		a.Friends.Add(b)

		sub := track(ctrl, a)
		assert.Equal(t, 1, a.Subscribers())
		assert.Equal(t, 1, b.Subscribers())

		b.SetAge(1)
		assert.Equal(t, 1, ctrl.UndoCount())

		sub.Cancel()
		assert.Zero(t, a.Subscribers())
		assert.Zero(t, b.Subscribers())
	})
}

func TestTrack_SelfReferentialPlainTypes(t *testing.T) {
	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		ctrl, _ := newTestController(t, 0)
		v := testmodels.NewPerson("v", 0)
		n := &testmodels.Node{Value: v}
		n.Next = n
		g := &testmodels.Graph{Head: n}
		track(ctrl, g)

		v.SetAge(1)
		assert.Equal(t, 1, ctrl.UndoCount())
	})
}

func TestTrack_Cancel(t *testing.T) {
	trackModes(t, func(t *testing.T, track func(*Controller, notify.PropertyNotifier) Cancelable) {
		ctrl, _ := newTestController(t, 0)
		p := testmodels.NewPerson("a", 0)
		p.Partner = testmodels.NewPerson("b", 0)
		sub := track(ctrl, p)

		sub.Cancel()
		sub.Cancel()

		p.SetAge(1)
		p.Partner.SetAge(1)
		p.Tags.Add("x")
		assert.Zero(t, ctrl.UndoCount())
		assert.Zero(t, p.Tags.Subscribers())
	})
}

func TestTrack_ChainedChangesNotRecorded(t *testing.T) {
	ctrl, _ := newTestController(t, 0)
	p := testmodels.NewPerson("a", 0)
	ctrl.Track(p)

	p.Relay(p, "Age", notify.PropertyChange{Name: "Age", Old: 0, New: 1})
	assert.Zero(t, ctrl.UndoCount())
}

func TestTrack_UnknownProperty(t *testing.T) {
	ctrl, _ := newTestController(t, 0)
	p := testmodels.NewPerson("a", 0)
	ctrl.Track(p)

	p.Notify(p, notify.PropertyChange{Name: "FullName", Old: "a", New: "b"})
	assert.Zero(t, ctrl.UndoCount())
}

// announcer announces collection changes without offering a list view.
type announcer struct{}

func (*announcer) OnCollectionChanged(notify.CollectionHandler) notify.Subscription {
	return notify.SubscriptionFunc(nil)
}

type announcingHolder struct {
	notify.Notifier

	Items *announcer
}

func TestTrack_CollectionNotifierWithoutListView(t *testing.T) {
	ctrl, _ := newTestController(t, 0)

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrNotCollection))
		assert.True(t, strings.Contains(err.Error(), "InsertItem"), err.Error())
	}()
	ctrl.Track(&announcingHolder{Items: &announcer{}})
}

type dynamicHolder struct {
	notify.Notifier

	Anything any
	People   []*testmodels.Person
}

func (h *dynamicHolder) SetAnything(v any) { notify.SetAny(&h.Notifier, h, "Anything", &h.Anything, v) }

func TestTrackDynamic_RuntimeValues(t *testing.T) {
	ctrl, _ := newTestController(t, 0)
	inner := testmodels.NewPerson("inner", 0)
	member := testmodels.NewPerson("member", 0)
	h := &dynamicHolder{Anything: inner, People: []*testmodels.Person{member}}
	ctrl.TrackDynamic(h)

	inner.SetAge(1)
	member.SetAge(1)
	assert.Equal(t, 2, ctrl.UndoCount())

	other := testmodels.NewPerson("other", 0)
	h.SetAnything(other)
	inner.SetAge(2)
	other.SetAge(2)
	assert.Equal(t, 4, ctrl.UndoCount())
}

func TestBindProperty(t *testing.T) {
	ctrl, clk := newTestController(t, time.Second)
	p := testmodels.NewPerson("a", 0)
	sub := ctrl.BindProperty(p, "Age", true)

	p.SetAge(1)
	p.SetAge(2)
	p.SetName("ignored")
	require.Equal(t, 1, ctrl.UndoCount())

	ctrl.Undo()
	assert.Equal(t, 0, p.Age)

	clk.Advance(time.Minute)
	sub.Cancel()
	p.SetAge(5)
	assert.Equal(t, 0, ctrl.UndoCount())
}

func TestBindProperty_NoMerge(t *testing.T) {
	ctrl, _ := newTestController(t, time.Hour)
	p := testmodels.NewPerson("a", 0)
	ctrl.BindProperty(p, "Age", false)

	p.SetAge(1)
	p.SetAge(2)
	assert.Equal(t, 2, ctrl.UndoCount())
}

func TestBindProperty_Dotted(t *testing.T) {
	ctrl, _ := newTestController(t, 0)
	p := testmodels.NewPerson("a", 0)
	p.Partner = testmodels.NewPerson("b", 0)
	ctrl.BindProperty(p, "Partner.Age", true)

	p.Partner.SetAge(3)
	require.Equal(t, 1, ctrl.UndoCount())
	ctrl.Undo()
	assert.Equal(t, 0, p.Partner.Age)

	assert.Panics(t, func() { ctrl.BindProperty(p, "Friend.Person.Age", true) })
	assert.Panics(t, func() { ctrl.BindProperty(p, "Missing", true) })
}

func TestBindListProperty(t *testing.T) {
	ctrl, _ := newTestController(t, 0)
	p := testmodels.NewPerson("a", 0)
	sub := ctrl.BindListProperty(p, "Tags")

	p.Tags.Add("x")
	require.Equal(t, 1, ctrl.UndoCount())

	old := p.Tags
	p.SetTags(notify.NewList[string]())
	old.Add("ignored")
	p.Tags.Add("y")
	assert.Equal(t, 2, ctrl.UndoCount())

	ctrl.Undo()
	assert.Zero(t, p.Tags.Len())

	sub.Cancel()
	sub.Cancel()
	p.Tags.Add("z")
	assert.Equal(t, 1, ctrl.UndoCount())
}

func TestBindListProperty_NotCollection(t *testing.T) {
	ctrl, _ := newTestController(t, 0)
	p := testmodels.NewPerson("a", 0)

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, ErrNotCollection))
	}()
	ctrl.BindListProperty(p, "Name")
}
