// Package testmodels holds observable object graphs shared by tests.
package testmodels

import (
	"github.com/brunoga/undo/notify"
)

// Person is an observable object with scalar, object and collection
// properties.
type Person struct {
	notify.Notifier

	Name    string
	Age     int
	Partner *Person
	Friend  *Friend
	Friends *notify.List[*Person]
	Tags    *notify.List[string]
}

// NewPerson returns a person with empty collections.
func NewPerson(name string, age int) *Person {
	return &Person{
		Name:    name,
		Age:     age,
		Friends: notify.NewList[*Person](),
		Tags:    notify.NewList[string](),
	}
}

func (p *Person) SetName(v string) { notify.Set(&p.Notifier, p, "Name", &p.Name, v) }

func (p *Person) SetAge(v int) { notify.Set(&p.Notifier, p, "Age", &p.Age, v) }

func (p *Person) SetPartner(v *Person) { notify.Set(&p.Notifier, p, "Partner", &p.Partner, v) }

func (p *Person) SetFriend(v *Friend) { notify.Set(&p.Notifier, p, "Friend", &p.Friend, v) }

func (p *Person) SetFriends(v *notify.List[*Person]) {
	notify.Set(&p.Notifier, p, "Friends", &p.Friends, v)
}

func (p *Person) SetTags(v *notify.List[string]) { notify.Set(&p.Notifier, p, "Tags", &p.Tags, v) }

// Friend is a plain, non observable, holder of an observable person.
type Friend struct {
	Person *Person
}

// IgnoringPerson carries every combination of opt-out tags.
type IgnoringPerson struct {
	notify.Notifier

	Name string `undo:"-"`
	Age  int

	Partner1 *Person `undo:"-"`
	Partner2 *Person `undo:"-,children"`

	Friend1 *Friend `undo:"-"`
	Friend2 *Friend `undo:"-,children"`

	Friends1 *notify.List[*Person] `undo:"-"`
	Friends2 *notify.List[*Person] `undo:"-,children"`
}

// NewIgnoringPerson returns an IgnoringPerson with every child populated.
func NewIgnoringPerson() *IgnoringPerson {
	return &IgnoringPerson{
		Partner1: NewPerson("p1", 1),
		Partner2: NewPerson("p2", 2),
		Friend1:  &Friend{Person: NewPerson("f1", 1)},
		Friend2:  &Friend{Person: NewPerson("f2", 2)},
		Friends1: notify.NewList(NewPerson("l1", 1)),
		Friends2: notify.NewList(NewPerson("l2", 2)),
	}
}

func (p *IgnoringPerson) SetName(v string) { notify.Set(&p.Notifier, p, "Name", &p.Name, v) }

func (p *IgnoringPerson) SetAge(v int) { notify.Set(&p.Notifier, p, "Age", &p.Age, v) }

func (p *IgnoringPerson) SetPartner1(v *Person) {
	notify.Set(&p.Notifier, p, "Partner1", &p.Partner1, v)
}

func (p *IgnoringPerson) SetPartner2(v *Person) {
	notify.Set(&p.Notifier, p, "Partner2", &p.Partner2, v)
}

func (p *IgnoringPerson) SetFriend1(v *Friend) { notify.Set(&p.Notifier, p, "Friend1", &p.Friend1, v) }

func (p *IgnoringPerson) SetFriend2(v *Friend) { notify.Set(&p.Notifier, p, "Friend2", &p.Friend2, v) }

func (p *IgnoringPerson) SetFriends1(v *notify.List[*Person]) {
	notify.Set(&p.Notifier, p, "Friends1", &p.Friends1, v)
}

func (p *IgnoringPerson) SetFriends2(v *notify.List[*Person]) {
	notify.Set(&p.Notifier, p, "Friends2", &p.Friends2, v)
}

// Node is a self referential plain type holding an observable value.
type Node struct {
	Value *Person
	Next  *Node
	Prev  *Node
}

// Graph is an observable root over a self referential plain type.
type Graph struct {
	notify.Notifier

	Head *Node
}

func (g *Graph) SetHead(v *Node) { notify.Set(&g.Notifier, g, "Head", &g.Head, v) }
