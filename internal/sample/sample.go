// Package sample holds the dto catalogue the dtogen CLI can generate.
//
// Every dto implements types.Tagged with a short tag ("person", "order")
// that config rules use in their type field.
package sample

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/solatis/dtogen/internal/defaultfill"
	"github.com/solatis/dtogen/internal/types"
)

// Address is embedded by value in Person and Order.
type Address struct {
	Street  string `dto:"street" json:"street"`
	City    string `dto:"city" json:"city"`
	Country string `dto:"country" json:"country"`
}

// Person is a customer record.
type Person struct {
	ID     string    `dto:"id" json:"id"`
	Name   string    `dto:"name" json:"name"`
	Email  string    `dto:"email" json:"email"`
	Age    int       `dto:"age" json:"age"`
	Active bool      `dto:"active" json:"active"`
	Born   time.Time `dto:"born" json:"born"`
	Home   Address   `dto:"home" json:"home"`
	Tags   []string  `dto:"tags" json:"tags,omitempty"`
}

func (*Person) TypeTag() types.TypeRef { return "person" }

// Order is a purchase placed by a Person.
type Order struct {
	ID       string    `dto:"id" json:"id"`
	Number   int64     `dto:"number" json:"number"`
	Customer string    `dto:"customer" json:"customer"`
	Total    float64   `dto:"total" json:"total"`
	Status   string    `dto:"status" json:"status"`
	Placed   time.Time `dto:"placed" json:"placed"`
	Shipping Address   `dto:"shipping" json:"shipping"`
}

func (*Order) TypeTag() types.TypeRef { return "order" }

// Kind describes one generatable dto.
type Kind struct {
	Name string
	New  func() types.Tagged
}

var kinds = map[string]Kind{
	"person": {Name: "person", New: func() types.Tagged { return &Person{} }},
	"order":  {Name: "order", New: func() types.Tagged { return &Order{} }},
}

// Lookup returns the kind registered under name.
func Lookup(name string) (Kind, bool) {
	k, ok := kinds[name]
	return k, ok
}

// Names returns the registered kind names, sorted.
func Names() []string {
	names := make([]string, 0, len(kinds))
	for name := range kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterDefaults layers catalogue-specific generators on top of c.
func RegisterDefaults(c *defaultfill.Cache) {
	str := types.TypeRefFor[string]()

	c.RegisterNameAndType("id", str, defaultfill.GeneratorFunc(func() any {
		return uuid.NewString()
	}))
	c.RegisterNameAndType("status", str, defaultfill.Constant("NEW"))
	c.RegisterOwnerProperty(types.TypeRefFor[Person](), "email", defaultfill.Constant("someone@example.com"))
	c.RegisterOwnerProperty(types.TypeRefFor[Address](), "city", defaultfill.Constant("Amsterdam"))
	c.RegisterPath("home.country", defaultfill.Constant("NL"))
	c.RegisterPath("shipping.country", defaultfill.Constant("NL"))
}
