// Package edit provides composable mutations applied to (index, item) pairs.
//
// An Edit mutates the item in place. Conditionality belongs to the rule that
// owns the edit: Apply runs unconditionally. Edits are not required to be
// idempotent, so applying Add("age", 1) twice adds two.
//
// Failures from the property-access layer (missing property, nil item,
// type mismatch) are returned unchanged so callers can test them with
// errors.Is.
package edit

import (
	"fmt"
	"strings"

	"github.com/solatis/dtogen/internal/types"
)

// Edit mutates an item in place.
type Edit interface {
	Apply(index int, item any) error
	String() string
}

// Func adapts a function to Edit. name is used for rendering.
func Func(name string, fn func(index int, item any) error) Edit {
	if fn == nil {
		panic(fmt.Errorf("%w: edit func must not be nil", types.ErrInvalidArgument))
	}
	return funcEdit{name: name, fn: fn}
}

type funcEdit struct {
	name string
	fn   func(int, any) error
}

func (e funcEdit) Apply(index int, item any) error { return e.fn(index, item) }
func (e funcEdit) String() string                  { return e.name }

// Combined applies its edits in order, stopping at the first error.
type Combined struct {
	edits []Edit
}

// And returns a new Combined applying first, then each of rest.
// Nested Combined edits are flattened. The operands are not modified.
func And(first Edit, rest ...Edit) *Combined {
	all := make([]Edit, 0, 1+len(rest))
	for i, e := range append([]Edit{first}, rest...) {
		if e == nil {
			panic(fmt.Errorf("%w: edit %d must not be nil", types.ErrInvalidArgument, i))
		}
		if c, ok := e.(*Combined); ok {
			all = append(all, c.edits...)
			continue
		}
		all = append(all, e)
	}
	return &Combined{edits: all}
}

// And returns a new Combined with next appended.
func (c *Combined) And(next Edit) *Combined {
	return And(c, next)
}

// Edits returns a copy of the wrapped edits in application order.
func (c *Combined) Edits() []Edit {
	return append([]Edit(nil), c.edits...)
}

// Apply runs the edits in order and stops at the first error.
func (c *Combined) Apply(index int, item any) error {
	for _, e := range c.edits {
		if err := e.Apply(index, item); err != nil {
			return err
		}
	}
	return nil
}

// String renders "e1 AND THEN e2".
func (c *Combined) String() string {
	parts := make([]string, len(c.edits))
	for i, e := range c.edits {
		parts[i] = e.String()
	}
	return strings.Join(parts, " AND THEN ")
}
