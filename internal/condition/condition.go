// Package condition provides composable predicates over (index, item) pairs.
//
// A Condition is immutable. Combinators (All, Any, Not and the And/Or/AndNot/
// OrNot helpers) always build a new node around their operands, so a
// condition can be reused in any number of trees without changing meaning.
//
// Leaves come in two families: index predicates (Index().Is(3), Every(2))
// which only look at the position in the batch, and value predicates
// (ValueOf("name").Is("x")) which read a property through a
// propertyaccess.Accessor.
//
// Passing a nil condition or an empty list to a combinator is a programming
// error and panics with an error wrapping types.ErrInvalidArgument.
// NewAll and NewAny are the error-returning forms.
package condition

import (
	"fmt"
	"strings"

	"github.com/solatis/dtogen/internal/types"
)

// Condition is a pure predicate over an item and its index in a batch.
type Condition interface {
	IsValid(index int, item any) bool
	String() string
}

// Func adapts a function to Condition. name is used for rendering.
func Func(name string, fn func(index int, item any) bool) Condition {
	if fn == nil {
		panic(fmt.Errorf("%w: condition func must not be nil", types.ErrInvalidArgument))
	}
	return funcCondition{name: name, fn: fn}
}

type funcCondition struct {
	name string
	fn   func(int, any) bool
}

func (c funcCondition) IsValid(index int, item any) bool { return c.fn(index, item) }
func (c funcCondition) String() string                   { return c.name }

// Always returns a condition that is true for every item.
func Always() Condition {
	return always{}
}

type always struct{}

func (always) IsValid(int, any) bool { return true }
func (always) String() string        { return "ALWAYS" }

// Not negates c.
func Not(c Condition) Condition {
	mustCondition(c)
	return not{inner: c}
}

type not struct {
	inner Condition
}

func (n not) IsValid(index int, item any) bool { return !n.inner.IsValid(index, item) }
func (n not) String() string                   { return "NOT (" + n.inner.String() + ")" }

type boolOp int

const (
	opAnd boolOp = iota
	opOr
)

func (o boolOp) String() string {
	if o == opAnd {
		return "AND"
	}
	return "OR"
}

// combined joins one or more children with a single boolean operator.
type combined struct {
	op       boolOp
	children []Condition
}

// IsValid starts from the operator's identity (true for AND, false for OR) and
// folds in every child in order. Every child is evaluated.
func (c combined) IsValid(index int, item any) bool {
	result := c.op == opAnd
	for _, child := range c.children {
		v := child.IsValid(index, item)
		if c.op == opAnd {
			result = result && v
		} else {
			result = result || v
		}
	}
	return result
}

// String renders "(c1) OP (c2) OP (c3)".
func (c combined) String() string {
	parts := make([]string, len(c.children))
	for i, child := range c.children {
		parts[i] = "(" + child.String() + ")"
	}
	return strings.Join(parts, " "+c.op.String()+" ")
}

func newCombined(op boolOp, conditions []Condition) (Condition, error) {
	if len(conditions) == 0 {
		return nil, fmt.Errorf("%w: %s needs at least one condition", types.ErrInvalidArgument, op)
	}
	for i, c := range conditions {
		if c == nil {
			return nil, fmt.Errorf("%w: %s condition %d is nil", types.ErrInvalidArgument, op, i)
		}
	}
	return combined{op: op, children: append([]Condition(nil), conditions...)}, nil
}

// NewAll returns a condition true when every condition is true.
func NewAll(conditions ...Condition) (Condition, error) {
	return newCombined(opAnd, conditions)
}

// NewAny returns a condition true when at least one condition is true.
func NewAny(conditions ...Condition) (Condition, error) {
	return newCombined(opOr, conditions)
}

// All is NewAll that panics on invalid arguments.
func All(conditions ...Condition) Condition {
	c, err := NewAll(conditions...)
	if err != nil {
		panic(err)
	}
	return c
}

// Any is NewAny that panics on invalid arguments.
func Any(conditions ...Condition) Condition {
	c, err := NewAny(conditions...)
	if err != nil {
		panic(err)
	}
	return c
}

// And returns base AND other.
func And(base, other Condition) Condition {
	return All(base, other)
}

// Or returns base OR other.
func Or(base, other Condition) Condition {
	return Any(base, other)
}

// AndNot returns base AND NOT other.
func AndNot(base, other Condition) Condition {
	mustCondition(base)
	return All(base, Not(other))
}

// OrNot returns base OR NOT other.
func OrNot(base, other Condition) Condition {
	mustCondition(base)
	return Any(base, Not(other))
}

func mustCondition(c Condition) {
	if c == nil {
		panic(fmt.Errorf("%w: condition must not be nil", types.ErrInvalidArgument))
	}
}
