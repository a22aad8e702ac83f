// internal/condition/value.go
package condition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/solatis/dtogen/internal/propertyaccess"
	"github.com/solatis/dtogen/internal/types"
)

/*
 * Value conditions: predicates over a property of the item.
 *
 * Evaluation flow per item:
 *   1. Read the property through the accessor
 *   2. Missing property (ErrFieldNotFound) or null value: on-missing policy,
 *      except EXISTS and IS NULL which treat missing as null
 *   3. Coerce value and target to the condition's FieldType
 *   4. Compare with the operator
 *
 * A coercion failure or any other accessor error makes the condition false.
 * Conditions never return errors, so IsValid has to decide.
 */

// OnMissingField decides the outcome when the property is absent or null.
type OnMissingField int

const (
	// OnMissingSkip makes the condition false.
	OnMissingSkip OnMissingField = iota
	// OnMissingMatch makes the condition true.
	OnMissingMatch
)

func (p OnMissingField) String() string {
	switch p {
	case OnMissingSkip:
		return "skip"
	case OnMissingMatch:
		return "match"
	default:
		return fmt.Sprintf("OnMissingField(%d)", int(p))
	}
}

// ValueBuilder configures a value condition. Each method returns a copy.
type ValueBuilder struct {
	path      string
	accessor  propertyaccess.Accessor
	fieldType FieldType
	onMissing OnMissingField
}

// ValueOf starts a condition over the property at path.
// Panics with ErrInvalidArgument if the path is malformed.
func ValueOf(path string) ValueBuilder {
	if _, err := propertyaccess.ParsePath(path); err != nil {
		panic(fmt.Errorf("%w: %v", types.ErrInvalidArgument, err))
	}
	return ValueBuilder{
		path:      path,
		accessor:  propertyaccess.Default(),
		fieldType: FieldTypeAny,
		onMissing: OnMissingSkip,
	}
}

// Using replaces the property accessor.
func (b ValueBuilder) Using(acc propertyaccess.Accessor) ValueBuilder {
	if acc == nil {
		panic(fmt.Errorf("%w: accessor must not be nil", types.ErrInvalidArgument))
	}
	b.accessor = acc
	return b
}

// As coerces the property value and the target before comparing.
func (b ValueBuilder) As(ft FieldType) ValueBuilder {
	b.fieldType = ft
	return b
}

// WhenMissing sets the outcome for absent or null properties.
func (b ValueBuilder) WhenMissing(p OnMissingField) ValueBuilder {
	b.onMissing = p
	return b
}

// Is matches when the property equals v.
func (b ValueBuilder) Is(v any) Condition { return b.build(OpEq, v) }

// IsNot matches when the property differs from v.
func (b ValueBuilder) IsNot(v any) Condition { return b.build(OpNeq, v) }

// GreaterThan matches when the property is > v.
func (b ValueBuilder) GreaterThan(v any) Condition { return b.build(OpGt, v) }

// AtLeast matches when the property is >= v.
func (b ValueBuilder) AtLeast(v any) Condition { return b.build(OpGte, v) }

// LessThan matches when the property is < v.
func (b ValueBuilder) LessThan(v any) Condition { return b.build(OpLt, v) }

// AtMost matches when the property is <= v.
func (b ValueBuilder) AtMost(v any) Condition { return b.build(OpLte, v) }

// HasPrefix matches text properties starting with s.
func (b ValueBuilder) HasPrefix(s string) Condition {
	return b.build(OpPrefix, s)
}

// HasSuffix matches text properties ending with s.
func (b ValueBuilder) HasSuffix(s string) Condition {
	return b.build(OpSuffix, s)
}

// In matches when the property equals one of values.
func (b ValueBuilder) In(values ...any) Condition {
	return b.build(OpIn, append([]any(nil), values...))
}

// Exists matches when the property is present and not null.
func (b ValueBuilder) Exists() Condition { return b.build(OpExists, nil) }

// IsNull matches when the property is absent or null.
func (b ValueBuilder) IsNull() Condition { return b.build(OpIsNull, nil) }

// Compare builds a condition for an operator chosen at runtime.
func (b ValueBuilder) Compare(op Operator, target any) Condition {
	return b.build(op, target)
}

func (b ValueBuilder) build(op Operator, target any) Condition {
	return valueCondition{cfg: b, op: op, target: target}
}

type valueCondition struct {
	cfg    ValueBuilder
	op     Operator
	target any
}

// IsValid reads the property, coerces both sides and compares them.
func (c valueCondition) IsValid(_ int, item any) bool {
	raw, err := c.cfg.accessor.Get(item, c.cfg.path)
	if err != nil && !errors.Is(err, types.ErrFieldNotFound) {
		return false
	}
	missing := err != nil || isNil(raw)

	switch c.op {
	case OpExists:
		return !missing
	case OpIsNull:
		return missing
	}
	if missing {
		return c.cfg.onMissing == OnMissingMatch
	}

	coerced, err := Coerce(raw, c.cfg.fieldType)
	if err != nil {
		return false
	}
	target, ok := c.coerceTarget()
	if !ok {
		return false
	}
	return Compare(c.op, coerced.Value, target)
}

// coerceTarget applies the field type to the target. IN coerces every member.
func (c valueCondition) coerceTarget() (any, bool) {
	if c.op == OpIn {
		values, _ := c.target.([]any)
		out := make([]any, 0, len(values))
		for _, v := range values {
			r, err := Coerce(v, c.cfg.fieldType)
			if err != nil {
				continue
			}
			out = append(out, r.Value)
		}
		return out, true
	}
	r, err := Coerce(c.target, c.cfg.fieldType)
	if err != nil {
		return nil, false
	}
	return r.Value, true
}

// String renders "VALUE [path] OP [target]".
func (c valueCondition) String() string {
	prefix := "VALUE [" + c.cfg.path + "] " + c.op.String()
	switch c.op {
	case OpExists, OpIsNull:
		return prefix
	case OpIn:
		values, _ := c.target.([]any)
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprint(v)
		}
		return prefix + " [" + strings.Join(parts, ", ") + "]"
	default:
		return prefix + " [" + fmt.Sprint(c.target) + "]"
	}
}
