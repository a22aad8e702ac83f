// internal/edit/property.go
package edit

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/solatis/dtogen/internal/propertyaccess"
	"github.com/solatis/dtogen/internal/types"
)

/*
 * Property edits: mutations of one property addressed by dotted path.
 *
 *   - Set: assigns a fixed value
 *   - IncrementEach: assigns a value derived from the item's index
 *   - Add: adds a delta to a numeric property (cumulative)
 *
 * All three go through a propertyaccess.Accessor (reflection by default).
 * Paths are validated at construction; a malformed path panics with
 * ErrInvalidArgument like any other builder misuse.
 */

func mustPath(path string) {
	if _, err := propertyaccess.ParsePath(path); err != nil {
		panic(fmt.Errorf("%w: %v", types.ErrInvalidArgument, err))
	}
}

func mustAccessor(acc propertyaccess.Accessor) {
	if acc == nil {
		panic(fmt.Errorf("%w: accessor must not be nil", types.ErrInvalidArgument))
	}
}

// SetEdit assigns a fixed value to a property.
type SetEdit struct {
	path     string
	value    any
	accessor propertyaccess.Accessor
}

// Set returns an edit assigning value at path. A nil value assigns the zero value.
func Set(path string, value any) SetEdit {
	mustPath(path)
	return SetEdit{path: path, value: value, accessor: propertyaccess.Default()}
}

// Using replaces the property accessor.
func (e SetEdit) Using(acc propertyaccess.Accessor) SetEdit {
	mustAccessor(acc)
	e.accessor = acc
	return e
}

// Apply assigns the value to the item's property.
func (e SetEdit) Apply(_ int, item any) error {
	return e.accessor.Set(item, e.path, e.value)
}

// String renders "SET [path] TO [value]".
func (e SetEdit) String() string {
	return fmt.Sprintf("SET [%s] TO [%v]", e.path, e.value)
}

// IncrementEdit assigns a value derived from the item's index.
// Numeric properties receive the index itself; every other property
// receives base followed by the decimal index ("sample-3").
type IncrementEdit struct {
	path     string
	base     string
	accessor propertyaccess.Accessor
}

// IncrementEach returns an edit numbering each item by its index.
func IncrementEach(path string) IncrementEdit {
	mustPath(path)
	return IncrementEdit{path: path, accessor: propertyaccess.Default()}
}

// WithBase sets the prefix used for non-numeric properties.
func (e IncrementEdit) WithBase(base string) IncrementEdit {
	e.base = base
	return e
}

// Using replaces the property accessor.
func (e IncrementEdit) Using(acc propertyaccess.Accessor) IncrementEdit {
	mustAccessor(acc)
	e.accessor = acc
	return e
}

// Apply sets the property from index.
func (e IncrementEdit) Apply(index int, item any) error {
	current, err := e.accessor.Get(item, e.path)
	if err == nil && isNumeric(current) {
		return e.accessor.Set(item, e.path, index)
	}
	return e.accessor.Set(item, e.path, e.base+strconv.Itoa(index))
}

// String renders "INCREMENT EACH [path] FROM [base]".
func (e IncrementEdit) String() string {
	return fmt.Sprintf("INCREMENT EACH [%s] FROM [%s]", e.path, e.base)
}

// AddEdit adds a delta to a numeric property.
type AddEdit struct {
	path     string
	delta    float64
	accessor propertyaccess.Accessor
}

// Add returns an edit adding delta to the numeric property at path.
// Integer properties truncate the delta toward zero.
func Add(path string, delta float64) AddEdit {
	mustPath(path)
	return AddEdit{path: path, delta: delta, accessor: propertyaccess.Default()}
}

// Using replaces the property accessor.
func (e AddEdit) Using(acc propertyaccess.Accessor) AddEdit {
	mustAccessor(acc)
	e.accessor = acc
	return e
}

// Apply adds the delta to the current value. A result outside the
// property's range fails with ErrTypeMismatch and leaves the value unchanged.
func (e AddEdit) Apply(_ int, item any) error {
	current, err := e.accessor.Get(item, e.path)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: %s is nil", types.ErrTypeMismatch, e.path)
	}
	rv := reflect.ValueOf(current)
	target := reflect.New(rv.Type()).Elem()
	overflow := fmt.Errorf("%w: adding %v to %s (%v) overflows %s", types.ErrTypeMismatch, e.delta, e.path, current, rv.Type())

	switch {
	case rv.CanInt(), rv.CanUint():
		if math.IsNaN(e.delta) || math.Abs(e.delta) >= math.MaxInt64 {
			return overflow
		}
		d := int64(e.delta)
		if rv.CanInt() {
			cur := rv.Int()
			sum := cur + d
			if (d > 0 && sum < cur) || (d < 0 && sum > cur) || target.OverflowInt(sum) {
				return overflow
			}
			target.SetInt(sum)
		} else {
			cur := rv.Uint()
			var sum uint64
			if d < 0 {
				if uint64(-d) > cur {
					return overflow
				}
				sum = cur - uint64(-d)
			} else {
				sum = cur + uint64(d)
				if sum < cur {
					return overflow
				}
			}
			if target.OverflowUint(sum) {
				return overflow
			}
			target.SetUint(sum)
		}
	case rv.CanFloat():
		sum := rv.Float() + e.delta
		if target.OverflowFloat(sum) {
			return overflow
		}
		target.SetFloat(sum)
	default:
		return fmt.Errorf("%w: %s is %T, not numeric", types.ErrTypeMismatch, e.path, current)
	}
	return e.accessor.Set(item, e.path, target.Interface())
}

// String renders "ADD [delta] TO [path]".
func (e AddEdit) String() string {
	return fmt.Sprintf("ADD [%v] TO [%s]", e.delta, e.path)
}

func isNumeric(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.CanInt() || rv.CanUint() || rv.CanFloat()
}
