// internal/propertyaccess/accessor.go
package propertyaccess

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/solatis/dtogen/internal/types"
)

/*
 * Property access for dtos.
 *
 * Resolves dotted property paths ("address.city") through structs, pointers,
 * interfaces and string-keyed maps. Conditions and edits only see the
 * Accessor interface, so an alternative strategy (expression language,
 * generated accessors) can replace Reflection without touching them.
 *
 * Key functions:
 *   - ParsePath: splits and validates a dotted path
 *   - locate: walks all but the last segment, returns the final slot
 *   - Properties: lists settable leaf properties of a struct dto
 *
 * Segment matching on structs: `dto:"name"` tag, then exact field name, then
 * case-insensitive field name. Only exported fields are visible.
 *
 * No nil checks beyond what resolution needs: a nil root or nil intermediate
 * pointer reports ErrFieldNotFound and the caller decides what that means.
 */

// TagName is the struct tag consulted when matching path segments.
const TagName = "dto"

// Accessor reads, writes and describes properties of a dto by path.
type Accessor interface {
	Get(root any, path string) (any, error)
	Set(root any, path string, value any) error
	Describe(root any, path string) (types.PropertyKey, error)
	Properties(root any) ([]types.PropertyKey, error)
}

// Reflection implements Accessor with package reflect.
type Reflection struct{}

// Default returns the accessor used when a condition or edit is not given one.
func Default() Accessor {
	return Reflection{}
}

// ParsePath splits a dotted path into segments.
// Returns ErrInvalidPath for empty paths or empty segments and
// ErrPathTooDeep when the path exceeds MaxPathDepth.
func ParsePath(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", types.ErrInvalidPath)
	}
	segments := strings.Split(path, ".")
	if len(segments) > types.MaxPathDepth {
		return nil, types.ErrPathTooDeep
	}
	for _, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w: %q has an empty segment", types.ErrInvalidPath, path)
		}
	}
	return segments, nil
}

// slot is the resolved location of the last path segment.
type slot struct {
	parent   reflect.Value // struct or map holding the property
	field    reflect.Value // struct field (invalid for map entries)
	key      reflect.Value // map key (invalid for struct fields)
	name     string
	declType reflect.Type
}

func (s slot) isMapEntry() bool {
	return s.key.IsValid()
}

// value returns the current value in the slot, invalid if a map entry is absent.
func (s slot) value() reflect.Value {
	if s.isMapEntry() {
		return s.parent.MapIndex(s.key)
	}
	return s.field
}

// Get returns the value at path.
func (Reflection) Get(root any, path string) (any, error) {
	s, err := locate(root, path)
	if err != nil {
		return nil, err
	}
	v := s.value()
	if !v.IsValid() {
		return nil, fmt.Errorf("%w: %s", types.ErrFieldNotFound, path)
	}
	return v.Interface(), nil
}

// Set assigns value at path. A nil value assigns the property's zero value.
// Convertible values are converted (int to int64, named string types) when the
// value survives the conversion: numbers that overflow the property's type or
// floats with a fraction bound for an integer property fail with ErrTypeMismatch.
// Numbers are never converted to strings.
func (Reflection) Set(root any, path string, value any) error {
	s, err := locate(root, path)
	if err != nil {
		return err
	}

	v, err := assignableValue(value, s.declType)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if s.isMapEntry() {
		if s.parent.IsNil() {
			return fmt.Errorf("%w: %s is in a nil map", types.ErrNotSettable, path)
		}
		s.parent.SetMapIndex(s.key, v)
		return nil
	}
	if !s.field.CanSet() {
		return fmt.Errorf("%w: %s (pass a pointer to the dto)", types.ErrNotSettable, path)
	}
	s.field.Set(v)
	return nil
}

// Describe builds the PropertyKey for path without reading the value.
// For map entries of interface type the dynamic type of a present value is reported.
func (Reflection) Describe(root any, path string) (types.PropertyKey, error) {
	s, err := locate(root, path)
	if err != nil {
		return types.PropertyKey{}, err
	}
	propType := s.declType
	if propType.Kind() == reflect.Interface {
		if v := s.value(); v.IsValid() && !v.IsNil() {
			propType = v.Elem().Type()
		}
	}
	return types.PropertyKey{
		Path:         path,
		OwningType:   types.RefOf(s.parent.Type()),
		PropertyName: s.name,
		PropertyType: types.RefOf(propType),
	}, nil
}

// locate walks path from root and returns the slot of the final segment.
func locate(root any, path string) (slot, error) {
	segments, err := ParsePath(path)
	if err != nil {
		return slot{}, err
	}

	current := reflect.ValueOf(root)
	for i, seg := range segments {
		current = indirect(current)
		if !current.IsValid() {
			return slot{}, fmt.Errorf("%w: %s (nil before %q)", types.ErrFieldNotFound, path, seg)
		}
		s, err := child(current, seg)
		if err != nil {
			return slot{}, fmt.Errorf("%w: %s", err, path)
		}
		if i == len(segments)-1 {
			return s, nil
		}
		current = s.value()
	}
	// unreachable: ParsePath never returns zero segments
	return slot{}, types.ErrInvalidPath
}

// indirect follows pointers and interfaces. Returns an invalid Value on nil.
func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// child resolves one segment against a struct or string-keyed map.
func child(container reflect.Value, seg string) (slot, error) {
	switch container.Kind() {
	case reflect.Struct:
		f, ok := fieldByPathName(container.Type(), seg)
		if !ok {
			return slot{}, types.ErrFieldNotFound
		}
		field, err := container.FieldByIndexErr(f.Index)
		if err != nil {
			// nil embedded pointer
			return slot{}, types.ErrFieldNotFound
		}
		// Promoted fields belong to the embedded struct that declares them
		parent := container
		if len(f.Index) > 1 {
			parent = indirect(container.FieldByIndex(f.Index[:len(f.Index)-1]))
		}
		name := tagName(f)
		if name == "" {
			name = f.Name
		}
		return slot{
			parent:   parent,
			field:    field,
			name:     name,
			declType: f.Type,
		}, nil

	case reflect.Map:
		t := container.Type()
		if t.Key().Kind() != reflect.String {
			// Only string keys map onto path segments
			return slot{}, types.ErrFieldNotFound
		}
		return slot{
			parent:   container,
			key:      reflect.ValueOf(seg).Convert(t.Key()),
			name:     seg,
			declType: t.Elem(),
		}, nil

	default:
		// Scalar value but path continues
		return slot{}, types.ErrFieldNotFound
	}
}

// fieldByPathName finds an exported field by tag, exact name, then case-insensitive name.
// Fields promoted from embedded structs are visible under their own names.
func fieldByPathName(t reflect.Type, seg string) (reflect.StructField, bool) {
	var folded *reflect.StructField
	for _, f := range reflect.VisibleFields(t) {
		if !f.IsExported() {
			continue
		}
		if tag := tagName(f); tag != "" {
			if tag == seg {
				return f, true
			}
			continue
		}
		if f.Name == seg {
			return f, true
		}
		if folded == nil && strings.EqualFold(f.Name, seg) {
			folded = &f
		}
	}
	if folded != nil {
		return *folded, true
	}
	return reflect.StructField{}, false
}

// tagName returns the dto tag name, "" when untagged.
func tagName(f reflect.StructField) string {
	tag, ok := f.Tag.Lookup(TagName)
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	return name
}

// assignableValue converts value for assignment to t.
func assignableValue(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}
	v := reflect.ValueOf(value)
	if v.Type().AssignableTo(t) {
		return v, nil
	}
	if v.Type().ConvertibleTo(t) && !numberToString(v.Type(), t) {
		if isNumberKind(v.Kind()) && isNumberKind(t.Kind()) && !fits(v, t) {
			return reflect.Value{}, fmt.Errorf("%w: %v does not fit in %s", types.ErrTypeMismatch, value, t)
		}
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", types.ErrTypeMismatch, v.Type(), t)
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// fits reports whether numeric v converts to t without changing its value.
// Float targets accept any finite in-range value, rounding to the nearest.
func fits(v reflect.Value, t reflect.Type) bool {
	target := reflect.New(t).Elem()
	switch {
	case v.CanInt():
		x := v.Int()
		switch {
		case target.CanInt():
			return !target.OverflowInt(x)
		case target.CanUint():
			return x >= 0 && !target.OverflowUint(uint64(x))
		default:
			return true
		}
	case v.CanUint():
		x := v.Uint()
		switch {
		case target.CanInt():
			return x <= math.MaxInt64 && !target.OverflowInt(int64(x))
		case target.CanUint():
			return !target.OverflowUint(x)
		default:
			return true
		}
	default:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return target.CanFloat()
		}
		switch {
		case target.CanInt():
			return f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 && !target.OverflowInt(int64(f))
		case target.CanUint():
			return f == math.Trunc(f) && f >= 0 && f < math.MaxUint64 && !target.OverflowUint(uint64(f))
		default:
			return !target.OverflowFloat(f)
		}
	}
}

// numberToString reports the int-to-string conversion reflect allows (it yields a rune).
func numberToString(from, to reflect.Type) bool {
	if to.Kind() != reflect.String {
		return false
	}
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}
