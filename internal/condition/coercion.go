// internal/condition/coercion.go
package condition

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/solatis/dtogen/internal/types"
)

/*
 * Type coercion for value conditions.
 *
 * Implements a 5-type system (NUMERIC, TEXT, BOOLEAN, ANY, UNSPECIFIED) with
 * strict and lenient modes. A property value is coerced before it reaches an
 * operator, so ValueOf("age").As(FieldTypeNumeric).GreaterThan(30) works for
 * int, int32, float64 and numeric string properties alike.
 *
 * Key distinction: nil values vs coercion failures. A nil property (nil
 * interface, nil pointer, nil map or slice) is reported as IsNull and follows
 * the condition's on-missing policy. A coercion failure ("abc" as numeric)
 * makes the condition false. Non-nil pointers are dereferenced first.
 *
 * Type modes:
 *   - NUMERIC: Strict - any integer/float kind or numeric string to float64, reject booleans
 *   - TEXT: Lenient - auto-coerce all types to string
 *   - BOOLEAN: Strict - bool kinds only
 *   - ANY: Lenient - preserve original value, operators handle mixing
 */

// FieldType selects the coercion applied to a property value.
type FieldType int

const (
	FieldTypeUnspecified FieldType = iota
	FieldTypeNumeric
	FieldTypeText
	FieldTypeBoolean
	FieldTypeAny
)

// CoercionResult holds the coerced value or indicates null.
type CoercionResult struct {
	Value  any  // coerced value (valid only if !IsNull)
	IsNull bool // true if input was nil
}

// Coerce attempts to convert value to the expected field type.
// Returns CoercionResult with IsNull=true for nil input.
// Returns ErrCoercionFailed for impossible coercions.
func Coerce(value any, fieldType FieldType) (CoercionResult, error) {
	if isNil(value) {
		return CoercionResult{IsNull: true}, nil
	}
	value = deref(value)

	switch fieldType {
	case FieldTypeNumeric:
		return coerceNumeric(value)
	case FieldTypeText:
		return coerceText(value)
	case FieldTypeBoolean:
		return coerceBoolean(value)
	case FieldTypeAny, FieldTypeUnspecified:
		return CoercionResult{Value: value}, nil
	default:
		return CoercionResult{}, types.ErrCoercionFailed
	}
}

// isNil reports nil interfaces and nil pointers, maps, slices, funcs and chans.
func isNil(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// deref follows non-nil pointers so *int and int coerce alike.
func deref(value any) any {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}

// coerceNumeric converts value to float64 for numeric comparison.
// Accepts every integer and float kind and numeric strings. Rejects booleans.
// Whitespace-only strings return ErrCoercionFailed.
func coerceNumeric(value any) (CoercionResult, error) {
	if f, ok := toFloat64(value); ok {
		return CoercionResult{Value: f}, nil
	}
	if s, ok := value.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			// Empty/whitespace-only strings are not valid numbers
			return CoercionResult{}, types.ErrCoercionFailed
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return CoercionResult{}, types.ErrCoercionFailed
		}
		return CoercionResult{Value: f}, nil
	}
	return CoercionResult{}, types.ErrCoercionFailed
}

// coerceText converts all types to string representation for text comparison.
func coerceText(value any) (CoercionResult, error) {
	switch v := value.(type) {
	case string:
		return CoercionResult{Value: v}, nil
	case fmt.Stringer:
		return CoercionResult{Value: v.String()}, nil
	case bool:
		return CoercionResult{Value: strconv.FormatBool(v)}, nil
	}
	if f, ok := toFloat64(value); ok {
		return CoercionResult{Value: strconv.FormatFloat(f, 'f', -1, 64)}, nil
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.String {
		// Named string types
		return CoercionResult{Value: rv.String()}, nil
	}
	return CoercionResult{Value: fmt.Sprintf("%v", value)}, nil
}

// coerceBoolean validates value is a bool kind.
// Strict mode: no string-to-boolean coercion (avoids "true" vs 1 ambiguity).
func coerceBoolean(value any) (CoercionResult, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Bool {
		return CoercionResult{Value: rv.Bool()}, nil
	}
	return CoercionResult{}, types.ErrCoercionFailed
}
