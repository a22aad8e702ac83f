package propertyaccess

import (
	"fmt"
	"reflect"

	"github.com/solatis/dtogen/internal/types"
)

// Properties lists the settable leaf properties of a struct dto in field order.
// Nested struct values with exported fields are expanded ("address.city");
// pointers, maps, slices and structs without exported fields (time.Time) are leaves.
// Fields of embedded structs are promoted. Fields tagged `dto:"-"` are skipped.
func (Reflection) Properties(root any) ([]types.PropertyKey, error) {
	v := indirect(reflect.ValueOf(root))
	if !v.IsValid() || v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: properties of %T", types.ErrInvalidPath, root)
	}
	var keys []types.PropertyKey
	collectProperties(v.Type(), "", 0, &keys)
	return keys, nil
}

func collectProperties(t reflect.Type, prefix string, depth int, keys *[]types.PropertyKey) {
	if depth >= types.MaxPathDepth {
		return
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name := tagName(f)
		if name == "-" {
			continue
		}
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			// Embedded struct fields are promoted without a path segment
			collectProperties(f.Type, prefix, depth+1, keys)
			continue
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}

		if f.Type.Kind() == reflect.Struct && hasExportedFields(f.Type) {
			collectProperties(f.Type, path, depth+1, keys)
			continue
		}
		*keys = append(*keys, types.PropertyKey{
			Path:         path,
			OwningType:   types.RefOf(t),
			PropertyName: name,
			PropertyType: types.RefOf(f.Type),
		})
	}
}

func hasExportedFields(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return true
		}
	}
	return false
}
