package defaultfill

import (
	"time"

	"github.com/solatis/dtogen/internal/types"
)

// DefaultString is the value the default cache produces for string properties.
const DefaultString = "DEFAULT"

// NewDefaultCache creates a cache with type-tier generators for the builtin
// scalar types and time.Time. Callers layer more specific registrations on top.
func NewDefaultCache(opts ...Option) *Cache {
	c := NewCache(opts...)
	c.RegisterSingleType(types.TypeRefFor[string](), Constant(DefaultString))
	c.RegisterSingleType(types.TypeRefFor[bool](), Constant(false))
	c.RegisterSingleType(types.TypeRefFor[int](), Constant(0))
	c.RegisterSingleType(types.TypeRefFor[int8](), Constant(int8(0)))
	c.RegisterSingleType(types.TypeRefFor[int16](), Constant(int16(0)))
	c.RegisterSingleType(types.TypeRefFor[int32](), Constant(int32(0)))
	c.RegisterSingleType(types.TypeRefFor[int64](), Constant(int64(0)))
	c.RegisterSingleType(types.TypeRefFor[uint](), Constant(uint(0)))
	c.RegisterSingleType(types.TypeRefFor[uint8](), Constant(uint8(0)))
	c.RegisterSingleType(types.TypeRefFor[uint16](), Constant(uint16(0)))
	c.RegisterSingleType(types.TypeRefFor[uint32](), Constant(uint32(0)))
	c.RegisterSingleType(types.TypeRefFor[uint64](), Constant(uint64(0)))
	c.RegisterSingleType(types.TypeRefFor[float32](), Constant(float32(0)))
	c.RegisterSingleType(types.TypeRefFor[float64](), Constant(float64(0)))
	c.RegisterSingleType(types.TypeRefFor[time.Time](), Constant(time.Unix(0, 0).UTC()))
	return c
}
