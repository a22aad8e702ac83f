// Package types provides domain models shared across dtogen components.
//
// Zero-logic design: types.go and errors.go hold plain descriptors and sentinel
// errors only. ID utilities in ids.go import uuid but are isolated so the
// descriptor types stay dependency free.
//
// Type identity: dtogen never walks a runtime type graph. Types are named by
// TypeRef tokens, and any hierarchy between them is declared explicitly by the
// caller (see internal/defaultfill Hierarchy).
package types

import "reflect"

// TypeRef is a stable identifier for a property or dto type.
// For Go types it is reflect.Type.String() ("string", "time.Time", "sample.Person").
type TypeRef string

// TypeOf returns the TypeRef of v's dynamic type.
// Returns "" for a nil interface.
func TypeOf(v any) TypeRef {
	if v == nil {
		return ""
	}
	return RefOf(reflect.TypeOf(v))
}

// RefOf returns the TypeRef for a reflect.Type.
func RefOf(t reflect.Type) TypeRef {
	if t == nil {
		return ""
	}
	return TypeRef(t.String())
}

// TypeRefFor returns the TypeRef of T without needing a value.
func TypeRefFor[T any]() TypeRef {
	return RefOf(reflect.TypeOf((*T)(nil)).Elem())
}

// PropertyKey describes a single property lookup.
// Produced by the property access layer per dto/property pair and never
// retained by the generator cache.
type PropertyKey struct {
	Path         string  // full dotted path from the root dto ("address.city")
	OwningType   TypeRef // type holding the property
	PropertyName string  // last path segment
	PropertyType TypeRef // declared type of the property
}

// Tagged is implemented by dtos used with a type-keyed editor.
// The tag is supplied by the caller rather than introspected, so two Go types
// may share a tag and a subtype never inherits its parent's rules.
type Tagged interface {
	TypeTag() TypeRef
}

// RuleID represents a UUIDv7 rule identifier.
// String alias enables type safety while keeping a readable form in logs.
type RuleID string

// Resource limits enforced by the property access layer.
const (
	// MaxPathDepth prevents unbounded recursion during path resolution.
	// 16 levels handles deeply nested dtos (a.b.c...) without degradation.
	MaxPathDepth = 16
)
