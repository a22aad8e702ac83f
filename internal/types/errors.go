package types

import "errors"

// Sentinel errors for dtogen operations.
var (
	// ErrNotCovered indicates the NotCovered generator was invoked.
	// Unsupported operation: no generator was registered for the property.
	ErrNotCovered = errors.New("unsupported operation: no generator registered for property")

	// ErrInvalidArgument indicates a nil or empty argument passed to a builder or combinator.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownRegisterMode indicates an unrecognized type registration mode.
	ErrUnknownRegisterMode = errors.New("unknown register type mode")

	// ErrUnknownOperator indicates an unrecognized condition operator or join keyword.
	ErrUnknownOperator = errors.New("unknown condition operator")

	// ErrUnknownEdit indicates an unrecognized edit operation in a rule spec.
	ErrUnknownEdit = errors.New("unknown edit operation")

	// ErrUntaggedItem indicates an item without a type tag was passed to a type-keyed editor.
	ErrUntaggedItem = errors.New("item does not carry a type tag")

	// ErrPathTooDeep indicates a property path exceeds MaxPathDepth.
	ErrPathTooDeep = errors.New("property path exceeds maximum depth")

	// ErrInvalidPath indicates a malformed property path.
	ErrInvalidPath = errors.New("invalid property path")

	// ErrFieldNotFound indicates a property path could not be resolved.
	ErrFieldNotFound = errors.New("field not found")

	// ErrNotSettable indicates the property exists but cannot be assigned.
	ErrNotSettable = errors.New("property is not settable")

	// ErrTypeMismatch indicates a value cannot be assigned to the property's declared type.
	ErrTypeMismatch = errors.New("value type does not match property type")

	// ErrBatchNotFound indicates no stored batch has the requested ID.
	ErrBatchNotFound = errors.New("batch not found")

	// ErrCoercionFailed indicates type coercion failed.
	ErrCoercionFailed = errors.New("type coercion failed")
)
