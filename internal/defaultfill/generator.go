package defaultfill

import "github.com/solatis/dtogen/internal/types"

// ValueGenerator produces a default value for a property.
type ValueGenerator interface {
	Generate() (any, error)
}

// GeneratorFunc adapts a zero-argument function to ValueGenerator.
type GeneratorFunc func() any

// Generate calls f.
func (f GeneratorFunc) Generate() (any, error) {
	return f(), nil
}

// Constant returns a generator that always produces v.
func Constant(v any) ValueGenerator {
	return GeneratorFunc(func() any { return v })
}

// NotCovered is returned by Resolve when no tier matches.
// Invoking it fails with types.ErrNotCovered.
var NotCovered ValueGenerator = notCovered{}

type notCovered struct{}

func (notCovered) Generate() (any, error) {
	return nil, types.ErrNotCovered
}

// IsCovered reports whether g is a real generator rather than NotCovered.
func IsCovered(g ValueGenerator) bool {
	_, uncovered := g.(notCovered)
	return g != nil && !uncovered
}
