// internal/engine/instance.go
package engine

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/solatis/dtogen/internal/defaultfill"
	"github.com/solatis/dtogen/internal/logging"
	"github.com/solatis/dtogen/internal/propertyaccess"
	"github.com/solatis/dtogen/internal/types"
)

/*
 * Instance construction with default fill.
 *
 * An InstanceGenerator builds one dto per call:
 *   1. Call the factory (returns a pointer so properties are settable)
 *   2. List the dto's leaf properties through the accessor
 *   3. For every property still at its zero value, resolve a generator from
 *      the cache, generate a value and set it
 *
 * Properties the factory already set are left alone. Uncovered properties
 * are skipped with a debug log, or fail with ErrNotCovered in strict mode.
 */

// Option configures an InstanceGenerator.
type Option func(*options)

type options struct {
	accessor propertyaccess.Accessor
	strict   bool
	logger   *zerolog.Logger // nil: current "engine" component logger
}

// WithAccessor replaces the reflection accessor.
func WithAccessor(acc propertyaccess.Accessor) Option {
	return func(o *options) { o.accessor = acc }
}

// WithStrict makes uncovered properties an error instead of a skip.
func WithStrict(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = &l }
}

// InstanceGenerator creates dtos and fills their unset properties.
type InstanceGenerator[T any] struct {
	factory func() T
	cache   *defaultfill.Cache
	opts    options
}

// NewInstanceGenerator returns a generator using factory and cache.
// A nil cache uses defaultfill.NewDefaultCache. Panics on a nil factory.
func NewInstanceGenerator[T any](factory func() T, cache *defaultfill.Cache, opts ...Option) *InstanceGenerator[T] {
	if factory == nil {
		panic(fmt.Errorf("%w: factory must not be nil", types.ErrInvalidArgument))
	}
	if cache == nil {
		cache = defaultfill.NewDefaultCache()
	}
	o := options{
		accessor: propertyaccess.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &InstanceGenerator[T]{factory: factory, cache: cache, opts: o}
}

// Cache returns the generator cache used for default fill.
func (g *InstanceGenerator[T]) Cache() *defaultfill.Cache {
	return g.cache
}

// New creates one dto with its zero-valued properties filled.
func (g *InstanceGenerator[T]) New() (T, error) {
	item := g.factory()

	keys, err := g.opts.accessor.Properties(item)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("listing properties of %T: %w", item, err)
	}

	for _, key := range keys {
		if err := g.fill(item, key); err != nil {
			var zero T
			return zero, err
		}
	}
	return item, nil
}

// fill sets one property from the cache when it is still zero.
func (g *InstanceGenerator[T]) fill(item any, key types.PropertyKey) error {
	current, err := g.opts.accessor.Get(item, key.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", key.Path, err)
	}
	if !isZero(current) {
		return nil
	}

	gen := g.cache.Resolve(key)
	if !defaultfill.IsCovered(gen) {
		if g.opts.strict {
			return fmt.Errorf("%s (%s): %w", key.Path, key.PropertyType, types.ErrNotCovered)
		}
		g.log().Debug().
			Str("path", key.Path).
			Str("type", string(key.PropertyType)).
			Msg("No generator registered, property left unset")
		return nil
	}

	value, err := gen.Generate()
	if err != nil {
		return fmt.Errorf("generating %s: %w", key.Path, err)
	}
	if err := g.opts.accessor.Set(item, key.Path, value); err != nil {
		return fmt.Errorf("setting %s: %w", key.Path, err)
	}
	return nil
}

// log returns the WithLogger override or the component logger as configured now.
func (g *InstanceGenerator[T]) log() *zerolog.Logger {
	if g.opts.logger != nil {
		return g.opts.logger
	}
	l := logging.GetLogger("engine")
	return &l
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
