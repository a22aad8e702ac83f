// internal/defaultfill/cache.go
package defaultfill

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/solatis/dtogen/internal/logging"
	"github.com/solatis/dtogen/internal/types"
)

/*
 * Tiered value generator cache.
 *
 * Maps a PropertyKey to the most specific registered ValueGenerator. Four
 * independent tiers, checked most specific first, first hit wins:
 *   1. TierPath:          exact property path ("address.city")
 *   2. TierOwnerProperty: owning type + property name
 *   3. TierNameAndType:   property name + property type (type equality, not assignability)
 *   4. TierType:          property type alone
 * A miss on every tier yields NotCovered. Misses are not cached.
 *
 * Type registration can propagate along a declared Hierarchy: AllParents
 * also registers every ancestor, AllInterfaces every transitively implemented
 * interface, All both. Later registrations for the same key overwrite
 * earlier ones silently.
 *
 * Concurrency: none. The intended lifecycle is register everything, then
 * resolve from one goroutine (or many readers once registration is done).
 * Registering while another goroutine resolves is a data race.
 */

// Tier identifies which mapping resolved a generator.
type Tier int

const (
	TierNone Tier = iota
	TierPath
	TierOwnerProperty
	TierNameAndType
	TierType
)

func (t Tier) String() string {
	switch t {
	case TierPath:
		return "path"
	case TierOwnerProperty:
		return "owner+property"
	case TierNameAndType:
		return "name+type"
	case TierType:
		return "type"
	default:
		return "none"
	}
}

// RegisterTypeMode selects how a type registration propagates through the Hierarchy.
type RegisterTypeMode int

const (
	SingleType RegisterTypeMode = iota
	AllParents
	AllInterfaces
	All
)

func (m RegisterTypeMode) String() string {
	switch m {
	case SingleType:
		return "SINGLE_TYPE"
	case AllParents:
		return "ALL_PARENTS"
	case AllInterfaces:
		return "ALL_INTERFACES"
	case All:
		return "ALL"
	default:
		return fmt.Sprintf("RegisterTypeMode(%d)", int(m))
	}
}

type ownerPropertyKey struct {
	owner    types.TypeRef
	property string
}

type nameAndTypeKey struct {
	property string
	propType types.TypeRef
}

// Cache resolves property keys to value generators.
type Cache struct {
	byPath          map[string]ValueGenerator
	byOwnerProperty map[ownerPropertyKey]ValueGenerator
	byNameAndType   map[nameAndTypeKey]ValueGenerator
	byType          map[types.TypeRef]ValueGenerator
	hierarchy       *Hierarchy
	logger          *zerolog.Logger // nil: current "defaultfill" component logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithHierarchy sets the type table used by AllParents/AllInterfaces/All registration.
func WithHierarchy(h *Hierarchy) Option {
	return func(c *Cache) { c.hierarchy = h }
}

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) { c.logger = &l }
}

// log returns the WithLogger override or the component logger as configured now.
func (c *Cache) log() *zerolog.Logger {
	if c.logger != nil {
		return c.logger
	}
	l := logging.GetLogger("defaultfill")
	return &l
}

// NewCache creates an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		hierarchy: NewHierarchy(),
	}
	c.reset()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) reset() {
	c.byPath = make(map[string]ValueGenerator)
	c.byOwnerProperty = make(map[ownerPropertyKey]ValueGenerator)
	c.byNameAndType = make(map[nameAndTypeKey]ValueGenerator)
	c.byType = make(map[types.TypeRef]ValueGenerator)
}

// Hierarchy returns the type table consulted during type registration.
func (c *Cache) Hierarchy() *Hierarchy {
	return c.hierarchy
}

// RegisterPath registers g for an exact property path.
func (c *Cache) RegisterPath(path string, g ValueGenerator) {
	mustGenerator(g)
	c.byPath[path] = g
	c.log().Debug().Stringer("tier", TierPath).Str("path", path).Msg("Registered generator")
}

// RegisterOwnerProperty registers g for property name on owner.
func (c *Cache) RegisterOwnerProperty(owner types.TypeRef, property string, g ValueGenerator) {
	mustGenerator(g)
	c.byOwnerProperty[ownerPropertyKey{owner: owner, property: property}] = g
	c.log().Debug().Stringer("tier", TierOwnerProperty).
		Str("owner", string(owner)).Str("property", property).Msg("Registered generator")
}

// RegisterNameAndType registers g for properties called property whose declared type is propType.
func (c *Cache) RegisterNameAndType(property string, propType types.TypeRef, g ValueGenerator) {
	mustGenerator(g)
	c.byNameAndType[nameAndTypeKey{property: property, propType: propType}] = g
	c.log().Debug().Stringer("tier", TierNameAndType).
		Str("property", property).Str("type", string(propType)).Msg("Registered generator")
}

// RegisterType registers g for propType and, depending on mode, its ancestors
// and interfaces. Returns ErrUnknownRegisterMode for an unrecognized mode;
// nothing is registered in that case.
func (c *Cache) RegisterType(mode RegisterTypeMode, propType types.TypeRef, g ValueGenerator) error {
	mustGenerator(g)

	var also []types.TypeRef
	switch mode {
	case SingleType:
	case AllParents:
		also = c.hierarchy.Ancestors(propType)
	case AllInterfaces:
		also = c.hierarchy.AllInterfaces(propType)
	case All:
		also = append(c.hierarchy.Ancestors(propType), c.hierarchy.AllInterfaces(propType)...)
	default:
		return fmt.Errorf("%w: %s", types.ErrUnknownRegisterMode, mode)
	}

	c.byType[propType] = g
	for _, t := range also {
		c.byType[t] = g
	}
	c.log().Debug().Stringer("tier", TierType).Stringer("mode", mode).
		Str("type", string(propType)).Int("propagated", len(also)).Msg("Registered generator")
	return nil
}

// RegisterSingleType registers g for propType only.
func (c *Cache) RegisterSingleType(propType types.TypeRef, g ValueGenerator) {
	// SingleType never fails
	_ = c.RegisterType(SingleType, propType, g)
}

// Resolve returns the most specific generator for key, or NotCovered.
func (c *Cache) Resolve(key types.PropertyKey) ValueGenerator {
	g, _, ok := c.Lookup(key)
	if !ok {
		return NotCovered
	}
	return g
}

// Lookup is Resolve with an explicit not-found result and the matching tier.
func (c *Cache) Lookup(key types.PropertyKey) (ValueGenerator, Tier, bool) {
	g, tier := c.lookup(key)
	if tier == TierNone {
		c.log().Trace().Str("path", key.Path).Str("type", string(key.PropertyType)).Msg("No generator covers property")
		return nil, TierNone, false
	}
	c.log().Trace().Str("path", key.Path).Stringer("tier", tier).Msg("Resolved generator")
	return g, tier, true
}

func (c *Cache) lookup(key types.PropertyKey) (ValueGenerator, Tier) {
	if g, ok := c.byPath[key.Path]; ok {
		return g, TierPath
	}
	if g, ok := c.byOwnerProperty[ownerPropertyKey{owner: key.OwningType, property: key.PropertyName}]; ok {
		return g, TierOwnerProperty
	}
	if g, ok := c.byNameAndType[nameAndTypeKey{property: key.PropertyName, propType: key.PropertyType}]; ok {
		return g, TierNameAndType
	}
	if g, ok := c.byType[key.PropertyType]; ok {
		return g, TierType
	}
	return nil, TierNone
}

// Clear removes every registration from all four tiers.
// The hierarchy table is kept.
func (c *Cache) Clear() {
	c.reset()
	c.log().Debug().Msg("Cleared generator cache")
}

func mustGenerator(g ValueGenerator) {
	if g == nil {
		panic(fmt.Errorf("%w: generator must not be nil", types.ErrInvalidArgument))
	}
}
