package defaultfill

import (
	"bytes"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/dtogen/internal/logging"
	"github.com/solatis/dtogen/internal/types"
)

const (
	stringType types.TypeRef = "string"
	personType types.TypeRef = "example.Person"
)

func generate(t *testing.T, g ValueGenerator) any {
	t.Helper()
	v, err := g.Generate()
	require.NoError(t, err)
	return v
}

func nameKey() types.PropertyKey {
	return types.PropertyKey{
		Path:         "name",
		OwningType:   personType,
		PropertyName: "name",
		PropertyType: stringType,
	}
}

func TestResolve_NameAndTypeOverTypeFallback(t *testing.T) {
	c := NewCache()
	c.RegisterNameAndType("name", stringType, Constant("DEFAULT_EXAMPLE_NAME"))
	c.RegisterSingleType(stringType, Constant("DEFAULT"))

	assert.Equal(t, "DEFAULT_EXAMPLE_NAME", generate(t, c.Resolve(nameKey())))

	description := types.PropertyKey{
		Path:         "description",
		OwningType:   personType,
		PropertyName: "description",
		PropertyType: stringType,
	}
	assert.Equal(t, "DEFAULT", generate(t, c.Resolve(description)))
}

func TestResolve_SpecificityOrder(t *testing.T) {
	c := NewCache()
	key := nameKey()

	g, tier, ok := c.Lookup(key)
	assert.False(t, ok)
	assert.Nil(t, g)
	assert.Equal(t, TierNone, tier)

	c.RegisterSingleType(stringType, Constant("type"))
	assert.Equal(t, "type", generate(t, c.Resolve(key)))

	c.RegisterNameAndType("name", stringType, Constant("name+type"))
	assert.Equal(t, "name+type", generate(t, c.Resolve(key)))

	c.RegisterOwnerProperty(personType, "name", Constant("owner+property"))
	assert.Equal(t, "owner+property", generate(t, c.Resolve(key)))

	c.RegisterPath("name", Constant("path"))
	assert.Equal(t, "path", generate(t, c.Resolve(key)))

	_, tier, ok = c.Lookup(key)
	assert.True(t, ok)
	assert.Equal(t, TierPath, tier)
}

func TestResolve_ExactMatchesOnly(t *testing.T) {
	c := NewCache()
	c.RegisterPath("address.city", Constant("path"))
	c.RegisterOwnerProperty("example.Address", "city", Constant("owner"))
	c.RegisterNameAndType("city", "sample.CityName", Constant("named type"))

	key := types.PropertyKey{Path: "city", OwningType: personType, PropertyName: "city", PropertyType: stringType}
	assert.False(t, IsCovered(c.Resolve(key)), "no tier should match a different path, owner or type")
}

func TestNotCovered_FailsOnGenerate(t *testing.T) {
	c := NewCache()
	g := c.Resolve(nameKey())

	assert.False(t, IsCovered(g))
	_, err := g.Generate()
	assert.ErrorIs(t, err, types.ErrNotCovered)
}

func TestRegister_OverwriteLastWins(t *testing.T) {
	c := NewCache()
	c.RegisterNameAndType("name", stringType, Constant("first"))
	c.RegisterNameAndType("name", stringType, Constant("second"))
	assert.Equal(t, "second", generate(t, c.Resolve(nameKey())))

	c.RegisterPath("name", Constant("p1"))
	c.RegisterPath("name", Constant("p2"))
	assert.Equal(t, "p2", generate(t, c.Resolve(nameKey())))
}

func TestRegister_NilGeneratorPanics(t *testing.T) {
	c := NewCache()
	assert.Panics(t, func() { c.RegisterPath("name", nil) })
	assert.Panics(t, func() { c.RegisterSingleType(stringType, nil) })
}

func TestClear(t *testing.T) {
	c := NewCache()
	c.RegisterPath("name", Constant("p"))
	c.RegisterOwnerProperty(personType, "name", Constant("o"))
	c.RegisterNameAndType("name", stringType, Constant("n"))
	c.RegisterSingleType(stringType, Constant("t"))

	c.Clear()

	assert.False(t, IsCovered(c.Resolve(nameKey())))
}

func hierarchyFixture() *Hierarchy {
	return NewHierarchy().
		Declare("Manager", "Employee", "Approver").
		Declare("Employee", "Person", "Payable").
		Declare("Person", "").
		Declare("Payable", "", "Named").
		Declare("Named", "")
}

func typeKey(t types.TypeRef) types.PropertyKey {
	return types.PropertyKey{Path: "p", OwningType: "Holder", PropertyName: "p", PropertyType: t}
}

func TestRegisterType_Modes(t *testing.T) {
	tests := []struct {
		name      string
		mode      RegisterTypeMode
		covered   []types.TypeRef
		uncovered []types.TypeRef
	}{
		{
			name:      "single type",
			mode:      SingleType,
			covered:   []types.TypeRef{"Manager"},
			uncovered: []types.TypeRef{"Employee", "Person", "Approver", "Payable", "Named"},
		},
		{
			name:      "all parents",
			mode:      AllParents,
			covered:   []types.TypeRef{"Manager", "Employee", "Person"},
			uncovered: []types.TypeRef{"Approver", "Payable", "Named"},
		},
		{
			name:      "all interfaces",
			mode:      AllInterfaces,
			covered:   []types.TypeRef{"Manager", "Approver", "Payable", "Named"},
			uncovered: []types.TypeRef{"Employee", "Person"},
		},
		{
			name:    "all",
			mode:    All,
			covered: []types.TypeRef{"Manager", "Employee", "Person", "Approver", "Payable", "Named"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache(WithHierarchy(hierarchyFixture()))
			require.NoError(t, c.RegisterType(tt.mode, "Manager", Constant("m")))

			for _, typ := range tt.covered {
				assert.True(t, IsCovered(c.Resolve(typeKey(typ))), "%s should be covered", typ)
			}
			for _, typ := range tt.uncovered {
				assert.False(t, IsCovered(c.Resolve(typeKey(typ))), "%s should not be covered", typ)
			}
		})
	}
}

func TestRegisterType_PropagationOverwrites(t *testing.T) {
	c := NewCache(WithHierarchy(hierarchyFixture()))
	c.RegisterSingleType("Person", Constant("person"))
	require.NoError(t, c.RegisterType(AllParents, "Manager", Constant("manager")))

	assert.Equal(t, "manager", generate(t, c.Resolve(typeKey("Person"))))

	c.RegisterSingleType("Person", Constant("person again"))
	assert.Equal(t, "person again", generate(t, c.Resolve(typeKey("Person"))))
	assert.Equal(t, "manager", generate(t, c.Resolve(typeKey("Employee"))))
}

func TestRegisterType_UnknownMode(t *testing.T) {
	c := NewCache()
	err := c.RegisterType(RegisterTypeMode(42), stringType, Constant("x"))
	require.ErrorIs(t, err, types.ErrUnknownRegisterMode)
	assert.Contains(t, err.Error(), "RegisterTypeMode(42)")
	assert.False(t, IsCovered(c.Resolve(typeKey(stringType))))
}

func TestHierarchy_CycleTerminates(t *testing.T) {
	h := NewHierarchy().
		Declare("A", "B", "I").
		Declare("B", "A").
		Declare("I", "", "J").
		Declare("J", "", "I")

	assert.Equal(t, []types.TypeRef{"B"}, h.Ancestors("A"))
	assert.Equal(t, []types.TypeRef{"I", "J"}, h.AllInterfaces("A"))
}

func TestNewDefaultCache(t *testing.T) {
	c := NewDefaultCache()
	assert.Equal(t, DefaultString, generate(t, c.Resolve(nameKey())))
	assert.Equal(t, 0, generate(t, c.Resolve(typeKey("int"))))
	assert.Equal(t, false, generate(t, c.Resolve(typeKey("bool"))))
	assert.False(t, IsCovered(c.Resolve(typeKey("[]string"))))
}

// Property-based test: a registered tier always beats every less specific tier
func TestResolve_PropertySpecificity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("most specific registered tier wins", prop.ForAll(
		func(path, owner, nameType, typ bool) bool {
			c := NewCache()
			want := "not covered"
			// Register least specific first; registration order must not matter
			if typ {
				c.RegisterSingleType(stringType, Constant("type"))
				want = "type"
			}
			if nameType {
				c.RegisterNameAndType("name", stringType, Constant("name+type"))
				want = "name+type"
			}
			if owner {
				c.RegisterOwnerProperty(personType, "name", Constant("owner+property"))
				want = "owner+property"
			}
			if path {
				c.RegisterPath("name", Constant("path"))
				want = "path"
			}

			g := c.Resolve(nameKey())
			if !IsCovered(g) {
				return want == "not covered"
			}
			got, err := g.Generate()
			return err == nil && got == want
		},
		gen.Bool(), gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.Property("registration order does not change the winner", prop.ForAll(
		func(reversed bool) bool {
			c := NewCache()
			register := []func(){
				func() { c.RegisterSingleType(stringType, Constant("type")) },
				func() { c.RegisterNameAndType("name", stringType, Constant("name+type")) },
			}
			if reversed {
				register[0], register[1] = register[1], register[0]
			}
			for _, r := range register {
				r()
			}
			got, err := c.Resolve(nameKey()).Generate()
			return err == nil && got == "name+type"
		},
		gen.Bool(),
	))

	properties.TestingRun(t)
}

func TestCache_LoggerConfiguredAfterConstruction(t *testing.T) {
	c := NewCache()

	var buf bytes.Buffer
	logging.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { logging.SetLogger(zerolog.Nop()) })

	c.RegisterPath("home.city", Constant("Leeds"))
	assert.Contains(t, buf.String(), "Registered generator")
	assert.Contains(t, buf.String(), `"component":"defaultfill"`)

	var own bytes.Buffer
	overridden := NewCache(WithLogger(zerolog.New(&own).Level(zerolog.DebugLevel)))
	buf.Reset()
	overridden.RegisterPath("home.city", Constant("Leeds"))
	assert.Contains(t, own.String(), "Registered generator")
	assert.Empty(t, buf.String(), "WithLogger replaces the component logger")
}
