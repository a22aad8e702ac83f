package sample

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/dtogen/internal/defaultfill"
	"github.com/solatis/dtogen/internal/engine"
	"github.com/solatis/dtogen/internal/types"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"order", "person"}, Names())

	k, ok := Lookup("person")
	require.True(t, ok)
	assert.Equal(t, types.TypeRef("person"), k.New().TypeTag())

	_, ok = Lookup("invoice")
	assert.False(t, ok)
}

func TestRegisterDefaults(t *testing.T) {
	cache := defaultfill.NewDefaultCache()
	RegisterDefaults(cache)

	k, _ := Lookup("person")
	eng := engine.New(engine.NewInstanceGenerator(k.New, cache))
	items, err := eng.Collect(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 2)

	p := items[0].(*Person)
	_, err = uuid.Parse(p.ID)
	assert.NoError(t, err, "id is a uuid")
	assert.NotEqual(t, p.ID, items[1].(*Person).ID)
	assert.Equal(t, "someone@example.com", p.Email)
	assert.Equal(t, "Amsterdam", p.Home.City)
	assert.Equal(t, "NL", p.Home.Country)
	assert.Equal(t, defaultfill.DefaultString, p.Name)
}

func TestOrderDefaults(t *testing.T) {
	cache := defaultfill.NewDefaultCache()
	RegisterDefaults(cache)

	k, _ := Lookup("order")
	o, err := engine.NewInstanceGenerator(k.New, cache).New()
	require.NoError(t, err)

	order := o.(*Order)
	assert.Equal(t, "NEW", order.Status)
	assert.Equal(t, "NL", order.Shipping.Country)
	assert.Equal(t, "Amsterdam", order.Shipping.City)
}
