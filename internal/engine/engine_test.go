package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solatis/dtogen/internal/condition"
	"github.com/solatis/dtogen/internal/defaultfill"
	"github.com/solatis/dtogen/internal/edit"
	"github.com/solatis/dtogen/internal/logging"
	"github.com/solatis/dtogen/internal/rules"
	"github.com/solatis/dtogen/internal/types"
)

type location struct {
	City string `dto:"city"`
}

type widget struct {
	Name        string    `dto:"name"`
	Description string    `dto:"description"`
	Size        int       `dto:"size"`
	Made        time.Time `dto:"made"`
	Where       location  `dto:"where"`
	Parts       []string  `dto:"parts"`
}

func (*widget) TypeTag() types.TypeRef { return "widget" }

func newWidget() *widget { return &widget{} }

func TestInstanceGenerator_FillsFromCache(t *testing.T) {
	cache := defaultfill.NewDefaultCache()
	cache.RegisterNameAndType("name", "string", defaultfill.Constant("DEFAULT_EXAMPLE_NAME"))
	cache.RegisterPath("where.city", defaultfill.Constant("Utrecht"))

	w, err := NewInstanceGenerator(newWidget, cache).New()
	require.NoError(t, err)

	assert.Equal(t, "DEFAULT_EXAMPLE_NAME", w.Name)
	assert.Equal(t, defaultfill.DefaultString, w.Description)
	assert.Equal(t, "Utrecht", w.Where.City)
	assert.Equal(t, time.Unix(0, 0).UTC(), w.Made)
	assert.Nil(t, w.Parts, "uncovered property left unset")
}

func TestInstanceGenerator_KeepsFactoryValues(t *testing.T) {
	factory := func() *widget { return &widget{Name: "preset", Size: 3} }

	w, err := NewInstanceGenerator(factory, defaultfill.NewDefaultCache()).New()
	require.NoError(t, err)
	assert.Equal(t, "preset", w.Name)
	assert.Equal(t, 3, w.Size)
}

func TestInstanceGenerator_Strict(t *testing.T) {
	gen := NewInstanceGenerator(newWidget, defaultfill.NewDefaultCache(), WithStrict(true))

	_, err := gen.New()
	require.ErrorIs(t, err, types.ErrNotCovered)
	assert.Contains(t, err.Error(), "parts")
}

func TestInstanceGenerator_NilCacheUsesDefaults(t *testing.T) {
	w, err := NewInstanceGenerator(newWidget, nil).New()
	require.NoError(t, err)
	assert.Equal(t, defaultfill.DefaultString, w.Name)
}

func TestInstanceGenerator_NotAStruct(t *testing.T) {
	_, err := NewInstanceGenerator(func() int { return 1 }, nil).New()
	assert.ErrorIs(t, err, types.ErrInvalidPath)
}

func TestInstanceGenerator_GeneratorError(t *testing.T) {
	boom := errors.New("boom")
	cache := defaultfill.NewCache()
	cache.RegisterPath("name", failing{err: boom})

	_, err := NewInstanceGenerator(newWidget, cache).New()
	assert.ErrorIs(t, err, boom)
}

type failing struct{ err error }

func (f failing) Generate() (any, error) { return nil, f.err }

func TestEngine_VisitsInOrderOnce(t *testing.T) {
	eng := New(NewInstanceGenerator(newWidget, nil))

	var seen []int
	record := VisitorFunc[*widget](func(index int, _ *widget) error {
		seen = append(seen, index)
		return nil
	})

	require.NoError(t, eng.Generate(context.Background(), 4, record))
	assert.Equal(t, []int{0, 1, 2, 3}, seen)
}

func TestEngine_CollectWithRules(t *testing.T) {
	editor := rules.NewMappedTypeEditor().
		AddRuleForType("widget", rules.DoThis(edit.IncrementEach("name").WithBase("sample-")).Build()).
		AddRuleForType("widget", rules.DoThis(edit.Set("name", "CHANGED")).
			Where(condition.ValueOf("name").Is("sample-3")).
			Build())

	eng := New(NewInstanceGenerator(newWidget, nil))
	items, err := eng.Collect(context.Background(), 5, EditorVisitor[*widget](editor))
	require.NoError(t, err)
	require.Len(t, items, 5)

	for i, w := range items {
		want := fmt.Sprintf("sample-%d", i)
		if i == 3 {
			want = "CHANGED"
		}
		assert.Equal(t, want, w.Name)
	}
}

func TestEngine_Combined(t *testing.T) {
	var calls []string
	v := func(name string) Visitor[*widget] {
		return VisitorFunc[*widget](func(int, *widget) error {
			calls = append(calls, name)
			return nil
		})
	}

	eng := New(NewInstanceGenerator(newWidget, nil))
	require.NoError(t, eng.Generate(context.Background(), 2, Combined(v("a"), v("b")), v("c")))
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, calls)
}

func TestEngine_Errors(t *testing.T) {
	eng := New(NewInstanceGenerator(newWidget, nil))

	err := eng.Generate(context.Background(), -1)
	assert.ErrorIs(t, err, types.ErrInvalidArgument)

	boom := errors.New("boom")
	err = eng.Generate(context.Background(), 3, VisitorFunc[*widget](func(i int, _ *widget) error {
		if i == 1 {
			return boom
		}
		return nil
	}))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "instance 1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = eng.Collect(ctx, 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_ZeroCount(t *testing.T) {
	items, err := New(NewInstanceGenerator(newWidget, nil)).Collect(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMisuse(t *testing.T) {
	assert.Panics(t, func() { NewInstanceGenerator[*widget](nil, nil) })
	assert.Panics(t, func() { New[*widget](nil) })
}

func TestEngine_LoggerConfiguredAfterConstruction(t *testing.T) {
	eng := New(NewInstanceGenerator(newWidget, nil))

	var buf bytes.Buffer
	logging.SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	t.Cleanup(func() { logging.SetLogger(zerolog.Nop()) })

	require.NoError(t, eng.Generate(context.Background(), 1))
	assert.Contains(t, buf.String(), "Generating batch")
	assert.Contains(t, buf.String(), "No generator registered", "uncovered parts are logged")
}
