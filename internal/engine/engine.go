// Package engine generates batches of dtos and hands every instance to
// visitors, in generation order, exactly once.
//
// The engine itself knows nothing about rules. Rule application is a
// visitor (EditorVisitor), as is collection (ListVisitor), so callers
// compose the pipeline they need:
//
//	list := &engine.ListVisitor[*sample.Person]{}
//	err := eng.Generate(ctx, 10, engine.EditorVisitor[*sample.Person](editor), list)
//
// An Engine is not safe for concurrent use when its cache is being modified.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/solatis/dtogen/internal/logging"
	"github.com/solatis/dtogen/internal/rules"
	"github.com/solatis/dtogen/internal/types"
)

// Visitor receives each generated instance with its batch index.
type Visitor[T any] interface {
	Visit(index int, item T) error
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc[T any] func(index int, item T) error

func (f VisitorFunc[T]) Visit(index int, item T) error { return f(index, item) }

// Combined calls every visitor in order, stopping at the first error.
func Combined[T any](visitors ...Visitor[T]) Visitor[T] {
	vs := append([]Visitor[T](nil), visitors...)
	return VisitorFunc[T](func(index int, item T) error {
		for _, v := range vs {
			if err := v.Visit(index, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListVisitor collects visited instances.
type ListVisitor[T any] struct {
	Items []T
}

func (l *ListVisitor[T]) Visit(_ int, item T) error {
	l.Items = append(l.Items, item)
	return nil
}

// EditorVisitor applies a rules editor to every instance.
func EditorVisitor[T any](editor rules.Editor) Visitor[T] {
	return VisitorFunc[T](func(index int, item T) error {
		_, err := editor.Edit(index, item)
		return err
	})
}

// Engine produces batches from an InstanceGenerator.
type Engine[T any] struct {
	gen *InstanceGenerator[T]
}

// New returns an engine drawing instances from gen.
func New[T any](gen *InstanceGenerator[T]) *Engine[T] {
	if gen == nil {
		panic(fmt.Errorf("%w: instance generator must not be nil", types.ErrInvalidArgument))
	}
	return &Engine[T]{gen: gen}
}

// Generate creates n instances and passes each to visitors in order.
// Each instance is fully visited before the next is created.
func (e *Engine[T]) Generate(ctx context.Context, n int, visitors ...Visitor[T]) error {
	if n < 0 {
		return fmt.Errorf("%w: count must not be negative, got %d", types.ErrInvalidArgument, n)
	}
	visit := Combined(visitors...)
	start := time.Now()

	logger := logging.GetLogger("engine")
	logger.Debug().Int("count", n).Int("visitors", len(visitors)).Msg("Generating batch")

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		item, err := e.gen.New()
		if err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
		if err := visit.Visit(i, item); err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
	}

	logger.Debug().
		Int("count", n).
		Dur("elapsed", time.Since(start)).
		Msg("Batch generated")
	return nil
}

// Collect generates n instances, visits them and returns them in order.
func (e *Engine[T]) Collect(ctx context.Context, n int, visitors ...Visitor[T]) ([]T, error) {
	list := &ListVisitor[T]{Items: make([]T, 0, max(n, 0))}
	all := append(append([]Visitor[T](nil), visitors...), list)
	if err := e.Generate(ctx, n, all...); err != nil {
		return nil, err
	}
	return list.Items, nil
}
