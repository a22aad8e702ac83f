package condition

import (
	"fmt"

	"github.com/solatis/dtogen/internal/types"
)

// IndexBuilder creates conditions over the item's position in the batch.
type IndexBuilder struct{}

// Index starts an index condition: Index().Is(3), Index().IsEven().
func Index() IndexBuilder {
	return IndexBuilder{}
}

// Is matches exactly index n.
func (IndexBuilder) Is(n int) Condition {
	return indexCondition{
		name:  fmt.Sprintf("INDEX [%d]", n),
		match: func(i int) bool { return i == n },
	}
}

// IsEven matches even indexes (0, 2, 4...).
func (IndexBuilder) IsEven() Condition {
	return indexCondition{name: "INDEX IS EVEN", match: func(i int) bool { return i%2 == 0 }}
}

// IsOdd matches odd indexes (1, 3, 5...).
func (IndexBuilder) IsOdd() Condition {
	return indexCondition{name: "INDEX IS ODD", match: func(i int) bool { return i%2 != 0 }}
}

// Between matches lo <= index <= hi.
func (IndexBuilder) Between(lo, hi int) Condition {
	return indexCondition{
		name:  fmt.Sprintf("INDEX BETWEEN [%d, %d]", lo, hi),
		match: func(i int) bool { return i >= lo && i <= hi },
	}
}

// Every matches every nth item starting at index 0. Panics if n < 1.
func Every(n int) Condition {
	if n < 1 {
		panic(fmt.Errorf("%w: every needs n >= 1, got %d", types.ErrInvalidArgument, n))
	}
	return indexCondition{
		name:  fmt.Sprintf("EVERY [%d]", n),
		match: func(i int) bool { return i%n == 0 },
	}
}

type indexCondition struct {
	name  string
	match func(int) bool
}

func (c indexCondition) IsValid(index int, _ any) bool { return c.match(index) }
func (c indexCondition) String() string                { return c.name }
