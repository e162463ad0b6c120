package reorder

import (
	"fmt"

	"groove/internal/ordering"

	"github.com/google/uuid"
)

// Sibling is an item already in the target container.
type Sibling struct {
	ID       uuid.UUID
	Position float64
}

// Plan computes the position for an item dropped at anchor among siblings,
// which must be sorted by (position, id) and must not contain the mover.
func Plan(siblings []Sibling, anchor Anchor) (float64, error) {
	lower, upper, err := neighbors(siblings, anchor)
	if err != nil {
		return 0, err
	}
	// Two stored siblings sharing a key leave no gap at all.
	if lower != nil && upper != nil && *lower == *upper {
		return 0, ordering.ErrPrecisionExhausted
	}
	return ordering.Between(lower, upper)
}

func neighbors(siblings []Sibling, anchor Anchor) (lower, upper *float64, err error) {
	positions := make([]float64, len(siblings))
	for i, s := range siblings {
		positions[i] = s.Position
	}

	switch anchor.kind {
	case anchorStart:
		lower, upper = ordering.Neighbors(positions, 0)
		return lower, upper, nil
	case anchorEnd:
		lower, upper = ordering.Neighbors(positions, len(positions))
		return lower, upper, nil
	}

	for i, s := range siblings {
		if s.ID == anchor.after {
			lower, upper = ordering.Neighbors(positions, i+1)
			return lower, upper, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: sibling %s", ErrNotFound, anchor.after)
}
