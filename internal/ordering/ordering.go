// Package ordering allocates fractional position keys for items kept in a
// user-defined order (cards inside a column, columns inside a board).
//
// A new key is placed between its two neighbors by averaging them, so a
// single insert never touches any sibling. Keys are float64 and the gap
// between two fixed neighbors halves on every insert; when it can no longer
// be split Between reports ErrPrecisionExhausted and the caller is expected
// to Renumber the container.
package ordering

import (
	"errors"
	"math"
)

var (
	// ErrInvalidNeighbors is returned when lower >= upper or a bound is not finite.
	ErrInvalidNeighbors = errors.New("invalid neighbor positions")

	// ErrPrecisionExhausted is returned when no float64 lies strictly between the bounds.
	ErrPrecisionExhausted = errors.New("position precision exhausted")

	// ErrIndexOutOfRange is returned by AtIndex for an index outside [0, len(positions)].
	ErrIndexOutOfRange = errors.New("insertion index out of range")
)

// Step is the distance used when only one neighbor exists, and the spacing
// produced by Renumber.
const Step = 1.0

// Between returns a position strictly between lower and upper. A nil bound
// means the item goes to that end of the container; with both nil the
// container is empty and the result is 0.
func Between(lower, upper *float64) (float64, error) {
	if lower != nil && !finite(*lower) {
		return 0, ErrInvalidNeighbors
	}
	if upper != nil && !finite(*upper) {
		return 0, ErrInvalidNeighbors
	}

	switch {
	case lower == nil && upper == nil:
		return 0, nil

	case lower == nil:
		p := *upper - Step
		if !(p < *upper) {
			return 0, ErrPrecisionExhausted
		}
		return p, nil

	case upper == nil:
		p := *lower + Step
		if !(p > *lower) {
			return 0, ErrPrecisionExhausted
		}
		return p, nil
	}

	if *lower >= *upper {
		return 0, ErrInvalidNeighbors
	}
	p := (*lower + *upper) / 2
	if !(*lower < p && p < *upper) {
		return 0, ErrPrecisionExhausted
	}
	return p, nil
}

// AtIndex returns a position that sorts at index i of the ascending positions,
// i.e. after positions[i-1] and before positions[i].
func AtIndex(positions []float64, i int) (float64, error) {
	if i < 0 || i > len(positions) {
		return 0, ErrIndexOutOfRange
	}
	lower, upper := Neighbors(positions, i)
	return Between(lower, upper)
}

// Neighbors returns the bounds surrounding insertion index i. The caller
// guarantees 0 <= i <= len(positions).
func Neighbors(positions []float64, i int) (lower, upper *float64) {
	if i > 0 {
		lower = &positions[i-1]
	}
	if i < len(positions) {
		upper = &positions[i]
	}
	return lower, upper
}

// Renumber returns n evenly spaced keys 0, Step, 2*Step, ... preserving order.
func Renumber(n int) []float64 {
	keys := make([]float64, n)
	for i := range keys {
		keys[i] = float64(i) * Step
	}
	return keys
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
