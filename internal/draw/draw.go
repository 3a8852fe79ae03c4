// Package draw implements the contemplation draw: an unbiased Fisher–Yates
// shuffle over participant IDs plus the validation rules for manual order
// adjustments. Persistence of the result lives in storage.
package draw

import (
	"errors"
	"math/rand/v2"
)

var (
	// ErrDuplicatePosition is returned when a manual adjustment assigns the
	// same position to more than one participant.
	ErrDuplicatePosition = errors.New("duplicate draw positions")

	// ErrIncompleteAdjust is returned when a manual adjustment does not
	// cover every participant of the group with positions 1..M. Partial
	// remappings would leave omitted seats with stale orders while the log
	// is rewritten, breaking the permutation invariant.
	ErrIncompleteAdjust = errors.New("adjustment must assign every participant a position 1..M")
)

// Shuffle returns ids in a uniformly random order using an in-place
// Fisher–Yates shuffle: for i from the last index down to 1, swap position i
// with a uniform position in [0, i]. intn must return a uniform value in
// [0, n); pass rand.IntN outside tests.
func Shuffle(ids []string, intn func(n int) int) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	for i := len(out) - 1; i > 0; i-- {
		j := intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// IntN is the default randomness source for Shuffle.
func IntN(n int) int {
	return rand.IntN(n)
}

// ValidateAdjustment checks a manual {participant ID -> position} remapping
// against the group's roster. Positions must be pairwise distinct and the
// mapping must cover exactly the roster with positions forming a permutation
// of 1..M.
func ValidateAdjustment(mapping map[string]int, rosterIDs []string) error {
	seen := make(map[int]bool, len(mapping))
	for _, pos := range mapping {
		if seen[pos] {
			return ErrDuplicatePosition
		}
		seen[pos] = true
	}

	if len(mapping) != len(rosterIDs) {
		return ErrIncompleteAdjust
	}
	for _, id := range rosterIDs {
		pos, ok := mapping[id]
		if !ok || pos < 1 || pos > len(rosterIDs) {
			return ErrIncompleteAdjust
		}
	}
	return nil
}
