// Package fairness classifies how evenly a meeting point splits the travel
// distance between two parties.
package fairness

import (
	"math"

	"github.com/rotisserie/eris"
)

// Label is a qualitative fairness class.
type Label int

// Fairness classes, from most to least balanced.
const (
	PerfectlyFair Label = iota
	ModeratelyFair
	Unbalanced
)

// Distance-delta thresholds (kilometers). These are the 1-mile and 3-mile
// cut-offs of the original design.
const (
	perfectlyFairThreshold  = 1.6
	moderatelyFairThreshold = 4.8
)

// String returns the display text for l.
func (l Label) String() string {
	switch l {
	case PerfectlyFair:
		return "Perfectly Fair"
	case ModeratelyFair:
		return "Moderately Fair"
	case Unbalanced:
		return "Unbalanced"
	default:
		return "Unknown"
	}
}

// MarshalText encodes the label as its display text.
func (l Label) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a label from its display text.
func (l *Label) UnmarshalText(text []byte) error {
	for _, candidate := range []Label{PerfectlyFair, ModeratelyFair, Unbalanced} {
		if candidate.String() == string(text) {
			*l = candidate
			return nil
		}
	}
	return eris.Errorf("fairness: unknown label %q", string(text))
}

// Result is the outcome of Classify.
type Result struct {
	Delta float64 `json:"delta_km" yaml:"delta_km"`
	Label Label   `json:"label" yaml:"label"`
}

// Classify compares two non-negative distances in kilometers.
// Rules:
//   - PerfectlyFair: |distA - distB| < 1.6
//   - ModeratelyFair: |distA - distB| < 4.8
//   - Unbalanced: otherwise
func Classify(distA, distB float64) Result {
	delta := math.Abs(distA - distB)

	label := Unbalanced
	switch {
	case delta < perfectlyFairThreshold:
		label = PerfectlyFair
	case delta < moderatelyFairThreshold:
		label = ModeratelyFair
	}

	return Result{Delta: delta, Label: label}
}
