// Package disease defines the fixed set of skin conditions the classifier can
// predict, together with the reference knowledge shown for each of them.
package disease

import (
	"errors"
	"fmt"
)

// ErrUnknownLabel is returned when a label or index is outside the disease set.
var ErrUnknownLabel = errors.New("unknown disease label")

// Disease is one of the classifier output categories. The numeric value is
// the index of the category in the model output vector.
type Disease int

const (
	Cellulitis Disease = iota
	Impetigo
	AthletesFoot
	NailFungus
	Ringworm
	CutaneousLarvaMigrans
	Chickenpox
	Shingles

	numDiseases
)

// Count is the number of categories the classifier must emit.
const Count = int(numDiseases)

var names = [Count]string{
	Cellulitis:            "Cellulitis",
	Impetigo:              "Impetigo",
	AthletesFoot:          "Athlete's Foot",
	NailFungus:            "Nail Fungus",
	Ringworm:              "Ringworm",
	CutaneousLarvaMigrans: "Cutaneous Larva Migrans",
	Chickenpox:            "Chickenpox",
	Shingles:              "Shingles",
}

// All returns every disease in model output order.
func All() []Disease {
	out := make([]Disease, Count)
	for i := range out {
		out[i] = Disease(i)
	}
	return out
}

// Valid reports whether d is a member of the disease set.
func (d Disease) Valid() bool {
	return d >= 0 && d < numDiseases
}

// String returns the display name used by the knowledge base.
func (d Disease) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Disease(%d)", int(d))
	}
	return names[d]
}

// FromIndex converts a model output index to a Disease.
func FromIndex(i int) (Disease, error) {
	d := Disease(i)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: index %d", ErrUnknownLabel, i)
	}
	return d, nil
}

// Parse resolves a display name to a Disease.
func Parse(name string) (Disease, error) {
	for i, n := range names {
		if n == name {
			return Disease(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, name)
}
