package loadcurve

import (
	"fmt"
	"math"
	"sort"
	"strings"

	apperrors "github.com/marcus-medeiros/analise-bess/pkg/errors"
)

// Built-in profile keys.
const (
	ProfileResidential = "residential"
	ProfileCommercial  = "commercial"
	ProfileIndustrial  = "industrial"
	// ProfileCustom labels curves built from caller supplied weights.
	ProfileCustom = "custom"
)

// Archetype is a named relative hourly shape. Weights are relative, not kW.
type Archetype struct {
	key     string
	label   string
	weights [HoursPerDay]float64
}

// NewArchetype validates a caller supplied weight vector.
func NewArchetype(key, label string, weights []float64) (Archetype, error) {
	if err := validateWeights(weights); err != nil {
		return Archetype{}, err
	}
	a := Archetype{key: strings.TrimSpace(key), label: strings.TrimSpace(label)}
	copy(a.weights[:], weights)
	return a, nil
}

// Key is the stable identifier used by requests.
func (a Archetype) Key() string { return a.key }

// Label is the human readable name.
func (a Archetype) Label() string { return a.label }

// Weights returns a copy of the 24 relative weights.
func (a Archetype) Weights() []float64 {
	out := make([]float64, HoursPerDay)
	copy(out, a.weights[:])
	return out
}

func (a Archetype) info() ProfileInfo {
	return ProfileInfo{Key: a.key, Label: a.label, Weights: a.Weights()}
}

var builtinArchetypes = map[string]Archetype{
	ProfileResidential: {
		key:   ProfileResidential,
		label: "Residencial / Comunidade",
		weights: [HoursPerDay]float64{
			0.4, 0.3, 0.3, 0.3, 0.4, 0.6, 1.0, 1.2, 1.0, 0.9, 0.9, 1.0,
			1.1, 1.1, 1.0, 1.2, 1.5, 1.8, 2.5, 2.4, 2.2, 1.8, 1.2, 0.8,
		},
	},
	ProfileCommercial: {
		key:   ProfileCommercial,
		label: "Comercial / Escola (diurno)",
		weights: [HoursPerDay]float64{
			0.2, 0.2, 0.2, 0.2, 0.2, 0.3, 0.5, 0.9, 1.5, 1.8, 1.9, 1.9,
			1.6, 1.8, 1.9, 1.9, 1.7, 1.3, 0.8, 0.6, 0.5, 0.4, 0.3, 0.2,
		},
	},
	ProfileIndustrial: {
		key:   ProfileIndustrial,
		label: "Industrial / Hospital (24h)",
		weights: [HoursPerDay]float64{
			0.9, 0.9, 0.9, 0.9, 0.9, 0.95, 1.0, 1.05, 1.1, 1.1, 1.1, 1.1,
			1.05, 1.1, 1.1, 1.1, 1.05, 1.0, 0.95, 0.95, 0.95, 0.9, 0.9, 0.9,
		},
	},
}

// LookupArchetype resolves a built-in profile by key, case-insensitive.
func LookupArchetype(key string) (Archetype, bool) {
	a, ok := builtinArchetypes[strings.ToLower(strings.TrimSpace(key))]
	return a, ok
}

// Archetypes lists the built-in profiles ordered by key.
func Archetypes() []Archetype {
	out := make([]Archetype, 0, len(builtinArchetypes))
	for _, a := range builtinArchetypes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].key < out[j].key })
	return out
}

func validateWeights(weights []float64) error {
	if len(weights) != HoursPerDay {
		return apperrors.Wrap(apperrors.CodeInvalidArchetype, fmt.Sprintf("archetype must have %d weights, got %d", HoursPerDay, len(weights)), ErrInvalidArchetype)
	}
	for h, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return apperrors.Wrap(apperrors.CodeInvalidArchetype, fmt.Sprintf("weight for hour %d must be a non-negative number", h), ErrInvalidArchetype)
		}
	}
	return nil
}
