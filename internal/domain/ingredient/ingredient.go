// Package ingredient contains the domain model for recognized and
// manually entered ingredients.
package ingredient

import (
	"github.com/google/uuid"
)

// Freshness is a coarse classification of estimated shelf life,
// assigned by the recognition service or manually.
type Freshness string

const (
	FreshnessFresh    Freshness = "fresh"
	FreshnessModerate Freshness = "moderate"
	FreshnessExpiring Freshness = "expiring"
	FreshnessUnknown  Freshness = "unknown"
)

// ParseFreshness narrows an arbitrary string from the backend to a known
// freshness value, falling back to unknown.
func ParseFreshness(s string) Freshness {
	switch Freshness(s) {
	case FreshnessFresh, FreshnessModerate, FreshnessExpiring:
		return Freshness(s)
	default:
		return FreshnessUnknown
	}
}

// Valid reports whether the freshness is one of the known values
func (f Freshness) Valid() bool {
	switch f {
	case FreshnessFresh, FreshnessModerate, FreshnessExpiring, FreshnessUnknown:
		return true
	}
	return false
}

// Label returns display text for the freshness
func (f Freshness) Label() string {
	switch f {
	case FreshnessFresh:
		return "Fresh"
	case FreshnessModerate:
		return "Use soon"
	case FreshnessExpiring:
		return "Use now"
	default:
		return "Unknown"
	}
}

// Ingredient is a single item on the working list. Recognition results and
// manual entries share the shape; Manual distinguishes them.
type Ingredient struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Quantity   string    `json:"quantity"`
	Freshness  Freshness `json:"freshness"`
	Confidence *float64  `json:"confidence,omitempty"`
	Manual     bool      `json:"manual"`
}

// Recognized builds an ingredient from a recognition result, narrowing the
// freshness value and assigning a fresh identifier.
func Recognized(name, quantity, freshness string, confidence *float64) Ingredient {
	return Ingredient{
		ID:         uuid.New(),
		Name:       name,
		Quantity:   quantity,
		Freshness:  ParseFreshness(freshness),
		Confidence: confidence,
		Manual:     false,
	}
}
