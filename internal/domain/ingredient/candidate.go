// Package ingredient contains the domain model for ingredient candidates:
// items detected from a photo or entered manually, not yet confirmed for use.
package ingredient

import (
	"strings"
)

// Category classifies a candidate into a fixed set of ingredient groups.
type Category string

const (
	CategoryProduce   Category = "produce"
	CategoryProtein   Category = "protein"
	CategoryDairy     Category = "dairy"
	CategoryGrain     Category = "grain"
	CategoryCondiment Category = "condiment"
	CategorySpice     Category = "spice"
	CategoryOther     Category = "other"
)

// ParseCategory maps a free-form provider category onto the fixed set.
// Unknown values collapse to CategoryOther.
func ParseCategory(s string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryProduce, CategoryProtein, CategoryDairy, CategoryGrain, CategoryCondiment, CategorySpice:
		return Category(strings.ToLower(strings.TrimSpace(s)))
	default:
		return CategoryOther
	}
}

// DefaultSelectionThreshold is the confidence a detected candidate must
// exceed to be pre-selected when a detection batch is ingested.
const DefaultSelectionThreshold = 0.7

// ManualConfidence is the confidence assigned to manually added candidates.
const ManualConfidence = 1.0

// Candidate represents one detected or manually added ingredient.
// The Selected flag is informational only; selection truth lives in the
// scan session's selected-id set.
type Candidate struct {
	ID         string
	Name       string
	Confidence float64
	Category   Category
	Selected   bool
}

// NewDetected creates a candidate from a detection response element.
// The name is normalized and the confidence must lie in [0,1].
func NewDetected(id, name string, confidence float64, category Category) (Candidate, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return Candidate{}, ErrEmptyName
	}
	if confidence < 0 || confidence > 1 {
		return Candidate{}, ErrInvalidConfidence
	}

	return Candidate{
		ID:         id,
		Name:       normalized,
		Confidence: confidence,
		Category:   category,
		Selected:   confidence > DefaultSelectionThreshold,
	}, nil
}

// NewManual creates a manually entered candidate. Manual candidates always
// carry confidence 1, category "other" and start selected.
func NewManual(id, name string) (Candidate, error) {
	normalized := NormalizeName(name)
	if normalized == "" {
		return Candidate{}, ErrEmptyName
	}

	return Candidate{
		ID:         id,
		Name:       normalized,
		Confidence: ManualConfidence,
		Category:   CategoryOther,
		Selected:   true,
	}, nil
}

// NormalizeName trims surrounding whitespace and lowercases a candidate name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// PreSelected reports whether the candidate clears the default selection
// threshold.
func (c Candidate) PreSelected() bool {
	return c.Confidence > DefaultSelectionThreshold
}
