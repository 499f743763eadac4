// Package user contains the domain model for accounts and the preference
// bundle that shapes recipe generation.
package user

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxPreferenceItems caps each preference list; MaxPreferenceItemLen caps
// each entry. Both are enforced client-side before any network call.
const (
	MaxPreferenceItems   = 50
	MaxPreferenceItemLen = 100
)

var validate = validator.New()

// Preferences is the bundle of dietary settings attached to a user. Each
// list is ordered and capped.
type Preferences struct {
	DietaryRestrictions []string `json:"dietary_restrictions" validate:"max=50,dive,max=100"`
	Allergies           []string `json:"allergies" validate:"max=50,dive,max=100"`
	ExcludedIngredients []string `json:"excluded_ingredients" validate:"max=50,dive,max=100"`
	FavoriteCuisines    []string `json:"favorite_cuisines" validate:"max=50,dive,max=100"`
}

// fieldLabels maps struct fields to the names shown in warnings
var fieldLabels = map[string]string{
	"DietaryRestrictions": "dietary restrictions",
	"Allergies":           "allergies",
	"ExcludedIngredients": "excluded ingredients",
	"FavoriteCuisines":    "favorite cuisines",
}

// Normalize trims whitespace and drops empty entries from every list,
// preserving order.
func (p *Preferences) Normalize() {
	for _, list := range []*[]string{
		&p.DietaryRestrictions, &p.Allergies, &p.ExcludedIngredients, &p.FavoriteCuisines,
	} {
		cleaned := (*list)[:0]
		for _, item := range *list {
			if item = strings.TrimSpace(item); item != "" {
				cleaned = append(cleaned, item)
			}
		}
		*list = cleaned
	}
}

// Validate enforces the item count and length caps. The returned error
// names the offending list and the cap so it can be shown as a warning.
func (p Preferences) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}

	first := errs[0]
	field := first.StructField()
	label, known := fieldLabels[field]
	if !known {
		// dive failures report the parent field with an index suffix
		for name, l := range fieldLabels {
			if strings.HasPrefix(field, name) {
				label = l
				break
			}
		}
	}

	if first.Kind().String() == "slice" {
		return fmt.Errorf("%s: at most %d items allowed", label, MaxPreferenceItems)
	}
	return fmt.Errorf("%s: each item must be at most %d characters", label, MaxPreferenceItemLen)
}

// User is the account record exchanged with the backend
type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	IsAdmin     bool        `json:"is_admin"`
	Preferences Preferences `json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Stats are the aggregate counts shown on the profile page
type Stats struct {
	SavedRecipes   int `json:"saved_recipes"`
	AnalyzedImages int `json:"analyzed_images"`
}
