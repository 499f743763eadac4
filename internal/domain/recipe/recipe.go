// Package recipe contains the domain model for generated and saved recipes.
// Recipes are produced by the backend generation endpoint and owned by a
// user once saved; the shapes here narrow the backend JSON at the boundary.
package recipe

import (
	"encoding/json"
	"strings"
	"time"
)

// Difficulty is a coarse classification of recipe complexity
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty narrows an arbitrary string from the backend, falling
// back to medium.
func ParseDifficulty(s string) Difficulty {
	switch Difficulty(s) {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return Difficulty(s)
	default:
		return DifficultyMedium
	}
}

// Label returns display text for the difficulty
func (d Difficulty) Label() string {
	switch d {
	case DifficultyEasy:
		return "Easy"
	case DifficultyHard:
		return "Hard"
	default:
		return "Medium"
	}
}

// RecipeIngredient is one line of a recipe's ingredient list. Available
// marks whether the item was on the person's working list; it is a
// presentation-only classification.
type RecipeIngredient struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	Available bool   `json:"available"`
}

// Recipe is a generated or saved recipe
type Recipe struct {
	ID           string             `json:"id,omitempty"`
	Title        string             `json:"title"`
	Description  string             `json:"description"`
	Ingredients  []RecipeIngredient `json:"ingredients"`
	Instructions []string           `json:"instructions"`
	CookingTime  int                `json:"cooking_time"`
	Difficulty   Difficulty         `json:"difficulty"`
	Calories     int                `json:"calories"`
	CreatedAt    *time.Time         `json:"created_at,omitempty"`
}

// UnmarshalJSON narrows the difficulty value while decoding
func (r *Recipe) UnmarshalJSON(data []byte) error {
	type alias Recipe
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw.Difficulty = ParseDifficulty(string(raw.Difficulty))
	*r = Recipe(raw)
	return nil
}

// Validate checks the minimal shape a recipe must have before it can be
// shown or saved.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrMissingTitle
	}
	if len(r.Instructions) == 0 {
		return ErrNoInstructions
	}
	if r.CookingTime < 0 {
		return ErrNegativeCookingTime
	}
	return nil
}

// AvailableCount returns how many ingredient lines are marked available
func (r Recipe) AvailableCount() int {
	n := 0
	for _, ing := range r.Ingredients {
		if ing.Available {
			n++
		}
	}
	return n
}
