package recipe

import "errors"

var (
	// ErrLoginRequired signals that the save was parked pending a login
	ErrLoginRequired = errors.New("login required to save recipes")

	// ErrSaveInFlight rejects a duplicate save while one is running
	ErrSaveInFlight = errors.New("save already in progress for this recipe")

	// ErrNoIngredients rejects generation with an empty working list
	ErrNoIngredients = errors.New("at least one ingredient is required")
)
