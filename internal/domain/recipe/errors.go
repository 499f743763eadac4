package recipe

import "errors"

// Domain errors for recipe validation

var (
	ErrMissingTitle        = errors.New("recipe title is required")
	ErrNoInstructions      = errors.New("recipe must have at least one instruction")
	ErrNegativeCookingTime = errors.New("cooking time cannot be negative")
)
