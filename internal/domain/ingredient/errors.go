package ingredient

import "errors"

// Domain errors for ingredient list operations

var (
	ErrEmptyName = errors.New("ingredient name must not be empty")
	ErrNotFound  = errors.New("ingredient not found")
)
