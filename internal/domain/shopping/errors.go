package shopping

import "errors"

// Domain errors for shopping lists

var (
	// ErrNothingToBuy signals that a recipe has no unavailable ingredients.
	// It is an explicit condition, not a failure: callers must not create an
	// empty list.
	ErrNothingToBuy = errors.New("recipe has no missing ingredients")

	ErrItemNotFound = errors.New("item not found in shopping list")
	ErrListNotFound = errors.New("shopping list not found")
)
