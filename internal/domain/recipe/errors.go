package recipe

import "errors"

// Domain errors for recipe operations

var (
	// Entity validation errors
	ErrTitleRequired          = errors.New("recipe title is required")
	ErrInvalidRecipeType      = errors.New("recipe type is not a valid meal type")
	ErrInvalidCuisineStyle    = errors.New("cuisine style is not a valid cuisine")
	ErrInvalidServings        = errors.New("servings must be greater than 0")
	ErrNegativeTime           = errors.New("prep and cook time must not be negative")
	ErrNoIngredients          = errors.New("recipe must have at least one ingredient")
	ErrNoInstructions         = errors.New("recipe must have at least one instruction")
	ErrIngredientNameRequired = errors.New("ingredient name is required")

	// Lifecycle errors
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrAlreadySaved   = errors.New("recipe is already saved")
	ErrNotSaved       = errors.New("recipe is not saved")
)
