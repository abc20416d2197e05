// Package recipe contains the core domain logic for generated recipes.
// A Recipe is immutable once generated except for its saved flag and the
// whitelisted fields applied through Update.
package recipe

import (
	"time"

	"github.com/google/uuid"
)

// Recipe represents one generated or persisted recipe.
type Recipe struct {
	id           uuid.UUID
	title        string
	description  string
	recipeType   RecipeType
	cuisineStyle CuisineStyle

	prepTimeMinutes int
	cookTimeMinutes int
	servings        int

	ingredients  []Ingredient
	instructions []string
	tips         []string

	isSaved   bool
	createdAt time.Time
	updatedAt time.Time
}

// GeneratedContent is the provider-supplied portion of a recipe, already
// normalized to the canonical schema by the AI adapter.
type GeneratedContent struct {
	Title        string
	Description  string
	PrepTime     int
	CookTime     int
	Servings     int
	Ingredients  []Ingredient
	Instructions []string
	Tips         []string
}

// NewGenerated creates a Recipe from one provider response element. The
// recipe type and cuisine style are stamped from the request parameters,
// never from the provider response; createdAt is stamped with the current
// time and the recipe starts unsaved.
func NewGenerated(id uuid.UUID, content GeneratedContent, params GenerationParameters) (*Recipe, error) {
	if content.Title == "" {
		return nil, ErrTitleRequired
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if content.PrepTime < 0 || content.CookTime < 0 {
		return nil, ErrNegativeTime
	}
	if content.Servings <= 0 {
		return nil, ErrInvalidServings
	}
	if len(content.Ingredients) == 0 {
		return nil, ErrNoIngredients
	}
	if len(content.Instructions) == 0 {
		return nil, ErrNoInstructions
	}
	for _, ing := range content.Ingredients {
		if err := ing.Validate(); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	return &Recipe{
		id:              id,
		title:           content.Title,
		description:     content.Description,
		recipeType:      params.RecipeType,
		cuisineStyle:    params.CuisineStyle,
		prepTimeMinutes: content.PrepTime,
		cookTimeMinutes: content.CookTime,
		servings:        content.Servings,
		ingredients:     append([]Ingredient(nil), content.Ingredients...),
		instructions:    append([]string(nil), content.Instructions...),
		tips:            append([]string(nil), content.Tips...),
		isSaved:         false,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Reconstruct rebuilds a Recipe from its persisted representation. It is
// intended for repository mappers and performs no validation.
func Reconstruct(
	id uuid.UUID,
	title, description string,
	recipeType RecipeType,
	cuisineStyle CuisineStyle,
	prepTime, cookTime, servings int,
	ingredients []Ingredient,
	instructions, tips []string,
	isSaved bool,
	createdAt, updatedAt time.Time,
) *Recipe {
	return &Recipe{
		id:              id,
		title:           title,
		description:     description,
		recipeType:      recipeType,
		cuisineStyle:    cuisineStyle,
		prepTimeMinutes: prepTime,
		cookTimeMinutes: cookTime,
		servings:        servings,
		ingredients:     ingredients,
		instructions:    instructions,
		tips:            tips,
		isSaved:         isSaved,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// ID returns the recipe's unique identifier
func (r *Recipe) ID() uuid.UUID {
	return r.id
}

// Title returns the recipe's title
func (r *Recipe) Title() string {
	return r.title
}

// Description returns the recipe's description
func (r *Recipe) Description() string {
	return r.description
}

// RecipeType returns the meal type stamped at generation time
func (r *Recipe) RecipeType() RecipeType {
	return r.recipeType
}

// CuisineStyle returns the cuisine style stamped at generation time
func (r *Recipe) CuisineStyle() CuisineStyle {
	return r.cuisineStyle
}

// PrepTimeMinutes returns the preparation time in minutes
func (r *Recipe) PrepTimeMinutes() int {
	return r.prepTimeMinutes
}

// CookTimeMinutes returns the cooking time in minutes
func (r *Recipe) CookTimeMinutes() int {
	return r.cookTimeMinutes
}

// Servings returns the number of servings
func (r *Recipe) Servings() int {
	return r.servings
}

// Ingredients returns a copy of the recipe's ingredient sequence
func (r *Recipe) Ingredients() []Ingredient {
	return append([]Ingredient(nil), r.ingredients...)
}

// Instructions returns a copy of the recipe's instruction steps
func (r *Recipe) Instructions() []string {
	return append([]string(nil), r.instructions...)
}

// Tips returns a copy of the recipe's optional tips
func (r *Recipe) Tips() []string {
	return append([]string(nil), r.tips...)
}

// IsSaved reports whether the recipe has been saved by the user
func (r *Recipe) IsSaved() bool {
	return r.isSaved
}

// CreatedAt returns when the recipe was generated
func (r *Recipe) CreatedAt() time.Time {
	return r.createdAt
}

// UpdatedAt returns when the recipe was last updated
func (r *Recipe) UpdatedAt() time.Time {
	return r.updatedAt
}

// MissingIngredients returns the ingredients the user does not have on hand,
// in recipe order. This subset seeds shopping list creation.
func (r *Recipe) MissingIngredients() []Ingredient {
	var missing []Ingredient
	for _, ing := range r.ingredients {
		if !ing.IsAvailable {
			missing = append(missing, ing)
		}
	}
	return missing
}

// MarkSaved flips the saved flag on. It must only be called after the
// durable write succeeded.
func (r *Recipe) MarkSaved() {
	r.isSaved = true
	r.updatedAt = time.Now()
}

// MarkUnsaved flips the saved flag off (soft removal; the durable record
// persists with is_saved=false).
func (r *Recipe) MarkUnsaved() {
	r.isSaved = false
	r.updatedAt = time.Now()
}

// Update holds the whitelisted subset of fields an explicit update
// operation may change. Nil pointers leave the field untouched.
type Update struct {
	Title        *string
	Description  *string
	Ingredients  []Ingredient
	Instructions []string
	PrepTime     *int
	CookTime     *int
	Servings     *int
}

// ApplyUpdate applies the whitelisted fields and stamps a fresh updated-at
// timestamp. Fields outside the whitelist cannot be changed after generation.
func (r *Recipe) ApplyUpdate(u Update) error {
	if u.Title != nil {
		if *u.Title == "" {
			return ErrTitleRequired
		}
		r.title = *u.Title
	}
	if u.Description != nil {
		r.description = *u.Description
	}
	if u.Ingredients != nil {
		for _, ing := range u.Ingredients {
			if err := ing.Validate(); err != nil {
				return err
			}
		}
		r.ingredients = append([]Ingredient(nil), u.Ingredients...)
	}
	if u.Instructions != nil {
		r.instructions = append([]string(nil), u.Instructions...)
	}
	if u.PrepTime != nil {
		if *u.PrepTime < 0 {
			return ErrNegativeTime
		}
		r.prepTimeMinutes = *u.PrepTime
	}
	if u.CookTime != nil {
		if *u.CookTime < 0 {
			return ErrNegativeTime
		}
		r.cookTimeMinutes = *u.CookTime
	}
	if u.Servings != nil {
		if *u.Servings <= 0 {
			return ErrInvalidServings
		}
		r.servings = *u.Servings
	}

	r.updatedAt = time.Now()
	return nil
}
