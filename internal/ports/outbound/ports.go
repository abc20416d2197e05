// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"time"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/domain/shopping"
	"github.com/fridgechef/api/internal/domain/user"
	"github.com/google/uuid"
)

// AIService is the provider-agnostic contract for the two AI capabilities:
// identifying ingredients in a photo and generating recipes from a name
// list. Every provider adapter must normalize its payload to these canonical
// schemas; any wrapping or markup around the structured payload is stripped
// before parsing. Both operations fail with a provider-unavailable condition
// when no credential is configured.
type AIService interface {
	DetectIngredients(ctx context.Context, imageBase64 string) (*DetectionResult, error)
	GenerateRecipes(ctx context.Context, names []string, params recipe.GenerationParameters) ([]GeneratedRecipe, error)
}

// DetectedIngredient is one element of a detection response.
type DetectedIngredient struct {
	Name       string  `json:"name" validate:"required"`
	Confidence float64 `json:"confidence" validate:"min=0,max=1"`
	Category   string  `json:"category"`
}

// DetectionResult is the canonical detection response schema.
type DetectionResult struct {
	Ingredients []DetectedIngredient `json:"ingredients" validate:"required,dive"`
}

// GeneratedIngredient is one ingredient line of a generated recipe. The
// availability flag is taken verbatim from the provider; the mode
// instruction in the request governs how the provider sets it.
type GeneratedIngredient struct {
	Name        string `json:"name" validate:"required"`
	Amount      string `json:"amount"`
	Unit        string `json:"unit"`
	IsAvailable bool   `json:"isAvailable"`
}

// GeneratedRecipe is the canonical recipe generation response schema.
type GeneratedRecipe struct {
	Title        string                `json:"title" validate:"required"`
	Description  string                `json:"description"`
	PrepTime     int                   `json:"prepTime" validate:"min=0"`
	CookTime     int                   `json:"cookTime" validate:"min=0"`
	Servings     int                   `json:"servings" validate:"min=1"`
	Ingredients  []GeneratedIngredient `json:"ingredients" validate:"required,min=1,dive"`
	Instructions []string              `json:"instructions" validate:"required,min=1"`
	Tips         []string              `json:"tips,omitempty"`
}

// RecipeRepository is the durable owner of record for saved recipes. Reads
// are filtered to the requesting user's rows and ordered by creation time
// descending.
type RecipeRepository interface {
	// Save writes a durable copy of the recipe, including the precomputed
	// list of unavailable ingredients.
	Save(ctx context.Context, userID uuid.UUID, r *recipe.Recipe) error
	// Unsave marks the durable record's saved flag false; the record is not
	// deleted.
	Unsave(ctx context.Context, userID, recipeID uuid.UUID) error
	// Update writes the whitelisted field subset plus a fresh updated-at
	// timestamp.
	Update(ctx context.Context, userID, recipeID uuid.UUID, u recipe.Update) error
	// Delete hard-deletes the durable record.
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
	// FindSavedByUser returns the user's recipes with is_saved=true, newest
	// created first.
	FindSavedByUser(ctx context.Context, userID uuid.UUID) ([]*recipe.Recipe, error)
	FindByID(ctx context.Context, userID, recipeID uuid.UUID) (*recipe.Recipe, error)
}

// ShoppingListRepository is the durable owner of record for shopping lists.
type ShoppingListRepository interface {
	Create(ctx context.Context, userID uuid.UUID, l *shopping.List) error
	// ReplaceItems writes the whole updated item sequence plus the
	// recomputed completion flag as one update.
	ReplaceItems(ctx context.Context, userID, listID uuid.UUID, items []shopping.Item, isCompleted bool) error
	Delete(ctx context.Context, userID, listID uuid.UUID) error
	// FindByUser returns the user's lists, newest created first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.List, error)
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
