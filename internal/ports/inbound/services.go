// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases the HTTP layer drives.
package inbound

import (
	"context"
	"time"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/google/uuid"
)

// ScanService owns the per-user scan session: the working candidate list and
// the user's selection. A zero userID means no session; detection is gated
// so a second analysis cannot start while one is outstanding.
type ScanService interface {
	DetectFromPhoto(ctx context.Context, userID uuid.UUID, imageBase64 string) ([]CandidateDTO, error)
	Candidates(userID uuid.UUID) []CandidateDTO
	ToggleSelection(userID uuid.UUID, candidateID string) ([]CandidateDTO, error)
	SelectAll(userID uuid.UUID) []CandidateDTO
	Clear(userID uuid.UUID)
	AddManual(userID uuid.UUID, name string) ([]CandidateDTO, error)
	RemoveCandidate(userID uuid.UUID, candidateID string) []CandidateDTO
	// SelectedNames is the sole feed into generation; an empty result means
	// there is nothing to generate.
	SelectedNames(userID uuid.UUID) []string
}

// RecipeService covers recipe generation and the saved-recipe lifecycle.
type RecipeService interface {
	// Generate refuses an empty name list before any provider call.
	Generate(ctx context.Context, userID uuid.UUID, names []string, params recipe.GenerationParameters) ([]RecipeDTO, error)
	GeneratedRecipes(userID uuid.UUID) []RecipeDTO
	ClearGenerated(userID uuid.UUID)

	Save(ctx context.Context, userID, recipeID uuid.UUID) error
	Unsave(ctx context.Context, userID, recipeID uuid.UUID) error
	Update(ctx context.Context, userID, recipeID uuid.UUID, cmd UpdateRecipeCommand) error
	Delete(ctx context.Context, userID, recipeID uuid.UUID) error
	LoadSavedRecipes(ctx context.Context, userID uuid.UUID) ([]RecipeDTO, error)
	// GetRecipeByID resolves by scanning both the generated-this-session and
	// the saved collections.
	GetRecipeByID(ctx context.Context, userID, recipeID uuid.UUID) (*RecipeDTO, error)
}

// ShoppingService covers the shopping-list lifecycle.
type ShoppingService interface {
	CreateFromRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*ShoppingListDTO, error)
	ToggleItem(ctx context.Context, userID, listID uuid.UUID, itemID string) (*ShoppingListDTO, error)
	Delete(ctx context.Context, userID, listID uuid.UUID) error
	LoadShoppingLists(ctx context.Context, userID uuid.UUID) ([]ShoppingListDTO, error)
}

// UserService covers account registration and login.
type UserService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*AuthResultDTO, error)
	Login(ctx context.Context, email, password string) (*AuthResultDTO, error)
}

// Commands

// UpdateRecipeCommand carries the whitelisted editable fields of a saved
// recipe. Nil pointers leave the field untouched.
type UpdateRecipeCommand struct {
	Title        *string             `json:"title,omitempty"`
	Description  *string             `json:"description,omitempty"`
	Ingredients  []recipe.Ingredient `json:"ingredients,omitempty"`
	Instructions []string            `json:"instructions,omitempty"`
	PrepTime     *int                `json:"prepTime,omitempty"`
	CookTime     *int                `json:"cookTime,omitempty"`
	Servings     *int                `json:"servings,omitempty"`
}

// RegisterCommand carries a registration request.
type RegisterCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required,min=8"`
}

// DTOs

// CandidateDTO mirrors one ingredient candidate with its resolved selection
// state.
type CandidateDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	Category   string  `json:"category"`
	Selected   bool    `json:"selected"`
}

// IngredientDTO mirrors one recipe ingredient line.
type IngredientDTO struct {
	Name        string `json:"name"`
	Amount      string `json:"amount"`
	Unit        string `json:"unit"`
	IsAvailable bool   `json:"isAvailable"`
}

// RecipeDTO mirrors a generated or saved recipe.
type RecipeDTO struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	RecipeType   string          `json:"recipeType"`
	CuisineStyle string          `json:"cuisineStyle"`
	PrepTime     int             `json:"prepTime"`
	CookTime     int             `json:"cookTime"`
	Servings     int             `json:"servings"`
	Ingredients  []IngredientDTO `json:"ingredients"`
	Instructions []string        `json:"instructions"`
	Tips         []string        `json:"tips,omitempty"`
	IsSaved      bool            `json:"isSaved"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// ShoppingItemDTO mirrors one checkable entry of a shopping list.
type ShoppingItemDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Unit      string `json:"unit"`
	IsChecked bool   `json:"isChecked"`
}

// ShoppingListDTO mirrors a shopping list.
type ShoppingListDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	RecipeID    *uuid.UUID        `json:"recipeId,omitempty"`
	Items       []ShoppingItemDTO `json:"items"`
	IsCompleted bool              `json:"isCompleted"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// AuthResultDTO is returned from register/login.
type AuthResultDTO struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
}
