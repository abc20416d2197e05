package gorm

import (
	"github.com/google/uuid"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/domain/shopping"
	"github.com/fridgechef/api/internal/domain/user"
)

// RecipeToModel converts a domain recipe to its GORM model. The unavailable
// ingredient subset is precomputed here.
func RecipeToModel(userID uuid.UUID, r *recipe.Recipe) *RecipeModel {
	return &RecipeModel{
		ID:                 r.ID(),
		UserID:             userID,
		Title:              r.Title(),
		Description:        r.Description(),
		RecipeType:         string(r.RecipeType()),
		CuisineStyle:       string(r.CuisineStyle()),
		PrepTimeMinutes:    r.PrepTimeMinutes(),
		CookTimeMinutes:    r.CookTimeMinutes(),
		Servings:           r.Servings(),
		Ingredients:        IngredientsJSON(r.Ingredients()),
		MissingIngredients: IngredientsJSON(r.MissingIngredients()),
		Instructions:       StringSlice(r.Instructions()),
		Tips:               StringSlice(r.Tips()),
		IsSaved:            true,
		CreatedAt:          r.CreatedAt(),
		UpdatedAt:          r.UpdatedAt(),
	}
}

// ModelToRecipe converts a GORM model to a domain recipe.
func ModelToRecipe(m *RecipeModel) *recipe.Recipe {
	return recipe.Reconstruct(
		m.ID,
		m.Title,
		m.Description,
		recipe.RecipeType(m.RecipeType),
		recipe.CuisineStyle(m.CuisineStyle),
		m.PrepTimeMinutes,
		m.CookTimeMinutes,
		m.Servings,
		[]recipe.Ingredient(m.Ingredients),
		[]string(m.Instructions),
		[]string(m.Tips),
		m.IsSaved,
		m.CreatedAt,
		m.UpdatedAt,
	)
}

// ListToModel converts a domain shopping list to its GORM model.
func ListToModel(userID uuid.UUID, l *shopping.List) *ShoppingListModel {
	return &ShoppingListModel{
		ID:          l.ID(),
		UserID:      userID,
		Name:        l.Name(),
		RecipeID:    l.RecipeID(),
		Items:       ItemsJSON(l.Items()),
		IsCompleted: l.IsCompleted(),
		CreatedAt:   l.CreatedAt(),
	}
}

// ModelToList converts a GORM model to a domain shopping list.
func ModelToList(m *ShoppingListModel) *shopping.List {
	return shopping.Reconstruct(
		m.ID,
		m.Name,
		m.RecipeID,
		[]shopping.Item(m.Items),
		m.IsCompleted,
		m.CreatedAt,
	)
}

// UserToModel converts a domain user to its GORM model.
func UserToModel(u *user.User) *UserModel {
	return &UserModel{
		ID:           u.ID(),
		Email:        u.Email(),
		Name:         u.Name(),
		PasswordHash: u.PasswordHash(),
		CreatedAt:    u.CreatedAt(),
	}
}

// ModelToUser converts a GORM model to a domain user.
func ModelToUser(m *UserModel) *user.User {
	return user.Reconstruct(m.ID, m.Email, m.Name, m.PasswordHash, m.CreatedAt)
}
