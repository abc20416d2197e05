package gorm

import (
	"context"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/ports/outbound"
)

// RecipeRepository implements the recipe repository interface using GORM
type RecipeRepository struct {
	db *gormlib.DB
}

// NewRecipeRepository creates a new recipe repository
func NewRecipeRepository(db *gormlib.DB) outbound.RecipeRepository {
	return &RecipeRepository{db: db}
}

// Save writes a durable copy of the recipe. Saving a recipe that already has
// a row flips the row back to saved and refreshes its content.
func (r *RecipeRepository) Save(ctx context.Context, userID uuid.UUID, rec *recipe.Recipe) error {
	model := RecipeToModel(userID, rec)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(model).Error
}

// Unsave flips the saved flag off; the row is kept.
func (r *RecipeRepository) Unsave(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&RecipeModel{}).
		Where("id = ? AND user_id = ?", recipeID, userID).
		Updates(map[string]interface{}{
			"is_saved":   false,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}
	return nil
}

// Update writes the whitelisted field subset plus a fresh updated-at
// timestamp.
func (r *RecipeRepository) Update(ctx context.Context, userID, recipeID uuid.UUID, u recipe.Update) error {
	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if u.Title != nil {
		updates["title"] = *u.Title
	}
	if u.Description != nil {
		updates["description"] = *u.Description
	}
	if u.Ingredients != nil {
		updates["ingredients"] = IngredientsJSON(u.Ingredients)
		updates["missing_ingredients"] = IngredientsJSON(missingOf(u.Ingredients))
	}
	if u.Instructions != nil {
		updates["instructions"] = StringSlice(u.Instructions)
	}
	if u.PrepTime != nil {
		updates["prep_time_minutes"] = *u.PrepTime
	}
	if u.CookTime != nil {
		updates["cook_time_minutes"] = *u.CookTime
	}
	if u.Servings != nil {
		updates["servings"] = *u.Servings
	}

	result := r.db.WithContext(ctx).
		Model(&RecipeModel{}).
		Where("id = ? AND user_id = ?", recipeID, userID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}
	return nil
}

// Delete hard-deletes the row.
func (r *RecipeRepository) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", recipeID, userID).
		Delete(&RecipeModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return recipe.ErrRecipeNotFound
	}
	return nil
}

// FindSavedByUser returns the user's saved recipes, newest created first.
func (r *RecipeRepository) FindSavedByUser(ctx context.Context, userID uuid.UUID) ([]*recipe.Recipe, error) {
	var models []RecipeModel
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND is_saved = ?", userID, true).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	recipes := make([]*recipe.Recipe, len(models))
	for i := range models {
		recipes[i] = ModelToRecipe(&models[i])
	}
	return recipes, nil
}

// FindByID finds one of the user's recipes by id, saved or not.
func (r *RecipeRepository) FindByID(ctx context.Context, userID, recipeID uuid.UUID) (*recipe.Recipe, error) {
	var model RecipeModel
	result := r.db.WithContext(ctx).
		First(&model, "id = ? AND user_id = ?", recipeID, userID)
	if result.Error != nil {
		if result.Error == gormlib.ErrRecordNotFound {
			return nil, recipe.ErrRecipeNotFound
		}
		return nil, result.Error
	}
	return ModelToRecipe(&model), nil
}

func missingOf(ingredients []recipe.Ingredient) []recipe.Ingredient {
	var missing []recipe.Ingredient
	for _, ing := range ingredients {
		if !ing.IsAvailable {
			missing = append(missing, ing)
		}
	}
	return missing
}
