package gorm

import (
	"context"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"github.com/fridgechef/api/internal/domain/shopping"
	"github.com/fridgechef/api/internal/ports/outbound"
)

// ShoppingListRepository implements the shopping list repository interface
// using GORM
type ShoppingListRepository struct {
	db *gormlib.DB
}

// NewShoppingListRepository creates a new shopping list repository
func NewShoppingListRepository(db *gormlib.DB) outbound.ShoppingListRepository {
	return &ShoppingListRepository{db: db}
}

// Create persists a new shopping list.
func (r *ShoppingListRepository) Create(ctx context.Context, userID uuid.UUID, l *shopping.List) error {
	model := ListToModel(userID, l)
	return r.db.WithContext(ctx).Create(model).Error
}

// ReplaceItems writes the whole updated item sequence plus the recomputed
// completion flag as one update.
func (r *ShoppingListRepository) ReplaceItems(ctx context.Context, userID, listID uuid.UUID, items []shopping.Item, isCompleted bool) error {
	result := r.db.WithContext(ctx).
		Model(&ShoppingListModel{}).
		Where("id = ? AND user_id = ?", listID, userID).
		Updates(map[string]interface{}{
			"items":        ItemsJSON(items),
			"is_completed": isCompleted,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shopping.ErrListNotFound
	}
	return nil
}

// Delete removes the list.
func (r *ShoppingListRepository) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", listID, userID).
		Delete(&ShoppingListModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shopping.ErrListNotFound
	}
	return nil
}

// FindByUser returns the user's lists, newest created first.
func (r *ShoppingListRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.List, error) {
	var models []ShoppingListModel
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	lists := make([]*shopping.List, len(models))
	for i := range models {
		lists[i] = ModelToList(&models[i])
	}
	return lists, nil
}
