// Package shopping contains the domain model for shopping lists: persisted
// checklists derived once from a recipe's unavailable ingredients.
package shopping

import (
	"fmt"
	"time"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/google/uuid"
)

// Item is one checkable entry of a shopping list.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Amount    string `json:"amount"`
	Unit      string `json:"unit"`
	IsChecked bool   `json:"isChecked"`
}

// List represents one shopping list. Items are generated once at creation
// time from the recipe's unavailable ingredients and never re-derived;
// IsCompleted is recomputed whenever any item's checked state changes.
type List struct {
	id          uuid.UUID
	name        string
	recipeID    *uuid.UUID
	items       []Item
	isCompleted bool
	createdAt   time.Time
}

// NewFromRecipe builds a shopping list from a recipe's missing ingredients.
// Item ids are locally assigned and sequential, every item starts unchecked,
// and the list carries a back-reference to the originating recipe. Returns
// ErrNothingToBuy when the recipe has no unavailable ingredient; callers
// must treat that as "nothing to buy", not as a failure.
func NewFromRecipe(id uuid.UUID, r *recipe.Recipe) (*List, error) {
	missing := r.MissingIngredients()
	if len(missing) == 0 {
		return nil, ErrNothingToBuy
	}

	items := make([]Item, len(missing))
	for i, ing := range missing {
		items[i] = Item{
			ID:        fmt.Sprintf("item-%d", i),
			Name:      ing.Name,
			Amount:    ing.Amount,
			Unit:      ing.Unit,
			IsChecked: false,
		}
	}

	recipeID := r.ID()
	return &List{
		id:          id,
		name:        "Shopping for " + r.Title(),
		recipeID:    &recipeID,
		items:       items,
		isCompleted: false,
		createdAt:   time.Now(),
	}, nil
}

// Reconstruct rebuilds a List from its persisted representation.
func Reconstruct(id uuid.UUID, name string, recipeID *uuid.UUID, items []Item, isCompleted bool, createdAt time.Time) *List {
	return &List{
		id:          id,
		name:        name,
		recipeID:    recipeID,
		items:       items,
		isCompleted: isCompleted,
		createdAt:   createdAt,
	}
}

// ID returns the list's unique identifier
func (l *List) ID() uuid.UUID {
	return l.id
}

// Name returns the list's display name
func (l *List) Name() string {
	return l.name
}

// RecipeID returns the originating recipe id, if any. The back-reference is
// informational, never an ownership edge.
func (l *List) RecipeID() *uuid.UUID {
	return l.recipeID
}

// Items returns a copy of the list's item sequence
func (l *List) Items() []Item {
	return append([]Item(nil), l.items...)
}

// IsCompleted reports whether every item is checked
func (l *List) IsCompleted() bool {
	return l.isCompleted
}

// CreatedAt returns when the list was created
func (l *List) CreatedAt() time.Time {
	return l.createdAt
}

// ToggleItem flips the checked state of one item and recomputes the
// completion flag as the AND over all items. The whole updated item
// sequence plus the recomputed flag is what gets written back in one
// persistence update.
func (l *List) ToggleItem(itemID string) error {
	found := false
	for i := range l.items {
		if l.items[i].ID == itemID {
			l.items[i].IsChecked = !l.items[i].IsChecked
			found = true
			break
		}
	}
	if !found {
		return ErrItemNotFound
	}

	l.isCompleted = l.computeCompleted()
	return nil
}

// computeCompleted recomputes the completion flag from item state.
func (l *List) computeCompleted() bool {
	for _, item := range l.items {
		if !item.IsChecked {
			return false
		}
	}
	return len(l.items) > 0
}
