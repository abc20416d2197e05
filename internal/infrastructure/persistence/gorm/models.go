// Package gorm provides the GORM models and repository implementations.
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/domain/shopping"
)

// UserModel represents the GORM model for users
type UserModel struct {
	ID           uuid.UUID `gorm:"type:char(36);primaryKey"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name         string    `gorm:"type:varchar(255)"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	CreatedAt    time.Time

	// Relationships
	Recipes       []RecipeModel       `gorm:"foreignKey:UserID"`
	ShoppingLists []ShoppingListModel `gorm:"foreignKey:UserID"`
}

// RecipeModel represents the GORM model for recipes. The full ingredient
// sequence is stored as JSON; the unavailable subset is precomputed into its
// own column so shopping list creation never re-derives it.
type RecipeModel struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID `gorm:"type:char(36);not null;index"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Description string    `gorm:"type:text"`

	RecipeType   string `gorm:"type:varchar(20);not null;index"`
	CuisineStyle string `gorm:"type:varchar(30);not null"`

	PrepTimeMinutes int `gorm:"column:prep_time_minutes;default:0"`
	CookTimeMinutes int `gorm:"column:cook_time_minutes;default:0"`
	Servings        int `gorm:"default:1"`

	Ingredients        IngredientsJSON `gorm:"type:json"`
	MissingIngredients IngredientsJSON `gorm:"type:json"`
	Instructions       StringSlice     `gorm:"type:json"`
	Tips               StringSlice     `gorm:"type:json"`

	IsSaved   bool      `gorm:"column:is_saved;default:true;index"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// ShoppingListModel represents the GORM model for shopping lists. Items are
// one JSON document; every item update rewrites the whole sequence together
// with the recomputed completion flag.
type ShoppingListModel struct {
	ID          uuid.UUID  `gorm:"type:char(36);primaryKey"`
	UserID      uuid.UUID  `gorm:"type:char(36);not null;index"`
	Name        string     `gorm:"type:varchar(255);not null"`
	RecipeID    *uuid.UUID `gorm:"type:char(36)"`
	Items       ItemsJSON  `gorm:"type:json"`
	IsCompleted bool       `gorm:"column:is_completed;default:false"`
	CreatedAt   time.Time  `gorm:"index"`

	// Relationships
	User UserModel `gorm:"foreignKey:UserID"`
}

// StringSlice custom type for handling string slices in JSON
type StringSlice []string

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = StringSlice{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// Value implements the driver.Valuer interface
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "[]", nil
	}
	return json.Marshal(s)
}

// IngredientsJSON custom type for handling ingredient sequences in JSON
type IngredientsJSON []recipe.Ingredient

// Scan implements the sql.Scanner interface
func (i *IngredientsJSON) Scan(value interface{}) error {
	if value == nil {
		*i = IngredientsJSON{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return fmt.Errorf("cannot scan %T into IngredientsJSON", value)
	}
}

// Value implements the driver.Valuer interface
func (i IngredientsJSON) Value() (driver.Value, error) {
	if len(i) == 0 {
		return "[]", nil
	}
	return json.Marshal(i)
}

// ItemsJSON custom type for handling shopping list items in JSON
type ItemsJSON []shopping.Item

// Scan implements the sql.Scanner interface
func (i *ItemsJSON) Scan(value interface{}) error {
	if value == nil {
		*i = ItemsJSON{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, i)
	case string:
		return json.Unmarshal([]byte(v), i)
	default:
		return fmt.Errorf("cannot scan %T into ItemsJSON", value)
	}
}

// Value implements the driver.Valuer interface
func (i ItemsJSON) Value() (driver.Value, error) {
	if len(i) == 0 {
		return "[]", nil
	}
	return json.Marshal(i)
}

// BeforeCreate hook for UserModel
func (u *UserModel) BeforeCreate(tx *gormlib.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for RecipeModel
func (r *RecipeModel) BeforeCreate(tx *gormlib.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate hook for ShoppingListModel
func (s *ShoppingListModel) BeforeCreate(tx *gormlib.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName methods for custom table names
func (UserModel) TableName() string {
	return "users"
}

func (RecipeModel) TableName() string {
	return "recipes"
}

func (ShoppingListModel) TableName() string {
	return "shopping_lists"
}
