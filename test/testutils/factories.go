// Package testutils provides test data factories for consistent test data
// generation.
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/domain/user"
	"github.com/fridgechef/api/internal/ports/outbound"
)

// Factory generates domain objects with plausible random content. A fixed
// seed makes a test's data reproducible.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory creates a factory with a seeded faker.
func NewFactory(seed int64) *Factory {
	return &Factory{faker: gofakeit.New(seed)}
}

// User builds a persisted-shape user with a bcrypt-looking hash placeholder.
func (f *Factory) User() *user.User {
	return user.Reconstruct(
		uuid.New(),
		f.faker.Email(),
		f.faker.Name(),
		"$2a$10$"+f.faker.LetterN(53),
		time.Now(),
	)
}

// Recipe builds an unsaved generated recipe. The availability pattern of the
// ingredient lines is controlled by available: one line per flag.
func (f *Factory) Recipe(params recipe.GenerationParameters, available ...bool) *recipe.Recipe {
	if len(available) == 0 {
		available = []bool{true, false}
	}

	ingredients := make([]recipe.Ingredient, 0, len(available))
	for i, isAvailable := range available {
		ingredients = append(ingredients, recipe.Ingredient{
			Name:        fmt.Sprintf("%s %d", f.faker.Vegetable(), i),
			Amount:      "1",
			Unit:        "cup",
			IsAvailable: isAvailable,
		})
	}

	r, err := recipe.NewGenerated(uuid.New(), recipe.GeneratedContent{
		Title:        f.faker.Dinner(),
		Description:  f.faker.Sentence(8),
		PrepTime:     f.faker.Number(5, 30),
		CookTime:     f.faker.Number(10, 90),
		Servings:     f.faker.Number(1, 6),
		Ingredients:  ingredients,
		Instructions: []string{f.faker.Sentence(6), f.faker.Sentence(6)},
	}, params)
	if err != nil {
		panic(fmt.Sprintf("testutils: invalid recipe fixture: %v", err))
	}
	return r
}

// DetectionResult builds a canonical detection response with n ingredients
// spread across the confidence range.
func (f *Factory) DetectionResult(n int) *outbound.DetectionResult {
	result := &outbound.DetectionResult{}
	for i := 0; i < n; i++ {
		result.Ingredients = append(result.Ingredients, outbound.DetectedIngredient{
			Name:       fmt.Sprintf("%s %d", f.faker.Vegetable(), i),
			Confidence: 0.5 + float64(i%6)/10,
			Category:   "produce",
		})
	}
	return result
}

// GeneratedRecipe builds one canonical provider recipe element.
func (f *Factory) GeneratedRecipe(title string) outbound.GeneratedRecipe {
	if title == "" {
		title = f.faker.Dinner()
	}
	return outbound.GeneratedRecipe{
		Title:       title,
		Description: f.faker.Sentence(8),
		PrepTime:    10,
		CookTime:    25,
		Servings:    2,
		Ingredients: []outbound.GeneratedIngredient{
			{Name: f.faker.Vegetable(), Amount: "2", Unit: "pieces", IsAvailable: true},
			{Name: f.faker.Fruit(), Amount: "1", Unit: "cup", IsAvailable: false},
		},
		Instructions: []string{f.faker.Sentence(6), f.faker.Sentence(6)},
	}
}
