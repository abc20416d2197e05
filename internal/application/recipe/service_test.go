package recipe

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/internal/ports/outbound"
	"github.com/fridgechef/api/pkg/errors"
	"github.com/fridgechef/api/pkg/logger"
)

// stubAIService returns canned generations and counts calls.
type stubAIService struct {
	mu            sync.Mutex
	generateCalls int
	recipes       []outbound.GeneratedRecipe
	err           error
	generateFn    func(ctx context.Context) ([]outbound.GeneratedRecipe, error)
}

func (s *stubAIService) DetectIngredients(ctx context.Context, imageBase64 string) (*outbound.DetectionResult, error) {
	return nil, nil
}

func (s *stubAIService) GenerateRecipes(ctx context.Context, names []string, params recipe.GenerationParameters) ([]outbound.GeneratedRecipe, error) {
	s.mu.Lock()
	s.generateCalls++
	s.mu.Unlock()
	if s.generateFn != nil {
		return s.generateFn(ctx)
	}
	return s.recipes, s.err
}

func (s *stubAIService) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generateCalls
}

// stubRecipeRepository keeps durable rows in memory and supports error
// injection per operation.
type stubRecipeRepository struct {
	mu        sync.Mutex
	rows      map[uuid.UUID]*recipe.Recipe
	saveErr   error
	updateErr error
	findErr   error
}

func newStubRecipeRepository() *stubRecipeRepository {
	return &stubRecipeRepository{rows: make(map[uuid.UUID]*recipe.Recipe)}
}

func (s *stubRecipeRepository) Save(ctx context.Context, userID uuid.UUID, r *recipe.Recipe) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[r.ID()] = recipe.Reconstruct(
		r.ID(), r.Title(), r.Description(), r.RecipeType(), r.CuisineStyle(),
		r.PrepTimeMinutes(), r.CookTimeMinutes(), r.Servings(),
		r.Ingredients(), r.Instructions(), r.Tips(),
		true, r.CreatedAt(), r.UpdatedAt(),
	)
	return nil
}

func (s *stubRecipeRepository) Unsave(ctx context.Context, userID, recipeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[recipeID]
	if !ok {
		return recipe.ErrRecipeNotFound
	}
	r.MarkUnsaved()
	return nil
}

func (s *stubRecipeRepository) Update(ctx context.Context, userID, recipeID uuid.UUID, u recipe.Update) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[recipeID]
	if !ok {
		return recipe.ErrRecipeNotFound
	}
	return r.ApplyUpdate(u)
}

func (s *stubRecipeRepository) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[recipeID]; !ok {
		return recipe.ErrRecipeNotFound
	}
	delete(s.rows, recipeID)
	return nil
}

func (s *stubRecipeRepository) FindSavedByUser(ctx context.Context, userID uuid.UUID) ([]*recipe.Recipe, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*recipe.Recipe
	for _, r := range s.rows {
		if r.IsSaved() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func (s *stubRecipeRepository) FindByID(ctx context.Context, userID, recipeID uuid.UUID) (*recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[recipeID]
	if !ok {
		return nil, recipe.ErrRecipeNotFound
	}
	return r, nil
}

func inboundUpdate(title *string, servings *int) inbound.UpdateRecipeCommand {
	return inbound.UpdateRecipeCommand{Title: title, Servings: servings}
}

func validGeneration(title string) outbound.GeneratedRecipe {
	return outbound.GeneratedRecipe{
		Title:       title,
		Description: "a test dish",
		PrepTime:    10,
		CookTime:    25,
		Servings:    2,
		Ingredients: []outbound.GeneratedIngredient{
			{Name: "tomato", Amount: "2", Unit: "pcs", IsAvailable: true},
			{Name: "cream", Amount: "200", Unit: "ml", IsAvailable: false},
		},
		Instructions: []string{"chop", "simmer"},
		Tips:         []string{"season to taste"},
	}
}

type RecipeServiceTestSuite struct {
	suite.Suite
	ai      *stubAIService
	repo    *stubRecipeRepository
	service *Service
	userID  uuid.UUID
}

func (s *RecipeServiceTestSuite) SetupTest() {
	s.ai = &stubAIService{
		recipes: []outbound.GeneratedRecipe{
			validGeneration("Tomato Soup"),
			validGeneration("Tomato Pasta"),
		},
	}
	s.repo = newStubRecipeRepository()
	s.service = NewService(s.ai, s.repo, logger.NewNop())
	s.userID = uuid.New()
}

func (s *RecipeServiceTestSuite) generate() []uuid.UUID {
	got, err := s.service.Generate(context.Background(), s.userID, []string{"tomato", "cream"}, recipe.DefaultGenerationParameters())
	s.Require().NoError(err)
	ids := make([]uuid.UUID, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	return ids
}

func (s *RecipeServiceTestSuite) TestGenerate() {
	s.Run("stamps type and cuisine from the request parameters", func() {
		// Arrange
		params := recipe.GenerationParameters{
			RecipeType:   recipe.TypeDessert,
			CuisineStyle: recipe.CuisineItalian,
		}

		// Act
		got, err := s.service.Generate(context.Background(), s.userID, []string{"tomato"}, params)

		// Assert
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		for _, r := range got {
			s.Equal("dessert", r.RecipeType)
			s.Equal("italian", r.CuisineStyle)
			s.False(r.IsSaved)
			s.False(r.CreatedAt.IsZero())
		}
	})

	s.Run("refuses an empty selection before calling the provider", func() {
		// Act
		_, err := s.service.Generate(context.Background(), s.userID, nil, recipe.DefaultGenerationParameters())

		// Assert
		s.Equal(errors.CodeNoIngredientsSelected, errors.GetCode(err))
		s.Zero(s.ai.calls())
	})

	s.Run("rejects invalid parameters", func() {
		// Arrange
		params := recipe.GenerationParameters{RecipeType: "brunch", CuisineStyle: recipe.CuisineAny}

		// Act
		_, err := s.service.Generate(context.Background(), s.userID, []string{"tomato"}, params)

		// Assert
		s.Equal(errors.CodeValidationFailed, errors.GetCode(err))
	})

	s.Run("surfaces provider failure unchanged", func() {
		// Arrange
		s.ai.err = errors.NewProviderUnavailableError("gemini")
		s.ai.recipes = nil

		// Act
		_, err := s.service.Generate(context.Background(), s.userID, []string{"tomato"}, recipe.DefaultGenerationParameters())

		// Assert
		s.Equal(errors.CodeProviderUnavailable, errors.GetCode(err))
	})

	s.Run("treats a response with no usable recipes as malformed", func() {
		// Arrange
		s.ai.err = nil
		s.ai.recipes = []outbound.GeneratedRecipe{{Title: ""}}

		// Act
		_, err := s.service.Generate(context.Background(), s.userID, []string{"tomato"}, recipe.DefaultGenerationParameters())

		// Assert
		s.Equal(errors.CodeMalformedProviderResponse, errors.GetCode(err))
	})

	s.Run("refuses a second generation while one is in flight", func() {
		// Arrange
		started := make(chan struct{})
		release := make(chan struct{})
		s.ai.generateFn = func(ctx context.Context) ([]outbound.GeneratedRecipe, error) {
			close(started)
			<-release
			return []outbound.GeneratedRecipe{validGeneration("Slow Soup")}, nil
		}

		done := make(chan error, 1)
		go func() {
			_, err := s.service.Generate(context.Background(), s.userID, []string{"tomato"}, recipe.DefaultGenerationParameters())
			done <- err
		}()
		<-started

		// Act
		_, err := s.service.Generate(context.Background(), s.userID, []string{"tomato"}, recipe.DefaultGenerationParameters())

		// Assert
		s.Equal(errors.CodeOperationInFlight, errors.GetCode(err))

		close(release)
		s.Require().NoError(<-done)
	})
}

func (s *RecipeServiceTestSuite) TestSave() {
	s.Run("marks saved and refreshes the saved collection after a durable write", func() {
		// Arrange
		ids := s.generate()

		// Act
		err := s.service.Save(context.Background(), s.userID, ids[0])

		// Assert
		s.Require().NoError(err)
		generated := s.service.GeneratedRecipes(s.userID)
		s.True(generated[0].IsSaved)
		saved, err := s.service.LoadSavedRecipes(context.Background(), s.userID)
		s.Require().NoError(err)
		s.Require().Len(saved, 1)
		s.Equal(ids[0], saved[0].ID)
	})

	s.Run("leaves the recipe unsaved when the write fails", func() {
		// Arrange
		ids := s.generate()
		s.repo.saveErr = recipe.ErrRecipeNotFound

		// Act
		err := s.service.Save(context.Background(), s.userID, ids[0])

		// Assert
		s.Equal(errors.CodePersistenceWriteFailed, errors.GetCode(err))
		s.False(s.service.GeneratedRecipes(s.userID)[0].IsSaved)
	})

	s.Run("fails for a recipe outside the current session", func() {
		err := s.service.Save(context.Background(), s.userID, uuid.New())

		s.Equal(errors.CodeRecipeNotFound, errors.GetCode(err))
	})

	s.Run("marks saved safely alongside concurrent reads", func() {
		// Arrange
		s.repo.saveErr = nil
		ids := s.generate()
		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 100; i++ {
				s.service.GeneratedRecipes(s.userID)
			}
		}()

		// Act
		err := s.service.Save(context.Background(), s.userID, ids[0])

		// Assert
		<-done
		s.Require().NoError(err)
		s.True(s.service.GeneratedRecipes(s.userID)[0].IsSaved)
	})
}

func (s *RecipeServiceTestSuite) TestUnsave() {
	// Arrange
	ids := s.generate()
	s.Require().NoError(s.service.Save(context.Background(), s.userID, ids[0]))

	// Act
	err := s.service.Unsave(context.Background(), s.userID, ids[0])

	// Assert: dropped from the saved collection, session copy unsaved
	s.Require().NoError(err)
	saved, err := s.service.LoadSavedRecipes(context.Background(), s.userID)
	s.Require().NoError(err)
	s.Empty(saved)
	s.False(s.service.GeneratedRecipes(s.userID)[0].IsSaved)
}

func (s *RecipeServiceTestSuite) TestUpdate() {
	// Arrange
	ids := s.generate()
	s.Require().NoError(s.service.Save(context.Background(), s.userID, ids[0]))
	newTitle := "Roasted Tomato Soup"
	servings := 4

	// Act
	err := s.service.Update(context.Background(), s.userID, ids[0], inboundUpdate(&newTitle, &servings))

	// Assert
	s.Require().NoError(err)
	saved, loadErr := s.service.LoadSavedRecipes(context.Background(), s.userID)
	s.Require().NoError(loadErr)
	s.Equal("Roasted Tomato Soup", saved[0].Title)
	s.Equal(4, saved[0].Servings)

	s.Run("rejects an empty title", func() {
		empty := ""
		err := s.service.Update(context.Background(), s.userID, ids[0], inboundUpdate(&empty, nil))

		s.Equal(errors.CodeValidationFailed, errors.GetCode(err))
	})

	s.Run("leaves the cached recipe untouched when the write fails", func() {
		// Arrange: resolve through the saved cache only
		s.service.ClearGenerated(s.userID)
		s.repo.updateErr = recipe.ErrRecipeNotFound
		edited := "Charred Tomato Soup"

		// Act
		err := s.service.Update(context.Background(), s.userID, ids[0], inboundUpdate(&edited, nil))

		// Assert
		s.Equal(errors.CodePersistenceWriteFailed, errors.GetCode(err))
		got, getErr := s.service.GetRecipeByID(context.Background(), s.userID, ids[0])
		s.Require().NoError(getErr)
		s.Equal("Roasted Tomato Soup", got.Title)
		s.repo.updateErr = nil
	})
}

func (s *RecipeServiceTestSuite) TestDelete() {
	// Arrange
	ids := s.generate()
	s.Require().NoError(s.service.Save(context.Background(), s.userID, ids[0]))

	// Act
	err := s.service.Delete(context.Background(), s.userID, ids[0])

	// Assert
	s.Require().NoError(err)
	saved, loadErr := s.service.LoadSavedRecipes(context.Background(), s.userID)
	s.Require().NoError(loadErr)
	s.Empty(saved)
	s.Len(s.service.GeneratedRecipes(s.userID), 1)
}

func (s *RecipeServiceTestSuite) TestLoadSavedRecipes() {
	s.Run("anonymous user gets an empty result without touching the store", func() {
		// Arrange
		s.repo.findErr = recipe.ErrRecipeNotFound

		// Act
		got, err := s.service.LoadSavedRecipes(context.Background(), uuid.Nil)

		// Assert
		s.Require().NoError(err)
		s.Empty(got)
		s.repo.findErr = nil
	})

	s.Run("orders newest first", func() {
		// Arrange
		ids := s.generate()
		s.Require().NoError(s.service.Save(context.Background(), s.userID, ids[0]))
		s.Require().NoError(s.service.Save(context.Background(), s.userID, ids[1]))

		// Act
		got, err := s.service.LoadSavedRecipes(context.Background(), s.userID)

		// Assert
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.False(got[0].CreatedAt.Before(got[1].CreatedAt))
	})
}

func (s *RecipeServiceTestSuite) TestGetRecipeByID() {
	// Arrange
	ids := s.generate()

	s.Run("resolves a generated recipe", func() {
		got, err := s.service.GetRecipeByID(context.Background(), s.userID, ids[1])

		s.Require().NoError(err)
		s.Equal(ids[1], got.ID)
	})

	s.Run("falls back to the store for recipes from earlier sessions", func() {
		// Arrange
		s.Require().NoError(s.service.Save(context.Background(), s.userID, ids[0]))
		s.service.ClearGenerated(s.userID)
		fresh := NewService(s.ai, s.repo, logger.NewNop())

		// Act
		got, err := fresh.GetRecipeByID(context.Background(), s.userID, ids[0])

		// Assert
		s.Require().NoError(err)
		s.Equal(ids[0], got.ID)
	})

	s.Run("unknown id fails with recipe not found", func() {
		_, err := s.service.GetRecipeByID(context.Background(), s.userID, uuid.New())

		s.Equal(errors.CodeRecipeNotFound, errors.GetCode(err))
	})
}

func TestRecipeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecipeServiceTestSuite))
}
