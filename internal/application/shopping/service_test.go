package shopping

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/domain/shopping"
	"github.com/fridgechef/api/pkg/errors"
	"github.com/fridgechef/api/pkg/logger"
)

// stubResolver serves recipes from a fixed map.
type stubResolver struct {
	recipes map[uuid.UUID]*recipe.Recipe
}

func (s *stubResolver) ResolveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*recipe.Recipe, error) {
	r, ok := s.recipes[recipeID]
	if !ok {
		return nil, errors.NewRecipeNotFoundError(recipeID.String())
	}
	return r, nil
}

// stubListRepository keeps durable rows in memory with error injection.
type stubListRepository struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]*shopping.List
	createErr  error
	replaceErr error
	findErr    error
}

func newStubListRepository() *stubListRepository {
	return &stubListRepository{rows: make(map[uuid.UUID]*shopping.List)}
}

func (s *stubListRepository) Create(ctx context.Context, userID uuid.UUID, l *shopping.List) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[l.ID()] = l
	return nil
}

func (s *stubListRepository) ReplaceItems(ctx context.Context, userID, listID uuid.UUID, items []shopping.Item, isCompleted bool) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.rows[listID]
	if !ok {
		return shopping.ErrListNotFound
	}
	s.rows[listID] = shopping.Reconstruct(l.ID(), l.Name(), l.RecipeID(), items, isCompleted, l.CreatedAt())
	return nil
}

func (s *stubListRepository) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[listID]; !ok {
		return shopping.ErrListNotFound
	}
	delete(s.rows, listID)
	return nil
}

func (s *stubListRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*shopping.List, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*shopping.List
	for _, l := range s.rows {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt().After(out[j].CreatedAt())
	})
	return out, nil
}

func testRecipe(t time.Time, available ...bool) *recipe.Recipe {
	ingredients := make([]recipe.Ingredient, len(available))
	for i, a := range available {
		ingredients[i] = recipe.Ingredient{
			Name:        "ingredient",
			Amount:      "1",
			Unit:        "pcs",
			IsAvailable: a,
		}
	}
	return recipe.Reconstruct(
		uuid.New(), "Tomato Soup", "", recipe.TypeDinner, recipe.CuisineAny,
		10, 20, 2, ingredients, []string{"cook"}, nil, false, t, t,
	)
}

type ShoppingServiceTestSuite struct {
	suite.Suite
	repo     *stubListRepository
	resolver *stubResolver
	service  *Service
	userID   uuid.UUID
}

func (s *ShoppingServiceTestSuite) SetupTest() {
	s.repo = newStubListRepository()
	s.resolver = &stubResolver{recipes: make(map[uuid.UUID]*recipe.Recipe)}
	s.service = NewService(s.repo, s.resolver, logger.NewNop())
	s.userID = uuid.New()
}

func (s *ShoppingServiceTestSuite) addRecipe(r *recipe.Recipe) uuid.UUID {
	s.resolver.recipes[r.ID()] = r
	return r.ID()
}

func (s *ShoppingServiceTestSuite) TestCreateFromRecipe() {
	s.Run("derives unchecked items from the missing ingredients", func() {
		// Arrange: two missing, one available
		r := recipe.Reconstruct(
			uuid.New(), "Tomato Soup", "", recipe.TypeDinner, recipe.CuisineAny,
			10, 20, 2,
			[]recipe.Ingredient{
				{Name: "tomato", Amount: "4", Unit: "pcs", IsAvailable: true},
				{Name: "cream", Amount: "200", Unit: "ml", IsAvailable: false},
				{Name: "basil", Amount: "1", Unit: "bunch", IsAvailable: false},
			},
			[]string{"cook"}, nil, false, time.Now(), time.Now(),
		)
		recipeID := s.addRecipe(r)

		// Act
		got, err := s.service.CreateFromRecipe(context.Background(), s.userID, recipeID)

		// Assert
		s.Require().NoError(err)
		s.Require().NotNil(got)
		s.Equal("Shopping for Tomato Soup", got.Name)
		s.Require().Len(got.Items, 2)
		s.Equal("cream", got.Items[0].Name)
		s.Equal("basil", got.Items[1].Name)
		for _, item := range got.Items {
			s.False(item.IsChecked)
		}
		s.False(got.IsCompleted)
		s.Require().NotNil(got.RecipeID)
		s.Equal(recipeID, *got.RecipeID)
	})

	s.Run("returns nil without persisting when nothing is missing", func() {
		// Arrange
		before, err := s.service.LoadShoppingLists(context.Background(), s.userID)
		s.Require().NoError(err)
		recipeID := s.addRecipe(testRecipe(time.Now(), true, true))

		// Act
		got, err := s.service.CreateFromRecipe(context.Background(), s.userID, recipeID)

		// Assert: no new list was written
		s.NoError(err)
		s.Nil(got)
		after, err := s.service.LoadShoppingLists(context.Background(), s.userID)
		s.Require().NoError(err)
		s.Len(after, len(before))
	})

	s.Run("is a silent no-op for anonymous users", func() {
		got, err := s.service.CreateFromRecipe(context.Background(), uuid.Nil, uuid.New())

		s.NoError(err)
		s.Nil(got)
	})

	s.Run("surfaces a failed durable write", func() {
		// Arrange
		recipeID := s.addRecipe(testRecipe(time.Now(), false))
		s.repo.createErr = shopping.ErrListNotFound

		// Act
		_, err := s.service.CreateFromRecipe(context.Background(), s.userID, recipeID)

		// Assert
		s.Equal(errors.CodePersistenceWriteFailed, errors.GetCode(err))
		s.repo.createErr = nil
	})

	s.Run("fails when the recipe cannot be resolved", func() {
		_, err := s.service.CreateFromRecipe(context.Background(), s.userID, uuid.New())

		s.Equal(errors.CodeRecipeNotFound, errors.GetCode(err))
	})

	s.Run("reloads the cache from the store after the write", func() {
		// Arrange
		recipeID := s.addRecipe(testRecipe(time.Now(), false))
		s.repo.findErr = shopping.ErrListNotFound

		// Act
		_, err := s.service.CreateFromRecipe(context.Background(), s.userID, recipeID)

		// Assert: the reload query ran and its failure surfaced
		s.Equal(errors.CodeDatabaseError, errors.GetCode(err))
		s.repo.findErr = nil
	})
}

func (s *ShoppingServiceTestSuite) createList(missing int) *shoppingListHandle {
	available := make([]bool, missing)
	recipeID := s.addRecipe(testRecipe(time.Now(), available...))
	dto, err := s.service.CreateFromRecipe(context.Background(), s.userID, recipeID)
	s.Require().NoError(err)
	s.Require().NotNil(dto)
	itemIDs := make([]string, len(dto.Items))
	for i, item := range dto.Items {
		itemIDs[i] = item.ID
	}
	return &shoppingListHandle{listID: dto.ID, itemIDs: itemIDs}
}

type shoppingListHandle struct {
	listID  uuid.UUID
	itemIDs []string
}

func (s *ShoppingServiceTestSuite) TestToggleItem() {
	s.Run("checks an item and completes when every item is checked", func() {
		// Arrange
		h := s.createList(2)

		// Act
		first, err := s.service.ToggleItem(context.Background(), s.userID, h.listID, h.itemIDs[0])
		s.Require().NoError(err)

		// Assert: one of two checked, not complete
		s.True(first.Items[0].IsChecked)
		s.False(first.IsCompleted)

		// Act: checking the last open item flips completion
		second, err := s.service.ToggleItem(context.Background(), s.userID, h.listID, h.itemIDs[1])
		s.Require().NoError(err)
		s.True(second.IsCompleted)

		// Act: unchecking any item drops completion again
		third, err := s.service.ToggleItem(context.Background(), s.userID, h.listID, h.itemIDs[0])
		s.Require().NoError(err)
		s.False(third.IsCompleted)
	})

	s.Run("keeps the cached list untouched when the write fails", func() {
		// Arrange
		h := s.createList(1)
		s.repo.replaceErr = shopping.ErrListNotFound

		// Act
		_, err := s.service.ToggleItem(context.Background(), s.userID, h.listID, h.itemIDs[0])

		// Assert
		s.Equal(errors.CodePersistenceWriteFailed, errors.GetCode(err))
		s.repo.replaceErr = nil
		lists, loadErr := s.service.LoadShoppingLists(context.Background(), s.userID)
		s.Require().NoError(loadErr)
		s.False(lists[0].Items[0].IsChecked)
	})

	s.Run("fails for an unknown item", func() {
		h := s.createList(1)

		_, err := s.service.ToggleItem(context.Background(), s.userID, h.listID, "item-99")

		s.Equal(errors.CodeNotFound, errors.GetCode(err))
	})

	s.Run("fails for an unknown list", func() {
		_, err := s.service.ToggleItem(context.Background(), s.userID, uuid.New(), "item-0")

		s.Equal(errors.CodeShoppingListNotFound, errors.GetCode(err))
	})

	s.Run("resolves a list persisted before this session", func() {
		// Arrange
		h := s.createList(1)
		fresh := NewService(s.repo, s.resolver, logger.NewNop())

		// Act
		got, err := fresh.ToggleItem(context.Background(), s.userID, h.listID, h.itemIDs[0])

		// Assert
		s.Require().NoError(err)
		s.True(got.Items[0].IsChecked)
	})
}

func (s *ShoppingServiceTestSuite) TestDelete() {
	// Arrange
	h := s.createList(1)

	// Act
	err := s.service.Delete(context.Background(), s.userID, h.listID)

	// Assert
	s.Require().NoError(err)
	lists, loadErr := s.service.LoadShoppingLists(context.Background(), s.userID)
	s.Require().NoError(loadErr)
	s.Empty(lists)

	s.Run("deleting an unknown list fails", func() {
		err := s.service.Delete(context.Background(), s.userID, uuid.New())

		s.Equal(errors.CodePersistenceWriteFailed, errors.GetCode(err))
	})
}

func (s *ShoppingServiceTestSuite) TestLoadShoppingLists() {
	s.Run("anonymous user gets an empty result", func() {
		got, err := s.service.LoadShoppingLists(context.Background(), uuid.Nil)

		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("orders newest first", func() {
		// Arrange
		s.createList(1)
		s.createList(2)

		// Act
		got, err := s.service.LoadShoppingLists(context.Background(), s.userID)

		// Assert
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.False(got[0].CreatedAt.Before(got[1].CreatedAt))
	})
}

func TestShoppingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ShoppingServiceTestSuite))
}
