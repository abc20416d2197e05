// Package shopping implements the shopping-list lifecycle: derive a list
// from a recipe's unavailable ingredients, toggle items, delete, load.
package shopping

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/domain/shopping"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/internal/ports/outbound"
	"github.com/fridgechef/api/pkg/errors"
)

// RecipeResolver resolves a recipe by id across the caller's generated and
// saved collections. The recipe application service implements it.
type RecipeResolver interface {
	ResolveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*recipe.Recipe, error)
}

// userState caches one user's lists as last loaded and gates concurrent
// loads.
type userState struct {
	mu      sync.Mutex
	lists   []*shopping.List
	loading bool
}

// Service implements inbound.ShoppingService.
type Service struct {
	mu     sync.Mutex
	states map[uuid.UUID]*userState

	repo     outbound.ShoppingListRepository
	resolver RecipeResolver
	logger   *zap.Logger
}

// NewService creates the shopping list service.
func NewService(repo outbound.ShoppingListRepository, resolver RecipeResolver, logger *zap.Logger) *Service {
	return &Service{
		states:   make(map[uuid.UUID]*userState),
		repo:     repo,
		resolver: resolver,
		logger:   logger.Named("shopping-service"),
	}
}

func (s *Service) state(userID uuid.UUID) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok {
		st = &userState{}
		s.states[userID] = st
	}
	return st
}

// CreateFromRecipe derives a shopping list from the recipe's unavailable
// ingredients and persists it, then reloads the cache from the repository so
// it reflects the durable order. A recipe with nothing missing yields (nil,
// nil): there is nothing to buy and no list is created. Anonymous users get
// the same silent no-op, because a list could never be loaded back for them.
func (s *Service) CreateFromRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.ShoppingListDTO, error) {
	if userID == uuid.Nil {
		return nil, nil
	}

	r, err := s.resolver.ResolveRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	list, err := shopping.NewFromRecipe(uuid.New(), r)
	if err != nil {
		if err == shopping.ErrNothingToBuy {
			s.logger.Debug("recipe has no missing ingredients, skipping list creation",
				zap.String("recipe_id", recipeID.String()))
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to build shopping list")
	}

	if err := s.repo.Create(ctx, userID, list); err != nil {
		return nil, errors.NewPersistenceWriteFailedError("create shopping list", err)
	}

	lists, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load shopping lists", err)
	}
	st := s.state(userID)
	st.mu.Lock()
	st.lists = lists
	st.mu.Unlock()

	s.logger.Info("shopping list created",
		zap.String("user_id", userID.String()),
		zap.String("list_id", list.ID().String()),
		zap.Int("items", len(list.Items())))

	dto := toListDTO(list)
	return &dto, nil
}

// ToggleItem flips one item's checked state. The flip is applied to a clone
// first; the cached list is only swapped once the durable write of the full
// item sequence and recomputed completion flag succeeds.
func (s *Service) ToggleItem(ctx context.Context, userID, listID uuid.UUID, itemID string) (*inbound.ShoppingListDTO, error) {
	st := s.state(userID)

	st.mu.Lock()
	current := findList(st.lists, listID)
	st.mu.Unlock()
	if current == nil {
		// Cache miss; the list may exist from an earlier session.
		lists, err := s.repo.FindByUser(ctx, userID)
		if err != nil {
			return nil, errors.NewDatabaseError("load shopping lists", err)
		}
		st.mu.Lock()
		st.lists = lists
		current = findList(st.lists, listID)
		st.mu.Unlock()
	}
	if current == nil {
		return nil, errors.NewShoppingListNotFoundError(listID.String())
	}

	updated := shopping.Reconstruct(
		current.ID(), current.Name(), current.RecipeID(),
		current.Items(), current.IsCompleted(), current.CreatedAt(),
	)
	if err := updated.ToggleItem(itemID); err != nil {
		return nil, errors.NewNotFoundError("shopping list item").WithCause(err)
	}

	if err := s.repo.ReplaceItems(ctx, userID, listID, updated.Items(), updated.IsCompleted()); err != nil {
		return nil, errors.NewPersistenceWriteFailedError("update shopping list", err)
	}

	st.mu.Lock()
	st.lists = replaceList(st.lists, updated)
	st.mu.Unlock()

	dto := toListDTO(updated)
	return &dto, nil
}

// Delete removes the list durably and from the cache.
func (s *Service) Delete(ctx context.Context, userID, listID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, listID); err != nil {
		return errors.NewPersistenceWriteFailedError("delete shopping list", err)
	}

	st := s.state(userID)
	st.mu.Lock()
	kept := st.lists[:0]
	for _, l := range st.lists {
		if l.ID() != listID {
			kept = append(kept, l)
		}
	}
	st.lists = kept
	st.mu.Unlock()
	return nil
}

// LoadShoppingLists refreshes the cache from the repository and returns it.
// Anonymous users get an empty result. While a load is in flight the current
// cache snapshot is returned instead of issuing a second query.
func (s *Service) LoadShoppingLists(ctx context.Context, userID uuid.UUID) ([]inbound.ShoppingListDTO, error) {
	if userID == uuid.Nil {
		return []inbound.ShoppingListDTO{}, nil
	}

	st := s.state(userID)
	st.mu.Lock()
	if st.loading {
		snapshot := toListDTOs(st.lists)
		st.mu.Unlock()
		return snapshot, nil
	}
	st.loading = true
	st.mu.Unlock()

	defer func() {
		st.mu.Lock()
		st.loading = false
		st.mu.Unlock()
	}()

	lists, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, errors.NewDatabaseError("load shopping lists", err)
	}

	st.mu.Lock()
	st.lists = lists
	snapshot := toListDTOs(st.lists)
	st.mu.Unlock()
	return snapshot, nil
}

func findList(lists []*shopping.List, id uuid.UUID) *shopping.List {
	for _, l := range lists {
		if l.ID() == id {
			return l
		}
	}
	return nil
}

func replaceList(lists []*shopping.List, updated *shopping.List) []*shopping.List {
	for i, l := range lists {
		if l.ID() == updated.ID() {
			lists[i] = updated
			return lists
		}
	}
	return append(lists, updated)
}

func toListDTO(l *shopping.List) inbound.ShoppingListDTO {
	items := make([]inbound.ShoppingItemDTO, 0, len(l.Items()))
	for _, item := range l.Items() {
		items = append(items, inbound.ShoppingItemDTO{
			ID:        item.ID,
			Name:      item.Name,
			Amount:    item.Amount,
			Unit:      item.Unit,
			IsChecked: item.IsChecked,
		})
	}
	return inbound.ShoppingListDTO{
		ID:          l.ID(),
		Name:        l.Name(),
		RecipeID:    l.RecipeID(),
		Items:       items,
		IsCompleted: l.IsCompleted(),
		CreatedAt:   l.CreatedAt(),
	}
}

func toListDTOs(lists []*shopping.List) []inbound.ShoppingListDTO {
	out := make([]inbound.ShoppingListDTO, len(lists))
	for i, l := range lists {
		out[i] = toListDTO(l)
	}
	return out
}
