// Package recipe implements recipe generation and the saved-recipe
// lifecycle on top of the AI provider and the recipe repository.
package recipe

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/internal/ports/outbound"
	"github.com/fridgechef/api/pkg/errors"
)

// errNoUsableRecipes reports a provider response that parsed but contained
// no recipe passing domain validation.
var errNoUsableRecipes = stderrors.New("provider response contained no usable recipes")

// userState holds one user's in-memory recipe collections: the recipes
// generated this session and a cache of the saved recipes as last loaded
// from the repository. The generating and loading flags gate concurrent
// entry into the corresponding operations.
type userState struct {
	mu         sync.Mutex
	generated  []*recipe.Recipe
	saved      []*recipe.Recipe
	generating bool
	loading    bool
}

// Service implements inbound.RecipeService.
type Service struct {
	mu     sync.Mutex
	states map[uuid.UUID]*userState

	ai     outbound.AIService
	repo   outbound.RecipeRepository
	logger *zap.Logger
}

// NewService creates the recipe service.
func NewService(ai outbound.AIService, repo outbound.RecipeRepository, logger *zap.Logger) *Service {
	return &Service{
		states: make(map[uuid.UUID]*userState),
		ai:     ai,
		repo:   repo,
		logger: logger.Named("recipe-service"),
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

// Generate asks the AI provider for recipes from the selected ingredient
// names and replaces the user's generated collection with the result. An
// empty name list is refused before any provider call is made. Only one
// generation may be in flight per user.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, names []string, params recipe.GenerationParameters) ([]inbound.RecipeDTO, error) {
	if len(names) == 0 {
		return nil, errors.NewNoIngredientsSelectedError()
	}
	if err := params.Validate(); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	st := s.state(userID)
	st.mu.Lock()
	if st.generating {
		st.mu.Unlock()
		return nil, errors.NewOperationInFlightError("recipe generation")
	}
	st.generating = true
	st.mu.Unlock()

	defer func() {
		st.mu.Lock()
		st.generating = false
		st.mu.Unlock()
	}()

	raw, err := s.ai.GenerateRecipes(ctx, names, params)
	if err != nil {
		s.logger.Warn("recipe generation failed",
			zap.String("user_id", userID.String()),
			zap.Int("ingredients", len(names)),
			zap.Error(err))
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	generated := make([]*recipe.Recipe, 0, len(raw))
	for _, g := range raw {
		r, err := recipe.NewGenerated(s.freshIDLocked(st), toGeneratedContent(g), params)
		if err != nil {
			s.logger.Debug("dropping malformed generated recipe",
				zap.String("title", g.Title),
				zap.Error(err))
			continue
		}
		generated = append(generated, r)
	}
	if len(generated) == 0 {
		return nil, errors.NewMalformedProviderResponseError(errNoUsableRecipes)
	}
	st.generated = generated

	s.logger.Info("recipes generated",
		zap.String("user_id", userID.String()),
		zap.Int("count", len(generated)))

	return toRecipeDTOs(st.generated), nil
}

// freshIDLocked mints an id not already present in either collection.
// st.mu must be held.
func (s *Service) freshIDLocked(st *userState) uuid.UUID {
	for {
		id := uuid.New()
		if findByID(st.generated, id) == nil && findByID(st.saved, id) == nil {
			return id
		}
	}
}

// GeneratedRecipes returns this session's generated recipes.
func (s *Service) GeneratedRecipes(userID uuid.UUID) []inbound.RecipeDTO {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	return toRecipeDTOs(st.generated)
}

// ClearGenerated discards this session's generated recipes.
func (s *Service) ClearGenerated(userID uuid.UUID) {
	st := s.state(userID)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.generated = nil
}

// Save writes a durable copy of a generated recipe. The in-memory recipe is
// marked saved only after the write succeeds, then the saved cache is
// reloaded from the repository so it reflects the durable order.
func (s *Service) Save(ctx context.Context, userID, recipeID uuid.UUID) error {
	st := s.state(userID)

	st.mu.Lock()
	target := findByID(st.generated, recipeID)
	if target == nil {
		st.mu.Unlock()
		return errors.NewRecipeNotFoundError(recipeID.String())
	}
	if target.IsSaved() {
		st.mu.Unlock()
		return nil
	}
	st.mu.Unlock()

	if err := s.repo.Save(ctx, userID, target); err != nil {
		return errors.NewPersistenceWriteFailedError("save recipe", err)
	}

	st.mu.Lock()
	target.MarkSaved()
	st.mu.Unlock()

	return s.reloadSaved(ctx, userID, st)
}

// Unsave flips the durable record's saved flag off and removes the recipe
// from the saved cache. A still-present generated copy is marked unsaved too.
func (s *Service) Unsave(ctx context.Context, userID, recipeID uuid.UUID) error {
	if err := s.repo.Unsave(ctx, userID, recipeID); err != nil {
		return errors.NewPersistenceWriteFailedError("unsave recipe", err)
	}

	st := s.state(userID)
	st.mu.Lock()
	st.saved = removeByID(st.saved, recipeID)
	if g := findByID(st.generated, recipeID); g != nil {
		g.MarkUnsaved()
	}
	st.mu.Unlock()
	return nil
}

// Update applies the whitelisted editable fields to a saved recipe and
// reloads the saved cache.
func (s *Service) Update(ctx context.Context, userID, recipeID uuid.UUID, cmd inbound.UpdateRecipeCommand) error {
	u := recipe.Update{
		Title:        cmd.Title,
		Description:  cmd.Description,
		Ingredients:  cmd.Ingredients,
		Instructions: cmd.Instructions,
		PrepTime:     cmd.PrepTime,
		CookTime:     cmd.CookTime,
		Servings:     cmd.Servings,
	}

	st := s.state(userID)
	st.mu.Lock()
	target := findByID(st.saved, recipeID)
	st.mu.Unlock()

	if target == nil {
		found, err := s.repo.FindByID(ctx, userID, recipeID)
		if err != nil {
			return errors.NewRecipeNotFoundError(recipeID.String()).WithCause(err)
		}
		target = found
	}

	// Validate against the domain rules on a copy. The cached recipe must
	// stay untouched until the durable write has succeeded.
	st.mu.Lock()
	draft := recipe.Reconstruct(
		target.ID(), target.Title(), target.Description(),
		target.RecipeType(), target.CuisineStyle(),
		target.PrepTimeMinutes(), target.CookTimeMinutes(), target.Servings(),
		target.Ingredients(), target.Instructions(), target.Tips(),
		target.IsSaved(), target.CreatedAt(), target.UpdatedAt(),
	)
	st.mu.Unlock()
	if err := draft.ApplyUpdate(u); err != nil {
		return errors.NewValidationError(err.Error())
	}

	if err := s.repo.Update(ctx, userID, recipeID, u); err != nil {
		return errors.NewPersistenceWriteFailedError("update recipe", err)
	}

	return s.reloadSaved(ctx, userID, st)
}

// Delete hard-deletes the durable record and drops the recipe from both
// in-memory collections.
func (s *Service) Delete(ctx context.Context, userID, recipeID uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, recipeID); err != nil {
		return errors.NewPersistenceWriteFailedError("delete recipe", err)
	}

	st := s.state(userID)
	st.mu.Lock()
	st.saved = removeByID(st.saved, recipeID)
	st.generated = removeByID(st.generated, recipeID)
	st.mu.Unlock()
	return nil
}

// LoadSavedRecipes refreshes the saved cache from the repository and returns
// it. An anonymous user has no saved recipes; this is not an error. While a
// load is already in flight the current cache snapshot is returned instead
// of issuing a second query.
func (s *Service) LoadSavedRecipes(ctx context.Context, userID uuid.UUID) ([]inbound.RecipeDTO, error) {
	if userID == uuid.Nil {
		return []inbound.RecipeDTO{}, nil
	}

	st := s.state(userID)
	st.mu.Lock()
	if st.loading {
		snapshot := toRecipeDTOs(st.saved)
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

	if err := s.reloadSaved(ctx, userID, st); err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	return toRecipeDTOs(st.saved), nil
}

// GetRecipeByID resolves a recipe by scanning this session's generated
// collection first, then the saved cache, then the repository.
func (s *Service) GetRecipeByID(ctx context.Context, userID, recipeID uuid.UUID) (*inbound.RecipeDTO, error) {
	st := s.state(userID)
	st.mu.Lock()
	target := findByID(st.generated, recipeID)
	if target == nil {
		target = findByID(st.saved, recipeID)
	}
	st.mu.Unlock()

	if target == nil {
		found, err := s.repo.FindByID(ctx, userID, recipeID)
		if err != nil {
			return nil, errors.NewRecipeNotFoundError(recipeID.String()).WithCause(err)
		}
		target = found
	}

	dto := toRecipeDTO(target)
	return &dto, nil
}

// ResolveRecipe returns the domain recipe for recipeID, scanning both
// in-memory collections before the repository. The shopping service uses it
// to seed new lists.
func (s *Service) ResolveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (*recipe.Recipe, error) {
	st := s.state(userID)
	st.mu.Lock()
	target := findByID(st.generated, recipeID)
	if target == nil {
		target = findByID(st.saved, recipeID)
	}
	st.mu.Unlock()

	if target != nil {
		return target, nil
	}
	found, err := s.repo.FindByID(ctx, userID, recipeID)
	if err != nil {
		return nil, errors.NewRecipeNotFoundError(recipeID.String()).WithCause(err)
	}
	return found, nil
}

func (s *Service) reloadSaved(ctx context.Context, userID uuid.UUID, st *userState) error {
	saved, err := s.repo.FindSavedByUser(ctx, userID)
	if err != nil {
		return errors.NewDatabaseError("load saved recipes", err)
	}
	st.mu.Lock()
	st.saved = saved
	st.mu.Unlock()
	return nil
}

func findByID(recipes []*recipe.Recipe, id uuid.UUID) *recipe.Recipe {
	for _, r := range recipes {
		if r.ID() == id {
			return r
		}
	}
	return nil
}

func removeByID(recipes []*recipe.Recipe, id uuid.UUID) []*recipe.Recipe {
	kept := recipes[:0]
	for _, r := range recipes {
		if r.ID() != id {
			kept = append(kept, r)
		}
	}
	return kept
}

func toGeneratedContent(g outbound.GeneratedRecipe) recipe.GeneratedContent {
	ingredients := make([]recipe.Ingredient, len(g.Ingredients))
	for i, ing := range g.Ingredients {
		ingredients[i] = recipe.Ingredient{
			Name:        ing.Name,
			Amount:      ing.Amount,
			Unit:        ing.Unit,
			IsAvailable: ing.IsAvailable,
		}
	}
	return recipe.GeneratedContent{
		Title:        g.Title,
		Description:  g.Description,
		PrepTime:     g.PrepTime,
		CookTime:     g.CookTime,
		Servings:     g.Servings,
		Ingredients:  ingredients,
		Instructions: g.Instructions,
		Tips:         g.Tips,
	}
}

func toRecipeDTO(r *recipe.Recipe) inbound.RecipeDTO {
	ingredients := make([]inbound.IngredientDTO, 0, len(r.Ingredients()))
	for _, ing := range r.Ingredients() {
		ingredients = append(ingredients, inbound.IngredientDTO{
			Name:        ing.Name,
			Amount:      ing.Amount,
			Unit:        ing.Unit,
			IsAvailable: ing.IsAvailable,
		})
	}
	return inbound.RecipeDTO{
		ID:           r.ID(),
		Title:        r.Title(),
		Description:  r.Description(),
		RecipeType:   string(r.RecipeType()),
		CuisineStyle: string(r.CuisineStyle()),
		PrepTime:     r.PrepTimeMinutes(),
		CookTime:     r.CookTimeMinutes(),
		Servings:     r.Servings(),
		Ingredients:  ingredients,
		Instructions: r.Instructions(),
		Tips:         r.Tips(),
		IsSaved:      r.IsSaved(),
		CreatedAt:    r.CreatedAt(),
	}
}

func toRecipeDTOs(recipes []*recipe.Recipe) []inbound.RecipeDTO {
	out := make([]inbound.RecipeDTO, len(recipes))
	for i, r := range recipes {
		out[i] = toRecipeDTO(r)
	}
	return out
}
