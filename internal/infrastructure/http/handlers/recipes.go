package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/infrastructure/http/middleware"
	"github.com/fridgechef/api/internal/infrastructure/monitoring"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/pkg/errors"
)

// RecipeHandlers exposes recipe generation and the saved-recipe lifecycle.
type RecipeHandlers struct {
	recipes inbound.RecipeService
	scans   inbound.ScanService
	metrics *monitoring.MetricsCollector
	logger  *zap.Logger
}

// NewRecipeHandlers creates the recipe handler set.
func NewRecipeHandlers(recipes inbound.RecipeService, scans inbound.ScanService, metrics *monitoring.MetricsCollector, logger *zap.Logger) *RecipeHandlers {
	return &RecipeHandlers{
		recipes: recipes,
		scans:   scans,
		metrics: metrics,
		logger:  logger,
	}
}

type generateRequest struct {
	RecipeType            string `json:"recipeType"`
	CuisineStyle          string `json:"cuisineStyle"`
	AllowExtraIngredients bool   `json:"allowExtraIngredients"`
}

type recipesResponse struct {
	Recipes []inbound.RecipeDTO `json:"recipes"`
}

// Generate handles POST /api/v1/recipes/generate. The selected candidates of
// the caller's scan session are the only ingredient feed.
func (h *RecipeHandlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	params := recipe.DefaultGenerationParameters()
	if req.RecipeType != "" {
		params.RecipeType = recipe.RecipeType(req.RecipeType)
	}
	if req.CuisineStyle != "" {
		params.CuisineStyle = recipe.CuisineStyle(req.CuisineStyle)
	}
	params.AllowExtraIngredients = req.AllowExtraIngredients

	userID := h.userID(r)
	names := h.scans.SelectedNames(userID)

	generated, err := h.recipes.Generate(r.Context(), userID, names, params)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.RecordRecipesGenerated(len(generated))
	writeJSON(w, http.StatusOK, recipesResponse{Recipes: generated})
}

// Generated handles GET /api/v1/recipes/generated.
func (h *RecipeHandlers) Generated(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, recipesResponse{Recipes: h.recipes.GeneratedRecipes(h.userID(r))})
}

// ClearGenerated handles DELETE /api/v1/recipes/generated.
func (h *RecipeHandlers) ClearGenerated(w http.ResponseWriter, r *http.Request) {
	h.recipes.ClearGenerated(h.userID(r))
	writeJSON(w, http.StatusOK, recipesResponse{Recipes: []inbound.RecipeDTO{}})
}

// Save handles POST /api/v1/recipes/{id}/save.
func (h *RecipeHandlers) Save(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	if err := h.recipes.Save(r.Context(), h.userID(r), recipeID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.RecordRecipeSaved()
	writeJSON(w, http.StatusOK, map[string]bool{"saved": true})
}

// Unsave handles DELETE /api/v1/recipes/{id}/save.
func (h *RecipeHandlers) Unsave(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	if err := h.recipes.Unsave(r.Context(), h.userID(r), recipeID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"saved": false})
}

// Update handles PUT /api/v1/recipes/{id}.
func (h *RecipeHandlers) Update(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	var cmd inbound.UpdateRecipeCommand
	if !decodeJSON(w, r, h.logger, &cmd) {
		return
	}

	if err := h.recipes.Update(r.Context(), h.userID(r), recipeID, cmd); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := h.recipes.GetRecipeByID(r.Context(), h.userID(r), recipeID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/recipes/{id}.
func (h *RecipeHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	if err := h.recipes.Delete(r.Context(), h.userID(r), recipeID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// Saved handles GET /api/v1/recipes/saved.
func (h *RecipeHandlers) Saved(w http.ResponseWriter, r *http.Request) {
	saved, err := h.recipes.LoadSavedRecipes(r.Context(), h.userID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, recipesResponse{Recipes: saved})
}

// Get handles GET /api/v1/recipes/{id}.
func (h *RecipeHandlers) Get(w http.ResponseWriter, r *http.Request) {
	recipeID, ok := h.recipeID(w, r)
	if !ok {
		return
	}

	found, err := h.recipes.GetRecipeByID(r.Context(), h.userID(r), recipeID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, found)
}

func (h *RecipeHandlers) userID(r *http.Request) uuid.UUID {
	id, _ := middleware.UserID(r.Context())
	return id
}

func (h *RecipeHandlers) recipeID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("invalid recipe id"))
		return uuid.Nil, false
	}
	return id, true
}
