package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/infrastructure/http/middleware"
	"github.com/fridgechef/api/internal/infrastructure/monitoring"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/pkg/errors"
)

// ShoppingHandlers exposes the shopping-list lifecycle.
type ShoppingHandlers struct {
	lists   inbound.ShoppingService
	metrics *monitoring.MetricsCollector
	logger  *zap.Logger
}

// NewShoppingHandlers creates the shopping handler set.
func NewShoppingHandlers(lists inbound.ShoppingService, metrics *monitoring.MetricsCollector, logger *zap.Logger) *ShoppingHandlers {
	return &ShoppingHandlers{
		lists:   lists,
		metrics: metrics,
		logger:  logger,
	}
}

type createListRequest struct {
	RecipeID uuid.UUID `json:"recipeId"`
}

type listsResponse struct {
	ShoppingLists []inbound.ShoppingListDTO `json:"shoppingLists"`
}

// Create handles POST /api/v1/shopping-lists. A recipe with every
// ingredient available yields no list and a 204.
func (h *ShoppingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}
	if req.RecipeID == uuid.Nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("recipeId is required"))
		return
	}

	created, err := h.lists.CreateFromRecipe(r.Context(), h.userID(r), req.RecipeID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if created == nil {
		writeJSON(w, http.StatusNoContent, nil)
		return
	}

	h.metrics.RecordShoppingListCreated()
	writeJSON(w, http.StatusCreated, created)
}

// ToggleItem handles POST /api/v1/shopping-lists/{id}/items/{itemId}/toggle.
func (h *ShoppingHandlers) ToggleItem(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.listID(w, r)
	if !ok {
		return
	}

	updated, err := h.lists.ToggleItem(r.Context(), h.userID(r), listID, chi.URLParam(r, "itemId"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/shopping-lists/{id}.
func (h *ShoppingHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.listID(w, r)
	if !ok {
		return
	}

	if err := h.lists.Delete(r.Context(), h.userID(r), listID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// List handles GET /api/v1/shopping-lists.
func (h *ShoppingHandlers) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.LoadShoppingLists(r.Context(), h.userID(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, listsResponse{ShoppingLists: lists})
}

func (h *ShoppingHandlers) userID(r *http.Request) uuid.UUID {
	id, _ := middleware.UserID(r.Context())
	return id
}

func (h *ShoppingHandlers) listID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, errors.NewBadRequestError("invalid shopping list id"))
		return uuid.Nil, false
	}
	return id, true
}
