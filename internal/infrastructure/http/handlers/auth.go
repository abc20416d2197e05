package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/infrastructure/monitoring"
	"github.com/fridgechef/api/internal/ports/inbound"
)

// AuthHandlers handles registration and login.
type AuthHandlers struct {
	users   inbound.UserService
	metrics *monitoring.MetricsCollector
	logger  *zap.Logger
}

// NewAuthHandlers creates the auth handler set.
func NewAuthHandlers(users inbound.UserService, metrics *monitoring.MetricsCollector, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		users:   users,
		metrics: metrics,
		logger:  logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var cmd inbound.RegisterCommand
	if !decodeJSON(w, r, h.logger, &cmd) {
		return
	}

	result, err := h.users.Register(r.Context(), cmd)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	h.metrics.RecordUserRegistered()
	writeJSON(w, http.StatusCreated, result)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
