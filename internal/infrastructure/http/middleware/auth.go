package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/infrastructure/security"
	"github.com/fridgechef/api/pkg/errors"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	emailKey  contextKey = "user_email"
)

// Authenticate requires a valid Bearer token and stores the caller's
// identity in the request context.
func Authenticate(tokens *security.TokenService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(tokens, r)
			if err != nil {
				logger.Info("authentication failed",
					zap.String("request_id", chimiddleware.GetReqID(r.Context())),
					zap.Error(err),
				)
				writeUnauthenticated(w, r)
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				writeUnauthenticated(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, emailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate stores the caller's identity when a valid token is
// present, but lets anonymous requests through. Handlers see uuid.Nil for
// anonymous callers.
func OptionalAuthenticate(tokens *security.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := claimsFromRequest(tokens, r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			ctx = context.WithValue(ctx, emailKey, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id from the context, if any.
func UserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}

// UserEmail returns the authenticated email from the context, if any.
func UserEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}

func claimsFromRequest(tokens *security.TokenService, r *http.Request) (*security.Claims, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, errors.NewUnauthenticatedError()
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.NewUnauthenticatedError()
	}

	return tokens.Validate(parts[1])
}

func writeUnauthenticated(w http.ResponseWriter, r *http.Request) {
	appErr := errors.NewUnauthenticatedError()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	_ = json.NewEncoder(w).Encode(errors.ToErrorResponse(appErr, chimiddleware.GetReqID(r.Context())))
}
