// Package handlers provides the JSON API HTTP handlers.
package handlers

import (
	"encoding/json"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fridgechef/api/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps any error onto the API error envelope. Unknown errors are
// wrapped so their text never leaks to clients.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		appErr = errors.Wrap(err, "request failed")
	}

	requestID := chimiddleware.GetReqID(r.Context())
	if appErr.StatusCode() >= 500 {
		logger.Error("request failed",
			zap.String("request_id", requestID),
			zap.String("code", string(appErr.Code)),
			zap.Error(err),
		)
	}

	writeJSON(w, appErr.StatusCode(), errors.ToErrorResponse(appErr, requestID))
}

func decodeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, r, logger, errors.NewBadRequestError("invalid JSON payload"))
		return false
	}
	return true
}
