package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/infrastructure/http/middleware"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/pkg/errors"
)

// ScanHandlers exposes the fridge photo scan session: detection, the
// candidate list and its selection state.
type ScanHandlers struct {
	scans         inbound.ScanService
	maxPhotoBytes int64
	logger        *zap.Logger
}

// NewScanHandlers creates the scan handler set.
func NewScanHandlers(scans inbound.ScanService, maxPhotoBytes int64, logger *zap.Logger) *ScanHandlers {
	return &ScanHandlers{
		scans:         scans,
		maxPhotoBytes: maxPhotoBytes,
		logger:        logger,
	}
}

type detectRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

type addManualRequest struct {
	Name string `json:"name"`
}

type candidatesResponse struct {
	Candidates []inbound.CandidateDTO `json:"candidates"`
}

// DetectFromPhoto handles POST /api/v1/scan/photo.
func (h *ScanHandlers) DetectFromPhoto(w http.ResponseWriter, r *http.Request) {
	// Base64 inflates the photo by a third, plus JSON envelope slack.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes*4/3+4096)

	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if _, tooLarge := err.(*http.MaxBytesError); tooLarge {
			writeError(w, r, h.logger, errors.NewBadRequestError("photo exceeds the maximum allowed size"))
			return
		}
		writeError(w, r, h.logger, errors.NewBadRequestError("invalid JSON payload"))
		return
	}
	if req.ImageBase64 == "" {
		writeError(w, r, h.logger, errors.NewBadRequestError("imageBase64 is required"))
		return
	}

	candidates, err := h.scans.DetectFromPhoto(r.Context(), h.userID(r), req.ImageBase64)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, candidatesResponse{Candidates: candidates})
}

// Candidates handles GET /api/v1/scan/candidates.
func (h *ScanHandlers) Candidates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, candidatesResponse{Candidates: h.scans.Candidates(h.userID(r))})
}

// ToggleSelection handles POST /api/v1/scan/candidates/{id}/toggle.
func (h *ScanHandlers) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	candidates, err := h.scans.ToggleSelection(h.userID(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, candidatesResponse{Candidates: candidates})
}

// SelectAll handles POST /api/v1/scan/candidates/select-all.
func (h *ScanHandlers) SelectAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, candidatesResponse{Candidates: h.scans.SelectAll(h.userID(r))})
}

// Clear handles DELETE /api/v1/scan/candidates.
func (h *ScanHandlers) Clear(w http.ResponseWriter, r *http.Request) {
	h.scans.Clear(h.userID(r))
	writeJSON(w, http.StatusOK, candidatesResponse{Candidates: []inbound.CandidateDTO{}})
}

// AddManual handles POST /api/v1/scan/candidates.
func (h *ScanHandlers) AddManual(w http.ResponseWriter, r *http.Request) {
	var req addManualRequest
	if !decodeJSON(w, r, h.logger, &req) {
		return
	}

	candidates, err := h.scans.AddManual(h.userID(r), req.Name)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, candidatesResponse{Candidates: candidates})
}

// RemoveCandidate handles DELETE /api/v1/scan/candidates/{id}.
func (h *ScanHandlers) RemoveCandidate(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, candidatesResponse{Candidates: h.scans.RemoveCandidate(h.userID(r), chi.URLParam(r, "id"))})
}

func (h *ScanHandlers) userID(r *http.Request) uuid.UUID {
	id, _ := middleware.UserID(r.Context())
	return id
}
