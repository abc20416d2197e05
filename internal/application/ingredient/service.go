package ingredient

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/domain/ingredient"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/internal/ports/outbound"
	"github.com/fridgechef/api/pkg/errors"
)

// session is one user's scan state: the selection engine plus the in-flight
// detection flag. A session's mutex serializes every operation on it, so a
// second detection request observes detecting=true and is refused instead of
// racing the first.
type session struct {
	mu        sync.Mutex
	engine    *Engine
	detecting bool
}

// Service implements inbound.ScanService. It keeps one session per user and
// delegates photo analysis to the configured AI provider.
type Service struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*session

	ai     outbound.AIService
	logger *zap.Logger
}

// NewService creates the scan session service.
func NewService(ai outbound.AIService, logger *zap.Logger) *Service {
	return &Service{
		sessions: make(map[uuid.UUID]*session),
		ai:       ai,
		logger:   logger.Named("scan-service"),
	}
}

func (s *Service) session(userID uuid.UUID) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{engine: NewEngine()}
		s.sessions[userID] = sess
	}
	return sess
}

// DetectFromPhoto analyzes the photo and replaces the user's candidate list
// with the detection batch. Only one detection may be in flight per user; a
// concurrent call fails with an operation-in-flight conflict. Detection
// failures leave the existing candidate list untouched.
func (s *Service) DetectFromPhoto(ctx context.Context, userID uuid.UUID, imageBase64 string) ([]inbound.CandidateDTO, error) {
	sess := s.session(userID)

	sess.mu.Lock()
	if sess.detecting {
		sess.mu.Unlock()
		return nil, errors.NewOperationInFlightError("ingredient detection")
	}
	sess.detecting = true
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.detecting = false
		sess.mu.Unlock()
	}()

	result, err := s.ai.DetectIngredients(ctx, imageBase64)
	if err != nil {
		s.logger.Warn("ingredient detection failed", zap.Error(err))
		return nil, err
	}

	batch := make([]ingredient.Candidate, 0, len(result.Ingredients))
	for _, d := range result.Ingredients {
		c, err := ingredient.NewDetected(uuid.NewString(), d.Name, d.Confidence, ingredient.ParseCategory(d.Category))
		if err != nil {
			s.logger.Debug("skipping invalid detection entry",
				zap.String("name", d.Name),
				zap.Float64("confidence", d.Confidence),
				zap.Error(err))
			continue
		}
		batch = append(batch, c)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.engine.IngestDetectionBatch(batch)

	s.logger.Info("detection batch ingested",
		zap.String("user_id", userID.String()),
		zap.Int("candidates", len(batch)))

	return toCandidateDTOs(sess.engine.Candidates()), nil
}

// Candidates returns the user's current candidate list.
func (s *Service) Candidates(userID uuid.UUID) []inbound.CandidateDTO {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return toCandidateDTOs(sess.engine.Candidates())
}

// ToggleSelection flips one candidate's selection state.
func (s *Service) ToggleSelection(userID uuid.UUID, candidateID string) ([]inbound.CandidateDTO, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if err := sess.engine.ToggleSelection(candidateID); err != nil {
		return nil, errors.NewNotFoundError("candidate").WithCause(err)
	}
	return toCandidateDTOs(sess.engine.Candidates()), nil
}

// SelectAll selects every candidate.
func (s *Service) SelectAll(userID uuid.UUID) []inbound.CandidateDTO {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.engine.SelectAll()
	return toCandidateDTOs(sess.engine.Candidates())
}

// Clear discards the user's scan session.
func (s *Service) Clear(userID uuid.UUID) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.engine.Clear()
}

// AddManual appends a manually typed ingredient, normalized and immediately
// selected.
func (s *Service) AddManual(userID uuid.UUID, name string) ([]inbound.CandidateDTO, error) {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if _, err := sess.engine.AddManual(uuid.NewString(), name); err != nil {
		return nil, errors.NewBadRequestError("invalid ingredient name").WithCause(err)
	}
	return toCandidateDTOs(sess.engine.Candidates()), nil
}

// RemoveCandidate drops one candidate from the list and selection.
func (s *Service) RemoveCandidate(userID uuid.UUID, candidateID string) []inbound.CandidateDTO {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.engine.RemoveCandidate(candidateID)
	return toCandidateDTOs(sess.engine.Candidates())
}

// SelectedNames returns the selected ingredient names in list order.
func (s *Service) SelectedNames(userID uuid.UUID) []string {
	sess := s.session(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.engine.SelectedNames()
}

func toCandidateDTOs(candidates []ingredient.Candidate) []inbound.CandidateDTO {
	out := make([]inbound.CandidateDTO, len(candidates))
	for i, c := range candidates {
		out[i] = inbound.CandidateDTO{
			ID:         c.ID,
			Name:       c.Name,
			Confidence: c.Confidence,
			Category:   string(c.Category),
			Selected:   c.Selected,
		}
	}
	return out
}
