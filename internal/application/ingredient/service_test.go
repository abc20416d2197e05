package ingredient

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/ports/outbound"
	"github.com/fridgechef/api/pkg/errors"
	"github.com/fridgechef/api/pkg/logger"
)

// stubAIService returns canned detections and counts calls. detectFn, when
// set, overrides the canned behavior.
type stubAIService struct {
	mu          sync.Mutex
	detectCalls int
	result      *outbound.DetectionResult
	err         error
	detectFn    func(ctx context.Context) (*outbound.DetectionResult, error)
}

func (s *stubAIService) DetectIngredients(ctx context.Context, imageBase64 string) (*outbound.DetectionResult, error) {
	s.mu.Lock()
	s.detectCalls++
	s.mu.Unlock()
	if s.detectFn != nil {
		return s.detectFn(ctx)
	}
	return s.result, s.err
}

func (s *stubAIService) GenerateRecipes(ctx context.Context, names []string, params recipe.GenerationParameters) ([]outbound.GeneratedRecipe, error) {
	return nil, nil
}

func (s *stubAIService) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detectCalls
}

type ScanServiceTestSuite struct {
	suite.Suite
	ai      *stubAIService
	service *Service
	userID  uuid.UUID
}

func (s *ScanServiceTestSuite) SetupTest() {
	s.ai = &stubAIService{
		result: &outbound.DetectionResult{
			Ingredients: []outbound.DetectedIngredient{
				{Name: "Tomato", Confidence: 0.93, Category: "produce"},
				{Name: "Basil", Confidence: 0.41, Category: "produce"},
				{Name: "Mozzarella", Confidence: 0.88, Category: "dairy"},
			},
		},
	}
	s.service = NewService(s.ai, logger.NewNop())
	s.userID = uuid.New()
}

func (s *ScanServiceTestSuite) TestDetectFromPhoto() {
	s.Run("ingests detections with selection resolved by confidence", func() {
		// Act
		got, err := s.service.DetectFromPhoto(context.Background(), s.userID, "img-data")

		// Assert
		s.Require().NoError(err)
		s.Require().Len(got, 3)
		s.True(got[0].Selected)
		s.False(got[1].Selected)
		s.True(got[2].Selected)
		s.Equal([]string{"tomato", "mozzarella"}, s.service.SelectedNames(s.userID))
	})

	s.Run("refuses a second detection while one is in flight", func() {
		// Arrange
		started := make(chan struct{})
		release := make(chan struct{})
		s.ai.detectFn = func(ctx context.Context) (*outbound.DetectionResult, error) {
			close(started)
			<-release
			return &outbound.DetectionResult{}, nil
		}

		done := make(chan error, 1)
		go func() {
			_, err := s.service.DetectFromPhoto(context.Background(), s.userID, "img-1")
			done <- err
		}()
		<-started

		// Act
		_, err := s.service.DetectFromPhoto(context.Background(), s.userID, "img-2")

		// Assert
		s.Equal(errors.CodeOperationInFlight, errors.GetCode(err))

		close(release)
		s.Require().NoError(<-done)
	})

	s.Run("keeps the previous list when detection fails", func() {
		// Arrange
		_, err := s.service.DetectFromPhoto(context.Background(), s.userID, "img-data")
		s.Require().NoError(err)
		s.ai.err = errors.NewProviderUnavailableError("openai")
		s.ai.result = nil

		// Act
		_, err = s.service.DetectFromPhoto(context.Background(), s.userID, "img-data")

		// Assert
		s.Equal(errors.CodeProviderUnavailable, errors.GetCode(err))
		s.Len(s.service.Candidates(s.userID), 3)
	})

	s.Run("drops detection entries with out-of-range confidence", func() {
		// Arrange
		s.ai.result = &outbound.DetectionResult{
			Ingredients: []outbound.DetectedIngredient{
				{Name: "Tomato", Confidence: 0.9, Category: "produce"},
				{Name: "Ghost", Confidence: 1.7, Category: "produce"},
			},
		}

		// Act
		got, err := s.service.DetectFromPhoto(context.Background(), s.userID, "img-data")

		// Assert
		s.Require().NoError(err)
		s.Len(got, 1)
	})
}

func (s *ScanServiceTestSuite) TestSelectionOperations() {
	// Arrange
	got, err := s.service.DetectFromPhoto(context.Background(), s.userID, "img-data")
	s.Require().NoError(err)

	s.Run("toggle flips one candidate", func() {
		after, err := s.service.ToggleSelection(s.userID, got[1].ID)

		s.Require().NoError(err)
		s.True(after[1].Selected)
	})

	s.Run("toggle with unknown id fails with not found", func() {
		_, err := s.service.ToggleSelection(s.userID, "nope")

		s.Equal(errors.CodeNotFound, errors.GetCode(err))
	})

	s.Run("select all selects every candidate", func() {
		after := s.service.SelectAll(s.userID)

		for _, c := range after {
			s.True(c.Selected)
		}
	})

	s.Run("remove drops the candidate", func() {
		after := s.service.RemoveCandidate(s.userID, got[0].ID)

		s.Len(after, 2)
	})

	s.Run("clear empties the session", func() {
		s.service.Clear(s.userID)

		s.Empty(s.service.Candidates(s.userID))
	})
}

func (s *ScanServiceTestSuite) TestAddManual() {
	// Act
	got, err := s.service.AddManual(s.userID, "  Sourdough Bread ")

	// Assert
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal("sourdough bread", got[0].Name)
	s.True(got[0].Selected)
	s.InDelta(1.0, got[0].Confidence, 0.0001)
}

func (s *ScanServiceTestSuite) TestSessionsAreIsolatedPerUser() {
	// Arrange
	otherUser := uuid.New()
	_, err := s.service.DetectFromPhoto(context.Background(), s.userID, "img-data")
	s.Require().NoError(err)

	// Assert
	s.Empty(s.service.Candidates(otherUser))
	s.Len(s.service.Candidates(s.userID), 3)
}

func TestScanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ScanServiceTestSuite))
}
