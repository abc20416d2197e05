package ingredient

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/fridgechef/api/internal/domain/ingredient"
)

type EngineTestSuite struct {
	suite.Suite
	engine *Engine
}

func (s *EngineTestSuite) SetupTest() {
	s.engine = NewEngine()
}

func (s *EngineTestSuite) detected(id, name string, confidence float64) ingredient.Candidate {
	c, err := ingredient.NewDetected(id, name, confidence, ingredient.CategoryProduce)
	s.Require().NoError(err)
	return c
}

func (s *EngineTestSuite) TestIngestDetectionBatch() {
	s.Run("preselects candidates above the threshold in list order", func() {
		// Arrange
		batch := []ingredient.Candidate{
			s.detected("c1", "tomato", 0.95),
			s.detected("c2", "basil", 0.55),
			s.detected("c3", "mozzarella", 0.82),
			s.detected("c4", "parsley", 0.70),
		}

		// Act
		s.engine.IngestDetectionBatch(batch)

		// Assert: exactly 0.70 does not clear the strict threshold
		s.Equal([]string{"tomato", "mozzarella"}, s.engine.SelectedNames())
	})

	s.Run("replaces the previous list and selection wholesale", func() {
		// Arrange
		s.engine.IngestDetectionBatch([]ingredient.Candidate{
			s.detected("old", "onion", 0.9),
		})
		s.Require().NoError(s.engine.ToggleSelection("old"))

		// Act
		s.engine.IngestDetectionBatch([]ingredient.Candidate{
			s.detected("new", "garlic", 0.3),
		})

		// Assert
		s.Empty(s.engine.SelectedNames())
		s.Len(s.engine.Candidates(), 1)
		s.Equal("garlic", s.engine.Candidates()[0].Name)
	})

	s.Run("accepts an empty batch", func() {
		s.engine.IngestDetectionBatch(nil)

		s.Empty(s.engine.Candidates())
		s.Empty(s.engine.SelectedNames())
	})
}

func (s *EngineTestSuite) TestToggleSelection() {
	s.Run("toggling twice restores the original selection", func() {
		// Arrange
		s.engine.IngestDetectionBatch([]ingredient.Candidate{
			s.detected("c1", "tomato", 0.95),
			s.detected("c2", "basil", 0.55),
		})
		before := s.engine.SelectedNames()

		// Act
		s.Require().NoError(s.engine.ToggleSelection("c2"))
		s.Require().NoError(s.engine.ToggleSelection("c2"))

		// Assert
		s.Equal(before, s.engine.SelectedNames())
	})

	s.Run("rejects an unknown candidate id", func() {
		err := s.engine.ToggleSelection("missing")

		s.ErrorIs(err, ingredient.ErrUnknownCandidate)
	})
}

func (s *EngineTestSuite) TestSelectAllAndClear() {
	// Arrange
	s.engine.IngestDetectionBatch([]ingredient.Candidate{
		s.detected("c1", "tomato", 0.95),
		s.detected("c2", "basil", 0.55),
	})

	// Act
	s.engine.SelectAll()

	// Assert
	s.Equal([]string{"tomato", "basil"}, s.engine.SelectedNames())

	// Act
	s.engine.Clear()

	// Assert
	s.Empty(s.engine.Candidates())
	s.Empty(s.engine.SelectedNames())
}

func (s *EngineTestSuite) TestAddManual() {
	s.Run("normalizes the name and selects immediately", func() {
		// Act
		c, err := s.engine.AddManual("m1", "  Tomato ")

		// Assert
		s.Require().NoError(err)
		s.Equal("tomato", c.Name)
		s.Equal(ingredient.ManualConfidence, c.Confidence)
		s.Equal(ingredient.CategoryOther, c.Category)
		s.Equal([]string{"tomato"}, s.engine.SelectedNames())
	})

	s.Run("rejects a blank name", func() {
		_, err := s.engine.AddManual("m2", "   ")

		s.ErrorIs(err, ingredient.ErrEmptyName)
	})
}

func (s *EngineTestSuite) TestRemoveCandidate() {
	// Arrange
	s.engine.IngestDetectionBatch([]ingredient.Candidate{
		s.detected("c1", "tomato", 0.95),
		s.detected("c2", "basil", 0.55),
	})

	// Act
	s.engine.RemoveCandidate("c1")

	// Assert
	s.Len(s.engine.Candidates(), 1)
	s.Empty(s.engine.SelectedNames())
}

func (s *EngineTestSuite) TestCandidatesResolvesSelection() {
	// Arrange
	s.engine.IngestDetectionBatch([]ingredient.Candidate{
		s.detected("c1", "tomato", 0.95),
		s.detected("c2", "basil", 0.55),
	})

	// Act
	got := s.engine.Candidates()

	// Assert
	s.True(got[0].Selected)
	s.False(got[1].Selected)
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}
