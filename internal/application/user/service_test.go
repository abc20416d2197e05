package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/fridgechef/api/internal/domain/user"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/pkg/errors"
	"github.com/fridgechef/api/pkg/logger"
)

type stubUserRepository struct {
	byEmail map[string]*user.User
}

func newStubUserRepository() *stubUserRepository {
	return &stubUserRepository{byEmail: make(map[string]*user.User)}
}

func (s *stubUserRepository) Create(ctx context.Context, u *user.User) error {
	s.byEmail[u.Email()] = u
	return nil
}

func (s *stubUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	for _, u := range s.byEmail {
		if u.ID() == id {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (s *stubUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	return ok, nil
}

type stubTokenIssuer struct{}

func (stubTokenIssuer) Issue(userID uuid.UUID, email string) (string, time.Time, error) {
	return "token-" + userID.String(), time.Now().Add(time.Hour), nil
}

type UserServiceTestSuite struct {
	suite.Suite
	repo    *stubUserRepository
	service *Service
}

func (s *UserServiceTestSuite) SetupTest() {
	s.repo = newStubUserRepository()
	s.service = NewService(s.repo, stubTokenIssuer{}, logger.NewNop())
}

func (s *UserServiceTestSuite) register(email, password string) *inbound.AuthResultDTO {
	got, err := s.service.Register(context.Background(), inbound.RegisterCommand{
		Email:    email,
		Name:     "Test Cook",
		Password: password,
	})
	s.Require().NoError(err)
	return got
}

func (s *UserServiceTestSuite) TestRegister() {
	s.Run("creates the account and returns a token", func() {
		// Act
		got := s.register("cook@example.com", "super-secret-1")

		// Assert
		s.NotEmpty(got.AccessToken)
		s.Equal("cook@example.com", got.Email)
		s.True(got.ExpiresAt.After(time.Now()))
	})

	s.Run("normalizes the email to lowercase", func() {
		got := s.register("Chef@Example.COM", "super-secret-1")

		s.Equal("chef@example.com", got.Email)
	})

	s.Run("rejects a duplicate email", func() {
		// Arrange
		s.register("dup@example.com", "super-secret-1")

		// Act
		_, err := s.service.Register(context.Background(), inbound.RegisterCommand{
			Email:    "dup@example.com",
			Password: "super-secret-2",
		})

		// Assert
		s.Equal(errors.CodeEmailAlreadyExists, errors.GetCode(err))
	})

	s.Run("rejects a short password", func() {
		_, err := s.service.Register(context.Background(), inbound.RegisterCommand{
			Email:    "short@example.com",
			Password: "short",
		})

		s.Equal(errors.CodeValidationFailed, errors.GetCode(err))
	})
}

func (s *UserServiceTestSuite) TestLogin() {
	s.Run("authenticates valid credentials", func() {
		// Arrange
		s.register("login@example.com", "super-secret-1")

		// Act
		got, err := s.service.Login(context.Background(), "login@example.com", "super-secret-1")

		// Assert
		s.Require().NoError(err)
		s.NotEmpty(got.AccessToken)
	})

	s.Run("rejects a wrong password", func() {
		// Arrange
		s.register("wrongpw@example.com", "super-secret-1")

		// Act
		_, err := s.service.Login(context.Background(), "wrongpw@example.com", "not-it")

		// Assert
		s.Equal(errors.CodeInvalidCredentials, errors.GetCode(err))
	})

	s.Run("unknown account fails identically to a wrong password", func() {
		_, err := s.service.Login(context.Background(), "nobody@example.com", "whatever")

		s.Equal(errors.CodeInvalidCredentials, errors.GetCode(err))
	})
}

func TestUserServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
