// Package user implements account registration and login.
package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fridgechef/api/internal/domain/user"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/internal/ports/outbound"
	"github.com/fridgechef/api/pkg/errors"
)

// TokenIssuer mints access tokens for authenticated users. The JWT adapter
// in the security package implements it.
type TokenIssuer interface {
	Issue(userID uuid.UUID, email string) (token string, expiresAt time.Time, err error)
}

// Service implements inbound.UserService.
type Service struct {
	repo     outbound.UserRepository
	tokens   TokenIssuer
	validate *validator.Validate
	logger   *zap.Logger
}

// NewService creates the user service.
func NewService(repo outbound.UserRepository, tokens TokenIssuer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		validate: validator.New(),
		logger:   logger.Named("user-service"),
	}
}

// Register creates an account and returns a fresh access token.
func (s *Service) Register(ctx context.Context, cmd inbound.RegisterCommand) (*inbound.AuthResultDTO, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	exists, err := s.repo.ExistsByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, errors.NewDatabaseError("check email", err)
	}
	if exists {
		return nil, errors.NewEmailAlreadyExistsError(cmd.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password").WithCause(err)
	}

	u, err := user.NewUser(cmd.Email, cmd.Name, string(hash))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, errors.NewPersistenceWriteFailedError("create user", err)
	}

	s.logger.Info("user registered", zap.String("user_id", u.ID().String()))
	return s.authResult(u)
}

// Login verifies the credentials and returns a fresh access token. A missing
// account and a wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*inbound.AuthResultDTO, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash()), []byte(password)); err != nil {
		return nil, errors.NewInvalidCredentialsError()
	}

	s.logger.Info("user logged in", zap.String("user_id", u.ID().String()))
	return s.authResult(u)
}

func (s *Service) authResult(u *user.User) (*inbound.AuthResultDTO, error) {
	token, expiresAt, err := s.tokens.Issue(u.ID(), u.Email())
	if err != nil {
		return nil, errors.NewInternalError("failed to issue token").WithCause(err)
	}
	return &inbound.AuthResultDTO{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		UserID:      u.ID(),
		Email:       u.Email(),
	}, nil
}
