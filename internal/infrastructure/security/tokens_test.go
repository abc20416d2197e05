package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridgechef/api/internal/infrastructure/config"
)

func testService(secret string, expiration time.Duration) *TokenService {
	return NewTokenService(config.AuthConfig{
		JWTSecret:     secret,
		JWTExpiration: expiration,
	})
}

func TestIssueAndValidate(t *testing.T) {
	svc := testService("test-secret", time.Hour)
	userID := uuid.New()

	token, expiresAt, err := svc.Issue(userID, "cook@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "cook@example.com", claims.Email)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, _, err := testService("secret-a", time.Hour).Issue(uuid.New(), "cook@example.com")
	require.NoError(t, err)

	_, err = testService("secret-b", time.Hour).Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := testService("test-secret", time.Hour)

	now := time.Now().Add(-2 * time.Hour)
	claims := &Claims{
		UserID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(expired)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := testService("test-secret", time.Hour).Validate("not-a-token")
	assert.Error(t, err)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	svc := testService("test-secret", time.Hour)

	claims := &Claims{
		UserID: uuid.New().String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Audience:  []string{audience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.Error(t, err)
}
