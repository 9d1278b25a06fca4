package auth

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"cv-insight/internal/config"
	"cv-insight/internal/storage/models"
)

func testService(ttlMinutes int) *Service {
	return NewService(nil, nil, config.AuthConfig{
		JWTSecret:        "test-secret",
		TokenTTLMinutes:  ttlMinutes,
		BCryptCost:       bcrypt.MinCost,
		AllowRegistering: true,
	}, zerolog.Nop())
}

func TestTokenRoundTrip(t *testing.T) {
	s := testService(60)
	user := &models.User{ID: 42, Email: "jane@example.com", Role: "user"}

	token, err := s.issueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "cv-insight", claims.Issuer)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := testService(60)
	token, err := issuer.issueToken(&models.User{ID: 1, Email: "a@example.com"})
	require.NoError(t, err)

	verifier := NewService(nil, nil, config.AuthConfig{JWTSecret: "other-secret"}, zerolog.Nop())
	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenGarbage(t *testing.T) {
	s := testService(60)
	_, err := s.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueTokenExpiry(t *testing.T) {
	s := testService(30)
	token, err := s.issueToken(&models.User{ID: 7, Email: "b@example.com"})
	require.NoError(t, err)

	claims, err := s.ValidateToken(token)
	require.NoError(t, err)
	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, 30*time.Minute, ttl)
}

func TestNewServiceClampsBCryptCost(t *testing.T) {
	s := NewService(nil, nil, config.AuthConfig{BCryptCost: 99}, zerolog.Nop())
	assert.Equal(t, bcrypt.DefaultCost, s.bcryptCost)

	s = NewService(nil, nil, config.AuthConfig{BCryptCost: bcrypt.MinCost}, zerolog.Nop())
	assert.Equal(t, bcrypt.MinCost, s.bcryptCost)
}
