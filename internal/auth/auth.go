// Package auth implements account security: bcrypt password hashing, JWT
// access tokens and login-attempt lockout via Redis counters.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"cv-insight/internal/config"
	"cv-insight/internal/constants"
	"cv-insight/internal/storage"
	"cv-insight/internal/storage/models"
)

var (
	// ErrInvalidCredentials covers both unknown accounts and wrong
	// passwords so responses cannot be used to enumerate emails.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountLocked is returned when an account exhausted its login
	// attempts inside the lockout window.
	ErrAccountLocked = errors.New("account temporarily locked after too many failed logins")
	// ErrEmailTaken is returned on duplicate registration.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrInvalidToken is returned for expired, malformed or forged tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrRegistrationDisabled is returned when sign-ups are turned off.
	ErrRegistrationDisabled = errors.New("registration is disabled")
)

// Claims is the JWT payload for an access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Service handles registration, login and token validation.
type Service struct {
	db         *storage.MySQL
	redis      *storage.Redis
	cfg        config.AuthConfig
	logger     zerolog.Logger
	bcryptCost int
}

// NewService creates an auth service. redis may be nil; lockout tracking is
// then disabled.
func NewService(db *storage.MySQL, redis *storage.Redis, cfg config.AuthConfig, logger zerolog.Logger) *Service {
	cost := cfg.BCryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		db:         db,
		redis:      redis,
		cfg:        cfg,
		logger:     logger,
		bcryptCost: cost,
	}
}

// Register creates a new account with a hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	if !s.cfg.AllowRegistering {
		return nil, ErrRegistrationDisabled
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.db.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, storage.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         "user",
	}
	if err := s.db.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info().Str("email", email).Msg("account registered")
	return user, nil
}

// Login verifies credentials and returns a signed access token. Failed
// attempts count toward the lockout window.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if s.redis != nil {
		locked, err := s.redis.IsLockedOut(ctx, email)
		if err != nil {
			s.logger.Warn().Err(err).Msg("lockout check failed, allowing attempt")
		} else if locked {
			return "", nil, ErrAccountLocked
		}
	}

	user, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			s.recordFailure(ctx, email)
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("look up account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.recordFailure(ctx, email)
		return "", nil, ErrInvalidCredentials
	}

	if s.redis != nil {
		if err := s.redis.ClearLoginFailures(ctx, email); err != nil {
			s.logger.Warn().Err(err).Msg("clearing login failures failed")
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *Service) recordFailure(ctx context.Context, email string) {
	if s.redis == nil {
		return
	}
	count, err := s.redis.RecordLoginFailure(ctx, email)
	if err != nil {
		s.logger.Warn().Err(err).Msg("recording login failure failed")
		return
	}
	if count >= constants.MaxLoginAttempts {
		s.logger.Warn().Str("email", email).Int64("failures", count).Msg("account locked out")
	}
}

func (s *Service) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL())),
			Issuer:    "cv-insight",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken parses and verifies an access token.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// UserID extracts the numeric account ID from validated claims.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subject: %w", err)
	}
	return uint(id), nil
}
