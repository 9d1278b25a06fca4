// Package storage aggregates every persistence dependency: MySQL for
// accounts and reports, Redis for caching and lockouts, MinIO for archived
// uploads and RabbitMQ for contact events. Components are optional; a failed
// init disables the component instead of aborting startup, so the service
// still answers analyses when, say, only the broker is down.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"cv-insight/internal/config"
)

// Storage bundles all storage backends. Nil fields mean the backend is not
// configured or failed to initialize.
type Storage struct {
	MySQL    *MySQL
	Redis    *Redis
	MinIO    *MinIO
	RabbitMQ *RabbitMQ
}

// NewStorage initializes every configured backend. It fails only when all of
// them fail.
func NewStorage(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Storage, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}

	s := &Storage{}
	var initErrors []string

	if cfg.MySQL.Host != "" {
		mysql, err := NewMySQL(&cfg.MySQL)
		if err != nil {
			logger.Warn().Err(err).Msg("mysql init failed")
			initErrors = append(initErrors, fmt.Sprintf("mysql: %v", err))
		} else {
			s.MySQL = mysql
			logger.Info().Str("host", cfg.MySQL.Host).Msg("mysql connected")
		}
	}

	if cfg.Redis.Address != "" {
		redis, err := NewRedisAdapter(&cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("redis init failed")
			initErrors = append(initErrors, fmt.Sprintf("redis: %v", err))
		} else {
			s.Redis = redis
			logger.Info().Str("address", cfg.Redis.Address).Msg("redis connected")
		}
	}

	if cfg.MinIO.Endpoint != "" {
		minio, err := NewMinIO(&cfg.MinIO, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("minio init failed")
			initErrors = append(initErrors, fmt.Sprintf("minio: %v", err))
		} else {
			s.MinIO = minio
			logger.Info().Str("endpoint", cfg.MinIO.Endpoint).Msg("minio connected")
		}
	}

	if cfg.RabbitMQ.URL != "" {
		mq, err := NewRabbitMQ(&cfg.RabbitMQ, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("rabbitmq init failed")
			initErrors = append(initErrors, fmt.Sprintf("rabbitmq: %v", err))
		} else {
			s.RabbitMQ = mq
			logger.Info().Msg("rabbitmq connected")
		}
	}

	if s.MySQL == nil && s.Redis == nil && s.MinIO == nil && s.RabbitMQ == nil {
		if len(initErrors) == 0 {
			return s, nil // nothing configured, in-memory-only mode
		}
		return nil, fmt.Errorf("all storage backends failed: %s", strings.Join(initErrors, "; "))
	}

	if len(initErrors) > 0 {
		logger.Warn().Str("failures", strings.Join(initErrors, "; ")).Msg("some storage backends unavailable")
	}
	return s, nil
}

// Close shuts down every live backend.
func (s *Storage) Close(logger zerolog.Logger) {
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Error().Err(err).Msg("close rabbitmq failed")
		}
	}
	if s.MySQL != nil {
		if err := s.MySQL.Close(); err != nil {
			logger.Error().Err(err).Msg("close mysql failed")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis failed")
		}
	}
	// MinIO's client holds no long-lived connection that needs closing.
}
