package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"cv-insight/internal/config"
	"cv-insight/internal/constants"
)

// ErrNotFound marks a cache miss.
var ErrNotFound = redis.Nil

// Redis backs the analysis report cache and the login-attempt lockout
// counters.
type Redis struct {
	client *redis.Client
	cfg    *config.RedisConfig
}

// NewRedisAdapter connects, instruments the client for tracing and verifies
// the connection with a ping.
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config must not be nil")
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
	})

	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("instrument redis tracing: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Redis{client: client, cfg: cfg}, nil
}

// Close releases the client.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Get fetches a string value; ErrNotFound on miss.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

// Set stores a string value with a TTL.
func (r *Redis) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

// GetAnalysis implements the analyzer cache: a miss is (_, false, nil).
func (r *Redis) GetAnalysis(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// SetAnalysis stores a generated report with a TTL.
func (r *Redis) SetAnalysis(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// RecordLoginFailure bumps the failure counter for an account and returns the
// new count. The lockout window starts at the first failure.
func (r *Redis) RecordLoginFailure(ctx context.Context, email string) (int64, error) {
	key := constants.LoginAttemptPrefix + email

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment login failures: %w", err)
	}
	if count == 1 {
		if err := r.client.Expire(ctx, key, constants.LoginLockoutWindow).Err(); err != nil {
			return count, fmt.Errorf("set lockout window: %w", err)
		}
	}
	return count, nil
}

// IsLockedOut reports whether an account has exhausted its login attempts.
func (r *Redis) IsLockedOut(ctx context.Context, email string) (bool, error) {
	count, err := r.client.Get(ctx, constants.LoginAttemptPrefix+email).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= constants.MaxLoginAttempts, nil
}

// ClearLoginFailures resets the counter after a successful login.
func (r *Redis) ClearLoginFailures(ctx context.Context, email string) error {
	return r.client.Del(ctx, constants.LoginAttemptPrefix+email).Err()
}
