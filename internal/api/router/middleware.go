package router

import (
	"context"
	"strings"
	"sync"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"cv-insight/internal/auth"
	"cv-insight/pkg/ratelimit"
)

// claimsContextKey is where validated JWT claims live on the request context.
const claimsContextKey = "auth_claims"

// JWTAuth validates a Bearer token when present. With required set, requests
// without a valid token are rejected; otherwise they pass through anonymous.
func JWTAuth(authService *auth.Service, required bool) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		header := string(ctx.GetHeader("Authorization"))
		if header == "" {
			if required {
				ctx.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": "authorization required"})
				return
			}
			ctx.Next(c)
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			ctx.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": "authorization header must use the Bearer scheme"})
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			// A presented-but-bad token is rejected even on optional routes.
			ctx.AbortWithStatusJSON(consts.StatusUnauthorized, utils.H{"error": auth.ErrInvalidToken.Error()})
			return
		}

		ctx.Set(claimsContextKey, claims)
		ctx.Next(c)
	}
}

// ClaimsFrom returns the validated claims on the request, or nil for an
// anonymous caller.
func ClaimsFrom(ctx *app.RequestContext) *auth.Claims {
	v, ok := ctx.Get(claimsContextKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// requesterID returns the caller's account ID, or nil when anonymous.
func requesterID(ctx *app.RequestContext) *uint {
	claims := ClaimsFrom(ctx)
	if claims == nil {
		return nil
	}
	id, err := claims.UserID()
	if err != nil {
		return nil
	}
	return &id
}

func isAdmin(ctx *app.RequestContext) bool {
	claims := ClaimsFrom(ctx)
	return claims != nil && claims.Role == "admin"
}

// clientLimiter keeps one token bucket per client IP.
type clientLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*ratelimit.TokenBucket
	newBucket func() *ratelimit.TokenBucket
}

func newClientLimiter(newBucket func() *ratelimit.TokenBucket) *clientLimiter {
	return &clientLimiter{
		buckets:   make(map[string]*ratelimit.TokenBucket),
		newBucket: newBucket,
	}
}

func (l *clientLimiter) allow(clientIP string) bool {
	l.mu.Lock()
	bucket, ok := l.buckets[clientIP]
	if !ok {
		bucket = l.newBucket()
		l.buckets[clientIP] = bucket
	}
	l.mu.Unlock()

	return bucket.Allow()
}

// RateLimitPerHour rejects a client once it exceeds its hourly budget for the
// route. Budgets of zero or less disable the limit.
func RateLimitPerHour(perHour int) app.HandlerFunc {
	if perHour <= 0 {
		return func(c context.Context, ctx *app.RequestContext) { ctx.Next(c) }
	}
	limiter := newClientLimiter(func() *ratelimit.TokenBucket {
		return ratelimit.NewHourlyTokenBucket(perHour)
	})
	return rateLimitWith(limiter)
}

// RateLimitPerMinute is RateLimitPerHour with a per-minute budget.
func RateLimitPerMinute(perMinute int) app.HandlerFunc {
	if perMinute <= 0 {
		return func(c context.Context, ctx *app.RequestContext) { ctx.Next(c) }
	}
	limiter := newClientLimiter(func() *ratelimit.TokenBucket {
		return ratelimit.NewTokenBucket(perMinute, perMinute)
	})
	return rateLimitWith(limiter)
}

func rateLimitWith(limiter *clientLimiter) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if !limiter.allow(ctx.ClientIP()) {
			ctx.AbortWithStatusJSON(consts.StatusTooManyRequests, utils.H{"error": "rate limit exceeded, try again later"})
			return
		}
		ctx.Next(c)
	}
}
