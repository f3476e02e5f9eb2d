// Package ratelimit хранит счетчики неудачных входов в Redis, чтобы лимит
// был общим для всех инстансов.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"swipetonpro_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

const (
	ScopeUser  = "user"
	ScopeAdmin = "admin"

	DefaultMaxAttempts = 5
	DefaultWindow      = 15 * time.Minute
)

var ErrTooManyAttempts = errors.New("too many login attempts")

type LoginLimiter struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

func NewLoginLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &LoginLimiter{
		client:      client,
		maxAttempts: int64(maxAttempts),
		window:      window,
	}
}

func key(scope, email string) string {
	return fmt.Sprintf("login_attempts:%s:%s", scope, strings.ToLower(strings.TrimSpace(email)))
}

// Check возвращает ErrTooManyAttempts, пока окно не истекло.
// Если Redis недоступен, вход не блокируем.
func (l *LoginLimiter) Check(ctx context.Context, scope, email string) error {
	val, err := l.client.Get(ctx, key(scope, email)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		logger.CtxWarn(ctx, "login limiter unavailable", "scope", scope, "error", err)
		return nil
	}

	attempts, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil
	}
	if attempts >= l.maxAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

// RegisterFailure увеличивает счетчик; окно стартует с первой ошибки
func (l *LoginLimiter) RegisterFailure(ctx context.Context, scope, email string) (int64, error) {
	k := key(scope, email)
	attempts, err := l.client.Incr(ctx, k).Result()
	if err != nil {
		logger.CtxWarn(ctx, "failed to register login failure", "scope", scope, "error", err)
		return 0, err
	}
	if attempts == 1 {
		if err := l.client.Expire(ctx, k, l.window).Err(); err != nil {
			return attempts, err
		}
	}
	return attempts, nil
}

// Reset сбрасывает счетчик после успешного входа
func (l *LoginLimiter) Reset(ctx context.Context, scope, email string) error {
	return l.client.Del(ctx, key(scope, email)).Err()
}

// RetryAfter - сколько осталось до разблокировки
func (l *LoginLimiter) RetryAfter(ctx context.Context, scope, email string) time.Duration {
	ttl, err := l.client.TTL(ctx, key(scope, email)).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

func (l *LoginLimiter) MaxAttempts() int {
	return int(l.maxAttempts)
}
