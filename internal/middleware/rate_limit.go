package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// keyごとに許可するか判定する
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// プロセス内のトークンバケット。単一インスタンス用
type MemoryLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	limiters  map[string]*limiterEntry
	now       func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// バケットは1分で満タンに戻るので、1分使われていないkeyは捨てても結果は変わらない
func NewMemoryLimiter(perMinute int) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		idleTTL:  time.Minute,
		limiters: map[string]*limiterEntry{},
		now:      time.Now,
	}
}

func (m *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	if now.Sub(m.lastSweep) >= m.idleTTL {
		m.sweep(now)
	}
	e, ok := m.limiters[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[key] = e
	}
	e.lastSeen = now
	m.mu.Unlock()

	return e.limiter.AllowN(now, 1), nil
}

// mu を持った状態で呼ぶ
func (m *MemoryLimiter) sweep(now time.Time) {
	for k, e := range m.limiters {
		if now.Sub(e.lastSeen) >= m.idleTTL {
			delete(m.limiters, k)
		}
	}
	m.lastSweep = now
}

// Redisの固定ウィンドウ（INCR + EXPIRE）。複数インスタンスで共有できる
type RedisLimiter struct {
	client    redis.UniversalClient
	perWindow int64
	window    time.Duration
	prefix    string
	now       func() time.Time
}

func NewRedisLimiter(client redis.UniversalClient, perMinute int) *RedisLimiter {
	return &RedisLimiter{
		client:    client,
		perWindow: int64(perMinute),
		window:    time.Minute,
		prefix:    "ratelimit",
		now:       time.Now,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	bucket := r.now().Unix() / int64(r.window/time.Second)
	redisKey := fmt.Sprintf("%s:%s:%d", r.prefix, key, bucket)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= r.perWindow, nil
}

// 認証済みならuser単位、未認証ならIP単位で数える。
// Limiterが失敗した場合は通す（Redis障害で注文が止まらないように）
func RateLimit(limiter Limiter, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if actor := ActorFrom(c); actor.Authenticated() {
				key = fmt.Sprintf("user:%d", actor.UserID)
			}
			key = c.Request().Method + ":" + c.Path() + ":" + key

			ok, err := limiter.Allow(c.Request().Context(), key)
			if err != nil {
				log.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
				return next(c)
			}
			if !ok {
				return deny(c, http.StatusTooManyRequests, usecase.KindRateLimited, "too many requests")
			}
			return next(c)
		}
	}
}
