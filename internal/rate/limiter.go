package rate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cryptoupi/internal/cache"
)

const namespace = "otp_rate"

var (
	ErrTooSoon = errors.New("please wait before requesting another code")
	ErrBlocked = errors.New("too many code requests")
)

// Limiter throttles challenge requests per subject: a cooldown between
// requests and a cap per window, after which the subject is blocked for
// three windows.
type Limiter struct {
	cache       *cache.Cache
	window      time.Duration
	maxInWindow int
	cooldown    time.Duration
}

func NewLimiter(c *cache.Cache, window time.Duration, max int, cooldown time.Duration) *Limiter {
	return &Limiter{cache: c, window: window, maxInWindow: max, cooldown: cooldown}
}

func (l *Limiter) CanRequest(ctx context.Context, subject string) error {
	blockKey := "block:" + subject
	lastKey := "last:" + subject
	countKey := "count:" + subject

	if ttl, _ := l.cache.GetTTL(ctx, namespace, blockKey); ttl > 0 {
		return fmt.Errorf("%w; try again in %d seconds", ErrBlocked, int(ttl.Seconds()))
	}

	if ttl, _ := l.cache.GetTTL(ctx, namespace, lastKey); ttl > 0 {
		return fmt.Errorf("%w: %d seconds left", ErrTooSoon, int(ttl.Seconds()))
	}

	cnt, err := l.cache.IncrWithExpire(ctx, namespace, countKey, l.window)
	if err != nil {
		return fmt.Errorf("rate counter: %w", err)
	}

	if int(cnt) > l.maxInWindow {
		block := l.window * 3
		_ = l.cache.Set(ctx, namespace, blockKey, "1", block)
		return fmt.Errorf("%w; try again in %d seconds", ErrBlocked, int(block.Seconds()))
	}

	if l.cooldown > 0 {
		_ = l.cache.Set(ctx, namespace, lastKey, "1", l.cooldown)
	}
	return nil
}
