package infrastructure

import (
	"sync"
	"time"
)

// ChatRateLimiter implements token bucket rate limiting per chat,
// applied to inbound free-text messages before they hit search.
type ChatRateLimiter struct {
	mu          sync.Mutex
	buckets     map[int64]*tokenBucket
	rate        float64 // tokens per second
	maxTokens   float64 // burst capacity
	cleanupTick time.Duration
}

type tokenBucket struct {
	tokens     float64
	lastUpdate time.Time
}

// NewChatRateLimiter creates a limiter allowing rate messages per
// second with the given burst capacity.
func NewChatRateLimiter(rate float64, burst int) *ChatRateLimiter {
	rl := &ChatRateLimiter{
		buckets:     make(map[int64]*tokenBucket),
		rate:        rate,
		maxTokens:   float64(burst),
		cleanupTick: 5 * time.Minute,
	}

	go rl.cleanup()

	return rl
}

// Allow consumes one token for the chat if available.
func (rl *ChatRateLimiter) Allow(chatID int64) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	bucket, ok := rl.buckets[chatID]
	if !ok {
		rl.buckets[chatID] = &tokenBucket{
			tokens:     rl.maxTokens - 1,
			lastUpdate: now,
		}
		return true
	}

	elapsed := now.Sub(bucket.lastUpdate).Seconds()
	bucket.tokens += elapsed * rl.rate
	if bucket.tokens > rl.maxTokens {
		bucket.tokens = rl.maxTokens
	}
	bucket.lastUpdate = now

	if bucket.tokens >= 1 {
		bucket.tokens--
		return true
	}
	return false
}

// cleanup drops buckets idle for more than 10 minutes.
func (rl *ChatRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTick)
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for chatID, bucket := range rl.buckets {
			if now.Sub(bucket.lastUpdate) > 10*time.Minute {
				delete(rl.buckets, chatID)
			}
		}
		rl.mu.Unlock()
	}
}
