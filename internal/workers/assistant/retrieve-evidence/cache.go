// internal/workers/assistant/retrieve-evidence/cache.go
package retrieveevidence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"childcare-assistant/internal/common/logger"
	"childcare-assistant/internal/common/metrics"
)

// EmbeddingCache memoizes query vectors in Redis. A nil cache is valid and
// caches nothing. Cache faults are logged and treated as misses; they never
// fail a search.
type EmbeddingCache struct {
	client redis.Cmdable
	model  string
	ttl    time.Duration
	logger logger.Logger
}

// NewEmbeddingCache returns nil when client is nil or ttl is not positive.
func NewEmbeddingCache(client redis.Cmdable, model string, ttl time.Duration, log logger.Logger) *EmbeddingCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &EmbeddingCache{client: client, model: model, ttl: ttl, logger: log}
}

// Key is emb:{model}:{sha256(text)}.
func (c *EmbeddingCache) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + c.model + ":" + hex.EncodeToString(sum[:])
}

func (c *EmbeddingCache) Get(ctx context.Context, text string) ([]float64, bool) {
	if c == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, c.Key(text)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.EmbeddingCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	if err != nil {
		metrics.EmbeddingCache.WithLabelValues("error").Inc()
		c.logger.Warn("embedding cache read failed", map[string]interface{}{"error": err})
		return nil, false
	}

	var vec []float64
	if err := json.Unmarshal([]byte(val), &vec); err != nil || len(vec) == 0 {
		metrics.EmbeddingCache.WithLabelValues("error").Inc()
		return nil, false
	}
	metrics.EmbeddingCache.WithLabelValues("hit").Inc()
	return vec, true
}

func (c *EmbeddingCache) Set(ctx context.Context, text string, vec []float64) {
	if c == nil || len(vec) == 0 {
		return
	}
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, c.Key(text), data, c.ttl).Err(); err != nil {
		metrics.EmbeddingCache.WithLabelValues("error").Inc()
		c.logger.Warn("embedding cache write failed", map[string]interface{}{"error": err})
	}
}
