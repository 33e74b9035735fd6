package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// EmbeddingCache memoizes query embeddings so repeated questions skip the
// embedding backend.
type EmbeddingCache struct {
	cache *cache.Cache
}

func NewEmbeddingCache(ttl time.Duration) *EmbeddingCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &EmbeddingCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *EmbeddingCache) key(model, query string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + strings.TrimSpace(query)))
	return hex.EncodeToString(sum[:])
}

func (c *EmbeddingCache) Get(model, query string) ([]float32, bool) {
	if x, found := c.cache.Get(c.key(model, query)); found {
		return x.([]float32), true
	}
	return nil, false
}

func (c *EmbeddingCache) Save(model, query string, vector []float32) {
	c.cache.Set(c.key(model, query), vector, cache.DefaultExpiration)
}

func (c *EmbeddingCache) Len() int {
	return c.cache.ItemCount()
}
