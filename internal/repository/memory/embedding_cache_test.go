package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEmbeddingCache(t *testing.T) {
	c := NewEmbeddingCache(time.Minute)

	_, ok := c.Get("gemini", "what is a feed-in tariff?")
	assert.False(t, ok)

	c.Save("gemini", "what is a feed-in tariff?", []float32{0.1, 0.2})

	got, ok := c.Get("gemini", "  what is a feed-in tariff?  ")
	assert.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2}, got)

	_, ok = c.Get("ollama", "what is a feed-in tariff?")
	assert.False(t, ok, "entries are scoped per model")
	assert.Equal(t, 1, c.Len())
}

func TestEmbeddingCacheExpires(t *testing.T) {
	c := NewEmbeddingCache(20 * time.Millisecond)
	c.Save("m", "q", []float32{1})
	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("m", "q")
	assert.False(t, ok)
}
