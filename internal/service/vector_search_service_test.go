package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"greenregu-be/internal/entity"
	"greenregu-be/internal/repository/memory"
	"greenregu-be/pkg/rag/search"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkIndex_SimilaritySearch(t *testing.T) {
	s := newStore()
	a := &entity.Chunk{Id: uuid.New(), Content: "a"}
	b := &entity.Chunk{Id: uuid.New(), Content: "b"}
	s.scored = []*entity.ScoredChunk{{Chunk: a, Similarity: 0.93}, {Chunk: b, Similarity: 0.41}}
	embedder := &fakeEmbedder{}
	cache := memory.NewEmbeddingCache(time.Minute)
	index := NewChunkIndex(s, embedder, cache, "nomic-embed-text")

	hits, err := index.SimilaritySearch(context.Background(), "grid fees", 5)
	require.NoError(t, err)
	assert.Equal(t, []search.ScoredID{{ChunkID: a.Id.String(), Score: 0.93}, {ChunkID: b.Id.String(), Score: 0.41}}, hits)

	_, err = index.SimilaritySearch(context.Background(), " grid fees ", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.calls)
	assert.Equal(t, 1, cache.Len())
}

func TestChunkIndex_SimilaritySearchErrors(t *testing.T) {
	s := newStore()
	index := NewChunkIndex(s, &fakeEmbedder{err: errors.New("model not loaded")}, nil, "m")

	_, err := index.SimilaritySearch(context.Background(), "q", 5)
	assert.ErrorContains(t, err, "embed query")

	s.failSearch = errors.New("pgvector down")
	index = NewChunkIndex(s, &fakeEmbedder{}, nil, "m")
	_, err = index.SimilaritySearch(context.Background(), "q", 5)
	assert.ErrorIs(t, err, s.failSearch)
}

func TestChunkIndex_FetchChunk(t *testing.T) {
	s := newStore()
	docId := uuid.New()
	stored := &entity.Chunk{Id: uuid.New(), DocumentId: docId, Content: "Article 9", PageNumber: 7, SectionTitle: "Grid", ChunkIndex: 4}
	s.chunks[docId] = []*entity.Chunk{stored}
	index := NewChunkIndex(s, &fakeEmbedder{}, nil, "m")

	got, err := index.FetchChunk(context.Background(), stored.Id.String())
	require.NoError(t, err)
	assert.Equal(t, &search.Chunk{
		ID:           stored.Id.String(),
		DocumentID:   docId.String(),
		Content:      "Article 9",
		PageNumber:   7,
		SectionTitle: "Grid",
		ChunkIndex:   4,
	}, got)

	for _, id := range []string{uuid.NewString(), "bogus"} {
		_, err := index.FetchChunk(context.Background(), id)
		assert.ErrorIs(t, err, search.ErrChunkNotFound, id)
	}
}
