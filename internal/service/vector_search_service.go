package service

import (
	"context"
	"fmt"

	"greenregu-be/internal/repository/memory"
	"greenregu-be/internal/repository/specification"
	"greenregu-be/internal/repository/unitofwork"
	"greenregu-be/pkg/embedding"
	"greenregu-be/pkg/rag/search"

	"github.com/google/uuid"
)

// ChunkIndex backs the ranker with pgvector: it embeds the query and
// searches the chunks table, and loads chunk records by id.
type ChunkIndex struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	cache             *memory.EmbeddingCache
	cacheKey          string
}

// NewChunkIndex returns the pgvector implementation of search.VectorSearcher
// and search.ChunkFetcher. cacheKey scopes cached query vectors to the
// configured embedding model.
func NewChunkIndex(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	cache *memory.EmbeddingCache,
	cacheKey string,
) *ChunkIndex {
	return &ChunkIndex{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		cache:             cache,
		cacheKey:          cacheKey,
	}
}

func (ci *ChunkIndex) SimilaritySearch(ctx context.Context, query string, k int) ([]search.ScoredID, error) {
	vector, err := ci.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	uow := ci.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.ChunkRepository().SearchSimilarWithScore(ctx, vector, k)
	if err != nil {
		return nil, err
	}

	hits := make([]search.ScoredID, len(scored))
	for i, s := range scored {
		hits[i] = search.ScoredID{ChunkID: s.Chunk.Id.String(), Score: s.Similarity}
	}
	return hits, nil
}

func (ci *ChunkIndex) FetchChunk(ctx context.Context, chunkID string) (*search.Chunk, error) {
	id, err := uuid.Parse(chunkID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", search.ErrChunkNotFound, chunkID)
	}

	uow := ci.uowFactory.NewUnitOfWork(ctx)
	c, err := uow.ChunkRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: %s", search.ErrChunkNotFound, chunkID)
	}

	return &search.Chunk{
		ID:           c.Id.String(),
		DocumentID:   c.DocumentId.String(),
		Content:      c.Content,
		PageNumber:   c.PageNumber,
		SectionTitle: c.SectionTitle,
		ChunkIndex:   c.ChunkIndex,
		LocationData: c.Location,
	}, nil
}

func (ci *ChunkIndex) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if ci.cache != nil {
		if v, ok := ci.cache.Get(ci.cacheKey, query); ok {
			return v, nil
		}
	}

	res, err := ci.embeddingProvider.Generate(ctx, query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	if ci.cache != nil {
		ci.cache.Save(ci.cacheKey, query, res.Embedding.Values)
	}
	return res.Embedding.Values, nil
}
