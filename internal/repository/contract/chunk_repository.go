package contract

import (
	"context"

	"greenregu-be/internal/entity"
	"greenregu-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChunkRepository interface {
	CreateBulk(ctx context.Context, chunks []*entity.Chunk) error
	DeleteByDocumentId(ctx context.Context, documentId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Chunk, error)
	// ListByDocument returns a document's chunks ordered by chunk_index.
	ListByDocument(ctx context.Context, documentId uuid.UUID) ([]*entity.Chunk, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilarWithScore returns up to limit chunks by descending cosine
	// similarity to embedding. Thresholding is left to the caller.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*entity.ScoredChunk, error)
}
