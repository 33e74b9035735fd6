package entity

import (
	"time"

	"greenregu-be/pkg/chunking"

	"github.com/google/uuid"
)

type Chunk struct {
	Id           uuid.UUID
	DocumentId   uuid.UUID
	ChunkIndex   int
	Content      string
	PageNumber   int
	SectionTitle string
	Category     string
	ElementType  string
	StartOffset  int
	EndOffset    int
	Location     *chunking.LocationData
	Font         *chunking.FontInfo
	Context      chunking.ChunkContext
	Embedding    []float32
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// NewChunk copies a pipeline chunk into a storable record for documentId.
func NewChunk(documentId uuid.UUID, c chunking.Chunk, embedding []float32) *Chunk {
	return &Chunk{
		Id:           uuid.New(),
		DocumentId:   documentId,
		ChunkIndex:   c.ChunkIndex,
		Content:      c.Content,
		PageNumber:   c.PageNumber,
		SectionTitle: c.SectionTitle,
		Category:     string(c.Category),
		ElementType:  c.ElementType,
		StartOffset:  c.StartOffset,
		EndOffset:    c.EndOffset,
		Location:     c.LocationData,
		Font:         c.FontInfo,
		Context:      c.Context,
		Embedding:    embedding,
	}
}

// ScoredChunk is a chunk with its cosine similarity to a query vector.
type ScoredChunk struct {
	Chunk      *Chunk
	Similarity float64
}
