package mapper

import (
	"encoding/json"
	"time"

	"greenregu-be/internal/entity"
	"greenregu-be/internal/model"
	"greenregu-be/pkg/chunking"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ChunkMapper struct{}

func NewChunkMapper() *ChunkMapper {
	return &ChunkMapper{}
}

func (m *ChunkMapper) ToEntity(c *model.Chunk) *entity.Chunk {
	if c == nil {
		return nil
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	var location *chunking.LocationData
	if len(c.Location) > 0 && string(c.Location) != "null" {
		location = &chunking.LocationData{}
		if err := json.Unmarshal(c.Location, location); err != nil {
			location = nil
		}
	}

	var font *chunking.FontInfo
	if len(c.Font) > 0 && string(c.Font) != "null" {
		font = &chunking.FontInfo{}
		if err := json.Unmarshal(c.Font, font); err != nil {
			font = nil
		}
	}

	var chunkContext chunking.ChunkContext
	if len(c.Context) > 0 {
		_ = json.Unmarshal(c.Context, &chunkContext)
	}

	return &entity.Chunk{
		Id:           c.Id,
		DocumentId:   c.DocumentId,
		ChunkIndex:   c.ChunkIndex,
		Content:      c.Content,
		PageNumber:   c.PageNumber,
		SectionTitle: c.SectionTitle,
		Category:     c.Category,
		ElementType:  c.ElementType,
		StartOffset:  c.StartOffset,
		EndOffset:    c.EndOffset,
		Location:     location,
		Font:         font,
		Context:      chunkContext,
		Embedding:    c.Embedding.Slice(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ChunkMapper) ToModel(c *entity.Chunk) *model.Chunk {
	if c == nil {
		return nil
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Chunk{
		Id:           c.Id,
		DocumentId:   c.DocumentId,
		ChunkIndex:   c.ChunkIndex,
		Content:      c.Content,
		PageNumber:   c.PageNumber,
		SectionTitle: c.SectionTitle,
		Category:     c.Category,
		ElementType:  c.ElementType,
		StartOffset:  c.StartOffset,
		EndOffset:    c.EndOffset,
		Location:     jsonOrNil(c.Location),
		Font:         jsonOrNil(c.Font),
		Context:      jsonOrNil(c.Context),
		Embedding:    pgvector.NewVector(c.Embedding),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ChunkMapper) ToEntities(chunks []*model.Chunk) []*entity.Chunk {
	entities := make([]*entity.Chunk, len(chunks))
	for i, c := range chunks {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

func (m *ChunkMapper) ToModels(chunks []*entity.Chunk) []*model.Chunk {
	models := make([]*model.Chunk, len(chunks))
	for i, c := range chunks {
		models[i] = m.ToModel(c)
	}
	return models
}

// jsonOrNil stores nil pointers as SQL NULL.
func jsonOrNil[T any](v T) datatypes.JSON {
	raw, err := json.Marshal(v)
	if err != nil || string(raw) == "null" {
		return nil
	}
	return datatypes.JSON(raw)
}
