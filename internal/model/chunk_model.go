package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type Chunk struct {
	Id           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentId   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_chunks_document_index,priority:1"`
	ChunkIndex   int             `gorm:"not null;uniqueIndex:idx_chunks_document_index,priority:2"`
	Content      string          `gorm:"type:text;not null"`
	PageNumber   int             `gorm:"not null"`
	SectionTitle string          `gorm:"type:text"`
	Category     string          `gorm:"type:varchar(32)"`
	ElementType  string          `gorm:"type:varchar(32)"`
	StartOffset  int             `gorm:"not null"`
	EndOffset    int             `gorm:"not null"`
	Location     datatypes.JSON  `gorm:"type:jsonb"`
	Font         datatypes.JSON  `gorm:"type:jsonb"`
	Context      datatypes.JSON  `gorm:"type:jsonb"`
	Embedding    pgvector.Vector `gorm:"type:vector(768)"` // embedding.Dimensions
	CreatedAt    time.Time       `gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime"`
}

func (Chunk) TableName() string {
	return "chunks"
}
