package entity

import (
	"time"

	"greenregu-be/pkg/chunking"

	"github.com/google/uuid"
)

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

type Conversation struct {
	Id        uuid.UUID
	UserId    string
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// MessageSource is a cited chunk as it was shown with an assistant message.
type MessageSource struct {
	ChunkId         string                 `json:"chunk_id"`
	DocumentId      string                 `json:"document_id"`
	PageNumber      int                    `json:"page_number"`
	SectionTitle    string                 `json:"section_title,omitempty"`
	Content         string                 `json:"content"`
	SimilarityScore float64                `json:"similarity_score"`
	Location        *chunking.LocationData `json:"location_data,omitempty"`
}

type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Role           string
	Content        string
	// Sources maps the context index cited in Content to its chunk.
	Sources   map[int]MessageSource
	CreatedAt time.Time
}
