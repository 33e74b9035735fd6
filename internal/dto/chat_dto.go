package dto

import (
	"time"

	"greenregu-be/internal/entity"

	"github.com/google/uuid"
)

// Chat response statuses. NoRelevantContext is a normal answer, not an
// error.
const (
	ChatStatusAnswered          = "answered"
	ChatStatusNoRelevantContext = "no_relevant_context"
)

type ChatRequest struct {
	Query          string     `json:"query" validate:"required,max=2000"`
	ConversationId *uuid.UUID `json:"conversation_id,omitempty"`
	TopK           int        `json:"top_k,omitempty" validate:"min=0,max=50"`
}

type ChatSource struct {
	Index int `json:"index"`
	entity.MessageSource
}

type ChatResponse struct {
	Status         string       `json:"status"`
	Response       string       `json:"response"`
	Sources        []ChatSource `json:"sources"`
	ConversationId uuid.UUID    `json:"conversation_id"`
	TokensUsed     int          `json:"tokens_used"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID                    `json:"message_id"`
	Role      string                       `json:"role"`
	Content   string                       `json:"content"`
	Sources   map[int]entity.MessageSource `json:"sources,omitempty"`
	CreatedAt time.Time                    `json:"created_at"`
}

type ConversationHistoryResponse struct {
	ConversationId uuid.UUID              `json:"conversation_id"`
	Title          string                 `json:"title"`
	Messages       []*ChatMessageResponse `json:"messages"`
}
