package contract

import (
	"context"

	"greenregu-be/internal/entity"
	"greenregu-be/internal/repository/specification"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	Touch(ctx context.Context, conversation *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// FindAll returns messages oldest first.
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
}
