package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"greenregu-be/internal/dto"
	"greenregu-be/internal/entity"
	"greenregu-be/internal/metrics"
	"greenregu-be/internal/pkg/logger"
	"greenregu-be/internal/repository/specification"
	"greenregu-be/internal/repository/unitofwork"
	"greenregu-be/pkg/llm"
	"greenregu-be/pkg/rag"
	"greenregu-be/pkg/rag/citation"
	ragcontext "greenregu-be/pkg/rag/context"
	"greenregu-be/pkg/rag/prompt"
	"greenregu-be/pkg/rag/search"

	"github.com/google/uuid"
)

const (
	chatModule = "ChatService"

	// NoContextAnswer is returned when retrieval finds nothing above the
	// similarity threshold. The language model is not called.
	NoContextAnswer = "I could not find information relevant to this question in the indexed regulations."

	conversationTitleRunes = 60
	historyMessages        = 10
)

// IRanker is satisfied by *search.Ranker.
type IRanker interface {
	Rank(ctx context.Context, query string, k int) ([]search.Candidate, error)
}

type IChatService interface {
	Chat(ctx context.Context, userId string, req *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, userId string, conversationId uuid.UUID) (*dto.ConversationHistoryResponse, error)
}

type chatService struct {
	uowFactory        unitofwork.RepositoryFactory
	ranker            IRanker
	llmProvider       llm.LLMProvider
	generationTimeout time.Duration
	metrics           *metrics.Metrics
	logger            logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	ranker IRanker,
	llmProvider llm.LLMProvider,
	generationTimeout time.Duration,
	m *metrics.Metrics,
	log logger.ILogger,
) IChatService {
	if generationTimeout <= 0 {
		generationTimeout = 60 * time.Second
	}
	return &chatService{
		uowFactory:        uowFactory,
		ranker:            ranker,
		llmProvider:       llmProvider,
		generationTimeout: generationTimeout,
		metrics:           m,
		logger:            log,
	}
}

func (s *chatService) Chat(ctx context.Context, userId string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	query := strings.TrimSpace(req.Query)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.conversation(ctx, uow, userId, req.ConversationId, query)
	if err != nil {
		return nil, err
	}

	history, err := s.history(ctx, uow, conversation.Id)
	if err != nil {
		return nil, err
	}

	if err := uow.MessageRepository().Create(ctx, &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           entity.MessageRoleUser,
		Content:        query,
		CreatedAt:      time.Now(),
	}); err != nil {
		return nil, err
	}

	started := time.Now()
	candidates, err := s.ranker.Rank(ctx, query, req.TopK)
	s.metrics.ObserveStage("retrieval", started)
	if err != nil {
		s.logger.Error(chatModule, "Retrieval failed", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           err.Error(),
		})
		return nil, err
	}

	status := dto.ChatStatusAnswered
	answer := NoContextAnswer
	var cited []ragcontext.Entry

	if len(candidates) == 0 {
		status = dto.ChatStatusNoRelevantContext
	} else {
		rctx := ragcontext.Build(candidates)
		answer, err = s.generate(ctx, query, rctx, history)
		if err != nil {
			s.logger.Error(chatModule, "Generation failed", map[string]interface{}{
				"conversation_id": conversation.Id.String(),
				"error":           err.Error(),
			})
			return nil, err
		}
		cited = citation.Reconcile(answer, rctx.Entries)
	}

	sources := make(map[int]entity.MessageSource, len(cited))
	response := make([]dto.ChatSource, len(cited))
	for i, e := range cited {
		src := toMessageSource(e)
		sources[e.Index] = src
		response[i] = dto.ChatSource{Index: e.Index, MessageSource: src}
	}

	if err := uow.MessageRepository().Create(ctx, &entity.Message{
		Id:             uuid.New(),
		ConversationId: conversation.Id,
		Role:           entity.MessageRoleAssistant,
		Content:        answer,
		Sources:        sources,
		CreatedAt:      time.Now(),
	}); err != nil {
		return nil, err
	}
	if err := uow.ConversationRepository().Touch(ctx, conversation); err != nil {
		s.logger.Warn(chatModule, "Failed to touch conversation", map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"error":           err.Error(),
		})
	}

	s.metrics.ObserveAnswer(status, len(cited))
	s.logger.Info(chatModule, "Chat answered", map[string]interface{}{
		"conversation_id": conversation.Id.String(),
		"status":          status,
		"candidates":      len(candidates),
		"citations":       len(cited),
	})

	return &dto.ChatResponse{
		Status:         status,
		Response:       answer,
		Sources:        response,
		ConversationId: conversation.Id,
		TokensUsed:     len(strings.Fields(query)) + len(strings.Fields(answer)),
	}, nil
}

func (s *chatService) History(ctx context.Context, userId string, conversationId uuid.UUID) (*dto.ConversationHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx,
		specification.ByID{ID: conversationId},
		specification.OwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, fmt.Errorf("conversation %s: %w", conversationId, entity.ErrNotFound)
	}

	messages, err := uow.MessageRepository().FindAll(ctx, specification.ByConversationID{ConversationID: conversationId})
	if err != nil {
		return nil, err
	}

	res := &dto.ConversationHistoryResponse{
		ConversationId: conversation.Id,
		Title:          conversation.Title,
		Messages:       make([]*dto.ChatMessageResponse, len(messages)),
	}
	for i, m := range messages {
		res.Messages[i] = &dto.ChatMessageResponse{
			Id:        m.Id,
			Role:      m.Role,
			Content:   m.Content,
			Sources:   m.Sources,
			CreatedAt: m.CreatedAt,
		}
	}
	return res, nil
}

// conversation loads the caller's conversation or starts a new one titled
// after the first question.
func (s *chatService) conversation(ctx context.Context, uow unitofwork.UnitOfWork, userId string, id *uuid.UUID, query string) (*entity.Conversation, error) {
	if id != nil {
		conversation, err := uow.ConversationRepository().FindOne(ctx,
			specification.ByID{ID: *id},
			specification.OwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, fmt.Errorf("conversation %s: %w", *id, entity.ErrNotFound)
		}
		return conversation, nil
	}

	conversation := &entity.Conversation{
		Id:        uuid.New(),
		UserId:    userId,
		Title:     conversationTitle(query),
		CreatedAt: time.Now(),
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// history returns the latest messages of the conversation as chat turns.
func (s *chatService) history(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID) ([]llm.Message, error) {
	messages, err := uow.MessageRepository().FindAll(ctx, specification.ByConversationID{ConversationID: conversationId})
	if err != nil {
		return nil, err
	}
	if len(messages) > historyMessages {
		messages = messages[len(messages)-historyMessages:]
	}

	out := make([]llm.Message, len(messages))
	for i, m := range messages {
		out[i] = llm.Message{Role: m.Role, Content: m.Content}
	}
	return out, nil
}

func (s *chatService) generate(ctx context.Context, query string, rctx *ragcontext.Context, history []llm.Message) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, s.generationTimeout)
	defer cancel()

	started := time.Now()
	builder := prompt.NewCitationBuilder(query, rctx, history)
	answer, err := s.llmProvider.Chat(genCtx, builder.Messages())
	s.metrics.ObserveStage("generation", started)
	if err != nil {
		return "", rag.NewBackendError(genCtx, rag.BackendGeneration, err)
	}
	return strings.TrimSpace(answer), nil
}

func toMessageSource(e ragcontext.Entry) entity.MessageSource {
	return entity.MessageSource{
		ChunkId:         e.Source.ChunkID,
		DocumentId:      e.Source.DocumentID,
		PageNumber:      e.Source.PageNumber,
		SectionTitle:    e.Source.SectionTitle,
		Content:         e.Content,
		SimilarityScore: e.Source.SimilarityScore,
		Location:        e.Source.LocationData,
	}
}

func conversationTitle(query string) string {
	if utf8.RuneCountInString(query) <= conversationTitleRunes {
		return query
	}
	runes := []rune(query)
	return strings.TrimSpace(string(runes[:conversationTitleRunes])) + "..."
}
