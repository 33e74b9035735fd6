package service

import (
	"context"
	"errors"
	"fmt"

	"greenregu-be/internal/entity"
	"greenregu-be/internal/pkg/logger"
	"greenregu-be/pkg/events"
	pktNats "greenregu-be/pkg/nats"

	"github.com/google/uuid"
)

const listenerModule = "EventListener"

// IEventSubscriber is the part of the NATS subscriber the listener uses.
type IEventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, durableName string, handler pktNats.EventHandler) error
}

type IEventListenerService interface {
	Start(ctx context.Context) error
}

type eventListenerService struct {
	subscriber      IEventSubscriber
	documentService IDocumentService
	logger          logger.ILogger
}

func NewEventListenerService(subscriber IEventSubscriber, documentService IDocumentService, log logger.ILogger) IEventListenerService {
	return &eventListenerService{
		subscriber:      subscriber,
		documentService: documentService,
		logger:          log,
	}
}

func (l *eventListenerService) Start(ctx context.Context) error {
	return l.subscriber.Subscribe(ctx, events.TypeDocumentReprocessRequested, "greenregu-reprocess", l.handleReprocess)
}

func (l *eventListenerService) handleReprocess(ctx context.Context, event events.BaseEvent) error {
	id, err := uuid.Parse(event.String("document_id"))
	if err != nil {
		// Nothing to retry.
		l.logger.Warn(listenerModule, "Ignoring reprocess request", map[string]interface{}{
			"document_id": event.String("document_id"),
		})
		return nil
	}

	_, err = l.documentService.Reprocess(ctx, id)
	switch {
	case errors.Is(err, entity.ErrNotFound), errors.Is(err, entity.ErrAlreadyRunning):
		l.logger.Info(listenerModule, "Reprocess request dropped", map[string]interface{}{
			"document_id": id.String(),
			"reason":      err.Error(),
		})
		return nil
	case err != nil:
		return fmt.Errorf("reprocess %s: %w", id, err)
	}
	l.logger.Info(listenerModule, "Reprocess queued", map[string]interface{}{"document_id": id.String()})
	return nil
}
