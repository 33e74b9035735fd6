package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"greenregu-be/internal/entity"
	"greenregu-be/internal/metrics"
	"greenregu-be/internal/pkg/logger"
	"greenregu-be/internal/repository/specification"
	"greenregu-be/internal/repository/unitofwork"
	"greenregu-be/pkg/embedding"
	"greenregu-be/pkg/events"
	"greenregu-be/pkg/rag/metadata"

	"github.com/google/uuid"
)

const processorModule = "DocumentProcessor"

// IEventPublisher is the part of the NATS publisher the services use.
type IEventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// IMetadataExtractor is satisfied by *metadata.Extractor.
type IMetadataExtractor interface {
	Extract(ctx context.Context, text string) (*metadata.Metadata, error)
}

type IDocumentProcessorService interface {
	// Process replaces a document's chunk set. Extraction failures mark the
	// document failed and are returned.
	Process(ctx context.Context, documentId uuid.UUID) error
}

type documentProcessorService struct {
	uowFactory        unitofwork.RepositoryFactory
	storage           IFileStorage
	chunker           IChunker
	embeddingProvider embedding.EmbeddingProvider
	metadataExtractor IMetadataExtractor
	events            IEventPublisher
	metrics           *metrics.Metrics
	logger            logger.ILogger
}

// NewDocumentProcessorService wires the pipeline. metadataExtractor and
// eventPublisher may be nil.
func NewDocumentProcessorService(
	uowFactory unitofwork.RepositoryFactory,
	storage IFileStorage,
	chunker IChunker,
	embeddingProvider embedding.EmbeddingProvider,
	metadataExtractor IMetadataExtractor,
	eventPublisher IEventPublisher,
	m *metrics.Metrics,
	log logger.ILogger,
) IDocumentProcessorService {
	return &documentProcessorService{
		uowFactory:        uowFactory,
		storage:           storage,
		chunker:           chunker,
		embeddingProvider: embeddingProvider,
		metadataExtractor: metadataExtractor,
		events:            eventPublisher,
		metrics:           m,
		logger:            log,
	}
}

func (s *documentProcessorService) Process(ctx context.Context, documentId uuid.UUID) error {
	started := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: documentId})
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("document %s: %w", documentId, entity.ErrNotFound)
	}

	if err := uow.DocumentRepository().UpdateStatus(ctx, documentId, entity.DocumentStatusProcessing, ""); err != nil {
		return err
	}

	s.logger.Info(processorModule, "Processing document", map[string]interface{}{
		"document_id": documentId.String(),
		"file":        document.FileName,
	})

	data, err := s.storage.Read(document.FilePath)
	if err != nil {
		return s.fail(ctx, document, started, fmt.Errorf("read file: %w", err))
	}

	chunked, err := s.chunker.Chunk(ctx, documentId.String(), data)
	if err != nil {
		return s.fail(ctx, document, started, err)
	}

	records := make([]*entity.Chunk, len(chunked.Chunks))
	for i, c := range chunked.Chunks {
		res, err := s.embeddingProvider.Generate(ctx, c.Content, embedding.TaskRetrievalDocument)
		if err != nil {
			return s.fail(ctx, document, started, fmt.Errorf("embed chunk %d: %w", c.ChunkIndex, err))
		}
		records[i] = entity.NewChunk(documentId, c, res.Embedding.Values)
	}

	s.applyMetadata(ctx, document, chunked.Text)

	now := time.Now()
	document.Status = entity.DocumentStatusProcessed
	document.StatusMessage = ""
	document.PageCount = chunked.PageCount
	document.ChunkCount = len(records)
	document.ProcessedAt = &now

	if err := s.store(ctx, document, records); err != nil {
		return s.fail(ctx, document, started, err)
	}

	s.metrics.ObserveDocument(entity.DocumentStatusProcessed, len(records), started)
	s.publish(ctx, events.DocumentProcessed{
		DocumentID: documentId.String(),
		ChunkCount: len(records),
		PageCount:  chunked.PageCount,
		OccurredAt: now,
	})

	s.logger.Info(processorModule, "Document processed", map[string]interface{}{
		"document_id": documentId.String(),
		"pages":       chunked.PageCount,
		"chunks":      len(records),
		"duration_ms": time.Since(started).Milliseconds(),
	})
	return nil
}

// store swaps the chunk set and document row in one transaction.
func (s *documentProcessorService) store(ctx context.Context, document *entity.Document, records []*entity.Chunk) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = uow.Rollback() }()

	if err := uow.ChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		return fmt.Errorf("delete old chunks: %w", err)
	}
	if err := uow.ChunkRepository().CreateBulk(ctx, records); err != nil {
		return fmt.Errorf("create chunks: %w", err)
	}
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	return uow.Commit()
}

// applyMetadata fills empty descriptive fields from the language model.
// Any failure leaves the document as it was.
func (s *documentProcessorService) applyMetadata(ctx context.Context, document *entity.Document, text string) {
	if s.metadataExtractor == nil || text == "" {
		return
	}

	md, err := s.metadataExtractor.Extract(ctx, text)
	if err != nil {
		s.logger.Warn(processorModule, "Metadata extraction skipped", map[string]interface{}{
			"document_id": document.Id.String(),
			"error":       err.Error(),
			"malformed":   errors.Is(err, metadata.ErrMalformedMetadata),
		})
		return
	}

	if document.Title == "" {
		document.Title = md.Title
	}
	if document.Description == "" {
		document.Description = md.Description
	}
	if document.Region == "" {
		document.Region = md.Region
	}
	if document.Category == "" {
		document.Category = md.Category
	}
	document.Tags = mergeTags(document.Tags, md.Tags)
}

func (s *documentProcessorService) fail(ctx context.Context, document *entity.Document, started time.Time, cause error) error {
	s.logger.Error(processorModule, "Document processing failed", map[string]interface{}{
		"document_id": document.Id.String(),
		"error":       cause.Error(),
	})

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().UpdateStatus(context.WithoutCancel(ctx), document.Id, entity.DocumentStatusFailed, cause.Error()); err != nil {
		s.logger.Error(processorModule, "Failed to mark document failed", map[string]interface{}{
			"document_id": document.Id.String(),
			"error":       err.Error(),
		})
	}

	s.metrics.ObserveDocument(entity.DocumentStatusFailed, 0, started)
	s.publish(ctx, events.DocumentFailed{
		DocumentID: document.Id.String(),
		Reason:     cause.Error(),
		OccurredAt: time.Now(),
	})
	return cause
}

func (s *documentProcessorService) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn(processorModule, "Failed to publish event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}

func mergeTags(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(extra))
	out := make([]string, 0, len(existing)+len(extra))
	for _, list := range [][]string{existing, extra} {
		for _, t := range list {
			if _, dup := seen[t]; dup || t == "" {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	return out
}
