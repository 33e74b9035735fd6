package service

import (
	"context"
	"fmt"

	"greenregu-be/internal/pkg/logger"
	"greenregu-be/internal/repository/specification"
	"greenregu-be/internal/repository/unitofwork"

	"github.com/robfig/cron/v3"
)

const syncModule = "SyncService"

// SyncResult summarizes one sync run.
type SyncResult struct {
	Found     int
	Processed int
	Failed    int
}

type ISyncService interface {
	// SyncUnprocessed processes pending or failed documents that have no
	// chunks, one at a time. Per-document failures are logged and skipped.
	SyncUnprocessed(ctx context.Context) (SyncResult, error)
	// Start runs SyncUnprocessed on a cron schedule until Stop.
	Start(ctx context.Context, schedule string) error
	Stop()
}

type syncService struct {
	uowFactory unitofwork.RepositoryFactory
	processor  IDocumentProcessorService
	logger     logger.ILogger
	cron       *cron.Cron
}

func NewSyncService(
	uowFactory unitofwork.RepositoryFactory,
	processor IDocumentProcessorService,
	log logger.ILogger,
) ISyncService {
	return &syncService{
		uowFactory: uowFactory,
		processor:  processor,
		logger:     log,
	}
}

func (s *syncService) SyncUnprocessed(ctx context.Context) (SyncResult, error) {
	var result SyncResult

	uow := s.uowFactory.NewUnitOfWork(ctx)
	documents, err := uow.DocumentRepository().FindAll(ctx, specification.AwaitingSync{})
	if err != nil {
		return result, fmt.Errorf("list unprocessed documents: %w", err)
	}
	result.Found = len(documents)

	for _, d := range documents {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if !d.NeedsProcessing() {
			continue
		}

		if err := s.processor.Process(ctx, d.Id); err != nil {
			result.Failed++
			s.logger.Warn(syncModule, "Skipping document", map[string]interface{}{
				"document_id": d.Id.String(),
				"error":       err.Error(),
			})
			continue
		}
		result.Processed++
	}

	if result.Found > 0 {
		s.logger.Info(syncModule, "Sync finished", map[string]interface{}{
			"found":     result.Found,
			"processed": result.Processed,
			"failed":    result.Failed,
		})
	}
	return result, nil
}

func (s *syncService) Start(ctx context.Context, schedule string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(schedule, func() {
		if _, err := s.SyncUnprocessed(ctx); err != nil {
			s.logger.Error(syncModule, "Sync run failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}

	s.cron = c
	c.Start()
	s.logger.Info(syncModule, "Sync scheduled", map[string]interface{}{"schedule": schedule})
	return nil
}

func (s *syncService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}
