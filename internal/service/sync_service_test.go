package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"greenregu-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	mu     sync.Mutex
	failOn map[uuid.UUID]bool
	seen   []uuid.UUID
}

func (f *fakeProcessor) Process(ctx context.Context, documentId uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, documentId)
	if f.failOn[documentId] {
		return errors.New("extraction failed")
	}
	return nil
}

func (f *fakeProcessor) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.seen)
}

func TestSyncService_SyncUnprocessed(t *testing.T) {
	s := newStore()
	storage := newMemStorage()
	pending := seedDocument(s, storage, nil)
	failed := seedDocument(s, storage, func(d *entity.Document) { d.Status = entity.DocumentStatusFailed })
	seedDocument(s, storage, func(d *entity.Document) { d.Status = entity.DocumentStatusProcessed; d.ChunkCount = 3 })
	seedDocument(s, storage, func(d *entity.Document) { d.Status = entity.DocumentStatusProcessing })
	withChunks := seedDocument(s, storage, nil)
	s.chunks[withChunks.Id] = []*entity.Chunk{{Id: uuid.New(), DocumentId: withChunks.Id}}
	failedReprocess := seedDocument(s, storage, func(d *entity.Document) { d.Status = entity.DocumentStatusFailed; d.ChunkCount = 1 })
	s.chunks[failedReprocess.Id] = []*entity.Chunk{{Id: uuid.New(), DocumentId: failedReprocess.Id}}

	processor := &fakeProcessor{failOn: map[uuid.UUID]bool{failed.Id: true}}
	svc := NewSyncService(s, processor, testLogger())

	res, err := svc.SyncUnprocessed(context.Background())

	require.NoError(t, err)
	assert.Equal(t, SyncResult{Found: 3, Processed: 2, Failed: 1}, res)
	assert.ElementsMatch(t, []uuid.UUID{pending.Id, failed.Id, failedReprocess.Id}, processor.seen)
}

func TestSyncService_Cancelled(t *testing.T) {
	s := newStore()
	seedDocument(s, newMemStorage(), nil)
	processor := &fakeProcessor{}
	svc := NewSyncService(s, processor, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.SyncUnprocessed(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, processor.calls())
}

func TestSyncService_Start(t *testing.T) {
	s := newStore()
	seedDocument(s, newMemStorage(), nil)
	processor := &fakeProcessor{}
	svc := NewSyncService(s, processor, testLogger())

	require.Error(t, svc.Start(context.Background(), "not a schedule"))

	require.NoError(t, svc.Start(context.Background(), "@every 1s"))
	defer svc.Stop()

	assert.Eventually(t, func() bool { return processor.calls() > 0 }, 3*time.Second, 50*time.Millisecond)
}
