package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"greenregu-be/internal/entity"
	"greenregu-be/internal/model"
	"greenregu-be/internal/repository/specification"
	"greenregu-be/internal/repository/unitofwork"
	"greenregu-be/pkg/chunking"
	"greenregu-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitVector(hot int) []float32 {
	v := make([]float32, 768)
	v[hot] = 1
	return v
}

func TestGormRepositories(t *testing.T) {
	// Load .env from root
	if err := godotenv.Load("../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.EnsureVectorExtension(gormDB))
	require.NoError(t, gormDB.AutoMigrate(&model.Document{}, &model.Chunk{}, &model.Conversation{}, &model.Message{}))

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(ctx)

	doc := &entity.Document{
		Id:        uuid.New(),
		Title:     "Integration Regulation " + uuid.NewString(),
		Category:  "integration",
		Tags:      []string{"it"},
		FileName:  "it.pdf",
		FilePath:  "/tmp/it.pdf",
		Status:    entity.DocumentStatusPending,
		CreatedAt: time.Now(),
	}
	require.NoError(t, uow.DocumentRepository().Create(ctx, doc))
	t.Cleanup(func() {
		_ = uow.ChunkRepository().DeleteByDocumentId(ctx, doc.Id)
		gormDB.Unscoped().Delete(&model.Document{}, "id = ?", doc.Id)
	})

	t.Run("Unprocessed documents are listed", func(t *testing.T) {
		docs, err := uow.DocumentRepository().FindAll(ctx,
			specification.AwaitingSync{},
			specification.ByCategory{Category: "integration"},
		)
		require.NoError(t, err)
		ids := make([]uuid.UUID, len(docs))
		for i, d := range docs {
			ids[i] = d.Id
		}
		assert.Contains(t, ids, doc.Id)
	})

	t.Run("Chunks are stored and searched", func(t *testing.T) {
		near := entity.NewChunk(doc.Id, chunking.Chunk{
			Content:      "Solar installations above 10 kW require a permit.",
			PageNumber:   1,
			ChunkIndex:   0,
			LocationData: &chunking.LocationData{},
		}, unitVector(0))
		far := entity.NewChunk(doc.Id, chunking.Chunk{Content: "Unrelated annex.", PageNumber: 2, ChunkIndex: 1}, unitVector(1))

		tx := uowFactory.NewUnitOfWork(ctx)
		require.NoError(t, tx.Begin(ctx))
		require.NoError(t, tx.ChunkRepository().CreateBulk(ctx, []*entity.Chunk{near, far}))
		require.NoError(t, tx.Commit())

		listed, err := uow.ChunkRepository().ListByDocument(ctx, doc.Id)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		assert.Equal(t, near.Content, listed[0].Content)
		assert.NotNil(t, listed[0].Location)

		hits, err := uow.ChunkRepository().SearchSimilarWithScore(ctx, unitVector(0), 50)
		require.NoError(t, err)
		require.NotEmpty(t, hits)
		var found *entity.ScoredChunk
		for _, h := range hits {
			if h.Chunk.Id == near.Id {
				found = h
			}
		}
		require.NotNil(t, found)
		assert.InDelta(t, 1.0, found.Similarity, 1e-6)
	})

	t.Run("Status updates", func(t *testing.T) {
		require.NoError(t, uow.DocumentRepository().UpdateStatus(ctx, doc.Id, entity.DocumentStatusFailed, "boom"))
		got, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: doc.Id})
		require.NoError(t, err)
		assert.Equal(t, entity.DocumentStatusFailed, got.Status)
		assert.Equal(t, "boom", got.StatusMessage)

		err = uow.DocumentRepository().UpdateStatus(ctx, uuid.New(), entity.DocumentStatusFailed, "")
		assert.ErrorIs(t, err, entity.ErrNotFound)
	})
}
