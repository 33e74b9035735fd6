package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"greenregu-be/internal/dto"
	"greenregu-be/internal/entity"
	"greenregu-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pdfUpload(name, body string) UploadFile {
	return UploadFile{Name: name, Size: int64(len(body)), Reader: strings.NewReader(body)}
}

func TestDocumentService_Upload(t *testing.T) {
	s := newStore()
	storage := newMemStorage()
	pub := &recordingPublisher{}
	svc := NewDocumentService(s, storage, pub, 1, testLogger())

	res, err := svc.Upload(context.Background(), &dto.UploadDocumentRequest{
		Title:    " Grid Code ",
		Category: "grid",
		Tags:     []string{"tso", "tso", "balancing"},
	}, pdfUpload("grid-code.PDF", "%PDF-1.7 body"))

	require.NoError(t, err)
	assert.Equal(t, "Grid Code", res.Title)
	assert.Equal(t, entity.DocumentStatusPending, res.Status)
	assert.Equal(t, []string{"tso", "balancing"}, res.Tags)
	assert.Equal(t, int64(len("%PDF-1.7 body")), res.FileSize)

	stored := s.document(res.Id)
	require.NotNil(t, stored)
	data, err := storage.Read(stored.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7 body", string(data))
	assert.Equal(t, []uuid.UUID{res.Id}, pub.ids)
}

func TestDocumentService_UploadRejects(t *testing.T) {
	tests := []struct {
		name string
		file UploadFile
	}{
		{name: "wrong extension", file: pdfUpload("notes.docx", "%PDF-1.7")},
		{name: "not a pdf", file: pdfUpload("fake.pdf", "hello world")},
		{name: "empty", file: pdfUpload("empty.pdf", "")},
		{name: "too large", file: UploadFile{Name: "big.pdf", Size: 2 << 20, Reader: strings.NewReader("%PDF-")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			storage := newMemStorage()
			svc := NewDocumentService(s, storage, &recordingPublisher{}, 1, testLogger())

			_, err := svc.Upload(context.Background(), &dto.UploadDocumentRequest{Title: "x"}, tt.file)

			assert.ErrorIs(t, err, entity.ErrInvalidUpload)
			assert.Empty(t, s.documents)
			assert.Empty(t, storage.files)
		})
	}
}

func TestDocumentService_UploadSurvivesQueueFailure(t *testing.T) {
	s := newStore()
	svc := NewDocumentService(s, newMemStorage(), &recordingPublisher{err: errors.New("queue closed")}, 10, testLogger())

	res, err := svc.Upload(context.Background(), &dto.UploadDocumentRequest{Title: "x"}, pdfUpload("a.pdf", "%PDF-1.4"))

	require.NoError(t, err)
	assert.Equal(t, entity.DocumentStatusPending, s.document(res.Id).Status)
}

func TestDocumentService_List(t *testing.T) {
	s := newStore()
	base := time.Now()
	for i, cat := range []string{"solar", "wind", "solar", "solar"} {
		id := uuid.New()
		s.documents[id] = &entity.Document{Id: id, Title: "Doc", Category: cat, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
	}
	svc := NewDocumentService(s, newMemStorage(), &recordingPublisher{}, 10, testLogger())

	res, err := svc.List(context.Background(), &dto.ListDocumentsRequest{Category: "solar", Page: 2, PerPage: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 2, res.Page)
	require.Len(t, res.Items, 1)
	assert.Equal(t, []string{}, res.Items[0].Tags)

	res, err = svc.List(context.Background(), &dto.ListDocumentsRequest{})
	require.NoError(t, err)
	assert.Equal(t, defaultPerPage, res.PerPage)
	assert.Len(t, res.Items, 4)
}

func TestDocumentService_ListOrder(t *testing.T) {
	s := newStore()
	base := time.Now()
	for i, title := range []string{"Wind Act", "Battery Rules", "Solar Code"} {
		id := uuid.New()
		s.documents[id] = &entity.Document{Id: id, Title: title, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
	}
	svc := NewDocumentService(s, newMemStorage(), &recordingPublisher{}, 10, testLogger())

	tests := []struct {
		name string
		sort string
		want []string
	}{
		{name: "newest first by default", sort: "", want: []string{"Solar Code", "Battery Rules", "Wind Act"}},
		{name: "title ascending", sort: "title", want: []string{"Battery Rules", "Solar Code", "Wind Act"}},
		{name: "title descending", sort: "-title", want: []string{"Wind Act", "Solar Code", "Battery Rules"}},
		{name: "oldest first", sort: "created_at", want: []string{"Wind Act", "Battery Rules", "Solar Code"}},
		{name: "unknown column falls back", sort: "file_path", want: []string{"Solar Code", "Battery Rules", "Wind Act"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.List(context.Background(), &dto.ListDocumentsRequest{Sort: tt.sort})

			require.NoError(t, err)
			var got []string
			for _, item := range res.Items {
				got = append(got, item.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListOrder(t *testing.T) {
	assert.Equal(t, specification.OrderBy{Column: "title", Desc: true}, listOrder("-title"))
	assert.Equal(t, specification.OrderBy{Column: "updated_at"}, listOrder("updated_at"))
	assert.Equal(t, specification.OrderBy{Column: "created_at", Desc: true}, listOrder("id; DROP TABLE documents"))
}

func TestDocumentService_ShowAndChunks(t *testing.T) {
	s := newStore()
	storage := newMemStorage()
	doc := seedDocument(s, storage, nil)
	s.chunks[doc.Id] = []*entity.Chunk{
		{Id: uuid.New(), DocumentId: doc.Id, ChunkIndex: 1, Content: "second"},
		{Id: uuid.New(), DocumentId: doc.Id, ChunkIndex: 0, Content: "first"},
	}
	svc := NewDocumentService(s, storage, &recordingPublisher{}, 10, testLogger())

	shown, err := svc.Show(context.Background(), doc.Id)
	require.NoError(t, err)
	assert.Equal(t, doc.Title, shown.Title)

	chunks, err := svc.Chunks(context.Background(), doc.Id)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "first", chunks[0].Content)

	_, err = svc.Show(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entity.ErrNotFound)
	_, err = svc.Chunks(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestDocumentService_Reprocess(t *testing.T) {
	recent := time.Now().Add(-time.Minute)
	stale := time.Now().Add(-2 * staleProcessing)

	tests := []struct {
		name    string
		status  string
		updated *time.Time
		wantErr error
	}{
		{name: "failed document", status: entity.DocumentStatusFailed},
		{name: "processed document", status: entity.DocumentStatusProcessed, updated: &recent},
		{name: "processing right now", status: entity.DocumentStatusProcessing, updated: &recent, wantErr: entity.ErrAlreadyRunning},
		{name: "stuck in processing", status: entity.DocumentStatusProcessing, updated: &stale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore()
			storage := newMemStorage()
			doc := seedDocument(s, storage, func(d *entity.Document) {
				d.Status = tt.status
				d.StatusMessage = "previous error"
				d.UpdatedAt = tt.updated
			})
			pub := &recordingPublisher{}
			svc := NewDocumentService(s, storage, pub, 10, testLogger())

			res, err := svc.Reprocess(context.Background(), doc.Id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, pub.ids)
				assert.Equal(t, tt.status, s.document(doc.Id).Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.DocumentStatusPending, res.Status)
			assert.Empty(t, res.StatusMessage)
			assert.Equal(t, entity.DocumentStatusPending, s.document(doc.Id).Status)
			assert.Equal(t, []uuid.UUID{doc.Id}, pub.ids)
		})
	}
}
