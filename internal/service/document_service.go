package service

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"greenregu-be/internal/dto"
	"greenregu-be/internal/entity"
	"greenregu-be/internal/pkg/logger"
	"greenregu-be/internal/repository/specification"
	"greenregu-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	documentModule = "DocumentService"

	defaultPerPage = 20
	// staleProcessing is how long a document may sit in processing before a
	// reprocess request is allowed to take over.
	staleProcessing = 30 * time.Minute
)

var pdfMagic = []byte("%PDF-")

// UploadFile is the PDF part of an upload request.
type UploadFile struct {
	Name   string
	Size   int64
	Reader io.Reader
}

type IDocumentService interface {
	Upload(ctx context.Context, req *dto.UploadDocumentRequest, file UploadFile) (*dto.DocumentResponse, error)
	List(ctx context.Context, req *dto.ListDocumentsRequest) (*dto.ListDocumentsResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	Chunks(ctx context.Context, id uuid.UUID) ([]*dto.ChunkResponse, error)
	Reprocess(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	storage          IFileStorage
	publisherService IPublisherService
	maxUploadBytes   int64
	logger           logger.ILogger
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	storage IFileStorage,
	publisherService IPublisherService,
	maxUploadMB int,
	log logger.ILogger,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		storage:          storage,
		publisherService: publisherService,
		maxUploadBytes:   int64(maxUploadMB) * 1024 * 1024,
		logger:           log,
	}
}

func (s *documentService) Upload(ctx context.Context, req *dto.UploadDocumentRequest, file UploadFile) (*dto.DocumentResponse, error) {
	if !strings.EqualFold(filepath.Ext(file.Name), ".pdf") {
		return nil, fmt.Errorf("%w: %s is not a .pdf file", entity.ErrInvalidUpload, file.Name)
	}
	if s.maxUploadBytes > 0 && file.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", entity.ErrInvalidUpload, s.maxUploadBytes)
	}

	br := bufio.NewReader(file.Reader)
	head, _ := br.Peek(len(pdfMagic))
	if !bytes.Equal(head, pdfMagic) {
		return nil, fmt.Errorf("%w: content is not a PDF", entity.ErrInvalidUpload)
	}

	documentId := uuid.New()
	path, size, err := s.storage.Save(documentId, br)
	if err != nil {
		return nil, err
	}

	document := &entity.Document{
		Id:          documentId,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Region:      strings.TrimSpace(req.Region),
		Category:    strings.TrimSpace(req.Category),
		Tags:        mergeTags(nil, req.Tags),
		FileName:    filepath.Base(file.Name),
		FilePath:    path,
		FileSize:    size,
		Status:      entity.DocumentStatusPending,
		CreatedAt:   time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().Create(ctx, document); err != nil {
		_ = s.storage.Remove(path)
		return nil, err
	}

	s.enqueue(ctx, document.Id)
	return toDocumentResponse(document), nil
}

func (s *documentService) List(ctx context.Context, req *dto.ListDocumentsRequest) (*dto.ListDocumentsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := req.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}

	filters := []specification.Specification{
		specification.ByCategory{Category: req.Category},
		specification.ByRegion{Region: req.Region},
		specification.HasTag{Tag: req.Tag},
		specification.TitleSearch{Query: req.Query},
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.DocumentRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	documents, err := uow.DocumentRepository().FindAll(ctx, append(filters,
		listOrder(req.Sort),
		specification.Pagination{Limit: perPage, Offset: (page - 1) * perPage},
	)...)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.DocumentResponse, len(documents))
	for i, d := range documents {
		items[i] = toDocumentResponse(d)
	}

	return &dto.ListDocumentsResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: int(math.Ceil(float64(total) / float64(perPage))),
	}, nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	document, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentResponse(document), nil
}

func (s *documentService) Chunks(ctx context.Context, id uuid.UUID) ([]*dto.ChunkResponse, error) {
	if _, err := s.find(ctx, id); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.ChunkRepository().ListByDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ChunkResponse, len(chunks))
	for i, c := range chunks {
		res[i] = &dto.ChunkResponse{
			Id:           c.Id,
			ChunkIndex:   c.ChunkIndex,
			Content:      c.Content,
			PageNumber:   c.PageNumber,
			SectionTitle: c.SectionTitle,
			Category:     c.Category,
			ElementType:  c.ElementType,
			StartOffset:  c.StartOffset,
			EndOffset:    c.EndOffset,
			LocationData: c.Location,
			FontInfo:     c.Font,
			Context:      c.Context,
		}
	}
	return res, nil
}

// Reprocess resets a document to pending and queues it. A document that is
// being processed right now is refused.
func (s *documentService) Reprocess(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	document, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if document.Status == entity.DocumentStatusProcessing && !processingStale(document) {
		return nil, fmt.Errorf("document %s: %w", id, entity.ErrAlreadyRunning)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.DocumentRepository().UpdateStatus(ctx, id, entity.DocumentStatusPending, ""); err != nil {
		return nil, err
	}
	document.Status = entity.DocumentStatusPending
	document.StatusMessage = ""

	s.enqueue(ctx, id)
	return toDocumentResponse(document), nil
}

func (s *documentService) find(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, fmt.Errorf("document %s: %w", id, entity.ErrNotFound)
	}
	return document, nil
}

// enqueue is best effort: a pending document is also found by the sync job.
func (s *documentService) enqueue(ctx context.Context, id uuid.UUID) {
	if err := s.publisherService.PublishDocument(ctx, id); err != nil {
		s.logger.Warn(documentModule, "Failed to enqueue document", map[string]interface{}{
			"document_id": id.String(),
			"error":       err.Error(),
		})
	}
}

var sortableColumns = map[string]bool{"created_at": true, "updated_at": true, "title": true}

// listOrder maps a sort key such as "title" or "-created_at" to an order
// clause. Unknown or empty keys sort newest first.
func listOrder(sort string) specification.OrderBy {
	column := strings.TrimPrefix(sort, "-")
	if !sortableColumns[column] {
		return specification.OrderBy{Column: "created_at", Desc: true}
	}
	return specification.OrderBy{Column: column, Desc: strings.HasPrefix(sort, "-")}
}

func processingStale(d *entity.Document) bool {
	if d.UpdatedAt == nil {
		return true
	}
	return time.Since(*d.UpdatedAt) > staleProcessing
}

func toDocumentResponse(d *entity.Document) *dto.DocumentResponse {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &dto.DocumentResponse{
		Id:            d.Id,
		Title:         d.Title,
		Description:   d.Description,
		Region:        d.Region,
		Category:      d.Category,
		Tags:          tags,
		FileName:      d.FileName,
		FileSize:      d.FileSize,
		Status:        d.Status,
		StatusMessage: d.StatusMessage,
		PageCount:     d.PageCount,
		ChunkCount:    d.ChunkCount,
		ProcessedAt:   d.ProcessedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
