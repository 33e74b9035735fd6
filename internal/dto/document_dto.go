package dto

import (
	"time"

	"greenregu-be/pkg/chunking"

	"github.com/google/uuid"
)

// UploadDocumentRequest holds the form fields sent with the PDF.
type UploadDocumentRequest struct {
	Title       string   `form:"title" validate:"required,max=255"`
	Description string   `form:"description" validate:"max=2000"`
	Region      string   `form:"region" validate:"max=100"`
	Category    string   `form:"category" validate:"max=100"`
	Tags        []string `form:"tags" validate:"max=20,dive,max=50"`
}

type ListDocumentsRequest struct {
	Query    string `query:"q"`
	Category string `query:"category"`
	Region   string `query:"region"`
	Tag      string `query:"tag"`
	Sort     string `query:"sort" validate:"omitempty,oneof=created_at -created_at title -title updated_at -updated_at"`
	Page     int    `query:"page" validate:"min=0"`
	PerPage  int    `query:"per_page" validate:"min=0,max=100"`
}

type DocumentResponse struct {
	Id            uuid.UUID  `json:"document_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Region        string     `json:"region,omitempty"`
	Category      string     `json:"category,omitempty"`
	Tags          []string   `json:"tags"`
	FileName      string     `json:"file_name"`
	FileSize      int64      `json:"file_size"`
	Status        string     `json:"status"`
	StatusMessage string     `json:"status_message,omitempty"`
	PageCount     int        `json:"page_count"`
	ChunkCount    int        `json:"chunk_count"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

type ListDocumentsResponse struct {
	Items      []*DocumentResponse `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PerPage    int                 `json:"per_page"`
	TotalPages int                 `json:"total_pages"`
}

type ChunkResponse struct {
	Id           uuid.UUID              `json:"chunk_id"`
	ChunkIndex   int                    `json:"chunk_index"`
	Content      string                 `json:"content"`
	PageNumber   int                    `json:"page_number"`
	SectionTitle string                 `json:"section_title,omitempty"`
	Category     string                 `json:"category"`
	ElementType  string                 `json:"element_type,omitempty"`
	StartOffset  int                    `json:"start_offset"`
	EndOffset    int                    `json:"end_offset"`
	LocationData *chunking.LocationData `json:"location_data,omitempty"`
	FontInfo     *chunking.FontInfo     `json:"font_info,omitempty"`
	Context      chunking.ChunkContext  `json:"context"`
}

// ProcessDocumentMessage is the payload of the processing topic.
type ProcessDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
