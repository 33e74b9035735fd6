package entity

import (
	"time"

	"github.com/google/uuid"
)

// Processing states of a document.
const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusProcessed  = "processed"
	DocumentStatusFailed     = "failed"
)

type Document struct {
	Id            uuid.UUID
	Title         string
	Description   string
	Region        string
	Category      string
	Tags          []string
	FileName      string
	FilePath      string
	FileSize      int64
	Status        string
	StatusMessage string
	PageCount     int
	ChunkCount    int
	ProcessedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}

// NeedsProcessing reports whether the sync job should pick the document up.
// Failed documents are retried even when an earlier run left chunks behind.
func (d *Document) NeedsProcessing() bool {
	switch d.Status {
	case DocumentStatusFailed:
		return true
	case DocumentStatusPending:
		return d.ChunkCount == 0
	}
	return false
}
