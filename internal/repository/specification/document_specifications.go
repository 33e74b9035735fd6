package specification

import (
	"encoding/json"

	"greenregu-be/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	if s.Category == "" {
		return db
	}
	return db.Where("category = ?", s.Category)
}

type ByStatuses struct {
	Statuses []string
}

func (s ByStatuses) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}

// WithoutChunks keeps documents that have nothing stored in chunks yet.
type WithoutChunks struct{}

func (s WithoutChunks) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("NOT EXISTS (SELECT 1 FROM chunks WHERE chunks.document_id = documents.id)")
}

// AwaitingSync keeps the documents the sync job should process: pending
// uploads that have no chunks yet, and failed runs. A failed reprocess keeps
// its previous chunk set until a retry succeeds and replaces it.
type AwaitingSync struct{}

func (s AwaitingSync) Apply(db *gorm.DB) *gorm.DB {
	group := db.Session(&gorm.Session{NewDB: true})
	pending := WithoutChunks{}.Apply(ByStatuses{Statuses: []string{entity.DocumentStatusPending}}.Apply(group))
	return db.Where(pending.Or("status = ?", entity.DocumentStatusFailed))
}

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

type ByRegion struct {
	Region string
}

func (s ByRegion) Apply(db *gorm.DB) *gorm.DB {
	if s.Region == "" {
		return db
	}
	return db.Where("region = ?", s.Region)
}

// HasTag keeps documents whose tags array contains Tag.
type HasTag struct {
	Tag string
}

func (s HasTag) Apply(db *gorm.DB) *gorm.DB {
	if s.Tag == "" {
		return db
	}
	raw, _ := json.Marshal([]string{s.Tag})
	return db.Where("tags @> ?", string(raw))
}
