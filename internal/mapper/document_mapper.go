package mapper

import (
	"time"

	"greenregu-be/internal/entity"
	"greenregu-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	tags := make([]string, len(d.Tags))
	copy(tags, d.Tags)

	return &entity.Document{
		Id:            d.Id,
		Title:         d.Title,
		Description:   d.Description,
		Region:        d.Region,
		Category:      d.Category,
		Tags:          tags,
		FileName:      d.FileName,
		FilePath:      d.FilePath,
		FileSize:      d.FileSize,
		Status:        d.Status,
		StatusMessage: d.StatusMessage,
		PageCount:     d.PageCount,
		ChunkCount:    d.ChunkCount,
		ProcessedAt:   d.ProcessedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
		IsDeleted:     d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Document{
		Id:            d.Id,
		Title:         d.Title,
		Description:   d.Description,
		Region:        d.Region,
		Category:      d.Category,
		Tags:          datatypes.JSONSlice[string](d.Tags),
		FileName:      d.FileName,
		FilePath:      d.FilePath,
		FileSize:      d.FileSize,
		Status:        d.Status,
		StatusMessage: d.StatusMessage,
		PageCount:     d.PageCount,
		ChunkCount:    d.ChunkCount,
		ProcessedAt:   d.ProcessedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     updatedAt,
		DeletedAt:     deletedAt,
	}
}

func (m *DocumentMapper) ToEntities(documents []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(documents))
	for i, d := range documents {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
