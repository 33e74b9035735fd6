package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Id            uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title         string                      `gorm:"type:varchar(255);not null"`
	Description   string                      `gorm:"type:text"`
	Region        string                      `gorm:"type:varchar(100)"`
	Category      string                      `gorm:"type:varchar(100);index"`
	Tags          datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	FileName      string                      `gorm:"type:varchar(255);not null"`
	FilePath      string                      `gorm:"type:text;not null"`
	FileSize      int64                       `gorm:"default:0"`
	Status        string                      `gorm:"type:varchar(20);not null;default:'pending';index"`
	StatusMessage string                      `gorm:"type:text"`
	PageCount     int                         `gorm:"default:0"`
	ChunkCount    int                         `gorm:"default:0"`
	ProcessedAt   *time.Time
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
