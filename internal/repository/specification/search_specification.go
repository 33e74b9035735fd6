package specification

import (
	"strings"

	"gorm.io/gorm"
)

// TitleSearch matches documents whose title or description contains Query,
// case-insensitively.
type TitleSearch struct {
	Query string
}

func (s TitleSearch) Apply(db *gorm.DB) *gorm.DB {
	q := strings.TrimSpace(s.Query)
	if q == "" {
		return db
	}
	pattern := "%" + q + "%"
	return db.Where("(title ILIKE ? OR description ILIKE ?)", pattern, pattern)
}
