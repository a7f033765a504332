package model

import (
	"time"

	"github.com/google/uuid"
)

// Category is a named grouping for purchases (e.g. "Electronics").
// A starter set is seeded at startup; a purchase may reference at most one.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description *string
	CreatedAt   time.Time
}

// TableName keeps the plural GORM gives similar models.
func (Category) TableName() string { return "categories" }
