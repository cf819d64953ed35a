package models

import (
	"time"

	"gorm.io/datatypes"
)

// CatalogEntry stores one mirrored model record from the upstream catalog.
type CatalogEntry struct {
	ID string `gorm:"type:varchar(255);primaryKey"` // Upstream identifier (<company>/<model-slug>).

	Company *string `gorm:"type:varchar(255);index"` // Company derived from the identifier.
	Model   *string `gorm:"type:varchar(255)"`       // Model slug derived from the identifier.

	CanonicalSlug *string `gorm:"type:varchar(255)"` // Canonical slug when provided upstream.
	HuggingFaceID *string `gorm:"type:varchar(255)"` // Hugging Face identifier when provided.

	Name          string     `gorm:"type:varchar(255);not null"` // Display name.
	Created       int64      `gorm:"not null;default:0"`         // Creation timestamp (epoch seconds).
	CreatedDate   *time.Time ``                                  // Creation date derived from Created.
	Description   string     `gorm:"type:text"`                  // Free-text description.
	ContextLength int        `gorm:"not null;default:0;index"`   // Context length in tokens.

	Extra datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"` // Unrecognized upstream fields.
}

// TableName overrides the default table name.
func (CatalogEntry) TableName() string {
	return "models"
}
