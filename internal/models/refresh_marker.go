package models

import "time"

// RefreshMarker records the calendar date of the last successful ingestion.
//
// A single row (ID 1) is kept; it is read and overwritten, no history.
type RefreshMarker struct {
	ID          uint64    `gorm:"primaryKey"`                // Fixed row ID.
	RefreshDate string    `gorm:"type:varchar(10);not null"` // Date of last refresh (YYYY-MM-DD).
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime"`   // Last update timestamp.
}

// TableName overrides the default table name.
func (RefreshMarker) TableName() string {
	return "refresh_markers"
}
