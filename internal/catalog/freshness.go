package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelmirror/modelmirror/internal/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// markerDateLayout is the calendar-date format stored in the refresh marker.
const markerDateLayout = "2006-01-02"

// markerRowID is the fixed ID of the single refresh marker row.
const markerRowID = 1

// LastRefreshDate returns the date of the last successful refresh, or ""
// when no refresh has completed yet.
func LastRefreshDate(ctx context.Context, conn *gorm.DB) (string, error) {
	if conn == nil {
		return "", fmt.Errorf("refresh marker: nil db")
	}
	var marker models.RefreshMarker
	errFind := conn.WithContext(ctx).First(&marker, markerRowID).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if errFind != nil {
		return "", fmt.Errorf("refresh marker: read: %w", errFind)
	}
	return marker.RefreshDate, nil
}

// MarkRefreshed records the given date as the last successful refresh.
func MarkRefreshed(ctx context.Context, conn *gorm.DB, date string) error {
	if conn == nil {
		return fmt.Errorf("refresh marker: nil db")
	}
	marker := models.RefreshMarker{
		ID:          markerRowID,
		RefreshDate: date,
		UpdatedAt:   time.Now().UTC(),
	}
	if errUpsert := conn.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"refresh_date", "updated_at"}),
	}).Create(&marker).Error; errUpsert != nil {
		return fmt.Errorf("refresh marker: upsert: %w", errUpsert)
	}
	return nil
}

// RefreshIfStale runs a full sync when no refresh happened today.
//
// The marker advances only after a successful sync, so a failed fetch is
// retried on the next check instead of being suppressed for a day.
func (s *Syncer) RefreshIfStale(ctx context.Context) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("catalog syncer: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	clock := s.now
	if clock == nil {
		clock = time.Now
	}
	today := clock().UTC().Format(markerDateLayout)

	last, errLast := LastRefreshDate(ctx, s.db)
	if errLast != nil {
		return errLast
	}
	if last == today {
		return nil
	}

	count, errSync := s.SyncOnce(ctx)
	if errSync != nil {
		return errSync
	}
	if errMark := MarkRefreshed(ctx, s.db, today); errMark != nil {
		return errMark
	}

	log.Infof("catalog refreshed: %d entries", count)
	return nil
}

// Rebuild forces a full sync regardless of the marker and advances the
// marker on success.
func (s *Syncer) Rebuild(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, fmt.Errorf("catalog syncer: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	count, errSync := s.SyncOnce(ctx)
	if errSync != nil {
		return 0, errSync
	}

	clock := s.now
	if clock == nil {
		clock = time.Now
	}
	if errMark := MarkRefreshed(ctx, s.db, clock().UTC().Format(markerDateLayout)); errMark != nil {
		return 0, errMark
	}

	log.Infof("catalog rebuilt: %d entries", count)
	return count, nil
}
