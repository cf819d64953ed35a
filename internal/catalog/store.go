package catalog

import (
	"context"
	"fmt"

	"github.com/modelmirror/modelmirror/internal/models"
	"gorm.io/gorm"
)

const insertBatchSize = 200

// ReplaceSnapshot swaps the stored catalog for the given snapshot.
//
// The delete-and-reinsert runs inside a single transaction so readers never
// observe a half-replaced catalog.
func ReplaceSnapshot(ctx context.Context, conn *gorm.DB, snapshot *Snapshot) error {
	if conn == nil {
		return fmt.Errorf("replace snapshot: nil db")
	}
	if snapshot == nil {
		return fmt.Errorf("replace snapshot: nil snapshot")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.SupportedParameter{},
			&models.PerRequestLimit{},
			&models.TopProvider{},
			&models.OutputModality{},
			&models.InputModality{},
			&models.Architecture{},
			&models.Pricing{},
			&models.CatalogEntry{},
		} {
			if errDelete := tx.Where("1 = 1").Delete(model).Error; errDelete != nil {
				return fmt.Errorf("replace snapshot: clear table: %w", errDelete)
			}
		}

		if len(snapshot.Entries) > 0 {
			if errCreate := tx.CreateInBatches(snapshot.Entries, insertBatchSize).Error; errCreate != nil {
				return fmt.Errorf("replace snapshot: insert entries: %w", errCreate)
			}
		}
		if len(snapshot.Pricings) > 0 {
			if errCreate := tx.CreateInBatches(snapshot.Pricings, insertBatchSize).Error; errCreate != nil {
				return fmt.Errorf("replace snapshot: insert pricings: %w", errCreate)
			}
		}
		if len(snapshot.Architectures) > 0 {
			if errCreate := tx.CreateInBatches(snapshot.Architectures, insertBatchSize).Error; errCreate != nil {
				return fmt.Errorf("replace snapshot: insert architectures: %w", errCreate)
			}
		}
		if len(snapshot.InputModalities) > 0 {
			if errCreate := tx.CreateInBatches(snapshot.InputModalities, insertBatchSize).Error; errCreate != nil {
				return fmt.Errorf("replace snapshot: insert input modalities: %w", errCreate)
			}
		}
		if len(snapshot.OutputModalities) > 0 {
			if errCreate := tx.CreateInBatches(snapshot.OutputModalities, insertBatchSize).Error; errCreate != nil {
				return fmt.Errorf("replace snapshot: insert output modalities: %w", errCreate)
			}
		}
		if len(snapshot.TopProviders) > 0 {
			if errCreate := tx.CreateInBatches(snapshot.TopProviders, insertBatchSize).Error; errCreate != nil {
				return fmt.Errorf("replace snapshot: insert top providers: %w", errCreate)
			}
		}
		if len(snapshot.PerRequestLimits) > 0 {
			if errCreate := tx.CreateInBatches(snapshot.PerRequestLimits, insertBatchSize).Error; errCreate != nil {
				return fmt.Errorf("replace snapshot: insert per-request limits: %w", errCreate)
			}
		}
		if len(snapshot.SupportedParameters) > 0 {
			if errCreate := tx.CreateInBatches(snapshot.SupportedParameters, insertBatchSize).Error; errCreate != nil {
				return fmt.Errorf("replace snapshot: insert supported parameters: %w", errCreate)
			}
		}

		return nil
	})
}
