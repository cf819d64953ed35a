package db

import (
	"fmt"

	"github.com/modelmirror/modelmirror/internal/models"
	"gorm.io/gorm"
)

// Migrate creates the snapshot schema and supporting indexes.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}

	if errAutoMigrate := conn.AutoMigrate(
		&models.CatalogEntry{},
		&models.Pricing{},
		&models.InputModality{},
		&models.OutputModality{},
		&models.Architecture{},
		&models.TopProvider{},
		&models.PerRequestLimit{},
		&models.SupportedParameter{},
		&models.RefreshMarker{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}

	// ddl defines an index or DDL statement to apply.
	type ddl struct {
		name string // Human-readable name for error reporting.
		sql  string // SQL to execute.
	}
	ddls := []ddl{
		{
			name: "idx_input_modalities_model_modality",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_input_modalities_model_modality
				ON input_modalities (model_id, modality)
			`,
		},
		{
			name: "idx_output_modalities_model_modality",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_output_modalities_model_modality
				ON output_modalities (model_id, modality)
			`,
		},
		{
			name: "idx_models_company_context_length",
			sql: `
				CREATE INDEX IF NOT EXISTS idx_models_company_context_length
				ON models (company, context_length)
			`,
		},
	}
	for _, item := range ddls {
		if errDDL := conn.Exec(item.sql).Error; errDDL != nil {
			return fmt.Errorf("db: create index %s: %w", item.name, errDDL)
		}
	}

	return nil
}
