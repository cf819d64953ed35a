package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

// perMillionScale converts per-token prices to per-million-token prices.
const perMillionScale = 1_000_000

// Model is the public representation of one catalog entry.
//
// Prices are per million tokens. A price is nil only when the stored value
// could not be parsed; free prices are an explicit 0.
type Model struct {
	ID              string   `json:"id"`
	Company         *string  `json:"company"`
	Model           *string  `json:"model"`
	CanonicalSlug   *string  `json:"canonical_slug"`
	HuggingFaceID   *string  `json:"hugging_face_id"`
	Name            string   `json:"name"`
	Created         int64    `json:"created"`
	CreatedDate     *string  `json:"created_date"`
	Description     string   `json:"description"`
	ContextLength   int      `json:"context_length"`
	PromptPrice     *float64 `json:"prompt_price"`
	CompletionPrice *float64 `json:"completion_price"`
}

// searchRow is the raw projection returned by the search query.
type searchRow struct {
	ID              string     `gorm:"column:id"`
	Company         *string    `gorm:"column:company"`
	Model           *string    `gorm:"column:model"`
	CanonicalSlug   *string    `gorm:"column:canonical_slug"`
	HuggingFaceID   *string    `gorm:"column:hugging_face_id"`
	Name            string     `gorm:"column:name"`
	Created         int64      `gorm:"column:created"`
	CreatedDate     *time.Time `gorm:"column:created_date"`
	Description     string     `gorm:"column:description"`
	ContextLength   int        `gorm:"column:context_length"`
	PromptPrice     *string    `gorm:"column:prompt_price"`
	CompletionPrice *string    `gorm:"column:completion_price"`
}

// Search runs a filtered catalog query and normalizes the results.
func Search(ctx context.Context, conn *gorm.DB, filter Filter) ([]Model, error) {
	if conn == nil {
		return nil, fmt.Errorf("search catalog: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []searchRow
	if errScan := buildSearchQuery(conn.WithContext(ctx), filter).Scan(&rows).Error; errScan != nil {
		return nil, fmt.Errorf("search catalog: query: %w", errScan)
	}

	out := make([]Model, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toModel())
	}
	return out, nil
}

// toModel converts a raw row into its public representation.
func (r searchRow) toModel() Model {
	model := Model{
		ID:              r.ID,
		Company:         r.Company,
		Model:           r.Model,
		CanonicalSlug:   r.CanonicalSlug,
		HuggingFaceID:   r.HuggingFaceID,
		Name:            r.Name,
		Created:         r.Created,
		Description:     r.Description,
		ContextLength:   r.ContextLength,
		PromptPrice:     NormalizePrice(r.PromptPrice),
		CompletionPrice: NormalizePrice(r.CompletionPrice),
	}
	if r.CreatedDate != nil {
		date := r.CreatedDate.UTC().Format(markerDateLayout)
		model.CreatedDate = &date
	}
	return model
}

// NormalizePrice converts a stored per-token price string into a
// per-million-token value.
//
// NULL, empty, "0", and "0.0" all normalize to 0; an unparseable string
// yields nil instead of an error.
func NormalizePrice(raw *string) *float64 {
	zero := 0.0
	if raw == nil {
		return &zero
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" || trimmed == "0" || trimmed == "0.0" {
		return &zero
	}
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	value *= perMillionScale
	return &value
}
