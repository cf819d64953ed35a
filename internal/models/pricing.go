package models

// Pricing stores per-token cost strings for one catalog entry.
//
// Prices arrive from upstream as decimal strings in price-per-token units.
// A NULL, empty, "0", or "0.0" value means the dimension is free.
type Pricing struct {
	ModelID string `gorm:"type:varchar(255);primaryKey"` // Owning catalog entry ID.

	Prompt            *string `gorm:"type:varchar(64)"` // Prompt token price.
	Completion        *string `gorm:"type:varchar(64)"` // Completion token price.
	Request           *string `gorm:"type:varchar(64)"` // Per-request price.
	Image             *string `gorm:"type:varchar(64)"` // Image price.
	WebSearch         *string `gorm:"type:varchar(64)"` // Web search price.
	InternalReasoning *string `gorm:"type:varchar(64)"` // Internal reasoning price.
	InputCacheRead    *string `gorm:"type:varchar(64)"` // Cache read price.
	InputCacheWrite   *string `gorm:"type:varchar(64)"` // Cache write price.
}

// TableName overrides the default table name.
func (Pricing) TableName() string {
	return "pricings"
}
