package models

// TopProvider stores the top-provider limits reported for one entry.
type TopProvider struct {
	ModelID             string `gorm:"type:varchar(255);primaryKey"` // Owning catalog entry ID.
	ContextLength       int    `gorm:"not null;default:0"`           // Provider context length.
	MaxCompletionTokens int    `gorm:"not null;default:0"`           // Provider completion cap.
	IsModerated         bool   `gorm:"not null;default:false"`       // Whether the provider moderates.
}

// TableName overrides the default table name.
func (TopProvider) TableName() string {
	return "top_providers"
}
