package models

// PerRequestLimit stores one per-request limit key/value pair for an entry.
type PerRequestLimit struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`         // Primary key.
	ModelID    string `gorm:"type:varchar(255);not null;index"` // Owning catalog entry ID.
	LimitKey   string `gorm:"type:varchar(255);not null"`       // Limit name.
	LimitValue string `gorm:"type:varchar(255);not null"`       // Limit value rendered as text.
}

// TableName overrides the default table name.
func (PerRequestLimit) TableName() string {
	return "per_request_limits"
}

// SupportedParameter stores one supported request parameter for an entry.
type SupportedParameter struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`         // Primary key.
	ModelID   string `gorm:"type:varchar(255);not null;index"` // Owning catalog entry ID.
	Parameter string `gorm:"type:varchar(255);not null"`       // Parameter name.
}

// TableName overrides the default table name.
func (SupportedParameter) TableName() string {
	return "supported_parameters"
}
