package models

// InputModality associates a catalog entry with one input modality label.
type InputModality struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`         // Primary key.
	ModelID  string `gorm:"type:varchar(255);not null;index"` // Owning catalog entry ID.
	Modality string `gorm:"type:varchar(64);not null;index"`  // Modality label (text, image, ...).
}

// TableName overrides the default table name.
func (InputModality) TableName() string {
	return "input_modalities"
}

// OutputModality associates a catalog entry with one output modality label.
type OutputModality struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`         // Primary key.
	ModelID  string `gorm:"type:varchar(255);not null;index"` // Owning catalog entry ID.
	Modality string `gorm:"type:varchar(64);not null;index"`  // Modality label (text, image, ...).
}

// TableName overrides the default table name.
func (OutputModality) TableName() string {
	return "output_modalities"
}
