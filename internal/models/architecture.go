package models

// Architecture stores the upstream architecture sub-object for one entry.
type Architecture struct {
	ModelID      string  `gorm:"type:varchar(255);primaryKey"` // Owning catalog entry ID.
	Modality     string  `gorm:"type:varchar(64)"`             // Combined modality descriptor.
	Tokenizer    string  `gorm:"type:varchar(64)"`             // Tokenizer family.
	InstructType *string `gorm:"type:varchar(64)"`             // Instruct variant when declared.
}

// TableName overrides the default table name.
func (Architecture) TableName() string {
	return "architectures"
}
