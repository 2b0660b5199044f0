package models

// Sequence backs the human readable ids (PROP001, USER001, TX000001)
type Sequence struct {
	Name  string `gorm:"primaryKey;type:varchar(32)"`
	Value int64  `gorm:"not null;default:0"`
}

func (Sequence) TableName() string {
	return "sequences"
}
