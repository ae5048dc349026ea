package models

// Club is a reference entry for a football club, attached to profiles,
// jerseys and proposals.
type Club struct {
	BaseModel
	Name    string `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Country string `gorm:"type:varchar(100)" json:"country,omitempty"`
}

func (Club) TableName() string {
	return "clubs"
}
