package models

// JerseyKind classifies a jersey within a season's set.
type JerseyKind string

const (
	JerseyKindHome       JerseyKind = "home"
	JerseyKindAway       JerseyKind = "away"
	JerseyKindThird      JerseyKind = "third"
	JerseyKindGoalkeeper JerseyKind = "goalkeeper"
)

// Valid reports whether k is one of the defined kinds.
func (k JerseyKind) Valid() bool {
	switch k {
	case JerseyKindHome, JerseyKindAway, JerseyKindThird, JerseyKindGoalkeeper:
		return true
	}
	return false
}

// Jersey is a catalogue entry: one club's jersey for one season.
type Jersey struct {
	BaseModel
	ClubID   uint       `gorm:"not null;index:idx_jerseys_club_season" json:"clubId"`
	Club     *Club      `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	Season   string     `gorm:"type:varchar(20);not null;index:idx_jerseys_club_season" json:"season"` // e.g. "2005-2006"
	Kind     JerseyKind `gorm:"type:varchar(20);not null" json:"kind"`
	Brand    string     `gorm:"type:varchar(100)" json:"brand,omitempty"`
	ImageKey string     `gorm:"type:varchar(255)" json:"-"`
}

func (Jersey) TableName() string {
	return "jerseys"
}
