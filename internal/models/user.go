package models

// User represents an account in Le Vestiaire.
type User struct {
	BaseModel
	Username       string `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash   string `gorm:"type:varchar(255);not null" json:"-"` // never exposed
	Email          string `gorm:"type:varchar(100);uniqueIndex" json:"email,omitempty"`
	Name           string `gorm:"type:varchar(100)" json:"name,omitempty"`
	Bio            string `gorm:"type:text" json:"bio,omitempty"`
	AvatarKey      string `gorm:"type:varchar(255)" json:"-"` // storage key, signed URLs are derived per request
	FavoriteClubID *uint  `json:"favoriteClubId,omitempty"`
	FavoriteClub   *Club  `gorm:"foreignKey:FavoriteClubID" json:"favoriteClub,omitempty"`
	IsAdmin        bool   `gorm:"not null;default:false" json:"-"`
}

// UserProfile holds the public fields of a user, the shape embedded in feed
// entries and search results.
type UserProfile struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name,omitempty"`
	Bio            string `json:"bio,omitempty"`
	FavoriteClubID *uint  `json:"favoriteClubId,omitempty"`
	AvatarKey      string `json:"-"`
	AvatarURL      string `json:"avatarUrl,omitempty"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Profile projects the public fields of the user.
func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:             u.ID,
		Username:       u.Username,
		Name:           u.Name,
		Bio:            u.Bio,
		FavoriteClubID: u.FavoriteClubID,
		AvatarKey:      u.AvatarKey,
	}
}
