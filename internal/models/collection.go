package models

// CollectionItem is a jersey a user owns, with the physical details that
// matter to collectors.
type CollectionItem struct {
	BaseModel
	UserID    uint    `gorm:"not null;uniqueIndex:idx_collection_user_jersey" json:"userId"`
	JerseyID  uint    `gorm:"not null;uniqueIndex:idx_collection_user_jersey" json:"jerseyId"`
	Jersey    *Jersey `gorm:"foreignKey:JerseyID" json:"jersey,omitempty"`
	Size      string  `gorm:"type:varchar(10)" json:"size,omitempty"`      // S, M, L, XL...
	Condition string  `gorm:"type:varchar(20)" json:"condition,omitempty"` // mint, good, worn
	Flocking  string  `gorm:"type:varchar(100)" json:"flocking,omitempty"` // printed player name/number
}

func (CollectionItem) TableName() string {
	return "collection_items"
}

// WishlistItem is a jersey a user wants.
type WishlistItem struct {
	BaseModel
	UserID   uint    `gorm:"not null;uniqueIndex:idx_wishlist_user_jersey" json:"userId"`
	JerseyID uint    `gorm:"not null;uniqueIndex:idx_wishlist_user_jersey" json:"jerseyId"`
	Jersey   *Jersey `gorm:"foreignKey:JerseyID" json:"jersey,omitempty"`
}

func (WishlistItem) TableName() string {
	return "wishlist_items"
}
