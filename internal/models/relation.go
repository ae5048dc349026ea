package models

import (
	"time"

	"gorm.io/gorm"
)

// RelationStatus defines the state of the relationship edge between two users.
type RelationStatus string

const (
	RelationStatusPending  RelationStatus = "pending"
	RelationStatusAccepted RelationStatus = "accepted"
	RelationStatusRejected RelationStatus = "rejected"
	RelationStatusBlocked  RelationStatus = "blocked"
)

// Valid reports whether s is one of the defined statuses.
func (s RelationStatus) Valid() bool {
	switch s {
	case RelationStatusPending, RelationStatusAccepted, RelationStatusRejected, RelationStatusBlocked:
		return true
	}
	return false
}

// Relation is the single row describing the relationship between two users.
// A pending or rejected row is directed (requester proposed to recipient);
// an accepted row is logically undirected; a blocked row keeps the blocker
// in RequesterID.
//
// Relation does not embed BaseModel on purpose: removal must hard-delete the
// row so the unordered-pair unique index frees the slot, and gorm's soft
// delete would keep it occupied.
type Relation struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	RequesterID uint           `gorm:"not null;index:idx_relations_recipient_status,priority:3" json:"requesterId"`
	RecipientID uint           `gorm:"not null;index:idx_relations_recipient_status,priority:1" json:"recipientId"`
	Status      RelationStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_relations_recipient_status,priority:2" json:"status"`

	// PairLoID/PairHiID hold the unordered pair in canonical order. They are
	// derived from RequesterID/RecipientID in BeforeSave; the unique index
	// over them makes one-row-per-pair hold even under concurrent inserts.
	PairLoID uint `gorm:"not null;uniqueIndex:idx_relations_pair" json:"-"`
	PairHiID uint `gorm:"not null;uniqueIndex:idx_relations_pair" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Relation) TableName() string {
	return "relations"
}

// BeforeSave keeps the canonical pair columns in sync with the directed pair.
func (r *Relation) BeforeSave(tx *gorm.DB) error {
	lo, hi := r.RequesterID, r.RecipientID
	if lo > hi {
		lo, hi = hi, lo
	}
	r.PairLoID, r.PairHiID = lo, hi
	return nil
}

// Involves reports whether userID is one of the two participants.
func (r *Relation) Involves(userID uint) bool {
	return r.RequesterID == userID || r.RecipientID == userID
}

// OtherParty returns the participant that is not userID. The caller must
// have checked Involves first.
func (r *Relation) OtherParty(userID uint) uint {
	if r.RequesterID == userID {
		return r.RecipientID
	}
	return r.RequesterID
}
