package models

// ProposalStatus defines the review state of a community jersey proposal.
type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusApproved ProposalStatus = "approved"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// Proposal is a community-submitted jersey missing from the catalogue.
// An approved proposal becomes a Jersey row.
type Proposal struct {
	BaseModel
	UserID     uint           `gorm:"not null;index" json:"userId"`
	ClubID     uint           `gorm:"not null" json:"clubId"`
	Club       *Club          `gorm:"foreignKey:ClubID" json:"club,omitempty"`
	Season     string         `gorm:"type:varchar(20);not null" json:"season"`
	Kind       JerseyKind     `gorm:"type:varchar(20);not null" json:"kind"`
	Brand      string         `gorm:"type:varchar(100)" json:"brand,omitempty"`
	Comment    string         `gorm:"type:text" json:"comment,omitempty"`
	Status     ProposalStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	ReviewerID *uint          `json:"reviewerId,omitempty"`
	JerseyID   *uint          `json:"jerseyId,omitempty"` // set when approved
}

func (Proposal) TableName() string {
	return "proposals"
}
