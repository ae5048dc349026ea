package storage

import (
	"context"

	"vestiaire/internal/models"

	"gorm.io/gorm"
)

// ProposalRepository defines the interface for community proposal data.
type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.Proposal) error
	GetByID(ctx context.Context, id uint) (*models.Proposal, error)
	Save(ctx context.Context, proposal *models.Proposal) error
	ListForUser(ctx context.Context, userID uint) ([]models.Proposal, error)
	ListByStatus(ctx context.Context, status models.ProposalStatus) ([]models.Proposal, error)
}

type gormProposalRepository struct {
	db *gorm.DB
}

// NewGormProposalRepository creates a new GORM-based ProposalRepository.
func NewGormProposalRepository(db *gorm.DB) ProposalRepository {
	return &gormProposalRepository{db: db}
}

func (r *gormProposalRepository) Create(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

func (r *gormProposalRepository) GetByID(ctx context.Context, id uint) (*models.Proposal, error) {
	var proposal models.Proposal
	err := r.db.WithContext(ctx).Preload("Club").First(&proposal, id).Error
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *gormProposalRepository) Save(ctx context.Context, proposal *models.Proposal) error {
	return r.db.WithContext(ctx).Save(proposal).Error
}

func (r *gormProposalRepository) ListForUser(ctx context.Context, userID uint) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Club").
		Order("id DESC").
		Find(&proposals).Error
	return proposals, err
}

func (r *gormProposalRepository) ListByStatus(ctx context.Context, status models.ProposalStatus) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Preload("Club").
		Order("id ASC").
		Find(&proposals).Error
	return proposals, err
}
