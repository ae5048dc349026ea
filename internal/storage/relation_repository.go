package storage

import (
	"context"
	"errors"

	"vestiaire/internal/models"

	"gorm.io/gorm"
)

// RelationRepository defines the interface for relation data operations.
// FindBetween and LatestPendingForRecipient return (nil, nil) when no row
// matches; absence is a normal answer for them, not an error.
type RelationRepository interface {
	Create(ctx context.Context, relation *models.Relation) error
	GetByID(ctx context.Context, relationID uint) (*models.Relation, error)
	// FindBetween looks up the relation between two users regardless of
	// direction or status.
	FindBetween(ctx context.Context, userID1, userID2 uint) (*models.Relation, error)
	// Save persists all fields of an existing row, including a
	// requester/recipient swap.
	Save(ctx context.Context, relation *models.Relation) error
	// Delete hard-deletes the row.
	Delete(ctx context.Context, relationID uint) error

	CountPendingForRecipient(ctx context.Context, recipientID uint) (int64, error)
	// LatestPendingForRecipient returns the highest-id pending row for the
	// recipient with only id and updated_at populated.
	LatestPendingForRecipient(ctx context.Context, recipientID uint) (*models.Relation, error)
	// ListPendingForRecipient returns up to limit pending rows for the
	// recipient in descending id order, strictly below beforeID when
	// beforeID is non-zero.
	ListPendingForRecipient(ctx context.Context, recipientID uint, beforeID uint, limit int) ([]models.Relation, error)
	// ListAcceptedPartnerIDs returns the ids of users the given user has an
	// accepted relation with.
	ListAcceptedPartnerIDs(ctx context.Context, userID uint) ([]uint, error)
}

type gormRelationRepository struct {
	db *gorm.DB
}

// NewGormRelationRepository creates a new GORM-based RelationRepository.
func NewGormRelationRepository(db *gorm.DB) RelationRepository {
	return &gormRelationRepository{db: db}
}

func (r *gormRelationRepository) Create(ctx context.Context, relation *models.Relation) error {
	return r.db.WithContext(ctx).Create(relation).Error
}

func (r *gormRelationRepository) GetByID(ctx context.Context, relationID uint) (*models.Relation, error) {
	var relation models.Relation
	err := r.db.WithContext(ctx).First(&relation, relationID).Error
	if err != nil {
		return nil, err
	}
	return &relation, nil
}

func (r *gormRelationRepository) FindBetween(ctx context.Context, userID1, userID2 uint) (*models.Relation, error) {
	lo, hi := userID1, userID2
	if lo > hi {
		lo, hi = hi, lo
	}
	var relation models.Relation
	err := r.db.WithContext(ctx).
		Where("pair_lo_id = ? AND pair_hi_id = ?", lo, hi).
		First(&relation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &relation, nil
}

func (r *gormRelationRepository) Save(ctx context.Context, relation *models.Relation) error {
	return r.db.WithContext(ctx).Save(relation).Error
}

func (r *gormRelationRepository) Delete(ctx context.Context, relationID uint) error {
	return r.db.WithContext(ctx).Delete(&models.Relation{}, relationID).Error
}

func (r *gormRelationRepository) CountPendingForRecipient(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Where("recipient_id = ? AND status = ?", recipientID, models.RelationStatusPending).
		Count(&count).Error
	return count, err
}

func (r *gormRelationRepository) LatestPendingForRecipient(ctx context.Context, recipientID uint) (*models.Relation, error) {
	var relation models.Relation
	err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Select("id", "updated_at").
		Where("recipient_id = ? AND status = ?", recipientID, models.RelationStatusPending).
		Order("id DESC").
		First(&relation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &relation, nil
}

func (r *gormRelationRepository) ListPendingForRecipient(ctx context.Context, recipientID uint, beforeID uint, limit int) ([]models.Relation, error) {
	query := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", recipientID, models.RelationStatusPending)
	if beforeID > 0 {
		query = query.Where("id < ?", beforeID)
	}

	var relations []models.Relation
	err := query.Order("id DESC").Limit(limit).Find(&relations).Error
	return relations, err
}

func (r *gormRelationRepository) ListAcceptedPartnerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var requestedIDs []uint
	err := r.db.WithContext(ctx).Model(&models.Relation{}).
		Where("requester_id = ? AND status = ?", userID, models.RelationStatusAccepted).
		Pluck("recipient_id", &requestedIDs).Error
	if err != nil {
		return nil, err
	}

	var receivedIDs []uint
	err = r.db.WithContext(ctx).Model(&models.Relation{}).
		Where("recipient_id = ? AND status = ?", userID, models.RelationStatusAccepted).
		Pluck("requester_id", &receivedIDs).Error
	if err != nil {
		return nil, err
	}

	return append(requestedIDs, receivedIDs...), nil
}
