package storage

import (
	"context"

	"vestiaire/internal/models"

	"gorm.io/gorm"
)

// ClubRepository defines the interface for club reference data.
type ClubRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Club, error)
	List(ctx context.Context) ([]models.Club, error)
}

type gormClubRepository struct {
	db *gorm.DB
}

// NewGormClubRepository creates a new GORM-based ClubRepository.
func NewGormClubRepository(db *gorm.DB) ClubRepository {
	return &gormClubRepository{db: db}
}

func (r *gormClubRepository) GetByID(ctx context.Context, id uint) (*models.Club, error) {
	var club models.Club
	err := r.db.WithContext(ctx).First(&club, id).Error
	if err != nil {
		return nil, err
	}
	return &club, nil
}

func (r *gormClubRepository) List(ctx context.Context) ([]models.Club, error) {
	var clubs []models.Club
	err := r.db.WithContext(ctx).Order("name ASC").Find(&clubs).Error
	return clubs, err
}
