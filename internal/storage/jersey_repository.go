package storage

import (
	"context"
	"strings"

	"vestiaire/internal/models"

	"gorm.io/gorm"
)

// JerseyFilter narrows a catalogue listing. Zero values mean "no filter".
type JerseyFilter struct {
	ClubID uint
	Season string
	Kind   models.JerseyKind
	Query  string // free-text over brand and club name
}

// JerseyRepository defines the interface for catalogue data operations.
type JerseyRepository interface {
	Create(ctx context.Context, jersey *models.Jersey) error
	GetByID(ctx context.Context, id uint) (*models.Jersey, error)
	List(ctx context.Context, filter JerseyFilter, offset, limit int) ([]models.Jersey, int64, error)
}

type gormJerseyRepository struct {
	db *gorm.DB
}

// NewGormJerseyRepository creates a new GORM-based JerseyRepository.
func NewGormJerseyRepository(db *gorm.DB) JerseyRepository {
	return &gormJerseyRepository{db: db}
}

func (r *gormJerseyRepository) Create(ctx context.Context, jersey *models.Jersey) error {
	return r.db.WithContext(ctx).Create(jersey).Error
}

func (r *gormJerseyRepository) GetByID(ctx context.Context, id uint) (*models.Jersey, error) {
	var jersey models.Jersey
	err := r.db.WithContext(ctx).Preload("Club").First(&jersey, id).Error
	if err != nil {
		return nil, err
	}
	return &jersey, nil
}

func (r *gormJerseyRepository) List(ctx context.Context, filter JerseyFilter, offset, limit int) ([]models.Jersey, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Jersey{}).
		Joins("JOIN clubs ON clubs.id = jerseys.club_id")

	if filter.ClubID > 0 {
		query = query.Where("jerseys.club_id = ?", filter.ClubID)
	}
	if filter.Season != "" {
		query = query.Where("jerseys.season = ?", filter.Season)
	}
	if filter.Kind != "" {
		query = query.Where("jerseys.kind = ?", filter.Kind)
	}
	if filter.Query != "" {
		searchTerm := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(jerseys.brand) LIKE ? OR LOWER(clubs.name) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jerseys []models.Jersey
	err := query.Preload("Club").
		Order("jerseys.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&jerseys).Error
	if err != nil {
		return nil, 0, err
	}
	return jerseys, total, nil
}
