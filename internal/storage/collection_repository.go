package storage

import (
	"context"

	"vestiaire/internal/models"

	"gorm.io/gorm"
)

// CollectionRepository defines the interface for owned-jersey data operations.
type CollectionRepository interface {
	Create(ctx context.Context, item *models.CollectionItem) error
	GetByID(ctx context.Context, id uint) (*models.CollectionItem, error)
	Save(ctx context.Context, item *models.CollectionItem) error
	ListForUser(ctx context.Context, userID uint) ([]models.CollectionItem, error)
	Delete(ctx context.Context, id uint) error
}

type gormCollectionRepository struct {
	db *gorm.DB
}

// NewGormCollectionRepository creates a new GORM-based CollectionRepository.
func NewGormCollectionRepository(db *gorm.DB) CollectionRepository {
	return &gormCollectionRepository{db: db}
}

func (r *gormCollectionRepository) Create(ctx context.Context, item *models.CollectionItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormCollectionRepository) GetByID(ctx context.Context, id uint) (*models.CollectionItem, error) {
	var item models.CollectionItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormCollectionRepository) Save(ctx context.Context, item *models.CollectionItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *gormCollectionRepository) ListForUser(ctx context.Context, userID uint) ([]models.CollectionItem, error) {
	var items []models.CollectionItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Jersey").Preload("Jersey.Club").
		Order("id DESC").
		Find(&items).Error
	return items, err
}

func (r *gormCollectionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.CollectionItem{}, id).Error
}

// WishlistRepository defines the interface for wishlist data operations.
type WishlistRepository interface {
	Create(ctx context.Context, item *models.WishlistItem) error
	GetByID(ctx context.Context, id uint) (*models.WishlistItem, error)
	ListForUser(ctx context.Context, userID uint) ([]models.WishlistItem, error)
	Delete(ctx context.Context, id uint) error
}

type gormWishlistRepository struct {
	db *gorm.DB
}

// NewGormWishlistRepository creates a new GORM-based WishlistRepository.
func NewGormWishlistRepository(db *gorm.DB) WishlistRepository {
	return &gormWishlistRepository{db: db}
}

func (r *gormWishlistRepository) Create(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *gormWishlistRepository) GetByID(ctx context.Context, id uint) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *gormWishlistRepository) ListForUser(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Jersey").Preload("Jersey.Club").
		Order("id DESC").
		Find(&items).Error
	return items, err
}

func (r *gormWishlistRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.WishlistItem{}, id).Error
}
