package services

import (
	"context"
	"errors"
	"fmt"

	"vestiaire/internal/models"
	"vestiaire/internal/storage"

	"gorm.io/gorm"
)

var (
	ErrItemNotFound     = errors.New("item does not exist")
	ErrNotItemOwner     = errors.New("item belongs to another user")
	ErrAlreadyCollected = errors.New("jersey is already in the collection")
	ErrAlreadyWished    = errors.New("jersey is already on the wishlist")
)

// CollectionItemInput carries the collector details attached to an owned
// jersey.
type CollectionItemInput struct {
	Size      string `json:"size"`
	Condition string `json:"condition"`
	Flocking  string `json:"flocking"`
}

// CollectionService manages a user's owned jerseys and wishlist.
type CollectionService interface {
	AddToCollection(ctx context.Context, userID, jerseyID uint, input CollectionItemInput) (*models.CollectionItem, error)
	UpdateCollectionItem(ctx context.Context, userID, itemID uint, input CollectionItemInput) (*models.CollectionItem, error)
	RemoveFromCollection(ctx context.Context, userID, itemID uint) error
	ListCollection(ctx context.Context, userID uint) ([]models.CollectionItem, error)

	AddToWishlist(ctx context.Context, userID, jerseyID uint) (*models.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, userID, itemID uint) error
	ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error)
}

type collectionService struct {
	collectionRepo storage.CollectionRepository
	wishlistRepo   storage.WishlistRepository
	jerseyRepo     storage.JerseyRepository
}

// NewCollectionService creates a new CollectionService instance.
func NewCollectionService(
	collectionRepo storage.CollectionRepository,
	wishlistRepo storage.WishlistRepository,
	jerseyRepo storage.JerseyRepository,
) CollectionService {
	return &collectionService{
		collectionRepo: collectionRepo,
		wishlistRepo:   wishlistRepo,
		jerseyRepo:     jerseyRepo,
	}
}

func (s *collectionService) AddToCollection(ctx context.Context, userID, jerseyID uint, input CollectionItemInput) (*models.CollectionItem, error) {
	if err := s.checkJersey(ctx, jerseyID); err != nil {
		return nil, err
	}

	item := &models.CollectionItem{
		UserID:    userID,
		JerseyID:  jerseyID,
		Size:      input.Size,
		Condition: input.Condition,
		Flocking:  input.Flocking,
	}
	if err := s.collectionRepo.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyCollected
		}
		return nil, fmt.Errorf("failed to add jersey %d to collection of user %d: %w", jerseyID, userID, err)
	}
	return item, nil
}

func (s *collectionService) UpdateCollectionItem(ctx context.Context, userID, itemID uint, input CollectionItemInput) (*models.CollectionItem, error) {
	item, err := s.collectionRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load collection item %d: %w", itemID, err)
	}
	if item.UserID != userID {
		return nil, ErrNotItemOwner
	}

	item.Size = input.Size
	item.Condition = input.Condition
	item.Flocking = input.Flocking
	if err := s.collectionRepo.Save(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update collection item %d: %w", itemID, err)
	}
	return item, nil
}

func (s *collectionService) RemoveFromCollection(ctx context.Context, userID, itemID uint) error {
	item, err := s.collectionRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to load collection item %d: %w", itemID, err)
	}
	if item.UserID != userID {
		return ErrNotItemOwner
	}
	if err := s.collectionRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to remove collection item %d: %w", itemID, err)
	}
	return nil
}

func (s *collectionService) ListCollection(ctx context.Context, userID uint) ([]models.CollectionItem, error) {
	items, err := s.collectionRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection of user %d: %w", userID, err)
	}
	return items, nil
}

func (s *collectionService) AddToWishlist(ctx context.Context, userID, jerseyID uint) (*models.WishlistItem, error) {
	if err := s.checkJersey(ctx, jerseyID); err != nil {
		return nil, err
	}

	item := &models.WishlistItem{UserID: userID, JerseyID: jerseyID}
	if err := s.wishlistRepo.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyWished
		}
		return nil, fmt.Errorf("failed to add jersey %d to wishlist of user %d: %w", jerseyID, userID, err)
	}
	return item, nil
}

func (s *collectionService) RemoveFromWishlist(ctx context.Context, userID, itemID uint) error {
	item, err := s.wishlistRepo.GetByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to load wishlist item %d: %w", itemID, err)
	}
	if item.UserID != userID {
		return ErrNotItemOwner
	}
	if err := s.wishlistRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to remove wishlist item %d: %w", itemID, err)
	}
	return nil
}

func (s *collectionService) ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	items, err := s.wishlistRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist of user %d: %w", userID, err)
	}
	return items, nil
}

func (s *collectionService) checkJersey(ctx context.Context, jerseyID uint) error {
	if _, err := s.jerseyRepo.GetByID(ctx, jerseyID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrJerseyNotFound
		}
		return fmt.Errorf("failed to look up jersey %d: %w", jerseyID, err)
	}
	return nil
}
