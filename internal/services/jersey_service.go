package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"vestiaire/internal/config"
	"vestiaire/internal/models"
	"vestiaire/internal/storage"
	"vestiaire/internal/vtypes"

	"gorm.io/gorm"
)

var ErrJerseyNotFound = errors.New("jersey does not exist")

const (
	DefaultCataloguePageSize = 24
	MaxCataloguePageSize     = 100
)

// CataloguePage is one page of the jersey catalogue.
type CataloguePage struct {
	Jerseys  []models.Jersey `json:"jerseys"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

// JerseyService exposes the read-mostly jersey catalogue and club reference
// data. Writes happen through proposal approval only.
type JerseyService interface {
	GetJersey(ctx context.Context, jerseyID uint) (*models.Jersey, error)
	// ListJerseys returns the filtered catalogue, page numbering from 1.
	ListJerseys(ctx context.Context, filter storage.JerseyFilter, page, pageSize int) (*CataloguePage, error)
	ListClubs(ctx context.Context) ([]models.Club, error)
	// ImageURL signs the jersey's image key, or returns "" when it has none.
	ImageURL(ctx context.Context, jersey *models.Jersey) string
}

type jerseyService struct {
	jerseyRepo storage.JerseyRepository
	clubRepo   storage.ClubRepository
	storageSvc vtypes.StorageService
	storageCfg config.StorageConfig
}

// NewJerseyService creates a new JerseyService instance.
func NewJerseyService(
	jerseyRepo storage.JerseyRepository,
	clubRepo storage.ClubRepository,
	storageSvc vtypes.StorageService,
	storageCfg config.StorageConfig,
) JerseyService {
	return &jerseyService{
		jerseyRepo: jerseyRepo,
		clubRepo:   clubRepo,
		storageSvc: storageSvc,
		storageCfg: storageCfg,
	}
}

func (s *jerseyService) GetJersey(ctx context.Context, jerseyID uint) (*models.Jersey, error) {
	jersey, err := s.jerseyRepo.GetByID(ctx, jerseyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJerseyNotFound
		}
		return nil, fmt.Errorf("failed to load jersey %d: %w", jerseyID, err)
	}
	return jersey, nil
}

func (s *jerseyService) ListJerseys(ctx context.Context, filter storage.JerseyFilter, page, pageSize int) (*CataloguePage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultCataloguePageSize
	}
	if pageSize > MaxCataloguePageSize {
		pageSize = MaxCataloguePageSize
	}

	jerseys, total, err := s.jerseyRepo.List(ctx, filter, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list jerseys: %w", err)
	}

	return &CataloguePage{
		Jerseys:  jerseys,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *jerseyService) ListClubs(ctx context.Context) ([]models.Club, error) {
	clubs, err := s.clubRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}
	return clubs, nil
}

func (s *jerseyService) ImageURL(ctx context.Context, jersey *models.Jersey) string {
	if jersey == nil || jersey.ImageKey == "" || s.storageSvc == nil {
		return ""
	}
	url, err := s.storageSvc.SignedURL(ctx, jersey.ImageKey, s.storageCfg.SignedURLExpiry)
	if err != nil {
		log.Printf("Failed to sign image URL for jersey %d: %v", jersey.ID, err)
		return ""
	}
	return url
}
