package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"vestiaire/internal/config"
	"vestiaire/internal/models"
	"vestiaire/internal/storage"
	"vestiaire/internal/vtypes"

	"gorm.io/gorm"
)

var ErrClubNotFound = errors.New("club does not exist")

// ProfileUpdate carries the editable profile fields. Nil means "leave as is".
type ProfileUpdate struct {
	Name           *string `json:"name"`
	Bio            *string `json:"bio"`
	FavoriteClubID *uint   `json:"favoriteClubId"`
}

// UserService handles profile reads and updates.
type UserService interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error)
	SearchUsers(ctx context.Context, query string, currentUserID uint) ([]*models.UserProfile, error)
	// UpdateAvatar stores the uploaded image, points the user at the new
	// key and deletes the previous object best-effort.
	UpdateAvatar(ctx context.Context, userID uint, reader io.Reader, fileSize int64, fileName, mimeType string) (*models.User, error)
}

type userService struct {
	userRepo   storage.UserRepository
	clubRepo   storage.ClubRepository
	storageSvc vtypes.StorageService
	storageCfg config.StorageConfig
}

// NewUserService creates a new UserService instance.
func NewUserService(
	userRepo storage.UserRepository,
	clubRepo storage.ClubRepository,
	storageSvc vtypes.StorageService,
	storageCfg config.StorageConfig,
) UserService {
	return &userService{
		userRepo:   userRepo,
		clubRepo:   clubRepo,
		storageSvc: storageSvc,
		storageCfg: storageCfg,
	}
}

func (s *userService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", userID, err)
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (*models.UserProfile, error) {
	profile, err := s.userRepo.GetProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile %d: %w", userID, err)
	}
	s.attachAvatarURL(ctx, profile)
	return profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.FavoriteClubID != nil {
		if *update.FavoriteClubID == 0 {
			user.FavoriteClubID = nil
		} else {
			if _, err := s.clubRepo.GetByID(ctx, *update.FavoriteClubID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrClubNotFound
				}
				return nil, fmt.Errorf("failed to look up club %d: %w", *update.FavoriteClubID, err)
			}
			user.FavoriteClubID = update.FavoriteClubID
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
	}
	return user, nil
}

func (s *userService) SearchUsers(ctx context.Context, query string, currentUserID uint) ([]*models.UserProfile, error) {
	users, err := s.userRepo.SearchUsers(ctx, query, currentUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	profiles := make([]*models.UserProfile, 0, len(users))
	for i := range users {
		profile := users[i].Profile()
		s.attachAvatarURL(ctx, &profile)
		profiles = append(profiles, &profile)
	}
	return profiles, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, userID uint, reader io.Reader, fileSize int64, fileName, mimeType string) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	info, err := s.storageSvc.UploadFile(ctx, reader, fileSize, fileName, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar for user %d: %w", userID, err)
	}

	oldKey := user.AvatarKey
	user.AvatarKey = info.Key
	if err := s.userRepo.Update(ctx, user); err != nil {
		// The orphaned upload is cleaned up so a failed update leaves no
		// unreferenced file behind.
		if delErr := s.storageSvc.DeleteFile(ctx, info.Key); delErr != nil {
			log.Printf("Failed to clean up avatar %s after update failure: %v", info.Key, delErr)
		}
		return nil, fmt.Errorf("failed to update avatar of user %d: %w", userID, err)
	}

	if oldKey != "" {
		if err := s.storageSvc.DeleteFile(ctx, oldKey); err != nil {
			log.Printf("Failed to delete previous avatar %s of user %d: %v", oldKey, userID, err)
		}
	}
	return user, nil
}

func (s *userService) attachAvatarURL(ctx context.Context, profile *models.UserProfile) {
	if profile == nil || profile.AvatarKey == "" || s.storageSvc == nil {
		return
	}
	url, err := s.storageSvc.SignedURL(ctx, profile.AvatarKey, s.storageCfg.SignedURLExpiry)
	if err != nil {
		log.Printf("Failed to sign avatar URL for user %d: %v", profile.ID, err)
		return
	}
	profile.AvatarURL = url
}
