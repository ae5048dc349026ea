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
	ErrProposalNotFound = errors.New("proposal does not exist")
	ErrNotAdmin         = errors.New("admin rights required")
	ErrProposalReviewed = errors.New("proposal has already been reviewed")
	ErrInvalidProposal  = errors.New("proposal is missing required fields")
)

// ProposalInput carries a community submission for a missing jersey.
type ProposalInput struct {
	ClubID  uint              `json:"clubId"`
	Season  string            `json:"season"`
	Kind    models.JerseyKind `json:"kind"`
	Brand   string            `json:"brand"`
	Comment string            `json:"comment"`
}

// ProposalService handles community jersey proposals and their admin review.
// Approving a proposal creates the catalogue entry it describes.
type ProposalService interface {
	Submit(ctx context.Context, userID uint, input ProposalInput) (*models.Proposal, error)
	ListMine(ctx context.Context, userID uint) ([]models.Proposal, error)
	// ListPendingReview returns unreviewed proposals oldest first, admin only.
	ListPendingReview(ctx context.Context, reviewerID uint) ([]models.Proposal, error)
	Approve(ctx context.Context, reviewerID, proposalID uint) (*models.Proposal, error)
	Reject(ctx context.Context, reviewerID, proposalID uint) (*models.Proposal, error)
}

type proposalService struct {
	proposalRepo storage.ProposalRepository
	jerseyRepo   storage.JerseyRepository
	clubRepo     storage.ClubRepository
	userRepo     storage.UserRepository
}

// NewProposalService creates a new ProposalService instance.
func NewProposalService(
	proposalRepo storage.ProposalRepository,
	jerseyRepo storage.JerseyRepository,
	clubRepo storage.ClubRepository,
	userRepo storage.UserRepository,
) ProposalService {
	return &proposalService{
		proposalRepo: proposalRepo,
		jerseyRepo:   jerseyRepo,
		clubRepo:     clubRepo,
		userRepo:     userRepo,
	}
}

func (s *proposalService) Submit(ctx context.Context, userID uint, input ProposalInput) (*models.Proposal, error) {
	if input.ClubID == 0 || input.Season == "" || !input.Kind.Valid() {
		return nil, ErrInvalidProposal
	}
	if _, err := s.clubRepo.GetByID(ctx, input.ClubID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to look up club %d: %w", input.ClubID, err)
	}

	proposal := &models.Proposal{
		UserID:  userID,
		ClubID:  input.ClubID,
		Season:  input.Season,
		Kind:    input.Kind,
		Brand:   input.Brand,
		Comment: input.Comment,
		Status:  models.ProposalStatusPending,
	}
	if err := s.proposalRepo.Create(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to create proposal for user %d: %w", userID, err)
	}
	return proposal, nil
}

func (s *proposalService) ListMine(ctx context.Context, userID uint) ([]models.Proposal, error) {
	proposals, err := s.proposalRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals of user %d: %w", userID, err)
	}
	return proposals, nil
}

func (s *proposalService) ListPendingReview(ctx context.Context, reviewerID uint) ([]models.Proposal, error) {
	if err := s.checkAdmin(ctx, reviewerID); err != nil {
		return nil, err
	}
	proposals, err := s.proposalRepo.ListByStatus(ctx, models.ProposalStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending proposals: %w", err)
	}
	return proposals, nil
}

func (s *proposalService) Approve(ctx context.Context, reviewerID, proposalID uint) (*models.Proposal, error) {
	proposal, err := s.getReviewable(ctx, reviewerID, proposalID)
	if err != nil {
		return nil, err
	}

	jersey := &models.Jersey{
		ClubID: proposal.ClubID,
		Season: proposal.Season,
		Kind:   proposal.Kind,
		Brand:  proposal.Brand,
	}
	if err := s.jerseyRepo.Create(ctx, jersey); err != nil {
		return nil, fmt.Errorf("failed to create jersey from proposal %d: %w", proposalID, err)
	}

	proposal.Status = models.ProposalStatusApproved
	proposal.ReviewerID = &reviewerID
	proposal.JerseyID = &jersey.ID
	if err := s.proposalRepo.Save(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to approve proposal %d: %w", proposalID, err)
	}
	return proposal, nil
}

func (s *proposalService) Reject(ctx context.Context, reviewerID, proposalID uint) (*models.Proposal, error) {
	proposal, err := s.getReviewable(ctx, reviewerID, proposalID)
	if err != nil {
		return nil, err
	}

	proposal.Status = models.ProposalStatusRejected
	proposal.ReviewerID = &reviewerID
	if err := s.proposalRepo.Save(ctx, proposal); err != nil {
		return nil, fmt.Errorf("failed to reject proposal %d: %w", proposalID, err)
	}
	return proposal, nil
}

func (s *proposalService) getReviewable(ctx context.Context, reviewerID, proposalID uint) (*models.Proposal, error) {
	if err := s.checkAdmin(ctx, reviewerID); err != nil {
		return nil, err
	}

	proposal, err := s.proposalRepo.GetByID(ctx, proposalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("failed to load proposal %d: %w", proposalID, err)
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, ErrProposalReviewed
	}
	return proposal, nil
}

func (s *proposalService) checkAdmin(ctx context.Context, userID uint) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to look up user %d: %w", userID, err)
	}
	if !user.IsAdmin {
		return ErrNotAdmin
	}
	return nil
}
