package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"vestiaire/internal/config"
	"vestiaire/internal/models"
	"vestiaire/internal/storage"
	"vestiaire/internal/vtypes"

	"gorm.io/gorm"
)

var (
	ErrSelfRelation     = errors.New("cannot create a relation with yourself")
	ErrUserNotFound     = errors.New("target user does not exist")
	ErrRelationNotFound = errors.New("relation does not exist")
	ErrBlocked          = errors.New("a block exists between these users")
	ErrAlreadyFriends   = errors.New("users are already friends")
	ErrRequestPending   = errors.New("a friend request is already pending")
	ErrNotRecipient     = errors.New("only the recipient may act on this request")
	ErrNotParticipant   = errors.New("user is not part of this relation")
	ErrNotPending       = errors.New("relation is not in the pending state")
	ErrInvalidCursor    = errors.New("invalid pagination cursor")
)

const (
	// DefaultPendingLimit is the page size used when the caller does not ask
	// for one.
	DefaultPendingLimit = 20
	// MaxPendingLimit caps the page size.
	MaxPendingLimit = 50
)

// PendingFeedOptions carries the optional inputs of ListPendingRequests.
type PendingFeedOptions struct {
	// Cursor is an opaque token from a previous page's NextCursor.
	Cursor string
	// Limit is clamped to [1, MaxPendingLimit].
	Limit int
	// IfNoneMatch is the cache token the caller last saw, if any.
	IfNoneMatch string
}

// PendingRequestEntry is one row of the pending feed.
type PendingRequestEntry struct {
	ID        uint                  `json:"id"`
	Sender    *models.UserProfile   `json:"sender"`
	Status    models.RelationStatus `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
}

// PendingFeed is the result of ListPendingRequests. ETag changes exactly
// when the underlying pending set changes.
type PendingFeed struct {
	Requests     []PendingRequestEntry `json:"requests"`
	NextCursor   *string               `json:"nextCursor"`
	PendingCount int64                 `json:"pendingCount"`
	ETag         string                `json:"-"`
}

// FriendshipService governs the lifecycle of relations between users and the
// pending-request feed over them.
type FriendshipService interface {
	SendRequest(ctx context.Context, requesterID, recipientID uint) (*models.Relation, error)
	AcceptRequest(ctx context.Context, actorID, relationID uint) (*models.Relation, error)
	RejectRequest(ctx context.Context, actorID, relationID uint) (*models.Relation, error)
	BlockUser(ctx context.Context, actorID, targetID uint) (*models.Relation, error)
	RemoveRelation(ctx context.Context, actorID, relationID uint) error
	RelationWith(ctx context.Context, actorID, otherID uint) (*models.Relation, error)
	ListFriends(ctx context.Context, userID uint) ([]*models.UserProfile, error)
	// ListPendingRequests returns the feed page, or notModified=true when
	// the caller's IfNoneMatch token still matches the current state (the
	// returned feed then carries only the ETag).
	ListPendingRequests(ctx context.Context, userID uint, opts PendingFeedOptions) (feed *PendingFeed, notModified bool, err error)
}

type friendshipService struct {
	userRepo     storage.UserRepository
	relationRepo storage.RelationRepository
	notifier     vtypes.RelationNotifier
	storageSvc   vtypes.StorageService
	storageCfg   config.StorageConfig
}

// NewFriendshipService creates a new FriendshipService instance.
func NewFriendshipService(
	userRepo storage.UserRepository,
	relationRepo storage.RelationRepository,
	notifier vtypes.RelationNotifier,
	storageSvc vtypes.StorageService,
	storageCfg config.StorageConfig,
) FriendshipService {
	return &friendshipService{
		userRepo:     userRepo,
		relationRepo: relationRepo,
		notifier:     notifier,
		storageSvc:   storageSvc,
		storageCfg:   storageCfg,
	}
}

// SendRequest validates and applies the send-request transition.
func (s *friendshipService) SendRequest(ctx context.Context, requesterID, recipientID uint) (*models.Relation, error) {
	if requesterID == recipientID {
		return nil, ErrSelfRelation
	}

	if _, err := s.userRepo.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up recipient %d: %w", recipientID, err)
	}

	relation, err := s.relationRepo.FindBetween(ctx, requesterID, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up relation between %d and %d: %w", requesterID, recipientID, err)
	}

	if relation != nil {
		switch relation.Status {
		case models.RelationStatusBlocked:
			return nil, ErrBlocked
		case models.RelationStatusAccepted:
			return nil, ErrAlreadyFriends
		case models.RelationStatusPending:
			// Pending in either direction is a conflict: the recipient of an
			// existing request must accept it, not counter-request.
			return nil, ErrRequestPending
		case models.RelationStatusRejected:
			// Re-send after a rejection reuses the row and may flip the
			// direction when the original recipient is the new sender.
			relation.RequesterID = requesterID
			relation.RecipientID = recipientID
			relation.Status = models.RelationStatusPending
			if err := s.relationRepo.Save(ctx, relation); err != nil {
				return nil, fmt.Errorf("failed to re-send friend request %d: %w", relation.ID, err)
			}
			s.notify(ctx, recipientID, vtypes.RelationEventPendingCreated, relation.ID)
			return relation, nil
		default:
			return nil, fmt.Errorf("relation %d has unknown status %q", relation.ID, relation.Status)
		}
	}

	relation = &models.Relation{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      models.RelationStatusPending,
	}
	if err := s.relationRepo.Create(ctx, relation); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent request for the same pair won the race; the pair
			// unique index turned the duplicate into this conflict.
			return nil, ErrRequestPending
		}
		return nil, fmt.Errorf("failed to create friend request from %d to %d: %w", requesterID, recipientID, err)
	}

	s.notify(ctx, recipientID, vtypes.RelationEventPendingCreated, relation.ID)
	return relation, nil
}

// AcceptRequest applies the PENDING→ACCEPTED transition, recipient only.
func (s *friendshipService) AcceptRequest(ctx context.Context, actorID, relationID uint) (*models.Relation, error) {
	relation, err := s.getRelation(ctx, relationID)
	if err != nil {
		return nil, err
	}
	if relation.RecipientID != actorID {
		return nil, ErrNotRecipient
	}

	switch relation.Status {
	case models.RelationStatusPending:
	case models.RelationStatusAccepted, models.RelationStatusRejected, models.RelationStatusBlocked:
		return nil, ErrNotPending
	default:
		return nil, fmt.Errorf("relation %d has unknown status %q", relation.ID, relation.Status)
	}

	relation.Status = models.RelationStatusAccepted
	if err := s.relationRepo.Save(ctx, relation); err != nil {
		return nil, fmt.Errorf("failed to accept friend request %d: %w", relationID, err)
	}

	s.notify(ctx, relation.RequesterID, vtypes.RelationEventPendingAccepted, relation.ID)
	return relation, nil
}

// RejectRequest applies the PENDING→REJECTED transition, recipient only.
func (s *friendshipService) RejectRequest(ctx context.Context, actorID, relationID uint) (*models.Relation, error) {
	relation, err := s.getRelation(ctx, relationID)
	if err != nil {
		return nil, err
	}
	if relation.RecipientID != actorID {
		return nil, ErrNotRecipient
	}

	switch relation.Status {
	case models.RelationStatusPending:
	case models.RelationStatusAccepted, models.RelationStatusRejected, models.RelationStatusBlocked:
		return nil, ErrNotPending
	default:
		return nil, fmt.Errorf("relation %d has unknown status %q", relation.ID, relation.Status)
	}

	relation.Status = models.RelationStatusRejected
	if err := s.relationRepo.Save(ctx, relation); err != nil {
		return nil, fmt.Errorf("failed to reject friend request %d: %w", relationID, err)
	}
	return relation, nil
}

// BlockUser overwrites or creates the pair's relation as BLOCKED, with the
// blocker recorded as requester. Blocking is silent: no event is emitted.
func (s *friendshipService) BlockUser(ctx context.Context, actorID, targetID uint) (*models.Relation, error) {
	if actorID == targetID {
		return nil, ErrSelfRelation
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %d: %w", targetID, err)
	}

	relation, err := s.relationRepo.FindBetween(ctx, actorID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up relation between %d and %d: %w", actorID, targetID, err)
	}

	if relation != nil {
		relation.RequesterID = actorID
		relation.RecipientID = targetID
		relation.Status = models.RelationStatusBlocked
		if err := s.relationRepo.Save(ctx, relation); err != nil {
			return nil, fmt.Errorf("failed to block user %d: %w", targetID, err)
		}
		return relation, nil
	}

	relation = &models.Relation{
		RequesterID: actorID,
		RecipientID: targetID,
		Status:      models.RelationStatusBlocked,
	}
	if err := s.relationRepo.Create(ctx, relation); err != nil {
		return nil, fmt.Errorf("failed to block user %d: %w", targetID, err)
	}
	return relation, nil
}

// RemoveRelation hard-deletes the relation, any status. Deleting a blocked
// row is how a blocker unblocks.
func (s *friendshipService) RemoveRelation(ctx context.Context, actorID, relationID uint) error {
	relation, err := s.getRelation(ctx, relationID)
	if err != nil {
		return err
	}
	if !relation.Involves(actorID) {
		return ErrNotParticipant
	}

	if err := s.relationRepo.Delete(ctx, relationID); err != nil {
		return fmt.Errorf("failed to delete relation %d: %w", relationID, err)
	}
	return nil
}

// RelationWith returns the relation between the actor and another user, in
// either direction and any status.
func (s *friendshipService) RelationWith(ctx context.Context, actorID, otherID uint) (*models.Relation, error) {
	relation, err := s.relationRepo.FindBetween(ctx, actorID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up relation between %d and %d: %w", actorID, otherID, err)
	}
	if relation == nil {
		return nil, ErrRelationNotFound
	}
	return relation, nil
}

// ListFriends returns the profiles of all users with an accepted relation to
// userID.
func (s *friendshipService) ListFriends(ctx context.Context, userID uint) ([]*models.UserProfile, error) {
	partnerIDs, err := s.relationRepo.ListAcceptedPartnerIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends of user %d: %w", userID, err)
	}
	if len(partnerIDs) == 0 {
		return []*models.UserProfile{}, nil
	}

	profiles, err := s.userRepo.GetProfilesByIDs(ctx, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load friend profiles of user %d: %w", userID, err)
	}
	for _, profile := range profiles {
		s.attachAvatarURL(ctx, profile)
	}
	return profiles, nil
}

// ListPendingRequests builds the cursor-paginated feed of requests awaiting
// the user's decision. The cache token is derived from the pending count and
// the most recent pending row only, so an unchanged feed is detected without
// fetching the page.
func (s *friendshipService) ListPendingRequests(ctx context.Context, userID uint, opts PendingFeedOptions) (*PendingFeed, bool, error) {
	limit := opts.Limit
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPendingLimit {
		limit = MaxPendingLimit
	}

	var beforeID uint
	if opts.Cursor != "" {
		id, err := storage.StrToUint(opts.Cursor)
		if err != nil || id == 0 {
			return nil, false, ErrInvalidCursor
		}
		beforeID = id
	}

	count, err := s.relationRepo.CountPendingForRecipient(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to count pending requests for user %d: %w", userID, err)
	}
	latest, err := s.relationRepo.LatestPendingForRecipient(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to find latest pending request for user %d: %w", userID, err)
	}

	etag := pendingFeedETag(count, latest)
	if opts.IfNoneMatch != "" && opts.IfNoneMatch == etag {
		return &PendingFeed{ETag: etag}, true, nil
	}

	// limit+1 detects whether another page exists without a second count.
	relations, err := s.relationRepo.ListPendingForRecipient(ctx, userID, beforeID, limit+1)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list pending requests for user %d: %w", userID, err)
	}

	var nextCursor *string
	if len(relations) > limit {
		relations = relations[:limit]
		cursor := strconv.FormatUint(uint64(relations[len(relations)-1].ID), 10)
		nextCursor = &cursor
	}

	entries := make([]PendingRequestEntry, 0, len(relations))
	for _, relation := range relations {
		// A failed profile load degrades the entry to a nil sender rather
		// than dropping the row, which would undershoot the page.
		sender, err := s.userRepo.GetProfileByID(ctx, relation.RequesterID)
		if err != nil {
			log.Printf("Failed to load sender %d for pending request %d: %v", relation.RequesterID, relation.ID, err)
			sender = nil
		}
		s.attachAvatarURL(ctx, sender)
		entries = append(entries, PendingRequestEntry{
			ID:        relation.ID,
			Sender:    sender,
			Status:    relation.Status,
			CreatedAt: relation.CreatedAt,
		})
	}

	return &PendingFeed{
		Requests:     entries,
		NextCursor:   nextCursor,
		PendingCount: count,
		ETag:         etag,
	}, false, nil
}

func (s *friendshipService) getRelation(ctx context.Context, relationID uint) (*models.Relation, error) {
	relation, err := s.relationRepo.GetByID(ctx, relationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRelationNotFound
		}
		return nil, fmt.Errorf("failed to load relation %d: %w", relationID, err)
	}
	return relation, nil
}

// notify delivers a relation event best-effort. A lost event degrades into
// the counterparty's next feed poll, so failures are logged and dropped.
func (s *friendshipService) notify(ctx context.Context, targetUserID uint, kind vtypes.RelationEventKind, relationID uint) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyRelationEvent(ctx, targetUserID, kind, relationID); err != nil {
		log.Printf("Failed to deliver %s for relation %d to user %d: %v", kind, relationID, targetUserID, err)
	}
}

// attachAvatarURL signs the profile's avatar key if one is set. Signing
// failure leaves the URL empty instead of failing the read.
func (s *friendshipService) attachAvatarURL(ctx context.Context, profile *models.UserProfile) {
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

// pendingFeedETag derives the feed cache token from the pending count and
// the (id, updatedAt) of the newest pending row, or a sentinel when empty.
func pendingFeedETag(count int64, latest *models.Relation) string {
	basis := "none"
	if latest != nil {
		basis = fmt.Sprintf("%d:%s", latest.ID, latest.UpdatedAt.UTC().Format(time.RFC3339Nano))
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s", count, basis)))
	return fmt.Sprintf("W/%q", "pending-"+hex.EncodeToString(sum[:8]))
}
