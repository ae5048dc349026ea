package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"vestiaire/internal/config"
	"vestiaire/internal/models"
	"vestiaire/internal/vtypes"

	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users       map[uint]*models.User
	profileErrs map[uint]error
}

func newFakeUserRepo(ids ...uint) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, id := range ids {
		user := &models.User{Username: fmt.Sprintf("user%d", id)}
		user.ID = id
		repo.users[id] = user
	}
	return repo
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error { return nil }

func (r *fakeUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) Update(ctx context.Context, user *models.User) error { return nil }

func (r *fakeUserRepo) SearchUsers(ctx context.Context, query string, currentUserID uint) ([]models.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) GetProfileByID(ctx context.Context, id uint) (*models.UserProfile, error) {
	if err := r.profileErrs[id]; err != nil {
		return nil, err
	}
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	profile := user.Profile()
	return &profile, nil
}

func (r *fakeUserRepo) GetProfilesByIDs(ctx context.Context, userIDs []uint) ([]*models.UserProfile, error) {
	var profiles []*models.UserProfile
	for _, id := range userIDs {
		if user, ok := r.users[id]; ok {
			profile := user.Profile()
			profiles = append(profiles, &profile)
		}
	}
	return profiles, nil
}

// fakeRelationRepo keeps relations in memory and enforces the pair unique
// index the way the database would.
type fakeRelationRepo struct {
	relations map[uint]*models.Relation
	nextID    uint
}

func newFakeRelationRepo() *fakeRelationRepo {
	return &fakeRelationRepo{relations: make(map[uint]*models.Relation), nextID: 1}
}

func pairKey(a, b uint) [2]uint {
	if a < b {
		return [2]uint{a, b}
	}
	return [2]uint{b, a}
}

func (r *fakeRelationRepo) Create(ctx context.Context, relation *models.Relation) error {
	key := pairKey(relation.RequesterID, relation.RecipientID)
	for _, existing := range r.relations {
		if pairKey(existing.RequesterID, existing.RecipientID) == key {
			return gorm.ErrDuplicatedKey
		}
	}
	clone := *relation
	clone.ID = r.nextID
	r.nextID++
	r.relations[clone.ID] = &clone
	relation.ID = clone.ID
	return nil
}

func (r *fakeRelationRepo) GetByID(ctx context.Context, relationID uint) (*models.Relation, error) {
	relation, ok := r.relations[relationID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *relation
	return &clone, nil
}

func (r *fakeRelationRepo) FindBetween(ctx context.Context, userID1, userID2 uint) (*models.Relation, error) {
	key := pairKey(userID1, userID2)
	for _, relation := range r.relations {
		if pairKey(relation.RequesterID, relation.RecipientID) == key {
			clone := *relation
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeRelationRepo) Save(ctx context.Context, relation *models.Relation) error {
	if _, ok := r.relations[relation.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	clone := *relation
	r.relations[relation.ID] = &clone
	return nil
}

func (r *fakeRelationRepo) Delete(ctx context.Context, relationID uint) error {
	delete(r.relations, relationID)
	return nil
}

func (r *fakeRelationRepo) CountPendingForRecipient(ctx context.Context, recipientID uint) (int64, error) {
	var count int64
	for _, relation := range r.relations {
		if relation.RecipientID == recipientID && relation.Status == models.RelationStatusPending {
			count++
		}
	}
	return count, nil
}

func (r *fakeRelationRepo) LatestPendingForRecipient(ctx context.Context, recipientID uint) (*models.Relation, error) {
	var latest *models.Relation
	for _, relation := range r.relations {
		if relation.RecipientID != recipientID || relation.Status != models.RelationStatusPending {
			continue
		}
		if latest == nil || relation.ID > latest.ID {
			latest = relation
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (r *fakeRelationRepo) ListPendingForRecipient(ctx context.Context, recipientID uint, beforeID uint, limit int) ([]models.Relation, error) {
	var matches []models.Relation
	for _, relation := range r.relations {
		if relation.RecipientID != recipientID || relation.Status != models.RelationStatusPending {
			continue
		}
		if beforeID > 0 && relation.ID >= beforeID {
			continue
		}
		matches = append(matches, *relation)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID > matches[j].ID })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *fakeRelationRepo) ListAcceptedPartnerIDs(ctx context.Context, userID uint) ([]uint, error) {
	var partners []uint
	for _, relation := range r.relations {
		if relation.Status != models.RelationStatusAccepted {
			continue
		}
		if relation.RequesterID == userID {
			partners = append(partners, relation.RecipientID)
		} else if relation.RecipientID == userID {
			partners = append(partners, relation.RequesterID)
		}
	}
	return partners, nil
}

type recordedEvent struct {
	targetUserID uint
	kind         string
	relationID   uint
}

type fakeNotifier struct {
	events []recordedEvent
	err    error
}

func (n *fakeNotifier) NotifyRelationEvent(ctx context.Context, targetUserID uint, kind vtypes.RelationEventKind, relationID uint) error {
	if n.err != nil {
		return n.err
	}
	n.events = append(n.events, recordedEvent{targetUserID: targetUserID, kind: string(kind), relationID: relationID})
	return nil
}

func newTestService(userRepo *fakeUserRepo, relationRepo *fakeRelationRepo, notifier *fakeNotifier) FriendshipService {
	return NewFriendshipService(userRepo, relationRepo, notifier, nil, config.StorageConfig{})
}

func TestSendRequestToSelf(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1), newFakeRelationRepo(), &fakeNotifier{})

	if _, err := svc.SendRequest(context.Background(), 1, 1); !errors.Is(err, ErrSelfRelation) {
		t.Fatalf("expected ErrSelfRelation, got %v", err)
	}
}

func TestSendRequestToUnknownUser(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1), newFakeRelationRepo(), &fakeNotifier{})

	if _, err := svc.SendRequest(context.Background(), 1, 42); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSendRequestEmitsEvent(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeUserRepo(1, 2), newFakeRelationRepo(), notifier)

	relation, err := svc.SendRequest(context.Background(), 1, 2)
	if err != nil {
		t.Fatalf("SendRequest failed: %v", err)
	}
	if relation.Status != models.RelationStatusPending {
		t.Fatalf("expected pending status, got %s", relation.Status)
	}
	if len(notifier.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(notifier.events))
	}
	event := notifier.events[0]
	if event.targetUserID != 2 || event.kind != "PENDING_CREATED" || event.relationID != relation.ID {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestSendRequestNotifierFailureDoesNotFailSend(t *testing.T) {
	notifier := &fakeNotifier{err: errors.New("broker down")}
	svc := newTestService(newFakeUserRepo(1, 2), newFakeRelationRepo(), notifier)

	if _, err := svc.SendRequest(context.Background(), 1, 2); err != nil {
		t.Fatalf("SendRequest should succeed despite notifier failure, got %v", err)
	}
}

func TestSendRequestDuplicatePending(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()

	if _, err := svc.SendRequest(ctx, 1, 2); err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if _, err := svc.SendRequest(ctx, 1, 2); !errors.Is(err, ErrRequestPending) {
		t.Fatalf("expected ErrRequestPending for same direction, got %v", err)
	}
	// The reverse direction is also a conflict: the user should accept the
	// existing request instead.
	if _, err := svc.SendRequest(ctx, 2, 1); !errors.Is(err, ErrRequestPending) {
		t.Fatalf("expected ErrRequestPending for reverse direction, got %v", err)
	}
}

func TestSendRequestToFriend(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()

	relation, _ := svc.SendRequest(ctx, 1, 2)
	if _, err := svc.AcceptRequest(ctx, 2, relation.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if _, err := svc.SendRequest(ctx, 1, 2); !errors.Is(err, ErrAlreadyFriends) {
		t.Fatalf("expected ErrAlreadyFriends, got %v", err)
	}
}

func TestRejectThenResendFlipsDirection(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()

	relation, _ := svc.SendRequest(ctx, 1, 2)
	if _, err := svc.RejectRequest(ctx, 2, relation.ID); err != nil {
		t.Fatalf("reject failed: %v", err)
	}

	// The original recipient re-sends; the row is reused with roles swapped.
	resent, err := svc.SendRequest(ctx, 2, 1)
	if err != nil {
		t.Fatalf("re-send after reject failed: %v", err)
	}
	if resent.ID != relation.ID {
		t.Fatalf("expected reused relation %d, got %d", relation.ID, resent.ID)
	}
	if resent.RequesterID != 2 || resent.RecipientID != 1 {
		t.Fatalf("expected flipped direction, got requester=%d recipient=%d", resent.RequesterID, resent.RecipientID)
	}
	if resent.Status != models.RelationStatusPending {
		t.Fatalf("expected pending after re-send, got %s", resent.Status)
	}
}

func TestAcceptRequest(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := newTestService(newFakeUserRepo(1, 2), newFakeRelationRepo(), notifier)
	ctx := context.Background()

	relation, _ := svc.SendRequest(ctx, 1, 2)

	accepted, err := svc.AcceptRequest(ctx, 2, relation.ID)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != models.RelationStatusAccepted {
		t.Fatalf("expected accepted status, got %s", accepted.Status)
	}

	// The second event goes back to the requester.
	last := notifier.events[len(notifier.events)-1]
	if last.targetUserID != 1 || last.kind != "PENDING_ACCEPTED" {
		t.Fatalf("unexpected accept event: %+v", last)
	}
}

func TestAcceptByNonRecipient(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2, 3), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()

	relation, _ := svc.SendRequest(ctx, 1, 2)

	// Neither the requester nor a stranger may accept.
	if _, err := svc.AcceptRequest(ctx, 1, relation.ID); !errors.Is(err, ErrNotRecipient) {
		t.Fatalf("expected ErrNotRecipient for requester, got %v", err)
	}
	if _, err := svc.AcceptRequest(ctx, 3, relation.ID); !errors.Is(err, ErrNotRecipient) {
		t.Fatalf("expected ErrNotRecipient for stranger, got %v", err)
	}
}

func TestAcceptNonPending(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()

	relation, _ := svc.SendRequest(ctx, 1, 2)
	if _, err := svc.AcceptRequest(ctx, 2, relation.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := svc.AcceptRequest(ctx, 2, relation.ID); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending on second accept, got %v", err)
	}
}

func TestAcceptUnknownRelation(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1), newFakeRelationRepo(), &fakeNotifier{})

	if _, err := svc.AcceptRequest(context.Background(), 1, 99); !errors.Is(err, ErrRelationNotFound) {
		t.Fatalf("expected ErrRelationNotFound, got %v", err)
	}
}

func TestBlockForbidsRequestsBothWays(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()

	blocked, err := svc.BlockUser(ctx, 1, 2)
	if err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if blocked.Status != models.RelationStatusBlocked || blocked.RequesterID != 1 {
		t.Fatalf("unexpected block row: %+v", blocked)
	}

	if _, err := svc.SendRequest(ctx, 1, 2); !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked from blocker side, got %v", err)
	}
	if _, err := svc.SendRequest(ctx, 2, 1); !errors.Is(err, ErrBlocked) {
		t.Fatalf("expected ErrBlocked from blocked side, got %v", err)
	}

	// Removing the block makes requests possible again.
	if err := svc.RemoveRelation(ctx, 1, blocked.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, err := svc.SendRequest(ctx, 2, 1); err != nil {
		t.Fatalf("request after unblock failed: %v", err)
	}
}

func TestBlockOverwritesExistingRelation(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()

	relation, _ := svc.SendRequest(ctx, 1, 2)

	// The recipient blocks; the same row flips to blocked with the blocker
	// as requester.
	blocked, err := svc.BlockUser(ctx, 2, 1)
	if err != nil {
		t.Fatalf("block failed: %v", err)
	}
	if blocked.ID != relation.ID {
		t.Fatalf("expected reused relation %d, got %d", relation.ID, blocked.ID)
	}
	if blocked.RequesterID != 2 || blocked.Status != models.RelationStatusBlocked {
		t.Fatalf("unexpected block row: %+v", blocked)
	}
}

func TestRemoveRelationByStranger(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2, 3), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()

	relation, _ := svc.SendRequest(ctx, 1, 2)
	if err := svc.RemoveRelation(ctx, 3, relation.ID); !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("expected ErrNotParticipant, got %v", err)
	}
}

func TestListFriends(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2, 3), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()

	r1, _ := svc.SendRequest(ctx, 2, 1)
	if _, err := svc.AcceptRequest(ctx, 1, r1.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	r2, _ := svc.SendRequest(ctx, 1, 3)
	if _, err := svc.AcceptRequest(ctx, 3, r2.ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	friends, err := svc.ListFriends(ctx, 1)
	if err != nil {
		t.Fatalf("ListFriends failed: %v", err)
	}
	if len(friends) != 2 {
		t.Fatalf("expected 2 friends, got %d", len(friends))
	}
}

func seedPendingRequests(t *testing.T, svc FriendshipService, recipientID uint, senderIDs []uint) {
	t.Helper()
	for _, senderID := range senderIDs {
		if _, err := svc.SendRequest(context.Background(), senderID, recipientID); err != nil {
			t.Fatalf("seed request from %d failed: %v", senderID, err)
		}
	}
}

func TestPendingFeedPagination(t *testing.T) {
	senderIDs := make([]uint, 0, 25)
	userIDs := []uint{1}
	for id := uint(2); id <= 26; id++ {
		senderIDs = append(senderIDs, id)
		userIDs = append(userIDs, id)
	}
	svc := newTestService(newFakeUserRepo(userIDs...), newFakeRelationRepo(), &fakeNotifier{})
	seedPendingRequests(t, svc, 1, senderIDs)
	ctx := context.Background()

	seen := make(map[uint]bool)
	cursor := ""
	pages := 0
	for {
		opts := PendingFeedOptions{Cursor: cursor, Limit: 10}
		feed, notModified, err := svc.ListPendingRequests(ctx, 1, opts)
		if err != nil {
			t.Fatalf("feed page failed: %v", err)
		}
		if notModified {
			t.Fatal("unexpected notModified without If-None-Match")
		}
		if feed.PendingCount != 25 {
			t.Fatalf("expected pendingCount 25, got %d", feed.PendingCount)
		}
		for _, entry := range feed.Requests {
			if seen[entry.ID] {
				t.Fatalf("request %d appeared on two pages", entry.ID)
			}
			seen[entry.ID] = true
		}
		pages++
		if feed.NextCursor == nil {
			break
		}
		cursor = *feed.NextCursor
	}

	if len(seen) != 25 {
		t.Fatalf("expected 25 distinct requests across pages, got %d", len(seen))
	}
	if pages != 3 {
		t.Fatalf("expected 3 pages of 10, got %d", pages)
	}
}

func TestPendingFeedNewestFirst(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2, 3, 4), newFakeRelationRepo(), &fakeNotifier{})
	seedPendingRequests(t, svc, 1, []uint{2, 3, 4})

	feed, _, err := svc.ListPendingRequests(context.Background(), 1, PendingFeedOptions{Limit: 10})
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	for i := 1; i < len(feed.Requests); i++ {
		if feed.Requests[i-1].ID <= feed.Requests[i].ID {
			t.Fatalf("feed not in descending id order: %d before %d", feed.Requests[i-1].ID, feed.Requests[i].ID)
		}
	}
}

func TestPendingFeedLimitClamping(t *testing.T) {
	senderIDs := make([]uint, 0, 60)
	userIDs := []uint{1}
	for id := uint(2); id <= 61; id++ {
		senderIDs = append(senderIDs, id)
		userIDs = append(userIDs, id)
	}
	svc := newTestService(newFakeUserRepo(userIDs...), newFakeRelationRepo(), &fakeNotifier{})
	seedPendingRequests(t, svc, 1, senderIDs)
	ctx := context.Background()

	feed, _, err := svc.ListPendingRequests(ctx, 1, PendingFeedOptions{Limit: 0})
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(feed.Requests) != 1 {
		t.Fatalf("limit 0 should clamp to 1, got %d entries", len(feed.Requests))
	}

	feed, _, err = svc.ListPendingRequests(ctx, 1, PendingFeedOptions{Limit: 1000})
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(feed.Requests) != MaxPendingLimit {
		t.Fatalf("limit 1000 should clamp to %d, got %d entries", MaxPendingLimit, len(feed.Requests))
	}
	if feed.NextCursor == nil {
		t.Fatal("expected a next cursor past the clamped page")
	}
}

func TestPendingFeedKeepsEntriesWithUnloadableSender(t *testing.T) {
	userRepo := newFakeUserRepo(1, 2, 3, 4)
	userRepo.profileErrs = map[uint]error{3: errors.New("profile store down")}
	svc := newTestService(userRepo, newFakeRelationRepo(), &fakeNotifier{})
	seedPendingRequests(t, svc, 1, []uint{2, 3, 4})

	feed, _, err := svc.ListPendingRequests(context.Background(), 1, PendingFeedOptions{Limit: 10})
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(feed.Requests) != 3 {
		t.Fatalf("expected all 3 requests despite a failed sender load, got %d", len(feed.Requests))
	}
	if feed.PendingCount != 3 {
		t.Fatalf("expected pendingCount 3, got %d", feed.PendingCount)
	}
	nilSenders := 0
	for _, entry := range feed.Requests {
		if entry.Sender == nil {
			nilSenders++
		}
	}
	if nilSenders != 1 {
		t.Fatalf("expected exactly one entry with a nil sender, got %d", nilSenders)
	}
}

func TestPendingFeedInvalidCursor(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1), newFakeRelationRepo(), &fakeNotifier{})

	_, _, err := svc.ListPendingRequests(context.Background(), 1, PendingFeedOptions{Cursor: "not-a-cursor"})
	if !errors.Is(err, ErrInvalidCursor) {
		t.Fatalf("expected ErrInvalidCursor, got %v", err)
	}
}

func TestPendingFeedETag(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2, 3), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()
	seedPendingRequests(t, svc, 1, []uint{2})

	feed, notModified, err := svc.ListPendingRequests(ctx, 1, PendingFeedOptions{Limit: 10})
	if err != nil || notModified {
		t.Fatalf("initial feed failed: err=%v notModified=%v", err, notModified)
	}
	if feed.ETag == "" {
		t.Fatal("expected non-empty ETag")
	}

	// Replaying the token against an unchanged feed short-circuits.
	cached, notModified, err := svc.ListPendingRequests(ctx, 1, PendingFeedOptions{Limit: 10, IfNoneMatch: feed.ETag})
	if err != nil {
		t.Fatalf("cached feed failed: %v", err)
	}
	if !notModified {
		t.Fatal("expected notModified for matching If-None-Match")
	}
	if cached.ETag != feed.ETag {
		t.Fatalf("notModified result should carry the same ETag, got %q vs %q", cached.ETag, feed.ETag)
	}

	// A new request changes the token.
	seedPendingRequests(t, svc, 1, []uint{3})
	fresh, notModified, err := svc.ListPendingRequests(ctx, 1, PendingFeedOptions{Limit: 10, IfNoneMatch: feed.ETag})
	if err != nil {
		t.Fatalf("feed after change failed: %v", err)
	}
	if notModified {
		t.Fatal("expected full response after feed changed")
	}
	if fresh.ETag == feed.ETag {
		t.Fatal("ETag should change when a request arrives")
	}
}

func TestPendingFeedETagChangesOnAccept(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1, 2, 3), newFakeRelationRepo(), &fakeNotifier{})
	ctx := context.Background()
	seedPendingRequests(t, svc, 1, []uint{2, 3})

	feed, _, err := svc.ListPendingRequests(ctx, 1, PendingFeedOptions{Limit: 10})
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}

	if _, err := svc.AcceptRequest(ctx, 1, feed.Requests[0].ID); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	after, notModified, err := svc.ListPendingRequests(ctx, 1, PendingFeedOptions{Limit: 10, IfNoneMatch: feed.ETag})
	if err != nil {
		t.Fatalf("feed after accept failed: %v", err)
	}
	if notModified {
		t.Fatal("expected full response after accepting a request")
	}
	if after.ETag == feed.ETag {
		t.Fatal("ETag should change after accept")
	}
	if after.PendingCount != 1 {
		t.Fatalf("expected pendingCount 1 after accept, got %d", after.PendingCount)
	}
}

func TestPendingFeedEmpty(t *testing.T) {
	svc := newTestService(newFakeUserRepo(1), newFakeRelationRepo(), &fakeNotifier{})

	feed, _, err := svc.ListPendingRequests(context.Background(), 1, PendingFeedOptions{Limit: 10})
	if err != nil {
		t.Fatalf("feed failed: %v", err)
	}
	if len(feed.Requests) != 0 || feed.NextCursor != nil || feed.PendingCount != 0 {
		t.Fatalf("expected empty feed, got %+v", feed)
	}
	if feed.ETag == "" {
		t.Fatal("empty feed still needs a cache token")
	}
}
