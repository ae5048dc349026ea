package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vestiaire/internal/middleware"
	"vestiaire/internal/models"
	"vestiaire/internal/services"

	"github.com/gorilla/mux"
)

// stubFriendshipService lets each test pin down exactly the calls it expects.
type stubFriendshipService struct {
	sendRequest         func(ctx context.Context, requesterID, recipientID uint) (*models.Relation, error)
	acceptRequest       func(ctx context.Context, actorID, relationID uint) (*models.Relation, error)
	rejectRequest       func(ctx context.Context, actorID, relationID uint) (*models.Relation, error)
	blockUser           func(ctx context.Context, actorID, targetID uint) (*models.Relation, error)
	removeRelation      func(ctx context.Context, actorID, relationID uint) error
	relationWith        func(ctx context.Context, actorID, otherID uint) (*models.Relation, error)
	listFriends         func(ctx context.Context, userID uint) ([]*models.UserProfile, error)
	listPendingRequests func(ctx context.Context, userID uint, opts services.PendingFeedOptions) (*services.PendingFeed, bool, error)
}

func (s *stubFriendshipService) SendRequest(ctx context.Context, requesterID, recipientID uint) (*models.Relation, error) {
	return s.sendRequest(ctx, requesterID, recipientID)
}

func (s *stubFriendshipService) AcceptRequest(ctx context.Context, actorID, relationID uint) (*models.Relation, error) {
	return s.acceptRequest(ctx, actorID, relationID)
}

func (s *stubFriendshipService) RejectRequest(ctx context.Context, actorID, relationID uint) (*models.Relation, error) {
	return s.rejectRequest(ctx, actorID, relationID)
}

func (s *stubFriendshipService) BlockUser(ctx context.Context, actorID, targetID uint) (*models.Relation, error) {
	return s.blockUser(ctx, actorID, targetID)
}

func (s *stubFriendshipService) RemoveRelation(ctx context.Context, actorID, relationID uint) error {
	return s.removeRelation(ctx, actorID, relationID)
}

func (s *stubFriendshipService) RelationWith(ctx context.Context, actorID, otherID uint) (*models.Relation, error) {
	return s.relationWith(ctx, actorID, otherID)
}

func (s *stubFriendshipService) ListFriends(ctx context.Context, userID uint) ([]*models.UserProfile, error) {
	return s.listFriends(ctx, userID)
}

func (s *stubFriendshipService) ListPendingRequests(ctx context.Context, userID uint, opts services.PendingFeedOptions) (*services.PendingFeed, bool, error) {
	return s.listPendingRequests(ctx, userID, opts)
}

func authedRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, uint(1))
	return req.WithContext(ctx)
}

func TestSendRequestHandlerCreated(t *testing.T) {
	stub := &stubFriendshipService{
		sendRequest: func(ctx context.Context, requesterID, recipientID uint) (*models.Relation, error) {
			if requesterID != 1 || recipientID != 2 {
				t.Fatalf("unexpected ids: %d -> %d", requesterID, recipientID)
			}
			return &models.Relation{ID: 7, RequesterID: 1, RecipientID: 2, Status: models.RelationStatusPending}, nil
		},
	}
	h := NewFriendshipHandler(stub)

	rec := httptest.NewRecorder()
	h.SendRequestHandler(rec, authedRequest(http.MethodPost, "/api/v1/friends/requests", `{"recipientId":2}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestSendRequestHandlerConflictCode(t *testing.T) {
	stub := &stubFriendshipService{
		sendRequest: func(ctx context.Context, requesterID, recipientID uint) (*models.Relation, error) {
			return nil, services.ErrRequestPending
		},
	}
	h := NewFriendshipHandler(stub)

	rec := httptest.NewRecorder()
	h.SendRequestHandler(rec, authedRequest(http.MethodPost, "/api/v1/friends/requests", `{"recipientId":2}`))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Code != "CONFLICT" {
		t.Fatalf("expected code CONFLICT, got %q", body.Code)
	}
}

func TestAcceptHandlerInvalidStateCode(t *testing.T) {
	stub := &stubFriendshipService{
		acceptRequest: func(ctx context.Context, actorID, relationID uint) (*models.Relation, error) {
			return nil, services.ErrNotPending
		},
	}
	h := NewFriendshipHandler(stub)

	req := authedRequest(http.MethodPost, "/api/v1/friends/requests/5/accept", "")
	req = mux.SetURLVars(req, map[string]string{"id": "5"})
	rec := httptest.NewRecorder()
	h.AcceptRequestHandler(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if body.Code != "INVALID_STATE" {
		t.Fatalf("expected code INVALID_STATE, got %q", body.Code)
	}
}

func TestAcceptHandlerForbidden(t *testing.T) {
	stub := &stubFriendshipService{
		acceptRequest: func(ctx context.Context, actorID, relationID uint) (*models.Relation, error) {
			return nil, services.ErrNotRecipient
		},
	}
	h := NewFriendshipHandler(stub)

	req := authedRequest(http.MethodPost, "/api/v1/friends/requests/5/accept", "")
	req = mux.SetURLVars(req, map[string]string{"id": "5"})
	rec := httptest.NewRecorder()
	h.AcceptRequestHandler(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestListPendingHandlerSetsETag(t *testing.T) {
	stub := &stubFriendshipService{
		listPendingRequests: func(ctx context.Context, userID uint, opts services.PendingFeedOptions) (*services.PendingFeed, bool, error) {
			if opts.Limit != services.DefaultPendingLimit {
				t.Fatalf("expected default limit %d, got %d", services.DefaultPendingLimit, opts.Limit)
			}
			return &services.PendingFeed{Requests: []services.PendingRequestEntry{}, PendingCount: 0, ETag: `W/"pending-abc"`}, false, nil
		},
	}
	h := NewFriendshipHandler(stub)

	rec := httptest.NewRecorder()
	h.ListPendingRequestsHandler(rec, authedRequest(http.MethodGet, "/api/v1/friends/requests/pending", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("ETag"); got != `W/"pending-abc"` {
		t.Fatalf("unexpected ETag header: %q", got)
	}
}

func TestListPendingHandlerNotModified(t *testing.T) {
	stub := &stubFriendshipService{
		listPendingRequests: func(ctx context.Context, userID uint, opts services.PendingFeedOptions) (*services.PendingFeed, bool, error) {
			if opts.IfNoneMatch != `W/"pending-abc"` {
				t.Fatalf("If-None-Match not forwarded, got %q", opts.IfNoneMatch)
			}
			return &services.PendingFeed{ETag: `W/"pending-abc"`}, true, nil
		},
	}
	h := NewFriendshipHandler(stub)

	req := authedRequest(http.MethodGet, "/api/v1/friends/requests/pending", "")
	req.Header.Set("If-None-Match", `W/"pending-abc"`)
	rec := httptest.NewRecorder()
	h.ListPendingRequestsHandler(rec, req)

	if rec.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", rec.Code)
	}
	if got := rec.Header().Get("ETag"); got != `W/"pending-abc"` {
		t.Fatalf("304 must carry the ETag, got %q", got)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("304 must have an empty body, got %q", rec.Body.String())
	}
}

func TestListPendingHandlerForwardsLimitAndCursor(t *testing.T) {
	stub := &stubFriendshipService{
		listPendingRequests: func(ctx context.Context, userID uint, opts services.PendingFeedOptions) (*services.PendingFeed, bool, error) {
			if opts.Limit != 5 || opts.Cursor != "17" {
				t.Fatalf("unexpected opts: %+v", opts)
			}
			return &services.PendingFeed{ETag: `W/"x"`}, false, nil
		},
	}
	h := NewFriendshipHandler(stub)

	rec := httptest.NewRecorder()
	h.ListPendingRequestsHandler(rec, authedRequest(http.MethodGet, "/api/v1/friends/requests/pending?limit=5&cursor=17", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestListPendingHandlerRejectsNonNumericLimit(t *testing.T) {
	h := NewFriendshipHandler(&stubFriendshipService{})

	rec := httptest.NewRecorder()
	h.ListPendingRequestsHandler(rec, authedRequest(http.MethodGet, "/api/v1/friends/requests/pending?limit=abc", ""))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRemoveRelationHandlerNoContent(t *testing.T) {
	stub := &stubFriendshipService{
		removeRelation: func(ctx context.Context, actorID, relationID uint) error {
			return nil
		},
	}
	h := NewFriendshipHandler(stub)

	req := authedRequest(http.MethodDelete, "/api/v1/friends/relations/3", "")
	req = mux.SetURLVars(req, map[string]string{"id": "3"})
	rec := httptest.NewRecorder()
	h.RemoveRelationHandler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}

func TestHandlersRequireAuthentication(t *testing.T) {
	h := NewFriendshipHandler(&stubFriendshipService{})

	rec := httptest.NewRecorder()
	h.ListPendingRequestsHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/friends/requests/pending", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", rec.Code)
	}
}
