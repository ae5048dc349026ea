package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"vestiaire/internal/middleware"
	"vestiaire/internal/models"
	"vestiaire/internal/services"
	"vestiaire/internal/storage"

	"github.com/gorilla/mux"
)

// FriendshipHandler handles HTTP requests for relations between users.
type FriendshipHandler struct {
	friendshipService services.FriendshipService
}

// NewFriendshipHandler creates a new FriendshipHandler.
func NewFriendshipHandler(fs services.FriendshipService) *FriendshipHandler {
	return &FriendshipHandler{friendshipService: fs}
}

type sendRequestPayload struct {
	RecipientID uint `json:"recipientId"`
}

type blockUserPayload struct {
	UserID uint `json:"userId"`
}

// SendRequestHandler handles POST /friends/requests.
func (h *FriendshipHandler) SendRequestHandler(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload sendRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.RecipientID == 0 {
		writeJSONError(w, http.StatusBadRequest, "recipientId is required")
		return
	}

	relation, err := h.friendshipService.SendRequest(r.Context(), requesterID, payload.RecipientID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, relation)
}

// AcceptRequestHandler handles POST /friends/requests/{id}/accept.
func (h *FriendshipHandler) AcceptRequestHandler(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(w, r, h.friendshipService.AcceptRequest)
}

// RejectRequestHandler handles POST /friends/requests/{id}/reject.
func (h *FriendshipHandler) RejectRequestHandler(w http.ResponseWriter, r *http.Request) {
	h.transitionHandler(w, r, h.friendshipService.RejectRequest)
}

// BlockUserHandler handles POST /friends/blocks.
func (h *FriendshipHandler) BlockUserHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload blockUserPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.UserID == 0 {
		writeJSONError(w, http.StatusBadRequest, "userId is required")
		return
	}

	relation, err := h.friendshipService.BlockUser(r.Context(), actorID, payload.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, relation)
}

// RemoveRelationHandler handles DELETE /friends/relations/{id}. It removes a
// friend, cancels a pending request or lifts a block, whichever the row is.
func (h *FriendshipHandler) RemoveRelationHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	relationID, err := storage.StrToUint(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid relation id")
		return
	}

	if err := h.friendshipService.RemoveRelation(r.Context(), actorID, relationID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListPendingRequestsHandler handles GET /friends/requests/pending with
// cursor pagination and If-None-Match caching.
func (h *FriendshipHandler) ListPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	opts := services.PendingFeedOptions{
		Cursor:      r.URL.Query().Get("cursor"),
		Limit:       services.DefaultPendingLimit,
		IfNoneMatch: r.Header.Get("If-None-Match"),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		opts.Limit = limit
	}

	feed, notModified, err := h.friendshipService.ListPendingRequests(r.Context(), userID, opts)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.Header().Set("ETag", feed.ETag)
	if notModified {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSONResponse(w, http.StatusOK, feed)
}

// ListFriendsHandler handles GET /friends.
func (h *FriendshipHandler) ListFriendsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	friends, err := h.friendshipService.ListFriends(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, friends)
}

// RelationWithHandler handles GET /friends/relations/with/{userId}.
func (h *FriendshipHandler) RelationWithHandler(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	otherID, err := storage.StrToUint(mux.Vars(r)["userId"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	relation, err := h.friendshipService.RelationWith(r.Context(), actorID, otherID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, relation)
}

// transitionHandler factors the shared shape of accept and reject.
func (h *FriendshipHandler) transitionHandler(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, actorID, relationID uint) (*models.Relation, error),
) {
	actorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	relationID, err := storage.StrToUint(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	relation, err := transition(r.Context(), actorID, relationID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, relation)
}
