package apiserver

import (
	"encoding/json"
	"net/http"

	"vestiaire/internal/middleware"
	"vestiaire/internal/services"
	"vestiaire/internal/storage"

	"github.com/gorilla/mux"
)

// CollectionHandler handles the authenticated user's collection and wishlist.
type CollectionHandler struct {
	collectionService services.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(cs services.CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionService: cs}
}

type addItemPayload struct {
	JerseyID uint `json:"jerseyId"`
	services.CollectionItemInput
}

// AddToCollectionHandler handles POST /collection.
func (h *CollectionHandler) AddToCollectionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload addItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.JerseyID == 0 {
		writeJSONError(w, http.StatusBadRequest, "jerseyId is required")
		return
	}

	item, err := h.collectionService.AddToCollection(r.Context(), userID, payload.JerseyID, payload.CollectionItemInput)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, item)
}

// UpdateCollectionItemHandler handles PUT /collection/{id}.
func (h *CollectionHandler) UpdateCollectionItemHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	itemID, err := storage.StrToUint(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var input services.CollectionItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.collectionService.UpdateCollectionItem(r.Context(), userID, itemID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, item)
}

// RemoveFromCollectionHandler handles DELETE /collection/{id}.
func (h *CollectionHandler) RemoveFromCollectionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	itemID, err := storage.StrToUint(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.collectionService.RemoveFromCollection(r.Context(), userID, itemID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCollectionHandler handles GET /collection.
func (h *CollectionHandler) ListCollectionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	items, err := h.collectionService.ListCollection(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, items)
}

// AddToWishlistHandler handles POST /wishlist.
func (h *CollectionHandler) AddToWishlistHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var payload addItemPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.JerseyID == 0 {
		writeJSONError(w, http.StatusBadRequest, "jerseyId is required")
		return
	}

	item, err := h.collectionService.AddToWishlist(r.Context(), userID, payload.JerseyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, item)
}

// RemoveFromWishlistHandler handles DELETE /wishlist/{id}.
func (h *CollectionHandler) RemoveFromWishlistHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	itemID, err := storage.StrToUint(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.collectionService.RemoveFromWishlist(r.Context(), userID, itemID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListWishlistHandler handles GET /wishlist.
func (h *CollectionHandler) ListWishlistHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	items, err := h.collectionService.ListWishlist(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, items)
}
