package apiserver

import (
	"encoding/json"
	"net/http"
	"strings"

	"vestiaire/internal/middleware"
	"vestiaire/internal/services"
	"vestiaire/internal/storage"

	"github.com/gorilla/mux"
)

// UserHandler handles profile reads, updates, search and avatar upload.
type UserHandler struct {
	userService services.UserService
	maxUpload   int64
}

// NewUserHandler creates a new UserHandler. maxUploadBytes bounds avatar
// upload size.
func NewUserHandler(us services.UserService, maxUploadBytes int64) *UserHandler {
	return &UserHandler{userService: us, maxUpload: maxUploadBytes}
}

// GetMeHandler handles GET /users/me.
func (h *UserHandler) GetMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, user)
}

// UpdateMeHandler handles PUT /users/me.
func (h *UserHandler) UpdateMeHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var update services.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, update)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, user)
}

// GetProfileHandler handles GET /users/{id}, the public view of a user.
func (h *UserHandler) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	targetID, err := storage.StrToUint(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), targetID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, profile)
}

// SearchUsersHandler handles GET /users/search?q=...
func (h *UserHandler) SearchUsersHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSONError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	profiles, err := h.userService.SearchUsers(r.Context(), query, userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, profiles)
}

// UploadAvatarHandler handles POST /users/me/avatar as multipart form data
// with a "file" field.
func (h *UserHandler) UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid or oversized multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		writeJSONError(w, http.StatusBadRequest, "avatar must be an image")
		return
	}

	user, err := h.userService.UpdateAvatar(r.Context(), userID, file, header.Size, header.Filename, mimeType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, user)
}
