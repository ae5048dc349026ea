package apiserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"vestiaire/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSONResponse writes data as a JSON body with the given status.
func writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON response: %v", err)
		}
	}
}

// writeJSONError writes a JSON error body with the given status.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, errorResponse{Error: message})
}

func writeJSONErrorCode(w http.ResponseWriter, statusCode int, message, code string) {
	writeJSONResponse(w, statusCode, errorResponse{Error: message, Code: code})
}

// writeServiceError maps the service error taxonomy onto HTTP statuses and
// stable machine-readable codes. Unrecognized errors become a plain 500
// without leaking internals.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrSelfRelation),
		errors.Is(err, services.ErrInvalidCursor),
		errors.Is(err, services.ErrInvalidProposal):
		writeJSONErrorCode(w, http.StatusBadRequest, err.Error(), "INVALID_OPERATION")

	case errors.Is(err, services.ErrInvalidCredentials):
		writeJSONErrorCode(w, http.StatusUnauthorized, err.Error(), "UNAUTHORIZED")

	case errors.Is(err, services.ErrBlocked),
		errors.Is(err, services.ErrNotRecipient),
		errors.Is(err, services.ErrNotParticipant),
		errors.Is(err, services.ErrNotItemOwner),
		errors.Is(err, services.ErrNotAdmin):
		writeJSONErrorCode(w, http.StatusForbidden, err.Error(), "FORBIDDEN")

	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrRelationNotFound),
		errors.Is(err, services.ErrClubNotFound),
		errors.Is(err, services.ErrJerseyNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrProposalNotFound):
		writeJSONErrorCode(w, http.StatusNotFound, err.Error(), "NOT_FOUND")

	case errors.Is(err, services.ErrAlreadyFriends),
		errors.Is(err, services.ErrRequestPending),
		errors.Is(err, services.ErrAlreadyCollected),
		errors.Is(err, services.ErrAlreadyWished),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrEmailTaken):
		writeJSONErrorCode(w, http.StatusConflict, err.Error(), "CONFLICT")

	case errors.Is(err, services.ErrNotPending),
		errors.Is(err, services.ErrProposalReviewed):
		// Still a conflict on the wire, but the code tells clients the
		// transition itself was illegal rather than a duplicate.
		writeJSONErrorCode(w, http.StatusConflict, err.Error(), "INVALID_STATE")

	default:
		log.Printf("Internal error: %v", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
	}
}
