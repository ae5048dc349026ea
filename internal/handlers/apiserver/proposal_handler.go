package apiserver

import (
	"context"
	"encoding/json"
	"net/http"

	"vestiaire/internal/middleware"
	"vestiaire/internal/models"
	"vestiaire/internal/services"
	"vestiaire/internal/storage"

	"github.com/gorilla/mux"
)

// ProposalHandler handles community jersey proposals and admin review.
type ProposalHandler struct {
	proposalService services.ProposalService
}

// NewProposalHandler creates a new ProposalHandler.
func NewProposalHandler(ps services.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: ps}
}

// SubmitHandler handles POST /proposals.
func (h *ProposalHandler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var input services.ProposalInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	proposal, err := h.proposalService.Submit(r.Context(), userID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusCreated, proposal)
}

// ListMineHandler handles GET /proposals.
func (h *ProposalHandler) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	proposals, err := h.proposalService.ListMine(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, proposals)
}

// ListPendingReviewHandler handles GET /proposals/review, admin only.
func (h *ProposalHandler) ListPendingReviewHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	proposals, err := h.proposalService.ListPendingReview(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, proposals)
}

// ApproveHandler handles POST /proposals/{id}/approve, admin only.
func (h *ProposalHandler) ApproveHandler(w http.ResponseWriter, r *http.Request) {
	h.reviewHandler(w, r, h.proposalService.Approve)
}

// RejectHandler handles POST /proposals/{id}/reject, admin only.
func (h *ProposalHandler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	h.reviewHandler(w, r, h.proposalService.Reject)
}

func (h *ProposalHandler) reviewHandler(
	w http.ResponseWriter,
	r *http.Request,
	review func(ctx context.Context, reviewerID, proposalID uint) (*models.Proposal, error),
) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	proposalID, err := storage.StrToUint(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid proposal id")
		return
	}

	proposal, err := review(r.Context(), userID, proposalID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, proposal)
}
