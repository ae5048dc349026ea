package apiserver

import (
	"net/http"
	"strconv"

	"vestiaire/internal/models"
	"vestiaire/internal/services"
	"vestiaire/internal/storage"

	"github.com/gorilla/mux"
)

// JerseyHandler serves the jersey catalogue and club reference data.
type JerseyHandler struct {
	jerseyService services.JerseyService
}

// NewJerseyHandler creates a new JerseyHandler.
func NewJerseyHandler(js services.JerseyService) *JerseyHandler {
	return &JerseyHandler{jerseyService: js}
}

type jerseyView struct {
	*models.Jersey
	ImageURL string `json:"imageUrl,omitempty"`
}

// ListJerseysHandler handles GET /jerseys with optional clubId, season,
// kind, q, page, pageSize query parameters.
func (h *JerseyHandler) ListJerseysHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := storage.JerseyFilter{
		Season: q.Get("season"),
		Query:  q.Get("q"),
	}
	if raw := q.Get("clubId"); raw != "" {
		clubID, err := storage.StrToUint(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid clubId")
			return
		}
		filter.ClubID = clubID
	}
	if raw := q.Get("kind"); raw != "" {
		kind := models.JerseyKind(raw)
		if !kind.Valid() {
			writeJSONError(w, http.StatusBadRequest, "invalid kind")
			return
		}
		filter.Kind = kind
	}

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	result, err := h.jerseyService.ListJerseys(r.Context(), filter, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	views := make([]jerseyView, 0, len(result.Jerseys))
	for i := range result.Jerseys {
		jersey := &result.Jerseys[i]
		views = append(views, jerseyView{
			Jersey:   jersey,
			ImageURL: h.jerseyService.ImageURL(r.Context(), jersey),
		})
	}

	writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"jerseys":  views,
		"total":    result.Total,
		"page":     result.Page,
		"pageSize": result.PageSize,
	})
}

// GetJerseyHandler handles GET /jerseys/{id}.
func (h *JerseyHandler) GetJerseyHandler(w http.ResponseWriter, r *http.Request) {
	jerseyID, err := storage.StrToUint(mux.Vars(r)["id"])
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid jersey id")
		return
	}

	jersey, err := h.jerseyService.GetJersey(r.Context(), jerseyID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, jerseyView{
		Jersey:   jersey,
		ImageURL: h.jerseyService.ImageURL(r.Context(), jersey),
	})
}

// ListClubsHandler handles GET /clubs.
func (h *JerseyHandler) ListClubsHandler(w http.ResponseWriter, r *http.Request) {
	clubs, err := h.jerseyService.ListClubs(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, clubs)
}
