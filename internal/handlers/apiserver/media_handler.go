package apiserver

import (
	"net/http"

	"github.com/gorilla/mux"
)

// SignedRequestVerifier validates the exp/sig query parameters of a signed
// media URL and resolves the object's local path.
type SignedRequestVerifier interface {
	VerifySignedRequest(key, expStr, sig string) (string, error)
}

// MediaHandler serves stored files referenced by signed URLs.
type MediaHandler struct {
	verifier SignedRequestVerifier
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(verifier SignedRequestVerifier) *MediaHandler {
	return &MediaHandler{verifier: verifier}
}

// ServeHandler handles GET /media/{key}?exp=...&sig=... Unsigned or expired
// requests get 403, never a directory listing or a raw path.
func (h *MediaHandler) ServeHandler(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	q := r.URL.Query()

	path, err := h.verifier.VerifySignedRequest(key, q.Get("exp"), q.Get("sig"))
	if err != nil {
		writeJSONError(w, http.StatusForbidden, "invalid or expired media URL")
		return
	}
	http.ServeFile(w, r, path)
}
