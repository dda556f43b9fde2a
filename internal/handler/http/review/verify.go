package review

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-reviews/internal/handler/http/pathutil"
	"clinic-reviews/internal/handler/http/respond"
	reviewUC "clinic-reviews/internal/usecase/review"
)

type verifyRequest struct {
	Verified bool `json:"verified"`
}

// VerifyHandler serves PUT /admin/blog-posts/{id}/verify: flip the
// moderation gate that controls public visibility. Idempotent.
type VerifyHandler struct{ Svc *reviewUC.Service }

func (h VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/admin/blog-posts/", "/verify")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	if err := h.Svc.SetVerified(r.Context(), id, req.Verified); err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, reviewUC.ErrInvalidPostID):
			code = http.StatusBadRequest
		case errors.Is(err, reviewUC.ErrPostNotFound):
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"verified": req.Verified})
}
