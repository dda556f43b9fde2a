package review

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-reviews/internal/handler/http/pathutil"
	"clinic-reviews/internal/handler/http/respond"
	reviewUC "clinic-reviews/internal/usecase/review"
)

type matchRequest struct {
	HospitalID int64 `json:"hospital_id"`
}

// MatchHandler serves PUT /admin/blog-posts/{id}/match: force-assign a post
// to a clinic. The clinic must exist.
type MatchHandler struct{ Svc *reviewUC.Service }

func (h MatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/admin/blog-posts/", "/match")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}
	if req.HospitalID <= 0 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("hospital_id must be positive"))
		return
	}

	if err := h.Svc.MatchPost(r.Context(), id, req.HospitalID); err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, reviewUC.ErrInvalidPostID):
			code = http.StatusBadRequest
		case errors.Is(err, reviewUC.ErrPostNotFound), errors.Is(err, reviewUC.ErrClinicNotFound):
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"status": "matched"})
}
