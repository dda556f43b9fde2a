package review

import (
	"errors"
	"net/http"

	"clinic-reviews/internal/handler/http/pathutil"
	"clinic-reviews/internal/handler/http/respond"
	reviewUC "clinic-reviews/internal/usecase/review"
)

// GetHandler serves GET /reviews/{id}. Only verified posts are visible;
// an unverified post responds 404 exactly like a missing one.
type GetHandler struct{ Svc *reviewUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := pathutil.ExtractID(r.URL.Path, "/reviews/", "")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	item, err := h.Svc.GetPost(r.Context(), id)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, reviewUC.ErrInvalidPostID) {
			code = http.StatusBadRequest
		} else if errors.Is(err, reviewUC.ErrPostNotFound) {
			code = http.StatusNotFound
		}
		respond.SafeError(w, code, err)
		return
	}

	respond.JSON(w, http.StatusOK, toDTO(*item))
}
