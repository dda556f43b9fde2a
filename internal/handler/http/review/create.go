package review

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinic-reviews/internal/domain/entity"
	"clinic-reviews/internal/handler/http/respond"
	reviewUC "clinic-reviews/internal/usecase/review"
)

type createRequest struct {
	URL           string `json:"url"`
	ClinicName    string `json:"clinic_name"`
	ClinicAddress string `json:"clinic_address"`
	Category      string `json:"category"`
	Notes         string `json:"notes"`
}

// CreateHandler serves POST /admin/blog-posts: ingest one blog URL.
// Re-submitting an already ingested URL succeeds without a second fetch.
type CreateHandler struct{ Svc *reviewUC.Service }

func (h CreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	err := h.Svc.IngestSingle(r.Context(), reviewUC.IngestRow{
		URL:           req.URL,
		ClinicName:    req.ClinicName,
		ClinicAddress: req.ClinicAddress,
		Category:      req.Category,
		Notes:         req.Notes,
	})
	if err != nil {
		var vErr *entity.ValidationError
		switch {
		case errors.As(err, &vErr):
			respond.SafeError(w, http.StatusBadRequest, err)
		case errors.Is(err, reviewUC.ErrFetchFailed):
			// The sentinel text is safe to surface; SafeError would mask
			// anything at 5xx.
			respond.Error(w, http.StatusBadGateway, reviewUC.ErrFetchFailed)
		default:
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]string{"status": "ingested"})
}
