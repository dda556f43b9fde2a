// Package clinic provides the HTTP handler for clinic directory lookups.
package clinic

import (
	"errors"
	"net/http"
	"strconv"

	"clinic-reviews/internal/handler/http/respond"
	clinicUC "clinic-reviews/internal/usecase/clinic"
)

// DTO is the JSON shape of a clinic directory entry.
type DTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Address  string `json:"address,omitempty"`
	Province string `json:"province,omitempty"`
	District string `json:"district,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
}

var errInvalidLimit = errors.New("limit must be a positive integer")

// SearchHandler serves GET /clinics: directory search by name for the
// admin matching UI and the public site's clinic pages.
type SearchHandler struct{ Svc *clinicUC.Service }

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("search")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respond.SafeError(w, http.StatusBadRequest, errInvalidLimit)
			return
		}
		limit = n
	}

	clinics, err := h.Svc.Search(r.Context(), keyword, limit)
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(clinics))
	for _, c := range clinics {
		dtos = append(dtos, DTO{
			ID:       c.ID,
			Name:     c.Name,
			Address:  c.Address,
			Province: c.Province,
			District: c.District,
			Phone:    c.Phone,
			Website:  c.Website,
		})
	}

	respond.JSON(w, http.StatusOK, dtos)
}

// Register wires the clinic directory routes.
func Register(mux *http.ServeMux, svc *clinicUC.Service) {
	mux.Handle("GET    /clinics", SearchHandler{svc})
}
