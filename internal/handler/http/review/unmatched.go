package review

import (
	"log/slog"
	"net/http"

	"clinic-reviews/internal/common/pagination"
	"clinic-reviews/internal/handler/http/respond"
	"clinic-reviews/internal/observability/logging"
	reviewUC "clinic-reviews/internal/usecase/review"
)

// UnmatchedHandler serves GET /admin/blog-posts/unmatched: the moderation
// queue, oldest first.
type UnmatchedHandler struct {
	Svc           *reviewUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h UnmatchedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.Svc.ListUnmatched(r.Context(), params)
	if err != nil {
		logger.Error("Failed to list unmatched posts", "error", err.Error())
		pagination.RecordError("database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]QueueDTO, 0, len(result.Data))
	for _, post := range result.Data {
		dtos = append(dtos, toQueueDTO(post))
	}

	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}
