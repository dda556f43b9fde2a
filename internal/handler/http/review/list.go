package review

import (
	"log/slog"
	"net/http"
	"time"

	"clinic-reviews/internal/common/pagination"
	"clinic-reviews/internal/handler/http/requestid"
	"clinic-reviews/internal/handler/http/respond"
	"clinic-reviews/internal/observability/logging"
	"clinic-reviews/internal/repository"
	reviewUC "clinic-reviews/internal/usecase/review"
)

// ListHandler serves GET /reviews: verified posts, newest first, with
// optional clinic, category, and free-text filters.
type ListHandler struct {
	Svc           *reviewUC.Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	startTime := time.Now()

	reqID := requestid.FromContext(ctx)
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		logger.Warn("Invalid pagination parameters",
			"error", err.Error(),
			"request_id", reqID)
		pagination.RecordError("validation")
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	filters := repository.PostFilters{
		ClinicName: r.URL.Query().Get("clinic"),
		Category:   r.URL.Query().Get("category"),
		Search:     r.URL.Query().Get("q"),
	}

	result, err := h.Svc.ListPosts(ctx, filters, params)
	if err != nil {
		logger.Error("Failed to list reviews",
			"error", err.Error(),
			"page", params.Page,
			"limit", params.Limit,
			"request_id", reqID)
		pagination.RecordError("database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	dtos := make([]DTO, 0, len(result.Data))
	for _, item := range result.Data {
		dtos = append(dtos, toDTO(item))
	}

	duration := time.Since(startTime)
	pagination.RecordRequest(http.StatusOK, params.Page)
	pagination.RecordDuration("handler", duration.Seconds())
	pagination.UpdateTotalCount(result.Pagination.Total)

	logger.Info("Review list served",
		"page", params.Page,
		"limit", params.Limit,
		"returned_count", len(dtos),
		"duration_ms", duration.Milliseconds(),
		"request_id", reqID)

	respond.JSON(w, http.StatusOK, pagination.NewResponse(dtos, result.Pagination))
}
