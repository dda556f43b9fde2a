package review

import (
	"errors"
	"log/slog"
	"net/http"

	"clinic-reviews/internal/handler/http/respond"
	"clinic-reviews/internal/observability/logging"
	"clinic-reviews/internal/pkg/csvimport"
	reviewUC "clinic-reviews/internal/usecase/review"
)

// maxImportSize caps the uploaded CSV at 5 MB; import files are a few
// hundred rows at most.
const maxImportSize = 5 << 20

type importResponse struct {
	TotalRows int      `json:"total_rows"`
	Processed int      `json:"processed"`
	Matched   int      `json:"matched"`
	Unmatched int      `json:"unmatched"`
	Errors    []string `json:"errors"`
}

// ImportCSVHandler serves POST /admin/blog-posts/import-csv: a multipart
// upload of review rows, ingested sequentially through the same pipeline as
// single submissions. Row failures are collected, not fatal.
type ImportCSVHandler struct {
	Svc    *reviewUC.Service
	Logger *slog.Logger
}

func (h ImportCSVHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := logging.WithRequestID(r.Context(), h.Logger)

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid multipart upload"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, errors.New("file field is required"))
		return
	}
	defer func() { _ = file.Close() }()

	rows, err := csvimport.Parse(file)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	ingestRows := make([]reviewUC.IngestRow, 0, len(rows))
	for _, row := range rows {
		ingestRows = append(ingestRows, reviewUC.IngestRow{
			URL:           row.URL,
			ClinicName:    row.ClinicName,
			ClinicAddress: row.ClinicAddress,
			Category:      row.Category,
			Notes:         row.Notes,
		})
	}

	result, err := h.Svc.IngestBatch(r.Context(), ingestRows)
	if err != nil {
		logger.Error("CSV import aborted",
			"error", err.Error(),
			"filename", header.Filename)
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}

	logger.Info("CSV import finished",
		"filename", header.Filename,
		"total_rows", result.TotalRows,
		"processed", result.Processed,
		"matched", result.Matched,
		"unmatched", result.Unmatched,
		"failed", len(result.Errors))

	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}
	respond.JSON(w, http.StatusOK, importResponse{
		TotalRows: result.TotalRows,
		Processed: result.Processed,
		Matched:   result.Matched,
		Unmatched: result.Unmatched,
		Errors:    errs,
	})
}
