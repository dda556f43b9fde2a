package review

import (
	"log/slog"
	"net/http"
	"strings"

	"clinic-reviews/internal/common/pagination"
	"clinic-reviews/internal/handler/http/auth"
	reviewUC "clinic-reviews/internal/usecase/review"
)

// Register wires the public read routes and the admin moderation routes.
// Admin routes go through the auth middleware; the public read surface
// serves verified posts only and needs no token.
func Register(mux *http.ServeMux, svc *reviewUC.Service, paginationCfg pagination.Config, logger *slog.Logger) {
	mux.Handle("GET    /reviews", ListHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	})
	mux.Handle("GET    /reviews/", GetHandler{svc})

	mux.Handle("POST   /admin/blog-posts", auth.Authz(CreateHandler{svc}))
	mux.Handle("POST   /admin/blog-posts/import-csv", auth.Authz(ImportCSVHandler{Svc: svc, Logger: logger}))
	mux.Handle("GET    /admin/blog-posts/unmatched", auth.Authz(UnmatchedHandler{
		Svc:           svc,
		PaginationCfg: paginationCfg,
		Logger:        logger,
	}))
	mux.Handle("PUT    /admin/blog-posts/", auth.Authz(MatchVerifyMux{svc}))
}

// MatchVerifyMux routes the two per-post admin actions that share the
// /admin/blog-posts/{id} prefix.
type MatchVerifyMux struct{ Svc *reviewUC.Service }

func (m MatchVerifyMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case strings.HasSuffix(r.URL.Path, "/match"):
		MatchHandler{m.Svc}.ServeHTTP(w, r)
	case strings.HasSuffix(r.URL.Path, "/verify"):
		VerifyHandler{m.Svc}.ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}
