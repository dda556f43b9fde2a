package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-reviews/internal/common/pagination"
	appconfig "clinic-reviews/internal/config"
	"clinic-reviews/internal/infra/adapter/persistence/postgres"
	"clinic-reviews/internal/infra/adapter/persistence/sqlite"
	"clinic-reviews/internal/infra/db"
	"clinic-reviews/internal/infra/fetcher"
	"clinic-reviews/internal/infra/notifier"
	"clinic-reviews/internal/observability/logging"
	"clinic-reviews/internal/observability/slo"
	"clinic-reviews/internal/observability/tracing"
	"clinic-reviews/internal/repository"
	"clinic-reviews/internal/resilience/circuitbreaker"
	clinicUC "clinic-reviews/internal/usecase/clinic"
	"clinic-reviews/internal/usecase/match"
	reviewUC "clinic-reviews/internal/usecase/review"

	hhttp "clinic-reviews/internal/handler/http"
	hauth "clinic-reviews/internal/handler/http/auth"
	hclinic "clinic-reviews/internal/handler/http/clinic"
	"clinic-reviews/internal/handler/http/middleware"
	"clinic-reviews/internal/handler/http/requestid"
	hreview "clinic-reviews/internal/handler/http/review"
	authservice "clinic-reviews/internal/service/auth"
)

// defaultMinPasswordLength applies when no security config file overrides it.
const defaultMinPasswordLength = 12

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	minPasswordLength := loadMinPasswordLength(logger)
	if err := hauth.ValidateAdminCredentials(minPasswordLength); err != nil {
		fatal(logger, "admin credentials validation failed", err)
	}
	if err := checkJWTSecret(); err != nil {
		fatal(logger, "JWT secret rejected", err)
	}

	database := openDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	version := envOr("VERSION", "dev")
	components := setupServer(logger, database, version, minPasswordLength)

	runServer(logger, components, version)
}

// fatal logs the error and exits; startup problems are not recoverable.
func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadMinPasswordLength reads the optional security config file. A missing
// file is fine; the defaults apply.
func loadMinPasswordLength(logger *slog.Logger) int {
	path := os.Getenv("SECURITY_CONFIG_PATH")
	if path == "" {
		return defaultMinPasswordLength
	}

	cfg, err := appconfig.LoadSecurityConfig(path)
	if err != nil {
		logger.Error("failed to load security configuration",
			slog.String("path", path),
			slog.Any("error", err))
		os.Exit(1)
	}
	if n := cfg.GetMinPasswordLength(); n > 0 {
		return n
	}
	return defaultMinPasswordLength
}

// checkJWTSecret enforces the signing key requirements before the token
// endpoint is ever exposed.
func checkJWTSecret() error {
	secret := os.Getenv("JWT_SECRET")
	switch {
	case secret == "":
		return errors.New("JWT_SECRET must be set")
	case len(secret) < 32:
		// At least 256 bits of key material.
		return errors.New("JWT_SECRET must be at least 32 characters (256 bits)")
	}
	for _, weak := range []string{"secret", "password", "test", "admin", "default"} {
		if secret == weak || secret == weak+"123" {
			return fmt.Errorf("JWT_SECRET must not be a common weak value (%q)", weak)
		}
	}
	return nil
}

// openDatabase opens the configured database and brings the schema up to
// date.
func openDatabase(logger *slog.Logger) *sql.DB {
	database := db.Open()
	if err := db.MigrateUp(database, db.Driver()); err != nil {
		fatal(logger, "failed to migrate database", err)
	}
	return database
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	AuthLimiter *middleware.RateLimiter
}

// buildRepositories selects the persistence adapters for the configured
// driver.
func buildRepositories(database *sql.DB) (repository.BlogPostRepository, repository.ClinicRepository) {
	// Repository queries run behind a circuit breaker so a dead database
	// fails fast instead of piling up blocked requests.
	pool := circuitbreaker.NewDBCircuitBreaker(database)
	if db.Driver() == "sqlite3" {
		return sqlite.NewBlogPostRepo(pool), sqlite.NewClinicRepo(pool)
	}
	return postgres.NewBlogPostRepo(pool), postgres.NewClinicRepo(pool)
}

// setupServer configures and returns the HTTP handler with all routes and middleware.
func setupServer(logger *slog.Logger, database *sql.DB, version string, minPasswordLength int) *ServerComponents {
	posts, clinics := buildRepositories(database)

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		fatal(logger, "failed to load fetcher configuration", err)
	}

	alerts, err := notifier.FromEnv(logger)
	if err != nil {
		fatal(logger, "failed to configure notifier", err)
	}

	reviewSvc := &reviewUC.Service{
		Posts:    posts,
		Clinics:  clinics,
		Fetcher:  fetcher.NewNaverFetcher(nil, fetchCfg, logger),
		Resolver: match.NewResolver(clinics, logger),
		Notifier: alerts,
		Logger:   logger,
	}
	clinicSvc := &clinicUC.Service{Clinics: clinics}

	rootMux, authLimiter := setupRoutes(database, version, reviewSvc, clinicSvc, minPasswordLength, logger)
	handler := applyMiddleware(logger, rootMux)

	return &ServerComponents{
		Handler:     handler,
		AuthLimiter: authLimiter,
	}
}

// setupRoutes registers all public and protected routes on a fresh mux.
func setupRoutes(
	database *sql.DB,
	version string,
	reviewSvc *reviewUC.Service,
	clinicSvc *clinicUC.Service,
	minPasswordLength int,
	logger *slog.Logger,
) (*http.ServeMux, *middleware.RateLimiter) {
	// The token endpoint gets a tight per-IP limit: 5 requests a minute
	// is plenty for a human admin and starves credential stuffing.
	authRateLimiter := middleware.NewRateLimiter(5, 1*time.Minute, &middleware.RemoteAddrExtractor{})

	authProvider := hauth.NewEnvAdminProvider(minPasswordLength)
	authService := authservice.NewAuthService(authProvider)

	paginationCfg := pagination.LoadFromEnv()

	mux := http.NewServeMux()
	mux.Handle("POST   /auth/token", authRateLimiter.Middleware(hauth.TokenHandler(authService)))

	mux.Handle("GET    /health", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("GET    /healthz", &hhttp.HealthHandler{DB: database, Version: version})
	mux.Handle("GET    /ready", &hhttp.ReadyHandler{DB: database})
	mux.Handle("GET    /live", &hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	hreview.Register(mux, reviewSvc, paginationCfg, logger)
	hclinic.Register(mux, clinicSvc)

	return mux, authRateLimiter
}

// applyMiddleware wraps the handler with the middleware chain.
// Order: CORS → Request ID → Tracing → Recovery → Logging → Input limits → Metrics
func applyMiddleware(logger *slog.Logger, handler http.Handler) http.Handler {
	corsConfig, err := middleware.LoadCORSConfig()
	if err != nil {
		fatal(logger, "failed to load CORS configuration", err)
	}
	corsConfig.Logger = &middleware.SlogAdapter{Logger: logger}

	logger.Info("CORS enabled",
		slog.Int("allowed_origins_count", len(corsConfig.Validator.GetAllowedOrigins())),
		slog.Any("allowed_methods", corsConfig.AllowedMethods),
		slog.Any("allowed_headers", corsConfig.AllowedHeaders),
		slog.Int("max_age", corsConfig.MaxAge))

	chain := handler

	// Apply in reverse order (innermost to outermost).
	chain = hhttp.Timeout(30 * time.Second)(chain)
	chain = hhttp.MetricsMiddleware(chain)
	chain = hhttp.InputValidation()(chain)
	chain = hhttp.LimitRequestBody(10 << 20)(chain) // CSV imports dominate body size
	chain = hhttp.Logging(logger)(chain)
	chain = hhttp.Recover(logger)(chain)
	chain = tracing.Middleware(chain)
	chain = requestid.Middleware(chain)
	chain = middleware.CORS(*corsConfig)(chain)

	return chain
}

// runServer starts the HTTP server and handles graceful shutdown.
func runServer(logger *slog.Logger, components *ServerComponents, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if components.AuthLimiter != nil {
		go hhttp.StartRateLimitCleanup(ctx, components.AuthLimiter, 5*time.Minute, "auth")
	}

	// Recompute the SLO gauges once a minute from the requests seen since
	// the previous flush.
	slo.Start(ctx, time.Minute)

	addr := envOr("HTTP_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           components.Handler,
		ReadHeaderTimeout: 10 * time.Second, // Slowloris
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal(logger, "server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
