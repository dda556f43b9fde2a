package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"clinic-reviews/internal/handler/http/respond"
	"clinic-reviews/internal/infra/adapter/persistence/postgres"
	"clinic-reviews/internal/infra/adapter/persistence/sqlite"
	"clinic-reviews/internal/infra/db"
	"clinic-reviews/internal/infra/fetcher"
	"clinic-reviews/internal/infra/notifier"
	workerPkg "clinic-reviews/internal/infra/worker"
	"clinic-reviews/internal/observability/logging"
	obsmetrics "clinic-reviews/internal/observability/metrics"
	"clinic-reviews/internal/repository"
	"clinic-reviews/internal/resilience/circuitbreaker"
	"clinic-reviews/internal/usecase/match"
	reviewUC "clinic-reviews/internal/usecase/review"
)

// waitForMigrations blocks until the API side has created the schema.
// The worker and API share one database; only the API runs migrations.
func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM blog_posts LIMIT 1"
	for attempt := 1; attempt <= 10; attempt++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", attempt))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	database := db.Open()
	waitForMigrations(logger, database)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker configuration loads fail-open: bad values fall back to
	// defaults and are surfaced through the config metrics.
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		fatal(logger, "failed to load worker configuration", err)
	}
	logger.Info("worker configuration loaded",
		slog.String("cron_schedule", workerConfig.CronSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("crawl_max_concurrent", workerConfig.CrawlMaxConcurrent),
		slog.Duration("crawl_timeout", workerConfig.CrawlTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	startMetricsServer(ctx, logger)
	healthServer := startHealthServer(ctx, logger, workerConfig.HealthPort)

	svc, feeds, posts, clinics := setupReviewService(logger, database)

	startCronWorker(logger, svc, feeds, posts, clinics, workerConfig, workerMetrics, healthServer)
}

// fatal logs the error and exits; startup problems are not recoverable.
func fatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, slog.Any("error", err))
	os.Exit(1)
}

// startHealthServer runs the liveness and readiness endpoints in the
// background. It returns the server so the caller can flip readiness once
// the cron schedule is installed.
func startHealthServer(ctx context.Context, logger *slog.Logger, port int) *workerPkg.HealthServer {
	addr := fmt.Sprintf(":%d", port)
	healthServer := workerPkg.NewHealthServer(addr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()
	logger.Info("health check server started", slog.String("addr", addr))
	return healthServer
}

// buildRepositories selects the persistence adapters for the configured driver.
func buildRepositories(database *sql.DB) (repository.BlogPostRepository, repository.ClinicRepository) {
	// Repository queries run behind a circuit breaker so a dead database
	// fails fast instead of piling up blocked requests.
	pool := circuitbreaker.NewDBCircuitBreaker(database)
	if db.Driver() == "sqlite3" {
		return sqlite.NewBlogPostRepo(pool), sqlite.NewClinicRepo(pool)
	}
	return postgres.NewBlogPostRepo(pool), postgres.NewClinicRepo(pool)
}

// setupReviewService wires the ingestion pipeline the crawl job runs
// through. The Naver fetcher doubles as the feed lister: FetchPost for
// individual posts, ListFeedPosts for the crawl.
func setupReviewService(logger *slog.Logger, database *sql.DB) (*reviewUC.Service, reviewUC.FeedLister, repository.BlogPostRepository, repository.ClinicRepository) {
	posts, clinics := buildRepositories(database)

	fetchCfg, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		fatal(logger, "failed to load fetcher configuration", err)
	}
	naver := fetcher.NewNaverFetcher(nil, fetchCfg, logger)

	alerts, err := notifier.FromEnv(logger)
	if err != nil {
		fatal(logger, "failed to configure notifier", err)
	}

	svc := &reviewUC.Service{
		Posts:    posts,
		Clinics:  clinics,
		Fetcher:  naver,
		Resolver: match.NewResolver(clinics, logger),
		Notifier: alerts,
		Logger:   logger,
	}
	return svc, naver, posts, clinics
}

// scheduleLocation resolves the configured timezone, falling back to UTC
// rather than refusing to start.
func scheduleLocation(logger *slog.Logger, timezone string) *time.Location {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Error("invalid timezone, using UTC", slog.String("timezone", timezone), slog.Any("error", err))
		return time.UTC
	}
	return loc
}

// startCronWorker installs the crawl job on the cron schedule and blocks
// forever.
func startCronWorker(
	logger *slog.Logger,
	svc *reviewUC.Service,
	feeds reviewUC.FeedLister,
	posts repository.BlogPostRepository,
	clinics repository.ClinicRepository,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
	healthServer *workerPkg.HealthServer,
) {
	c := cron.New(cron.WithLocation(scheduleLocation(logger, cfg.Timezone)))
	_, err := c.AddFunc(cfg.CronSchedule, func() {
		runCrawlJob(logger, svc, feeds, posts, clinics, cfg, metrics)
	})
	if err != nil {
		fatal(logger, "failed to add cron job", err)
	}
	c.Start()

	healthServer.SetReady(true)
	logger.Info("worker marked as ready")

	logger.Info("worker started", slog.String("schedule", cfg.CronSchedule), slog.String("timezone", cfg.Timezone))
	select {}
}

// runCrawlJob executes a single re-crawl run with timeout and error handling.
func runCrawlJob(
	logger *slog.Logger,
	svc *reviewUC.Service,
	feeds reviewUC.FeedLister,
	posts repository.BlogPostRepository,
	clinics repository.ClinicRepository,
	cfg *workerPkg.WorkerConfig,
	metrics *workerPkg.WorkerMetrics,
) {
	startTime := time.Now()
	metrics.RecordJobRun("started")
	logger.Info("crawl started")

	result := "failure"
	defer func() {
		metrics.RecordJobRun(result)
		metrics.RecordJobDuration(time.Since(startTime).Seconds())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.CrawlTimeout)
	defer cancel()

	stats, err := svc.RecrawlKnownBlogs(ctx, feeds, cfg.CrawlMaxConcurrent)
	if err != nil {
		logger.Error("crawl failed", slog.String("error", respond.SanitizeError(err)))
		return
	}

	result = "success"
	metrics.RecordFeedsProcessed(stats.Blogs)
	metrics.RecordLastSuccess()
	for blogID, count := range stats.PerBlog {
		obsmetrics.RecordPostsCrawled(blogID, count)
	}
	updateStoreGauges(ctx, logger, posts, clinics)

	logger.Info("crawl completed",
		slog.Int("blogs", stats.Blogs),
		slog.Int("feed_items", stats.FeedItems),
		slog.Int("ingested", stats.Ingested),
		slog.Int("skipped", stats.Skipped),
		slog.Int("errors", stats.Errors),
		slog.Duration("duration", stats.Duration),
	)
}

// updateStoreGauges refreshes the store-level gauges after a crawl run.
// Failures here only cost metric freshness, so they are logged and dropped.
func updateStoreGauges(ctx context.Context, logger *slog.Logger, posts repository.BlogPostRepository, clinics repository.ClinicRepository) {
	urls, err := posts.ListCanonicalURLs(ctx)
	if err != nil {
		logger.Warn("failed to count stored posts", slog.Any("error", err))
		return
	}
	obsmetrics.UpdatePostsTotal(len(urls))

	unmatched, err := posts.CountUnmatched(ctx)
	if err != nil {
		logger.Warn("failed to count unmatched posts", slog.Any("error", err))
		return
	}
	obsmetrics.UpdateUnmatchedPostsTotal(int(unmatched))

	directory, err := clinics.List(ctx)
	if err != nil {
		logger.Warn("failed to count clinics", slog.Any("error", err))
		return
	}
	obsmetrics.UpdateClinicsTotal(len(directory))
}
