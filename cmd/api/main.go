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
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"forum-reader/internal/common/pagination"
	forumcfg "forum-reader/internal/config"
	"forum-reader/internal/infra/adapter/persistence/sqlstore"
	"forum-reader/internal/infra/db"
	"forum-reader/internal/infra/preference"
	"forum-reader/internal/infra/render"
	"forum-reader/internal/observability/logging"
	"forum-reader/internal/observability/metrics"
	"forum-reader/internal/observability/tracing"
	"forum-reader/internal/repository"
	"forum-reader/internal/resilience/circuitbreaker"
	"forum-reader/internal/resilience/retry"
	"forum-reader/internal/usecase/feed"
	"forum-reader/internal/usecase/listing"
	"forum-reader/internal/usecase/question"
	"forum-reader/internal/usecase/revision"
	"forum-reader/pkg/config"

	hhttp "forum-reader/internal/handler/http"
	hauth "forum-reader/internal/handler/http/auth"
	"forum-reader/internal/handler/http/forum"
	"forum-reader/internal/handler/http/requestid"
	"forum-reader/internal/handler/http/responsewriter"
	"forum-reader/internal/handler/http/session"
)

// feedExcerptRunes bounds item descriptions in RSS output.
const feedExcerptRunes = 300

func main() {
	cfg := config.LoadServerConfig()
	logger := logging.NewLogger(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	forumConfig := loadForumConfig(logger, cfg.ForumConfig)
	version := getVersion()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		ServiceName:    "forum-reader",
		ServiceVersion: version,
		SampleRatio:    cfg.TraceSampleRatio,
	})
	if err != nil {
		logger.Error("failed to set up tracing", slog.Any("error", err))
		os.Exit(1)
	}

	records, database := initRecordStore(ctx, logger, cfg.DatabaseURL)
	if database != nil {
		defer func() {
			if err := database.Close(); err != nil {
				logger.Error("failed to close database", slog.Any("error", err))
			}
		}()
	}

	prefs, rdb := initPreferenceStore(ctx, logger, cfg)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	components := setupServer(logger, cfg, forumConfig, records, prefs, database, rdb, version)

	janitor := startJanitor(logger, cfg, components, prefs, database)
	defer janitor.Stop()

	runServer(ctx, cancel, logger, cfg, components.Handler, version)

	flushCtx, flushCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer flushCancel()
	if err := shutdownTracing(flushCtx); err != nil {
		logger.Error("tracing shutdown failed", slog.Any("error", err))
	}
}

// getVersion returns the application version from environment or default.
func getVersion() string {
	return config.GetEnvString("VERSION", "dev")
}

func loadForumConfig(logger *slog.Logger, path string) *forumcfg.ForumConfig {
	if path == "" {
		logger.Info("no FORUM_CONFIG set, using default forum configuration")
		return forumcfg.DefaultForumConfig()
	}
	c, err := forumcfg.LoadForumConfig(path)
	if err != nil {
		logger.Error("failed to load forum configuration", slog.String("path", path), slog.Any("error", err))
		os.Exit(1)
	}
	return c
}

// recordStore is what the use cases read from.
type recordStore interface {
	Questions() repository.QuestionRepository
	Answers() repository.AnswerRepository
	Tags() repository.TagRepository
	Users() repository.UserRepository
	Revisions() repository.RevisionRepository
}

// initRecordStore opens DATABASE_URL, migrates it and reads through a
// circuit breaker. Without a database the in-memory demo forum is served.
func initRecordStore(ctx context.Context, logger *slog.Logger, dsn string) (recordStore, *sql.DB) {
	if dsn == "" {
		logger.Warn("DATABASE_URL not set, serving the in-memory demo forum")
		return demoStore(time.Now()), nil
	}

	var (
		database *sql.DB
		dialect  sqlstore.Dialect
	)
	err := retry.WithBackoff(ctx, retry.StartupConfig("database"), func() error {
		var err error
		database, dialect, err = db.Open(ctx, dsn)
		return err
	})
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database, dialect); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	if config.GetEnvBool("SEED_DEMO", false) {
		if err := db.Seed(database); err != nil {
			logger.Error("failed to seed database", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("demo data seeded")
	}
	return sqlstore.New(circuitbreaker.NewDBCircuitBreaker(database), dialect), database
}

// initPreferenceStore keeps preferences in redis when REDIS_ADDR is set
// and in process memory otherwise.
func initPreferenceStore(ctx context.Context, logger *slog.Logger, cfg config.ServerConfig) (pagination.PreferenceStore, *redis.Client) {
	ttl := pagination.LoadFromEnv().PreferenceTTL
	var rdb *redis.Client
	err := retry.WithBackoff(ctx, retry.StartupConfig("redis"), func() error {
		var err error
		rdb, err = preference.NewRedisClient(ctx, cfg.RedisAddr,
			config.GetEnvString("REDIS_PASSWORD", ""), config.GetEnvInt("REDIS_DB", 0))
		return err
	})
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	if rdb == nil {
		logger.Info("preferences kept in memory", slog.Duration("ttl", ttl))
		return pagination.NewMemoryPreferenceStore(ttl), nil
	}
	return preference.NewRedisStore(rdb, ttl), rdb
}

// ServerComponents holds components needed for server operation and cleanup.
type ServerComponents struct {
	Handler     http.Handler
	FeedLimiter *hhttp.RateLimiter // nil when rate limiting is disabled
}

// setupServer wires the use cases, routes and middleware.
func setupServer(
	logger *slog.Logger,
	cfg config.ServerConfig,
	fc *forumcfg.ForumConfig,
	records recordStore,
	prefs pagination.PreferenceStore,
	database *sql.DB,
	rdb *redis.Client,
	version string,
) *ServerComponents {
	pcfg := pagination.LoadFromEnv()

	contexts, err := listing.NewContexts(listing.ContextOptions{
		HottestWindow:    pcfg.HottestWindow,
		AcceptingEnabled: fc.AcceptingEnabled(),
		QuestionPages:    fc.Pagination.Questions.PageSizes(),
		AnswerPages:      fc.Pagination.Answers.PageSizes(),
		TagPages:         fc.Pagination.Tags.PageSizes(),
	})
	if err != nil {
		logger.Error("invalid paginator configuration", slog.Any("error", err))
		os.Exit(1)
	}

	feedCap := pcfg.FeedMaxItems
	if fc.Feeds.MaxItems > 0 {
		feedCap = fc.Feeds.MaxItems
	}
	feeds := feed.NewAdapter(fc.App.BaseURL, feedCap)
	summarize := func(html string) string { return render.Excerpt(html, feedExcerptRunes) }
	resolver := &pagination.Resolver{Store: prefs, Logger: logger}

	svc := forum.Services{
		Listings: &listing.Service{
			Questions:        records.Questions(),
			Tags:             records.Tags(),
			Users:            records.Users(),
			Contexts:         contexts,
			Resolver:         resolver,
			Feeds:            feeds,
			Summarize:        summarize,
			NavigationWindow: pcfg.NavigationWindow,
			AppTitle:         fc.App.Title,
			AppDescription:   fc.App.Description,
		},
		Questions: &question.Service{
			Questions:        records.Questions(),
			Answers:          records.Answers(),
			Context:          contexts.Answers,
			Resolver:         resolver,
			Feeds:            feeds,
			Summarize:        summarize,
			AcceptingEnabled: fc.AcceptingEnabled(),
			ForceSingleURL:   fc.Features.ForceSingleURL,
			NavigationWindow: pcfg.NavigationWindow,
		},
		Revisions: &revision.Service{
			Revisions: records.Revisions(),
			Renderer:  render.NewRevisionRenderer(),
			Differ:    render.NewHTMLDiffer(),
		},
	}

	probes := map[string]hhttp.Probe{}
	if rdb != nil {
		probes["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health", &hhttp.HealthHandler{DB: database, Probes: probes, Version: version})
	mux.Handle("GET /ready", &hhttp.ReadyHandler{DB: database, Probes: probes})
	mux.Handle("GET /live", &hhttp.LiveHandler{})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())
	forum.Register(mux, svc, logger)

	components := &ServerComponents{}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, every request is served anonymously")
	}
	identifier := hauth.Identifier{Secret: []byte(cfg.JWTSecret), Leeway: 30 * time.Second}
	sessions := session.Manager{MaxAge: cfg.SessionMaxAge, Secure: strings.HasPrefix(fc.App.BaseURL, "https://")}

	// Outermost first; the mux records its matched pattern for the
	// metrics, tracing and logging layers.
	mws := []hhttp.Middleware{
		hhttp.Recover(logger),
		requestid.Middleware,
		tracing.Middleware,
		hhttp.MetricsMiddleware,
		hhttp.Logging(logger),
		sessions.Middleware,
		identifier.Identify,
	}
	if cfg.RateLimit.Enabled {
		components.FeedLimiter = hhttp.NewRateLimiter("feed", cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
		components.FeedLimiter.Only = isFeedRequest
		mws = append(mws, components.FeedLimiter.Limit)
		logger.Info("feed rate limiting enabled",
			slog.Int("per_minute", cfg.RateLimit.PerMinute),
			slog.Int("burst", cfg.RateLimit.Burst))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	components.Handler = hhttp.Chain(responsewriter.CapturePattern(mux), mws...)
	return components
}

func isFeedRequest(r *http.Request) bool {
	return r.URL.Path == listing.IndexFeedPath || pagination.IsFeedRequest(r.URL.Query())
}

// startJanitor schedules the periodic maintenance job: expired in-memory
// preferences, idle rate limiter clients and connection pool gauges.
func startJanitor(logger *slog.Logger, cfg config.ServerConfig, components *ServerComponents,
	prefs pagination.PreferenceStore, database *sql.DB) *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc(cfg.JanitorSchedule, func() {
		if mem, ok := prefs.(*pagination.MemoryPreferenceStore); ok {
			n := mem.Sweep()
			metrics.RecordPreferencesSwept(n)
			if n > 0 {
				logger.Debug("expired preferences swept", slog.Int("removed", n), slog.Int("remaining", mem.Len()))
			}
		}
		if components.FeedLimiter != nil {
			n := components.FeedLimiter.Cleanup(cfg.RateLimit.IdleTTL)
			logger.Debug("idle rate limit clients removed",
				slog.Int("removed", n), slog.Int("active", components.FeedLimiter.Clients()))
		}
		if database != nil {
			stats := database.Stats()
			metrics.UpdateDBConnectionStats(stats.InUse, stats.Idle)
		}
	})
	if err != nil {
		logger.Error("failed to add janitor job", slog.Any("error", err))
		os.Exit(1)
	}
	c.Start()
	logger.Info("janitor started", slog.String("schedule", cfg.JanitorSchedule))
	return c
}

// runServer starts the HTTP server and blocks until SIGINT or SIGTERM,
// then drains in-flight requests.
func runServer(ctx context.Context, cancel context.CancelFunc, logger *slog.Logger,
	cfg config.ServerConfig, handler http.Handler, version string) {
	addr := ":" + strconv.Itoa(cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attacks
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", addr), slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listen on %s: %w", addr, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
		logger.Info("shutting down server...")
	case err := <-errCh:
		logger.Error("server failed", slog.Any("error", err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	cancel()
	logger.Info("server stopped")
}
