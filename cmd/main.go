package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"aperture/internal/adapters/ai"
	"aperture/internal/adapters/config"
	"aperture/internal/adapters/errors/noop"
	"aperture/internal/adapters/errors/sentry"
	"aperture/internal/adapters/redis"
	"aperture/internal/adapters/secrets"
	"aperture/internal/api/health"
	apihttp "aperture/internal/api/http"
	"aperture/internal/metrics"
	"aperture/internal/services/analysis"
	"aperture/internal/services/credentials"
	"aperture/internal/services/prompt"
	"aperture/pkg/errors"
	"aperture/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	log.Infof("Starting %s %s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Env)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)

	metrics.Register()

	// Secret backend
	secretStore, redisClient := initSecretStore(cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Core wiring
	creds := credentials.NewStore(secretStore, cfg.Crypto.MasterKey)
	factory := ai.NewFactory(cfg.AI.OpenAIBaseURL)
	transport := ai.NewHTTPTransport(cfg.AI.RequestTimeout)
	limiter := ai.NewLimiterFor(
		ai.ProviderName(ai.NormalizeProviderName(cfg.AI.Provider)),
		cfg.AI.RateLimitPerMinute,
	)
	settings := analysis.SettingsFunc(func() analysis.Settings {
		return analysis.SettingsFromConfig(cfg)
	})

	engine := analysis.NewEngine(factory, creds, prompt.NewBuilder(nil), transport, settings, limiter)
	scheduler := analysis.NewBatchScheduler(engine, settings)

	// HTTP surface
	var rawRedis *goredis.Client
	if redisClient != nil {
		rawRedis = redisClient.Client()
	}
	healthHandler := health.New(log, rawRedis, cfg.App.Name, cfg.App.Version)
	service := apihttp.NewService(log, factory, engine, scheduler, creds, cfg.HTTP.MaxUploadBytes)
	router := apihttp.NewRouter(service, healthHandler, cfg.App.Env)

	srv := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: router,
	}

	go func() {
		log.Infof("HTTP server listening on %s", cfg.HTTP.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	waitForShutdown(cfg, srv, errorTracker, log)
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initSecretStore picks the configured credential backend.
func initSecretStore(cfg *config.Config, log *logger.Logger) (secrets.Store, *redis.Client) {
	if cfg.Crypto.SecretBackend == "memory" {
		log.Warn("Using in-memory secret store; credentials will not survive a restart")
		return secrets.NewMemoryStore(), nil
	}

	client, err := redis.NewClient(cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Infof("Connected to Redis at %s", cfg.Redis.Addr())
	return secrets.NewRedisStore(client.Client()), client
}

// waitForShutdown blocks until a termination signal, then drains the server.
func waitForShutdown(cfg *config.Config, srv *http.Server, tracker errors.Tracker, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Infof("Received signal %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("HTTP server shutdown failed: %v", err)
	}

	_ = tracker.Flush(ctx)
	log.Info("Shutdown complete")
}
