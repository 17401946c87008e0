// File: saubio/main.go
package main

import (
	"context"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"saubio/config"
	"saubio/handlers"
	"saubio/metrics"
	"saubio/middleware"
	"saubio/routes"
	"saubio/services/draft"
	"saubio/services/matching"
	"saubio/services/payment"
	"saubio/services/planner"
	"saubio/services/saubioapi"
	"saubio/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

const progressRetention = 6 * time.Hour

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	stripe.Key = cfg.StripeKey

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Draft storage.
	var (
		store       draft.Store
		redisClient *redis.Client
	)
	switch cfg.DraftBackend {
	case "memory":
		store = draft.NewMemoryStore()
		logger.Warn("main: drafts are kept in memory and lost on restart")
	default:
		redisClient = utils.GetDraftCacheClient()
		store = draft.NewRedisStore(redisClient, cfg.DraftTTL(), logger)
	}

	// Metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New("saubio", registry)

	// Services.
	api := saubioapi.NewClient(cfg.SaubioAPIURL, cfg.APITimeout(), logger)
	ctrl := planner.NewController(store, api, planner.Options{
		Currency:         cfg.Currency,
		PlatformFeeCents: cfg.PlatformFeeCents,
		BasePath:         cfg.FrontendBasePath,
		Location:         cfg.Location(),
		LookupDebounce:   cfg.LookupDebounce(),
		Recorder:         m,
	}, logger)

	var sessions payment.SessionFetcher
	if cfg.StripeKey != "" {
		sessions = payment.StripeSessions{}
	}
	resolver := payment.NewResolver(api, sessions, cfg.FrontendBasePath, logger)

	tracker := matching.NewTracker()
	if cfg.SaubioEventsURL != "" {
		go matching.NewListener(cfg.SaubioEventsURL, nil, tracker, logger).Run(ctx)
	}
	go pruneProgress(ctx, tracker, logger)

	utils.StartHealthMonitor(ctx, redisClient, strings.TrimRight(cfg.SaubioAPIURL, "/")+"/health")

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(m.Middleware())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewPlannerHandler(ctrl),
		handlers.NewPaymentHandler(ctrl, resolver),
		handlers.NewMatchingHandler(ctrl, tracker, handlers.NewUpgrader(cfg.AllowedOrigins())),
	)
	routes.RegisterRoutes(router, handlerBundle, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		Metrics:        m.Handler(),
	})

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	_ = logger.Sync()

	logger.Sugar().Info("main: server stopped gracefully")
}

// pruneProgress drops matching progress nobody has updated for a while.
func pruneProgress(ctx context.Context, tracker *matching.Tracker, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := tracker.Forget(now.Add(-progressRetention)); n > 0 {
				logger.Debug("pruned matching progress", zap.Int("contexts", n))
			}
		}
	}
}
