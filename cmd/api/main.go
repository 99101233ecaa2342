package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/material-scheduler/cmd/mainconfig"
	"github.com/wolfman30/material-scheduler/internal/api/router"
	"github.com/wolfman30/material-scheduler/internal/app/bootstrap"
	appconfig "github.com/wolfman30/material-scheduler/internal/config"
	"github.com/wolfman30/material-scheduler/internal/demo"
	"github.com/wolfman30/material-scheduler/internal/events"
	httpmiddleware "github.com/wolfman30/material-scheduler/internal/http/middleware"
	"github.com/wolfman30/material-scheduler/internal/notify"
	"github.com/wolfman30/material-scheduler/internal/observability/metrics"
	"github.com/wolfman30/material-scheduler/internal/sessions"
	"github.com/wolfman30/material-scheduler/pkg/logging"
)

const outboxSize = 1024

// application is everything the server runs, built from config.
type application struct {
	handler   http.Handler
	service   *sessions.Service
	manager   *sessions.Manager
	metrics   *metrics.BookingMetrics
	deliverer *events.Deliverer
	limiter   *httpmiddleware.RateLimiter
	redis     *redis.Client
}

func main() {
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting material-scheduler API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}

	bgCtx, cancelBackground := context.WithCancel(context.Background())
	var background sync.WaitGroup
	app.startBackground(bgCtx, &background, cfg)

	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     app.handler,
		ReadTimeout: 15 * time.Second,
		// No write timeout: summary streams stay open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// Pending emails first, then the outbox flush in the deliverer.
	app.service.Wait()
	cancelBackground()
	background.Wait()
	if app.redis != nil {
		_ = app.redis.Close()
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

func buildApplication(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*application, error) {
	cat, err := bootstrap.BuildCatalog(cfg, logger)
	if err != nil {
		return nil, err
	}

	metricsHandler, bookingMetrics := setupBookingMetrics()

	loadAWS := lazyAWSConfig(cfg)
	var redisClient *redis.Client
	if cfg.EventsBackend == bootstrap.EventsBackendRedis {
		redisClient = bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	}
	publisher, err := bootstrap.BuildEventPublisher(ctx, cfg, redisClient, loadAWS, logger)
	if err != nil {
		return nil, err
	}
	var (
		outbox    *events.Outbox
		deliverer *events.Deliverer
	)
	if publisher != nil {
		outbox = events.NewOutbox(outboxSize)
		deliverer = events.NewDeliverer(outbox, publisher, logger).WithRetry(3, 200*time.Millisecond)
	}

	emailSender, err := bootstrap.BuildEmailSender(ctx, cfg, loadAWS, logger)
	if err != nil {
		return nil, err
	}
	notifier := notify.NewService(emailSender, cfg.CurrencySymbol, logger)

	managerCfg := sessions.ManagerConfig{
		Catalog: cat,
		TTL:     cfg.SessionTTL,
		Logger:  logger,
	}
	if cfg.DemoSeed {
		managerCfg.Seed = demo.Seeder(nil, nil)
		logger.Info("new sessions start with example appointments")
	}
	manager := sessions.NewManager(managerCfg)

	service := sessions.NewService(sessions.ServiceConfig{
		Manager:  manager,
		Outbox:   outbox,
		Notifier: notifier,
		Metrics:  bookingMetrics,
		Logger:   logger,
	})

	var limiter *httpmiddleware.RateLimiter
	if cfg.SessionCreatePerMinute > 0 {
		limiter = httpmiddleware.NewRateLimiter(float64(cfg.SessionCreatePerMinute)/60, cfg.SessionCreateBurst)
	}

	var eventsHandler http.Handler
	if journal, ok := publisher.(*events.RedisJournal); ok && journal != nil {
		eventsHandler = events.JournalHandler(journal, logger)
	}

	handler := router.New(&router.Config{
		Logger:             logger,
		Sessions:           sessions.NewHandler(service, cat, cfg.CurrencySymbol, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		EventsHandler:      eventsHandler,
		SessionLimiter:     limiter,
	})

	return &application{
		handler:   handler,
		service:   service,
		manager:   manager,
		metrics:   bookingMetrics,
		deliverer: deliverer,
		limiter:   limiter,
		redis:     redisClient,
	}, nil
}

func (a *application) startBackground(ctx context.Context, wg *sync.WaitGroup, cfg *appconfig.Config) {
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	if a.deliverer != nil {
		run(func() { a.deliverer.Start(ctx) })
	}
	run(func() {
		a.manager.StartSweeper(ctx, cfg.SessionSweepEvery, a.metrics.SetActiveSessions)
	})
	if a.limiter != nil {
		run(func() { a.limiter.StartEviction(ctx, 5*time.Minute, 10*time.Minute) })
	}
}

// lazyAWSConfig loads the SDK config once, on first use.
func lazyAWSConfig(cfg *appconfig.Config) bootstrap.AWSConfigLoader {
	var (
		once   sync.Once
		awsCfg aws.Config
		err    error
	)
	return func(ctx context.Context) (aws.Config, error) {
		once.Do(func() {
			awsCfg, err = mainconfig.LoadAWSConfig(ctx, cfg)
		})
		return awsCfg, err
	}
}

func setupBookingMetrics() (http.Handler, *metrics.BookingMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), bookingMetrics
}
