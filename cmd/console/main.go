// cmd/console/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"business-console/internal/busy"
	"business-console/internal/common/config"
	"business-console/internal/common/database"
	"business-console/internal/common/gateway"
	"business-console/internal/common/logger"
	"business-console/internal/common/metrics"
	"business-console/internal/common/observability"
	"business-console/internal/notify"
	"business-console/internal/onboarding"
	"business-console/internal/router"
	"business-console/internal/screens/base"
	"business-console/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting business console...",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()

	reg, err := registry.LoadRegistry(cfg.RegistryPath)
	if err != nil {
		zapLog.Fatal("resource registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("resource registry is invalid", zap.Error(err))
	}

	indicator := busy.New(metrics.BackendRequestsInFlight)
	gw, err := gateway.NewFromConfig(cfg.Backend, indicator, log)
	if err != nil {
		zapLog.Fatal("backend gateway init failed", zap.Error(err))
	}

	// --- Flash store: Redis when enabled, otherwise in process ---
	ttl := time.Duration(cfg.Notifications.FlashTTL) * time.Second
	var store notify.Store = notify.NewMemoryStore(ttl)
	var checks []func(context.Context) error

	if cfg.Database.Redis.Enabled {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()

		store = notify.NewRedisStore(redis.Client, ttl)
		checks = append(checks, redis.Ping)
		zapLog.Info("Redis connected successfully")
	}

	// --- Onboarding audit: PostgreSQL when enabled ---
	var audit onboarding.AuditSink = onboarding.NopAudit{}

	if cfg.Database.Postgres.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()

		pgAudit := onboarding.NewPostgresAudit(pg)
		if err := pgAudit.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("audit schema setup failed", zap.Error(err))
		}
		audit = pgAudit
		checks = append(checks, pg.Ping)
		zapLog.Info("PostgreSQL connected successfully")
	}

	orchOpts := onboarding.Options{
		Gateway:      gw,
		Placeholders: onboarding.NewRandomPlaceholders(cfg.Onboarding.PlaceholderAddress, cfg.Onboarding.PlaceholderDomain),
		Audit:        audit,
		Recorder:     obs,
		Logger:       log,
	}
	notifier, err := notify.NewEnrollmentNotifierFromConfig(ctx, cfg.Notifications, log)
	if err != nil {
		zapLog.Fatal("enrollment notifier init failed", zap.Error(err))
	}
	if notifier != nil {
		orchOpts.Notifier = notifier
		zapLog.Info("Enrollment notices enabled")
	}
	orch, err := onboarding.New(orchOpts)
	if err != nil {
		zapLog.Fatal("onboarding init failed", zap.Error(err))
	}

	gin.SetMode(cfg.Server.Mode)
	engine, err := router.SetupRouter(router.Options{
		ServiceName: obs.ServiceName(),
		Deps: &base.Deps{
			Config:     cfg,
			Gateway:    gw,
			Onboarding: orch,
			Registry:   reg,
			Logger:     log,
		},
		Busy:   indicator,
		Store:  store,
		Meter:  obs.Meter(),
		Logger: log,
	})
	if err != nil {
		zapLog.Fatal("router setup failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      engine,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}
	go func() {
		zapLog.Info("Console listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("console server failed", zap.Error(err))
		}
	}()

	// --- Health & Metrics Server ---
	health := &http.Server{Addr: cfg.Server.MetricsAddress, Handler: healthMux(checks)}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := health.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping console server", zap.Error(err))
	}
	if err := health.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping health server", zap.Error(err))
	}

	zapLog.Info("Business console stopped gracefully")
}

func healthMux(checks []func(context.Context) error) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, check := range checks {
			if err := check(ctx); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "unavailable", err.Error())
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status, reason string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if reason != "" {
		body["error"] = reason
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
