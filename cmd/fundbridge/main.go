package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/fundbridge-kh/fundbridge/internal/app"
	"github.com/fundbridge-kh/fundbridge/internal/audit"
	"github.com/fundbridge-kh/fundbridge/internal/auth"
	"github.com/fundbridge-kh/fundbridge/internal/authz"
	"github.com/fundbridge-kh/fundbridge/internal/deals"
	"github.com/fundbridge-kh/fundbridge/internal/masking"
	"github.com/fundbridge-kh/fundbridge/internal/observability"
	"github.com/fundbridge-kh/fundbridge/internal/platform/cache"
	"github.com/fundbridge-kh/fundbridge/internal/platform/db"
	"github.com/fundbridge-kh/fundbridge/internal/shared"
	"github.com/fundbridge-kh/fundbridge/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	authzConfig, err := authz.DefaultConfig()
	if err != nil {
		logger.Error("load authorization tables", slog.Any("error", err))
		os.Exit(1)
	}
	engine := authz.NewEngine(authzConfig, logger)
	masker := masking.NewMasker(logger)
	metrics := observability.NewMetrics()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq client close", slog.Any("error", err))
		}
	}()
	recorder := jobs.NewDecisionRecorder(asynqClient, logger)

	authzMiddleware := authz.Middleware{
		Engine:   engine,
		Logger:   logger,
		Recorder: recorder,
		Observer: metrics,
	}

	sessionManager := shared.NewSessionManager(redisClient, "fundbridge_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	dealsRepo := deals.NewRepository(pool)
	dealsService := deals.NewService(dealsRepo)
	dealsHandler := deals.NewHandler(logger, dealsService, authzMiddleware)

	auditRepo := audit.NewRepository(pool)
	auditService := audit.NewService(auditRepo)
	auditHandler := audit.NewHandler(logger, auditService, authzMiddleware)

	permissionsHandler := authz.NewPermissionsHandler(logger, engine, authzMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		AuthHandler:        authHandler,
		DealsHandler:       dealsHandler,
		AuditHandler:       auditHandler,
		PermissionsHandler: permissionsHandler,
		JobHandler:         jobHandler,
		ResponseMasker:     masking.ResponseMasker{Masker: masker, Logger: logger, Observer: metrics},
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
