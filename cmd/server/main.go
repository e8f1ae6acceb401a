package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/staff_records/internal/config"
	"github.com/Skotchmaster/staff_records/internal/db"
	"github.com/Skotchmaster/staff_records/internal/events"
	"github.com/Skotchmaster/staff_records/internal/hash"
	"github.com/Skotchmaster/staff_records/internal/httpserver"
	"github.com/Skotchmaster/staff_records/internal/logging"
	"github.com/Skotchmaster/staff_records/internal/middleware"
	"github.com/Skotchmaster/staff_records/internal/repo"
	"github.com/Skotchmaster/staff_records/internal/service"
	"github.com/Skotchmaster/staff_records/internal/tokens"
)

func main() {
	cfg := config.Load()
	cfg.MustValid()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.New(cfg.KafkaBrokers, cfg.KafkaTopic)
	if len(cfg.KafkaBrokers) == 0 {
		logger.Warn("kafka_disabled", "reason", "KAFKA_BROKERS is empty, domain events are dropped")
	}

	gormRepo := &repo.GormRepo{DB: gdb, OpTimeout: cfg.DBOpTimeout}
	sessions := tokens.NewSessionIssuer(cfg.JWTSecret)

	authSvc := &service.AuthService{
		Repo:     gormRepo,
		Hasher:   hash.NewHasher(cfg.BcryptCost),
		Sessions: sessions,
		Events:   producer,
	}
	resetSvc := &service.ResetService{
		Repo:        gormRepo,
		Auth:        authSvc,
		Events:      producer,
		TTL:         cfg.ResetTokenTTL,
		MustDeliver: !cfg.ResetTokenInResponse,
	}
	employeeSvc := &service.EmployeeService{Repo: gormRepo, Events: producer}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(middleware.Common(logger, cfg.CORSOrigins)...)

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:     &httpserver.AuthHTTP{Svc: authSvc, Reset: resetSvc, EchoResetToken: cfg.ResetTokenInResponse},
		ProfileHandler:  &httpserver.ProfileHTTP{Svc: authSvc},
		EmployeeHandler: &httpserver.EmployeeHTTP{Svc: employeeSvc},
		Sessions:        sessions,
		APIPrefix:       cfg.APIPrefix,
		Ready:           func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		logger.Info("http_server_started", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_failed", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("kafka_close_failed", "error", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "error", err)
	}
	logger.Info("server_stopped")
}
