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

	"github.com/dmoura/consorciapp/internal/auth"
	"github.com/dmoura/consorciapp/internal/config"
	"github.com/dmoura/consorciapp/internal/eventlog"
	"github.com/dmoura/consorciapp/internal/server"
	"github.com/dmoura/consorciapp/internal/service"
	"github.com/dmoura/consorciapp/internal/storage/sqlite"
	"github.com/dmoura/consorciapp/pkg/logging"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(logging.ParseLevel(cfg.LogLevel))

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("storage initialized", "database", cfg.DBPath)

	events := eventlog.NewWorker(eventlog.NewSQLLogger(store.DB()), 256)
	events.Start()
	defer events.Shutdown()

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, time.Duration(cfg.TokenDurationHours)*time.Hour)

	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		seeded, err := authenticator.SeedAdmin(context.Background(), cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			slog.Error("failed to seed admin account", "error", err)
			os.Exit(1)
		}
		if seeded != nil {
			slog.Info("admin account seeded", "email", cfg.AdminEmail)
		}
	}

	srv := server.NewServer(server.Deps{
		Auth:         service.NewAuthService(authenticator, jwtManager, store, events),
		Users:        service.NewUserService(authenticator, store),
		Groups:       service.NewGroupService(store, events),
		Installments: service.NewInstallmentService(store, events),
		Draws:        service.NewDrawService(store, events),
		Invites:      service.NewInviteService(store, events),
		Dashboards:   service.NewDashboardService(store),
		JWTManager:   jwtManager,
		Store:        store,
		FrontendURL:  cfg.FrontendURL,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}
