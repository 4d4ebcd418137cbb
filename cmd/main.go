package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"theater-portal/internal/handler"
	"theater-portal/internal/middleware"
	"theater-portal/internal/model"
	"theater-portal/internal/repository"
	"theater-portal/internal/tenancy"
	"theater-portal/pkg/config"
	"theater-portal/pkg/database"
	"theater-portal/pkg/jwtutil"
	"theater-portal/pkg/logger"
	"theater-portal/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync() //nolint:errcheck
	log.Info("Starting theater portal...", cfg.LogConfig()...)

	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(db, model.All()...); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connection established")

	prometheus.InitMetrics(cfg)

	memberships := repository.NewMembershipRepo(db)
	theaters := repository.NewTheaterRepo(db)
	prefs := repository.NewPreferenceRepo(db)
	invites := repository.NewInviteRepo(db)

	resolver := tenancy.NewResolver(memberships, theaters, prefs, log.Named("resolver"))
	capacity := tenancy.NewCapacity(memberships, invites, cfg.Tenancy.InviteCapacity)
	inviteSvc := tenancy.NewInvites(memberships, invites, capacity, log.Named("invites"))

	h := handler.New(handler.Deps{
		ServiceName: cfg.ServiceName,
		DB:          db,
		Tokens:      jwtutil.NewJWTUtil(&cfg.JWT),
		Users:       repository.NewUserRepo(db),
		Theaters:    theaters,
		Memberships: memberships,
		Events:      repository.NewEventRepo(db),
		Resolver:    resolver,
		Invites:     inviteSvc,
		Profile:     tenancy.NewProfile(inviteSvc, resolver),
	})

	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	h.RegisterRoutes(e, cfg.Admin.Emails)

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
