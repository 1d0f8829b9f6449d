package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"github.com/Dosada05/tournament-registration/brackets"
	"github.com/Dosada05/tournament-registration/config"
	"github.com/Dosada05/tournament-registration/db"
	"github.com/Dosada05/tournament-registration/handlers"
	"github.com/Dosada05/tournament-registration/repositories"
	api "github.com/Dosada05/tournament-registration/routes"
	"github.com/Dosada05/tournament-registration/services"
	"github.com/Dosada05/tournament-registration/storage"
)

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort), slog.Duration("payment_latency", cfg.PaymentLatency))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Подключение к базе данных
	dbConn, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultPool, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	if err := db.EnsureSchema(ctx, dbConn); err != nil {
		logger.Error("failed to prepare database schema", slog.Any("error", err))
		os.Exit(1)
	}

	// Публикация сеток в Cloudflare R2 необязательна
	var sheetUploader storage.FileUploader
	r2Cfg := storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	}
	if r2Cfg.IsZero() {
		logger.Info("Cloudflare R2 not configured, bracket sheets will not be published")
	} else {
		sheetUploader, err = storage.NewCloudflareR2Uploader(ctx, r2Cfg)
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	}

	// Инициализация WebSocket Hub
	wsHub := brackets.NewHub(logger)
	go wsHub.Run(ctx)
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	entrantRepo := repositories.NewPostgresEntrantRepository(dbConn)
	fixtureRepo := repositories.NewPostgresFixtureRepository(dbConn)
	settingsRepo := repositories.NewPostgresSettingsRepository(dbConn)
	userRepo := repositories.NewPostgresUserRepository(dbConn)

	// Инициализация сервисов
	clock := clockwork.NewRealClock()
	gate := services.NewRegistrationGate(settingsRepo)
	gateway := services.NewSimulatedGateway(clock, cfg.PaymentLatency)
	viewService := services.NewViewService(entrantRepo, fixtureRepo, gate, logger)
	registrationService := services.NewRegistrationService(entrantRepo, gate, gateway, viewService, wsHub, clock, logger)
	bracketService := services.NewBracketService(
		fixtureRepo,
		viewService,
		gate,
		brackets.NewOpeningRoundGenerator(),
		wsHub,
		sheetUploader,
		clock,
		logger,
	)

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey, clock)
	unsubscribe := authService.OnSessionChange(func(e services.SessionEvent) {
		logger.Info("admin session changed", slog.String("email", e.Email), slog.Bool("signed_in", e.SignedIn))
	})
	defer unsubscribe()

	if cfg.AdminEmail != "" {
		created, err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			logger.Error("failed to provision admin account", slog.Any("error", err))
			os.Exit(1)
		}
		if created {
			logger.Info("admin account created", slog.String("email", cfg.AdminEmail))
		}
	}

	var mailer services.Mailer
	if emailService := services.NewEmailService(cfg); emailService != nil {
		mailer = emailService
	} else {
		logger.Info("SMTP not configured, confirmation e-mails disabled")
	}
	logger.Info("services initialized")

	// Инициализация обработчиков HTTP
	tournamentHandler := handlers.NewTournamentHandler(viewService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService, mailer, logger)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(bracketService, gate, logger)
	webSocketHandler := handlers.NewWebSocketHandler(wsHub, viewService, cfg.CORSAllowedOrigins, logger)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		cfg.CORSAllowedOrigins,
		authService,
		tournamentHandler,
		registrationHandler,
		authHandler,
		adminHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	// WriteTimeout покрывает задержку платежа
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10*time.Second + cfg.PaymentLatency,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
