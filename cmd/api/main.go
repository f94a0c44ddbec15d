package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ancook/bazaar/internal/auth"
	"github.com/ancook/bazaar/internal/background"
	"github.com/ancook/bazaar/internal/config"
	"github.com/ancook/bazaar/internal/database"
	"github.com/ancook/bazaar/internal/handlers"
	middlewareCustom "github.com/ancook/bazaar/internal/middleware"
	"github.com/ancook/bazaar/internal/repositories"
	"github.com/ancook/bazaar/internal/routes"
	"github.com/ancook/bazaar/internal/services"
	pkghttp "github.com/ancook/bazaar/pkg/http"
	pkglogger "github.com/ancook/bazaar/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Server.LogLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Error bodies carry detail outside production only
	pkghttp.ExposeErrorDetails(cfg.Server.Env != "production")

	// Run migrations
	if err := database.Migrate(cfg.Database.DSN()); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	loginAttemptRepo := repositories.NewLoginAttemptRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	productRepo := repositories.NewProductRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	favoriteRepo := repositories.NewFavoriteRepository(db)

	// Initialize token manager and audit logging
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger)

	// Email service: AWS SES when enabled, a logging no-op otherwise
	var emailService services.EmailService
	if cfg.Email.Enabled {
		emailService, err = services.NewAWSSESEmailService(cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		if err != nil {
			logger.Error("failed to initialize email service", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		emailService = services.NewNoopEmailService(logger)
	}

	// Initialize services
	loginGuard := services.NewLoginGuardService(loginAttemptRepo, userRepo, cfg.Auth, logger, auditLogger)
	sessionService := services.NewSessionService(sessionRepo, cfg.Auth.SessionDuration, logger)
	authService := services.NewAuthService(userRepo, loginGuard, sessionService, tokenManager, logger)
	productService := services.NewProductService(productRepo, logger)
	commentService := services.NewCommentService(commentRepo, productRepo, logger)
	orderService := services.NewOrderService(orderRepo, productRepo, userRepo, emailService, logger)
	favoriteService := services.NewFavoriteService(favoriteRepo, productRepo, logger)

	// Credential resolver for protected routes
	resolver := auth.NewResolver(tokenManager, sessionService, userRepo, logger)

	// Initialize cleanup manager
	cleanupManager := background.NewCleanupManager(
		sessionRepo,
		loginAttemptRepo,
		logger,
		cfg.Auth.CleanupInterval,
		cfg.Auth.SessionDuration,
		cfg.Auth.AttemptRetention,
	)

	// Session cookie settings
	cookieConfig := auth.CookieConfig{
		Secure:   cfg.Server.Env == "production",
		SameSite: http.SameSiteLaxMode,
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cookieConfig, cfg.Auth.SessionDuration)
	productHandler := handlers.NewProductHandler(productService)
	commentHandler := handlers.NewCommentHandler(commentService)
	orderHandler := handlers.NewOrderHandler(orderService)
	favoriteHandler := handlers.NewFavoriteHandler(favoriteService)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, productHandler, commentHandler, orderHandler, favoriteHandler, resolver)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start cleanup task
	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()

	go cleanupManager.Start(cleanupCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupCancel()
	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
