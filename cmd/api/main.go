package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maniadelimpeza/crm-api/docs"
	"github.com/maniadelimpeza/crm-api/internal/auth"
	"github.com/maniadelimpeza/crm-api/internal/config"
	"github.com/maniadelimpeza/crm-api/internal/database"
	"github.com/maniadelimpeza/crm-api/internal/http/handler"
	"github.com/maniadelimpeza/crm-api/internal/http/middleware"
	"github.com/maniadelimpeza/crm-api/internal/http/router"
	"github.com/maniadelimpeza/crm-api/internal/jobs"
	"github.com/maniadelimpeza/crm-api/internal/logger"
	"github.com/maniadelimpeza/crm-api/internal/mail"
	"github.com/maniadelimpeza/crm-api/internal/repository"
	"github.com/maniadelimpeza/crm-api/internal/service"
	"go.uber.org/zap"
)

// @title ManiaDeLimpeza CRM API
// @version 1.0
// @description CRM API for cleaning service companies: customers, quotes, and coworkers
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email suporte@maniadelimpeza.com.br

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	// Configure Swagger host based on environment
	switch cfg.App.Environment {
	case "staging":
		docs.SwaggerInfo.Host = "staging-api.maniadelimpeza.com.br"
	case "production":
		docs.SwaggerInfo.Host = "api.maniadelimpeza.com.br"
	default:
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.App.Port)
	}

	// Connect to database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// In development the schema is managed by AutoMigrate; elsewhere it
	// is owned by the goose migrations under ./migrations
	if cfg.App.Environment == "development" || cfg.App.Environment == "local" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		log.Info("Database schema migrated")
	}

	// Initialize repositories
	companyRepo := repository.NewCompanyRepository(db)
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	noteRepo := repository.NewCustomerNoteRepository(db)
	quoteRepo := repository.NewQuoteRepository(db)
	quoteItemRepo := repository.NewQuoteItemRepository(db)
	tokenRepo := repository.NewPasswordResetTokenRepository(db)

	// Token manager and mail delivery
	tokens := auth.NewTokenManager(&cfg.JWT)
	mailer, err := mail.NewMailer(&cfg.Mail, log)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	// Initialize services
	authService := service.NewAuthService(db, userRepo, companyRepo, tokenRepo, tokens, mailer, cfg.App.FrontendURL, log)
	companyService := service.NewCompanyService(companyRepo, log)
	customerService := service.NewCustomerService(customerRepo, noteRepo, log)
	quoteService := service.NewQuoteService(quoteRepo, quoteItemRepo, customerRepo, log)
	quoteItemService := service.NewQuoteItemService(quoteRepo, quoteItemRepo, log)
	coworkerService := service.NewCoworkerService(userRepo, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(tokens, userRepo, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, log)
	companyHandler := handler.NewCompanyHandler(companyService, log)
	customerHandler := handler.NewCustomerHandler(customerService, log)
	quoteHandler := handler.NewQuoteHandler(quoteService, log)
	quoteItemHandler := handler.NewQuoteItemHandler(quoteItemService, log)
	coworkerHandler := handler.NewCoworkerHandler(coworkerService, log)

	// Setup router
	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		authHandler,
		companyHandler,
		customerHandler,
		quoteHandler,
		quoteItemHandler,
		coworkerHandler,
	)

	// Background jobs
	scheduler := jobs.NewScheduler(log)
	purgeJob := jobs.NewTokenPurgeJob(tokenRepo, log)
	if err := scheduler.AddJob(purgeJob.Name(), purgeJob.CronExpr(), purgeJob.Run); err != nil {
		log.Error("Failed to register token purge job", zap.Error(err))
	} else {
		scheduler.Start()
		log.Info("Scheduler started",
			zap.String("job", purgeJob.Name()),
			zap.String("cron_expr", purgeJob.CronExpr()),
		)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt signal
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		schedCtx := scheduler.Stop()
		<-schedCtx.Done()
		log.Info("Scheduler stopped")

		// Graceful shutdown with timeout
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
