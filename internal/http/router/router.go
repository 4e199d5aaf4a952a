package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/maniadelimpeza/crm-api/internal/auth"
	"github.com/maniadelimpeza/crm-api/internal/config"
	"github.com/maniadelimpeza/crm-api/internal/database"
	"github.com/maniadelimpeza/crm-api/internal/http/handler"
	"github.com/maniadelimpeza/crm-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/maniadelimpeza/crm-api/docs" // Import generated swagger docs
)

type Router struct {
	cfg              *config.Config
	logger           *zap.Logger
	db               *gorm.DB
	authMiddleware   *auth.Middleware
	rateLimiter      *middleware.RateLimiter
	authHandler      *handler.AuthHandler
	companyHandler   *handler.CompanyHandler
	customerHandler  *handler.CustomerHandler
	quoteHandler     *handler.QuoteHandler
	quoteItemHandler *handler.QuoteItemHandler
	coworkerHandler  *handler.CoworkerHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	companyHandler *handler.CompanyHandler,
	customerHandler *handler.CustomerHandler,
	quoteHandler *handler.QuoteHandler,
	quoteItemHandler *handler.QuoteItemHandler,
	coworkerHandler *handler.CoworkerHandler,
) *Router {
	return &Router{
		cfg:              cfg,
		logger:           logger,
		db:               db,
		authMiddleware:   authMiddleware,
		rateLimiter:      rateLimiter,
		authHandler:      authHandler,
		companyHandler:   companyHandler,
		customerHandler:  customerHandler,
		quoteHandler:     quoteHandler,
		quoteItemHandler: quoteItemHandler,
		coworkerHandler:  coworkerHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(rt.authMiddleware.ResolveUser)
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe with pool stats)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		stats, err := database.HealthCheckWithStats(rt.db)
		if err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
			"stats":   stats,
		})
	})

	// Combined readiness check
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(rt.db); err != nil {
			rt.logger.Error("database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := http.StatusOK
		overall := "healthy"
		if !allHealthy {
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": overall,
			"checks": checks,
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/register", rt.authHandler.Register)
		r.Post("/auth/login", rt.authHandler.Login)
		r.Post("/auth/forgot-password", rt.authHandler.ForgotPassword)
		r.Post("/auth/reset-password", rt.authHandler.ResetPassword)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.RequireAuth)

			r.Get("/auth/me", rt.authHandler.Me)

			// Company profile
			r.Route("/company", func(r chi.Router) {
				r.Get("/{id}", rt.companyHandler.Get)
				r.Put("/{id}", rt.companyHandler.Update)
			})

			// Customers and relationship notes
			r.Route("/customer", func(r chi.Router) {
				r.Get("/", rt.customerHandler.List)
				r.Post("/", rt.customerHandler.Create)
				r.Get("/search", rt.customerHandler.Search)
				r.Get("/{id}", rt.customerHandler.Get)
				r.Put("/{id}", rt.customerHandler.Update)
				r.Delete("/{id}", rt.customerHandler.Delete)
				r.Post("/{id}/relationships", rt.customerHandler.AddNote)
				r.Put("/{id}/relationships/{noteId}", rt.customerHandler.UpdateNote)
				r.Delete("/{id}/relationships/{noteId}", rt.customerHandler.DeleteNote)
			})

			// Quotes
			r.Route("/quote", func(r chi.Router) {
				r.Get("/", rt.quoteHandler.List)
				r.Post("/", rt.quoteHandler.Create)
				r.Post("/search", rt.quoteHandler.Search)
				r.Get("/{id}", rt.quoteHandler.Get)
				r.Put("/{id}", rt.quoteHandler.Update)
				r.Delete("/{id}", rt.quoteHandler.Delete)
			})

			// Quote items
			r.Post("/quotes/{quoteId}/items", rt.quoteItemHandler.Add)
			r.Post("/quotes/{quoteId}/items/reorder", rt.quoteItemHandler.Reorder)
			r.Put("/quote-items/{id}", rt.quoteItemHandler.Update)
			r.Delete("/quote-items/{id}", rt.quoteItemHandler.Delete)

			// Coworkers
			r.Route("/coworkers", func(r chi.Router) {
				r.Get("/", rt.coworkerHandler.List)
				r.Post("/", rt.coworkerHandler.Create)
				r.Get("/{id}", rt.coworkerHandler.Get)
				r.Put("/{id}", rt.coworkerHandler.Update)
				r.Delete("/{id}", rt.coworkerHandler.Deactivate)
				r.Post("/{id}/reactivate", rt.coworkerHandler.Reactivate)
			})
		})
	})

	return r
}
