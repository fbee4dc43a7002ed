// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"vyapari/internal/domain/auth"
	"vyapari/internal/domain/expenses"
	"vyapari/internal/domain/forecast"
	"vyapari/internal/domain/inventory"
	"vyapari/internal/domain/ledger"
	"vyapari/internal/domain/org"
	"vyapari/internal/domain/reports"
	"vyapari/internal/domain/sales"
	"vyapari/internal/infrastructure/http/v1/handlers"
	"vyapari/internal/infrastructure/http/v1/middleware"
	"vyapari/pkg/logger"
)

// RouterConfig holds the services the router exposes.
type RouterConfig struct {
	// Pool is the database connection pool (health checks only; data access
	// goes through the services).
	Pool *pgxpool.Pool

	// Logger for request logging.
	Logger *logger.Logger

	// JWTValidator for token validation.
	JWTValidator middleware.JWTValidator

	// Version reported by the info endpoint.
	Version string

	AuthService      *auth.Service
	OrgService       *org.Service
	InventoryService *inventory.Service
	SalesService     *sales.Service
	LedgerService    *ledger.Service
	Directory        *ledger.Directory
	ExpenseService   *expenses.Service
	ForecastService  *forecast.Service
	ReportService    *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	base := handlers.NewBaseHandler()

	// API v1
	apiV1 := router.Group("/api/v1")
	{
		// Auth: signup/login/refresh are public, the rest needs a token.
		authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
		publicAuth := apiV1.Group("/auth")
		protectedAuth := apiV1.Group("/auth")
		protectedAuth.Use(middleware.Auth(cfg.JWTValidator))
		authHandler.RegisterRoutes(publicAuth, protectedAuth)

		// Everything else is org-scoped behind the JWT.
		protected := apiV1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		handlers.NewOrgHandler(base, cfg.OrgService).
			RegisterRoutes(protected.Group("/org"))
		handlers.NewInventoryHandler(base, cfg.InventoryService).
			RegisterRoutes(protected.Group("/inventory"))
		handlers.NewSalesHandler(base, cfg.SalesService, cfg.OrgService).
			RegisterRoutes(protected.Group("/sales"))
		handlers.NewKhataHandler(base, cfg.Directory, cfg.LedgerService).
			RegisterRoutes(protected.Group("/khata"))
		handlers.NewExpensesHandler(base, cfg.ExpenseService).
			RegisterRoutes(protected.Group("/expenses"))
		handlers.NewForecastHandler(base, cfg.ForecastService).
			RegisterRoutes(protected.Group("/forecast"))
		handlers.NewReportsHandler(base, cfg.ReportService).
			RegisterRoutes(protected.Group("/reports"))
	}

	return router
}
