// Package main is the entry point for the vyapari API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"vyapari/internal/config"
	"vyapari/internal/domain/auth"
	"vyapari/internal/domain/expenses"
	"vyapari/internal/domain/forecast"
	"vyapari/internal/domain/inventory"
	"vyapari/internal/domain/ledger"
	"vyapari/internal/domain/org"
	"vyapari/internal/domain/reports"
	"vyapari/internal/domain/sales"
	v1 "vyapari/internal/infrastructure/http/v1"
	"vyapari/internal/infrastructure/numerator"
	"vyapari/internal/infrastructure/storage/postgres"
	"vyapari/internal/infrastructure/storage/postgres/auth_repo"
	"vyapari/internal/infrastructure/storage/postgres/expense_repo"
	"vyapari/internal/infrastructure/storage/postgres/inventory_repo"
	"vyapari/internal/infrastructure/storage/postgres/ledger_repo"
	"vyapari/internal/infrastructure/storage/postgres/org_repo"
	"vyapari/internal/infrastructure/storage/postgres/report_repo"
	"vyapari/internal/infrastructure/storage/postgres/sales_repo"
	"vyapari/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting vyapari server")

	// --- Migrations ---
	if cfg.DB.RunMigrations {
		if err := postgres.RunMigrations(cfg.DB.DSN, cfg.DB.MigrationsPath); err != nil {
			log.Fatalw("failed to run migrations", "error", err)
		}
		log.Info("database migrations applied")
	}

	// --- Database ---
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	orgRepo := org_repo.NewOrgRepo(txManager)
	userRepo := auth_repo.NewUserRepo(txManager)
	tokenRepo := auth_repo.NewTokenRepo(txManager)
	itemRepo := inventory_repo.NewInventoryRepo(txManager)
	saleRepo := sales_repo.NewSalesRepo(txManager)
	ledgerRepo := ledger_repo.NewLedgerRepo(txManager)
	directoryRepo := ledger_repo.NewDirectoryRepo(txManager)
	expenseRepo := expense_repo.NewExpenseRepo(txManager)
	reportRepo := report_repo.NewReportRepo(txManager)

	// --- Services ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	if cfg.JWT.AccessTTL > 0 {
		jwtConfig.AccessTokenTTL = cfg.JWT.AccessTTL
	}
	jwtService := auth.NewJWTService(jwtConfig)

	orgService := org.NewService(orgRepo)
	authService := auth.NewService(userRepo, tokenRepo, orgService, txManager, jwtService, auth.DefaultServiceConfig())

	inventoryService := inventory.NewService(itemRepo, txManager)
	directory := ledger.NewDirectory(directoryRepo)
	ledgerService := ledger.NewService(ledgerRepo, txManager)

	invoiceNumberer := numerator.NewInvoiceNumberer(txManager)
	salesService := sales.NewService(
		saleRepo,
		itemRepo,
		directory,
		invoiceNumberer,
		txManager,
		sales.Config{EditWindow: cfg.Sales.EditWindow},
	)

	forecastService := forecast.NewService(itemRepo, saleRepo, forecast.Config{
		WindowDays:      cfg.Forecast.WindowDays,
		CriticalDays:    cfg.Forecast.CriticalDays,
		LowDays:         cfg.Forecast.LowDays,
		TargetDays:      cfg.Forecast.TargetDays,
		OverstockedDays: cfg.Forecast.OverstockedDays,
	})

	expenseService := expenses.NewService(expenseRepo)
	reportService := reports.NewService(reportRepo, saleRepo, expenseRepo, directoryRepo, orgRepo)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:             pool.Unwrap(),
		Logger:           log,
		JWTValidator:     jwtService,
		Version:          cfg.App.Version,
		AuthService:      authService,
		OrgService:       orgService,
		InventoryService: inventoryService,
		SalesService:     salesService,
		LedgerService:    ledgerService,
		Directory:        directory,
		ExpenseService:   expenseService,
		ForecastService:  forecastService,
		ReportService:    reportService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
