// Package main is the entry point for the vyapari background worker.
// It rebuilds daily reports for every shop on a fixed interval, so the
// aggregates stay fresh even when no one calls the rebuild endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vyapari/internal/config"
	"vyapari/internal/domain/reports"
	"vyapari/internal/infrastructure/storage/postgres"
	"vyapari/internal/infrastructure/storage/postgres/expense_repo"
	"vyapari/internal/infrastructure/storage/postgres/ledger_repo"
	"vyapari/internal/infrastructure/storage/postgres/org_repo"
	"vyapari/internal/infrastructure/storage/postgres/report_repo"
	"vyapari/internal/infrastructure/storage/postgres/sales_repo"
	"vyapari/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	interval := flag.Duration("interval", time.Hour, "rebuild interval")
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Info("starting vyapari report worker")

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.DB.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	orgRepo := org_repo.NewOrgRepo(txManager)
	reportService := reports.NewService(
		report_repo.NewReportRepo(txManager),
		sales_repo.NewSalesRepo(txManager),
		expense_repo.NewExpenseRepo(txManager),
		ledger_repo.NewDirectoryRepo(txManager),
		orgRepo,
	)

	worker := &reportWorker{
		orgs:     orgRepo,
		reports:  reportService,
		log:      log,
		interval: *interval,
	}

	go worker.run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()
	log.Info("worker stopped")
}

type reportWorker struct {
	orgs     *org_repo.OrgRepo
	reports  *reports.Service
	log      *logger.Logger
	interval time.Duration
}

// run rebuilds today's and yesterday's reports for every org on each tick.
// Yesterday is included so late entries near midnight still land in the
// right day after the boundary passes.
func (w *reportWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.rebuildAll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.rebuildAll(ctx)
		}
	}
}

func (w *reportWorker) rebuildAll(ctx context.Context) {
	ids, err := w.orgs.ListIDs(ctx)
	if err != nil {
		w.log.Errorw("list organizations", "error", err)
		return
	}

	now := time.Now().UTC()
	days := []time.Time{now, now.AddDate(0, 0, -1)}

	var rebuilt, failed int
	for _, orgID := range ids {
		for _, day := range days {
			if _, err := w.reports.RebuildDailyReport(ctx, orgID, day); err != nil {
				failed++
				w.log.Errorw("rebuild daily report",
					"org_id", orgID,
					"date", day.Format("2006-01-02"),
					"error", err,
				)
				continue
			}
			rebuilt++
		}
	}

	w.log.Infow("report rebuild pass complete",
		"orgs", len(ids),
		"rebuilt", rebuilt,
		"failed", failed,
	)
}
