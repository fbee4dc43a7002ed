// Package report_repo provides the PostgreSQL implementation of the daily
// report repository.
package report_repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/domain/reports"
	"vyapari/internal/infrastructure/storage/postgres"
)

const reportTable = "daily_reports"

var reportColumns = postgres.ExtractDBColumns[reports.DailyReport]()

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	tm *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(tm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{tm: tm}
}

func (r *ReportRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Upsert writes the aggregate keyed by (org_id, report_date). On conflict
// the row is overwritten in place and the surviving id and created_at are
// scanned back into the report.
func (r *ReportRepo) Upsert(ctx context.Context, report *reports.DailyReport) error {
	err := r.tm.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO daily_reports (
			id, org_id, report_date,
			total_sale_gross, total_cost, expenses,
			cash_sale, online_sale, online_cost,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (org_id, report_date) DO UPDATE SET
			total_sale_gross = EXCLUDED.total_sale_gross,
			total_cost = EXCLUDED.total_cost,
			expenses = EXCLUDED.expenses,
			cash_sale = EXCLUDED.cash_sale,
			online_sale = EXCLUDED.online_sale,
			online_cost = EXCLUDED.online_cost,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`,
		report.ID, report.OrgID, report.ReportDate,
		report.TotalSaleGross, report.TotalCost, report.Expenses,
		report.CashSale, report.OnlineSale, report.OnlineCost,
		report.CreatedAt, report.UpdatedAt,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert daily report: %w", err)
	}
	return nil
}

// GetByDate retrieves the report for a day.
func (r *ReportRepo) GetByDate(ctx context.Context, orgID id.ID, reportDate time.Time) (reports.DailyReport, error) {
	sql, args, err := r.builder().
		Select(reportColumns...).
		From(reportTable).
		Where(squirrel.Eq{"org_id": orgID, "report_date": reportDate}).
		ToSql()
	if err != nil {
		return reports.DailyReport{}, fmt.Errorf("build select: %w", err)
	}

	var report reports.DailyReport
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &report, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reports.DailyReport{}, apperror.NewNotFound("daily report", reportDate.Format("2006-01-02"))
		}
		return reports.DailyReport{}, fmt.Errorf("query daily report: %w", err)
	}
	return report, nil
}

// ListByDateRange returns reports with report_date in [from, to).
func (r *ReportRepo) ListByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) ([]reports.DailyReport, error) {
	sql, args, err := r.builder().
		Select(reportColumns...).
		From(reportTable).
		Where(squirrel.Eq{"org_id": orgID}).
		Where(squirrel.GtOrEq{"report_date": from}).
		Where(squirrel.Lt{"report_date": to}).
		OrderBy("report_date asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []reports.DailyReport
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("query daily reports: %w", err)
	}
	return out, nil
}
