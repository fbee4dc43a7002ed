package reports

import (
	"context"
	"time"

	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/ledger"
	"vyapari/internal/domain/org"
	"vyapari/internal/domain/sales"
)

// Repository persists daily report rows.
type Repository interface {
	// Upsert writes the aggregate keyed by (org_id, report_date),
	// overwriting any previous row for the same day. On conflict the
	// surviving id and created_at are written back into r, so repeated
	// rebuilds of one day return the same row identity.
	Upsert(ctx context.Context, r *DailyReport) error

	// GetByDate retrieves the report for a day, NotFound when never built.
	GetByDate(ctx context.Context, orgID id.ID, reportDate time.Time) (DailyReport, error)

	// ListByDateRange returns reports with report_date in [from, to),
	// ordered by report_date ascending.
	ListByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) ([]DailyReport, error)
}

// SalesSource reads sale history. Satisfied by sales.Repository.
type SalesSource interface {
	ListByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) ([]sales.Sale, error)
}

// ExpenseSource folds expenses. Satisfied by expenses.Repository.
type ExpenseSource interface {
	SumByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) (types.Money, error)
}

// CustomerSource resolves sale counterparties for the B2B extract.
// Satisfied by ledger.DirectoryRepository.
type CustomerSource interface {
	GetCustomer(ctx context.Context, orgID, customerID id.ID) (ledger.Customer, error)
}

// OrgSource resolves organization settings, chiefly the report timezone.
// Satisfied by org.Repository.
type OrgSource interface {
	GetByID(ctx context.Context, orgID id.ID) (org.Organization, error)
}
