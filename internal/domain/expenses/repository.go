package expenses

import (
	"context"
	"time"

	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
)

// Repository defines persistence operations for expenses. All methods are
// org-scoped.
type Repository interface {
	// Create inserts an expense entry.
	Create(ctx context.Context, e *Expense) error

	// GetByID retrieves an expense within the org.
	GetByID(ctx context.Context, orgID, expenseID id.ID) (Expense, error)

	// ListByDateRange returns expenses with expense_date in [from, to),
	// ordered by expense_date ascending.
	ListByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) ([]Expense, error)

	// SumByDateRange folds expense amounts over [from, to).
	SumByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) (types.Money, error)
}
