package sales

import (
	"context"
	"time"

	"vyapari/internal/core/id"
	"vyapari/internal/domain/ledger"
)

// Repository defines persistence operations for sales. All methods are
// org-scoped.
type Repository interface {
	// Create inserts a sale line.
	Create(ctx context.Context, sale *Sale) error

	// GetByID retrieves a sale within the org.
	GetByID(ctx context.Context, orgID, saleID id.ID) (Sale, error)

	// Update rewrites the mutable columns of a sale (bounded-window edit
	// and payment status transitions).
	Update(ctx context.Context, sale *Sale) error

	// ListByInvoice returns all lines sharing an invoice number, ordered by
	// creation.
	ListByInvoice(ctx context.Context, orgID id.ID, invoiceNo string) ([]Sale, error)

	// ListByDateRange returns sales with sale_date in [from, to), ordered
	// by sale_date.
	ListByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) ([]Sale, error)
}

// CustomerLookup resolves the optional customer attached to a sale for the
// invoice renderer boundary.
type CustomerLookup interface {
	GetCustomer(ctx context.Context, orgID, customerID id.ID) (ledger.Customer, error)
}

// InvoiceNumberer allocates the next invoice number inside the current
// transaction.
type InvoiceNumberer interface {
	NextInvoiceNumber(ctx context.Context, orgID id.ID, at time.Time) (string, error)
}
