// Package numerator adapts the generic sequence service to the
// document-numbering interfaces the domain layer expects.
package numerator

import (
	"context"
	"time"

	"vyapari/internal/core/id"
	"vyapari/internal/infrastructure/storage/postgres"
	"vyapari/pkg/numerator"
)

// InvoiceNumberer hands out invoice numbers from the org-scoped sequence
// table. Allocation goes through the transaction manager's querier, so a
// number taken inside a sale transaction rolls back with it.
type InvoiceNumberer struct {
	svc *numerator.Service
	cfg numerator.Config
}

// NewInvoiceNumberer creates an invoice numberer over the transaction
// manager.
func NewInvoiceNumberer(tm *postgres.TxManager) *InvoiceNumberer {
	svc := numerator.New(func(ctx context.Context) numerator.Querier {
		return tm.GetQuerier(ctx)
	})
	return &InvoiceNumberer{
		svc: svc,
		cfg: numerator.DefaultConfig("INV"),
	}
}

// NextInvoiceNumber allocates the next invoice number for the org, strict
// strategy. Invoice sequences must stay gapless, so cached ranges are out.
func (n *InvoiceNumberer) NextInvoiceNumber(ctx context.Context, orgID id.ID, at time.Time) (string, error) {
	return n.svc.GetNextNumber(ctx, orgID, n.cfg, numerator.DefaultOptions(), at)
}
