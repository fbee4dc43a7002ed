// Package sales_repo provides the PostgreSQL implementation of the sales
// repository.
package sales_repo

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
	"vyapari/internal/domain/sales"
	"vyapari/internal/infrastructure/storage/postgres"
)

const salesTable = "sales"

var salesColumns = postgres.ExtractDBColumns[sales.Sale]()

// SalesRepo implements sales.Repository.
type SalesRepo struct {
	tm *postgres.TxManager
}

// NewSalesRepo creates a new sales repository.
func NewSalesRepo(tm *postgres.TxManager) *SalesRepo {
	return &SalesRepo{tm: tm}
}

func (r *SalesRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a sale line.
func (r *SalesRepo) Create(ctx context.Context, sale *sales.Sale) error {
	sql, args, err := r.builder().
		Insert(salesTable).
		SetMap(postgres.StructToMap(sale)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

// GetByID retrieves a sale within the org.
func (r *SalesRepo) GetByID(ctx context.Context, orgID, saleID id.ID) (sales.Sale, error) {
	sql, args, err := r.builder().
		Select(salesColumns...).
		From(salesTable).
		Where(squirrel.Eq{"id": saleID, "org_id": orgID}).
		ToSql()
	if err != nil {
		return sales.Sale{}, fmt.Errorf("build select: %w", err)
	}

	var sale sales.Sale
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &sale, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sales.Sale{}, apperror.NewNotFound("sale", saleID)
		}
		return sales.Sale{}, fmt.Errorf("query sale: %w", err)
	}
	return sale, nil
}

// Update rewrites the mutable columns of a sale: the bounded-window quantity
// edit and the payment status transition.
func (r *SalesRepo) Update(ctx context.Context, sale *sales.Sale) error {
	sql, args, err := r.builder().
		Update(salesTable).
		Set("quantity", sale.Quantity).
		Set("total_amount", sale.TotalAmount).
		Set("gst_amount", sale.GSTAmount).
		Set("cgst", sale.CGST).
		Set("sgst", sale.SGST).
		Set("igst", sale.IGST).
		Set("profit", sale.Profit).
		Set("payment_status", sale.PaymentStatus).
		Where(squirrel.Eq{"id": sale.ID, "org_id": sale.OrgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("sale", sale.ID)
	}
	return nil
}

// ListByInvoice returns all lines sharing an invoice number.
func (r *SalesRepo) ListByInvoice(ctx context.Context, orgID id.ID, invoiceNo string) ([]sales.Sale, error) {
	sql, args, err := r.builder().
		Select(salesColumns...).
		From(salesTable).
		Where(squirrel.Eq{"invoice_no": invoiceNo, "org_id": orgID}).
		OrderBy("created_at asc", "id asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []sales.Sale
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	return out, nil
}

// ListByDateRange returns sales with sale_date in [from, to).
func (r *SalesRepo) ListByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) ([]sales.Sale, error) {
	sql, args, err := r.builder().
		Select(salesColumns...).
		From(salesTable).
		Where(squirrel.Eq{"org_id": orgID}).
		Where(squirrel.GtOrEq{"sale_date": from}).
		Where(squirrel.Lt{"sale_date": to}).
		OrderBy("sale_date asc", "id asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []sales.Sale
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	return out, nil
}
