package ledger_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/domain/ledger"
	"vyapari/internal/infrastructure/storage/postgres"
)

var (
	customerColumns = postgres.ExtractDBColumns[ledger.Customer]()
	supplierColumns = postgres.ExtractDBColumns[ledger.Supplier]()
)

// DirectoryRepo implements ledger.DirectoryRepository.
type DirectoryRepo struct {
	tm *postgres.TxManager
}

// NewDirectoryRepo creates a new directory repository.
func NewDirectoryRepo(tm *postgres.TxManager) *DirectoryRepo {
	return &DirectoryRepo{tm: tm}
}

// CreateCustomer inserts a customer row.
func (r *DirectoryRepo) CreateCustomer(ctx context.Context, c *ledger.Customer) error {
	sql, args, err := builder().
		Insert("customers").
		SetMap(postgres.StructToMap(c)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetCustomer retrieves a customer within the org.
func (r *DirectoryRepo) GetCustomer(ctx context.Context, orgID, customerID id.ID) (ledger.Customer, error) {
	sql, args, err := builder().
		Select(customerColumns...).
		From("customers").
		Where(squirrel.Eq{"id": customerID, "org_id": orgID}).
		ToSql()
	if err != nil {
		return ledger.Customer{}, fmt.Errorf("build select: %w", err)
	}

	var c ledger.Customer
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Customer{}, apperror.NewNotFound("customer", customerID)
		}
		return ledger.Customer{}, fmt.Errorf("query customer: %w", err)
	}
	return c, nil
}

// GetCustomerByPhone retrieves a customer by phone within the org.
func (r *DirectoryRepo) GetCustomerByPhone(ctx context.Context, orgID id.ID, phone string) (ledger.Customer, error) {
	sql, args, err := builder().
		Select(customerColumns...).
		From("customers").
		Where(squirrel.Eq{"phone": phone, "org_id": orgID}).
		ToSql()
	if err != nil {
		return ledger.Customer{}, fmt.Errorf("build select: %w", err)
	}

	var c ledger.Customer
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Customer{}, apperror.NewNotFound("customer", phone)
		}
		return ledger.Customer{}, fmt.Errorf("query customer: %w", err)
	}
	return c, nil
}

// UpdateCustomer rewrites contact fields. Balance stays with the ledger.
func (r *DirectoryRepo) UpdateCustomer(ctx context.Context, c *ledger.Customer) error {
	sql, args, err := builder().
		Update("customers").
		Set("name", c.Name).
		Set("phone", c.Phone).
		Set("gstin", c.GSTIN).
		Where(squirrel.Eq{"id": c.ID, "org_id": c.OrgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", c.ID)
	}
	return nil
}

// ListCustomers retrieves customers for the org.
func (r *DirectoryRepo) ListCustomers(ctx context.Context, orgID id.ID, filter ledger.DirectoryFilter) ([]ledger.Customer, error) {
	q := applyDirectoryFilter(
		builder().Select(customerColumns...).From("customers"),
		orgID, filter,
	)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var customers []ledger.Customer
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &customers, sql, args...); err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	return customers, nil
}

// CreateSupplier inserts a supplier row.
func (r *DirectoryRepo) CreateSupplier(ctx context.Context, s *ledger.Supplier) error {
	sql, args, err := builder().
		Insert("suppliers").
		SetMap(postgres.StructToMap(s)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetSupplier retrieves a supplier within the org.
func (r *DirectoryRepo) GetSupplier(ctx context.Context, orgID, supplierID id.ID) (ledger.Supplier, error) {
	sql, args, err := builder().
		Select(supplierColumns...).
		From("suppliers").
		Where(squirrel.Eq{"id": supplierID, "org_id": orgID}).
		ToSql()
	if err != nil {
		return ledger.Supplier{}, fmt.Errorf("build select: %w", err)
	}

	var s ledger.Supplier
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.Supplier{}, apperror.NewNotFound("supplier", supplierID)
		}
		return ledger.Supplier{}, fmt.Errorf("query supplier: %w", err)
	}
	return s, nil
}

// UpdateSupplier rewrites contact fields.
func (r *DirectoryRepo) UpdateSupplier(ctx context.Context, s *ledger.Supplier) error {
	sql, args, err := builder().
		Update("suppliers").
		Set("name", s.Name).
		Set("phone", s.Phone).
		Set("gstin", s.GSTIN).
		Where(squirrel.Eq{"id": s.ID, "org_id": s.OrgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", s.ID)
	}
	return nil
}

// ListSuppliers retrieves suppliers for the org.
func (r *DirectoryRepo) ListSuppliers(ctx context.Context, orgID id.ID, filter ledger.DirectoryFilter) ([]ledger.Supplier, error) {
	q := applyDirectoryFilter(
		builder().Select(supplierColumns...).From("suppliers"),
		orgID, filter,
	)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var suppliers []ledger.Supplier
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &suppliers, sql, args...); err != nil {
		return nil, fmt.Errorf("query suppliers: %w", err)
	}
	return suppliers, nil
}

func applyDirectoryFilter(q squirrel.SelectBuilder, orgID id.ID, filter ledger.DirectoryFilter) squirrel.SelectBuilder {
	q = q.Where(squirrel.Eq{"org_id": orgID}).OrderBy("name asc")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"phone": pattern},
		})
	}
	if filter.WithBalance {
		q = q.Where("balance <> 0")
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}
	return q
}
