// Package inventory_repo provides the PostgreSQL implementation of the
// inventory repository.
package inventory_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/domain/inventory"
	"vyapari/internal/infrastructure/storage/postgres"
)

const inventoryTable = "inventory"

var inventoryColumns = postgres.ExtractDBColumns[inventory.Item]()

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	tm *postgres.TxManager
}

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(tm *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{tm: tm}
}

func (r *InventoryRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a new item.
func (r *InventoryRepo) Create(ctx context.Context, item *inventory.Item) error {
	sql, args, err := r.builder().
		Insert(inventoryTable).
		SetMap(postgres.StructToMap(item)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID retrieves an item within the org.
func (r *InventoryRepo) GetByID(ctx context.Context, orgID, itemID id.ID) (inventory.Item, error) {
	sql, args, err := r.builder().
		Select(inventoryColumns...).
		From(inventoryTable).
		Where(squirrel.Eq{"id": itemID, "org_id": orgID}).
		ToSql()
	if err != nil {
		return inventory.Item{}, fmt.Errorf("build select: %w", err)
	}

	var item inventory.Item
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.Item{}, apperror.NewNotFound("item", itemID)
		}
		return inventory.Item{}, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

// GetBySKU retrieves an item by SKU within the org.
func (r *InventoryRepo) GetBySKU(ctx context.Context, orgID id.ID, sku string) (inventory.Item, error) {
	sql, args, err := r.builder().
		Select(inventoryColumns...).
		From(inventoryTable).
		Where(squirrel.Eq{"sku": sku, "org_id": orgID}).
		ToSql()
	if err != nil {
		return inventory.Item{}, fmt.Errorf("build select: %w", err)
	}

	var item inventory.Item
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &item, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return inventory.Item{}, apperror.NewNotFound("item", sku)
		}
		return inventory.Item{}, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

// Update rewrites catalog fields. Stock is deliberately excluded; it only
// moves through AdjustStock.
func (r *InventoryRepo) Update(ctx context.Context, item *inventory.Item) error {
	data := postgres.StructToMap(item)
	delete(data, "id")
	delete(data, "org_id")
	delete(data, "stock")
	delete(data, "created_at")
	delete(data, "updated_at")

	sql, args, err := r.builder().
		Update(inventoryTable).
		SetMap(data).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": item.ID, "org_id": item.OrgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("item", item.ID)
	}
	return nil
}

// List retrieves items for the org.
func (r *InventoryRepo) List(ctx context.Context, orgID id.ID, filter inventory.Filter) ([]inventory.Item, error) {
	q := r.builder().
		Select(inventoryColumns...).
		From(inventoryTable).
		Where(squirrel.Eq{"org_id": orgID}).
		OrderBy("name asc")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"sku": pattern},
		})
	}
	if filter.ExcludeZero {
		q = q.Where(squirrel.Gt{"stock": 0})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var items []inventory.Item
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return items, nil
}

// AdjustStock applies a stock delta as one conditional statement. A negative
// delta only applies when the resulting stock stays non-negative, so a
// concurrent sale that would drive stock below zero loses the race here.
func (r *InventoryRepo) AdjustStock(ctx context.Context, orgID, itemID id.ID, delta int64) (int64, error) {
	var newStock int64
	err := r.tm.GetQuerier(ctx).QueryRow(ctx, `
		UPDATE inventory
		SET stock = stock + $3, updated_at = now()
		WHERE id = $1 AND org_id = $2 AND stock + $3 >= 0
		RETURNING stock
	`, itemID, orgID, delta).Scan(&newStock)
	if err == nil {
		return newStock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	// No row updated: either the item is missing or the guard failed.
	item, getErr := r.GetByID(ctx, orgID, itemID)
	if getErr != nil {
		return 0, getErr
	}
	return 0, apperror.NewInsufficientStock(itemID.String(), -delta, item.Stock)
}
