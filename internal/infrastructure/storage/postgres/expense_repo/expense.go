// Package expense_repo provides the PostgreSQL implementation of the
// expenses repository.
package expense_repo

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
	"vyapari/internal/core/types"
	"vyapari/internal/domain/expenses"
	"vyapari/internal/infrastructure/storage/postgres"
)

const expenseTable = "expenses"

var expenseColumns = postgres.ExtractDBColumns[expenses.Expense]()

// ExpenseRepo implements expenses.Repository.
type ExpenseRepo struct {
	tm *postgres.TxManager
}

// NewExpenseRepo creates a new expense repository.
func NewExpenseRepo(tm *postgres.TxManager) *ExpenseRepo {
	return &ExpenseRepo{tm: tm}
}

func (r *ExpenseRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts an expense entry.
func (r *ExpenseRepo) Create(ctx context.Context, e *expenses.Expense) error {
	sql, args, err := r.builder().
		Insert(expenseTable).
		SetMap(postgres.StructToMap(e)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

// GetByID retrieves an expense within the org.
func (r *ExpenseRepo) GetByID(ctx context.Context, orgID, expenseID id.ID) (expenses.Expense, error) {
	sql, args, err := r.builder().
		Select(expenseColumns...).
		From(expenseTable).
		Where(squirrel.Eq{"id": expenseID, "org_id": orgID}).
		ToSql()
	if err != nil {
		return expenses.Expense{}, fmt.Errorf("build select: %w", err)
	}

	var e expenses.Expense
	if err := pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &e, sql, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return expenses.Expense{}, apperror.NewNotFound("expense", expenseID)
		}
		return expenses.Expense{}, fmt.Errorf("query expense: %w", err)
	}
	return e, nil
}

// ListByDateRange returns expenses with expense_date in [from, to).
func (r *ExpenseRepo) ListByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) ([]expenses.Expense, error) {
	sql, args, err := r.builder().
		Select(expenseColumns...).
		From(expenseTable).
		Where(squirrel.Eq{"org_id": orgID}).
		Where(squirrel.GtOrEq{"expense_date": from}).
		Where(squirrel.Lt{"expense_date": to}).
		OrderBy("expense_date asc", "id asc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var out []expenses.Expense
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &out, sql, args...); err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	return out, nil
}

// SumByDateRange folds expense amounts over [from, to).
func (r *ExpenseRepo) SumByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) (types.Money, error) {
	var sum types.Money
	err := r.tm.GetQuerier(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE org_id = $1 AND expense_date >= $2 AND expense_date < $3
	`, orgID, from, to).Scan(&sum)
	if err != nil {
		return types.Zero(), fmt.Errorf("sum expenses: %w", err)
	}
	return sum, nil
}
