package ledger_repo

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
	"vyapari/internal/domain/ledger"
)

var txnColumns = []string{"id", "org_id", "account_id", "type", "amount", "note", "reversed_at", "created_at"}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// txnRow is the table shape; the account kind is implied by the table.
type txnRow struct {
	ID         id.ID            `db:"id"`
	OrgID      id.ID            `db:"org_id"`
	AccountID  id.ID            `db:"account_id"`
	Type       ledger.EntryType `db:"type"`
	Amount     types.Money      `db:"amount"`
	Note       *string          `db:"note"`
	ReversedAt *time.Time       `db:"reversed_at"`
	CreatedAt  time.Time        `db:"created_at"`
}

func (t *txnRow) toDomain(kind ledger.AccountKind) ledger.Transaction {
	return ledger.Transaction{
		ID:          t.ID,
		OrgID:       t.OrgID,
		AccountID:   t.AccountID,
		AccountKind: kind,
		Type:        t.Type,
		Amount:      t.Amount,
		Note:        t.Note,
		ReversedAt:  t.ReversedAt,
		CreatedAt:   t.CreatedAt,
	}
}

// AppendTransaction inserts an immutable ledger entry.
func (r *LedgerRepo) AppendTransaction(ctx context.Context, txn *ledger.Transaction) error {
	_, txnTable, err := tablesFor(txn.AccountKind)
	if err != nil {
		return err
	}

	sql, args, err := builder().
		Insert(txnTable).
		Columns("id", "org_id", "account_id", "type", "amount", "note", "created_at").
		Values(txn.ID, txn.OrgID, txn.AccountID, txn.Type, txn.Amount, txn.Note, txn.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.tm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", txnTable, err)
	}
	return nil
}

// GetTransaction fetches a single entry, trying both streams.
func (r *LedgerRepo) GetTransaction(ctx context.Context, orgID, txnID id.ID) (ledger.Transaction, error) {
	for _, kind := range []ledger.AccountKind{ledger.AccountCustomer, ledger.AccountSupplier} {
		_, txnTable, _ := tablesFor(kind)

		sql, args, err := builder().
			Select(txnColumns...).
			From(txnTable).
			Where(squirrel.Eq{"id": txnID, "org_id": orgID}).
			ToSql()
		if err != nil {
			return ledger.Transaction{}, fmt.Errorf("build select: %w", err)
		}

		var row txnRow
		err = pgxscan.Get(ctx, r.tm.GetQuerier(ctx), &row, sql, args...)
		if err == nil {
			return row.toDomain(kind), nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return ledger.Transaction{}, fmt.Errorf("query %s: %w", txnTable, err)
		}
	}
	return ledger.Transaction{}, apperror.NewNotFound("transaction", txnID)
}

// MarkReversed stamps an entry as voided.
func (r *LedgerRepo) MarkReversed(ctx context.Context, orgID, txnID id.ID, at time.Time) error {
	for _, kind := range []ledger.AccountKind{ledger.AccountCustomer, ledger.AccountSupplier} {
		_, txnTable, _ := tablesFor(kind)

		query := fmt.Sprintf(
			"UPDATE %s SET reversed_at = $3 WHERE id = $1 AND org_id = $2 AND reversed_at IS NULL",
			txnTable,
		)
		result, err := r.tm.GetQuerier(ctx).Exec(ctx, query, txnID, orgID, at)
		if err != nil {
			return fmt.Errorf("mark reversed: %w", err)
		}
		if result.RowsAffected() > 0 {
			return nil
		}
	}
	return apperror.NewNotFound("transaction", txnID)
}

// ListTransactions returns entries for an account within the range, ordered
// by (created_at, id) ascending. The ordering feeds the running-balance
// prefix sum.
func (r *LedgerRepo) ListTransactions(ctx context.Context, orgID id.ID, ref ledger.AccountRef, dr ledger.DateRange) ([]ledger.Transaction, error) {
	_, txnTable, err := tablesFor(ref.Kind)
	if err != nil {
		return nil, err
	}

	q := builder().
		Select(txnColumns...).
		From(txnTable).
		Where(squirrel.Eq{"org_id": orgID, "account_id": ref.ID}).
		OrderBy("created_at asc", "id asc")
	if dr.From != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *dr.From})
	}
	if dr.To != nil {
		q = q.Where(squirrel.Lt{"created_at": *dr.To})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var rows []txnRow
	if err := pgxscan.Select(ctx, r.tm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("query %s: %w", txnTable, err)
	}

	out := make([]ledger.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain(ref.Kind))
	}
	return out, nil
}

// SumTransactions folds the signed amounts of all non-reversed entries.
func (r *LedgerRepo) SumTransactions(ctx context.Context, orgID id.ID, ref ledger.AccountRef) (types.Money, error) {
	return r.sumTransactions(ctx, orgID, ref, nil)
}

// SumTransactionsBefore folds non-reversed entries strictly before the
// given time.
func (r *LedgerRepo) SumTransactionsBefore(ctx context.Context, orgID id.ID, ref ledger.AccountRef, before time.Time) (types.Money, error) {
	return r.sumTransactions(ctx, orgID, ref, &before)
}

func (r *LedgerRepo) sumTransactions(ctx context.Context, orgID id.ID, ref ledger.AccountRef, before *time.Time) (types.Money, error) {
	_, txnTable, err := tablesFor(ref.Kind)
	if err != nil {
		return types.Zero(), err
	}

	increasing, err := increasingTypeFor(ref.Kind)
	if err != nil {
		return types.Zero(), err
	}

	// Signed fold in SQL: the increasing entry type adds, everything else
	// subtracts. Reversed entries contribute nothing.
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(CASE WHEN type = $3 THEN amount ELSE -amount END), 0)
		FROM %s
		WHERE org_id = $1 AND account_id = $2 AND reversed_at IS NULL
	`, txnTable)
	args := []any{orgID, ref.ID, increasing}
	if before != nil {
		query += " AND created_at < $4"
		args = append(args, *before)
	}

	var sum types.Money
	if err := r.tm.GetQuerier(ctx).QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return types.Zero(), fmt.Errorf("sum %s: %w", txnTable, err)
	}
	return sum, nil
}

func increasingTypeFor(kind ledger.AccountKind) (ledger.EntryType, error) {
	switch kind {
	case ledger.AccountCustomer:
		return ledger.EntryCredit, nil
	case ledger.AccountSupplier:
		return ledger.EntryPurchase, nil
	}
	return "", apperror.NewValidation("unknown account kind").
		WithDetail("account_kind", string(kind))
}
