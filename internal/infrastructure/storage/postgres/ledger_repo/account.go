// Package ledger_repo provides the PostgreSQL implementation of the ledger
// repositories. Customer and supplier accounts live in separate tables with
// separate transaction streams; the account kind routes every query.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/ledger"
	"vyapari/internal/infrastructure/storage/postgres"
)

// tablesFor routes an account kind to its account and transaction tables.
func tablesFor(kind ledger.AccountKind) (accountTable, txnTable string, err error) {
	switch kind {
	case ledger.AccountCustomer:
		return "customers", "khata_transactions", nil
	case ledger.AccountSupplier:
		return "suppliers", "supplier_transactions", nil
	}
	return "", "", apperror.NewValidation("unknown account kind").
		WithDetail("account_kind", string(kind))
}

// LedgerRepo implements ledger.Repository.
type LedgerRepo struct {
	tm *postgres.TxManager
}

// NewLedgerRepo creates a new ledger repository.
func NewLedgerRepo(tm *postgres.TxManager) *LedgerRepo {
	return &LedgerRepo{tm: tm}
}

// GetAccount returns the balance-carrying account row.
func (r *LedgerRepo) GetAccount(ctx context.Context, orgID id.ID, ref ledger.AccountRef) (ledger.Account, error) {
	return r.getAccount(ctx, orgID, ref, false)
}

// GetAccountForUpdate returns the account row locked with FOR UPDATE,
// serializing concurrent appends against the same account.
func (r *LedgerRepo) GetAccountForUpdate(ctx context.Context, orgID id.ID, ref ledger.AccountRef) (ledger.Account, error) {
	return r.getAccount(ctx, orgID, ref, true)
}

func (r *LedgerRepo) getAccount(ctx context.Context, orgID id.ID, ref ledger.AccountRef, forUpdate bool) (ledger.Account, error) {
	accountTable, _, err := tablesFor(ref.Kind)
	if err != nil {
		return ledger.Account{}, err
	}

	query := fmt.Sprintf("SELECT name, balance FROM %s WHERE id = $1 AND org_id = $2", accountTable)
	if forUpdate {
		query += " FOR UPDATE"
	}

	account := ledger.Account{Ref: ref, OrgID: orgID}
	err = r.tm.GetQuerier(ctx).QueryRow(ctx, query, ref.ID, orgID).
		Scan(&account.Name, &account.Balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return ledger.Account{}, apperror.NewNotFound(string(ref.Kind), ref.ID)
	}
	if err != nil {
		return ledger.Account{}, fmt.Errorf("query %s: %w", accountTable, err)
	}
	return account, nil
}

// UpdateBalance writes the cached balance.
func (r *LedgerRepo) UpdateBalance(ctx context.Context, orgID id.ID, ref ledger.AccountRef, balance types.Money) error {
	accountTable, _, err := tablesFor(ref.Kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE %s SET balance = $3 WHERE id = $1 AND org_id = $2", accountTable)
	result, err := r.tm.GetQuerier(ctx).Exec(ctx, query, ref.ID, orgID, balance)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(string(ref.Kind), ref.ID)
	}
	return nil
}
