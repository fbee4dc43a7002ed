package ledger

import (
	"context"
	"time"

	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
)

// Repository defines persistence operations for ledger accounts and their
// transaction streams. All methods are org-scoped.
//
// Implementations must order ListTransactions by created_at ascending with
// ties broken by insertion id; the running-balance prefix sum depends on it.
type Repository interface {
	// GetAccount returns the balance-carrying account row.
	GetAccount(ctx context.Context, orgID id.ID, ref AccountRef) (Account, error)

	// GetAccountForUpdate returns the account row with a pessimistic lock.
	// Serializes concurrent appends against the same account; must be called
	// inside a transaction.
	GetAccountForUpdate(ctx context.Context, orgID id.ID, ref AccountRef) (Account, error)

	// UpdateBalance writes the cached balance. Only the ledger service may
	// call this, and only inside the same transaction as the entry append.
	UpdateBalance(ctx context.Context, orgID id.ID, ref AccountRef, balance types.Money) error

	// AppendTransaction inserts an immutable ledger entry.
	AppendTransaction(ctx context.Context, txn *Transaction) error

	// GetTransaction fetches a single entry.
	GetTransaction(ctx context.Context, orgID, txnID id.ID) (Transaction, error)

	// MarkReversed stamps an entry as voided. The balance delta is applied
	// separately by the service within the same transaction.
	MarkReversed(ctx context.Context, orgID, txnID id.ID, at time.Time) error

	// ListTransactions returns entries for an account within the range,
	// ordered by (created_at, id) ascending.
	ListTransactions(ctx context.Context, orgID id.ID, ref AccountRef, r DateRange) ([]Transaction, error)

	// SumTransactions folds the signed amounts of all non-reversed entries
	// for the account. Used by the balance invariant check.
	SumTransactions(ctx context.Context, orgID id.ID, ref AccountRef) (types.Money, error)

	// SumTransactionsBefore folds non-reversed entries strictly before the
	// given time. Used for statement opening balances.
	SumTransactionsBefore(ctx context.Context, orgID id.ID, ref AccountRef, before time.Time) (types.Money, error)
}
