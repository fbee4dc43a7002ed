package ledger

import (
	"context"
	"fmt"
	"time"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/tx"
	"vyapari/internal/core/types"
	"vyapari/pkg/logger"
)

// Service provides ledger operations. ApplyTransaction and
// ReverseTransaction are the only write paths that touch an account's
// cached balance; both run the append and the balance delta as one atomic
// unit with the account row locked.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new ledger service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// ApplyTransaction appends a ledger entry and moves the cached balance by
// the entry's signed amount. Returns the recorded entry and the new balance.
func (s *Service) ApplyTransaction(
	ctx context.Context,
	orgID id.ID,
	ref AccountRef,
	entryType EntryType,
	amount types.Money,
	note string,
) (*Transaction, types.Money, error) {
	if err := types.ValidatePositiveAmount(amount); err != nil {
		return nil, types.Zero(), err
	}
	polarity, err := entryType.PolarityFor(ref.Kind)
	if err != nil {
		return nil, types.Zero(), err
	}

	txn := &Transaction{
		ID:          id.New(),
		OrgID:       orgID,
		AccountID:   ref.ID,
		AccountKind: ref.Kind,
		Type:        entryType,
		Amount:      types.RoundMoney(amount),
		CreatedAt:   time.Now().UTC(),
	}
	if note != "" {
		txn.Note = &note
	}

	var newBalance types.Money
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		account, err := s.repo.GetAccountForUpdate(ctx, orgID, ref)
		if err != nil {
			return err
		}

		if err := s.repo.AppendTransaction(ctx, txn); err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}

		delta := txn.Amount
		if polarity < 0 {
			delta = delta.Neg()
		}
		newBalance = account.Balance.Add(delta)

		if err := s.repo.UpdateBalance(ctx, orgID, ref, newBalance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, types.Zero(), err
	}

	logger.Info(ctx, "ledger entry applied",
		"account_kind", ref.Kind,
		"account_id", ref.ID,
		"type", entryType,
		"amount", txn.Amount,
		"balance", newBalance,
	)

	return txn, newBalance, nil
}

// ReverseTransaction voids a recorded entry: marks it reversed and applies
// the inverse balance delta atomically. The original record stays in the
// statement for auditability.
func (s *Service) ReverseTransaction(ctx context.Context, orgID, txnID id.ID) (types.Money, error) {
	var newBalance types.Money
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.repo.GetTransaction(ctx, orgID, txnID)
		if err != nil {
			return err
		}
		if txn.IsReversed() {
			return apperror.NewConflict("transaction already reversed").
				WithDetail("transaction_id", txnID)
		}

		ref := AccountRef{Kind: txn.AccountKind, ID: txn.AccountID}
		account, err := s.repo.GetAccountForUpdate(ctx, orgID, ref)
		if err != nil {
			return err
		}

		if err := s.repo.MarkReversed(ctx, orgID, txnID, time.Now().UTC()); err != nil {
			return fmt.Errorf("mark reversed: %w", err)
		}

		signed, err := txn.SignedAmount()
		if err != nil {
			return err
		}
		newBalance = account.Balance.Sub(signed)

		if err := s.repo.UpdateBalance(ctx, orgID, ref, newBalance); err != nil {
			return fmt.Errorf("update balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return types.Zero(), err
	}

	logger.Info(ctx, "ledger entry reversed",
		"transaction_id", txnID,
		"balance", newBalance,
	)

	return newBalance, nil
}

// GetBalance returns the cached account balance.
func (s *Service) GetBalance(ctx context.Context, orgID id.ID, ref AccountRef) (types.Money, error) {
	account, err := s.repo.GetAccount(ctx, orgID, ref)
	if err != nil {
		return types.Zero(), err
	}
	return account.Balance, nil
}

// GetStatement returns the account's transactions in the range, each line
// carrying the balance after that entry. The running balance is a prefix
// sum over the ordered stream starting from the opening balance; it is
// never re-queried per line.
func (s *Service) GetStatement(ctx context.Context, orgID id.ID, ref AccountRef, r DateRange) (*Statement, error) {
	account, err := s.repo.GetAccount(ctx, orgID, ref)
	if err != nil {
		return nil, err
	}

	opening := types.Zero()
	if r.From != nil {
		opening, err = s.repo.SumTransactionsBefore(ctx, orgID, ref, *r.From)
		if err != nil {
			return nil, fmt.Errorf("opening balance: %w", err)
		}
	}

	txns, err := s.repo.ListTransactions(ctx, orgID, ref, r)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	lines := make([]StatementLine, 0, len(txns))
	running := opening
	for _, txn := range txns {
		signed, err := txn.SignedAmount()
		if err != nil {
			return nil, err
		}
		running = running.Add(signed)
		lines = append(lines, StatementLine{Transaction: txn, RunningBalance: running})
	}

	return &Statement{
		Account:        account,
		OpeningBalance: opening,
		ClosingBalance: running,
		Lines:          lines,
	}, nil
}

// VerifyBalance re-folds the account's transaction stream and compares it
// to the cached balance. A mismatch means a write path bypassed the ledger
// service; it is reported as BalanceInvariantViolation and logged as an
// error since a silently wrong ledger is the worst failure mode here.
func (s *Service) VerifyBalance(ctx context.Context, orgID id.ID, ref AccountRef) error {
	account, err := s.repo.GetAccount(ctx, orgID, ref)
	if err != nil {
		return err
	}
	computed, err := s.repo.SumTransactions(ctx, orgID, ref)
	if err != nil {
		return fmt.Errorf("fold transactions: %w", err)
	}

	if !account.Balance.Equal(computed) {
		logger.Error(ctx, "ledger balance invariant violated",
			"account_kind", ref.Kind,
			"account_id", ref.ID,
			"cached", account.Balance,
			"computed", computed,
		)
		return apperror.NewBalanceInvariant(ref.ID.String(), account.Balance.String(), computed.String())
	}
	return nil
}
