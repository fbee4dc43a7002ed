// Package ledger provides the running-balance ledger ("khata") for customer
// and supplier accounts.
//
// Transactions are append-only: a recorded entry is never edited or deleted
// in place. Voiding applies an inverse delta and marks the original record,
// so the statement remains a complete audit trail. The cached balance on the
// account row is strictly a materialized view of the transaction fold and is
// written only through Service.ApplyTransaction / ReverseTransaction.
package ledger

import (
	"time"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
)

// AccountKind distinguishes the two ledger sides.
type AccountKind string

const (
	// AccountCustomer tracks receivables: positive balance = owed to the shop.
	AccountCustomer AccountKind = "customer"
	// AccountSupplier tracks payables: positive balance = owed by the shop.
	AccountSupplier AccountKind = "supplier"
)

// EntryType is the transaction type recorded on a ledger entry.
type EntryType string

const (
	// EntryCredit records goods taken on credit by a customer (receivable up).
	EntryCredit EntryType = "credit"
	// EntryPurchase records goods bought from a supplier (payable up).
	EntryPurchase EntryType = "purchase"
	// EntryPayment settles an outstanding balance on either side (balance down).
	EntryPayment EntryType = "payment"
)

// PolarityFor returns +1 when the entry type increases the balance of the
// given account kind and -1 when it decreases it. Pairing an entry type with
// the wrong account kind is a validation error.
func (e EntryType) PolarityFor(kind AccountKind) (int64, error) {
	switch kind {
	case AccountCustomer:
		switch e {
		case EntryCredit:
			return 1, nil
		case EntryPayment:
			return -1, nil
		}
	case AccountSupplier:
		switch e {
		case EntryPurchase:
			return 1, nil
		case EntryPayment:
			return -1, nil
		}
	}
	return 0, apperror.NewValidation("entry type not valid for account kind").
		WithDetail("entry_type", string(e)).
		WithDetail("account_kind", string(kind))
}

// AccountRef identifies a ledger account.
type AccountRef struct {
	Kind AccountKind `json:"kind"`
	ID   id.ID       `json:"id"`
}

// Account is the balance-carrying view of a customer or supplier row.
type Account struct {
	Ref     AccountRef  `json:"ref"`
	OrgID   id.ID       `json:"orgId"`
	Name    string      `json:"name"`
	Balance types.Money `json:"balance"`
}

// Customer is a khata account holder.
type Customer struct {
	ID        id.ID       `db:"id" json:"id"`
	OrgID     id.ID       `db:"org_id" json:"orgId"`
	Name      string      `db:"name" json:"name"`
	Phone     *string     `db:"phone" json:"phone,omitempty"`
	GSTIN     *string     `db:"gstin" json:"gstin,omitempty"`
	Balance   types.Money `db:"balance" json:"balance"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// Supplier is a payable-side account holder.
type Supplier struct {
	ID        id.ID       `db:"id" json:"id"`
	OrgID     id.ID       `db:"org_id" json:"orgId"`
	Name      string      `db:"name" json:"name"`
	Phone     *string     `db:"phone" json:"phone,omitempty"`
	GSTIN     *string     `db:"gstin" json:"gstin,omitempty"`
	Balance   types.Money `db:"balance" json:"balance"`
	CreatedAt time.Time   `db:"created_at" json:"createdAt"`
}

// Transaction is an immutable ledger entry.
type Transaction struct {
	ID          id.ID       `db:"id" json:"id"`
	OrgID       id.ID       `db:"org_id" json:"orgId"`
	AccountID   id.ID       `db:"account_id" json:"accountId"`
	AccountKind AccountKind `db:"account_kind" json:"accountKind"`
	Type        EntryType   `db:"type" json:"type"`
	Amount      types.Money `db:"amount" json:"amount"`
	Note        *string     `db:"note" json:"note,omitempty"`
	ReversedAt  *time.Time  `db:"reversed_at" json:"reversedAt,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}

// IsReversed reports whether the entry has been voided.
func (t *Transaction) IsReversed() bool {
	return t.ReversedAt != nil
}

// SignedAmount returns the amount with the polarity it carries for its
// account kind. Reversed entries contribute zero to any fold.
func (t *Transaction) SignedAmount() (types.Money, error) {
	if t.IsReversed() {
		return types.Zero(), nil
	}
	polarity, err := t.Type.PolarityFor(t.AccountKind)
	if err != nil {
		return types.Zero(), err
	}
	if polarity < 0 {
		return t.Amount.Neg(), nil
	}
	return t.Amount, nil
}

// DateRange bounds a statement query. Nil endpoints are unbounded.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// StatementLine is one entry of an account statement together with the
// balance after that entry, computed by prefix sum over the ordered stream.
type StatementLine struct {
	Transaction
	RunningBalance types.Money `json:"runningBalance"`
}

// Statement is an ordered view over an account's transactions.
type Statement struct {
	Account        Account         `json:"account"`
	OpeningBalance types.Money     `json:"openingBalance"`
	ClosingBalance types.Money     `json:"closingBalance"`
	Lines          []StatementLine `json:"lines"`
}
