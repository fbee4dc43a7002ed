package dto

import (
	"time"

	"vyapari/internal/core/types"
	"vyapari/internal/domain/ledger"
)

// CreateAccountHolderRequest registers a customer or supplier.
type CreateAccountHolderRequest struct {
	Name  string  `json:"name" binding:"required"`
	Phone *string `json:"phone,omitempty" binding:"omitempty,len=10,numeric"`
	GSTIN *string `json:"gstin,omitempty" binding:"omitempty,gstin"`
}

// ToCustomerInput converts to the domain customer input.
func (r *CreateAccountHolderRequest) ToCustomerInput() ledger.CreateCustomerInput {
	return ledger.CreateCustomerInput{Name: r.Name, Phone: r.Phone, GSTIN: r.GSTIN}
}

// ToSupplierInput converts to the domain supplier input.
func (r *CreateAccountHolderRequest) ToSupplierInput() ledger.CreateSupplierInput {
	return ledger.CreateSupplierInput{Name: r.Name, Phone: r.Phone, GSTIN: r.GSTIN}
}

// DirectoryListQuery narrows account holder listings.
type DirectoryListQuery struct {
	ListQuery
	WithBalance bool `form:"withBalance"`
}

// ToFilter converts to the domain filter.
func (q *DirectoryListQuery) ToFilter() ledger.DirectoryFilter {
	return ledger.DirectoryFilter{
		Search:      q.Search,
		WithBalance: q.WithBalance,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
}

// LedgerEntryRequest appends a ledger transaction to an account.
type LedgerEntryRequest struct {
	Type   string      `json:"type" binding:"required,oneof=credit purchase payment"`
	Amount types.Money `json:"amount" binding:"required"`
	Note   string      `json:"note,omitempty"`
}

// LedgerEntryResponse carries the recorded entry and the new balance.
type LedgerEntryResponse struct {
	Transaction *ledger.Transaction `json:"transaction"`
	Balance     types.Money         `json:"balance"`
}

// BalanceResponse carries an account's cached balance.
type BalanceResponse struct {
	AccountID string      `json:"accountId"`
	Kind      string      `json:"kind"`
	Balance   types.Money `json:"balance"`
}

// StatementQuery bounds a statement. Both endpoints are optional; an
// unbounded statement starts from the account's first entry.
type StatementQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// ToDateRange parses the optional endpoints.
func (q *StatementQuery) ToDateRange() (ledger.DateRange, error) {
	var r ledger.DateRange
	if q.From != "" {
		from, err := time.Parse("2006-01-02", q.From)
		if err != nil {
			return r, err
		}
		r.From = &from
	}
	if q.To != "" {
		to, err := time.Parse("2006-01-02", q.To)
		if err != nil {
			return r, err
		}
		r.To = &to
	}
	return r, nil
}
