// Package expenses records operating expenses. Entries are append-only and
// feed the daily report fold.
package expenses

import (
	"time"

	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
)

// Expense is a persisted operating expense entry.
type Expense struct {
	ID          id.ID       `db:"id" json:"id"`
	OrgID       id.ID       `db:"org_id" json:"orgId"`
	Category    string      `db:"category" json:"category"`
	Amount      types.Money `db:"amount" json:"amount"`
	Description *string     `db:"description" json:"description,omitempty"`
	ExpenseDate time.Time   `db:"expense_date" json:"expenseDate"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
}
