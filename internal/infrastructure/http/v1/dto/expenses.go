package dto

import (
	"time"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/expenses"
)

// RecordExpenseRequest appends an expense entry.
type RecordExpenseRequest struct {
	Category    string      `json:"category" binding:"required"`
	Amount      types.Money `json:"amount" binding:"required"`
	Description *string     `json:"description,omitempty"`
	// ExpenseDate is an ISO date; defaults to today when empty.
	ExpenseDate string `json:"expenseDate,omitempty"`
}

// ToInput converts to the domain input.
func (r *RecordExpenseRequest) ToInput() (expenses.RecordInput, error) {
	in := expenses.RecordInput{
		Category:    r.Category,
		Amount:      r.Amount,
		Description: r.Description,
	}
	if r.ExpenseDate != "" {
		when, err := time.Parse("2006-01-02", r.ExpenseDate)
		if err != nil {
			return in, apperror.NewValidation("invalid expense date").
				WithDetail("expenseDate", r.ExpenseDate)
		}
		in.ExpenseDate = when
	}
	return in, nil
}
