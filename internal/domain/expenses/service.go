package expenses

import (
	"context"
	"fmt"
	"time"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/pkg/logger"
)

// Service records operating expenses.
type Service struct {
	repo Repository
}

// NewService creates a new expenses service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RecordInput holds the fields of a new expense.
type RecordInput struct {
	Category    string
	Amount      types.Money
	Description *string
	// ExpenseDate defaults to now when zero.
	ExpenseDate time.Time
}

// Record validates and appends an expense entry.
func (s *Service) Record(ctx context.Context, orgID id.ID, in RecordInput) (*Expense, error) {
	if in.Category == "" {
		return nil, apperror.NewValidation("expense category is required")
	}
	if err := types.ValidatePositiveAmount(in.Amount); err != nil {
		return nil, err
	}

	when := in.ExpenseDate
	if when.IsZero() {
		when = time.Now().UTC()
	}

	expense := &Expense{
		ID:          id.New(),
		OrgID:       orgID,
		Category:    in.Category,
		Amount:      types.RoundMoney(in.Amount),
		Description: in.Description,
		ExpenseDate: when,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	logger.Info(ctx, "expense recorded",
		"expense_id", expense.ID,
		"category", expense.Category,
		"amount", expense.Amount,
	)
	return expense, nil
}

// GetByID retrieves an expense.
func (s *Service) GetByID(ctx context.Context, orgID, expenseID id.ID) (Expense, error) {
	return s.repo.GetByID(ctx, orgID, expenseID)
}

// ListByDateRange returns expenses with expense_date in [from, to).
func (s *Service) ListByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) ([]Expense, error) {
	if !to.After(from) {
		return nil, apperror.NewValidation("date range end must be after start")
	}
	return s.repo.ListByDateRange(ctx, orgID, from, to)
}
