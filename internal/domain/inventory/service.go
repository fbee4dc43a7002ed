package inventory

import (
	"context"
	"fmt"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/tx"
	"vyapari/pkg/logger"
)

// Service provides catalog operations for inventory items.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new inventory service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// Create validates and inserts a new item.
func (s *Service) Create(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}

	if _, err := s.repo.GetBySKU(ctx, item.OrgID, item.SKU); err == nil {
		return apperror.NewDuplicate("item", "sku", item.SKU)
	} else if !apperror.IsNotFound(err) {
		return err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	logger.Info(ctx, "inventory item created", "item_id", item.ID, "sku", item.SKU)
	return nil
}

// GetByID retrieves an item.
func (s *Service) GetByID(ctx context.Context, orgID, itemID id.ID) (Item, error) {
	return s.repo.GetByID(ctx, orgID, itemID)
}

// Update modifies catalog fields of an existing item. Stock is not
// updatable here; use Restock.
func (s *Service) Update(ctx context.Context, item *Item) error {
	if err := item.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, item)
}

// List retrieves items for the org.
func (s *Service) List(ctx context.Context, orgID id.ID, filter Filter) ([]Item, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	return s.repo.List(ctx, orgID, filter)
}

// Restock increases an item's stock by the given number of units.
func (s *Service) Restock(ctx context.Context, orgID, itemID id.ID, units int64) (int64, error) {
	if units <= 0 {
		return 0, apperror.NewInvalidQuantity(units)
	}

	var newStock int64
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		newStock, err = s.repo.AdjustStock(ctx, orgID, itemID, units)
		return err
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "item restocked", "item_id", itemID, "units", units, "stock", newStock)
	return newStock, nil
}
