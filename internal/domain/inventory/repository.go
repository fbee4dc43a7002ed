package inventory

import (
	"context"

	"vyapari/internal/core/id"
)

// Repository defines persistence operations for inventory items.
// All methods are org-scoped.
type Repository interface {
	// Create inserts a new item. SKU is unique per org.
	Create(ctx context.Context, item *Item) error

	// GetByID retrieves an item within the org.
	GetByID(ctx context.Context, orgID, itemID id.ID) (Item, error)

	// GetBySKU retrieves an item by SKU within the org.
	GetBySKU(ctx context.Context, orgID id.ID, sku string) (Item, error)

	// Update modifies catalog fields (never stock; stock changes go through
	// AdjustStock).
	Update(ctx context.Context, item *Item) error

	// List retrieves items with filtering.
	List(ctx context.Context, orgID id.ID, filter Filter) ([]Item, error)

	// AdjustStock atomically moves stock by delta and returns the new level.
	// Negative deltas are conditional: the update only applies when the
	// resulting stock stays non-negative, otherwise InsufficientStock is
	// returned and nothing changes. This is the lost-update guard for
	// concurrent sales against the same item.
	AdjustStock(ctx context.Context, orgID, itemID id.ID, delta int64) (int64, error)
}
