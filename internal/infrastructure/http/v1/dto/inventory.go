package dto

import (
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/inventory"
)

// CreateItemRequest adds an item to the catalog. Monetary fields accept JSON
// numbers or strings; decimal parsing keeps paisa precision either way.
type CreateItemRequest struct {
	SKU        string       `json:"sku" binding:"required"`
	Name       string       `json:"name" binding:"required"`
	BuyPrice   types.Money  `json:"buyPrice" binding:"required"`
	SellPrice  *types.Money `json:"sellPrice,omitempty"`
	GSTPercent *types.Money `json:"gstPercent,omitempty"`
	Stock      int64        `json:"stock" binding:"omitempty,min=0"`
	HSNCode    *string      `json:"hsnCode,omitempty"`
}

// ToItem converts to a domain item for the org.
func (r *CreateItemRequest) ToItem(orgID id.ID) *inventory.Item {
	item := inventory.NewItem(orgID, r.SKU, r.Name, r.BuyPrice)
	item.SellPrice = r.SellPrice
	item.GSTPercent = r.GSTPercent
	item.Stock = r.Stock
	item.HSNCode = r.HSNCode
	return item
}

// UpdateItemRequest rewrites the catalog fields of an item. Stock is not
// updatable here; use the restock endpoint.
type UpdateItemRequest struct {
	SKU        string       `json:"sku" binding:"required"`
	Name       string       `json:"name" binding:"required"`
	BuyPrice   types.Money  `json:"buyPrice" binding:"required"`
	SellPrice  *types.Money `json:"sellPrice,omitempty"`
	GSTPercent *types.Money `json:"gstPercent,omitempty"`
	HSNCode    *string      `json:"hsnCode,omitempty"`
}

// RestockRequest adds units to an item's stock.
type RestockRequest struct {
	Units int64 `json:"units" binding:"required,min=1"`
}

// RestockResponse carries the stock level after the adjustment.
type RestockResponse struct {
	ItemID string `json:"itemId"`
	Stock  int64  `json:"stock"`
}

// InventoryListQuery narrows item listings.
type InventoryListQuery struct {
	ListQuery
	ExcludeZero bool `form:"excludeZero"`
}

// ToFilter converts to the domain filter.
func (q *InventoryListQuery) ToFilter() inventory.Filter {
	return inventory.Filter{
		Search:      q.Search,
		ExcludeZero: q.ExcludeZero,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
}
