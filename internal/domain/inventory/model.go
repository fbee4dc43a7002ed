// Package inventory provides the stock catalog for sellable items.
package inventory

import (
	"context"
	"time"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"

	"vyapari/internal/domain/tax"
)

// Item is a sellable inventory position.
// Stock is a whole-unit count and must never go negative; every decrement
// goes through the conditional update in Repository.AdjustStock.
type Item struct {
	ID    id.ID  `db:"id" json:"id"`
	OrgID id.ID  `db:"org_id" json:"orgId"`
	SKU   string `db:"sku" json:"sku"`
	Name  string `db:"name" json:"name"`

	// BuyPrice is the current purchase cost per unit. Sales capture it at
	// recording time, so later price changes never rewrite historical profit.
	BuyPrice types.Money `db:"buy_price" json:"buyPrice"`

	// SellPrice is the default unit price; a POS entry may override it.
	SellPrice *types.Money `db:"sell_price" json:"sellPrice,omitempty"`

	// GSTPercent is the explicit tax rate. When nil the rate is resolved
	// from the HSN code at sale time.
	GSTPercent *types.Money `db:"gst_percent" json:"gstPercent,omitempty"`

	Stock   int64   `db:"stock" json:"stock"`
	HSNCode *string `db:"hsn_code" json:"hsnCode,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewItem creates an item with generated ID and timestamps.
func NewItem(orgID id.ID, sku, name string, buyPrice types.Money) *Item {
	now := time.Now().UTC()
	return &Item{
		ID:        id.New(),
		OrgID:     orgID,
		SKU:       sku,
		Name:      name,
		BuyPrice:  buyPrice,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks item invariants.
func (i *Item) Validate(ctx context.Context) error {
	if i.SKU == "" {
		return apperror.NewValidation("sku is required").WithDetail("field", "sku")
	}
	if i.Name == "" {
		return apperror.NewValidation("name is required").WithDetail("field", "name")
	}
	if i.BuyPrice.IsNegative() {
		return apperror.NewInvalidAmount("buy price must not be negative").
			WithDetail("field", "buyPrice")
	}
	if i.SellPrice != nil && i.SellPrice.IsNegative() {
		return apperror.NewInvalidAmount("sell price must not be negative").
			WithDetail("field", "sellPrice")
	}
	if i.Stock < 0 {
		return apperror.NewValidation("stock must not be negative").
			WithDetail("field", "stock")
	}
	if i.GSTPercent != nil {
		if i.GSTPercent.IsNegative() || i.GSTPercent.GreaterThan(types.MustMoney("100")) {
			return apperror.NewValidation("gst percent must be between 0 and 100").
				WithDetail("field", "gstPercent")
		}
	} else {
		// Without an explicit rate the HSN code is the only path to a tax
		// rate, so it must resolve against the rate table up front.
		if i.HSNCode == nil || !tax.KnownHSN(*i.HSNCode) {
			hsn := ""
			if i.HSNCode != nil {
				hsn = *i.HSNCode
			}
			return apperror.NewUnknownHSNCode(hsn)
		}
	}
	return nil
}

// ResolveRate returns the GST rate for the item: the explicit percentage
// when set, otherwise the HSN table rate.
func (i *Item) ResolveRate() (types.Money, error) {
	if i.GSTPercent != nil {
		return *i.GSTPercent, nil
	}
	if i.HSNCode == nil {
		return types.Zero(), apperror.NewUnknownHSNCode("")
	}
	return tax.LookupRate(*i.HSNCode)
}

// Filter narrows List queries.
type Filter struct {
	Search      string
	ExcludeZero bool
	Limit       int
	Offset      int
}
