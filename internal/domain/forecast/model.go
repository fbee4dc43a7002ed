// Package forecast projects reorder analytics out of the sale history.
//
// Everything here is a read-only projection recomputed per call: no derived
// state is persisted, so the output is always consistent with the latest
// recorded sales.
package forecast

import (
	"time"

	"github.com/shopspring/decimal"

	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
)

// Status classifies an item by days of cover.
type Status string

const (
	// StatusCritical means the item runs out within the critical threshold.
	StatusCritical Status = "critical"
	// StatusLow means the item runs out within the low threshold.
	StatusLow Status = "low"
	// StatusHealthy means cover sits between the low and overstock thresholds.
	StatusHealthy Status = "healthy"
	// StatusOverstocked means cover exceeds the overstock threshold.
	StatusOverstocked Status = "overstocked"
	// StatusDormant means the item had no sales in the trailing window.
	// Dormant items never rank in reorder urgency.
	StatusDormant Status = "dormant"
)

// Config holds the forecast thresholds. All values are in days.
type Config struct {
	// WindowDays is the trailing window velocity is averaged over.
	WindowDays int
	// CriticalDays is the days-of-cover bound below which status is critical.
	CriticalDays int
	// LowDays is the bound below which status is low.
	LowDays int
	// TargetDays is the cover a reorder suggestion tops the item up to.
	TargetDays int
	// OverstockedDays is the bound above which status is overstocked.
	OverstockedDays int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		WindowDays:      30,
		CriticalDays:    3,
		LowDays:         7,
		TargetDays:      14,
		OverstockedDays: 60,
	}
}

func (c *Config) normalize() {
	d := DefaultConfig()
	if c.WindowDays <= 0 {
		c.WindowDays = d.WindowDays
	}
	if c.CriticalDays <= 0 {
		c.CriticalDays = d.CriticalDays
	}
	if c.LowDays <= c.CriticalDays {
		c.LowDays = d.LowDays
	}
	if c.TargetDays <= 0 {
		c.TargetDays = d.TargetDays
	}
	if c.OverstockedDays <= c.LowDays {
		c.OverstockedDays = d.OverstockedDays
	}
}

// ItemHealth is the per-item stock health row.
type ItemHealth struct {
	ItemID       id.ID  `json:"itemId"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int64  `json:"currentStock"`

	// DailyVelocity is mean units sold per day over the trailing window.
	DailyVelocity decimal.Decimal `json:"dailyVelocity"`

	// DaysOfCover is CurrentStock / DailyVelocity. Meaningless when
	// InfiniteCover is set; it is zero then, never a division by zero.
	DaysOfCover   decimal.Decimal `json:"daysOfCover"`
	InfiniteCover bool            `json:"infiniteCover"`

	Status Status `json:"status"`
}

// Suggestion is one urgency-ranked reorder recommendation.
type Suggestion struct {
	ItemID       id.ID  `json:"itemId"`
	SKU          string `json:"sku"`
	Name         string `json:"name"`
	CurrentStock int64  `json:"currentStock"`

	DailyVelocity decimal.Decimal `json:"dailyVelocity"`
	DaysOfCover   decimal.Decimal `json:"daysOfCover"`

	// SuggestedQty tops the item up to the target days of cover. Whole
	// units, never negative.
	SuggestedQty int64  `json:"suggestedQty"`
	Urgency      Status `json:"urgency"`
}

// DormantItem is an item with stock on the shelf and no sales in the window.
type DormantItem struct {
	ItemID        id.ID       `json:"itemId"`
	SKU           string      `json:"sku"`
	Name          string      `json:"name"`
	CurrentStock  int64       `json:"currentStock"`
	CapitalLocked types.Money `json:"capitalLocked"`
}

// OverstockedItem is an item carrying far more cover than it sells through.
type OverstockedItem struct {
	ItemID        id.ID           `json:"itemId"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	CurrentStock  int64           `json:"currentStock"`
	DaysOfCover   decimal.Decimal `json:"daysOfCover"`
	CapitalLocked types.Money     `json:"capitalLocked"`
}

// Insights is the structured findings bundle for stock advisory surfaces.
type Insights struct {
	GeneratedAt time.Time `json:"generatedAt"`
	WindowDays  int       `json:"windowDays"`

	CriticalCount int `json:"criticalCount"`
	LowCount      int `json:"lowCount"`

	Dormant     []DormantItem     `json:"dormant"`
	Overstocked []OverstockedItem `json:"overstocked"`

	// DormantCapital is the total buy value sitting in dormant stock.
	DormantCapital types.Money `json:"dormantCapital"`
}
