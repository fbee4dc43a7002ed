package forecast

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/inventory"
	"vyapari/internal/domain/sales"
)

// InventorySource lists catalog items. Satisfied by inventory.Repository.
type InventorySource interface {
	List(ctx context.Context, orgID id.ID, filter inventory.Filter) ([]inventory.Item, error)
}

// SalesSource reads sale history. Satisfied by sales.Repository.
type SalesSource interface {
	ListByDateRange(ctx context.Context, orgID id.ID, from, to time.Time) ([]sales.Sale, error)
}

// Service computes stock health, reorder suggestions and insights. It never
// mutates sale or inventory state.
type Service struct {
	items InventorySource
	sales SalesSource
	cfg   Config
	now   func() time.Time
}

// NewService creates a new forecast service.
func NewService(items InventorySource, salesSource SalesSource, cfg Config) *Service {
	cfg.normalize()
	return &Service{
		items: items,
		sales: salesSource,
		cfg:   cfg,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// GetStockHealth returns a health row for every catalog item.
func (s *Service) GetStockHealth(ctx context.Context, orgID id.ID) ([]ItemHealth, error) {
	items, velocities, err := s.load(ctx, orgID)
	if err != nil {
		return nil, err
	}

	health := make([]ItemHealth, 0, len(items))
	for _, item := range items {
		health = append(health, s.classify(&item, velocities[item.ID]))
	}
	sort.Slice(health, func(i, j int) bool { return health[i].SKU < health[j].SKU })
	return health, nil
}

// GetReorderSuggestions returns reorder recommendations, most urgent first.
// Items with zero velocity never appear here; they surface as dormant stock
// in GetStockInsights instead.
func (s *Service) GetReorderSuggestions(ctx context.Context, orgID id.ID) ([]Suggestion, error) {
	items, velocities, err := s.load(ctx, orgID)
	if err != nil {
		return nil, err
	}

	target := decimal.NewFromInt(int64(s.cfg.TargetDays))
	var suggestions []Suggestion
	for _, item := range items {
		velocity := velocities[item.ID]
		if velocity.IsZero() {
			continue
		}

		// Top up to target days of cover, in whole units.
		qty := target.Mul(velocity).Ceil().IntPart() - item.Stock
		if qty <= 0 {
			continue
		}

		h := s.classify(&item, velocity)
		suggestions = append(suggestions, Suggestion{
			ItemID:        item.ID,
			SKU:           item.SKU,
			Name:          item.Name,
			CurrentStock:  item.Stock,
			DailyVelocity: h.DailyVelocity,
			DaysOfCover:   h.DaysOfCover,
			SuggestedQty:  qty,
			Urgency:       h.Status,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if !a.DaysOfCover.Equal(b.DaysOfCover) {
			return a.DaysOfCover.LessThan(b.DaysOfCover)
		}
		// Faster mover first on equal cover.
		return a.DailyVelocity.GreaterThan(b.DailyVelocity)
	})
	return suggestions, nil
}

// GetStockInsights returns the structured findings bundle: counts of items
// needing attention, dormant stock with locked-up capital, and overstock.
func (s *Service) GetStockInsights(ctx context.Context, orgID id.ID) (*Insights, error) {
	items, velocities, err := s.load(ctx, orgID)
	if err != nil {
		return nil, err
	}

	insights := &Insights{
		GeneratedAt:    s.now(),
		WindowDays:     s.cfg.WindowDays,
		DormantCapital: types.Zero(),
	}

	for _, item := range items {
		h := s.classify(&item, velocities[item.ID])
		capital := item.BuyPrice.Mul(decimal.NewFromInt(item.Stock))

		switch h.Status {
		case StatusCritical:
			insights.CriticalCount++
		case StatusLow:
			insights.LowCount++
		case StatusDormant:
			if item.Stock > 0 {
				insights.Dormant = append(insights.Dormant, DormantItem{
					ItemID:        item.ID,
					SKU:           item.SKU,
					Name:          item.Name,
					CurrentStock:  item.Stock,
					CapitalLocked: capital,
				})
				insights.DormantCapital = insights.DormantCapital.Add(capital)
			}
		case StatusOverstocked:
			insights.Overstocked = append(insights.Overstocked, OverstockedItem{
				ItemID:        item.ID,
				SKU:           item.SKU,
				Name:          item.Name,
				CurrentStock:  item.Stock,
				DaysOfCover:   h.DaysOfCover,
				CapitalLocked: capital,
			})
		}
	}

	sort.Slice(insights.Dormant, func(i, j int) bool {
		return insights.Dormant[i].CapitalLocked.GreaterThan(insights.Dormant[j].CapitalLocked)
	})
	sort.Slice(insights.Overstocked, func(i, j int) bool {
		return insights.Overstocked[i].CapitalLocked.GreaterThan(insights.Overstocked[j].CapitalLocked)
	})
	return insights, nil
}

// load fetches the catalog and folds window sales into per-item velocities.
func (s *Service) load(ctx context.Context, orgID id.ID) ([]inventory.Item, map[id.ID]decimal.Decimal, error) {
	// Unfiltered, unbounded list: health and suggestions must cover the
	// whole catalog, not the first page of it.
	items, err := s.items.List(ctx, orgID, inventory.Filter{})
	if err != nil {
		return nil, nil, fmt.Errorf("list items: %w", err)
	}

	to := s.now()
	from := to.AddDate(0, 0, -s.cfg.WindowDays)
	history, err := s.sales.ListByDateRange(ctx, orgID, from, to)
	if err != nil {
		return nil, nil, fmt.Errorf("list sales: %w", err)
	}

	sold := make(map[id.ID]int64)
	for _, sale := range history {
		sold[sale.InventoryID] += sale.Quantity
	}

	window := decimal.NewFromInt(int64(s.cfg.WindowDays))
	velocities := make(map[id.ID]decimal.Decimal, len(sold))
	for itemID, units := range sold {
		velocities[itemID] = decimal.NewFromInt(units).Div(window)
	}
	return items, velocities, nil
}

func (s *Service) classify(item *inventory.Item, velocity decimal.Decimal) ItemHealth {
	h := ItemHealth{
		ItemID:        item.ID,
		SKU:           item.SKU,
		Name:          item.Name,
		CurrentStock:  item.Stock,
		DailyVelocity: velocity,
	}

	if velocity.IsZero() {
		h.InfiniteCover = true
		h.Status = StatusDormant
		return h
	}

	h.DaysOfCover = decimal.NewFromInt(item.Stock).Div(velocity)
	switch {
	case h.DaysOfCover.LessThan(decimal.NewFromInt(int64(s.cfg.CriticalDays))):
		h.Status = StatusCritical
	case h.DaysOfCover.LessThan(decimal.NewFromInt(int64(s.cfg.LowDays))):
		h.Status = StatusLow
	case h.DaysOfCover.GreaterThan(decimal.NewFromInt(int64(s.cfg.OverstockedDays))):
		h.Status = StatusOverstocked
	default:
		h.Status = StatusHealthy
	}
	return h
}
