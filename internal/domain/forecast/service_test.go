package forecast

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/inventory"
	"vyapari/internal/domain/sales"
)

type fakeInventorySource struct {
	items []inventory.Item
}

func (f *fakeInventorySource) List(_ context.Context, orgID id.ID, filter inventory.Filter) ([]inventory.Item, error) {
	var out []inventory.Item
	for _, item := range f.items {
		if item.OrgID == orgID {
			out = append(out, item)
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

type fakeSalesSource struct {
	sales []sales.Sale
}

func (f *fakeSalesSource) ListByDateRange(_ context.Context, orgID id.ID, from, to time.Time) ([]sales.Sale, error) {
	var out []sales.Sale
	for _, sale := range f.sales {
		if sale.OrgID == orgID && !sale.SaleDate.Before(from) && sale.SaleDate.Before(to) {
			out = append(out, sale)
		}
	}
	return out, nil
}

type fixture struct {
	svc   *Service
	items *fakeInventorySource
	sales *fakeSalesSource
	orgID id.ID
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		items: &fakeInventorySource{},
		sales: &fakeSalesSource{},
		orgID: id.New(),
		now:   time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.items, f.sales, DefaultConfig())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) addItem(sku string, stock int64, buyPrice string) id.ID {
	item := inventory.Item{
		ID:       id.New(),
		OrgID:    f.orgID,
		SKU:      sku,
		Name:     sku,
		BuyPrice: types.MustMoney(buyPrice),
		Stock:    stock,
	}
	f.items.items = append(f.items.items, item)
	return item.ID
}

// addSales spreads the given unit total across the trailing window as one
// sale per day, oldest first.
func (f *fixture) addSales(itemID id.ID, totalUnits int64, days int) {
	perDay := totalUnits / int64(days)
	rem := totalUnits % int64(days)
	for d := 1; d <= days; d++ {
		qty := perDay
		if int64(d) <= rem {
			qty++
		}
		if qty == 0 {
			continue
		}
		f.sales.sales = append(f.sales.sales, sales.Sale{
			ID:          id.New(),
			OrgID:       f.orgID,
			InventoryID: itemID,
			Quantity:    qty,
			SaleDate:    f.now.AddDate(0, 0, -d),
		})
	}
}

func findHealth(t *testing.T, health []ItemHealth, itemID id.ID) ItemHealth {
	t.Helper()
	for _, h := range health {
		if h.ItemID == itemID {
			return h
		}
	}
	t.Fatalf("item %s missing from health rows", itemID)
	return ItemHealth{}
}

func TestGetStockHealth_Classification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 2/day velocity, stock 4: two days of cover
	critical := f.addItem("CRIT", 4, "50")
	f.addSales(critical, 60, 30)

	// 2/day velocity, stock 10: five days of cover
	low := f.addItem("LOW", 10, "50")
	f.addSales(low, 60, 30)

	// 2/day velocity, stock 40: twenty days of cover
	healthy := f.addItem("HEALTHY", 40, "50")
	f.addSales(healthy, 60, 30)

	// 1/day velocity, stock 90: ninety days of cover
	over := f.addItem("OVER", 90, "50")
	f.addSales(over, 30, 30)

	// no sales at all
	dormant := f.addItem("DORMANT", 20, "50")

	health, err := f.svc.GetStockHealth(ctx, f.orgID)
	require.NoError(t, err)
	require.Len(t, health, 5)

	assert.Equal(t, StatusCritical, findHealth(t, health, critical).Status)
	assert.Equal(t, StatusLow, findHealth(t, health, low).Status)
	assert.Equal(t, StatusHealthy, findHealth(t, health, healthy).Status)
	assert.Equal(t, StatusOverstocked, findHealth(t, health, over).Status)

	d := findHealth(t, health, dormant)
	assert.Equal(t, StatusDormant, d.Status)
	assert.True(t, d.InfiniteCover)
	assert.True(t, d.DailyVelocity.IsZero())

	h := findHealth(t, health, healthy)
	assert.True(t, h.DailyVelocity.Equal(decimal.NewFromInt(2)), "velocity = %s", h.DailyVelocity)
	assert.True(t, h.DaysOfCover.Equal(decimal.NewFromInt(20)), "cover = %s", h.DaysOfCover)
}

func TestGetStockHealth_CoversWholeCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// well past any single page size
	for i := 0; i < 1200; i++ {
		f.addItem(fmt.Sprintf("SKU-%04d", i), 5, "10")
	}

	health, err := f.svc.GetStockHealth(ctx, f.orgID)
	require.NoError(t, err)
	assert.Len(t, health, 1200)
}

func TestGetReorderSuggestions_QuantityAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 2/day, stock 4: cover 2, needs 14*2-4 = 24
	urgent := f.addItem("URGENT", 4, "50")
	f.addSales(urgent, 60, 30)

	// 1/day, stock 4: cover 4, needs 14*1-4 = 10
	next := f.addItem("NEXT", 4, "50")
	f.addSales(next, 30, 30)

	// 2/day, stock 40: cover 20, already above target
	covered := f.addItem("COVERED", 40, "50")
	f.addSales(covered, 60, 30)

	// zero velocity stays out of the ranking entirely
	f.addItem("DORMANT", 20, "50")

	suggestions, err := f.svc.GetReorderSuggestions(ctx, f.orgID)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)

	assert.Equal(t, urgent, suggestions[0].ItemID)
	assert.Equal(t, int64(24), suggestions[0].SuggestedQty)
	assert.Equal(t, StatusCritical, suggestions[0].Urgency)

	assert.Equal(t, next, suggestions[1].ItemID)
	assert.Equal(t, int64(10), suggestions[1].SuggestedQty)
	assert.Equal(t, StatusLow, suggestions[1].Urgency)

	for _, s := range suggestions {
		assert.Greater(t, s.SuggestedQty, int64(0))
	}
}

func TestGetReorderSuggestions_TieBreakByVelocity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// both at 2 days of cover; the faster mover ranks first
	slow := f.addItem("SLOW", 2, "50")
	f.addSales(slow, 30, 30)
	fast := f.addItem("FAST", 4, "50")
	f.addSales(fast, 60, 30)

	suggestions, err := f.svc.GetReorderSuggestions(ctx, f.orgID)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, fast, suggestions[0].ItemID)
	assert.Equal(t, slow, suggestions[1].ItemID)
}

func TestGetReorderSuggestions_FractionalVelocityRoundsUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 10 units over 30 days = 1/3 per day; target 14 days = 4.67 units,
	// ceil to 5, minus stock 1 = 4
	item := f.addItem("FRAC", 1, "50")
	f.addSales(item, 10, 30)

	suggestions, err := f.svc.GetReorderSuggestions(ctx, f.orgID)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, int64(4), suggestions[0].SuggestedQty)
}

func TestGetStockInsights(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	crit := f.addItem("CRIT", 4, "50")
	f.addSales(crit, 60, 30)

	dormantBig := f.addItem("DORM-BIG", 20, "100")
	dormantSmall := f.addItem("DORM-SMALL", 5, "40")

	// dormant with zero stock holds no capital; not reported
	f.addItem("DORM-EMPTY", 0, "100")

	over := f.addItem("OVER", 90, "10")
	f.addSales(over, 30, 30)

	insights, err := f.svc.GetStockInsights(ctx, f.orgID)
	require.NoError(t, err)

	assert.Equal(t, 1, insights.CriticalCount)
	assert.Equal(t, 30, insights.WindowDays)

	require.Len(t, insights.Dormant, 2)
	// sorted by locked capital descending
	assert.Equal(t, dormantBig, insights.Dormant[0].ItemID)
	assert.True(t, insights.Dormant[0].CapitalLocked.Equal(types.MustMoney("2000")))
	assert.Equal(t, dormantSmall, insights.Dormant[1].ItemID)
	assert.True(t, insights.DormantCapital.Equal(types.MustMoney("2200")))

	require.Len(t, insights.Overstocked, 1)
	assert.Equal(t, over, insights.Overstocked[0].ItemID)
	assert.True(t, insights.Overstocked[0].CapitalLocked.Equal(types.MustMoney("900")))
}
