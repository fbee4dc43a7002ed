package sales

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/inventory"
	"vyapari/internal/domain/ledger"
	"vyapari/internal/domain/tax"
)

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeItemRepo guards stock with a mutex so the concurrent-sale test
// exercises the same conditional-decrement semantics as the SQL update.
type fakeItemRepo struct {
	mu    sync.Mutex
	items map[id.ID]*inventory.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[id.ID]*inventory.Item)}
}

func (r *fakeItemRepo) Create(_ context.Context, item *inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetByID(_ context.Context, orgID, itemID id.ID) (inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.OrgID != orgID {
		return inventory.Item{}, apperror.NewNotFound("item", itemID)
	}
	return *item, nil
}

func (r *fakeItemRepo) GetBySKU(_ context.Context, orgID id.ID, sku string) (inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.OrgID == orgID && item.SKU == sku {
			return *item, nil
		}
	}
	return inventory.Item{}, apperror.NewNotFound("item", sku)
}

func (r *fakeItemRepo) Update(_ context.Context, item *inventory.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) List(_ context.Context, orgID id.ID, _ inventory.Filter) ([]inventory.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []inventory.Item
	for _, item := range r.items {
		if item.OrgID == orgID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) AdjustStock(_ context.Context, orgID, itemID id.ID, delta int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[itemID]
	if !ok || item.OrgID != orgID {
		return 0, apperror.NewNotFound("item", itemID)
	}
	if item.Stock+delta < 0 {
		return 0, apperror.NewInsufficientStock(itemID.String(), -delta, item.Stock)
	}
	item.Stock += delta
	return item.Stock, nil
}

type fakeSaleRepo struct {
	mu    sync.Mutex
	sales map[id.ID]*Sale
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{sales: make(map[id.ID]*Sale)}
}

func (r *fakeSaleRepo) Create(_ context.Context, sale *Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sale
	r.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) GetByID(_ context.Context, orgID, saleID id.ID) (Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sale, ok := r.sales[saleID]
	if !ok || sale.OrgID != orgID {
		return Sale{}, apperror.NewNotFound("sale", saleID)
	}
	return *sale, nil
}

func (r *fakeSaleRepo) Update(_ context.Context, sale *Sale) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *sale
	r.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) ListByInvoice(_ context.Context, orgID id.ID, invoiceNo string) ([]Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Sale
	for _, sale := range r.sales {
		if sale.OrgID == orgID && sale.InvoiceNo == invoiceNo {
			out = append(out, *sale)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) ListByDateRange(_ context.Context, orgID id.ID, from, to time.Time) ([]Sale, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Sale
	for _, sale := range r.sales {
		if sale.OrgID == orgID && !sale.SaleDate.Before(from) && sale.SaleDate.Before(to) {
			out = append(out, *sale)
		}
	}
	return out, nil
}

type fakeNumberer struct {
	mu sync.Mutex
	n  int
}

func (f *fakeNumberer) NextInvoiceNumber(_ context.Context, _ id.ID, at time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return fmt.Sprintf("INV-%d-%05d", at.Year(), f.n), nil
}

type fakeCustomers struct {
	customers map[id.ID]ledger.Customer
}

func (f *fakeCustomers) GetCustomer(_ context.Context, orgID, customerID id.ID) (ledger.Customer, error) {
	c, ok := f.customers[customerID]
	if !ok || c.OrgID != orgID {
		return ledger.Customer{}, apperror.NewNotFound("customer", customerID)
	}
	return c, nil
}

// --- helpers ---

func ptrMoney(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

func newTestService(t *testing.T) (*Service, *fakeItemRepo, *fakeSaleRepo, *fakeCustomers, id.ID) {
	t.Helper()
	items := newFakeItemRepo()
	salesRepo := newFakeSaleRepo()
	customers := &fakeCustomers{customers: make(map[id.ID]ledger.Customer)}
	svc := NewService(salesRepo, items, customers, &fakeNumberer{}, fakeTxManager{}, DefaultConfig())
	return svc, items, salesRepo, customers, id.New()
}

func seedItem(t *testing.T, items *fakeItemRepo, orgID id.ID, stock int64) *inventory.Item {
	t.Helper()
	item := inventory.NewItem(orgID, "SKU-001", "Toilet Soap 100g", types.MustMoney("70"))
	item.SellPrice = ptrMoney("100")
	item.GSTPercent = ptrMoney("18")
	item.Stock = stock
	require.NoError(t, items.Create(context.Background(), item))
	return item
}

func exclusiveIntra() tax.Config {
	return tax.Config{Mode: tax.ModeExclusive, Jurisdiction: tax.JurisdictionIntra}
}

// --- tests ---

func TestRecordSale_ExclusiveComputation(t *testing.T) {
	svc, items, _, _, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 10)
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, orgID, RecordSaleInput{
		InventoryID:   item.ID,
		Quantity:      2,
		PaymentMethod: PaymentCash,
	}, exclusiveIntra())
	require.NoError(t, err)

	// 18% exclusive on 2 x 100: taxable 200, gst 36, total 236
	assert.True(t, sale.TaxableValue().Equal(types.MustMoney("200")), "taxable = %s", sale.TaxableValue())
	assert.True(t, sale.GSTAmount.Equal(types.MustMoney("36")), "gst = %s", sale.GSTAmount)
	assert.True(t, sale.TotalAmount.Equal(types.MustMoney("236")), "total = %s", sale.TotalAmount)
	// profit = 2 * (100 - 70)
	assert.True(t, sale.Profit.Equal(types.MustMoney("60")), "profit = %s", sale.Profit)
	assert.Equal(t, PaymentPaid, sale.PaymentStatus)
	assert.NotEmpty(t, sale.InvoiceNo)

	got, err := items.GetByID(ctx, orgID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.Stock)
}

func TestRecordSale_InclusiveMode(t *testing.T) {
	svc, items, _, _, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 10)
	ctx := context.Background()

	// gross 118 per unit, inclusive of 18%
	sale, err := svc.RecordSale(ctx, orgID, RecordSaleInput{
		InventoryID:   item.ID,
		Quantity:      1,
		UnitPrice:     ptrMoney("118"),
		PaymentMethod: PaymentUPI,
	}, tax.Config{Mode: tax.ModeInclusive, Jurisdiction: tax.JurisdictionIntra})
	require.NoError(t, err)

	assert.True(t, sale.SalePrice.Equal(types.MustMoney("100.00")), "pre-tax unit = %s", sale.SalePrice)
	assert.True(t, sale.GSTAmount.Equal(types.MustMoney("18.00")))
	assert.True(t, sale.TotalAmount.Equal(types.MustMoney("118")))
}

func TestRecordSale_InclusiveTotalReconciles(t *testing.T) {
	svc, items, _, _, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 10)
	ctx := context.Background()

	// gross 100 per unit inclusive of 18%: the pre-tax unit rate is a
	// repeating fraction, so the stored rate needs enough precision for
	// qty*rate + gst to land within a paisa of the charged total
	sale, err := svc.RecordSale(ctx, orgID, RecordSaleInput{
		InventoryID:   item.ID,
		Quantity:      7,
		PaymentMethod: PaymentCash,
	}, tax.Config{Mode: tax.ModeInclusive, Jurisdiction: tax.JurisdictionIntra})
	require.NoError(t, err)

	assert.True(t, sale.TotalAmount.Equal(types.MustMoney("700")), "total = %s", sale.TotalAmount)

	rebuilt := sale.TaxableValue().Add(sale.GSTAmount)
	drift := sale.TotalAmount.Sub(rebuilt).Abs()
	assert.True(t, drift.LessThanOrEqual(types.MustMoney("0.01")),
		"total %s vs qty*rate+gst %s, drift %s", sale.TotalAmount, rebuilt, drift)
}

func TestRecordSale_InsufficientStock(t *testing.T) {
	svc, items, salesRepo, _, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 5)
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, orgID, RecordSaleInput{
		InventoryID:   item.ID,
		Quantity:      6,
		PaymentMethod: PaymentCash,
	}, exclusiveIntra())

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)

	// all or nothing: no sale row, no stock change
	assert.Empty(t, salesRepo.sales)
	got, _ := items.GetByID(ctx, orgID, item.ID)
	assert.Equal(t, int64(5), got.Stock)
}

func TestRecordSale_InvalidQuantity(t *testing.T) {
	svc, items, _, _, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 5)

	for _, qty := range []int64{0, -1} {
		_, err := svc.RecordSale(context.Background(), orgID, RecordSaleInput{
			InventoryID:   item.ID,
			Quantity:      qty,
			PaymentMethod: PaymentCash,
		}, exclusiveIntra())
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidQuantity, appErr.Code)
	}
}

func TestRecordSale_ConcurrentRace(t *testing.T) {
	svc, items, _, _, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 5)
	ctx := context.Background()

	// two concurrent sales of 3 against stock 5: exactly one wins
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.RecordSale(ctx, orgID, RecordSaleInput{
				InventoryID:   item.ID,
				Quantity:      3,
				PaymentMethod: PaymentCash,
			}, exclusiveIntra())
		}(i)
	}
	wg.Wait()

	var ok, failed int
	for _, err := range errs {
		if err == nil {
			ok++
		} else if apperror.IsInsufficientStock(err) {
			failed++
		}
	}
	assert.Equal(t, 1, ok, "exactly one sale succeeds")
	assert.Equal(t, 1, failed, "the loser fails with InsufficientStock")

	got, _ := items.GetByID(ctx, orgID, item.ID)
	assert.Equal(t, int64(2), got.Stock)
}

func TestUpdateSaleQuantity_ScalesOriginalRates(t *testing.T) {
	svc, items, _, _, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 10)
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, orgID, RecordSaleInput{
		InventoryID:   item.ID,
		Quantity:      2,
		PaymentMethod: PaymentCash,
	}, exclusiveIntra())
	require.NoError(t, err)

	updated, err := svc.UpdateSaleQuantity(ctx, orgID, sale.ID, 3)
	require.NoError(t, err)

	// scaled from original per-unit figures: gst 18/unit, profit 30/unit
	assert.Equal(t, int64(3), updated.Quantity)
	assert.True(t, updated.GSTAmount.Equal(types.MustMoney("54")), "gst = %s", updated.GSTAmount)
	assert.True(t, updated.Profit.Equal(types.MustMoney("90")), "profit = %s", updated.Profit)
	assert.True(t, updated.TotalAmount.Equal(types.MustMoney("354")), "total = %s", updated.TotalAmount)
	assert.True(t, updated.CGST.Add(updated.SGST).Add(updated.IGST).Equal(updated.GSTAmount))

	// one extra unit left the shelf
	got, _ := items.GetByID(ctx, orgID, item.ID)
	assert.Equal(t, int64(7), got.Stock)
}

func TestUpdateSaleQuantity_ShrinkReturnsStock(t *testing.T) {
	svc, items, _, _, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 10)
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, orgID, RecordSaleInput{
		InventoryID:   item.ID,
		Quantity:      4,
		PaymentMethod: PaymentCash,
	}, exclusiveIntra())
	require.NoError(t, err)

	_, err = svc.UpdateSaleQuantity(ctx, orgID, sale.ID, 1)
	require.NoError(t, err)

	got, _ := items.GetByID(ctx, orgID, item.ID)
	assert.Equal(t, int64(9), got.Stock)
}

func TestUpdateSaleQuantity_WindowExpired(t *testing.T) {
	svc, items, salesRepo, _, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 10)
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, orgID, RecordSaleInput{
		InventoryID:   item.ID,
		Quantity:      2,
		PaymentMethod: PaymentCash,
	}, exclusiveIntra())
	require.NoError(t, err)

	// age the sale past the window
	aged := *sale
	aged.SaleDate = time.Now().UTC().Add(-10 * time.Minute)
	require.NoError(t, salesRepo.Update(ctx, &aged))

	_, err = svc.UpdateSaleQuantity(ctx, orgID, sale.ID, 3)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeEditWindowExpired, appErr.Code)
}

func TestMarkPaid_Monotonic(t *testing.T) {
	svc, items, _, _, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 10)
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, orgID, RecordSaleInput{
		InventoryID:   item.ID,
		Quantity:      1,
		PaymentMethod: PaymentCash,
		PaymentStatus: PaymentPending,
	}, exclusiveIntra())
	require.NoError(t, err)
	assert.Equal(t, PaymentPending, sale.PaymentStatus)

	updated, err := svc.MarkPaid(ctx, orgID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, updated.PaymentStatus)

	// idempotent on repeat
	updated, err = svc.MarkPaid(ctx, orgID, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, PaymentPaid, updated.PaymentStatus)
}

func TestGetGroupedSale(t *testing.T) {
	svc, items, _, customers, orgID := newTestService(t)
	item := seedItem(t, items, orgID, 10)
	ctx := context.Background()

	phone := "9876543210"
	customer := ledger.Customer{ID: id.New(), OrgID: orgID, Name: "Sunita Devi", Phone: &phone}
	customers.customers[customer.ID] = customer

	sale, err := svc.RecordSale(ctx, orgID, RecordSaleInput{
		InventoryID:   item.ID,
		Quantity:      2,
		PaymentMethod: PaymentCash,
		CustomerID:    &customer.ID,
	}, exclusiveIntra())
	require.NoError(t, err)

	grouped, err := svc.GetGroupedSale(ctx, orgID, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, sale.InvoiceNo, grouped.ID)
	require.Len(t, grouped.Items, 1)
	require.NotNil(t, grouped.CustomerName)
	assert.Equal(t, "Sunita Devi", *grouped.CustomerName)
	require.NotNil(t, grouped.CustomerPhone)
	assert.Equal(t, phone, *grouped.CustomerPhone)
}
