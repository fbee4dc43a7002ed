package reports

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/expenses"
	"vyapari/internal/domain/ledger"
	"vyapari/internal/domain/org"
	"vyapari/internal/domain/sales"
	"vyapari/internal/domain/tax"
)

type reportKey struct {
	orgID id.ID
	date  time.Time
}

type fakeReportRepo struct {
	rows map[reportKey]*DailyReport
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{rows: make(map[reportKey]*DailyReport)}
}

func (r *fakeReportRepo) Upsert(_ context.Context, report *DailyReport) error {
	key := reportKey{orgID: report.OrgID, date: report.ReportDate}
	if existing, ok := r.rows[key]; ok {
		report.ID = existing.ID
		report.CreatedAt = existing.CreatedAt
	}
	cp := *report
	r.rows[key] = &cp
	return nil
}

func (r *fakeReportRepo) GetByDate(_ context.Context, orgID id.ID, reportDate time.Time) (DailyReport, error) {
	if report, ok := r.rows[reportKey{orgID: orgID, date: reportDate}]; ok {
		return *report, nil
	}
	return DailyReport{}, apperror.NewNotFound("daily report", reportDate.Format("2006-01-02"))
}

func (r *fakeReportRepo) ListByDateRange(_ context.Context, orgID id.ID, from, to time.Time) ([]DailyReport, error) {
	var out []DailyReport
	for key, report := range r.rows {
		if key.orgID == orgID && !key.date.Before(from) && key.date.Before(to) {
			out = append(out, *report)
		}
	}
	return out, nil
}

type fakeSaleSource struct {
	sales []sales.Sale
}

func (f *fakeSaleSource) ListByDateRange(_ context.Context, orgID id.ID, from, to time.Time) ([]sales.Sale, error) {
	var out []sales.Sale
	for _, sale := range f.sales {
		if sale.OrgID == orgID && !sale.SaleDate.Before(from) && sale.SaleDate.Before(to) {
			out = append(out, sale)
		}
	}
	return out, nil
}

type fakeExpenseSource struct {
	expenses []expenses.Expense
}

func (f *fakeExpenseSource) SumByDateRange(_ context.Context, orgID id.ID, from, to time.Time) (types.Money, error) {
	sum := types.Zero()
	for _, e := range f.expenses {
		if e.OrgID == orgID && !e.ExpenseDate.Before(from) && e.ExpenseDate.Before(to) {
			sum = sum.Add(e.Amount)
		}
	}
	return sum, nil
}

type fakeCustomerSource struct {
	customers map[id.ID]ledger.Customer
}

func (f *fakeCustomerSource) GetCustomer(_ context.Context, orgID, customerID id.ID) (ledger.Customer, error) {
	c, ok := f.customers[customerID]
	if !ok || c.OrgID != orgID {
		return ledger.Customer{}, apperror.NewNotFound("customer", customerID)
	}
	return c, nil
}

type fakeOrgSource struct {
	orgs map[id.ID]org.Organization
}

func (f *fakeOrgSource) GetByID(_ context.Context, orgID id.ID) (org.Organization, error) {
	o, ok := f.orgs[orgID]
	if !ok {
		return org.Organization{}, apperror.NewNotFound("organization", orgID)
	}
	return o, nil
}

type reportFixture struct {
	svc       *Service
	repo      *fakeReportRepo
	sales     *fakeSaleSource
	expenses  *fakeExpenseSource
	customers *fakeCustomerSource
	orgID     id.ID
}

func newReportFixture(t *testing.T) *reportFixture {
	t.Helper()
	f := &reportFixture{
		repo:      newFakeReportRepo(),
		sales:     &fakeSaleSource{},
		expenses:  &fakeExpenseSource{},
		customers: &fakeCustomerSource{customers: make(map[id.ID]ledger.Customer)},
		orgID:     id.New(),
	}
	orgs := &fakeOrgSource{orgs: map[id.ID]org.Organization{
		f.orgID: {
			ID:              f.orgID,
			Name:            "Sharma General Store",
			TaxMode:         tax.ModeExclusive,
			TaxJurisdiction: tax.JurisdictionIntra,
			Timezone:        "Asia/Kolkata",
		},
	}}
	f.svc = NewService(f.repo, f.sales, f.expenses, f.customers, orgs)
	return f
}

func (f *reportFixture) addSale(at time.Time, method sales.PaymentMethod, qty int64, unit, buy, gst string, customerID *id.ID, invoiceNo string) {
	unitPrice := types.MustMoney(unit)
	gstAmount := types.MustMoney(gst)
	half := types.RoundMoney(gstAmount.Div(types.MustMoney("2")))
	f.sales.sales = append(f.sales.sales, sales.Sale{
		ID:            id.New(),
		OrgID:         f.orgID,
		InventoryID:   id.New(),
		CustomerID:    customerID,
		InvoiceNo:     invoiceNo,
		Quantity:      qty,
		SalePrice:     unitPrice,
		BuyPrice:      types.MustMoney(buy),
		TotalAmount:   unitPrice.Mul(decimal.NewFromInt(qty)).Add(gstAmount),
		GSTAmount:     gstAmount,
		CGST:          half,
		SGST:          gstAmount.Sub(half),
		SaleDate:      at,
		PaymentMethod: method,
		PaymentStatus: sales.PaymentPaid,
	})
}

func TestRebuildDailyReport_FoldsDayInOrgTimezone(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	// 2026-03-10 in IST runs 04:30 UTC on the 9th to 18:30 UTC on the 10th
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, ist)

	// cash sale inside the day: 2 x 100 + 36 gst, cost 2 x 70
	f.addSale(day.Add(10*time.Hour), sales.PaymentCash, 2, "100", "70", "36", nil, "INV-2026-00001")
	// online sale late evening IST, which is afternoon UTC of the same local day
	f.addSale(day.Add(23*time.Hour), sales.PaymentUPI, 1, "100", "70", "18", nil, "INV-2026-00002")
	// sale on the next local day must not leak in
	f.addSale(day.AddDate(0, 0, 1).Add(time.Hour), sales.PaymentCash, 1, "100", "70", "18", nil, "INV-2026-00003")

	f.expenses.expenses = append(f.expenses.expenses, expenses.Expense{
		OrgID:       f.orgID,
		Amount:      types.MustMoney("150"),
		ExpenseDate: day.Add(12 * time.Hour),
	})

	report, err := f.svc.RebuildDailyReport(ctx, f.orgID, day.Add(10*time.Hour))
	require.NoError(t, err)

	assert.True(t, report.TotalSaleGross.Equal(types.MustMoney("354")), "gross = %s", report.TotalSaleGross)
	assert.True(t, report.TotalCost.Equal(types.MustMoney("210")), "cost = %s", report.TotalCost)
	assert.True(t, report.Expenses.Equal(types.MustMoney("150.00")))
	assert.True(t, report.CashSale.Equal(types.MustMoney("236")))
	assert.True(t, report.OnlineSale.Equal(types.MustMoney("118")))
	assert.True(t, report.OnlineCost.Equal(types.MustMoney("70")))
	assert.True(t, report.NetProfit().Equal(types.MustMoney("-6")), "net = %s", report.NetProfit())
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), report.ReportDate)
}

func TestRebuildDailyReport_Idempotent(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	ist, _ := time.LoadLocation("Asia/Kolkata")
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, ist)
	f.addSale(day.Add(10*time.Hour), sales.PaymentCash, 2, "100", "70", "36", nil, "INV-2026-00001")

	first, err := f.svc.RebuildDailyReport(ctx, f.orgID, day)
	require.NoError(t, err)
	second, err := f.svc.RebuildDailyReport(ctx, f.orgID, day)
	require.NoError(t, err)

	// same row identity, same numbers, no double counting
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.True(t, first.TotalSaleGross.Equal(second.TotalSaleGross))
	assert.Len(t, f.repo.rows, 1)
}

func TestGetGstr1B2B(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	gstin := "27AAPFU0939F1ZV"
	registered := ledger.Customer{ID: id.New(), OrgID: f.orgID, Name: "Uma Traders", GSTIN: &gstin}
	f.customers.customers[registered.ID] = registered
	walkIn := ledger.Customer{ID: id.New(), OrgID: f.orgID, Name: "Walk In"}
	f.customers.customers[walkIn.ID] = walkIn

	at := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	// two lines on one invoice for the registered customer
	f.addSale(at, sales.PaymentCash, 2, "100", "70", "36", &registered.ID, "INV-2026-00001")
	f.addSale(at, sales.PaymentCash, 1, "50", "30", "9", &registered.ID, "INV-2026-00001")
	// customer without GSTIN is B2C, excluded
	f.addSale(at, sales.PaymentCash, 1, "100", "70", "18", &walkIn.ID, "INV-2026-00002")
	// anonymous sale, excluded
	f.addSale(at, sales.PaymentCash, 1, "100", "70", "18", nil, "INV-2026-00003")

	invoices, err := f.svc.GetGstr1B2B(ctx, f.orgID, at.AddDate(0, 0, -1), at.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, invoices, 1)

	inv := invoices[0]
	assert.Equal(t, gstin, inv.GSTIN)
	assert.Equal(t, "INV-2026-00001", inv.InvoiceNo)
	assert.True(t, inv.TaxableValue.Equal(types.MustMoney("250")), "taxable = %s", inv.TaxableValue)
	assert.True(t, inv.CGST.Add(inv.SGST).Equal(types.MustMoney("45")))
	assert.True(t, inv.Total.Equal(types.MustMoney("295")))
}

func TestGetGstr3BStats(t *testing.T) {
	f := newReportFixture(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	f.addSale(at, sales.PaymentCash, 2, "100", "70", "36", nil, "INV-2026-00001")
	f.addSale(at, sales.PaymentUPI, 1, "50", "30", "9", nil, "INV-2026-00001")
	f.addSale(at, sales.PaymentCash, 1, "100", "70", "18", nil, "INV-2026-00002")

	stats, err := f.svc.GetGstr3BStats(ctx, f.orgID, at.AddDate(0, 0, -1), at.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.True(t, stats.TotalTaxable.Equal(types.MustMoney("350")), "taxable = %s", stats.TotalTaxable)
	assert.True(t, stats.TotalTax.Equal(types.MustMoney("63")), "tax = %s", stats.TotalTax)
	assert.True(t, stats.CGST.Add(stats.SGST).Equal(stats.TotalTax))
	assert.Equal(t, 2, stats.InvoiceCount)
}

func TestGetDailyReport_NotFound(t *testing.T) {
	f := newReportFixture(t)
	_, err := f.svc.GetDailyReport(context.Background(), f.orgID, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.True(t, apperror.IsNotFound(err))
}
