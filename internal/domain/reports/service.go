package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/ledger"
	"vyapari/pkg/logger"
)

// Service builds daily aggregates and GST extracts.
type Service struct {
	repo      Repository
	sales     SalesSource
	expenses  ExpenseSource
	customers CustomerSource
	orgs      OrgSource
}

// NewService creates a new reports service.
func NewService(
	repo Repository,
	salesSource SalesSource,
	expenseSource ExpenseSource,
	customers CustomerSource,
	orgs OrgSource,
) *Service {
	return &Service{
		repo:      repo,
		sales:     salesSource,
		expenses:  expenseSource,
		customers: customers,
		orgs:      orgs,
	}
}

// RebuildDailyReport folds all sales and expenses of one local calendar day
// into the aggregate row and upserts it. The day is resolved in the org's
// timezone so late-evening sales never leak into the wrong date. Rebuilding
// an already-built day overwrites it.
func (s *Service) RebuildDailyReport(ctx context.Context, orgID id.ID, date time.Time) (*DailyReport, error) {
	organization, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	loc, err := organization.Location()
	if err != nil {
		return nil, err
	}

	local := date.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	daySales, err := s.sales.ListByDateRange(ctx, orgID, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	expenseTotal, err := s.expenses.SumByDateRange(ctx, orgID, dayStart.UTC(), dayEnd.UTC())
	if err != nil {
		return nil, fmt.Errorf("sum expenses: %w", err)
	}

	report := &DailyReport{
		ID:             id.New(),
		OrgID:          orgID,
		ReportDate:     time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
		TotalSaleGross: types.Zero(),
		TotalCost:      types.Zero(),
		Expenses:       types.RoundMoney(expenseTotal),
		CashSale:       types.Zero(),
		OnlineSale:     types.Zero(),
		OnlineCost:     types.Zero(),
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}

	for i := range daySales {
		sale := &daySales[i]
		cost := sale.UnitCost()

		report.TotalSaleGross = report.TotalSaleGross.Add(sale.TotalAmount)
		report.TotalCost = report.TotalCost.Add(cost)
		if sale.PaymentMethod.IsOnline() {
			report.OnlineSale = report.OnlineSale.Add(sale.TotalAmount)
			report.OnlineCost = report.OnlineCost.Add(cost)
		} else {
			report.CashSale = report.CashSale.Add(sale.TotalAmount)
		}
	}

	if err := s.repo.Upsert(ctx, report); err != nil {
		return nil, fmt.Errorf("upsert daily report: %w", err)
	}

	logger.Info(ctx, "daily report rebuilt",
		"org_id", orgID,
		"report_date", report.ReportDate.Format("2006-01-02"),
		"gross", report.TotalSaleGross,
		"sales", len(daySales),
	)
	return report, nil
}

// GetDailyReport retrieves the aggregate for a day.
func (s *Service) GetDailyReport(ctx context.Context, orgID id.ID, date time.Time) (DailyReport, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return s.repo.GetByDate(ctx, orgID, day)
}

// ListDailyReports returns aggregates with report_date in [from, to).
func (s *Service) ListDailyReports(ctx context.Context, orgID id.ID, from, to time.Time) ([]DailyReport, error) {
	if !to.After(from) {
		return nil, apperror.NewValidation("date range end must be after start")
	}
	return s.repo.ListByDateRange(ctx, orgID, from, to)
}

// GetGstr1B2B extracts per-invoice tax totals for GSTIN-registered
// counterparties over [from, to). Sales without a counterparty GSTIN are
// B2C and excluded, which is not an error.
func (s *Service) GetGstr1B2B(ctx context.Context, orgID id.ID, from, to time.Time) ([]B2BInvoice, error) {
	if !to.After(from) {
		return nil, apperror.NewValidation("date range end must be after start")
	}
	periodSales, err := s.sales.ListByDateRange(ctx, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	customerCache := make(map[id.ID]*ledger.Customer)
	invoices := make(map[string]*B2BInvoice)

	for i := range periodSales {
		sale := &periodSales[i]
		if sale.CustomerID == nil {
			continue
		}

		customer, ok := customerCache[*sale.CustomerID]
		if !ok {
			c, err := s.customers.GetCustomer(ctx, orgID, *sale.CustomerID)
			if err != nil {
				if apperror.IsNotFound(err) {
					customerCache[*sale.CustomerID] = nil
					continue
				}
				return nil, err
			}
			customer = &c
			customerCache[*sale.CustomerID] = customer
		}
		if customer == nil || customer.GSTIN == nil || *customer.GSTIN == "" {
			continue
		}

		inv, ok := invoices[sale.InvoiceNo]
		if !ok {
			inv = &B2BInvoice{
				GSTIN:        *customer.GSTIN,
				CustomerName: customer.Name,
				InvoiceNo:    sale.InvoiceNo,
				InvoiceDate:  sale.SaleDate,
				TaxableValue: types.Zero(),
				CGST:         types.Zero(),
				SGST:         types.Zero(),
				IGST:         types.Zero(),
				Total:        types.Zero(),
			}
			invoices[sale.InvoiceNo] = inv
		}
		inv.TaxableValue = inv.TaxableValue.Add(sale.TaxableValue())
		inv.CGST = inv.CGST.Add(sale.CGST)
		inv.SGST = inv.SGST.Add(sale.SGST)
		inv.IGST = inv.IGST.Add(sale.IGST)
		inv.Total = inv.Total.Add(sale.TotalAmount)
	}

	out := make([]B2BInvoice, 0, len(invoices))
	for _, inv := range invoices {
		// Line taxable values carry unit-rate precision; report figures
		// round once here.
		inv.TaxableValue = types.RoundMoney(inv.TaxableValue)
		out = append(out, *inv)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].GSTIN != out[j].GSTIN {
			return out[i].GSTIN < out[j].GSTIN
		}
		return out[i].InvoiceNo < out[j].InvoiceNo
	})
	return out, nil
}

// GetGstr3BStats folds period tax totals for the GSTR-3B summary. All sales
// count here, B2B and B2C alike.
func (s *Service) GetGstr3BStats(ctx context.Context, orgID id.ID, from, to time.Time) (*Gstr3BStats, error) {
	if !to.After(from) {
		return nil, apperror.NewValidation("date range end must be after start")
	}
	periodSales, err := s.sales.ListByDateRange(ctx, orgID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	stats := &Gstr3BStats{
		TotalTaxable: types.Zero(),
		TotalTax:     types.Zero(),
		CGST:         types.Zero(),
		SGST:         types.Zero(),
		IGST:         types.Zero(),
	}
	seen := make(map[string]struct{})
	for i := range periodSales {
		sale := &periodSales[i]
		stats.TotalTaxable = stats.TotalTaxable.Add(sale.TaxableValue())
		stats.TotalTax = stats.TotalTax.Add(sale.GSTAmount)
		stats.CGST = stats.CGST.Add(sale.CGST)
		stats.SGST = stats.SGST.Add(sale.SGST)
		stats.IGST = stats.IGST.Add(sale.IGST)
		if _, ok := seen[sale.InvoiceNo]; !ok {
			seen[sale.InvoiceNo] = struct{}{}
			stats.InvoiceCount++
		}
	}
	stats.TotalTaxable = types.RoundMoney(stats.TotalTaxable)
	return stats, nil
}
