// Package reports folds sales and expenses into daily aggregates and
// statutory GST return extracts.
//
// A daily report is a materialized fold over one local calendar day in the
// organization's timezone. Rebuilding is an upsert keyed by (org, date):
// recomputing a day overwrites the previous row and never double-counts.
package reports

import (
	"time"

	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
)

// DailyReport is the per-day aggregate row.
type DailyReport struct {
	ID    id.ID `db:"id" json:"id"`
	OrgID id.ID `db:"org_id" json:"orgId"`

	// ReportDate is the local calendar day, stored at midnight UTC.
	ReportDate time.Time `db:"report_date" json:"reportDate"`

	// TotalSaleGross is the tax-inclusive takings for the day.
	TotalSaleGross types.Money `db:"total_sale_gross" json:"totalSaleGross"`
	// TotalCost is the cost of goods sold, at the buy prices captured on
	// each sale.
	TotalCost types.Money `db:"total_cost" json:"totalCost"`
	// Expenses is the operating expense total for the day.
	Expenses types.Money `db:"expenses" json:"expenses"`

	// CashSale and OnlineSale split the gross by settlement rail.
	CashSale   types.Money `db:"cash_sale" json:"cashSale"`
	OnlineSale types.Money `db:"online_sale" json:"onlineSale"`
	// OnlineCost is the cost of goods behind the online share.
	OnlineCost types.Money `db:"online_cost" json:"onlineCost"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// GrossProfit returns takings minus cost of goods, before expenses.
func (r *DailyReport) GrossProfit() types.Money {
	return r.TotalSaleGross.Sub(r.TotalCost)
}

// NetProfit returns gross profit minus the day's expenses.
func (r *DailyReport) NetProfit() types.Money {
	return r.GrossProfit().Sub(r.Expenses)
}

// B2BInvoice is one GSTR-1 B2B extract line: per-invoice tax totals for a
// GSTIN-registered counterparty. Sales without a counterparty GSTIN are B2C
// and excluded by definition.
type B2BInvoice struct {
	GSTIN        string      `json:"gstin"`
	CustomerName string      `json:"customerName"`
	InvoiceNo    string      `json:"invoiceNo"`
	InvoiceDate  time.Time   `json:"invoiceDate"`
	TaxableValue types.Money `json:"taxableValue"`
	CGST         types.Money `json:"cgst"`
	SGST         types.Money `json:"sgst"`
	IGST         types.Money `json:"igst"`
	Total        types.Money `json:"total"`
}

// Gstr3BStats is the GSTR-3B summary over a period.
type Gstr3BStats struct {
	TotalTaxable types.Money `json:"totalTaxable"`
	TotalTax     types.Money `json:"totalTax"`
	CGST         types.Money `json:"cgst"`
	SGST         types.Money `json:"sgst"`
	IGST         types.Money `json:"igst"`
	InvoiceCount int         `json:"invoiceCount"`
}
