// Package sales provides the point-of-sale recorder.
//
// A recorded Sale captures everything needed to regenerate its invoice:
// unit price, the buy price at the moment of sale, and the full tax split.
// Nothing on a Sale is re-derived from current catalog state afterwards;
// the bounded-window edit rescales the original per-unit figures instead
// of recomputing against today's rates.
package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
)

// PaymentMethod is how the customer settled the sale.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCard PaymentMethod = "card"
)

// Valid reports whether the method is one of the supported values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentUPI, PaymentCard:
		return true
	}
	return false
}

// IsOnline reports whether the method settles through a digital rail.
// Daily reports split takings into cash vs online on this.
func (m PaymentMethod) IsOnline() bool {
	return m == PaymentUPI || m == PaymentCard
}

// PaymentStatus tracks settlement. The only transition is pending to paid;
// it is monotonic and one-directional.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Sale is a persisted point-of-sale line.
// Invariants (within a paisa of rounding tolerance):
//   - TotalAmount == Quantity*SalePrice + GSTAmount
//   - Profit == Quantity*(SalePrice - BuyPrice)
//   - CGST + SGST + IGST == GSTAmount
type Sale struct {
	ID          id.ID  `db:"id" json:"id"`
	OrgID       id.ID  `db:"org_id" json:"orgId"`
	InventoryID id.ID  `db:"inventory_id" json:"inventoryId"`
	CustomerID  *id.ID `db:"customer_id" json:"customerId,omitempty"`
	InvoiceNo   string `db:"invoice_no" json:"invoiceNo"`

	Quantity int64 `db:"quantity" json:"quantity"`

	// SalePrice is the pre-tax unit price, stored at 4 decimal places.
	SalePrice types.Money `db:"sale_price" json:"salePrice"`
	// BuyPrice is the unit cost captured at sale time.
	BuyPrice types.Money `db:"buy_price" json:"buyPrice"`

	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
	GSTAmount   types.Money `db:"gst_amount" json:"gstAmount"`
	CGST        types.Money `db:"cgst" json:"cgst"`
	SGST        types.Money `db:"sgst" json:"sgst"`
	IGST        types.Money `db:"igst" json:"igst"`
	GSTRate     types.Money `db:"gst_rate" json:"gstRate"`
	Profit      types.Money `db:"profit" json:"profit"`

	SaleDate      time.Time     `db:"sale_date" json:"saleDate"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"paymentMethod"`
	PaymentStatus PaymentStatus `db:"payment_status" json:"paymentStatus"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// TaxableValue returns the pre-tax line amount.
func (s *Sale) TaxableValue() types.Money {
	return s.SalePrice.Mul(decimal.NewFromInt(s.Quantity))
}

// UnitCost returns the total cost of goods for the line.
func (s *Sale) UnitCost() types.Money {
	return s.BuyPrice.Mul(decimal.NewFromInt(s.Quantity))
}

// GroupedSale is the shape handed to the invoice renderer. The renderer is
// responsible purely for layout; every number on it is computed here.
type GroupedSale struct {
	ID            string        `json:"id"`
	SaleDate      time.Time     `json:"saleDate"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CustomerName  *string       `json:"customerName,omitempty"`
	CustomerPhone *string       `json:"customerPhone,omitempty"`
	Items         []Sale        `json:"items"`
}
