package dto

import (
	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/sales"
)

// RecordSaleRequest is a POS entry.
type RecordSaleRequest struct {
	InventoryID   string       `json:"inventoryId" binding:"required,uuid"`
	Quantity      int64        `json:"quantity" binding:"required,min=1"`
	UnitPrice     *types.Money `json:"unitPrice,omitempty"`
	PaymentMethod string       `json:"paymentMethod" binding:"required,oneof=cash upi card"`
	PaymentStatus string       `json:"paymentStatus" binding:"omitempty,oneof=pending paid"`
	CustomerID    *string      `json:"customerId,omitempty" binding:"omitempty,uuid"`
}

// ToInput converts to the domain input.
func (r *RecordSaleRequest) ToInput() (sales.RecordSaleInput, error) {
	itemID, err := id.Parse(r.InventoryID)
	if err != nil {
		return sales.RecordSaleInput{}, apperror.NewValidation("invalid inventory id").
			WithDetail("inventoryId", r.InventoryID)
	}

	in := sales.RecordSaleInput{
		InventoryID:   itemID,
		Quantity:      r.Quantity,
		UnitPrice:     r.UnitPrice,
		PaymentMethod: sales.PaymentMethod(r.PaymentMethod),
		PaymentStatus: sales.PaymentStatus(r.PaymentStatus),
	}
	if r.CustomerID != nil {
		customerID, err := id.Parse(*r.CustomerID)
		if err != nil {
			return sales.RecordSaleInput{}, apperror.NewValidation("invalid customer id").
				WithDetail("customerId", *r.CustomerID)
		}
		in.CustomerID = &customerID
	}
	return in, nil
}

// UpdateSaleQuantityRequest corrects a sale within the edit window.
type UpdateSaleQuantityRequest struct {
	Quantity int64 `json:"quantity" binding:"required,min=1"`
}
