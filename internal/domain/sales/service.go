package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/tx"
	"vyapari/internal/core/types"
	"vyapari/internal/domain/inventory"
	"vyapari/internal/domain/tax"
	"vyapari/pkg/logger"
)

// Config holds sales policy settings.
type Config struct {
	// EditWindow bounds how long after recording a sale its quantity may be
	// corrected. Outside the window the invoice is frozen.
	EditWindow time.Duration
}

// DefaultConfig returns the standard five-minute correction window.
func DefaultConfig() Config {
	return Config{EditWindow: 5 * time.Minute}
}

// Service records point-of-sale entries. The stock decrement and the sale
// insert always commit together; a rejected operation leaves both untouched.
type Service struct {
	repo      Repository
	items     inventory.Repository
	customers CustomerLookup
	numberer  InvoiceNumberer
	txManager tx.Manager
	cfg       Config
}

// NewService creates a new sales service.
func NewService(
	repo Repository,
	items inventory.Repository,
	customers CustomerLookup,
	numberer InvoiceNumberer,
	txManager tx.Manager,
	cfg Config,
) *Service {
	if cfg.EditWindow <= 0 {
		cfg.EditWindow = DefaultConfig().EditWindow
	}
	return &Service{
		repo:      repo,
		items:     items,
		customers: customers,
		numberer:  numberer,
		txManager: txManager,
		cfg:       cfg,
	}
}

// RecordSaleInput is a POS entry.
type RecordSaleInput struct {
	InventoryID   id.ID
	Quantity      int64
	UnitPrice     *types.Money // overrides the item's sell price when set
	PaymentMethod PaymentMethod
	PaymentStatus PaymentStatus // defaults to paid
	CustomerID    *id.ID
}

// RecordSale converts a POS entry into a persisted Sale.
//
// The item lookup, the conditional stock decrement, the invoice number
// allocation and the sale insert run in one transaction. Losing the stock
// race to a concurrent sale surfaces as InsufficientStock with no partial
// state change.
func (s *Service) RecordSale(ctx context.Context, orgID id.ID, in RecordSaleInput, taxCfg tax.Config) (*Sale, error) {
	if in.Quantity <= 0 {
		return nil, apperror.NewInvalidQuantity(in.Quantity)
	}
	if !in.PaymentMethod.Valid() {
		return nil, apperror.NewValidation("unknown payment method").
			WithDetail("payment_method", string(in.PaymentMethod))
	}
	status := in.PaymentStatus
	if status == "" {
		status = PaymentPaid
	}

	var sale *Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		item, err := s.items.GetByID(ctx, orgID, in.InventoryID)
		if err != nil {
			return err
		}

		unitPrice, err := resolveUnitPrice(&item, in.UnitPrice)
		if err != nil {
			return err
		}
		rate, err := item.ResolveRate()
		if err != nil {
			return err
		}

		// Conditional decrement: fails atomically when a concurrent sale
		// already took the stock.
		if _, err := s.items.AdjustStock(ctx, orgID, item.ID, -in.Quantity); err != nil {
			return err
		}

		qty := decimal.NewFromInt(in.Quantity)
		breakup, err := tax.Compute(unitPrice.Mul(qty), rate, taxCfg)
		if err != nil {
			return err
		}

		// Pre-tax unit price: equals the input in exclusive mode, carved
		// out of the gross in inclusive mode. Kept at rate precision so
		// qty * rate + gst stays within a paisa of the charged total.
		preTaxUnit := types.RoundUnitPrice(breakup.TaxableValue.Div(qty))
		profit := types.RoundMoney(breakup.TaxableValue.Sub(item.BuyPrice.Mul(qty)))

		invoiceNo, err := s.numberer.NextInvoiceNumber(ctx, orgID, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("allocate invoice number: %w", err)
		}

		sale = &Sale{
			ID:            id.New(),
			OrgID:         orgID,
			InventoryID:   item.ID,
			CustomerID:    in.CustomerID,
			InvoiceNo:     invoiceNo,
			Quantity:      in.Quantity,
			SalePrice:     preTaxUnit,
			BuyPrice:      item.BuyPrice,
			TotalAmount:   breakup.Total,
			GSTAmount:     breakup.TaxAmount,
			CGST:          breakup.CGST,
			SGST:          breakup.SGST,
			IGST:          breakup.IGST,
			GSTRate:       breakup.RatePercent,
			Profit:        profit,
			SaleDate:      time.Now().UTC(),
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: status,
			CreatedAt:     time.Now().UTC(),
		}

		if err := s.repo.Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale recorded",
		"sale_id", sale.ID,
		"invoice_no", sale.InvoiceNo,
		"item_id", sale.InventoryID,
		"quantity", sale.Quantity,
		"total", sale.TotalAmount,
	)
	return sale, nil
}

// UpdateSaleQuantity corrects a sale's quantity within the edit window.
//
// The new totals are scaled from the sale's original per-unit tax and
// profit, never recomputed from current rates: the effective tax rate on an
// already-shared invoice must not change retroactively. Stock moves by the
// quantity delta under the same conditional guard as recording.
func (s *Service) UpdateSaleQuantity(ctx context.Context, orgID, saleID id.ID, newQuantity int64) (*Sale, error) {
	if newQuantity <= 0 {
		return nil, apperror.NewInvalidQuantity(newQuantity)
	}

	var updated Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.repo.GetByID(ctx, orgID, saleID)
		if err != nil {
			return err
		}

		if time.Since(sale.SaleDate) > s.cfg.EditWindow {
			return apperror.NewEditWindowExpired("sale", saleID).
				WithDetail("window", s.cfg.EditWindow.String())
		}
		if newQuantity == sale.Quantity {
			updated = sale
			return nil
		}

		// Return or take the difference in stock.
		delta := newQuantity - sale.Quantity
		if _, err := s.items.AdjustStock(ctx, orgID, sale.InventoryID, -delta); err != nil {
			return err
		}

		oldQty := decimal.NewFromInt(sale.Quantity)
		newQty := decimal.NewFromInt(newQuantity)

		// Scale by original per-unit figures; round once per derived field.
		scale := func(v types.Money) types.Money {
			return types.RoundMoney(v.Div(oldQty).Mul(newQty))
		}
		sale.GSTAmount = scale(sale.GSTAmount)
		sale.Profit = scale(sale.Profit)
		sale.CGST = scale(sale.CGST)
		sale.IGST = scale(sale.IGST)
		// SGST absorbs the split rounding so the components keep summing to
		// the tax amount.
		sale.SGST = sale.GSTAmount.Sub(sale.CGST).Sub(sale.IGST)
		sale.Quantity = newQuantity
		sale.TotalAmount = types.RoundMoney(sale.SalePrice.Mul(newQty).Add(sale.GSTAmount))

		if err := s.repo.Update(ctx, &sale); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "sale quantity updated",
		"sale_id", saleID,
		"quantity", updated.Quantity,
		"total", updated.TotalAmount,
	)
	return &updated, nil
}

// MarkPaid transitions a pending sale to paid. Paid sales stay paid; the
// call is idempotent.
func (s *Service) MarkPaid(ctx context.Context, orgID, saleID id.ID) (*Sale, error) {
	var updated Sale
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		sale, err := s.repo.GetByID(ctx, orgID, saleID)
		if err != nil {
			return err
		}
		if sale.PaymentStatus == PaymentPaid {
			updated = sale
			return nil
		}
		sale.PaymentStatus = PaymentPaid
		if err := s.repo.Update(ctx, &sale); err != nil {
			return fmt.Errorf("update sale: %w", err)
		}
		updated = sale
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetByID retrieves a sale.
func (s *Service) GetByID(ctx context.Context, orgID, saleID id.ID) (Sale, error) {
	return s.repo.GetByID(ctx, orgID, saleID)
}

// GetGroupedSale assembles the renderer-facing invoice shape for the
// invoice containing the given sale.
func (s *Service) GetGroupedSale(ctx context.Context, orgID, saleID id.ID) (*GroupedSale, error) {
	sale, err := s.repo.GetByID(ctx, orgID, saleID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByInvoice(ctx, orgID, sale.InvoiceNo)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}

	grouped := &GroupedSale{
		ID:            sale.InvoiceNo,
		SaleDate:      sale.SaleDate,
		PaymentMethod: sale.PaymentMethod,
		Items:         items,
	}

	if sale.CustomerID != nil {
		customer, err := s.customers.GetCustomer(ctx, orgID, *sale.CustomerID)
		if err != nil {
			if !apperror.IsNotFound(err) {
				return nil, err
			}
		} else {
			grouped.CustomerName = &customer.Name
			grouped.CustomerPhone = customer.Phone
		}
	}

	return grouped, nil
}

func resolveUnitPrice(item *inventory.Item, override *types.Money) (types.Money, error) {
	price := override
	if price == nil {
		price = item.SellPrice
	}
	if price == nil {
		return types.Zero(), apperror.NewValidation("no unit price supplied and item has no sell price").
			WithDetail("item_id", item.ID)
	}
	if err := types.ValidatePositiveAmount(*price); err != nil {
		return types.Zero(), err
	}
	return *price, nil
}
