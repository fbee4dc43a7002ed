package ledger

import (
	"context"
	"fmt"
	"time"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
	"vyapari/internal/core/types"
	"vyapari/pkg/logger"
)

// DirectoryRepository persists the account holders behind ledger accounts.
type DirectoryRepository interface {
	CreateCustomer(ctx context.Context, c *Customer) error
	GetCustomer(ctx context.Context, orgID, customerID id.ID) (Customer, error)
	GetCustomerByPhone(ctx context.Context, orgID id.ID, phone string) (Customer, error)
	UpdateCustomer(ctx context.Context, c *Customer) error
	ListCustomers(ctx context.Context, orgID id.ID, filter DirectoryFilter) ([]Customer, error)

	CreateSupplier(ctx context.Context, s *Supplier) error
	GetSupplier(ctx context.Context, orgID, supplierID id.ID) (Supplier, error)
	UpdateSupplier(ctx context.Context, s *Supplier) error
	ListSuppliers(ctx context.Context, orgID id.ID, filter DirectoryFilter) ([]Supplier, error)
}

// DirectoryFilter narrows account holder listings.
type DirectoryFilter struct {
	// Search matches name or phone, case-insensitive.
	Search string
	// WithBalance keeps only holders with a non-zero balance.
	WithBalance bool
	Limit       int
	Offset      int
}

// Directory manages customer and supplier records. Balances on these rows
// belong to the ledger service; the directory never touches them after
// creation.
type Directory struct {
	repo DirectoryRepository
}

// NewDirectory creates a new directory service.
func NewDirectory(repo DirectoryRepository) *Directory {
	return &Directory{repo: repo}
}

// CreateCustomerInput holds the fields of a new customer.
type CreateCustomerInput struct {
	Name  string
	Phone *string
	GSTIN *string
}

// CreateCustomer registers a customer with a zero opening balance. A phone
// number, when given, must be unique within the org.
func (d *Directory) CreateCustomer(ctx context.Context, orgID id.ID, in CreateCustomerInput) (*Customer, error) {
	if in.Name == "" {
		return nil, apperror.NewValidation("customer name is required")
	}
	if in.Phone != nil && *in.Phone != "" {
		if _, err := d.repo.GetCustomerByPhone(ctx, orgID, *in.Phone); err == nil {
			return nil, apperror.NewDuplicate("customer", "phone", *in.Phone)
		} else if !apperror.IsNotFound(err) {
			return nil, err
		}
	}

	customer := &Customer{
		ID:        id.New(),
		OrgID:     orgID,
		Name:      in.Name,
		Phone:     in.Phone,
		GSTIN:     in.GSTIN,
		Balance:   types.Zero(),
		CreatedAt: time.Now().UTC(),
	}
	if err := d.repo.CreateCustomer(ctx, customer); err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	logger.Info(ctx, "customer created", "customer_id", customer.ID, "name", customer.Name)
	return customer, nil
}

// GetCustomer retrieves a customer.
func (d *Directory) GetCustomer(ctx context.Context, orgID, customerID id.ID) (Customer, error) {
	return d.repo.GetCustomer(ctx, orgID, customerID)
}

// UpdateCustomer modifies contact fields. The balance on the stored row is
// preserved regardless of what the caller passes.
func (d *Directory) UpdateCustomer(ctx context.Context, orgID, customerID id.ID, in CreateCustomerInput) (Customer, error) {
	if in.Name == "" {
		return Customer{}, apperror.NewValidation("customer name is required")
	}
	customer, err := d.repo.GetCustomer(ctx, orgID, customerID)
	if err != nil {
		return Customer{}, err
	}
	customer.Name = in.Name
	customer.Phone = in.Phone
	customer.GSTIN = in.GSTIN
	if err := d.repo.UpdateCustomer(ctx, &customer); err != nil {
		return Customer{}, fmt.Errorf("update customer: %w", err)
	}
	return customer, nil
}

// ListCustomers retrieves customers for the org.
func (d *Directory) ListCustomers(ctx context.Context, orgID id.ID, filter DirectoryFilter) ([]Customer, error) {
	clampDirectoryFilter(&filter)
	return d.repo.ListCustomers(ctx, orgID, filter)
}

// CreateSupplierInput holds the fields of a new supplier.
type CreateSupplierInput struct {
	Name  string
	Phone *string
	GSTIN *string
}

// CreateSupplier registers a supplier with a zero opening balance.
func (d *Directory) CreateSupplier(ctx context.Context, orgID id.ID, in CreateSupplierInput) (*Supplier, error) {
	if in.Name == "" {
		return nil, apperror.NewValidation("supplier name is required")
	}

	supplier := &Supplier{
		ID:        id.New(),
		OrgID:     orgID,
		Name:      in.Name,
		Phone:     in.Phone,
		GSTIN:     in.GSTIN,
		Balance:   types.Zero(),
		CreatedAt: time.Now().UTC(),
	}
	if err := d.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}

	logger.Info(ctx, "supplier created", "supplier_id", supplier.ID, "name", supplier.Name)
	return supplier, nil
}

// GetSupplier retrieves a supplier.
func (d *Directory) GetSupplier(ctx context.Context, orgID, supplierID id.ID) (Supplier, error) {
	return d.repo.GetSupplier(ctx, orgID, supplierID)
}

// UpdateSupplier modifies contact fields, preserving the stored balance.
func (d *Directory) UpdateSupplier(ctx context.Context, orgID, supplierID id.ID, in CreateSupplierInput) (Supplier, error) {
	if in.Name == "" {
		return Supplier{}, apperror.NewValidation("supplier name is required")
	}
	supplier, err := d.repo.GetSupplier(ctx, orgID, supplierID)
	if err != nil {
		return Supplier{}, err
	}
	supplier.Name = in.Name
	supplier.Phone = in.Phone
	supplier.GSTIN = in.GSTIN
	if err := d.repo.UpdateSupplier(ctx, &supplier); err != nil {
		return Supplier{}, fmt.Errorf("update supplier: %w", err)
	}
	return supplier, nil
}

// ListSuppliers retrieves suppliers for the org.
func (d *Directory) ListSuppliers(ctx context.Context, orgID id.ID, filter DirectoryFilter) ([]Supplier, error) {
	clampDirectoryFilter(&filter)
	return d.repo.ListSuppliers(ctx, orgID, filter)
}

func clampDirectoryFilter(filter *DirectoryFilter) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
}
