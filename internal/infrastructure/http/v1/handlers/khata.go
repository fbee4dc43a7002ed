package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vyapari/internal/domain/ledger"
	"vyapari/internal/infrastructure/http/v1/dto"
)

// KhataHandler handles the customer/supplier ledger endpoints.
type KhataHandler struct {
	*BaseHandler
	directory *ledger.Directory
	service   *ledger.Service
}

// NewKhataHandler creates a new khata handler.
func NewKhataHandler(base *BaseHandler, directory *ledger.Directory, service *ledger.Service) *KhataHandler {
	return &KhataHandler{
		BaseHandler: base,
		directory:   directory,
		service:     service,
	}
}

// --- Customers ---

// CreateCustomer handles POST /khata/customers
func (h *KhataHandler) CreateCustomer(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req dto.CreateAccountHolderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.directory.CreateCustomer(ctx, orgID, req.ToCustomerInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles GET /khata/customers/:id
func (h *KhataHandler) GetCustomer(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	customerID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.directory.GetCustomer(ctx, orgID, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, customer)
}

// UpdateCustomer handles PUT /khata/customers/:id
func (h *KhataHandler) UpdateCustomer(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	customerID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateAccountHolderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	customer, err := h.directory.UpdateCustomer(ctx, orgID, customerID, req.ToCustomerInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, customer)
}

// ListCustomers handles GET /khata/customers
func (h *KhataHandler) ListCustomers(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var query dto.DirectoryListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	customers, err := h.directory.ListCustomers(ctx, orgID, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: customers, Count: len(customers)})
}

// --- Suppliers ---

// CreateSupplier handles POST /khata/suppliers
func (h *KhataHandler) CreateSupplier(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req dto.CreateAccountHolderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplier, err := h.directory.CreateSupplier(ctx, orgID, req.ToSupplierInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

// GetSupplier handles GET /khata/suppliers/:id
func (h *KhataHandler) GetSupplier(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	supplierID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	supplier, err := h.directory.GetSupplier(ctx, orgID, supplierID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, supplier)
}

// UpdateSupplier handles PUT /khata/suppliers/:id
func (h *KhataHandler) UpdateSupplier(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	supplierID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateAccountHolderRequest
	if !h.BindJSON(c, &req) {
		return
	}

	supplier, err := h.directory.UpdateSupplier(ctx, orgID, supplierID, req.ToSupplierInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, supplier)
}

// ListSuppliers handles GET /khata/suppliers
func (h *KhataHandler) ListSuppliers(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var query dto.DirectoryListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	suppliers, err := h.directory.ListSuppliers(ctx, orgID, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: suppliers, Count: len(suppliers)})
}

// --- Ledger operations ---

// accountRef resolves the path parameters of an account-scoped route.
func (h *KhataHandler) accountRef(c *gin.Context, kind ledger.AccountKind) (ledger.AccountRef, bool) {
	accountID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return ledger.AccountRef{}, false
	}
	return ledger.AccountRef{Kind: kind, ID: accountID}, true
}

// applyEntry is the shared body of the customer and supplier entry routes.
func (h *KhataHandler) applyEntry(c *gin.Context, kind ledger.AccountKind) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	ref, ok := h.accountRef(c, kind)
	if !ok {
		return
	}

	var req dto.LedgerEntryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	txn, balance, err := h.service.ApplyTransaction(ctx, orgID, ref, ledger.EntryType(req.Type), req.Amount, req.Note)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.LedgerEntryResponse{Transaction: txn, Balance: balance})
}

// CustomerEntry handles POST /khata/customers/:id/entries
func (h *KhataHandler) CustomerEntry(c *gin.Context) {
	h.applyEntry(c, ledger.AccountCustomer)
}

// SupplierEntry handles POST /khata/suppliers/:id/entries
func (h *KhataHandler) SupplierEntry(c *gin.Context) {
	h.applyEntry(c, ledger.AccountSupplier)
}

func (h *KhataHandler) balance(c *gin.Context, kind ledger.AccountKind) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	ref, ok := h.accountRef(c, kind)
	if !ok {
		return
	}

	balance, err := h.service.GetBalance(ctx, orgID, ref)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.BalanceResponse{
		AccountID: ref.ID.String(),
		Kind:      string(kind),
		Balance:   balance,
	})
}

// CustomerBalance handles GET /khata/customers/:id/balance
func (h *KhataHandler) CustomerBalance(c *gin.Context) {
	h.balance(c, ledger.AccountCustomer)
}

// SupplierBalance handles GET /khata/suppliers/:id/balance
func (h *KhataHandler) SupplierBalance(c *gin.Context) {
	h.balance(c, ledger.AccountSupplier)
}

func (h *KhataHandler) statement(c *gin.Context, kind ledger.AccountKind) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	ref, ok := h.accountRef(c, kind)
	if !ok {
		return
	}

	var query dto.StatementQuery
	if !h.BindQuery(c, &query) {
		return
	}
	dateRange, err := query.ToDateRange()
	if err != nil {
		h.Error(c, err)
		return
	}

	statement, err := h.service.GetStatement(ctx, orgID, ref, dateRange)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, statement)
}

// CustomerStatement handles GET /khata/customers/:id/statement
func (h *KhataHandler) CustomerStatement(c *gin.Context) {
	h.statement(c, ledger.AccountCustomer)
}

// SupplierStatement handles GET /khata/suppliers/:id/statement
func (h *KhataHandler) SupplierStatement(c *gin.Context) {
	h.statement(c, ledger.AccountSupplier)
}

func (h *KhataHandler) verify(c *gin.Context, kind ledger.AccountKind) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	ref, ok := h.accountRef(c, kind)
	if !ok {
		return
	}

	if err := h.service.VerifyBalance(ctx, orgID, ref); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "balance verified")
}

// VerifyCustomerBalance handles GET /khata/customers/:id/verify
func (h *KhataHandler) VerifyCustomerBalance(c *gin.Context) {
	h.verify(c, ledger.AccountCustomer)
}

// VerifySupplierBalance handles GET /khata/suppliers/:id/verify
func (h *KhataHandler) VerifySupplierBalance(c *gin.Context) {
	h.verify(c, ledger.AccountSupplier)
}

// ReverseTransaction handles POST /khata/transactions/:id/reverse
func (h *KhataHandler) ReverseTransaction(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	txnID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	balance, err := h.service.ReverseTransaction(ctx, orgID, txnID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"balance": balance})
}

// RegisterRoutes registers khata routes.
func (h *KhataHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/customers")
	{
		customers.POST("", h.CreateCustomer)
		customers.GET("", h.ListCustomers)
		customers.GET("/:id", h.GetCustomer)
		customers.PUT("/:id", h.UpdateCustomer)
		customers.POST("/:id/entries", h.CustomerEntry)
		customers.GET("/:id/balance", h.CustomerBalance)
		customers.GET("/:id/statement", h.CustomerStatement)
		customers.GET("/:id/verify", h.VerifyCustomerBalance)
	}

	suppliers := rg.Group("/suppliers")
	{
		suppliers.POST("", h.CreateSupplier)
		suppliers.GET("", h.ListSuppliers)
		suppliers.GET("/:id", h.GetSupplier)
		suppliers.PUT("/:id", h.UpdateSupplier)
		suppliers.POST("/:id/entries", h.SupplierEntry)
		suppliers.GET("/:id/balance", h.SupplierBalance)
		suppliers.GET("/:id/statement", h.SupplierStatement)
		suppliers.GET("/:id/verify", h.VerifySupplierBalance)
	}

	rg.POST("/transactions/:id/reverse", h.ReverseTransaction)
}
