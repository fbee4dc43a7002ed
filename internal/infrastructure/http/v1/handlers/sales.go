package handlers

import (
	"github.com/gin-gonic/gin"

	"vyapari/internal/domain/org"
	"vyapari/internal/domain/sales"
	"vyapari/internal/infrastructure/http/v1/dto"
)

// SalesHandler handles point-of-sale endpoints.
type SalesHandler struct {
	*BaseHandler
	service *sales.Service
	orgs    *org.Service
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(base *BaseHandler, service *sales.Service, orgs *org.Service) *SalesHandler {
	return &SalesHandler{
		BaseHandler: base,
		service:     service,
		orgs:        orgs,
	}
}

// Record handles POST /sales
//
// The org's tax settings are snapshotted here and passed into the recorder,
// so the persisted sale is reproducible even after settings change.
func (h *SalesHandler) Record(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req dto.RecordSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	organization, err := h.orgs.GetByID(ctx, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	sale, err := h.service.RecordSale(ctx, orgID, in, organization.TaxConfig())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sale)
}

// Get handles GET /sales/:id
func (h *SalesHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.service.GetByID(ctx, orgID, saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sale)
}

// GetInvoice handles GET /sales/:id/invoice
func (h *SalesHandler) GetInvoice(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	grouped, err := h.service.GetGroupedSale(ctx, orgID, saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, grouped)
}

// UpdateQuantity handles PATCH /sales/:id/quantity
func (h *SalesHandler) UpdateQuantity(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateSaleQuantityRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sale, err := h.service.UpdateSaleQuantity(ctx, orgID, saleID, req.Quantity)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sale)
}

// MarkPaid handles POST /sales/:id/mark-paid
func (h *SalesHandler) MarkPaid(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	saleID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.service.MarkPaid(ctx, orgID, saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, sale)
}

// RegisterRoutes registers sales routes.
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Record)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/invoice", h.GetInvoice)
	rg.PATCH("/:id/quantity", h.UpdateQuantity)
	rg.POST("/:id/mark-paid", h.MarkPaid)
}
