package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"vyapari/internal/domain/inventory"
	"vyapari/internal/infrastructure/http/v1/dto"
)

// InventoryHandler handles stock catalog endpoints.
type InventoryHandler struct {
	*BaseHandler
	service *inventory.Service
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(base *BaseHandler, service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /inventory
func (h *InventoryHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req dto.CreateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item := req.ToItem(orgID)
	if err := h.service.Create(ctx, item); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, item.ID.String())
}

// Get handles GET /inventory/:id
func (h *InventoryHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.service.GetByID(ctx, orgID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, item)
}

// Update handles PUT /inventory/:id
func (h *InventoryHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateItemRequest
	if !h.BindJSON(c, &req) {
		return
	}

	item, err := h.service.GetByID(ctx, orgID, itemID)
	if err != nil {
		h.Error(c, err)
		return
	}

	item.SKU = req.SKU
	item.Name = req.Name
	item.BuyPrice = req.BuyPrice
	item.SellPrice = req.SellPrice
	item.GSTPercent = req.GSTPercent
	item.HSNCode = req.HSNCode
	item.UpdatedAt = time.Now().UTC()

	if err := h.service.Update(ctx, &item); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, item)
}

// List handles GET /inventory
func (h *InventoryHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var query dto.InventoryListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	items, err := h.service.List(ctx, orgID, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// Restock handles POST /inventory/:id/restock
func (h *InventoryHandler) Restock(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RestockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	stock, err := h.service.Restock(ctx, orgID, itemID, req.Units)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.RestockResponse{ItemID: itemID.String(), Stock: stock})
}

// RegisterRoutes registers inventory routes.
func (h *InventoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.POST("/:id/restock", h.Restock)
}
