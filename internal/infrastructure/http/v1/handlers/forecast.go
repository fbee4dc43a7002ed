package handlers

import (
	"github.com/gin-gonic/gin"

	"vyapari/internal/domain/forecast"
	"vyapari/internal/infrastructure/http/v1/dto"
)

// ForecastHandler handles stock health and reorder endpoints.
type ForecastHandler struct {
	*BaseHandler
	service *forecast.Service
}

// NewForecastHandler creates a new forecast handler.
func NewForecastHandler(base *BaseHandler, service *forecast.Service) *ForecastHandler {
	return &ForecastHandler{
		BaseHandler: base,
		service:     service,
	}
}

// StockHealth handles GET /forecast/health
func (h *ForecastHandler) StockHealth(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	health, err := h.service.GetStockHealth(ctx, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: health, Count: len(health)})
}

// ReorderSuggestions handles GET /forecast/reorder
func (h *ForecastHandler) ReorderSuggestions(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	suggestions, err := h.service.GetReorderSuggestions(ctx, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: suggestions, Count: len(suggestions)})
}

// StockInsights handles GET /forecast/insights
func (h *ForecastHandler) StockInsights(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	insights, err := h.service.GetStockInsights(ctx, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, insights)
}

// RegisterRoutes registers forecast routes.
func (h *ForecastHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.StockHealth)
	rg.GET("/reorder", h.ReorderSuggestions)
	rg.GET("/insights", h.StockInsights)
}
