package handlers

import (
	"github.com/gin-gonic/gin"

	"vyapari/internal/core/apperror"
	"vyapari/internal/domain/org"
	"vyapari/internal/domain/tax"
	"vyapari/internal/infrastructure/http/v1/dto"
)

// OrgHandler handles shop settings and tax preview endpoints.
type OrgHandler struct {
	*BaseHandler
	service *org.Service
}

// NewOrgHandler creates a new org handler.
func NewOrgHandler(base *BaseHandler, service *org.Service) *OrgHandler {
	return &OrgHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Get handles GET /org
func (h *OrgHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	organization, err := h.service.GetByID(ctx, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, organization)
}

// UpdateSettings handles PUT /org/settings
func (h *OrgHandler) UpdateSettings(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req dto.UpdateOrgSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	organization, err := h.service.UpdateSettings(ctx, orgID, req.ToInput())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, organization)
}

// TaxPreview handles POST /org/tax-preview
//
// Computes a breakup under the org's current settings without recording
// anything. Used by the POS screen to show the split before a sale.
func (h *OrgHandler) TaxPreview(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req dto.TaxPreviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	organization, err := h.service.GetByID(ctx, orgID)
	if err != nil {
		h.Error(c, err)
		return
	}
	cfg := organization.TaxConfig()

	var breakup tax.Breakup
	switch {
	case req.RatePercent != nil:
		breakup, err = tax.Compute(req.Amount, *req.RatePercent, cfg)
	case req.HSNCode != nil:
		breakup, err = tax.ComputeForHSN(req.Amount, *req.HSNCode, cfg)
	default:
		err = apperror.NewValidation("either ratePercent or hsnCode is required")
	}
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, breakup)
}

// RegisterRoutes registers org routes.
func (h *OrgHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Get)
	rg.PUT("/settings", h.UpdateSettings)
	rg.POST("/tax-preview", h.TaxPreview)
}
