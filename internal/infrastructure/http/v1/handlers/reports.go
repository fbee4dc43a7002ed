package handlers

import (
	"github.com/gin-gonic/gin"

	"vyapari/internal/domain/reports"
	"vyapari/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles daily report and GST filing endpoints.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetDaily handles GET /reports/daily?date=
func (h *ReportsHandler) GetDaily(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var query dto.DailyReportQuery
	if !h.BindQuery(c, &query) {
		return
	}
	date, err := query.Parse()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.GetDailyReport(ctx, orgID, date)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// RebuildDaily handles POST /reports/daily/rebuild?date=
//
// Rebuilding is idempotent: repeated calls for the same day upsert the same
// row and return identical aggregates.
func (h *ReportsHandler) RebuildDaily(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var query dto.DailyReportQuery
	if !h.BindQuery(c, &query) {
		return
	}
	date, err := query.Parse()
	if err != nil {
		h.Error(c, err)
		return
	}

	report, err := h.service.RebuildDailyReport(ctx, orgID, date)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, report)
}

// ListDaily handles GET /reports/daily/range?from=&to=
func (h *ReportsHandler) ListDaily(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var query dto.DateRangeQuery
	if !h.BindQuery(c, &query) {
		return
	}
	from, to, err := query.Parse()
	if err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.ListDailyReports(ctx, orgID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// Gstr1B2B handles GET /reports/gstr1/b2b?from=&to=
func (h *ReportsHandler) Gstr1B2B(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var query dto.DateRangeQuery
	if !h.BindQuery(c, &query) {
		return
	}
	from, to, err := query.Parse()
	if err != nil {
		h.Error(c, err)
		return
	}

	invoices, err := h.service.GetGstr1B2B(ctx, orgID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: invoices, Count: len(invoices)})
}

// Gstr3B handles GET /reports/gstr3b?from=&to=
func (h *ReportsHandler) Gstr3B(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var query dto.DateRangeQuery
	if !h.BindQuery(c, &query) {
		return
	}
	from, to, err := query.Parse()
	if err != nil {
		h.Error(c, err)
		return
	}

	stats, err := h.service.GetGstr3BStats(ctx, orgID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, stats)
}

// RegisterRoutes registers report routes.
func (h *ReportsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/daily", h.GetDaily)
	rg.POST("/daily/rebuild", h.RebuildDaily)
	rg.GET("/daily/range", h.ListDaily)
	rg.GET("/gstr1/b2b", h.Gstr1B2B)
	rg.GET("/gstr3b", h.Gstr3B)
}
