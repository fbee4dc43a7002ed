package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vyapari/internal/domain/expenses"
	"vyapari/internal/infrastructure/http/v1/dto"
)

// ExpensesHandler handles expense tracking endpoints.
type ExpensesHandler struct {
	*BaseHandler
	service *expenses.Service
}

// NewExpensesHandler creates a new expenses handler.
func NewExpensesHandler(base *BaseHandler, service *expenses.Service) *ExpensesHandler {
	return &ExpensesHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Record handles POST /expenses
func (h *ExpensesHandler) Record(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}

	var req dto.RecordExpenseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	expense, err := h.service.Record(ctx, orgID, in)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

// Get handles GET /expenses/:id
func (h *ExpensesHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	orgID, ok := h.OrgID(c)
	if !ok {
		return
	}
	expenseID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	expense, err := h.service.GetByID(ctx, orgID, expenseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, expense)
}

// List handles GET /expenses
func (h *ExpensesHandler) List(c *gin.Context) {
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

	items, err := h.service.ListByDateRange(ctx, orgID, from, to)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.ListResponse{Items: items, Count: len(items)})
}

// RegisterRoutes registers expense routes.
func (h *ExpensesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Record)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
}
