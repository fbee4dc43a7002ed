// Package handlers provides HTTP request handlers.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vyapari/internal/core/apperror"
	appctx "vyapari/internal/core/context"
	"vyapari/internal/core/id"
	"vyapari/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// BindQuery binds and validates query parameters.
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid query parameters").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers error on Gin context and aborts request.
// Actual JSON response is produced by middleware.ErrorHandler (single source of truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// OrgID extracts the authenticated org id. The auth middleware guarantees
// it is present on protected routes; a missing value means a wiring bug.
func (h *BaseHandler) OrgID(c *gin.Context) (id.ID, bool) {
	raw := appctx.GetOrgID(c.Request.Context())
	if raw == "" {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return id.Nil(), false
	}
	orgID, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid organization id"))
		return id.Nil(), false
	}
	return orgID, true
}

// UserID extracts the authenticated user id.
func (h *BaseHandler) UserID(c *gin.Context) (id.ID, bool) {
	raw := appctx.GetUserID(c.Request.Context())
	if raw == "" {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return id.Nil(), false
	}
	userID, err := id.Parse(raw)
	if err != nil {
		h.Error(c, apperror.NewUnauthorized("invalid user id"))
		return id.Nil(), false
	}
	return userID, true
}

// ParseIDParam parses a UUID path parameter.
func (h *BaseHandler) ParseIDParam(c *gin.Context, name string) (id.ID, bool) {
	parsed, err := id.Parse(c.Param(name))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id parameter").WithDetail("param", name))
		return id.Nil(), false
	}
	return parsed, true
}

// ParseIntQuery parses integer query parameter with default value.
func (h *BaseHandler) ParseIntQuery(c *gin.Context, key string, defaultVal int) int {
	val := c.Query(key)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// Created sends 201 response with ID.
func (h *BaseHandler) Created(c *gin.Context, id string) {
	c.JSON(http.StatusCreated, dto.IDResponse{ID: id})
}

// OK sends 200 response with data.
func (h *BaseHandler) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// NoContent sends 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Success sends success response.
func (h *BaseHandler) Success(c *gin.Context, message string) {
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: message})
}
