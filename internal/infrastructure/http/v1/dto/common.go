// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"vyapari/internal/core/apperror"
	"vyapari/internal/core/id"
)

// IDResponse for create operations.
type IDResponse struct {
	ID string `json:"id"`
}

// NewIDResponse creates ID response.
func NewIDResponse(i id.ID) IDResponse {
	return IDResponse{ID: i.String()}
}

// SuccessResponse for operations without data.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list results.
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

// ErrorResponse for error details.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ListQuery contains common listing parameters.
type ListQuery struct {
	Search string `form:"search"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=1000"`
	Offset int    `form:"offset" binding:"omitempty,min=0"`
}

// DateRangeQuery bounds a query to [from, to). Dates are ISO "2006-01-02".
type DateRangeQuery struct {
	From string `form:"from" binding:"required"`
	To   string `form:"to" binding:"required"`
}

// Parse validates and converts the range endpoints.
func (q *DateRangeQuery) Parse() (time.Time, time.Time, error) {
	from, err := time.Parse("2006-01-02", q.From)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewValidation("invalid from date").
			WithDetail("from", q.From)
	}
	to, err := time.Parse("2006-01-02", q.To)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.NewValidation("invalid to date").
			WithDetail("to", q.To)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, apperror.NewValidation("date range end must be after start")
	}
	return from, to, nil
}
