package dto

import (
	"time"

	"vyapari/internal/core/apperror"
)

// DailyReportQuery addresses one report day. Date is ISO "2006-01-02".
type DailyReportQuery struct {
	Date string `form:"date" binding:"required"`
}

// Parse validates and converts the date.
func (q *DailyReportQuery) Parse() (time.Time, error) {
	date, err := time.Parse("2006-01-02", q.Date)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date").
			WithDetail("date", q.Date)
	}
	return date, nil
}
