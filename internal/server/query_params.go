package server

import (
	"strconv"
	"strings"

	analyticsdomain "github.com/convodash/convodash/internal/analytics/domain"
	"github.com/gin-gonic/gin"
)

// parseLimitParam reads ?limit. Anything unparseable falls back to the
// default rather than failing the request.
func parseLimitParam(c *gin.Context) int {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return analyticsdomain.DefaultLimit
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return analyticsdomain.DefaultLimit
	}
	return analyticsdomain.ClampLimit(parsed)
}

// parseWindowParams reads ?startDate and ?endDate. Both empty means no
// window.
func parseWindowParams(c *gin.Context) (*analyticsdomain.DateWindow, error) {
	startDate := strings.TrimSpace(c.Query("startDate"))
	endDate := strings.TrimSpace(c.Query("endDate"))

	window, err := analyticsdomain.ParseDateWindow(startDate, endDate)
	if err != nil {
		return nil, newValidationError("date", "invalid_date", "invalid date range")
	}
	return window, nil
}

// parsePeriodParam reads ?period against the fixed allow-list.
func parsePeriodParam(c *gin.Context) (analyticsdomain.Period, error) {
	period, err := analyticsdomain.ParsePeriod(c.Query("period"))
	if err != nil {
		return 0, newValidationError("period", "invalid_period", "invalid period")
	}
	return period, nil
}
