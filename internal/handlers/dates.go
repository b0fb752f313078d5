// Package handlers wires the HTTP surface: derived daily features, analysis
// reports, raw data access, ingest and export.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hoombar/biosignal/internal/apierror"
	"github.com/hoombar/biosignal/internal/models"
)

// parseDate parses a YYYY-MM-DD value and writes a Problem Details response
// on failure. The boolean reports whether the handler should continue.
func parseDate(c *gin.Context, field, value string) (time.Time, bool) {
	date, err := time.ParseInLocation(models.DateLayout, value, time.UTC)
	if err != nil {
		apierror.WriteProblem(c, apierror.NewInvalidDateError(apierror.GetRequestID(c), field, value))
		return time.Time{}, false
	}
	return date, true
}

// parseDateRange parses start/end query values and validates their order.
func parseDateRange(c *gin.Context, startValue, endValue string) (time.Time, time.Time, bool) {
	start, ok := parseDate(c, "start", startValue)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := parseDate(c, "end", endValue)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if end.Before(start) {
		apierror.WriteProblem(c, apierror.NewInvalidRangeError(apierror.GetRequestID(c), startValue, endValue))
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
