package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hoombar/biosignal/internal/apierror"
	"github.com/hoombar/biosignal/internal/logger"
	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/service"
	"github.com/hoombar/biosignal/internal/timewindow"
)

// defaultExportDays is the range exported when the request names no dates.
const defaultExportDays = 90

// ExportHandler handles feature schema and CSV export requests
type ExportHandler struct {
	featureService service.FeatureService
	location       *time.Location
}

// NewExportHandler creates a new export handler
func NewExportHandler(featureService service.FeatureService, location *time.Location) *ExportHandler {
	if location == nil {
		location = time.UTC
	}
	return &ExportHandler{featureService: featureService, location: location}
}

func (h *ExportHandler) rangeOrDefault(c *gin.Context) (time.Time, time.Time, bool) {
	startValue, endValue := c.Query("start"), c.Query("end")
	if startValue == "" && endValue == "" {
		end := timewindow.LocalDate(time.Now(), h.location)
		return end.AddDate(0, 0, -defaultExportDays), end, true
	}
	return parseDateRange(c, startValue, endValue)
}

// GetMetadata returns the feature schema: every core feature key plus the
// habit names discovered across the requested range
// GET /api/v1/features/metadata
func (h *ExportHandler) GetMetadata(c *gin.Context) {
	start, end, ok := h.rangeOrDefault(c)
	if !ok {
		return
	}

	records, err := h.featureService.GetRange(c.Request.Context(), start, end)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("metadata derivation failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"features": models.FeatureMetadata(records)})
}

// ExportCSV streams the derived feature records as CSV, one row per date.
// Columns are the union of keys across the whole range; absent values are
// empty cells, never zeroes
// GET /api/v1/export/features.csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	start, end, ok := h.rangeOrDefault(c)
	if !ok {
		return
	}

	records, err := h.featureService.GetRange(c.Request.Context(), start, end)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("export derivation failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	columns := exportColumns(records)

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="features.csv"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	header := append([]string{"date"}, columns...)
	if err := w.Write(header); err != nil {
		return
	}
	for _, record := range records {
		row := make([]string, 0, len(header))
		row = append(row, record.Date.Format(models.DateLayout))
		for _, col := range columns {
			row = append(row, exportCell(record, col))
		}
		if err := w.Write(row); err != nil {
			return
		}
	}
	w.Flush()
}

// exportColumns unions feature, label and habit keys across all records so a
// habit tracked from halfway through the range still gets a column.
func exportColumns(records []*models.DailyFeatureRecord) []string {
	seen := make(map[string]bool)
	for _, meta := range models.FeatureMetadata(records) {
		seen[meta.Key] = true
	}
	for _, r := range records {
		for k := range r.Features {
			seen[k] = true
		}
		for k := range r.Labels {
			seen[k] = true
		}
		for k := range r.Habits {
			seen[k] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for k := range seen {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	return columns
}

func exportCell(record *models.DailyFeatureRecord, key string) string {
	if v, ok := record.Features[key]; ok {
		return formatFloat(v)
	}
	if v, ok := record.Habits[key]; ok {
		return formatFloat(v)
	}
	if v, ok := record.Labels[key]; ok {
		return v
	}
	return ""
}

func formatFloat(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return fmt.Sprintf("%.4f", v)
}
