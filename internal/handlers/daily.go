package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoombar/biosignal/internal/apierror"
	"github.com/hoombar/biosignal/internal/logger"
	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/service"
)

// DailyHandler handles derived daily feature record requests
type DailyHandler struct {
	featureService service.FeatureService
}

// NewDailyHandler creates a new daily features handler
func NewDailyHandler(featureService service.FeatureService) *DailyHandler {
	return &DailyHandler{featureService: featureService}
}

// GetDaily returns the derived feature record for one date
// GET /api/v1/daily/:date
func (h *DailyHandler) GetDaily(c *gin.Context) {
	date, ok := parseDate(c, "date", c.Param("date"))
	if !ok {
		return
	}

	record, err := h.featureService.GetDaily(c.Request.Context(), date)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to derive daily record", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, record)
}

// GetRange returns derived feature records for an inclusive date range
// GET /api/v1/daily?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *DailyHandler) GetRange(c *gin.Context) {
	start, end, ok := parseDateRange(c, c.Query("start"), c.Query("end"))
	if !ok {
		return
	}

	records, err := h.featureService.GetRange(c.Request.Context(), start, end)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("failed to derive record range", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start":   start.Format(models.DateLayout),
		"end":     end.Format(models.DateLayout),
		"records": records,
	})
}
