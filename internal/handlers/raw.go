package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hoombar/biosignal/internal/apierror"
	"github.com/hoombar/biosignal/internal/logger"
	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/repository"
)

// RawHandler handles read access to stored raw samples, mainly for debugging
// a suspicious derived value against what the store actually holds.
type RawHandler struct {
	samples repository.SampleRepository
}

// NewRawHandler creates a new raw data handler
func NewRawHandler(samples repository.SampleRepository) *RawHandler {
	return &RawHandler{samples: samples}
}

// GetSamples returns stored samples for one metric across a date range
// GET /api/v1/raw/samples?metric=stress&start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *RawHandler) GetSamples(c *gin.Context) {
	kind := models.MetricKind(c.Query("metric"))
	if !kind.Valid() {
		apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{{
			Field:   "metric",
			Message: "is not a known metric",
			Code:    "invalid_metric",
		}}))
		return
	}

	start, end, ok := parseDateRange(c, c.Query("start"), c.Query("end"))
	if !ok {
		return
	}

	samples, err := h.samples.GetSamples(c.Request.Context(), kind, start, end.AddDate(0, 0, 1))
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("raw sample read failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metric":  kind,
		"count":   len(samples),
		"samples": samples,
	})
}
