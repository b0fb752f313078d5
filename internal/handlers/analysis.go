package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hoombar/biosignal/internal/apierror"
	"github.com/hoombar/biosignal/internal/logger"
	"github.com/hoombar/biosignal/internal/service"
)

// AnalysisHandler handles correlation, pattern and insight requests
type AnalysisHandler struct {
	analysisService service.AnalysisService
	defaultTarget   string
}

// NewAnalysisHandler creates a new analysis handler. defaultTarget is the
// configured outcome feature used when a request does not name one.
func NewAnalysisHandler(analysisService service.AnalysisService, defaultTarget string) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		defaultTarget:   defaultTarget,
	}
}

func (h *AnalysisHandler) target(c *gin.Context) string {
	if t := c.Query("target"); t != "" {
		return t
	}
	return h.defaultTarget
}

// GetCorrelations returns every feature ranked by association with the target
// GET /api/v1/analysis/correlations?target=pm_slump&min_days=7
func (h *AnalysisHandler) GetCorrelations(c *gin.Context) {
	minDays := 0
	if raw := c.Query("min_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 2 {
			apierror.WriteProblem(c, apierror.NewBadRequestError(
				apierror.GetRequestID(c),
				"min_days must be an integer of at least 2",
				"The min_days parameter is invalid",
			))
			return
		}
		minDays = n
	}

	report, err := h.analysisService.Correlations(c.Request.Context(), h.target(c), minDays)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("correlation analysis failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetPatterns returns threshold-rule conditional probabilities
// GET /api/v1/analysis/patterns?target=pm_slump
func (h *AnalysisHandler) GetPatterns(c *gin.Context) {
	patterns, err := h.analysisService.Patterns(c.Request.Context(), h.target(c))
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("pattern analysis failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"target": h.target(c), "patterns": patterns})
}

// GetInsights returns ranked plain-English findings
// GET /api/v1/analysis/insights?target=pm_slump
func (h *AnalysisHandler) GetInsights(c *gin.Context) {
	insights, err := h.analysisService.Insights(c.Request.Context(), h.target(c))
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("insight generation failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"target": h.target(c), "insights": insights})
}
