package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hoombar/biosignal/internal/apierror"
	"github.com/hoombar/biosignal/internal/logger"
	"github.com/hoombar/biosignal/internal/models"
	"github.com/hoombar/biosignal/internal/service"
)

// IngestHandler handles raw data writes. All writes are idempotent upserts;
// re-posting the same payload is safe.
type IngestHandler struct {
	ingestService service.IngestService
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingestService service.IngestService) *IngestHandler {
	return &IngestHandler{ingestService: ingestService}
}

type ingestSamplesRequest struct {
	Samples []models.RawSample `json:"samples" binding:"required"`
}

// IngestSamples stores a batch of raw metric samples
// POST /api/v1/ingest/samples
func (h *IngestHandler) IngestSamples(c *gin.Context) {
	var req ingestSamplesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(
			apierror.GetRequestID(c), err.Error(), "The request body is invalid"))
		return
	}

	for i, s := range req.Samples {
		if !s.Kind.Valid() {
			apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{{
				Field:   fmt.Sprintf("samples[%d].metric_kind", i),
				Message: fmt.Sprintf("%q is not a known metric", s.Kind),
				Code:    "invalid_metric",
			}}))
			return
		}
	}

	count, err := h.ingestService.IngestSamples(c.Request.Context(), req.Samples)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("sample ingest failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"stored": count})
}

type ingestSleepRequest struct {
	Date              string                 `json:"date" binding:"required"`
	SleepStart        *time.Time             `json:"sleep_start"`
	SleepEnd          *time.Time             `json:"sleep_end"`
	TotalSleepSeconds *int                   `json:"total_sleep_seconds"`
	DeepSleepSeconds  *int                   `json:"deep_sleep_seconds"`
	LightSleepSeconds *int                   `json:"light_sleep_seconds"`
	RemSleepSeconds   *int                   `json:"rem_sleep_seconds"`
	AwakeSeconds      *int                   `json:"awake_seconds"`
	SleepScore        *int                   `json:"sleep_score"`
	AvgOvernightHRV   *float64               `json:"avg_overnight_hrv"`
	AvgOvernightSpO2  *float64               `json:"avg_overnight_spo2"`
	StageTransitions  []models.StageInterval `json:"stage_transitions"`
}

// IngestSleep stores one night's sleep session, attributed to the wake date
// POST /api/v1/ingest/sleep
func (h *IngestHandler) IngestSleep(c *gin.Context) {
	var req ingestSleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(
			apierror.GetRequestID(c), err.Error(), "The request body is invalid"))
		return
	}

	date, ok := parseDate(c, "date", req.Date)
	if !ok {
		return
	}

	session := &models.SleepSession{
		Date:              date,
		SleepStart:        req.SleepStart,
		SleepEnd:          req.SleepEnd,
		TotalSleepSeconds: req.TotalSleepSeconds,
		DeepSleepSeconds:  req.DeepSleepSeconds,
		LightSleepSeconds: req.LightSleepSeconds,
		RemSleepSeconds:   req.RemSleepSeconds,
		AwakeSeconds:      req.AwakeSeconds,
		SleepScore:        req.SleepScore,
		AvgOvernightHRV:   req.AvgOvernightHRV,
		AvgOvernightSpO2:  req.AvgOvernightSpO2,
		StageTransitions:  req.StageTransitions,
	}

	if err := h.ingestService.IngestSleepSession(c.Request.Context(), session); err != nil {
		logger.Ctx(c.Request.Context()).Error("sleep ingest failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"date": req.Date})
}

type ingestActivitiesRequest struct {
	Activities []models.Activity `json:"activities" binding:"required"`
}

// IngestActivities stores a batch of training activities keyed by external ID
// POST /api/v1/ingest/activities
func (h *IngestHandler) IngestActivities(c *gin.Context) {
	var req ingestActivitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(
			apierror.GetRequestID(c), err.Error(), "The request body is invalid"))
		return
	}

	for i, a := range req.Activities {
		if a.ExternalID == "" {
			apierror.WriteProblem(c, apierror.NewValidationError(apierror.GetRequestID(c), []apierror.FieldError{{
				Field:   fmt.Sprintf("activities[%d].external_id", i),
				Message: "is required",
				Code:    "required",
			}}))
			return
		}
	}

	count, err := h.ingestService.IngestActivities(c.Request.Context(), req.Activities)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("activity ingest failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"stored": count})
}

type ingestHabitRecord struct {
	Date  string           `json:"date" binding:"required"`
	Name  string           `json:"habit_name" binding:"required"`
	Value string           `json:"value" binding:"required"`
	Kind  models.HabitKind `json:"value_kind"`
}

type ingestHabitsRequest struct {
	Records []ingestHabitRecord `json:"records" binding:"required"`
}

// IngestHabits stores daily habit observations. Habit names are open-ended;
// a new name simply becomes part of the schema from its first record onward.
// POST /api/v1/ingest/habits
func (h *IngestHandler) IngestHabits(c *gin.Context) {
	var req ingestHabitsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierror.WriteProblem(c, apierror.NewBadRequestError(
			apierror.GetRequestID(c), err.Error(), "The request body is invalid"))
		return
	}

	records := make([]models.DailyHabitRecord, 0, len(req.Records))
	for _, rec := range req.Records {
		date, ok := parseDate(c, "date", rec.Date)
		if !ok {
			return
		}
		kind := rec.Kind
		if kind == "" {
			kind = models.HabitCounter
		}
		records = append(records, models.DailyHabitRecord{
			Date:  date,
			Name:  rec.Name,
			Value: rec.Value,
			Kind:  kind,
		})
	}

	count, err := h.ingestService.IngestHabits(c.Request.Context(), records)
	if err != nil {
		logger.Ctx(c.Request.Context()).Error("habit ingest failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(apierror.GetRequestID(c)))
		return
	}

	c.JSON(http.StatusOK, gin.H{"stored": count})
}
