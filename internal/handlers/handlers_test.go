package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoombar/biosignal/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeFeatureService struct {
	records map[string]*models.DailyFeatureRecord
}

func (f *fakeFeatureService) GetDaily(_ context.Context, date time.Time) (*models.DailyFeatureRecord, error) {
	if rec, ok := f.records[date.Format(models.DateLayout)]; ok {
		return rec, nil
	}
	return models.NewDailyFeatureRecord(date), nil
}

func (f *fakeFeatureService) GetRange(ctx context.Context, start, end time.Time) ([]*models.DailyFeatureRecord, error) {
	var out []*models.DailyFeatureRecord
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		rec, _ := f.GetDaily(ctx, d)
		out = append(out, rec)
	}
	return out, nil
}

func (f *fakeFeatureService) Invalidate(...time.Time) {}
func (f *fakeFeatureService) InvalidateAll()          {}

type fakeAnalysisService struct {
	lastTarget  string
	lastMinDays int
}

func (f *fakeAnalysisService) Correlations(_ context.Context, target string, minDays int) (*models.CorrelationReport, error) {
	f.lastTarget, f.lastMinDays = target, minDays
	return &models.CorrelationReport{Target: target, UsableDays: 14}, nil
}

func (f *fakeAnalysisService) Patterns(_ context.Context, target string) ([]models.PatternResult, error) {
	f.lastTarget = target
	return []models.PatternResult{{Key: "short_sleep", RelativeRisk: 2.0}}, nil
}

func (f *fakeAnalysisService) Insights(_ context.Context, target string) ([]models.InsightResult, error) {
	f.lastTarget = target
	return []models.InsightResult{{Text: "finding", Confidence: models.ConfidenceHigh}}, nil
}

type fakeIngestService struct {
	samples    []models.RawSample
	sessions   []*models.SleepSession
	activities []models.Activity
	habits     []models.DailyHabitRecord
}

func (f *fakeIngestService) IngestSamples(_ context.Context, samples []models.RawSample) (int, error) {
	f.samples = append(f.samples, samples...)
	return len(samples), nil
}

func (f *fakeIngestService) IngestSleepSession(_ context.Context, session *models.SleepSession) error {
	f.sessions = append(f.sessions, session)
	return nil
}

func (f *fakeIngestService) IngestActivities(_ context.Context, activities []models.Activity) (int, error) {
	f.activities = append(f.activities, activities...)
	return len(activities), nil
}

func (f *fakeIngestService) IngestHabits(_ context.Context, records []models.DailyHabitRecord) (int, error) {
	f.habits = append(f.habits, records...)
	return len(records), nil
}

func featureFixture() *fakeFeatureService {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	rec := models.NewDailyFeatureRecord(date)
	rec.Features["sleep_hours"] = 6.5
	rec.Habits["coffee_count"] = 2
	rec.Labels["training_type"] = "running"
	return &fakeFeatureService{records: map[string]*models.DailyFeatureRecord{
		"2025-06-02": rec,
	}}
}

func performRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetDaily(t *testing.T) {
	h := NewDailyHandler(featureFixture())
	router := gin.New()
	router.GET("/daily/:date", h.GetDaily)

	w := performRequest(router, http.MethodGet, "/daily/2025-06-02", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "2025-06-02", body["date"])
	assert.InDelta(t, 6.5, body["sleep_hours"].(float64), 1e-9)

	habits, ok := body["habits"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 2.0, habits["coffee_count"].(float64), 1e-9)
}

func TestGetDailyInvalidDate(t *testing.T) {
	h := NewDailyHandler(featureFixture())
	router := gin.New()
	router.GET("/daily/:date", h.GetDaily)

	w := performRequest(router, http.MethodGet, "/daily/02-06-2025", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/problem+json")

	var problem map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "urn:biosignal:error:invalid_date", problem["type"])
}

func TestGetRangeInvalidOrder(t *testing.T) {
	h := NewDailyHandler(featureFixture())
	router := gin.New()
	router.GET("/daily", h.GetRange)

	w := performRequest(router, http.MethodGet, "/daily?start=2025-06-10&end=2025-06-01", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, "urn:biosignal:error:invalid_range", problem["type"])
}

func TestGetRange(t *testing.T) {
	h := NewDailyHandler(featureFixture())
	router := gin.New()
	router.GET("/daily", h.GetRange)

	w := performRequest(router, http.MethodGet, "/daily?start=2025-06-01&end=2025-06-03", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Records []map[string]any `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Records, 3)
	assert.Equal(t, "2025-06-01", body.Records[0]["date"])
	_, hasSleep := body.Records[0]["sleep_hours"]
	assert.False(t, hasSleep, "empty day must not carry values")
}

func TestGetCorrelationsUsesDefaultTarget(t *testing.T) {
	svc := &fakeAnalysisService{}
	h := NewAnalysisHandler(svc, "pm_slump")
	router := gin.New()
	router.GET("/analysis/correlations", h.GetCorrelations)

	w := performRequest(router, http.MethodGet, "/analysis/correlations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pm_slump", svc.lastTarget)

	w = performRequest(router, http.MethodGet, "/analysis/correlations?target=sleep_score&min_days=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sleep_score", svc.lastTarget)
	assert.Equal(t, 10, svc.lastMinDays)
}

func TestGetCorrelationsInvalidMinDays(t *testing.T) {
	h := NewAnalysisHandler(&fakeAnalysisService{}, "pm_slump")
	router := gin.New()
	router.GET("/analysis/correlations", h.GetCorrelations)

	w := performRequest(router, http.MethodGet, "/analysis/correlations?min_days=1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, http.MethodGet, "/analysis/correlations?min_days=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestSamples(t *testing.T) {
	svc := &fakeIngestService{}
	h := NewIngestHandler(svc)
	router := gin.New()
	router.POST("/ingest/samples", h.IngestSamples)

	body := `{"samples":[{"metric_kind":"heart_rate","timestamp":"2025-06-02T09:00:00Z","value":62}]}`
	w := performRequest(router, http.MethodPost, "/ingest/samples", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.samples, 1)
	assert.Equal(t, models.MetricHeartRate, svc.samples[0].Kind)
}

func TestIngestSamplesUnknownMetric(t *testing.T) {
	svc := &fakeIngestService{}
	h := NewIngestHandler(svc)
	router := gin.New()
	router.POST("/ingest/samples", h.IngestSamples)

	body := `{"samples":[{"metric_kind":"blood_sugar","timestamp":"2025-06-02T09:00:00Z","value":5}]}`
	w := performRequest(router, http.MethodPost, "/ingest/samples", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.samples)
}

func TestIngestSleep(t *testing.T) {
	svc := &fakeIngestService{}
	h := NewIngestHandler(svc)
	router := gin.New()
	router.POST("/ingest/sleep", h.IngestSleep)

	body := `{"date":"2025-06-02","sleep_start":"2025-06-01T23:30:00Z","sleep_end":"2025-06-02T06:30:00Z","total_sleep_seconds":21600}`
	w := performRequest(router, http.MethodPost, "/ingest/sleep", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.sessions, 1)
	assert.Equal(t, "2025-06-02", svc.sessions[0].Date.Format(models.DateLayout))
	require.NotNil(t, svc.sessions[0].TotalSleepSeconds)
	assert.Equal(t, 21600, *svc.sessions[0].TotalSleepSeconds)
}

func TestIngestActivitiesRequiresExternalID(t *testing.T) {
	svc := &fakeIngestService{}
	h := NewIngestHandler(svc)
	router := gin.New()
	router.POST("/ingest/activities", h.IngestActivities)

	body := `{"activities":[{"type":"running","start_time":"2025-06-02T07:00:00Z","end_time":"2025-06-02T08:00:00Z"}]}`
	w := performRequest(router, http.MethodPost, "/ingest/activities", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.activities)
}

func TestIngestHabits(t *testing.T) {
	svc := &fakeIngestService{}
	h := NewIngestHandler(svc)
	router := gin.New()
	router.POST("/ingest/habits", h.IngestHabits)

	body := `{"records":[{"date":"2025-06-02","habit_name":"coffee_count","value":"3","value_kind":"counter"},{"date":"2025-06-02","habit_name":"pm_slump","value":"true","value_kind":"boolean"}]}`
	w := performRequest(router, http.MethodPost, "/ingest/habits", body)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.habits, 2)
	assert.Equal(t, models.HabitBoolean, svc.habits[1].Kind)
}

func TestExportCSVUnionsColumns(t *testing.T) {
	features := featureFixture()
	h := NewExportHandler(features, time.UTC)
	router := gin.New()
	router.GET("/export/features.csv", h.ExportCSV)

	w := performRequest(router, http.MethodGet, "/export/features.csv?start=2025-06-01&end=2025-06-03", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 4, "header plus one row per day")

	header := strings.Split(lines[0], ",")
	assert.Equal(t, "date", header[0])
	assert.Contains(t, header, "sleep_hours")
	assert.Contains(t, header, "coffee_count", "habit columns come from the whole range")

	// 2025-06-01 has no data; its cells are empty, not zero.
	first := strings.Split(lines[1], ",")
	assert.Equal(t, "2025-06-01", first[0])
	for _, cell := range first[1:] {
		assert.Empty(t, cell)
	}
}

func TestGetMetadataIncludesHabits(t *testing.T) {
	h := NewExportHandler(featureFixture(), time.UTC)
	router := gin.New()
	router.GET("/features/metadata", h.GetMetadata)

	w := performRequest(router, http.MethodGet, "/features/metadata?start=2025-06-01&end=2025-06-03", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Features []models.FeatureMeta `json:"features"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	keys := make(map[string]bool)
	for _, meta := range body.Features {
		keys[meta.Key] = true
	}
	assert.True(t, keys["sleep_hours"])
	assert.True(t, keys["coffee_count"])
}

func TestRawSamplesInvalidMetric(t *testing.T) {
	router := gin.New()
	h := NewRawHandler(nil)
	router.GET("/raw/samples", h.GetSamples)

	w := performRequest(router, http.MethodGet, "/raw/samples?metric=unknown&start=2025-06-01&end=2025-06-02", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
