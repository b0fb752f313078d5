package apierror

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	// Set gin to test mode to reduce noise in test output
	gin.SetMode(gin.TestMode)
}

func TestProblemDetailsJSON(t *testing.T) {
	problem := &ProblemDetails{
		Type:        TypeValidation,
		Title:       TitleValidation,
		Status:      http.StatusBadRequest,
		Detail:      "Field validation failed",
		Instance:    "/api/v1/daily/2025-06-02",
		RequestID:   "req-abc123",
		UserMessage: "Please fix the errors",
		Errors: []FieldError{
			{Field: "date", Message: "must be a date in YYYY-MM-DD format", Code: "invalid_date"},
			{Field: "metric_kind", Message: "is not a known metric", Code: "invalid_metric"},
		},
	}

	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatalf("Failed to marshal ProblemDetails: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	if result["type"] != TypeValidation {
		t.Errorf("Expected type=%q, got %q", TypeValidation, result["type"])
	}
	if result["title"] != TitleValidation {
		t.Errorf("Expected title=%q, got %q", TitleValidation, result["title"])
	}
	if result["status"] != float64(http.StatusBadRequest) {
		t.Errorf("Expected status=%d, got %v", http.StatusBadRequest, result["status"])
	}
	if result["instance"] != "/api/v1/daily/2025-06-02" {
		t.Errorf("Expected instance=%q, got %q", "/api/v1/daily/2025-06-02", result["instance"])
	}
	if result["request_id"] != "req-abc123" {
		t.Errorf("Expected request_id=%q, got %q", "req-abc123", result["request_id"])
	}

	errors, ok := result["errors"].([]interface{})
	if !ok || len(errors) != 2 {
		t.Errorf("Expected 2 errors, got %v", result["errors"])
	}
}

func TestProblemDetailsJSONOmitsEmpty(t *testing.T) {
	problem := &ProblemDetails{
		Type:   TypeInternal,
		Title:  TitleInternal,
		Status: http.StatusInternalServerError,
	}

	data, err := json.Marshal(problem)
	if err != nil {
		t.Fatalf("Failed to marshal ProblemDetails: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}

	omittedFields := []string{"detail", "instance", "request_id", "user_message", "retry_after", "errors"}
	for _, field := range omittedFields {
		if _, exists := result[field]; exists {
			t.Errorf("Expected field %q to be omitted when empty, but it was present", field)
		}
	}

	requiredFields := []string{"type", "title", "status"}
	for _, field := range requiredFields {
		if _, exists := result[field]; !exists {
			t.Errorf("Expected required field %q to be present", field)
		}
	}
}

func TestWriteProblemContentType(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteProblem(c, NewInternalError("req-1"))

	if got := w.Header().Get("Content-Type"); got != ContentTypeProblemJSON {
		t.Errorf("Expected Content-Type=%q, got %q", ContentTypeProblemJSON, got)
	}
	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestWriteProblemRetryAfterHeader(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	WriteProblem(c, NewServiceUnavailableError("req-1", 30))

	if got := w.Header().Get("Retry-After"); got != "30" {
		t.Errorf("Expected Retry-After=30, got %q", got)
	}
}

func TestNewInvalidDateError(t *testing.T) {
	problem := NewInvalidDateError("req-1", "date", "02-06-2025")

	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", problem.Status)
	}
	if problem.Type != TypeInvalidDate {
		t.Errorf("Expected type %q, got %q", TypeInvalidDate, problem.Type)
	}
	if len(problem.Errors) != 1 || problem.Errors[0].Field != "date" {
		t.Errorf("Expected one field error on 'date', got %v", problem.Errors)
	}
}

func TestNewInvalidRangeError(t *testing.T) {
	problem := NewInvalidRangeError("req-1", "2025-06-10", "2025-06-01")

	if problem.Status != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", problem.Status)
	}
	if problem.Type != TypeInvalidRange {
		t.Errorf("Expected type %q, got %q", TypeInvalidRange, problem.Type)
	}
}

func TestProblemDetailsError(t *testing.T) {
	withDetail := &ProblemDetails{Title: "T", Detail: "something specific"}
	if withDetail.Error() != "something specific" {
		t.Errorf("Expected detail, got %q", withDetail.Error())
	}

	titleOnly := &ProblemDetails{Title: "T"}
	if titleOnly.Error() != "T" {
		t.Errorf("Expected title, got %q", titleOnly.Error())
	}
}
