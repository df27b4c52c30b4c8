package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"truckcheck/config"
	"truckcheck/database"
	"truckcheck/export"
	"truckcheck/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memBackend keeps reports in process memory so handler tests exercise the
// full store path without a database.
type memBackend struct {
	reports []models.Report
	failAll bool
}

func (m *memBackend) Kind() database.Kind { return database.KindMySQL }

func (m *memBackend) Init(ctx context.Context) error { return nil }

func (m *memBackend) CreateReport(ctx context.Context, args *models.SubmitReportArgs) (int64, error) {
	if m.failAll {
		return 0, fmt.Errorf("connection lost")
	}
	id := int64(len(m.reports) + 1)
	m.reports = append(m.reports, models.Report{
		Id:               id,
		DriverName:       args.DriverName,
		TruckNumber:      args.TruckNumber,
		Date:             args.Date,
		DamagePoints:     args.DamagePoints,
		InspectionValues: args.InspectionValues,
		ToolValues:       args.ToolValues,
		ToolImages:       args.ToolImages,
		DriverSignature:  args.DriverSignature,
		CreatedAt:        time.Now().UTC(),
	})
	return id, nil
}

func (m *memBackend) GetReport(ctx context.Context, id int64) (*models.Report, error) {
	if m.failAll {
		return nil, fmt.Errorf("connection lost")
	}
	for i := range m.reports {
		if m.reports[i].Id == id {
			return &m.reports[i], nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *memBackend) ListReports(ctx context.Context) ([]models.Report, error) {
	if m.failAll {
		return nil, fmt.Errorf("connection lost")
	}
	out := make([]models.Report, len(m.reports))
	for i := range m.reports {
		out[len(m.reports)-1-i] = m.reports[i]
	}
	return out, nil
}

func (m *memBackend) Close() error { return nil }

func newTestRouter(backend database.Backend) *gin.Engine {
	store := database.NewStoreWithBackend(backend)
	exporter := export.NewExporter(&config.Config{})
	return NewReportsHandler(store, exporter).Router()
}

func submitBody() string {
	return `{
		"driverName": "Ali",
		"truckNumber": "99",
		"date": "2024-01-01",
		"damagePoints": [],
		"inspectionValues": {"1": true},
		"toolValues": {"1": 1},
		"toolImages": {},
		"driverSignature": "data:image/png;base64,sig"
	}`
}

func TestSubmitThenListRoundTrip(t *testing.T) {
	router := newTestRouter(&memBackend{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp models.SubmitReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if !resp.Success || resp.Id != 1 {
		t.Errorf("Expected {success:true, id:1}, got %+v", resp)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("List failed with %d", w.Code)
	}
	var listing []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &listing); err != nil {
		t.Fatalf("Bad listing body: %v", err)
	}
	if len(listing) != 1 {
		t.Fatalf("Expected 1 report, got %d", len(listing))
	}
	if listing[0]["driverName"] != "Ali" || listing[0]["truckNumber"] != "99" {
		t.Errorf("Submitted record not present in listing: %v", listing[0])
	}
	inspection, ok := listing[0]["inspectionValues"].(map[string]any)
	if !ok || inspection["1"] != true {
		t.Errorf("Inspection values lost in round trip: %v", listing[0]["inspectionValues"])
	}
}

func TestSubmitMalformedJSON(t *testing.T) {
	router := newTestRouter(&memBackend{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 for malformed input, got %d", w.Code)
	}
	var resp models.SubmitReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.Success || resp.Error == "" {
		t.Errorf("Expected an error envelope, got %+v", resp)
	}
}

func TestSubmitStorageFailure(t *testing.T) {
	router := newTestRouter(&memBackend{failAll: true})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500 on storage failure, got %d", w.Code)
	}
	var resp models.SubmitReportResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Bad response body: %v", err)
	}
	if resp.Success {
		t.Error("Storage failure must not report success")
	}
}

func TestGetReportNotFound(t *testing.T) {
	router := newTestRouter(&memBackend{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports/42", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing report, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a non-numeric id, got %d", w.Code)
	}
}

func TestExportReportPDFEndpoint(t *testing.T) {
	backend := &memBackend{}
	router := newTestRouter(backend)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(submitBody()))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Submit failed with %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/reports/1/pdf", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Export failed with %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "report-99-2024-01-01.pdf") {
		t.Errorf("Unexpected disposition %q", cd)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("Export body is not a PDF document")
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&memBackend{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("Health failed with %d", w.Code)
	}
	var status map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("Bad health body: %v", err)
	}
	if status["status"] != "ok" || status["backend"] != "mysql" {
		t.Errorf("Unexpected health payload: %v", status)
	}
}
