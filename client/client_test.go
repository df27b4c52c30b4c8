package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"truckcheck/models"
)

func validArgs() *models.SubmitReportArgs {
	return &models.SubmitReportArgs{
		DriverName:       "Ali",
		TruckNumber:      "99",
		Date:             "2024-01-01",
		InspectionValues: map[int]bool{1: true},
		ToolValues:       map[int]int{1: 2},
		DriverSignature:  "data:image/png;base64,SIG",
	}
}

func TestValidationNeverSendsARequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	c := New(server.URL)

	testCases := []struct {
		name   string
		mutate func(*models.SubmitReportArgs)
		field  string
	}{
		{"missing driver name", func(a *models.SubmitReportArgs) { a.DriverName = "" }, "driver"},
		{"missing truck number", func(a *models.SubmitReportArgs) { a.TruckNumber = "" }, "driver"},
		{"missing driver signature", func(a *models.SubmitReportArgs) { a.DriverSignature = "" }, "driverSignature"},
	}

	for _, testCase := range testCases {
		args := validArgs()
		testCase.mutate(args)

		_, err := c.SubmitReport(context.Background(), args)
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("%s: expected a ValidationError, got %v", testCase.name, err)
		}
		if validationErr.Field != testCase.field {
			t.Errorf("%s: expected field %q, got %q", testCase.name, testCase.field, validationErr.Field)
		}
		if validationErr.Message == "" {
			t.Errorf("%s: expected a user-facing message", testCase.name)
		}
	}

	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Errorf("Validation failures must not reach the network, got %d requests", n)
	}
}

func TestSubmitWhileInFlightIsRejected(t *testing.T) {
	var submits int32
	release := make(chan struct{})
	arrived := make(chan struct{}, 2)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost:
			atomic.AddInt32(&submits, 1)
			arrived <- struct{}{}
			<-release
			json.NewEncoder(w).Encode(models.SubmitReportResponse{Success: true, Id: 1})
		default:
			w.Write([]byte("[]"))
		}
	}))
	defer server.Close()

	c := New(server.URL)

	done := make(chan error, 1)
	go func() {
		_, err := c.SubmitReport(context.Background(), validArgs())
		done <- err
	}()
	<-arrived

	// Second submit while the first is pending: immediate no-op rejection.
	_, err := c.SubmitReport(context.Background(), validArgs())
	if !errors.Is(err, ErrInFlight) {
		t.Fatalf("Expected ErrInFlight, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("First submission failed: %v", err)
	}
	if n := atomic.LoadInt32(&submits); n != 1 {
		t.Errorf("Expected exactly 1 submit request, got %d", n)
	}

	// Once resolved, the guard releases and submits work again.
	_, err = c.SubmitReport(context.Background(), validArgs())
	if err != nil && !strings.Contains(err.Error(), "خطأ") {
		t.Fatalf("Post-resolution submit failed unexpectedly: %v", err)
	}
}

func TestSubmitSuccessRefreshesListing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var args models.SubmitReportArgs
			if err := json.NewDecoder(r.Body).Decode(&args); err != nil {
				t.Errorf("Bad submit payload: %v", err)
			}
			if args.DriverName != "Ali" || args.TruckNumber != "99" {
				t.Errorf("Payload fields lost in transit: %+v", args)
			}
			json.NewEncoder(w).Encode(models.SubmitReportResponse{Success: true, Id: 7})
			return
		}
		json.NewEncoder(w).Encode([]models.Report{{
			Id:          7,
			DriverName:  "Ali",
			TruckNumber: "99",
			Date:        "2024-01-01",
			CreatedAt:   time.Now(),
		}})
	}))
	defer server.Close()

	c := New(server.URL)
	id, err := c.SubmitReport(context.Background(), validArgs())
	if err != nil {
		t.Fatalf("SubmitReport failed: %v", err)
	}
	if id != 7 || c.LastId() != 7 {
		t.Errorf("Expected id 7, got %d (last %d)", id, c.LastId())
	}
	if !c.Submitted() {
		t.Error("Expected the client to reach the submitted state")
	}
	reports := c.Reports()
	if len(reports) != 1 || reports[0].Id != 7 {
		t.Errorf("Expected the refreshed listing to hold report 7, got %+v", reports)
	}
}

func TestSubmitFailureSurfacesBackendReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.SubmitReportResponse{Success: false, Error: "disk full"})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.SubmitReport(context.Background(), validArgs())
	if err == nil {
		t.Fatal("Expected an error from a 500 response")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Expected the backend reason in the message, got %q", err.Error())
	}
	if c.Submitted() {
		t.Error("A failed submit must not flip the submitted state")
	}
}
