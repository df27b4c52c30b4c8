// Package client drives the report submission flow against the service the
// way the inspection form does: validate locally before any network call,
// allow at most one submission in flight, and keep a cached copy of the
// saved-report listing that refreshes after a successful submit.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"truckcheck/models"
)

// ErrInFlight rejects a submit attempted while another one is pending; the
// caller's form state is untouched and it may retry once the first resolves.
var ErrInFlight = errors.New("a submission is already in flight")

// ValidationError is a pre-network rejection; no request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Client struct {
	baseURL string
	httpc   *http.Client

	inFlight atomic.Bool

	mu        sync.Mutex
	reports   []models.Report
	submitted bool
	lastId    int64
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// NewDamagePoint tags a located annotation the way the damage map widget
// does: percentage offsets into the diagram and a generated id.
func NewDamagePoint(x, y float64, description, severity string) models.DamagePoint {
	return models.DamagePoint{
		Id:          uuid.NewString(),
		X:           x,
		Y:           y,
		Description: description,
		Severity:    severity,
	}
}

func validate(args *models.SubmitReportArgs) error {
	if args.DriverName == "" || args.TruckNumber == "" {
		return &ValidationError{Field: "driver", Message: "يرجى إدخال اسم السائق ورقم المركبة"}
	}
	if args.DriverSignature == "" {
		return &ValidationError{Field: "driverSignature", Message: "يرجى إضافة توقيع السائق"}
	}
	return nil
}

// SubmitReport posts one report and returns the server-assigned id.
// Validation failures never reach the network. On success the cached listing
// is refreshed; on failure the caller keeps its form state and may retry.
func (c *Client) SubmitReport(ctx context.Context, args *models.SubmitReportArgs) (int64, error) {
	if err := validate(args); err != nil {
		return 0, err
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return 0, ErrInFlight
	}
	defer c.inFlight.Store(false)

	body, err := json.Marshal(args)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/reports", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, fmt.Errorf("حدث خطأ أثناء الاتصال بالخادم: %w", err)
	}
	defer resp.Body.Close()

	var result models.SubmitReportResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("فشل في حفظ التقرير: %w", err)
	}
	if resp.StatusCode != http.StatusOK || !result.Success {
		reason := result.Error
		if reason == "" {
			reason = "خطأ غير معروف"
		}
		return 0, fmt.Errorf("فشل في حفظ التقرير: %s", reason)
	}

	c.mu.Lock()
	c.submitted = true
	c.lastId = result.Id
	c.mu.Unlock()

	if err := c.Refresh(ctx); err != nil {
		log.Warnf("Saved report %d but refreshing the listing failed: %v", result.Id, err)
	}
	return result.Id, nil
}

// Refresh re-fetches the saved-report listing into the cache.
func (c *Client) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/api/reports", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("listing request returned %s", resp.Status)
	}
	var reports []models.Report
	if err := json.NewDecoder(resp.Body).Decode(&reports); err != nil {
		return err
	}

	c.mu.Lock()
	c.reports = reports
	c.mu.Unlock()
	return nil
}

// Reports returns the cached listing from the last refresh.
func (c *Client) Reports() []models.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Report, len(c.reports))
	copy(out, c.reports)
	return out
}

// Submitted reports whether a submission has completed successfully.
func (c *Client) Submitted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitted
}

// LastId is the id assigned to the most recent successful submission.
func (c *Client) LastId() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastId
}
