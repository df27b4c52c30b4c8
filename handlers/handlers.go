// Package handlers exposes the report HTTP API. Responses use the
// success/error envelope the inspection form expects; backend failures are
// reported, never propagated as crashes.
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"

	"truckcheck/database"
	"truckcheck/export"
	"truckcheck/models"
)

type ReportsHandler struct {
	store    *database.Store
	exporter *export.Exporter
}

func NewReportsHandler(store *database.Store, exporter *export.Exporter) *ReportsHandler {
	return &ReportsHandler{store: store, exporter: exporter}
}

// Router wires the API surface onto a fresh gin engine.
func (h *ReportsHandler) Router() *gin.Engine {
	router := gin.Default()

	router.POST("/api/reports", h.CreateReport)
	router.GET("/api/reports", h.ListReports)
	router.GET("/api/reports/:id", h.GetReport)
	router.GET("/api/reports/:id/pdf", h.ExportReportPDF)
	router.GET("/health", h.Health)

	return router
}

func (h *ReportsHandler) CreateReport(c *gin.Context) {
	var args models.SubmitReportArgs
	if err := c.ShouldBindJSON(&args); err != nil {
		log.Warnf("Failed to read /api/reports payload: %v", err)
		c.JSON(http.StatusInternalServerError, models.SubmitReportResponse{
			Error: "Could not read JSON input.",
		})
		return
	}

	id, err := h.store.CreateReport(c.Request.Context(), &args)
	if err != nil {
		log.Errorf("Failed to save report: %v", err)
		c.JSON(http.StatusInternalServerError, models.SubmitReportResponse{
			Error: "Failed to save report",
		})
		return
	}

	log.Infof("Saved report %d for truck %s", id, args.TruckNumber)
	c.JSON(http.StatusOK, models.SubmitReportResponse{Success: true, Id: id})
}

func (h *ReportsHandler) ListReports(c *gin.Context) {
	reports, err := h.store.ListReports(c.Request.Context())
	if err != nil {
		log.Errorf("Failed to fetch reports: %v", err)
		c.JSON(http.StatusInternalServerError, models.SubmitReportResponse{
			Error: "Failed to fetch reports",
		})
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	c.JSON(http.StatusOK, reports)
}

func (h *ReportsHandler) GetReport(c *gin.Context) {
	report, ok := h.lookupReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, report)
}

// ExportReportPDF renders the stored report server side and streams the
// document as an attachment. A second export while one runs is refused, not
// queued.
func (h *ReportsHandler) ExportReportPDF(c *gin.Context) {
	report, ok := h.lookupReport(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exporter.ExportPDF(c.Request.Context(), report, &buf); err != nil {
		if errors.Is(err, export.ErrExportInProgress) {
			c.JSON(http.StatusConflict, models.SubmitReportResponse{
				Error: "An export is already in progress",
			})
			return
		}
		log.Errorf("Failed to export report %d: %v", report.Id, err)
		c.JSON(http.StatusInternalServerError, models.SubmitReportResponse{
			Error: "Failed to export report",
		})
		return
	}

	// RFC 5987 encoding keeps Arabic truck identifiers intact in the header.
	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename*=UTF-8''%s", url.PathEscape(export.Filename(report))))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *ReportsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"backend": h.store.Kind(),
	})
}

func (h *ReportsHandler) lookupReport(c *gin.Context) (*models.Report, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.SubmitReportResponse{
			Error: "Invalid report id",
		})
		return nil, false
	}

	report, err := h.store.GetReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			c.JSON(http.StatusNotFound, models.SubmitReportResponse{
				Error: "Report not found",
			})
			return nil, false
		}
		log.Errorf("Failed to fetch report %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, models.SubmitReportResponse{
			Error: "Failed to fetch report",
		})
		return nil, false
	}
	return report, true
}
