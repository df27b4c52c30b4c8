// Package export turns a stored inspection report into a paginated A4 PDF.
// The print layout is rasterized once at 2x and the tall raster is cut into
// page-height slices, so content is never cropped at a page boundary; keeping
// a logical section on one page is a layout-time hint, not a slicing concern.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sync/atomic"

	"github.com/apex/log"

	"truckcheck/config"
	"truckcheck/models"
)

// ErrExportInProgress rejects a second export started while one is running;
// the trigger is supposed to be disabled, so this is a guard, not a queue.
var ErrExportInProgress = errors.New("an export is already running")

type Exporter struct {
	sheet          styleSheet
	fontPath       string
	truckImagePath string

	exporting atomic.Bool
}

func NewExporter(cfg *config.Config) *Exporter {
	return &Exporter{
		sheet:          defaultStyleSheet(),
		fontPath:       cfg.FontPath,
		truckImagePath: cfg.TruckImagePath,
	}
}

// ExportPDF renders one report into w. The live stylesheet is neutralized
// for the duration of the capture and restored on every exit path, including
// failures.
func (e *Exporter) ExportPDF(ctx context.Context, report *models.Report, w io.Writer) error {
	if !e.exporting.CompareAndSwap(false, true) {
		return ErrExportInProgress
	}
	defer e.exporting.Store(false)

	log.Infof("Exporting report %d to PDF", report.Id)

	a, err := e.loadAssets(report)
	if err != nil {
		return fmt.Errorf("prepare export assets: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	restore := neutralizeColorFunctions(e.sheet)
	defer restore()

	style, err := resolveStyles(e.sheet)
	if err != nil {
		return fmt.Errorf("resolve print styles: %w", err)
	}

	raster, err := renderReport(report, a, style)
	if err != nil {
		return fmt.Errorf("rasterize report: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := writePDF(raster, w); err != nil {
		return fmt.Errorf("paginate pdf: %w", err)
	}
	return nil
}

// Letters, digits, the Arabic block, underscore and hyphen survive; every
// other rune is path-breaking and dropped.
var filenameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9\x{0600}-\x{06FF}_-]`)

// Filename derives report-<truck>-<date>.pdf from the sanitized truck
// identifier.
func Filename(report *models.Report) string {
	truck := filenameUnsafe.ReplaceAllString(report.TruckNumber, "")
	return fmt.Sprintf("report-%s-%s.pdf", truck, report.Date)
}
