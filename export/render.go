package export

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"truckcheck/constants"
	"truckcheck/models"
)

// The print layout is 800 units wide and captured at 2x, matching the form's
// print view. All drawing below works directly in capture pixels.
const (
	layoutWidth  = 800
	captureScale = 2

	canvasWidth = layoutWidth * captureScale
	pagePadding = 40 * captureScale
	contentLeft = pagePadding
	contentW    = canvasWidth - 2*pagePadding
)

// assets holds everything the renderer needs pre-resolved: font faces, the
// truck diagram, and every embedded image already settled and scaled. The
// rasterizer itself never loads or decodes anything.
type assets struct {
	title   font.Face
	heading font.Face
	body    font.Face
	small   font.Face

	truck image.Image // nil renders a placeholder box

	signatures [4]settledImage // driver, equipment, logistics, warehouse
	toolImages map[int][]settledImage
}

func loadFontFace(path string, size float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func loadFaces(fontPath string) (title, heading, body, small font.Face) {
	fallback := basicfont.Face7x13
	if fontPath == "" {
		return fallback, fallback, fallback, fallback
	}
	load := func(size float64) font.Face {
		face, err := loadFontFace(fontPath, size*captureScale)
		if err != nil {
			return fallback
		}
		return face
	}
	return load(26), load(17), load(13), load(10)
}

const (
	maxImageW = 520 * captureScale
	maxImageH = 300 * captureScale
)

// loadAssets performs the readiness wait: every embedded image is decoded
// (or settled broken) and scaled before any layout happens, so the capture
// never sees a partially loaded image.
func (e *Exporter) loadAssets(report *models.Report) (*assets, error) {
	a := &assets{toolImages: map[int][]settledImage{}}
	a.title, a.heading, a.body, a.small = loadFaces(e.fontPath)

	if e.truckImagePath != "" {
		truck, err := loadImageFile(e.truckImagePath)
		if err != nil {
			return nil, fmt.Errorf("load truck diagram: %w", err)
		}
		a.truck = scaleToFit(truck, contentW, contentW)
	}

	for i, sig := range []string{
		report.DriverSignature,
		report.EquipmentManagerSignature,
		report.LogisticsManagerSignature,
		report.WarehouseManagerSignature,
	} {
		s := settle(sig)
		if s.ok {
			s.img = scaleToFit(s.img, 180*captureScale, 90*captureScale)
		}
		a.signatures[i] = s
	}

	for toolId, uris := range report.ToolImageMap() {
		for _, uri := range uris {
			s := settle(uri)
			if s.ok {
				s.img = scaleToFit(s.img, maxImageW, maxImageH)
			}
			a.toolImages[toolId] = append(a.toolImages[toolId], s)
		}
	}
	return a, nil
}

func imageH(s settledImage) int {
	if !s.ok {
		return 100 * captureScale // placeholder box
	}
	return s.img.Bounds().Dy()
}

// estimateHeight sizes the working canvas; every block's maximum extent is
// known up front because images are pre-scaled.
func estimateHeight(report *models.Report, a *assets) int {
	h := 300 * captureScale // header + info grid

	if a.truck != nil {
		h += a.truck.Bounds().Dy() + 80*captureScale
	} else {
		h += 380 * captureScale
	}

	points := report.DamagePointList()
	h += 60*captureScale + len(points)*70*captureScale

	h += 60*captureScale + len(constants.WeeklyInspectionItems)*34*captureScale

	h += 60 * captureScale
	for _, item := range constants.ToolInventoryItems {
		h += 40 * captureScale
		for _, img := range a.toolImages[item.Id] {
			h += imageH(img) + 20*captureScale
		}
	}

	h += 260 * captureScale // signatures + footer
	h += 200 * captureScale // slack for wrapped descriptions
	return h
}

type renderer struct {
	dc     *gg.Context
	style  *resolvedStyle
	assets *assets
	y      float64
}

// renderReport lays out the print view and rasterizes it at the capture
// scale, returning the full-extent raster rather than any viewport.
func renderReport(report *models.Report, a *assets, style *resolvedStyle) (image.Image, error) {
	dc := gg.NewContext(canvasWidth, estimateHeight(report, a))
	dc.SetColor(style.PageBackground)
	dc.Clear()

	r := &renderer{dc: dc, style: style, assets: a, y: pagePadding}

	r.drawHeader(report)
	r.drawInfoGrid(report)
	r.drawDiagram(report)
	r.drawDamageList(report)
	r.drawInspection(report)
	r.drawTools(report)
	r.drawSignatures(report)
	r.drawFooter(report)

	bottom := int(r.y) + pagePadding
	full := dc.Image().(*image.RGBA)
	if bottom > full.Bounds().Dy() {
		bottom = full.Bounds().Dy()
	}
	return full.SubImage(image.Rect(0, 0, canvasWidth, bottom)), nil
}

func (r *renderer) px(v float64) float64 { return v * captureScale }

// rtext draws right-aligned text, the reading direction of the report.
func (r *renderer) rtext(s string, face font.Face, c color.Color, xRight, y float64) {
	r.dc.SetFontFace(face)
	r.dc.SetColor(c)
	r.dc.DrawStringAnchored(s, xRight, y, 1, 0.5)
}

func (r *renderer) ltext(s string, face font.Face, c color.Color, xLeft, y float64) {
	r.dc.SetFontFace(face)
	r.dc.SetColor(c)
	r.dc.DrawStringAnchored(s, xLeft, y, 0, 0.5)
}

func (r *renderer) sectionTitle(title string) {
	r.y += r.px(24)
	// Accent bar on the right edge, title beside it.
	r.dc.SetColor(r.style.Accent)
	r.dc.DrawRectangle(float64(canvasWidth-contentLeft)-r.px(4), r.y-r.px(12), r.px(4), r.px(24))
	r.dc.Fill()
	r.rtext(title, r.assets.heading, r.style.PageText, float64(canvasWidth-contentLeft)-r.px(12), r.y)
	r.y += r.px(30)
}

func (r *renderer) drawHeader(report *models.Report) {
	right := float64(canvasWidth - contentLeft)
	r.rtext("الحسني هوم سنتر", r.assets.title, r.style.PageText, right, r.y+r.px(16))
	r.rtext("ALHASANI HOME CENTER", r.assets.body, r.style.Subtext, right, r.y+r.px(44))

	r.ltext("تقرير فحص المركبة", r.assets.heading, r.style.Accent, contentLeft, r.y+r.px(16))
	r.ltext(fmt.Sprintf("#%05d", report.Id), r.assets.body, r.style.MutedText, contentLeft, r.y+r.px(44))

	r.y += r.px(70)
	r.dc.SetColor(r.style.Accent)
	r.dc.DrawRectangle(contentLeft, r.y, contentW, r.px(3))
	r.dc.Fill()
	r.y += r.px(16)
}

func (r *renderer) drawInfoGrid(report *models.Report) {
	boxH := r.px(56)
	r.dc.SetColor(r.style.Surface)
	r.dc.DrawRoundedRectangle(contentLeft, r.y, contentW, boxH, r.px(8))
	r.dc.Fill()
	r.dc.SetColor(r.style.Border)
	r.dc.SetLineWidth(captureScale)
	r.dc.DrawRoundedRectangle(contentLeft, r.y, contentW, boxH, r.px(8))
	r.dc.Stroke()

	cellW := float64(contentW) / 3
	cells := []struct{ label, value string }{
		{"السائق", report.DriverName},
		{"رقم المركبة", report.TruckNumber},
		{"التاريخ", report.Date},
	}
	// Cells run right to left.
	for i, cell := range cells {
		xRight := float64(canvasWidth-contentLeft) - float64(i)*cellW - r.px(12)
		r.rtext(cell.label, r.assets.small, r.style.MutedText, xRight, r.y+r.px(16))
		r.rtext(cell.value, r.assets.body, r.style.PageText, xRight, r.y+r.px(38))
	}
	r.y += boxH
}

func (r *renderer) drawDiagram(report *models.Report) {
	r.sectionTitle("مخطط أضرار المركبة")

	var w, h float64
	if r.assets.truck != nil {
		b := r.assets.truck.Bounds()
		w, h = float64(b.Dx()), float64(b.Dy())
		x := contentLeft + (contentW-w)/2
		r.dc.DrawImage(r.assets.truck, int(x), int(r.y))

		r.drawMarkers(report.DamagePointList(), x, r.y, w, h)
	} else {
		w, h = contentW, r.px(320)
		r.dc.SetColor(r.style.Surface)
		r.dc.DrawRoundedRectangle(contentLeft, r.y, w, h, r.px(12))
		r.dc.Fill()
		r.dc.SetColor(r.style.Border)
		r.dc.SetLineWidth(2 * captureScale)
		r.dc.DrawRoundedRectangle(contentLeft, r.y, w, h, r.px(12))
		r.dc.Stroke()
		r.dc.SetFontFace(r.assets.body)
		r.dc.SetColor(r.style.MutedText)
		r.dc.DrawStringAnchored("مخطط المركبة", contentLeft+w/2, r.y+h/2, 0.5, 0.5)

		r.drawMarkers(report.DamagePointList(), contentLeft, r.y, w, h)
	}
	r.y += h + r.px(8)
}

// drawMarkers places numbered severity-colored dots at each point's
// percentage offsets into the diagram box.
func (r *renderer) drawMarkers(points []models.DamagePoint, x, y, w, h float64) {
	radius := r.px(9)
	for i, p := range points {
		cx := x + p.X/100*w
		cy := y + p.Y/100*h
		r.dc.SetColor(r.style.SeverityColor(p.Severity))
		r.dc.DrawCircle(cx, cy, radius)
		r.dc.Fill()
		r.dc.SetColor(r.style.Surface)
		r.dc.SetLineWidth(2 * captureScale)
		r.dc.DrawCircle(cx, cy, radius)
		r.dc.Stroke()
		r.dc.SetFontFace(r.assets.small)
		r.dc.DrawStringAnchored(fmt.Sprintf("%d", i+1), cx, cy, 0.5, 0.5)
	}
}

func (r *renderer) drawDamageList(report *models.Report) {
	r.sectionTitle("أضرار المركبة الموثقة")

	points := report.DamagePointList()
	if len(points) == 0 {
		r.rtext("لا توجد أضرار مسجلة", r.assets.body, r.style.MutedText,
			float64(canvasWidth-contentLeft), r.y+r.px(8))
		r.y += r.px(30)
		return
	}

	severityLabels := map[string]string{
		"high":   "كبير",
		"medium": "متوسط",
		"low":    "بسيط",
	}
	for i, p := range points {
		rowH := r.px(34)
		r.dc.SetColor(r.style.Surface)
		r.dc.DrawRoundedRectangle(contentLeft, r.y, contentW, rowH, r.px(6))
		r.dc.Fill()
		r.dc.SetColor(r.style.CardBorder)
		r.dc.SetLineWidth(captureScale)
		r.dc.DrawRoundedRectangle(contentLeft, r.y, contentW, rowH, r.px(6))
		r.dc.Stroke()

		mid := r.y + rowH/2
		right := float64(canvasWidth-contentLeft) - r.px(10)
		r.rtext(fmt.Sprintf("#%d", i+1), r.assets.body, r.style.MutedText, right, mid)

		label := severityLabels[p.Severity]
		if label == "" {
			label = p.Severity
		}
		badgeRight := right - r.px(40)
		r.dc.SetColor(r.style.SeverityColor(p.Severity))
		r.dc.DrawRoundedRectangle(badgeRight-r.px(52), mid-r.px(10), r.px(52), r.px(20), r.px(10))
		r.dc.Fill()
		r.rtext(label, r.assets.small, r.style.Surface, badgeRight-r.px(8), mid)

		r.rtext(p.Description, r.assets.body, r.style.PageText, badgeRight-r.px(64), mid)
		r.y += rowH + r.px(8)
	}
}

func (r *renderer) drawInspection(report *models.Report) {
	r.sectionTitle("نتائج الفحص الأسبوعي")

	values := report.InspectionMap()
	for _, item := range constants.WeeklyInspectionItems {
		rowH := r.px(26)
		mid := r.y + rowH/2

		r.dc.SetColor(r.style.CardBorder)
		r.dc.DrawRectangle(contentLeft, r.y+rowH, contentW, captureScale)
		r.dc.Fill()

		right := float64(canvasWidth-contentLeft) - r.px(6)
		r.rtext(fmt.Sprintf("%02d", item.Id), r.assets.small, r.style.MutedText, right, mid)
		r.rtext(item.Label, r.assets.body, r.style.PageText, right-r.px(36), mid)

		passed := values[item.Id]
		bg, fg, label := r.style.FailBg, r.style.FailText, "✗ غير سليم"
		if passed {
			bg, fg, label = r.style.PassBg, r.style.PassText, "✓ سليم"
		}
		r.dc.SetColor(bg)
		r.dc.DrawRoundedRectangle(contentLeft+r.px(6), mid-r.px(10), r.px(84), r.px(20), r.px(10))
		r.dc.Fill()
		r.ltext(label, r.assets.small, fg, contentLeft+r.px(14), mid)

		r.y += rowH + r.px(6)
	}
}

func (r *renderer) drawTools(report *models.Report) {
	r.sectionTitle("جرد العدة والمواد")

	counts := report.ToolCountMap()
	for _, item := range constants.ToolInventoryItems {
		rowH := r.px(30)
		mid := r.y + rowH/2

		r.dc.SetColor(r.style.Surface)
		r.dc.DrawRoundedRectangle(contentLeft, r.y, contentW, rowH, r.px(6))
		r.dc.Fill()
		r.dc.SetColor(r.style.CardBorder)
		r.dc.SetLineWidth(captureScale)
		r.dc.DrawRoundedRectangle(contentLeft, r.y, contentW, rowH, r.px(6))
		r.dc.Stroke()

		right := float64(canvasWidth-contentLeft) - r.px(10)
		r.rtext(item.Name, r.assets.body, r.style.PageText, right, mid)

		available := counts[item.Id]
		fg := r.style.PassText
		if available < item.Quantity {
			fg = r.style.FailText
		}
		r.ltext(fmt.Sprintf("المطلوب: %d", item.Quantity), r.assets.small, r.style.MutedText, contentLeft+r.px(10), mid)
		r.ltext(fmt.Sprintf("المتوفر: %d", available), r.assets.small, fg, contentLeft+r.px(110), mid)

		r.y += rowH + r.px(6)

		for _, img := range r.assets.toolImages[item.Id] {
			r.drawSettledImage(img)
		}
	}
}

func (r *renderer) drawSettledImage(s settledImage) {
	if !s.ok {
		h := r.px(100)
		r.dc.SetColor(r.style.CardBorder)
		r.dc.DrawRoundedRectangle(contentLeft+r.px(20), r.y, contentW-r.px(40), h, r.px(6))
		r.dc.Fill()
		r.dc.SetFontFace(r.assets.small)
		r.dc.SetColor(r.style.MutedText)
		r.dc.DrawStringAnchored("تعذر تحميل الصورة", contentLeft+contentW/2, r.y+h/2, 0.5, 0.5)
		r.y += h + r.px(10)
		return
	}
	b := s.img.Bounds()
	x := contentLeft + (contentW-float64(b.Dx()))/2
	r.dc.DrawImage(s.img, int(x), int(r.y))
	r.y += float64(b.Dy()) + r.px(10)
}

func (r *renderer) drawSignatures(report *models.Report) {
	r.y += r.px(16)
	r.dc.SetColor(r.style.CardBorder)
	r.dc.DrawRectangle(contentLeft, r.y, contentW, captureScale)
	r.dc.Fill()
	r.y += r.px(20)

	labels := []string{
		"اسم وتوقيع السائق",
		"مسؤول قسم التجهيز",
		"مدير قسم اللوجستك",
		"مدير المخازن",
	}
	boxW := float64(contentW) / 4
	boxH := r.px(96)
	for i, label := range labels {
		// Boxes run right to left.
		xRight := float64(canvasWidth-contentLeft) - float64(i)*boxW
		cx := xRight - boxW/2
		r.dc.SetFontFace(r.assets.small)
		r.dc.SetColor(r.style.MutedText)
		r.dc.DrawStringAnchored(label, cx, r.y+r.px(8), 0.5, 0.5)

		sig := r.assets.signatures[i]
		if sig.ok {
			b := sig.img.Bounds()
			r.dc.DrawImage(sig.img, int(cx-float64(b.Dx())/2), int(r.y+r.px(20)))
		}
		r.dc.SetColor(r.style.Border)
		r.dc.DrawRectangle(xRight-boxW+r.px(10), r.y+boxH-r.px(4), boxW-r.px(20), captureScale)
		r.dc.Fill()
	}
	r.y += boxH + r.px(10)

	r.rtext(report.DriverName, r.assets.small, r.style.MutedText,
		float64(canvasWidth-contentLeft)-boxW/2+r.px(40), r.y)
	r.y += r.px(16)
}

func (r *renderer) drawFooter(report *models.Report) {
	r.y += r.px(20)
	r.dc.SetColor(r.style.CardBorder)
	r.dc.DrawRectangle(contentLeft, r.y, contentW, captureScale)
	r.dc.Fill()
	r.y += r.px(16)

	r.rtext("تم إنشاء هذا التقرير إلكترونياً عبر نظام الحسني هوم سنتر",
		r.assets.small, r.style.MutedText, float64(canvasWidth-contentLeft), r.y)
	r.ltext(report.CreatedAt.Format("2006-01-02 15:04"),
		r.assets.small, r.style.MutedText, contentLeft, r.y)
	r.y += r.px(10)
}
