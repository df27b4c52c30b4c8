package export

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// A4 portrait with a fixed margin on every side. The raster is fitted to the
// usable width, which fixes the pixels-per-millimeter ratio and therefore how
// many source rows fit one page.
const (
	pageWidthMM  = 210.0
	pageHeightMM = 297.0
	pageMarginMM = 10.0

	jpegQuality = 90
)

// rowsPerPage is the number of raster rows that fill one page's usable
// height at the ratio implied by fitting rasterWidth to the usable width.
func rowsPerPage(rasterWidth int) int {
	pxPerMM := float64(rasterWidth) / (pageWidthMM - 2*pageMarginMM)
	return int((pageHeightMM - 2*pageMarginMM) * pxPerMM)
}

// sliceRanges walks the raster top to bottom in bands of rows rows each; the
// final band may be shorter. The ranges tile [0, height) exactly, so no
// content can be cropped at a page boundary.
func sliceRanges(height, rows int) [][2]int {
	if height <= 0 || rows <= 0 {
		return nil
	}
	ranges := make([][2]int, 0, (height+rows-1)/rows)
	for top := 0; top < height; top += rows {
		bottom := top + rows
		if bottom > height {
			bottom = height
		}
		ranges = append(ranges, [2]int{top, bottom})
	}
	return ranges
}

func sliceImage(img image.Image, top, bottom int) image.Image {
	b := img.Bounds()
	r := image.Rect(b.Min.X, b.Min.Y+top, b.Max.X, b.Min.Y+bottom)
	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	if si, ok := img.(subImager); ok {
		return si.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), bottom-top))
	draw.Draw(dst, dst.Bounds(), img, image.Pt(b.Min.X, b.Min.Y+top), draw.Src)
	return dst
}

// writePDF places one slice per page at the margin offset.
func writePDF(raster image.Image, w io.Writer) error {
	b := raster.Bounds()
	usableW := pageWidthMM - 2*pageMarginMM
	pxPerMM := float64(b.Dx()) / usableW

	pdf := gofpdf.New("P", "mm", "A4", "")
	opts := gofpdf.ImageOptions{ImageType: "JPEG"}

	for i, r := range sliceRanges(b.Dy(), rowsPerPage(b.Dx())) {
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, sliceImage(raster, r[0], r[1]), &jpeg.Options{Quality: jpegQuality}); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}

		pdf.AddPage()
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		sliceH := float64(r[1]-r[0]) / pxPerMM
		pdf.ImageOptions(name, pageMarginMM, pageMarginMM, usableW, sliceH, false, opts, 0, "")
	}

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.Output(w)
}
