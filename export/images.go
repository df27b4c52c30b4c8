package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"net/url"
	"os"
	"strings"

	_ "image/jpeg"
	_ "image/png"

	"github.com/apex/log"
	xdraw "golang.org/x/image/draw"
)

// settledImage is an embedded image after the readiness wait: either decoded
// or settled as broken. Both states count as ready; a broken image renders as
// a placeholder instead of failing the export.
type settledImage struct {
	img image.Image
	ok  bool
}

func settle(dataURI string) settledImage {
	if dataURI == "" {
		return settledImage{}
	}
	img, err := decodeDataURI(dataURI)
	if err != nil {
		log.Warnf("Embedded image failed to decode, rendering placeholder: %v", err)
		return settledImage{}
	}
	return settledImage{img: img, ok: true}
}

func decodeDataURI(s string) (image.Image, error) {
	if !strings.HasPrefix(s, "data:") {
		return nil, fmt.Errorf("not a data URI")
	}
	idx := strings.Index(s, ",")
	if idx < 0 {
		return nil, fmt.Errorf("data URI has no payload")
	}
	meta, payload := s[:idx], s[idx+1:]

	var (
		raw []byte
		err error
	)
	if strings.Contains(meta, ";base64") {
		raw, err = base64.StdEncoding.DecodeString(payload)
	} else {
		var unescaped string
		unescaped, err = url.QueryUnescape(payload)
		raw = []byte(unescaped)
	}
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

func loadImageFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// scaleToFit shrinks an image to fit maxW x maxH preserving aspect ratio;
// images already small enough pass through unscaled.
func scaleToFit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return img
	}
	ratio := float64(maxW) / float64(w)
	if r := float64(maxH) / float64(h); r < ratio {
		ratio = r
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*ratio), int(float64(h)*ratio)))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
