package export

import (
	"fmt"
	"image/color"
	"regexp"
	"strings"
)

// The print theme ships as CSS-ish declarations because that is how the
// inspection form's design system expresses them. The raster engine only
// understands plain hex colors, so before capture every modern color-function
// occurrence is rewritten to its opaque fallback and the originals are put
// back verbatim once the capture finishes, success or failure.

// styleSheet is the live print stylesheet: rule name -> declaration text.
type styleSheet map[string]string

func defaultStyleSheet() styleSheet {
	return styleSheet{
		"page.background": "oklch(0.985 0.001 106.423)", // stone-50
		"page.text":       "oklch(0.216 0.006 56.043)",  // stone-900
		"page.surface":    "#ffffff",

		"header.accent":  "oklch(0.712 0.194 13.428)", // rose-400
		"header.subtext": "#78716c",

		"section.border": "oklch(0.923 0.003 48.717)", // stone-200
		"card.border":    "oklch(0.97 0.001 106.424)", // stone-100
		"muted.text":     "#a8a29e",

		"severity.low":    "#facc15",
		"severity.medium": "#f97316",
		"severity.high":   "#dc2626",

		"badge.pass.bg":   "#f0fdf4",
		"badge.pass.text": "#16a34a",
		"badge.fail.bg":   "#fef2f2",
		"badge.fail.text": "#dc2626",
	}
}

var colorFunctionRE = regexp.MustCompile(`(?:oklch|oklab|lch|lab|color)\([^)]*\)`)

// Opaque fallbacks for the color functions the design system uses, keyed by
// the exact function text. Anything unknown falls back to plain white.
var colorFunctionFallbacks = map[string]string{
	"oklch(0.985 0.001 106.423)": "#fafaf9",
	"oklch(0.216 0.006 56.043)":  "#292524",
	"oklch(0.712 0.194 13.428)":  "#fb7185",
	"oklch(0.923 0.003 48.717)":  "#e7e5e4",
	"oklch(0.97 0.001 106.424)":  "#f5f5f4",
}

const neutralFallback = "#ffffff"

// neutralizeColorFunctions rewrites every color-function occurrence in the
// sheet to a plain opaque hex value and returns a restore func that puts the
// original declarations back verbatim. Callers must run restore on every exit
// path; capture must not leave lasting edits on the live sheet.
func neutralizeColorFunctions(sheet styleSheet) (restore func()) {
	saved := make(map[string]string)
	for name, decl := range sheet {
		if !colorFunctionRE.MatchString(decl) {
			continue
		}
		saved[name] = decl
		sheet[name] = colorFunctionRE.ReplaceAllStringFunc(decl, func(fn string) string {
			if hex, ok := colorFunctionFallbacks[fn]; ok {
				return hex
			}
			return neutralFallback
		})
	}
	return func() {
		for name, decl := range saved {
			sheet[name] = decl
		}
	}
}

// The export always renders in the light scheme; printed output must not
// depend on the viewer's display mode. Known dark values map to their light
// counterparts by substitution.
var darkToLight = map[string]string{
	"#1c1917": "#fafaf9", // dark page bg -> light page bg
	"#0c0a09": "#ffffff", // dark surface -> white
	"#d6d3d1": "#44403c", // dark-mode muted text -> light-mode muted text
}

func forceLight(hex string) string {
	if light, ok := darkToLight[strings.ToLower(hex)]; ok {
		return light
	}
	return hex
}

// resolvedStyle carries only pre-parsed concrete values. The raster layer
// never interprets style text; everything it could mishandle is resolved
// here, and only this fixed property set is guaranteed faithful.
type resolvedStyle struct {
	PageBackground color.NRGBA
	PageText       color.NRGBA
	Surface        color.NRGBA

	Accent     color.NRGBA
	Subtext    color.NRGBA
	Border     color.NRGBA
	CardBorder color.NRGBA
	MutedText  color.NRGBA

	SeverityLow    color.NRGBA
	SeverityMedium color.NRGBA
	SeverityHigh   color.NRGBA

	PassBg   color.NRGBA
	PassText color.NRGBA
	FailBg   color.NRGBA
	FailText color.NRGBA
}

// resolveStyles freezes the sheet into concrete color values under the forced
// light scheme. It fails if any declaration still holds syntax the raster
// engine would have to interpret, which is exactly what neutralization
// prevents.
func resolveStyles(sheet styleSheet) (*resolvedStyle, error) {
	get := func(name string) (color.NRGBA, error) {
		decl, ok := sheet[name]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("missing style rule %q", name)
		}
		c, err := parseHexColor(forceLight(decl))
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("rule %q: %w", name, err)
		}
		return c, nil
	}

	var (
		rs  resolvedStyle
		err error
	)
	assign := []struct {
		dst  *color.NRGBA
		rule string
	}{
		{&rs.PageBackground, "page.background"},
		{&rs.PageText, "page.text"},
		{&rs.Surface, "page.surface"},
		{&rs.Accent, "header.accent"},
		{&rs.Subtext, "header.subtext"},
		{&rs.Border, "section.border"},
		{&rs.CardBorder, "card.border"},
		{&rs.MutedText, "muted.text"},
		{&rs.SeverityLow, "severity.low"},
		{&rs.SeverityMedium, "severity.medium"},
		{&rs.SeverityHigh, "severity.high"},
		{&rs.PassBg, "badge.pass.bg"},
		{&rs.PassText, "badge.pass.text"},
		{&rs.FailBg, "badge.fail.bg"},
		{&rs.FailText, "badge.fail.text"},
	}
	for _, a := range assign {
		if *a.dst, err = get(a.rule); err != nil {
			return nil, err
		}
	}
	return &rs, nil
}

// SeverityColor maps a damage point severity to its marker color; unknown
// severities render as low.
func (rs *resolvedStyle) SeverityColor(severity string) color.NRGBA {
	switch severity {
	case "high":
		return rs.SeverityHigh
	case "medium":
		return rs.SeverityMedium
	default:
		return rs.SeverityLow
	}
}

func parseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		return color.NRGBA{}, fmt.Errorf("unsupported color syntax %q", s)
	}
	hex := s[1:]
	var r, g, b uint8
	switch len(hex) {
	case 3:
		n, err := fmt.Sscanf(hex, "%1x%1x%1x", &r, &g, &b)
		if err != nil || n != 3 {
			return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
		}
		r, g, b = r*17, g*17, b*17
	case 6:
		n, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b)
		if err != nil || n != 3 {
			return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("bad hex color %q", s)
	}
	return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
}
