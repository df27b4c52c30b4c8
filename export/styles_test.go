package export

import (
	"image/color"
	"reflect"
	"testing"
)

func snapshot(sheet styleSheet) styleSheet {
	out := make(styleSheet, len(sheet))
	for k, v := range sheet {
		out[k] = v
	}
	return out
}

func TestNeutralizeReplacesEveryColorFunction(t *testing.T) {
	sheet := defaultStyleSheet()
	original := snapshot(sheet)

	restore := neutralizeColorFunctions(sheet)

	for name, decl := range sheet {
		if colorFunctionRE.MatchString(decl) {
			t.Errorf("Rule %q still holds a color function after neutralization: %q", name, decl)
		}
	}
	if _, err := resolveStyles(sheet); err != nil {
		t.Errorf("Neutralized sheet must resolve cleanly: %v", err)
	}

	restore()
	if !reflect.DeepEqual(sheet, original) {
		t.Error("Restore did not put the original declarations back verbatim")
	}
}

func TestNeutralizeUnknownFunctionFallsBackToOpaque(t *testing.T) {
	sheet := styleSheet{"x": "lab(52.2% 40.1 59.9)"}
	restore := neutralizeColorFunctions(sheet)
	defer restore()

	if sheet["x"] != neutralFallback {
		t.Errorf("Unknown color function should neutralize to %q, got %q", neutralFallback, sheet["x"])
	}
}

func TestResolveRejectsUnneutralizedSyntax(t *testing.T) {
	if _, err := resolveStyles(defaultStyleSheet()); err == nil {
		t.Error("The raster layer must never receive unresolved color functions")
	}
}

func TestResolveForcesLightScheme(t *testing.T) {
	sheet := defaultStyleSheet()
	restore := neutralizeColorFunctions(sheet)
	defer restore()

	// Viewer in dark mode: surfaces resolved to known dark values.
	sheet["page.surface"] = "#0c0a09"
	sheet["page.background"] = "#1c1917"

	style, err := resolveStyles(sheet)
	if err != nil {
		t.Fatalf("resolveStyles failed: %v", err)
	}
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if style.Surface != white {
		t.Errorf("Dark surface must remap to white, got %+v", style.Surface)
	}
	lightBg := color.NRGBA{R: 0xfa, G: 0xfa, B: 0xf9, A: 0xff}
	if style.PageBackground != lightBg {
		t.Errorf("Dark page background must remap to its light counterpart, got %+v", style.PageBackground)
	}
}

func TestParseHexColor(t *testing.T) {
	testCases := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{"#dc2626", color.NRGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff}, false},
		{"#fff", color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, false},
		{"oklch(0.5 0.1 120)", color.NRGBA{}, true},
		{"#zzz", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}
	for _, testCase := range testCases {
		got, err := parseHexColor(testCase.in)
		if (err != nil) != testCase.wantErr {
			t.Errorf("parseHexColor(%q) error = %v, wantErr %v", testCase.in, err, testCase.wantErr)
			continue
		}
		if err == nil && got != testCase.want {
			t.Errorf("parseHexColor(%q) = %+v, want %+v", testCase.in, got, testCase.want)
		}
	}
}

func TestSeverityColorDefaultsToLow(t *testing.T) {
	sheet := defaultStyleSheet()
	restore := neutralizeColorFunctions(sheet)
	defer restore()

	style, err := resolveStyles(sheet)
	if err != nil {
		t.Fatalf("resolveStyles failed: %v", err)
	}
	if style.SeverityColor("high") != style.SeverityHigh {
		t.Error("high severity mapped wrong")
	}
	if style.SeverityColor("unknown") != style.SeverityLow {
		t.Error("unknown severity must render as low")
	}
}
