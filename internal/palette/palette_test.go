package palette

import (
	"os"
	"path/filepath"
	"testing"

	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/puzzle"
)

// rgb builds a 1-pixel-per-entry buffer from RGB triples.
func rgb(pixels ...[3]uint8) *imaging.Buffer {
	buf := imaging.NewBuffer(len(pixels), 1)
	for i, px := range pixels {
		buf.SetRGBA(i, 0, px[0], px[1], px[2], 255)
	}
	return buf
}

var (
	pxOrange    = [3]uint8{255, 100, 0}   // h=12, unambiguous orange
	pxAmbigLow  = [3]uint8{255, 170, 0}   // h=20, in both similar ranges
	pxAmbigHigh = [3]uint8{255, 212, 0}   // h=25, in both similar ranges
	pxYellow    = [3]uint8{255, 255, 0}   // h=30, unambiguous yellow
	pxGreen     = [3]uint8{0, 255, 0}     // h=60
	pxBlue      = [3]uint8{0, 128, 255}   // h=105
	pxGray      = [3]uint8{128, 128, 128} // neutral
	pxDim       = [3]uint8{255, 195, 180} // orange hue, washed out (s~75)
)

func TestClassifyStable(t *testing.T) {
	p := DefaultParams()
	tests := []struct {
		name string
		px   [3]uint8
		want puzzle.Color
	}{
		{"orange", pxOrange, puzzle.ColorOrange},
		{"ambiguous below split", pxAmbigLow, puzzle.ColorOrange},
		{"ambiguous at split", pxAmbigHigh, puzzle.ColorYellow},
		{"yellow", pxYellow, puzzle.ColorYellow},
		{"green", pxGreen, puzzle.ColorGreen},
		{"blue", pxBlue, puzzle.ColorBlue},
		{"gray", pxGray, puzzle.ColorNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := imaging.RGBToHSV(tt.px[0], tt.px[1], tt.px[2])
			got := Classify(p, h, s, v)
			if got != tt.want {
				t.Errorf("Classify(h=%d,s=%d,v=%d) = %s, want %s", h, s, v, got, tt.want)
			}
			// Same input always classifies the same way.
			if again := Classify(p, h, s, v); again != got {
				t.Errorf("Classify is unstable: %s then %s", got, again)
			}
		})
	}
}

func TestRelaxedRecoversDimPixels(t *testing.T) {
	p := DefaultParams()
	buf := rgb(pxDim)
	box := buf.Bounds()

	strict := Mask(buf, box, puzzle.ColorOrange, false, p)
	if strict.Count() != 0 {
		t.Error("strict mask should reject the washed-out pixel")
	}
	relaxed := Mask(buf, box, puzzle.ColorOrange, true, p)
	if relaxed.Count() != 1 {
		t.Error("relaxed mask should recover the washed-out pixel")
	}
}

func TestResolveAmbiguousSplit(t *testing.T) {
	p := DefaultParams()

	low := rgb(pxAmbigLow, pxAmbigLow, pxOrange)
	if got := ResolveAmbiguous(low, low.Bounds(), false, p); got != puzzle.ColorOrange {
		t.Errorf("low-hue region resolved to %s, want orange", got)
	}

	high := rgb(pxAmbigHigh, pxAmbigHigh)
	if got := ResolveAmbiguous(high, high.Bounds(), false, p); got != puzzle.ColorYellow {
		t.Errorf("high-hue region resolved to %s, want yellow", got)
	}

	none := rgb(pxGreen, pxBlue)
	if got := ResolveAmbiguous(none, none.Bounds(), false, p); got != puzzle.ColorNone {
		t.Errorf("region without ambiguity resolved to %s, want none", got)
	}
}

func TestMaskRegionOverridesPixelSplit(t *testing.T) {
	p := DefaultParams()
	// h=20 and h=25 average to 22.5, at/above the split: the whole
	// ambiguous population belongs to yellow, including the h=20 pixel
	// that would read orange on its own.
	buf := rgb(pxAmbigLow, pxAmbigHigh)
	box := buf.Bounds()

	orange := Mask(buf, box, puzzle.ColorOrange, false, p)
	yellow := Mask(buf, box, puzzle.ColorYellow, false, p)
	if orange.Count() != 0 {
		t.Errorf("orange mask has %d pixels, want 0", orange.Count())
	}
	if yellow.Count() != 2 {
		t.Errorf("yellow mask has %d pixels, want 2", yellow.Count())
	}
}

func TestCountsAndDominant(t *testing.T) {
	p := DefaultParams()
	buf := rgb(pxGreen, pxGreen, pxBlue, pxGray, pxAmbigLow)
	counts := Counts(buf, buf.Bounds(), false, p)

	if counts[puzzle.ColorGreen] != 2 {
		t.Errorf("green count = %d, want 2", counts[puzzle.ColorGreen])
	}
	if counts[puzzle.ColorBlue] != 1 {
		t.Errorf("blue count = %d, want 1", counts[puzzle.ColorBlue])
	}
	if counts[puzzle.ColorOrange] != 1 {
		t.Errorf("orange count = %d, want 1", counts[puzzle.ColorOrange])
	}

	c, n := Dominant(counts)
	if c != puzzle.ColorGreen || n != 2 {
		t.Errorf("Dominant = %s/%d, want green/2", c, n)
	}
}

func TestGrayIndependentOfColors(t *testing.T) {
	p := DefaultParams()
	h, s, v := imaging.RGBToHSV(pxGray[0], pxGray[1], pxGray[2])
	if !IsGray(p, h, s, v) {
		t.Error("neutral pixel should match the gray range")
	}
	if Classify(p, h, s, v) != puzzle.ColorNone {
		t.Error("neutral pixel should not classify as a color")
	}
	// A vivid color never reads as gray.
	h, s, v = imaging.RGBToHSV(pxGreen[0], pxGreen[1], pxGreen[2])
	if IsGray(p, h, s, v) {
		t.Error("vivid green should not match the gray range")
	}
	buf := rgb(pxGray, pxGray, pxGreen)
	if got := GrayCount(buf, buf.Bounds(), p); got != 2 {
		t.Errorf("GrayCount = %d, want 2", got)
	}
}

func TestLoadParamsMissingFileUsesDefaults(t *testing.T) {
	p, err := LoadParams(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("LoadParams on missing file: %v", err)
	}
	if p.SplitHue != DefaultParams().SplitHue {
		t.Error("missing calibration should fall back to defaults")
	}
}

func TestSaveLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cal", "palette.json")
	p := DefaultParams().WithSplitHue(30)
	if err := SaveParams(path, p); err != nil {
		t.Fatalf("SaveParams: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("calibration file not written: %v", err)
	}
	got, err := LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams: %v", err)
	}
	if got.SplitHue != 30 {
		t.Errorf("loaded SplitHue = %d, want 30", got.SplitHue)
	}
}
