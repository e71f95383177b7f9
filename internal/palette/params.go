// Package palette classifies screenshot pixels into the closed set of
// puzzle colors using fixed HSV ranges, with a relaxed second pass for dim
// pixels and a region-level split for the two similar colors.
package palette

import "puzzle-scan/internal/puzzle"

// Range is an inclusive HSV box in the OpenCV convention
// (H 0-180, S 0-255, V 0-255).
type Range struct {
	HMin uint8 `json:"h_min"`
	HMax uint8 `json:"h_max"`
	SMin uint8 `json:"s_min"`
	SMax uint8 `json:"s_max"`
	VMin uint8 `json:"v_min"`
	VMax uint8 `json:"v_max"`
}

// Contains reports whether the HSV triple falls inside the range.
func (r Range) Contains(h, s, v uint8) bool {
	return h >= r.HMin && h <= r.HMax &&
		s >= r.SMin && s <= r.SMax &&
		v >= r.VMin && v <= r.VMax
}

// Params holds the classification ranges and thresholds.
type Params struct {
	// Strict HSV range per color, indexed by puzzle.Color.
	Ranges [puzzle.NumColors]Range `json:"ranges"`

	// Relaxed pass subtracts these from the S/V minimums to recover
	// dim or washed-out pixels.
	RelaxSat uint8 `json:"relax_sat"`
	RelaxVal uint8 `json:"relax_val"`

	// Neutral gray used for blocked cells, independent of the color set.
	Gray Range `json:"gray"`

	// Hue split deciding orange vs yellow for pixels matched by both
	// ranges; mean ambiguous hue below the split reads as orange.
	SplitHue uint8 `json:"split_hue"`
}

// DefaultParams returns classification parameters tuned for the game's
// default theme at typical screenshot brightness.
func DefaultParams() Params {
	var p Params
	// Orange and yellow overlap on 18..26 by design; the overlap is
	// resolved per region against SplitHue.
	p.Ranges[puzzle.ColorOrange] = Range{HMin: 6, HMax: 26, SMin: 90, SMax: 255, VMin: 90, VMax: 255}
	p.Ranges[puzzle.ColorYellow] = Range{HMin: 18, HMax: 38, SMin: 90, SMax: 255, VMin: 90, VMax: 255}
	p.Ranges[puzzle.ColorGreen] = Range{HMin: 40, HMax: 85, SMin: 80, SMax: 255, VMin: 80, VMax: 255}
	p.Ranges[puzzle.ColorBlue] = Range{HMin: 95, HMax: 130, SMin: 80, SMax: 255, VMin: 80, VMax: 255}

	p.RelaxSat = 45 // recovers anti-aliased digit edges
	p.RelaxVal = 40 // recovers shaded piece borders

	// Blocked cells render as flat mid-brightness gray.
	p.Gray = Range{HMin: 0, HMax: 180, SMin: 0, SMax: 40, VMin: 60, VMax: 190}

	p.SplitHue = 22

	return p
}

// Range returns the strict or relaxed range for a color.
func (p Params) Range(c puzzle.Color, relaxed bool) Range {
	r := p.Ranges[c]
	if relaxed {
		r.SMin = subClamp(r.SMin, p.RelaxSat)
		r.VMin = subClamp(r.VMin, p.RelaxVal)
	}
	return r
}

// WithSplitHue returns a copy of params with a custom similar-color split.
func (p Params) WithSplitHue(h uint8) Params {
	p.SplitHue = h
	return p
}

// WithRange returns a copy of params with one color's strict range replaced.
func (p Params) WithRange(c puzzle.Color, r Range) Params {
	if c.Valid() {
		p.Ranges[c] = r
	}
	return p
}

func subClamp(v, d uint8) uint8 {
	if v < d {
		return 0
	}
	return v - d
}
