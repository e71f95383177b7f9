// Package strip parses constraint strips: the bands of tally bars or
// digits along the grid edges that declare per-row and per-column color
// counts.
package strip

import "puzzle-scan/internal/palette"

// Params holds the strip analysis thresholds.
type Params struct {
	Palette palette.Params `json:"palette"`

	// A color counts as present when its strict-mask pixels exceed this
	// fraction of the strip area.
	PresenceFrac float64 `json:"presence_frac"`

	// Strips taller than RotateAspect times their width are turned a
	// quarter turn clockwise before parsing.
	RotateAspect float64 `json:"rotate_aspect"`

	// Mode detection: bar mode wins when more than BarModeFrac of the
	// combined-mask components at least MinBarArea big are elongated
	// beyond BarAspectHigh or below BarAspectLow.
	BarModeFrac   float64 `json:"bar_mode_frac"`
	BarAspectHigh float64 `json:"bar_aspect_high"`
	BarAspectLow  float64 `json:"bar_aspect_low"`
	MinBarArea    int     `json:"min_bar_area"`

	// Individual tallies must be clearly non-square; shapes hugging the
	// frame longer than BarOversize strip heights are UI chrome.
	BarSquareLow   float64 `json:"bar_square_low"`
	BarSquareHigh  float64 `json:"bar_square_high"`
	BarFrameMargin int     `json:"bar_frame_margin"`
	BarOversize    float64 `json:"bar_oversize"`

	// Bar centroid clustering: when the largest gap exceeds BarGapSpread
	// times the smallest, the split threshold is their mean; otherwise
	// BarGapFrac of the smallest gap (evenly spaced bars stay singles).
	BarGapSpread float64 `json:"bar_gap_spread"`
	BarGapFrac   float64 `json:"bar_gap_frac"`

	// Digit glyph candidate bounds for single-color numeric strips.
	MinGlyphArea       int     `json:"min_glyph_area"`
	GlyphAspectMax     float64 `json:"glyph_aspect_max"`
	GlyphMinHeightFrac float64 `json:"glyph_min_height_frac"`

	// Zero-symbol (faint "no requirement" ring) detection.
	ZeroSatMax       uint8   `json:"zero_sat_max"`
	ZeroBrightOffset float64 `json:"zero_bright_offset"`
	ZeroWindowRadius int     `json:"zero_window_radius"`
	ZeroMinArea      int     `json:"zero_min_area"`
	ZeroAspectMin    float64 `json:"zero_aspect_min"`
	ZeroAspectMax    float64 `json:"zero_aspect_max"`
	ZeroMinDimFrac   float64 `json:"zero_min_dim_frac"`
	ZeroCircMin      float64 `json:"zero_circ_min"`
	ZeroCircMax      float64 `json:"zero_circ_max"`
	ZeroOverlapMax   float64 `json:"zero_overlap_max"`

	// Dual-color numeric strips: per-color candidate window relative to
	// the larger strip dimension, tighter x-clustering, and the keep
	// fraction against the largest candidate in a cluster.
	DualSizeMinFrac float64 `json:"dual_size_min_frac"`
	DualSizeMaxFrac float64 `json:"dual_size_max_frac"`
	DualMinArea     int     `json:"dual_min_area"`
	DualKeepFrac    float64 `json:"dual_keep_frac"`
	DualGapSpread   float64 `json:"dual_gap_spread"`
	DualGapFrac     float64 `json:"dual_gap_frac"`
}

// DefaultParams returns strip thresholds tuned for 1080p game captures.
func DefaultParams() Params {
	return Params{
		Palette: palette.DefaultParams(),

		PresenceFrac: 0.005, // 0.5% of strip area
		RotateAspect: 1.5,

		BarModeFrac:   0.60,
		BarAspectHigh: 2.5,
		BarAspectLow:  0.35,
		MinBarArea:    50,

		BarSquareLow:   0.8,
		BarSquareHigh:  1.2,
		BarFrameMargin: 2,
		BarOversize:    1.2,

		BarGapSpread: 1.3,
		BarGapFrac:   0.8,

		MinGlyphArea:       100,
		GlyphAspectMax:     3.0,
		GlyphMinHeightFrac: 0.15,

		ZeroSatMax:       60, // rings draw as faint gray-white
		ZeroBrightOffset: 10,
		ZeroWindowRadius: 15, // 31x31 neighborhood
		ZeroMinArea:      100,
		ZeroAspectMin:    0.6,
		ZeroAspectMax:    1.5,
		ZeroMinDimFrac:   0.10,
		ZeroCircMin:      0.10,
		ZeroCircMax:      0.90,
		ZeroOverlapMax:   0.15,

		DualSizeMinFrac: 0.03,
		DualSizeMaxFrac: 0.40,
		DualMinArea:     200,
		DualKeepFrac:    0.5,
		DualGapSpread:   1.15,
		DualGapFrac:     0.5,
	}
}
