// Package pieces extracts the candidate pieces from the piece panel:
// their dominant colors and normalized cell shapes.
package pieces

import "puzzle-scan/internal/palette"

// Params holds the panel segmentation thresholds.
type Params struct {
	Palette palette.Params `json:"palette"`

	// Stack split: a separator row is fully white at or above this level
	// on all three channels.
	WhiteLevel uint8 `json:"white_level"`

	// Fallback merge component gates. The area floor is the larger of
	// MinCompArea and MinCompAreaFrac of the panel.
	MinCompArea     int     `json:"min_comp_area"`
	MinCompAreaFrac float64 `json:"min_comp_area_frac"`
	MinCompDim      int     `json:"min_comp_dim"`

	// Two components belong to one piece when they overlap vertically by
	// more than MergeOverlap of the shorter and sit closer horizontally
	// than MergeGapFactor of their average width.
	MergeOverlap   float64 `json:"merge_overlap"`
	MergeGapFactor float64 `json:"merge_gap_factor"`

	Fit FitParams `json:"fit"`
}

// FitParams holds the grid discretization scoring weights.
type FitParams struct {
	// Candidate grids run 1..MaxGrid on both axes; cells whose aspect
	// strays past AspectSlack from square are pruned.
	MaxGrid     int     `json:"max_grid"`
	AspectSlack float64 `json:"aspect_slack"`

	// A cell is clearly decided above ClearHigh or below ClearLow fill;
	// anything between counts against the candidate's clarity.
	ClearHigh float64 `json:"clear_high"`
	ClearLow  float64 `json:"clear_low"`

	// Occupancy bonus: full credit inside [FillLow, FillHigh], half
	// credit inside [PartialLow, PartialHigh].
	FillBonus   float64 `json:"fill_bonus"`
	FillLow     float64 `json:"fill_low"`
	FillHigh    float64 `json:"fill_high"`
	PartialLow  float64 `json:"partial_low"`
	PartialHigh float64 `json:"partial_high"`

	// Interior-hole bonus for grids of at least 3x3 with enough occupied
	// cells; the hole cell stays under HoleEmptyMax fill and its four
	// flanks at or above ClearHigh.
	HoleBonus     float64 `json:"hole_bonus"`
	HoleMinFilled int     `json:"hole_min_filled"`
	HoleEmptyMax  float64 `json:"hole_empty_max"`

	// Near-square cells earn up to SquareWeight.
	SquareWeight float64 `json:"square_weight"`

	// Parsimony: when every cell exceeds SolidFill, the candidate pays
	// ParsimonyPerCell per cell, so a featureless block settles on the
	// smallest grid. Tuned, not derived; kept configurable.
	SolidFill        float64 `json:"solid_fill"`
	ParsimonyPerCell float64 `json:"parsimony_per_cell"`

	// Post-filter on the winning grid: occupied cells below
	// max(CellKeepMin, CellMedianFrac x median occupied fill) are edge
	// bleed and get dropped.
	CellKeepMin    float64 `json:"cell_keep_min"`
	CellMedianFrac float64 `json:"cell_median_frac"`
}

// DefaultParams returns segmentation thresholds tuned for 1080p captures.
func DefaultParams() Params {
	return Params{
		Palette: palette.DefaultParams(),

		WhiteLevel: 250,

		MinCompArea:     200,
		MinCompAreaFrac: 0.002, // 0.2% of panel
		MinCompDim:      20,

		MergeOverlap:   0.5,
		MergeGapFactor: 0.8,

		Fit: FitParams{
			MaxGrid:     5,
			AspectSlack: 2.5,

			ClearHigh: 0.60,
			ClearLow:  0.20,

			FillBonus:   0.30,
			FillLow:     0.30,
			FillHigh:    0.70,
			PartialLow:  0.20,
			PartialHigh: 0.80,

			HoleBonus:     0.25,
			HoleMinFilled: 5,
			HoleEmptyMax:  0.20,

			SquareWeight: 0.20,

			SolidFill:        0.90,
			ParsimonyPerCell: 0.06,

			CellKeepMin:    0.40,
			CellMedianFrac: 0.40,
		},
	}
}
