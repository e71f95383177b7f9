package strip

import (
	"puzzle-scan/internal/imaging"
	"puzzle-scan/internal/mask"
)

// findZeroSymbols locates the faint ring glyphs that mark a slot with no
// requirement. Rings render unsaturated and slightly brighter than their
// surroundings, so candidate pixels are the low-saturation ones clearly
// above the local brightness mean. Close-then-open heals the ring stroke
// before the shape checks.
func findZeroSymbols(buf *imaging.Buffer, colorMask *mask.Bitmap, p Params) []mask.Component {
	gray := imaging.GrayPlane(buf)
	integral := imaging.NewIntegral(gray)

	cand := mask.New(buf.W, buf.H)
	for y := 0; y < buf.H; y++ {
		for x := 0; x < buf.W; x++ {
			_, s, _ := buf.HSVAt(x, y)
			if s > p.ZeroSatMax {
				continue
			}
			if float64(gray.At(x, y)) > integral.MeanAround(x, y, p.ZeroWindowRadius)+p.ZeroBrightOffset {
				cand.Set(x, y, true)
			}
		}
	}
	cand = mask.Open(mask.Close(cand))

	lab := mask.Label(cand)
	minDim := p.ZeroMinDimFrac * float64(buf.H)
	var out []mask.Component
	for _, comp := range lab.Comps {
		if comp.Area < p.ZeroMinArea {
			continue
		}
		ar := comp.AspectRatio()
		if ar < p.ZeroAspectMin || ar > p.ZeroAspectMax {
			continue
		}
		if float64(comp.Box.MaxDim()) < minDim {
			continue
		}
		circ := comp.Circularity()
		if circ < p.ZeroCircMin || circ > p.ZeroCircMax {
			continue
		}
		if overlapFrac(lab, comp, colorMask) > p.ZeroOverlapMax {
			continue
		}
		out = append(out, comp)
	}
	return out
}

// overlapFrac is the fraction of the component's pixels that are
// foreground in other. Both rasters share the strip's dimensions.
func overlapFrac(lab *mask.Labeling, comp mask.Component, other *mask.Bitmap) float64 {
	if comp.Area == 0 || other.W != lab.W || other.H != lab.H {
		return 0
	}
	n := 0
	for y := comp.Box.Y1; y < comp.Box.Y2; y++ {
		for x := comp.Box.X1; x < comp.Box.X2; x++ {
			idx := y*lab.W + x
			if lab.Labels[idx] == int32(comp.ID) && other.Pix[idx] {
				n++
			}
		}
	}
	return float64(n) / float64(comp.Area)
}
