package imaging

import "math"

// RGBToHSV converts RGB (0-255) to HSV in the OpenCV convention:
// H 0-180, S 0-255, V 0-255.
func RGBToHSV(r8, g8, b8 uint8) (h, s, v uint8) {
	r := float64(r8) / 255.0
	g := float64(g8) / 255.0
	b := float64(b8) / 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	vf := maxC * 255.0

	var sf float64
	if maxC > 0 {
		sf = (diff / maxC) * 255.0
	}

	var hf float64
	switch {
	case diff == 0:
		hf = 0
	case maxC == r:
		hf = 60 * math.Mod((g-b)/diff, 6)
	case maxC == g:
		hf = 60 * ((b-r)/diff + 2)
	default:
		hf = 60 * ((r-g)/diff + 4)
	}
	if hf < 0 {
		hf += 360
	}
	hf = hf / 2 // OpenCV's 0-180 range

	return clampU8(math.Round(hf)), clampU8(math.Round(sf)), clampU8(math.Round(vf))
}

// HSVAt returns the HSV channels of the pixel at (x, y).
func (b *Buffer) HSVAt(x, y int) (h, s, v uint8) {
	r, g, bl, _ := b.RGBAAt(x, y)
	return RGBToHSV(r, g, bl)
}

// GrayAt returns the BT.601 luma of the pixel at (x, y).
func (b *Buffer) GrayAt(x, y int) uint8 {
	r, g, bl, _ := b.RGBAAt(x, y)
	return uint8((19595*uint32(r) + 38470*uint32(g) + 7471*uint32(bl) + 1<<15) >> 16)
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
