package glyph

import "testing"

// ringMask draws a rectangular ring with the given border thickness into
// the top-left corner of a w x h mask.
func ringMask(w, h, ringW, ringH, border int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < ringH; y++ {
		for x := 0; x < ringW; x++ {
			onBorder := x < border || x >= ringW-border || y < border || y >= ringH-border
			if onBorder {
				m.Set(x, y, true)
			}
		}
	}
	return m
}

// rotateCW returns the mask a quarter turn clockwise with the rotation
// flag set, mimicking extraction from a normalized vertical strip.
func rotateCW(src *Mask) *Mask {
	out := NewMask(src.H, src.W)
	out.Rotated = true
	for y := 0; y < out.H; y++ {
		for x := 0; x < out.W; x++ {
			if src.At(y, src.H-1-x) {
				out.Set(x, y, true)
			}
		}
	}
	return out
}

func TestGridRecognizerReadsStencils(t *testing.T) {
	rec := NewGridRecognizer()
	for digit := 0; digit <= 9; digit++ {
		for _, size := range [][2]int{{15, 25}, {9, 15}} {
			m := DrawStencil(digit, size[0], size[1])
			if got := rec.Recognize(m); got != digit {
				t.Errorf("Recognize(stencil %d at %dx%d) = %d", digit, size[0], size[1], got)
			}
		}
	}
}

func TestGridRecognizerRejectsJunk(t *testing.T) {
	rec := NewGridRecognizer()
	if got := rec.Recognize(NewMask(0, 0)); got != Unrecognized {
		t.Errorf("empty mask recognized as %d", got)
	}
	if got := rec.Recognize(NewMask(2, 3)); got != Unrecognized {
		t.Errorf("undersized mask recognized as %d", got)
	}
	blank := NewMask(12, 20)
	if got := rec.Recognize(blank); got != Unrecognized {
		t.Errorf("blank mask recognized as %d", got)
	}
}

func TestGridRecognizerDeterministic(t *testing.T) {
	rec := NewGridRecognizer()
	m := DrawStencil(7, 15, 25)
	first := rec.Recognize(m)
	for i := 0; i < 3; i++ {
		if got := rec.Recognize(m); got != first {
			t.Fatalf("recognition flapped: %d then %d", first, got)
		}
	}
}

func TestUpright(t *testing.T) {
	m := DrawStencil(4, 15, 25)
	turned := rotateCW(m)
	if turned.W != 25 || turned.H != 15 {
		t.Fatalf("rotated dims = %dx%d, want 25x15", turned.W, turned.H)
	}

	back := turned.Upright()
	if back.Rotated {
		t.Error("upright mask still flagged rotated")
	}
	if back.W != m.W || back.H != m.H {
		t.Fatalf("upright dims = %dx%d, want %dx%d", back.W, back.H, m.W, m.H)
	}
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if back.At(x, y) != m.At(x, y) {
				t.Fatalf("pixel (%d,%d) differs after upright round trip", x, y)
			}
		}
	}

	if m.Upright() != m {
		t.Error("unrotated mask not returned as is")
	}
}

func TestGridRecognizerReadsRotatedStencils(t *testing.T) {
	rec := NewGridRecognizer()
	for digit := 0; digit <= 9; digit++ {
		m := rotateCW(DrawStencil(digit, 15, 25))
		if got := rec.Recognize(m); got != digit {
			t.Errorf("Recognize(rotated stencil %d) = %d", digit, got)
		}
	}
}

func TestHolePixels(t *testing.T) {
	ring := ringMask(20, 20, 20, 20, 3)
	if got := HolePixels(ring); got != 14*14 {
		t.Errorf("ring hole pixels = %d, want %d", got, 14*14)
	}

	// A C-shape leaks its interior to the border: no enclosed hole.
	c := ringMask(20, 20, 20, 20, 3)
	for y := 8; y < 12; y++ {
		for x := 17; x < 20; x++ {
			c.Set(x, y, false)
		}
	}
	if got := HolePixels(c); got != 0 {
		t.Errorf("open shape hole pixels = %d, want 0", got)
	}

	solid := NewMask(10, 10)
	for i := range solid.Pix {
		solid.Pix[i] = true
	}
	if got := HolePixels(solid); got != 0 {
		t.Errorf("solid blob hole pixels = %d, want 0", got)
	}
}

func TestMirrorSymmetry(t *testing.T) {
	ring := ringMask(20, 20, 20, 20, 3)
	if got := MirrorSymmetry(ring); got != 1.0 {
		t.Errorf("centered ring symmetry = %.3f, want 1.0", got)
	}

	// Everything in the left half mirrors onto background.
	lopsided := ringMask(24, 20, 10, 20, 2)
	if got := MirrorSymmetry(lopsided); got > 0.1 {
		t.Errorf("left-packed ring symmetry = %.3f, want near 0", got)
	}
}

func TestCorrectZeroSix(t *testing.T) {
	// Symmetric ring with a large hole: misread zero.
	ring := ringMask(20, 20, 20, 20, 3)
	if got := CorrectZeroSix(ring); got != 0 {
		t.Errorf("symmetric ring corrected to %d, want 0", got)
	}

	// Same hole structure packed into one side stays a six.
	lopsided := ringMask(24, 20, 10, 20, 2)
	if HolePixels(lopsided) <= holeThreshold {
		t.Fatal("setup: lopsided ring should have a real hole")
	}
	if got := CorrectZeroSix(lopsided); got != 6 {
		t.Errorf("asymmetric hole corrected to %d, want 6", got)
	}

	// No hole at all stays a six regardless of symmetry.
	solid := NewMask(10, 10)
	for i := range solid.Pix {
		solid.Pix[i] = true
	}
	if got := CorrectZeroSix(solid); got != 6 {
		t.Errorf("solid blob corrected to %d, want 6", got)
	}

	if got := CorrectZeroSix(nil); got != 6 {
		t.Errorf("nil mask corrected to %d, want 6", got)
	}
}

func TestCorrectZeroSixRotated(t *testing.T) {
	// The left-packed ring turns into a mirror-symmetric top band when
	// rotated; only the upright view shows the asymmetry that keeps it a
	// six.
	lopsided := ringMask(24, 20, 10, 20, 2)
	if got := CorrectZeroSix(rotateCW(lopsided)); got != 6 {
		t.Errorf("rotated asymmetric hole corrected to %d, want 6", got)
	}
}
