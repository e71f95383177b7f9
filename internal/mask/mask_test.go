package mask

import (
	"testing"

	"puzzle-scan/pkg/geometry"
)

// stamp fills a disk of the given radius, optionally hollowed into a ring.
func stamp(b *Bitmap, cx, cy, outer, inner int) {
	for y := -outer; y <= outer; y++ {
		for x := -outer; x <= outer; x++ {
			d2 := x*x + y*y
			if d2 <= outer*outer && d2 >= inner*inner {
				b.Set(cx+x, cy+y, true)
			}
		}
	}
}

func TestComponentsSeparatesRegions(t *testing.T) {
	b := New(20, 10)
	// Two blobs and one single pixel, 4-connectivity only.
	b.Set(1, 1, true)
	b.Set(2, 1, true)
	b.Set(2, 2, true)
	b.Set(10, 5, true)
	b.Set(11, 6, true) // diagonal neighbor, separate component
	b.Set(18, 8, true)

	comps := Components(b)
	if len(comps) != 4 {
		t.Fatalf("got %d components, want 4", len(comps))
	}
	first := comps[0]
	if first.Area != 3 {
		t.Errorf("first component area = %d, want 3", first.Area)
	}
	want := geometry.Box{X1: 1, Y1: 1, X2: 3, Y2: 3}
	if first.Box != want {
		t.Errorf("first component box = %+v, want %+v", first.Box, want)
	}
	if first.Perimeter != 3 {
		t.Errorf("first component perimeter = %d, want 3", first.Perimeter)
	}
}

func TestLabelingExtract(t *testing.T) {
	b := New(8, 4)
	b.Set(1, 1, true)
	b.Set(2, 1, true)
	b.Set(4, 1, true) // second component sharing row 1

	l := Label(b)
	if len(l.Comps) != 2 {
		t.Fatalf("got %d components, want 2", len(l.Comps))
	}
	ex := l.Extract(0)
	if ex.W != 2 || ex.H != 1 {
		t.Fatalf("extract size = %dx%d, want 2x1", ex.W, ex.H)
	}
	if !ex.At(0, 0) || !ex.At(1, 0) {
		t.Error("extract lost component pixels")
	}
}

func TestCircularityRingVsDisk(t *testing.T) {
	disk := New(40, 40)
	stamp(disk, 20, 20, 12, 0)
	ring := New(40, 40)
	stamp(ring, 20, 20, 12, 8)

	diskComps := Components(disk)
	ringComps := Components(ring)
	if len(diskComps) != 1 || len(ringComps) != 1 {
		t.Fatalf("stamps produced %d/%d components", len(diskComps), len(ringComps))
	}

	diskCirc := diskComps[0].Circularity()
	ringCirc := ringComps[0].Circularity()
	if diskCirc <= 0.90 {
		t.Errorf("solid disk circularity = %.3f, want > 0.90", diskCirc)
	}
	if ringCirc < 0.10 || ringCirc > 0.90 {
		t.Errorf("ring circularity = %.3f, want within [0.10, 0.90]", ringCirc)
	}
	if ringCirc >= diskCirc {
		t.Errorf("ring (%.3f) should score below disk (%.3f)", ringCirc, diskCirc)
	}
}

func TestCloseFillsOnePixelGap(t *testing.T) {
	b := New(12, 5)
	for x := 2; x <= 9; x++ {
		if x == 5 {
			continue // one-pixel break in the stroke
		}
		b.Set(x, 2, true)
	}
	if len(Components(b)) != 2 {
		t.Fatal("setup should produce two components")
	}

	closed := Close(b)
	if !closed.At(5, 2) {
		t.Error("Close should fill the one-pixel gap")
	}
	if got := len(Components(closed)); got != 1 {
		t.Errorf("after Close: %d components, want 1", got)
	}
}

func TestOpenRemovesSpeckle(t *testing.T) {
	b := New(16, 16)
	stamp(b, 8, 8, 4, 0)
	b.Set(1, 1, true) // isolated speckle

	opened := Open(b)
	if opened.At(1, 1) {
		t.Error("Open should remove the isolated pixel")
	}
	if !opened.At(8, 8) {
		t.Error("Open should keep the blob interior")
	}
	if got := len(Components(opened)); got != 1 {
		t.Errorf("after Open: %d components, want 1", got)
	}
}

func TestOverlapAndUnion(t *testing.T) {
	a := New(4, 4)
	b := New(4, 4)
	a.Set(0, 0, true)
	a.Set(1, 1, true)
	b.Set(1, 1, true)
	b.Set(2, 2, true)

	if got := a.Overlap(b); got != 1 {
		t.Errorf("Overlap = %d, want 1", got)
	}
	a.Union(b)
	if a.Count() != 3 {
		t.Errorf("after Union: %d pixels, want 3", a.Count())
	}
}
