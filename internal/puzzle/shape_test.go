package puzzle

import "testing"

func TestNormalizeTrimsEmptyBorders(t *testing.T) {
	s := NewShape(4, 4)
	// Offset L-triomino with empty first row/column and empty last column.
	s.Set(1, 1, true)
	s.Set(2, 1, true)
	s.Set(2, 2, true)

	n := s.Normalize()
	if n.Rows != 2 || n.Cols != 2 {
		t.Fatalf("normalized size = %dx%d, want 2x2", n.Rows, n.Cols)
	}
	if !n.At(0, 0) || !n.At(1, 0) || !n.At(1, 1) || n.At(0, 1) {
		t.Errorf("normalized occupancy wrong:\n%s", n)
	}
	if !n.Normalized() {
		t.Error("Normalize output should satisfy Normalized")
	}
}

func TestNormalizeEmptyShape(t *testing.T) {
	s := NewShape(3, 3)
	n := s.Normalize()
	if n.Rows != 0 || n.Cols != 0 || !n.Empty() {
		t.Errorf("empty shape normalized to %dx%d", n.Rows, n.Cols)
	}
}

func TestRotate90(t *testing.T) {
	s := ShapeFromStrings([]string{
		"#.",
		"#.",
		"##",
	})
	r := s.Rotate90()
	want := ShapeFromStrings([]string{
		"###",
		"#..",
	})
	if !r.Equal(want) {
		t.Errorf("rotated =\n%s\nwant\n%s", r, want)
	}
	// Four quarter turns return to the original.
	if !r.Rotate90().Rotate90().Rotate90().Equal(s) {
		t.Error("four rotations should reproduce the original shape")
	}
}

func TestOrientations(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want int
	}{
		{"square", []string{"##", "##"}, 1},
		{"bar", []string{"###"}, 2},
		{"ell", []string{"#.", "#.", "##"}, 4},
		{"tee", []string{"###", ".#."}, 4},
		{"ess", []string{".##", "##."}, 2},
		{"single", []string{"#"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ShapeFromStrings(tt.rows)
			got := s.Orientations()
			if len(got) != tt.want {
				t.Fatalf("got %d orientations, want %d", len(got), tt.want)
			}
			if got[0].Rotation != 0 || !got[0].Shape.Equal(s.Normalize()) {
				t.Error("first orientation should be the unrotated shape")
			}
			seen := map[int]bool{}
			prev := -1
			for _, o := range got {
				if !o.Shape.Normalized() {
					t.Errorf("orientation %d is not normalized", o.Rotation)
				}
				if seen[o.Rotation] || o.Rotation < 0 || o.Rotation > 3 {
					t.Errorf("bad rotation index %d", o.Rotation)
				}
				if o.Rotation <= prev {
					t.Errorf("rotations out of order: %d after %d", o.Rotation, prev)
				}
				seen[o.Rotation] = true
				prev = o.Rotation
			}
		})
	}
}

func TestShapeFromStringsRagged(t *testing.T) {
	s := ShapeFromStrings([]string{"##", "#"})
	if s.Rows != 2 || s.Cols != 2 {
		t.Fatalf("size = %dx%d, want 2x2", s.Rows, s.Cols)
	}
	if !s.At(0, 1) || s.At(1, 1) {
		t.Errorf("ragged row parsed wrong:\n%s", s)
	}
}
