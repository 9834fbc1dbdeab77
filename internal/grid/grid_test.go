package grid

import (
	"math"
	"testing"
)

func TestWrap(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 10, 0},
		{9, 10, 9},
		{10, 10, 0},
		{-1, 10, 9},
		{-10, 10, 0},
		{25, 10, 5},
		{-25, 10, 5},
	}
	for _, tt := range tests {
		if got := Wrap(tt.i, tt.n); got != tt.want {
			t.Errorf("Wrap(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func TestDistWrapsAround(t *testing.T) {
	// Cells at opposite edges are one step apart on a torus.
	if d := Dist(0, 0, 9, 0, 10); d != 1 {
		t.Errorf("Dist across x seam = %v, want 1", d)
	}
	if d := Dist(0, 0, 0, 9, 10); d != 1 {
		t.Errorf("Dist across y seam = %v, want 1", d)
	}
	if d := Dist(0, 0, 9, 9, 10); math.Abs(d-math.Sqrt2) > 1e-12 {
		t.Errorf("Dist across corner = %v, want sqrt(2)", d)
	}
	if d := Dist(2, 3, 2, 3, 10); d != 0 {
		t.Errorf("Dist to self = %v, want 0", d)
	}
}

func TestFieldAccessWraps(t *testing.T) {
	f := NewField(4)
	f.Set(0, 0, 1.5)

	if got := f.At(4, 4); got != 1.5 {
		t.Errorf("At(4,4) = %v, want 1.5", got)
	}
	if got := f.At(-4, -4); got != 1.5 {
		t.Errorf("At(-4,-4) = %v, want 1.5", got)
	}

	f.Add(-1, -1, 2)
	if got := f.At(3, 3); got != 2 {
		t.Errorf("Add at (-1,-1) did not land on (3,3): got %v", got)
	}
}

func TestFieldNormalize(t *testing.T) {
	f := NewField(2)
	copy(f.Cells, []float64{2, 4, 6, 10})
	f.Normalize()

	if f.Cells[0] != 0 || f.Cells[3] != 1 {
		t.Errorf("Normalize bounds: got min %v max %v", f.Cells[0], f.Cells[3])
	}
	if math.Abs(f.Cells[1]-0.25) > 1e-12 {
		t.Errorf("Normalize mid value = %v, want 0.25", f.Cells[1])
	}
}

func TestFieldNormalizeFlat(t *testing.T) {
	f := NewField(2)
	f.Fill(3)
	f.Normalize()
	for i, v := range f.Cells {
		if v != 0 {
			t.Errorf("flat field cell %d = %v after Normalize, want 0", i, v)
		}
	}
}

func TestFieldClampAndScale(t *testing.T) {
	f := NewField(2)
	copy(f.Cells, []float64{-1, 0.5, 2, 1})
	f.Clamp(0, 1)
	want := []float64{0, 0.5, 1, 1}
	for i, v := range f.Cells {
		if v != want[i] {
			t.Errorf("Clamp cell %d = %v, want %v", i, v, want[i])
		}
	}

	f.Scale(2)
	if f.Sum() != 5 {
		t.Errorf("Sum after Scale = %v, want 5", f.Sum())
	}
}

func TestFieldArgMaxTieBreak(t *testing.T) {
	f := NewField(3)
	f.Set(1, 0, 7)
	f.Set(2, 2, 7)

	// Equal maxima resolve to the lowest index.
	x, y := f.ArgMax()
	if x != 1 || y != 0 {
		t.Errorf("ArgMax = (%d,%d), want (1,0)", x, y)
	}
}

func TestBitmap(t *testing.T) {
	b := NewBitmap(4)
	if b.Count() != 0 {
		t.Fatalf("new bitmap count = %d", b.Count())
	}
	b.Set(1, 2, true)
	b.Set(-3, -2, true) // Same cell, wrapped
	if b.Count() != 1 {
		t.Errorf("count after wrapped double set = %d, want 1", b.Count())
	}
	if !b.At(5, 6) {
		t.Errorf("At(5,6) = false, want wrapped true")
	}
	b.Set(1, 2, false)
	if b.Count() != 0 {
		t.Errorf("count after clear = %d, want 0", b.Count())
	}
}
