// Package grid provides the toroidal square-grid primitives shared by
// every simulation layer. All spatial fields (elevation, temperature,
// species density, territory) use the same N by N wrap-around indexing.
package grid

import "math"

// Wrap maps an index onto [0, n) with toroidal wrap-around.
func Wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Dist returns the Euclidean distance between two cells on a torus of
// size n, taking the shorter way around each axis.
func Dist(x1, y1, x2, y2, n int) float64 {
	dx := x1 - x2
	if dx < 0 {
		dx = -dx
	}
	if n-dx < dx {
		dx = n - dx
	}
	dy := y1 - y2
	if dy < 0 {
		dy = -dy
	}
	if n-dy < dy {
		dy = n - dy
	}
	return math.Sqrt(float64(dx*dx + dy*dy))
}

// Field is a dense float64 field over the toroidal grid.
type Field struct {
	Size  int
	Cells []float64
}

// NewField allocates a zeroed field of the given size.
func NewField(size int) *Field {
	return &Field{Size: size, Cells: make([]float64, size*size)}
}

// At returns the value at (x, y), wrapping both axes.
func (f *Field) At(x, y int) float64 {
	return f.Cells[Wrap(y, f.Size)*f.Size+Wrap(x, f.Size)]
}

// Set stores v at (x, y), wrapping both axes.
func (f *Field) Set(x, y int, v float64) {
	f.Cells[Wrap(y, f.Size)*f.Size+Wrap(x, f.Size)] = v
}

// Add adds v to the value at (x, y), wrapping both axes.
func (f *Field) Add(x, y int, v float64) {
	f.Cells[Wrap(y, f.Size)*f.Size+Wrap(x, f.Size)] += v
}

// Fill sets every cell to v.
func (f *Field) Fill(v float64) {
	for i := range f.Cells {
		f.Cells[i] = v
	}
}

// Scale multiplies every cell by k.
func (f *Field) Scale(k float64) {
	for i := range f.Cells {
		f.Cells[i] *= k
	}
}

// Clamp bounds every cell into [lo, hi].
func (f *Field) Clamp(lo, hi float64) {
	for i, v := range f.Cells {
		if v < lo {
			f.Cells[i] = lo
		} else if v > hi {
			f.Cells[i] = hi
		}
	}
}

// Copy returns a deep copy of the field.
func (f *Field) Copy() *Field {
	c := NewField(f.Size)
	copy(c.Cells, f.Cells)
	return c
}

// CopyFrom overwrites this field's cells with those of src.
// Both fields must have the same size.
func (f *Field) CopyFrom(src *Field) {
	copy(f.Cells, src.Cells)
}

// Sum returns the sum of all cells.
func (f *Field) Sum() float64 {
	total := 0.0
	for _, v := range f.Cells {
		total += v
	}
	return total
}

// Mean returns the average cell value.
func (f *Field) Mean() float64 {
	if len(f.Cells) == 0 {
		return 0
	}
	return f.Sum() / float64(len(f.Cells))
}

// Normalize rescales the field linearly onto [0, 1]. A constant field
// becomes all zeros.
func (f *Field) Normalize() {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range f.Cells {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span <= 0 {
		f.Fill(0)
		return
	}
	for i, v := range f.Cells {
		f.Cells[i] = (v - lo) / span
	}
}

// ArgMax returns the coordinates of the largest cell. Ties resolve to
// the lowest index, which keeps the result deterministic.
func (f *Field) ArgMax() (int, int) {
	best := 0
	for i, v := range f.Cells {
		if v > f.Cells[best] {
			best = i
		}
	}
	return best % f.Size, best / f.Size
}

// Bitmap is a dense boolean mask over the toroidal grid.
type Bitmap struct {
	Size  int
	Cells []bool
}

// NewBitmap allocates a cleared bitmap of the given size.
func NewBitmap(size int) *Bitmap {
	return &Bitmap{Size: size, Cells: make([]bool, size*size)}
}

// At reports whether (x, y) is set, wrapping both axes.
func (b *Bitmap) At(x, y int) bool {
	return b.Cells[Wrap(y, b.Size)*b.Size+Wrap(x, b.Size)]
}

// Set marks or clears (x, y), wrapping both axes.
func (b *Bitmap) Set(x, y int, v bool) {
	b.Cells[Wrap(y, b.Size)*b.Size+Wrap(x, b.Size)] = v
}

// Count returns the number of set cells.
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.Cells {
		if v {
			n++
		}
	}
	return n
}

// Neighbors8 holds the 8-neighborhood offsets in a fixed order so that
// iteration is deterministic everywhere it is used.
var Neighbors8 = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}
