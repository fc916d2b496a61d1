package dem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Grid is a dense elevation grid with a fixed row/column extent.
// Values are stored row-major, row 0 being the northern edge.
type Grid struct {
	m *mat.Dense
}

// NewGrid allocates a rows x cols grid filled with zeros.
// It panics if rows or cols is not positive.
func NewGrid(rows, cols int) *Grid {
	return &Grid{m: mat.NewDense(rows, cols, nil)}
}

// FromData wraps a row-major slice. The slice is used as backing store, not copied.
func FromData(rows, cols int, data []float64) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("grid dimensions must be positive, got %dx%d", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("grid data has %d values, want %d", len(data), rows*cols)
	}
	return &Grid{m: mat.NewDense(rows, cols, data)}, nil
}

// FromRows copies a slice of equally long rows into a new grid.
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("grid must have at least one row and one column")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), cols)
		}
		data = append(data, row...)
	}
	return FromData(len(rows), cols, data)
}

// FromDense wraps an existing gonum matrix.
func FromDense(m *mat.Dense) *Grid {
	return &Grid{m: m}
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	r, _ := g.m.Dims()
	return r
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	_, c := g.m.Dims()
	return c
}

// Shape returns (rows, cols).
func (g *Grid) Shape() (rows, cols int) {
	return g.m.Dims()
}

// At returns the value at (row, col).
// It will panic if row or col are out of bounds for the grid.
func (g *Grid) At(row, col int) float64 {
	return g.m.At(row, col)
}

// Set sets the value at (row, col).
func (g *Grid) Set(row, col int, v float64) {
	g.m.Set(row, col, v)
}

// Row returns a view of a single row. Writes go through to the grid.
func (g *Grid) Row(row int) []float64 {
	raw := g.m.RawMatrix()
	start := row * raw.Stride
	return raw.Data[start : start+raw.Cols]
}

// Dense exposes the backing matrix.
func (g *Grid) Dense() *mat.Dense {
	return g.m
}

// Float64 returns the values as a contiguous row-major slice.
func (g *Grid) Float64() []float64 {
	rows, cols := g.Shape()
	out := make([]float64, 0, rows*cols)
	for r := 0; r < rows; r++ {
		out = append(out, g.Row(r)...)
	}
	return out
}

// Float32 returns the values narrowed to single precision, row-major.
func (g *Grid) Float32() []float32 {
	rows, cols := g.Shape()
	out := make([]float32, rows*cols)
	for r := 0; r < rows; r++ {
		for c, v := range g.Row(r) {
			out[r*cols+c] = float32(v)
		}
	}
	return out
}

// Bounds returns the minimum and maximum value, skipping NaN.
func (g *Grid) Bounds() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	rows, _ := g.Shape()
	for r := 0; r < rows; r++ {
		for _, v := range g.Row(r) {
			if math.IsNaN(v) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	return lo, hi
}

// Mean returns the arithmetic mean of all values.
func (g *Grid) Mean() float64 {
	rows, cols := g.Shape()
	return mat.Sum(g.m) / float64(rows*cols)
}

// Equal reports whether both grids have the same shape and values.
func (g *Grid) Equal(o *Grid) bool {
	return mat.Equal(g.m, o.m)
}
