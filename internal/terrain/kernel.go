package terrain

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultShape is the decay constant of the default kernel.
// Larger values give a tighter, less smooth kernel.
const DefaultShape = 0.333

// Kernel is a normalized Gaussian smoothing kernel of
// (2*HalfWidthX+1) rows by (2*HalfWidthY+1) columns.
type Kernel struct {
	HalfWidthX int
	HalfWidthY int
	Shape      float64

	weights *mat.Dense
}

// NewKernel builds the kernel with cell values exp(-c*(x²/hx + y²/hy))
// for x in [-hx, hx] (rows) and y in [-hy, hy] (columns), divided by their sum.
func NewKernel(halfWidthX, halfWidthY int, shape float64) (*Kernel, error) {
	if halfWidthX <= 0 || halfWidthY <= 0 {
		return nil, fmt.Errorf("%w: kernel half-widths must be positive, got (%d, %d)", ErrInvalidParameter, halfWidthX, halfWidthY)
	}
	if !(shape > 0) || math.IsInf(shape, 0) {
		return nil, fmt.Errorf("%w: kernel shape must be a positive number, got %v", ErrInvalidParameter, shape)
	}

	rows, cols := 2*halfWidthX+1, 2*halfWidthY+1
	w := mat.NewDense(rows, cols, nil)
	hx, hy := float64(halfWidthX), float64(halfWidthY)
	for i := 0; i < rows; i++ {
		x := float64(i - halfWidthX)
		for j := 0; j < cols; j++ {
			y := float64(j - halfWidthY)
			w.Set(i, j, math.Exp(-shape*(x*x/hx+y*y/hy)))
		}
	}

	// the centre cell is exp(0) = 1, so the sum is never zero
	w.Scale(1/mat.Sum(w), w)

	return &Kernel{
		HalfWidthX: halfWidthX,
		HalfWidthY: halfWidthY,
		Shape:      shape,
		weights:    w,
	}, nil
}

// Dims returns the kernel size as (rows, cols).
func (k *Kernel) Dims() (rows, cols int) {
	return k.weights.Dims()
}

// At returns the weight at (row, col).
func (k *Kernel) At(row, col int) float64 {
	return k.weights.At(row, col)
}

// Sum returns the total weight. It is 1 up to rounding.
func (k *Kernel) Sum() float64 {
	return mat.Sum(k.weights)
}

// Weights exposes the normalized weights.
func (k *Kernel) Weights() mat.Matrix {
	return k.weights
}
