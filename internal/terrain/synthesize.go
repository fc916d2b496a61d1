package terrain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gruppe-adler/demgen/internal/dem"
)

// randSource is the subset of *rand.Rand the synthesizer draws from.
// Tests replace it with a fixed sequence.
type randSource interface {
	Float64() float64
}

// Params configures a synthesis run.
// The noise grid has Width rows and Height columns; HalfWidthX spans rows
// and HalfWidthY spans columns, so the result is
// (Width-2*HalfWidthX) x (Height-2*HalfWidthY).
type Params struct {
	Width      int
	Height     int
	HalfWidthX int
	HalfWidthY int
	Shape      float64
	Method     Method

	// Rand supplies the noise. A nil Rand uses a time seeded source.
	Rand randSource
}

// DefaultParams returns the 3600x3600 configuration with a (300, 100) kernel.
func DefaultParams() Params {
	return Params{
		Width:      3600,
		Height:     3600,
		HalfWidthX: 300,
		HalfWidthY: 100,
		Shape:      DefaultShape,
		Method:     MethodAuto,
	}
}

// NewRand returns a source seeded with seed, or with the current time when
// seed is 0. The seed actually used is returned so the run can be repeated.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// Validate checks dimensions and that the kernel fits inside the noise grid.
func (p Params) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: grid dimensions must be positive, got %dx%d", ErrInvalidParameter, p.Width, p.Height)
	}
	if p.HalfWidthX <= 0 || p.HalfWidthY <= 0 {
		return fmt.Errorf("%w: kernel half-widths must be positive, got (%d, %d)", ErrInvalidParameter, p.HalfWidthX, p.HalfWidthY)
	}
	if _, _, err := ValidShape(p.Width, p.Height, 2*p.HalfWidthX+1, 2*p.HalfWidthY+1); err != nil {
		return err
	}
	if _, err := ParseMethod(string(p.Method)); err != nil {
		return err
	}
	return nil
}

// OutputShape returns the (rows, cols) Synthesize will produce.
func (p Params) OutputShape() (rows, cols int) {
	return p.Width - 2*p.HalfWidthX, p.Height - 2*p.HalfWidthY
}

// Noise fills a rows x cols grid with uniform values in [0, 1), row-major.
func Noise(rows, cols int, src randSource) *dem.Grid {
	g := dem.NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		row := g.Row(r)
		for c := range row {
			row[c] = src.Float64()
		}
	}
	return g
}

// Synthesize smooths uniform noise with a Gaussian kernel and returns the
// valid part of the convolution. Values stay roughly within [0, 1]; they
// are not rescaled.
func Synthesize(p Params) (*dem.Grid, error) {
	if p.Shape == 0 {
		p.Shape = DefaultShape
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	kernel, err := NewKernel(p.HalfWidthX, p.HalfWidthY, p.Shape)
	if err != nil {
		return nil, err
	}

	src := p.Rand
	if src == nil {
		src, _ = NewRand(0)
	}

	noise := Noise(p.Width, p.Height, src)
	return ConvolveValid(noise, kernel, p.Method)
}
