package preview

import (
	"fmt"
	"image"

	"github.com/gruppe-adler/demgen/internal/dem"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// maxCells bounds the heat map resolution along either axis.
const maxCells = 256

// heightField adapts a grid to plotter.GridXYZ, keeping every step-th cell.
// Plot rows grow upwards, so row 0 of the plot is the last grid row.
type heightField struct {
	grid       *dem.Grid
	step       int
	rows, cols int
}

func newHeightField(grid *dem.Grid) heightField {
	rows, cols := grid.Shape()
	step := 1
	if n := max(rows, cols); n > maxCells {
		step = (n + maxCells - 1) / maxCells
	}
	return heightField{
		grid: grid,
		step: step,
		rows: (rows-1)/step + 1,
		cols: (cols-1)/step + 1,
	}
}

func (h heightField) Dims() (c, r int) { return h.cols, h.rows }
func (h heightField) X(c int) float64  { return float64(c) }
func (h heightField) Y(r int) float64  { return float64(r) }

func (h heightField) Z(c, r int) float64 {
	return h.grid.At((h.rows-1-r)*h.step, c*h.step)
}

// Render draws grid as a heat map width pixels wide, keeping the aspect ratio.
func Render(grid *dem.Grid, width int) (image.Image, error) {
	if width <= 0 {
		return nil, fmt.Errorf("preview width must be positive, got %d", width)
	}

	field := newHeightField(grid)
	rows, cols := grid.Shape()
	height := max(1, width*rows/cols)

	hm := plotter.NewHeatMap(field, palette.Heat(64, 1))
	if hm.Min == hm.Max {
		hm.Max = hm.Min + 1
	}

	p := plot.New()
	p.HideAxes()
	p.Add(hm)

	c := vgimg.New(vg.Length(width), vg.Length(height))
	p.Draw(draw.New(c))

	return c.Image(), nil
}
