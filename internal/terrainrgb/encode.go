package terrainrgb

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gruppe-adler/demgen/internal/dem"
)

// Encode turns grid values into a Terrain-RGB image. Each value is mapped to
// metres as value*scale + offset before encoding.
func Encode(grid *dem.Grid, scale, offset float64) *image.RGBA {
	rows, cols := grid.Shape()
	img := image.NewRGBA(image.Rect(0, 0, cols, rows))

	for row := 0; row < rows; row++ {
		for col, v := range grid.Row(row) {
			img.SetRGBA(col, row, HeightToRgb(v*scale+offset))
		}
	}

	return img
}

// Decode reverses Encode for the same scale and offset, up to the
// 0.1 m resolution of the format.
func Decode(img *image.RGBA, scale, offset float64) *dem.Grid {
	b := img.Bounds()
	grid := dem.NewGrid(b.Dy(), b.Dx())

	for row := 0; row < b.Dy(); row++ {
		for col := 0; col < b.Dx(); col++ {
			h := RgbToHeight(img.RGBAAt(b.Min.X+col, b.Min.Y+row))
			grid.Set(row, col, (h-offset)/scale)
		}
	}

	return grid
}

// Write encodes grid and stores it as PNG at path.
func Write(path string, grid *dem.Grid, scale, offset float64) error {
	if scale == 0 {
		return fmt.Errorf("terrain-rgb scale must not be zero")
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(out, Encode(grid, scale, offset)); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return out.Close()
}
