package preview

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gruppe-adler/demgen/internal/dem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampGrid(rows, cols int) *dem.Grid {
	g := dem.NewGrid(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Set(r, c, float64(r+c))
		}
	}
	return g
}

func TestHeightFieldDecimates(t *testing.T) {
	f := newHeightField(rampGrid(600, 300))

	c, r := f.Dims()
	assert.Equal(t, 3, f.step)
	assert.Equal(t, 100, c)
	assert.Equal(t, 200, r)

	// plot row 0 is the southern edge
	assert.Equal(t, float64(597), f.Z(0, 0))
	assert.Equal(t, float64(0), f.Z(0, r-1))
}

func TestHeightFieldSmallGridKeepsAllCells(t *testing.T) {
	f := newHeightField(rampGrid(4, 5))
	c, r := f.Dims()
	assert.Equal(t, 1, f.step)
	assert.Equal(t, 5, c)
	assert.Equal(t, 4, r)
}

func TestRender(t *testing.T) {
	img, err := Render(rampGrid(20, 40), 200)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())

	// a flat grid still renders
	_, err = Render(dem.NewGrid(3, 3), 16)
	assert.NoError(t, err)

	_, err = Render(rampGrid(3, 3), 0)
	assert.Error(t, err)
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()

	paths, err := Build(context.Background(), rampGrid(30, 60), dir, []uint{32, 64})
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.Equal(t, filepath.Join(dir, "preview.png"), paths[0])

	f, err := os.Open(filepath.Join(dir, "preview_32.png"))
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestBuildMissingDirectory(t *testing.T) {
	_, err := Build(context.Background(), rampGrid(3, 3), filepath.Join(t.TempDir(), "nope"), Sizes)
	assert.Error(t, err)
}
