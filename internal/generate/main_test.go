package generate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gruppe-adler/demgen/internal/config"
	"github.com/gruppe-adler/demgen/internal/features"
	"github.com/gruppe-adler/demgen/internal/manifest"
	"github.com/gruppe-adler/demgen/internal/raster"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output = filepath.Join(t.TempDir(), "dem.tif")
	cfg.Width = 40
	cfg.Height = 30
	cfg.HalfWidthX = 4
	cfg.HalfWidthY = 3
	cfg.Seed = 42
	require.NoError(t, cfg.Validate())
	return &cfg
}

func TestGenerate(t *testing.T) {
	cfg := smallConfig(t)
	var out bytes.Buffer

	m, err := Generate(context.Background(), cfg, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Synthesizing terrain")
	assert.Contains(t, out.String(), "Writing raster")
	assert.Empty(t, m.Sidecars)

	require.NotNil(t, m.Raster)
	assert.Equal(t, 32, m.Raster.Rows)
	assert.Equal(t, 24, m.Raster.Columns)
	assert.Equal(t, int64(42), m.Synthesis.Seed)
	assert.Equal(t, raster.GeoTransform{1, 50, 0, 51, 0, -50}, m.Raster.GeoTransform)

	art, err := raster.Inspect(cfg.Output, 1)
	require.NoError(t, err)
	assert.Equal(t, 4326, art.SRID)
	assert.Equal(t, 15.0, art.NoData)
	assert.Equal(t, "42", art.Metadata[mdSeed])
	assert.Equal(t, m.RunID, art.Metadata[mdRunID])
	assert.Equal(t, "4,3,0.333", art.Metadata[mdKernel])
	assert.InDelta(t, m.Raster.Statistics.Mean, art.Statistics.Mean, 1e-9)

	// smoothed uniform noise stays inside [0, 1]
	assert.GreaterOrEqual(t, art.Statistics.Min, 0.0)
	assert.LessOrEqual(t, art.Statistics.Max, 1.0)
}

func TestGenerateIsRepeatable(t *testing.T) {
	a := smallConfig(t)
	b := smallConfig(t)

	_, err := Generate(context.Background(), a, &bytes.Buffer{})
	require.NoError(t, err)
	_, err = Generate(context.Background(), b, &bytes.Buffer{})
	require.NoError(t, err)

	read := func(path string) []float64 {
		ds, err := raster.Open(path)
		require.NoError(t, err)
		defer ds.Close()
		g, err := ds.ReadGrid(1)
		require.NoError(t, err)
		return g.Float64()
	}
	assert.Equal(t, read(a.Output), read(b.Output))
}

func TestGenerateTimeSeed(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Seed = 0

	m, err := Generate(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)
	assert.NotZero(t, m.Synthesis.Seed)
	assert.Equal(t, strconv.FormatInt(m.Synthesis.Seed, 10), m.Raster.Metadata[mdSeed])
}

func TestGenerateSidecars(t *testing.T) {
	cfg := smallConfig(t)
	dir := filepath.Dir(cfg.Output)
	cfg.Features = true
	cfg.MaxSummits = 5
	cfg.PreviewDir = dir
	cfg.TerrainRGB = filepath.Join(dir, "dem_rgb.png")
	cfg.Manifest = true

	m, err := Generate(context.Background(), cfg, &bytes.Buffer{})
	require.NoError(t, err)

	geojsonPath := filepath.Join(dir, "dem.geojson")
	assert.Contains(t, m.Sidecars, geojsonPath)
	assert.Contains(t, m.Sidecars, filepath.Join(dir, "preview.png"))
	assert.Contains(t, m.Sidecars, filepath.Join(dir, "preview_1024.png"))
	assert.Contains(t, m.Sidecars, cfg.TerrainRGB)
	for _, p := range m.Sidecars {
		assert.FileExists(t, p)
	}

	fc, err := features.Read(geojsonPath)
	require.NoError(t, err)
	footprint, ok := features.Footprint(fc)
	require.True(t, ok)
	assert.Equal(t, m.Raster.Bounds(), footprint.Bound())
	assert.LessOrEqual(t, len(fc.Features), 6)
	assert.LessOrEqual(t, features.Highest(fc), m.Raster.Statistics.Max+1e-6)

	read, err := manifest.Read(filepath.Join(dir, "dem.json"))
	require.NoError(t, err)
	assert.Equal(t, m.RunID, read.RunID)
	assert.Equal(t, m.Sidecars, read.Sidecars)
	assert.Equal(t, orb.Point{1, 51}, orb.Point{read.Raster.GeoTransform.OriginX(), read.Raster.GeoTransform.OriginY()})
}

func TestGenerateMissingOutputDirectory(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Output = filepath.Join(t.TempDir(), "missing", "dem.tif")

	_, err := Generate(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorContains(t, err, "does not exists")
	assert.NoFileExists(t, cfg.Output)
}

func TestGenerateWriteFailureLeavesNoFile(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Raster.SRID = 999999

	_, err := Generate(context.Background(), cfg, &bytes.Buffer{})
	assert.ErrorIs(t, err, raster.ErrWrite)

	_, statErr := os.Stat(cfg.Output)
	assert.True(t, os.IsNotExist(statErr))
}
