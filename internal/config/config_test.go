package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/gruppe-adler/demgen/internal/terrain"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "dem.tif", cfg.Output)
	assert.Equal(t, 3600, cfg.Width)
	assert.Equal(t, 3600, cfg.Height)
	assert.Equal(t, 300, cfg.HalfWidthX)
	assert.Equal(t, 100, cfg.HalfWidthY)
	assert.Equal(t, terrain.DefaultShape, cfg.Shape)
	assert.Equal(t, orb.Point{1, 1}, cfg.UpperLeft())
	assert.Equal(t, 50.0, cfg.CellResolution)
	assert.Equal(t, "GTiff", cfg.Raster.Driver)
	assert.Equal(t, "Float32", cfg.Raster.DataType)
	assert.Equal(t, 15.0, cfg.Raster.NoData)
	assert.Equal(t, 4326, cfg.Raster.SRID)
	assert.Equal(t, 1, cfg.Raster.BandCount)
	assert.Equal(t, 1, cfg.Raster.BandIndex)
	assert.NoError(t, cfg.Validate())

	rows, cols := cfg.Params().OutputShape()
	assert.Equal(t, 3000, rows)
	assert.Equal(t, 3400, cols)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadFile(t *testing.T) {
	p := writeFile(t, "demgen.json", `{
		"output": "out/terrain.tif",
		"width": 200,
		"height": 120,
		"halfWidthX": 10,
		"halfWidthY": 5,
		"seed": 7,
		"raster": {"dataType": "Float64", "srid": 32632, "creationOptions": ["COMPRESS=DEFLATE"]}
	}`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "out/terrain.tif", cfg.Output)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 120, cfg.Height)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, "Float64", cfg.Raster.DataType)
	assert.Equal(t, 32632, cfg.Raster.SRID)
	assert.Equal(t, []string{"COMPRESS=DEFLATE"}, cfg.Raster.CreationOptions)

	// untouched fields keep their defaults
	assert.Equal(t, "GTiff", cfg.Raster.Driver)
	assert.Equal(t, 15.0, cfg.Raster.NoData)
	assert.Equal(t, 50.0, cfg.CellResolution)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := Load(writeFile(t, "demgen.yaml", "width: 1"))
	assert.ErrorContains(t, err, ".json extension")

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "stat config file")

	_, err = Load(writeFile(t, "broken.json", "{"))
	assert.ErrorContains(t, err, "parse config JSON")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	p := writeFile(t, "demgen.json", `{"width": 200, "height": 200}`)
	t.Setenv("DEMGEN_WIDTH", "300")
	t.Setenv("DEMGEN_METHOD", "direct")
	t.Setenv("DEMGEN_RASTER_SRID", "3857")
	t.Setenv("DEMGEN_RASTER_CREATION_OPTIONS", "COMPRESS=LZW,TILED=YES")

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
	assert.Equal(t, "direct", cfg.Method)
	assert.Equal(t, 3857, cfg.Raster.SRID)
	assert.Equal(t, []string{"COMPRESS=LZW", "TILED=YES"}, cfg.Raster.CreationOptions)
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("DEMGEN_WIDTH", "wide")

	_, err := Load("")
	assert.ErrorContains(t, err, "parse env")
}

func TestOverrideOnlyAppliesSetFlags(t *testing.T) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fv := Default()
	Bind(fs, &fv)
	require.NoError(t, fs.Parse([]string{"-width", "400", "-srid", "3857", "-features", "-ulx", "12.5"}))

	cfg := Default()
	cfg.Height = 500
	cfg.Output = "from-file.tif"
	require.NoError(t, Override(fs, &cfg))

	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 3857, cfg.Raster.SRID)
	assert.True(t, cfg.Features)
	assert.Equal(t, 12.5, cfg.UpperLeftX)

	assert.Equal(t, 500, cfg.Height)
	assert.Equal(t, "from-file.tif", cfg.Output)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"empty output", func(c *Config) { c.Output = "" }, "output path"},
		{"zero shape", func(c *Config) { c.Shape = 0 }, "shape"},
		{"kernel too large", func(c *Config) { c.HalfWidthX = 1800 }, "kernel"},
		{"unknown method", func(c *Config) { c.Method = "wavelet" }, "method"},
		{"zero resolution", func(c *Config) { c.CellResolution = 0 }, "cell resolution"},
		{"band out of range", func(c *Config) { c.Raster.BandIndex = 2 }, "raster: band index"},
		{"negative summits", func(c *Config) { c.MaxSummits = -1 }, "max summits"},
		{"zero rgb scale", func(c *Config) { c.TerrainRGB = "rgb.png"; c.TerrainRGBScale = 0 }, "scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}
