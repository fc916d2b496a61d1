// Package config assembles the generator settings from defaults, an optional
// JSON file, DEMGEN_* environment variables and command line flags, in that
// order of precedence.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/gruppe-adler/demgen/internal/raster"
	"github.com/gruppe-adler/demgen/internal/terrain"
	"github.com/paulmach/orb"
)

// EnvPrefix prefixes every environment variable the config reads.
const EnvPrefix = "DEMGEN_"

// maxFileSize bounds config files (1MB).
const maxFileSize = 1 * 1024 * 1024

// Config holds everything one generator run needs.
type Config struct {
	Output string `json:"output" env:"OUTPUT"`

	// Seed of the noise source, 0 picks a time based seed.
	Seed int64 `json:"seed" env:"SEED"`

	Width      int     `json:"width" env:"WIDTH"`
	Height     int     `json:"height" env:"HEIGHT"`
	HalfWidthX int     `json:"halfWidthX" env:"HALF_WIDTH_X"`
	HalfWidthY int     `json:"halfWidthY" env:"HALF_WIDTH_Y"`
	Shape      float64 `json:"shape" env:"SHAPE"`
	Method     string  `json:"method" env:"METHOD"`

	UpperLeftX     float64 `json:"upperLeftX" env:"UPPER_LEFT_X"`
	UpperLeftY     float64 `json:"upperLeftY" env:"UPPER_LEFT_Y"`
	CellResolution float64 `json:"cellResolution" env:"CELL_RESOLUTION"`

	Raster raster.Config `json:"raster" envPrefix:"RASTER_"`

	// Sidecar outputs
	Features         bool    `json:"features" env:"FEATURES"`
	MaxSummits       int     `json:"maxSummits" env:"MAX_SUMMITS"`
	PreviewDir       string  `json:"previewDir" env:"PREVIEW_DIR"`
	TerrainRGB       string  `json:"terrainRgb" env:"TERRAIN_RGB"`
	TerrainRGBScale  float64 `json:"terrainRgbScale" env:"TERRAIN_RGB_SCALE"`
	TerrainRGBOffset float64 `json:"terrainRgbOffset" env:"TERRAIN_RGB_OFFSET"`
	Manifest         bool    `json:"manifest" env:"MANIFEST"`
}

// Default returns the built-in configuration: a 3600x3600 noise grid smoothed
// with a (300, 100) kernel, written to dem.tif at (1, 1) with 50 unit cells.
func Default() Config {
	p := terrain.DefaultParams()
	return Config{
		Output:          "dem.tif",
		Width:           p.Width,
		Height:          p.Height,
		HalfWidthX:      p.HalfWidthX,
		HalfWidthY:      p.HalfWidthY,
		Shape:           p.Shape,
		Method:          string(p.Method),
		UpperLeftX:      1,
		UpperLeftY:      1,
		CellResolution:  50,
		Raster:          raster.DefaultConfig(),
		MaxSummits:      100,
		TerrainRGBScale: 1000,
	}
}

// Load returns the defaults overlaid with the JSON file at path (if path is
// not empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := ParseEnv(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// loadFile overlays a JSON file. Fields missing from the file keep their
// current values.
func (c *Config) loadFile(path string) error {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return nil
}

// ParseEnv loads DEMGEN_* environment variables into target.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Bind registers one flag per setting on fs, with c's values as defaults.
func Bind(fs *flag.FlagSet, c *Config) {
	fs.StringVar(&c.Output, "out", c.Output, "Path of the raster to write")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Seed of the noise source (0 = time based)")

	fs.IntVar(&c.Width, "width", c.Width, "Rows of the noise grid")
	fs.IntVar(&c.Height, "height", c.Height, "Columns of the noise grid")
	fs.IntVar(&c.HalfWidthX, "hx", c.HalfWidthX, "Kernel half-width along rows")
	fs.IntVar(&c.HalfWidthY, "hy", c.HalfWidthY, "Kernel half-width along columns")
	fs.Float64Var(&c.Shape, "shape", c.Shape, "Kernel decay constant")
	fs.StringVar(&c.Method, "method", c.Method, "Convolution method (auto, direct, fft)")

	fs.Float64Var(&c.UpperLeftX, "ulx", c.UpperLeftX, "X of the upper left corner")
	fs.Float64Var(&c.UpperLeftY, "uly", c.UpperLeftY, "Y of the upper left corner")
	fs.Float64Var(&c.CellResolution, "res", c.CellResolution, "Cell size in world units")

	fs.StringVar(&c.Raster.Driver, "driver", c.Raster.Driver, "GDAL raster driver")
	fs.StringVar(&c.Raster.DataType, "type", c.Raster.DataType, "Pixel type (Float32, Float64, ...)")
	fs.Float64Var(&c.Raster.NoData, "nodata", c.Raster.NoData, "No-data value")
	fs.IntVar(&c.Raster.SRID, "srid", c.Raster.SRID, "EPSG code of the spatial reference")
	fs.IntVar(&c.Raster.BandCount, "bands", c.Raster.BandCount, "Number of bands to allocate")
	fs.IntVar(&c.Raster.BandIndex, "band", c.Raster.BandIndex, "Band to write the terrain to (1-based)")
	fs.BoolVar(&c.Raster.ExactStatistics, "exact-stats", c.Raster.ExactStatistics, "Compute statistics over every pixel")

	fs.BoolVar(&c.Features, "features", c.Features, "Write a GeoJSON footprint and summits next to the raster")
	fs.IntVar(&c.MaxSummits, "summits", c.MaxSummits, "Maximum number of summits (0 = all)")
	fs.StringVar(&c.PreviewDir, "preview", c.PreviewDir, "Directory for preview images")
	fs.StringVar(&c.TerrainRGB, "terrainrgb", c.TerrainRGB, "Path of a Terrain-RGB PNG to write")
	fs.Float64Var(&c.TerrainRGBScale, "rgb-scale", c.TerrainRGBScale, "Metres per elevation unit in Terrain-RGB")
	fs.Float64Var(&c.TerrainRGBOffset, "rgb-offset", c.TerrainRGBOffset, "Metres added in Terrain-RGB")
	fs.BoolVar(&c.Manifest, "manifest", c.Manifest, "Write a JSON manifest next to the raster")
}

// Override applies the flags explicitly set on fs to c, leaving all other
// settings as loaded.
func Override(fs *flag.FlagSet, c *Config) error {
	target := flag.NewFlagSet(fs.Name(), flag.ContinueOnError)
	Bind(target, c)

	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil || target.Lookup(f.Name) == nil {
			return
		}
		err = target.Set(f.Name, f.Value.String())
	})
	return err
}

// Params returns the synthesis parameters, without a random source.
func (c *Config) Params() terrain.Params {
	return terrain.Params{
		Width:      c.Width,
		Height:     c.Height,
		HalfWidthX: c.HalfWidthX,
		HalfWidthY: c.HalfWidthY,
		Shape:      c.Shape,
		Method:     terrain.Method(c.Method),
	}
}

// UpperLeft returns the world position of the top left raster corner.
func (c *Config) UpperLeft() orb.Point {
	return orb.Point{c.UpperLeftX, c.UpperLeftY}
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if c.Output == "" {
		return fmt.Errorf("output path must be set")
	}
	if !(c.Shape > 0) {
		return fmt.Errorf("%w: kernel shape must be positive, got %v", terrain.ErrInvalidParameter, c.Shape)
	}
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if !(c.CellResolution > 0) || math.IsInf(c.CellResolution, 0) {
		return fmt.Errorf("cell resolution must be positive, got %v", c.CellResolution)
	}
	if err := c.Raster.Validate(); err != nil {
		return fmt.Errorf("raster: %w", err)
	}
	if c.MaxSummits < 0 {
		return fmt.Errorf("max summits must not be negative, got %d", c.MaxSummits)
	}
	if c.TerrainRGB != "" && c.TerrainRGBScale == 0 {
		return fmt.Errorf("terrain-rgb scale must not be zero")
	}
	return nil
}
