package raster

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"os"

	"github.com/airbusgeo/godal"
	"github.com/gruppe-adler/demgen/internal/dem"
	"github.com/gruppe-adler/demgen/internal/validate"
	"github.com/paulmach/orb"
)

// Config holds the raster settings a Writer is constructed with.
type Config struct {
	Driver    string  `json:"driver" env:"DRIVER"`
	DataType  string  `json:"dataType" env:"DATA_TYPE"`
	NoData    float64 `json:"noData" env:"NO_DATA"`
	SRID      int     `json:"srid" env:"SRID"`
	BandCount int     `json:"bandCount" env:"BAND_COUNT"`
	BandIndex int     `json:"bandIndex" env:"BAND_INDEX"`

	// ExactStatistics visits every pixel instead of a subsample.
	ExactStatistics bool `json:"exactStatistics" env:"EXACT_STATISTICS"`

	// CreationOptions are passed to the driver, e.g. "COMPRESS=DEFLATE".
	CreationOptions []string `json:"creationOptions,omitempty" env:"CREATION_OPTIONS"`
}

// DefaultConfig returns a single band Float32 GeoTIFF in EPSG:4326 with
// no-data 15.
func DefaultConfig() Config {
	return Config{
		Driver:    string(godal.GTiff),
		DataType:  "Float32",
		NoData:    15,
		SRID:      4326,
		BandCount: 1,
		BandIndex: 1,
	}
}

// Validate checks the config without touching GDAL.
func (c Config) Validate() error {
	if c.Driver == "" {
		return fmt.Errorf("raster driver must be set")
	}
	if _, err := ParseDataType(c.DataType); err != nil {
		return err
	}
	if c.SRID <= 0 {
		return fmt.Errorf("srid must be positive, got %d", c.SRID)
	}
	if c.BandCount < 1 {
		return fmt.Errorf("band count must be at least 1, got %d", c.BandCount)
	}
	if c.BandIndex < 1 || c.BandIndex > c.BandCount {
		return fmt.Errorf("band index %d out of range 1..%d", c.BandIndex, c.BandCount)
	}
	if math.IsNaN(c.NoData) {
		return fmt.Errorf("no-data value must be a number")
	}
	return nil
}

// Writer turns elevation grids into georeferenced raster files.
type Writer struct {
	cfg Config

	// Metadata is stored on the dataset of every raster written.
	Metadata map[string]string
}

// NewWriter returns a Writer for cfg.
func NewWriter(cfg Config) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Writer{cfg: cfg}, nil
}

// Config returns the writer's settings.
func (w *Writer) Config() Config {
	return w.cfg
}

// Write stores grid at path with its top-left corner at upperLeft and square
// cells of cellResolution. The raster is closed and verified on disk before
// Write returns; an existing file at path is replaced.
func (w *Writer) Write(path string, grid *dem.Grid, upperLeft orb.Point, cellResolution float64) (*Artifact, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: no grid", ErrWrite)
	}
	if !(cellResolution > 0) || math.IsInf(cellResolution, 0) {
		return nil, fmt.Errorf("%w: cell resolution must be positive, got %v", ErrWrite, cellResolution)
	}

	// the grid is the only source of truth for the raster shape
	rows, columns := grid.Shape()

	dataType, err := ParseDataType(w.cfg.DataType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	ds, err := Allocate(path, columns, rows, w.cfg.BandCount, dataType, w.cfg.Driver, w.cfg.CreationOptions...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	defer ds.Close()

	art := &Artifact{
		Path:         path,
		Driver:       w.cfg.Driver,
		Columns:      columns,
		Rows:         rows,
		BandCount:    w.cfg.BandCount,
		BandIndex:    w.cfg.BandIndex,
		DataType:     dataType.String(),
		GeoTransform: NewGeoTransform(upperLeft, cellResolution),
		SRID:         w.cfg.SRID,
		NoData:       w.cfg.NoData,
		Metadata:     maps.Clone(w.Metadata),
	}

	if err := w.populate(ds, grid, dataType, art); err != nil {
		// a half written raster is not valid output
		ds.Close()
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %v (partial file left behind: %v)", ErrWrite, path, err, rmErr)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}

	// closing flushes the band caches to disk
	if err := ds.Close(); err != nil {
		return nil, fmt.Errorf("%w: flush %s: %v", ErrWrite, path, err)
	}

	if err := validate.Raster(path); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return art, nil
}

func (w *Writer) populate(ds *Dataset, grid *dem.Grid, dataType godal.DataType, art *Artifact) error {
	cols, rows, _, _ := ds.Structure()
	if cols != art.Columns || rows != art.Rows {
		return fmt.Errorf("allocated %dx%d raster for a %dx%d grid", cols, rows, art.Columns, art.Rows)
	}

	wkt, err := ds.setSpatialRef(w.cfg.SRID)
	if err != nil {
		return err
	}
	art.Projection = wkt

	if err := ds.ds.SetGeoTransform(art.GeoTransform); err != nil {
		return fmt.Errorf("set geotransform: %w", err)
	}

	for k, v := range w.Metadata {
		if err := ds.ds.SetMetadata(k, v); err != nil {
			return fmt.Errorf("set metadata %s: %w", k, err)
		}
	}

	band, err := ds.band(w.cfg.BandIndex)
	if err != nil {
		return err
	}

	if dataType == godal.Float32 {
		err = band.Write(0, 0, grid.Float32(), cols, rows)
	} else {
		err = band.Write(0, 0, grid.Float64(), cols, rows)
	}
	if err != nil {
		return fmt.Errorf("write band %d: %w", w.cfg.BandIndex, err)
	}

	if err := band.SetNoData(w.cfg.NoData); err != nil {
		return fmt.Errorf("set no-data: %w", err)
	}

	// statistics describe the pixels as stored, after conversion to dataType
	art.Statistics, err = computeBandStatistics(band, cols, rows, !w.cfg.ExactStatistics)
	if err != nil {
		return err
	}
	return nil
}
