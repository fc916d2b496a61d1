package raster

import (
	"fmt"
	"strconv"

	"github.com/airbusgeo/godal"
	"github.com/gruppe-adler/demgen/internal/dem"
	"github.com/paulmach/orb"
)

// Artifact describes a finalized raster. It is not modified after the
// writer has validated the file.
type Artifact struct {
	Path         string            `json:"path"`
	Driver       string            `json:"driver,omitempty"`
	Columns      int               `json:"columns"`
	Rows         int               `json:"rows"`
	BandCount    int               `json:"bandCount"`
	BandIndex    int               `json:"bandIndex"`
	DataType     string            `json:"dataType"`
	GeoTransform GeoTransform      `json:"geoTransform"`
	SRID         int               `json:"srid,omitempty"`
	Projection   string            `json:"projection"`
	NoData       float64           `json:"noData"`
	Statistics   Statistics        `json:"statistics"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// Bounds returns the world extent covered by the raster.
func (a *Artifact) Bounds() orb.Bound {
	return a.GeoTransform.Bounds(a.Columns, a.Rows)
}

// Open reopens the artifact read-only.
func (a *Artifact) Open() (*Dataset, error) {
	return Open(a.Path)
}

// Open opens an existing raster read-only.
func Open(path string) (*Dataset, error) {
	registerDrivers()

	ds, err := godal.Open(path, godal.RasterOnly())
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Dataset{Path: path, ds: ds}, nil
}

// GeoTransform returns the affine pixel to world transform.
func (d *Dataset) GeoTransform() (GeoTransform, error) {
	gt, err := d.ds.GeoTransform()
	if err != nil {
		return GeoTransform{}, fmt.Errorf("geotransform of %s: %w", d.Path, err)
	}
	return GeoTransform(gt), nil
}

// Projection returns the WKT of the dataset's spatial reference.
func (d *Dataset) Projection() string {
	return d.ds.Projection()
}

// SRID returns the EPSG code of the spatial reference, 0 if there is none.
func (d *Dataset) SRID() int {
	if d.ds.Projection() == "" {
		return 0
	}
	sr := d.ds.SpatialRef()
	defer sr.Close()

	code, err := strconv.Atoi(sr.AuthorityCode(""))
	if err != nil {
		return 0
	}
	return code
}

// Metadata returns the dataset level metadata of the default domain.
func (d *Dataset) Metadata() map[string]string {
	return d.ds.Metadatas()
}

// NoData returns the no-data value of a band, if one is set.
func (d *Dataset) NoData(bandIndex int) (float64, bool, error) {
	band, err := d.band(bandIndex)
	if err != nil {
		return 0, false, err
	}
	nd, ok := band.NoData()
	return nd, ok, nil
}

// Statistics returns the statistics stored on a band, if any.
func (d *Dataset) Statistics(bandIndex int) (Statistics, bool, error) {
	band, err := d.band(bandIndex)
	if err != nil {
		return Statistics{}, false, err
	}
	return loadStatistics(band)
}

// ReadGrid reads a whole band into a grid.
func (d *Dataset) ReadGrid(bandIndex int) (*dem.Grid, error) {
	band, err := d.band(bandIndex)
	if err != nil {
		return nil, err
	}
	cols, rows, _, _ := d.Structure()
	buf := make([]float64, cols*rows)
	if err := band.Read(0, 0, buf, cols, rows); err != nil {
		return nil, fmt.Errorf("read band %d of %s: %w", bandIndex, d.Path, err)
	}
	return dem.FromData(rows, cols, buf)
}

// Inspect opens the raster at path and describes it as an Artifact.
func Inspect(path string, bandIndex int) (*Artifact, error) {
	ds, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer ds.Close()

	cols, rows, bandCount, dataType := ds.Structure()
	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, err
	}
	nd, _, err := ds.NoData(bandIndex)
	if err != nil {
		return nil, err
	}
	st, _, err := ds.Statistics(bandIndex)
	if err != nil {
		return nil, err
	}

	return &Artifact{
		Path:         path,
		Columns:      cols,
		Rows:         rows,
		BandCount:    bandCount,
		BandIndex:    bandIndex,
		DataType:     dataType.String(),
		GeoTransform: gt,
		SRID:         ds.SRID(),
		Projection:   ds.Projection(),
		NoData:       nd,
		Statistics:   st,
		Metadata:     ds.Metadata(),
	}, nil
}
