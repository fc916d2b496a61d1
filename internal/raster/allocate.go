package raster

import (
	"fmt"
	"sync"

	"github.com/airbusgeo/godal"
)

var registerOnce sync.Once

func registerDrivers() {
	registerOnce.Do(godal.RegisterInternalDrivers)
}

var dataTypes = map[string]godal.DataType{
	"Byte":    godal.Byte,
	"UInt16":  godal.UInt16,
	"Int16":   godal.Int16,
	"UInt32":  godal.UInt32,
	"Int32":   godal.Int32,
	"Float32": godal.Float32,
	"Float64": godal.Float64,
}

// ParseDataType converts a GDAL type name such as "Float32".
func ParseDataType(name string) (godal.DataType, error) {
	dt, ok := dataTypes[name]
	if !ok {
		return godal.Unknown, fmt.Errorf("unsupported pixel type %q", name)
	}
	return dt, nil
}

// Dataset is an open raster handle. Close must be called on every path;
// it flushes pending writes and is safe to call more than once.
type Dataset struct {
	Path   string
	Driver string

	ds *godal.Dataset
}

// Allocate creates an empty raster of the given shape at path, replacing
// any existing file.
func Allocate(path string, columns, rows, bandCount int, dataType godal.DataType, driver string, options ...string) (*Dataset, error) {
	registerDrivers()

	if columns <= 0 || rows <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %dx%d", ErrAllocation, columns, rows)
	}
	if bandCount < 1 {
		return nil, fmt.Errorf("%w: band count must be at least 1, got %d", ErrAllocation, bandCount)
	}
	if dataType == godal.Unknown {
		return nil, fmt.Errorf("%w: unknown pixel type", ErrAllocation)
	}
	if _, ok := godal.RasterDriver(godal.DriverName(driver)); !ok {
		return nil, fmt.Errorf("%w: unknown raster driver %q", ErrAllocation, driver)
	}

	var opts []godal.DatasetCreateOption
	if len(options) > 0 {
		opts = append(opts, godal.CreationOption(options...))
	}
	ds, err := godal.Create(godal.DriverName(driver), path, bandCount, dataType, columns, rows, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrAllocation, path, err)
	}

	return &Dataset{Path: path, Driver: driver, ds: ds}, nil
}

// Structure returns the size, band count and pixel type.
func (d *Dataset) Structure() (columns, rows, bandCount int, dataType godal.DataType) {
	st := d.ds.Structure()
	return st.SizeX, st.SizeY, st.NBands, st.DataType
}

// Close flushes and releases the underlying GDAL dataset.
func (d *Dataset) Close() error {
	if d == nil || d.ds == nil {
		return nil
	}
	err := d.ds.Close()
	d.ds = nil
	return err
}

func (d *Dataset) band(index int) (godal.Band, error) {
	bands := d.ds.Bands()
	if index < 1 || index > len(bands) {
		return godal.Band{}, fmt.Errorf("band %d out of range, raster has %d", index, len(bands))
	}
	return bands[index-1], nil
}
