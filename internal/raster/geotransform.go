package raster

import (
	"github.com/paulmach/orb"
)

// GeoTransform maps pixel (col, row) to world (x, y), in GDAL order:
// origin x, pixel width, row rotation, origin y, column rotation, pixel height.
type GeoTransform [6]float64

// NewGeoTransform builds a north-up transform with square cells.
// The origin y is shifted one cell up from upperLeft.Y(); existing consumers
// of the generated rasters depend on that placement.
func NewGeoTransform(upperLeft orb.Point, cellResolution float64) GeoTransform {
	return GeoTransform{
		upperLeft.X(),
		cellResolution,
		0,
		upperLeft.Y() + cellResolution,
		0,
		-cellResolution,
	}
}

func (gt GeoTransform) OriginX() float64        { return gt[0] }
func (gt GeoTransform) PixelWidth() float64     { return gt[1] }
func (gt GeoTransform) RowRotation() float64    { return gt[2] }
func (gt GeoTransform) OriginY() float64        { return gt[3] }
func (gt GeoTransform) ColumnRotation() float64 { return gt[4] }
func (gt GeoTransform) PixelHeight() float64    { return gt[5] }

// Apply returns the world position of the pixel coordinate (col, row).
// Whole numbers address pixel corners, add 0.5 for centres.
func (gt GeoTransform) Apply(col, row float64) orb.Point {
	return orb.Point{
		gt[0] + col*gt[1] + row*gt[2],
		gt[3] + col*gt[4] + row*gt[5],
	}
}

// Bounds returns the world extent of a cols x rows raster.
func (gt GeoTransform) Bounds(cols, rows int) orb.Bound {
	c, r := float64(cols), float64(rows)
	return orb.MultiPoint{
		gt.Apply(0, 0),
		gt.Apply(c, 0),
		gt.Apply(0, r),
		gt.Apply(c, r),
	}.Bound()
}
