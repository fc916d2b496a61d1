package raster

import (
	"fmt"

	"github.com/airbusgeo/godal"
)

// ProjectionWKT resolves an EPSG code to its WKT definition.
func ProjectionWKT(srid int) (string, error) {
	registerDrivers()

	sr, err := godal.NewSpatialRefFromEPSG(srid)
	if err != nil {
		return "", fmt.Errorf("resolve EPSG:%d: %w", srid, err)
	}
	defer sr.Close()

	return sr.WKT()
}

// setSpatialRef assigns EPSG:srid to the dataset and returns its WKT.
func (d *Dataset) setSpatialRef(srid int) (string, error) {
	sr, err := godal.NewSpatialRefFromEPSG(srid)
	if err != nil {
		return "", fmt.Errorf("resolve EPSG:%d: %w", srid, err)
	}
	defer sr.Close()

	if err := d.ds.SetSpatialRef(sr); err != nil {
		return "", fmt.Errorf("set spatial reference: %w", err)
	}

	wkt, err := sr.WKT()
	if err != nil {
		return "", fmt.Errorf("export EPSG:%d: %w", srid, err)
	}
	return wkt, nil
}
