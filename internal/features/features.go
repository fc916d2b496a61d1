package features

import (
	"fmt"
	"math"
	"os"

	"github.com/gruppe-adler/demgen/internal/dem"
	"github.com/gruppe-adler/demgen/internal/raster"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Build returns a feature collection with the raster footprint polygon and
// up to maxSummits summit points placed at cell centres.
func Build(grid *dem.Grid, gt raster.GeoTransform, maxSummits int) *geojson.FeatureCollection {
	rows, cols := grid.Shape()
	fc := geojson.NewFeatureCollection()

	footprint := geojson.NewFeature(gt.Bounds(cols, rows).ToPolygon())
	footprint.Properties["layer"] = "footprint"
	footprint.Properties["columns"] = cols
	footprint.Properties["rows"] = rows
	fc.Append(footprint)

	for rank, s := range FindSummits(grid, maxSummits) {
		feature := geojson.NewFeature(gt.Apply(float64(s.Col)+0.5, float64(s.Row)+0.5))
		feature.Properties["layer"] = "summit"
		feature.Properties["rank"] = rank + 1
		feature.Properties["elevation"] = s.Elevation
		feature.Properties["text"] = fmt.Sprintf("%.3f", s.Elevation)
		feature.Properties["row"] = s.Row
		feature.Properties["col"] = s.Col
		fc.Append(feature)
	}

	return fc
}

// Footprint returns the footprint polygon of a collection built by Build.
func Footprint(fc *geojson.FeatureCollection) (orb.Polygon, bool) {
	for _, f := range fc.Features {
		if f.Properties["layer"] != "footprint" {
			continue
		}
		p, ok := f.Geometry.(orb.Polygon)
		return p, ok
	}
	return nil, false
}

// Write stores fc as GeoJSON at path.
func Write(path string, fc *geojson.FeatureCollection) error {
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("marshal features: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

// Read loads a GeoJSON feature collection from path.
func Read(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// Highest returns the elevation of the highest summit in fc, NaN if there is none.
func Highest(fc *geojson.FeatureCollection) float64 {
	best := math.NaN()
	for _, f := range fc.Features {
		if f.Properties["layer"] != "summit" {
			continue
		}
		e := f.Properties.MustFloat64("elevation", math.NaN())
		if math.IsNaN(best) || e > best {
			best = e
		}
	}
	return best
}
