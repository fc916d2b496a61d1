package raster

import (
	"fmt"
	"math"
	"strconv"

	"github.com/airbusgeo/godal"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// approxSampleSize bounds the number of rows and columns visited when
// computing approximate statistics.
const approxSampleSize = 2500

// GDAL band metadata keys next to the ones GDAL's statistics write.
const (
	mdValidPercent = "STATISTICS_VALID_PERCENT"
	mdApproximate  = "STATISTICS_APPROXIMATE"
)

// Statistics summarises the valid pixels of a band.
type Statistics struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Mean         float64 `json:"mean"`
	StdDev       float64 `json:"stdDev"`
	ValidCount   int     `json:"validCount"`
	ValidPercent float64 `json:"validPercent"`
	Approximate  bool    `json:"approximate"`
}

// ComputeStatistics summarises a row-major rows x cols buffer. Pixels equal to
// noData and NaN pixels are skipped. Approximate mode visits a regular
// subsample of at most approxSampleSize rows and columns.
func ComputeStatistics(values []float64, rows, cols int, noData float64, approximate bool) Statistics {
	step := 1
	if approximate {
		if n := max(rows, cols); n > approxSampleSize {
			step = (n + approxSampleSize - 1) / approxSampleSize
		}
	}

	visited := 0
	valid := make([]float64, 0, (rows/step+1)*(cols/step+1))
	for r := 0; r < rows; r += step {
		for c := 0; c < cols; c += step {
			visited++
			v := values[r*cols+c]
			if v == noData || math.IsNaN(v) {
				continue
			}
			valid = append(valid, v)
		}
	}

	st := Statistics{Approximate: step > 1}
	if visited == 0 || len(valid) == 0 {
		return st
	}
	mean, variance := stat.PopMeanVariance(valid, nil)
	st.Min = floats.Min(valid)
	st.Max = floats.Max(valid)
	st.Mean = mean
	st.StdDev = math.Sqrt(variance)
	st.ValidCount = len(valid)
	st.ValidPercent = 100 * float64(len(valid)) / float64(visited)
	return st
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 17, 64)
}

// computeBandStatistics reads the band back as stored, counts its valid
// pixels and lets GDAL compute and store min, max, mean and stddev. GDAL
// skips the band no-data value.
func computeBandStatistics(band godal.Band, cols, rows int, approximate bool) (Statistics, error) {
	stored := make([]float64, cols*rows)
	if err := band.Read(0, 0, stored, cols, rows); err != nil {
		return Statistics{}, fmt.Errorf("read back band: %w", err)
	}
	noData, ok := band.NoData()
	if !ok {
		noData = math.NaN()
	}

	st := ComputeStatistics(stored, rows, cols, noData, approximate)
	if st.ValidCount == 0 {
		// GDAL refuses to compute statistics without valid pixels
		return st, nil
	}

	var opts []godal.StatisticsOption
	if approximate {
		opts = append(opts, godal.Approximate())
	}
	gs, err := band.ComputeStatistics(opts...)
	if err != nil {
		return Statistics{}, fmt.Errorf("compute statistics: %w", err)
	}
	st.Min, st.Max, st.Mean, st.StdDev = gs.Min, gs.Max, gs.Mean, gs.Std

	if err := band.SetMetadata(mdValidPercent, formatFloat(st.ValidPercent)); err != nil {
		return Statistics{}, fmt.Errorf("set %s: %w", mdValidPercent, err)
	}
	st.Approximate = st.Approximate || band.Metadata(mdApproximate) == "YES"
	return st, nil
}

// loadStatistics returns the statistics GDAL has stored for a band.
func loadStatistics(band godal.Band) (Statistics, bool, error) {
	gs, ok, err := band.GetStatistics(godal.Approximate())
	if err != nil {
		return Statistics{}, false, fmt.Errorf("get statistics: %w", err)
	}
	if !ok {
		return Statistics{}, false, nil
	}

	st := Statistics{
		Min:         gs.Min,
		Max:         gs.Max,
		Mean:        gs.Mean,
		StdDev:      gs.Std,
		Approximate: band.Metadata(mdApproximate) == "YES",
	}
	if s := band.Metadata(mdValidPercent); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Statistics{}, false, fmt.Errorf("parse %s: %w", mdValidPercent, err)
		}
		st.ValidPercent = v
	}
	return st, true, nil
}
