package features

import (
	"sort"

	"github.com/gruppe-adler/demgen/internal/dem"
)

// Summit is a grid cell higher than all eight neighbours.
type Summit struct {
	Row, Col  int
	Elevation float64
}

// FindSummits returns the local maxima of grid sorted by elevation, highest
// first. Edge cells are skipped and cells with an equally high neighbour are
// not counted, so plateaus yield no summit. limit <= 0 returns all of them.
func FindSummits(grid *dem.Grid, limit int) []Summit {
	rows, cols := grid.Shape()
	var summits []Summit

	// for all cells (except edges)
	for row := 1; row < rows-1; row++ {
		for col := 1; col < cols-1; col++ {
			elevation := grid.At(row, col)
			if isSummit(grid, row, col, elevation) {
				summits = append(summits, Summit{Row: row, Col: col, Elevation: elevation})
			}
		}
	}

	sort.SliceStable(summits, func(i, j int) bool {
		return summits[i].Elevation > summits[j].Elevation
	})

	if limit > 0 && len(summits) > limit {
		summits = summits[:limit]
	}
	return summits
}

func isSummit(grid *dem.Grid, row, col int, elevation float64) bool {
	for r := row - 1; r <= row+1; r++ {
		for c := col - 1; c <= col+1; c++ {
			// we don't want to compare to the reference cell
			if r == row && c == col {
				continue
			}
			// same elevation counts as higher, a plateau is no summit
			if grid.At(r, c) >= elevation {
				return false
			}
		}
	}
	return true
}
