package inspect

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"

	"github.com/gruppe-adler/demgen/internal/raster"
	"github.com/gruppe-adler/demgen/internal/utils"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {
	inputPtr := flagSet.String("in", "", "Path to raster file")
	bandPtr := flagSet.Int("band", 1, "Band to describe (1-based)")
	jsonPtr := flagSet.Bool("json", false, "Print the description as JSON")

	flagSet.Parse(os.Args[2:])

	if *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if !utils.IsFile(*inputPtr) {
		log.Fatalf("%s does not exists or is no file", *inputPtr)
	}

	if err := Describe(os.Stdout, *inputPtr, *bandPtr, *jsonPtr); err != nil {
		log.Fatal(err)
	}
}

// Describe prints the structure, georeferencing and statistics of a band.
func Describe(out io.Writer, path string, band int, asJSON bool) error {
	art, err := raster.Inspect(path, band)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "    ")
		return enc.Encode(art)
	}

	gt := art.GeoTransform
	b := art.Bounds()
	st := art.Statistics

	fmt.Fprintf(out, "ℹ️  %s\n", art.Path)
	fmt.Fprintf(out, "    size        %d x %d, %d band(s) of %s\n", art.Columns, art.Rows, art.BandCount, art.DataType)
	fmt.Fprintf(out, "    srid        EPSG:%d\n", art.SRID)
	fmt.Fprintf(out, "    origin      (%g, %g)\n", gt.OriginX(), gt.OriginY())
	fmt.Fprintf(out, "    pixel size  (%g, %g)\n", gt.PixelWidth(), gt.PixelHeight())
	fmt.Fprintf(out, "    bounds      (%g, %g) - (%g, %g)\n", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
	fmt.Fprintf(out, "    no-data     %g\n", art.NoData)
	fmt.Fprintf(out, "    band %d      min %.6f max %.6f mean %.6f stddev %.6f\n", art.BandIndex, st.Min, st.Max, st.Mean, st.StdDev)

	for _, k := range slices.Sorted(maps.Keys(art.Metadata)) {
		fmt.Fprintf(out, "    %s=%s\n", k, art.Metadata[k])
	}

	return nil
}
