package generate

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gruppe-adler/demgen/internal/config"
	"github.com/gruppe-adler/demgen/internal/dem"
	"github.com/gruppe-adler/demgen/internal/features"
	"github.com/gruppe-adler/demgen/internal/manifest"
	"github.com/gruppe-adler/demgen/internal/preview"
	"github.com/gruppe-adler/demgen/internal/raster"
	"github.com/gruppe-adler/demgen/internal/terrain"
	"github.com/gruppe-adler/demgen/internal/terrainrgb"
	"github.com/gruppe-adler/demgen/internal/utils"
	"github.com/gruppe-adler/demgen/internal/validate"
)

// Dataset metadata keys written next to the terrain.
const (
	mdSeed   = "DEMGEN_SEED"
	mdRunID  = "DEMGEN_RUN_ID"
	mdKernel = "DEMGEN_KERNEL"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {
	start := time.Now()

	configPtr := flagSet.String("config", "", "Path to JSON config file")
	fv := config.Default()
	config.Bind(flagSet, &fv)

	flagSet.Parse(os.Args[2:])

	cfg, err := config.Load(*configPtr)
	if err != nil {
		log.Fatal(err)
	}
	if err := config.Override(flagSet, cfg); err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	fmt.Println("✔️  Validated configuration")

	m, err := Generate(context.Background(), cfg, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("ℹ️  Seed %d, run %s\n", m.Synthesis.Seed, m.RunID)
	fmt.Printf("\n    🎉  Finished in %s\n", time.Now().Sub(start).String())
}

// step prints progress lines around fn.
func step(out io.Writer, name string, fn func() error) error {
	timer := time.Now()
	fmt.Fprintf(out, "▶️  %s\n", name)

	if err := fn(); err != nil {
		return err
	}

	fmt.Fprintf(out, "✔️  %s finished in %s\n", name, time.Now().Sub(timer).String())
	return nil
}

// Generate synthesizes a terrain, writes it as a raster to cfg.Output and
// adds the sidecar outputs cfg asks for. cfg must be valid.
func Generate(ctx context.Context, cfg *config.Config, out io.Writer) (*manifest.Manifest, error) {
	for _, dir := range []string{filepath.Dir(cfg.Output), cfg.PreviewDir} {
		if err := validate.OutputDirectory(dir); err != nil {
			return nil, err
		}
	}
	if cfg.TerrainRGB != "" {
		if err := validate.OutputDirectory(filepath.Dir(cfg.TerrainRGB)); err != nil {
			return nil, err
		}
	}

	writer, err := raster.NewWriter(cfg.Raster)
	if err != nil {
		return nil, err
	}

	rnd, seed := terrain.NewRand(cfg.Seed)
	params := cfg.Params()
	params.Rand = rnd

	m := manifest.New(params, seed)

	var grid *dem.Grid
	err = step(out, "Synthesizing terrain", func() error {
		var err error
		grid, err = terrain.Synthesize(params)
		return err
	})
	if err != nil {
		return nil, err
	}

	writer.Metadata = map[string]string{
		mdSeed:   strconv.FormatInt(seed, 10),
		mdRunID:  m.RunID,
		mdKernel: fmt.Sprintf("%d,%d,%g", params.HalfWidthX, params.HalfWidthY, params.Shape),
	}

	err = step(out, "Writing raster", func() error {
		art, err := writer.Write(cfg.Output, grid, cfg.UpperLeft(), cfg.CellResolution)
		if err != nil {
			return err
		}
		m.Raster = art
		return nil
	})
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(out, "ℹ️  %dx%d cells, elevation %.4f to %.4f\n",
		m.Raster.Columns, m.Raster.Rows, m.Raster.Statistics.Min, m.Raster.Statistics.Max)

	if cfg.Features {
		p := utils.SiblingPath(cfg.Output, ".geojson")
		err := step(out, "Writing features", func() error {
			return features.Write(p, features.Build(grid, m.Raster.GeoTransform, cfg.MaxSummits))
		})
		if err != nil {
			return nil, err
		}
		m.Sidecars = append(m.Sidecars, p)
	}

	if cfg.PreviewDir != "" {
		err := step(out, "Building preview images", func() error {
			paths, err := preview.Build(ctx, grid, cfg.PreviewDir, preview.Sizes)
			m.Sidecars = append(m.Sidecars, paths...)
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.TerrainRGB != "" {
		err := step(out, "Writing Terrain-RGB image", func() error {
			return terrainrgb.Write(cfg.TerrainRGB, grid, cfg.TerrainRGBScale, cfg.TerrainRGBOffset)
		})
		if err != nil {
			return nil, err
		}
		m.Sidecars = append(m.Sidecars, cfg.TerrainRGB)
	}

	if cfg.Manifest {
		p := utils.SiblingPath(cfg.Output, ".json")
		err := step(out, "Writing manifest", func() error {
			return manifest.Write(p, m)
		})
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}
