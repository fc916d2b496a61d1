package preview

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"path"
	"runtime"

	"github.com/gruppe-adler/demgen/internal/dem"
	"github.com/nfnt/resize"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Sizes are the default thumbnail widths.
var Sizes = []uint{128, 256, 512, 1024}

// baseWidth is the width of the full preview image.
const baseWidth = 1024

// Build writes preview.png and one preview_<size>.png per size into
// outputDirectory and returns the written paths.
func Build(ctx context.Context, grid *dem.Grid, outputDirectory string, sizes []uint) ([]string, error) {
	img, err := Render(grid, baseWidth)
	if err != nil {
		return nil, err
	}

	previewPath := path.Join(outputDirectory, "preview.png")
	if err := saveImage(previewPath, img); err != nil {
		return nil, err
	}

	paths := make([]string, len(sizes))
	sem := semaphore.NewWeighted(int64(runtime.NumCPU()))
	g, ctx := errgroup.WithContext(ctx)

	for i, size := range sizes {
		i, size := i, size
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sem.Release(1)

			p := path.Join(outputDirectory, fmt.Sprintf("preview_%d.png", size))
			if err := saveImage(p, Thumbnail(img, size)); err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return append([]string{previewPath}, paths...), nil
}

// Thumbnail scales img to the given width, keeping the aspect ratio.
func Thumbnail(img image.Image, width uint) image.Image {
	return resize.Resize(width, 0, img, resize.MitchellNetravali)
}

func saveImage(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return out.Close()
}
