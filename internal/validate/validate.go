package validate

import (
	"fmt"

	"github.com/gruppe-adler/demgen/internal/utils"
)

// Raster validates that a raster file was written to rasterPath
func Raster(rasterPath string) error {
	if !utils.IsFile(rasterPath) {
		return fmt.Errorf("Failed to create raster: %s", rasterPath)
	}

	return nil
}

// OutputDirectory validates that the parent of an output file exists
func OutputDirectory(dirPath string) error {
	if dirPath == "" || dirPath == "." {
		return nil
	}

	if !utils.IsDirectory(dirPath) {
		return fmt.Errorf("%s does not exists or is no directory", dirPath)
	}

	return nil
}
