package utils

import (
	"os"
	"path/filepath"
)

// IsFile tests whether given path exists and is a regular file
func IsFile(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

// IsDirectory tests whether given path exists and is a directory
func IsDirectory(dirPath string) bool {
	info, err := os.Stat(dirPath)
	if err != nil {
		return false
	}

	return info.IsDir()
}

// SiblingPath replaces the extension of filePath with ext, e.g.
// SiblingPath("out/dem.tif", ".json") is "out/dem.json".
func SiblingPath(filePath, ext string) string {
	return filePath[:len(filePath)-len(filepath.Ext(filePath))] + ext
}
