package raster

import "errors"

var (
	// ErrAllocation means the raster container could not be created:
	// unknown driver, unwritable path or invalid shape/type.
	ErrAllocation = errors.New("raster allocation failed")

	// ErrWrite means georeferencing or pixel data could not be written.
	ErrWrite = errors.New("raster write failed")

	// ErrValidation means the raster is missing after the write sequence.
	ErrValidation = errors.New("raster validation failed")
)
