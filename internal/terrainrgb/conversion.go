package terrainrgb

import (
	"image/color"
)

/*
	Mapbox Terrain-RGB decodes heights as

	height = -10000 + ((R * 256 * 256 + G * 256 + B) * 0.1)

	Writing x for (R * 256 * 256 + G * 256 + B) and solving for x gives
	x = 10 * height + 100000
	which is just a three digit number in base 256: R, G and B are its digits.
*/

// maxX is the largest encodable value, 256^3 - 1.
const maxX = 1<<24 - 1

// MinHeight and MaxHeight bound the heights Terrain-RGB can represent.
const (
	MinHeight = -10000.0
	MaxHeight = MinHeight + maxX*0.1
)

// HeightToRgb encodes a height in metres. Heights outside
// [MinHeight, MaxHeight] are clamped.
func HeightToRgb(height float64) color.RGBA {
	x := int64(10*height + 100000)
	if x < 0 {
		x = 0
	}
	if x > maxX {
		x = maxX
	}

	return color.RGBA{
		R: uint8(x >> 16),
		G: uint8(x >> 8),
		B: uint8(x),
		A: 255,
	}
}

// RgbToHeight decodes a Terrain-RGB pixel back into metres.
func RgbToHeight(c color.RGBA) float64 {
	x := int64(c.R)<<16 | int64(c.G)<<8 | int64(c.B)

	return MinHeight + float64(x)*0.1
}
