// Package dither synthesises the banded gradient backdrop with 8x8
// ordered (Bayer) dithering, so a handful of colour levels reads as a
// smooth vertical gradient without relying on native smoothing.
//
// Output depends only on the arguments: the same (width, height, colours,
// levels) always yields byte-identical pixels.
package dither

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/san-kum/stardust/internal/palette"
	xdraw "golang.org/x/image/draw"
)

var (
	ErrInvalidSize   = errors.New("dither: width and height must be positive")
	ErrInvalidLevels = errors.New("dither: need at least 2 levels")
)

// Bayer8 is the classic 8x8 threshold map, values 0..63.
var Bayer8 = [8][8]uint8{
	{0, 32, 8, 40, 2, 34, 10, 42},
	{48, 16, 56, 24, 50, 18, 58, 26},
	{12, 44, 4, 36, 14, 46, 6, 38},
	{60, 28, 52, 20, 62, 30, 54, 22},
	{3, 35, 11, 43, 1, 33, 9, 41},
	{51, 19, 59, 27, 49, 17, 57, 25},
	{15, 47, 7, 39, 13, 45, 5, 37},
	{63, 31, 55, 23, 61, 29, 53, 21},
}

// Threshold is the normalised Bayer value for pixel (x, y), in [0, 1).
func Threshold(x, y int) float64 {
	return float64(Bayer8[y&7][x&7]) / 64
}

// Quantize maps v in [0, 1] onto one of levels evenly spaced outputs in
// 0..255, rounding up when the fractional part exceeds threshold.
func Quantize(v float64, levels int, threshold float64) uint8 {
	top := float64(levels - 1)
	scaled := math.Max(0, math.Min(1, v)) * top
	level := math.Floor(scaled)
	if scaled-level > threshold && level < top {
		level++
	}
	return uint8(math.Round(level * 255 / top))
}

// Generate renders a width x height gradient from top (row 0) to bottom
// (last row).
func Generate(width, height int, top, bottom palette.RGB, levels int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}
	if levels < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidLevels, levels)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		t := 0.0
		if height > 1 {
			t = float64(y) / float64(height-1)
		}
		r := lerp(top.R, bottom.R, t)
		g := lerp(top.G, bottom.G, t)
		b := lerp(top.B, bottom.B, t)

		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			th := Threshold(x, y)
			i := x * 4
			row[i] = Quantize(r, levels, th)
			row[i+1] = Quantize(g, levels, th)
			row[i+2] = Quantize(b, levels, th)
			row[i+3] = 255
		}
	}
	return img, nil
}

// lerp interpolates two 8-bit channels and returns the result in [0, 1].
func lerp(a, b uint8, t float64) float64 {
	return (float64(a) + (float64(b)-float64(a))*t) / 255
}

// Zoom upscales img by an integer factor with nearest-neighbour sampling,
// which keeps every dither cell crisp.
func Zoom(img image.Image, factor int) *image.RGBA {
	if factor <= 1 {
		b := img.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
		return dst
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
