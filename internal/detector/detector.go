package detector

import (
	"image"
	"math"

	"go-artwork-pipeline/pkg/models"
)

const (
	// edgeThreshold is the minimum Sobel gradient magnitude for a pixel to
	// count as an edge (0-255 scale)
	edgeThreshold = 50.0

	// axisEdgeRatio is the fraction of a column (resp. row) that must be
	// edge pixels before the column (resp. row) is considered part of the
	// artwork
	axisEdgeRatio = 0.05

	// marginRatio expands the detected box outward by this fraction of
	// min(W,H) on all sides
	marginRatio = 0.02
)

// Detect estimates the rectangular region occupied by the artwork in a
// photograph using a grayscale Sobel edge heuristic. It never fails: on any
// anomaly (no edges, degenerate box) it returns the full image with
// confidence 0.
func Detect(img image.Image) models.CropBounds {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return models.CropBounds{Width: width, Height: height}
	}

	fallback := models.CropBounds{X: 0, Y: 0, Width: width, Height: height, Confidence: 0}
	if width < 3 || height < 3 {
		// Too small for a 3x3 kernel
		return fallback
	}

	gray := grayscale(img)

	// Per-column and per-row edge pixel counts from Sobel magnitudes
	colCounts := make([]int, width)
	rowCounts := make([]int, height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			if sobelMagnitude(gray, width, x, y) > edgeThreshold {
				colCounts[x]++
				rowCounts[y]++
			}
		}
	}

	minX, maxX := -1, -1
	colThreshold := int(float64(height) * axisEdgeRatio)
	for x := 0; x < width; x++ {
		if colCounts[x] > colThreshold {
			if minX < 0 {
				minX = x
			}
			maxX = x
		}
	}

	minY, maxY := -1, -1
	rowThreshold := int(float64(width) * axisEdgeRatio)
	for y := 0; y < height; y++ {
		if rowCounts[y] > rowThreshold {
			if minY < 0 {
				minY = y
			}
			maxY = y
		}
	}

	if minX < 0 || minY < 0 || maxX <= minX || maxY <= minY {
		return fallback
	}

	// Expand outward by a small margin, then clamp to the image
	margin := int(marginRatio * math.Min(float64(width), float64(height)))
	minX = clamp(minX-margin, 0, width-1)
	minY = clamp(minY-margin, 0, height-1)
	maxX = clamp(maxX+margin, 0, width-1)
	maxY = clamp(maxY+margin, 0, height-1)

	if maxX <= minX || maxY <= minY {
		return fallback
	}

	cropped := models.CropBounds{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX + 1,
		Height: maxY - minY + 1,
	}

	// Coarse confidence signal for the crop-adjustment UI: a box covering a
	// plausible fraction of the frame is more trustworthy than a sliver or
	// a near-full-frame match
	cropRatio := float64(cropped.Width*cropped.Height) / float64(width*height)
	if cropRatio > 0.2 && cropRatio < 0.9 {
		cropped.Confidence = 0.8
	} else {
		cropped.Confidence = 0.5
	}
	return cropped
}

// grayscale converts an image to a flat luminance buffer using ITU-R BT.601
// weights (0.299*R + 0.587*G + 0.114*B), values in [0,255]
func grayscale(img image.Image) []float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	gray := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			rf := float64(r >> 8)
			gf := float64(g >> 8)
			bf := float64(b >> 8)
			gray[y*width+x] = 0.299*rf + 0.587*gf + 0.114*bf
		}
	}
	return gray
}

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// sobelMagnitude computes the gradient magnitude at an interior pixel,
// clamped to [0,255]
func sobelMagnitude(gray []float64, width, x, y int) float64 {
	var gx, gy float64
	for ky := -1; ky <= 1; ky++ {
		for kx := -1; kx <= 1; kx++ {
			v := gray[(y+ky)*width+(x+kx)]
			gx += v * sobelX[ky+1][kx+1]
			gy += v * sobelY[ky+1][kx+1]
		}
	}
	mag := math.Sqrt(gx*gx + gy*gy)
	if mag > 255 {
		mag = 255
	}
	return mag
}

// clamp constrains an integer value to the range [min, max]
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
