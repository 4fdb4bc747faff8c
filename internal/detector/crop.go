package detector

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"go-artwork-pipeline/pkg/models"
)

// cropQuality is the JPEG quality used when re-encoding a cropped artwork
const cropQuality = 92

// Crop copies the sub-rectangle described by bounds from img into a new
// image and re-encodes it as JPEG. Deterministic pixel copy, no heuristics;
// the only failure mode is bounds violating the CropBounds invariant.
func Crop(img image.Image, bounds models.CropBounds) ([]byte, error) {
	if err := ValidateBounds(img, bounds); err != nil {
		return nil, err
	}

	rect := image.Rect(bounds.X, bounds.Y, bounds.X+bounds.Width, bounds.Y+bounds.Height)
	rect = rect.Add(img.Bounds().Min)
	cropped := imaging.Crop(img, rect)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, cropped, imaging.JPEG, imaging.JPEGQuality(cropQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode cropped image: %w", err)
	}
	return buf.Bytes(), nil
}

// ValidateBounds checks the CropBounds invariant against an image:
// 0 <= x, 0 <= y, x+width <= W, y+height <= H, width > 0, height > 0
func ValidateBounds(img image.Image, b models.CropBounds) error {
	w := img.Bounds().Dx()
	h := img.Bounds().Dy()
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("crop bounds must have positive size (got %dx%d)", b.Width, b.Height)
	}
	if b.X < 0 || b.Y < 0 || b.X+b.Width > w || b.Y+b.Height > h {
		return fmt.Errorf("crop bounds (%d,%d %dx%d) outside image %dx%d", b.X, b.Y, b.Width, b.Height, w, h)
	}
	return nil
}
