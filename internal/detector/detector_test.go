package detector

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"go-artwork-pipeline/pkg/models"
)

// fillRect paints a solid rectangle onto an RGBA image
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// framedArtwork builds a light wall with a dark rectangle in the middle,
// roughly what a gallery capture looks like after white balance
func framedArtwork(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillRect(img, 0, 0, width, height, color.RGBA{235, 233, 228, 255})
	fillRect(img, width/4, height/4, 3*width/4, 3*height/4, color.RGBA{40, 35, 30, 255})
	return img
}

func TestDetectUniformImageReturnsFullBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	fillRect(img, 0, 0, 120, 80, color.RGBA{128, 128, 128, 255})

	bounds := Detect(img)

	if bounds.X != 0 || bounds.Y != 0 || bounds.Width != 120 || bounds.Height != 80 {
		t.Errorf("Expected full-image bounds, got %+v", bounds)
	}
	if bounds.Confidence != 0 {
		t.Errorf("Expected confidence 0 for edgeless image, got %f", bounds.Confidence)
	}
}

func TestDetectFindsCentralRectangle(t *testing.T) {
	const width, height = 200, 160
	img := framedArtwork(width, height)

	bounds := Detect(img)

	if bounds.Confidence == 0 {
		t.Fatalf("Expected a detected region, got fallback %+v", bounds)
	}

	// The detected box must stay inside the frame and cover the artwork
	// rectangle, allowing for the outward margin
	if bounds.X < 0 || bounds.Y < 0 {
		t.Errorf("Bounds escape the image: %+v", bounds)
	}
	if bounds.X+bounds.Width > width || bounds.Y+bounds.Height > height {
		t.Errorf("Bounds escape the image: %+v", bounds)
	}
	if bounds.X > width/4 || bounds.X+bounds.Width < 3*width/4 {
		t.Errorf("Detected box misses the artwork horizontally: %+v", bounds)
	}
	if bounds.Y > height/4 || bounds.Y+bounds.Height < 3*height/4 {
		t.Errorf("Detected box misses the artwork vertically: %+v", bounds)
	}

	// Roughly a quarter of the frame, so the high-trust band applies
	if bounds.Confidence != 0.8 {
		t.Errorf("Expected confidence 0.8, got %f", bounds.Confidence)
	}
}

func TestDetectDeterministic(t *testing.T) {
	img := framedArtwork(150, 150)

	first := Detect(img)
	for i := 0; i < 3; i++ {
		if got := Detect(img); got != first {
			t.Fatalf("Detection not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestDetectTinyImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	bounds := Detect(img)

	if bounds.Width != 2 || bounds.Height != 2 || bounds.Confidence != 0 {
		t.Errorf("Expected full 2x2 fallback, got %+v", bounds)
	}
}

func TestValidateBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 50))

	tests := []struct {
		name    string
		bounds  models.CropBounds
		wantErr bool
	}{
		{"full image", models.CropBounds{X: 0, Y: 0, Width: 100, Height: 50}, false},
		{"interior box", models.CropBounds{X: 10, Y: 5, Width: 50, Height: 30}, false},
		{"negative origin", models.CropBounds{X: -1, Y: 0, Width: 10, Height: 10}, true},
		{"zero width", models.CropBounds{X: 0, Y: 0, Width: 0, Height: 10}, true},
		{"overflow right", models.CropBounds{X: 95, Y: 0, Width: 10, Height: 10}, true},
		{"overflow bottom", models.CropBounds{X: 0, Y: 45, Width: 10, Height: 10}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBounds(img, tt.bounds)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBounds(%+v) error = %v, wantErr %v", tt.bounds, err, tt.wantErr)
			}
		})
	}
}

func TestCropFullBoundsKeepsPixels(t *testing.T) {
	img := framedArtwork(60, 40)

	data, err := Crop(img, models.CropBounds{X: 0, Y: 0, Width: 60, Height: 40})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Cropped output is not a decodable image: %v", err)
	}
	if decoded.Bounds().Dx() != 60 || decoded.Bounds().Dy() != 40 {
		t.Errorf("Expected 60x40 output, got %dx%d", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}

func TestCropRejectsInvalidBounds(t *testing.T) {
	img := framedArtwork(60, 40)

	if _, err := Crop(img, models.CropBounds{X: 50, Y: 0, Width: 20, Height: 20}); err == nil {
		t.Error("Expected error for out-of-range bounds")
	}
}

func TestCropRegionSize(t *testing.T) {
	img := framedArtwork(80, 80)

	data, err := Crop(img, models.CropBounds{X: 20, Y: 10, Width: 30, Height: 25})
	if err != nil {
		t.Fatalf("Crop failed: %v", err)
	}

	decoded, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds().Dx() != 30 || decoded.Bounds().Dy() != 25 {
		t.Errorf("Expected 30x25 crop, got %dx%d", decoded.Bounds().Dx(), decoded.Bounds().Dy())
	}
}
