package quality

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func uniformImage(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// checkerboard alternates black and white pixels, the sharpest possible
// texture for a Laplacian response
func checkerboard(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(0)
			if (x+y)%2 == 0 {
				v = 255
			}
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

func TestAssessUniformImageIsBlurry(t *testing.T) {
	report := Assess(uniformImage(64, 64, color.RGBA{128, 128, 128, 255}))

	if !report.IsBlurry {
		t.Errorf("Uniform image must read as blurry, sharpness %f", report.Sharpness)
	}
	if report.IsTooDark || report.IsTooLight {
		t.Errorf("Mid-gray must not trip exposure flags: %+v", report)
	}
}

func TestAssessCheckerboardIsSharp(t *testing.T) {
	report := Assess(checkerboard(64, 64))

	if report.IsBlurry {
		t.Errorf("Checkerboard must read as sharp, sharpness %f", report.Sharpness)
	}
}

func TestAssessDarkCapture(t *testing.T) {
	report := Assess(uniformImage(64, 64, color.RGBA{10, 10, 10, 255}))

	if !report.IsTooDark {
		t.Errorf("Near-black capture must be flagged, luminance %f", report.Luminance)
	}
	if Usable(report) {
		t.Error("Dark capture must not be usable")
	}
}

func TestAssessBlownOutCapture(t *testing.T) {
	report := Assess(uniformImage(64, 64, color.RGBA{252, 252, 252, 255}))

	if !report.IsTooLight {
		t.Errorf("Blown-out capture must be flagged, luminance %f", report.Luminance)
	}
}

func TestAssessNoisyCaptureIsUsable(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(80 + rng.Intn(100))
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}

	report := Assess(img)

	if !Usable(report) {
		t.Errorf("Textured mid-exposure capture should be usable: %+v", report)
	}
}

func TestLuminanceScale(t *testing.T) {
	report := Assess(uniformImage(16, 16, color.RGBA{255, 255, 255, 255}))

	if report.Luminance < 0.98 || report.Luminance > 1.0 {
		t.Errorf("White image luminance = %f, expected ~1.0", report.Luminance)
	}
}
