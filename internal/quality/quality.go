package quality

import (
	"image"
	"image/color"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/stat"

	"go-artwork-pipeline/pkg/models"
)

// Thresholds below which a captured photo is flagged. Tuned on phone
// captures of framed artworks under gallery lighting.
const (
	blurVarianceThreshold = 100.0
	darkLuminanceLimit    = 0.22
	brightLuminanceLimit  = 0.92
)

// Usable reports whether the capture is good enough to run recognition on
func Usable(q models.CaptureQuality) bool {
	return !q.IsBlurry && !q.IsTooDark && !q.IsTooLight
}

// Assess computes capture quality metrics for an image
func Assess(img image.Image) models.CaptureQuality {
	gray := toGray(img)
	sharpness := laplacianVariance(gray)
	luminance := averageLuminance(gray)

	return models.CaptureQuality{
		Sharpness:  sharpness,
		Luminance:  luminance,
		IsBlurry:   sharpness < blurVarianceThreshold,
		IsTooDark:  luminance < darkLuminanceLimit,
		IsTooLight: luminance > brightLuminanceLimit,
	}
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	bounds := img.Bounds()
	gray := image.NewGray(bounds)

	// Convert in horizontal strips for cache locality
	numWorkers := runtime.NumCPU()
	if h := bounds.Dy(); h < numWorkers {
		numWorkers = h
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	rowsPerWorker := (bounds.Dy() + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		startY := bounds.Min.Y + i*rowsPerWorker
		endY := startY + rowsPerWorker
		if endY > bounds.Max.Y {
			endY = bounds.Max.Y
		}
		if startY >= endY {
			continue
		}
		wg.Add(1)
		go func(startY, endY int) {
			defer wg.Done()
			for y := startY; y < endY; y++ {
				for x := bounds.Min.X; x < bounds.Max.X; x++ {
					r, g, b, _ := img.At(x, y).RGBA()
					// BT.601 luma, 16-bit channels scaled down to 8 bits
					v := (299*r + 587*g + 114*b) / 1000 >> 8
					gray.SetGray(x, y, color.Gray{Y: uint8(v)})
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return gray
}

// laplacianVariance measures focus. Blurry captures have uniformly small
// second derivatives, so the variance of the Laplacian drops.
func laplacianVariance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width < 3 || height < 3 {
		return 0
	}

	data := make([]float64, 0, (width-2)*(height-2))
	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			center := float64(gray.GrayAt(x, y).Y)
			top := float64(gray.GrayAt(x, y-1).Y)
			bottom := float64(gray.GrayAt(x, y+1).Y)
			left := float64(gray.GrayAt(x-1, y).Y)
			right := float64(gray.GrayAt(x+1, y).Y)
			data = append(data, -4*center+top+bottom+left+right)
		}
	}

	return stat.Variance(data, nil)
}

func averageLuminance(gray *image.Gray) float64 {
	bounds := gray.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return 0
	}

	var sum float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += float64(gray.GrayAt(x, y).Y)
		}
	}
	return sum / float64(total) / 255.0
}
