package palette

import (
	"fmt"
	"image"

	"github.com/EdlinOrg/prominentcolor"

	"go-artwork-pipeline/internal/logger"
	"go-artwork-pipeline/pkg/models"
)

// FallbackColor is returned whenever extraction fails; color analysis must
// never block the ingestion pipeline.
var FallbackColor = models.ColorResult{
	Hex:  "#888888",
	RGB:  [3]int{136, 136, 136},
	Name: NameGray,
}

// Extractor samples representative colors from an artwork image.
// Pixel quantization is delegated to a K-means implementation; this type
// owns only the naming of the quantized colors.
type Extractor struct{}

// NewExtractor creates a color extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Dominant returns the single most representative color of the image, or
// the gray fallback if quantization fails.
func (e *Extractor) Dominant(img image.Image) models.ColorResult {
	results := e.Palette(img, 1)
	if len(results) == 0 {
		return FallbackColor
	}
	return results[0]
}

// Palette returns up to n representative colors ordered by pixel coverage.
// On quantization failure it returns a single gray fallback entry.
func (e *Extractor) Palette(img image.Image, n int) []models.ColorResult {
	if img == nil || n <= 0 {
		return []models.ColorResult{FallbackColor}
	}

	k := n
	if k < prominentcolor.DefaultK {
		k = prominentcolor.DefaultK
	}

	items, err := prominentcolor.KmeansWithAll(k, img,
		prominentcolor.ArgumentNoCropping,
		prominentcolor.DefaultSize,
		prominentcolor.GetDefaultMasks())
	if err != nil || len(items) == 0 {
		logger.WithError(err).Warn("color quantization failed, using gray fallback")
		return []models.ColorResult{FallbackColor}
	}

	if len(items) > n {
		items = items[:n]
	}

	results := make([]models.ColorResult, 0, len(items))
	for _, item := range items {
		r := uint8(item.Color.R)
		g := uint8(item.Color.G)
		b := uint8(item.Color.B)
		results = append(results, models.ColorResult{
			Hex:  fmt.Sprintf("#%02x%02x%02x", r, g, b),
			RGB:  [3]int{int(r), int(g), int(b)},
			Name: ClassifyRGB(r, g, b),
		})
	}
	return results
}
