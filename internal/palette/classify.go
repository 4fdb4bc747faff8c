package palette

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Color category labels form a fixed closed set; downstream filters and the
// fused record only ever see these names.
const (
	NameBlack     = "Black"
	NameDarkGray  = "Dark gray"
	NameGray      = "Gray"
	NameLightGray = "Light gray"
	NameWhite     = "White"
	NameBrown     = "Brown"
	NameRed       = "Red"
	NameOrange    = "Orange"
	NameYellow    = "Yellow"
	NameGreen     = "Green"
	NameCyan      = "Cyan"
	NameBlue      = "Blue"
	NameViolet    = "Violet"
	NamePink      = "Pink"
)

// ClassifyRGB maps an RGB color to its human color-category name. This is
// the single shared classifier used by both dominant-color extraction and
// palette filtering, keyed on HSL:
//
//   - low saturation (< 15%) classifies purely by lightness
//   - desaturated dark warm hues classify as Brown
//   - everything else classifies by contiguous hue bands, with the orange
//     band splitting to Brown below 50% lightness
func ClassifyRGB(r, g, b uint8) string {
	c := colorful.Color{R: float64(r) / 255.0, G: float64(g) / 255.0, B: float64(b) / 255.0}
	h, s, l := c.Hsl()
	return classifyHSL(h, s*100, l*100)
}

func classifyHSL(h, s, l float64) string {
	if s < 15 {
		switch {
		case l < 20:
			return NameBlack
		case l < 40:
			return NameDarkGray
		case l < 60:
			return NameGray
		case l < 80:
			return NameLightGray
		default:
			return NameWhite
		}
	}

	if s < 40 && l < 50 && (h < 40 || h > 350) {
		return NameBrown
	}

	switch {
	case h >= 345 || h < 15:
		return NameRed
	case h < 40:
		if l < 50 {
			return NameBrown
		}
		return NameOrange
	case h < 70:
		return NameYellow
	case h < 160:
		return NameGreen
	case h < 200:
		return NameCyan
	case h < 260:
		return NameBlue
	case h < 290:
		return NameViolet
	default:
		return NamePink
	}
}
