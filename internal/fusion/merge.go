package fusion

import (
	"strings"

	"go-artwork-pipeline/pkg/models"
)

// similarityPrefixRatio is the share of a normalized description that must
// appear inside the other description for the two to count as duplicates
const similarityPrefixRatio = 0.8

// Merge fuses up to three candidate field sets into one canonical artwork
// record. Pure and deterministic; nil inputs behave as empty-field objects.
//
// Per-field priority, first non-empty wins:
//
//	title, artist, year, medium, dimensions, museum: OCR then AI
//	artist_dates, period, style, museum_city, museum_country,
//	curatorial_note: AI only
//	dominant_color: color extractor only
//
// The museum label is authoritative for anything it prints; the AI fills
// the art-historical fields a label never carries.
func Merge(ocr *models.CartelData, ai *models.EnrichmentData, color *models.ColorResult) models.MergedArtworkRecord {
	if ocr == nil {
		ocr = &models.CartelData{}
	}
	if ai == nil {
		ai = &models.EnrichmentData{}
	}

	record := models.MergedArtworkRecord{
		Title:          firstNonEmpty(ocr.Title, ai.Title),
		Artist:         firstNonEmpty(ocr.Artist, ai.Artist),
		ArtistDates:    ai.ArtistDates,
		Year:           firstNonEmpty(ocr.Year, ai.Year),
		Period:         ai.Period,
		Style:          ai.Style,
		Medium:         firstNonEmpty(ocr.Medium, ai.Medium),
		Dimensions:     firstNonEmpty(ocr.Dimensions, ai.Dimensions),
		MuseumCity:     ai.MuseumCity,
		MuseumCountry:  ai.MuseumCountry,
		CuratorialNote: ai.CuratorialNote,
		Museum:         firstNonEmpty(ocr.Museum, ai.Museum),
		CartelRawText:  ocr.RawText,
		Description:    mergeDescriptions(ocr.Description, ai.Description),
	}

	if color != nil {
		record.DominantColor = color.Name
	}
	return record
}

// mergeDescriptions concatenates the OCR description first, then appends
// the AI description only when it is not a near-duplicate. Surviving parts
// join with a blank line.
func mergeDescriptions(ocrDesc, aiDesc string) string {
	ocrDesc = strings.TrimSpace(ocrDesc)
	aiDesc = strings.TrimSpace(aiDesc)

	if ocrDesc == "" {
		return aiDesc
	}
	if aiDesc == "" || similar(ocrDesc, aiDesc) {
		return ocrDesc
	}
	return ocrDesc + "\n\n" + aiDesc
}

// similar normalizes both texts and reports whether either contains the
// first 80% (by character count) of the other
func similar(a, b string) bool {
	na := normalize(a)
	nb := normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, prefix(nb)) || strings.Contains(nb, prefix(na))
}

func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func prefix(s string) string {
	runes := []rune(s)
	n := int(float64(len(runes)) * similarityPrefixRatio)
	if n < 1 {
		n = 1
	}
	return string(runes[:n])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
