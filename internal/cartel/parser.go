package cartel

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/arbovm/levenshtein"

	"go-artwork-pipeline/pkg/models"
)

// MinTrustedConfidence is the recognition confidence (0-100) under which
// callers should discard the parse. Enforced by the orchestrator, not here.
const MinTrustedConfidence = 40.0

var (
	// "(1840-1926)" or "1840-1926", anywhere in the line
	artistDatesRe = regexp.MustCompile(`\(?\s*(1[0-9]{3}|20[0-2][0-9])\s*[-–]\s*(1[0-9]{3}|20[0-2][0-9])\s*\)?`)

	// A standalone four-digit year between 1000 and 2029
	yearRe = regexp.MustCompile(`\b(1[0-9]{3}|20[0-2][0-9])\b`)

	// "89 x 93 cm", "89×93", "21,5 x 30 mm"
	dimensionsRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*[x×X]\s*(\d+(?:[.,]\d+)?)\s*(cm|mm|m|in)?\b`)
)

// mediumKeywords lists label vocabulary in French and English. Matching is
// case-insensitive with one character of Levenshtein tolerance per word to
// survive common recognition noise ("0il on canvas").
var mediumKeywords = []string{
	"huile sur toile", "oil on canvas",
	"acrylique", "acrylic",
	"bronze",
	"marbre", "marble",
	"aquarelle", "watercolor", "watercolour",
	"pastel",
	"encre", "ink",
	"crayon", "pencil",
	"gravure", "engraving",
	"lithographie", "lithograph",
	"photographie", "photography",
}

// ParseCartelText extracts structured fields from recognized museum-label
// text. Line-oriented and deterministic: for every field the first matching
// line wins and later matches are ignored. The parser never fails; fields
// it cannot detect stay empty.
func ParseCartelText(text string) models.CartelData {
	data := models.CartelData{RawText: text}

	lines := splitLines(text)
	if len(lines) == 0 {
		return data
	}

	for i, line := range lines {
		hasDates := artistDatesRe.MatchString(line)

		if hasDates && data.Artist == "" {
			// Strip the date range, the rest of the line is the artist
			name := strings.TrimSpace(artistDatesRe.ReplaceAllString(line, ""))
			name = strings.Trim(name, ",;:")
			if name != "" {
				data.Artist = strings.TrimSpace(name)
			}
		}

		// A line carrying a birth-death range must not supply the artwork
		// year; its four-digit numbers are the artist's dates
		if !hasDates && data.Year == "" {
			if m := yearRe.FindString(line); m != "" {
				data.Year = m
			}
		}

		if data.Dimensions == "" {
			if m := dimensionsRe.FindStringSubmatch(line); m != nil {
				unit := m[3]
				if unit == "" {
					unit = "cm"
				}
				data.Dimensions = fmt.Sprintf("%s × %s %s", m[1], m[2], unit)
			}
		}

		if data.Medium == "" {
			if matched := matchMedium(line); matched != "" {
				data.Medium = capitalize(matched)
			}
		}

		// Labels sometimes name the institution; keep the whole line
		if data.Museum == "" && i > 0 && containsMuseumWord(line) {
			data.Museum = strings.TrimSpace(line)
		}

		switch i {
		case 0:
			if !yearRe.MatchString(line) && !dimensionsRe.MatchString(line) {
				data.Title = normalizeTitle(line)
			}
		case 1:
			if data.Artist == "" && !dimensionsRe.MatchString(line) && looksLikeName(line) {
				data.Artist = strings.TrimSpace(line)
			}
		}
	}

	return data
}

// splitLines returns trimmed non-trivial lines (length > 2)
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if trimmed := strings.TrimSpace(l); len(trimmed) > 2 {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// matchMedium finds the first medium keyword present in the line, allowing
// one character of noise per word
func matchMedium(line string) string {
	lower := strings.ToLower(line)
	for _, keyword := range mediumKeywords {
		if strings.Contains(lower, keyword) {
			return keyword
		}
	}

	// Fuzzy pass: slide a window of the keyword's word count over the line
	words := strings.Fields(lower)
	for _, keyword := range mediumKeywords {
		kwWords := strings.Fields(keyword)
		if len(words) < len(kwWords) {
			continue
		}
		for start := 0; start+len(kwWords) <= len(words); start++ {
			distance := 0
			for j, kw := range kwWords {
				distance += levenshtein.Distance(strings.Trim(words[start+j], ".,;:"), kw)
			}
			if distance <= 1 {
				return keyword
			}
		}
	}
	return ""
}

var museumWords = []string{"museum", "musée", "musee", "gallery", "galerie", "collection"}

// containsMuseumWord reports whether the line mentions an institution
func containsMuseumWord(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range museumWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// looksLikeName reports whether every word is capitalized or shorter than
// three characters, or the line carries an artist date range
func looksLikeName(line string) bool {
	if artistDatesRe.MatchString(line) {
		return true
	}
	for _, word := range strings.Fields(line) {
		if utf8.RuneCountInString(word) < 3 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(word)
		if !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}

// normalizeTitle strips surrounding quotation marks and whitespace
func normalizeTitle(line string) string {
	return strings.TrimSpace(strings.Trim(line, `"'«»“”‘’`))
}

// capitalize uppercases the first letter of a matched keyword
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
