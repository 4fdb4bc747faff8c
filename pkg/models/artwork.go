package models

// SourceCode identifies one of the supported open-access museum APIs
type SourceCode string

const (
	// SourceAIC is the Art Institute of Chicago open API
	SourceAIC SourceCode = "aic"
	// SourceMet is the Metropolitan Museum of Art collection API
	SourceMet SourceCode = "met"
	// SourceRijks is the Rijksmuseum collection API
	SourceRijks SourceCode = "rijks"
	// SourceCMA is the Cleveland Museum of Art open access API
	SourceCMA SourceCode = "cma"
	// SourceHarvard is the Harvard Art Museums API
	SourceHarvard SourceCode = "ham"
	// SourceVAM is the Victoria and Albert Museum API
	SourceVAM SourceCode = "vam"
)

// SourceOrder is the fixed order used for round-robin interleaving
var SourceOrder = []SourceCode{SourceAIC, SourceMet, SourceRijks, SourceCMA, SourceHarvard, SourceVAM}

// ArtworkCandidate is the normalized shape every museum adapter produces.
// ID is source-prefixed ("{code}-{nativeID}") so it is unique across the
// whole result set. Candidates without a usable image URL are never emitted.
type ArtworkCandidate struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Artist        string     `json:"artist"`
	Year          string     `json:"year"`
	Museum        string     `json:"museum"`
	MuseumCity    string     `json:"museum_city"`
	MuseumCountry string     `json:"museum_country"`
	Medium        string     `json:"medium"`
	Dimensions    string     `json:"dimensions"`
	ImageURL      string     `json:"image_url"`
	Source        SourceCode `json:"source"`
}

// CropBounds describes the estimated artwork region in source-image pixels.
// Invariant: 0 <= X, 0 <= Y, X+Width <= image width, Y+Height <= image height,
// Width > 0, Height > 0. Confidence is a coarse heuristic signal in [0,1],
// not a probability.
type CropBounds struct {
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"confidence"`
}

// ColorResult is a quantized representative color with its human-readable
// category name
type ColorResult struct {
	Hex  string  `json:"hex"`
	RGB  [3]int  `json:"rgb"`
	Name string  `json:"name"`
}

// CartelData holds the structured fields extracted from a photographed
// museum label. Absent fields are empty strings, never omitted with an error.
type CartelData struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Year        string  `json:"year"`
	Medium      string  `json:"medium"`
	Dimensions  string  `json:"dimensions"`
	Museum      string  `json:"museum"`
	Description string  `json:"description"`
	RawText     string  `json:"raw_text"`
	Confidence  float64 `json:"confidence"`
}

// EnrichmentData is the field set returned by the AI vision enrichment
// service. Any field the service omits stays an empty string.
type EnrichmentData struct {
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	ArtistDates   string `json:"artist_dates"`
	Year          string `json:"year"`
	Period        string `json:"period"`
	Style         string `json:"style"`
	Medium        string `json:"medium"`
	Dimensions    string `json:"dimensions"`
	Museum        string `json:"museum"`
	MuseumCity    string `json:"museum_city"`
	MuseumCountry string `json:"museum_country"`
	Description   string `json:"description"`
	CuratorialNote string `json:"curatorial_note"`
}

// MergedArtworkRecord is the canonical fused record, the only type that
// crosses into persistence. Every field is independently nullable/empty;
// save-readiness (non-empty title) is enforced by validation, not here.
type MergedArtworkRecord struct {
	Title          string `json:"title"`
	Artist         string `json:"artist"`
	ArtistDates    string `json:"artist_dates"`
	Year           string `json:"year"`
	Period         string `json:"period"`
	Style          string `json:"style"`
	Medium         string `json:"medium"`
	Dimensions     string `json:"dimensions"`
	Museum         string `json:"museum"`
	MuseumCity     string `json:"museum_city"`
	MuseumCountry  string `json:"museum_country"`
	Description    string `json:"description"`
	CuratorialNote string `json:"curatorial_note"`
	DominantColor  string `json:"dominant_color"`
	CartelRawText  string `json:"cartel_raw_text"`
}

// AnalysisSources flags which pipeline steps contributed to a merged record
type AnalysisSources struct {
	HasOCR   bool `json:"has_ocr"`
	HasAI    bool `json:"has_ai"`
	HasColor bool `json:"has_color"`
}
