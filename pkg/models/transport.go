package models

// AnalyzeRequest is the transport payload for the full ingestion pipeline.
// Images travel as base64 so the capture client can post straight from a
// canvas without multipart plumbing. ArtworkURL is the import path: the
// server fetches a museum candidate's open-access image itself.
type AnalyzeRequest struct {
	ArtworkImage string `json:"artwork_image,omitempty"`
	ArtworkURL   string `json:"artwork_url,omitempty"`
	CartelImage  string `json:"cartel_image,omitempty"`
	UseAI        bool   `json:"use_ai,omitempty"`
}

// AnalyzeResponse carries the fused record plus per-source success flags
type AnalyzeResponse struct {
	Success           bool                `json:"success"`
	Data              MergedArtworkRecord `json:"data"`
	Sources           AnalysisSources     `json:"sources"`
	Error             string              `json:"error,omitempty"`
	ProcessingTimeSec float64             `json:"processing_time_sec"`
}

// DetectRequest asks for artwork boundary estimation on a base64 image
type DetectRequest struct {
	Image string `json:"image" binding:"required"`
}

// DetectResponse returns the estimated crop rectangle together with a
// capture quality report so the client can ask for a retake before the
// heavier analysis steps run
type DetectResponse struct {
	Bounds  CropBounds     `json:"bounds"`
	Quality CaptureQuality `json:"quality"`
}

// CaptureQuality reports how usable a captured photo is for recognition
type CaptureQuality struct {
	Sharpness  float64 `json:"sharpness"`
	Luminance  float64 `json:"luminance"`
	IsBlurry   bool    `json:"is_blurry"`
	IsTooDark  bool    `json:"is_too_dark"`
	IsTooLight bool    `json:"is_too_light"`
}

// CropRequest asks for a deterministic crop of a base64 image
type CropRequest struct {
	Image  string     `json:"image" binding:"required"`
	Bounds CropBounds `json:"bounds" binding:"required"`
}

// CropResponse returns the cropped image as base64 JPEG
type CropResponse struct {
	Image  string `json:"image"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// SearchResponse wraps an aggregated museum search result set
type SearchResponse struct {
	Query   string             `json:"query"`
	Total   int                `json:"total"`
	Results []ArtworkCandidate `json:"results"`
}

// SaveRecordRequest persists a merged record for a user
type SaveRecordRequest struct {
	UserID   string              `json:"user_id" binding:"required"`
	Record   MergedArtworkRecord `json:"record" binding:"required"`
	ImageURL string              `json:"image_url,omitempty"`
}

// SaveRecordResponse returns the stored record identifier
type SaveRecordResponse struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
