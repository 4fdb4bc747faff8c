package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"net/http"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-artwork-pipeline/internal/analysis"
	"go-artwork-pipeline/internal/config"
	"go-artwork-pipeline/internal/detector"
	apperrors "go-artwork-pipeline/internal/errors"
	"go-artwork-pipeline/internal/logger"
	"go-artwork-pipeline/internal/museum"
	"go-artwork-pipeline/internal/observer"
	"go-artwork-pipeline/internal/quality"
	"go-artwork-pipeline/internal/repository"
	"go-artwork-pipeline/internal/storage"
	"go-artwork-pipeline/pkg/models"
	"go-artwork-pipeline/pkg/validation"
)

// Handler bundles the dependencies behind the HTTP surface
type Handler struct {
	cfg        *config.Config
	pipeline   *analysis.Pipeline
	aggregator *museum.Aggregator
	records    repository.RecordStore
	images     storage.ImageStore // nil disables uploads
	fetcher    storage.ImageFetcher
	urls       *validation.URLValidator
	validator  *validation.RecordValidator
	metrics    *observer.MetricsObserver
}

// NewHandler configures the gin router over the pipeline components
func NewHandler(cfg *config.Config, pipeline *analysis.Pipeline, aggregator *museum.Aggregator,
	records repository.RecordStore, images storage.ImageStore, fetcher storage.ImageFetcher,
	metrics *observer.MetricsObserver) http.Handler {

	h := &Handler{
		cfg:        cfg,
		pipeline:   pipeline,
		aggregator: aggregator,
		records:    records,
		images:     images,
		fetcher:    fetcher,
		urls:       validation.NewURLValidator(),
		validator:  validation.NewRecordValidator(),
		metrics:    metrics,
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestSizeLimiter(cfg.MaxRequestBodySize))

	r.GET("/health", h.healthCheck)
	r.GET("/metrics", h.getMetrics)

	v1 := r.Group("/v1")
	{
		v1.POST("/analyze", h.analyze)
		v1.POST("/detect", h.detectBounds)
		v1.POST("/crop", h.crop)
		v1.GET("/search", h.search)
		v1.POST("/records", h.saveRecord)
	}

	return r
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) getMetrics(c *gin.Context) {
	if h.metrics == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, h.metrics.GetMetrics())
}

// analyze runs the full ingestion pipeline on a captured artwork photo and
// optional cartel photo
func (h *Handler) analyze(c *gin.Context) {
	var req models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.AnalysisTimeout)
	defer cancel()

	var artwork []byte
	var err error
	switch {
	case req.ArtworkImage != "":
		if artwork, err = base64.StdEncoding.DecodeString(req.ArtworkImage); err != nil {
			respondError(c, http.StatusBadRequest, "artwork_image is not valid base64", err)
			return
		}
	case req.ArtworkURL != "":
		if err = h.urls.ValidateImageURL(req.ArtworkURL); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "artwork_url is not a fetchable image URL", err)
			return
		}
		if artwork, err = h.fetcher.FetchImageBytes(ctx, req.ArtworkURL); err != nil {
			respondError(c, http.StatusBadGateway, "failed to fetch artwork image", err)
			return
		}
	default:
		respondError(c, http.StatusBadRequest, "artwork_image or artwork_url is required", nil)
		return
	}

	var cartelImage []byte
	if req.CartelImage != "" {
		if cartelImage, err = base64.StdEncoding.DecodeString(req.CartelImage); err != nil {
			respondError(c, http.StatusBadRequest, "cartel_image is not valid base64", err)
			return
		}
	}

	logger.WithFields(logrus.Fields{
		"use_ai":     req.UseAI,
		"has_cartel": len(cartelImage) > 0,
		"ip":         c.ClientIP(),
	}).Info("Processing artwork analysis request")

	out := h.pipeline.Analyze(ctx, analysis.AnalyzeInput{
		Artwork: artwork,
		Cartel:  cartelImage,
		UseAI:   req.UseAI,
	})

	status := http.StatusOK
	if !out.Success {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, models.AnalyzeResponse{
		Success:           out.Success,
		Data:              out.Record,
		Sources:           out.Sources,
		Error:             out.Error,
		ProcessingTimeSec: out.Elapsed.Seconds(),
	})
}

// detectBounds estimates the artwork rectangle in a captured photo
func (h *Handler) detectBounds(c *gin.Context) {
	var req models.DetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	img, err := decodeBase64Image(req.Image)
	if err != nil {
		respondError(c, http.StatusBadRequest, "image could not be decoded", err)
		return
	}

	c.JSON(http.StatusOK, models.DetectResponse{
		Bounds:  detector.Detect(img),
		Quality: quality.Assess(img),
	})
}

// crop applies user-confirmed bounds and returns the cropped JPEG
func (h *Handler) crop(c *gin.Context) {
	var req models.CropRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	img, err := decodeBase64Image(req.Image)
	if err != nil {
		respondError(c, http.StatusBadRequest, "image could not be decoded", err)
		return
	}

	cropped, err := detector.Crop(img, req.Bounds)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid crop bounds", err)
		return
	}

	c.JSON(http.StatusOK, models.CropResponse{
		Image:  base64.StdEncoding.EncodeToString(cropped),
		Width:  req.Bounds.Width,
		Height: req.Bounds.Height,
	})
}

// search queries the museum aggregator, or a single source when requested
func (h *Handler) search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, http.StatusBadRequest, "q parameter is required", nil)
		return
	}
	limit := 24
	if l, ok := parsePositiveInt(c.Query("limit")); ok {
		limit = l
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.SearchTimeout)
	defer cancel()

	var results []models.ArtworkCandidate
	if source := c.Query("source"); source != "" {
		var err error
		results, err = h.aggregator.SearchOne(ctx, models.SourceCode(source), query, limit)
		if err != nil {
			respondError(c, apperrors.GetStatusCode(err), "source search failed", err)
			return
		}
	} else {
		results = h.aggregator.SearchAll(ctx, query, limit)
	}

	c.JSON(http.StatusOK, models.SearchResponse{
		Query:   query,
		Total:   len(results),
		Results: results,
	})
}

// saveRecord validates and persists a merged record; when an image store is
// configured and the request carries inline image bytes they are uploaded
// first and the resulting public URL stored
func (h *Handler) saveRecord(c *gin.Context) {
	var req models.SaveRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	issues := h.validator.ValidateSaveReady(req.Record)
	if !h.validator.IsSaveReady(req.Record) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "record is not save-ready",
			"issues": h.validator.ConvertIssuesToMessages(issues),
		})
		return
	}
	for _, msg := range h.validator.ConvertIssuesToMessages(issues) {
		logger.WithField("issue", msg).Warn("Saving record with warnings")
	}

	imageURL := req.ImageURL
	if h.images != nil && imageURL != "" && !isHTTPURL(imageURL) {
		// Inline base64 image: upload and keep the public URL instead
		data, err := base64.StdEncoding.DecodeString(imageURL)
		if err != nil {
			respondError(c, http.StatusBadRequest, "image_url must be a URL or base64 image data", err)
			return
		}
		uploaded, err := h.images.Upload(c.Request.Context(), data, "image/jpeg")
		if err != nil {
			respondError(c, http.StatusBadGateway, "image upload failed", err)
			return
		}
		imageURL = uploaded
	}

	id, err := h.records.SaveRecord(c.Request.Context(), req.UserID, imageURL, req.Record)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to save record", err)
		return
	}

	c.JSON(http.StatusCreated, models.SaveRecordResponse{ID: id, ImageURL: imageURL})
}

// requestSizeLimiter rejects oversized request bodies before binding
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error: "request body too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func respondError(c *gin.Context, status int, message string, err error) {
	resp := models.ErrorResponse{Error: message}
	if err != nil {
		resp.Message = err.Error()
		logger.WithError(err).WithField("path", c.Request.URL.Path).Error(message)
	}
	c.JSON(status, resp)
}

func decodeBase64Image(encoded string) (image.Image, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return imaging.Decode(bytes.NewReader(data))
}

func parsePositiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
