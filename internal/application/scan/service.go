// Package scan implements the image intake flow: validating an uploaded
// fridge photo, producing a local preview and delegating recognition to the
// backend client.
package scan

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fridgechef/fridgechef/internal/domain/ingredient"
	"github.com/fridgechef/fridgechef/internal/infrastructure/backend"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Service handles photo validation, preview and analysis
type Service struct {
	client      backend.Client
	maxFileSize int64
	logger      *zap.Logger
	metrics     *monitoring.MetricsCollector
}

// NewService creates a scan service
func NewService(client backend.Client, cfg *config.Config, logger *zap.Logger, metrics *monitoring.MetricsCollector) *Service {
	return &Service{
		client:      client,
		maxFileSize: cfg.Upload.MaxFileSize,
		logger:      logger,
		metrics:     metrics,
	}
}

// MaxFileSize returns the configured upload ceiling in bytes
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// ReadUpload drains the uploaded file into memory, bounded by the size
// ceiling so an oversized body cannot exhaust memory before validation.
func (s *Service) ReadUpload(r io.Reader, filename, contentType string, size int64) (backend.ImageUpload, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxFileSize+1))
	if err != nil {
		return backend.ImageUpload{}, ErrReadFailed().WithCause(err)
	}

	if size <= 0 {
		size = int64(len(data))
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return backend.ImageUpload{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		Data:        data,
	}, nil
}

// Validate rejects non-image media types and files over the ceiling
func (s *Service) Validate(upload backend.ImageUpload) error {
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return ErrInvalidType()
	}
	if upload.Size > s.maxFileSize || int64(len(upload.Data)) > s.maxFileSize {
		return ErrTooLarge(s.maxFileSize)
	}
	return nil
}

// Preview encodes the image as a displayable data URI
func (s *Service) Preview(upload backend.ImageUpload) (string, error) {
	if len(upload.Data) == 0 {
		return "", ErrReadFailed()
	}
	return fmt.Sprintf("data:%s;base64,%s", upload.ContentType,
		base64.StdEncoding.EncodeToString(upload.Data)), nil
}

// Analysis is the outcome of a scan: the recognized ingredients plus the
// metadata shown alongside them.
type Analysis struct {
	Ingredients []ingredient.Ingredient
	ImageID     string
	Model       string
	Duration    time.Duration
	Filename    string
	FileSize    int64
	Preview     string
}

// Analyze validates the upload, builds the preview and asks the backend to
// recognize ingredients, measuring wall-clock elapsed time. Failures are
// surfaced once with a derived message; no retry is attempted.
func (s *Service) Analyze(ctx context.Context, upload backend.ImageUpload, userID, customPrompt string) (*Analysis, error) {
	if err := s.Validate(upload); err != nil {
		return nil, err
	}

	preview, err := s.Preview(upload)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := s.client.AnalyzeImage(ctx, upload, userID, customPrompt)
	if err != nil {
		s.logger.Warn("Image analysis failed",
			zap.String("filename", upload.Filename),
			zap.Error(err),
		)
		return nil, err
	}
	duration := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordImageAnalyzed()
	}

	items := make([]ingredient.Ingredient, 0, len(result.Ingredients))
	for _, rec := range result.Ingredients {
		items = append(items, ingredient.Recognized(rec.Name, rec.Quantity, rec.Freshness, rec.Confidence))
	}

	model := result.Model
	if model == "" {
		model = "Unknown Model"
	}

	s.logger.Info("Image analyzed",
		zap.String("filename", upload.Filename),
		zap.Int("ingredients", len(items)),
		zap.Duration("duration", duration),
	)

	return &Analysis{
		Ingredients: items,
		ImageID:     result.ImageID,
		Model:       model,
		Duration:    duration,
		Filename:    upload.Filename,
		FileSize:    upload.Size,
		Preview:     preview,
	}, nil
}
