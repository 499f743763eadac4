package scan

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fridgechef/fridgechef/internal/domain/ingredient"
	"github.com/fridgechef/fridgechef/internal/infrastructure/backend"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// analyzeStub implements backend.Client for the single method scan uses
type analyzeStub struct {
	backend.Client

	result *backend.AnalysisResult
	err    error
	calls  int
	prompt string
}

func (s *analyzeStub) AnalyzeImage(ctx context.Context, upload backend.ImageUpload, userID, customPrompt string) (*backend.AnalysisResult, error) {
	s.calls++
	s.prompt = customPrompt
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newService(t *testing.T, stub *analyzeStub) *Service {
	t.Helper()
	cfg := &config.Config{}
	cfg.Upload.MaxFileSize = 20 * 1024 * 1024
	return NewService(stub, cfg, zap.NewNop(), nil)
}

func jpegUpload(size int) backend.ImageUpload {
	return backend.ImageUpload{
		Filename:    "fridge.jpg",
		ContentType: "image/jpeg",
		Size:        int64(size),
		Data:        bytes.Repeat([]byte{0xff}, size),
	}
}

func TestValidate(t *testing.T) {
	svc := newService(t, &analyzeStub{})

	t.Run("NonImageType_Rejected", func(t *testing.T) {
		upload := jpegUpload(100)
		upload.ContentType = "application/pdf"

		err := svc.Validate(upload)

		assert.True(t, errors.Is(err, errors.CodeInvalidImageType))
	})

	t.Run("OverCeiling_Rejected", func(t *testing.T) {
		upload := backend.ImageUpload{
			Filename:    "huge.jpg",
			ContentType: "image/jpeg",
			Size:        20*1024*1024 + 1,
		}

		err := svc.Validate(upload)

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeImageTooLarge))
		appErr := err.(*errors.AppError)
		assert.Contains(t, appErr.UserMessage, "20MB")
	})

	t.Run("AtCeiling_Passes", func(t *testing.T) {
		upload := backend.ImageUpload{
			Filename:    "fridge.jpg",
			ContentType: "image/jpeg",
			Size:        20 * 1024 * 1024,
		}

		assert.NoError(t, svc.Validate(upload))
	})

	t.Run("ImageSubtypes_Pass", func(t *testing.T) {
		for _, ct := range []string{"image/jpeg", "image/png", "image/webp"} {
			upload := jpegUpload(10)
			upload.ContentType = ct
			assert.NoError(t, svc.Validate(upload), ct)
		}
	})
}

func TestReadUpload(t *testing.T) {
	svc := newService(t, &analyzeStub{})

	t.Run("FillsSizeAndSniffsType", func(t *testing.T) {
		// PNG magic bytes so content sniffing identifies an image
		data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 100)...)

		upload, err := svc.ReadUpload(bytes.NewReader(data), "shot.png", "", 0)

		require.NoError(t, err)
		assert.Equal(t, int64(len(data)), upload.Size)
		assert.Equal(t, "image/png", upload.ContentType)
	})

	t.Run("ReadFailure_ReportsReadError", func(t *testing.T) {
		_, err := svc.ReadUpload(failingReader{}, "x.jpg", "image/jpeg", 10)

		assert.True(t, errors.Is(err, errors.CodeFileReadFailed))
	})
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, assert.AnError }

func TestPreview(t *testing.T) {
	svc := newService(t, &analyzeStub{})

	t.Run("BuildsDataURI", func(t *testing.T) {
		upload := jpegUpload(16)

		uri, err := svc.Preview(upload)

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
	})

	t.Run("EmptyData_ReadError", func(t *testing.T) {
		_, err := svc.Preview(backend.ImageUpload{ContentType: "image/jpeg"})

		assert.True(t, errors.Is(err, errors.CodeFileReadFailed))
	})
}

func TestAnalyze(t *testing.T) {
	t.Run("ReturnsIngredientsAndMetadata", func(t *testing.T) {
		conf := 0.95
		stub := &analyzeStub{result: &backend.AnalysisResult{
			Success: true,
			ImageID: "img-1",
			Ingredients: []backend.RecognizedIngredient{
				{Name: "Eggs", Quantity: "10", Freshness: "fresh", Confidence: &conf},
				{Name: "Mystery", Quantity: "1", Freshness: "glowing"},
			},
			Model: "vision-9b",
		}}
		svc := newService(t, stub)

		analysis, err := svc.Analyze(context.Background(), jpegUpload(2*1024*1024), "u1", "")

		require.NoError(t, err)
		require.Len(t, analysis.Ingredients, 2)
		assert.Equal(t, "Eggs", analysis.Ingredients[0].Name)
		assert.False(t, analysis.Ingredients[0].Manual)
		assert.Equal(t, ingredient.FreshnessUnknown, analysis.Ingredients[1].Freshness)
		assert.Equal(t, "vision-9b", analysis.Model)
		assert.Equal(t, "fridge.jpg", analysis.Filename)
		assert.True(t, strings.HasPrefix(analysis.Preview, "data:image/jpeg;base64,"))
		assert.GreaterOrEqual(t, analysis.Duration.Nanoseconds(), int64(0))
	})

	t.Run("InvalidUpload_NoBackendCall", func(t *testing.T) {
		stub := &analyzeStub{}
		svc := newService(t, stub)
		upload := jpegUpload(10)
		upload.ContentType = "text/plain"

		_, err := svc.Analyze(context.Background(), upload, "u1", "")

		assert.True(t, errors.Is(err, errors.CodeInvalidImageType))
		assert.Zero(t, stub.calls, "validation failures must not reach the network")
	})

	t.Run("BackendFailure_SurfacedOnce", func(t *testing.T) {
		stub := &analyzeStub{err: errors.NewNetworkError(assert.AnError)}
		svc := newService(t, stub)

		_, err := svc.Analyze(context.Background(), jpegUpload(10), "u1", "")

		assert.True(t, errors.Is(err, errors.CodeNetworkError))
		assert.Equal(t, 1, stub.calls, "no retry is attempted")
	})

	t.Run("CustomPromptForwarded", func(t *testing.T) {
		stub := &analyzeStub{result: &backend.AnalysisResult{Success: true}}
		svc := newService(t, stub)

		_, err := svc.Analyze(context.Background(), jpegUpload(10), "u1", "only vegetables")

		require.NoError(t, err)
		assert.Equal(t, "only vegetables", stub.prompt)
	})

	t.Run("MissingModel_Defaults", func(t *testing.T) {
		stub := &analyzeStub{result: &backend.AnalysisResult{Success: true}}
		svc := newService(t, stub)

		analysis, err := svc.Analyze(context.Background(), jpegUpload(10), "u1", "")

		require.NoError(t, err)
		assert.Equal(t, "Unknown Model", analysis.Model)
	})
}
