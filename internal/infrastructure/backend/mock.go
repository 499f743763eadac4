package backend

import (
	"context"
	"time"

	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/domain/user"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"go.uber.org/zap"
)

// MockClient substitutes canned analysis and generation responses so the
// rest of the system can be exercised without a live AI backend. Every
// other call passes through to the wrapped client unchanged, so switching
// mock mode off routes the same call signatures to the real endpoints.
type MockClient struct {
	Client

	scanDelay time.Duration
	chefDelay time.Duration
	logger    *zap.Logger
}

// NewMockClient wraps a real client with canned AI responses
func NewMockClient(real Client, cfg *config.Config, logger *zap.Logger) *MockClient {
	return &MockClient{
		Client:    real,
		scanDelay: cfg.Backend.MockScanDelay,
		chefDelay: cfg.Backend.MockChefDelay,
		logger:    logger,
	}
}

// AnalyzeImage returns the fixed ingredient set after the configured delay.
// No network call occurs.
func (m *MockClient) AnalyzeImage(ctx context.Context, upload ImageUpload, userID, customPrompt string) (*AnalysisResult, error) {
	m.logger.Debug("Mock image analysis",
		zap.String("filename", upload.Filename),
		zap.Int64("size", upload.Size),
	)

	if err := sleep(ctx, m.scanDelay); err != nil {
		return nil, err
	}

	ingredients := make([]RecognizedIngredient, len(mockIngredients))
	copy(ingredients, mockIngredients)

	return &AnalysisResult{
		Success:     true,
		ImageID:     "mock-image-123",
		Ingredients: ingredients,
		TotalCount:  len(ingredients),
		Model:       "mock-vision-v1",
	}, nil
}

// GenerateRecipes returns the fixed recipe set after the configured delay.
// No network call occurs.
func (m *MockClient) GenerateRecipes(ctx context.Context, ingredients []string, prefs user.Preferences) ([]recipe.Recipe, error) {
	m.logger.Debug("Mock recipe generation", zap.Int("ingredients", len(ingredients)))

	if err := sleep(ctx, m.chefDelay); err != nil {
		return nil, err
	}

	recipes := make([]recipe.Recipe, len(mockRecipes))
	copy(recipes, mockRecipes)
	return recipes, nil
}

// Ping always succeeds in mock mode
func (m *MockClient) Ping(ctx context.Context) bool {
	return true
}

// sleep waits for the artificial delay, honoring context cancellation
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
