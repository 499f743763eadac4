package recipe

import (
	"context"

	domain "github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/domain/user"
	"github.com/fridgechef/fridgechef/internal/infrastructure/backend"
	"github.com/fridgechef/fridgechef/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Chef forwards the working ingredient names to the generation endpoint
type Chef struct {
	client  backend.Client
	logger  *zap.Logger
	metrics *monitoring.MetricsCollector
}

// NewChef creates a chef bound to the backend client
func NewChef(client backend.Client, logger *zap.Logger, metrics *monitoring.MetricsCollector) *Chef {
	return &Chef{client: client, logger: logger, metrics: metrics}
}

// Generate requests recipes for the given ingredient names. The caller
// discards any previously displayed set before invoking this, so a failed
// generation never leaves stale recipes behind.
func (c *Chef) Generate(ctx context.Context, names []string, prefs user.Preferences) ([]domain.Recipe, error) {
	if len(names) == 0 {
		return nil, ErrNoIngredients
	}

	recipes, err := c.client.GenerateRecipes(ctx, names, prefs)
	if err != nil {
		c.logger.Warn("Recipe generation failed", zap.Int("ingredients", len(names)), zap.Error(err))
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.RecordRecipesGenerated()
	}
	c.logger.Info("Recipes generated",
		zap.Int("ingredients", len(names)),
		zap.Int("recipes", len(recipes)),
	)
	return recipes, nil
}
