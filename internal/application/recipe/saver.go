// Package recipe implements the presentation-side recipe flows: generating
// a fresh set from the working ingredient list and the per-card save state
// machine, including saves parked while logged out.
package recipe

import (
	"context"
	"fmt"
	"sync"

	domain "github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/infrastructure/backend"
	"github.com/fridgechef/fridgechef/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// SaveState is the lifecycle of one recipe card
type SaveState string

const (
	StateUnsaved SaveState = "unsaved"
	StateSaving  SaveState = "saving"
	StateSaved   SaveState = "saved"
	// StatePending marks a save requested while unauthenticated; it resumes
	// automatically after a successful login.
	StatePending SaveState = "pending"
)

// CardKey builds the composite key for a recipe card. Index keeps duplicate
// titles apart.
func CardKey(index int, title string) string {
	return fmt.Sprintf("%d:%s", index, title)
}

// Saver tracks save state per recipe card for one session
type Saver struct {
	client  backend.Client
	logger  *zap.Logger
	metrics *monitoring.MetricsCollector

	mu      sync.Mutex
	states  map[string]SaveState
	pending map[string]domain.Recipe
	order   []string // pending keys in request order
}

// NewSaver creates a saver bound to the backend client
func NewSaver(client backend.Client, logger *zap.Logger, metrics *monitoring.MetricsCollector) *Saver {
	return &Saver{
		client:  client,
		logger:  logger,
		metrics: metrics,
		states:  make(map[string]SaveState),
		pending: make(map[string]domain.Recipe),
	}
}

// State returns the card's current state, defaulting to unsaved
func (s *Saver) State(key string) SaveState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.states[key]; ok {
		return state
	}
	return StateUnsaved
}

// Reset discards all card states and parked saves. Called when a new recipe
// set replaces the displayed one.
func (s *Saver) Reset() {
	s.mu.Lock()
	s.states = make(map[string]SaveState)
	s.pending = make(map[string]domain.Recipe)
	s.order = nil
	s.mu.Unlock()
}

// Save posts the recipe to the persistence endpoint. Without a token the
// request is parked as pending instead of being discarded; ErrLoginRequired
// tells the caller to open the login prompt.
func (s *Saver) Save(ctx context.Context, token, userID, key string, r domain.Recipe) error {
	if token == "" {
		s.mu.Lock()
		if _, exists := s.pending[key]; !exists {
			s.order = append(s.order, key)
		}
		s.pending[key] = r
		s.states[key] = StatePending
		s.mu.Unlock()
		return ErrLoginRequired
	}

	s.mu.Lock()
	if s.states[key] == StateSaving || s.states[key] == StateSaved {
		state := s.states[key]
		s.mu.Unlock()
		if state == StateSaved {
			return nil
		}
		return ErrSaveInFlight
	}
	s.states[key] = StateSaving
	s.mu.Unlock()

	return s.post(ctx, token, userID, key, r)
}

// ResumePending replays saves parked while logged out, in request order.
// Each parked save is posted exactly once; a failed card returns to
// unsaved. Returns the keys that reached saved state and the first error.
func (s *Saver) ResumePending(ctx context.Context, token, userID string) ([]string, error) {
	s.mu.Lock()
	keys := s.order
	parked := s.pending
	s.order = nil
	s.pending = make(map[string]domain.Recipe)
	for _, key := range keys {
		s.states[key] = StateSaving
	}
	s.mu.Unlock()

	var saved []string
	var firstErr error
	for _, key := range keys {
		if err := s.post(ctx, token, userID, key, parked[key]); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		saved = append(saved, key)
	}
	return saved, firstErr
}

// HasPending reports whether any parked saves are waiting for a login
func (s *Saver) HasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

func (s *Saver) post(ctx context.Context, token, userID, key string, r domain.Recipe) error {
	_, err := s.client.SaveRecipe(ctx, token, userID, r)

	s.mu.Lock()
	if err != nil {
		s.states[key] = StateUnsaved
	} else {
		s.states[key] = StateSaved
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("Recipe save failed", zap.String("card", key), zap.Error(err))
		return err
	}

	if s.metrics != nil {
		s.metrics.RecordRecipeSaved()
	}
	s.logger.Info("Recipe saved", zap.String("card", key), zap.String("title", r.Title))
	return nil
}
