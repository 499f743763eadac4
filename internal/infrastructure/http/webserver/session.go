// Package webserver provides session management for the web frontend
package webserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"sync"
	"time"

	recipeapp "github.com/fridgechef/fridgechef/internal/application/recipe"
	"github.com/fridgechef/fridgechef/internal/application/scan"
	"github.com/fridgechef/fridgechef/internal/application/ui"
	"github.com/fridgechef/fridgechef/internal/domain/ingredient"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/domain/user"
	"github.com/fridgechef/fridgechef/internal/infrastructure/backend"
	"github.com/fridgechef/fridgechef/internal/infrastructure/cache"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/infrastructure/monitoring"
	"go.uber.org/zap"
)

// Session holds one visitor's state: the auth token, a snapshot of the
// account, and the working state of the scan-to-recipe flow. Only the auth
// part survives a restart; the working state is rebuilt empty.
type Session struct {
	ID        string     `json:"id"`
	Token     string     `json:"token"`
	User      *user.User `json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`

	// Working state, never persisted
	Upload      *backend.ImageUpload `json:"-"`
	Analysis    *scan.Analysis       `json:"-"`
	Ingredients *ingredient.List     `json:"-"`
	Recipes     []recipe.Recipe      `json:"-"`
	Saver       *recipeapp.Saver     `json:"-"`
	Toasts      *ui.ToastStore       `json:"-"`
	Loading     *ui.LoadingStore     `json:"-"`
	Confirms    *ui.ConfirmStore     `json:"-"`
}

// Authenticated reports whether the session carries a logged-in account
func (s *Session) Authenticated() bool {
	return s.Token != "" && s.User != nil
}

// IsAdmin reports whether the logged-in account has the admin role
func (s *Session) IsAdmin() bool {
	return s.Authenticated() && s.User.IsAdmin
}

// UserID returns the account ID or empty when logged out
func (s *Session) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

// Login installs the token and account snapshot
func (s *Session) Login(token string, u user.User) {
	s.Token = token
	s.User = &u
}

// Logout drops the credentials but keeps the working scan state, so a
// visitor who logs out does not lose their ingredient list.
func (s *Session) Logout() {
	s.Token = ""
	s.User = nil
}

const toastTTL = 5 * time.Second

// initWorkingState creates the per-session stores. Called on session
// creation and when restoring a persisted record.
func (s *Session) initWorkingState(client backend.Client, logger *zap.Logger, metrics *monitoring.MetricsCollector) {
	s.Ingredients = ingredient.NewList()
	s.Saver = recipeapp.NewSaver(client, logger, metrics)
	s.Toasts = ui.NewToastStore(toastTTL)
	s.Loading = ui.NewLoadingStore()
	s.Confirms = ui.NewConfirmStore()
}

// SessionStore manages sessions in memory, optionally mirrored to Redis so
// logins survive a restart.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cookieName string
	ttl        time.Duration
	secure     bool

	client  backend.Client
	cache   *cache.SessionCache // nil when redis is disabled
	logger  *zap.Logger
	metrics *monitoring.MetricsCollector
}

// NewSessionStore creates a session store. Pass a nil sessionCache to run
// memory-only.
func NewSessionStore(
	cfg *config.Config,
	client backend.Client,
	sessionCache *cache.SessionCache,
	logger *zap.Logger,
	metrics *monitoring.MetricsCollector,
) *SessionStore {
	store := &SessionStore{
		sessions:   make(map[string]*Session),
		cookieName: cfg.Session.CookieName,
		ttl:        cfg.Session.TTL,
		secure:     cfg.Session.Secure,
		client:     client,
		cache:      sessionCache,
		logger:     logger,
		metrics:    metrics,
	}

	go store.cleanupExpired()

	return store
}

// Get retrieves the request's session, falling back to Redis for sessions
// created before the last restart. Returns http.ErrNoCookie when none.
func (s *SessionStore) Get(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(s.cookieName)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	session, exists := s.sessions[cookie.Value]
	s.mu.RUnlock()

	if exists {
		if time.Now().After(session.ExpiresAt) {
			s.Delete(session.ID)
			return nil, http.ErrNoCookie
		}
		return session, nil
	}

	if s.cache == nil {
		return nil, http.ErrNoCookie
	}
	return s.restore(r.Context(), cookie.Value)
}

// restore rebuilds a session from its persisted record
func (s *SessionStore) restore(ctx context.Context, sessionID string) (*Session, error) {
	session := &Session{}
	found, err := s.cache.Get(ctx, sessionID, session)
	if err != nil {
		s.logger.Warn("Session restore failed", zap.Error(err))
		return nil, http.ErrNoCookie
	}
	if !found || time.Now().After(session.ExpiresAt) {
		return nil, http.ErrNoCookie
	}

	session.initWorkingState(s.client, s.logger, s.metrics)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Debug("Session restored", zap.String("session_id", session.ID))
	return session, nil
}

// New creates a fresh session
func (s *SessionStore) New() *Session {
	now := time.Now()
	session := &Session{
		ID:        generateSessionID(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	session.initWorkingState(s.client, s.logger, s.metrics)

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SessionOpened()
	}
	return session
}

// Save sets the session cookie and mirrors the record to Redis
func (s *SessionStore) Save(w http.ResponseWriter, session *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
	})

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Set(ctx, session.ID, session); err != nil {
			s.logger.Warn("Session persist failed", zap.Error(err))
		}
	}
}

// Destroy removes the session and expires the cookie
func (s *SessionStore) Destroy(w http.ResponseWriter, session *Session) {
	s.Delete(session.ID)
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// Delete removes a session from memory and Redis
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	_, existed := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if existed && s.metrics != nil {
		s.metrics.SessionClosed()
	}

	if s.cache != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.cache.Delete(ctx, sessionID); err != nil {
			s.logger.Warn("Session delete failed", zap.Error(err))
		}
	}
}

// cleanupExpired removes expired sessions periodically
func (s *SessionStore) cleanupExpired() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		var expired []string

		s.mu.Lock()
		for id, session := range s.sessions {
			if now.After(session.ExpiresAt) {
				delete(s.sessions, id)
				expired = append(expired, id)
			}
		}
		s.mu.Unlock()

		for _, id := range expired {
			if s.metrics != nil {
				s.metrics.SessionClosed()
			}
			s.logger.Debug("Cleaned up expired session", zap.String("session_id", id))
		}
	}
}

// generateSessionID generates a random session ID
func generateSessionID() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
