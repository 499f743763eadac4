package webserver

import (
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/infrastructure/security"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type contextKey string

const sessionKey contextKey = "session"

// session returns the request's session, installed by withSession
func (s *WebServer) session(r *http.Request) *Session {
	return r.Context().Value(sessionKey).(*Session)
}

// withSession loads or creates the visitor's session and sets the cookie
func (s *WebServer) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.sessionStore.Get(r)
		if err != nil {
			session = s.sessionStore.New()
			s.sessionStore.Save(w, session)
		}

		ctx := context.WithValue(r.Context(), sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAuth gates handlers behind a live login. An expired token clears
// the session so the visitor is not stuck with credentials the backend
// will reject anyway.
func (s *WebServer) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := s.session(r)

		if session.Authenticated() && security.TokenExpired(session.Token, time.Now()) {
			session.Logout()
			s.sessionStore.Save(w, session)
			session.Toasts.Error("Your session has expired. Please log in again.")
		}

		if !session.Authenticated() {
			if isHTMX(r) {
				w.WriteHeader(http.StatusUnauthorized)
				s.render(w, "partials/login-required", map[string]any{
					"Redirect": r.URL.Path,
				})
				return
			}
			http.Redirect(w, r, "/login?redirect="+r.URL.Path, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// requireAdmin gates the admin panel; non-admins get the error page, not a
// redirect, so the address bar stays honest.
func (s *WebServer) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := s.session(r)
		if !session.IsAdmin() {
			w.WriteHeader(http.StatusForbidden)
			s.render(w, "error", map[string]any{
				"Title":   "Access denied",
				"Message": "You don't have permission to view this page.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs each request with its status and duration
func (s *WebServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// recoverer is the top-level error boundary: a panic renders the error
// page with reload and home links instead of a blank 502.
func (s *WebServer) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("Panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()),
				)

				w.WriteHeader(http.StatusInternalServerError)
				data := map[string]any{
					"Title":   "Something went wrong",
					"Message": "An unexpected error occurred. You can reload the page or go back home.",
				}
				if s.config.IsDevelopment() {
					data["Detail"] = rec
				}
				s.render(w, "error", data)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// securityHeaders adds standard security headers to all responses
func (s *WebServer) securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' https://unpkg.com; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"frame-ancestors 'none'")
		if s.config.IsProduction() {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}

// ipLimiters keeps one token bucket per client IP
type ipLimiters struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	rate     rate.Limit
	burst    int
	maxIdle  time.Duration
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiters(cfg config.RateLimitConfig) *ipLimiters {
	perSecond := float64(cfg.RequestsPerMin) / 60
	l := &ipLimiters{
		limiters: make(map[string]*ipLimiter),
		rate:     rate.Limit(perSecond),
		burst:    cfg.BurstSize,
		maxIdle:  cfg.CleanupAfter,
	}
	go l.cleanup()
	return l
}

func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()

	return entry.limiter.Allow()
}

func (l *ipLimiters) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-l.maxIdle)
		l.mu.Lock()
		for ip, entry := range l.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(l.limiters, ip)
			}
		}
		l.mu.Unlock()
	}
}

// rateLimit rejects clients that exceed the per-IP budget
func (s *WebServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !s.limiters.allow(ip) {
			s.logger.Warn("Rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", r.URL.Path),
			)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// isHTMX reports whether the request came from an HTMX swap
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
