// Package webserver provides the web frontend HTTP server implementation
package webserver

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	recipeapp "github.com/fridgechef/fridgechef/internal/application/recipe"
	"github.com/fridgechef/fridgechef/internal/application/scan"
	"github.com/fridgechef/fridgechef/internal/domain/user"
	"github.com/fridgechef/fridgechef/internal/infrastructure/backend"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/infrastructure/monitoring"
	"github.com/fridgechef/fridgechef/pkg/healthcheck"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

//go:embed templates/*
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// WebServer represents the web frontend HTTP server
type WebServer struct {
	config       *config.Config
	logger       *zap.Logger
	server       *http.Server
	router       *chi.Mux
	client       backend.Client
	scanner      *scan.Service
	chef         *recipeapp.Chef
	sessionStore *SessionStore
	templates    *template.Template
	healthCheck  *healthcheck.HealthCheck
	metrics      *monitoring.MetricsCollector
	limiters     *ipLimiters
}

// NewWebServer creates a new web frontend server instance
func NewWebServer(
	cfg *config.Config,
	log *zap.Logger,
	client backend.Client,
	scanner *scan.Service,
	chef *recipeapp.Chef,
	sessionStore *SessionStore,
	healthCheck *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
) (*WebServer, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	server := &WebServer{
		config:       cfg,
		logger:       log,
		client:       client,
		scanner:      scanner,
		chef:         chef,
		sessionStore: sessionStore,
		templates:    templates,
		healthCheck:  healthCheck,
		metrics:      metrics,
		limiters:     newIPLimiters(cfg.RateLimit),
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server, nil
}

// setupRoutes configures the web frontend routes
func (s *WebServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(middleware.Compress(5))
	r.Use(s.securityHeaders)
	if s.config.RateLimit.Enabled {
		r.Use(s.rateLimit)
	}
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}
	r.Use(s.withSession)

	// Static files
	staticContent, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticContent))))

	// Health and metrics
	r.Get("/health", s.healthCheck.Handler())
	r.Get("/live", s.healthCheck.LivenessHandler())
	r.Get("/ready", s.handleReady)
	if s.config.Metrics.Enabled && s.metrics != nil {
		r.Handle(s.config.Metrics.Path, s.metrics.Handler())
	}

	// Scan flow
	r.Get("/", s.handleHome)
	r.Post("/scan", s.handleScan)
	r.Post("/scan/reanalyze", s.handleReanalyze)

	// Ingredient editor (HTMX partials)
	r.Post("/ingredients", s.handleIngredientAdd)
	r.Put("/ingredients/{id}", s.handleIngredientUpdate)
	r.Delete("/ingredients/{id}", s.handleIngredientRemove)

	// Recipe generation and saving
	r.Post("/recipes/generate", s.handleGenerate)
	r.Get("/recipes/{index}", s.handleRecipeDetail)
	r.Post("/recipes/{index}/save", s.handleRecipeSave)

	// Auth
	r.Get("/login", s.handleLoginPage)
	r.Post("/login", s.handleLogin)
	r.Get("/register", s.handleRegisterPage)
	r.Post("/register", s.handleRegister)
	r.Get("/reset-password", s.handleResetPasswordPage)
	r.Post("/reset-password", s.handleResetPassword)
	r.Post("/logout", s.handleLogout)

	// Profile (requires authentication)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/profile", s.handleProfile)
		r.Put("/profile/preferences", s.handlePreferencesUpdate)
		r.Get("/profile/recipes", s.handleSavedRecipes)
		r.Get("/profile/recipes/{id}", s.handleSavedRecipeDetail)
		r.Delete("/profile/recipes/{id}", s.handleSavedRecipeDelete)
	})

	// Admin panel (requires admin role)
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Use(s.requireAdmin)

		r.Get("/admin", s.handleAdmin)
		r.Get("/admin/users", s.handleAdminUsers)
		r.Put("/admin/users/{id}/role", s.handleAdminSetRole)
		r.Delete("/admin/users/{id}", s.handleAdminDeleteUser)
		r.Get("/admin/stats", s.handleAdminStats)
	})

	// UI partials
	r.Get("/htmx/toasts", s.handleToasts)
	r.Post("/htmx/toasts/{id}/dismiss", s.handleToastDismiss)
	r.Post("/htmx/confirm/{id}", s.handleConfirmResolve)

	return r
}

// Start starts the web frontend HTTP server
func (s *WebServer) Start() error {
	s.logger.Info("Starting web frontend server",
		zap.String("address", s.server.Addr),
		zap.Bool("mock_backend", s.config.Backend.MockMode),
	)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the web server
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down web frontend server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router, used by tests
func (s *WebServer) Handler() http.Handler {
	return s.router
}

// handleReady reports readiness: the process is up and the backend answers
func (s *WebServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.client.Ping(r.Context()) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintf(w, `{"status":"not_ready","reason":"backend not reachable"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ready"}`)
}

// parseTemplates parses all HTML templates from the embedded filesystem
func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				return v.Format("Jan 2, 2006")
			case *time.Time:
				if v == nil {
					return ""
				}
				return v.Format("Jan 2, 2006")
			}
			return ""
		},
		"truncate": func(s string, n int) string {
			if len(s) <= n {
				return s
			}
			return s[:n] + "..."
		},
		"join": func(sep string, elems []string) string {
			return strings.Join(elems, sep)
		},
		"eq": func(a, b interface{}) bool {
			return fmt.Sprint(a) == fmt.Sprint(b)
		},
		"dictCard": func(c recipeCard) map[string]any {
			return map[string]any{"Card": c}
		},
		"dictUser": func(u user.User) map[string]any {
			return map[string]any{"User": &u}
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"pct": func(f float64) int { return int(f * 100) },
		"confidence": func(p *float64) string {
			if p == nil {
				return ""
			}
			return fmt.Sprintf("%d%%", int(*p*100))
		},
	}

	tmpl := template.New("").Funcs(funcMap)

	err := fs.WalkDir(templatesFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		content, err := templatesFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", path, err)
		}

		name := strings.TrimPrefix(path, "templates/")
		name = strings.TrimSuffix(name, ".html")

		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk templates: %w", err)
	}

	return tmpl, nil
}
