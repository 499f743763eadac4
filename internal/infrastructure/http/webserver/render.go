package webserver

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/fridgechef/fridgechef/pkg/errors"
	"go.uber.org/zap"
)

// render executes a named template. A template failure at this point is a
// bug, so it falls back to a minimal page rather than a broken swap.
func (s *WebServer) render(w http.ResponseWriter, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	if data["AppName"] == nil {
		data["AppName"] = s.config.App.Name
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Failed to execute template",
			zap.String("template", name),
			zap.Error(err),
		)
		fmt.Fprintf(w, "<!DOCTYPE html><html><body><h1>%s</h1><p>Page failed to render.</p><a href=\"/\">Home</a></body></html>", s.config.App.Name)
	}
}

// renderPage renders a full page with the session's auth context attached
func (s *WebServer) renderPage(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	session := s.session(r)
	data["IsAuthenticated"] = session.Authenticated()
	data["IsAdmin"] = session.IsAdmin()
	if session.User != nil {
		data["User"] = session.User
	}
	data["Toasts"] = session.Toasts.Active()
	s.render(w, name, data)
}

// fail reports a handler error back to the visitor: it derives the
// user-facing message, pushes it as a toast and answers with the toast
// region so HTMX surfaces it. A backend 401 also drops the login, since
// the token is no longer honored.
func (s *WebServer) fail(w http.ResponseWriter, r *http.Request, action string, err error) {
	session := s.session(r)

	if errors.Is(err, errors.CodeUnauthorized) && session.Authenticated() {
		session.Logout()
		s.sessionStore.Save(w, session)
		s.logger.Info("Session cleared after backend 401", zap.String("session_id", session.ID))
	}

	message := errors.UserMessage(action, err)
	session.Toasts.Error(message)

	s.logger.Warn("Request failed",
		zap.String("action", action),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)

	status := http.StatusInternalServerError
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		status = appErr.StatusCode()
	}

	// HTMX only swaps 2xx responses, so errors answer 200 with the toast
	// region retargeted; the reswap headers point it at the right node.
	if isHTMX(r) {
		w.Header().Set("HX-Retarget", "#toasts")
		w.Header().Set("HX-Reswap", "outerHTML")
		s.render(w, "partials/toasts", map[string]any{"Toasts": session.Toasts.Active()})
		return
	}

	w.WriteHeader(status)
	s.renderPage(w, r, "error", map[string]any{
		"Title":   "Something went wrong",
		"Message": message,
	})
}
