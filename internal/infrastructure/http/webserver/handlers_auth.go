package webserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fridgechef/fridgechef/pkg/errors"
	"go.uber.org/zap"
)

func (s *WebServer) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "login", map[string]any{
		"Title":    "Log in",
		"Redirect": r.URL.Query().Get("redirect"),
	})
}

// handleLogin authenticates against the backend, installs the session and
// replays any saves that were parked while logged out.
func (s *WebServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	resp, err := s.client.Login(r.Context(), email, password)
	if err != nil {
		s.renderPage(w, r, "login", map[string]any{
			"Title":    "Log in",
			"Error":    "Invalid email or password.",
			"Email":    email,
			"Redirect": r.FormValue("redirect"),
		})
		return
	}

	session.Login(resp.AccessToken, resp.User)
	s.sessionStore.Save(w, session)

	s.logger.Info("User logged in",
		zap.String("user_id", resp.User.ID),
		zap.Bool("admin", resp.User.IsAdmin),
	)

	s.resumeParkedSaves(w, r)

	redirect := r.FormValue("redirect")
	if redirect == "" || !strings.HasPrefix(redirect, "/") {
		redirect = "/"
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// resumeParkedSaves replays saves requested before the login and reports
// the outcome as toasts.
func (s *WebServer) resumeParkedSaves(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)
	if !session.Saver.HasPending() {
		return
	}

	saved, err := session.Saver.ResumePending(r.Context(), session.Token, session.UserID())
	if len(saved) > 0 {
		if len(saved) == 1 {
			session.Toasts.Success("Your recipe was saved.")
		} else {
			session.Toasts.Success(fmt.Sprintf("%d recipes were saved.", len(saved)))
		}
	}
	if err != nil {
		session.Toasts.Error("Some recipes could not be saved. Please try again.")
		s.logger.Warn("Parked save resume failed", zap.Error(err))
	}
}

func (s *WebServer) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "register", map[string]any{
		"Title": "Create account",
	})
}

func (s *WebServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	name := strings.TrimSpace(r.FormValue("name"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if name == "" || email == "" || password == "" {
		s.renderPage(w, r, "register", map[string]any{
			"Title": "Create account",
			"Error": "Name, email and password are required.",
			"Name":  name,
			"Email": email,
		})
		return
	}

	resp, err := s.client.Register(r.Context(), email, password, name)
	if err != nil {
		s.renderPage(w, r, "register", map[string]any{
			"Title": "Create account",
			"Error": s.registerError(err),
			"Name":  name,
			"Email": email,
		})
		return
	}

	session.Login(resp.AccessToken, resp.User)
	s.sessionStore.Save(w, session)

	s.logger.Info("User registered", zap.String("user_id", resp.User.ID))

	s.resumeParkedSaves(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *WebServer) registerError(err error) string {
	if errors.Is(err, errors.CodeConflict) {
		return "An account with that email already exists."
	}
	return "Registration failed. Please check your details and try again."
}

func (s *WebServer) handleResetPasswordPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "reset-password", map[string]any{
		"Title": "Reset password",
	})
}

func (s *WebServer) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	newPassword := r.FormValue("new_password")

	if email == "" || newPassword == "" {
		s.renderPage(w, r, "reset-password", map[string]any{
			"Title": "Reset password",
			"Error": "Email and new password are required.",
			"Email": email,
		})
		return
	}

	if err := s.client.ResetPassword(r.Context(), email, newPassword); err != nil {
		s.renderPage(w, r, "reset-password", map[string]any{
			"Title": "Reset password",
			"Error": "Password reset failed. Please check the email address.",
			"Email": email,
		})
		return
	}

	s.session(r).Toasts.Success("Password updated. You can log in now.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLogout drops the credentials; the working scan state stays
func (s *WebServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	session.Logout()
	s.sessionStore.Save(w, session)

	s.logger.Info("User logged out", zap.String("session_id", session.ID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
