package webserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fridgechef/fridgechef/internal/application/ui"
	"github.com/fridgechef/fridgechef/pkg/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const adminUsersPageSize = 20

// handleAdmin renders the admin dashboard: aggregate stats and the first
// window of the user roster.
func (s *WebServer) handleAdmin(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	data := map[string]any{
		"Title": "Admin",
	}

	stats, err := s.client.AdminStats(r.Context(), session.Token)
	if err != nil {
		s.logger.Warn("Admin stats fetch failed", zap.Error(err))
		session.Toasts.Warning(errors.UserMessage("get-stats", err))
	} else {
		data["Stats"] = stats
	}

	page, err := s.client.AdminUsers(r.Context(), session.Token, 0, adminUsersPageSize)
	if err != nil {
		s.fail(w, r, "get-user", err)
		return
	}
	data["Page"] = page
	data["NextSkip"] = page.Skip + page.Limit

	s.renderPage(w, r, "admin", data)
}

// handleAdminUsers returns the next roster window for appending
func (s *WebServer) handleAdminUsers(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	page, err := s.client.AdminUsers(r.Context(), session.Token, skip, adminUsersPageSize)
	if err != nil {
		s.fail(w, r, "get-user", err)
		return
	}

	s.render(w, "partials/admin-users", map[string]any{
		"Page":     page,
		"NextSkip": page.Skip + page.Limit,
	})
}

// handleAdminSetRole toggles a user's admin flag. On success the updated
// row renders immediately and the stats refresh out of band; a failed
// stats refresh is left to the next one rather than rolled back.
func (s *WebServer) handleAdminSetRole(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)
	userID := chi.URLParam(r, "id")

	if userID == session.UserID() {
		s.fail(w, r, "", errors.NewValidationError("You cannot change your own role."))
		return
	}

	makeAdmin := r.FormValue("is_admin") == "true"

	updated, err := s.client.AdminSetRole(r.Context(), session.Token, userID, makeAdmin)
	if err != nil {
		s.fail(w, r, "", err)
		return
	}

	session.Toasts.Success("Role updated.")

	data := map[string]any{
		"User":   updated,
		"Toasts": session.Toasts.Active(),
	}
	if stats, statsErr := s.client.AdminStats(r.Context(), session.Token); statsErr == nil {
		data["Stats"] = stats
	} else {
		s.logger.Warn("Stats refresh after role change failed", zap.Error(statsErr))
	}

	s.render(w, "partials/admin-user-row", data)
}

// handleAdminDeleteUser deletes an account after confirmation
func (s *WebServer) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)
	userID := chi.URLParam(r, "id")

	if userID == session.UserID() {
		s.fail(w, r, "", errors.NewValidationError("You cannot delete your own account."))
		return
	}

	token := session.Token
	confirmation := session.Confirms.Request(ui.ConfirmOptions{
		Title:        "Delete user",
		Message:      "Delete this account and all its saved recipes? This cannot be undone.",
		ConfirmLabel: "Delete",
		Variant:      ui.ConfirmDanger,
		RemoveTarget: "user-" + userID,
		Refresh:      refreshAdminStats,
	}, func(confirmed bool) error {
		if !confirmed {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.client.AdminDeleteUser(ctx, token, userID); err != nil {
			session.Toasts.Error(errors.UserMessage("", err))
			return err
		}
		session.Toasts.Success("User deleted.")
		return nil
	})

	s.render(w, "partials/confirm", map[string]any{
		"Confirmation": confirmation,
	})
}

// handleAdminStats refreshes the dashboard numbers
func (s *WebServer) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	stats, err := s.client.AdminStats(r.Context(), session.Token)
	if err != nil {
		s.fail(w, r, "get-stats", err)
		return
	}

	s.render(w, "partials/admin-stats", map[string]any{
		"Stats": stats,
	})
}
