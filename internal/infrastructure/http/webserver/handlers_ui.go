package webserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Aggregate panels the confirm flow can refresh after a confirmed action
const (
	refreshAdminStats   = "admin-stats"
	refreshProfileStats = "profile-stats"
)

// handleToasts renders the active toast region; the page polls it so
// expired toasts disappear without a dedicated push channel.
func (s *WebServer) handleToasts(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)
	s.render(w, "partials/toasts", map[string]any{
		"Toasts": session.Toasts.Active(),
	})
}

// handleToastDismiss removes one toast before its TTL runs out
func (s *WebServer) handleToastDismiss(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	if id, err := uuid.Parse(chi.URLParam(r, "id")); err == nil {
		session.Toasts.Dismiss(id)
	}

	s.render(w, "partials/toasts", map[string]any{
		"Toasts": session.Toasts.Active(),
	})
}

// handleConfirmResolve answers the pending confirmation. The form carries
// confirmed=true or false; an unknown or stale ID is a no-op. When the
// confirmed action succeeds, the response also removes the affected entry
// out of band and refreshes the aggregate panel the confirmation named.
func (s *WebServer) handleConfirmResolve(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	confirmed := r.FormValue("confirmed") == "true"
	result, ok := session.Confirms.Resolve(id, confirmed)

	data := map[string]any{
		"Toasts": session.Toasts.Active(),
	}
	if ok && result.Confirmed && result.Err == nil {
		if target := result.Confirmation.RemoveTarget; target != "" {
			data["RemoveTarget"] = target
		}
		switch result.Confirmation.Refresh {
		case refreshAdminStats:
			if stats, statsErr := s.client.AdminStats(r.Context(), session.Token); statsErr == nil {
				data["Stats"] = stats
			} else {
				s.logger.Warn("Stats refresh after delete failed", zap.Error(statsErr))
			}
		case refreshProfileStats:
			if stats, statsErr := s.client.GetUserStats(r.Context(), session.Token, session.UserID()); statsErr == nil {
				data["UserStats"] = stats
			} else {
				s.logger.Warn("Stats refresh after delete failed", zap.Error(statsErr))
			}
		}
	}

	s.render(w, "partials/confirm-resolved", data)
}
