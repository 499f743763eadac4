package webserver

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fridgechef/fridgechef/internal/application/ui"
	"github.com/fridgechef/fridgechef/internal/domain/user"
	"github.com/fridgechef/fridgechef/pkg/errors"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const savedRecipesPageSize = 10

// handleProfile renders the account page: preferences, usage stats and the
// first window of saved recipes.
func (s *WebServer) handleProfile(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	data := map[string]any{
		"Title":       "Your profile",
		"Preferences": session.User.Preferences,
	}

	stats, err := s.client.GetUserStats(r.Context(), session.Token, session.UserID())
	if err != nil {
		s.logger.Warn("Stats fetch failed", zap.Error(err))
		session.Toasts.Warning(errors.UserMessage("get-stats", err))
	} else {
		data["Stats"] = stats
	}

	page, err := s.client.SavedRecipes(r.Context(), session.Token, session.UserID(), 0, savedRecipesPageSize)
	if err != nil {
		s.fail(w, r, "get-user", err)
		return
	}
	data["Page"] = page
	data["NextSkip"] = page.Skip + page.Limit

	s.renderPage(w, r, "profile", data)
}

// handlePreferencesUpdate validates the preference lists locally before
// sending anything, so a list over the cap never reaches the backend.
func (s *WebServer) handlePreferencesUpdate(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	if r.Form == nil {
		r.ParseForm()
	}
	prefs := user.Preferences{
		DietaryRestrictions: splitPreferenceList(r.FormValue("dietary_restrictions")),
		Allergies:           splitPreferenceList(r.FormValue("allergies")),
		ExcludedIngredients: splitPreferenceList(r.FormValue("excluded_ingredients")),
		FavoriteCuisines:    splitPreferenceList(r.FormValue("favorite_cuisines")),
	}
	prefs.Normalize()

	if err := prefs.Validate(); err != nil {
		session.Toasts.Warning(err.Error())
		w.Header().Set("HX-Retarget", "#toasts")
		w.Header().Set("HX-Reswap", "outerHTML")
		s.render(w, "partials/toasts", map[string]any{"Toasts": session.Toasts.Active()})
		return
	}

	if err := s.client.UpdatePreferences(r.Context(), session.Token, session.UserID(), prefs); err != nil {
		s.fail(w, r, "update-preferences", err)
		return
	}

	session.User.Preferences = prefs
	s.sessionStore.Save(w, session)
	session.Toasts.Success("Preferences saved.")

	s.render(w, "partials/preferences", map[string]any{
		"Preferences": prefs,
		"Toasts":      session.Toasts.Active(),
	})
}

// handleSavedRecipes returns the next window of saved recipes; the client
// appends it below the ones already shown.
func (s *WebServer) handleSavedRecipes(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	page, err := s.client.SavedRecipes(r.Context(), session.Token, session.UserID(), skip, savedRecipesPageSize)
	if err != nil {
		s.fail(w, r, "get-user", err)
		return
	}

	s.render(w, "partials/saved-recipes", map[string]any{
		"Page":     page,
		"NextSkip": page.Skip + page.Limit,
	})
}

func (s *WebServer) handleSavedRecipeDetail(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	rec, err := s.client.SavedRecipe(r.Context(), session.Token, session.UserID(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "get-user", err)
		return
	}

	s.render(w, "partials/saved-recipe-detail", map[string]any{
		"Recipe": rec,
	})
}

// handleSavedRecipeDelete removes a saved recipe after a confirmation
// round trip. The first request registers the confirmation; the resolve
// endpoint performs the deletion.
func (s *WebServer) handleSavedRecipeDelete(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)
	recipeID := chi.URLParam(r, "id")
	token := session.Token
	userID := session.UserID()

	confirmation := session.Confirms.Request(ui.ConfirmOptions{
		Title:        "Delete recipe",
		Message:      "Remove this recipe from your profile? This cannot be undone.",
		ConfirmLabel: "Delete",
		Variant:      ui.ConfirmDanger,
		RemoveTarget: "saved-" + recipeID,
		Refresh:      refreshProfileStats,
	}, func(confirmed bool) error {
		if !confirmed {
			return nil
		}
		// The resolve arrives on a later request, so the original request
		// context is already done.
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.client.DeleteSavedRecipe(ctx, token, userID, recipeID); err != nil {
			session.Toasts.Error(errors.UserMessage("delete-recipe", err))
			return err
		}
		session.Toasts.Success("Recipe deleted.")
		return nil
	})

	s.render(w, "partials/confirm", map[string]any{
		"Confirmation": confirmation,
	})
}

// splitPreferenceList turns a comma-separated input into list entries
func splitPreferenceList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}
