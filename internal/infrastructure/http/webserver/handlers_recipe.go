package webserver

import (
	"net/http"
	"strconv"

	recipeapp "github.com/fridgechef/fridgechef/internal/application/recipe"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/domain/user"
	"github.com/fridgechef/fridgechef/pkg/errors"
	"github.com/go-chi/chi/v5"
)

// recipeCard pairs a generated recipe with its save state for rendering
type recipeCard struct {
	Index  int
	Recipe recipe.Recipe
	State  recipeapp.SaveState
}

func (s *WebServer) recipeCards(session *Session) []recipeCard {
	cards := make([]recipeCard, 0, len(session.Recipes))
	for i, r := range session.Recipes {
		cards = append(cards, recipeCard{
			Index:  i,
			Recipe: r,
			State:  session.Saver.State(recipeapp.CardKey(i, r.Title)),
		})
	}
	return cards
}

// handleGenerate asks the backend for recipes from the working ingredient
// list. The previously displayed set is discarded before the request, so a
// failure leaves the recipe area empty rather than stale.
func (s *WebServer) handleGenerate(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	session.Recipes = nil
	session.Saver.Reset()

	prefs := user.Preferences{}
	if session.User != nil {
		prefs = session.User.Preferences
	}

	session.Loading.Start("generate")
	defer session.Loading.Stop("generate")

	recipes, err := s.chef.Generate(r.Context(), session.Ingredients.Names(), prefs)
	if err != nil {
		if err == recipeapp.ErrNoIngredients {
			s.fail(w, r, "generate-recipes", errors.NewValidationError("Add at least one ingredient first."))
			return
		}
		s.fail(w, r, "generate-recipes", err)
		return
	}

	session.Recipes = recipes

	s.render(w, "partials/recipes", map[string]any{
		"Recipes": s.recipeCards(session),
		"Toasts":  session.Toasts.Active(),
	})
}

// handleRecipeDetail renders one generated recipe in full
func (s *WebServer) handleRecipeDetail(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(session.Recipes) {
		s.fail(w, r, "", errors.New(errors.CodeNotFound, "recipe index out of range"))
		return
	}

	rec := session.Recipes[index]
	s.render(w, "partials/recipe-detail", map[string]any{
		"Card": recipeCard{
			Index:  index,
			Recipe: rec,
			State:  session.Saver.State(recipeapp.CardKey(index, rec.Title)),
		},
	})
}

// handleRecipeSave saves one generated recipe to the profile. Logged-out
// visitors get the login prompt and the save is parked; it resumes after a
// successful login.
func (s *WebServer) handleRecipeSave(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 || index >= len(session.Recipes) {
		s.fail(w, r, "save-recipe", errors.New(errors.CodeNotFound, "recipe index out of range"))
		return
	}

	rec := session.Recipes[index]
	key := recipeapp.CardKey(index, rec.Title)

	saveErr := session.Saver.Save(r.Context(), session.Token, session.UserID(), key, rec)
	switch saveErr {
	case nil:
		session.Toasts.Success("Recipe saved to your profile.")
	case recipeapp.ErrLoginRequired:
		session.Toasts.Info("Log in to save recipes. Your recipe will be saved after you log in.")
		w.Header().Set("HX-Retarget", "#modal")
		w.Header().Set("HX-Reswap", "innerHTML")
		s.render(w, "partials/login-required", map[string]any{
			"Redirect": "/",
			"Toasts":   session.Toasts.Active(),
		})
		return
	case recipeapp.ErrSaveInFlight:
		// already saving, just re-render the current state
	default:
		s.fail(w, r, "save-recipe", saveErr)
		return
	}

	s.render(w, "partials/save-button", map[string]any{
		"Card": recipeCard{
			Index:  index,
			Recipe: rec,
			State:  session.Saver.State(key),
		},
		"Toasts": session.Toasts.Active(),
	})
}
