package webserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/fridgechef/fridgechef/internal/domain/ingredient"
	"github.com/fridgechef/fridgechef/pkg/errors"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// handleHome renders the scan page with whatever working state the session
// already has, so a reload does not lose the ingredient list.
func (s *WebServer) handleHome(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	data := map[string]any{
		"Title":         "What's in your fridge?",
		"MaxFileSizeMB": s.scanner.MaxFileSize() / (1 << 20),
		"Ingredients":   session.Ingredients.Items(),
		"Recipes":       s.recipeCards(session),
	}
	if session.Analysis != nil {
		data["Analysis"] = session.Analysis
	}
	s.renderPage(w, r, "home", data)
}

// handleScan accepts the fridge photo, runs recognition and swaps in the
// recognized ingredient list.
func (s *WebServer) handleScan(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	file, header, err := r.FormFile("photo")
	if err != nil {
		s.fail(w, r, "analyze-image", errors.NewValidationError("Please choose a photo to upload."))
		return
	}
	defer file.Close()

	upload, err := s.scanner.ReadUpload(file, header.Filename, header.Header.Get("Content-Type"), header.Size)
	if err != nil {
		s.fail(w, r, "analyze-image", err)
		return
	}

	session.Loading.Start("scan")
	defer session.Loading.Stop("scan")

	analysis, err := s.scanner.Analyze(r.Context(), upload, session.UserID(), "")
	if err != nil {
		s.fail(w, r, "analyze-image", err)
		return
	}

	session.Upload = &upload
	session.Analysis = analysis
	session.Ingredients = ingredient.NewListFrom(analysis.Ingredients)
	session.Recipes = nil
	session.Saver.Reset()

	session.Toasts.Success(fmt.Sprintf("Found %d ingredients in your photo.", len(analysis.Ingredients)))

	s.render(w, "partials/scan-result", map[string]any{
		"Analysis":    analysis,
		"Ingredients": session.Ingredients.Items(),
		"Toasts":      session.Toasts.Active(),
	})
}

// handleReanalyze re-runs recognition on the already uploaded photo with a
// custom prompt, replacing the ingredient list with the new result.
func (s *WebServer) handleReanalyze(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	if session.Upload == nil {
		s.fail(w, r, "analyze-image", errors.NewValidationError("Upload a photo first."))
		return
	}

	prompt := strings.TrimSpace(r.FormValue("prompt"))
	if prompt == "" {
		s.fail(w, r, "analyze-image", errors.NewValidationError("Please enter a prompt for re-analysis."))
		return
	}

	session.Loading.Start("scan")
	defer session.Loading.Stop("scan")

	analysis, err := s.scanner.Analyze(r.Context(), *session.Upload, session.UserID(), prompt)
	if err != nil {
		s.fail(w, r, "analyze-image", err)
		return
	}

	session.Analysis = analysis
	session.Ingredients = ingredient.NewListFrom(analysis.Ingredients)
	session.Recipes = nil
	session.Saver.Reset()

	session.Toasts.Success(fmt.Sprintf("Re-analysis found %d ingredients.", len(analysis.Ingredients)))

	s.render(w, "partials/scan-result", map[string]any{
		"Analysis":    analysis,
		"Ingredients": session.Ingredients.Items(),
		"Toasts":      session.Toasts.Active(),
	})
}

// handleIngredientAdd appends a manual ingredient to the working list
func (s *WebServer) handleIngredientAdd(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	name := r.FormValue("name")
	quantity := r.FormValue("quantity")
	freshness := ingredient.ParseFreshness(r.FormValue("freshness"))

	if _, err := session.Ingredients.Add(name, quantity, freshness); err != nil {
		s.fail(w, r, "", errors.NewValidationError("Ingredient name cannot be empty."))
		return
	}

	s.renderIngredients(w, session)
}

// handleIngredientUpdate patches one ingredient in place
func (s *WebServer) handleIngredientUpdate(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, "", errors.NewValidationError("Unknown ingredient."))
		return
	}

	patch := ingredient.Patch{}
	if r.Form == nil {
		r.ParseForm()
	}
	if v, ok := formValue(r, "name"); ok {
		patch.Name = &v
	}
	if v, ok := formValue(r, "quantity"); ok {
		patch.Quantity = &v
	}
	if v, ok := formValue(r, "freshness"); ok {
		f := ingredient.ParseFreshness(v)
		patch.Freshness = &f
	}

	if _, err := session.Ingredients.Update(id, patch); err != nil {
		s.logger.Debug("Ingredient update rejected", zap.String("id", id.String()), zap.Error(err))
		s.fail(w, r, "", errors.NewValidationError("Ingredient name cannot be empty."))
		return
	}

	s.renderIngredients(w, session)
}

// handleIngredientRemove drops an ingredient; removing one that is already
// gone is not an error.
func (s *WebServer) handleIngredientRemove(w http.ResponseWriter, r *http.Request) {
	session := s.session(r)

	if id, err := uuid.Parse(chi.URLParam(r, "id")); err == nil {
		session.Ingredients.Remove(id)
	}

	s.renderIngredients(w, session)
}

func (s *WebServer) renderIngredients(w http.ResponseWriter, session *Session) {
	s.render(w, "partials/ingredients", map[string]any{
		"Ingredients": session.Ingredients.Items(),
		"Toasts":      session.Toasts.Active(),
	})
}

// formValue distinguishes absent fields from empty ones, so a partial
// update leaves unmentioned fields alone.
func formValue(r *http.Request, key string) (string, bool) {
	values, ok := r.Form[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
