// Package backend provides the client for the recipe backend API. All
// image recognition, recipe generation and persistence happens on the
// other side of this client.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/domain/user"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/infrastructure/monitoring"
	"github.com/fridgechef/fridgechef/pkg/errors"
	"go.uber.org/zap"
)

// Client is the surface of the recipe backend consumed by the web frontend.
// Implementations: APIClient (real HTTP) and MockClient (canned responses).
type Client interface {
	AnalyzeImage(ctx context.Context, upload ImageUpload, userID, customPrompt string) (*AnalysisResult, error)
	GenerateRecipes(ctx context.Context, ingredients []string, prefs user.Preferences) ([]recipe.Recipe, error)

	Login(ctx context.Context, email, password string) (*TokenResponse, error)
	Register(ctx context.Context, email, password, name string) (*TokenResponse, error)
	ResetPassword(ctx context.Context, email, newPassword string) error

	CreateUser(ctx context.Context, u user.User) (*user.User, error)
	GetUser(ctx context.Context, token, userID string) (*user.User, error)
	GetUserByEmail(ctx context.Context, token, email string) (*user.User, error)
	UpdateUser(ctx context.Context, token, userID string, upd UserUpdate) (*user.User, error)
	UpdatePreferences(ctx context.Context, token, userID string, prefs user.Preferences) error
	GetUserStats(ctx context.Context, token, userID string) (*user.Stats, error)

	SaveRecipe(ctx context.Context, token, userID string, r recipe.Recipe) (*recipe.Recipe, error)
	SavedRecipes(ctx context.Context, token, userID string, skip, limit int) (*RecipePage, error)
	SavedRecipe(ctx context.Context, token, userID, recipeID string) (*recipe.Recipe, error)
	DeleteSavedRecipe(ctx context.Context, token, userID, recipeID string) error

	AdminUsers(ctx context.Context, token string, skip, limit int) (*UserPage, error)
	AdminStats(ctx context.Context, token string) (*AdminStats, error)
	AdminDeleteUser(ctx context.Context, token, userID string) error
	AdminSetRole(ctx context.Context, token, userID string, isAdmin bool) (*user.User, error)

	Ping(ctx context.Context) bool
}

// APIClient handles communication with the recipe backend API
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *monitoring.MetricsCollector
}

// NewAPIClient creates a new API client instance
func NewAPIClient(cfg *config.Config, logger *zap.Logger, metrics *monitoring.MetricsCollector) *APIClient {
	timeout := cfg.Backend.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &APIClient{
		baseURL: cfg.Backend.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: metrics,
	}
}

// AnalyzeImage submits a fridge photo for ingredient recognition
func (c *APIClient) AnalyzeImage(ctx context.Context, upload ImageUpload, userID, customPrompt string) (*AnalysisResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", upload.Filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build upload form")
	}
	if _, err := part.Write(upload.Data); err != nil {
		return nil, errors.Wrap(err, "failed to write upload form")
	}
	if userID != "" {
		writer.WriteField("user_id", userID)
	}
	if customPrompt != "" {
		writer.WriteField("custom_prompt", customPrompt)
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to finish upload form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/images/analyze", &buf)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result AnalysisResult
	if err := c.do(req, "analyze", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GenerateRecipes asks the backend to generate recipes for the given
// ingredient names and preferences.
func (c *APIClient) GenerateRecipes(ctx context.Context, ingredients []string, prefs user.Preferences) ([]recipe.Recipe, error) {
	var resp generateResponse
	err := c.post(ctx, "/api/recipes/generate", "", generateRequest{
		Ingredients: ingredients,
		Preferences: prefs,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Recipes, nil
}

// Login authenticates a user
func (c *APIClient) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.post(ctx, "/api/auth/login", "", credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account
func (c *APIClient) Register(ctx context.Context, email, password, name string) (*TokenResponse, error) {
	var resp TokenResponse
	err := c.post(ctx, "/api/auth/register", "", registerRequest{Email: email, Password: password, Name: name}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResetPassword sets a new password for the account with the given email
func (c *APIClient) ResetPassword(ctx context.Context, email, newPassword string) error {
	return c.post(ctx, "/api/auth/reset-password", "", resetPasswordRequest{Email: email, NewPassword: newPassword}, nil)
}

// CreateUser creates a user profile
func (c *APIClient) CreateUser(ctx context.Context, u user.User) (*user.User, error) {
	var created user.User
	if err := c.post(ctx, "/api/users/", "", u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// GetUser fetches a user by identifier
func (c *APIClient) GetUser(ctx context.Context, token, userID string) (*user.User, error) {
	var u user.User
	if err := c.get(ctx, "/api/users/"+url.PathEscape(userID), token, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail fetches a user by email address
func (c *APIClient) GetUserByEmail(ctx context.Context, token, email string) (*user.User, error) {
	var u user.User
	if err := c.get(ctx, "/api/users/by-email/"+url.PathEscape(email), token, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser updates profile fields
func (c *APIClient) UpdateUser(ctx context.Context, token, userID string, upd UserUpdate) (*user.User, error) {
	var u user.User
	if err := c.put(ctx, "/api/users/"+url.PathEscape(userID), token, upd, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdatePreferences replaces the user's preference bundle
func (c *APIClient) UpdatePreferences(ctx context.Context, token, userID string, prefs user.Preferences) error {
	return c.put(ctx, "/api/users/"+url.PathEscape(userID)+"/preferences", token, prefs, nil)
}

// GetUserStats fetches aggregate counts for the profile page
func (c *APIClient) GetUserStats(ctx context.Context, token, userID string) (*user.Stats, error) {
	var stats user.Stats
	if err := c.get(ctx, "/api/users/"+url.PathEscape(userID)+"/stats", token, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// SaveRecipe persists a generated recipe to the user's profile
func (c *APIClient) SaveRecipe(ctx context.Context, token, userID string, r recipe.Recipe) (*recipe.Recipe, error) {
	var saved recipe.Recipe
	if err := c.post(ctx, "/api/users/"+url.PathEscape(userID)+"/recipes", token, r, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// SavedRecipes fetches one offset window of the user's saved recipes
func (c *APIClient) SavedRecipes(ctx context.Context, token, userID string, skip, limit int) (*RecipePage, error) {
	path := fmt.Sprintf("/api/users/%s/recipes?skip=%d&limit=%d", url.PathEscape(userID), skip, limit)
	var page RecipePage
	if err := c.get(ctx, path, token, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SavedRecipe fetches a single saved recipe
func (c *APIClient) SavedRecipe(ctx context.Context, token, userID, recipeID string) (*recipe.Recipe, error) {
	var r recipe.Recipe
	path := "/api/users/" + url.PathEscape(userID) + "/recipes/" + url.PathEscape(recipeID)
	if err := c.get(ctx, path, token, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteSavedRecipe removes a saved recipe
func (c *APIClient) DeleteSavedRecipe(ctx context.Context, token, userID, recipeID string) error {
	path := "/api/users/" + url.PathEscape(userID) + "/recipes/" + url.PathEscape(recipeID)
	return c.delete(ctx, path, token)
}

// AdminUsers fetches one offset window of the full user roster
func (c *APIClient) AdminUsers(ctx context.Context, token string, skip, limit int) (*UserPage, error) {
	path := fmt.Sprintf("/api/admin/users?skip=%d&limit=%d", skip, limit)
	var page UserPage
	if err := c.get(ctx, path, token, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// AdminStats fetches system-wide aggregate counts
func (c *APIClient) AdminStats(ctx context.Context, token string) (*AdminStats, error) {
	var stats AdminStats
	if err := c.get(ctx, "/api/admin/stats", token, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminDeleteUser deletes the target user
func (c *APIClient) AdminDeleteUser(ctx context.Context, token, userID string) error {
	return c.delete(ctx, "/api/admin/users/"+url.PathEscape(userID), token)
}

// AdminSetRole toggles the target user's admin flag
func (c *APIClient) AdminSetRole(ctx context.Context, token, userID string, isAdmin bool) (*user.User, error) {
	var u user.User
	path := "/api/admin/users/" + url.PathEscape(userID) + "/admin"
	if err := c.put(ctx, path, token, setRoleRequest{IsAdmin: isAdmin}, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Ping checks if the backend is reachable
func (c *APIClient) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Backend ping failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 500
}

// Helper methods

func (c *APIClient) get(ctx context.Context, path, token string, response interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	c.setHeaders(req, token)
	return c.do(req, req.URL.Path, response)
}

func (c *APIClient) post(ctx context.Context, path, token string, body, response interface{}) error {
	return c.send(ctx, http.MethodPost, path, token, body, response)
}

func (c *APIClient) put(ctx context.Context, path, token string, body, response interface{}) error {
	return c.send(ctx, http.MethodPut, path, token, body, response)
}

func (c *APIClient) delete(ctx context.Context, path, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	c.setHeaders(req, token)
	return c.do(req, req.URL.Path, nil)
}

func (c *APIClient) send(ctx context.Context, method, path, token string, body, response interface{}) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	c.setHeaders(req, token)

	return c.do(req, req.URL.Path, response)
}

func (c *APIClient) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// do executes the request and converts every failure into an AppError with
// a derived user-facing message. Raw transport errors never escape.
func (c *APIClient) do(req *http.Request, endpoint string, response interface{}) error {
	c.logger.Debug("Backend request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.metrics != nil {
			c.metrics.ObserveBackendRequest(endpoint, 0, time.Since(start))
		}
		return errors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if c.metrics != nil {
		c.metrics.ObserveBackendRequest(endpoint, resp.StatusCode, time.Since(start))
	}
	if err != nil {
		return errors.NewNetworkError(err)
	}

	if resp.StatusCode >= 400 {
		c.logger.Warn("Backend error response",
			zap.Int("status", resp.StatusCode),
			zap.String("endpoint", endpoint),
		)
		return errors.FromStatus(resp.StatusCode, extractDetail(body))
	}

	if response == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, response); err != nil {
		return errors.Wrap(err, "failed to unmarshal response")
	}
	return nil
}

// extractDetail pulls the human-readable detail out of an error body. The
// backend reports either a detail string or a list of validation errors
// with per-field messages; the first message wins.
func extractDetail(body []byte) string {
	var asString struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &asString); err == nil && asString.Detail != "" {
		return asString.Detail
	}

	var asList struct {
		Detail []struct {
			Msg string `json:"msg"`
		} `json:"detail"`
	}
	if err := json.Unmarshal(body, &asList); err == nil && len(asList.Detail) > 0 {
		return asList.Detail[0].Msg
	}

	return ""
}
