package webserver

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	recipeapp "github.com/fridgechef/fridgechef/internal/application/recipe"
	"github.com/fridgechef/fridgechef/internal/application/scan"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/domain/user"
	"github.com/fridgechef/fridgechef/internal/infrastructure/backend"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/pkg/errors"
	"github.com/fridgechef/fridgechef/pkg/healthcheck"
	"github.com/fridgechef/fridgechef/test/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubClient implements backend.Client for handler tests. Unstubbed
// methods panic via the nil embedded interface.
type stubClient struct {
	backend.Client

	analyzeCalls  int
	analyzeResult *backend.AnalysisResult
	analyzeErr    error

	generateCalls int
	recipes       []recipe.Recipe
	generateErr   error

	loginErr  error
	loginUser user.User

	saveCalls int
	saveErr   error

	prefsCalls  int
	prefsErr    error
	lastPrefs   user.Preferences
	adminCalls  []int
	adminResult func(skip int) *backend.UserPage
	statsResult *backend.AdminStats

	savedPage *backend.RecipePage
	userStats *user.Stats

	deleteRecipeCalls int
	deleteRecipeErr   error
	deleteUserCalls   int
	deleteUserErr     error
	adminStatsCalls   int
	userStatsCalls    int
}

func (c *stubClient) AnalyzeImage(ctx context.Context, upload backend.ImageUpload, userID, customPrompt string) (*backend.AnalysisResult, error) {
	c.analyzeCalls++
	return c.analyzeResult, c.analyzeErr
}

func (c *stubClient) GenerateRecipes(ctx context.Context, ingredients []string, prefs user.Preferences) ([]recipe.Recipe, error) {
	c.generateCalls++
	return c.recipes, c.generateErr
}

func (c *stubClient) Login(ctx context.Context, email, password string) (*backend.TokenResponse, error) {
	if c.loginErr != nil {
		return nil, c.loginErr
	}
	return &backend.TokenResponse{AccessToken: "test-token", TokenType: "bearer", User: c.loginUser}, nil
}

func (c *stubClient) SaveRecipe(ctx context.Context, token, userID string, r recipe.Recipe) (*recipe.Recipe, error) {
	c.saveCalls++
	if c.saveErr != nil {
		return nil, c.saveErr
	}
	saved := r
	saved.ID = "saved-1"
	return &saved, nil
}

func (c *stubClient) UpdatePreferences(ctx context.Context, token, userID string, prefs user.Preferences) error {
	c.prefsCalls++
	c.lastPrefs = prefs
	return c.prefsErr
}

func (c *stubClient) SavedRecipes(ctx context.Context, token, userID string, skip, limit int) (*backend.RecipePage, error) {
	if c.savedPage != nil {
		return c.savedPage, nil
	}
	return &backend.RecipePage{Skip: skip, Limit: limit}, nil
}

func (c *stubClient) GetUserStats(ctx context.Context, token, userID string) (*user.Stats, error) {
	c.userStatsCalls++
	if c.userStats != nil {
		return c.userStats, nil
	}
	return &user.Stats{}, nil
}

func (c *stubClient) DeleteSavedRecipe(ctx context.Context, token, userID, recipeID string) error {
	c.deleteRecipeCalls++
	return c.deleteRecipeErr
}

func (c *stubClient) AdminDeleteUser(ctx context.Context, token, userID string) error {
	c.deleteUserCalls++
	return c.deleteUserErr
}

func (c *stubClient) AdminUsers(ctx context.Context, token string, skip, limit int) (*backend.UserPage, error) {
	c.adminCalls = append(c.adminCalls, skip)
	if c.adminResult != nil {
		return c.adminResult(skip), nil
	}
	return &backend.UserPage{Skip: skip, Limit: limit}, nil
}

func (c *stubClient) AdminStats(ctx context.Context, token string) (*backend.AdminStats, error) {
	c.adminStatsCalls++
	if c.statsResult != nil {
		return c.statsResult, nil
	}
	return &backend.AdminStats{}, nil
}

func (c *stubClient) Ping(ctx context.Context) bool { return true }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "FridgeChef", Version: "test", Environment: "development"},
		Server: config.ServerConfig{
			Host: "127.0.0.1", Port: 0,
			ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, IdleTimeout: 30 * time.Second,
		},
		Upload:    config.UploadConfig{MaxFileSize: 20 * 1024 * 1024},
		Session:   config.SessionConfig{CookieName: "fridgechef-session", TTL: time.Hour},
		RateLimit: config.RateLimitConfig{Enabled: false},
		Metrics:   config.MetricsConfig{Enabled: false},
	}
}

// Fixtures come from the shared factories, pinned to the identities the
// assertions look for.
func danaUser() user.User {
	return testutils.NewUserBuilder().
		WithID("u1").
		WithName("Dana").
		WithEmail("dana@example.com").
		Build()
}

func adminUser() user.User {
	return testutils.NewUserBuilder().
		WithID("a1").
		WithName("Admin").
		AsAdmin().
		Build()
}

func omeletteRecipe() recipe.Recipe {
	return testutils.NewRecipeBuilder().
		WithTitle("Plain Omelette").
		WithDifficulty(recipe.DifficultyEasy).
		WithInstructions("Whisk eggs", "Fry").
		Build()
}

type testApp struct {
	server *httptest.Server
	client *http.Client
	stub   *stubClient
}

func newTestApp(t *testing.T, stub *stubClient) *testApp {
	t.Helper()

	cfg := testConfig()
	logger := zap.NewNop()

	store := NewSessionStore(cfg, stub, nil, logger, nil)
	scanner := scan.NewService(stub, cfg, logger, nil)
	chef := recipeapp.NewChef(stub, logger, nil)
	hc := healthcheck.New("test", logger)

	ws, err := NewWebServer(cfg, logger, stub, scanner, chef, store, hc, nil)
	require.NoError(t, err)

	server := httptest.NewServer(ws.Handler())
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testApp{
		server: server,
		client: &http.Client{Jar: jar},
		stub:   stub,
	}
}

func (a *testApp) get(t *testing.T, path string) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.Get(a.server.URL + path)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func (a *testApp) postForm(t *testing.T, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := a.client.PostForm(a.server.URL+path, form)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func (a *testApp) do(t *testing.T, method, path string, form url.Values) (*http.Response, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, a.server.URL+path, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	resp, err := a.client.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(data)
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	resp, _ := a.postForm(t, "/login", url.Values{
		"email":    {"dana@example.com"},
		"password": {"secret123"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func uploadPhoto(t *testing.T, a *testApp, filename string) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", filename)
	require.NoError(t, err)
	// Minimal JPEG signature so content sniffing sees an image
	_, err = part.Write(append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x10}, 64)...))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, a.server.URL+"/scan", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := a.client.Do(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(body)
}

func confidence(v float64) *float64 { return &v }

func TestScanFlow(t *testing.T) {
	stub := &stubClient{
		analyzeResult: &backend.AnalysisResult{
			Success: true,
			ImageID: "img-1",
			Ingredients: []backend.RecognizedIngredient{
				{Name: "Eggs", Quantity: "6", Freshness: "fresh", Confidence: confidence(0.95)},
				{Name: "Milk", Quantity: "1L", Freshness: "moderate", Confidence: confidence(0.88)},
			},
			Model: "vision-large",
		},
	}
	app := newTestApp(t, stub)

	resp, body := uploadPhoto(t, app, "fridge.jpg")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, stub.analyzeCalls)
	assert.Contains(t, body, "Eggs")
	assert.Contains(t, body, "Milk")
	assert.Contains(t, body, "vision-large")

	// The working list survives a page reload
	_, home := app.get(t, "/")
	assert.Contains(t, home, "Eggs")
}

func TestScanRejectsNonImage(t *testing.T) {
	stub := &stubClient{}
	app := newTestApp(t, stub)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", "notes.txt")
	require.NoError(t, err)
	part.Write([]byte("just some text, definitely not an image"))
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, app.server.URL+"/scan", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.client.Do(req)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Contains(t, string(body), "image")
	assert.Zero(t, stub.analyzeCalls, "invalid upload must not reach the backend")
}

func TestGenerateDiscardsStaleRecipes(t *testing.T) {
	stub := &stubClient{
		analyzeResult: &backend.AnalysisResult{
			Success:     true,
			Ingredients: []backend.RecognizedIngredient{{Name: "Eggs", Quantity: "6", Freshness: "fresh"}},
		},
		recipes: []recipe.Recipe{omeletteRecipe()},
	}
	app := newTestApp(t, stub)
	uploadPhoto(t, app, "fridge.jpg")

	resp, body := app.postForm(t, "/recipes/generate", url.Values{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Plain Omelette")

	// Second generation fails: the recipe area must come back empty, not
	// keep showing the stale set.
	stub.generateErr = errors.FromStatus(500, "")
	_, home := app.get(t, "/")
	require.Contains(t, home, "Plain Omelette")

	app.postForm(t, "/recipes/generate", url.Values{})
	_, home = app.get(t, "/")
	assert.NotContains(t, home, "Plain Omelette")
}

func TestGenerateWithEmptyListRejected(t *testing.T) {
	stub := &stubClient{}
	app := newTestApp(t, stub)

	app.postForm(t, "/recipes/generate", url.Values{})

	assert.Zero(t, stub.generateCalls)
}

func TestSaveRequiresLoginThenResumes(t *testing.T) {
	stub := &stubClient{
		analyzeResult: &backend.AnalysisResult{
			Success:     true,
			Ingredients: []backend.RecognizedIngredient{{Name: "Eggs", Quantity: "6", Freshness: "fresh"}},
		},
		recipes: []recipe.Recipe{omeletteRecipe()},
		loginUser: danaUser(),
	}
	app := newTestApp(t, stub)

	uploadPhoto(t, app, "fridge.jpg")
	app.postForm(t, "/recipes/generate", url.Values{})

	// Save while logged out: parked, login prompt shown, no backend call
	_, body := app.postForm(t, "/recipes/0/save", url.Values{})
	assert.Contains(t, body, "Log in")
	assert.Zero(t, stub.saveCalls)

	// Logging in resumes the parked save exactly once
	app.login(t)
	assert.Equal(t, 1, stub.saveCalls)

	// The card now renders as saved
	_, home := app.get(t, "/")
	assert.Contains(t, home, "Saved")
}

func TestSaveAuthenticated(t *testing.T) {
	stub := &stubClient{
		analyzeResult: &backend.AnalysisResult{
			Success:     true,
			Ingredients: []backend.RecognizedIngredient{{Name: "Eggs", Quantity: "6", Freshness: "fresh"}},
		},
		recipes: []recipe.Recipe{omeletteRecipe()},
		loginUser: danaUser(),
	}
	app := newTestApp(t, stub)
	app.login(t)

	uploadPhoto(t, app, "fridge.jpg")
	app.postForm(t, "/recipes/generate", url.Values{})

	_, body := app.postForm(t, "/recipes/0/save", url.Values{})

	assert.Equal(t, 1, stub.saveCalls)
	assert.Contains(t, body, "Saved")
}

func TestIngredientEditing(t *testing.T) {
	stub := &stubClient{}
	app := newTestApp(t, stub)

	resp, body := app.postForm(t, "/ingredients", url.Values{
		"name":     {"Butter"},
		"quantity": {"200g"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Butter")
	assert.Contains(t, body, "added")

	// Empty names are rejected
	_, body = app.postForm(t, "/ingredients", url.Values{"name": {"   "}})
	assert.Contains(t, body, "empty")
}

func TestPreferenceCapEnforcedLocally(t *testing.T) {
	stub := &stubClient{loginUser: danaUser()}
	app := newTestApp(t, stub)
	app.login(t)

	// 51 allergies breach the cap; the update must never reach the backend
	entries := make([]string, 51)
	for i := range entries {
		entries[i] = "allergen"
	}
	resp, body := app.do(t, http.MethodPut, "/profile/preferences", url.Values{
		"allergies": {strings.Join(entries, ",")},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "50")
	assert.Zero(t, stub.prefsCalls, "over-cap preferences must not reach the backend")
}

func TestPreferenceUpdateAccepted(t *testing.T) {
	stub := &stubClient{loginUser: danaUser()}
	app := newTestApp(t, stub)
	app.login(t)

	resp, body := app.do(t, http.MethodPut, "/profile/preferences", url.Values{
		"allergies":         {"peanuts, shellfish"},
		"favorite_cuisines": {"thai"},
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "peanuts")
	assert.Equal(t, 1, stub.prefsCalls)
	assert.Equal(t, []string{"peanuts", "shellfish"}, stub.lastPrefs.Allergies)
}

func TestBackend401ClearsSession(t *testing.T) {
	stub := &stubClient{
		analyzeResult: &backend.AnalysisResult{
			Success:     true,
			Ingredients: []backend.RecognizedIngredient{{Name: "Eggs", Quantity: "6", Freshness: "fresh"}},
		},
		loginUser: danaUser(),
	}
	app := newTestApp(t, stub)
	app.login(t)

	_, home := app.get(t, "/")
	require.Contains(t, home, "Dana", "logged-in header expected")

	// Backend rejects the token mid-session
	stub.analyzeErr = errors.FromStatus(401, "")
	uploadPhoto(t, app, "fridge.jpg")

	_, home = app.get(t, "/")
	assert.NotContains(t, home, "Dana", "session must be cleared after a backend 401")
	assert.Contains(t, home, "Log in")
}

func TestProtectedPagesRedirectWhenLoggedOut(t *testing.T) {
	stub := &stubClient{}
	app := newTestApp(t, stub)
	app.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp, _ := app.get(t, "/profile")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/login")
}

func TestAdminRequiresRole(t *testing.T) {
	stub := &stubClient{loginUser: danaUser()}
	app := newTestApp(t, stub)
	app.login(t)

	resp, _ := app.get(t, "/admin")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAdminPaginationAdvancesOffset(t *testing.T) {
	roster := func(skip int) *backend.UserPage {
		users := make([]user.User, 20)
		for i := range users {
			users[i] = testutils.NewUserBuilder().Build()
		}
		return &backend.UserPage{Users: users, Total: 45, Skip: skip, Limit: 20, HasMore: skip+20 < 45}
	}
	stub := &stubClient{
		loginUser:   adminUser(),
		adminResult: roster,
	}
	app := newTestApp(t, stub)
	app.login(t)

	_, body := app.get(t, "/admin")
	assert.Contains(t, body, "skip=20", "first page links the next window")

	_, body = app.get(t, "/admin/users?skip=20")
	assert.Contains(t, body, "skip=40")

	assert.Equal(t, []int{0, 20}, stub.adminCalls)
}

var confirmPath = regexp.MustCompile(`/htmx/confirm/([0-9a-fA-F-]{36})`)

// confirmID pulls the confirmation identifier out of a rendered dialog
func confirmID(t *testing.T, body string) string {
	t.Helper()
	m := confirmPath.FindStringSubmatch(body)
	require.NotNil(t, m, "confirmation dialog expected in response")
	return m[1]
}

func TestAdminDeleteRemovesRowAndRefreshesStats(t *testing.T) {
	stub := &stubClient{loginUser: adminUser()}
	app := newTestApp(t, stub)
	app.login(t)

	_, body := app.do(t, http.MethodDelete, "/admin/users/victim", nil)
	id := confirmID(t, body)
	assert.Zero(t, stub.deleteUserCalls, "nothing deleted before confirmation")

	before := stub.adminStatsCalls
	_, body = app.postForm(t, "/htmx/confirm/"+id, url.Values{"confirmed": {"true"}})

	assert.Equal(t, 1, stub.deleteUserCalls)
	assert.Contains(t, body, "User deleted.")
	assert.Contains(t, body, `id="user-victim"`, "response must clear the roster row")
	assert.Contains(t, body, `hx-swap-oob="delete"`)
	assert.Contains(t, body, `id="admin-stats"`, "response must refresh the dashboard numbers")
	assert.Equal(t, before+1, stub.adminStatsCalls)
}

func TestAdminDeleteCancelledLeavesRow(t *testing.T) {
	stub := &stubClient{loginUser: adminUser()}
	app := newTestApp(t, stub)
	app.login(t)

	_, body := app.do(t, http.MethodDelete, "/admin/users/victim", nil)
	id := confirmID(t, body)

	_, body = app.postForm(t, "/htmx/confirm/"+id, url.Values{"confirmed": {"false"}})

	assert.Zero(t, stub.deleteUserCalls)
	assert.NotContains(t, body, `id="user-victim"`)
}

func TestAdminDeleteFailureKeepsRow(t *testing.T) {
	stub := &stubClient{
		loginUser:     adminUser(),
		deleteUserErr: errors.FromStatus(500, ""),
	}
	app := newTestApp(t, stub)
	app.login(t)

	_, body := app.do(t, http.MethodDelete, "/admin/users/victim", nil)
	id := confirmID(t, body)

	_, body = app.postForm(t, "/htmx/confirm/"+id, url.Values{"confirmed": {"true"}})

	assert.Equal(t, 1, stub.deleteUserCalls)
	assert.NotContains(t, body, `id="user-victim"`, "a failed delete must not clear the row")
}

func TestSavedRecipeDeleteRemovesEntryAndRefreshesStats(t *testing.T) {
	stub := &stubClient{loginUser: danaUser()}
	app := newTestApp(t, stub)
	app.login(t)

	_, body := app.do(t, http.MethodDelete, "/profile/recipes/r1", nil)
	id := confirmID(t, body)
	assert.Zero(t, stub.deleteRecipeCalls)

	before := stub.userStatsCalls
	_, body = app.postForm(t, "/htmx/confirm/"+id, url.Values{"confirmed": {"true"}})

	assert.Equal(t, 1, stub.deleteRecipeCalls)
	assert.Contains(t, body, "Recipe deleted.")
	assert.Contains(t, body, `id="saved-r1"`, "response must clear the recipe entry")
	assert.Contains(t, body, `hx-swap-oob="delete"`)
	assert.Contains(t, body, `id="profile-stats"`)
	assert.Equal(t, before+1, stub.userStatsCalls)
}

func TestHealthEndpoints(t *testing.T) {
	stub := &stubClient{}
	app := newTestApp(t, stub)

	resp, _ := app.get(t, "/live")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := app.get(t, "/ready")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "ready")
}
