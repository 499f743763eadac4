package backend

import (
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/domain/user"
)

// ImageUpload carries the bytes and metadata of a submitted fridge photo
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// RecognizedIngredient is one item of an analysis response, before it is
// narrowed into the ingredient domain type.
type RecognizedIngredient struct {
	Name       string   `json:"name"`
	Quantity   string   `json:"quantity"`
	Freshness  string   `json:"freshness"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// AnalysisResult is the response of the image analysis endpoint
type AnalysisResult struct {
	Success     bool                   `json:"success"`
	ImageID     string                 `json:"image_id"`
	Ingredients []RecognizedIngredient `json:"ingredients"`
	TotalCount  int                    `json:"total_count"`
	Model       string                 `json:"model,omitempty"`
}

// generateRequest is the recipe generation request payload
type generateRequest struct {
	Ingredients []string         `json:"ingredients"`
	Preferences user.Preferences `json:"preferences"`
}

// generateResponse is the recipe generation response payload
type generateResponse struct {
	Success bool            `json:"success"`
	Recipes []recipe.Recipe `json:"recipes"`
}

// credentialsRequest is the login request payload
type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// registerRequest is the registration request payload
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// resetPasswordRequest is the password reset payload
type resetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"new_password"`
}

// TokenResponse is the authentication response: a bearer token plus a
// snapshot of the user record.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	User        user.User `json:"user"`
}

// UserUpdate carries optional profile field updates
type UserUpdate struct {
	Email       *string           `json:"email,omitempty"`
	Name        *string           `json:"name,omitempty"`
	Preferences *user.Preferences `json:"preferences,omitempty"`
}

// RecipePage is one offset window of a user's saved recipes
type RecipePage struct {
	Recipes []recipe.Recipe `json:"recipes"`
	Total   int             `json:"total"`
	Skip    int             `json:"skip"`
	Limit   int             `json:"limit"`
	HasMore bool            `json:"has_more"`
}

// UserPage is one offset window of the admin user roster
type UserPage struct {
	Users   []user.User `json:"users"`
	Total   int         `json:"total"`
	Skip    int         `json:"skip"`
	Limit   int         `json:"limit"`
	HasMore bool        `json:"has_more"`
}

// AdminStats are the aggregate counts on the admin dashboard
type AdminStats struct {
	TotalUsers   int `json:"total_users"`
	TotalRecipes int `json:"total_recipes"`
	TotalImages  int `json:"total_images"`
	AdminCount   int `json:"admin_count"`
}

// setRoleRequest toggles a user's admin flag
type setRoleRequest struct {
	IsAdmin bool `json:"is_admin"`
}
