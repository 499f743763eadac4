// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/fridgechef/fridgechef/internal/domain/ingredient"
	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/domain/user"
	"github.com/google/uuid"
)

// RecipeBuilder provides a fluent interface for building test recipes
type RecipeBuilder struct {
	recipe recipe.Recipe
}

// NewRecipeBuilder creates a recipe builder seeded with plausible defaults
func NewRecipeBuilder() *RecipeBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &RecipeBuilder{
		recipe: recipe.Recipe{
			Title:       faker.Dinner(),
			Description: faker.Sentence(12),
			Ingredients: []recipe.RecipeIngredient{
				{Name: faker.Vegetable(), Quantity: "2", Available: true},
				{Name: faker.Fruit(), Quantity: "1", Available: false},
			},
			Instructions: []string{
				"Prepare all ingredients.",
				"Cook until done.",
				"Season and serve.",
			},
			CookingTime: faker.Number(10, 90),
			Difficulty:  recipe.DifficultyMedium,
			Calories:    faker.Number(150, 900),
		},
	}
}

// WithTitle sets the recipe title
func (b *RecipeBuilder) WithTitle(title string) *RecipeBuilder {
	b.recipe.Title = title
	return b
}

// WithDifficulty sets the recipe difficulty
func (b *RecipeBuilder) WithDifficulty(d recipe.Difficulty) *RecipeBuilder {
	b.recipe.Difficulty = d
	return b
}

// WithIngredients replaces the ingredient lines
func (b *RecipeBuilder) WithIngredients(items ...recipe.RecipeIngredient) *RecipeBuilder {
	b.recipe.Ingredients = items
	return b
}

// WithInstructions replaces the instruction steps
func (b *RecipeBuilder) WithInstructions(steps ...string) *RecipeBuilder {
	b.recipe.Instructions = steps
	return b
}

// Saved marks the recipe as persisted with an ID and timestamp
func (b *RecipeBuilder) Saved() *RecipeBuilder {
	b.recipe.ID = uuid.NewString()
	now := time.Now()
	b.recipe.CreatedAt = &now
	return b
}

// Build returns the recipe
func (b *RecipeBuilder) Build() recipe.Recipe {
	return b.recipe
}

// UserBuilder provides a fluent interface for building test users
type UserBuilder struct {
	user user.User
}

// NewUserBuilder creates a user builder with generated identity fields
func NewUserBuilder() *UserBuilder {
	faker := gofakeit.New(time.Now().UnixNano())

	return &UserBuilder{
		user: user.User{
			ID:        uuid.NewString(),
			Email:     faker.Email(),
			Name:      faker.Name(),
			CreatedAt: time.Now().Add(-24 * time.Hour),
		},
	}
}

// WithID sets a fixed identifier
func (b *UserBuilder) WithID(id string) *UserBuilder {
	b.user.ID = id
	return b
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

// WithEmail sets the email address
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

// AsAdmin grants the admin role
func (b *UserBuilder) AsAdmin() *UserBuilder {
	b.user.IsAdmin = true
	return b
}

// WithPreferences sets the preference bundle
func (b *UserBuilder) WithPreferences(p user.Preferences) *UserBuilder {
	b.user.Preferences = p
	return b
}

// Build returns the user
func (b *UserBuilder) Build() user.User {
	return b.user
}

// RandomIngredients generates n recognized ingredients with confidences
func RandomIngredients(n int) []ingredient.Ingredient {
	faker := gofakeit.New(time.Now().UnixNano())

	items := make([]ingredient.Ingredient, 0, n)
	for i := 0; i < n; i++ {
		conf := faker.Float64Range(0.5, 1.0)
		items = append(items, ingredient.Recognized(
			faker.Vegetable(),
			"1",
			"fresh",
			&conf,
		))
	}
	return items
}
