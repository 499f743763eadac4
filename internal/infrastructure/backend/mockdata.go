package backend

import "github.com/fridgechef/fridgechef/internal/domain/recipe"

func confidence(v float64) *float64 { return &v }

// mockIngredients is the canned analysis result: seven items spanning the
// freshness range, as a typical fridge photo would produce.
var mockIngredients = []RecognizedIngredient{
	{Name: "Eggs", Quantity: "10", Freshness: "fresh", Confidence: confidence(0.95)},
	{Name: "Milk", Quantity: "1L", Freshness: "fresh", Confidence: confidence(0.92)},
	{Name: "Tomatoes", Quantity: "5", Freshness: "fresh", Confidence: confidence(0.88)},
	{Name: "Onions", Quantity: "3", Freshness: "moderate", Confidence: confidence(0.85)},
	{Name: "Carrots", Quantity: "4", Freshness: "fresh", Confidence: confidence(0.90)},
	{Name: "Cheese", Quantity: "200g", Freshness: "fresh", Confidence: confidence(0.87)},
	{Name: "Bacon", Quantity: "150g", Freshness: "moderate", Confidence: confidence(0.82)},
}

// mockRecipes is the canned generation result: three recipes built from the
// mock ingredient set, with pantry staples marked unavailable.
var mockRecipes = []recipe.Recipe{
	{
		Title:       "Tomato Cheese Omelette",
		Description: "A fluffy omelette filled with fresh tomatoes and melted cheese",
		Ingredients: []recipe.RecipeIngredient{
			{Name: "Eggs", Quantity: "3", Available: true},
			{Name: "Tomatoes", Quantity: "2", Available: true},
			{Name: "Cheese", Quantity: "50g", Available: true},
			{Name: "Milk", Quantity: "2 tbsp", Available: true},
			{Name: "Salt", Quantity: "a pinch", Available: false},
			{Name: "Pepper", Quantity: "a pinch", Available: false},
		},
		Instructions: []string{
			"Crack the eggs into a bowl and whisk them with the milk.",
			"Dice the tomatoes and grate the cheese.",
			"Heat a little oil in a pan over medium heat.",
			"Pour in the egg mixture; when the edges set, add the tomatoes and cheese.",
			"Fold in half and cook for another 1-2 minutes over low heat.",
		},
		CookingTime: 15,
		Difficulty:  recipe.DifficultyEasy,
		Calories:    320,
	},
	{
		Title:       "Bacon Fried Rice",
		Description: "Savory fried rice with crispy bacon and fresh vegetables",
		Ingredients: []recipe.RecipeIngredient{
			{Name: "Cooked rice", Quantity: "2 bowls", Available: false},
			{Name: "Bacon", Quantity: "100g", Available: true},
			{Name: "Eggs", Quantity: "2", Available: true},
			{Name: "Onions", Quantity: "1", Available: true},
			{Name: "Carrots", Quantity: "1", Available: true},
			{Name: "Soy sauce", Quantity: "2 tbsp", Available: false},
			{Name: "Sesame oil", Quantity: "1 tsp", Available: false},
		},
		Instructions: []string{
			"Cut the bacon into 1cm pieces; finely dice the onion and carrot.",
			"Fry the bacon first to render its fat.",
			"Add the onion and carrot and stir-fry together.",
			"Add the rice, season with soy sauce and keep frying.",
			"Stir in the beaten eggs and finish with sesame oil.",
		},
		CookingTime: 20,
		Difficulty:  recipe.DifficultyEasy,
		Calories:    480,
	},
	{
		Title:       "Creamy Vegetable Soup",
		Description: "A smooth and nourishing cream soup with root vegetables",
		Ingredients: []recipe.RecipeIngredient{
			{Name: "Milk", Quantity: "500ml", Available: true},
			{Name: "Carrots", Quantity: "2", Available: true},
			{Name: "Onions", Quantity: "1", Available: true},
			{Name: "Potatoes", Quantity: "2", Available: false},
			{Name: "Butter", Quantity: "2 tbsp", Available: false},
			{Name: "Flour", Quantity: "2 tbsp", Available: false},
			{Name: "Cheese", Quantity: "50g", Available: true},
		},
		Instructions: []string{
			"Dice the carrots, onion and potatoes.",
			"Melt the butter in a pot and stir in the flour to make a roux.",
			"Whisk in the milk a little at a time, then add the vegetables.",
			"Simmer over medium heat until the vegetables are tender.",
			"Melt in the cheese and blend until smooth.",
		},
		CookingTime: 30,
		Difficulty:  recipe.DifficultyMedium,
		Calories:    280,
	},
}
