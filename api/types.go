package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/recipebox/backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	userHandler       userHandler
	recipeHandler     recipeHandler
	tagHandler        tagHandler
	ingredientHandler ingredientHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// Response shapes are built explicitly per endpoint instead of switching
// serializers at runtime; each shaping function takes a model and returns a
// concrete view.

// UserView is the public profile shape, with the subscription flag relative
// to the viewer.
type UserView struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func newUserView(user *models.User) UserView {
	return UserView{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: user.IsSubscribed,
	}
}

// IngredientAmountView flattens a RecipeIngredient row with its catalog entry.
type IngredientAmountView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int64     `json:"amount"`
}

// RecipeView is the full recipe shape for listing and detail endpoints.
type RecipeView struct {
	ID               uuid.UUID              `json:"id"`
	Tags             []models.Tag           `json:"tags"`
	Author           *UserView              `json:"author,omitempty"`
	Ingredients      []IngredientAmountView `json:"ingredients"`
	IsFavorited      bool                   `json:"is_favorited"`
	IsInShoppingCart bool                   `json:"is_in_shopping_cart"`
	Name             string                 `json:"name"`
	Image            string                 `json:"image"`
	Text             string                 `json:"text"`
	CookingTime      int                    `json:"cooking_time"`
	CreatedAt        time.Time              `json:"created_at"`
}

func newRecipeView(recipe *models.Recipe) RecipeView {
	view := RecipeView{
		ID:               recipe.ID,
		Tags:             recipe.Tags,
		Ingredients:      make([]IngredientAmountView, 0, len(recipe.Ingredients)),
		IsFavorited:      recipe.IsFavorited,
		IsInShoppingCart: recipe.IsInShoppingCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
		CreatedAt:        recipe.CreatedAt,
	}
	if view.Tags == nil {
		view.Tags = []models.Tag{}
	}
	if recipe.Author != nil {
		author := newUserView(recipe.Author)
		view.Author = &author
	}
	for _, entry := range recipe.Ingredients {
		item := IngredientAmountView{
			ID:     entry.IngredientID,
			Amount: entry.Amount,
		}
		if entry.Ingredient != nil {
			item.Name = entry.Ingredient.Name
			item.MeasurementUnit = entry.Ingredient.MeasurementUnit
		}
		view.Ingredients = append(view.Ingredients, item)
	}
	return view
}

// RecipeShortView is the compact shape returned by toggle endpoints and
// embedded in subscription listings.
type RecipeShortView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func newRecipeShortView(recipe *models.Recipe) RecipeShortView {
	return RecipeShortView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// SubscriptionView is one followed author with their recipes.
type SubscriptionView struct {
	UserView
	Recipes      []RecipeShortView `json:"recipes"`
	RecipesCount int               `json:"recipes_count"`
}

func newSubscriptionView(author *models.User) SubscriptionView {
	view := SubscriptionView{
		UserView: newUserView(author),
		Recipes:  make([]RecipeShortView, 0, len(author.Recipes)),
	}
	for i := range author.Recipes {
		view.Recipes = append(view.Recipes, newRecipeShortView(&author.Recipes[i]))
	}
	view.RecipesCount = len(view.Recipes)
	return view
}

// Request payloads

type ingredientAmountRequest struct {
	ID     uuid.UUID `json:"id"`
	Amount int64     `json:"amount"`
}

type createRecipeRequest struct {
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	Image       string                    `json:"image"`
	CookingTime int                       `json:"cooking_time"`
	Ingredients []ingredientAmountRequest `json:"ingredients"`
	Tags        []uuid.UUID               `json:"tags"`
}

// updateRecipeRequest uses pointers so omitted fields keep their existing
// values, while a supplied ingredient or tag list replaces the whole set.
type updateRecipeRequest struct {
	Name        *string                    `json:"name"`
	Text        *string                    `json:"text"`
	Image       *string                    `json:"image"`
	CookingTime *int                       `json:"cooking_time"`
	Ingredients *[]ingredientAmountRequest `json:"ingredients"`
	Tags        *[]uuid.UUID               `json:"tags"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type setPasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

type tagRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

type ingredientRequest struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}
