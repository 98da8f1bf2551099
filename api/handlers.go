package api

import (
	"github.com/recipebox/backend/database"
	"github.com/recipebox/backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, shoppingList *services.ShoppingListService) *routeHandlers {
	return &routeHandlers{
		userHandler: newUserHandler(database.UserRepo(), database.SubscriptionRepo()),
		recipeHandler: newRecipeHandler(
			database.RecipeRepo(),
			database.UserRepo(),
			database.FavoriteRepo(),
			database.ShoppingCartRepo(),
			shoppingList,
		),
		tagHandler:        newTagHandler(database.TagRepo(), database.UserRepo()),
		ingredientHandler: newIngredientHandler(database.IngredientRepo(), database.UserRepo()),
	}
}
