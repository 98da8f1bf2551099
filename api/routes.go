package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires every endpoint. Reads are open to anonymous viewers;
// mutations sit behind the viewer requirement. Admin checks for the tag and
// ingredient catalogs happen in the handlers.
func setupRoutes(r chi.Router, handlers *routeHandlers, viewer viewerMiddleware) {
	r.Group(func(r chi.Router) {
		r.Use(viewer.resolve)
		r.Use(RequestLoggingMiddleware)

		// Public reads and registration
		r.Get("/tags", handlers.tagHandler.getAllTags())
		r.Get("/tags/{tagID}", handlers.tagHandler.getTag())
		r.Get("/ingredients", handlers.ingredientHandler.getAllIngredients())
		r.Get("/ingredients/{ingredientID}", handlers.ingredientHandler.getIngredient())
		r.Get("/recipes", handlers.recipeHandler.getAllRecipes())
		r.Get("/recipes/{recipeID}", handlers.recipeHandler.getRecipe())
		r.Get("/users", handlers.userHandler.getAllUsers())
		r.Get("/users/{userID}", handlers.userHandler.getUser())
		r.Post("/users", handlers.userHandler.register())

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(viewer.require)

			r.Get("/users/me", handlers.userHandler.me())
			r.Post("/users/set_password", handlers.userHandler.setPassword())
			r.Get("/users/subscriptions", handlers.userHandler.subscriptions())
			r.Post("/users/{userID}/subscribe", handlers.userHandler.subscribe())
			r.Delete("/users/{userID}/subscribe", handlers.userHandler.subscribe())

			r.Post("/recipes", handlers.recipeHandler.createRecipe())
			r.Patch("/recipes/{recipeID}", handlers.recipeHandler.updateRecipe())
			r.Delete("/recipes/{recipeID}", handlers.recipeHandler.deleteRecipe())
			r.Post("/recipes/{recipeID}/favorite", handlers.recipeHandler.favorite())
			r.Delete("/recipes/{recipeID}/favorite", handlers.recipeHandler.favorite())
			r.Post("/recipes/{recipeID}/shopping_cart", handlers.recipeHandler.shoppingCart())
			r.Delete("/recipes/{recipeID}/shopping_cart", handlers.recipeHandler.shoppingCart())
			r.Get("/recipes/download_shopping_cart", handlers.recipeHandler.downloadShoppingCart())

			r.Post("/tags", handlers.tagHandler.createTag())
			r.Put("/tags/{tagID}", handlers.tagHandler.updateTag())
			r.Delete("/tags/{tagID}", handlers.tagHandler.deleteTag())

			r.Post("/ingredients", handlers.ingredientHandler.createIngredient())
			r.Delete("/ingredients/{ingredientID}", handlers.ingredientHandler.deleteIngredient())
		})
	})
}
