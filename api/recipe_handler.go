package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/recipebox/backend/database"
	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
	"github.com/recipebox/backend/services"
)

type recipeHandler struct {
	responder        Responder
	logger           zerolog.Logger
	recipeRepo       *database.RecipeRepo
	userRepo         *database.UserRepo
	favoriteRepo     *database.FavoriteRepo
	shoppingCartRepo *database.ShoppingCartRepo
	shoppingList     *services.ShoppingListService
}

func newRecipeHandler(
	recipeRepo *database.RecipeRepo,
	userRepo *database.UserRepo,
	favoriteRepo *database.FavoriteRepo,
	shoppingCartRepo *database.ShoppingCartRepo,
	shoppingList *services.ShoppingListService,
) recipeHandler {
	logger := log.With().Str("handlerName", "recipeHandler").Logger()

	return recipeHandler{
		responder:        NewResponder(logger),
		logger:           logger,
		recipeRepo:       recipeRepo,
		userRepo:         userRepo,
		favoriteRepo:     favoriteRepo,
		shoppingCartRepo: shoppingCartRepo,
		shoppingList:     shoppingList,
	}
}

// parseRecipeFilter reads the listing query parameters. Unknown or malformed
// boolean values are reported as validation errors; everything else simply
// imposes no filter.
func parseRecipeFilter(r *http.Request) (database.RecipeFilter, error) {
	var filter database.RecipeFilter

	query := r.URL.Query()
	if slugs, ok := query["tags"]; ok {
		for _, slug := range slugs {
			for _, s := range strings.Split(slug, ",") {
				if s != "" {
					filter.TagSlugs = append(filter.TagSlugs, s)
				}
			}
		}
	}
	if author := query.Get("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			return filter, errs.NewValidationError("author", "must be a valid id")
		}
		filter.AuthorID = authorID
	}
	for _, name := range []string{"is_favorited", "is_in_shopping_cart"} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errs.NewValidationError(name, "must be a boolean")
		}
		v := value
		if name == "is_favorited" {
			filter.Favorited = &v
		} else {
			filter.InCart = &v
		}
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			return filter, errs.NewValidationError("limit", "must be a non-negative integer")
		}
		filter.Limit = n
	}
	if offset := query.Get("offset"); offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return filter, errs.NewValidationError("offset", "must be a non-negative integer")
		}
		filter.Offset = n
	}
	return filter, nil
}

// getAllRecipes lists recipes annotated with the viewer's favorite and cart
// flags, filtered by the query string.
func (h recipeHandler) getAllRecipes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := ctxViewerID(r.Context())

		filter, err := parseRecipeFilter(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipes, err := h.recipeRepo.FindAll(viewerID, filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipes", err))
			return
		}

		views := make([]RecipeView, 0, len(recipes))
		for _, recipe := range recipes {
			views = append(views, newRecipeView(recipe))
		}
		h.responder.WriteJSON(w, map[string]any{
			"recipes": views,
			"total":   len(views),
		})
	}
}

func (h recipeHandler) getRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		recipe, err := h.recipeRepo.FindByID(ctxViewerID(r.Context()), recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipe", err))
			return
		}

		h.responder.WriteJSON(w, newRecipeView(recipe))
	}
}

func validateIngredientEntries(entries []ingredientAmountRequest) ([]models.RecipeIngredient, error) {
	if len(entries) == 0 {
		return nil, errs.NewValidationError("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(entries))
	ingredients := make([]models.RecipeIngredient, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == uuid.Nil {
			return nil, errs.NewValidationError("ingredients", "missing ingredient id")
		}
		if entry.Amount < 1 {
			return nil, errs.NewValidationError("ingredients", "amount must be a positive integer")
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, errs.NewValidationError("ingredients", "recipe lists the same ingredient twice")
		}
		seen[entry.ID] = struct{}{}
		ingredients = append(ingredients, models.RecipeIngredient{
			IngredientID: entry.ID,
			Amount:       entry.Amount,
		})
	}
	return ingredients, nil
}

// createRecipe validates the nested ingredient and tag lists, then persists
// the recipe and its associations in one transaction.
func (h recipeHandler) createRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := ctxViewerID(r.Context())

		var req createRecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode recipe request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Name == "" {
			h.responder.WriteError(w, errs.NewValidationError("name", "name is required"))
			return
		}
		if req.Text == "" {
			h.responder.WriteError(w, errs.NewValidationError("text", "text is required"))
			return
		}
		if req.CookingTime < 1 {
			h.responder.WriteError(w, errs.NewValidationError("cooking_time", "must be at least 1"))
			return
		}
		ingredients, err := validateIngredientEntries(req.Ingredients)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipe := &models.Recipe{
			Name:        req.Name,
			AuthorID:    viewerID,
			Text:        req.Text,
			Image:       req.Image,
			CookingTime: req.CookingTime,
		}
		if err := h.recipeRepo.Create(recipe, ingredients, req.Tags); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "recipe", err))
			return
		}

		created, err := h.recipeRepo.FindByID(viewerID, recipe.ID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find created", "recipe", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newRecipeView(created))
	}
}

// updateRecipe applies keep-if-omitted scalar changes; supplied ingredient or
// tag lists replace the full association set. Author only.
func (h recipeHandler) updateRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := ctxViewerID(r.Context())

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		existing, err := h.recipeRepo.FindByID(viewerID, recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipe", err))
			return
		}
		if existing.AuthorID != viewerID {
			h.responder.WriteError(w, errs.NewPermissionDenied("only the author can modify a recipe"))
			return
		}

		var req updateRecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode recipe request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.CookingTime != nil && *req.CookingTime < 1 {
			h.responder.WriteError(w, errs.NewValidationError("cooking_time", "must be at least 1"))
			return
		}
		if req.Name != nil && *req.Name == "" {
			h.responder.WriteError(w, errs.NewValidationError("name", "name cannot be empty"))
			return
		}

		update := database.RecipeUpdate{
			Name:        req.Name,
			Text:        req.Text,
			Image:       req.Image,
			CookingTime: req.CookingTime,
		}
		if req.Ingredients != nil {
			ingredients, err := validateIngredientEntries(*req.Ingredients)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			update.Ingredients = ingredients
		}
		if req.Tags != nil {
			update.TagIDs = *req.Tags
		}

		if err := h.recipeRepo.Update(recipeID, update); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "recipe", err))
			return
		}

		updated, err := h.recipeRepo.FindByID(viewerID, recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated", "recipe", err))
			return
		}

		h.responder.WriteJSON(w, newRecipeView(updated))
	}
}

// deleteRecipe removes the recipe and its association rows. Author only.
func (h recipeHandler) deleteRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := ctxViewerID(r.Context())

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		existing, err := h.recipeRepo.FindByID(viewerID, recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipe", err))
			return
		}
		if existing.AuthorID != viewerID {
			h.responder.WriteError(w, errs.NewPermissionDenied("only the author can delete a recipe"))
			return
		}

		if err := h.recipeRepo.Delete(recipeID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "recipe", err))
			return
		}

		h.responder.WriteNoContent(w)
	}
}

// toggleMembership implements the shared favorite/cart state machine: POST
// creates the pair or reports AlreadyExists, DELETE removes it or reports
// NotFound. On success POST returns the short recipe representation.
func (h recipeHandler) toggleMembership(
	add func(userID, recipeID uuid.UUID) error,
	remove func(userID, recipeID uuid.UUID) error,
	entity string,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := ctxViewerID(r.Context())

		recipeID, err := uuid.Parse(chi.URLParam(r, "recipeID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid recipeID"))
			return
		}

		// The target must exist before the pair is touched.
		recipe, err := h.recipeRepo.FindByID(viewerID, recipeID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipe", err))
			return
		}

		if r.Method == http.MethodDelete {
			if err := remove(viewerID, recipeID); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("remove", entity, err))
				return
			}
			h.responder.WriteNoContent(w)
			return
		}

		if err := add(viewerID, recipeID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("add", entity, err))
			return
		}
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newRecipeShortView(recipe))
	}
}

func (h recipeHandler) favorite() http.HandlerFunc {
	return h.toggleMembership(
		func(userID, recipeID uuid.UUID) error {
			_, err := h.favoriteRepo.Add(userID, recipeID)
			return err
		},
		h.favoriteRepo.Remove,
		"favorite",
	)
}

func (h recipeHandler) shoppingCart() http.HandlerFunc {
	return h.toggleMembership(
		func(userID, recipeID uuid.UUID) error {
			_, err := h.shoppingCartRepo.Add(userID, recipeID)
			return err
		},
		h.shoppingCartRepo.Remove,
		"shopping cart item",
	)
}

// downloadShoppingCart aggregates the viewer's cart into a consolidated
// shopping list and sends it as a text attachment.
func (h recipeHandler) downloadShoppingCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := ctxViewerID(r.Context())

		viewer, err := h.userRepo.FindByID(uuid.Nil, viewerID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		items, err := h.shoppingList.Build(viewerID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		body := h.shoppingList.Render(viewer.Username, items)
		h.responder.WriteTextAttachment(w, viewer.Username+"_shopping_list.txt", body)
	}
}
