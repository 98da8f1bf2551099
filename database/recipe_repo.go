package database

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

type RecipeRepo struct {
	db *gorm.DB
}

func NewRecipeRepo(db *gorm.DB) *RecipeRepo {
	return &RecipeRepo{db}
}

// RecipeFilter narrows a recipe listing. Nil boolean pointers impose no
// filter; for an anonymous viewer the favorite/cart filters are no-ops.
type RecipeFilter struct {
	TagSlugs  []string
	AuthorID  uuid.UUID
	Favorited *bool
	InCart    *bool
	Limit     int
	Offset    int
}

// RecipeUpdate carries partial scalar changes. Nil fields keep the existing
// value. Non-nil Ingredients or TagIDs replace the full association set.
type RecipeUpdate struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	Ingredients []models.RecipeIngredient
	TagIDs      []uuid.UUID
}

// annotated selects recipes together with the viewer's is_favorited and
// is_in_shopping_cart flags. Both flags are computed as correlated EXISTS
// subqueries in the same scan as the listing query; an anonymous viewer
// (uuid.Nil) always gets false without touching the membership tables.
func (r *RecipeRepo) annotated(viewerID uuid.UUID) *gorm.DB {
	q := r.db.Model(&models.Recipe{})
	if viewerID == uuid.Nil {
		return q.Select("recipes.*, FALSE AS is_favorited, FALSE AS is_in_shopping_cart")
	}
	return q.Select(`recipes.*,
		EXISTS(SELECT 1 FROM favorites WHERE favorites.user_id = ? AND favorites.recipe_id = recipes.id) AS is_favorited,
		EXISTS(SELECT 1 FROM shopping_cart_items WHERE shopping_cart_items.user_id = ? AND shopping_cart_items.recipe_id = recipes.id) AS is_in_shopping_cart`,
		viewerID, viewerID)
}

func (r *RecipeRepo) applyFilter(q *gorm.DB, viewerID uuid.UUID, filter RecipeFilter) *gorm.DB {
	if len(filter.TagSlugs) > 0 {
		q = q.Where(`EXISTS(
			SELECT 1 FROM recipe_tags
			JOIN tags ON tags.id = recipe_tags.tag_id
			WHERE recipe_tags.recipe_id = recipes.id AND tags.slug IN ?)`, filter.TagSlugs)
	}
	if filter.AuthorID != uuid.Nil {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}

	// Membership filters only apply to authenticated viewers; for everyone
	// else the base set is returned unfiltered rather than erroring.
	if viewerID != uuid.Nil {
		if filter.Favorited != nil {
			clause := "EXISTS(SELECT 1 FROM favorites WHERE favorites.user_id = ? AND favorites.recipe_id = recipes.id)"
			if !*filter.Favorited {
				clause = "NOT " + clause
			}
			q = q.Where(clause, viewerID)
		}
		if filter.InCart != nil {
			clause := "EXISTS(SELECT 1 FROM shopping_cart_items WHERE shopping_cart_items.user_id = ? AND shopping_cart_items.recipe_id = recipes.id)"
			if !*filter.InCart {
				clause = "NOT " + clause
			}
			q = q.Where(clause, viewerID)
		}
	}

	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}
	return q
}

// FindAll returns recipes annotated for the viewer, newest first.
func (r *RecipeRepo) FindAll(viewerID uuid.UUID, filter RecipeFilter) ([]*models.Recipe, error) {
	var recipes []*models.Recipe
	q := r.applyFilter(r.annotated(viewerID), viewerID, filter)
	err := q.
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at DESC, recipes.name").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByID returns one recipe annotated for the viewer.
func (r *RecipeRepo) FindByID(viewerID, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.annotated(viewerID).
		Preload("Author").
		Preload("Tags").
		Preload("Ingredients.Ingredient").
		Where("recipes.id = ?", id).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("recipe")
		}
		return nil, err
	}
	return &recipe, nil
}

// Create persists the recipe row and bulk-inserts its ingredient-amount and
// tag associations inside one transaction. Any validation failure aborts the
// whole operation; no partial recipe survives.
func (r *RecipeRepo) Create(recipe *models.Recipe, ingredients []models.RecipeIngredient, tagIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			if isDuplicate(err) {
				return errs.NewAlreadyExists("recipe")
			}
			return err
		}
		if err := replaceIngredients(tx, recipe.ID, ingredients); err != nil {
			return err
		}
		return replaceTags(tx, recipe.ID, tagIDs)
	})
}

// Update applies keep-if-omitted scalar semantics and, when a new ingredient
// or tag list is supplied, replaces the full association set rather than
// merging into it.
func (r *RecipeRepo) Update(id uuid.UUID, update RecipeUpdate) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ?", id).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewNotFound("recipe")
			}
			return err
		}

		changes := map[string]any{}
		if update.Name != nil {
			changes["name"] = *update.Name
		}
		if update.Text != nil {
			changes["text"] = *update.Text
		}
		if update.Image != nil {
			changes["image"] = *update.Image
		}
		if update.CookingTime != nil {
			changes["cooking_time"] = *update.CookingTime
		}
		if len(changes) > 0 {
			if err := tx.Model(&recipe).Updates(changes).Error; err != nil {
				if isDuplicate(err) {
					return errs.NewAlreadyExists("recipe")
				}
				return err
			}
		}

		if update.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := replaceIngredients(tx, id, update.Ingredients); err != nil {
				return err
			}
		}
		if update.TagIDs != nil {
			if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
				return err
			}
			if err := replaceTags(tx, id, update.TagIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the recipe and every association row that references it in
// the same transaction: ingredient amounts, tags, favorites and cart items.
func (r *RecipeRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.Where("id = ?", id).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.NewNotFound("recipe")
			}
			return err
		}
		for _, assoc := range []any{
			&models.RecipeIngredient{},
			&models.RecipeTag{},
			&models.Favorite{},
			&models.ShoppingCartItem{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(assoc).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&recipe).Error
	})
}

// replaceIngredients validates the entries against the ingredient catalog and
// bulk-inserts them for the recipe. Duplicate ingredient ids within one
// recipe fail on the (recipe, ingredient) unique constraint, rolling back the
// surrounding transaction.
func replaceIngredients(tx *gorm.DB, recipeID uuid.UUID, ingredients []models.RecipeIngredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(ingredients))
	for i := range ingredients {
		if ingredients[i].Amount < 1 {
			return errs.NewValidationError("ingredients",
				fmt.Sprintf("amount must be a positive integer, got %d", ingredients[i].Amount))
		}
		ingredients[i].ID = uuid.Nil
		ingredients[i].RecipeID = recipeID
		ingredients[i].Ingredient = nil
		ids = append(ids, ingredients[i].IngredientID)
	}

	var known int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&known).Error; err != nil {
		return err
	}
	if known != int64(len(dedupe(ids))) {
		return errs.NewValidationError("ingredients", "unknown ingredient id")
	}

	if err := tx.Create(&ingredients).Error; err != nil {
		if isDuplicate(err) {
			return errs.NewValidationError("ingredients", "recipe lists the same ingredient twice")
		}
		return err
	}
	return nil
}

func replaceTags(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	if len(tagIDs) == 0 {
		return nil
	}
	var known int64
	if err := tx.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&known).Error; err != nil {
		return err
	}
	if known != int64(len(dedupe(tagIDs))) {
		return errs.NewValidationError("tags", "unknown tag id")
	}

	rows := make([]models.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, models.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	if err := tx.Create(&rows).Error; err != nil {
		if isDuplicate(err) {
			return errs.NewValidationError("tags", "recipe lists the same tag twice")
		}
		return err
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
