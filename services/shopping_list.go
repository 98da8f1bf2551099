package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

// ShoppingListItem is one consolidated line of the export: every occurrence
// of the ingredient across the cart's recipes summed into TotalAmount.
type ShoppingListItem struct {
	IngredientName string `json:"ingredient_name"`
	Unit           string `json:"unit"`
	TotalAmount    int64  `json:"total_amount"`
}

type ShoppingListService struct {
	db     *gorm.DB
	logger zerolog.Logger
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{
		db:     db,
		logger: log.With().Str("serviceName", "shoppingListService").Logger(),
	}
}

// Build collects every ingredient amount belonging to a recipe in the user's
// cart, grouped by (ingredient name, measurement unit) with amounts summed in
// the database. The read runs in one transaction so the count and the
// aggregate see the same snapshot. An empty cart is reported as EmptyCart,
// not as a fault.
func (s *ShoppingListService) Build(userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cartSize int64
		if err := tx.Model(&models.ShoppingCartItem{}).
			Where("user_id = ?", userID).
			Count(&cartSize).Error; err != nil {
			return err
		}
		if cartSize == 0 {
			return errs.NewEmptyCart()
		}

		// Alphabetical order keeps the output deterministic.
		return tx.Raw(`
			SELECT ingredients.name AS ingredient_name,
			       ingredients.measurement_unit AS unit,
			       SUM(recipe_ingredients.amount) AS total_amount
			FROM shopping_cart_items
			JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_cart_items.recipe_id
			JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id
			WHERE shopping_cart_items.user_id = ?
			GROUP BY ingredients.name, ingredients.measurement_unit
			ORDER BY ingredients.name, ingredients.measurement_unit`,
			userID).Scan(&items).Error
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug().Int("groups", len(items)).Msg("built shopping list")
	return items, nil
}

// Render emits the plain-text document: a header naming the user, then one
// line per ingredient group.
func (s *ShoppingListService) Render(username string, items []ShoppingListItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s\n", username)
	for _, item := range items {
		fmt.Fprintf(&b, "%s: %d %s\n", item.IngredientName, item.TotalAmount, item.Unit)
	}
	return b.String()
}
