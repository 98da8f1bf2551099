package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

type ShoppingCartRepo struct {
	db *gorm.DB
}

func NewShoppingCartRepo(db *gorm.DB) *ShoppingCartRepo {
	return &ShoppingCartRepo{db}
}

// Add queues a recipe in the user's cart, once per pair. Duplicate inserts,
// including races, resolve to AlreadyExists off the unique constraint.
func (r *ShoppingCartRepo) Add(userID, recipeID uuid.UUID) (*models.ShoppingCartItem, error) {
	item := &models.ShoppingCartItem{UserID: userID, RecipeID: recipeID}
	if err := r.db.Create(item).Error; err != nil {
		if isDuplicate(err) {
			return nil, errs.NewAlreadyExists("shopping cart item")
		}
		return nil, err
	}
	return item, nil
}

// Remove takes a recipe out of the cart. Removing an absent pair is NotFound.
func (r *ShoppingCartRepo) Remove(userID, recipeID uuid.UUID) error {
	res := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.ShoppingCartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("shopping cart item")
	}
	return nil
}

// Count returns the number of recipes in the user's cart.
func (r *ShoppingCartRepo) Count(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.ShoppingCartItem{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
