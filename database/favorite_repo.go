package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

type FavoriteRepo struct {
	db *gorm.DB
}

func NewFavoriteRepo(db *gorm.DB) *FavoriteRepo {
	return &FavoriteRepo{db}
}

// Add turns the favorite on for (user, recipe). A pair that is already
// present is rejected; concurrent inserts are serialized by the unique
// constraint and resolve to the same condition.
func (r *FavoriteRepo) Add(userID, recipeID uuid.UUID) (*models.Favorite, error) {
	favorite := &models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := r.db.Create(favorite).Error; err != nil {
		if isDuplicate(err) {
			return nil, errs.NewAlreadyExists("favorite")
		}
		return nil, err
	}
	return favorite, nil
}

// Remove turns the favorite off. Removing an absent pair is NotFound.
func (r *FavoriteRepo) Remove(userID, recipeID uuid.UUID) error {
	res := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("favorite")
	}
	return nil
}

// Exists reports whether (user, recipe) is currently favorited.
func (r *FavoriteRepo) Exists(userID, recipeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}
