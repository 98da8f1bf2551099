package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

type IngredientRepo struct {
	db *gorm.DB
}

func NewIngredientRepo(db *gorm.DB) *IngredientRepo {
	return &IngredientRepo{db}
}

// FindAll lists ingredients, optionally narrowed by a name prefix.
func (r *IngredientRepo) FindAll(namePrefix string) ([]*models.Ingredient, error) {
	q := r.db.Order("name, measurement_unit")
	if namePrefix != "" {
		q = q.Where("name LIKE ?", namePrefix+"%")
	}
	var ingredients []*models.Ingredient
	err := q.Find(&ingredients).Error
	return ingredients, err
}

// FindByID returns an ingredient by its ID
func (r *IngredientRepo) FindByID(id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	err := r.db.Where("id = ?", id).First(&ingredient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("ingredient")
		}
		return nil, err
	}
	return &ingredient, nil
}

// Add inserts a new ingredient into the catalog
func (r *IngredientRepo) Add(ingredient *models.Ingredient) error {
	if err := r.db.Create(ingredient).Error; err != nil {
		if isDuplicate(err) {
			return errs.NewAlreadyExists("ingredient")
		}
		return err
	}
	return nil
}

// Update saves changed ingredient fields
func (r *IngredientRepo) Update(ingredient *models.Ingredient) error {
	if err := r.db.Save(ingredient).Error; err != nil {
		if isDuplicate(err) {
			return errs.NewAlreadyExists("ingredient")
		}
		return err
	}
	return nil
}

// Delete removes an ingredient; recipes referencing it keep their rows, so
// removal is rejected while any recipe still uses the ingredient.
func (r *IngredientRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.RecipeIngredient{}).Where("ingredient_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return errs.NewValidationError("ingredient", "ingredient is used by existing recipes")
		}
		res := tx.Where("id = ?", id).Delete(&models.Ingredient{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("ingredient")
		}
		return nil
	})
}

// GetOrCreate finds an ingredient by (name, unit) or inserts it. Used by the
// offline CSV loader; idempotent across repeated runs.
func (r *IngredientRepo) GetOrCreate(ingredient *models.Ingredient) (created bool, err error) {
	res := r.db.Where(models.Ingredient{
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}).FirstOrCreate(ingredient)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
