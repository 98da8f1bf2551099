package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns the whole tag catalog.
func (r *TagRepo) FindAll() ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.Order("name").Find(&tags).Error
	return tags, err
}

// FindByID returns a tag by its ID
func (r *TagRepo) FindByID(id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	err := r.db.Where("id = ?", id).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("tag")
		}
		return nil, err
	}
	return &tag, nil
}

// Add inserts a new tag into the catalog
func (r *TagRepo) Add(tag *models.Tag) error {
	if err := r.db.Create(tag).Error; err != nil {
		if isDuplicate(err) {
			return errs.NewAlreadyExists("tag")
		}
		return err
	}
	return nil
}

// Update saves changed tag fields
func (r *TagRepo) Update(tag *models.Tag) error {
	if err := r.db.Save(tag).Error; err != nil {
		if isDuplicate(err) {
			return errs.NewAlreadyExists("tag")
		}
		return err
	}
	return nil
}

// Delete removes a tag and its recipe associations
func (r *TagRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Tag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.NewNotFound("tag")
		}
		return nil
	})
}

// GetOrCreate finds a tag by name or inserts it. Used by the offline CSV
// loader; idempotent across repeated runs.
func (r *TagRepo) GetOrCreate(tag *models.Tag) (created bool, err error) {
	res := r.db.Where(models.Tag{Name: tag.Name}).Attrs(models.Tag{
		Color: tag.Color,
		Slug:  tag.Slug,
	}).FirstOrCreate(tag)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
