package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// annotated selects users with the viewer's is_subscribed flag computed in
// the same scan. Anonymous viewers always get false.
func (r *UserRepo) annotated(viewerID uuid.UUID) *gorm.DB {
	q := r.db.Model(&models.User{})
	if viewerID == uuid.Nil {
		return q.Select("users.*, FALSE AS is_subscribed")
	}
	return q.Select(`users.*,
		EXISTS(SELECT 1 FROM subscriptions WHERE subscriptions.follower_id = ? AND subscriptions.author_id = users.id) AS is_subscribed`,
		viewerID)
}

// FindAll lists user profiles annotated for the viewer.
func (r *UserRepo) FindAll(viewerID uuid.UUID) ([]*models.User, error) {
	var users []*models.User
	err := r.annotated(viewerID).Order("username").Find(&users).Error
	return users, err
}

// FindByID returns a user profile annotated for the viewer.
func (r *UserRepo) FindByID(viewerID, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.annotated(viewerID).Where("users.id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("user")
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDWithRecipes returns a user profile with their recipes preloaded,
// used by the subscription representation.
func (r *UserRepo) FindByIDWithRecipes(viewerID, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.annotated(viewerID).Preload("Recipes").Where("users.id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("user")
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns a user by email, without viewer annotation.
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("user")
		}
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user
func (r *UserRepo) Add(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if isDuplicate(err) {
			return errs.NewAlreadyExists("user")
		}
		return err
	}
	return nil
}

// UpdatePassword stores a new password hash for the user.
func (r *UserRepo) UpdatePassword(id uuid.UUID, hash string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.NewNotFound("user")
	}
	return nil
}
