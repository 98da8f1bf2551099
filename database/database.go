package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/recipebox/backend/models"
)

type Database struct {
	userRepo         *UserRepo
	recipeRepo       *RecipeRepo
	ingredientRepo   *IngredientRepo
	tagRepo          *TagRepo
	favoriteRepo     *FavoriteRepo
	shoppingCartRepo *ShoppingCartRepo
	subscriptionRepo *SubscriptionRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:         NewUserRepo(db),
		recipeRepo:       NewRecipeRepo(db),
		ingredientRepo:   NewIngredientRepo(db),
		tagRepo:          NewTagRepo(db),
		favoriteRepo:     NewFavoriteRepo(db),
		shoppingCartRepo: NewShoppingCartRepo(db),
		subscriptionRepo: NewSubscriptionRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) RecipeRepo() *RecipeRepo {
	return d.recipeRepo
}

func (d Database) IngredientRepo() *IngredientRepo {
	return d.ingredientRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) FavoriteRepo() *FavoriteRepo {
	return d.favoriteRepo
}

func (d Database) ShoppingCartRepo() *ShoppingCartRepo {
	return d.shoppingCartRepo
}

func (d Database) SubscriptionRepo() *SubscriptionRepo {
	return d.subscriptionRepo
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
		&models.Subscription{},
	)
}

// isDuplicate reports whether err is a unique-constraint violation. Both the
// translated gorm error and the raw driver messages are checked so races that
// bypass pre-checks still resolve to the right condition.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
