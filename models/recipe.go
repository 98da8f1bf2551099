package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe is owned by its author; association rows (ingredient amounts, tags,
// favorites, cart items) are removed in the same transaction that removes the
// recipe.
type Recipe struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name        string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	AuthorID    uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;index"`
	Text        string    `json:"text" db:"text" gorm:"type:text;not null"`
	Image       string    `json:"image" db:"image" gorm:"type:text"`
	CookingTime int       `json:"cooking_time" db:"cooking_time" gorm:"type:integer;not null;default:1"`
	CreatedAt   time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Author      *User              `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;references:ID"`
	Tags        []Tag              `json:"tags,omitempty" gorm:"many2many:recipe_tags"`

	// Per-viewer flags computed as correlated EXISTS subqueries in the same
	// scan as the listing query. Always false for anonymous viewers.
	IsFavorited      bool `json:"is_favorited" gorm:"->;-:migration"`
	IsInShoppingCart bool `json:"is_in_shopping_cart" gorm:"->;-:migration"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient associates a recipe with an ingredient and a positive
// amount. A recipe cannot list the same ingredient twice.
type RecipeIngredient struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	RecipeID     uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_recipe_ingredient_unique"`
	IngredientID uuid.UUID `json:"ingredient_id" db:"ingredient_id" gorm:"type:uuid;not null;uniqueIndex:idx_recipe_ingredient_unique"`
	Amount       int64     `json:"amount" db:"amount" gorm:"type:bigint;not null"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;references:ID"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// RecipeTag mirrors the many2many join table so association rows can be
// replaced wholesale on update.
type RecipeTag struct {
	RecipeID uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;primaryKey"`
	TagID    uuid.UUID `json:"tag_id" db:"tag_id" gorm:"type:uuid;primaryKey"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}
