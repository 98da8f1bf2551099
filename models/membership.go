package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite marks a recipe as favorited by a user, once per pair.
type Favorite struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID  uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_favorite_user_recipe"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;references:ID"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// ShoppingCartItem queues a recipe for shopping, once per (user, recipe) pair.
type ShoppingCartItem struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID    uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_user_recipe"`
	RecipeID  uuid.UUID `json:"recipe_id" db:"recipe_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_cart_user_recipe"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Recipe *Recipe `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;references:ID"`
}

func (s *ShoppingCartItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Subscription links a follower to an author. A user cannot follow themselves;
// the repository rejects that before touching the table.
type Subscription struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	FollowerID uuid.UUID `json:"follower_id" db:"follower_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_subscription_pair"`
	AuthorID   uuid.UUID `json:"author_id" db:"author_id" gorm:"type:uuid;not null;index;uniqueIndex:idx_subscription_pair"`
	CreatedAt  time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
