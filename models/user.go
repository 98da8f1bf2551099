package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered account. The password column holds a bcrypt
// hash and is never serialized.
type User struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	Username  string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex"`
	FirstName string    `json:"first_name" db:"first_name" gorm:"type:text;not null"`
	LastName  string    `json:"last_name" db:"last_name" gorm:"type:text;not null"`
	Password  string    `json:"-" db:"password" gorm:"type:text;not null"`
	IsAdmin   bool      `json:"-" db:"is_admin" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	Recipes []Recipe `json:"recipes,omitempty" gorm:"foreignKey:AuthorID;references:ID"`

	// Filled per viewer by the query layer, not a stored column.
	IsSubscribed bool `json:"is_subscribed" gorm:"->;-:migration"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
