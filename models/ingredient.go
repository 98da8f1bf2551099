package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is a catalog entry. The same name may appear with different
// measurement units, but each (name, unit) pair exists once.
type Ingredient struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name            string    `json:"name" db:"name" gorm:"type:text;not null;index;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string    `json:"measurement_unit" db:"measurement_unit" gorm:"type:text;not null;uniqueIndex:idx_ingredient_name_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
