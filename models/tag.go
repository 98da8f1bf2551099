package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipebox/backend/errs"
)

// Tag labels recipes for filtering. Color is stored normalized, see NormalizeColor.
type Tag struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name  string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Color string    `json:"color" db:"color" gorm:"type:text;not null"`
	Slug  string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

var hexColorBody = regexp.MustCompile(`^[0-9a-fA-F]+$`)

// NormalizeColor strips one leading '#' and requires a 3- or 6-digit hex
// body, returning the lowercase '#'-prefixed form. Any other input is a
// validation error.
func NormalizeColor(color string) (string, error) {
	body := strings.TrimPrefix(color, "#")
	if len(body) != 3 && len(body) != 6 {
		return "", errs.NewValidationError("color", fmt.Sprintf("invalid color length %q", color))
	}
	if !hexColorBody.MatchString(body) {
		return "", errs.NewValidationError("color", fmt.Sprintf("color %q is not a hex string", color))
	}
	return "#" + strings.ToLower(body), nil
}
