package database

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipebox/backend/models"
)

// newTestDB opens a fresh in-memory database with the full schema. One open
// connection only, so every query sees the same memory store.
func newTestDB(t *testing.T) Database {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return New(db)
}

var seedCounter int

func seedUser(t *testing.T, db Database) *models.User {
	t.Helper()
	seedCounter++
	user := &models.User{
		Email:     fmt.Sprintf("user%d@example.com", seedCounter),
		Username:  fmt.Sprintf("user%d", seedCounter),
		FirstName: "Test",
		LastName:  "User",
		Password:  "hash",
	}
	if err := db.UserRepo().Add(user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}

func seedIngredient(t *testing.T, db Database, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.IngredientRepo().Add(ingredient); err != nil {
		t.Fatalf("seeding ingredient %s: %v", name, err)
	}
	return ingredient
}

func seedTag(t *testing.T, db Database, name, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: "#ff0000", Slug: slug}
	if err := db.TagRepo().Add(tag); err != nil {
		t.Fatalf("seeding tag %s: %v", name, err)
	}
	return tag
}

func seedRecipe(t *testing.T, db Database, author *models.User, name string, ingredients []models.RecipeIngredient, tagIDs []uuid.UUID) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Name:        name,
		AuthorID:    author.ID,
		Text:        "instructions",
		CookingTime: 10,
	}
	if err := db.RecipeRepo().Create(recipe, ingredients, tagIDs); err != nil {
		t.Fatalf("seeding recipe %s: %v", name, err)
	}
	return recipe
}
