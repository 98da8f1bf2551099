package services

import (
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipebox/backend/database"
	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

func newTestDB(t *testing.T) (*gorm.DB, database.Database) {
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

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return db, database.New(db)
}

func seedUser(t *testing.T, db database.Database, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "hash",
	}
	if err := db.UserRepo().Add(user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}

func seedIngredient(t *testing.T, db database.Database, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.IngredientRepo().Add(ingredient); err != nil {
		t.Fatalf("seeding ingredient: %v", err)
	}
	return ingredient
}

func seedRecipe(t *testing.T, db database.Database, author *models.User, name string, ingredients []models.RecipeIngredient) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{Name: name, AuthorID: author.ID, Text: "x", CookingTime: 10}
	if err := db.RecipeRepo().Create(recipe, ingredients, nil); err != nil {
		t.Fatalf("seeding recipe %s: %v", name, err)
	}
	return recipe
}

func TestShoppingListEmptyCart(t *testing.T) {
	gormDB, db := newTestDB(t)
	user := seedUser(t, db, "emptyhanded")

	service := NewShoppingListService(gormDB)
	_, err := service.Build(user.ID)
	if !errs.IsEmptyCart(err) {
		t.Fatalf("expected empty cart condition, got %v", err)
	}
}

func TestShoppingListAggregation(t *testing.T) {
	gormDB, db := newTestDB(t)
	author := seedUser(t, db, "chef")
	shopper := seedUser(t, db, "shopper")
	other := seedUser(t, db, "other")

	saltG := seedIngredient(t, db, "Salt", "g")
	saltPinch := seedIngredient(t, db, "Salt", "pinch")
	flour := seedIngredient(t, db, "Flour", "g")

	soup := seedRecipe(t, db, author, "Soup", []models.RecipeIngredient{
		{IngredientID: saltG.ID, Amount: 10},
		{IngredientID: flour.ID, Amount: 200},
	})
	bread := seedRecipe(t, db, author, "Bread", []models.RecipeIngredient{
		{IngredientID: saltG.ID, Amount: 15},
		{IngredientID: saltPinch.ID, Amount: 2},
	})
	cake := seedRecipe(t, db, author, "Cake", []models.RecipeIngredient{
		{IngredientID: flour.ID, Amount: 500},
	})

	for _, recipe := range []*models.Recipe{soup, bread} {
		if _, err := db.ShoppingCartRepo().Add(shopper.ID, recipe.ID); err != nil {
			t.Fatalf("adding to cart: %v", err)
		}
	}
	// Another user's cart must not leak into the aggregation.
	if _, err := db.ShoppingCartRepo().Add(other.ID, cake.ID); err != nil {
		t.Fatalf("adding to other cart: %v", err)
	}

	service := NewShoppingListService(gormDB)
	items, err := service.Build(shopper.ID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []ShoppingListItem{
		{IngredientName: "Flour", Unit: "g", TotalAmount: 200},
		{IngredientName: "Salt", Unit: "g", TotalAmount: 25},
		{IngredientName: "Salt", Unit: "pinch", TotalAmount: 2},
	}
	if len(items) != len(want) {
		t.Fatalf("got %d groups %+v, want %d", len(items), items, len(want))
	}
	for i, w := range want {
		if items[i] != w {
			t.Errorf("item %d = %+v, want %+v", i, items[i], w)
		}
	}
}

func TestShoppingListRender(t *testing.T) {
	service := NewShoppingListService(nil)
	text := service.Render("shopper", []ShoppingListItem{
		{IngredientName: "Flour", Unit: "g", TotalAmount: 200},
		{IngredientName: "Salt", Unit: "g", TotalAmount: 25},
	})

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	want := []string{
		"Shopping list for shopper",
		"Flour: 200 g",
		"Salt: 25 g",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(lines), lines, len(want))
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestShoppingListRecipeOverlapIsSummedOnce(t *testing.T) {
	gormDB, db := newTestDB(t)
	author := seedUser(t, db, "cook")

	salt := seedIngredient(t, db, "Salt", "g")
	recipe := seedRecipe(t, db, author, "Stew", []models.RecipeIngredient{
		{IngredientID: salt.ID, Amount: 7},
	})
	if _, err := db.ShoppingCartRepo().Add(author.ID, recipe.ID); err != nil {
		t.Fatalf("adding to cart: %v", err)
	}

	service := NewShoppingListService(gormDB)
	items, err := service.Build(author.ID)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(items) != 1 || items[0].TotalAmount != 7 {
		t.Fatalf("single recipe cart aggregated wrong: %+v", items)
	}
	if items[0].IngredientName != "Salt" || items[0].Unit != "g" {
		t.Fatalf("unexpected group identity: %+v", items[0])
	}
}
