package database

import (
	"testing"

	"github.com/google/uuid"

	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

func boolPtr(b bool) *bool { return &b }

func TestRecipeAnnotationFlags(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db)
	viewer := seedUser(t, db)

	favoritedRecipe := seedRecipe(t, db, author, "Borscht", nil, nil)
	cartedRecipe := seedRecipe(t, db, author, "Pelmeni", nil, nil)
	plainRecipe := seedRecipe(t, db, author, "Okroshka", nil, nil)

	if _, err := db.FavoriteRepo().Add(viewer.ID, favoritedRecipe.ID); err != nil {
		t.Fatalf("adding favorite: %v", err)
	}
	if _, err := db.ShoppingCartRepo().Add(viewer.ID, cartedRecipe.ID); err != nil {
		t.Fatalf("adding cart item: %v", err)
	}

	recipes, err := db.RecipeRepo().FindAll(viewer.ID, RecipeFilter{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(recipes) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(recipes))
	}

	flags := map[uuid.UUID][2]bool{}
	for _, recipe := range recipes {
		flags[recipe.ID] = [2]bool{recipe.IsFavorited, recipe.IsInShoppingCart}
	}
	if got := flags[favoritedRecipe.ID]; got != [2]bool{true, false} {
		t.Errorf("favorited recipe flags = %v, want {true false}", got)
	}
	if got := flags[cartedRecipe.ID]; got != [2]bool{false, true} {
		t.Errorf("carted recipe flags = %v, want {false true}", got)
	}
	if got := flags[plainRecipe.ID]; got != [2]bool{false, false} {
		t.Errorf("plain recipe flags = %v, want {false false}", got)
	}

	// Anonymous viewers always see both flags false.
	anonymous, err := db.RecipeRepo().FindAll(uuid.Nil, RecipeFilter{})
	if err != nil {
		t.Fatalf("FindAll anonymous: %v", err)
	}
	for _, recipe := range anonymous {
		if recipe.IsFavorited || recipe.IsInShoppingCart {
			t.Errorf("anonymous view of %s has flags set", recipe.Name)
		}
	}

	single, err := db.RecipeRepo().FindByID(viewer.ID, favoritedRecipe.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !single.IsFavorited {
		t.Error("FindByID lost the is_favorited flag")
	}
}

func TestRecipeFilters(t *testing.T) {
	db := newTestDB(t)
	authorA := seedUser(t, db)
	authorB := seedUser(t, db)
	viewer := seedUser(t, db)

	breakfast := seedTag(t, db, "Breakfast", "breakfast")
	dinner := seedTag(t, db, "Dinner", "dinner")

	pancakes := seedRecipe(t, db, authorA, "Pancakes", nil, []uuid.UUID{breakfast.ID})
	seedRecipe(t, db, authorB, "Stew", nil, []uuid.UUID{dinner.ID})
	seedRecipe(t, db, authorA, "Omelette", nil, []uuid.UUID{breakfast.ID, dinner.ID})

	if _, err := db.FavoriteRepo().Add(viewer.ID, pancakes.ID); err != nil {
		t.Fatalf("adding favorite: %v", err)
	}

	names := func(recipes []*models.Recipe) map[string]bool {
		out := map[string]bool{}
		for _, recipe := range recipes {
			out[recipe.Name] = true
		}
		return out
	}

	tests := []struct {
		name     string
		viewerID uuid.UUID
		filter   RecipeFilter
		want     []string
	}{
		{"no filter", viewer.ID, RecipeFilter{}, []string{"Pancakes", "Stew", "Omelette"}},
		{"single tag", viewer.ID, RecipeFilter{TagSlugs: []string{"dinner"}}, []string{"Stew", "Omelette"}},
		{"any of several tags", viewer.ID, RecipeFilter{TagSlugs: []string{"breakfast", "dinner"}}, []string{"Pancakes", "Stew", "Omelette"}},
		{"by author", viewer.ID, RecipeFilter{AuthorID: authorA.ID}, []string{"Pancakes", "Omelette"}},
		{"favorited only", viewer.ID, RecipeFilter{Favorited: boolPtr(true)}, []string{"Pancakes"}},
		{"not favorited", viewer.ID, RecipeFilter{Favorited: boolPtr(false)}, []string{"Stew", "Omelette"}},
		{"favorited filter ignored for anonymous", uuid.Nil, RecipeFilter{Favorited: boolPtr(true)}, []string{"Pancakes", "Stew", "Omelette"}},
		{"cart filter ignored for anonymous", uuid.Nil, RecipeFilter{InCart: boolPtr(true)}, []string{"Pancakes", "Stew", "Omelette"}},
		{"tag and author combined", viewer.ID, RecipeFilter{TagSlugs: []string{"dinner"}, AuthorID: authorA.ID}, []string{"Omelette"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes, err := db.RecipeRepo().FindAll(tt.viewerID, tt.filter)
			if err != nil {
				t.Fatalf("FindAll: %v", err)
			}
			got := names(recipes)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d recipes %v, want %d", len(got), got, len(tt.want))
			}
			for _, name := range tt.want {
				if !got[name] {
					t.Errorf("missing %s in %v", name, got)
				}
			}
		})
	}
}

func TestRecipeCreateRollsBackOnDuplicateIngredient(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db)
	salt := seedIngredient(t, db, "Salt", "g")

	recipe := &models.Recipe{
		Name:        "Oversalted",
		AuthorID:    author.ID,
		Text:        "instructions",
		CookingTime: 5,
	}
	err := db.RecipeRepo().Create(recipe, []models.RecipeIngredient{
		{IngredientID: salt.ID, Amount: 10},
		{IngredientID: salt.ID, Amount: 20},
	}, nil)
	if !errs.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Nothing from the failed create may survive.
	recipes, err := db.RecipeRepo().FindAll(uuid.Nil, RecipeFilter{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(recipes) != 0 {
		t.Fatalf("expected rollback to leave no recipes, found %d", len(recipes))
	}
}

func TestRecipeCreateRejectsInvalidEntries(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db)
	salt := seedIngredient(t, db, "Salt", "g")

	tests := []struct {
		name        string
		ingredients []models.RecipeIngredient
		tagIDs      []uuid.UUID
	}{
		{"zero amount", []models.RecipeIngredient{{IngredientID: salt.ID, Amount: 0}}, nil},
		{"negative amount", []models.RecipeIngredient{{IngredientID: salt.ID, Amount: -3}}, nil},
		{"unknown ingredient", []models.RecipeIngredient{{IngredientID: uuid.New(), Amount: 1}}, nil},
		{"unknown tag", nil, []uuid.UUID{uuid.New()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe := &models.Recipe{Name: "r-" + tt.name, AuthorID: author.ID, Text: "x", CookingTime: 1}
			err := db.RecipeRepo().Create(recipe, tt.ingredients, tt.tagIDs)
			if !errs.IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRecipeUpdateReplacesAssociations(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db)
	salt := seedIngredient(t, db, "Salt", "g")
	sugar := seedIngredient(t, db, "Sugar", "g")
	breakfast := seedTag(t, db, "Breakfast", "breakfast")
	dinner := seedTag(t, db, "Dinner", "dinner")

	recipe := seedRecipe(t, db, author, "Porridge",
		[]models.RecipeIngredient{{IngredientID: salt.ID, Amount: 5}},
		[]uuid.UUID{breakfast.ID})

	newName := "Sweet Porridge"
	err := db.RecipeRepo().Update(recipe.ID, RecipeUpdate{
		Name:        &newName,
		Ingredients: []models.RecipeIngredient{{IngredientID: sugar.ID, Amount: 30}},
		TagIDs:      []uuid.UUID{dinner.ID},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated, err := db.RecipeRepo().FindByID(uuid.Nil, recipe.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("name = %q, want %q", updated.Name, newName)
	}
	if updated.Text != "instructions" {
		t.Errorf("omitted text was changed to %q", updated.Text)
	}
	if len(updated.Ingredients) != 1 || updated.Ingredients[0].IngredientID != sugar.ID || updated.Ingredients[0].Amount != 30 {
		t.Errorf("ingredients were merged instead of replaced: %+v", updated.Ingredients)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].ID != dinner.ID {
		t.Errorf("tags were merged instead of replaced: %+v", updated.Tags)
	}
}

func TestRecipeUpdateOmittedFieldsKept(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db)
	salt := seedIngredient(t, db, "Salt", "g")
	recipe := seedRecipe(t, db, author, "Soup",
		[]models.RecipeIngredient{{IngredientID: salt.ID, Amount: 5}}, nil)

	cookingTime := 45
	if err := db.RecipeRepo().Update(recipe.ID, RecipeUpdate{CookingTime: &cookingTime}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated, err := db.RecipeRepo().FindByID(uuid.Nil, recipe.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if updated.CookingTime != 45 {
		t.Errorf("cooking time = %d, want 45", updated.CookingTime)
	}
	if updated.Name != "Soup" {
		t.Errorf("omitted name was changed to %q", updated.Name)
	}
	if len(updated.Ingredients) != 1 {
		t.Errorf("omitted ingredient list was changed: %+v", updated.Ingredients)
	}
}

func TestRecipeUpdateMissing(t *testing.T) {
	db := newTestDB(t)
	name := "Ghost"
	err := db.RecipeRepo().Update(uuid.New(), RecipeUpdate{Name: &name})
	if !errs.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRecipeDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db)
	viewer := seedUser(t, db)
	salt := seedIngredient(t, db, "Salt", "g")
	breakfast := seedTag(t, db, "Breakfast", "breakfast")

	recipe := seedRecipe(t, db, author, "Eggs",
		[]models.RecipeIngredient{{IngredientID: salt.ID, Amount: 2}},
		[]uuid.UUID{breakfast.ID})
	if _, err := db.FavoriteRepo().Add(viewer.ID, recipe.ID); err != nil {
		t.Fatalf("adding favorite: %v", err)
	}
	if _, err := db.ShoppingCartRepo().Add(viewer.ID, recipe.ID); err != nil {
		t.Fatalf("adding cart item: %v", err)
	}

	if err := db.RecipeRepo().Delete(recipe.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := db.RecipeRepo().FindByID(uuid.Nil, recipe.ID); !errs.IsNotFound(err) {
		t.Fatalf("recipe still present after delete: %v", err)
	}
	exists, err := db.FavoriteRepo().Exists(viewer.ID, recipe.ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if exists {
		t.Error("favorite row survived recipe delete")
	}
	count, err := db.ShoppingCartRepo().Count(viewer.ID)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("cart rows survived recipe delete, count = %d", count)
	}

	// Catalog entries stay.
	if _, err := db.IngredientRepo().FindByID(salt.ID); err != nil {
		t.Errorf("ingredient removed by recipe delete: %v", err)
	}
	if _, err := db.TagRepo().FindByID(breakfast.ID); err != nil {
		t.Errorf("tag removed by recipe delete: %v", err)
	}

	if err := db.RecipeRepo().Delete(recipe.ID); !errs.IsNotFound(err) {
		t.Fatalf("second delete should be not found, got %v", err)
	}
}

func TestRecipeDuplicateName(t *testing.T) {
	db := newTestDB(t)
	author := seedUser(t, db)
	seedRecipe(t, db, author, "Bread", nil, nil)

	err := db.RecipeRepo().Create(&models.Recipe{
		Name:        "Bread",
		AuthorID:    author.ID,
		Text:        "x",
		CookingTime: 1,
	}, nil, nil)
	if !errs.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}
}
