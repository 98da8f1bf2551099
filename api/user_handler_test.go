package api

import (
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/recipebox/backend/models"
)

func TestRegisterEndpoint(t *testing.T) {
	server, db := newTestServer(t)

	body := map[string]any{
		"email":      "new@example.com",
		"username":   "newcomer",
		"first_name": "New",
		"last_name":  "Comer",
		"password":   "s3cret",
	}

	resp := doRequest(t, server, http.MethodPost, "/users", "", body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	view := decodeJSON[UserView](t, resp)
	if view.Username != "newcomer" {
		t.Errorf("username = %q", view.Username)
	}

	stored, err := db.UserRepo().FindByEmail("new@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if stored.Password == "s3cret" {
		t.Error("password stored in plain text")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret")) != nil {
		t.Error("stored hash does not verify against the password")
	}

	// Same email again is rejected.
	resp = doRequest(t, server, http.MethodPost, "/users", "", body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register status = %d, want 400", resp.StatusCode)
	}
}

func TestSetPasswordEndpoint(t *testing.T) {
	server, db := newTestServer(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("old-pass"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hashing: %v", err)
	}
	user := &models.User{
		Email:    "pw@example.com",
		Username: "pwuser",
		Password: string(hash),
	}
	if err := db.UserRepo().Add(user); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	token := tokenFor(t, user.ID)

	resp := doRequest(t, server, http.MethodPost, "/users/set_password", token,
		map[string]any{"old_password": "wrong", "new_password": "new-pass"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("wrong old password status = %d, want 400", resp.StatusCode)
	}

	resp = doRequest(t, server, http.MethodPost, "/users/set_password", token,
		map[string]any{"old_password": "old-pass", "new_password": "new-pass"})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", resp.StatusCode)
	}

	updated, err := db.UserRepo().FindByEmail("pw@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("new-pass")) != nil {
		t.Error("new password not stored")
	}
}

func TestSubscribeEndpoint(t *testing.T) {
	server, db := newTestServer(t)
	follower := apiSeedUser(t, db)
	author := apiSeedUser(t, db)
	token := tokenFor(t, follower.ID)

	recipe := &models.Recipe{Name: "Salad", AuthorID: author.ID, Text: "x", CookingTime: 5}
	if err := db.RecipeRepo().Create(recipe, nil, nil); err != nil {
		t.Fatalf("seeding recipe: %v", err)
	}

	path := "/users/" + author.ID.String() + "/subscribe"

	resp := doRequest(t, server, http.MethodPost, path, token, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("subscribe status = %d, want 201", resp.StatusCode)
	}
	view := decodeJSON[SubscriptionView](t, resp)
	if !view.IsSubscribed {
		t.Error("subscription view not marked subscribed")
	}
	if view.RecipesCount != 1 || len(view.Recipes) != 1 {
		t.Errorf("recipes not embedded: %+v", view)
	}

	resp = doRequest(t, server, http.MethodPost, path, token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate subscribe status = %d, want 400", resp.StatusCode)
	}

	// Self-subscription is rejected regardless of state.
	selfPath := "/users/" + follower.ID.String() + "/subscribe"
	resp = doRequest(t, server, http.MethodPost, selfPath, token, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self subscribe status = %d, want 400", resp.StatusCode)
	}

	resp = doRequest(t, server, http.MethodGet, "/users/subscriptions", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("subscriptions status = %d, want 200", resp.StatusCode)
	}
	listing := decodeJSON[[]SubscriptionView](t, resp)
	if len(listing) != 1 || listing[0].ID != author.ID {
		t.Fatalf("subscriptions listing = %+v", listing)
	}

	resp = doRequest(t, server, http.MethodDelete, path, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("unsubscribe status = %d, want 204", resp.StatusCode)
	}
	resp = doRequest(t, server, http.MethodDelete, path, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second unsubscribe status = %d, want 404", resp.StatusCode)
	}
}

func TestTagWritesRequireAdmin(t *testing.T) {
	server, db := newTestServer(t)
	regular := apiSeedUser(t, db)

	admin := &models.User{
		Email:    "admin@example.com",
		Username: "admin",
		Password: "hash",
		IsAdmin:  true,
	}
	if err := db.UserRepo().Add(admin); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}

	body := map[string]any{"name": "Lunch", "color": "#ABC", "slug": "lunch"}

	resp := doRequest(t, server, http.MethodPost, "/tags", tokenFor(t, regular.ID), body)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("regular user status = %d, want 403", resp.StatusCode)
	}

	resp = doRequest(t, server, http.MethodPost, "/tags", tokenFor(t, admin.ID), body)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin status = %d, want 201", resp.StatusCode)
	}
	tag := decodeJSON[models.Tag](t, resp)
	if tag.Color != "#abc" {
		t.Errorf("color not normalized: %q", tag.Color)
	}

	// Invalid color is rejected before the catalog is touched.
	bad := map[string]any{"name": "Bad", "color": "#12345", "slug": "bad"}
	resp = doRequest(t, server, http.MethodPost, "/tags", tokenFor(t, admin.ID), bad)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid color status = %d, want 400", resp.StatusCode)
	}
}
