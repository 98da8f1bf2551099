package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/recipebox/backend/database"
	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

// ingredientHandler serves the ingredient catalog. Reads are public with an
// optional name prefix search; writes require an admin viewer.
type ingredientHandler struct {
	responder      Responder
	logger         zerolog.Logger
	ingredientRepo *database.IngredientRepo
	userRepo       *database.UserRepo
}

func newIngredientHandler(ingredientRepo *database.IngredientRepo, userRepo *database.UserRepo) ingredientHandler {
	logger := log.With().Str("handlerName", "ingredientHandler").Logger()

	return ingredientHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		ingredientRepo: ingredientRepo,
		userRepo:       userRepo,
	}
}

func (h ingredientHandler) getAllIngredients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredients, err := h.ingredientRepo.FindAll(r.URL.Query().Get("name"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "ingredients", err))
			return
		}
		h.responder.WriteJSON(w, ingredients)
	}
}

func (h ingredientHandler) getIngredient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredientID, err := uuid.Parse(chi.URLParam(r, "ingredientID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid ingredientID"))
			return
		}

		ingredient, err := h.ingredientRepo.FindByID(ingredientID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "ingredient", err))
			return
		}
		h.responder.WriteJSON(w, ingredient)
	}
}

func (h ingredientHandler) createIngredient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(h.userRepo, r); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req ingredientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.Name == "" {
			h.responder.WriteError(w, errs.NewValidationError("name", "name is required"))
			return
		}
		if req.MeasurementUnit == "" {
			h.responder.WriteError(w, errs.NewValidationError("measurement_unit", "measurement unit is required"))
			return
		}

		ingredient := &models.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
		if err := h.ingredientRepo.Add(ingredient); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "ingredient", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, ingredient)
	}
}

func (h ingredientHandler) deleteIngredient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(h.userRepo, r); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		ingredientID, err := uuid.Parse(chi.URLParam(r, "ingredientID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid ingredientID"))
			return
		}

		if err := h.ingredientRepo.Delete(ingredientID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "ingredient", err))
			return
		}
		h.responder.WriteNoContent(w)
	}
}
