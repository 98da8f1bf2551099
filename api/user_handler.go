package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/recipebox/backend/database"
	"github.com/recipebox/backend/errs"
	"github.com/recipebox/backend/models"
)

type userHandler struct {
	responder        Responder
	logger           zerolog.Logger
	userRepo         *database.UserRepo
	subscriptionRepo *database.SubscriptionRepo
}

func newUserHandler(userRepo *database.UserRepo, subscriptionRepo *database.SubscriptionRepo) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:        NewResponder(logger),
		logger:           logger,
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (h userHandler) getAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.userRepo.FindAll(ctxViewerID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "users", err))
			return
		}

		views := make([]UserView, 0, len(users))
		for _, user := range users {
			views = append(views, newUserView(user))
		}
		h.responder.WriteJSON(w, views)
	}
}

func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		user, err := h.userRepo.FindByID(ctxViewerID(r.Context()), userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		h.responder.WriteJSON(w, newUserView(user))
	}
}

// register creates an account with a bcrypt-hashed password.
func (h userHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode register request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Email == "" {
			h.responder.WriteError(w, errs.NewValidationError("email", "email is required"))
			return
		}
		if req.Username == "" {
			h.responder.WriteError(w, errs.NewValidationError("username", "username is required"))
			return
		}
		if err := validatePassword(req.Password); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
			return
		}

		user := &models.User{
			Email:     req.Email,
			Username:  req.Username,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Password:  string(hash),
		}
		if err := h.userRepo.Add(user); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "user", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newUserView(user))
	}
}

func (h userHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := ctxViewerID(r.Context())
		user, err := h.userRepo.FindByID(viewerID, viewerID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		h.responder.WriteJSON(w, newUserView(user))
	}
}

// setPassword verifies the old password before storing the new hash.
func (h userHandler) setPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := ctxViewerID(r.Context())

		var req setPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if err := validatePassword(req.NewPassword); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		user, err := h.userRepo.FindByID(uuid.Nil, viewerID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)) != nil {
			h.responder.WriteError(w, errs.NewValidationError("old_password", "old password does not match"))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalError("failed to hash password"))
			return
		}
		if err := h.userRepo.UpdatePassword(viewerID, string(hash)); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "user", err))
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// subscribe toggles the subscription to the author in the path: POST creates
// it, DELETE removes it. Subscribing to oneself is always rejected.
func (h userHandler) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := ctxViewerID(r.Context())

		authorID, err := uuid.Parse(chi.URLParam(r, "userID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid userID"))
			return
		}

		author, err := h.userRepo.FindByIDWithRecipes(viewerID, authorID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		if r.Method == http.MethodDelete {
			if err := h.subscriptionRepo.Remove(viewerID, authorID); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("remove", "subscription", err))
				return
			}
			h.responder.WriteNoContent(w)
			return
		}

		if _, err := h.subscriptionRepo.Add(viewerID, authorID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("add", "subscription", err))
			return
		}

		author.IsSubscribed = true
		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newSubscriptionView(author))
	}
}

// subscriptions lists every followed author with their recipes.
func (h userHandler) subscriptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authors, err := h.subscriptionRepo.Authors(ctxViewerID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "subscriptions", err))
			return
		}

		views := make([]SubscriptionView, 0, len(authors))
		for _, author := range authors {
			views = append(views, newSubscriptionView(author))
		}
		h.responder.WriteJSON(w, views)
	}
}

// bcrypt rejects passwords longer than 72 bytes.
func validatePassword(password string) error {
	if password == "" {
		return errs.NewValidationError("password", "password is required")
	}
	if len(password) > 72 {
		return errs.NewValidationError("password", "password is too long")
	}
	return nil
}
