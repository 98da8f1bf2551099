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

// tagHandler serves the tag catalog. Reads are public; writes require an
// admin viewer.
type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tagRepo   *database.TagRepo
	userRepo  *database.UserRepo
}

func newTagHandler(tagRepo *database.TagRepo, userRepo *database.UserRepo) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tagRepo:   tagRepo,
		userRepo:  userRepo,
	}
}

// requireAdmin checks the viewer's admin flag before any catalog mutation.
func requireAdmin(userRepo *database.UserRepo, r *http.Request) error {
	viewerID := ctxViewerID(r.Context())
	viewer, err := userRepo.FindByID(uuid.Nil, viewerID)
	if err != nil {
		return err
	}
	if !viewer.IsAdmin {
		return errs.NewPermissionDenied("admin access required")
	}
	return nil
}

func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tags", err))
			return
		}
		h.responder.WriteJSON(w, tags)
	}
}

func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, err := uuid.Parse(chi.URLParam(r, "tagID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid tagID"))
			return
		}

		tag, err := h.tagRepo.FindByID(tagID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tag", err))
			return
		}
		h.responder.WriteJSON(w, tag)
	}
}

func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(h.userRepo, r); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req tagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.Name == "" {
			h.responder.WriteError(w, errs.NewValidationError("name", "name is required"))
			return
		}
		if req.Slug == "" {
			h.responder.WriteError(w, errs.NewValidationError("slug", "slug is required"))
			return
		}
		color, err := models.NormalizeColor(req.Color)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tag := &models.Tag{Name: req.Name, Color: color, Slug: req.Slug}
		if err := h.tagRepo.Add(tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "tag", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, tag)
	}
}

func (h tagHandler) updateTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(h.userRepo, r); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tagID, err := uuid.Parse(chi.URLParam(r, "tagID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid tagID"))
			return
		}

		tag, err := h.tagRepo.FindByID(tagID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tag", err))
			return
		}

		var req tagRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if req.Name != "" {
			tag.Name = req.Name
		}
		if req.Slug != "" {
			tag.Slug = req.Slug
		}
		if req.Color != "" {
			color, err := models.NormalizeColor(req.Color)
			if err != nil {
				h.responder.WriteError(w, err)
				return
			}
			tag.Color = color
		}

		if err := h.tagRepo.Update(tag); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "tag", err))
			return
		}
		h.responder.WriteJSON(w, tag)
	}
}

func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(h.userRepo, r); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tagID, err := uuid.Parse(chi.URLParam(r, "tagID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid tagID"))
			return
		}

		if err := h.tagRepo.Delete(tagID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "tag", err))
			return
		}
		h.responder.WriteNoContent(w)
	}
}
