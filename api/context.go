package api

import (
	"context"

	"github.com/google/uuid"
)

type keyType string

const viewerIDKey keyType = "viewerID"

// ctxWithViewerID adds the authenticated viewer's id to the context
func ctxWithViewerID(ctx context.Context, viewerID uuid.UUID) context.Context {
	return context.WithValue(ctx, viewerIDKey, viewerID)
}

// ctxViewerID retrieves the viewer id from the context. uuid.Nil means the
// request is anonymous.
func ctxViewerID(ctx context.Context) uuid.UUID {
	if value := ctx.Value(viewerIDKey); value != nil {
		if id, ok := value.(uuid.UUID); ok {
			return id
		}
	}
	return uuid.Nil
}
