package api

import (
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/recipebox/backend/errs"
)

// viewerMiddleware resolves the current viewer from a Bearer token. Token
// issuance happens elsewhere; this only validates the signature and extracts
// the subject.
type viewerMiddleware struct {
	responder Responder
	secret    []byte
}

func newViewerMiddleware(secret string) viewerMiddleware {
	logger := log.With().Str("handlerName", "viewerMiddleware").Logger()
	return viewerMiddleware{
		responder: NewResponder(logger),
		secret:    []byte(secret),
	}
}

// resolve attaches the viewer id to the context when a valid token is
// present and leaves the request anonymous otherwise. Read endpoints accept
// anonymous viewers, so no error is returned here.
func (m viewerMiddleware) resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewerID, err := m.parseToken(r)
		if err != nil || viewerID == uuid.Nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(ctxWithViewerID(r.Context(), viewerID)))
	})
}

// require rejects requests without a valid token.
func (m viewerMiddleware) require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ctxViewerID(r.Context()) == uuid.Nil {
			m.responder.WriteError(w, errs.NewUnauthorizedError("authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m viewerMiddleware) parseToken(r *http.Request) (uuid.UUID, error) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return uuid.Nil, errs.ErrUnauthorized
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrUnauthorized
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, errs.ErrUnauthorized
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	viewerID, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, errs.ErrUnauthorized
	}
	return viewerID, nil
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)

		// Log 500s that weren't panics (e.g. manually set by handlers)
		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// RequestLoggingMiddleware logs every request with its status and duration.
func RequestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
