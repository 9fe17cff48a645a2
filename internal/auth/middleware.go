package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/mehmetcc/bearer/internal/httpx"
	"go.uber.org/zap"
)

const (
	msgNotFound = "Authorization Not Found"
	msgInvalid  = "Invalid Authorization"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by Required or Optional.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Required rejects the request unless it carries a valid bearer token.
func (e *Extractor) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := e.Extract(r)
		if err != nil {
			e.reject(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}

// Optional lets anonymous requests through, but still rejects a header that
// fails verification.
func (e *Extractor) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := e.ExtractOptional(r)
		if err != nil {
			e.reject(w, r, err)
			return
		}
		if id != nil {
			r = r.WithContext(WithIdentity(r.Context(), *id))
		}
		next.ServeHTTP(w, r)
	})
}

func (e *Extractor) reject(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrMissingCredential) {
		e.logger.Debug("authorization header missing", zap.String("path", r.URL.Path))
		httpx.WriteText(w, http.StatusUnauthorized, msgNotFound)
		return
	}
	e.logger.Warn("rejected authorization",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	httpx.WriteText(w, http.StatusBadRequest, msgInvalid)
}
