package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/mehmetcc/bearer/internal/token"
	"go.uber.org/zap"
)

const authorizationHeader = "Authorization"

// Identity is the authenticated principal handed to handlers.
type Identity struct {
	ID int64
}

// Extractor turns the Authorization header of a request into an Identity.
// It holds no per-request state and is safe for concurrent use.
type Extractor struct {
	tokens token.TokenService
	logger *zap.Logger
}

func NewExtractor(tokens token.TokenService, logger *zap.Logger) *Extractor {
	return &Extractor{
		tokens: tokens,
		logger: logger,
	}
}

// ParseBearer returns the token following the literal "Bearer " prefix.
func ParseBearer(header string) (string, error) {
	raw, ok := strings.CutPrefix(header, token.BearerPrefix)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrMalformedToken
	}
	return raw, nil
}

// Extract requires a valid bearer token. It fails with ErrMissingCredential
// when there is no Authorization header and ErrInvalidToken otherwise.
func (e *Extractor) Extract(r *http.Request) (Identity, error) {
	header, ok := authorization(r)
	if !ok {
		return Identity{}, ErrMissingCredential
	}
	return e.verify(header)
}

// ExtractOptional returns nil, nil when no Authorization header is sent.
// A header that is present but invalid is still an error.
func (e *Extractor) ExtractOptional(r *http.Request) (*Identity, error) {
	header, ok := authorization(r)
	if !ok {
		return nil, nil
	}
	id, err := e.verify(header)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (e *Extractor) verify(header string) (Identity, error) {
	raw, err := ParseBearer(header)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, err := e.tokens.Verify(raw)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	return Identity{ID: claims.ID}, nil
}

func authorization(r *http.Request) (string, bool) {
	values, ok := r.Header[authorizationHeader]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
