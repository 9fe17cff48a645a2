package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehmetcc/bearer/internal/config"
	"go.uber.org/zap"
)

const (
	// BearerPrefix is prepended to issued tokens so they can be used as an
	// Authorization header value as-is.
	BearerPrefix = "Bearer "

	DefaultTTL = time.Hour
)

type TokenService interface {
	Issue(subjectID int64) (string, error)
	Verify(tokenString string) (*Claims, error)
	TTL() time.Duration
}

type Option func(*tokenService)

// WithClock replaces time.Now for both issuance and verification.
func WithClock(now func() time.Time) Option {
	return func(s *tokenService) {
		s.now = now
	}
}

type tokenService struct {
	logger     *zap.Logger
	secret     []byte
	ttl        time.Duration
	signingAlg jwt.SigningMethod
	parser     *jwt.Parser
	now        func() time.Time
}

func NewTokenService(logger *zap.Logger, cfg *config.JWTConfig, opts ...Option) (TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrEmptySecret
	}

	s := &tokenService{
		logger:     logger,
		secret:     append([]byte(nil), cfg.Secret...),
		ttl:        cfg.TTL,
		signingAlg: jwt.SigningMethodHS512,
		now:        time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	for _, opt := range opts {
		opt(s)
	}

	s.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{s.signingAlg.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(Issuer),
		jwt.WithTimeFunc(s.now),
	)
	return s, nil
}

func (s *tokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subjectID that expires TTL from now and returns it
// as "Bearer <token>".
func (s *tokenService) Issue(subjectID int64) (string, error) {
	exp := s.now().Add(s.ttl)
	claims := NewClaims(subjectID, exp)

	signed, err := jwt.NewWithClaims(s.signingAlg, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("failed to sign access token", zap.Error(err))
		return "", err
	}

	s.logger.Debug("access token issued",
		zap.Int64("id", subjectID),
		zap.Time("expires_at", exp),
	)
	return BearerPrefix + signed, nil
}

// Verify checks signature, algorithm and expiry of a bare token (no scheme
// prefix). Errors match ErrMalformed, ErrBadSignature or ErrExpired.
func (s *tokenService) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return &claims, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %w", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %w", ErrExpired, err)
	default:
		// missing exp, wrong issuer, undecodable claim types
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
}
