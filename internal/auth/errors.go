package auth

import "errors"

var (
	ErrMissingCredential = errors.New("authorization header not found")
	ErrMalformedToken    = errors.New("authorization header is not a bearer token")
	ErrInvalidToken      = errors.New("invalid authorization")
)
