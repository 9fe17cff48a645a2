package token

import "errors"

var (
	ErrMalformed    = errors.New("malformed token")
	ErrBadSignature = errors.New("bad token signature")
	ErrExpired      = errors.New("token expired")
	ErrEmptySecret  = errors.New("signing secret is empty")
)
