package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the fixed "iss" of every token this service signs.
const Issuer = "bearer"

// Claims is the signed payload: iss, exp and the subject's numeric id.
type Claims struct {
	ID int64 `json:"id"`
	jwt.RegisteredClaims
}

func NewClaims(id int64, exp time.Time) *Claims {
	return &Claims{
		ID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}
