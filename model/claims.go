package model

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the fixed claim set carried by an access token.
// Verification code only ever trusts these fields; there is deliberately
// no open-ended claim bag.
type AccessClaims struct {
	UserID   int      `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
	jwt.RegisteredClaims
}
