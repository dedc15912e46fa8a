package models

import (
	"github.com/golang-jwt/jwt/v5"
)

type TokenClaims struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginResult is returned by a successful authentication.
type LoginResult struct {
	User                *User
	NeedsIntroduction   bool
	NeedsPasswordChange bool
}

// GeneratedCredentials is a bulk-created account with its one-time password.
type GeneratedCredentials struct {
	UserID   int64  `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
}
