package models

import (
	"time"
)

// Role is the coarse permission level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

type User struct {
	ID                       int64
	Username                 string
	PasswordHash             string
	Role                     Role
	IsActive                 bool
	FullName                 string
	HasCompletedIntroduction bool
	RequiresPasswordChange   bool   // admins only
	TempPassword             string // plain generated password, kept until first login or purge
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasTempPassword reports whether a generated password is still stored in plain form.
func (u *User) HasTempPassword() bool {
	return u.TempPassword != ""
}

// AuthorInfo is a display-only projection of a user attached to ideas.
type AuthorInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Unknown  bool   `json:"unknown,omitempty"`
}
