package models

import "strings"

// Role is the closed set of user roles. Stored values are free text for
// compatibility with existing rows, so parsing is case-insensitive and
// anything unrecognised degrades to RoleUser.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func ParseRole(s string) Role {
	if strings.EqualFold(s, string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

func (r Role) IsAdmin() bool {
	return strings.EqualFold(string(r), string(RoleAdmin))
}

type User struct {
	ID             int64  `db:"id" json:"id"`
	Email          string `db:"email" json:"email"`
	Username       string `db:"username" json:"username"`
	FirstName      string `db:"first_name" json:"first_name"`
	LastName       string `db:"last_name" json:"last_name"`
	HashedPassword string `db:"hashed_password" json:"-"`
	Role           string `db:"role" json:"role"`
	IsActive       bool   `db:"is_active" json:"is_active"`
}
