// Package models defines server-side data models persisted in the database.
package models

import "time"

// Role gates the /admin API.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User is the identity and credential record. PasswordHash is empty for
// users created without credentials (e.g. seeded landlords); such users
// cannot log in.
type User struct {
	ID           string
	FirstName    string
	MiddleName   string
	LastName     string
	Email        string
	PasswordHash string
	Role         Role
	Image        string
	CreatedAt    time.Time
}

// FullName joins first and last name the way the dashboard greets the user.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
