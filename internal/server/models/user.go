// Package models contains the persistent entities of the service.
package models

// User is an account that can authenticate against the service. The
// password is kept only as a bcrypt hash; the clear form is never stored.
type User struct {
	ID           string
	Username     string
	PasswordHash string
}
