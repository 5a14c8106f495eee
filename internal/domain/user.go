package domain

import "strings"

// User is the authenticated principal returned by login and me.
type User struct {
	ID       string
	Username string
	Role     string
}

// LoginResult is the payload of a successful login mutation.
type LoginResult struct {
	Token string
	User  User
}

// Credentials are the values typed into the login form.
type Credentials struct {
	Username string
	Password string
}

// Validate enforces the login form rules: username required, password of at least 6 characters.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Username) == "" {
		return &ValidationError{Field: "username", Reason: "required"}
	}
	if len(c.Password) < minPasswordLen {
		return &ValidationError{Field: "password", Reason: "must be at least 6 characters"}
	}
	return nil
}
