package domain

import (
	"strings"
	"time"
)

// MinPasswordLength is the shortest password accepted at registration and on change.
const MinPasswordLength = 6

// User is the public view of an account. It never carries the password hash.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credentials pairs a user with the stored password hash. Only the auth use case reads it.
type Credentials struct {
	User         User
	PasswordHash string
}

// UserPatch holds a partial profile update.
type UserPatch struct {
	Username Nullable[string] `json:"username"`
	Email    Nullable[string] `json:"email"`
	Avatar   Nullable[string] `json:"avatar"`
	Password Nullable[string] `json:"password"`
}

// Apply copies the present fields of the patch onto u. Password is handled by the caller.
func (p UserPatch) Apply(u *User) error {
	if p.Username.Null() {
		return BadRequest("username cannot be null")
	}
	if p.Email.Null() {
		return BadRequest("email cannot be null")
	}
	if p.Password.Null() {
		return BadRequest("password cannot be null")
	}
	if v, ok := p.Username.Get(); ok {
		u.Username = v
	}
	if v, ok := p.Email.Get(); ok {
		u.Email = v
	}
	p.Avatar.ApplyTo(&u.Avatar)
	return nil
}

// DeletionResult is returned by delete operations.
type DeletionResult struct {
	Message string `json:"message"`
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
