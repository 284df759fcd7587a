package domain

import "time"

// AuthToken is returned by login, register and validate. It is never persisted.
type AuthToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}

// Identity is the verified content of a bearer token.
type Identity struct {
	UserID    string
	Email     string
	Avatar    *string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Revocation invalidates a single token until it would have expired anyway.
type Revocation struct {
	TokenID   string    `json:"token_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the revoked token has passed its own expiry,
// after which the revocation carries no information.
func (r *Revocation) IsExpired(reference time.Time) bool {
	if r == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !r.ExpiresAt.After(reference)
}
