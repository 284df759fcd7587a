package buffer

import (
	"time"
)

// Item is a token revocation that could not be written to Redis yet.
type Item struct {
	TokenID   string    `json:"token_id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Retries   int       `json:"retries"`
	Timestamp time.Time `json:"timestamp"`
}

func (i *Item) normalize() {
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now().UTC()
	}
}

// Expired reports whether the revoked token has passed its own expiry,
// after which keeping the item serves no purpose.
func (i Item) Expired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
