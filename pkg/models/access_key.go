package models

import (
	"time"

	"github.com/google/uuid"
)

// AccessKey pairs a secret token with a rate limit and an expiration.
// The token is generated once at creation and never reassigned.
type AccessKey struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	Key       string    `db:"key"        json:"key"`
	RateLimit int       `db:"rate_limit" json:"rateLimit"`
	ExpiresAt time.Time `db:"expires_at" json:"expiresAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
