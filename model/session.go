// file: model/session.go

package model

import "time"

// Session is the durable server-side record backing one login. It correlates
// the hash of the currently valid refresh token to a user and a sliding expiry.
type Session struct {
	ID               string    `json:"id"`
	UserID           int       `json:"user_id"`
	RefreshTokenHash string    `json:"-"` // Only the hash is persisted, never the raw token.
	InitiatedAt      time.Time `json:"initiated_at"`
	ExpiresAt        time.Time `json:"expires_at"`
	Revoked          bool      `json:"revoked"`
}
