package models

import "time"

type Platform string

const (
	PlatformWeb   Platform = "web"
	PlatformKiosk Platform = "kiosk"
)

// Session is a server-persisted bearer token with platform-scoped expiry.
// At most one valid session exists per token.
type Session struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"-"`
	Platform  string    `json:"platform"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
