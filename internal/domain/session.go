package domain

import "time"

// Session is the server-side record backing a signed token. Deleting the
// row invalidates the token before its embedded expiry.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginCode is a single-use email-bound code. The code itself is never
// stored, only a bcrypt hash; the used flag is flipped rather than the row
// deleted so the audit trail survives.
type LoginCode struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CodeHash  string    `json:"-"`
	Used      bool      `json:"used"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
