package model

import "time"

// ResetToken mirrors the 'password_reset_tokens' table. Rows are never
// deleted: invalidation (both "a newer code was issued" and "this code was
// redeemed") rewrites ExpiresAt into the past, so the table doubles as an
// audit trail of every code ever issued.
type ResetToken struct {
	ID        uint64
	UserID    uint64
	Code      string // exactly 6 ASCII digits, leading zeros significant
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the record can no longer be redeemed.
func (t ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
