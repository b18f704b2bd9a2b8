package models

import "time"

// OTPEntry is the live one-time code for an email. Only the bcrypt hash of
// the code is kept.
type OTPEntry struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"code_hash"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
}

func (e OTPEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
