package domain

import "time"

// Claim is the payload embedded in a signed access token. Exactly one of
// Code or Email is set depending on how the token was issued.
type Claim struct {
	Code  string `json:"code,omitempty"`
	Email string `json:"email,omitempty"`
	Exp   int64  `json:"exp"`
}

// ExpiresAt converts the unix-millisecond expiry to a time.Time.
func (c Claim) ExpiresAt() time.Time {
	return time.UnixMilli(c.Exp)
}

// Expired reports whether the claim has passed its expiry.
func (c Claim) Expired(now time.Time) bool {
	return c.Exp < now.UnixMilli()
}
