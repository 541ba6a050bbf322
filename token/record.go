package token

import "time"

// Validity describes where a stored token sits in its lifecycle.
type Validity int

const (
	NoToken Validity = iota
	Valid
	ExpiringSoon
	Expired
)

func (v Validity) String() string {
	switch v {
	case NoToken:
		return "no_token"
	case Valid:
		return "valid"
	case ExpiringSoon:
		return "expiring_soon"
	case Expired:
		return "expired"
	}
	return "unknown"
}

// Record holds the OAuth tokens issued by the remote marketing API.
// Invariant: a non-empty AccessToken always carries a non-zero ExpiresAt.
// A RefreshToken may outlive its paired access token.
type Record struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Validity classifies the record against the wall clock. window is how close
// to expiry a token may get before it counts as ExpiringSoon.
func (r *Record) Validity(now time.Time, window time.Duration) Validity {
	if r == nil || r.AccessToken == "" {
		return NoToken
	}
	if !now.Before(r.ExpiresAt) {
		return Expired
	}
	if r.ExpiresAt.Sub(now) <= window {
		return ExpiringSoon
	}
	return Valid
}

// RemainingLifetime returns how long the access token stays usable, zero for
// a missing or already expired token.
func (r *Record) RemainingLifetime(now time.Time) time.Duration {
	if r == nil || r.AccessToken == "" || !now.Before(r.ExpiresAt) {
		return 0
	}
	return r.ExpiresAt.Sub(now)
}
