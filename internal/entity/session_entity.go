package entity

import "time"

// Session is one issued login session. Role is a denormalized copy captured
// at issuance and must be treated as a cache: privileged mutations re-read
// the live role from the credential store.
type Session struct {
	TokenID   string
	Username  string
	Role      UserRole
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session has passed its expiry at the given
// instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
