package entity

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// ValidRole reports whether r is one of the roles the system knows about.
func ValidRole(r UserRole) bool {
	return r == UserRoleUser || r == UserRoleAdmin
}

// User is the domain view of a credential record. FullName is only populated
// after the per-user key has been unwrapped and the stored ciphertext
// decrypted; the persisted form never leaves the repository in plaintext.
type User struct {
	Username           string
	PasswordHash       string
	Role               UserRole
	WrappedUserKey     []byte
	EncryptedFullName  []byte
	MustChangePassword bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
