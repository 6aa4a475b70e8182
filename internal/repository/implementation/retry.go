package implementation

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"pilotpro/internal/apperr"
)

// transient reports whether err looks like a SQLite lock/busy condition that
// is worth a single retry.
func transient(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}

// withRetry runs fn, retrying once on a transient storage error.
func withRetry(fn func() error) error {
	err := fn()
	if transient(err) {
		err = fn()
	}
	return err
}

// storageErr normalizes driver errors into the shared taxonomy. Unique key
// violations map to ErrDuplicateUser; everything else is ErrStorage.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", apperr.ErrDuplicateUser, err)
	}
	return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
}
