package contract

import (
	"context"
	"time"

	"pilotpro/internal/entity"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindByTokenID(ctx context.Context, tokenID string) (*entity.Session, error)
	Delete(ctx context.Context, tokenID string) error
	DeleteByUsername(ctx context.Context, username string) error
	DeleteExpired(ctx context.Context, now time.Time) error

	// FindLastBefore returns the most recent session for username created
	// strictly before the given instant, or nil if there is none.
	FindLastBefore(ctx context.Context, username string, before time.Time) (*entity.Session, error)
}
