package contract

import (
	"context"

	"pilotpro/internal/entity"
)

type ChatMessageRepository interface {
	Append(ctx context.Context, message *entity.StoredChatMessage) error

	// FindByUsername returns all rows for username, oldest first.
	FindByUsername(ctx context.Context, username string) ([]*entity.StoredChatMessage, error)

	// FindLastN returns the last n rows for username, oldest first within
	// the returned window. Shorter histories return fewer rows.
	FindLastN(ctx context.Context, username string, n int) ([]*entity.StoredChatMessage, error)

	DeleteByUsername(ctx context.Context, username string) error
}
