package contract

import (
	"context"

	"pilotpro/internal/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateRole(ctx context.Context, username string, role entity.UserRole) error
	UpdatePassword(ctx context.Context, username, hash string, mustChange bool) error
	Delete(ctx context.Context, username string) error
	CountByRole(ctx context.Context, role entity.UserRole) (int64, error)
}
