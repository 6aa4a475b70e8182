package mapper

import (
	"pilotpro/internal/entity"
	"pilotpro/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToModel(e *entity.User) *model.User {
	return &model.User{
		Username:           e.Username,
		PasswordHash:       e.PasswordHash,
		Role:               string(e.Role),
		WrappedUserKey:     e.WrappedUserKey,
		EncryptedFullName:  e.EncryptedFullName,
		MustChangePassword: e.MustChangePassword,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

func (m *UserMapper) ToEntity(mo *model.User) *entity.User {
	return &entity.User{
		Username:           mo.Username,
		PasswordHash:       mo.PasswordHash,
		Role:               entity.UserRole(mo.Role),
		WrappedUserKey:     mo.WrappedUserKey,
		EncryptedFullName:  mo.EncryptedFullName,
		MustChangePassword: mo.MustChangePassword,
		CreatedAt:          mo.CreatedAt,
		UpdatedAt:          mo.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(models []*model.User) []*entity.User {
	entities := make([]*entity.User, len(models))
	for i, mo := range models {
		entities[i] = m.ToEntity(mo)
	}
	return entities
}
