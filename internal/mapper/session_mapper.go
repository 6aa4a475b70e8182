package mapper

import (
	"pilotpro/internal/entity"
	"pilotpro/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToModel(e *entity.Session) *model.Session {
	return &model.Session{
		TokenID:   e.TokenID,
		Username:  e.Username,
		Role:      string(e.Role),
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
	}
}

func (m *SessionMapper) ToEntity(mo *model.Session) *entity.Session {
	return &entity.Session{
		TokenID:   mo.TokenID,
		Username:  mo.Username,
		Role:      entity.UserRole(mo.Role),
		CreatedAt: mo.CreatedAt,
		ExpiresAt: mo.ExpiresAt,
	}
}
