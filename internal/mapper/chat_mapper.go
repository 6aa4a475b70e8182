package mapper

import (
	"pilotpro/internal/entity"
	"pilotpro/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ToModel(e *entity.StoredChatMessage) *model.ChatMessage {
	return &model.ChatMessage{
		Id:        e.Id,
		Username:  e.Username,
		Direction: string(e.Direction),
		Content:   e.Ciphertext,
		CreatedAt: e.CreatedAt,
	}
}

func (m *ChatMapper) ToEntity(mo *model.ChatMessage) *entity.StoredChatMessage {
	return &entity.StoredChatMessage{
		Id:         mo.Id,
		Username:   mo.Username,
		Direction:  entity.MessageDirection(mo.Direction),
		Ciphertext: mo.Content,
		CreatedAt:  mo.CreatedAt,
	}
}

func (m *ChatMapper) ToEntities(models []*model.ChatMessage) []*entity.StoredChatMessage {
	entities := make([]*entity.StoredChatMessage, len(models))
	for i, mo := range models {
		entities[i] = m.ToEntity(mo)
	}
	return entities
}
